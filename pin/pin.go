// Package pin holds the clock's single-line digital I/O: the relay output, the status
// LED blink patterns and the edge-toggle diagnostic.
package pin

import "time"

// Output is a digital output line. machine.Pin implements it.
type Output interface {
	Set(level bool)
	Get() bool
}

// Toggle inverts the level of o.
func Toggle(o Output) {
	o.Set(!o.Get())
}

// Pattern is one period of a status blink.
type Pattern struct {
	On  time.Duration
	Off time.Duration
}

var (
	// Heartbeat is the normal-mode blink: a short flash once per second.
	Heartbeat = Pattern{On: 100 * time.Millisecond, Off: 900 * time.Millisecond}
	// FailureBlink is a steady fast blink shown when the display could not be
	// initialized.
	FailureBlink = Pattern{On: 500 * time.Millisecond, Off: 500 * time.Millisecond}
)

// Blinker drives a status LED.
type Blinker struct {
	Pin Output
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Cycle runs one period of p: the LED on for p.On, then off for p.Off.
func (b *Blinker) Cycle(p Pattern) {
	sleep := b.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	b.Pin.Set(true)
	sleep(p.On)
	b.Pin.Set(false)
	sleep(p.Off)
}

// Run repeats p forever.
func (b *Blinker) Run(p Pattern) {
	for {
		b.Cycle(p)
	}
}
