// Package rtc drives a 32-bit seconds counter of the kind found on STM32F1 and CH32V20x
// parts: a free-running counter split over two 16-bit registers, an alarm comparator, a
// prescaler and a battery-backed register, all living in the backup domain.
//
// The register file is injected through Registers so that the cold-start protocol and the
// counter read can run against a simulation.
package rtc

import (
	"time"

	"tinygo.org/x/rtcclock/diag"
)

type Device struct {
	regs Registers

	// Log receives the oscillator timeout notice. Defaults to diag.Discard.
	Log diag.Logger
	// Sleep is used between oscillator polls. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

type Config struct {
	Oscillator Oscillator
	// Start is the counter value seeded on cold start. Zero selects DefaultStart.
	Start uint32
	// AlarmDelay is the number of seconds after Start at which the alarm fires. Zero
	// selects DefaultAlarmDelay.
	AlarmDelay uint32
	// ReadyAttempts bounds the LSE ready wait. Zero selects DefaultReadyAttempts.
	ReadyAttempts int
	// ReadyDelay is the pause between LSE ready polls. Zero selects 1ms.
	ReadyDelay time.Duration
}

// Status describes what Configure did.
type Status struct {
	// ColdStart is set when the backup domain was reset and the counter reseeded.
	ColdStart bool
	// OscillatorTimeout is set when the oscillator did not report ready in time.
	OscillatorTimeout bool
}

func New(regs Registers) *Device {
	return &Device{
		regs:  regs,
		Log:   diag.Discard,
		Sleep: time.Sleep,
	}
}

// ColdStartNeeded reports whether the backup domain must be reset and the counter
// reseeded. A reset from the nRST pin always forces a reseed. Otherwise a reseed happens
// only when the reset was not a power-on reset and the sentinel is missing, which covers
// the first boot after flashing.
func (d *Device) ColdStartNeeded() bool {
	cause := d.regs.ResetCause()
	return (!cause.Has(ResetPowerOn) && d.regs.Sentinel() != Sentinel) || cause.Has(ResetPin)
}

// Configure brings the counter up. On a cold start it resets the backup domain, starts the
// oscillator, programs a one second tick, seeds the counter and the alarm and enables the
// tick and alarm interrupts. On a warm start the running counter is left alone. In both
// cases handler is attached to the counter interrupt, and Configure returns only once the
// counter registers are synchronized and safe to read.
//
// Configure blocks: it must run once at boot, never from an interrupt.
func (d *Device) Configure(cfg Config, handler func()) Status {
	if cfg.Start == 0 {
		cfg.Start = DefaultStart
	}
	if cfg.AlarmDelay == 0 {
		cfg.AlarmDelay = DefaultAlarmDelay
	}
	if cfg.ReadyAttempts == 0 {
		cfg.ReadyAttempts = DefaultReadyAttempts
	}
	if cfg.ReadyDelay == 0 {
		cfg.ReadyDelay = time.Millisecond
	}

	var status Status
	d.regs.UnlockBackup()

	if d.ColdStartNeeded() {
		status.ColdStart = true
		d.regs.ClearResetFlags()

		// the clock source can only be changed after a backup domain reset
		d.regs.ResetBackupDomain()

		status.OscillatorTimeout = !d.startOscillator(cfg)

		d.regs.BeginConfig()
		d.regs.SetPrescaler(cfg.Oscillator.Prescaler())
		d.regs.SetCounter(cfg.Start)
		d.regs.SetAlarm(cfg.Start + cfg.AlarmDelay)
		d.regs.EnableInterrupts()
		d.regs.EndConfig()

		d.regs.SetSentinel(Sentinel)
	}

	// the interrupt controller does not live in the backup domain, so the vector is
	// unmasked on every boot
	if handler != nil {
		d.regs.AttachHandler(handler)
	}

	d.regs.ClearSync()
	waitUntil(0, 0, d.Sleep, d.regs.Synced)
	return status
}

// startOscillator enables the configured oscillator and selects it as the counter clock.
// It returns false if the oscillator did not come up; it is selected regardless.
func (d *Device) startOscillator(cfg Config) bool {
	o := cfg.Oscillator
	d.regs.EnableOscillator(o)

	var ready bool
	switch o {
	case OscillatorLSI:
		ready = waitUntil(0, 0, d.Sleep, func() bool { return d.regs.OscillatorReady(o) })
	default:
		ready = waitUntil(cfg.ReadyAttempts, cfg.ReadyDelay, d.Sleep, func() bool { return d.regs.OscillatorReady(o) })
		if !ready {
			d.Log.Println("Could not start " + o.String() + ".")
		}
	}

	d.regs.SelectOscillator(o)
	return ready
}

// Counter reads the 32-bit counter. The high word is read on both sides of the low word;
// if it changed, the low word rolled over in between and is read again, so the result
// never pairs a stale high word with a fresh low word or the other way around.
func (d *Device) Counter() uint32 {
	high1 := d.regs.ReadHigh()
	low := d.regs.ReadLow()
	high2 := d.regs.ReadHigh()
	if high1 != high2 {
		return uint32(high2)<<16 | uint32(d.regs.ReadLow())
	}
	return uint32(high1)<<16 | uint32(low)
}

// SetCounter sets the counter to v. It may be called while the counter interrupt is
// live: the write happens in configuration mode, which holds the interrupt off.
func (d *Device) SetCounter(v uint32) {
	d.regs.BeginConfig()
	d.regs.SetCounter(v)
	d.regs.EndConfig()
}

// SetAlarm arms the alarm to fire when the counter reaches v.
func (d *Device) SetAlarm(v uint32) {
	d.regs.BeginConfig()
	d.regs.SetAlarm(v)
	d.regs.EndConfig()
}

// Sentinel returns the current value of the backup register.
func (d *Device) Sentinel() uint16 {
	return d.regs.Sentinel()
}

func (d *Device) TickPending() bool  { return d.regs.TickPending() }
func (d *Device) AlarmPending() bool { return d.regs.AlarmPending() }
func (d *Device) ClearTick()         { d.regs.ClearTickFlag() }
func (d *Device) ClearAlarm()        { d.regs.ClearAlarmFlag() }
