// Package clock refreshes the clock face from the counter interrupt.
//
// The counter peripheral raises the one-second tick and the alarm on one shared vector.
// Dispatcher.Handle is that vector's handler: on a tick it reads the counter, decodes it
// and redraws the display; on the alarm it drives the relay line low.
package clock

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"tinygo.org/x/rtcclock/calendar"
	"tinygo.org/x/rtcclock/diag"
	"tinygo.org/x/rtcclock/pin"
)

// Source is the counter peripheral as seen from the interrupt handler. *rtc.Device
// implements it.
type Source interface {
	Counter() uint32
	TickPending() bool
	AlarmPending() bool
	ClearTick()
	ClearAlarm()
}

// Sink is a buffered text display. Nothing reaches the panel until Display is called.
//
// The text passed to DrawText is only valid for the duration of the call: the dispatcher
// formats into a buffer it reuses, since the interrupt path must not allocate.
type Sink interface {
	ClearBuffer()
	DrawText(x, y int16, text string)
	Display() error
}

// Event is what one Handle call did.
type Event uint8

const (
	EventNone        Event = iota // no flag was pending
	EventTick                     // the display was redrawn
	EventTickSkipped              // tick acknowledged, display not ready
	EventAlarm                    // the alarm fired
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventTick:
		return "tick"
	case EventTickSkipped:
		return "tick skipped"
	case EventAlarm:
		return "alarm"
	default:
		return "Event(" + strconv.Itoa(int(e)) + ")"
	}
}

// Screen positions, for a 128x64 panel.
const (
	dateX, dateY       = 0, 0
	weekdayX, weekdayY = 0, 16
	timeX, timeY       = 32, 48
)

type Dispatcher struct {
	src   Source
	sink  Sink
	relay pin.Output

	// Log receives the alarm notice and display errors. Defaults to diag.Discard.
	Log diag.Logger

	ready atomic.Bool

	// owned by Handle; only one tick is ever in flight
	moment calendar.Moment
	line   [32]byte
}

// errDisplay is logged when committing the frame fails. The error text is dropped: building
// it would allocate inside the interrupt.
const errDisplay = "display: refresh failed"

func New(src Source, sink Sink, relay pin.Output) *Dispatcher {
	return &Dispatcher{
		src:   src,
		sink:  sink,
		relay: relay,
		Log:   diag.Discard,
	}
}

// SetReady marks the display as initialized. Until then ticks are acknowledged without
// touching the counter or the display.
func (d *Dispatcher) SetReady(ready bool) {
	d.ready.Store(ready)
}

// Ready reports whether the display has been marked ready.
func (d *Dispatcher) Ready() bool {
	return d.ready.Load()
}

// Moment returns the most recently decoded moment. It must not be called concurrently
// with Handle.
func (d *Dispatcher) Moment() calendar.Moment {
	return d.moment
}

// Handle services the counter interrupt. The tick flag is checked first and at most one
// event is handled per call: when the tick and the alarm are both pending the alarm is
// left for the next call, which the still-set flag triggers.
func (d *Dispatcher) Handle() Event {
	switch {
	case d.src.TickPending():
		d.src.ClearTick()
		if !d.ready.Load() {
			return EventTickSkipped
		}
		d.refresh()
		return EventTick
	case d.src.AlarmPending():
		d.src.ClearAlarm()
		d.relay.Set(false)
		d.Log.Println("Alarm!")
		return EventAlarm
	}
	return EventNone
}

func (d *Dispatcher) refresh() {
	calendar.DecodeInto(&d.moment, d.src.Counter())

	d.sink.ClearBuffer()
	d.sink.DrawText(dateX, dateY, bufString(appendDate(d.line[:0], &d.moment)))
	d.sink.DrawText(weekdayX, weekdayY, d.moment.WeekdayName())
	d.sink.DrawText(timeX, timeY, bufString(appendTime(d.line[:0], &d.moment)))

	if err := d.sink.Display(); err != nil {
		d.Log.Println(errDisplay)
	}
}

// bufString returns b as a string without copying. b must not change while the string is
// in use.
func bufString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// FormatDate returns m as shown on the first line, e.g. "December 31 2020".
func FormatDate(m calendar.Moment) string {
	return string(appendDate(nil, &m))
}

// FormatTime returns m's wall clock time as shown on the last line, e.g. "19:00:00".
func FormatTime(m calendar.Moment) string {
	return string(appendTime(nil, &m))
}

func appendDate(b []byte, m *calendar.Moment) []byte {
	b = append(b, m.MonthName()...)
	b = append(b, ' ')
	b = appendTwoDigits(b, m.Date)
	b = append(b, ' ')
	return strconv.AppendUint(b, uint64(m.Year), 10)
}

func appendTime(b []byte, m *calendar.Moment) []byte {
	b = appendTwoDigits(b, m.Hour)
	b = append(b, ':')
	b = appendTwoDigits(b, m.Minute)
	b = append(b, ':')
	return appendTwoDigits(b, m.Second)
}

func appendTwoDigits(b []byte, v uint8) []byte {
	if v < 10 {
		b = append(b, '0')
	}
	return strconv.AppendUint(b, uint64(v), 10)
}
