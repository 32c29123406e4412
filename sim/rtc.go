// Package sim provides simulated hardware for the clock: a counter peripheral with its
// backup domain, a text display, output pins and a log. It backs the package tests and
// the clocksim host program.
package sim

import (
	"fmt"

	"tinygo.org/x/rtcclock/rtc"
)

// RTC simulates the counter peripheral. The zero value is an empty backup domain after a
// software reset, with an oscillator that is ready on the first poll.
type RTC struct {
	Value     uint32
	Prescaler uint32
	Alarm     uint32
	Backup    uint16
	Cause     rtc.ResetCause

	InterruptsEnabled bool
	Handler           func()
	TickFlag          bool
	AlarmFlag         bool

	Oscillator   rtc.Oscillator
	OscillatorOn bool
	Selected     bool
	// ReadyAfter is the number of OscillatorReady polls answered false before the
	// oscillator reports ready. Negative means it never does.
	ReadyAfter int
	// SyncAfter is the number of Synced polls answered false after ClearSync.
	SyncAfter int

	// TickAfterReads makes the counter tick right after that many counter word reads,
	// to land a rollover between two reads. Zero disables it.
	TickAfterReads int

	// Journal lists every state-changing call in order.
	Journal []string

	polls       int
	syncPolls   int
	synced      bool
	configuring bool
	reads       int
}

var _ rtc.Registers = (*RTC)(nil)

// NewRTC returns a peripheral in the state a board is in right after flashing: an empty
// backup domain and no reset flags other than the debugger's system reset.
func NewRTC() *RTC {
	return &RTC{}
}

func (r *RTC) log(format string, args ...interface{}) {
	r.Journal = append(r.Journal, fmt.Sprintf(format, args...))
}

func (r *RTC) read() {
	r.reads++
	if r.TickAfterReads > 0 && r.reads == r.TickAfterReads {
		r.Tick()
	}
}

func (r *RTC) ReadHigh() uint16 {
	v := uint16(r.Value >> 16)
	r.read()
	return v
}

func (r *RTC) ReadLow() uint16 {
	v := uint16(r.Value)
	r.read()
	return v
}

// Reads returns the number of counter word reads so far.
func (r *RTC) Reads() int {
	return r.reads
}

func (r *RTC) BeginConfig() {
	r.configuring = true
	r.log("begin config")
}

func (r *RTC) EndConfig() {
	r.configuring = false
	r.log("end config")
}

func (r *RTC) mustConfigure(what string) {
	if !r.configuring {
		panic("sim: " + what + " written outside configuration mode")
	}
}

func (r *RTC) SetPrescaler(div uint32) {
	r.mustConfigure("prescaler")
	r.Prescaler = div
	r.log("prescaler %d", div)
}

func (r *RTC) SetCounter(v uint32) {
	r.mustConfigure("counter")
	r.Value = v
	r.log("counter %#x", v)
}

func (r *RTC) SetAlarm(v uint32) {
	r.mustConfigure("alarm")
	r.Alarm = v
	r.log("alarm %#x", v)
}

func (r *RTC) EnableInterrupts() {
	r.InterruptsEnabled = true
	r.log("enable interrupts")
}

func (r *RTC) AttachHandler(h func()) {
	r.Handler = h
	r.log("attach handler")
}

func (r *RTC) TickPending() bool  { return r.TickFlag }
func (r *RTC) AlarmPending() bool { return r.AlarmFlag }
func (r *RTC) ClearTickFlag()     { r.TickFlag = false }
func (r *RTC) ClearAlarmFlag()    { r.AlarmFlag = false }

func (r *RTC) Sentinel() uint16 { return r.Backup }

func (r *RTC) SetSentinel(v uint16) {
	r.Backup = v
	r.log("sentinel %#x", v)
}

func (r *RTC) UnlockBackup() {
	r.log("unlock backup")
}

// ResetBackupDomain clears everything kept in the backup domain.
func (r *RTC) ResetBackupDomain() {
	r.Value, r.Prescaler, r.Alarm, r.Backup = 0, 0, 0, 0
	r.InterruptsEnabled = false
	r.TickFlag, r.AlarmFlag = false, false
	r.OscillatorOn, r.Selected = false, false
	r.polls = 0
	r.log("reset backup domain")
}

func (r *RTC) ResetCause() rtc.ResetCause { return r.Cause }

func (r *RTC) ClearResetFlags() {
	r.Cause = 0
	r.log("clear reset flags")
}

func (r *RTC) EnableOscillator(o rtc.Oscillator) {
	r.Oscillator = o
	r.OscillatorOn = true
	r.log("enable %s", o)
}

func (r *RTC) OscillatorReady(o rtc.Oscillator) bool {
	if !r.OscillatorOn || o != r.Oscillator || r.ReadyAfter < 0 {
		return false
	}
	if r.polls < r.ReadyAfter {
		r.polls++
		return false
	}
	return true
}

// Polls returns the number of OscillatorReady polls answered false.
func (r *RTC) Polls() int {
	return r.polls
}

func (r *RTC) SelectOscillator(o rtc.Oscillator) {
	r.Oscillator = o
	r.Selected = true
	r.log("select %s", o)
}

func (r *RTC) ClearSync() {
	r.synced = false
	r.syncPolls = 0
	r.log("clear sync")
}

func (r *RTC) Synced() bool {
	if !r.synced && r.syncPolls >= r.SyncAfter {
		r.synced = true
	}
	r.syncPolls++
	return r.synced
}

// Reboot simulates a reset with the given cause. The backup domain survives.
func (r *RTC) Reboot(cause rtc.ResetCause) {
	r.Cause = cause
	r.Handler = nil
	r.Journal = nil
	r.reads = 0
}

// Tick advances the counter by one second and latches the tick flag, and the alarm flag
// when the counter reaches the alarm value. The counter does not move in configuration
// mode.
func (r *RTC) Tick() {
	if r.configuring {
		return
	}
	r.Value++
	r.TickFlag = true
	if r.Value == r.Alarm {
		r.AlarmFlag = true
	}
}

// maxReentry bounds Service for a handler that never clears its flag, which on hardware
// would lock the core in the vector.
const maxReentry = 4

// Service runs the attached handler while an enabled interrupt is pending, the way the
// interrupt controller re-enters a vector whose flags are still set. Nothing runs in
// configuration mode, where the interrupt is masked. It returns the number of handler
// invocations.
func (r *RTC) Service() int {
	if r.configuring {
		return 0
	}
	n := 0
	for n < maxReentry && r.InterruptsEnabled && r.Handler != nil && (r.TickFlag || r.AlarmFlag) {
		r.Handler()
		n++
	}
	return n
}
