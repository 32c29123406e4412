package rtc

const (
	Sentinel          = 0xDEAD     // Backup register value marking a completed cold start
	DefaultStart      = 0x68A53A90 // Counter value seeded on cold start
	DefaultAlarmDelay = 15         // Seconds from DefaultStart to the alarm

	DefaultReadyAttempts = 1000 // LSE ready polls before giving up
)

// Registers is the counter peripheral and the backup domain it lives in. Every method maps
// onto a register access; none of them can fail.
type Registers interface {
	// ReadHigh and ReadLow read the two halves of the 32-bit counter. They are not read
	// atomically; see Device.Counter.
	ReadHigh() uint16
	ReadLow() uint16

	// BeginConfig and EndConfig bracket writes to the prescaler, counter and alarm
	// registers. The counter stops while in configuration mode, and the counter
	// interrupt is held off until EndConfig so that a handler never sees a half-written
	// counter.
	BeginConfig()
	EndConfig()
	SetPrescaler(div uint32)
	SetCounter(v uint32)
	SetAlarm(v uint32)

	// EnableInterrupts sets the one-second and alarm interrupt enable bits.
	EnableInterrupts()
	// AttachHandler registers handler on the counter interrupt vector and unmasks it.
	AttachHandler(handler func())

	TickPending() bool
	AlarmPending() bool
	ClearTickFlag()
	ClearAlarmFlag()

	// Sentinel and SetSentinel access the battery-backed register.
	Sentinel() uint16
	SetSentinel(v uint16)

	UnlockBackup()
	ResetBackupDomain()
	ResetCause() ResetCause
	ClearResetFlags()

	EnableOscillator(o Oscillator)
	OscillatorReady(o Oscillator) bool
	SelectOscillator(o Oscillator)

	// ClearSync clears the registers-synchronized flag; Synced reports whether the
	// hardware has set it again.
	ClearSync()
	Synced() bool
}

// ResetCause is the set of reset flags latched by the reset controller.
type ResetCause uint8

const (
	ResetPowerOn ResetCause = 1 << iota // power-on/power-down reset
	ResetPin                            // external nRST pin
)

// Has reports whether every flag in f is set.
func (c ResetCause) Has(f ResetCause) bool {
	return c&f == f
}
