package rtc

// Oscillator selects the clock source driving the counter prescaler.
type Oscillator uint8

const (
	// OscillatorLSE is the external 32.768 kHz crystal. Waiting for it is bounded; if it
	// never comes up the counter is left on it anyway and keeps poor time.
	OscillatorLSE Oscillator = iota
	// OscillatorLSI is the internal RC oscillator. It always starts, so waiting for it is
	// unbounded.
	OscillatorLSI
)

// Frequency returns the nominal frequency in Hz.
func (o Oscillator) Frequency() uint32 {
	switch o {
	case OscillatorLSI:
		return 40000
	default:
		return 32768
	}
}

// Prescaler returns the divisor that yields one counter tick per second.
func (o Oscillator) Prescaler() uint32 {
	return o.Frequency() - 1
}

func (o Oscillator) String() string {
	switch o {
	case OscillatorLSE:
		return "LSE"
	case OscillatorLSI:
		return "LSI"
	default:
		return "unknown"
	}
}
