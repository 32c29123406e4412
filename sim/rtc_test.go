package sim

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTickStopsInConfigMode(t *testing.T) {
	c := qt.New(t)
	r := NewRTC()
	r.BeginConfig()
	r.Tick()
	c.Assert(r.Value, qt.Equals, uint32(0))
	c.Assert(r.TickFlag, qt.IsFalse)
	r.EndConfig()
	r.Tick()
	c.Assert(r.Value, qt.Equals, uint32(1))
	c.Assert(r.TickFlag, qt.IsTrue)
}

func TestWriteOutsideConfigMode(t *testing.T) {
	c := qt.New(t)
	r := NewRTC()
	c.Assert(func() { r.SetCounter(5) }, qt.PanicMatches, "sim: counter written outside configuration mode")
}

func TestService(t *testing.T) {
	c := qt.New(t)
	r := NewRTC()
	r.Alarm = 1
	r.Tick()
	c.Assert(r.Service(), qt.Equals, 0)

	calls := 0
	r.InterruptsEnabled = true
	r.Handler = func() {
		calls++
		if r.TickFlag {
			r.ClearTickFlag()
			return
		}
		r.ClearAlarmFlag()
	}
	c.Assert(r.Service(), qt.Equals, 2)
	c.Assert(calls, qt.Equals, 2)

	// a handler that never clears its flag is cut off
	r.Handler = func() {}
	r.Tick()
	c.Assert(r.Service(), qt.Equals, maxReentry)
}

func TestServiceMaskedInConfigMode(t *testing.T) {
	c := qt.New(t)
	r := NewRTC()
	r.Value = 0x0001FFFF
	r.InterruptsEnabled = true
	var seen []uint32
	r.Handler = func() {
		seen = append(seen, r.Value)
		r.ClearTickFlag()
	}
	r.Tick()

	r.BeginConfig()
	r.SetCounter(0x00050000)
	c.Assert(r.Service(), qt.Equals, 0)
	r.EndConfig()

	c.Assert(r.Service(), qt.Equals, 1)
	c.Assert(seen, qt.DeepEquals, []uint32{0x00050000})
}

func TestDisplay(t *testing.T) {
	c := qt.New(t)
	var d Display
	c.Assert(d.Last(), qt.IsNil)
	d.ClearBuffer()
	d.DrawText(0, 0, "a")
	d.DrawText(0, 16, "b")
	c.Assert(d.Display(), qt.IsNil)
	d.ClearBuffer()
	d.DrawText(0, 0, "c")
	c.Assert(d.Last().String(), qt.Equals, "a\nb")
	c.Assert(d.Buffer(), qt.DeepEquals, Frame{{Text: "c"}})
	c.Assert(d.Clears, qt.Equals, 2)
}
