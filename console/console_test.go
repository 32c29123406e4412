package console

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type fakeClock struct {
	counter  uint32
	alarm    uint32
	sentinel uint16
}

func (f *fakeClock) Counter() uint32     { return f.counter }
func (f *fakeClock) SetCounter(v uint32) { f.counter = v }
func (f *fakeClock) SetAlarm(v uint32)   { f.alarm = v }
func (f *fakeClock) Sentinel() uint16    { return f.sentinel }

func TestExec(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		line string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"now", "1609459200 December 31 2020 Thursday 19:00:00"},
		{"NOW", "1609459200 December 31 2020 Thursday 19:00:00"},
		{"sentinel", "0xdead"},
		{"alarm 60", "alarm at 1609459260 December 31 2020 Thursday 19:01:00"},
		{"set 1709164800", "1709164800 February 28 2024 Wednesday 19:00:00"},
		{"set '0x68A53A90'", "1755658896 August 19 2025 Tuesday 22:01:36"},
	}
	for _, test := range tests {
		c.Run(test.line, func(c *qt.C) {
			con := New(&fakeClock{counter: 1609459200, sentinel: 0xDEAD})
			out, err := con.Exec(test.line)
			c.Assert(err, qt.IsNil)
			c.Assert(out, qt.Equals, test.want)
		})
	}
}

func TestExecSideEffects(t *testing.T) {
	c := qt.New(t)
	f := &fakeClock{counter: 1000}
	con := New(f)

	_, err := con.Exec("alarm 15")
	c.Assert(err, qt.IsNil)
	c.Assert(f.alarm, qt.Equals, uint32(1015))

	_, err = con.Exec("set 0x10")
	c.Assert(err, qt.IsNil)
	c.Assert(f.counter, qt.Equals, uint32(16))
}

func TestExecErrors(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		line string
		err  string
	}{
		{"reboot", `unknown command "reboot"`},
		{"set", "usage: set <epoch>"},
		{"set 1 2", "usage: set <epoch>"},
		{"set 4294967296", `set: bad epoch "4294967296": .*`},
		{"set soon", `set: bad epoch "soon": .*`},
		{"alarm 0", "alarm: delay must be at least one second"},
		{"alarm -5", `alarm: bad delay "-5": strconv.ParseUint: parsing "-5": invalid syntax`},
		{"now please", "usage: now"},
		{`set "1`, `parse .*`},
	}
	for _, test := range tests {
		c.Run(test.line, func(c *qt.C) {
			f := &fakeClock{counter: 1000}
			_, err := New(f).Exec(test.line)
			c.Assert(err, qt.ErrorMatches, test.err)
			c.Assert(f.counter, qt.Equals, uint32(1000))
			c.Assert(f.alarm, qt.Equals, uint32(0))
		})
	}

	_, err := New(&fakeClock{}).Exec("alarm soon")
	c.Assert(errors.Is(err, strconv.ErrSyntax), qt.IsTrue)
	_, err = New(&fakeClock{}).Exec("frobnicate")
	c.Assert(errors.Is(err, ErrUnknownCommand), qt.IsTrue)
	_, err = New(&fakeClock{}).Exec("set")
	c.Assert(errors.Is(err, ErrUsage), qt.IsTrue)
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	f := &fakeClock{counter: 1609459200, sentinel: 0xDEAD}
	in := strings.NewReader("now\n\nbogus\nsentinel\n")
	var out bytes.Buffer

	c.Assert(New(f).Run(in, &out), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "1609459200 December 31 2020 Thursday 19:00:00\n"+
		"error: unknown command \"bogus\"\n"+
		"0xdead\n")
}

// uart hands out its input a chunk at a time, with empty reads in between, and reports
// io.EOF when drained.
type uart struct {
	chunks []string
	idle   int
	reads  int
}

func (u *uart) Read(p []byte) (int, error) {
	u.reads++
	if len(u.chunks) == 0 {
		return 0, io.EOF
	}
	if u.reads%(u.idle+1) != 0 {
		return 0, nil
	}
	n := copy(p, u.chunks[0])
	u.chunks = u.chunks[1:]
	return n, nil
}

func TestRunIdleUART(t *testing.T) {
	c := qt.New(t)
	f := &fakeClock{counter: 1609459200, sentinel: 0xDEAD}
	in := &uart{chunks: []string{"no", "w\n", "sentinel\n"}, idle: 150}
	var out bytes.Buffer
	var slept []time.Duration

	con := New(f)
	con.Sleep = func(d time.Duration) { slept = append(slept, d) }
	c.Assert(con.Run(in, &out), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "1609459200 December 31 2020 Thursday 19:00:00\n0xdead\n")
	c.Assert(slept, qt.HasLen, 3*150)
	c.Assert(slept[0], qt.Equals, idlePoll)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("framing error") }

func TestRunReadError(t *testing.T) {
	c := qt.New(t)
	err := New(&fakeClock{}).Run(failingReader{}, io.Discard)
	c.Assert(err, qt.ErrorMatches, "framing error")
}
