package diag

import (
	"bytes"
	"errors"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestWriter(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	l := NewWriter(&buf)
	c.Assert(l.Println("Alarm!"), qt.IsNil)
	c.Assert(l.Println("Could not start LSE."), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "Alarm!\nCould not start LSE.\n")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("uart gone") }

func TestWriterError(t *testing.T) {
	c := qt.New(t)
	err := NewWriter(brokenWriter{}).Println("x")
	c.Assert(err, qt.ErrorMatches, "uart gone")
}

func TestDiscard(t *testing.T) {
	c := qt.New(t)
	c.Assert(Discard.Println("anything"), qt.IsNil)
}

func TestWriterDoesNotAllocate(t *testing.T) {
	c := qt.New(t)
	l := NewWriter(io.Discard)
	allocs := testing.AllocsPerRun(100, func() {
		l.Println("Alarm!")
	})
	c.Assert(allocs, qt.Equals, float64(0))
}

func TestWriterEmptyLine(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(NewWriter(&buf).Println(""), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "\n")
}
