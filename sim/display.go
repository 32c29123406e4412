package sim

import (
	"strings"
)

// Text is one DrawText call.
type Text struct {
	X, Y int16
	Text string
}

// Frame is the content of a committed buffer, in draw order.
type Frame []Text

// String returns the frame's texts, one per line.
func (f Frame) String() string {
	lines := make([]string, len(f))
	for i, t := range f {
		lines[i] = t.Text
	}
	return strings.Join(lines, "\n")
}

// Display is a text display that records what was drawn and committed.
type Display struct {
	// Err is returned from Display when set, and the buffer is not committed.
	Err error

	Clears int
	Frames []Frame

	buf Frame
}

func (d *Display) ClearBuffer() {
	d.buf = d.buf[:0]
	d.Clears++
}

// DrawText records a copy of text; the caller may reuse its backing memory.
func (d *Display) DrawText(x, y int16, text string) {
	d.buf = append(d.buf, Text{X: x, Y: y, Text: strings.Clone(text)})
}

func (d *Display) Display() error {
	if d.Err != nil {
		return d.Err
	}
	d.Frames = append(d.Frames, append(Frame(nil), d.buf...))
	return nil
}

// Buffer returns the uncommitted buffer content.
func (d *Display) Buffer() Frame {
	return d.buf
}

// Last returns the most recently committed frame, or nil.
func (d *Display) Last() Frame {
	if len(d.Frames) == 0 {
		return nil
	}
	return d.Frames[len(d.Frames)-1]
}
