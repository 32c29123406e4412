// Package diag carries the clock's diagnostic stream: short, human-readable, one-line
// notices with no consumer contract. Writes are best effort.
package diag

import (
	"io"
	"unsafe"
)

// Logger receives one-line notices. Implementations must not block for long or allocate;
// loggers are called from interrupt handlers.
type Logger interface {
	Println(string) error
}

type writer struct {
	w io.Writer
}

// NewWriter returns a Logger that writes each message followed by a newline to w, e.g.
// machine.Serial on a board or os.Stdout on a host.
func NewWriter(w io.Writer) Logger {
	return writer{w: w}
}

var newline = []byte{'\n'}

// Println writes msg and then a newline. The message bytes are handed to the writer in
// place, so logging from an interrupt does not allocate.
func (l writer) Println(msg string) error {
	if len(msg) > 0 {
		// io.Writer implementations must not modify p
		if _, err := l.w.Write(unsafe.Slice(unsafe.StringData(msg), len(msg))); err != nil {
			return err
		}
	}
	_, err := l.w.Write(newline)
	return err
}

type discard struct{}

func (discard) Println(string) error { return nil }

// Discard drops every message.
var Discard Logger = discard{}
