// Package console implements a line-oriented serial console for reading and setting the
// counter, one command per line:
//
//	now               print the counter and the decoded time
//	set <epoch>       set the counter (decimal or 0x hex)
//	alarm <seconds>   arm the alarm that many seconds from now
//	sentinel          print the backup register
//	help              list the commands
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"tinygo.org/x/rtcclock/calendar"
	"tinygo.org/x/rtcclock/clock"
)

// Clock is the counter as seen by the console. *rtc.Device implements it.
type Clock interface {
	Counter() uint32
	SetCounter(v uint32)
	SetAlarm(v uint32)
	Sentinel() uint16
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// idlePoll is how long Run waits before reading again from a reader that had no data.
const idlePoll = 10 * time.Millisecond

type Console struct {
	clock Clock

	// Sleep is used while waiting for input. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

func New(c Clock) *Console {
	return &Console{clock: c, Sleep: time.Sleep}
}

const help = `now               print the counter and the decoded time
set <epoch>       set the counter (decimal or 0x hex)
alarm <seconds>   arm the alarm that many seconds from now
sentinel          print the backup register
help              list the commands`

// Exec runs one command line and returns its output, without a trailing newline.
func (c *Console) Exec(line string) (string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return "", nil
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "now":
		if len(args) != 0 {
			return "", fmt.Errorf("%w: now", ErrUsage)
		}
		return describe(c.clock.Counter()), nil
	case "set":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: set <epoch>", ErrUsage)
		}
		v, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return "", fmt.Errorf("set: bad epoch %q: %w", args[0], err)
		}
		c.clock.SetCounter(uint32(v))
		return describe(uint32(v)), nil
	case "alarm":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: alarm <seconds>", ErrUsage)
		}
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return "", fmt.Errorf("alarm: bad delay %q: %w", args[0], err)
		}
		if n == 0 {
			return "", errors.New("alarm: delay must be at least one second")
		}
		at := c.clock.Counter() + uint32(n)
		c.clock.SetAlarm(at)
		return "alarm at " + describe(at), nil
	case "sentinel":
		return fmt.Sprintf("%#04x", c.clock.Sentinel()), nil
	case "help", "?":
		return help, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}
}

func describe(v uint32) string {
	m := calendar.Decode(v)
	return strconv.FormatUint(uint64(v), 10) + " " +
		clock.FormatDate(m) + " " + m.WeekdayName() + " " + clock.FormatTime(m)
}

// Run executes commands read from r line by line and writes their output to w. A failed
// command prints an error line and does not stop the console. Run returns when r reports
// an error or io.EOF.
//
// A read returning no data and no error, as a UART with an empty receive buffer does, is
// retried after a short sleep.
func (c *Console) Run(r io.Reader, w io.Writer) error {
	s := bufio.NewScanner(idleReader{r: r, sleep: c.sleep})
	for s.Scan() {
		out, err := c.Exec(s.Text())
		switch {
		case err != nil:
			out = "error: " + err.Error()
		case out == "":
			continue
		}
		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return err
		}
	}
	return s.Err()
}

func (c *Console) sleep(d time.Duration) {
	if c.Sleep == nil {
		time.Sleep(d)
		return
	}
	c.Sleep(d)
}

// idleReader turns empty reads into waiting, so that bufio.Scanner does not give up on a
// quiet line with io.ErrNoProgress.
type idleReader struct {
	r     io.Reader
	sleep func(time.Duration)
}

func (r idleReader) Read(p []byte) (int, error) {
	for {
		n, err := r.r.Read(p)
		if n > 0 || err != nil || len(p) == 0 {
			return n, err
		}
		r.sleep(idlePoll)
	}
}
