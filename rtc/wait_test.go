package rtc

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestWaitUntil(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name       string
		attempts   int
		readyAfter int
		want       bool
		sleeps     int
	}{
		{"ready at once", 10, 0, true, 0},
		{"ready in time", 10, 4, true, 4},
		{"ready on last poll", 10, 10, true, 10},
		{"timeout", 10, 11, false, 10},
		{"unbounded", 0, 5000, true, 5000},
	}
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			polls, sleeps := 0, 0
			ok := waitUntil(test.attempts, time.Millisecond, func(time.Duration) { sleeps++ }, func() bool {
				polls++
				return polls > test.readyAfter
			})
			c.Assert(ok, qt.Equals, test.want)
			c.Assert(sleeps, qt.Equals, test.sleeps)
		})
	}
}

func TestWaitUntilNoDelay(t *testing.T) {
	c := qt.New(t)
	n := 0
	ok := waitUntil(3, 0, func(time.Duration) { c.Fatal("unexpected sleep") }, func() bool {
		n++
		return false
	})
	c.Assert(ok, qt.IsFalse)
	c.Assert(n, qt.Equals, 4)
}
