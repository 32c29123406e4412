package rtc

import "time"

// waitUntil polls ready until it reports true. Between polls it sleeps for delay. With a
// non-zero attempts it gives up after that many failed polls and returns false; with
// attempts == 0 it never gives up.
func waitUntil(attempts int, delay time.Duration, sleep func(time.Duration), ready func() bool) bool {
	for n := 0; !ready(); n++ {
		if attempts > 0 && n >= attempts {
			return false
		}
		if delay > 0 {
			sleep(delay)
		}
	}
	return true
}
