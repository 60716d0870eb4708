package fetch

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimiter spaces requests to a host for politeness. The walk targets a
// single catalog host, but per-host bookkeeping keeps cover downloads from
// third-party image hosts independent of the catalog's pacing.
type RateLimiter struct {
	hostLastRequest   map[string]time.Time
	hostLastRequestMu sync.Mutex
	delay             time.Duration
	log               *logrus.Logger
}

// NewRateLimiter creates a RateLimiter with the configured per-host delay.
// A zero delay disables pacing entirely.
func NewRateLimiter(delay time.Duration, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		hostLastRequest: make(map[string]time.Time),
		delay:           delay,
		log:             log,
	}
}

// Wait blocks until the configured delay since the last request to host has
// elapsed, then records the new request time. Safe for concurrent use; two
// callers for the same host serialize their slots under the lock, so the
// sleep itself happens outside it.
func (rl *RateLimiter) Wait(host string) {
	if rl.delay <= 0 {
		return
	}

	rl.hostLastRequestMu.Lock()
	now := time.Now()
	last, seen := rl.hostLastRequest[host]
	var sleepFor time.Duration
	if seen {
		next := last.Add(rl.delay)
		if next.After(now) {
			sleepFor = next.Sub(now)
		}
	}
	// Reserve our slot before sleeping so concurrent callers stack up
	// behind us instead of sharing the same window.
	rl.hostLastRequest[host] = now.Add(sleepFor)
	rl.hostLastRequestMu.Unlock()

	if sleepFor > 0 {
		rl.log.WithFields(logrus.Fields{"host": host, "delay": sleepFor}).Debug("Rate limit delay")
		time.Sleep(sleepFor)
	}
}
