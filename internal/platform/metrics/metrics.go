package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector keeps in-process request counters. Counters are written on the
// hot path with atomics; Snapshot reads are allowed to be slightly torn.
type Collector struct {
	started time.Time

	requests     atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
	rateLimited  atomic.Uint64
	durationMs   atomic.Uint64
}

func New() *Collector {
	return &Collector{started: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	c.durationMs.Add(uint64(duration.Milliseconds()))

	switch {
	case status == http.StatusTooManyRequests:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	requests := c.requests.Load()
	totalMs := c.durationMs.Load()

	avgMs := float64(0)
	if requests > 0 {
		avgMs = float64(totalMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":     requests,
		"clientErrorsTotal": c.clientErrors.Load(),
		"serverErrorsTotal": c.serverErrors.Load(),
		"rateLimitedTotal":  c.rateLimited.Load(),
		"avgDurationMs":     avgMs,
		"totalDurationMs":   totalMs,
		"uptimeSeconds":     int64(time.Since(c.started).Seconds()),
	}
}
