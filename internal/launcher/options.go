package launcher

import (
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultStagger matches the spawn pause the harness has always used. Spawning
// faster than this tends to exhaust ephemeral ports and file descriptors at
// high run counts.
const DefaultStagger = 150 * time.Microsecond

// Options configure the Launcher.
type Options struct {
	URL     string        // shared read-only target
	Runs    int           // number of workers, one request each
	Stagger time.Duration // pause between successive spawns (0 disables pacing)
	Timeout time.Duration // per-request timeout (0 means wait indefinitely)
	Tracer  trace.Tracer  // optional per-probe span source

	// LimiterFactory builds the spawn pacer; injectable for tests.
	LimiterFactory func(stagger time.Duration) *rate.Limiter
}

func (o *Options) normalize() {
	if o.Runs < 0 {
		o.Runs = 0
	}
	if o.Stagger < 0 {
		o.Stagger = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(stagger time.Duration) *rate.Limiter {
			if stagger <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			return rate.NewLimiter(rate.Every(stagger), 1)
		}
	}
}
