// Package launcher spawns one probe goroutine per requested run, paces the
// spawns, and joins completions in strict ordinal order.
//
// The result arena is allocated once up front and partitioned by ordinal id:
// each worker owns exclusive write access to exactly one slot, and the joiner
// reads a slot only after that worker's completion signal. No locks or atomics
// guard the slots.
package launcher

import (
	"context"
	"fmt"

	"github.com/torosent/volley/internal/probe"
)

type Launcher struct {
	opt     Options
	results []probe.Result
	done    []chan struct{}
	spawned int
}

func New(opt Options) *Launcher {
	opt.normalize()
	return &Launcher{opt: opt}
}

// Launch allocates the result arena and spawns all workers, inserting the
// stagger pause after each spawn. Cancellation mid-spawn is fatal: the error
// names the ordinal that was not spawned and the caller must not produce a
// report.
func (l *Launcher) Launch(ctx context.Context) error {
	l.results = make([]probe.Result, l.opt.Runs)
	l.done = make([]chan struct{}, l.opt.Runs)
	l.spawned = 0

	limiter := l.opt.LimiterFactory(l.opt.Stagger)
	p := &probe.Probe{Timeout: l.opt.Timeout, Tracer: l.opt.Tracer}

	for i := 0; i < l.opt.Runs; i++ {
		res := &l.results[i]
		res.Ordinal = i
		res.URL = l.opt.URL

		ch := make(chan struct{})
		l.done[i] = ch
		go func() {
			defer close(ch)
			p.Run(ctx, res)
		}()
		l.spawned++

		// Pause after every spawn, the last one included, matching the
		// original pacing behavior.
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("spawn interrupted before ordinal %d: %w", i+1, err)
		}
	}
	return nil
}

// Join blocks until every spawned worker has signaled completion, in spawn
// order, then fills in each slot's elapsed time from its start/end pair.
// A worker that panics takes the process down with the runtime's diagnostic,
// which is the fatal path: Join never observes a half-written slot.
func (l *Launcher) Join() []probe.Result {
	for i := 0; i < l.spawned; i++ {
		<-l.done[i]
		res := &l.results[i]
		res.Elapsed = res.End.Sub(res.Start)
	}
	return l.results[:l.spawned]
}

// Run is Launch followed by Join.
func (l *Launcher) Run(ctx context.Context) ([]probe.Result, error) {
	if err := l.Launch(ctx); err != nil {
		return nil, err
	}
	return l.Join(), nil
}
