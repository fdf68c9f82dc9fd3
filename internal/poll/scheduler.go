package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"kopi-orderflow/internal/logger"

	"go.uber.org/zap"
)

// Config wires one polling session. Refresh produces a snapshot; Equal
// decides whether it differs from the previous one; OnChange receives only
// snapshots that differ and returns false to halt the scheduler (used when
// an order reaches a terminal status mid-session).
type Config[T any] struct {
	Interval time.Duration
	Refresh  func(ctx context.Context) (T, error)
	Equal    func(a, b T) bool
	OnChange func(T) bool
	// OnError is optional; refresh failures are deferred to the next tick
	// either way.
	OnError func(error)
}

// Scheduler runs at-most-one-in-flight periodic refreshes with change
// suppression. Refreshes execute on a single goroutine, so two refreshes of
// the same session can never overlap; ticks elapsing during a slow refresh
// are dropped.
type Scheduler[T any] struct {
	cfg Config[T]

	last    T
	hasLast bool

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	pokeCh    chan struct{}
	done      chan struct{}
}

func New[T any](cfg Config[T]) *Scheduler[T] {
	return &Scheduler[T]{
		cfg:    cfg,
		stopCh: make(chan struct{}),
		pokeCh: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the polling loop. The first refresh fires immediately, the
// rest on the configured interval. Start is a no-op after the first call.
func (s *Scheduler[T]) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run(ctx)
	})
}

func (s *Scheduler[T]) run(ctx context.Context) {
	defer close(s.done)

	if !s.tick(ctx) {
		return
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !s.tick(ctx) {
				return
			}
		case <-s.pokeCh:
			if !s.tick(ctx) {
				return
			}
		}
	}
}

// Poke requests an immediate out-of-band refresh (e.g. after losing a claim
// race) without waiting for the next tick. It still runs on the loop
// goroutine, so the no-overlap rule holds; pokes during a refresh collapse
// into one.
func (s *Scheduler[T]) Poke() {
	select {
	case s.pokeCh <- struct{}{}:
	default:
	}
}

// tick runs one refresh. It reports false when the session should halt.
func (s *Scheduler[T]) tick(ctx context.Context) bool {
	select {
	case <-s.stopCh:
		return false
	case <-ctx.Done():
		return false
	default:
	}

	next, err := s.cfg.Refresh(ctx)
	if err != nil {
		if s.cfg.OnError != nil {
			s.cfg.OnError(err)
		} else {
			logger.FromCtx(ctx).Warn("poll refresh failed, retrying on next tick", zap.Error(err))
		}
		return true
	}

	if s.hasLast && s.cfg.Equal(s.last, next) {
		return true
	}

	s.last = next
	s.hasLast = true

	return s.cfg.OnChange(next)
}

// Stop halts the session. It is idempotent and safe to call multiple times;
// once it returns, no further refresh will fire. Must not be called from
// within OnChange — return false there instead.
func (s *Scheduler[T]) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	if s.started.Load() {
		<-s.done
	}
}
