package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/clock"
	"go.uber.org/zap"
)

// Schedule binds a runner to its interval and an optional new-block signal.
type Schedule struct {
	Runner   *Runner
	Interval time.Duration
	// Signal wakes the runner early; nil disables it.
	Signal <-chan struct{}
}

// Scheduler drives one independent loop per network.
type Scheduler struct {
	schedules []Schedule
	byName    map[string]*Runner
	logger    *zap.Logger
	wait      func(ctx context.Context, d time.Duration, signal <-chan struct{}) (bool, error)
}

// NewScheduler validates schedules and indexes runners by network name.
func NewScheduler(logger *zap.Logger, schedules ...Schedule) (*Scheduler, error) {
	byName := make(map[string]*Runner, len(schedules))
	for _, s := range schedules {
		if s.Runner == nil {
			return nil, errors.New("schedule runner is required")
		}
		if s.Interval <= 0 {
			return nil, fmt.Errorf("schedule interval for %s must be positive", s.Runner.Network().Name)
		}
		name := s.Runner.Network().Name
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("network %s scheduled twice", name)
		}
		byName[name] = s.Runner
	}

	return &Scheduler{
		schedules: schedules,
		byName:    byName,
		logger:    logger.Named("scheduler"),
		wait:      clock.WaitOrSignal,
	}, nil
}

// Run starts every loop and blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, sched := range s.schedules {
		sched := sched
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, sched)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Scheduler) loop(ctx context.Context, sched Schedule) {
	logger := s.logger.With(
		zap.String("network", sched.Runner.Network().Name),
		zap.Duration("interval", sched.Interval),
	)
	logger.Info("scheduler started")
	signal := sched.Signal

	for {
		if ctx.Err() != nil {
			logger.Info("scheduler stopped")
			return
		}

		res, err := sched.Runner.RunCycle(ctx)
		if err != nil {
			logger.Warn("cycle failed", zap.Error(err))
		} else {
			logger.Debug("cycle finished",
				zap.String("outcome", string(res.Outcome)),
				zap.Int("applied", res.Applied),
			)
		}

		// A batch that stopped short of the safe height continues on the next tick.
		signalled, err := s.wait(ctx, sched.Interval, signal)
		if err != nil {
			logger.Info("scheduler stopped")
			return
		}
		if signalled {
			logger.Debug("woken by block signal")
		}
	}
}

// Runner returns the runner of a network.
func (s *Scheduler) Runner(network string) (*Runner, bool) {
	r, ok := s.byName[network]
	return r, ok
}

// Runners returns every scheduled runner in schedule order.
func (s *Scheduler) Runners() []*Runner {
	out := make([]*Runner, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched.Runner)
	}
	return out
}

// Trigger runs one cycle of network now, outside its timer.
func (s *Scheduler) Trigger(ctx context.Context, network string) (CycleResult, error) {
	r, ok := s.byName[network]
	if !ok {
		return CycleResult{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}
	s.logger.Info("manual cycle requested", zap.String("network", network))
	return r.RunCycle(ctx)
}
