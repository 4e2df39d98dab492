// Package indexer walks a network from its checkpoint towards the confirmed tip.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/internal/model"
	"go.uber.org/zap"
)

// Outcome classifies a cycle.
type Outcome string

const (
	// OutcomeApplied means at least one block was applied.
	OutcomeApplied Outcome = "applied"
	// OutcomeIdle means the checkpoint was already at the safe height.
	OutcomeIdle Outcome = "idle"
	// OutcomeSkipped means another cycle of the same network was still running.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the cycle stopped on an error.
	OutcomeFailed Outcome = "failed"
)

// CycleResult describes what one cycle did.
type CycleResult struct {
	Network    string  `json:"network"`
	Outcome    Outcome `json:"outcome"`
	Tip        uint64  `json:"tip"`
	SafeHeight uint64  `json:"safe_height"`
	From       uint64  `json:"from,omitempty"`
	To         uint64  `json:"to,omitempty"`
	Applied    int     `json:"applied"`
	CaughtUp   bool    `json:"caught_up"`
	Error      string  `json:"error,omitempty"`
}

// RunnerConfig holds the per-network cycle parameters.
type RunnerConfig struct {
	Network         model.Network
	Confirmations   uint64
	BatchSize       uint64
	SkipParentCheck bool
}

// Runner executes indexing cycles for one network. Cycles never overlap: a call made
// while another is in progress returns immediately with OutcomeSkipped.
type Runner struct {
	cfg        RunnerConfig
	source     Source
	normalizer Normalizer
	store      Store
	metrics    Metrics
	logger     *zap.Logger
	guard      cycleGuard

	// Guarded by guard.
	initialized bool
	lastHeight  uint64
	lastHash    *string

	healthy atomic.Bool
	mu      sync.RWMutex
	last    CycleResult
}

// NewRunner builds a Runner for cfg.Network.
func NewRunner(
	cfg RunnerConfig,
	source Source,
	normalizer Normalizer,
	store Store,
	metrics Metrics,
	logger *zap.Logger,
) (*Runner, error) {
	if source == nil || normalizer == nil || store == nil {
		return nil, errors.New("runner source, normalizer and store are required")
	}
	if metrics == nil {
		return nil, errors.New("runner metrics is required")
	}
	if cfg.BatchSize == 0 {
		return nil, errors.New("runner batch size must be positive")
	}

	r := &Runner{
		cfg:        cfg,
		source:     source,
		normalizer: normalizer,
		store:      store,
		metrics:    metrics,
		logger:     logger.Named("runner").With(zap.String("network", cfg.Network.Name)),
	}
	r.healthy.Store(true)
	return r, nil
}

// Network returns the network this runner indexes.
func (r *Runner) Network() model.Network {
	return r.cfg.Network
}

// Healthy reports whether the last completed cycle finished without an error.
func (r *Runner) Healthy() bool {
	return r.healthy.Load()
}

// LastResult returns the result of the last completed cycle.
func (r *Runner) LastResult() CycleResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// RunCycle applies the next batch of confirmed blocks. Per-block failures are recorded in
// the checkpoint and reported in the result; the returned error is non-nil only when the
// cycle failed.
func (r *Runner) RunCycle(ctx context.Context) (CycleResult, error) {
	started := time.Now()
	if !r.guard.tryEnter() {
		r.logger.Debug("previous cycle still running, skipping")
		r.metrics.ObserveCycle(string(OutcomeSkipped), started)
		return CycleResult{Network: r.cfg.Network.Name, Outcome: OutcomeSkipped}, nil
	}
	defer r.guard.leave()

	res, err := r.runCycle(ctx)
	res.Network = r.cfg.Network.Name
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
	}

	r.metrics.ObserveCycle(string(res.Outcome), started)
	r.healthy.Store(err == nil)
	r.mu.Lock()
	r.last = res
	r.mu.Unlock()
	return res, err
}

func (r *Runner) runCycle(ctx context.Context) (CycleResult, error) {
	var res CycleResult

	tip, err := r.tip(ctx)
	if err != nil {
		r.logger.Warn("chain tip unavailable, retrying next cycle", zap.Error(err))
		return res, err
	}

	safeHeight := uint64(0)
	if tip > r.cfg.Confirmations {
		safeHeight = tip - r.cfg.Confirmations
	}
	res.Tip, res.SafeHeight = tip, safeHeight
	r.metrics.SetSafeHeight(safeHeight)

	start := r.lastHeight + 1
	if start > safeHeight {
		r.logger.Debug("already up to date",
			zap.Uint64("last_processed", r.lastHeight),
			zap.Uint64("safe_height", safeHeight),
		)
		res.Outcome = OutcomeIdle
		res.CaughtUp = true
		return res, nil
	}
	end := min(start+r.cfg.BatchSize-1, safeHeight)
	res.From, res.To = start, end

	r.logger.Info("starting cycle",
		zap.Uint64("from", start),
		zap.Uint64("to", end),
		zap.Uint64("safe_height", safeHeight),
	)

	res.Outcome = OutcomeIdle
	for height := start; height <= end; height++ {
		blockStarted := time.Now()
		err := r.processBlock(ctx, height)
		if errors.Is(err, chain.ErrNotFound) {
			r.logger.Debug("block not produced yet, ending walk", zap.Uint64("height", height))
			return res, nil
		}
		r.metrics.ObserveBlock(err, height, blockStarted)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			return res, r.recordFailure(ctx, height, err)
		}
		res.Applied++
		res.Outcome = OutcomeApplied
	}

	if end >= safeHeight {
		if err := r.store.SaveState(ctx, r.cfg.Network.ID, model.IndexerStateUpdate{
			IsSyncing: boolPtr(false),
		}); err != nil {
			return res, fmt.Errorf("mark caught up: %w", err)
		}
		res.CaughtUp = true
		r.logger.Info("caught up", zap.Uint64("height", end))
	}
	return res, nil
}

// tip returns the current chain height, (re)initializing the source and reloading the
// checkpoint when the runner is not initialized or the cached connection went stale.
func (r *Runner) tip(ctx context.Context) (uint64, error) {
	if !r.initialized {
		if err := r.initialize(ctx); err != nil {
			return 0, err
		}
		return r.source.CurrentHeight(ctx)
	}

	tip, err := r.source.CurrentHeight(ctx)
	if err == nil {
		return tip, nil
	}
	r.logger.Warn("tip query failed, reconnecting", zap.Error(err))
	r.initialized = false
	if err := r.initialize(ctx); err != nil {
		return 0, err
	}
	return r.source.CurrentHeight(ctx)
}

func (r *Runner) initialize(ctx context.Context) error {
	if err := r.source.Connect(ctx); err != nil {
		return fmt.Errorf("connect source: %w", err)
	}
	state, err := r.store.LoadState(ctx, r.cfg.Network.ID)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	r.lastHeight, r.lastHash = 0, nil
	if state != nil {
		r.lastHeight, r.lastHash = state.LastIndexedHeight, state.LastIndexedHash
	}
	r.initialized = true
	r.logger.Info("initialized", zap.Uint64("last_height", r.lastHeight))
	return nil
}

func (r *Runner) processBlock(ctx context.Context, height uint64) error {
	raw, err := r.source.FetchBlock(ctx, height)
	if err != nil {
		return err
	}
	if !r.cfg.SkipParentCheck && r.lastHash != nil && height == r.lastHeight+1 && raw.ParentHash() != *r.lastHash {
		return parentMismatch(height, *r.lastHash, raw.ParentHash())
	}

	block, err := r.normalizer.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if err := r.store.ApplyBlock(ctx, block); err != nil {
		return err
	}

	hash := block.Block.Hash
	r.lastHeight, r.lastHash = height, &hash
	r.logger.Debug("block applied",
		zap.Uint64("height", height),
		zap.Int("transactions", len(block.Transactions)),
	)
	return nil
}

func (r *Runner) recordFailure(ctx context.Context, height uint64, cause error) error {
	message := fmt.Sprintf("failed at block %d: %v", height, cause)
	r.logger.Error("failed to process block", zap.Uint64("height", height), zap.Error(cause))

	failure := fmt.Errorf("block %d: %w", height, cause)
	if err := r.store.SaveState(ctx, r.cfg.Network.ID, model.IndexerStateUpdate{
		IsSyncing:    boolPtr(false),
		ErrorMessage: &message,
	}); err != nil {
		r.logger.Error("failed to record block failure", zap.Uint64("height", height), zap.Error(err))
		return errors.Join(failure, fmt.Errorf("record failure: %w", err))
	}
	return failure
}

func boolPtr(v bool) *bool {
	return &v
}
