package indexer

import "sync/atomic"

// cycleGuard admits one cycle at a time without blocking the losers.
type cycleGuard struct {
	running atomic.Bool
}

func (g *cycleGuard) tryEnter() bool {
	return g.running.CompareAndSwap(false, true)
}

func (g *cycleGuard) leave() {
	g.running.Store(false)
}
