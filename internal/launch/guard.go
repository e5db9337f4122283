// internal/launch/guard.go
package launch

import "sync/atomic"

// flowGuard admits one invocation of a flow at a time.
type flowGuard struct {
	busy atomic.Bool
}

func (g *flowGuard) acquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrFlowInFlight
	}
	return nil
}

func (g *flowGuard) release() {
	g.busy.Store(false)
}

func (g *flowGuard) inFlight() bool {
	return g.busy.Load()
}
