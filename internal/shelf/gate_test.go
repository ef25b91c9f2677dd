package shelf

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGateLimitsConcurrency(t *testing.T) {
	const limit = 3
	g := NewGate(limit)

	var inside, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Enter()
			defer g.Leave()

			n := inside.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > limit {
		t.Errorf("observed %d concurrent entrants, want at most %d", p, limit)
	}
}
