package resilience

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

var ErrFlightPanicked = errors.New("single-flight call panicked")

// SingleFlight deduplicates concurrent calls for the same key. A panicking
// call is reported to every waiter as an error wrapping ErrFlightPanicked.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	var pc panics.Catcher
	pc.Try(func() {
		c.val, c.err = fn()
	})
	if recovered := pc.Recovered(); recovered != nil {
		c.val = nil
		c.err = fmt.Errorf("%w: %w", ErrFlightPanicked, recovered.AsError())
	}
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
