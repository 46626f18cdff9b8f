package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("1x2#0", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_DoReportsPanicAsError(t *testing.T) {
	var g SingleFlight

	_, err, shared := g.Do("btts#0", func() (any, error) {
		panic("corrupt bundle")
	})
	if shared {
		t.Fatalf("expected first caller to own the call")
	}
	if !errors.Is(err, ErrFlightPanicked) {
		t.Fatalf("expected ErrFlightPanicked, got %v", err)
	}

	v, err, _ := g.Do("btts#0", func() (any, error) {
		return "recovered", nil
	})
	if err != nil || v != "recovered" {
		t.Fatalf("expected key to be reusable after panic, got %v %v", v, err)
	}
}
