package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDispatchCountsAddUp(t *testing.T) {
	recipients := make([]int64, 50)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	// Every third recipient fails; the fan-out must keep going.
	success, failed := Dispatch(recipients, 4, func(chatID int64) error {
		if chatID%3 == 0 {
			return errors.New("blocked")
		}
		return nil
	})

	if success+failed != len(recipients) {
		t.Errorf("success %d + failed %d != %d recipients", success, failed, len(recipients))
	}
	if failed != 16 {
		t.Errorf("failed = %d, want 16", failed)
	}
}

func TestDispatchDeliversToEveryRecipient(t *testing.T) {
	recipients := []int64{5, 6, 7, 8}
	var mu sync.Mutex
	seen := make(map[int64]int)

	success, failed := Dispatch(recipients, 2, func(chatID int64) error {
		mu.Lock()
		seen[chatID]++
		mu.Unlock()
		return nil
	})

	if success != len(recipients) || failed != 0 {
		t.Errorf("success = %d, failed = %d", success, failed)
	}
	for _, id := range recipients {
		if seen[id] != 1 {
			t.Errorf("recipient %d sent %d times", id, seen[id])
		}
	}
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	const limit = 3
	recipients := make([]int64, 40)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	var inFlight, peak atomic.Int64
	barrier := make(chan struct{}, limit)

	Dispatch(recipients, limit, func(chatID int64) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		barrier <- struct{}{}
		<-barrier
		inFlight.Add(-1)
		return nil
	})

	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrency = %d, limit %d", p, limit)
	}
}

func TestDispatchEdgeCases(t *testing.T) {
	success, failed := Dispatch(nil, 8, func(int64) error { return nil })
	if success != 0 || failed != 0 {
		t.Errorf("empty recipients: success = %d, failed = %d", success, failed)
	}

	// A non-positive limit is clamped instead of deadlocking.
	success, failed = Dispatch([]int64{1, 2}, 0, func(int64) error { return nil })
	if success != 2 || failed != 0 {
		t.Errorf("clamped limit: success = %d, failed = %d", success, failed)
	}
}
