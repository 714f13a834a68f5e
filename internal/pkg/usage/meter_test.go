package usage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
)

// memUsageRepo is an in-memory UsageRepository with the same atomicity
// contract as the SQL implementation.
type memUsageRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMemUsageRepo() *memUsageRepo {
	return &memUsageRepo{counters: make(map[string]int64)}
}

func key(userID uint, day, kind string) string {
	return fmt.Sprintf("%d/%s/%s", userID, day, kind)
}

func (r *memUsageRepo) Get(userID uint, day, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[key(userID, day, kind)], nil
}

func (r *memUsageRepo) Increment(userID uint, day, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(userID, day, kind)
	r.counters[k]++
	return r.counters[k], nil
}

func (r *memUsageRepo) IncrementWithCeiling(userID uint, day, kind string, limit int64) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(userID, day, kind)
	if r.counters[k] >= limit {
		return false, r.counters[k], nil
	}
	r.counters[k]++
	return true, r.counters[k], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckAndIncrementStopsAtLimit(t *testing.T) {
	repo := newMemUsageRepo()
	meter := NewMeterWithClock(repo, fixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	limit := tiers.Limit(5)
	for i := 1; i <= 5; i++ {
		d, err := meter.CheckAndIncrement(1, tiers.CounterFlameCalls, limit)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("increment %d denied below limit", i)
		}
		if d.Current != int64(i) {
			t.Errorf("increment %d: current = %d", i, d.Current)
		}
	}

	d, err := meter.CheckAndIncrement(1, tiers.CounterFlameCalls, limit)
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed {
		t.Error("sixth call allowed past a limit of 5")
	}
	if d.Current != 5 {
		t.Errorf("counter overshot: %d", d.Current)
	}
	if d.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", d.Remaining())
	}
}

func TestConcurrentCallersNeverOverAdmit(t *testing.T) {
	repo := newMemUsageRepo()
	meter := NewMeterWithClock(repo, fixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	const callers = 50
	limit := tiers.Limit(10)

	var wg sync.WaitGroup
	allowed := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := meter.CheckAndIncrement(7, tiers.CounterTruthReads, limit)
			if err != nil {
				t.Error(err)
				return
			}
			allowed <- d.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	wins := 0
	for a := range allowed {
		if a {
			wins++
		}
	}
	if wins != int(limit) {
		t.Errorf("admitted %d callers, want exactly %d", wins, limit)
	}

	value, _ := repo.Get(7, "2026-03-14", string(tiers.CounterTruthReads))
	if value != int64(limit) {
		t.Errorf("counter = %d, want %d", value, limit)
	}
}

func TestUnlimitedCountsButNeverDenies(t *testing.T) {
	repo := newMemUsageRepo()
	meter := NewMeterWithClock(repo, fixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	for i := 1; i <= 20; i++ {
		d, err := meter.CheckAndIncrement(2, tiers.CounterTruthReads, tiers.Unlimited)
		if err != nil {
			t.Fatal(err)
		}
		if !d.Allowed {
			t.Fatalf("unlimited call %d denied", i)
		}
		if d.Current != int64(i) {
			t.Errorf("unlimited counter not tracking: %d != %d", d.Current, i)
		}
	}

	if r := (Decision{Limit: tiers.Unlimited, Current: 20}).Remaining(); !r.IsUnlimited() {
		t.Errorf("remaining on unlimited = %d", r)
	}
}

func TestZeroLimitDeniesWithoutCounting(t *testing.T) {
	repo := newMemUsageRepo()
	meter := NewMeterWithClock(repo, fixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	d, err := meter.CheckAndIncrement(3, tiers.CounterAPICalls, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed {
		t.Error("zero limit admitted a call")
	}
	if value, _ := repo.Get(3, "2026-03-14", string(tiers.CounterAPICalls)); value != 0 {
		t.Errorf("zero-limit denial incremented the counter to %d", value)
	}
}

func TestCountersRollOverAtMidnightUTC(t *testing.T) {
	repo := newMemUsageRepo()
	day1 := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)

	meter := NewMeterWithClock(repo, fixedClock(day1))
	limit := tiers.Limit(1)
	if d, _ := meter.CheckAndIncrement(4, tiers.CounterTruthPosts, limit); !d.Allowed {
		t.Fatal("first post denied")
	}
	if d, _ := meter.CheckAndIncrement(4, tiers.CounterTruthPosts, limit); d.Allowed {
		t.Fatal("second post same day allowed")
	}

	meter = NewMeterWithClock(repo, fixedClock(day2))
	if d, _ := meter.CheckAndIncrement(4, tiers.CounterTruthPosts, limit); !d.Allowed {
		t.Error("post after midnight UTC denied")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	repo := newMemUsageRepo()
	meter := NewMeterWithClock(repo, fixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	limit := tiers.Limit(2)
	for i := 0; i < 5; i++ {
		d, err := meter.Peek(5, tiers.CounterFlameCalls, limit)
		if err != nil {
			t.Fatal(err)
		}
		if !d.Allowed || d.Current != 0 {
			t.Fatalf("peek changed state: %+v", d)
		}
	}

	meter.CheckAndIncrement(5, tiers.CounterFlameCalls, limit)
	meter.CheckAndIncrement(5, tiers.CounterFlameCalls, limit)
	d, _ := meter.Peek(5, tiers.CounterFlameCalls, limit)
	if d.Allowed {
		t.Error("peek allowed at the ceiling")
	}
}
