package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
)

// recordingResolver captures the batches it was asked to resolve.
type recordingResolver struct {
	mu      sync.Mutex
	batches [][]string
	results []models.CityWeatherResult
}

func (r *recordingResolver) ResolveCitiesWeather(ctx context.Context, names []string) []models.CityWeatherResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, names)
	if r.results != nil {
		return r.results
	}
	out := make([]models.CityWeatherResult, 0, len(names))
	for _, name := range names {
		out = append(out, models.CityWeatherResult{CityName: name})
	}
	return out
}

func (r *recordingResolver) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// TestWarmer_Warm verifies the warmer passes the city list through to the
// resolver once.
func TestWarmer_Warm(t *testing.T) {
	resolver := &recordingResolver{}
	warmer := NewWarmer(resolver, zap.NewNop())

	cities := []string{"Monterrey", "Guadalajara"}
	warmer.Warm(context.Background(), cities)

	if resolver.batchCount() != 1 {
		t.Fatalf("resolver called %d times, want 1", resolver.batchCount())
	}
	if len(resolver.batches[0]) != 2 || resolver.batches[0][0] != "Monterrey" {
		t.Errorf("resolved batch = %v, want %v", resolver.batches[0], cities)
	}
}

// TestWarmer_Warm_ToleratesFailures verifies per-city errors do not abort
// warming.
func TestWarmer_Warm_ToleratesFailures(t *testing.T) {
	resolver := &recordingResolver{results: []models.CityWeatherResult{
		{CityName: "Monterrey"},
		{CityName: "Atlantis", Error: "Failed to process Atlantis: lookup failed"},
	}}
	warmer := NewWarmer(resolver, zap.NewNop())

	// Must complete without panicking even when some cities fail.
	warmer.Warm(context.Background(), []string{"Monterrey", "Atlantis"})

	if resolver.batchCount() != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.batchCount())
	}
}

// TestWarmer_WarmPeriodic_SingleStartupWarm verifies the initial warm-up runs
// exactly once before the first tick, so callers need no separate Warm call.
func TestWarmer_WarmPeriodic_SingleStartupWarm(t *testing.T) {
	resolver := &recordingResolver{}
	warmer := NewWarmer(resolver, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- warmer.WarmPeriodic(ctx, []string{"Monterrey"}, time.Hour)
	}()

	deadline := time.After(2 * time.Second)
	for resolver.batchCount() < 1 {
		select {
		case <-deadline:
			t.Fatal("initial warm did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// With an hour-long interval, no second warm should follow the first.
	time.Sleep(50 * time.Millisecond)
	if got := resolver.batchCount(); got != 1 {
		t.Errorf("warm ran %d times before first tick, want 1", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WarmPeriodic did not return after cancellation")
	}
}

// TestWarmer_WarmPeriodic verifies an immediate warm-up, periodic refreshes
// and a clean exit on context cancellation.
func TestWarmer_WarmPeriodic(t *testing.T) {
	resolver := &recordingResolver{}
	warmer := NewWarmer(resolver, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- warmer.WarmPeriodic(ctx, []string{"Monterrey"}, 10*time.Millisecond)
	}()

	deadline := time.After(2 * time.Second)
	for resolver.batchCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("periodic warm did not re-run")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("WarmPeriodic() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WarmPeriodic did not return after cancellation")
	}
}
