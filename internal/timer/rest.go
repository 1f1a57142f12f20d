package timer

import (
	"context"
	"sync"
	"time"

	"github.com/pedro/titanlift/internal/bus"
	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
)

// RestState is the lifecycle position of one exercise's countdown.
type RestState string

const (
	RestIdle    RestState = "idle"
	RestRunning RestState = "running"
	RestPaused  RestState = "paused"
)

// DefaultRestPrefs applies on first use of an exercise.
var DefaultRestPrefs = models.RestPrefs{Minutes: 1, Seconds: 30}

// Rest manages the per-exercise rest countdowns. A running countdown is a
// persisted absolute end timestamp; remaining time is recomputed from it on
// every read. Paused remaining time is held only in memory, matching the
// original behavior where a reload during pause drops back to configuring.
type Rest struct {
	st  store.Store
	now Clock

	mu     sync.Mutex
	paused map[string]int64 // exerciseID -> remaining ms while paused
}

// NewRest returns a rest-timer manager over st. A nil clock uses time.Now.
func NewRest(st store.Store, now Clock) *Rest {
	if now == nil {
		now = time.Now
	}
	return &Rest{st: st, now: now, paused: make(map[string]int64)}
}

// Prefs returns the configured duration for an exercise, or the default.
func (r *Rest) Prefs(ctx context.Context, exerciseID string) models.RestPrefs {
	p := DefaultRestPrefs
	store.GetJSON(ctx, r.st, store.RestPrefsKey(exerciseID), &p)
	if p.Minutes < 0 {
		p.Minutes = 0
	}
	if p.Seconds < 0 || p.Seconds > 59 {
		p.Seconds = 0
	}
	return p
}

// Configure persists the rest duration for an exercise.
func (r *Rest) Configure(ctx context.Context, exerciseID string, p models.RestPrefs) error {
	if p.Minutes < 0 || p.Seconds < 0 || p.Seconds > 59 {
		return nil
	}
	return store.PutJSON(ctx, r.st, store.RestPrefsKey(exerciseID), p)
}

// Start begins a countdown from the configured duration. Silent no-op when
// the configured duration is zero.
func (r *Rest) Start(ctx context.Context, exerciseID string) error {
	d := r.Prefs(ctx, exerciseID).Duration()
	if d <= 0 {
		return nil
	}
	r.mu.Lock()
	delete(r.paused, exerciseID)
	r.mu.Unlock()
	end := r.now().Add(d).UnixMilli()
	return store.PutJSON(ctx, r.st, store.RestEndKey(exerciseID), end)
}

// Pause drops the persisted end timestamp and retains the remaining time in
// memory. No-op unless running.
func (r *Rest) Pause(ctx context.Context, exerciseID string) error {
	rem, state := r.Remaining(ctx, exerciseID)
	if state != RestRunning {
		return nil
	}
	if err := r.st.Delete(ctx, store.RestEndKey(exerciseID)); err != nil {
		return err
	}
	r.mu.Lock()
	r.paused[exerciseID] = rem
	r.mu.Unlock()
	return nil
}

// Resume restarts a paused countdown from the retained remaining time.
func (r *Rest) Resume(ctx context.Context, exerciseID string) error {
	r.mu.Lock()
	rem, ok := r.paused[exerciseID]
	delete(r.paused, exerciseID)
	r.mu.Unlock()
	if !ok || rem <= 0 {
		return nil
	}
	end := r.now().UnixMilli() + rem
	return store.PutJSON(ctx, r.st, store.RestEndKey(exerciseID), end)
}

// Reset clears both the persisted end timestamp and any paused remainder.
func (r *Rest) Reset(ctx context.Context, exerciseID string) error {
	r.mu.Lock()
	delete(r.paused, exerciseID)
	r.mu.Unlock()
	return r.st.Delete(ctx, store.RestEndKey(exerciseID))
}

// Remaining recomputes the countdown. An expired end timestamp is cleared as
// a side effect and reported as idle.
func (r *Rest) Remaining(ctx context.Context, exerciseID string) (ms int64, state RestState) {
	var end int64
	if ok, _ := store.GetJSON(ctx, r.st, store.RestEndKey(exerciseID), &end); ok && end > 0 {
		rem := end - r.now().UnixMilli()
		if rem <= 0 {
			r.st.Delete(ctx, store.RestEndKey(exerciseID))
			return 0, RestIdle
		}
		return rem, RestRunning
	}

	r.mu.Lock()
	rem, ok := r.paused[exerciseID]
	r.mu.Unlock()
	if ok && rem > 0 {
		return rem, RestPaused
	}
	return 0, RestIdle
}

// Display renders the remaining time as MM:SS.
func (r *Rest) Display(ctx context.Context, exerciseID string) string {
	ms, _ := r.Remaining(ctx, exerciseID)
	return FormatMS(ms)
}

// Watch subscribes this exercise's countdown to set-completion broadcasts:
// each event starts a fresh countdown from the configured duration. Returns
// the unsubscribe function.
func (r *Rest) Watch(ctx context.Context, b *bus.Bus, exerciseID string) func() {
	return b.Subscribe(exerciseID, func(id string) {
		r.Start(ctx, id)
	})
}

// WatchAll subscribes every exercise's countdown to set-completion
// broadcasts, covering exercises created after the subscription was made.
// Returns the unsubscribe function.
func (r *Rest) WatchAll(ctx context.Context, b *bus.Bus) func() {
	return b.SubscribeAll(func(id string) {
		r.Start(ctx, id)
	})
}
