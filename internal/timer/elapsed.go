package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/pedro/titanlift/internal/store"
)

// Elapsed tracks total gym time for the current visit. It is global: it
// spans every template screen, survives reloads, and is not reset by
// finishing a workout. Only an explicit user reset zeroes it.
//
// State lives under three fixed keys: the accumulated total of all finished
// running stretches, the start timestamp of the current stretch, and the
// running flag. The displayed value is always recomputed from those.
type Elapsed struct {
	st  store.Store
	now Clock
}

// NewElapsed returns an elapsed-time timer over st. A nil clock uses
// time.Now.
func NewElapsed(st store.Store, now Clock) *Elapsed {
	if now == nil {
		now = time.Now
	}
	return &Elapsed{st: st, now: now}
}

// Start begins (or continues) a running stretch. No-op while running.
func (e *Elapsed) Start(ctx context.Context) error {
	acc, _, running := e.state(ctx)
	if running {
		return nil
	}
	if err := store.PutJSON(ctx, e.st, store.KeyElapsedAccumulated, acc); err != nil {
		return err
	}
	if err := store.PutJSON(ctx, e.st, store.KeyElapsedStart, e.now().UnixMilli()); err != nil {
		return err
	}
	return store.PutJSON(ctx, e.st, store.KeyElapsedRunning, true)
}

// Pause folds the current stretch into the accumulated total. No-op while
// paused.
func (e *Elapsed) Pause(ctx context.Context) error {
	acc, start, running := e.state(ctx)
	if !running {
		return nil
	}
	acc += e.sinceMs(start)
	if err := store.PutJSON(ctx, e.st, store.KeyElapsedAccumulated, acc); err != nil {
		return err
	}
	if err := e.st.Delete(ctx, store.KeyElapsedStart); err != nil {
		return err
	}
	return store.PutJSON(ctx, e.st, store.KeyElapsedRunning, false)
}

// Reset zeroes everything. The caller is responsible for having confirmed
// the action with the user.
func (e *Elapsed) Reset(ctx context.Context) error {
	if err := store.PutJSON(ctx, e.st, store.KeyElapsedAccumulated, int64(0)); err != nil {
		return err
	}
	if err := e.st.Delete(ctx, store.KeyElapsedStart); err != nil {
		return err
	}
	return store.PutJSON(ctx, e.st, store.KeyElapsedRunning, false)
}

// Running reports whether a stretch is in progress.
func (e *Elapsed) Running(ctx context.Context) bool {
	_, _, running := e.state(ctx)
	return running
}

// ElapsedMs returns the current total in milliseconds: accumulated plus the
// in-progress stretch if running. Never negative.
func (e *Elapsed) ElapsedMs(ctx context.Context) int64 {
	acc, start, running := e.state(ctx)
	if running {
		acc += e.sinceMs(start)
	}
	if acc < 0 {
		return 0
	}
	return acc
}

// Display formats the current total as HH:MM:SS.
func (e *Elapsed) Display(ctx context.Context) string {
	return FormatHMS(e.ElapsedMs(ctx))
}

// state loads the persisted triple, substituting zeros for anything missing
// or malformed.
func (e *Elapsed) state(ctx context.Context) (accMs, startMs int64, running bool) {
	store.GetJSON(ctx, e.st, store.KeyElapsedAccumulated, &accMs)
	store.GetJSON(ctx, e.st, store.KeyElapsedStart, &startMs)
	store.GetJSON(ctx, e.st, store.KeyElapsedRunning, &running)
	if accMs < 0 {
		accMs = 0
	}
	if running && startMs <= 0 {
		// Running flag without a start timestamp: report the timer as
		// stopped and let the accumulated total stand.
		running = false
	}
	return accMs, startMs, running
}

func (e *Elapsed) sinceMs(startMs int64) int64 {
	d := e.now().UnixMilli() - startMs
	if d < 0 {
		return 0
	}
	return d
}

// FormatHMS renders a millisecond total as HH:MM:SS, clamped to zero.
func FormatHMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// FormatMS renders a millisecond total as MM:SS, clamped to zero.
func FormatMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
