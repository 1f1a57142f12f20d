package timer

import (
	"context"
	"testing"
	"time"

	"github.com/pedro/titanlift/internal/store"
)

func newElapsedTest() (*Elapsed, *store.Memory, *time.Time) {
	st := store.NewMemory()
	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	return NewElapsed(st, clock), st, &current
}

// TestElapsedRecompute verifies that elapsed time is derived from the start
// timestamp, not from tick delivery: advancing the clock is enough.
func TestElapsedRecompute(t *testing.T) {
	e, _, now := newElapsedTest()
	ctx := context.Background()

	if got := e.ElapsedMs(ctx); got != 0 {
		t.Fatalf("initial ElapsedMs = %d, want 0", got)
	}
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(5 * time.Second)
	if got := e.ElapsedMs(ctx); got != 5000 {
		t.Errorf("ElapsedMs after 5s = %d, want 5000", got)
	}

	// A long gap with no reads at all still counts in full.
	*now = now.Add(2 * time.Hour)
	if got := e.ElapsedMs(ctx); got != 5000+2*3600*1000 {
		t.Errorf("ElapsedMs after 2h gap = %d", got)
	}
}

// TestElapsedPauseResume verifies paused stretches do not count and the
// accumulated total carries across.
func TestElapsedPauseResume(t *testing.T) {
	e, _, now := newElapsedTest()
	ctx := context.Background()

	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(10 * time.Second)
	if err := e.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Running(ctx) {
		t.Error("Running after pause = true")
	}

	*now = now.Add(3 * time.Minute) // does not count
	if got := e.ElapsedMs(ctx); got != 10000 {
		t.Errorf("ElapsedMs while paused = %d, want 10000", got)
	}

	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(5 * time.Second)
	if got := e.ElapsedMs(ctx); got != 15000 {
		t.Errorf("ElapsedMs after resume = %d, want 15000", got)
	}

	// Double pause and double start are no-ops.
	if err := e.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.ElapsedMs(ctx); got != 15000 {
		t.Errorf("ElapsedMs after double pause = %d, want 15000", got)
	}
}

// TestElapsedSurvivesRestart verifies a second instance over the same store
// picks up a running stretch.
func TestElapsedSurvivesRestart(t *testing.T) {
	e, st, now := newElapsedTest()
	ctx := context.Background()

	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(30 * time.Second)

	clock := func() time.Time { return *now }
	reborn := NewElapsed(st, clock)
	if !reborn.Running(ctx) {
		t.Error("restarted instance must see the running stretch")
	}
	if got := reborn.ElapsedMs(ctx); got != 30000 {
		t.Errorf("restarted ElapsedMs = %d, want 30000", got)
	}
}

// TestElapsedReset verifies reset zeroes the total and stops the stretch.
func TestElapsedReset(t *testing.T) {
	e, _, now := newElapsedTest()
	ctx := context.Background()

	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(time.Minute)
	if err := e.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.ElapsedMs(ctx); got != 0 {
		t.Errorf("ElapsedMs after reset = %d, want 0", got)
	}
	if e.Running(ctx) {
		t.Error("Running after reset = true")
	}
}

// TestElapsedMalformedState verifies garbage persisted values read as zero.
func TestElapsedMalformedState(t *testing.T) {
	e, st, _ := newElapsedTest()
	ctx := context.Background()

	st.Put(ctx, store.KeyElapsedAccumulated, []byte(`"not a number"`))
	st.Put(ctx, store.KeyElapsedRunning, []byte(`true`))
	// Running flag with no start timestamp must not report running.
	if e.Running(ctx) {
		t.Error("Running with missing start = true")
	}
	if got := e.ElapsedMs(ctx); got != 0 {
		t.Errorf("ElapsedMs with malformed state = %d, want 0", got)
	}

	store.PutJSON(ctx, st, store.KeyElapsedAccumulated, int64(-500))
	if got := e.ElapsedMs(ctx); got != 0 {
		t.Errorf("ElapsedMs with negative accumulated = %d, want 0", got)
	}
}

// TestFormat covers the two display formats.
func TestFormat(t *testing.T) {
	tests := []struct {
		ms       int64
		hms, mms string
	}{
		{0, "00:00:00", "00:00"},
		{999, "00:00:00", "00:00"},
		{61000, "00:01:01", "01:01"},
		{3_725_000, "01:02:05", "62:05"},
		{-42, "00:00:00", "00:00"},
	}
	for _, tc := range tests {
		if got := FormatHMS(tc.ms); got != tc.hms {
			t.Errorf("FormatHMS(%d) = %q, want %q", tc.ms, got, tc.hms)
		}
		if got := FormatMS(tc.ms); got != tc.mms {
			t.Errorf("FormatMS(%d) = %q, want %q", tc.ms, got, tc.mms)
		}
	}
}
