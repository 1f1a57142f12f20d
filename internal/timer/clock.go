// Package timer holds the two wall-clock trackers of an active visit: the
// overall elapsed-time accumulator and the per-exercise rest countdown. Both
// store absolute timestamps and recompute on every read, so a suspended or
// reloaded app resumes with the correct value instead of drifting the way a
// tick-incremented counter would.
package timer

import "time"

// Clock supplies the current time. Production code uses time.Now; tests
// substitute a fake to simulate suspension.
type Clock func() time.Time
