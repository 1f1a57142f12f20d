package workout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
)

// RetentionWindow is how far back the working history reaches. Sessions
// older than this are pruned on load and are not recoverable afterwards.
const RetentionWindow = 30 * 24 * time.Hour

// Sessions returns the history, most recent first, after applying the
// retention window. A prune is written back so the dropped sessions stay
// dropped.
func (m *Manager) Sessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if _, err := store.GetJSON(ctx, m.st, store.KeySessions, &sessions); err != nil {
		return nil, err
	}

	cutoff := m.now().Add(-RetentionWindow)
	kept := sessions[:0]
	for _, s := range sessions {
		if !s.Date.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	if len(kept) < len(sessions) {
		if err := store.PutJSON(ctx, m.st, store.KeySessions, kept); err != nil {
			return nil, err
		}
	}
	return kept, nil
}

// Session looks up one history entry by id.
func (m *Manager) Session(ctx context.Context, id string) (models.WorkoutSession, bool, error) {
	sessions, err := m.Sessions(ctx)
	if err != nil {
		return models.WorkoutSession{}, false, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, true, nil
		}
	}
	return models.WorkoutSession{}, false, nil
}

// DeleteSession removes one session from history. Records set by it are
// kept: a PR, once earned, stands. Confirmation is the caller's job.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	sessions, err := m.Sessions(ctx)
	if err != nil {
		return err
	}
	kept := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(sessions) {
		return fmt.Errorf("session %s not found", id)
	}
	return store.PutJSON(ctx, m.st, store.KeySessions, kept)
}

// Records returns the personal-record map keyed by exercise id.
func (m *Manager) Records(ctx context.Context) (map[string]models.PersonalRecord, error) {
	records := make(map[string]models.PersonalRecord)
	if _, err := store.GetJSON(ctx, m.st, store.KeyRecords, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]models.PersonalRecord)
	}
	return records, nil
}

// RecordList returns the records sorted by exercise name for display.
func (m *Manager) RecordList(ctx context.Context) ([]models.PersonalRecord, error) {
	records, err := m.Records(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]models.PersonalRecord, 0, len(records))
	for _, r := range records {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExerciseName < list[j].ExerciseName })
	return list, nil
}

// ProgressPoint is one session's best weight for an exercise.
type ProgressPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// ProgressSeries returns the best-set weight per session for an exercise,
// oldest first, for charting. All sets count here; the chart shows what was
// attempted, the PR map shows what was achieved.
func (m *Manager) ProgressSeries(ctx context.Context, exerciseID string) ([]ProgressPoint, error) {
	sessions, err := m.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	var series []ProgressPoint
	for i := len(sessions) - 1; i >= 0; i-- {
		for _, ex := range sessions[i].Exercises {
			if ex.ExerciseID != exerciseID {
				continue
			}
			var best float64
			for _, s := range ex.Sets {
				if s.Weight > best {
					best = s.Weight
				}
			}
			series = append(series, ProgressPoint{Date: sessions[i].Date, Weight: best})
			break
		}
	}
	return series, nil
}
