package workout

import (
	"context"
	"fmt"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
)

// Finalize converts the current draft into an immutable session, updates
// personal records, and clears the draft. History and records are computed
// in full before either is written, so a failed write leaves the draft in
// place and the pair uncommitted.
//
// Only completed sets count toward records, and only a strictly greater
// weight replaces one; an equal weight leaves reps and date untouched.
func (m *Manager) Finalize(ctx context.Context, templateID string) (*models.WorkoutSession, error) {
	draft, ok := m.readDraft(ctx, templateID)
	if !ok {
		return nil, fmt.Errorf("no active draft for template %s", templateID)
	}

	templateName := models.CustomTemplateName
	if tpl, found, err := m.Template(ctx, templateID); err != nil {
		return nil, err
	} else if found {
		templateName = tpl.Name
	}

	session := models.WorkoutSession{
		ID:           m.newID(),
		TemplateID:   templateID,
		TemplateName: templateName,
		Date:         m.now(),
		Exercises:    models.CloneExercises(draft),
		DurationMs:   m.elapsed.ElapsedMs(ctx),
	}

	records, err := m.Records(ctx)
	if err != nil {
		return nil, err
	}
	for _, ex := range session.Exercises {
		best, found := bestCompletedSet(ex)
		if !found || best.Weight <= 0 {
			continue
		}
		prev, exists := records[ex.ExerciseID]
		if exists && best.Weight <= prev.Weight {
			continue
		}
		records[ex.ExerciseID] = models.PersonalRecord{
			ExerciseID:   ex.ExerciseID,
			ExerciseName: ex.Name,
			Weight:       best.Weight,
			Reps:         best.Reps,
			Date:         session.Date,
		}
		session.NewPRExerciseIDs = append(session.NewPRExerciseIDs, ex.ExerciseID)
	}

	sessions, err := m.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions = append([]models.WorkoutSession{session}, sessions...)

	if err := store.PutJSON(ctx, m.st, store.KeySessions, sessions); err != nil {
		return nil, err
	}
	if err := store.PutJSON(ctx, m.st, store.KeyRecords, records); err != nil {
		return nil, err
	}

	if err := m.ClearDraft(ctx, templateID); err != nil {
		return nil, err
	}

	m.log.Info("workout finished",
		"session", session.ID,
		"template", templateName,
		"duration", session.DurationMs,
		"new_prs", len(session.NewPRExerciseIDs),
	)
	return &session, nil
}

// bestCompletedSet returns the heaviest completed set; ties keep the first
// encountered.
func bestCompletedSet(ex models.ActiveExercise) (models.WorkoutSet, bool) {
	var best models.WorkoutSet
	found := false
	for _, s := range ex.Sets {
		if !s.Completed {
			continue
		}
		if !found || s.Weight > best.Weight {
			best = s
			found = true
		}
	}
	return best, found
}
