// Package workout owns the active-workout draft, the finalize/PR pipeline,
// and the session history. Every mutation is written through to the store
// immediately; the in-memory value is never the source of truth, so losing
// it after any successful call is always recoverable.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pedro/titanlift/internal/bus"
	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
	"github.com/pedro/titanlift/internal/timer"
)

// Manager coordinates draft state, the exercise/template library, per-
// exercise memory, and finalization.
type Manager struct {
	st      store.Store
	bus     *bus.Bus
	elapsed *timer.Elapsed
	log     *slog.Logger
	now     timer.Clock
	newID   func() string
}

// New creates a Manager. A nil clock uses time.Now.
func New(st store.Store, b *bus.Bus, elapsed *timer.Elapsed, log *slog.Logger, now timer.Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		st:      st,
		bus:     b,
		elapsed: elapsed,
		log:     log,
		now:     now,
		newID:   uuid.NewString,
	}
}

// LoadDraft returns the working draft for a template, restoring a persisted
// one when present. A missing or unreadable draft falls back to a fresh
// initialization from the template's exercise list, seeded from per-exercise
// memory where available.
func (m *Manager) LoadDraft(ctx context.Context, templateID string) ([]models.ActiveExercise, error) {
	if draft, ok := m.readDraft(ctx, templateID); ok {
		return draft, nil
	}

	tpl, found, err := m.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("template %s not found", templateID)
	}

	exercises, err := m.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	draft := make([]models.ActiveExercise, 0, len(tpl.ExerciseIDs))
	for _, exID := range tpl.ExerciseIDs {
		name := names[exID]
		if name == "" {
			name = "Exercício"
		}
		var mem models.ExerciseMemory
		if ok, _ := store.GetJSON(ctx, m.st, store.MemoryKey(exID), &mem); ok {
			draft = append(draft, models.FromMemory(exID, name, mem))
		} else {
			draft = append(draft, models.NewActiveExercise(exID, name))
		}
	}

	if err := m.writeDraft(ctx, templateID, draft); err != nil {
		return nil, err
	}
	if err := store.PutJSON(ctx, m.st, store.KeyLastActiveTemplate, templateID); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddExercise appends an exercise to the draft, seeded from memory or a
// single default set. For non-custom templates the exercise id is also
// appended to the owning template, a deliberate cross-component side effect:
// the template grows with the workout.
func (m *Manager) AddExercise(ctx context.Context, templateID string, ex models.Exercise) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)

	var mem models.ExerciseMemory
	if ok, _ := store.GetJSON(ctx, m.st, store.MemoryKey(ex.ID), &mem); ok {
		draft = append(draft, models.FromMemory(ex.ID, ex.Name, mem))
	} else {
		draft = append(draft, models.ActiveExercise{
			ExerciseID: ex.ID,
			Name:       ex.Name,
			Sets:       []models.WorkoutSet{{Reps: models.DefaultReps}},
		})
	}

	if templateID != models.CustomTemplateID {
		if err := m.appendTemplateExercise(ctx, templateID, ex.ID); err != nil {
			return nil, err
		}
	}

	return draft, m.writeDraft(ctx, templateID, draft)
}

// RemoveExercise deletes one exercise from the draft. Confirmation is the
// caller's responsibility; this is the already-confirmed atomic action.
func (m *Manager) RemoveExercise(ctx context.Context, templateID string, index int) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if index < 0 || index >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", index)
	}
	draft = append(draft[:index], draft[index+1:]...)
	return draft, m.writeDraft(ctx, templateID, draft)
}

// AddSet appends a set duplicating the last set's reps and weight, not yet
// completed.
func (m *Manager) AddSet(ctx context.Context, templateID string, exerciseIndex int) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	ex := &draft[exerciseIndex]
	last := ex.Sets[len(ex.Sets)-1]
	ex.Sets = append(ex.Sets, models.WorkoutSet{Reps: last.Reps, Weight: last.Weight})

	if err := m.remember(ctx, *ex); err != nil {
		return nil, err
	}
	return draft, m.writeDraft(ctx, templateID, draft)
}

// RemoveSet deletes one set. Removing the only remaining set is a no-op; an
// exercise always keeps at least one set.
func (m *Manager) RemoveSet(ctx context.Context, templateID string, exerciseIndex, setIndex int) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	ex := &draft[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil, fmt.Errorf("set index %d out of range", setIndex)
	}
	if len(ex.Sets) == 1 {
		return draft, nil
	}
	ex.Sets = append(ex.Sets[:setIndex], ex.Sets[setIndex+1:]...)

	if err := m.remember(ctx, *ex); err != nil {
		return nil, err
	}
	return draft, m.writeDraft(ctx, templateID, draft)
}

// UpdateSet sets reps and weight for one set. The first edit of a visit also
// starts the elapsed-time timer.
func (m *Manager) UpdateSet(ctx context.Context, templateID string, exerciseIndex, setIndex, reps int, weight float64) ([]models.ActiveExercise, error) {
	if reps < 0 || weight < 0 {
		return nil, fmt.Errorf("reps and weight must be non-negative")
	}
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	ex := &draft[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil, fmt.Errorf("set index %d out of range", setIndex)
	}
	ex.Sets[setIndex].Reps = reps
	ex.Sets[setIndex].Weight = weight

	if err := m.elapsed.Start(ctx); err != nil {
		return nil, err
	}
	if err := m.remember(ctx, *ex); err != nil {
		return nil, err
	}
	return draft, m.writeDraft(ctx, templateID, draft)
}

// MarkSetCompleted flips one set's completed flag. The false-to-true
// transition broadcasts a rest-start event for the exercise and records it
// as the last-touched exercise for resume positioning. Re-marking an
// already-completed set broadcasts nothing.
func (m *Manager) MarkSetCompleted(ctx context.Context, templateID string, exerciseIndex, setIndex int, completed bool) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	ex := &draft[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil, fmt.Errorf("set index %d out of range", setIndex)
	}

	wasCompleted := ex.Sets[setIndex].Completed
	ex.Sets[setIndex].Completed = completed

	if err := m.writeDraft(ctx, templateID, draft); err != nil {
		return nil, err
	}

	if completed && !wasCompleted {
		if err := store.PutJSON(ctx, m.st, store.LastActiveExerciseKey(templateID), exerciseIndex); err != nil {
			return nil, err
		}
		m.bus.Publish(ex.ExerciseID)
	}
	return draft, nil
}

// UpdateNotes replaces the notes of one draft exercise.
func (m *Manager) UpdateNotes(ctx context.Context, templateID string, exerciseIndex int, notes string) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	draft[exerciseIndex].Notes = notes

	if err := m.remember(ctx, draft[exerciseIndex]); err != nil {
		return nil, err
	}
	return draft, m.writeDraft(ctx, templateID, draft)
}

// RenameDraftExercise changes the display label of one draft exercise. The
// library entry is untouched.
func (m *Manager) RenameDraftExercise(ctx context.Context, templateID string, exerciseIndex int, name string) ([]models.ActiveExercise, error) {
	draft, _ := m.readDraft(ctx, templateID)
	if exerciseIndex < 0 || exerciseIndex >= len(draft) {
		return nil, fmt.Errorf("exercise index %d out of range", exerciseIndex)
	}
	draft[exerciseIndex].Name = name
	return draft, m.writeDraft(ctx, templateID, draft)
}

// ClearDraft removes the draft and its resume bookkeeping. Called by
// Finalize; also usable to abandon a workout.
func (m *Manager) ClearDraft(ctx context.Context, templateID string) error {
	if err := m.st.Delete(ctx, store.DraftKey(templateID)); err != nil {
		return err
	}
	return m.st.Delete(ctx, store.LastActiveExerciseKey(templateID))
}

// LastActiveExercise returns the resume-scroll index for a template, or -1.
func (m *Manager) LastActiveExercise(ctx context.Context, templateID string) int {
	idx := -1
	store.GetJSON(ctx, m.st, store.LastActiveExerciseKey(templateID), &idx)
	return idx
}

// readDraft loads the persisted draft. Malformed JSON reads as absent.
func (m *Manager) readDraft(ctx context.Context, templateID string) ([]models.ActiveExercise, bool) {
	var draft []models.ActiveExercise
	ok, _ := store.GetJSON(ctx, m.st, store.DraftKey(templateID), &draft)
	return draft, ok && len(draft) > 0
}

func (m *Manager) writeDraft(ctx context.Context, templateID string, draft []models.ActiveExercise) error {
	return store.PutJSON(ctx, m.st, store.DraftKey(templateID), draft)
}

// remember persists the sticky per-exercise memory after any set or note
// change, independent of template and session.
func (m *Manager) remember(ctx context.Context, ex models.ActiveExercise) error {
	return store.PutJSON(ctx, m.st, store.MemoryKey(ex.ExerciseID), models.Remember(ex))
}
