package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
)

// Exercises returns the exercise library, writing the seed on first use.
func (m *Manager) Exercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	ok, err := store.GetJSON(ctx, m.st, store.KeyExerciseLibrary, &exercises)
	if err != nil {
		return nil, err
	}
	if !ok {
		exercises = append([]models.Exercise(nil), models.SeedExercises...)
		if err := store.PutJSON(ctx, m.st, store.KeyExerciseLibrary, exercises); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

// CreateExercise adds a custom exercise to the library.
func (m *Manager) CreateExercise(ctx context.Context, name, category string) (models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Exercise{}, fmt.Errorf("exercise name is required")
	}
	if category == "" {
		category = "Personalizado"
	}

	exercises, err := m.Exercises(ctx)
	if err != nil {
		return models.Exercise{}, err
	}

	ex := models.Exercise{ID: m.newID(), Name: name, Category: category}
	exercises = append(exercises, ex)
	if err := store.PutJSON(ctx, m.st, store.KeyExerciseLibrary, exercises); err != nil {
		return models.Exercise{}, err
	}
	return ex, nil
}

// RenameExercise changes a library exercise's name. Draft and history
// snapshots keep their copied display names.
func (m *Manager) RenameExercise(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("exercise name is required")
	}
	exercises, err := m.Exercises(ctx)
	if err != nil {
		return err
	}
	for i := range exercises {
		if exercises[i].ID == id {
			exercises[i].Name = name
			return store.PutJSON(ctx, m.st, store.KeyExerciseLibrary, exercises)
		}
	}
	return fmt.Errorf("exercise %s not found", id)
}

// Templates returns the workout templates, writing the seed on first use.
func (m *Manager) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	ok, err := store.GetJSON(ctx, m.st, store.KeyTemplates, &templates)
	if err != nil {
		return nil, err
	}
	if !ok {
		templates = append([]models.WorkoutTemplate(nil), models.SeedTemplates...)
		if err := store.PutJSON(ctx, m.st, store.KeyTemplates, templates); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// Template looks up one template by id.
func (m *Manager) Template(ctx context.Context, id string) (models.WorkoutTemplate, bool, error) {
	templates, err := m.Templates(ctx)
	if err != nil {
		return models.WorkoutTemplate{}, false, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true, nil
		}
	}
	return models.WorkoutTemplate{}, false, nil
}

// CreateTemplate adds a new workout plan.
func (m *Manager) CreateTemplate(ctx context.Context, name, description string, exerciseIDs []string) (models.WorkoutTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.WorkoutTemplate{}, fmt.Errorf("template name is required")
	}

	templates, err := m.Templates(ctx)
	if err != nil {
		return models.WorkoutTemplate{}, err
	}

	tpl := models.WorkoutTemplate{
		ID:          m.newID(),
		Name:        name,
		Description: description,
		ExerciseIDs: append([]string(nil), exerciseIDs...),
	}
	templates = append(templates, tpl)
	if err := store.PutJSON(ctx, m.st, store.KeyTemplates, templates); err != nil {
		return models.WorkoutTemplate{}, err
	}
	return tpl, nil
}

// RenameTemplate changes a template's name. Finished sessions keep the name
// they were recorded with.
func (m *Manager) RenameTemplate(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("template name is required")
	}
	templates, err := m.Templates(ctx)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID == id {
			templates[i].Name = name
			return store.PutJSON(ctx, m.st, store.KeyTemplates, templates)
		}
	}
	return fmt.Errorf("template %s not found", id)
}

// DeleteTemplate removes a template and any in-progress draft for it.
// History entries derived from it are untouched.
func (m *Manager) DeleteTemplate(ctx context.Context, id string) error {
	templates, err := m.Templates(ctx)
	if err != nil {
		return err
	}
	kept := templates[:0]
	for _, t := range templates {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(templates) {
		return fmt.Errorf("template %s not found", id)
	}
	if err := store.PutJSON(ctx, m.st, store.KeyTemplates, kept); err != nil {
		return err
	}
	return m.ClearDraft(ctx, id)
}

// appendTemplateExercise grows a template when an exercise is added during
// an active workout derived from it.
func (m *Manager) appendTemplateExercise(ctx context.Context, templateID, exerciseID string) error {
	templates, err := m.Templates(ctx)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID != templateID {
			continue
		}
		for _, id := range templates[i].ExerciseIDs {
			if id == exerciseID {
				return nil
			}
		}
		templates[i].ExerciseIDs = append(templates[i].ExerciseIDs, exerciseID)
		return store.PutJSON(ctx, m.st, store.KeyTemplates, templates)
	}
	// Unknown template: nothing to grow, the draft itself still carries the
	// exercise.
	return nil
}
