package models

import "time"

// Exercise is one entry in the exercise library. Renameable; never deleted.
type Exercise struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// WorkoutTemplate is a reusable workout plan. ExerciseIDs reference
// Exercise.ID and their order drives display and draft initialization.
type WorkoutTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ExerciseIDs []string `json:"exercises"`
}

// WorkoutSet is one set within an active exercise. It has no identity of its
// own; position in the owning slice is the identity.
type WorkoutSet struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// ActiveExercise is one exercise's state inside a draft or finished session.
// Name is a display label copied at creation time; editing it never touches
// the exercise library.
type ActiveExercise struct {
	ExerciseID string       `json:"exerciseId"`
	Name       string       `json:"name"`
	Sets       []WorkoutSet `json:"sets"`
	Notes      string       `json:"notes,omitempty"`
}

// WorkoutSession is one finished workout. Append-only: once written to
// history it is never modified, only deleted whole.
type WorkoutSession struct {
	ID               string           `json:"id"`
	TemplateID       string           `json:"templateId"`
	TemplateName     string           `json:"templateName"`
	Date             time.Time        `json:"date"`
	Exercises        []ActiveExercise `json:"exercises"`
	DurationMs       int64            `json:"durationMs"`
	NewPRExerciseIDs []string         `json:"isNewPrs,omitempty"`
}

// PersonalRecord is the heaviest completed weight ever logged for an
// exercise. Reps and Date come from the session that set the record.
type PersonalRecord struct {
	ExerciseID   string    `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
}

// MemorySet is a remembered weight/reps pair, without completion state.
type MemorySet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// ExerciseMemory is the last-used configuration for an exercise, independent
// of any template or session. It pre-fills new drafts so set defaults stay
// sticky across unrelated workouts.
type ExerciseMemory struct {
	Sets  []MemorySet `json:"sets"`
	Notes string      `json:"notes,omitempty"`
}

// RestPrefs is the user's last-used rest duration for an exercise.
type RestPrefs struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Duration returns the configured rest duration.
func (p RestPrefs) Duration() time.Duration {
	return time.Duration(p.Minutes)*time.Minute + time.Duration(p.Seconds)*time.Second
}

const (
	// DefaultSetCount and DefaultReps shape a fresh draft exercise when no
	// per-exercise memory exists.
	DefaultSetCount = 4
	DefaultReps     = 10

	// CustomTemplateID marks sessions not derived from a stored template.
	CustomTemplateID = "custom"
	// CustomTemplateName is the display name for such sessions.
	CustomTemplateName = "Treino Personalizado"
)

// NewActiveExercise builds a draft exercise with the default empty sets.
func NewActiveExercise(exerciseID, name string) ActiveExercise {
	sets := make([]WorkoutSet, DefaultSetCount)
	for i := range sets {
		sets[i] = WorkoutSet{Reps: DefaultReps}
	}
	return ActiveExercise{ExerciseID: exerciseID, Name: name, Sets: sets}
}

// FromMemory builds a draft exercise from remembered sets, with completion
// reset. Falls back to the defaults when the memory holds no sets.
func FromMemory(exerciseID, name string, mem ExerciseMemory) ActiveExercise {
	if len(mem.Sets) == 0 {
		ex := NewActiveExercise(exerciseID, name)
		ex.Notes = mem.Notes
		return ex
	}
	sets := make([]WorkoutSet, len(mem.Sets))
	for i, m := range mem.Sets {
		sets[i] = WorkoutSet{Reps: m.Reps, Weight: m.Weight}
	}
	return ActiveExercise{ExerciseID: exerciseID, Name: name, Sets: sets, Notes: mem.Notes}
}

// Remember extracts the memory snapshot of an active exercise.
func Remember(ex ActiveExercise) ExerciseMemory {
	mem := ExerciseMemory{Notes: ex.Notes, Sets: make([]MemorySet, len(ex.Sets))}
	for i, s := range ex.Sets {
		mem.Sets[i] = MemorySet{Weight: s.Weight, Reps: s.Reps}
	}
	return mem
}

// CloneExercises deep-copies a draft so a finalized session can never alias
// the live draft slices.
func CloneExercises(src []ActiveExercise) []ActiveExercise {
	out := make([]ActiveExercise, len(src))
	for i, ex := range src {
		out[i] = ex
		out[i].Sets = append([]WorkoutSet(nil), ex.Sets...)
	}
	return out
}
