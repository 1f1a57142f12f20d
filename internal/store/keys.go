package store

// Well-known keys. Fixed keys are plain constants; per-entity keys are built
// by the functions below so the key-space discipline lives in one file.
const (
	KeySessions        = "sessions"
	KeyRecords         = "personalRecords"
	KeyTemplates       = "templates"
	KeyExerciseLibrary = "exerciseLibrary"

	KeyElapsedAccumulated = "elapsedAccumulatedMs"
	KeyElapsedStart       = "elapsedStartTimestamp"
	KeyElapsedRunning     = "elapsedIsRunning"

	KeyLastActiveTemplate = "lastActiveTemplateId"

	prefixDraft      = "draft:"
	prefixRestEnd    = "restEnd:"
	prefixRestPrefs  = "restPrefs:"
	prefixMemory     = "exerciseMemory:"
	prefixLastActive = "lastActiveExerciseIndex:"
)

// DraftKey is the draft for one template. At most one draft per template.
func DraftKey(templateID string) string { return prefixDraft + templateID }

// RestEndKey holds the absolute end timestamp of a running rest countdown.
func RestEndKey(exerciseID string) string { return prefixRestEnd + exerciseID }

// RestPrefsKey holds the last-used rest duration for an exercise.
func RestPrefsKey(exerciseID string) string { return prefixRestPrefs + exerciseID }

// MemoryKey holds the sticky per-exercise set/notes memory.
func MemoryKey(exerciseID string) string { return prefixMemory + exerciseID }

// LastActiveExerciseKey holds the resume-scroll position for a template.
func LastActiveExerciseKey(templateID string) string { return prefixLastActive + templateID }
