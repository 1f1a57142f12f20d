package workout

import (
	"context"
	"testing"
	"time"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
)

// completeSetAt marks one set completed via the public mutation path.
func completeSetAt(t *testing.T, env *testEnv, templateID string, exIdx, setIdx int) {
	t.Helper()
	if _, err := env.m.MarkSetCompleted(context.Background(), templateID, exIdx, setIdx, true); err != nil {
		t.Fatal(err)
	}
}

// TestFinalizeLifecycle walks a full session: a fresh draft, edits, finish.
// The session must capture a snapshot, land at the head of history, set a
// record and clear the draft.
func TestFinalizeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, 5, 100); err != nil {
		t.Fatal(err)
	}
	completeSetAt(t, env, "t1", 0, 0)

	*env.now = env.now.Add(5 * time.Minute)

	session, err := env.m.Finalize(ctx, "t1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if session.TemplateID != "t1" || session.TemplateName != "Leg Day" {
		t.Errorf("session template = %s/%s", session.TemplateID, session.TemplateName)
	}
	if session.DurationMs != 5*60*1000 {
		t.Errorf("duration = %dms, want 300000", session.DurationMs)
	}
	if len(session.NewPRExerciseIDs) != 1 || session.NewPRExerciseIDs[0] != "e1" {
		t.Errorf("new PRs = %v, want [e1]", session.NewPRExerciseIDs)
	}

	records, err := env.m.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := records["e1"]
	if !ok || rec.Weight != 100 || rec.Reps != 5 {
		t.Errorf("record = %+v, want weight 100 reps 5", rec)
	}

	sessions, err := env.m.Sessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Errorf("history = %v, want the finished session at head", sessions)
	}

	if _, ok := env.m.readDraft(ctx, "t1"); ok {
		t.Error("draft must be cleared after finalize")
	}
}

// TestFinalizeRecordReplacement verifies the strictly-greater rule across
// three sessions: 100 sets the record, 90 keeps it, 120 replaces it.
func TestFinalizeRecordReplacement(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	finishAt := func(weight float64, reps int) *models.WorkoutSession {
		t.Helper()
		if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
			t.Fatal(err)
		}
		if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, reps, weight); err != nil {
			t.Fatal(err)
		}
		completeSetAt(t, env, "t1", 0, 0)
		session, err := env.m.Finalize(ctx, "t1")
		if err != nil {
			t.Fatal(err)
		}
		return session
	}

	first := finishAt(100, 5)
	if len(first.NewPRExerciseIDs) != 1 {
		t.Fatalf("first session must set a record, got %v", first.NewPRExerciseIDs)
	}

	second := finishAt(90, 12)
	if len(second.NewPRExerciseIDs) != 0 {
		t.Errorf("lighter session must not replace the record, got %v", second.NewPRExerciseIDs)
	}
	records, _ := env.m.Records(ctx)
	if rec := records["e1"]; rec.Weight != 100 || rec.Reps != 5 {
		t.Errorf("record after lighter session = %+v, want 100x5", rec)
	}

	third := finishAt(120, 3)
	if len(third.NewPRExerciseIDs) != 1 {
		t.Errorf("heavier session must replace the record, got %v", third.NewPRExerciseIDs)
	}
	records, _ = env.m.Records(ctx)
	if rec := records["e1"]; rec.Weight != 120 || rec.Reps != 3 {
		t.Errorf("record after heavier session = %+v, want 120x3", rec)
	}
}

// TestFinalizeEqualWeightKeepsRecord verifies a tie leaves the stored reps
// and date untouched.
func TestFinalizeEqualWeightKeepsRecord(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	firstDate := *env.now
	if err := store.PutJSON(ctx, env.st, store.KeyRecords, map[string]models.PersonalRecord{
		"e1": {ExerciseID: "e1", ExerciseName: "Squat", Weight: 100, Reps: 5, Date: firstDate},
	}); err != nil {
		t.Fatal(err)
	}

	*env.now = env.now.AddDate(0, 0, 7)
	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, 8, 100); err != nil {
		t.Fatal(err)
	}
	completeSetAt(t, env, "t1", 0, 0)
	session, err := env.m.Finalize(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}

	if len(session.NewPRExerciseIDs) != 0 {
		t.Errorf("equal weight must not count as a new record, got %v", session.NewPRExerciseIDs)
	}
	records, _ := env.m.Records(ctx)
	rec := records["e1"]
	if rec.Reps != 5 || !rec.Date.Equal(firstDate) {
		t.Errorf("record = %+v, want original reps and date", rec)
	}
}

// TestFinalizeIgnoresUncompletedSets verifies only completed sets feed the
// record engine, even when an uncompleted set is heavier.
func TestFinalizeIgnoresUncompletedSets(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, 5, 80); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 1, 1, 150); err != nil {
		t.Fatal(err)
	}
	completeSetAt(t, env, "t1", 0, 0) // only the 80 is completed

	if _, err := env.m.Finalize(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	records, _ := env.m.Records(ctx)
	if rec := records["e1"]; rec.Weight != 80 {
		t.Errorf("record weight = %v, want 80 (uncompleted 150 ignored)", rec.Weight)
	}
}

// TestFinalizeZeroWeightNoRecord verifies completed bodyweight-style sets at
// zero weight never create a record entry.
func TestFinalizeZeroWeightNoRecord(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	completeSetAt(t, env, "t1", 0, 0)

	session, err := env.m.Finalize(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.NewPRExerciseIDs) != 0 {
		t.Errorf("zero-weight session reported PRs: %v", session.NewPRExerciseIDs)
	}
	records, _ := env.m.Records(ctx)
	if len(records) != 0 {
		t.Errorf("records = %v, want empty", records)
	}
}

// TestFinalizeCustomSession verifies the sentinel template id gets the
// custom display name.
func TestFinalizeCustomSession(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	if _, err := env.m.AddExercise(ctx, models.CustomTemplateID, models.Exercise{ID: "e1", Name: "Squat"}); err != nil {
		t.Fatal(err)
	}
	session, err := env.m.Finalize(ctx, models.CustomTemplateID)
	if err != nil {
		t.Fatal(err)
	}
	if session.TemplateName != models.CustomTemplateName {
		t.Errorf("template name = %q, want %q", session.TemplateName, models.CustomTemplateName)
	}
}

// TestFinalizeWithoutDraft verifies finishing with no draft is an error.
func TestFinalizeWithoutDraft(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)

	if _, err := env.m.Finalize(context.Background(), "t1"); err == nil {
		t.Error("expected error when no draft exists")
	}
}

// TestFinalizeSnapshotDoesNotAlias verifies a later draft edit cannot reach
// into an already-finished session.
func TestFinalizeSnapshotDoesNotAlias(t *testing.T) {
	env := newTestEnv(t)
	seedSquat(t, env.st)
	ctx := context.Background()

	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, 5, 100); err != nil {
		t.Fatal(err)
	}
	completeSetAt(t, env, "t1", 0, 0)
	session, err := env.m.Finalize(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.m.LoadDraft(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.m.UpdateSet(ctx, "t1", 0, 0, 1, 999); err != nil {
		t.Fatal(err)
	}

	stored, found, err := env.m.Session(ctx, session.ID)
	if err != nil || !found {
		t.Fatalf("session lookup: found=%v err=%v", found, err)
	}
	if got := stored.Exercises[0].Sets[0].Weight; got != 100 {
		t.Errorf("stored session weight = %v, want 100", got)
	}
}
