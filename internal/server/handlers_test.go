package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pedro/titanlift/internal/bus"
	"github.com/pedro/titanlift/internal/coach"
	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/store"
	"github.com/pedro/titanlift/internal/timer"
	"github.com/pedro/titanlift/internal/workout"
)

const testAPIKey = "test-key-123"

// newTestServer wires a full Server over an in-memory store with a fixed
// clock and a disabled coach.
func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	b := bus.New()
	elapsed := timer.NewElapsed(st, clock)
	rest := timer.NewRest(st, clock)
	rest.WatchAll(context.Background(), b)
	workouts := workout.New(st, b, elapsed, log, clock)
	coachClient := coach.New("", "", 0, log)

	return New(workouts, elapsed, rest, coachClient, testAPIKey, log), st
}

func doRequest(s *Server, method, path string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeDraft(t *testing.T, rec *httptest.ResponseRecorder) draftResponse {
	t.Helper()
	var resp draftResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp
}

// TestListExercisesSeedsLibrary verifies the first library read installs the
// built-in exercises.
func TestListExercisesSeedsLibrary(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/v1/exercises", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var exercises []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&exercises); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("expected seeded exercise library")
	}
}

// TestAuthRequired verifies mutating routes reject a missing or wrong API
// key while read routes stay open.
func TestAuthRequired(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/start", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/timer/start", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/timer", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("read route without key: status = %d, want 200", rec.Code)
	}
}

// TestActiveWorkoutFlow drives a workout end to end over HTTP: create a
// template, load the draft, log a set, finish, read history and records.
func TestActiveWorkoutFlow(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/exercises",
		`{"name":"Remada Curvada","category":"Costas"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create exercise: status = %d: %s", rec.Code, rec.Body)
	}
	var ex models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&ex); err != nil {
		t.Fatal(err)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/templates",
		fmt.Sprintf(`{"name":"Costas","exercises":[%q]}`, ex.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template: status = %d: %s", rec.Code, rec.Body)
	}
	var tpl models.WorkoutTemplate
	if err := json.NewDecoder(rec.Body).Decode(&tpl); err != nil {
		t.Fatal(err)
	}

	base := "/api/v1/active/" + tpl.ID
	rec = doRequest(s, http.MethodGet, base+"/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load draft: status = %d: %s", rec.Code, rec.Body)
	}
	draft := decodeDraft(t, rec)
	if len(draft.Exercises) != 1 || draft.LastExercise != -1 {
		t.Fatalf("fresh draft = %+v", draft)
	}

	rec = doRequest(s, http.MethodPut, base+"/exercises/0/sets/0",
		`{"reps":8,"weight":60}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update set: status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(s, http.MethodPut, base+"/exercises/0/sets/0/completed",
		`{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete set: status = %d: %s", rec.Code, rec.Body)
	}
	draft = decodeDraft(t, rec)
	if !draft.Exercises[0].Sets[0].Completed {
		t.Error("set not marked completed in response")
	}
	if draft.LastExercise != 0 {
		t.Errorf("lastExerciseIndex = %d, want 0", draft.LastExercise)
	}

	rec = doRequest(s, http.MethodPost, base+"/finish", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("finish: status = %d: %s", rec.Code, rec.Body)
	}
	var session models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
		t.Fatal(err)
	}
	if len(session.NewPRExerciseIDs) != 1 {
		t.Errorf("new PRs = %v, want one", session.NewPRExerciseIDs)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/history", "")
	var sessions []models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Errorf("history = %+v", sessions)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/records", "")
	var records []models.PersonalRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Weight != 60 {
		t.Errorf("records = %+v", records)
	}

	// Second finish with no draft conflicts.
	rec = doRequest(s, http.MethodPost, base+"/finish", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("finish without draft: status = %d, want 409", rec.Code)
	}
}

// TestDraftSetEndpoints covers add/remove set and the index validation.
func TestDraftSetEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/active/custom/exercises",
		`{"id":"bench-press","name":"Supino Reto"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add exercise: status = %d: %s", rec.Code, rec.Body)
	}
	draft := decodeDraft(t, rec)
	if len(draft.Exercises[0].Sets) != 1 {
		t.Fatalf("manual exercise sets = %d, want 1", len(draft.Exercises[0].Sets))
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/active/custom/exercises/0/sets", "")
	draft = decodeDraft(t, rec)
	if len(draft.Exercises[0].Sets) != 2 {
		t.Errorf("after add set = %d, want 2", len(draft.Exercises[0].Sets))
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/active/custom/exercises/0/sets/1", "")
	draft = decodeDraft(t, rec)
	if len(draft.Exercises[0].Sets) != 1 {
		t.Errorf("after remove set = %d, want 1", len(draft.Exercises[0].Sets))
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/active/custom/exercises/abc/sets/0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric index: status = %d, want 400", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/v1/active/custom/exercises/0/sets/0",
		`{"reps":-1,"weight":50}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative reps: status = %d, want 400", rec.Code)
	}
}

// TestTimerEndpoints verifies the elapsed timer lifecycle over HTTP.
func TestTimerEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/timer", "")
	var state timerStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Running || state.ElapsedMs != 0 || state.Display != "00:00:00" {
		t.Errorf("initial state = %+v", state)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/timer/start", "")
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if !state.Running {
		t.Error("state after start not running")
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/timer/reset", "")
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Running || state.ElapsedMs != 0 {
		t.Errorf("state after reset = %+v", state)
	}
}

// TestRestEndpoints verifies configure and start over HTTP.
func TestRestEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/rest/bench-press", "")
	var state restStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.State != timer.RestIdle || state.Prefs != timer.DefaultRestPrefs {
		t.Errorf("initial rest state = %+v", state)
	}

	rec = doRequest(s, http.MethodPut, "/api/v1/rest/bench-press/prefs",
		`{"minutes":2,"seconds":0}`)
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Prefs.Minutes != 2 || state.Prefs.Seconds != 0 {
		t.Errorf("prefs = %+v, want 2:00", state.Prefs)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/rest/bench-press/start", "")
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.State != timer.RestRunning || state.RemainingMs != 120000 {
		t.Errorf("started rest state = %+v", state)
	}
}

// TestQuoteFallback verifies the coach endpoint degrades without an API key.
func TestQuoteFallback(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/quote", "")
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["quote"] != coach.FallbackQuote {
		t.Errorf("quote = %q, want fallback", resp["quote"])
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/tips", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("tips without exercise: status = %d, want 400", rec.Code)
	}
}

// TestNewExerciseGetsRestCountdown verifies an exercise created after the
// server is up still triggers a rest countdown when its set is completed.
func TestNewExerciseGetsRestCountdown(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/exercises",
		`{"name":"Elevação Pélvica","category":"Pernas"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create exercise: status = %d: %s", rec.Code, rec.Body)
	}
	var ex models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&ex); err != nil {
		t.Fatal(err)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/active/custom/exercises",
		fmt.Sprintf(`{"id":%q,"name":%q}`, ex.ID, ex.Name))
	if rec.Code != http.StatusOK {
		t.Fatalf("add to draft: status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(s, http.MethodPut, "/api/v1/active/custom/exercises/0/sets/0/completed",
		`{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete set: status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/rest/"+ex.ID, "")
	var state restStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.State != timer.RestRunning || state.RemainingMs != 90000 {
		t.Errorf("rest state for new exercise = %+v, want running at default 1:30", state)
	}
}

// TestDeleteTemplateClearsDraft verifies deleting a template also abandons
// its draft.
func TestDeleteTemplateClearsDraft(t *testing.T) {
	s, st := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/templates",
		`{"name":"Temporário","exercises":["squat"]}`)
	var tpl models.WorkoutTemplate
	if err := json.NewDecoder(rec.Body).Decode(&tpl); err != nil {
		t.Fatal(err)
	}
	if rec := doRequest(s, http.MethodGet, "/api/v1/active/"+tpl.ID+"/", ""); rec.Code != http.StatusOK {
		t.Fatalf("load draft: status = %d", rec.Code)
	}

	if rec := doRequest(s, http.MethodDelete, "/api/v1/templates/"+tpl.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete template: status = %d", rec.Code)
	}
	if _, ok, _ := st.Get(context.Background(), store.DraftKey(tpl.ID)); ok {
		t.Error("draft survived template deletion")
	}
}
