package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pedro/titanlift/internal/models"
)

// draftResponse bundles the draft with resume-positioning info so the active
// screen restores in one round trip.
type draftResponse struct {
	TemplateID   string                  `json:"templateId"`
	Exercises    []models.ActiveExercise `json:"exercises"`
	LastExercise int                     `json:"lastExerciseIndex"`
}

func (s *Server) writeDraft(w http.ResponseWriter, r *http.Request, templateID string, draft []models.ActiveExercise) {
	if draft == nil {
		draft = []models.ActiveExercise{}
	}
	writeJSON(w, http.StatusOK, draftResponse{
		TemplateID:   templateID,
		Exercises:    draft,
		LastExercise: s.workouts.LastActiveExercise(r.Context(), templateID),
	})
}

func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	draft, err := s.workouts.LoadDraft(r.Context(), templateID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleAbandonDraft(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	if err := s.workouts.ClearDraft(r.Context(), templateID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	session, err := s.workouts.Finalize(r.Context(), templateID)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleDraftAddExercise(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.ID == "" || ex.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise id and name are required"})
		return
	}

	draft, err := s.workouts.AddExercise(r.Context(), templateID, ex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftRemoveExercise(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	draft, err := s.workouts.RemoveExercise(r.Context(), templateID, idx)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftRenameExercise(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	draft, err := s.workouts.RenameDraftExercise(r.Context(), templateID, idx, req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftNotes(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	draft, err := s.workouts.UpdateNotes(r.Context(), templateID, idx, req.Notes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftAddSet(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	draft, err := s.workouts.AddSet(r.Context(), templateID, idx)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftRemoveSet(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	setIdx, ok := urlIndex(w, r, "setIdx")
	if !ok {
		return
	}
	draft, err := s.workouts.RemoveSet(r.Context(), templateID, idx, setIdx)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftUpdateSet(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	setIdx, ok := urlIndex(w, r, "setIdx")
	if !ok {
		return
	}
	var req struct {
		Reps   int     `json:"reps"`
		Weight float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	draft, err := s.workouts.UpdateSet(r.Context(), templateID, idx, setIdx, req.Reps, req.Weight)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

func (s *Server) handleDraftCompleteSet(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	idx, ok := urlIndex(w, r, "idx")
	if !ok {
		return
	}
	setIdx, ok := urlIndex(w, r, "setIdx")
	if !ok {
		return
	}
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	draft, err := s.workouts.MarkSetCompleted(r.Context(), templateID, idx, setIdx, req.Completed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeDraft(w, r, templateID, draft)
}

// urlIndex parses a numeric URL parameter, writing the error response itself
// on failure.
func urlIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || idx < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return idx, true
}
