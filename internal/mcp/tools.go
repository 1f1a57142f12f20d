package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pedro/titanlift/internal/models"
)

// --- Tool definitions ---

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve finished workout sessions, most recent first. Each session carries its exercises, sets, duration, and which exercises set a new personal record."),
	mcp.WithString("template", mcp.Description("Filter by template name (case-insensitive substring match).")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 20.")),
)

var toolGetRecords = mcp.NewTool("get_records",
	mcp.WithDescription("Get all personal records: the heaviest completed weight per exercise, with the reps and date of the session that set it."),
)

var toolGetTemplates = mcp.NewTool("get_templates",
	mcp.WithDescription("List workout templates with their ordered exercise ids."),
)

var toolGetExercises = mcp.NewTool("get_exercises",
	mcp.WithDescription("List the exercise library: id, display name, and muscle-group category for every known exercise."),
	mcp.WithString("category", mcp.Description("Filter by category (case-insensitive substring match).")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Best-set weight per session for one exercise, oldest first, for trend analysis."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id (see get_templates or the exercise library)")),
)

var toolGetVolumeSummary = mcp.NewTool("get_volume_summary",
	mcp.WithDescription("Total completed volume (weight times reps) per session across the retention window."),
)

// --- Tool handlers ---

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.Sessions(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := req.GetString("template", ""); filter != "" {
		needle := strings.ToLower(filter)
		kept := sessions[:0]
		for _, s := range sessions {
			if strings.Contains(strings.ToLower(s.TemplateName), needle) {
				kept = append(kept, s)
			}
		}
		sessions = kept
	}

	limit := req.GetInt("limit", 20)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.RecordList(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.ds.Templates(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(templates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.Exercises(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := req.GetString("category", ""); filter != "" {
		needle := strings.ToLower(filter)
		kept := exercises[:0]
		for _, ex := range exercises {
			if strings.Contains(strings.ToLower(ex.Category), needle) {
				kept = append(kept, ex)
			}
		}
		exercises = kept
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	series, err := h.ds.ProgressSeries(ctx, exerciseID)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// volumeEntry is one session's completed-volume total.
type volumeEntry struct {
	SessionID    string  `json:"sessionId"`
	TemplateName string  `json:"templateName"`
	Date         string  `json:"date"`
	VolumeKg     float64 `json:"volumeKg"`
}

func (h *handlers) getVolumeSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.Sessions(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	entries := make([]volumeEntry, 0, len(sessions))
	for _, s := range sessions {
		entries = append(entries, volumeEntry{
			SessionID:    s.ID,
			TemplateName: s.TemplateName,
			Date:         s.Date.Format("2006-01-02"),
			VolumeKg:     sessionVolume(s),
		})
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// sessionVolume sums weight*reps over completed sets.
func sessionVolume(s models.WorkoutSession) float64 {
	var total float64
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.Completed {
				total += set.Weight * float64(set.Reps)
			}
		}
	}
	return total
}
