package mcp

import (
	"context"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/workout"
)

// DataSource abstracts the data layer for MCP tools. Both *workout.Manager
// (local store) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	Sessions(ctx context.Context) ([]models.WorkoutSession, error)
	RecordList(ctx context.Context) ([]models.PersonalRecord, error)
	Templates(ctx context.Context) ([]models.WorkoutTemplate, error)
	Exercises(ctx context.Context) ([]models.Exercise, error)
	ProgressSeries(ctx context.Context, exerciseID string) ([]workout.ProgressPoint, error)
}

// Compile-time check: *workout.Manager satisfies DataSource.
var _ DataSource = (*workout.Manager)(nil)
