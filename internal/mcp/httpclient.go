package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pedro/titanlift/internal/models"
	"github.com/pedro/titanlift/internal/workout"
)

// HTTPClient implements DataSource by calling the TitanLift REST API. Used
// for remote MCP mode where the binary runs locally (stdio) but the data
// lives on the server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := c.get(ctx, "/api/v1/history", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) RecordList(ctx context.Context) ([]models.PersonalRecord, error) {
	var records []models.PersonalRecord
	if err := c.get(ctx, "/api/v1/records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	if err := c.get(ctx, "/api/v1/templates", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) ProgressSeries(ctx context.Context, exerciseID string) ([]workout.ProgressPoint, error) {
	var series []workout.ProgressPoint
	if err := c.get(ctx, "/api/v1/progress/"+exerciseID, &series); err != nil {
		return nil, err
	}
	return series, nil
}
