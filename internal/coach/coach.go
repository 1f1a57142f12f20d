// Package coach wraps the generative-text API behind two fail-soft calls: a
// motivational quote and per-exercise technique tips. Nothing downstream may
// depend on the API answering, so both calls degrade to fixed strings on any
// error, timeout, or missing credentials.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultModel matches the model the original app shipped with.
	DefaultModel   = "gemini-3-flash-preview"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 10 * time.Second

	// FallbackQuote and FallbackTip are shown whenever the API cannot answer.
	FallbackQuote = "A consistência é a chave para o sucesso."
	FallbackTip   = "Não foi possível carregar dicas de IA no momento."
)

// Client calls the generateContent endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a coach client. An empty apiKey yields a client that always
// answers with the fallbacks; empty model and zero timeout take defaults.
func New(apiKey, model string, timeout time.Duration, log *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

// MotivationalQuote returns one short motivational sentence.
func (c *Client) MotivationalQuote(ctx context.Context) string {
	text, err := c.generate(ctx,
		"Diga uma frase curta e motivacional sobre treino e disciplina.", 0)
	if err != nil {
		c.log.Warn("quote generation failed", "error", err)
		return FallbackQuote
	}
	return text
}

// ExerciseTip returns a few short technique lines for the named exercise.
func (c *Client) ExerciseTip(ctx context.Context, exerciseName string) string {
	text, err := c.generate(ctx, fmt.Sprintf(
		"Forneça 3 dicas rápidas e técnicas para realizar o exercício %q com perfeição. Seja conciso e direto.",
		exerciseName), 0.7)
	if err != nil {
		c.log.Warn("tip generation failed", "exercise", exerciseName, "error", err)
		return FallbackTip
	}
	return text
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	reqBody := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	if temperature > 0 {
		reqBody.GenerationConfig = &generationConfig{Temperature: temperature}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned %d: %s", resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}
