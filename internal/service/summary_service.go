package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/hospital-portal/internal/config"
)

// ErrEmptyNotes rejects a summarization request without content.
var ErrEmptyNotes = errors.New("consultation notes are empty")

const summaryPrompt = `You are a clinical documentation assistant. Summarize the consultation notes below.
Reply with JSON only, using exactly these keys:
{"summary": string, "diagnosis": string, "prescriptions": [string], "follow_up": string}

Notes:
%s`

// NoteSummary is the structured result of summarizing consultation notes.
type NoteSummary struct {
	Summary       string   `json:"summary"`
	Diagnosis     string   `json:"diagnosis"`
	Prescriptions []string `json:"prescriptions"`
	FollowUp      string   `json:"follow_up"`
}

// Summarizer turns free-text consultation notes into a NoteSummary.
type Summarizer interface {
	Summarize(ctx context.Context, notes string) (*NoteSummary, error)
}

// OllamaSummarizer calls an Ollama-compatible /api/generate endpoint.
type OllamaSummarizer struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
}

// NewOllamaSummarizer creates a summarizer client.
func NewOllamaSummarizer(cfg config.SummarizerConfig) *OllamaSummarizer {
	return &OllamaSummarizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Summarize sends notes to the model and decodes its JSON answer.
func (o *OllamaSummarizer) Summarize(ctx context.Context, notes string) (*NoteSummary, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrEmptyNotes
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": fmt.Sprintf(summaryPrompt, notes),
		"format": "json",
		"stream": false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("summarizer API error (%d): %s", resp.StatusCode, string(body))
	}

	var generated struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return nil, fmt.Errorf("summarizer decode: %w", err)
	}

	var summary NoteSummary
	if err := json.Unmarshal([]byte(extractJSON(generated.Response)), &summary); err != nil {
		return nil, fmt.Errorf("summarizer decode answer: %w", err)
	}
	if summary.Prescriptions == nil {
		summary.Prescriptions = []string{}
	}
	return &summary, nil
}

// extractJSON strips markdown fences and prose around the first JSON object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}
