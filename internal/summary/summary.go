// Package summary turns a metrics payload into executive-ready markdown.
// The LLM path talks to an OpenAI-compatible chat completions endpoint; any
// failure degrades to the deterministic Fallback, never to an error.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AngelCh415/weekly-pulse/internal/config"
	"github.com/AngelCh415/weekly-pulse/internal/report"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Generator struct {
	c   HTTPClient
	log *slog.Logger
	cfg config.Config
}

func NewGenerator(c HTTPClient, log *slog.Logger, cfg config.Config) *Generator {
	return &Generator{c: c, log: log, cfg: cfg}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate returns the markdown summary for one run's report.
func (g *Generator) Generate(ctx context.Context, r report.Report) string {
	if g.cfg.LLMAPIKey == "" {
		g.log.Warn("llm api key not set, using deterministic fallback summary")
		return Fallback(r)
	}
	text, err := g.complete(ctx, r)
	if err != nil {
		g.log.Error("llm summary generation failed, using fallback summary", slog.String("err", err.Error()))
		return Fallback(r)
	}
	g.log.Info("generated report summary via llm", slog.String("model", g.cfg.LLMModel))
	return text
}

func (g *Generator) complete(ctx context.Context, r report.Report) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.cfg.LLMModel,
		Temperature: 0.2,
		Messages:    buildPrompt(r),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.LLMBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.LLMAPIKey)

	resp, err := g.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty llm response content")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

func buildPrompt(r report.Report) []chatMessage {
	compactJSON, _ := json.MarshalIndent(r.Compact(), "", "  ")
	system := "You are a senior ecommerce analyst writing an executive-ready weekly report. " +
		"Use only numbers present in the provided JSON. Do not invent, estimate, or infer missing values. " +
		"If a number is missing/null, say N/A."
	user := "Write a markdown report with EXACTLY these sections in this order:\n" +
		"1) Title with week range\n" +
		"2) Highlights (4-7 bullets with key numbers)\n" +
		"3) Channel performance (top 3 channels by revenue + ROAS if available)\n" +
		"4) Anomalies (bulleted, include which rule triggered)\n" +
		"5) What to check next (3 concrete actions)\n\n" +
		"Rules:\n" +
		"- No hallucinated numbers.\n" +
		"- Cite values directly from JSON.\n" +
		"- Be concise and executive-ready.\n" +
		"- Output markdown only.\n" +
		"- `anomalies` may be truncated; use `anomalies_summary.count_total` and `rule_counts` if helpful.\n\n" +
		"Metrics JSON:\n```json\n" + string(compactJSON) + "\n```"
	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
