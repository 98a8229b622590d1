package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// TextCompleter is the opaque remote text-completion service used to produce
// the one-sentence allocation reasoning. Nil means no AI — the caller uses
// the canned fallback.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Google generative-language REST endpoint.
type GeminiClient struct {
	APIKey string
	Model  string
	Client *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.Model, g.APIKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// extractReasoning pulls the "reasoning" field out of a completion that is
// expected to contain a JSON object, possibly wrapped in prose or fencing.
func extractReasoning(completion string) (string, bool) {
	raw := jsonObjectRe.FindString(completion)
	if raw == "" {
		return "", false
	}
	var payload struct {
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.Reasoning == "" {
		return "", false
	}
	return payload.Reasoning, true
}
