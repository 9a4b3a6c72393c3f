package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"mannmitra/backend/internal/config"
)

const (
	failureReasonRateLimited   = "rate_limited"
	failureReasonAccessDenied  = "access_denied"
	failureReasonRequestFailed = "request_failed"
	failureReasonEmptyAnswer   = "empty_answer"
)

// generationUnavailableError reports that every model candidate failed,
// carrying the last failure reason for logging. Never shown to end users.
type generationUnavailableError struct {
	Reason string
}

func (e *generationUnavailableError) Error() string {
	return "generation unavailable: " + e.Reason
}

type generationClient struct {
	apiKey          string
	baseURL         string
	models          []string
	maxOutputTokens int
	httpClient      *http.Client
}

func newGenerationClient(cfg config.Config) *generationClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	maxTokens := cfg.AIMaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 600
	}
	return &generationClient{
		apiKey:          strings.TrimSpace(cfg.GeminiAPIKey),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.GeminiBaseURL), "/"),
		models:          cfg.GeminiModels,
		maxOutputTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// Generate tries each model candidate in order and returns the first
// extractable answer. Candidates run sequentially on purpose: parallel
// fan-out would complicate cancellation and double-bill the backend.
func (g *generationClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &generationUnavailableError{Reason: failureReasonRequestFailed}
	}

	lastReason := failureReasonRequestFailed
	for _, model := range g.models {
		statusCode, body, err := g.callModel(ctx, model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", &generationUnavailableError{Reason: failureReasonRequestFailed}
			}
			log.Printf("generation request failed model=%s err=%v", model, err)
			lastReason = failureReasonRequestFailed
			continue
		}

		switch {
		case statusCode == http.StatusTooManyRequests:
			log.Printf("generation rate limited model=%s", model)
			lastReason = failureReasonRateLimited
			continue
		case statusCode == http.StatusForbidden:
			log.Printf("generation access denied model=%s", model)
			lastReason = failureReasonAccessDenied
			continue
		case statusCode < 200 || statusCode >= 300:
			log.Printf("generation error model=%s status=%d body=%s", model, statusCode, truncateForLog(string(body), 400))
			lastReason = failureReasonRequestFailed
			continue
		}

		answer := extractGeneratedText(parseJSONStringMap(body))
		if strings.TrimSpace(answer) == "" {
			log.Printf("generation response had no extractable text model=%s body=%s", model, truncateForLog(string(body), 400))
			lastReason = failureReasonEmptyAnswer
			continue
		}
		return strings.TrimSpace(answer), nil
	}
	return "", &generationUnavailableError{Reason: lastReason}
}

func (g *generationClient) callModel(ctx context.Context, model, prompt string) (int, []byte, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		// Default thresholds block a lot of mental-health language outright;
		// BLOCK_ONLY_HIGH keeps supportive replies flowing for distress text.
		"safetySettings": []map[string]any{
			{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_ONLY_HIGH"},
			{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_ONLY_HIGH"},
			{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_ONLY_HIGH"},
			{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_ONLY_HIGH"},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": g.maxOutputTokens,
			"temperature":     0.7,
		},
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model),
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return 0, nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", g.apiKey)

	response, err := g.httpClient.Do(request)
	if err != nil {
		return 0, nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, err
	}
	return response.StatusCode, responseBody, nil
}

// The response text moves around between backend versions. Strategies are
// tried in order; the first non-empty extraction wins.
var textExtractionStrategies = []struct {
	name    string
	extract func(map[string]any) string
}{
	{name: "candidates_content_parts", extract: extractFromCandidateParts},
	{name: "candidates_flat_text", extract: extractFromCandidateFlat},
	{name: "top_level_text", extract: extractFromTopLevel},
}

func extractGeneratedText(parsed map[string]any) string {
	for _, strategy := range textExtractionStrategies {
		if text := strings.TrimSpace(strategy.extract(parsed)); text != "" {
			return text
		}
	}
	return ""
}

func extractFromCandidateParts(parsed map[string]any) string {
	candidate, ok := firstCandidate(parsed)
	if !ok {
		return ""
	}
	content, ok := candidate["content"].(map[string]any)
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return ""
	}
	texts := make([]string, 0, len(parts))
	for _, item := range parts {
		part, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(toString(part["text"])); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

func extractFromCandidateFlat(parsed map[string]any) string {
	candidate, ok := firstCandidate(parsed)
	if !ok {
		return ""
	}
	if text := strings.TrimSpace(toString(candidate["output"])); text != "" {
		return text
	}
	return strings.TrimSpace(toString(candidate["text"]))
}

func extractFromTopLevel(parsed map[string]any) string {
	return strings.TrimSpace(toString(parsed["text"]))
}

func firstCandidate(parsed map[string]any) (map[string]any, bool) {
	candidates, ok := parsed["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return nil, false
	}
	candidate, ok := candidates[0].(map[string]any)
	return candidate, ok
}
