package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// stubRouted serves classification and generation from one stub: prompts
// carrying the triage instruction get classifierReply, everything else
// gets answer.
func stubRouted(classifierReply, answer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.Unmarshal(raw, &payload)

		prompt := ""
		if len(payload.Contents) > 0 && len(payload.Contents[0].Parts) > 0 {
			prompt = payload.Contents[0].Parts[0].Text
		}

		reply := answer
		if strings.Contains(prompt, "safety triage classifier") {
			reply = classifierReply
		}
		stubAnswer(reply)(w, r)
	}
}

func respondPayload(userText string) map[string]any {
	return map[string]any{
		"user_text": userText,
		"age_years": 17,
		"language":  "en",
		"locale":    map[string]any{"country": "India", "state": "Tamil Nadu"},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSONMap(t, rec)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestRespondRejectsEmptyUserText(t *testing.T) {
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("   "))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := responseDetail(t, rec); detail != "user_text is required" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestRespondRejectsMalformedPayload(t *testing.T) {
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", "not an object")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := responseDetail(t, rec); detail != "Invalid request payload" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestRespondCrisisKeywordShowsPopup(t *testing.T) {
	// No backend configured: the crisis path must not depend on one.
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("I want to end my life"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionPopup {
		t.Fatalf("expected popup action, got %v", body["action"])
	}
	if body["severity"] != string(tierCrisis) {
		t.Fatalf("expected CRISIS severity, got %v", body["severity"])
	}
	message, _ := body["message"].(string)
	if strings.TrimSpace(message) == "" {
		t.Fatal("expected a non-empty escalation message")
	}

	resources, _ := body["resources"].([]any)
	if len(resources) == 0 {
		t.Fatal("expected at least one crisis resource")
	}
	first, _ := resources[0].(map[string]any)
	if first["region"] != "India" {
		t.Fatalf("expected national resources first, got region %v", first["region"])
	}
}

func TestRespondSevereKeywordShowsPopup(t *testing.T) {
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("I feel worthless and nothing matters"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionPopup {
		t.Fatalf("expected popup action, got %v", body["action"])
	}
	if body["severity"] != string(tierSevere) {
		t.Fatalf("expected SEVERE severity, got %v", body["severity"])
	}
}

func TestRespondRemoteCrisisEscalates(t *testing.T) {
	cfg := newStubBackendConfig(t, stubRouted("CRISIS", "should never be generated"))
	router := New(cfg).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("everything feels dark and i have made a plan"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionPopup {
		t.Fatalf("expected popup action, got %v", body["action"])
	}
	if body["severity"] != string(tierCrisis) {
		t.Fatalf("expected CRISIS severity, got %v", body["severity"])
	}
}

func TestRespondGeneratesAndSanitizesAnswer(t *testing.T) {
	cfg := newStubBackendConfig(t, stubRouted("NORMAL",
		"Support programs exist for scheduled castes students facing exam stress."))
	router := New(cfg).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("I'm stressed about my exams"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionChat {
		t.Fatalf("expected chat action, got %v", body["action"])
	}
	if _, present := body["severity"]; present {
		t.Fatalf("chat envelope must not carry a severity: %v", body)
	}
	message, _ := body["message"].(string)
	if strings.Contains(strings.ToLower(message), "scheduled castes") {
		t.Fatalf("flagged term leaked through: %q", message)
	}
	if !strings.Contains(message, "historically marginalized communities") {
		t.Fatalf("expected sanitized replacement in message: %q", message)
	}
}

func TestRespondFallsBackWhenBackendFails(t *testing.T) {
	cfg := newStubBackendConfig(t, stubFailure(http.StatusServiceUnavailable))
	router := New(cfg).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("I'm stressed about my exams"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionChat {
		t.Fatalf("expected chat action, got %v", body["action"])
	}
	message, _ := body["message"].(string)

	matched := false
	for _, variant := range fallbackPools["en"][concernExamAnxiety] {
		if strings.HasPrefix(message, variant) {
			matched = true
		}
	}
	if !matched {
		t.Fatalf("fallback message not drawn from the exam pool: %q", message)
	}
}

func TestRespondWithoutBackendUsesOfflineResponder(t *testing.T) {
	router := New(newTestConfig()).Router()

	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", respondPayload("I feel so lonely these days"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSONMap(t, rec)
	if body["action"] != actionChat {
		t.Fatalf("expected chat action, got %v", body["action"])
	}
	message, _ := body["message"].(string)

	matched := false
	for _, variant := range fallbackPools["en"][concernLoneliness] {
		if strings.HasPrefix(message, variant) {
			matched = true
		}
	}
	if !matched {
		t.Fatalf("offline message not drawn from the loneliness pool: %q", message)
	}
}

func TestRespondHindiEscalationUsesHindiTemplate(t *testing.T) {
	router := New(newTestConfig()).Router()

	payload := respondPayload("I want to end my life")
	payload["language"] = "hi"
	rec := performRequest(t, router, http.MethodPost, "/api/v1/respond", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSONMap(t, rec)
	message, _ := body["message"].(string)
	if message != escalationTemplates["hi"][tierCrisis] {
		t.Fatalf("expected the Hindi crisis template, got %q", message)
	}
}
