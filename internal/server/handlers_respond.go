package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type respondLocale struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

type respondRequest struct {
	UserText  string        `json:"user_text"`
	GuestMode bool          `json:"guest_mode"`
	Locale    respondLocale `json:"locale"`
	AgeYears  int           `json:"age_years"`
	Language  string        `json:"language"`
	History   []historyTurn `json:"history"`
}

// responseEnvelope is the sole output contract: every path through the
// orchestrator terminates by producing exactly one of these.
type responseEnvelope struct {
	Action    string          `json:"action"`
	Severity  string          `json:"severity,omitempty"`
	Message   string          `json:"message"`
	Resources []resourceEntry `json:"resources,omitempty"`
}

const (
	actionPopup = "popup"
	actionChat  = "chat"
)

type respondHTTPError struct {
	Status int
	Detail string
}

func (e *respondHTTPError) Error() string {
	return e.Detail
}

const technicalDifficultyMessage = "We're having a temporary technical difficulty, but you are not alone. " +
	"Please try again in a moment, or reach out to a trusted person near you."

var escalationTemplates = map[string]map[riskTier]string{
	"en": {
		tierCrisis: "It sounds like you are going through something very painful right now, and your safety matters. " +
			"Please reach out to one of the helplines below right away; they are free, confidential and available for you. " +
			"If you are in immediate danger, contact local emergency services.",
		tierSevere: "It sounds like things have been feeling really heavy lately, and you deserve support. " +
			"Talking to someone can genuinely help; the services below are free and confidential, whenever you are ready.",
	},
	"hi": {
		tierCrisis: "लगता है आप इस समय बहुत तकलीफ से गुजर रहे हैं, और आपकी सुरक्षा मायने रखती है। " +
			"कृपया नीचे दी गई किसी हेल्पलाइन से अभी संपर्क करें; ये मुफ्त और गोपनीय हैं। " +
			"अगर आप तुरंत खतरे में हैं, तो स्थानीय आपातकालीन सेवाओं से संपर्क करें।",
		tierSevere: "लगता है हाल में सब कुछ बहुत भारी लग रहा है, और आप सहारे के हकदार हैं। " +
			"किसी से बात करना सच में मदद करता है; नीचे दी गई सेवाएं मुफ्त और गोपनीय हैं, जब भी आप तैयार हों।",
	},
}

func (a *App) respond(c *gin.Context) {
	var payload respondRequest
	if !mustJSON(c, &payload) {
		return
	}

	envelope, err := a.runRespond(c.Request.Context(), payload)
	if err != nil {
		var httpErr *respondHTTPError
		if errors.As(err, &httpErr) {
			writeError(c, httpErr.Status, httpErr.Detail)
			return
		}
		log.Printf("respond failed unclassified err=%v", err)
		writeError(c, http.StatusInternalServerError, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, envelope)
}

// runRespond is the orchestration core: START -> CLASSIFY -> {ESCALATE |
// GENERATE} -> {SANITIZE} -> DONE. Classification always runs before any
// generation attempt so crisis input can never be answered by an unfiltered
// generated reply.
func (a *App) runRespond(ctx context.Context, req respondRequest) (responseEnvelope, error) {
	requestID := uuid.NewString()

	userText := strings.TrimSpace(req.UserText)
	if userText == "" {
		return responseEnvelope{}, &respondHTTPError{Status: http.StatusBadRequest, Detail: "user_text is required"}
	}

	var remote remoteClassifier
	if a.gen != nil {
		remote = a.gen.Generate
	}
	risk := classifyRisk(ctx, userText, remote)
	if risk.DegradedReason != "" {
		log.Printf("risk classification degraded request_id=%s reason=%s", requestID, risk.DegradedReason)
	}
	log.Printf("risk classified request_id=%s tier=%s source=%s", requestID, risk.Tier, risk.Source)

	if risk.Tier != tierNormal {
		return a.escalationEnvelope(req, risk.Tier), nil
	}

	if a.gen != nil {
		prompt := composePrompt(userText, req, a.cfg.HistoryTurnLimit, time.Now().UTC())
		answer, err := a.gen.Generate(ctx, prompt)
		if err == nil {
			return responseEnvelope{
				Action:  actionChat,
				Message: sanitizeOutgoing(answer),
			}, nil
		}
		var unavailable *generationUnavailableError
		if errors.As(err, &unavailable) {
			log.Printf("generation unavailable request_id=%s reason=%s", requestID, unavailable.Reason)
		} else {
			log.Printf("generation failed request_id=%s err=%v", requestID, err)
		}
	}

	// Fallback text is pre-vetted, so it skips the sanitizer.
	return responseEnvelope{
		Action:  actionChat,
		Message: a.guardedFallback(requestID, userText, req),
	}, nil
}

// escalationEnvelope builds the popup response for CRISIS/SEVERE tiers from
// fixed templates plus the cultural profile. Escalation text never passes
// through generation, so no sanitization step here.
func (a *App) escalationEnvelope(req respondRequest, tier riskTier) responseEnvelope {
	templates, ok := escalationTemplates[normalizeLanguage(req.Language)]
	if !ok {
		templates = escalationTemplates["en"]
	}

	message := templates[tier]
	_, countryKnown := countryResources[normalizeLocaleKey(req.Locale.Country)]
	profile := lookupCulturalProfile(req.Locale.Country, req.Locale.State)
	if countryKnown && normalizeLanguage(req.Language) != "hi" {
		region := profile.Country
		if profile.State != "" {
			region = profile.State + ", " + profile.Country
		}
		message = message + " The services below include options available in " + region + "."
	}

	return responseEnvelope{
		Action:    actionPopup,
		Severity:  string(tier),
		Message:   message,
		Resources: resolveResources(req.Locale.Country, req.Locale.State),
	}
}

// guardedFallback shields the orchestrator from a panicking responder. The
// responder is pure and offline so this path should be unreachable, but the
// availability guarantee requires an envelope even then.
func (a *App) guardedFallback(requestID, userText string, req respondRequest) (message string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fallback responder panicked request_id=%s panic=%v", requestID, r)
			message = technicalDifficultyMessage
		}
	}()
	return fallbackReply(deriveConcernCategory(userText), req.Language, req.AgeYears, req.Locale)
}
