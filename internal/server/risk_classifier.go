package server

import (
	"context"
	"strings"
	"unicode"
)

type riskTier string

const (
	tierCrisis riskTier = "CRISIS"
	tierSevere riskTier = "SEVERE"
	tierNormal riskTier = "NORMAL"
)

type riskResult struct {
	Tier riskTier
	// Source reports which path produced the tier: "remote" or "keyword".
	Source string
	// DegradedReason is set when the remote path was attempted but the
	// keyword path decided the tier. Inspectable in tests, never user-visible.
	DegradedReason string
}

// remoteClassifier sends a constrained classification instruction to a
// generative backend and returns its raw reply.
type remoteClassifier func(ctx context.Context, instruction string) (string, error)

// Crisis keywords take priority over severe keywords. Matching is substring
// containment, deliberately over-inclusive: a false positive shows a help
// popup, a false negative on crisis language is unacceptable.
var crisisKeywords = []string{
	"kill myself",
	"end my life",
	"ending my life",
	"end it all",
	"suicide",
	"suicidal",
	"want to die",
	"wish i was dead",
	"wish i were dead",
	"better off dead",
	"hurt myself",
	"harm myself",
	"self harm",
	"self-harm",
	"cut myself",
	"take my own life",
	"no reason to live",
	"don't want to live",
	"dont want to live",
	// Romanized Hindi phrases seen in user messages from India.
	"marna chahta",
	"marna chahti",
	"jaan dena",
	"khudkushi",
	"atmahatya",
}

var severeKeywords = []string{
	"worthless",
	"hopeless",
	"no hope",
	"hate myself",
	"hate my life",
	"can't go on",
	"cant go on",
	"can't take it anymore",
	"cant take it anymore",
	"give up on everything",
	"nothing matters",
	"no point in anything",
	"no one cares",
	"nobody cares",
	"empty inside",
	"completely alone",
}

const riskClassificationInstruction = `You are a safety triage classifier for a mental health support chat.
Reply with exactly one word: CRISIS, SEVERE or NORMAL. No punctuation, no explanation.

CRISIS = active self-harm or suicide intent.
SEVERE = deep hopelessness or worthlessness without explicit self-harm intent.
NORMAL = everything else, including everyday stress.

Examples:
Message: "I am going to end my life tonight" -> CRISIS
Message: "I feel completely worthless and empty" -> SEVERE
Message: "I am nervous about my exam tomorrow" -> NORMAL

Message: `

// classifyRisk never returns an error: any remote failure degrades silently
// to the keyword path so the request can always proceed.
func classifyRisk(ctx context.Context, text string, remote remoteClassifier) riskResult {
	keywordTier := classifyByKeywords(text)

	// Crisis keyword hits are final. The remote model must never be able to
	// downgrade explicit crisis language.
	if keywordTier == tierCrisis || remote == nil {
		result := riskResult{Tier: keywordTier, Source: "keyword"}
		if remote == nil {
			result.DegradedReason = "remote classifier not configured"
		}
		return result
	}

	reply, err := remote(ctx, riskClassificationInstruction+strings.TrimSpace(text))
	if err != nil {
		return riskResult{Tier: keywordTier, Source: "keyword", DegradedReason: "remote call failed: " + err.Error()}
	}
	tier, ok := parseTierReply(reply)
	if !ok {
		return riskResult{Tier: keywordTier, Source: "keyword", DegradedReason: "remote reply unparseable: " + truncateForLog(reply, 80)}
	}

	// The keyword severe floor holds even when the remote says NORMAL.
	if keywordTier == tierSevere && tier == tierNormal {
		return riskResult{Tier: tierSevere, Source: "keyword"}
	}
	return riskResult{Tier: tier, Source: "remote"}
}

func classifyByKeywords(text string) riskTier {
	normalized := normalizeForMatch(text)
	if normalized == "" {
		return tierNormal
	}
	if containsAnyKeyword(normalized, crisisKeywords) {
		return tierCrisis
	}
	if containsAnyKeyword(normalized, severeKeywords) {
		return tierSevere
	}
	return tierNormal
}

// parseTierReply takes the first token of the reply, strips every non-letter
// rune and matches by prefix, tolerating decorations like "**CRISIS**." or
// "crisis - the user ...".
func parseTierReply(reply string) (riskTier, bool) {
	fields := strings.Fields(strings.TrimSpace(reply))
	if len(fields) == 0 {
		return "", false
	}
	token := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, fields[0])
	token = strings.ToUpper(token)

	switch {
	case strings.HasPrefix(token, string(tierCrisis)):
		return tierCrisis, true
	case strings.HasPrefix(token, string(tierSevere)):
		return tierSevere, true
	case strings.HasPrefix(token, string(tierNormal)):
		return tierNormal, true
	}
	return "", false
}
