package server

import (
	"context"
	"errors"
	"testing"
)

func TestClassifyByKeywordsCrisisPhrases(t *testing.T) {
	cases := []string{
		"I want to end my life",
		"sometimes I think about SUICIDE",
		"i've been wanting to hurt myself again",
		"Honestly I just want to die.",
		"mujhe lagta hai khudkushi hi raasta hai",
	}
	for _, text := range cases {
		if tier := classifyByKeywords(text); tier != tierCrisis {
			t.Fatalf("expected CRISIS for %q, got %s", text, tier)
		}
	}
}

func TestClassifyByKeywordsSeverePhrases(t *testing.T) {
	cases := []string{
		"I feel worthless and nothing matters",
		"everything is hopeless",
		"I just feel empty inside all the time",
	}
	for _, text := range cases {
		if tier := classifyByKeywords(text); tier != tierSevere {
			t.Fatalf("expected SEVERE for %q, got %s", text, tier)
		}
	}
}

func TestClassifyByKeywordsNormal(t *testing.T) {
	if tier := classifyByKeywords("I'm stressed about my exams"); tier != tierNormal {
		t.Fatalf("expected NORMAL, got %s", tier)
	}
	if tier := classifyByKeywords(""); tier != tierNormal {
		t.Fatalf("expected NORMAL for empty text, got %s", tier)
	}
}

func TestClassifyRiskCrisisKeywordOverridesRemote(t *testing.T) {
	// A crisis keyword hit must stand even if the remote model disagrees.
	remote := func(ctx context.Context, instruction string) (string, error) {
		return "NORMAL", nil
	}
	result := classifyRisk(context.Background(), "I want to end my life", remote)
	if result.Tier != tierCrisis {
		t.Fatalf("expected CRISIS, got %s", result.Tier)
	}
	if result.Source != "keyword" {
		t.Fatalf("expected keyword source, got %s", result.Source)
	}
}

func TestClassifyRiskUsesRemoteResult(t *testing.T) {
	remote := func(ctx context.Context, instruction string) (string, error) {
		return "SEVERE", nil
	}
	result := classifyRisk(context.Background(), "I had a rough week", remote)
	if result.Tier != tierSevere {
		t.Fatalf("expected SEVERE from remote, got %s", result.Tier)
	}
	if result.Source != "remote" {
		t.Fatalf("expected remote source, got %s", result.Source)
	}
	if result.DegradedReason != "" {
		t.Fatalf("expected no degradation, got %q", result.DegradedReason)
	}
}

func TestClassifyRiskRemoteFailureDegradesToKeywords(t *testing.T) {
	remote := func(ctx context.Context, instruction string) (string, error) {
		return "", errors.New("backend down")
	}
	result := classifyRisk(context.Background(), "I feel worthless", remote)
	if result.Tier != tierSevere {
		t.Fatalf("expected keyword SEVERE, got %s", result.Tier)
	}
	if result.Source != "keyword" {
		t.Fatalf("expected keyword source, got %s", result.Source)
	}
	if result.DegradedReason == "" {
		t.Fatalf("expected degradation reason to be recorded")
	}
}

func TestClassifyRiskUnparseableRemoteReply(t *testing.T) {
	remote := func(ctx context.Context, instruction string) (string, error) {
		return "I think the user seems fine overall", nil
	}
	result := classifyRisk(context.Background(), "just checking in", remote)
	if result.Tier != tierNormal {
		t.Fatalf("expected NORMAL fallback, got %s", result.Tier)
	}
	if result.DegradedReason == "" {
		t.Fatalf("expected degradation reason for unparseable reply")
	}
}

func TestClassifyRiskNilRemote(t *testing.T) {
	result := classifyRisk(context.Background(), "I feel hopeless", nil)
	if result.Tier != tierSevere {
		t.Fatalf("expected SEVERE, got %s", result.Tier)
	}
	if result.Source != "keyword" {
		t.Fatalf("expected keyword source, got %s", result.Source)
	}
}

func TestClassifyRiskSevereKeywordFloorHolds(t *testing.T) {
	remote := func(ctx context.Context, instruction string) (string, error) {
		return "NORMAL", nil
	}
	result := classifyRisk(context.Background(), "I feel worthless and tired", remote)
	if result.Tier != tierSevere {
		t.Fatalf("expected SEVERE floor to hold against remote NORMAL, got %s", result.Tier)
	}
}

func TestParseTierReplyToleratesDecoration(t *testing.T) {
	cases := map[string]riskTier{
		"CRISIS":                        tierCrisis,
		"**crisis**.":                   tierCrisis,
		"Severe - hopelessness present": tierSevere,
		"normal, everyday stress":       tierNormal,
		"CRISIS\nexplanation follows":   tierCrisis,
	}
	for reply, want := range cases {
		got, ok := parseTierReply(reply)
		if !ok {
			t.Fatalf("expected %q to parse", reply)
		}
		if got != want {
			t.Fatalf("reply %q: expected %s, got %s", reply, want, got)
		}
	}

	for _, reply := range []string{"", "   ", "123", "the user is in crisis"} {
		if _, ok := parseTierReply(reply); ok {
			t.Fatalf("expected %q to fail parsing", reply)
		}
	}
}
