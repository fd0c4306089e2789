package compliance

import (
	"testing"
	"time"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

func TestSynthesizeIssueNoMatches(t *testing.T) {
	cat := singleRuleCatalog(t, "guarantee")
	if issue := synthesizeIssue(cat, RuleMatch{RuleID: "r1"}, time.Now()); issue != nil {
		t.Fatalf("expected nil issue for a rule with no matches, got %+v", issue)
	}
}

func TestSynthesizeIssueKeepsHighestConfidence(t *testing.T) {
	cat := mustCatalog(t, `{
		"rules": [{
			"id": "performance_guarantee",
			"name": "Performance Guarantees",
			"severity": "critical",
			"regulation": "SEC Rule 10b-5",
			"patterns": ["risk[- ]free", "no risk"],
			"rationale": "Guaranteed performance."
		}],
		"severity_weights": {"critical": 3},
		"risk_thresholds": {"critical": 80, "low": 0}
	}`)
	rule, _ := cat.Rule("performance_guarantee")

	segments := segmentsFromText("totally risk free I mean no risk at all")
	rm, err := MatchRule(rule, segments, 50)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(rm.Matches) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(rm.Matches))
	}

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	issue := synthesizeIssue(cat, rm, now)
	if issue == nil {
		t.Fatal("expected an issue")
	}

	// "no risk" is a verbatim hit (0.95); "risk free" only partially
	// tracks "risk[- ]free". Later text position must not matter.
	if want := "pattern match for 'no risk' at 95% confidence"; issue.ModelRationale != want {
		t.Fatalf("ModelRationale = %q, want %q", issue.ModelRationale, want)
	}
	if issue.Category != "Performance Guarantees" {
		t.Fatalf("Category = %q", issue.Category)
	}
	if issue.Severity != entities.SeverityCritical {
		t.Fatalf("Severity = %q", issue.Severity)
	}
	if issue.RegReference != "SEC Rule 10b-5" {
		t.Fatalf("RegReference = %q", issue.RegReference)
	}
	if !issue.Timestamp.Equal(now) {
		t.Fatalf("Timestamp = %v, want %v", issue.Timestamp, now)
	}
	if issue.ModelVersion != entities.ModelVersionRulesEngine {
		t.Fatalf("ModelVersion = %q", issue.ModelVersion)
	}
}

func TestSynthesizeIssueTieBreaksOnTextOrder(t *testing.T) {
	cat := singleRuleCatalog(t, "guarantee")
	rule, _ := cat.Rule("r1")

	segments := []entities.TranscriptSegment{
		{Text: "I guarantee the first one", StartMs: 0, EndMs: 2000},
		{Text: "and guarantee the second one", StartMs: 2000, EndMs: 4000},
	}
	rm, err := MatchRule(rule, segments, 50)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(rm.Matches) != 2 || rm.Matches[0].Confidence != rm.Matches[1].Confidence {
		t.Fatalf("fixture broken: %+v", rm.Matches)
	}

	issue := synthesizeIssue(cat, rm, time.Now())
	if issue == nil {
		t.Fatal("expected an issue")
	}
	if issue.EvidenceStartMs == nil || *issue.EvidenceStartMs != 0 {
		t.Fatalf("tie should resolve to the earlier occurrence, EvidenceStartMs = %v", issue.EvidenceStartMs)
	}
	if issue.EvidenceEndMs == nil || *issue.EvidenceEndMs != 2000 {
		t.Fatalf("EvidenceEndMs = %v, want 2000", issue.EvidenceEndMs)
	}
}

func TestSynthesizeIssueEvidenceSnippet(t *testing.T) {
	cat := singleRuleCatalog(t, "insider")
	rule, _ := cat.Rule("r1")

	segments := segmentsFromText("this tip came from an Insider at the company")
	rm, err := MatchRule(rule, segments, 50)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	issue := synthesizeIssue(cat, rm, time.Now())
	if issue == nil {
		t.Fatal("expected an issue")
	}
	if issue.EvidenceSnippet == nil {
		t.Fatal("expected an evidence snippet")
	}
	// Snippet carries the original casing, not the lower-cased match text.
	if want := "this tip came from an Insider at the company"; *issue.EvidenceSnippet != want {
		t.Fatalf("EvidenceSnippet = %q, want %q", *issue.EvidenceSnippet, want)
	}
}
