package compliance

import (
	"testing"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

func issuesWithSeverities(sevs ...entities.Severity) []entities.ComplianceIssue {
	issues := make([]entities.ComplianceIssue, len(sevs))
	for i, s := range sevs {
		issues[i] = entities.ComplianceIssue{Category: "Test", Severity: s}
	}
	return issues
}

func scoringCatalog(t *testing.T, weights, thresholds string) *Catalog {
	t.Helper()
	return mustCatalog(t, `{
		"rules": [{"id": "r1", "name": "Rule One", "severity": "critical", "regulation": "Reg", "patterns": ["x"], "rationale": "r"}],
		"severity_weights": `+weights+`,
		"risk_thresholds": `+thresholds+`
	}`)
}

func TestScoreEmptyIssues(t *testing.T) {
	c, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	score, level := c.Score(nil)
	if score != 0 || level != entities.RiskLevelLow {
		t.Fatalf("empty issues scored (%v, %v), want (0, low)", score, level)
	}
}

func TestScoreSingleCriticalIsMaximal(t *testing.T) {
	c := scoringCatalog(t,
		`{"critical": 3, "high": 2, "medium": 1, "low": 0.5}`,
		`{"critical": 80, "high": 60, "medium": 30, "low": 0}`)

	score, level := c.Score(issuesWithSeverities(entities.SeverityCritical))
	if score != 100 {
		t.Fatalf("single critical issue score = %v, want 100", score)
	}
	if level != entities.RiskLevelCritical {
		t.Fatalf("level = %v, want critical", level)
	}
}

func TestScoreMonotonicInSeverity(t *testing.T) {
	c := scoringCatalog(t,
		`{"critical": 4, "high": 3, "medium": 2, "low": 1}`,
		`{"critical": 80, "high": 60, "medium": 30, "low": 0}`)

	base := issuesWithSeverities(entities.SeverityMedium, entities.SeverityLow)
	upgraded := issuesWithSeverities(entities.SeverityCritical, entities.SeverityLow)

	baseScore, _ := c.Score(base)
	upScore, _ := c.Score(upgraded)
	if upScore < baseScore {
		t.Fatalf("upgrading severity lowered the score: %v -> %v", baseScore, upScore)
	}
}

func TestScoreThresholdBoundaryIsInclusive(t *testing.T) {
	// One high issue against weights 4/5 scores exactly 80; a score
	// equal to a threshold resolves to that threshold's level, not the
	// one below it.
	c := scoringCatalog(t,
		`{"critical": 5, "high": 4, "medium": 2, "low": 1}`,
		`{"critical": 90, "high": 80, "medium": 30, "low": 0}`)

	score, level := c.Score(issuesWithSeverities(entities.SeverityHigh))
	if score != 80 {
		t.Fatalf("score = %v, want exactly 80", score)
	}
	if level != entities.RiskLevelHigh {
		t.Fatalf("score 80 with high:80 resolved to %v, want high", level)
	}
}

func TestScoreUnknownSeverityUsesDefaultWeight(t *testing.T) {
	c := scoringCatalog(t,
		`{"critical": 4}`,
		`{"high": 60, "medium": 30}`)

	// Unknown severity contributes the default weight of 1 instead of
	// failing the scoring path.
	score, _ := c.Score(issuesWithSeverities("experimental"))
	if score != 25 {
		t.Fatalf("score = %v, want 25 (1/4 of maximum)", score)
	}
}

func TestScoreReactsToReconfiguredWeights(t *testing.T) {
	lenient := scoringCatalog(t,
		`{"critical": 10, "high": 1, "medium": 1, "low": 1}`,
		`{"critical": 80, "high": 60, "medium": 30, "low": 0}`)
	strict := scoringCatalog(t,
		`{"critical": 10, "high": 9, "medium": 8, "low": 7}`,
		`{"critical": 80, "high": 60, "medium": 30, "low": 0}`)

	issues := issuesWithSeverities(entities.SeverityMedium)
	lenientScore, _ := lenient.Score(issues)
	strictScore, _ := strict.Score(issues)
	if lenientScore != 10 || strictScore != 80 {
		t.Fatalf("reconfigured weights not honored: lenient=%v strict=%v", lenientScore, strictScore)
	}
}

func TestLevelForReconfiguredThresholds(t *testing.T) {
	c := scoringCatalog(t,
		`{"critical": 3}`,
		`{"critical": 50, "high": 25, "medium": 10, "low": 0}`)

	cases := []struct {
		score float64
		want  entities.RiskLevel
	}{
		{0, entities.RiskLevelLow},
		{9.99, entities.RiskLevelLow},
		{10, entities.RiskLevelMedium},
		{25, entities.RiskLevelHigh},
		{49.9, entities.RiskLevelHigh},
		{50, entities.RiskLevelCritical},
		{100, entities.RiskLevelCritical},
	}
	for _, tc := range cases {
		if got := c.LevelFor(tc.score); got != tc.want {
			t.Fatalf("LevelFor(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}
