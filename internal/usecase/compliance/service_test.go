package compliance

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/callguardhq/callguard/internal/domain/entities"
	pkgai "github.com/callguardhq/callguard/pkg/ai"
)

type stubAnalyzer struct {
	findings []pkgai.Finding
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeTranscript(_ context.Context, _ string) ([]pkgai.Finding, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.findings, nil
}

func defaultEngine(t *testing.T, analyzer Analyzer) *Engine {
	t.Helper()
	cat, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog failed to load: %v", err)
	}
	return NewEngine(cat, analyzer, EngineConfig{}, nil)
}

func fixedClock() func() time.Time {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	engine := defaultEngine(t, nil).WithClock(fixedClock())

	segments := []entities.TranscriptSegment{
		{Text: "I guarantee this fund will double your money", StartMs: 0, EndMs: 4000, Speaker: "advisor"},
		{Text: "you should act now before the window closes", StartMs: 4000, EndMs: 8000, Speaker: "advisor"},
	}

	first, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	second, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated analysis diverged:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	stub := &stubAnalyzer{findings: []pkgai.Finding{{
		Category: "Anything", Severity: "high", Rationale: "r", RegReference: "Reg",
	}}}
	engine := defaultEngine(t, stub)

	res, err := engine.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(res.Issues) != 0 || res.RiskScore != 0 || res.RiskLevel != entities.RiskLevelLow {
		t.Fatalf("empty transcript produced %+v", res)
	}
	if res.Method != entities.AnalysisMethodRulesEngine {
		t.Fatalf("Method = %q, want rules-engine", res.Method)
	}
	if stub.calls != 0 {
		t.Fatalf("analyzer consulted %d times for an empty transcript", stub.calls)
	}
}

func TestAnalyzeStrongDetectionSkipsAnalyzer(t *testing.T) {
	stub := &stubAnalyzer{}
	engine := defaultEngine(t, stub)

	segments := segmentsFromText("I guarantee you will double your money on this one")
	res, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if len(res.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(res.Issues))
	}
	if res.Issues[0].Category != "Performance Guarantees" {
		t.Fatalf("Category = %q", res.Issues[0].Category)
	}
	// A single critical issue is maximal under the default weights.
	if res.RiskScore != 100 {
		t.Fatalf("RiskScore = %v, want 100", res.RiskScore)
	}
	if res.RiskLevel != entities.RiskLevelCritical {
		t.Fatalf("RiskLevel = %v", res.RiskLevel)
	}
	if res.Method != entities.AnalysisMethodRulesEngine {
		t.Fatalf("Method = %q", res.Method)
	}
	if stub.calls != 0 {
		t.Fatalf("analyzer consulted despite a confident deterministic result")
	}
}

func TestAnalyzeWeakDetectionMergesHybrid(t *testing.T) {
	// One medium issue scores 15 (< the default escalation threshold of
	// 20), so the engine consults the analyzer and merges its findings.
	cat := mustCatalog(t, `{
		"rules": [{"id": "pressure", "name": "High-Pressure Sales Tactics", "severity": "medium", "regulation": "FINRA Rule 2010", "patterns": ["act now"], "rationale": "time pressure"}],
		"severity_weights": {"critical": 10, "high": 2, "medium": 1.5, "low": 1},
		"risk_thresholds": {"critical": 80, "high": 60, "medium": 20, "low": 0}
	}`)
	stub := &stubAnalyzer{findings: []pkgai.Finding{
		{Category: "Risk Disclosure Omission", Severity: "High", Rationale: "dismissed downside", RegReference: "FINRA Rule 2210", EvidenceSnippet: "nothing can go wrong here"},
		{Category: "Unsuitable Recommendations", Severity: "high", Rationale: "concentration push", RegReference: "FINRA Rule 2111"},
	}}
	engine := NewEngine(cat, stub, EngineConfig{}, nil)

	segments := segmentsFromText("you need to act now, nothing can go wrong here")
	res, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", stub.calls)
	}
	if res.Method != entities.AnalysisMethodHybrid {
		t.Fatalf("Method = %q, want hybrid", res.Method)
	}
	if len(res.Issues) != 3 {
		t.Fatalf("expected 3 merged issues, got %d", len(res.Issues))
	}
	// Deterministic score 15, external score (2+2)/(2*10)*100 = 20; the
	// merged result keeps the higher of the two.
	if res.RiskScore != 20 {
		t.Fatalf("RiskScore = %v, want 20", res.RiskScore)
	}
	if res.RiskLevel != entities.RiskLevelMedium {
		t.Fatalf("RiskLevel = %v, want medium", res.RiskLevel)
	}
	// Case-normalized severity from the agent payload.
	if res.Issues[1].Severity != entities.SeverityHigh {
		t.Fatalf("external issue severity = %q", res.Issues[1].Severity)
	}
	if res.Issues[1].ModelVersion != entities.ModelVersionToolhouseAgent {
		t.Fatalf("external issue ModelVersion = %q", res.Issues[1].ModelVersion)
	}
}

func TestAnalyzeExternalOnly(t *testing.T) {
	stub := &stubAnalyzer{findings: []pkgai.Finding{{
		Category:     "Churning",
		Severity:     "high",
		Rationale:    "trade frequency far above stated objectives",
		RegReference: "FINRA Rule 2111",
	}}}
	engine := defaultEngine(t, stub)

	segments := segmentsFromText("let's review the quarterly rebalancing schedule")
	res, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if res.Method != entities.AnalysisMethodExternalAgent {
		t.Fatalf("Method = %q, want external-agent", res.Method)
	}
	if len(res.Issues) != 1 || res.Issues[0].Category != "Churning" {
		t.Fatalf("issues = %+v", res.Issues)
	}
	// (2)/(1*3)*100 under the default weights.
	if !approxEqual(res.RiskScore, 200.0/3.0) {
		t.Fatalf("RiskScore = %v", res.RiskScore)
	}
	if res.RiskLevel != entities.RiskLevelHigh {
		t.Fatalf("RiskLevel = %v, want high", res.RiskLevel)
	}
}

func TestAnalyzeAnalyzerFailureFallsBack(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("agent unavailable")}
	cat, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog failed to load: %v", err)
	}
	// Short timeout keeps the retry loop from stretching the test.
	engine := NewEngine(cat, stub, EngineConfig{AnalyzerTimeout: 50 * time.Millisecond}, nil)

	segments := segmentsFromText("let's review the quarterly rebalancing schedule")
	res, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyzer failure must not surface as an analysis error: %v", err)
	}

	if res.Method != entities.AnalysisMethodRulesEngine {
		t.Fatalf("Method = %q, want rules-engine", res.Method)
	}
	if len(res.Issues) != 0 || res.RiskScore != 0 || res.RiskLevel != entities.RiskLevelLow {
		t.Fatalf("fallback result = %+v", res)
	}
	if stub.calls == 0 {
		t.Fatal("analyzer was never attempted")
	}
}

func TestAnalyzeDropsIncompleteFindings(t *testing.T) {
	stub := &stubAnalyzer{findings: []pkgai.Finding{
		{Severity: "high", Rationale: "no category given", RegReference: "FINRA Rule 2210"},
		{Category: "Unsuitable Recommendations", Severity: "high", Rationale: "missing regulation"},
	}}
	engine := defaultEngine(t, stub)

	segments := segmentsFromText("let's review the quarterly rebalancing schedule")
	res, err := engine.Analyze(context.Background(), segments)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	// Every finding was incomplete, so the deterministic result stands.
	if res.Method != entities.AnalysisMethodRulesEngine {
		t.Fatalf("Method = %q, want rules-engine", res.Method)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("issues = %+v, want none", res.Issues)
	}
	if stub.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", stub.calls)
	}
}
