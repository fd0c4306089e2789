package compliance

import (
	"context"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/internal/domain/entities"
	pkgai "github.com/callguardhq/callguard/pkg/ai"
)

// Engine tunables. The escalation threshold is preserved from the
// original product configuration; override it through EngineConfig
// rather than re-deriving a new value.
const (
	DefaultEscalationThreshold = 20.0
	DefaultAnalyzerTimeout     = 12 * time.Second
)

// Analyzer is the supplementary external analyzer consulted when
// deterministic detection is weak or empty. Implementations must honor
// context cancellation; all failures are recoverable from the engine's
// point of view.
type Analyzer interface {
	AnalyzeTranscript(ctx context.Context, transcript string) ([]pkgai.Finding, error)
}

// EngineConfig holds the per-engine tunables. Zero values fall back to
// the defaults above.
type EngineConfig struct {
	EscalationThreshold float64
	ContextWindow       int
	AnalyzerTimeout     time.Duration
}

// Engine coordinates the deterministic rule pass, optional escalation to
// the external analyzer, and result merging. It holds no mutable state
// across calls other than the immutable catalog: each Analyze invocation
// is independent and safe to run concurrently with others.
type Engine struct {
	catalog  *Catalog
	analyzer Analyzer
	cfg      EngineConfig
	logger   *zap.Logger
	nowFn    func() time.Time
}

// NewEngine constructs a compliance engine. analyzer may be nil, in
// which case escalation is skipped entirely.
func NewEngine(catalog *Catalog, analyzer Analyzer, cfg EngineConfig, logger *zap.Logger) *Engine {
	if cfg.EscalationThreshold <= 0 {
		cfg.EscalationThreshold = DefaultEscalationThreshold
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultContextWindow
	}
	if cfg.AnalyzerTimeout <= 0 {
		cfg.AnalyzerTimeout = DefaultAnalyzerTimeout
	}
	return &Engine{
		catalog:  catalog,
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// WithClock overrides the engine's clock. Intended for tests that need
// reproducible issue timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.nowFn = now
	return e
}

// Catalog returns the engine's rule catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Analyze runs one full compliance analysis pass over the transcript
// segments. A failure in the deterministic pass (pattern compile,
// catalog problem) propagates as a typed error; analyzer failures never
// do — the deterministic result is returned instead.
func (e *Engine) Analyze(ctx context.Context, segments []entities.TranscriptSegment) (*entities.AnalysisResult, error) {
	// An empty transcript is a degenerate no-op, not an escalation
	// trigger: escalation exists to second-guess weak detection on real
	// input, and there is nothing to detect here.
	if len(segments) == 0 {
		return &entities.AnalysisResult{
			Issues:    []entities.ComplianceIssue{},
			RiskScore: 0,
			RiskLevel: entities.RiskLevelLow,
			Method:    entities.AnalysisMethodRulesEngine,
		}, nil
	}

	doc := newDocument(segments)

	issues, err := e.deterministicPass(doc)
	if err != nil {
		return nil, err
	}
	score, level := e.catalog.Score(issues)

	result := &entities.AnalysisResult{
		Issues:    issues,
		RiskScore: score,
		RiskLevel: level,
		Method:    entities.AnalysisMethodRulesEngine,
	}

	if e.analyzer == nil || (len(issues) > 0 && score >= e.cfg.EscalationThreshold) {
		return result, nil
	}

	extIssues, ok := e.escalate(ctx, doc.fullText)
	if !ok || len(extIssues) == 0 {
		return result, nil
	}

	extScore, _ := e.catalog.Score(extIssues)
	if len(issues) == 0 {
		result.Issues = extIssues
		result.RiskScore = extScore
		result.Method = entities.AnalysisMethodExternalAgent
	} else {
		result.Issues = append(issues, extIssues...)
		if extScore > result.RiskScore {
			result.RiskScore = extScore
		}
		result.Method = entities.AnalysisMethodHybrid
	}
	result.RiskLevel = e.catalog.LevelFor(result.RiskScore)

	return result, nil
}

// deterministicPass scans every catalog rule against the transcript and
// synthesizes at most one issue per rule, in catalog iteration order.
func (e *Engine) deterministicPass(doc document) ([]entities.ComplianceIssue, error) {
	now := e.nowFn().UTC()
	issues := make([]entities.ComplianceIssue, 0)

	for i := range e.catalog.rules {
		rm, err := matchRule(&e.catalog.rules[i], doc, e.cfg.ContextWindow)
		if err != nil {
			return nil, err
		}
		if issue := synthesizeIssue(e.catalog, rm, now); issue != nil {
			issues = append(issues, *issue)
		}
	}

	return issues, nil
}

// escalate consults the external analyzer with a bounded timeout and
// retry. Any failure is logged and swallowed; the second return value
// reports whether a usable response arrived.
func (e *Engine) escalate(ctx context.Context, transcript string) ([]entities.ComplianceIssue, bool) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.AnalyzerTimeout)
	defer cancel()

	var findings []pkgai.Finding
	op := func() error {
		res, err := e.analyzer.AnalyzeTranscript(callCtx, transcript)
		if err != nil {
			return err
		}
		findings = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 4 * time.Second
	bo.MaxElapsedTime = e.cfg.AnalyzerTimeout

	if err := backoff.Retry(op, backoff.WithContext(bo, callCtx)); err != nil {
		if e.logger != nil {
			e.logger.Warn("external analyzer unavailable, keeping deterministic result",
				zap.Error(err),
			)
		}
		return nil, false
	}

	return e.convertFindings(findings), true
}

// convertFindings maps agent findings to issue records, dropping any
// entry that lacks a required field (treated as "no issue", per the
// analyzer contract).
func (e *Engine) convertFindings(findings []pkgai.Finding) []entities.ComplianceIssue {
	now := e.nowFn().UTC()
	issues := make([]entities.ComplianceIssue, 0, len(findings))

	for _, f := range findings {
		if !f.Complete() {
			if e.logger != nil {
				e.logger.Warn("dropping incomplete analyzer finding",
					zap.String("category", f.Category),
				)
			}
			continue
		}

		issue := entities.ComplianceIssue{
			Category:       f.Category,
			Severity:       entities.Severity(strings.ToLower(f.Severity)),
			Rationale:      f.Rationale,
			RegReference:   f.RegReference,
			Timestamp:      now,
			ModelRationale: "flagged by external compliance agent",
			ModelVersion:   entities.ModelVersionToolhouseAgent,
		}
		if f.EvidenceSnippet != "" {
			snippet := f.EvidenceSnippet
			issue.EvidenceSnippet = &snippet
		}
		issues = append(issues, issue)
	}

	return issues
}
