package compliance

import (
	"fmt"
	"math"
	"time"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// synthesizeIssue converts the best occurrence of a rule match into a
// compliance issue record. Returns nil when the rule never matched.
// At most one issue per rule per analysis pass: only the
// highest-confidence occurrence is kept, ties broken by text order.
func synthesizeIssue(catalog *Catalog, rm RuleMatch, now time.Time) *entities.ComplianceIssue {
	if len(rm.Matches) == 0 {
		return nil
	}
	rule, ok := catalog.Rule(rm.RuleID)
	if !ok {
		return nil
	}

	best := rm.Matches[0]
	for _, m := range rm.Matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}

	issue := &entities.ComplianceIssue{
		Category:     rule.Name,
		Severity:     rule.Severity,
		Rationale:    rule.Rationale,
		RegReference: rule.Regulation,
		Timestamp:    now,
		ModelRationale: fmt.Sprintf("pattern match for '%s' at %d%% confidence",
			best.Pattern, int(math.Round(best.Confidence*100))),
		ModelVersion: entities.ModelVersionRulesEngine,
	}

	snippet := best.ContextText
	issue.EvidenceSnippet = &snippet
	if best.Segment != nil {
		start, end := best.Segment.StartMs, best.Segment.EndMs
		issue.EvidenceStartMs = &start
		issue.EvidenceEndMs = &end
	}

	return issue
}
