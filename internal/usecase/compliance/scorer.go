package compliance

import (
	"github.com/callguardhq/callguard/internal/domain/entities"
)

// levelOrder is the check order for threshold resolution: most to least
// severe, so a score meeting several thresholds resolves to the most
// severe matching level.
var levelOrder = []entities.RiskLevel{
	entities.RiskLevelCritical,
	entities.RiskLevelHigh,
	entities.RiskLevelMedium,
	entities.RiskLevelLow,
}

// Score aggregates a set of issues into a normalized 0-100 risk score
// and its discrete level. An empty issue set scores zero. The score is
// the ratio of accumulated severity weight to the maximum possible
// weight (every issue critical), scaled to 100 and clamped.
func (c *Catalog) Score(issues []entities.ComplianceIssue) (float64, entities.RiskLevel) {
	if len(issues) == 0 {
		return 0, entities.RiskLevelLow
	}

	var total float64
	for _, issue := range issues {
		total += c.WeightFor(issue.Severity)
	}

	maxPossible := float64(len(issues)) * c.weights[entities.SeverityCritical]
	score := total / maxPossible * 100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, c.LevelFor(score)
}

// LevelFor resolves a risk score to the highest configured threshold it
// meets or exceeds; a score matching no threshold is low.
func (c *Catalog) LevelFor(score float64) entities.RiskLevel {
	for _, lvl := range levelOrder {
		if t, ok := c.thresholds[lvl]; ok && score >= t {
			return lvl
		}
	}
	return entities.RiskLevelLow
}
