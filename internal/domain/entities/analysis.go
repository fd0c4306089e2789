package entities

// Analysis method tags: which producer(s) contributed to a result
const (
	AnalysisMethodRulesEngine   = "rules-engine"
	AnalysisMethodExternalAgent = "external-agent"
	AnalysisMethodHybrid        = "hybrid"
)

// AnalysisResult is the output of one full compliance analysis pass over
// a transcript. Issues are ordered by catalog iteration order for the
// deterministic pass, with external-agent findings appended after.
type AnalysisResult struct {
	Issues    []ComplianceIssue `json:"issues"`
	RiskScore float64           `json:"risk_score"`
	RiskLevel RiskLevel         `json:"risk_level"`
	Method    string            `json:"method"`
}
