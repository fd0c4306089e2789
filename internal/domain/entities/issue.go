package entities

import (
	"time"

	"github.com/google/uuid"
)

// Severity is the closed set of rule severities
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ValidSeverity reports whether s is one of the known severities.
// Unknown severities are tolerated at scoring time (they get a default
// weight) but rejected at catalog load time.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// RiskLevel is the discrete risk bucket derived from a risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Analyzer version tags recorded on each issue
const (
	ModelVersionRulesEngine    = "rules-engine-v1"
	ModelVersionToolhouseAgent = "toolhouse-agent-v1"
)

// ComplianceIssue is one detected violation tied to a rule and its evidence.
// Issues are append-only: never mutated after creation.
type ComplianceIssue struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID          uuid.UUID `json:"call_id" gorm:"type:uuid;index"`
	Category        string    `json:"category" gorm:"type:varchar(255);not null;index"`
	Severity        Severity  `json:"severity" gorm:"type:varchar(20);not null;index"`
	Rationale       string    `json:"rationale" gorm:"type:text"`
	RegReference    string    `json:"reg_reference" gorm:"type:varchar(255)"`
	Timestamp       time.Time `json:"timestamp" gorm:"type:timestamp;not null"`
	EvidenceSnippet *string   `json:"evidence_snippet" gorm:"type:text"`
	EvidenceStartMs *int64    `json:"evidence_start_ms"`
	EvidenceEndMs   *int64    `json:"evidence_end_ms"`
	ModelRationale  string    `json:"model_rationale" gorm:"type:text"`
	ModelVersion    string    `json:"model_version" gorm:"type:varchar(100)"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ComplianceIssue) TableName() string {
	return "compliance_issues"
}
