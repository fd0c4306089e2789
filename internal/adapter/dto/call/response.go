package call

import (
	"time"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// CallResponse represents a call in responses
type CallResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	AdvisorName     string     `json:"advisor_name,omitempty"`
	ClientRef       string     `json:"client_ref,omitempty"`
	Status          string     `json:"status"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	RecordingURL    string     `json:"recording_url,omitempty"`
	RiskScore       float64    `json:"risk_score"`
	RiskLevel       string     `json:"risk_level"`
	AnalysisMethod  string     `json:"analysis_method,omitempty"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IssueResponse represents a compliance issue in responses
type IssueResponse struct {
	ID              string    `json:"id"`
	CallID          string    `json:"call_id"`
	Category        string    `json:"category"`
	Severity        string    `json:"severity"`
	Rationale       string    `json:"rationale,omitempty"`
	RegReference    string    `json:"reg_reference,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	EvidenceSnippet *string   `json:"evidence_snippet,omitempty"`
	EvidenceStartMs *int64    `json:"evidence_start_ms,omitempty"`
	EvidenceEndMs   *int64    `json:"evidence_end_ms,omitempty"`
	ModelRationale  string    `json:"model_rationale,omitempty"`
	ModelVersion    string    `json:"model_version,omitempty"`
}

// AnalysisResponse represents the outcome of an analysis pass
type AnalysisResponse struct {
	Issues    []IssueResponse `json:"issues"`
	RiskScore float64         `json:"risk_score"`
	RiskLevel string          `json:"risk_level"`
	Method    string          `json:"method"`
}

// TranscriptResponse represents a stored transcript
type TranscriptResponse struct {
	ID           string    `json:"id"`
	CallID       string    `json:"call_id"`
	SegmentCount int       `json:"segment_count"`
	Language     string    `json:"language,omitempty"`
	ModelUsed    string    `json:"model_used,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromCall maps a call entity to its response shape
func FromCall(c *entities.Call) *CallResponse {
	if c == nil {
		return nil
	}
	return &CallResponse{
		ID:              c.ID.String(),
		Title:           c.Title,
		AdvisorName:     c.AdvisorName,
		ClientRef:       c.ClientRef,
		Status:          string(c.Status),
		DurationSeconds: c.DurationSeconds,
		RecordingURL:    c.RecordingURL,
		RiskScore:       c.RiskScore,
		RiskLevel:       string(c.RiskLevel),
		AnalysisMethod:  c.AnalysisMethod,
		AnalyzedAt:      c.AnalyzedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// FromCalls maps a slice of call entities
func FromCalls(calls []entities.Call) []*CallResponse {
	out := make([]*CallResponse, 0, len(calls))
	for i := range calls {
		out = append(out, FromCall(&calls[i]))
	}
	return out
}

// FromIssue maps a compliance issue entity to its response shape
func FromIssue(i *entities.ComplianceIssue) IssueResponse {
	return IssueResponse{
		ID:              i.ID.String(),
		CallID:          i.CallID.String(),
		Category:        i.Category,
		Severity:        string(i.Severity),
		Rationale:       i.Rationale,
		RegReference:    i.RegReference,
		Timestamp:       i.Timestamp,
		EvidenceSnippet: i.EvidenceSnippet,
		EvidenceStartMs: i.EvidenceStartMs,
		EvidenceEndMs:   i.EvidenceEndMs,
		ModelRationale:  i.ModelRationale,
		ModelVersion:    i.ModelVersion,
	}
}

// FromAnalysisResult maps an analysis result to its response shape
func FromAnalysisResult(r *entities.AnalysisResult) *AnalysisResponse {
	if r == nil {
		return nil
	}
	issues := make([]IssueResponse, 0, len(r.Issues))
	for i := range r.Issues {
		issues = append(issues, FromIssue(&r.Issues[i]))
	}
	return &AnalysisResponse{
		Issues:    issues,
		RiskScore: r.RiskScore,
		RiskLevel: string(r.RiskLevel),
		Method:    r.Method,
	}
}

// FromTranscript maps a transcript entity to its response shape
func FromTranscript(t *entities.Transcript) *TranscriptResponse {
	if t == nil {
		return nil
	}
	return &TranscriptResponse{
		ID:           t.ID.String(),
		CallID:       t.CallID.String(),
		SegmentCount: len(t.Segments),
		Language:     t.Language,
		ModelUsed:    t.ModelUsed,
		CreatedAt:    t.CreatedAt,
	}
}

// ToSegments converts request segments to entity segments
func ToSegments(in []SegmentRequest) []entities.TranscriptSegment {
	out := make([]entities.TranscriptSegment, 0, len(in))
	for _, s := range in {
		out = append(out, entities.TranscriptSegment{
			Text:       s.Text,
			StartMs:    s.StartMs,
			EndMs:      s.EndMs,
			Speaker:    s.Speaker,
			Confidence: s.Confidence,
		})
	}
	return out
}
