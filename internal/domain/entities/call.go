package entities

import (
	"time"

	"github.com/google/uuid"
)

// CallStatus represents the lifecycle state of a monitored call
type CallStatus string

const (
	CallStatusRecording  CallStatus = "recording"  // Live capture or upload in progress
	CallStatusProcessing CallStatus = "processing" // Transcription/analysis pipeline running
	CallStatusAnalyzed   CallStatus = "analyzed"   // Analysis complete, issues persisted
	CallStatusFailed     CallStatus = "failed"     // Pipeline failed permanently
)

// Call represents one advisor call under compliance monitoring
type Call struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string     `json:"title" gorm:"type:varchar(255);not null"`
	AdvisorName     string     `json:"advisor_name,omitempty" gorm:"type:varchar(255)"`
	ClientRef       string     `json:"client_ref,omitempty" gorm:"type:varchar(255)"`
	Status          CallStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'recording'"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	RecordingURL    string     `json:"recording_url,omitempty" gorm:"type:text"`
	RiskScore       float64    `json:"risk_score" gorm:"default:0"`
	RiskLevel       RiskLevel  `json:"risk_level" gorm:"type:varchar(20);default:'low'"`
	AnalysisMethod  string     `json:"analysis_method,omitempty" gorm:"type:varchar(50)"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty" gorm:"type:timestamp"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}

// NewCall creates a new call record
func NewCall(title string) *Call {
	return &Call{
		ID:        uuid.New(),
		Title:     title,
		Status:    CallStatusRecording,
		RiskLevel: RiskLevelLow,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// MarkAnalyzed records the outcome of an analysis pass on the call
func (c *Call) MarkAnalyzed(score float64, level RiskLevel, method string) {
	now := time.Now()
	c.Status = CallStatusAnalyzed
	c.RiskScore = score
	c.RiskLevel = level
	c.AnalysisMethod = method
	c.AnalyzedAt = &now
	c.UpdatedAt = now
}
