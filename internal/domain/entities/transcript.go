package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptSegment is one utterance or chunk of recognized speech.
// Start and End are milliseconds from call start. Segments are immutable
// once produced by the transcription collaborator.
type TranscriptSegment struct {
	Text       string   `json:"text" validate:"required"`
	StartMs    int64    `json:"start_ms" validate:"gte=0"`
	EndMs      int64    `json:"end_ms" validate:"gtefield=StartMs"`
	Speaker    string   `json:"speaker,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Transcript is the stored transcript model for a call
type Transcript struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID          uuid.UUID                                  `json:"call_id" gorm:"type:uuid;not null;index"`
	Text            string                                     `json:"text" gorm:"type:text"`
	Language        string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	Segments        []TranscriptSegment                        `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	ConfidenceScore float64                                    `json:"confidence_score,omitempty"`
	SpeakerCount    int                                        `json:"speaker_count,omitempty"`
	ModelUsed       string                                     `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	RawData         datatypes.JSONType[map[string]interface{}] `json:"raw_data,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript for a call
func NewTranscript(callID uuid.UUID) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		CallID:    callID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
