package call

// CreateCallRequest represents the request to register a call
type CreateCallRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	AdvisorName string `json:"advisor_name,omitempty" validate:"omitempty,max=255"`
	ClientRef   string `json:"client_ref,omitempty" validate:"omitempty,max=255"`
}

// SegmentRequest is one transcript segment supplied by the caller
type SegmentRequest struct {
	Text       string   `json:"text" validate:"required"`
	StartMs    int64    `json:"start_ms" validate:"gte=0"`
	EndMs      int64    `json:"end_ms" validate:"gtefield=StartMs"`
	Speaker    string   `json:"speaker,omitempty"`
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// AnalyzeCallRequest represents the request to run an analysis pass.
// Segments are optional; when omitted the stored transcript is used.
type AnalyzeCallRequest struct {
	Segments []SegmentRequest `json:"segments,omitempty" validate:"omitempty,dive"`
}

// AttachTranscriptRequest represents the request to store a transcript
type AttachTranscriptRequest struct {
	Segments []SegmentRequest `json:"segments" validate:"required,min=1,dive"`
}

// ListCallsRequest represents query parameters for listing calls
type ListCallsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// ListIssuesRequest represents query parameters for listing issues
type ListIssuesRequest struct {
	Category string `query:"category"`
	Severity string `query:"severity" validate:"omitempty,oneof=critical high medium low"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}
