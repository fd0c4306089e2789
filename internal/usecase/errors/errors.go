package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Call errors
var (
	ErrCallNotFound       = errors.New("call not found")
	ErrCallAlreadyExists  = errors.New("call already exists")
	ErrCallNotAnalyzed    = errors.New("call has not been analyzed")
	ErrInvalidCallStatus  = errors.New("invalid call status for this operation")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrTranscriptEmpty    = errors.New("transcript has no segments")
)

// Recording errors
var (
	ErrRecordingNotFound   = errors.New("recording not found")
	ErrRecordingInProgress = errors.New("recording upload already in progress")
	ErrRecordingFailed     = errors.New("recording processing failed")
)

// Analysis errors
var (
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrAnalysisFailed     = errors.New("analysis failed")
	ErrJobNotFound        = errors.New("analysis job not found")
)
