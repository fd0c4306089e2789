package errors

// ErrorCode identifies a stable, machine-readable error category carried
// in API responses alongside the human message.
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_FORBIDDEN

	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_TOKEN_EXPIRED
	ErrorCode_AUTH_INVALID_CREDENTIALS

	ErrorCode_CALL_NOT_FOUND
	ErrorCode_CALL_INVALID_STATE

	ErrorCode_TRANSCRIPT_NOT_FOUND
	ErrorCode_TRANSCRIPT_EMPTY

	ErrorCode_RECORDING_NOT_FOUND
	ErrorCode_RECORDING_UPLOAD_FAILED

	ErrorCode_COMPLIANCE_CONFIG_INVALID
	ErrorCode_COMPLIANCE_PATTERN_INVALID
	ErrorCode_ANALYSIS_FAILED
	ErrorCode_TRANSCRIPTION_FAILED

	ErrorCode_REPORT_EXPORT_FAILED

	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED

	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_DB_TRANSACTION_FAILED

	ErrorCode_INVALID_PAYLOAD
	ErrorCode_HTTP_OK
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                         "UNKNOWN",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:        "AUTH_INVALID_CREDENTIALS",
	ErrorCode_CALL_NOT_FOUND:                  "CALL_NOT_FOUND",
	ErrorCode_CALL_INVALID_STATE:              "CALL_INVALID_STATE",
	ErrorCode_TRANSCRIPT_NOT_FOUND:            "TRANSCRIPT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_EMPTY:                "TRANSCRIPT_EMPTY",
	ErrorCode_RECORDING_NOT_FOUND:             "RECORDING_NOT_FOUND",
	ErrorCode_RECORDING_UPLOAD_FAILED:         "RECORDING_UPLOAD_FAILED",
	ErrorCode_COMPLIANCE_CONFIG_INVALID:       "COMPLIANCE_CONFIG_INVALID",
	ErrorCode_COMPLIANCE_PATTERN_INVALID:      "COMPLIANCE_PATTERN_INVALID",
	ErrorCode_ANALYSIS_FAILED:                 "ANALYSIS_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:            "TRANSCRIPTION_FAILED",
	ErrorCode_REPORT_EXPORT_FAILED:            "REPORT_EXPORT_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:           "DB_TRANSACTION_FAILED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_HTTP_OK:                         "OK",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
