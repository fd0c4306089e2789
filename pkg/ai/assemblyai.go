package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/callguardhq/callguard/pkg/config"
)

// AssemblyAIClient is a minimal AssemblyAI transcription client used for
// call recordings. Results arrive through the webhook, not polling.
type AssemblyAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided
// config. If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey, base string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if base == "" {
		base = os.Getenv("ASSEMBLYAI_API_URL")
		if base == "" {
			base = "https://api.assemblyai.com"
		}
	}
	return &AssemblyAIClient{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// TranscribeRequest is the payload for /v2/transcript
type TranscribeRequest struct {
	AudioURL          string            `json:"audio_url"`
	SpeakerLabels     bool              `json:"speaker_labels,omitempty"`
	LanguageDetection bool              `json:"language_detection,omitempty"`
	WebhookURL        string            `json:"webhook_url,omitempty"`
	WebhookAuthHeader string            `json:"webhook_auth_header_name,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// TranscribeResponse is the minimal response shape
type TranscribeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Utterance is one speaker-attributed span of the finished transcript.
type Utterance struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Speaker    string  `json:"speaker"`
	Confidence float64 `json:"confidence"`
}

// TranscriptResult is the completed transcript payload fetched after a
// webhook notification.
type TranscriptResult struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Text       string      `json:"text"`
	Error      string      `json:"error,omitempty"`
	Utterances []Utterance `json:"utterances"`
}

// TranscribeAudio asks AssemblyAI to transcribe an external audio URL
// with speaker diarization. Returns the transcript job id on success.
func (c *AssemblyAIClient) TranscribeAudio(ctx context.Context, recordingURL, webhookURL, webhookAuthHeader string, metadata map[string]string) (string, error) {
	payload := TranscribeRequest{
		AudioURL:          recordingURL,
		SpeakerLabels:     true,
		LanguageDetection: true,
		WebhookURL:        webhookURL,
		WebhookAuthHeader: webhookAuthHeader,
		Metadata:          metadata,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint("/v2/transcript"), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("assemblyai returned status %d", resp.StatusCode)
	}

	var tr TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.ID, nil
}

// GetTranscript fetches the finished transcript, utterances included.
func (c *AssemblyAIClient) GetTranscript(ctx context.Context, transcriptID string) (*TranscriptResult, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint("/v2/transcript/"+transcriptID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("assemblyai returned status %d", resp.StatusCode)
	}

	var result TranscriptResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AssemblyAIClient) endpoint(path string) string {
	return strings.TrimRight(c.baseURL, "/") + path
}
