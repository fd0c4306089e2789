package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callguardhq/callguard/pkg/config"
)

func TestTranscribeAudio_Success(t *testing.T) {
	// Mock AssemblyAI server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v2/transcript" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Fatalf("missing api key header")
		}
		var payload TranscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.AudioURL != "http://example.com/call.mp3" {
			t.Fatalf("unexpected audio url %s", payload.AudioURL)
		}
		if !payload.SpeakerLabels {
			t.Fatalf("speaker labels must be requested for diarization")
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"id": "transcript-123", "status": "processing"})
	}))
	defer ts.Close()

	client := NewAssemblyAIClient(&config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL})

	id, err := client.TranscribeAudio(context.Background(), "http://example.com/call.mp3", "http://callback/webhook", "X-Webhook-Secret", map[string]string{"call_id": "c1"})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if id != "transcript-123" {
		t.Fatalf("unexpected id %s", id)
	}
}

func TestTranscribeAudio_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewAssemblyAIClient(&config.AssemblyAIConfig{APIKey: "bad-key", BaseURL: ts.URL})
	if _, err := client.TranscribeAudio(context.Background(), "http://example.com/call.mp3", "", "", nil); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestGetTranscript_Utterances(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transcript/transcript-123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(TranscriptResult{
			ID:     "transcript-123",
			Status: "completed",
			Text:   "hello there",
			Utterances: []Utterance{
				{Text: "hello there", Start: 120, End: 900, Speaker: "A", Confidence: 0.97},
			},
		})
	}))
	defer ts.Close()

	client := NewAssemblyAIClient(&config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL})
	result, err := client.GetTranscript(context.Background(), "transcript-123")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if result.Status != "completed" || len(result.Utterances) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Utterances[0].Speaker != "A" || result.Utterances[0].End != 900 {
		t.Fatalf("unexpected utterance %+v", result.Utterances[0])
	}
}
