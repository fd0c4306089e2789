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

// ToolhouseClient is a minimal client for the Toolhouse compliance agent
// used as the supplementary analyzer when deterministic detection is weak.
type ToolhouseClient struct {
	apiKey  string
	baseURL string
	agentID string
	client  *http.Client
}

// NewToolhouseClient creates a Toolhouse client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewToolhouseClient(cfg *config.ToolhouseConfig) *ToolhouseClient {
	var apiKey, base, agentID string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		agentID = cfg.AgentID
	}
	if apiKey == "" {
		apiKey = os.Getenv("TOOLHOUSE_API_KEY")
	}
	if base == "" {
		base = os.Getenv("TOOLHOUSE_API_URL")
		if base == "" {
			base = "https://agents.toolhouse.ai"
		}
	}
	if agentID == "" {
		agentID = os.Getenv("TOOLHOUSE_AGENT_ID")
	}

	return &ToolhouseClient{
		apiKey:  apiKey,
		baseURL: base,
		agentID: agentID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Finding is one best-effort violation entry returned by the agent.
// Entries missing a required field are dropped by the caller rather than
// treated as errors.
type Finding struct {
	Category        string `json:"category"`
	Severity        string `json:"severity"`
	Rationale       string `json:"rationale"`
	RegReference    string `json:"reg_reference"`
	EvidenceSnippet string `json:"evidence_snippet,omitempty"`
}

// Complete reports whether the finding carries every required field.
func (f Finding) Complete() bool {
	return f.Category != "" && f.Severity != "" && f.Rationale != "" && f.RegReference != ""
}

// agentRequest is the shape for agent run requests
type agentRequest struct {
	Message string `json:"message"`
}

// agentResponse is a minimal response shape; the agent is prompted to
// return a findings array but responses are parsed leniently.
type agentResponse struct {
	Findings []Finding `json:"findings"`
	Content  string    `json:"content,omitempty"`
}

// AnalyzeTranscript sends the raw transcript text to the compliance agent
// and returns its findings. A malformed payload yields an empty list, not
// an error: only transport and HTTP failures propagate.
func (t *ToolhouseClient) AnalyzeTranscript(ctx context.Context, transcript string) ([]Finding, error) {
	if t.agentID == "" {
		return nil, fmt.Errorf("toolhouse agent not configured")
	}

	b, err := json.Marshal(agentRequest{Message: transcript})
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(t.baseURL, "/") + "/" + t.agentID
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("toolhouse returned status %d", resp.StatusCode)
	}

	var ar agentResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		// Best-effort collaborator: an unparseable body means no findings.
		return nil, nil
	}

	if len(ar.Findings) == 0 && ar.Content != "" {
		// Some agent configurations wrap the JSON payload in a content
		// string; try one more decode before giving up.
		var inner agentResponse
		if err := json.Unmarshal([]byte(ar.Content), &inner); err == nil {
			return inner.Findings, nil
		}
	}

	return ar.Findings, nil
}
