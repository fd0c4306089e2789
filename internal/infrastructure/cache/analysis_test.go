package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	val, found, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found || val != "v" {
		t.Fatalf("Get = (%q, %v), want (\"v\", true)", val, found)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("expected key to be gone after Delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k", "v", -time.Second)

	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("expected expired key to be a miss")
	}
}

func TestAnalysisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewAnalysisCache(NewMemoryStore())
	callID := uuid.New()

	snippet := "guarantee you a profit"
	result := &entities.AnalysisResult{
		Issues: []entities.ComplianceIssue{
			{
				ID:              uuid.New(),
				CallID:          callID,
				Category:        "Performance Guarantee",
				Severity:        entities.SeverityCritical,
				EvidenceSnippet: &snippet,
				ModelVersion:    entities.ModelVersionRulesEngine,
			},
		},
		RiskScore: 100,
		RiskLevel: entities.RiskLevelCritical,
		Method:    entities.AnalysisMethodRulesEngine,
	}

	if err := c.SetResult(ctx, callID, result); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}

	got, err := c.GetResult(ctx, callID)
	if err != nil {
		t.Fatalf("GetResult returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.RiskScore != 100 || got.RiskLevel != entities.RiskLevelCritical {
		t.Fatalf("got risk %v/%v, want 100/critical", got.RiskScore, got.RiskLevel)
	}
	if len(got.Issues) != 1 || got.Issues[0].Category != "Performance Guarantee" {
		t.Fatalf("issues not preserved: %+v", got.Issues)
	}
	if got.Issues[0].EvidenceSnippet == nil || *got.Issues[0].EvidenceSnippet != snippet {
		t.Fatal("evidence snippet not preserved")
	}
}

func TestAnalysisCacheMissAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewAnalysisCache(NewMemoryStore())
	callID := uuid.New()

	got, err := c.GetResult(ctx, callID)
	if err != nil {
		t.Fatalf("GetResult returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss for unknown call")
	}

	c.SetResult(ctx, callID, &entities.AnalysisResult{RiskLevel: entities.RiskLevelLow, Method: entities.AnalysisMethodRulesEngine})
	if err := c.Invalidate(ctx, callID); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if got, _ := c.GetResult(ctx, callID); got != nil {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestAnalysisCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalysisCache(store)
	callID := uuid.New()

	store.Set(ctx, "analysis:"+callID.String(), "{not json", time.Minute)

	got, err := c.GetResult(ctx, callID)
	if err != nil {
		t.Fatalf("GetResult returned error: %v", err)
	}
	if got != nil {
		t.Fatal("expected corrupt entry to be treated as a miss")
	}
}
