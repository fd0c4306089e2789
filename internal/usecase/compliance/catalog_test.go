package compliance

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog failed to load: %v", err)
	}
	if len(c.Rules()) == 0 {
		t.Fatal("default catalog has no rules")
	}
	for _, r := range c.Rules() {
		if len(r.compiled) != len(r.Patterns) {
			t.Fatalf("rule %s: %d patterns but %d compiled", r.ID, len(r.Patterns), len(r.compiled))
		}
	}
	if _, ok := c.Rule("performance_guarantee"); !ok {
		t.Fatal("expected performance_guarantee rule in default catalog")
	}
}

func TestLoadCatalogIndependentInstances(t *testing.T) {
	a, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	b, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if &a.rules[0] == &b.rules[0] {
		t.Fatal("re-loading the catalog must produce an independent instance")
	}
}

func TestLoadCatalogValidation(t *testing.T) {
	valid := `{
		"rules": [{"id": "r1", "name": "Rule One", "severity": "high", "regulation": "Reg X", "patterns": ["foo"], "rationale": "bad"}],
		"severity_weights": {"critical": 3, "high": 2},
		"risk_thresholds": {"high": 60}
	}`

	cases := []struct {
		name    string
		mangle  func(string) string
		wantSub string
	}{
		{"not json", func(string) string { return "{" }, "invalid JSON"},
		{"no rules", func(string) string {
			return `{"rules": [], "severity_weights": {"critical": 3}, "risk_thresholds": {"high": 60}}`
		}, "no rules"},
		{"empty id", func(s string) string { return strings.Replace(s, `"id": "r1"`, `"id": ""`, 1) }, "empty id"},
		{"missing name", func(s string) string { return strings.Replace(s, `"name": "Rule One"`, `"name": ""`, 1) }, "missing name"},
		{"unknown severity", func(s string) string { return strings.Replace(s, `"severity": "high"`, `"severity": "severe"`, 1) }, "unknown severity"},
		{"no patterns", func(s string) string { return strings.Replace(s, `"patterns": ["foo"]`, `"patterns": []`, 1) }, "no patterns"},
		{"unknown weight key", func(s string) string {
			return strings.Replace(s, `"severity_weights": {"critical": 3, "high": 2}`, `"severity_weights": {"critical": 3, "urgent": 2}`, 1)
		}, "unknown severity"},
		{"missing critical weight", func(s string) string {
			return strings.Replace(s, `"severity_weights": {"critical": 3, "high": 2}`, `"severity_weights": {"high": 2}`, 1)
		}, "critical"},
		{"unknown threshold key", func(s string) string {
			return strings.Replace(s, `"risk_thresholds": {"high": 60}`, `"risk_thresholds": {"extreme": 60}`, 1)
		}, "unknown level"},
		{"no thresholds", func(s string) string {
			return strings.Replace(s, `"risk_thresholds": {"high": 60}`, `"risk_thresholds": {}`, 1)
		}, "no thresholds"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tc.mangle(valid)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantSub)
			}
		})
	}
}

func TestLoadCatalogDuplicateID(t *testing.T) {
	doc := `{
		"rules": [
			{"id": "r1", "name": "A", "severity": "high", "regulation": "Reg", "patterns": ["foo"], "rationale": "x"},
			{"id": "r1", "name": "B", "severity": "low", "regulation": "Reg", "patterns": ["bar"], "rationale": "y"}
		],
		"severity_weights": {"critical": 3},
		"risk_thresholds": {"high": 60}
	}`
	_, err := LoadCatalog([]byte(doc))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for duplicate id, got %v", err)
	}
}

func TestLoadCatalogBadPattern(t *testing.T) {
	doc := `{
		"rules": [{"id": "broken", "name": "Broken", "severity": "high", "regulation": "Reg", "patterns": ["(unclosed"], "rationale": "x"}],
		"severity_weights": {"critical": 3},
		"risk_thresholds": {"high": 60}
	}`
	_, err := LoadCatalog([]byte(doc))
	if err == nil {
		t.Fatal("expected pattern compile failure")
	}
	var pce *PatternCompileError
	if !errors.As(err, &pce) {
		t.Fatalf("expected PatternCompileError, got %T: %v", err, err)
	}
	if pce.RuleID != "broken" || pce.Pattern != "(unclosed" {
		t.Fatalf("error must name the offending rule and pattern, got %+v", pce)
	}
}

func TestWeightForUnknownSeverityDefaults(t *testing.T) {
	c, err := LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if w := c.WeightFor("made-up"); w != 1 {
		t.Fatalf("unknown severity weight = %v, want default 1", w)
	}
}
