package compliance

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

//go:embed rules.json
var defaultCatalogJSON []byte

// Rule is a named, static regulatory detection definition. Patterns are
// stored as plain strings and compiled case-insensitively at load time.
type Rule struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Severity   entities.Severity `json:"severity"`
	Regulation string            `json:"regulation"`
	Patterns   []string          `json:"patterns"`
	Rationale  string            `json:"rationale"`

	compiled []*regexp.Regexp
}

// Catalog holds the full compliance rule set plus the severity weights
// and risk thresholds used by the risk scorer. It is immutable after
// load and safe for concurrent reads; each Load call returns an
// independent instance.
type Catalog struct {
	rules      []Rule
	index      map[string]*Rule
	weights    map[entities.Severity]float64
	thresholds map[entities.RiskLevel]float64
}

type catalogFile struct {
	Rules           []Rule             `json:"rules"`
	SeverityWeights map[string]float64 `json:"severity_weights"`
	RiskThresholds  map[string]float64 `json:"risk_thresholds"`
}

// LoadDefaultCatalog parses the embedded rule set shipped with the
// service. Deployments override it with LoadCatalogFile.
func LoadDefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogJSON)
}

// LoadCatalogFile loads and validates a rule catalog from a JSON file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "rules_file", Reason: err.Error()}
	}
	return LoadCatalog(data)
}

// LoadCatalog parses and validates a catalog document. It fails with
// ConfigError on structural problems (missing field, unknown severity,
// duplicate id, missing weights/thresholds) and PatternCompileError on
// any pattern that does not compile.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Field: "catalog", Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if len(doc.Rules) == 0 {
		return nil, &ConfigError{Field: "rules", Reason: "catalog contains no rules"}
	}

	c := &Catalog{
		rules:      make([]Rule, 0, len(doc.Rules)),
		index:      make(map[string]*Rule, len(doc.Rules)),
		weights:    make(map[entities.Severity]float64, len(doc.SeverityWeights)),
		thresholds: make(map[entities.RiskLevel]float64, len(doc.RiskThresholds)),
	}

	for _, r := range doc.Rules {
		if r.ID == "" {
			return nil, &ConfigError{Field: "rules", Reason: "rule with empty id"}
		}
		if r.Name == "" {
			return nil, &ConfigError{Field: "rules." + r.ID, Reason: "missing name"}
		}
		if !entities.ValidSeverity(r.Severity) {
			return nil, &ConfigError{Field: "rules." + r.ID, Reason: fmt.Sprintf("unknown severity %q", r.Severity)}
		}
		if len(r.Patterns) == 0 {
			return nil, &ConfigError{Field: "rules." + r.ID, Reason: "no patterns"}
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, &ConfigError{Field: "rules", Reason: fmt.Sprintf("duplicate rule id %q", r.ID)}
		}

		r.compiled = make([]*regexp.Regexp, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			// Patterns match against the lower-cased full text; (?i)
			// keeps mixed-case catalog entries working too.
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, &PatternCompileError{RuleID: r.ID, Pattern: p, Err: err}
			}
			r.compiled = append(r.compiled, re)
		}

		c.rules = append(c.rules, r)
		c.index[r.ID] = &c.rules[len(c.rules)-1]
	}

	for sev, w := range doc.SeverityWeights {
		s := entities.Severity(sev)
		if !entities.ValidSeverity(s) {
			return nil, &ConfigError{Field: "severity_weights", Reason: fmt.Sprintf("unknown severity %q", sev)}
		}
		if w < 0 {
			return nil, &ConfigError{Field: "severity_weights." + sev, Reason: "negative weight"}
		}
		c.weights[s] = w
	}
	if c.weights[entities.SeverityCritical] <= 0 {
		return nil, &ConfigError{Field: "severity_weights.critical", Reason: "must be set and positive (it is the scoring denominator)"}
	}

	for lvl, t := range doc.RiskThresholds {
		l := entities.RiskLevel(lvl)
		switch l {
		case entities.RiskLevelCritical, entities.RiskLevelHigh, entities.RiskLevelMedium, entities.RiskLevelLow:
		default:
			return nil, &ConfigError{Field: "risk_thresholds", Reason: fmt.Sprintf("unknown level %q", lvl)}
		}
		c.thresholds[l] = t
	}
	if len(c.thresholds) == 0 {
		return nil, &ConfigError{Field: "risk_thresholds", Reason: "no thresholds configured"}
	}

	return c, nil
}

// Rules returns the rules in catalog iteration order. The returned slice
// must not be mutated.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Rule looks up a rule by id.
func (c *Catalog) Rule(id string) (*Rule, bool) {
	r, ok := c.index[id]
	return r, ok
}

// WeightFor returns the configured weight for a severity. Unrecognized
// severities get a default weight of 1: an operational quality signal,
// not a fatal error.
func (c *Catalog) WeightFor(sev entities.Severity) float64 {
	if w, ok := c.weights[sev]; ok {
		return w
	}
	return 1
}
