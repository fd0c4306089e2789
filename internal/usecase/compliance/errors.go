package compliance

import "fmt"

// ConfigError reports a malformed rule catalog, weight table, or
// threshold table at load time. It is fatal: the engine must not run
// with a partially loaded catalog.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("compliance config invalid: %s: %s", e.Field, e.Reason)
}

// PatternCompileError reports a rule pattern that does not compile as a
// regular expression. Surfaced with the rule id and pattern so operators
// can find the offending catalog entry.
type PatternCompileError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("rule %q: pattern %q does not compile: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error {
	return e.Err
}
