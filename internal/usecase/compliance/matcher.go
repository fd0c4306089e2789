package compliance

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// DefaultContextWindow is the number of characters of surrounding text
// captured on each side of a match. Preserved from the original product
// configuration; override via EngineConfig rather than re-deriving.
const DefaultContextWindow = 50

// MatchOccurrence is one pattern hit inside the transcript.
type MatchOccurrence struct {
	Pattern     string
	ContextText string
	Segment     *entities.TranscriptSegment
	Confidence  float64
	Offset      int // byte offset of the match start in the joined full text
}

// RuleMatch is the per-rule result of scanning one transcript. A rule
// with zero occurrences produces no issue.
type RuleMatch struct {
	RuleID  string
	Matches []MatchOccurrence
}

// document is the per-analysis view of a transcript: segments plus the
// joined text and its lower-cased form, built once and shared by every
// rule scan.
type document struct {
	segments []entities.TranscriptSegment
	fullText string
	lowered  string
}

func newDocument(segments []entities.TranscriptSegment) document {
	full := JoinSegments(segments)
	return document{
		segments: segments,
		fullText: full,
		lowered:  lowerPreservingOffsets(full),
	}
}

// lowerPreservingOffsets lower-cases the text rune by rune, keeping any
// rune whose lower-case form has a different UTF-8 length (e.g. U+0130).
// Match byte offsets in the lowered text must stay valid in the original
// text; case-insensitive patterns still fold the skipped runes.
func lowerPreservingOffsets(s string) string {
	return strings.Map(func(r rune) rune {
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) != utf8.RuneLen(r) {
			return r
		}
		return l
	}, s)
}

// MatchRule scans one rule's patterns over the transcript segments and
// returns every occurrence in text order. Matching runs against the
// lower-cased joined text; reported context comes from the original-case
// text at the same offsets.
func MatchRule(rule *Rule, segments []entities.TranscriptSegment, contextWindow int) (RuleMatch, error) {
	return matchRule(rule, newDocument(segments), contextWindow)
}

func matchRule(rule *Rule, doc document, contextWindow int) (RuleMatch, error) {
	if contextWindow <= 0 {
		contextWindow = DefaultContextWindow
	}

	rm := RuleMatch{RuleID: rule.ID}
	if len(rule.compiled) != len(rule.Patterns) {
		// Catalog constructed without LoadCatalog; treat as a compile
		// failure so the misconfiguration surfaces instead of silently
		// skipping detection.
		return rm, &PatternCompileError{RuleID: rule.ID, Pattern: strings.Join(rule.Patterns, ","), Err: errNotCompiled}
	}

	for i, re := range rule.compiled {
		pattern := rule.Patterns[i]
		for _, loc := range re.FindAllStringIndex(doc.lowered, -1) {
			start, end := loc[0], loc[1]
			matched := doc.lowered[start:end]

			ctxStart := start - contextWindow
			if ctxStart < 0 {
				ctxStart = 0
			}
			ctxEnd := end + contextWindow
			if ctxEnd > len(doc.fullText) {
				ctxEnd = len(doc.fullText)
			}

			rm.Matches = append(rm.Matches, MatchOccurrence{
				Pattern:     pattern,
				ContextText: doc.fullText[ctxStart:ctxEnd],
				Segment:     LocateSegment(doc.segments, start),
				Confidence:  matchConfidence(pattern, matched),
				Offset:      start,
			})
		}
	}

	// Occurrences were collected pattern-by-pattern; restore overall
	// text order. Stable so equal offsets keep pattern order.
	sort.SliceStable(rm.Matches, func(a, b int) bool {
		return rm.Matches[a].Offset < rm.Matches[b].Offset
	})

	return rm, nil
}

// matchConfidence scores how closely the matched substring tracks the
// configured pattern: a verbatim (case-insensitive) hit scores 0.95,
// anything else scores by length ratio with a floor of 0.70 so weak
// partial matches never drop to near-zero noise.
func matchConfidence(pattern, matched string) float64 {
	if strings.EqualFold(pattern, matched) {
		return 0.95
	}
	conf := float64(len(matched)) / float64(len(pattern)) * 0.9
	if conf < 0.7 {
		conf = 0.7
	}
	return conf
}

var errNotCompiled = &notCompiledError{}

type notCompiledError struct{}

func (*notCompiledError) Error() string { return "patterns not compiled at load time" }
