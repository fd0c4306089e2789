package compliance

import (
	"strings"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// JoinSegments builds the analysis full text: segment texts joined with
// a single space, in order. LocateSegment replicates this exact join
// rule; changing one without the other silently misattributes
// timestamps.
func JoinSegments(segments []entities.TranscriptSegment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// LocateSegment maps a byte offset into the joined full text back to the
// originating segment. Returns nil when the offset falls in an
// inter-segment separator or past the end; callers treat nil as "no
// timestamp available", not as an error.
func LocateSegment(segments []entities.TranscriptSegment, offset int) *entities.TranscriptSegment {
	if offset < 0 {
		return nil
	}
	pos := 0
	for i := range segments {
		end := pos + len(segments[i].Text)
		if offset >= pos && offset < end {
			return &segments[i]
		}
		pos = end + 1 // account for the single-space separator
	}
	return nil
}
