package compliance

import (
	"strings"
	"testing"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

func twoSegments() []entities.TranscriptSegment {
	return []entities.TranscriptSegment{
		{Text: "Hello world", StartMs: 0, EndMs: 1000},
		{Text: "this is a guarantee", StartMs: 1000, EndMs: 3000},
	}
}

func TestJoinSegments(t *testing.T) {
	got := JoinSegments(twoSegments())
	want := "Hello world this is a guarantee"
	if got != want {
		t.Fatalf("JoinSegments = %q, want %q", got, want)
	}
	if JoinSegments(nil) != "" {
		t.Fatal("JoinSegments(nil) should be empty")
	}
}

func TestLocateSegment(t *testing.T) {
	segs := twoSegments()
	full := JoinSegments(segs)

	// Offset of "guarantee" must resolve to the second segment's span.
	off := strings.Index(full, "guarantee")
	seg := LocateSegment(segs, off)
	if seg == nil {
		t.Fatal("expected a segment for in-text offset")
	}
	if seg.StartMs != 1000 || seg.EndMs != 3000 {
		t.Fatalf("got segment [%d,%d], want [1000,3000]", seg.StartMs, seg.EndMs)
	}

	// First segment span.
	if seg := LocateSegment(segs, 0); seg == nil || seg.StartMs != 0 {
		t.Fatalf("offset 0 should resolve to the first segment, got %+v", seg)
	}
	if seg := LocateSegment(segs, len("Hello world")-1); seg == nil || seg.EndMs != 1000 {
		t.Fatal("last character of first segment misattributed")
	}
}

func TestLocateSegmentSeparatorAndBounds(t *testing.T) {
	segs := twoSegments()

	// Offset 11 is the joining space between the segments: no timestamp
	// available, which callers must treat as a non-error.
	if seg := LocateSegment(segs, len("Hello world")); seg != nil {
		t.Fatalf("separator offset must yield nil, got %+v", seg)
	}
	if seg := LocateSegment(segs, -1); seg != nil {
		t.Fatal("negative offset must yield nil")
	}
	if seg := LocateSegment(segs, len(JoinSegments(segs))); seg != nil {
		t.Fatal("past-end offset must yield nil")
	}
}
