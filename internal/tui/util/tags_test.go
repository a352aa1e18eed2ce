package util

import (
	"testing"

	"hcj-play/internal/tui/state"
)

func findKind(tags []state.Tag, k state.TagKind) (idx int, ok bool) {
	for i, t := range tags {
		if t.Kind == k {
			return i, true
		}
	}
	return -1, false
}

func TestNeverRunHidesPending(t *testing.T) {
	tags := ComputeTags("<p>hi</p>", "", false)
	if _, ok := findKind(tags, state.NEVER_RUN); !ok {
		t.Fatalf("expected NEVER_RUN tag present")
	}
	if _, ok := findKind(tags, state.PENDING); ok {
		t.Fatalf("did not expect PENDING before the first run")
	}
}

func TestPendingAndDelta(t *testing.T) {
	tags := ComputeTags("abcdef", "abc", true)
	if _, ok := findKind(tags, state.PENDING); !ok {
		t.Fatalf("expected PENDING tag present")
	}
	idx, ok := findKind(tags, state.DELTA)
	if !ok || tags[idx].Value != 3 {
		t.Fatalf("expected DELTA +3, got %+v", tags)
	}

	tags = ComputeTags("ab", "abc", true)
	idx, ok = findKind(tags, state.DELTA)
	if !ok || tags[idx].Value != -1 {
		t.Fatalf("expected DELTA -1, got %+v", tags)
	}
}

func TestSameLengthEditHasNoDelta(t *testing.T) {
	tags := ComputeTags("abd", "abc", true)
	if _, ok := findKind(tags, state.PENDING); !ok {
		t.Fatalf("expected PENDING tag present")
	}
	if _, ok := findKind(tags, state.DELTA); ok {
		t.Fatalf("did not expect DELTA for equal lengths")
	}
}

func TestCountersAlwaysPresent(t *testing.T) {
	cur := "é\nx\n"
	tags := ComputeTags(cur, cur, true)
	if _, ok := findKind(tags, state.PENDING); ok {
		t.Fatalf("did not expect PENDING when unchanged")
	}
	if idx, ok := findKind(tags, state.LINES); !ok || tags[idx].Value != 3 {
		t.Fatalf("expected LINES 3")
	}
	if idx, ok := findKind(tags, state.CHARS); !ok || tags[idx].Value != 4 {
		t.Fatalf("expected CHARS 4 (runes)")
	}
}

func TestStableOrder(t *testing.T) {
	tags := ComputeTags("hello world", "hello", true)
	order := []state.TagKind{state.PENDING, state.DELTA, state.LINES, state.CHARS}
	if len(tags) != len(order) {
		t.Fatalf("unexpected tag count %d", len(tags))
	}
	for i, k := range order {
		if tags[i].Kind != k {
			t.Fatalf("tag %d = %v, want %v", i, tags[i].Kind, k)
		}
	}
}
