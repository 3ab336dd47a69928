package core

import (
	"fmt"
	"testing"
)

func TestHistoryAppendBelowCapacity(t *testing.T) {
	h := NewHistory(5)

	for i := 1; i <= 3; i++ {
		h.Append(ChatMessage{ID: int64(i), Content: fmt.Sprintf("m%d", i)})
	}

	all := h.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i, msg := range all {
		if msg.ID != int64(i+1) {
			t.Fatalf("expected message %d at index %d, got %d", i+1, i, msg.ID)
		}
	}
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewHistory(100)

	for i := 1; i <= 101; i++ {
		h.Append(ChatMessage{ID: int64(i)})
	}

	all := h.All()
	if len(all) != 100 {
		t.Fatalf("expected 100 messages, got %d", len(all))
	}
	if all[0].ID != 2 {
		t.Fatalf("expected oldest message to be 2 after eviction, got %d", all[0].ID)
	}
	if all[99].ID != 101 {
		t.Fatalf("expected newest message to be 101, got %d", all[99].ID)
	}
}

func TestHistoryKeepsLastNInOrder(t *testing.T) {
	const capacity = 7
	h := NewHistory(capacity)

	const total = 40
	for i := 1; i <= total; i++ {
		h.Append(ChatMessage{ID: int64(i)})
	}

	all := h.All()
	if len(all) != capacity {
		t.Fatalf("expected %d messages, got %d", capacity, len(all))
	}
	for i, msg := range all {
		want := int64(total - capacity + 1 + i)
		if msg.ID != want {
			t.Fatalf("index %d: expected id %d, got %d", i, want, msg.ID)
		}
	}
}

func TestHistoryAllReturnsCopy(t *testing.T) {
	h := NewHistory(3)
	h.Append(ChatMessage{ID: 1, Content: "original"})

	all := h.All()
	all[0].Content = "mutated"

	if got := h.All()[0].Content; got != "original" {
		t.Fatalf("caller mutation leaked into buffer: %q", got)
	}
}
