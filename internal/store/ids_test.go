package store

import (
	"strings"
	"testing"

	"organizer/internal/model"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	for _, prefix := range []string{PrefixTask, PrefixWorkspace, PrefixCategory, PrefixTag} {
		id, err := newRandomID(prefix)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if !strings.HasPrefix(id, prefix+"-") {
			t.Fatalf("expected %s prefix, got %q", prefix, id)
		}
		suffix := strings.TrimPrefix(id, prefix+"-")
		if got, want := len(suffix), 8; got != want {
			t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
		}
		if suffix != strings.ToLower(suffix) {
			t.Fatalf("expected lowercase suffix, got %q", suffix)
		}
	}
}

func TestNextID_DoesNotReuseExistingIDs(t *testing.T) {
	db := &DB{Tasks: []model.Task{{ID: "task-aaaaaaaa"}}}
	s := Store{Dir: t.TempDir()}
	seen := map[string]bool{}
	for range 50 {
		id, err := s.NextID(db, PrefixTask)
		if err != nil {
			t.Fatalf("NextID: %v", err)
		}
		if idExists(db, id) {
			t.Fatalf("NextID returned existing id %q", id)
		}
		if seen[id] {
			t.Fatalf("NextID returned duplicate %q", id)
		}
		seen[id] = true
		db.Tasks = append(db.Tasks, model.Task{ID: id})
	}
}
