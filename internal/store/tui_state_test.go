package store

import (
	"os"
	"reflect"
	"testing"
)

func TestTUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}

	// Missing file => default state.
	st0, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &TUIState{
		Version:      1,
		Screen:       "tasks",
		WorkspaceIDs: []string{"ws-1"},
		Search:       "foo, bar",
		Visibility:   "active",
		Sorts:        []string{"title:asc", "endDate:desc"},
		ExpandedIDs:  []string{"task-a", "task-b"},
		PageSize:     20,
	}
	if err := s.SaveTUIState(want); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}

	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestTUIState_CorruptFileIsTreatedAsMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}
	if err := os.WriteFile(s.tuiStatePath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Version != 1 || st.Screen != "" {
		t.Fatalf("expected default state, got %#v", st)
	}
}
