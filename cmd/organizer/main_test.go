package main

import (
	"slices"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "no args", in: []string{"organizer"}, want: []string{"organizer"}},
		{
			name: "task id first token",
			in:   []string{"organizer", "task-abc123"},
			want: []string{"organizer", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after value flag",
			in:   []string{"organizer", "--dir", "./data", "task-abc123"},
			want: []string{"organizer", "--dir", "./data", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after equals flag",
			in:   []string{"organizer", "--user=ada", "task-abc123"},
			want: []string{"organizer", "--user=ada", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after bool flag",
			in:   []string{"organizer", "--pretty", "task-abc123"},
			want: []string{"organizer", "--pretty", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after double dash",
			in:   []string{"organizer", "--", "task-abc123"},
			want: []string{"organizer", "--", "tasks", "show", "task-abc123"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"organizer", "tasks", "show", "task-abc123"},
			want: []string{"organizer", "tasks", "show", "task-abc123"},
		},
		{
			name: "bare prefix untouched",
			in:   []string{"organizer", "task-"},
			want: []string{"organizer", "task-"},
		},
		{
			name: "other ids untouched",
			in:   []string{"organizer", "ws-abc123"},
			want: []string{"organizer", "ws-abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTaskLookupArgs(slices.Clone(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("rewrite(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
