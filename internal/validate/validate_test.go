package validate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type sample struct {
	Title string  `validate:"nonblank,max=500"`
	Order int     `validate:"gte=0"`
	Name  *string `validate:"omitnil,nonblank"`
	Kind  string  `label:"Visibility" validate:"omitempty,oneof=all active archived"`
}

func strp(s string) *string { return &s }

func TestMessages(t *testing.T) {
	cases := []struct {
		name string
		in   sample
		want []string
	}{
		{name: "valid", in: sample{Title: "ok"}},
		{name: "empty title", in: sample{Title: ""}, want: []string{"Title cannot be empty!"}},
		{name: "blank title", in: sample{Title: "   "}, want: []string{"Title cannot be empty!"}},
		{name: "long title", in: sample{Title: strings.Repeat("x", 501)}, want: []string{"Title cannot be longer than 500 characters."}},
		{name: "multibyte at limit", in: sample{Title: strings.Repeat("é", 500)}},
		{name: "negative order", in: sample{Title: "ok", Order: -1}, want: []string{"Order must be a positive number."}},
		{name: "nil pointer skipped", in: sample{Title: "ok", Name: nil}},
		{name: "blank pointer checked", in: sample{Title: "ok", Name: strp(" ")}, want: []string{"Name cannot be empty!"}},
		{name: "label used", in: sample{Title: "ok", Kind: "nope"}, want: []string{"Visibility must be one of: all active archived."}},
		{name: "several", in: sample{Title: "", Order: -2}, want: []string{"Title cannot be empty!", "Order must be a positive number."}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Messages(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
