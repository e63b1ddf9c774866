package mutate

import (
	"strings"
	"time"
)

// Opt marks a patch field as present. The zero Opt leaves the field untouched.
type Opt[T any] struct {
	Set bool
	V   T
}

func Some[T any](v T) Opt[T] { return Opt[T]{Set: true, V: v} }

func (o Opt[T]) apply(dst *T) {
	if o.Set {
		*dst = o.V
	}
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func nowUTC() time.Time { return time.Now().UTC() }

// detach copies a row out of db so later slice compaction cannot move it under the caller.
func detach[T any](p *T) *T {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
