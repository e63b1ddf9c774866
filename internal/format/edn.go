package format

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Object keys become kebab-case keywords (workspaceId -> :workspace-id),
// maps are emitted with sorted keys.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	p := ednPrinter{sb: &sb, pretty: pretty}
	p.value(x, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednPrinter struct {
	sb     *strings.Builder
	pretty bool
}

func (p ednPrinter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		p.sb.WriteString("nil")
	case bool:
		p.sb.WriteString(strconv.FormatBool(t))
	case string:
		p.sb.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			p.sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			p.sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		p.seq('[', ']', len(t), depth, func(i int) { p.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		p.seq('{', '}', len(keys), depth, func(i int) {
			p.sb.WriteString(Keyword(keys[i]))
			p.sb.WriteByte(' ')
			p.value(t[keys[i]], depth+1)
		})
	}
}

// seq writes n elements between open and close, one per line when pretty.
func (p ednPrinter) seq(open, close byte, n, depth int, elem func(i int)) {
	p.sb.WriteByte(open)
	for i := range n {
		switch {
		case p.pretty:
			p.sb.WriteByte('\n')
			p.sb.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			p.sb.WriteByte(' ')
		}
		elem(i)
	}
	if p.pretty && n > 0 {
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat("  ", depth))
	}
	p.sb.WriteByte(close)
}

// Keyword converts a JSON field name into an EDN keyword.
func Keyword(name string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
