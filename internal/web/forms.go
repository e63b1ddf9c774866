package web

import (
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"organizer/internal/timer"
)

const dateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdownHTML,
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(dateLayout)
	},
	"indent": func(depth int) string {
		return strconv.FormatFloat(float64(depth)*1.5, 'f', 1, 64) + "em"
	},
	"has": func(list []string, id string) bool { return slices.Contains(list, id) },
	"join": strings.Join,
	"deref": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"clock": timer.FormatDuration,
	"pct":   func(f float64) string { return strconv.Itoa(int(f*100)) + "%" },
}

func formValues(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formHas(r *http.Request, key string) bool {
	_, ok := r.Form[key]
	return ok
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.Form.Get(key))
}

// formOptional is nil for a blank value.
func formOptional(r *http.Request, key string) *string {
	v := formString(r, key)
	if v == "" {
		return nil
	}
	return &v
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(formString(r, key)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := formString(r, key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(key + " must be a number")
	}
	return n, nil
}

// formDate parses YYYY-MM-DD as UTC midnight. A blank value is nil.
func formDate(r *http.Request, key string) (*time.Time, error) {
	v := formString(r, key)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, badRequest(key + " must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

// endOfDay moves a date bound to the last instant of its day so the filter stays inclusive.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	e := t.Add(24*time.Hour - time.Nanosecond)
	return &e
}
