package view

import (
	"fmt"
	"go-portfolio-app/internal/content"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Funcs returns the template helpers shared by every page.
func Funcs(md *Markdown) template.FuncMap {
	if md == nil {
		md = NewMarkdown()
	}
	return template.FuncMap{
		"markdown": md.Render,
		"plain":    md.Plain,
		"truncate": func(n int, s string) string { return content.Truncate(s, n) },
		"comma":    comma,
		"ago":      humanize.Time,
		"date":     formatDate,
		"monthYear": func(t any) string {
			return formatTime(t, "Jan 2006")
		},
		"iso":   func(t time.Time) string { return t.Format(time.RFC3339) },
		"add":   func(a, b int) int { return a + b },
		"stars": stars,
		"pageURL": func(path string, page int, params ...string) string {
			return pageURL(path, page, params...)
		},
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values so a template can
// pass several values to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments, got %d", len(kv))
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// comma formats an integer count with thousands separators.
func comma(n any) string {
	switch v := n.(type) {
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	}
	return fmt.Sprint(n)
}

func formatDate(t any) string {
	return formatTime(t, "January 2, 2006")
}

func formatTime(t any, layout string) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(layout)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format(layout)
	}
	return ""
}

// stars returns one entry per rating point, for ranging in templates.
func stars(rating int) []int {
	if rating < 0 {
		rating = 0
	}
	out := make([]int, rating)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// pageURL builds a listing link for page, keeping the given key/value
// query parameters when they are not empty.
func pageURL(path string, page int, params ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(params); i += 2 {
		if params[i+1] != "" {
			q.Set(params[i], params[i+1])
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return path
	}
	return fmt.Sprintf("%s?%s", path, q.Encode())
}
