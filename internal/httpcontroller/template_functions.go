package httpcontroller

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/k3a/html2text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GetTemplateFunctions returns a map of functions usable in templates.
func (s *Server) GetTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"sub":         subFunc,
		"add":         addFunc,
		"even":        even,
		"title":       cases.Title(language.English).String,
		"toJSON":      toJSONFunc,
		"formatDate":  formatDate,
		"formatTime":  formatTime,
		"excerpt":     excerptFunc,
		"hasID":       hasID,
		"formatBytes": formatBytes,
	}
}

// simple math functions
func subFunc(a, b int) int { return a - b }
func addFunc(a, b int) int { return a + b }

// even checks if an integer is even. Useful for alternating styles in loops.
func even(index int) bool {
	return index%2 == 0
}

// toJSONFunc converts a value to a JSON string.
func toJSONFunc(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// formatDate renders a timestamp as a human-readable date. Nil and zero
// times render empty, so drafts show no publish date.
func formatDate(v any) string {
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case *time.Time:
		if val == nil {
			return ""
		}
		t = *val
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// formatTime renders a timestamp with the clock, for admin tables.
func formatTime(v any) string {
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case *time.Time:
		if val == nil {
			return ""
		}
		t = *val
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// excerptFunc strips markup and truncates at a word boundary, for
// listing cards where the backend supplied no excerpt.
func excerptFunc(htmlContent string, maxLen int) string {
	text := strings.TrimSpace(html2text.HTML2Text(htmlContent))
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// hasID reports whether a form's id selection contains the given id,
// for marking taxonomy options selected on re-render.
func hasID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// pageURL builds a pagination link preserving the current query.
func pageURL(basePath, query string, page int) string {
	values := url.Values{}
	if query != "" {
		values.Set("q", query)
	}
	values.Set("page", strconv.Itoa(page))
	return basePath + "?" + values.Encode()
}
