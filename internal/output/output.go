// Package output provides output formatters for session entries.
package output

import (
	"io"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/toastframe/internal/session"
)

// Formatter formats session entries for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, entries []session.Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom text/template for plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowTime   bool   // Show relative time
	TextMaxLen int    // Maximum text width in columns (0 = unlimited)

	// Now is the reference for relative times. Defaults to time.Now.
	Now func() time.Time
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		TextMaxLen: 80,
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// templateData is passed to custom templates.
type templateData struct {
	Index        int
	Entry        session.Entry
	RelativeTime string
}

// templateFuncs returns template helper functions.
func templateFuncs(opts FormatterOptions) template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"reltime": func(t time.Time) string {
			return relativeTime(t, opts.now())
		},
		"age": func(e session.Entry) string {
			return e.Age().Round(10 * time.Millisecond).String()
		},
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	return runewidth.Truncate(s, maxLen, "...")
}

func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
