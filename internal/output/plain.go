package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/toastframe/internal/session"
)

// PlainFormatter formats entries as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes entries as plain text.
func (f *PlainFormatter) Format(w io.Writer, entries []session.Entry) error {
	for i := range entries {
		if err := f.formatEntry(w, i+1, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// formatEntry formats a single entry.
func (f *PlainFormatter) formatEntry(w io.Writer, index int, e *session.Entry) error {
	// Use custom template if available
	if f.template != nil {
		data := templateData{
			Index:        index,
			Entry:        *e,
			RelativeTime: relativeTime(e.HandledAt, f.opts.now()),
		}
		return f.template.Execute(w, data)
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(fmt.Sprintf("%-10s ", e.Outcome))

	text := strings.Join(strings.Fields(e.Text), " ")
	if e.Title != "" {
		text = e.Title + ": " + text
	}
	sb.WriteString(truncate(text, f.opts.TextMaxLen))

	if f.opts.ShowTime {
		sb.WriteString(fmt.Sprintf(" (%s, %s after queueing)",
			relativeTime(e.HandledAt, f.opts.now()),
			e.Age().Round(10*time.Millisecond)))
	}

	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}
