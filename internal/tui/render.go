package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/toastframe/internal/config"
	"github.com/jmylchreest/toastframe/internal/layout"
)

const ellipsis = "…"

// Theme holds the colors the overlay is drawn with.
type Theme struct {
	ToastBackground lipgloss.Color
	ToastForeground lipgloss.Color
	StatusFill      lipgloss.Color
}

// ThemeFromConfig converts configured colors.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	return Theme{
		ToastBackground: lipgloss.Color(cfg.ToastBackground),
		ToastForeground: lipgloss.Color(cfg.ToastForeground),
		StatusFill:      lipgloss.Color(cfg.StatusFill),
	}
}

// renderToast draws the toast box, or returns nil when nothing is showing.
// avail is the terminal width.
func (s *Surface) renderToast(theme Theme, avail int) []string {
	if !s.Showing() || s.toast == nil {
		return nil
	}

	maxW := min(s.maxWidth(), avail-2)
	if maxW < 4 {
		return nil
	}
	inner := maxW - 2

	var lines []string
	if s.normal != nil && s.normal.visible {
		if s.title != nil && s.title.visible {
			title := lipgloss.NewStyle().Bold(true)
			for _, l := range wrap(s.title.text, inner, s.title.maxLines) {
				lines = append(lines, title.Render(l))
			}
		}
		if s.text != nil && s.text.visible {
			lines = append(lines, wrap(s.text.text, inner, s.text.maxLines)...)
		}
	} else if s.info != nil && s.info.visible && s.infoText != nil && s.infoText.visible {
		lines = append(lines, runewidth.Truncate(s.infoText.text, inner, ellipsis))
	}
	if len(lines) == 0 {
		return nil
	}

	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}
	width = max(width+2, s.layout.MinWidth)
	width = min(width, maxW)

	box := lipgloss.NewStyle().
		Background(theme.ToastBackground).
		Foreground(theme.ToastForeground).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))

	return strings.Split(box, "\n")
}

// wrap breaks text into at most maxLines rows of width columns, marking
// truncation with an ellipsis. maxLines <= 0 means unlimited.
func wrap(text string, width, maxLines int) []string {
	if text == "" || width <= 0 {
		return nil
	}

	var rows []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					rows = append(rows, line)
					line = ""
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				rows = append(rows, head)
				word = word[len(head):]
			}
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				rows = append(rows, line)
				line = word
			}
		}
		rows = append(rows, line)
	}

	if maxLines > 0 && len(rows) > maxLines {
		rows = rows[:maxLines]
		last := rows[maxLines-1]
		if runewidth.StringWidth(last)+1 > width {
			last = runewidth.Truncate(last, width-runewidth.StringWidth(ellipsis), "") + ellipsis
		} else {
			last += ellipsis
		}
		rows[maxLines-1] = last
	}
	return rows
}

// renderStatusBar draws the status bar line, or "" when it is hidden.
func renderStatusBar(p *statusBarPart, theme Theme, bar progress.Model, spin spinner.Model, width int) string {
	if p == nil || !p.visible || width <= 0 {
		return ""
	}

	fill := theme.StatusFill
	if p.state.Fill != "" {
		fill = lipgloss.Color(p.state.Fill)
	}

	var indicator string
	if p.state.Indeterminate {
		indicator = spin.View()
	} else {
		bar.FullColor = string(fill)
		bar.Width = min(24, width/3)
		indicator = bar.ViewAs(p.state.Progress)
	}

	text := p.state.Text
	room := width - lipgloss.Width(indicator) - 2
	if room > 0 {
		text = runewidth.Truncate(text, room, ellipsis)
	} else {
		text = ""
	}

	line := indicator
	if text != "" {
		line += " " + text
	}
	return lipgloss.NewStyle().
		Width(width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(fill).
		Render(line)
}

// placement returns where the toast's top-left corner lands in a page of
// pageH rows: centred horizontally, shifted right by offset, and anchored
// to the top or bottom of the page.
func placement(toast []string, width, pageH, offset int, pos layout.Position) (left, top int) {
	if len(toast) == 0 {
		return 0, 0
	}
	left = max((width-lipgloss.Width(toast[0]))/2, 0) + max(offset, 0)
	top = pageH - len(toast) - 1
	if pos == layout.PositionTop {
		top = 1
	}
	return left, max(top, 0)
}

// overlay writes the toast block over page lines at left, top.
func overlay(page, toast []string, left, top, width int) []string {
	if len(toast) == 0 || len(page) == 0 {
		return page
	}
	out := make([]string, len(page))
	copy(out, page)
	for i, row := range toast {
		y := top + i
		if y >= len(out) {
			break
		}
		out[y] = splice(out[y], row, left, width)
	}
	return out
}

// splice places row at column left of base, clipping at width.
func splice(base, row string, left, width int) string {
	if left >= width {
		return base
	}
	if left+ansi.StringWidth(row) > width {
		row = ansi.Truncate(row, width-left, "")
	}

	head := ansi.Truncate(base, left, "")
	if pad := left - ansi.StringWidth(head); pad > 0 {
		head += strings.Repeat(" ", pad)
	}
	tail := ""
	if end := left + ansi.StringWidth(row); end < ansi.StringWidth(base) {
		tail = ansi.TruncateLeft(base, end, "")
	}
	return head + row + tail
}
