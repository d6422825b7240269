package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todone/internal/view"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	t := Current()
	bar := strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(strings.Join(lines, "\n"))
}

// Header is the title line with done/pending/total counts.
func Header(done, pending int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("ToDone"),
		t.Success.Render(view.MarkerDone), done,
		t.Pending.Render(view.MarkerActive), pending,
		t.Accent.Render("Total"), done+pending,
	)
}

// NodeLine renders one projected node as a styled line. Items are
// prefixed with their 1-based position among items when index > 0.
func NodeLine(n view.Node, index int) string {
	t := Current()
	switch n := n.(type) {
	case *view.AddButton:
		return t.Success.Render(n.Label())
	case *view.Section:
		twisty := "  "
		switch n.State {
		case view.Expanded:
			twisty = "▾ "
		case view.Collapsed:
			twisty = "▸ "
		}
		return t.Accent.Render(twisty + n.Label())
	case *view.Item:
		idx := ""
		if index > 0 {
			idx = t.Muted.Render(fmt.Sprintf("%2d.", index)) + " "
		}
		if !n.Todo.Done {
			return "    " + idx + t.Muted.Render(n.Marker) + " " + n.Label()
		}
		label := n.Label()
		if n.Strike {
			label = t.Done.Render(label)
		} else {
			label = t.Muted.Render(label)
		}
		return "    " + idx + t.Success.Render(n.Marker) + " " + label
	}
	return ""
}

// RenderList draws the framed list used by `todone ls`.
func RenderList(nodes []view.Node, done, pending int) string {
	lines := []string{
		Header(done, pending),
		Current().Muted.Render(ProgressBar(done, done+pending, 28)),
		"",
	}
	index := 0
	for _, n := range nodes {
		switch n.(type) {
		case *view.AddButton:
			continue
		case *view.Item:
			index++
			lines = append(lines, NodeLine(n, index))
		default:
			lines = append(lines, NodeLine(n, 0))
		}
	}
	lines = append(lines, "")
	lines = append(lines, Current().Muted.Render("Tip: add with `todone add \"Buy milk\"`"))
	return Panel(lines)
}
