package view

import "strings"

// Outline renders flattened nodes as indented plain text, one node per line.
func Outline(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case *AddButton:
			b.WriteString(n.Label())
		case *Section:
			b.WriteString(twisty(n.State))
			b.WriteString(n.Label())
		case *Item:
			b.WriteString("    ")
			b.WriteString(n.Marker)
			b.WriteString(" ")
			b.WriteString(n.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func twisty(c Collapse) string {
	switch c {
	case Expanded:
		return "▾ "
	case Collapsed:
		return "▸ "
	}
	return "  "
}
