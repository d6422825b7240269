package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LinePrompter asks questions on a line-oriented terminal.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// Text answers the next Input without reading, when set.
	Text string
	// Yes confirms without asking.
	Yes bool
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Input(prompt, placeholder string) (string, bool) {
	if p.Text != "" {
		text := p.Text
		p.Text = ""
		return text, true
	}
	fmt.Fprintf(p.out, "%s %s: ", Current().Title.Render(prompt), Current().Muted.Render("("+placeholder+")"))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	return line, line != ""
}

func (p *LinePrompter) Confirm(message string, _ bool, action string) bool {
	if p.Yes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", Current().Pending.Render(message))
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", strings.ToLower(action):
		return true
	}
	return false
}
