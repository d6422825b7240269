package ui

import (
	"fmt"
	"io"
)

// Console prints notifications as one-line status messages.
type Console struct {
	Out, Err io.Writer
}

func (c Console) Info(msg string) {
	t := Current()
	fmt.Fprintln(c.Out, t.Success.Render(t.SymOK+" "+msg))
}

func (c Console) Error(msg string) {
	t := Current()
	fmt.Fprintln(c.Err, t.Error.Render(t.SymFail+" "+msg))
}

// Status keeps the last notification for the panel footer.
type Status struct {
	Msg string
	Err bool
}

func (s *Status) Info(msg string)  { s.Msg, s.Err = msg, false }
func (s *Status) Error(msg string) { s.Msg, s.Err = msg, true }

// Clear drops the current message.
func (s *Status) Clear() { s.Msg, s.Err = "", false }

func (s *Status) String() string {
	if s.Msg == "" {
		return ""
	}
	t := Current()
	if s.Err {
		return t.Error.Render(t.SymFail + " " + s.Msg)
	}
	return t.Success.Render(t.SymOK + " " + s.Msg)
}
