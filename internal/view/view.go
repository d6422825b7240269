// Package view projects the todo collection into display nodes for a
// tree-shaped panel.
package view

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/idilsaglam/todone/internal/list"
	"github.com/idilsaglam/todone/internal/model"
)

// SectionKind tags one of the two fixed groups.
type SectionKind string

const (
	SectionTodo SectionKind = "todo"
	SectionDone SectionKind = "done"
)

// Collapse mirrors a tree widget's collapsible state.
type Collapse int

const (
	CollapseNone Collapse = iota
	Collapsed
	Expanded
)

// StrikeMode selects how done labels are struck through.
type StrikeMode string

const (
	// StrikeCombining interleaves U+0336 into the label text.
	StrikeCombining StrikeMode = "combining"
	// StrikeStyle leaves the text alone and asks the renderer to style it.
	StrikeStyle StrikeMode = "style"
)

const (
	AddLabel      = "+ Add Todo"
	AddCommand    = "todone.addTodo"
	MarkerActive  = "○"
	MarkerDone    = "✓"
	combiningLong = "\u0336"
)

// Node is one row of the projection: *AddButton, *Section or *Item.
type Node interface {
	Label() string
	isNode()
}

// AddButton is the permanent action row at the top.
type AddButton struct {
	Command string
	Tooltip string
}

// Section heads one of the groups and carries its collapse state.
type Section struct {
	Kind  SectionKind
	Count int
	State Collapse
}

// Item renders one todo record.
type Item struct {
	Todo        model.Todo
	Text        string
	Marker      string
	Description string
	Strike      bool
}

func (*AddButton) isNode() {}
func (*Section) isNode()   {}
func (*Item) isNode()      {}

func (*AddButton) Label() string { return AddLabel }

func (s *Section) Label() string {
	return fmt.Sprintf("%s (%d)", strings.ToUpper(string(s.Kind)), s.Count)
}

func (i *Item) Label() string { return i.Text }

// ContextValue names the node kind for key/menu bindings.
func ContextValue(n Node) string {
	switch n := n.(type) {
	case *AddButton:
		return "addButton"
	case *Section:
		if n.Kind == SectionDone {
			return "doneSection"
		}
		return "section"
	case *Item:
		return "todoItem"
	}
	return ""
}

// Options tune the projection.
type Options struct {
	Strike StrikeMode
	// Expanded overrides the default collapse state of a section.
	Expanded map[SectionKind]bool
}

// Roots returns the top-level nodes: the add button, the TODO section and,
// when something is done, the DONE section.
func Roots(todos []model.Todo, opts Options) []Node {
	active, done := 0, 0
	for _, t := range todos {
		if t.Done {
			done++
		} else {
			active++
		}
	}

	todoState := CollapseNone
	if active > 0 {
		todoState = Expanded
	}
	nodes := []Node{
		&AddButton{Command: AddCommand, Tooltip: "Click to add a new todo"},
		&Section{Kind: SectionTodo, Count: active, State: opts.state(SectionTodo, todoState)},
	}
	if done > 0 {
		nodes = append(nodes, &Section{Kind: SectionDone, Count: done, State: opts.state(SectionDone, Collapsed)})
	}
	return nodes
}

// Children returns the items of one section in display order.
func Children(todos []model.Todo, kind SectionKind, opts Options) []*Item {
	var records []model.Todo
	switch kind {
	case SectionTodo:
		records = list.Active(todos)
	case SectionDone:
		records = list.Done(todos)
	}
	items := make([]*Item, 0, len(records))
	for _, t := range records {
		items = append(items, NewItem(t, opts.Strike))
	}
	return items
}

// Flatten returns the roots with the children of every expanded section
// inlined after their header.
func Flatten(todos []model.Todo, opts Options) []Node {
	var out []Node
	for _, n := range Roots(todos, opts) {
		out = append(out, n)
		s, ok := n.(*Section)
		if !ok || s.State != Expanded {
			continue
		}
		for _, it := range Children(todos, s.Kind, opts) {
			out = append(out, it)
		}
	}
	return out
}

// NewItem builds the display node for one todo.
func NewItem(t model.Todo, mode StrikeMode) *Item {
	it := &Item{Todo: t, Text: t.Text, Marker: MarkerActive}
	if !t.Done {
		return it
	}
	it.Marker = MarkerDone
	it.Description = MarkerDone
	if mode == StrikeStyle {
		it.Strike = true
	} else {
		it.Text = Strikethrough(t.Text)
	}
	return it
}

// Strikethrough appends a combining long stroke overlay to every grapheme
// cluster of s.
func Strikethrough(s string) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		b.WriteString(g.Str())
		b.WriteString(combiningLong)
	}
	return b.String()
}

func (o Options) state(kind SectionKind, def Collapse) Collapse {
	// An empty section stays non-expandable.
	if def == CollapseNone {
		return CollapseNone
	}
	expanded, ok := o.Expanded[kind]
	switch {
	case !ok:
		return def
	case expanded:
		return Expanded
	}
	return Collapsed
}
