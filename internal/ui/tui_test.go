package ui

import (
	"io"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todone/internal/commands"
	"github.com/idilsaglam/todone/internal/list"
	"github.com/idilsaglam/todone/internal/model"
	"github.com/idilsaglam/todone/internal/view"
)

type memStore struct{ todos []model.Todo }

func (s *memStore) Load() []model.Todo      { return slices.Clone(s.todos) }
func (s *memStore) Save(todos []model.Todo) { s.todos = slices.Clone(todos) }

func newTestPanel(t *testing.T, todos ...model.Todo) (PanelModel, *list.Model) {
	t.Helper()
	lm := list.New(&memStore{todos: todos}, list.WithLogger(log.New(io.Discard)))
	cmds := &commands.Commands{Model: lm, Notifier: &Status{}, Logger: log.New(io.Discard)}
	p := NewPanel(cmds, view.Options{})
	next, _ := p.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return next.(PanelModel), lm
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys and delivers the change notification the running
// program would have received.
func press(t *testing.T, p PanelModel, keys ...string) PanelModel {
	t.Helper()
	var m tea.Model = p
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	m, _ = m.Update(changedMsg{})
	return m.(PanelModel)
}

func rowLabels(p PanelModel) []string {
	var out []string
	for _, it := range p.list.Items() {
		out = append(out, it.(nodeItem).node.Label())
	}
	return out
}

func ids(lm *list.Model) []string {
	var out []string
	for _, t := range lm.Todos() {
		out = append(out, t.ID)
	}
	return out
}

func seed() []model.Todo {
	x := model.New("x", "shipped", 3, 2)
	x.Done = true
	return []model.Todo{model.New("a", "alpha", 1, 0), model.New("b", "beta", 2, 1), x}
}

func TestPanelInitialRows(t *testing.T) {
	p, _ := newTestPanel(t, seed()...)
	assert.Equal(t, []string{"+ Add Todo", "TODO (2)", "alpha", "beta", "DONE (1)"}, rowLabels(p))
}

func TestPanelToggle(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", " ")

	got, ok := lm.Get("a")
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.Equal(t, []string{"+ Add Todo", "TODO (1)", "beta", "DONE (2)"}, rowLabels(p))
}

func TestPanelAdd(t *testing.T) {
	p, lm := newTestPanel(t)

	p = press(t, p, "a")
	assert.Equal(t, modeAdd, p.mode)

	p = press(t, p, "buy milk", "enter")
	assert.Equal(t, modeBrowse, p.mode)
	require.Len(t, lm.Todos(), 1)
	assert.Equal(t, "buy milk", lm.Todos()[0].Text)
	assert.Equal(t, "Todo added: buy milk", p.status.Msg)
	assert.Contains(t, rowLabels(p), "buy milk")
}

func TestPanelAddFromButton(t *testing.T) {
	p, lm := newTestPanel(t)

	p = press(t, p, "enter", "x", "esc")
	assert.Equal(t, modeBrowse, p.mode)
	assert.Empty(t, lm.Todos())
}

func TestPanelDelete(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", "d")
	assert.Equal(t, modeConfirm, p.mode)
	assert.Equal(t, `Delete todo: "alpha"?`, p.confirm)

	p = press(t, p, "n")
	assert.Len(t, lm.Todos(), 3)

	p = press(t, p, "d", "y")
	assert.Equal(t, []string{"b", "x"}, ids(lm))
	assert.Equal(t, "Todo deleted", p.status.Msg)
}

func TestPanelClearCompleted(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "c")
	assert.Equal(t, "Delete 1 completed todo?", p.confirm)

	p = press(t, p, "enter")
	assert.Equal(t, []string{"a", "b"}, ids(lm))
	assert.Equal(t, "Cleared 1 completed todo", p.status.Msg)

	p = press(t, p, "c")
	assert.Equal(t, modeBrowse, p.mode)
	assert.Equal(t, "No completed todos to clear", p.status.Msg)
}

func TestPanelDragAndDrop(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	// pick up beta, drop it on alpha
	p = press(t, p, "down", "down", "down", "m", "up", "m")
	assert.Equal(t, []string{"b", "a", "x"}, ids(lm))
	for i, todo := range lm.Todos() {
		assert.Equal(t, i, todo.Order)
	}
	assert.Nil(t, p.dragging)
}

func TestPanelDropOnSectionIsIgnored(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", "m", "up", "m")
	assert.Equal(t, []string{"a", "b", "x"}, ids(lm))
	assert.Equal(t, "Nothing moved", p.status.Msg)
}

func TestPanelDropAtSectionEnd(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", "m", "M")
	assert.Equal(t, []string{"b", "a", "x"}, ids(lm))
}

func TestPanelExpandDone(t *testing.T) {
	p, _ := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", "down", "down", "enter")
	assert.Equal(t, []string{"+ Add Todo", "TODO (2)", "alpha", "beta", "DONE (1)", view.Strikethrough("shipped")}, rowLabels(p))

	p = press(t, p, "enter")
	assert.Len(t, rowLabels(p), 5)
}

func TestPanelRefresh(t *testing.T) {
	store := &memStore{todos: seed()}
	lm := list.New(store, list.WithLogger(log.New(io.Discard)))
	next, _ := NewPanel(&commands.Commands{Model: lm, Notifier: &Status{}}, view.Options{}).
		Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	p := next.(PanelModel)

	store.todos = store.todos[:1]
	p = press(t, p, "r")
	assert.Equal(t, []string{"+ Add Todo", "TODO (1)", "alpha"}, rowLabels(p))
}

func TestPanelEscDoesNotQuit(t *testing.T) {
	p, _ := newTestPanel(t, seed()...)

	next, cmd := p.Update(keyMsg("esc"))
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit)
	}
	assert.Equal(t, rowLabels(p), rowLabels(next.(PanelModel)))
}

func TestPanelEscCancelsDrag(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "down", "m")
	require.NotNil(t, p.dragging)

	p = press(t, p, "esc", "down", "m")
	assert.NotNil(t, p.dragging, "m after esc starts a new drag")
	assert.Equal(t, "b", p.dragging.IDs[0])
	assert.Equal(t, []string{"a", "b", "x"}, ids(lm))
}

func TestPanelDeleteIgnoresSections(t *testing.T) {
	p, lm := newTestPanel(t, seed()...)

	p = press(t, p, "down", "d")
	assert.Equal(t, modeBrowse, p.mode)
	p = press(t, p, "m")
	assert.Nil(t, p.dragging)
	assert.Len(t, lm.Todos(), 3)
}
