package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todone/internal/commands"
	"github.com/idilsaglam/todone/internal/view"
)

// nodeItem adapts a projected node to bubbles/list.Item
type nodeItem struct{ node view.Node }

func (i nodeItem) FilterValue() string { return i.node.Label() }

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeConfirm
)

// contextItem is the context value of rows that can be deleted or dragged.
const contextItem = "todoItem"

// changedMsg is delivered when the list model saved or reloaded.
type changedMsg struct{}

type keyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Move     key.Binding
	MoveEnd  key.Binding
	Activate key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear done")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move/drop")),
		MoveEnd:  key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "drop at end")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Clear, k.Refresh, k.Move, k.MoveEnd}
}

// Custom delegate to control how nodes render (single line)
type nodeDelegate struct{}

func (d nodeDelegate) Height() int                               { return 1 }
func (d nodeDelegate) Spacing() int                              { return 0 }
func (d nodeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d nodeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(nodeItem)
	if !ok {
		return
	}
	line := NodeLine(ni.node, 0)
	if it, ok := ni.node.(*view.Item); ok && it.Description != "" {
		line += " " + Current().Muted.Render(it.Description)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = Current().Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

// PanelModel is the interactive tree panel. It drives the commands and
// re-projects whenever the list model announces a change.
type PanelModel struct {
	cmds    *commands.Commands
	opts    view.Options
	keys    keyMap
	list    list.Model
	ti      textinput.Model
	status  *Status
	changes chan struct{}

	mode    mode
	confirm string
	pending func() bool

	dragging *view.Transfer
	dragText string
}

// NewPanel builds the panel over cmds. Notifications go to the panel's
// status line; a *Status already set as cmds.Notifier is reused.
func NewPanel(cmds *commands.Commands, opts view.Options) PanelModel {
	if opts.Expanded == nil {
		opts.Expanded = map[view.SectionKind]bool{}
	}
	c := *cmds
	status, ok := c.Notifier.(*Status)
	if !ok {
		status = &Status{}
		c.Notifier = status
	}

	changes := make(chan struct{}, 1)
	if c.Model != nil {
		c.Model.OnChange(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}

	keys := defaultKeyMap()
	l := list.New(nil, nodeDelegate{}, 0, 0)
	l.Title = "ToDone"
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// esc cancels drags and prompts; only q leaves the panel.
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.Styles.Title = Current().Title
	l.Styles.HelpStyle = Current().Help
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = commands.AddPlaceholder
	ti.CharLimit = 200

	m := PanelModel{
		cmds:    &c,
		opts:    opts,
		keys:    keys,
		list:    l,
		ti:      ti,
		status:  status,
		changes: changes,
	}
	m.reproject()
	return m
}

// RunPanel runs the panel until the user quits.
func RunPanel(cmds *commands.Commands, opts view.Options) error {
	if cmds.Model == nil {
		cmds.Notifier.Error(commands.NoWorkspaceMessage)
		return nil
	}
	_, err := tea.NewProgram(NewPanel(cmds, opts), tea.WithAltScreen()).Run()
	return err
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m PanelModel) Init() tea.Cmd { return waitForChange(m.changes) }

func (m *PanelModel) reproject() {
	if m.cmds.Model == nil {
		return
	}
	todos := m.cmds.Model.Todos()
	nodes := view.Flatten(todos, m.opts)
	items := make([]list.Item, len(nodes))
	for i, n := range nodes {
		items[i] = nodeItem{node: n}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	done := len(m.cmds.Model.Done())
	m.list.Title = Header(done, len(todos)-done)
}

func (m PanelModel) selected() view.Node {
	it, ok := m.list.SelectedItem().(nodeItem)
	if !ok {
		return nil
	}
	return it.node
}

func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.reproject()
		return m, waitForChange(m.changes)
	case tea.WindowSizeMsg:
		h, v := panelStyle().GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-3)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		if next, cmd, handled := m.updateBrowse(msg); handled {
			return next, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PanelModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Activate):
		text := m.ti.Value()
		m.mode = modeBrowse
		m.ti.SetValue("")
		m.ti.Blur()
		m.cmds.WithPrompter(commands.Answer{Text: text}).AddTodo()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.mode = modeBrowse
		m.ti.SetValue("")
		m.ti.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m PanelModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		run := m.pending
		m.mode, m.confirm, m.pending = modeBrowse, "", nil
		if run != nil {
			run()
		}
	case "n", "N", "esc":
		m.mode, m.confirm, m.pending = modeBrowse, "", nil
	}
	return m, nil
}

func (m PanelModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	node := m.selected()
	yes := m.cmds.WithPrompter(commands.Answer{Confirmed: true})

	switch {
	case msg.String() == "q" || msg.String() == "ctrl+c":
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Back):
		if m.dragging != nil {
			m.dragging, m.dragText = nil, ""
			m.status.Clear()
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Add):
		return m.startAdd(), textinput.Blink, true

	case key.Matches(msg, m.keys.Toggle):
		m.status.Clear()
		m.cmds.ToggleDone(node)
		return m, nil, true

	case key.Matches(msg, m.keys.Delete):
		if view.ContextValue(node) != contextItem {
			return m, nil, true
		}
		m.mode = modeConfirm
		m.confirm = commands.DeleteMessage(node.(*view.Item).Todo.Text)
		m.pending = func() bool { return yes.DeleteTodo(node) }
		return m, nil, true

	case key.Matches(msg, m.keys.Clear):
		if m.cmds.Model == nil || len(m.cmds.Model.Done()) == 0 {
			m.cmds.ClearCompleted()
			return m, nil, true
		}
		m.mode = modeConfirm
		m.confirm = commands.ClearMessage(len(m.cmds.Model.Done()))
		m.pending = yes.ClearCompleted
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		m.status.Clear()
		m.cmds.Refresh()
		return m, nil, true

	case key.Matches(msg, m.keys.Move):
		if m.dragging == nil {
			if view.ContextValue(node) != contextItem {
				return m, nil, true
			}
			tr, _ := view.Drag([]view.Node{node})
			m.dragging, m.dragText = &tr, node.(*view.Item).Todo.Text
			m.status.Info("Moving \"" + m.dragText + "\": select a target and press m")
			return m, nil, true
		}
		return m.drop(node), nil, true

	case key.Matches(msg, m.keys.MoveEnd):
		if m.dragging == nil {
			return m, nil, true
		}
		return m.drop(nil), nil, true

	case key.Matches(msg, m.keys.Activate):
		switch n := node.(type) {
		case *view.AddButton:
			return m.startAdd(), textinput.Blink, true
		case *view.Section:
			if n.State != view.CollapseNone {
				m.opts.Expanded[n.Kind] = n.State != view.Expanded
				m.reproject()
			}
		case *view.Item:
			m.status.Clear()
			m.cmds.ToggleDone(n)
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m PanelModel) startAdd() PanelModel {
	m.mode = modeAdd
	m.status.Clear()
	m.ti.SetValue("")
	m.ti.Focus()
	return m
}

func (m PanelModel) drop(target view.Node) PanelModel {
	tr := *m.dragging
	m.dragging, m.dragText = nil, ""
	m.status.Clear()
	if !view.Drop(m.cmds.Model, tr, target) {
		m.status.Info("Nothing moved")
	}
	return m
}

func (m PanelModel) View() string {
	content := m.list.View()
	switch m.mode {
	case modeAdd:
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Current().BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(commands.AddPrompt+"\n"+m.ti.View())
	case modeConfirm:
		content += "\n" + Current().Pending.Render(m.confirm) + " " + Current().Muted.Render("[y/N]")
	default:
		if s := m.status.String(); s != "" {
			content += "\n" + s
		}
	}
	return panelStyle().Render(content)
}

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(Current().Border).
		BorderForeground(Current().BorderColor).
		Padding(0, 1)
}
