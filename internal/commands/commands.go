// Package commands implements the user-facing todo commands on top of the
// list model: workspace check, prompts, confirmation and notifications.
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todone/internal/list"
	"github.com/idilsaglam/todone/internal/view"
)

const (
	NoWorkspaceMessage = "No workspace folder open. Please open a folder to use ToDone."

	AddPrompt      = "Enter todo text"
	AddPlaceholder = "What needs to be done?"

	ActionDelete = "Delete"
)

// Prompter asks the user for input. Both methods report false when the
// prompt was dismissed.
type Prompter interface {
	Input(prompt, placeholder string) (string, bool)
	Confirm(message string, modal bool, action string) bool
}

// Notifier shows one-line messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Commands binds the list model of the open project to the host's
// prompts and notifications. Model is nil when no project is open.
type Commands struct {
	Model    *list.Model
	Prompter Prompter
	Notifier Notifier
	Logger   *log.Logger
}

// WithPrompter returns a copy answering prompts through p.
func (c *Commands) WithPrompter(p Prompter) *Commands {
	cp := *c
	cp.Prompter = p
	return &cp
}

// AddTodo prompts for text and appends a todo.
func (c *Commands) AddTodo() bool {
	if !c.workspace() {
		return false
	}
	text, ok := c.Prompter.Input(AddPrompt, AddPlaceholder)
	if !ok {
		return false
	}
	todo, err := c.Model.Add(text)
	if err != nil {
		c.logger().Debug("add skipped", "err", err)
		return false
	}
	c.Notifier.Info("Todo added: " + todo.Text)
	return true
}

// ToggleDone flips the todo behind an item node.
func (c *Commands) ToggleDone(n view.Node) bool {
	if !c.workspace() {
		return false
	}
	it, ok := n.(*view.Item)
	if !ok {
		return false
	}
	return c.Model.Toggle(it.Todo.ID)
}

// DeleteTodo removes the todo behind an item node after confirmation.
func (c *Commands) DeleteTodo(n view.Node) bool {
	if !c.workspace() {
		return false
	}
	it, ok := n.(*view.Item)
	if !ok {
		return false
	}
	if !c.Prompter.Confirm(DeleteMessage(it.Todo.Text), false, ActionDelete) {
		return false
	}
	if !c.Model.Delete(it.Todo.ID) {
		return false
	}
	c.Notifier.Info("Todo deleted")
	return true
}

// Refresh reloads the list from disk.
func (c *Commands) Refresh() bool {
	if !c.workspace() {
		return false
	}
	c.Model.Refresh()
	return true
}

// ClearCompleted removes all done todos after a modal confirmation.
func (c *Commands) ClearCompleted() bool {
	if !c.workspace() {
		return false
	}
	n := len(c.Model.Done())
	if n == 0 {
		c.Notifier.Info("No completed todos to clear")
		return false
	}
	if !c.Prompter.Confirm(ClearMessage(n), true, ActionDelete) {
		return false
	}
	cleared := c.Model.ClearCompleted()
	c.Notifier.Info(fmt.Sprintf("Cleared %d completed %s", cleared, Plural(cleared, "todo")))
	return true
}

// Move drops the dragged node onto target; a nil target drops below the
// end of the dragged todo's section.
func (c *Commands) Move(dragged, target view.Node) bool {
	if !c.workspace() {
		return false
	}
	tr, ok := view.Drag([]view.Node{dragged})
	if !ok {
		return false
	}
	return view.Drop(c.Model, tr, target)
}

func (c *Commands) workspace() bool {
	if c.Model == nil {
		c.Notifier.Error(NoWorkspaceMessage)
		return false
	}
	return true
}

func (c *Commands) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// DeleteMessage is the confirmation text for deleting one todo.
func DeleteMessage(text string) string {
	return fmt.Sprintf("Delete todo: \"%s\"?", text)
}

// ClearMessage is the confirmation text for clearing n done todos.
func ClearMessage(n int) string {
	return fmt.Sprintf("Delete %d completed %s?", n, Plural(n, "todo"))
}

// Plural appends "s" to word unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Answer is a Prompter replaying answers the host already collected.
type Answer struct {
	Text      string
	Confirmed bool
}

func (a Answer) Input(string, string) (string, bool) { return a.Text, a.Text != "" }

func (a Answer) Confirm(string, bool, string) bool { return a.Confirmed }
