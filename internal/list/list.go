// Package list holds the ordered todo collection and its mutations.
//
// Every successful mutation is saved immediately and then announced to
// the registered change listeners. Active todos are ranked by Order;
// Order is renumbered to the backing index only after a reorder.
package list

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todone/internal/model"
)

// ErrEmptyText is returned by Add for blank input.
var ErrEmptyText = errors.New("todo text is empty")

// Store is the persistence the model reads from and writes through.
type Store interface {
	Load() []model.Todo
	Save([]model.Todo)
}

// Model owns the todo collection of one project.
type Model struct {
	store     Store
	todos     []model.Todo
	now       func() time.Time
	logger    *log.Logger
	listeners []func()
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now, used for ids and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger sets the logger for mutation traces.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New creates a model over store and loads it.
func New(store Store, opts ...Option) *Model {
	m := &Model{
		store:  store,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Load()
	return m
}

// OnChange registers fn to run after every save and refresh.
func (m *Model) OnChange(fn func()) {
	m.listeners = append(m.listeners, fn)
}

// Load replaces the collection with the stored one. Records without an
// order get their stored position, then the collection is sorted by order.
func (m *Model) Load() {
	todos := m.store.Load()
	for i := range todos {
		if !todos[i].HasOrder() {
			todos[i].SetOrder(i)
		}
	}
	slices.SortStableFunc(todos, byOrder)
	m.todos = todos
}

// Refresh reloads from the store, discarding the in-memory collection.
func (m *Model) Refresh() {
	m.Load()
	m.logger.Debug("refreshed", "count", len(m.todos))
	m.changed()
}

// Todos returns a copy of the collection in backing order.
func (m *Model) Todos() []model.Todo {
	return slices.Clone(m.todos)
}

// Get returns the todo with id.
func (m *Model) Get(id string) (model.Todo, bool) {
	i := m.index(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return m.todos[i], true
}

// Active returns the todos not done, by ascending order.
func (m *Model) Active() []model.Todo { return Active(m.todos) }

// Done returns the done todos, newest first.
func (m *Model) Done() []model.Todo { return Done(m.todos) }

// Add appends a new active todo ranked after every existing one.
func (m *Model) Add(text string) (model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, ErrEmptyText
	}
	maxOrder := -1
	for _, t := range m.todos {
		maxOrder = max(maxOrder, t.Order)
	}
	now := m.now().UnixMilli()
	todo := model.New(m.newID(now), text, now, maxOrder+1)

	m.todos = append(m.todos, todo)
	m.logger.Debug("added", "id", todo.ID, "order", todo.Order)
	m.save()
	return todo, nil
}

// Toggle flips done on the todo with id. Unknown ids are ignored.
func (m *Model) Toggle(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.todos[i].Done = !m.todos[i].Done
	m.logger.Debug("toggled", "id", id, "done", m.todos[i].Done)
	m.save()
	return true
}

// Delete removes the todo with id. Unknown ids are ignored.
func (m *Model) Delete(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.todos = slices.Delete(m.todos, i, i+1)
	m.logger.Debug("deleted", "id", id)
	m.save()
	return true
}

// ClearCompleted removes every done todo and returns how many went.
func (m *Model) ClearCompleted() int {
	before := len(m.todos)
	m.todos = slices.DeleteFunc(m.todos, func(t model.Todo) bool { return t.Done })
	n := before - len(m.todos)
	if n == 0 {
		return 0
	}
	m.logger.Debug("cleared completed", "count", n)
	m.save()
	return n
}

// Reorder moves the dragged todo to the target's position within the same
// section and renumbers every order to its index. An empty targetID means
// the drop landed below the section, which targets the section's last todo.
//
// The move is a plain remove-then-insert at the target's old index, so a
// todo dragged downwards lands after the target and one dragged upwards
// lands before it.
func (m *Model) Reorder(draggedID, targetID string) bool {
	from := m.index(draggedID)
	if from < 0 {
		return false
	}
	dragged := m.todos[from]

	to := -1
	if targetID == "" {
		for i, t := range m.todos {
			if t.Done == dragged.Done {
				to = i
			}
		}
	} else {
		to = m.index(targetID)
		if to >= 0 && m.todos[to].Done != dragged.Done {
			return false
		}
	}
	if to < 0 || to == from {
		return false
	}

	m.todos = slices.Delete(m.todos, from, from+1)
	m.todos = slices.Insert(m.todos, to, dragged)
	for i := range m.todos {
		m.todos[i].SetOrder(i)
	}
	m.logger.Debug("reordered", "id", draggedID, "from", from, "to", to)
	m.save()
	return true
}

func (m *Model) save() {
	m.store.Save(m.todos)
	m.changed()
}

func (m *Model) changed() {
	for _, fn := range m.listeners {
		fn()
	}
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.todos, func(t model.Todo) bool { return t.ID == id })
}

// newID derives the id from the creation time, suffixed when two todos
// are created within the same millisecond.
func (m *Model) newID(now int64) string {
	base := strconv.FormatInt(now, 10)
	id := base
	for n := 2; m.index(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// Active filters todos to the active ones sorted by ascending order.
func Active(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if !t.Done {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, byOrder)
	return out
}

// Done filters todos to the done ones sorted by descending creation time.
func Done(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.Done {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Todo) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) })
	return out
}

func byOrder(a, b model.Todo) int { return cmp.Compare(a.Order, b.Order) }
