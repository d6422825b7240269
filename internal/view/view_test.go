package view

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todone/internal/model"
)

func done(t model.Todo) model.Todo {
	t.Done = true
	return t
}

func sample() []model.Todo {
	return []model.Todo{
		model.New("1", "write report", 1, 2),
		done(model.New("2", "buy milk", 2, 0)),
		model.New("3", "walk dog", 3, 1),
		done(model.New("4", "call mom", 4, 3)),
	}
}

func labels(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label()
	}
	return out
}

func TestRoots(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		nodes := Roots(nil, Options{})
		require.Len(t, nodes, 2)
		assert.IsType(t, &AddButton{}, nodes[0])
		s := nodes[1].(*Section)
		assert.Equal(t, SectionTodo, s.Kind)
		assert.Equal(t, "TODO (0)", s.Label())
		assert.Equal(t, CollapseNone, s.State)
	})

	t.Run("active and done", func(t *testing.T) {
		nodes := Roots(sample(), Options{})
		assert.Equal(t, []string{"+ Add Todo", "TODO (2)", "DONE (2)"}, labels(nodes))
		assert.Equal(t, Expanded, nodes[1].(*Section).State)
		assert.Equal(t, Collapsed, nodes[2].(*Section).State)
	})

	t.Run("only done", func(t *testing.T) {
		nodes := Roots([]model.Todo{done(model.New("1", "x", 1, 0))}, Options{})
		assert.Equal(t, []string{"+ Add Todo", "TODO (0)", "DONE (1)"}, labels(nodes))
		assert.Equal(t, CollapseNone, nodes[1].(*Section).State)
	})

	t.Run("overrides", func(t *testing.T) {
		opts := Options{Expanded: map[SectionKind]bool{SectionTodo: false, SectionDone: true}}
		nodes := Roots(sample(), opts)
		assert.Equal(t, Collapsed, nodes[1].(*Section).State)
		assert.Equal(t, Expanded, nodes[2].(*Section).State)
	})

	t.Run("empty section ignores override", func(t *testing.T) {
		opts := Options{Expanded: map[SectionKind]bool{SectionTodo: true}}
		nodes := Roots(nil, opts)
		assert.Equal(t, CollapseNone, nodes[1].(*Section).State)
	})
}

func TestChildren(t *testing.T) {
	active := Children(sample(), SectionTodo, Options{})
	require.Len(t, active, 2)
	assert.Equal(t, "walk dog", active[0].Label())
	assert.Equal(t, "write report", active[1].Label())
	assert.Equal(t, MarkerActive, active[0].Marker)
	assert.Empty(t, active[0].Description)

	doneItems := Children(sample(), SectionDone, Options{})
	require.Len(t, doneItems, 2)
	assert.Equal(t, "4", doneItems[0].Todo.ID, "newest first")
	assert.Equal(t, "2", doneItems[1].Todo.ID)
	assert.Equal(t, Strikethrough("call mom"), doneItems[0].Label())
	assert.Equal(t, MarkerDone, doneItems[0].Marker)
	assert.Equal(t, MarkerDone, doneItems[0].Description)
	assert.False(t, doneItems[0].Strike)
}

func TestStrikeStyle(t *testing.T) {
	items := Children(sample(), SectionDone, Options{Strike: StrikeStyle})
	require.NotEmpty(t, items)
	assert.Equal(t, "call mom", items[0].Label())
	assert.True(t, items[0].Strike)
}

func TestStrikethrough(t *testing.T) {
	assert.Equal(t, "a\u0336b\u0336", Strikethrough("ab"))
	assert.Equal(t, "", Strikethrough(""))
	// e + combining acute is one cluster.
	assert.Equal(t, "e\u0301\u0336x\u0336", Strikethrough("e\u0301x"))
}

func TestContextValue(t *testing.T) {
	nodes := Flatten(sample(), Options{Expanded: map[SectionKind]bool{SectionDone: true}})
	var got []string
	for _, n := range nodes {
		got = append(got, ContextValue(n))
	}
	assert.Equal(t, []string{
		"addButton", "section", "todoItem", "todoItem", "doneSection", "todoItem", "todoItem",
	}, got)
}

func TestProjectionIsIdempotent(t *testing.T) {
	todos := sample()
	assert.Equal(t, Flatten(todos, Options{}), Flatten(todos, Options{}))
}

func TestOutlineGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	g.Assert(t, "outline_default", []byte(Outline(Flatten(sample(), Options{}))))
	g.Assert(t, "outline_expanded", []byte(Outline(Flatten(sample(), Options{
		Expanded: map[SectionKind]bool{SectionDone: true},
	}))))
	g.Assert(t, "outline_empty", []byte(Outline(Flatten(nil, Options{}))))
}
