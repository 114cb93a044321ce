package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrape/modelink/uml"
)

func TestCanvasCreate(t *testing.T) {
	t.Run("node items get one connectable port", func(t *testing.T) {
		c := NewCanvas()
		it := c.Create(ActionItem)

		assert.Empty(t, it.Handles())
		require.Len(t, it.Ports(), 1)
		assert.True(t, it.Ports()[0].Connectable)
	})

	t.Run("edge items get head and tail handles", func(t *testing.T) {
		c := NewCanvas()
		it := c.Create(FlowItem)

		require.Len(t, it.Handles(), 2)
		assert.Same(t, it.Handles()[0], it.Head())
		assert.Same(t, it.Handles()[1], it.Tail())
		assert.False(t, it.Head().IsAttached())
		assert.Equal(t, -1, it.Head().ConnectedPort())
	})

	t.Run("interface items get four ports and start folded provided", func(t *testing.T) {
		c := NewCanvas()
		it := c.Create(InterfaceItem)

		assert.Len(t, it.Ports(), 4)
		assert.Equal(t, FoldingProvided, it.Folding())
		for _, p := range it.Ports() {
			assert.True(t, p.Connectable)
			assert.False(t, p.Provided)
			assert.False(t, p.Required)
		}
	})

	t.Run("ids are sequential and resolvable", func(t *testing.T) {
		c := NewCanvas()
		a := c.Create(ActionItem)
		b := c.Create(ActionItem)

		assert.Equal(t, ItemID(1), a.ID())
		assert.Equal(t, ItemID(2), b.ID())
		assert.Same(t, a, c.Item(a.ID()))
		assert.Nil(t, c.Item(0))
		assert.Nil(t, c.Item(99))
	})
}

func TestCanvasItemsOrder(t *testing.T) {
	c := NewCanvas()
	a := c.Create(ActionItem)
	b := c.Create(FlowItem)
	d := c.Create(ActorItem)

	assert.Equal(t, []*Item{a, b, d}, c.Items())

	c.Remove(b)
	assert.Equal(t, []*Item{a, d}, c.Items())
}

func TestCanvasRemove(t *testing.T) {
	factory := uml.NewFactory()
	c := NewCanvas()
	it := c.Create(ActionItem)
	subject := factory.CreateNode(uml.KindAction)
	it.SetSubject(subject)

	c.Remove(it)

	assert.Nil(t, c.Item(it.ID()))
	assert.Equal(t, 0, subject.Presentations(), "removal must release the subject binding")
	assert.NotPanics(t, func() { c.Remove(it) })
}

func TestCanvasAttachments(t *testing.T) {
	c := NewCanvas()
	node := c.Create(ActionItem)
	e1 := c.Create(FlowItem)
	e2 := c.Create(FlowItem)

	e1.Head().Attach(node.ID(), 0)
	e2.Tail().Attach(node.ID(), 0)

	assert.Same(t, node, c.Attached(e1.Head()))
	assert.Nil(t, c.Attached(e1.Tail()))

	got := c.ConnectedItems(node)
	require.Len(t, got, 2)
	assert.Same(t, e1, got[0].Item)
	assert.Same(t, e1.Head(), got[0].Handle)
	assert.Same(t, e2, got[1].Item)

	t.Run("self loop counts both ends", func(t *testing.T) {
		e1.Tail().Attach(node.ID(), 0)
		assert.Len(t, c.ConnectedItems(node), 3)
	})

	t.Run("stale handle resolves to nil", func(t *testing.T) {
		c.Remove(node)
		assert.Nil(t, c.Attached(e2.Tail()))
	})
}

func TestItemSubjectRefcount(t *testing.T) {
	factory := uml.NewFactory()
	c := NewCanvas()
	n := factory.CreateNode(uml.KindAction)

	a := c.Create(ActionItem)
	b := c.Create(ActionItem)
	a.SetSubject(n)
	b.SetSubject(n)
	assert.Equal(t, 2, n.Presentations())

	t.Run("rebinding the same subject is a no-op", func(t *testing.T) {
		a.SetSubject(n)
		assert.Equal(t, 2, n.Presentations())
	})

	t.Run("swapping subjects moves the count", func(t *testing.T) {
		other := factory.CreateNode(uml.KindAction)
		a.SetSubject(other)
		assert.Equal(t, 1, n.Presentations())
		assert.Equal(t, 1, other.Presentations())
	})

	t.Run("clearing releases the count", func(t *testing.T) {
		b.SetSubject(nil)
		assert.Equal(t, 0, n.Presentations())
	})
}

func TestHandleOpposite(t *testing.T) {
	c := NewCanvas()
	e := c.Create(DependencyItem)

	assert.Same(t, e.Tail(), e.Opposite(e.Head()))
	assert.Same(t, e.Head(), e.Opposite(e.Tail()))
}

func TestPortReset(t *testing.T) {
	p := &Port{Provided: true, Required: true, Connectable: false}
	p.Reset()

	assert.False(t, p.Provided)
	assert.False(t, p.Required)
	assert.True(t, p.Connectable)
}

func TestItemKindIsEdge(t *testing.T) {
	assert.True(t, FlowItem.IsEdge())
	assert.True(t, DependencyItem.IsEdge())
	assert.True(t, ConnectorItem.IsEdge())
	assert.False(t, ActionItem.IsEdge())
	assert.False(t, InterfaceItem.IsEdge())
}
