package link

import (
	"testing"

	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// fixture bundles the collaborators every connection test needs: one shared
// factory, a registry with a buffered emitter, and a default canvas.
type fixture struct {
	factory *uml.Factory
	events  *emit.BufferedEmitter
	reg     *Registry
	canvas  *diagram.Canvas
}

func newFixture() *fixture {
	f := &fixture{
		factory: uml.NewFactory(),
		events:  emit.NewBufferedEmitter(),
	}
	f.reg = New(f.factory, f.events, Options{})
	f.canvas = diagram.NewCanvas()
	return f
}

// item creates a diagram item on the default canvas backed by a fresh
// semantic element of the given kind.
func (f *fixture) item(kind diagram.ItemKind, elKind uml.Kind) *diagram.Item {
	it := f.canvas.Create(kind)
	it.SetSubject(f.factory.Create(elKind))
	return it
}

// edge creates an unattached edge item on the default canvas.
func (f *fixture) edge(kind diagram.ItemKind) *diagram.Item {
	return f.canvas.Create(kind)
}

// connect attaches one handle of an edge to the target's first port and
// fails the test if the connection is refused.
func (f *fixture) connect(t *testing.T, line *diagram.Item, h *diagram.Handle, target *diagram.Item) {
	t.Helper()
	f.connectPort(t, line, h, target, 0)
}

// connectPort attaches one handle of an edge to a specific port index.
func (f *fixture) connectPort(t *testing.T, line *diagram.Item, h *diagram.Handle, target *diagram.Item, port int) {
	t.Helper()
	if err := f.reg.Connect(line, h, target, target.Ports()[port]); err != nil {
		t.Fatalf("connect %s handle to %s: %v", line.Kind(), target.Kind(), err)
	}
}

// glue runs the feasibility check against the target's first port.
func (f *fixture) glue(line *diagram.Item, h *diagram.Handle, target *diagram.Item) bool {
	return f.reg.Glue(line, h, target, target.Ports()[0])
}

// disconnect detaches a handle and fails the test on error.
func (f *fixture) disconnect(t *testing.T, line *diagram.Item, h *diagram.Handle) {
	t.Helper()
	if err := f.reg.Disconnect(line, h); err != nil {
		t.Fatalf("disconnect %s handle: %v", line.Kind(), err)
	}
}

// node is a shorthand for the semantic activity node behind an item.
func node(it *diagram.Item) *uml.ActivityNode {
	return it.Subject().(*uml.ActivityNode)
}
