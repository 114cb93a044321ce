package link

import (
	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// pairKey identifies one dispatch-table entry.
type pairKey struct {
	element diagram.ItemKind
	line    diagram.ItemKind
}

// AdapterFunc constructs the adapter for one connection attempt.
type AdapterFunc func(r *Registry, element, line *diagram.Item) Adapter

// Options configures a Registry. Zero values are valid.
type Options struct {
	// Metrics receives operation counters. Nil disables metric collection.
	Metrics *Metrics
}

// Registry is the entry point of the connection protocol.
//
// It holds the explicit dispatch table mapping (element item kind, edge item
// kind) pairs to adapter constructors, plus the collaborators every adapter
// needs: the semantic element factory, the observability emitter and the
// optional metrics. Adapters are resolved once per connection attempt.
//
// Example:
//
//	factory := uml.NewFactory()
//	reg := link.New(factory, emit.NewNullEmitter(), link.Options{})
//
//	canvas := diagram.NewCanvas()
//	a := canvas.Create(diagram.ActionItem)
//	a.SetSubject(factory.CreateNode(uml.KindAction))
//	flow := canvas.Create(diagram.FlowItem)
//
//	if reg.Glue(flow, flow.Head(), a, a.Ports()[0]) {
//	    _ = reg.Connect(flow, flow.Head(), a, a.Ports()[0])
//	}
type Registry struct {
	factory *uml.Factory
	emitter emit.Emitter
	metrics *Metrics
	table   map[pairKey]AdapterFunc
}

// New creates a Registry with the default dispatch table.
//
// The factory is required. A nil emitter is replaced with a NullEmitter.
func New(factory *uml.Factory, emitter emit.Emitter, opts Options) *Registry {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	r := &Registry{
		factory: factory,
		emitter: emitter,
		metrics: opts.Metrics,
		table:   make(map[pairKey]AdapterFunc),
	}
	r.registerDefaults()
	return r
}

// Register installs or replaces the adapter constructor for a pair.
func (r *Registry) Register(element, line diagram.ItemKind, fn AdapterFunc) {
	r.table[pairKey{element: element, line: line}] = fn
}

func (r *Registry) registerDefaults() {
	for _, k := range []diagram.ItemKind{
		diagram.ActionItem,
		diagram.ObjectNodeItem,
		diagram.InitialNodeItem,
		diagram.FinalNodeItem,
	} {
		r.Register(k, diagram.FlowItem, newFlowConnect)
	}
	r.Register(diagram.ForkNodeItem, diagram.FlowItem,
		newForkJoinConnect(uml.KindForkNode, uml.KindJoinNode))
	r.Register(diagram.DecisionNodeItem, diagram.FlowItem,
		newForkJoinConnect(uml.KindDecisionNode, uml.KindMergeNode))

	r.Register(diagram.ActorItem, diagram.DependencyItem, newDependencyConnect)
	r.Register(diagram.ComponentItem, diagram.DependencyItem, newDependencyConnect)

	r.Register(diagram.ComponentItem, diagram.ConnectorItem, newComponentConnector)
	r.Register(diagram.InterfaceItem, diagram.ConnectorItem, newInterfaceConnector)
}

// Adapter resolves the adapter for an element/edge item pair, or nil when
// the pair is not connectable.
func (r *Registry) Adapter(element, line *diagram.Item) Adapter {
	if element == nil || line == nil {
		return nil
	}
	fn, ok := r.table[pairKey{element: element.Kind(), line: line.Kind()}]
	if !ok {
		return nil
	}
	return fn(r, element, line)
}

// Glue answers whether attaching the edge's handle to the element's port
// would be legal. It never mutates the diagram or the semantic graph and
// may be called arbitrarily often during a drag.
func (r *Registry) Glue(line *diagram.Item, h *diagram.Handle, element *diagram.Item, port *diagram.Port) bool {
	ad := r.Adapter(element, line)
	ok := ad != nil && ad.Glue(h, port)
	r.metrics.glueChecked(ok)
	return ok
}

// Connect attaches the handle to the element's port and performs the
// semantic side of the connection, including any combiner or folding side
// effects on the opposite endpoint.
//
// The glue check is re-run first; callers that skip the hover phase get
// ErrNotGlued instead of a half-made connection.
func (r *Registry) Connect(line *diagram.Item, h *diagram.Handle, element *diagram.Item, port *diagram.Port) error {
	ad := r.Adapter(element, line)
	if ad == nil {
		return ErrNoAdapter
	}
	if !ad.Glue(h, port) {
		return ErrNotGlued
	}
	ad.Connect(h, port)
	r.metrics.connected(line.Kind())
	return nil
}

// Disconnect detaches the handle, running semantic cleanup first. A handle
// that is not attached is a no-op.
func (r *Registry) Disconnect(line *diagram.Item, h *diagram.Handle) error {
	element := line.Canvas().Attached(h)
	if element == nil {
		return nil
	}
	ad := r.Adapter(element, line)
	if ad == nil {
		return ErrNoAdapter
	}
	ad.Disconnect(h)
	r.metrics.disconnected(line.Kind())
	return nil
}
