package uml

import "fmt"

// Factory owns every semantic element of one model.
//
// It provides the four operations the connection layer depends on:
//
//   - Create: instantiate a new element of a given kind
//   - Select: enumerate existing elements matching a predicate
//   - SwapKind: reclassify an element in place, preserving identity and
//     every reference held to it
//   - Unlink: destroy an element, cascading removal of the references it
//     participates in
//
// A single Factory may back any number of diagrams; relationship reuse
// across diagrams relies on that sharing.
type Factory struct {
	nextID   ElementID
	elements map[ElementID]Element
	order    []ElementID
}

// NewFactory creates an empty element factory.
func NewFactory() *Factory {
	return &Factory{
		nextID:   1,
		elements: make(map[ElementID]Element),
	}
}

// Create instantiates and registers a new element of the given kind.
// It panics on an unknown kind, which indicates a programming error in the
// caller, not bad user input.
func (f *Factory) Create(kind Kind) Element {
	var el Element
	switch {
	case IsActivityNodeKind(kind):
		el = &ActivityNode{}
	case IsFlowKind(kind):
		el = &Flow{}
	default:
		switch kind {
		case KindDependency:
			el = &Dependency{}
		case KindActor:
			el = &Actor{}
		case KindComponent:
			el = &Component{}
		case KindInterface:
			el = &Interface{}
		case KindConnector:
			el = &Connector{}
		case KindConnectorEnd:
			el = &ConnectorEnd{}
		case KindPort:
			el = &Port{}
		case KindLiteralSpecification:
			el = &LiteralSpecification{}
		default:
			panic(fmt.Sprintf("uml: unknown element kind %q", kind))
		}
	}
	f.register(el, kind)
	return el
}

func (f *Factory) register(el Element, kind Kind) {
	setter := el.(kindSetter)
	setter.setKind(kind)
	f.registerWithID(el, f.nextID)
	f.nextID++
}

func (f *Factory) registerWithID(el Element, id ElementID) {
	switch e := el.(type) {
	case *ActivityNode:
		e.id = id
	case *Flow:
		e.id = id
	case *Dependency:
		e.id = id
	case *Actor:
		e.id = id
	case *Component:
		e.id = id
	case *Interface:
		e.id = id
	case *Connector:
		e.id = id
	case *ConnectorEnd:
		e.id = id
	case *Port:
		e.id = id
	case *LiteralSpecification:
		e.id = id
	}
	f.elements[id] = el
	f.order = append(f.order, id)
}

// CreateNode is a typed convenience for Create over activity-node kinds.
func (f *Factory) CreateNode(kind Kind) *ActivityNode {
	if !IsActivityNodeKind(kind) {
		panic(fmt.Sprintf("uml: %q is not an activity-node kind", kind))
	}
	return f.Create(kind).(*ActivityNode)
}

// CreateFlow is a typed convenience for Create over flow kinds.
func (f *Factory) CreateFlow(kind Kind) *Flow {
	if !IsFlowKind(kind) {
		panic(fmt.Sprintf("uml: %q is not a flow kind", kind))
	}
	return f.Create(kind).(*Flow)
}

// Select returns every registered element for which pred returns true, in
// creation order. Creation order is the only ordering guarantee: callers
// that pick "the first match" get a deterministic result but must not read
// semantic meaning into it.
func (f *Factory) Select(pred func(Element) bool) []Element {
	var out []Element
	for _, id := range f.order {
		el, ok := f.elements[id]
		if !ok {
			continue
		}
		if pred == nil || pred(el) {
			out = append(out, el)
		}
	}
	return out
}

// Has reports whether el is still registered with the factory.
func (f *Factory) Has(el Element) bool {
	if el == nil {
		return false
	}
	got, ok := f.elements[el.ID()]
	return ok && got == el
}

// Size returns the number of live elements.
func (f *Factory) Size() int { return len(f.elements) }

// SwapKind reclassifies el to kind while preserving its identity and every
// reference to it. Swapping is only defined within one kind family; a
// cross-family swap indicates a corrupted graph and panics.
func (f *Factory) SwapKind(el Element, kind Kind) {
	sameFamily := IsActivityNodeKind(el.Kind()) && IsActivityNodeKind(kind) ||
		IsFlowKind(el.Kind()) && IsFlowKind(kind)
	if !sameFamily {
		panic(fmt.Sprintf("uml: cannot swap %q to %q", el.Kind(), kind))
	}
	el.(kindSetter).setKind(kind)
}

// Unlink destroys el and cascades the removal of references it participates
// in: flow ends detach from their node collections, a flow's guard is
// destroyed with it, a connector destroys its remaining ends, and ends and
// ports leave their owning collections.
//
// Unlinking an element that is not (or no longer) registered is a no-op.
func (f *Factory) Unlink(el Element) {
	if !f.Has(el) {
		return
	}
	delete(f.elements, el.ID())

	switch e := el.(type) {
	case *Flow:
		e.SetSource(nil)
		e.SetTarget(nil)
		if e.Guard != nil {
			f.Unlink(e.Guard)
			e.Guard = nil
		}
	case *ActivityNode:
		for _, fl := range append([]*Flow(nil), e.Incoming...) {
			fl.SetTarget(nil)
		}
		for _, fl := range append([]*Flow(nil), e.Outgoing...) {
			fl.SetSource(nil)
		}
	case *Connector:
		for _, end := range append([]*ConnectorEnd(nil), e.Ends...) {
			f.Unlink(end)
		}
	case *ConnectorEnd:
		if e.owner != nil {
			e.owner.Ends = removeEnd(e.owner.Ends, e)
			e.owner = nil
		}
		e.Role = nil
	case *Port:
		if e.owner != nil {
			e.owner.OwnedPorts = removePort(e.owner.OwnedPorts, e)
			e.owner = nil
		}
	}
}

func removeEnd(ends []*ConnectorEnd, end *ConnectorEnd) []*ConnectorEnd {
	for i, e := range ends {
		if e == end {
			return append(ends[:i], ends[i+1:]...)
		}
	}
	return ends
}

func removePort(ports []*Port, p *Port) []*Port {
	for i, q := range ports {
		if q == p {
			return append(ports[:i], ports[i+1:]...)
		}
	}
	return ports
}
