// Package uml implements the semantic metamodel graph that backs modelink
// diagrams. Elements are strongly typed nodes with bidirectional association
// bookkeeping; the Factory owns element lifecycle (create, select, swap kind,
// unlink) and is shared by every diagram rendered over the same model.
package uml

// ElementID identifies a semantic element within one Factory.
// The zero value never identifies a live element.
type ElementID int

// Kind is the metaclass tag of a semantic element.
//
// SwapKind may move an element between kinds of the same family
// (activity-node kinds, flow kinds) while preserving its identity.
type Kind string

// Activity node kinds.
const (
	KindAction            Kind = "Action"
	KindObjectNode        Kind = "ObjectNode"
	KindInitialNode       Kind = "InitialNode"
	KindActivityFinalNode Kind = "ActivityFinalNode"
	KindFlowFinalNode     Kind = "FlowFinalNode"
	KindForkNode          Kind = "ForkNode"
	KindJoinNode          Kind = "JoinNode"
	KindDecisionNode      Kind = "DecisionNode"
	KindMergeNode         Kind = "MergeNode"
)

// Flow kinds.
const (
	KindControlFlow Kind = "ControlFlow"
	KindObjectFlow  Kind = "ObjectFlow"
)

// Structural and relationship kinds.
const (
	KindDependency           Kind = "Dependency"
	KindActor                Kind = "Actor"
	KindComponent            Kind = "Component"
	KindInterface            Kind = "Interface"
	KindConnector            Kind = "Connector"
	KindConnectorEnd         Kind = "ConnectorEnd"
	KindPort                 Kind = "Port"
	KindLiteralSpecification Kind = "LiteralSpecification"
)

// IsActivityNodeKind reports whether k belongs to the activity-node family.
func IsActivityNodeKind(k Kind) bool {
	switch k {
	case KindAction, KindObjectNode, KindInitialNode, KindActivityFinalNode,
		KindFlowFinalNode, KindForkNode, KindJoinNode, KindDecisionNode,
		KindMergeNode:
		return true
	}
	return false
}

// IsFlowKind reports whether k is a flow-edge kind.
func IsFlowKind(k Kind) bool {
	return k == KindControlFlow || k == KindObjectFlow
}

// IsFinalKind reports whether k is a sink node kind. Flows may not leave a
// final node, which is enforced at glue time by the flow adapters.
func IsFinalKind(k Kind) bool {
	return k == KindActivityFinalNode || k == KindFlowFinalNode
}

// Element is the common contract of every semantic element.
//
// The presentation count tracks how many live diagram items are bound to the
// element as their subject. Relationship elements are destroyed when the last
// presentation releases them, counted explicitly rather than left to garbage
// collection timing.
type Element interface {
	ID() ElementID
	Kind() Kind

	// AddPresentation and RemovePresentation adjust the count of diagram
	// items currently bound to this element. They are called by the diagram
	// layer when an item's subject is set or cleared.
	AddPresentation()
	RemovePresentation()
	Presentations() int
}

// element carries identity, kind and presentation bookkeeping for every
// concrete metaclass.
type element struct {
	id            ElementID
	kind          Kind
	presentations int
}

func (e *element) ID() ElementID       { return e.id }
func (e *element) Kind() Kind          { return e.kind }
func (e *element) AddPresentation()    { e.presentations++ }
func (e *element) RemovePresentation() { e.presentations-- }
func (e *element) Presentations() int  { return e.presentations }

func (e *element) setKind(k Kind) { e.kind = k }

// kindSetter is implemented by element; it lets the Factory reclassify an
// element without exposing mutation on the public interface.
type kindSetter interface {
	setKind(Kind)
}

// ActivityNode is a flow-control node: Action, ObjectNode, Initial, Final,
// Fork, Join, Decision or Merge, depending on its current Kind. Incoming and
// Outgoing are maintained by Flow.SetSource and Flow.SetTarget and must not
// be mutated directly.
type ActivityNode struct {
	element
	Name     string
	Incoming []*Flow
	Outgoing []*Flow
}

// Flow is a directed edge between two activity nodes, either a ControlFlow
// or an ObjectFlow. Guard holds the flow's guard value and is owned by the
// flow.
type Flow struct {
	element
	source *ActivityNode
	target *ActivityNode
	Guard  *LiteralSpecification
}

// Source returns the node this flow leaves, or nil while detached.
func (f *Flow) Source() *ActivityNode { return f.source }

// Target returns the node this flow enters, or nil while detached.
func (f *Flow) Target() *ActivityNode { return f.target }

// SetSource moves the flow's source end to n, updating the Outgoing
// collection of both the old and the new node. Passing nil detaches the end.
func (f *Flow) SetSource(n *ActivityNode) {
	if f.source != nil {
		f.source.Outgoing = removeFlow(f.source.Outgoing, f)
	}
	f.source = n
	if n != nil {
		n.Outgoing = append(n.Outgoing, f)
	}
}

// SetTarget moves the flow's target end to n, updating the Incoming
// collection of both the old and the new node. Passing nil detaches the end.
func (f *Flow) SetTarget(n *ActivityNode) {
	if f.target != nil {
		f.target.Incoming = removeFlow(f.target.Incoming, f)
	}
	f.target = n
	if n != nil {
		n.Incoming = append(n.Incoming, f)
	}
}

func removeFlow(flows []*Flow, f *Flow) []*Flow {
	for i, fl := range flows {
		if fl == f {
			return append(flows[:i], flows[i+1:]...)
		}
	}
	return flows
}

// Dependency is a dyadic supplier/client relationship. Both role collections
// are ordered; a dependency between the same pair of elements is reused
// across diagrams rather than duplicated.
type Dependency struct {
	element
	Supplier []Element
	Client   []Element
}

// HasSupplier reports whether el fills the supplier role.
func (d *Dependency) HasSupplier(el Element) bool { return containsElement(d.Supplier, el) }

// HasClient reports whether el fills the client role.
func (d *Dependency) HasClient(el Element) bool { return containsElement(d.Client, el) }

func containsElement(els []Element, el Element) bool {
	for _, e := range els {
		if e == el {
			return true
		}
	}
	return false
}

// Actor is a named classifier used as a dependency endpoint.
type Actor struct {
	element
	Name string
}

// Component is a component classifier with provided and required interface
// sets and the ports synthesized for assembly connectors.
type Component struct {
	element
	Name       string
	Provided   []*Interface
	Required   []*Interface
	OwnedPorts []*Port
}

// Provides reports whether the component provides iface.
func (c *Component) Provides(iface *Interface) bool {
	for _, i := range c.Provided {
		if i == iface {
			return true
		}
	}
	return false
}

// Requires reports whether the component requires iface.
func (c *Component) Requires(iface *Interface) bool {
	for _, i := range c.Required {
		if i == iface {
			return true
		}
	}
	return false
}

// AddOwnedPort attaches a synthesized port to the component.
func (c *Component) AddOwnedPort(p *Port) {
	p.owner = c
	c.OwnedPorts = append(c.OwnedPorts, p)
}

// Interface is an interface classifier. Name ordering is used when several
// interfaces qualify for one assembly pairing.
type Interface struct {
	element
	Name string
}

// Connector is an n-ary connector. For assembly connectors ConnectorKind is
// "assembly" and Ends holds one end per grouped component.
type Connector struct {
	element
	ConnectorKind string
	Ends          []*ConnectorEnd
}

// AddEnd appends end to the connector's ordered end collection.
func (c *Connector) AddEnd(end *ConnectorEnd) {
	end.owner = c
	c.Ends = append(c.Ends, end)
}

// ConnectorEnd pairs a role interface with the synthesized port on the
// component it attaches to.
type ConnectorEnd struct {
	element
	owner        *Connector
	Role         *Interface
	PartWithPort *Port
}

// Port is a synthesized connection point owned by a component.
type Port struct {
	element
	owner *Component
}

// LiteralSpecification is a literal value element, used as a flow guard.
type LiteralSpecification struct {
	element
	Value string
}
