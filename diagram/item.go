// Package diagram models the visual side of a modelink model: items,
// handles, ports and the canvas that owns them. It knows nothing about
// connection feasibility; that logic lives in the link package and operates
// on the primitives defined here.
package diagram

import "github.com/dkrape/modelink/uml"

// ItemID identifies an item within one Canvas. The zero value never
// identifies a live item; a Handle holding the zero value is detached.
type ItemID int

// ItemKind classifies a diagram item. The link package dispatches adapters
// on (element kind, edge kind) pairs, so kinds are part of the connection
// contract, not just display hints.
type ItemKind string

const (
	ActionItem       ItemKind = "action"
	ObjectNodeItem   ItemKind = "object-node"
	InitialNodeItem  ItemKind = "initial-node"
	FinalNodeItem    ItemKind = "final-node"
	ForkNodeItem     ItemKind = "fork-node"
	DecisionNodeItem ItemKind = "decision-node"
	FlowItem         ItemKind = "flow"
	ComponentItem    ItemKind = "component"
	InterfaceItem    ItemKind = "interface"
	ConnectorItem    ItemKind = "connector"
	DependencyItem   ItemKind = "dependency"
	ActorItem        ItemKind = "actor"
)

// IsEdge reports whether items of this kind are line items with head and
// tail connection handles.
func (k ItemKind) IsEdge() bool {
	return k == FlowItem || k == ConnectorItem || k == DependencyItem
}

// Folding is the display and connection state of an interface item.
type Folding int

const (
	// FoldingNone is the class-style display; connectors cannot glue.
	FoldingNone Folding = iota
	// FoldingProvided is the plain socket display, the default for new
	// interface items and the state restored when the last connector
	// detaches.
	FoldingProvided
	// FoldingRequired is the socket display seen from the requiring side.
	FoldingRequired
	// FoldingAssembly is the role-locked state entered when the first
	// connector attaches.
	FoldingAssembly
)

// Port is a typed attachment zone on an item. Interface items carry four
// ports whose flags are driven by the assembly folding logic.
type Port struct {
	Provided    bool
	Required    bool
	Connectable bool
}

// Reset returns the port to its role-less connectable state.
func (p *Port) Reset() {
	p.Provided = false
	p.Required = false
	p.Connectable = true
}

// Handle is an edge endpoint. It holds a non-owning reference to the item it
// is attached to, resolved through the canvas arena, never a pointer.
type Handle struct {
	owner         *Item
	connectedTo   ItemID
	connectedPort int
}

// Owner returns the item this handle belongs to.
func (h *Handle) Owner() *Item { return h.owner }

// ConnectedTo returns the ID of the attached item, or zero while detached.
func (h *Handle) ConnectedTo() ItemID { return h.connectedTo }

// ConnectedPort returns the index of the port the handle is attached to on
// the target item, or -1 while detached.
func (h *Handle) ConnectedPort() int { return h.connectedPort }

// IsAttached reports whether the handle currently references an item.
func (h *Handle) IsAttached() bool { return h.connectedTo != 0 }

// Attach points the handle at the given item and port index. Attaching an
// already attached handle re-affirms the reference.
func (h *Handle) Attach(id ItemID, port int) {
	h.connectedTo = id
	h.connectedPort = port
}

// Detach clears the handle's reference.
func (h *Handle) Detach() {
	h.connectedTo = 0
	h.connectedPort = -1
}

// Item is a visual shape or line. It optionally backs one semantic element
// (its subject) and, for fork and decision items, may additionally record a
// combined companion node synthesized by the combiner.
type Item struct {
	id       ItemID
	kind     ItemKind
	canvas   *Canvas
	subject  uml.Element
	combined *uml.ActivityNode
	end      *uml.ConnectorEnd
	handles  []*Handle
	ports    []*Port
	folding  Folding
}

// ID returns the item's arena identifier.
func (it *Item) ID() ItemID { return it.id }

// Kind returns the item's kind.
func (it *Item) Kind() ItemKind { return it.kind }

// Canvas returns the canvas owning this item.
func (it *Item) Canvas() *Canvas { return it.canvas }

// Subject returns the semantic element backing this item, or nil.
func (it *Item) Subject() uml.Element { return it.subject }

// SetSubject binds the item to a semantic element, maintaining the
// element's presentation count. Setting nil releases the current subject.
func (it *Item) SetSubject(el uml.Element) {
	if it.subject == el {
		return
	}
	if it.subject != nil {
		it.subject.RemovePresentation()
	}
	it.subject = el
	if el != nil {
		el.AddPresentation()
	}
}

// Combined returns the synthesized companion node, or nil when the item
// backs a single semantic node.
func (it *Item) Combined() *uml.ActivityNode { return it.combined }

// SetCombined records or clears the companion node.
func (it *Item) SetCombined(n *uml.ActivityNode) { it.combined = n }

// End returns the connector end bound to this connector item, or nil.
func (it *Item) End() *uml.ConnectorEnd { return it.end }

// SetEnd binds or clears the connector end of a connector item.
func (it *Item) SetEnd(end *uml.ConnectorEnd) { it.end = end }

// Handles returns the item's ordered handle sequence.
func (it *Item) Handles() []*Handle { return it.handles }

// Ports returns the item's ordered port sequence.
func (it *Item) Ports() []*Port { return it.ports }

// Folding returns the interface item's folding state.
func (it *Item) Folding() Folding { return it.folding }

// SetFolding updates the interface item's folding state.
func (it *Item) SetFolding(f Folding) { it.folding = f }

// Head returns the first handle of an edge item.
func (it *Item) Head() *Handle { return it.handles[0] }

// Tail returns the last handle of an edge item.
func (it *Item) Tail() *Handle { return it.handles[len(it.handles)-1] }

// Opposite returns the handle at the other end of an edge item.
func (it *Item) Opposite(h *Handle) *Handle {
	if h == it.Head() {
		return it.Tail()
	}
	return it.Head()
}
