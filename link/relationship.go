package link

import (
	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// subjectHooks is implemented by adapters built on relationshipConnect.
// The base Connect and Disconnect drive the handle; the hooks supply the
// semantic mutation once both ends are attached.
type subjectHooks interface {
	ConnectSubject(h *diagram.Handle)
	DisconnectSubject(h *diagram.Handle)
}

// endSpec describes one end of a dyadic relationship: how to recognize an
// existing relationship already holding the endpoint in this role, and how
// to install the endpoint on a fresh relationship.
type endSpec struct {
	matches func(rel, endpoint uml.Element) bool
	set     func(rel, endpoint uml.Element)
}

// relationshipConnect implements the generic dyadic-relationship discipline:
// search-then-create of the semantic relationship, subject binding with
// presentation refcounting, and teardown of relationships no diagram edge
// depends on anymore.
type relationshipConnect struct {
	baseConnect

	// hooks points back at the most derived adapter so the base protocol
	// dispatches subject work to it.
	hooks subjectHooks

	// allowUnary permits both ends of the edge on the same semantic
	// element. Flow edges allow it, generic relationships do not.
	allowUnary bool
}

// Glue implements the shared feasibility rules: the target port must be
// connectable, the element must back a semantic subject, and unless the
// adapter allows unary edges the opposite end may not already resolve to the
// same subject.
func (c *relationshipConnect) Glue(h *diagram.Handle, port *diagram.Port) bool {
	if port == nil || !port.Connectable {
		return false
	}
	if c.element.Subject() == nil {
		return false
	}
	if !c.allowUnary {
		opposite := c.canvas().Attached(c.line.Opposite(h))
		if opposite != nil && opposite.Subject() == c.element.Subject() {
			return false
		}
	}
	return true
}

// Connect attaches the handle and, once both ends are attached, runs the
// adapter's subject hook. Re-connecting an attached handle re-affirms the
// existing state.
func (c *relationshipConnect) Connect(h *diagram.Handle, port *diagram.Port) {
	h.Attach(c.element.ID(), c.portIndex(port))
	if c.line.Head().IsAttached() && c.line.Tail().IsAttached() {
		c.hooks.ConnectSubject(h)
	}
}

// Disconnect runs the adapter's subject cleanup while the handle still
// references the element, then clears the handle. The ordering is
// load-bearing: cleanup needs the reference to locate the opposite endpoint.
func (c *relationshipConnect) Disconnect(h *diagram.Handle) {
	if c.line.Subject() != nil {
		c.hooks.DisconnectSubject(h)
	}
	h.Detach()
}

// relationshipOrNew returns the first existing relationship of the given
// kind whose ends already match the semantic endpoints of the edge in the
// given roles, or creates one. The search runs in element creation order;
// first-found is deterministic but carries no semantic meaning. A failed
// lookup is not an error, it simply degrades to creation.
func (c *relationshipConnect) relationshipOrNew(kind uml.Kind, src, dst endSpec) uml.Element {
	canvas := c.canvas()
	srcEl := canvas.Attached(c.line.Head()).Subject()
	dstEl := canvas.Attached(c.line.Tail()).Subject()

	for _, el := range c.factory().Select(func(e uml.Element) bool { return e.Kind() == kind }) {
		if src.matches(el, srcEl) && dst.matches(el, dstEl) {
			return el
		}
	}
	rel := c.factory().Create(kind)
	src.set(rel, srcEl)
	dst.set(rel, dstEl)
	return rel
}

// disconnectRelationship unbinds the edge's subject and destroys it when no
// other diagram edge presents it anymore. Reference counting is by live
// connected edges, never by garbage collection timing.
func (c *relationshipConnect) disconnectRelationship() {
	rel := c.line.Subject()
	if rel == nil {
		return
	}
	c.line.SetSubject(nil)
	if rel.Presentations() == 0 {
		c.factory().Unlink(rel)
	}
	c.emit(emit.MsgDisconnect, c.line, nil)
}
