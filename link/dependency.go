package link

import (
	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// dependencyConnect connects dependency edges between classifier items. It
// is the minimal concrete dyadic adapter: the edge's head fills the supplier
// role and its tail the client role, an equivalent dependency between the
// same pair is reused across diagrams, and self-loops are refused.
type dependencyConnect struct {
	relationshipConnect
}

func newDependencyConnect(r *Registry, element, line *diagram.Item) Adapter {
	c := &dependencyConnect{}
	c.reg = r
	c.element = element
	c.line = line
	c.hooks = c
	return c
}

func dependencySupplierEnd() endSpec {
	return endSpec{
		matches: func(rel, endpoint uml.Element) bool {
			return rel.(*uml.Dependency).HasSupplier(endpoint)
		},
		set: func(rel, endpoint uml.Element) {
			d := rel.(*uml.Dependency)
			d.Supplier = append(d.Supplier, endpoint)
		},
	}
}

func dependencyClientEnd() endSpec {
	return endSpec{
		matches: func(rel, endpoint uml.Element) bool {
			return rel.(*uml.Dependency).HasClient(endpoint)
		},
		set: func(rel, endpoint uml.Element) {
			d := rel.(*uml.Dependency)
			d.Client = append(d.Client, endpoint)
		},
	}
}

func (c *dependencyConnect) ConnectSubject(h *diagram.Handle) {
	rel := c.relationshipOrNew(uml.KindDependency, dependencySupplierEnd(), dependencyClientEnd())
	c.line.SetSubject(rel)
	c.emit(emit.MsgConnect, c.line, nil)
}

func (c *dependencyConnect) DisconnectSubject(h *diagram.Handle) {
	c.disconnectRelationship()
}
