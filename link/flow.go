package link

import (
	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// flowConnect connects flow edges to activity nodes.
//
// It classifies the semantic flow as ObjectFlow when either endpoint item is
// an object node, reuses an existing flow between the same pair of nodes,
// installs a default guard, and hands the opposite endpoint to the combiner
// when it is a fork or decision item. Flow edges may form self-loops on a
// plain action, unlike generic dyadic relationships.
type flowConnect struct {
	relationshipConnect
}

func newFlowConnect(r *Registry, element, line *diagram.Item) Adapter {
	c := &flowConnect{}
	c.reg = r
	c.element = element
	c.line = line
	c.allowUnary = true
	c.hooks = c
	return c
}

// Glue rejects the edge's head on a final node and its tail on an initial
// node: a sink cannot emit and a source cannot receive.
func (c *flowConnect) Glue(h *diagram.Handle, port *diagram.Port) bool {
	subject := c.element.Subject()
	if subject == nil {
		return false
	}
	if h == c.line.Head() && uml.IsFinalKind(subject.Kind()) {
		return false
	}
	if h == c.line.Tail() && subject.Kind() == uml.KindInitialNode {
		return false
	}
	return c.relationshipConnect.Glue(h, port)
}

func flowSourceEnd() endSpec {
	return endSpec{
		matches: func(rel, endpoint uml.Element) bool {
			return uml.Element(rel.(*uml.Flow).Source()) == endpoint
		},
		set: func(rel, endpoint uml.Element) {
			rel.(*uml.Flow).SetSource(endpoint.(*uml.ActivityNode))
		},
	}
}

func flowTargetEnd() endSpec {
	return endSpec{
		matches: func(rel, endpoint uml.Element) bool {
			return uml.Element(rel.(*uml.Flow).Target()) == endpoint
		},
		set: func(rel, endpoint uml.Element) {
			rel.(*uml.Flow).SetTarget(endpoint.(*uml.ActivityNode))
		},
	}
}

// ConnectSubject binds the edge to a control or object flow and runs the
// combiner on the opposite endpoint when that endpoint is a fork or
// decision item.
func (c *flowConnect) ConnectSubject(h *diagram.Handle) {
	canvas := c.canvas()
	headItem := canvas.Attached(c.line.Head())
	tailItem := canvas.Attached(c.line.Tail())

	kind := uml.KindControlFlow
	if headItem.Kind() == diagram.ObjectNodeItem || tailItem.Kind() == diagram.ObjectNodeItem {
		kind = uml.KindObjectFlow
	}
	rel := c.relationshipOrNew(kind, flowSourceEnd(), flowTargetEnd()).(*uml.Flow)
	if rel.Guard == nil {
		rel.Guard = c.factory().Create(uml.KindLiteralSpecification).(*uml.LiteralSpecification)
	}
	c.line.SetSubject(rel)
	c.emit(emit.MsgConnect, c.line, map[string]interface{}{"flow": string(kind)})

	opposite := canvas.Attached(c.line.Opposite(h))
	if fj := c.combinerFor(opposite); fj != nil {
		fj.combine()
	}
}

// DisconnectSubject tears the subject down and, when the opposite endpoint
// currently holds a combined companion, runs the decombine step. The
// relationship teardown comes first so the node degrees the decombine sees
// are already the post-disconnect ones.
func (c *flowConnect) DisconnectSubject(h *diagram.Handle) {
	c.disconnectRelationship()

	opposite := c.canvas().Attached(c.line.Opposite(h))
	if opposite != nil && opposite.Combined() != nil {
		if fj := c.combinerFor(opposite); fj != nil {
			fj.decombine()
		}
	}
}

// combinerFor resolves the fork/join combiner adapter for item, or nil when
// the item is not a fork or decision item.
func (c *flowConnect) combinerFor(item *diagram.Item) *forkJoinConnect {
	if item == nil {
		return nil
	}
	if item.Kind() != diagram.ForkNodeItem && item.Kind() != diagram.DecisionNodeItem {
		return nil
	}
	fj, _ := c.reg.Adapter(item, c.line).(*forkJoinConnect)
	return fj
}
