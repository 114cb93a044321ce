package link

import (
	"fmt"

	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// forkJoinConnect connects flow edges to fork/join and decision/merge items
// and re-evaluates the node's classification after every adjacent connect or
// disconnect.
//
// The node kind is a function of (indegree, outdegree):
//
//	indegree > 1, outdegree < 2  ->  join kind
//	indegree < 2, outdegree > 1  ->  fork kind
//	indegree > 1, outdegree > 1  ->  combine: split into join + fork
//
// Combine keeps the original node's identity as the join and synthesizes a
// fork node that takes over the outgoing edges; the visual item then backs
// both nodes, recording the fork as its combined companion. Decombine is the
// exact inverse and fires when a disconnect drops either side below its
// triggering degree. The two steps are mutual inverses across any number of
// cycles.
type forkJoinConnect struct {
	flowConnect
	forkKind uml.Kind
	joinKind uml.Kind
}

func newForkJoinConnect(forkKind, joinKind uml.Kind) AdapterFunc {
	return func(r *Registry, element, line *diagram.Item) Adapter {
		c := &forkJoinConnect{forkKind: forkKind, joinKind: joinKind}
		c.reg = r
		c.element = element
		c.line = line
		c.allowUnary = true
		c.hooks = c
		return c
	}
}

// Glue refuses an edge whose two ends would resolve to this node's semantic
// subject: no direct self-loop through a fork, join, decision or merge node,
// even where the shapes would permit the cycle.
func (c *forkJoinConnect) Glue(h *diagram.Handle, port *diagram.Port) bool {
	subject := c.element.Subject()
	if subject == nil {
		return false
	}
	canvas := c.canvas()
	head, tail := c.line.Head(), c.line.Tail()
	if h == head {
		if t := canvas.Attached(tail); t != nil && t.Subject() == subject {
			return false
		}
	}
	if h == tail {
		if t := canvas.Attached(head); t != nil && t.Subject() == subject {
			return false
		}
	}
	return c.flowConnect.Glue(h, port)
}

// ConnectSubject performs the flow connection, then re-evaluates this node.
func (c *forkJoinConnect) ConnectSubject(h *diagram.Handle) {
	c.flowConnect.ConnectSubject(h)
	c.combine()
}

// DisconnectSubject performs the flow disconnection, then merges the
// combined pair back when this item holds one.
func (c *forkJoinConnect) DisconnectSubject(h *diagram.Handle) {
	c.flowConnect.DisconnectSubject(h)
	if c.element.Combined() != nil {
		c.decombine()
	}
}

// combine re-evaluates the node against its current degrees, either
// reclassifying it in place or splitting it into a join/fork pair.
func (c *forkJoinConnect) combine() {
	subject := c.element.Subject().(*uml.ActivityNode)
	in, out := len(subject.Incoming), len(subject.Outgoing)

	switch {
	case in > 1 && out < 2:
		c.reclassify(subject, c.joinKind)
	case in < 2 && out > 1:
		c.reclassify(subject, c.forkKind)
	case c.element.Combined() == nil && in > 1 && out > 1:
		c.split(subject)
	}
}

func (c *forkJoinConnect) reclassify(node *uml.ActivityNode, kind uml.Kind) {
	if node.Kind() == kind {
		return
	}
	c.factory().SwapKind(node, kind)
	c.requestUpdate(c.element)
}

// split turns the node into a combined join/fork pair. The node keeps its
// identity and incoming edges as the join; a synthesized fork takes over the
// outgoing edges; one new flow links join to fork, classified as ObjectFlow
// when any incoming edge is one.
func (c *forkJoinConnect) split(join *uml.ActivityNode) {
	flowKind := uml.KindControlFlow
	for _, fl := range join.Incoming {
		if fl.Kind() == uml.KindObjectFlow {
			flowKind = uml.KindObjectFlow
			break
		}
	}

	c.factory().SwapKind(join, c.joinKind)
	fork := c.factory().CreateNode(c.forkKind)
	for _, fl := range append([]*uml.Flow(nil), join.Outgoing...) {
		fl.SetSource(fork)
	}
	bridge := c.factory().CreateFlow(flowKind)
	bridge.SetSource(join)
	bridge.SetTarget(fork)

	c.element.SetCombined(fork)
	c.emit(emit.MsgCombine, c.element, map[string]interface{}{
		"join": int(join.ID()),
		"fork": int(fork.ID()),
	})
	c.reg.metrics.transition("combine")
	c.requestUpdate(c.element)
}

// decombine merges the combined pair back into a single node when either
// side dropped below its triggering degree. The join survives; the bridging
// flow and the fork are destroyed. A combined item whose pair does not have
// the expected shape indicates a corrupted graph and panics.
func (c *forkJoinConnect) decombine() {
	fork := c.element.Combined()
	if fork == nil {
		return
	}
	join := c.element.Subject().(*uml.ActivityNode)

	var bridge *uml.Flow
	for _, fl := range join.Outgoing {
		if fl.Target() == fork {
			if bridge != nil {
				panic(fmt.Sprintf("link: combined node %d has multiple flows to its companion", join.ID()))
			}
			bridge = fl
		}
	}
	if bridge == nil {
		panic(fmt.Sprintf("link: combined node %d has no flow to its companion", join.ID()))
	}
	if join.Kind() != c.joinKind || fork.Kind() != c.forkKind {
		panic(fmt.Sprintf("link: combined pair has kinds %q/%q, want %q/%q",
			join.Kind(), fork.Kind(), c.joinKind, c.forkKind))
	}

	if len(join.Incoming) >= 2 && len(fork.Outgoing) >= 2 {
		return
	}

	for _, fl := range append([]*uml.Flow(nil), fork.Outgoing...) {
		fl.SetSource(join)
	}
	c.factory().Unlink(bridge)
	c.factory().Unlink(fork)

	// The survivor keeps the join identity; when only the fan-out condition
	// remains it is reclassified accordingly.
	if len(join.Outgoing) > 1 {
		if len(join.Incoming) >= 2 {
			panic(fmt.Sprintf("link: node %d still satisfies both fan conditions after decombine", join.ID()))
		}
		c.factory().SwapKind(join, c.forkKind)
	}
	c.element.SetCombined(nil)
	c.emit(emit.MsgDecombine, c.element, map[string]interface{}{
		"join": int(join.ID()),
	})
	c.reg.metrics.transition("decombine")
	c.requestUpdate(c.element)
}
