package link

import (
	"testing"

	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// forkFixture wires n incoming and m outgoing flows around a single
// fork node item and returns the item plus the ordered flow edges.
type forkFixture struct {
	*fixture
	fork     *diagram.Item
	incoming []*diagram.Item
	outgoing []*diagram.Item
}

func newForkFixture(t *testing.T, in, out int) *forkFixture {
	t.Helper()
	f := newFixture()
	ff := &forkFixture{
		fixture: f,
		fork:    f.item(diagram.ForkNodeItem, uml.KindForkNode),
	}
	for i := 0; i < in; i++ {
		ff.addIncoming(t)
	}
	for i := 0; i < out; i++ {
		ff.addOutgoing(t)
	}
	return ff
}

func (ff *forkFixture) addIncoming(t *testing.T) *diagram.Item {
	t.Helper()
	src := ff.item(diagram.ActionItem, uml.KindAction)
	flow := ff.edge(diagram.FlowItem)
	ff.connect(t, flow, flow.Head(), src)
	ff.connect(t, flow, flow.Tail(), ff.fork)
	ff.incoming = append(ff.incoming, flow)
	return flow
}

func (ff *forkFixture) addOutgoing(t *testing.T) *diagram.Item {
	t.Helper()
	dst := ff.item(diagram.ActionItem, uml.KindAction)
	flow := ff.edge(diagram.FlowItem)
	ff.connect(t, flow, flow.Head(), ff.fork)
	ff.connect(t, flow, flow.Tail(), dst)
	ff.outgoing = append(ff.outgoing, flow)
	return flow
}

func TestForkJoinGlueRejectsSelfLoop(t *testing.T) {
	f := newFixture()
	fork := f.item(diagram.ForkNodeItem, uml.KindForkNode)
	flow := f.edge(diagram.FlowItem)

	f.connect(t, flow, flow.Head(), fork)
	if f.glue(flow, flow.Tail(), fork) {
		t.Error("a flow must not loop through the same fork node")
	}
}

func TestForkJoinReclassify(t *testing.T) {
	t.Run("one in one out keeps kind", func(t *testing.T) {
		ff := newForkFixture(t, 1, 1)
		if got := node(ff.fork).Kind(); got != uml.KindForkNode {
			t.Errorf("kind = %q, want %q", got, uml.KindForkNode)
		}
	})

	t.Run("many in one out becomes join", func(t *testing.T) {
		ff := newForkFixture(t, 2, 1)
		if got := node(ff.fork).Kind(); got != uml.KindJoinNode {
			t.Errorf("kind = %q, want %q", got, uml.KindJoinNode)
		}
		if ff.fork.Combined() != nil {
			t.Error("reclassification must not split the node")
		}
	})

	t.Run("one in many out becomes fork", func(t *testing.T) {
		ff := newForkFixture(t, 2, 1)
		// Removing an incoming edge tips the balance back toward fork.
		ff.addOutgoing(t)
		// 2 in, 2 out: combined now. Undo the combine by dropping an input.
		ff.disconnect(t, ff.incoming[1], ff.incoming[1].Tail())
		if got := node(ff.fork).Kind(); got != uml.KindForkNode {
			t.Errorf("kind = %q, want %q", got, uml.KindForkNode)
		}
	})

	t.Run("identity survives reclassification", func(t *testing.T) {
		ff := newForkFixture(t, 1, 1)
		before := node(ff.fork)
		ff.addIncoming(t)
		if node(ff.fork) != before {
			t.Error("swapping the node kind must preserve element identity")
		}
	})
}

func TestForkJoinCombine(t *testing.T) {
	ff := newForkFixture(t, 2, 2)

	join := node(ff.fork)
	fork := ff.fork.Combined()
	if fork == nil {
		t.Fatal("two in, two out must split the node into a combined pair")
	}
	if join.Kind() != uml.KindJoinNode {
		t.Errorf("visible node kind = %q, want %q", join.Kind(), uml.KindJoinNode)
	}
	if fork.Kind() != uml.KindForkNode {
		t.Errorf("companion kind = %q, want %q", fork.Kind(), uml.KindForkNode)
	}

	// Incoming flows stay on the join, outgoing flows migrate to the fork.
	for i, in := range ff.incoming {
		if in.Subject().(*uml.Flow).Target() != join {
			t.Errorf("incoming flow %d does not target the join", i)
		}
	}
	for i, out := range ff.outgoing {
		if out.Subject().(*uml.Flow).Source() != fork {
			t.Errorf("outgoing flow %d does not originate at the fork", i)
		}
	}

	// A single bridge flow connects the pair.
	var bridges []*uml.Flow
	for _, fl := range join.Outgoing {
		if fl.Target() == fork {
			bridges = append(bridges, fl)
		}
	}
	if len(bridges) != 1 {
		t.Fatalf("found %d bridge flows between join and fork, want 1", len(bridges))
	}
	if bridges[0].Kind() != uml.KindControlFlow {
		t.Errorf("bridge kind = %q, want %q", bridges[0].Kind(), uml.KindControlFlow)
	}

	if got := ff.events.EventsByMsg(emit.MsgCombine); len(got) != 1 {
		t.Errorf("combine emitted %d events, want 1", len(got))
	}
}

func TestForkJoinCombineObjectFlowBridge(t *testing.T) {
	f := newFixture()
	fork := f.item(diagram.ForkNodeItem, uml.KindForkNode)

	// One object flow in, one control flow in, two control flows out.
	obj := f.item(diagram.ObjectNodeItem, uml.KindObjectNode)
	in1 := f.edge(diagram.FlowItem)
	f.connect(t, in1, in1.Head(), obj)
	f.connect(t, in1, in1.Tail(), fork)

	src := f.item(diagram.ActionItem, uml.KindAction)
	in2 := f.edge(diagram.FlowItem)
	f.connect(t, in2, in2.Head(), src)
	f.connect(t, in2, in2.Tail(), fork)

	for i := 0; i < 2; i++ {
		dst := f.item(diagram.ActionItem, uml.KindAction)
		out := f.edge(diagram.FlowItem)
		f.connect(t, out, out.Head(), fork)
		f.connect(t, out, out.Tail(), dst)
	}

	companion := fork.Combined()
	if companion == nil {
		t.Fatal("expected a combined pair")
	}
	join := node(fork)
	var bridge *uml.Flow
	for _, fl := range join.Outgoing {
		if fl.Target() == companion {
			bridge = fl
		}
	}
	if bridge == nil {
		t.Fatal("no bridge flow")
	}
	if bridge.Kind() != uml.KindObjectFlow {
		t.Errorf("bridge kind = %q, want %q when an object flow feeds the join", bridge.Kind(), uml.KindObjectFlow)
	}
}

func TestForkJoinDecombine(t *testing.T) {
	t.Run("dropping an outgoing edge merges into a join", func(t *testing.T) {
		ff := newForkFixture(t, 2, 2)
		before := ff.factory.Size()

		ff.disconnect(t, ff.outgoing[1], ff.outgoing[1].Head())

		if ff.fork.Combined() != nil {
			t.Error("combined marker not cleared")
		}
		survivor := node(ff.fork)
		if survivor.Kind() != uml.KindJoinNode {
			t.Errorf("survivor kind = %q, want %q", survivor.Kind(), uml.KindJoinNode)
		}
		if len(survivor.Incoming) != 2 || len(survivor.Outgoing) != 1 {
			t.Errorf("survivor edges = %d in, %d out, want 2 in, 1 out",
				len(survivor.Incoming), len(survivor.Outgoing))
		}
		// Bridge, companion, dropped flow and its guard are all gone.
		if got, want := ff.factory.Size(), before-4; got != want {
			t.Errorf("element count = %d, want %d", got, want)
		}
		if got := ff.events.EventsByMsg(emit.MsgDecombine); len(got) != 1 {
			t.Errorf("decombine emitted %d events, want 1", len(got))
		}
	})

	t.Run("dropping an incoming edge merges into a fork", func(t *testing.T) {
		ff := newForkFixture(t, 2, 2)

		ff.disconnect(t, ff.incoming[1], ff.incoming[1].Tail())

		if ff.fork.Combined() != nil {
			t.Error("combined marker not cleared")
		}
		survivor := node(ff.fork)
		if survivor.Kind() != uml.KindForkNode {
			t.Errorf("survivor kind = %q, want %q", survivor.Kind(), uml.KindForkNode)
		}
		if len(survivor.Incoming) != 1 || len(survivor.Outgoing) != 2 {
			t.Errorf("survivor edges = %d in, %d out, want 1 in, 2 out",
				len(survivor.Incoming), len(survivor.Outgoing))
		}
	})

	t.Run("pair persists while both sides stay plural", func(t *testing.T) {
		ff := newForkFixture(t, 2, 3)
		fork := ff.fork.Combined()

		ff.disconnect(t, ff.outgoing[2], ff.outgoing[2].Head())

		if ff.fork.Combined() != fork {
			t.Error("pair must survive while two inputs and two outputs remain")
		}
	})
}

func TestDecisionMergeNode(t *testing.T) {
	f := newFixture()
	dec := f.item(diagram.DecisionNodeItem, uml.KindDecisionNode)

	for i := 0; i < 2; i++ {
		src := f.item(diagram.ActionItem, uml.KindAction)
		in := f.edge(diagram.FlowItem)
		f.connect(t, in, in.Head(), src)
		f.connect(t, in, in.Tail(), dec)
	}
	if got := node(dec).Kind(); got != uml.KindMergeNode {
		t.Errorf("kind = %q, want %q", got, uml.KindMergeNode)
	}

	for i := 0; i < 2; i++ {
		dst := f.item(diagram.ActionItem, uml.KindAction)
		out := f.edge(diagram.FlowItem)
		f.connect(t, out, out.Head(), dec)
		f.connect(t, out, out.Tail(), dst)
	}
	merge := node(dec)
	companion := dec.Combined()
	if companion == nil {
		t.Fatal("expected a combined merge and decision pair")
	}
	if merge.Kind() != uml.KindMergeNode {
		t.Errorf("visible kind = %q, want %q", merge.Kind(), uml.KindMergeNode)
	}
	if companion.Kind() != uml.KindDecisionNode {
		t.Errorf("companion kind = %q, want %q", companion.Kind(), uml.KindDecisionNode)
	}
}
