// Package link implements the connection-consistency protocol between
// diagram items and the semantic model behind them.
//
// Every connectable (element item kind, edge item kind) pair is handled by
// an Adapter selected from an explicit dispatch table. The protocol is three
// operations:
//
//   - Glue: a pure feasibility check, called repeatedly during hover/drag
//   - Connect: the attachment, run once on gesture release
//   - Disconnect: the detachment, releasing semantic objects owned solely
//     by the edge
//
// On top of the base protocol the package implements the two derived
// behaviors that keep pictures and model consistent: topology-driven
// reclassification and splitting/merging of flow-control nodes, and the
// grouping of binary connector attachments into one shared assembly
// connector.
package link

import (
	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// Adapter is the connection contract for one (element item, edge item)
// pair.
//
// Glue must be side-effect free with respect to the semantic graph and the
// diagram: an aborted drag leaves both untouched. Connect must be safe to
// call for an already attached handle; it re-affirms rather than duplicates
// state. Disconnect runs all semantic cleanup before the handle's reference
// to the element item is cleared, because that reference is needed to locate
// the opposite endpoint during cleanup.
type Adapter interface {
	Glue(h *diagram.Handle, port *diagram.Port) bool
	Connect(h *diagram.Handle, port *diagram.Port)
	Disconnect(h *diagram.Handle)
}

// baseConnect carries the state every adapter needs: the element item being
// attached to, the edge item, and the injected registry collaborators.
type baseConnect struct {
	reg     *Registry
	element *diagram.Item
	line    *diagram.Item
}

func (b *baseConnect) factory() *uml.Factory { return b.reg.factory }

func (b *baseConnect) canvas() *diagram.Canvas { return b.line.Canvas() }

// portIndex returns the index of port on the element item, or -1.
func (b *baseConnect) portIndex(port *diagram.Port) int {
	for i, p := range b.element.Ports() {
		if p == port {
			return i
		}
	}
	return -1
}

func (b *baseConnect) emit(msg string, item *diagram.Item, meta map[string]interface{}) {
	ev := emit.Event{Msg: msg, Meta: meta}
	if item != nil {
		ev.Item = int(item.ID())
		if s := item.Subject(); s != nil {
			ev.Element = int(s.ID())
		}
	}
	b.reg.emitter.Emit(ev)
}

// requestUpdate signals the UI layer that an item's derived kind or shape
// changed and its visual needs refreshing.
func (b *baseConnect) requestUpdate(item *diagram.Item) {
	b.emit(emit.MsgUpdateRequest, item, nil)
}
