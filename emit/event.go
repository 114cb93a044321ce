// Package emit provides observability events for the connection protocol.
//
// The link package emits one event per completed mutation: connects,
// disconnects, combiner splits and merges, socket fold transitions, and the
// visual-refresh requests the UI layer subscribes to. Glue checks emit
// nothing; feasibility probing must stay free of observable effects.
package emit

// Event messages emitted by the connection layer.
const (
	MsgConnect       = "connect"
	MsgDisconnect    = "disconnect"
	MsgCombine       = "combine"
	MsgDecombine     = "decombine"
	MsgFold          = "fold"
	MsgUnfold        = "unfold"
	MsgUpdateRequest = "update_request"
)

// Event describes one observable mutation performed by the connection layer.
type Event struct {
	// Item is the diagram item the event concerns, usually the edge for
	// connect/disconnect and the node or socket item for derived
	// transitions. Zero when no single item applies.
	Item int

	// Element is the semantic element backing the item at emission time,
	// or zero while the item has no subject.
	Element int

	// Msg names the event, one of the Msg constants.
	Msg string

	// Meta carries event-specific detail. Common keys:
	//   - "flow": the flow kind chosen by classification
	//   - "join", "fork": the node IDs of a combined pair
	//   - "assembly", "ends": shared connector ID and its end count
	Meta map[string]interface{}
}

// Emitter receives events from the connection layer.
//
// Implementations must not panic and should not block the gesture being
// processed; the protocol is synchronous and an emitter stall is a UI stall.
type Emitter interface {
	Emit(event Event)
}
