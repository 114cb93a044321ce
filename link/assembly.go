package link

import (
	"fmt"
	"sort"

	"github.com/dkrape/modelink/diagram"
	"github.com/dkrape/modelink/emit"
	"github.com/dkrape/modelink/uml"
)

// AssemblyKind is the kind tag carried by shared assembly connectors.
const AssemblyKind = "assembly"

// connectorConnect is the shared behavior of the two assembly adapters. A
// connector edge is only legal between one component-like and one
// interface-like item; once a second connector attaches to the same folded
// interface, the binary attachments are promoted to one shared n-ary
// assembly connector with one end per component.
type connectorConnect struct {
	baseConnect
}

// EligibleInterfaces returns the interfaces provided by the first component
// and required by the second, ordered by name for deterministic enumeration.
// UI layers use it to offer assembly candidates for a prospective pair;
// which interface is actually bound is decided by the interface item the
// user connects, not by this ordering.
func EligibleInterfaces(provider, consumer *uml.Component) []*uml.Interface {
	var out []*uml.Interface
	for _, i := range provider.Provided {
		if consumer.Requires(i) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// componentOf returns the component item a connector edge is attached to,
// or nil.
func (c *connectorConnect) componentOf(connector *diagram.Item) *diagram.Item {
	canvas := connector.Canvas()
	item := canvas.Attached(connector.Head())
	if item == nil || item.Kind() != diagram.ComponentItem {
		item = canvas.Attached(connector.Tail())
	}
	if item == nil || item.Kind() != diagram.ComponentItem {
		return nil
	}
	return item
}

// interfaceOf returns the interface item a connector edge is attached to,
// or nil.
func (c *connectorConnect) interfaceOf(connector *diagram.Item) *diagram.Item {
	canvas := connector.Canvas()
	item := canvas.Attached(connector.Head())
	if item == nil || item.Kind() != diagram.InterfaceItem {
		item = canvas.Attached(connector.Tail())
	}
	if item == nil || item.Kind() != diagram.InterfaceItem {
		return nil
	}
	return item
}

// Glue accepts exactly one component-like and one interface-like endpoint.
// When the candidate port already declares a provided or required role, only
// the matching side of the interface may attach.
func (c *connectorConnect) Glue(h *diagram.Handle, port *diagram.Port) bool {
	if port == nil || !port.Connectable {
		return false
	}
	if c.element.Subject() == nil {
		return false
	}

	iface := c.element
	component := c.canvas().Attached(c.line.Opposite(h))
	typedPort := port
	if component != nil && component.Kind() == diagram.InterfaceItem {
		component, iface = iface, component
		opposite := c.line.Opposite(h)
		if idx := opposite.ConnectedPort(); idx >= 0 && idx < len(iface.Ports()) {
			typedPort = iface.Ports()[idx]
		}
	}

	if component != nil {
		if component.Kind() == diagram.ComponentItem && iface.Kind() == diagram.ComponentItem {
			return false
		}
		if component.Kind() == diagram.InterfaceItem && iface.Kind() == diagram.InterfaceItem {
			return false
		}
	}

	if component != nil && (typedPort.Provided || typedPort.Required) {
		compSubject, ok := component.Subject().(*uml.Component)
		if !ok {
			return false
		}
		ifaceSubject, ok := iface.Subject().(*uml.Interface)
		if !ok {
			return false
		}
		return typedPort.Provided && compSubject.Provides(ifaceSubject) ||
			typedPort.Required && compSubject.Requires(ifaceSubject)
	}
	return true
}

// Connect implements the component-side attachment; the interface-side
// adapter extends it with the folding transition.
func (c *connectorConnect) Connect(h *diagram.Handle, port *diagram.Port) {
	c.attachAndGroup(h, port)
}

// attachAndGroup attaches the handle and, once the interface holds more than
// one connector, installs or extends the shared assembly connector.
func (c *connectorConnect) attachAndGroup(h *diagram.Handle, port *diagram.Port) {
	h.Attach(c.element.ID(), c.portIndex(port))

	canvas := c.canvas()
	if !c.line.Head().IsAttached() || !c.line.Tail().IsAttached() {
		return
	}
	iface := c.interfaceOf(c.line)
	component := c.componentOf(c.line)
	if iface == nil || component == nil {
		return
	}

	connected := canvas.ConnectedItems(iface)
	if len(connected) < 2 {
		return
	}

	ifaceSubject := iface.Subject().(*uml.Interface)
	var assembly *uml.Connector
	for _, at := range connected {
		if conn, ok := at.Item.Subject().(*uml.Connector); ok {
			if conn.ConnectorKind != AssemblyKind {
				panic(fmt.Sprintf("link: connector %d grouped under non-assembly connector", at.Item.ID()))
			}
			assembly = conn
			break
		}
	}

	if assembly == nil {
		assembly = c.factory().Create(uml.KindConnector).(*uml.Connector)
		assembly.ConnectorKind = AssemblyKind
		for _, at := range connected {
			c.createEnd(at.Item, assembly, ifaceSubject)
		}
	} else {
		c.createEnd(c.line, assembly, ifaceSubject)
	}
	c.emit(emit.MsgConnect, c.line, map[string]interface{}{
		"assembly": int(assembly.ID()),
		"ends":     len(assembly.Ends),
	})
}

// createEnd binds one connector edge into the shared assembly: a connector
// end carrying the interface role and a synthesized port attached to the
// edge's component.
func (c *connectorConnect) createEnd(connector *diagram.Item, assembly *uml.Connector, role *uml.Interface) {
	component := c.componentOf(connector)
	if component == nil {
		return
	}
	compSubject := component.Subject().(*uml.Component)

	end := c.factory().Create(uml.KindConnectorEnd).(*uml.ConnectorEnd)
	end.Role = role
	port := c.factory().Create(uml.KindPort).(*uml.Port)
	end.PartWithPort = port
	assembly.AddEnd(end)
	compSubject.AddOwnedPort(port)

	connector.SetSubject(assembly)
	connector.SetEnd(end)
}

// dropEnd releases one connector edge's share of the assembly: its
// synthesized port, its end, and its subject binding.
func (c *connectorConnect) dropEnd(connector *diagram.Item) {
	end := connector.End()
	if end != nil {
		if end.PartWithPort != nil {
			c.factory().Unlink(end.PartWithPort)
		}
		c.factory().Unlink(end)
	}
	connector.SetEnd(nil)
	connector.SetSubject(nil)
}

// Disconnect implements the component-side detachment; the interface-side
// adapter extends it with the unfolding transition.
func (c *connectorConnect) Disconnect(h *diagram.Handle) {
	c.dropAndUngroup(h)
	h.Detach()
}

// dropAndUngroup performs the semantic side of the detachment while the
// handle still references the element. Removing one of exactly two grouped
// connectors dissolves the shared assembly; with three or more only this
// edge's end is released.
func (c *connectorConnect) dropAndUngroup(h *diagram.Handle) {
	if c.line.Subject() == nil {
		return
	}
	canvas := c.canvas()
	iface := c.interfaceOf(c.line)
	if iface == nil {
		return
	}

	connected := canvas.ConnectedItems(iface)
	if len(connected) == 2 {
		assembly := c.line.Subject().(*uml.Connector)
		for _, at := range connected {
			c.dropEnd(at.Item)
			c.requestUpdate(at.Item)
		}
		c.factory().Unlink(assembly)
	} else {
		c.dropEnd(c.line)
	}
	c.emit(emit.MsgDisconnect, c.line, nil)
}

// componentConnector connects connector edges to component items.
type componentConnector struct {
	connectorConnect
}

func newComponentConnector(r *Registry, element, line *diagram.Item) Adapter {
	c := &componentConnector{}
	c.reg = r
	c.element = element
	c.line = line
	return c
}

// interfaceConnector connects connector edges to interface items and drives
// the fold/unfold state machine of the interface's four ports.
type interfaceConnector struct {
	connectorConnect
}

func newInterfaceConnector(r *Registry, element, line *diagram.Item) Adapter {
	c := &interfaceConnector{}
	c.reg = r
	c.element = element
	c.line = line
	return c
}

// Glue additionally requires a folded interface with nothing but connector
// edges attached.
func (c *interfaceConnector) Glue(h *diagram.Handle, port *diagram.Port) bool {
	if !c.connectorConnect.Glue(h, port) {
		return false
	}
	if c.element.Folding() == diagram.FoldingNone {
		return false
	}
	for _, at := range c.canvas().ConnectedItems(c.element) {
		if at.Item.Kind() != diagram.ConnectorItem {
			return false
		}
	}
	return true
}

// Connect folds the interface into assembly display. On the first
// attachment the two ports opposite the attachment point are locked to
// provided and required roles; which side gets which is decided by the role
// the just-connected component actually satisfies. The remaining two ports
// become non-connectable.
func (c *interfaceConnector) Connect(h *diagram.Handle, port *diagram.Port) {
	c.attachAndGroup(h, port)

	iface := c.element
	iface.SetFolding(diagram.FoldingAssembly)

	ports := iface.Ports()
	idx := c.portIndex(port)
	if idx < 0 {
		return
	}
	if port.Provided || port.Required {
		return
	}

	provided, required := port, ports[(idx+2)%4]
	component := c.canvas().Attached(c.line.Opposite(h))
	if component != nil {
		if compSubject, ok := component.Subject().(*uml.Component); ok {
			if ifaceSubject, ok := iface.Subject().(*uml.Interface); ok && compSubject.Requires(ifaceSubject) {
				provided, required = required, provided
			}
		}
	}
	provided.Provided = true
	required.Required = true
	ports[(idx+1)%4].Connectable = false
	ports[(idx+3)%4].Connectable = false

	c.emit(emit.MsgFold, iface, nil)
	c.reg.metrics.transition("fold")
	c.requestUpdate(iface)
}

// Disconnect reverts the interface to the plain socket display when the last
// connector detaches, resetting all four ports to connectable, role-less
// state. The check runs before the handle is cleared, so "last" means this
// edge is the only attachment left.
func (c *interfaceConnector) Disconnect(h *diagram.Handle) {
	c.dropAndUngroup(h)

	iface := c.element
	if len(c.canvas().ConnectedItems(iface)) == 1 {
		iface.SetFolding(diagram.FoldingProvided)
		for _, p := range iface.Ports() {
			p.Reset()
		}
		c.emit(emit.MsgUnfold, iface, nil)
		c.reg.metrics.transition("unfold")
		c.requestUpdate(iface)
	}
	h.Detach()
}
