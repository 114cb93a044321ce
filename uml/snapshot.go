package uml

import "fmt"

// Snapshot is a JSON-stable flat encoding of a Factory's elements. All
// cross-element references are recorded by ElementID, so a snapshot restored
// into a fresh factory reproduces the same association structure with the
// same identifiers.
//
// Presentation counts are deliberately not captured: they describe diagram
// state, which lives outside the semantic model.
type Snapshot struct {
	Elements []SnapshotElement `json:"elements"`
}

// SnapshotElement encodes one element. Only the fields meaningful for the
// element's kind are populated.
type SnapshotElement struct {
	ID   ElementID `json:"id"`
	Kind Kind      `json:"kind"`

	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`

	Source ElementID `json:"source,omitempty"`
	Target ElementID `json:"target,omitempty"`
	Guard  ElementID `json:"guard,omitempty"`

	Supplier []ElementID `json:"supplier,omitempty"`
	Client   []ElementID `json:"client,omitempty"`

	Provided   []ElementID `json:"provided,omitempty"`
	Required   []ElementID `json:"required,omitempty"`
	OwnedPorts []ElementID `json:"ownedPorts,omitempty"`

	ConnectorKind string      `json:"connectorKind,omitempty"`
	Ends          []ElementID `json:"ends,omitempty"`
	Role          ElementID   `json:"role,omitempty"`
	PartWithPort  ElementID   `json:"partWithPort,omitempty"`
}

// Snapshot captures every live element in creation order.
func (f *Factory) Snapshot() Snapshot {
	var snap Snapshot
	for _, el := range f.Select(nil) {
		se := SnapshotElement{ID: el.ID(), Kind: el.Kind()}
		switch e := el.(type) {
		case *ActivityNode:
			se.Name = e.Name
		case *Flow:
			if e.source != nil {
				se.Source = e.source.ID()
			}
			if e.target != nil {
				se.Target = e.target.ID()
			}
			if e.Guard != nil {
				se.Guard = e.Guard.ID()
			}
		case *Dependency:
			se.Supplier = idsOf(e.Supplier)
			se.Client = idsOf(e.Client)
		case *Actor:
			se.Name = e.Name
		case *Component:
			se.Name = e.Name
			for _, i := range e.Provided {
				se.Provided = append(se.Provided, i.ID())
			}
			for _, i := range e.Required {
				se.Required = append(se.Required, i.ID())
			}
			for _, p := range e.OwnedPorts {
				se.OwnedPorts = append(se.OwnedPorts, p.ID())
			}
		case *Interface:
			se.Name = e.Name
		case *Connector:
			se.ConnectorKind = e.ConnectorKind
			for _, end := range e.Ends {
				se.Ends = append(se.Ends, end.ID())
			}
		case *ConnectorEnd:
			if e.Role != nil {
				se.Role = e.Role.ID()
			}
			if e.PartWithPort != nil {
				se.PartWithPort = e.PartWithPort.ID()
			}
		case *LiteralSpecification:
			se.Value = e.Value
		}
		snap.Elements = append(snap.Elements, se)
	}
	return snap
}

// RestoreFactory builds a new Factory from a snapshot. The restore runs in
// two passes: first every element is instantiated under its recorded ID,
// then references are wired, so forward references inside the snapshot are
// legal.
func RestoreFactory(snap Snapshot) (*Factory, error) {
	f := NewFactory()
	byID := make(map[ElementID]Element, len(snap.Elements))

	for _, se := range snap.Elements {
		if se.ID == 0 {
			return nil, fmt.Errorf("uml: snapshot element with zero id")
		}
		if _, dup := byID[se.ID]; dup {
			return nil, fmt.Errorf("uml: duplicate snapshot element id %d", se.ID)
		}
		el := f.Create(se.Kind)
		// Re-home the element under its recorded ID.
		delete(f.elements, el.ID())
		f.order = f.order[:len(f.order)-1]
		f.registerWithID(el, se.ID)
		if se.ID >= f.nextID {
			f.nextID = se.ID + 1
		}
		byID[se.ID] = el
	}

	for _, se := range snap.Elements {
		el := byID[se.ID]
		switch e := el.(type) {
		case *ActivityNode:
			e.Name = se.Name
		case *Flow:
			if n, err := nodeRef(byID, se.Source); err != nil {
				return nil, err
			} else if n != nil {
				e.SetSource(n)
			}
			if n, err := nodeRef(byID, se.Target); err != nil {
				return nil, err
			} else if n != nil {
				e.SetTarget(n)
			}
			if se.Guard != 0 {
				g, ok := byID[se.Guard].(*LiteralSpecification)
				if !ok {
					return nil, fmt.Errorf("uml: flow %d guard %d is not a literal", se.ID, se.Guard)
				}
				e.Guard = g
			}
		case *Dependency:
			for _, id := range se.Supplier {
				e.Supplier = append(e.Supplier, byID[id])
			}
			for _, id := range se.Client {
				e.Client = append(e.Client, byID[id])
			}
		case *Actor:
			e.Name = se.Name
		case *Component:
			e.Name = se.Name
			for _, id := range se.Provided {
				e.Provided = append(e.Provided, byID[id].(*Interface))
			}
			for _, id := range se.Required {
				e.Required = append(e.Required, byID[id].(*Interface))
			}
			for _, id := range se.OwnedPorts {
				e.AddOwnedPort(byID[id].(*Port))
			}
		case *Interface:
			e.Name = se.Name
		case *Connector:
			e.ConnectorKind = se.ConnectorKind
			for _, id := range se.Ends {
				e.AddEnd(byID[id].(*ConnectorEnd))
			}
		case *ConnectorEnd:
			if se.Role != 0 {
				e.Role = byID[se.Role].(*Interface)
			}
			if se.PartWithPort != 0 {
				e.PartWithPort = byID[se.PartWithPort].(*Port)
			}
		case *LiteralSpecification:
			e.Value = se.Value
		}
	}
	return f, nil
}

func nodeRef(byID map[ElementID]Element, id ElementID) (*ActivityNode, error) {
	if id == 0 {
		return nil, nil
	}
	n, ok := byID[id].(*ActivityNode)
	if !ok {
		return nil, fmt.Errorf("uml: reference %d is not an activity node", id)
	}
	return n, nil
}

func idsOf(els []Element) []ElementID {
	var ids []ElementID
	for _, el := range els {
		ids = append(ids, el.ID())
	}
	return ids
}
