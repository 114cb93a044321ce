package diagram

// Attachment is one (edge item, handle) pair currently attached to an item.
type Attachment struct {
	Item   *Item
	Handle *Handle
}

// Canvas is the item arena for one diagram. Several canvases may share a
// single uml.Factory, which is what allows relationship reuse across
// diagrams.
type Canvas struct {
	nextID ItemID
	items  map[ItemID]*Item
	order  []ItemID
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{
		nextID: 1,
		items:  make(map[ItemID]*Item),
	}
}

// Create instantiates an item of the given kind and adds it to the canvas.
//
// Edge kinds get head and tail handles. Interface items get the four ports
// used by the assembly folding logic and start in the plain socket display;
// every other kind gets a single connectable port.
func (c *Canvas) Create(kind ItemKind) *Item {
	it := &Item{
		id:     c.nextID,
		kind:   kind,
		canvas: c,
	}
	c.nextID++

	if kind.IsEdge() {
		it.handles = []*Handle{
			{owner: it, connectedPort: -1},
			{owner: it, connectedPort: -1},
		}
	}
	nports := 1
	if kind == InterfaceItem {
		nports = 4
		it.folding = FoldingProvided
	}
	for i := 0; i < nports; i++ {
		it.ports = append(it.ports, &Port{Connectable: true})
	}

	c.items[it.id] = it
	c.order = append(c.order, it.id)
	return it
}

// Item resolves an item ID, returning nil for the zero value or an ID that
// has been removed.
func (c *Canvas) Item(id ItemID) *Item {
	if id == 0 {
		return nil
	}
	return c.items[id]
}

// Items returns every live item in insertion order.
func (c *Canvas) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, id := range c.order {
		if it, ok := c.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Remove deletes an item from the canvas, releasing its subject binding and
// detaching its own handles. Handles of other items pointing at the removed
// item become stale references that resolve to nil.
func (c *Canvas) Remove(it *Item) {
	if it == nil || c.items[it.id] != it {
		return
	}
	for _, h := range it.handles {
		h.Detach()
	}
	it.SetSubject(nil)
	delete(c.items, it.id)
}

// Attached resolves the item a handle is attached to, or nil.
func (c *Canvas) Attached(h *Handle) *Item {
	return c.Item(h.ConnectedTo())
}

// ConnectedItems returns the (edge item, handle) pairs currently attached to
// it, in item insertion order. Both ends of a self-loop edge appear as
// separate attachments.
func (c *Canvas) ConnectedItems(it *Item) []Attachment {
	var out []Attachment
	for _, other := range c.Items() {
		if other == it {
			continue
		}
		for _, h := range other.Handles() {
			if h.ConnectedTo() == it.id {
				out = append(out, Attachment{Item: other, Handle: h})
			}
		}
	}
	return out
}
