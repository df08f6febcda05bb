package view

// Surface is the tree-mutation API a Renderer drives.
type Surface interface {
	// Clear removes every card and the placeholder.
	Clear()
	// ShowPlaceholder replaces the whole list area with text.
	ShowPlaceholder(text string)
	// Append adds a card after the existing ones.
	Append(row Row)
	// Replace updates the card with row.ID in place. It reports whether one existed.
	Replace(row Row) bool
	// Remove drops the card with id. It reports whether one existed.
	Remove(id string) bool
}

// Document is an in-process Surface: an ordered list of cards or a placeholder.
// The HTML page and the terminal UI both draw from it.
type Document struct {
	cards       []*Card
	placeholder string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) Clear() {
	for _, c := range d.cards {
		c.State = Removed
	}
	d.cards = nil
	d.placeholder = ""
}

func (d *Document) ShowPlaceholder(text string) {
	d.Clear()
	d.placeholder = text
}

func (d *Document) Append(row Row) {
	c := &Card{Row: row}
	_ = c.Show()
	d.cards = append(d.cards, c)
}

// Replace keeps the card's state, so an open edit form survives a refresh.
func (d *Document) Replace(row Row) bool {
	c, ok := d.Card(row.ID)
	if !ok {
		return false
	}
	c.Row = row
	if c.State == Editing && !row.CanEdit {
		_ = c.Cancel()
	}
	return true
}

func (d *Document) Remove(id string) bool {
	for i, c := range d.cards {
		if c.Row.ID == id {
			c.State = Removed
			c.Draft = ""
			d.cards = append(d.cards[:i:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Card returns the card for id.
func (d *Document) Card(id string) (*Card, bool) {
	for _, c := range d.cards {
		if c.Row.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Cards returns the cards in display order.
func (d *Document) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Rows returns the rows of the displayed cards in order.
func (d *Document) Rows() []Row {
	rows := make([]Row, len(d.cards))
	for i, c := range d.cards {
		rows[i] = c.Row
	}
	return rows
}

// Placeholder returns the placeholder text and whether it is showing.
func (d *Document) Placeholder() (string, bool) {
	return d.placeholder, d.placeholder != ""
}

// Editing returns the card whose edit form is open, if any.
func (d *Document) Editing() (*Card, bool) {
	for _, c := range d.cards {
		if c.State == Editing {
			return c, true
		}
	}
	return nil, false
}
