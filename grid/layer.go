package grid

import (
	"maps"

	"github.com/google/uuid"
)

// Layer is one named sparse grid of cells within a document.
type Layer struct {
	ID      uuid.UUID
	Name    string
	Visible bool

	cells map[CellKey]Cell
	doc   *Document
}

// NewLayer returns an empty visible layer with a fresh identity.
func NewLayer(name string) *Layer {
	return &Layer{
		ID:      uuid.New(),
		Name:    name,
		Visible: true,
		cells:   make(map[CellKey]Cell),
	}
}

// Cell returns the cell at key, if any.
func (l *Layer) Cell(key CellKey) (Cell, bool) {
	if l == nil {
		return Cell{}, false
	}
	c, ok := l.cells[key]
	return c, ok
}

// SetCell writes c at key; a nil c clears the cell.
func (l *Layer) SetCell(key CellKey, c *Cell) {
	if l == nil {
		return
	}
	if sameCell(cellPtr(l.Cell(key)), c) {
		return
	}
	if c == nil {
		delete(l.cells, key)
	} else {
		l.cells[key] = *c
	}
	l.changed(key, c)
}

// Cells returns a copy of the layer's cell map.
func (l *Layer) Cells() map[CellKey]Cell {
	if l == nil {
		return nil
	}
	return maps.Clone(l.cells)
}

// Len returns the number of occupied cells.
func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.cells)
}

func (l *Layer) changed(key CellKey, c *Cell) {
	if l.doc == nil {
		return
	}
	if c != nil {
		v := *c
		c = &v
	}
	l.doc.emit(ChangeEvent{
		Source:     SourceLayer,
		LayerIndex: l.doc.IndexOf(l),
		Field:      FieldCell,
		Key:        key,
		Cell:       c,
	})
}
