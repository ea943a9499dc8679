package editor

import (
	"errors"

	"github.com/milk9111/tileforge/grid"
)

// ErrPaintInProgress is returned by Begin while a stroke is still open.
var ErrPaintInProgress = errors.New("editor: paint already in progress")

// PaintSession coalesces the cells painted during one stroke into a single
// edit batch holding each cell's value from before the stroke. A stroke
// paints the layer that was selected when it began.
type PaintSession struct {
	doc   *grid.Document
	layer *grid.Layer
	batch grid.EditBatch
}

func NewPaintSession(doc *grid.Document) *PaintSession {
	return &PaintSession{doc: doc}
}

// Active reports whether a stroke is open.
func (s *PaintSession) Active() bool {
	return s.batch != nil
}

// Layer returns the layer the open stroke paints, nil when idle.
func (s *PaintSession) Layer() *grid.Layer {
	return s.layer
}

// Begin opens a stroke on the selected layer. An open stroke is left
// untouched.
func (s *PaintSession) Begin() error {
	if s.batch != nil {
		return ErrPaintInProgress
	}
	s.layer = s.doc.SelectedLayer()
	s.batch = make(grid.EditBatch)
	return nil
}

// Paint writes the cell implied by sel at (x, y) on the stroke's layer.
// It reports whether the cell changed. Without an open stroke, or once the
// layer has left the document, it does nothing.
func (s *PaintSession) Paint(x, y int32, sel grid.TileSelection) bool {
	if s.batch == nil || s.doc.IndexOf(s.layer) < 0 {
		return false
	}
	key := grid.KeyOf(x, y)
	next, paint := sel.Cell()
	prev, had := s.layer.Cell(key)
	if paint == had && (!paint || next == prev) {
		return false
	}
	if paint {
		s.layer.SetCell(key, &next)
	} else {
		s.layer.SetCell(key, nil)
	}
	if _, seen := s.batch[key]; !seen {
		if had {
			s.batch[key] = &prev
		} else {
			s.batch[key] = nil
		}
	}
	return true
}

// End closes the stroke and returns its layer and batch. The batch is nil
// when nothing changed.
func (s *PaintSession) End() (*grid.Layer, grid.EditBatch) {
	layer, batch := s.layer, s.batch
	s.layer, s.batch = nil, nil
	if len(batch) == 0 {
		return layer, nil
	}
	return layer, batch
}
