package grid

import (
	"errors"
	"fmt"
)

var errLayerGone = errors.New("layer no longer in document")

// EditBatch maps each touched cell to its value before the edit; a nil
// value means the cell was empty.
type EditBatch map[CellKey]*Cell

// SetCellsOperation records cells that were already painted on a layer.
type SetCellsOperation struct {
	doc    *Document
	layer  *Layer
	before EditBatch
	after  EditBatch
}

// NewSetCellsOperation captures the current value on layer of every cell
// in before as the redo state.
func NewSetCellsOperation(doc *Document, layer *Layer, before EditBatch) *SetCellsOperation {
	op := &SetCellsOperation{
		doc:    doc,
		layer:  layer,
		before: before,
		after:  make(EditBatch, len(before)),
	}
	for k := range before {
		op.after[k] = cellPtr(op.layer.Cell(k))
	}
	return op
}

func (op *SetCellsOperation) Label() string {
	return "Set Cells"
}

// Execute does nothing: the cells were painted while the batch was built.
func (op *SetCellsOperation) Execute() error {
	return nil
}

func (op *SetCellsOperation) Undo() error {
	return op.apply(op.before)
}

func (op *SetCellsOperation) Redo() error {
	return op.apply(op.after)
}

func (op *SetCellsOperation) apply(batch EditBatch) error {
	if op.doc.IndexOf(op.layer) < 0 {
		return fmt.Errorf("grid: set cells on %q: %w", op.layer.Name, errLayerGone)
	}
	for k, c := range batch {
		op.layer.SetCell(k, c)
	}
	return nil
}

// AddLayerOperation inserts a new layer after the selected one and selects
// it.
type AddLayerOperation struct {
	doc     *Document
	layer   *Layer
	index   int
	prevSel *Layer
}

func NewAddLayerOperation(doc *Document) *AddLayerOperation {
	index := len(doc.layers)
	if i := doc.IndexOf(doc.selected); i >= 0 {
		index = i + 1
	}
	return &AddLayerOperation{
		doc:     doc,
		layer:   NewLayer(fmt.Sprintf("layer%d", len(doc.layers)+1)),
		index:   index,
		prevSel: doc.selected,
	}
}

func (op *AddLayerOperation) Label() string {
	return "Add Layer"
}

func (op *AddLayerOperation) Execute() error {
	op.doc.InsertLayer(op.layer, op.index)
	op.doc.SetSelectedLayer(op.layer)
	return nil
}

func (op *AddLayerOperation) Undo() error {
	op.doc.RemoveLayer(op.doc.IndexOf(op.layer))
	op.doc.SetSelectedLayer(op.prevSel)
	return nil
}

func (op *AddLayerOperation) Redo() error {
	return op.Execute()
}

// RemoveLayerOperation removes the selected layer.
type RemoveLayerOperation struct {
	doc   *Document
	layer *Layer
	index int
}

func NewRemoveLayerOperation(doc *Document) *RemoveLayerOperation {
	return &RemoveLayerOperation{
		doc:   doc,
		layer: doc.selected,
		index: doc.IndexOf(doc.selected),
	}
}

func (op *RemoveLayerOperation) Label() string {
	return "Remove Layer"
}

func (op *RemoveLayerOperation) Execute() error {
	if op.layer == nil || op.index < 0 {
		return errors.New("grid: remove layer: no layer selected")
	}
	op.doc.RemoveLayer(op.index)
	return nil
}

func (op *RemoveLayerOperation) Undo() error {
	op.doc.InsertLayer(op.layer, op.index)
	op.doc.SetSelectedLayer(op.layer)
	return nil
}

func (op *RemoveLayerOperation) Redo() error {
	return op.Execute()
}
