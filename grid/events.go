package grid

import "github.com/milk9111/tileforge/tileset"

// Source identifies what part of a document changed.
type Source int

const (
	SourceDocument Source = iota
	SourceLayer
)

// Field identifies which property of the source changed.
type Field int

const (
	FieldTileSet Field = iota
	FieldLayers
	FieldSelectedLayer
	FieldCell
	FieldStatus
)

func (f Field) String() string {
	switch f {
	case FieldTileSet:
		return "tileSet"
	case FieldLayers:
		return "layers"
	case FieldSelectedLayer:
		return "selectedLayer"
	case FieldCell:
		return "cell"
	case FieldStatus:
		return "status"
	default:
		return "unknown"
	}
}

// ChangeEvent describes one property change. Only the payload matching
// Field is set.
type ChangeEvent struct {
	Source     Source
	LayerIndex int // SourceLayer only
	Field      Field

	Layers []*Layer         // FieldLayers
	Layer  *Layer           // FieldSelectedLayer
	Key    CellKey          // FieldCell
	Cell   *Cell            // FieldCell, nil when cleared
	Status tileset.Status   // FieldStatus
}

// Listener receives document change events.
type Listener interface {
	DocumentChanged(evt ChangeEvent)
}
