package grid

// Cell is a single tile placement. An empty cell is represented by the
// absence of a key in a layer, never by a zero Cell.
type Cell struct {
	Tile  int  `json:"tile"`
	HFlip bool `json:"h_flip,omitempty"`
	VFlip bool `json:"v_flip,omitempty"`
}

// CellKey packs a signed (x, y) cell coordinate into one map key.
type CellKey uint64

// KeyOf returns the key for cell (x, y).
func KeyOf(x, y int32) CellKey {
	return CellKey(uint64(uint32(x))<<32 | uint64(uint32(y)))
}

// X returns the x coordinate encoded in k.
func (k CellKey) X() int32 {
	return int32(uint32(k >> 32))
}

// Y returns the y coordinate encoded in k.
func (k CellKey) Y() int32 {
	return int32(uint32(k))
}

// TileSelection is the tile currently armed for painting.
type TileSelection struct {
	Tile  int
	HFlip bool
	VFlip bool
}

// NoSelection paints empty cells.
var NoSelection = TileSelection{Tile: -1}

// Cell returns the cell this selection paints, or false when painting erases.
func (s TileSelection) Cell() (Cell, bool) {
	if s.Tile < 0 {
		return Cell{}, false
	}
	return Cell{Tile: s.Tile, HFlip: s.HFlip, VFlip: s.VFlip}, true
}

func cellPtr(c Cell, ok bool) *Cell {
	if !ok {
		return nil
	}
	return &c
}

func sameCell(a, b *Cell) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
