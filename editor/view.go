package editor

import (
	"image"

	"github.com/milk9111/tileforge/grid"
)

// View is the rendering surface the editor drives.
type View interface {
	SetCells(layer int, cells map[grid.CellKey]grid.Cell)
	SetCell(layer int, key grid.CellKey, cell *grid.Cell)
	SetLayers(layers []*grid.Layer)
	SetSelectedLayer(layer *grid.Layer)
	SetSelectedTile(tile int, hFlip, vFlip bool)
	SetPreview(pos Vec2, zoom float64)
	SetTileSet(img image.Image, tileWidth, tileHeight, margin, spacing int)
	SetDirty(dirty bool)
	SetValidModel(valid bool)
	RefreshProperties()
	PreviewViewportSize() (w, h int)
}
