package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/editor"
	"github.com/milk9111/tileforge/grid"
	"github.com/milk9111/tileforge/tileset"
)

const (
	toolbarHeight = 48
	layerPanelW   = 200
	paletteW      = 240
)

var (
	gridLineColor = color.RGBA{60, 60, 70, 255}
	missingColor  = color.RGBA{255, 0, 255, 160}
	invalidColor  = color.RGBA{120, 30, 30, 255}
	selectColor   = color.RGBA{255, 220, 0, 200}
)

// Canvas is the ebiten side of the editor view. Cell content arrives only
// through SetCells and SetCell.
type Canvas struct {
	layers   []*grid.Layer
	cells    []map[grid.CellKey]grid.Cell
	selected *grid.Layer
	tile     grid.TileSelection

	pos  editor.Vec2
	zoom float64

	sheet       *ebiten.Image
	sheetBounds image.Rectangle
	tileW       int
	tileH       int
	margin      int
	spacing     int

	dirty bool
	valid bool

	width, height int
	pixel         *ebiten.Image

	onLayers func(layers []*grid.Layer, selected int)
}

func NewCanvas() *Canvas {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Canvas{
		tile:  grid.NoSelection,
		zoom:  1,
		valid: true,
		pixel: pixel,
	}
}

func (c *Canvas) SetCells(layer int, cells map[grid.CellKey]grid.Cell) {
	if layer < 0 || layer >= len(c.cells) {
		return
	}
	c.cells[layer] = cells
}

func (c *Canvas) SetCell(layer int, key grid.CellKey, cell *grid.Cell) {
	if layer < 0 || layer >= len(c.cells) {
		return
	}
	if cell == nil {
		delete(c.cells[layer], key)
		return
	}
	if c.cells[layer] == nil {
		c.cells[layer] = make(map[grid.CellKey]grid.Cell)
	}
	c.cells[layer][key] = *cell
}

func (c *Canvas) SetLayers(layers []*grid.Layer) {
	c.layers = layers
	c.cells = make([]map[grid.CellKey]grid.Cell, len(layers))
	c.layersChanged()
}

func (c *Canvas) SetSelectedLayer(layer *grid.Layer) {
	c.selected = layer
	c.layersChanged()
}

func (c *Canvas) layersChanged() {
	if c.onLayers == nil {
		return
	}
	idx := -1
	for i, l := range c.layers {
		if l == c.selected {
			idx = i
		}
	}
	c.onLayers(c.layers, idx)
}

func (c *Canvas) SetSelectedTile(tile int, hFlip, vFlip bool) {
	c.tile = grid.TileSelection{Tile: tile, HFlip: hFlip, VFlip: vFlip}
}

func (c *Canvas) SetPreview(pos editor.Vec2, zoom float64) {
	c.pos = pos
	c.zoom = zoom
}

func (c *Canvas) SetTileSet(img image.Image, tileWidth, tileHeight, margin, spacing int) {
	c.sheet = nil
	c.sheetBounds = image.Rectangle{}
	if img != nil {
		c.sheet = ebiten.NewImageFromImage(img)
		c.sheetBounds = c.sheet.Bounds()
	}
	c.tileW, c.tileH = tileWidth, tileHeight
	c.margin, c.spacing = margin, spacing
}

func (c *Canvas) SetDirty(dirty bool) {
	c.dirty = dirty
}

func (c *Canvas) SetValidModel(valid bool) {
	c.valid = valid
}

// RefreshProperties is a no-op: the canvas has no property panel and the
// status line is redrawn every frame.
func (c *Canvas) RefreshProperties() {}

func (c *Canvas) PreviewViewportSize() (int, int) {
	r := c.previewRect()
	return r.Dx(), r.Dy()
}

func (c *Canvas) resize(w, h int) {
	c.width, c.height = w, h
}

func (c *Canvas) previewRect() image.Rectangle {
	return image.Rect(layerPanelW, toolbarHeight, max(layerPanelW, c.width-paletteW), max(toolbarHeight, c.height))
}

func (c *Canvas) paletteRect() image.Rectangle {
	return image.Rect(max(0, c.width-paletteW), toolbarHeight, c.width, c.height)
}

// toScreen maps preview space, y up, to screen pixels.
func (c *Canvas) toScreen(x, y float64) (float64, float64) {
	r := c.previewRect()
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	return (x-c.pos.X)*c.zoom + cx, cy - (y-c.pos.Y)*c.zoom
}

// cellAt returns the grid cell under a screen position.
func (c *Canvas) cellAt(sx, sy int) (int, int, bool) {
	r := c.previewRect()
	if !image.Pt(sx, sy).In(r) || c.tileW <= 0 || c.tileH <= 0 || c.zoom <= 0 {
		return 0, 0, false
	}
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	wx := (float64(sx)-cx)/c.zoom + c.pos.X
	wy := c.pos.Y - (float64(sy)-cy)/c.zoom
	return int(math.Floor(wx / float64(c.tileW))), int(math.Floor(wy / float64(c.tileH))), true
}

func (c *Canvas) paletteScale() float64 {
	if c.sheet == nil || c.sheetBounds.Dx() == 0 {
		return 1
	}
	return math.Min(1, float64(paletteW-16)/float64(c.sheetBounds.Dx()))
}

// tileAt returns the tile under a screen position inside the palette.
func (c *Canvas) tileAt(sx, sy int) (int, bool) {
	pr := c.paletteRect()
	if c.sheet == nil || !image.Pt(sx, sy).In(pr) {
		return 0, false
	}
	s := c.paletteScale()
	p := image.Pt(
		c.sheetBounds.Min.X+int(float64(sx-pr.Min.X-8)/s),
		c.sheetBounds.Min.Y+int(float64(sy-pr.Min.Y-8)/s),
	)
	for i := 0; ; i++ {
		r, ok := tileset.TileRect(c.sheetBounds, i, c.tileW, c.tileH, c.margin, c.spacing)
		if !ok {
			return 0, false
		}
		if p.In(r) {
			return i, true
		}
	}
}

func (c *Canvas) fillRect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(c.pixel, op)
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	pr := c.previewRect()
	preview := screen.SubImage(pr).(*ebiten.Image)
	if !c.valid {
		preview.Fill(invalidColor)
	}
	c.drawAxes(preview)
	for i, l := range c.layers {
		if !l.Visible || i >= len(c.cells) {
			continue
		}
		for k, cell := range c.cells[i] {
			c.drawCell(preview, k, cell)
		}
	}
	c.drawPalette(screen.SubImage(c.paletteRect()).(*ebiten.Image))
}

func (c *Canvas) drawAxes(dst *ebiten.Image) {
	r := dst.Bounds()
	ox, oy := c.toScreen(0, 0)
	c.fillRect(dst, float64(r.Min.X), oy, float64(r.Dx()), 1, gridLineColor)
	c.fillRect(dst, ox, float64(r.Min.Y), 1, float64(r.Dy()), gridLineColor)
}

func (c *Canvas) drawCell(dst *ebiten.Image, k grid.CellKey, cell grid.Cell) {
	if c.tileW <= 0 || c.tileH <= 0 {
		return
	}
	tw, th := float64(c.tileW), float64(c.tileH)
	sx, sy := c.toScreen(float64(k.X())*tw, float64(k.Y()+1)*th)

	var src *ebiten.Image
	if c.sheet != nil {
		if r, ok := tileset.TileRect(c.sheetBounds, cell.Tile, c.tileW, c.tileH, c.margin, c.spacing); ok {
			src = c.sheet.SubImage(r).(*ebiten.Image)
		}
	}
	if src == nil {
		c.fillRect(dst, sx, sy, tw*c.zoom, th*c.zoom, missingColor)
		return
	}
	op := &ebiten.DrawImageOptions{}
	if cell.HFlip {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(tw, 0)
	}
	if cell.VFlip {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, th)
	}
	op.GeoM.Scale(c.zoom, c.zoom)
	op.GeoM.Translate(sx, sy)
	dst.DrawImage(src, op)
}

func (c *Canvas) drawPalette(dst *ebiten.Image) {
	if c.sheet == nil {
		return
	}
	r := dst.Bounds()
	s := c.paletteScale()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(r.Min.X+8), float64(r.Min.Y+8))
	dst.DrawImage(c.sheet, op)

	tr, ok := tileset.TileRect(c.sheetBounds, c.tile.Tile, c.tileW, c.tileH, c.margin, c.spacing)
	if !ok {
		return
	}
	x := float64(r.Min.X+8) + float64(tr.Min.X-c.sheetBounds.Min.X)*s
	y := float64(r.Min.Y+8) + float64(tr.Min.Y-c.sheetBounds.Min.Y)*s
	w, h := float64(tr.Dx())*s, float64(tr.Dy())*s
	c.fillRect(dst, x, y, w, 2, selectColor)
	c.fillRect(dst, x, y+h-2, w, 2, selectColor)
	c.fillRect(dst, x, y, 2, h, selectColor)
	c.fillRect(dst, x+w-2, y, 2, h, selectColor)
}
