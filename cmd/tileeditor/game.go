package main

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tileforge/editor"
	"github.com/milk9111/tileforge/grid"
	"github.com/milk9111/tileforge/resource"
	"github.com/sirupsen/logrus"
)

const (
	backgroundGray = 24
	// wheelStep converts ebiten wheel units to zoom steps.
	wheelStep = 120
)

// Game runs the editor inside ebiten.
type Game struct {
	ed      *editor.Editor
	canvas  *Canvas
	ui      *UI
	loader  *resource.Loader
	watcher *resource.Watcher
	log     logrus.FieldLogger

	gridPath string
	hFlip    bool
	vFlip    bool

	painting     bool
	panning      bool
	lastX, lastY int
}

// Open loads the grid document at path, relative to the loader root.
func (g *Game) Open(path string) error {
	data, err := g.loader.LoadBytes(path)
	if err != nil {
		return err
	}
	if err := g.ed.Load(bytes.NewReader(data)); err != nil {
		return err
	}
	g.gridPath = path
	return nil
}

func (g *Game) Save() error {
	if g.gridPath == "" {
		g.gridPath = "untitled" + resource.GridExt
	}
	var buf bytes.Buffer
	if err := g.ed.Save(&buf); err != nil {
		return err
	}
	return g.loader.SaveBytes(g.gridPath, buf.Bytes())
}

func (g *Game) actions() []toolbarAction {
	return []toolbarAction{
		{"Add", g.report("add layer", g.ed.AddLayer)},
		{"Remove", g.report("remove layer", g.ed.RemoveLayer)},
		{"Undo", g.report("undo", g.ed.Undo)},
		{"Redo", g.report("redo", g.ed.Redo)},
		{"Frame", g.ed.PreviewFrame},
		{"1:1", g.ed.PreviewResetZoom},
		{"Save", g.report("save", g.Save)},
	}
}

func (g *Game) report(what string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			g.log.WithError(err).Warn(what + " failed")
		}
	}
}

func (g *Game) Update() error {
	g.ui.Update()
	g.pollWatcher()
	g.handleKeys()
	g.handleMouse()
	g.ui.SetStatus(g.status())
	return nil
}

func (g *Game) status() string {
	name := g.gridPath
	if name == "" {
		name = "untitled"
	}
	if g.ed.IsDirty() {
		name += "*"
	}
	cam := g.ed.Camera()
	sel := g.ed.Selection()
	msg := fmt.Sprintf("%s  tile %d  zoom %.2f", filepath.Base(name), sel.Tile, cam.Zoom)
	if sel.HFlip || sel.VFlip || g.hFlip || g.vFlip {
		msg += fmt.Sprintf("  flip h=%v v=%v", g.hFlip, g.vFlip)
	}
	if !g.canvas.valid {
		msg += "  [invalid tile set]"
	}
	return msg
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for _, p := range g.watcher.Drain() {
		rel := g.loader.Rel(p)
		g.loader.Invalidate(rel)
		if err := g.ed.ResourceChanged(rel); err != nil {
			g.log.WithError(err).Warn("resource reload failed")
		}
	}
	select {
	case err := <-g.watcher.Errors:
		g.log.WithError(err).Warn("watcher error")
	default:
	}
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (g *Game) handleKeys() {
	ctrl := ctrlPressed()
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) && ebiten.IsKeyPressed(ebiten.KeyShift),
		ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.report("redo", g.ed.Redo)()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.report("undo", g.ed.Undo)()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.report("save", g.Save)()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.ed.PreviewFrame()
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		g.ed.PreviewResetZoom()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hFlip = !g.hFlip
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.vFlip = !g.vFlip
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if sel := g.ed.Selection(); sel.Tile >= 0 {
			g.ed.SelectTile(sel.Tile, sel.HFlip, sel.VFlip)
		}
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if tile, ok := g.canvas.tileAt(mx, my); ok {
			g.ed.SelectTile(tile, g.hFlip, g.vFlip)
		} else if _, _, ok := g.canvas.cellAt(mx, my); ok {
			if err := g.ed.BeginPaint(); err != nil {
				g.log.WithError(err).Debug("begin paint")
			}
			g.painting = true
		}
	}
	if g.painting && !g.ed.Painting() {
		// a key command closed the stroke mid drag
		g.painting = false
	}
	if g.painting {
		if x, y, ok := g.canvas.cellAt(mx, my); ok {
			g.ed.Paint(x, y)
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			g.painting = false
			g.report("paint", g.ed.EndPaint)()
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if _, _, ok := g.canvas.cellAt(mx, my); ok {
			g.panning = true
			g.lastX, g.lastY = mx, my
		}
	}
	if g.panning {
		if dx, dy := mx-g.lastX, my-g.lastY; dx != 0 || dy != 0 {
			g.ed.PreviewPan(dx, dy)
			g.lastX, g.lastY = mx, my
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
			g.panning = false
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		if _, _, ok := g.canvas.cellAt(mx, my); ok {
			g.ed.PreviewZoom(int(-wy * wheelStep))
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Gray{Y: backgroundGray})
	g.canvas.Draw(screen)
	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.canvas.resize(int(outsideWidth), int(outsideHeight))
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("Layout called; use LayoutF instead")
}

func (g *Game) selectLayer(l *grid.Layer) {
	g.ed.SelectLayer(l)
}
