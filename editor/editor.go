package editor

import (
	"fmt"
	"io"
	"math"

	"github.com/milk9111/tileforge/grid"
	"github.com/milk9111/tileforge/history"
	"github.com/milk9111/tileforge/tileset"
	"github.com/sirupsen/logrus"
)

// Editor drives one grid document: it turns view input into document
// edits and document changes into view updates.
type Editor struct {
	doc     *grid.Document
	view    View
	hist    *history.History
	tracker *UndoPositionTracker
	session *PaintSession
	log     logrus.FieldLogger

	selection grid.TileSelection
	camera    Camera
	loading   bool
	disposed  bool
}

type Option func(*Editor)

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Editor) { e.log = log }
}

// WithZoomFactor sets how much one wheel step zooms the preview.
func WithZoomFactor(f float64) Option {
	return func(e *Editor) { e.camera.ZoomFactor = f }
}

// New returns an editor for doc rendering to view. Call Attach before use
// and Dispose when done.
func New(doc *grid.Document, view View, opts ...Option) *Editor {
	e := &Editor{
		doc:       doc,
		view:      view,
		hist:      doc.History(),
		session:   NewPaintSession(doc),
		log:       logrus.StandardLogger(),
		selection: grid.NoSelection,
		camera:    NewCamera(),
	}
	e.tracker = NewUndoPositionTracker(doc.Scope(), view.SetDirty)
	for _, opt := range opts {
		opt(e)
	}
	doc.AddListener(e)
	return e
}

// Attach starts listening to the document's history.
func (e *Editor) Attach() {
	e.tracker.Attach(e.hist)
}

// Dispose detaches from the history and the document. Later calls are
// no-ops.
func (e *Editor) Dispose() {
	if e.disposed {
		return
	}
	e.closeStroke()
	e.disposed = true
	e.tracker.Detach()
	e.doc.RemoveListener(e)
}

func (e *Editor) Document() *grid.Document {
	return e.doc
}

func (e *Editor) Camera() Camera {
	return e.camera
}

func (e *Editor) Selection() grid.TileSelection {
	return e.selection
}

// Painting reports whether a stroke is open.
func (e *Editor) Painting() bool {
	return e.session.Active()
}

func (e *Editor) IsDirty() bool {
	return e.tracker.IsDirty()
}

func (e *Editor) UndoPosition() int {
	return e.tracker.Position()
}

// Refresh pushes the whole document to the view.
func (e *Editor) Refresh() {
	if e.disposed {
		return
	}
	e.view.SetLayers(e.doc.Layers())
	for i, l := range e.doc.Layers() {
		e.view.SetCells(i, l.Cells())
	}
	e.view.SetSelectedLayer(e.doc.SelectedLayer())
	e.view.RefreshProperties()
	e.view.SetValidModel(e.doc.IsValid())
	e.camera.Position = Vec2{}
	e.camera.Zoom = 1
	e.view.SetPreview(e.camera.Position, e.camera.Zoom)
	e.pushTileSet()
}

// DocumentChanged forwards a document change to the view.
func (e *Editor) DocumentChanged(evt grid.ChangeEvent) {
	if e.loading || e.disposed {
		return
	}
	e.view.SetValidModel(e.doc.IsValid())
	e.view.RefreshProperties()
	if evt.Field == grid.FieldStatus {
		return
	}
	switch evt.Source {
	case grid.SourceDocument:
		switch evt.Field {
		case grid.FieldTileSet:
			e.pushTileSet()
		case grid.FieldLayers:
			e.view.SetLayers(evt.Layers)
			for i, l := range evt.Layers {
				e.view.SetCells(i, l.Cells())
			}
		case grid.FieldSelectedLayer:
			e.view.SetSelectedLayer(evt.Layer)
		}
	case grid.SourceLayer:
		if evt.Field == grid.FieldCell {
			e.view.SetCell(evt.LayerIndex, evt.Key, evt.Cell)
		}
	}
}

func (e *Editor) pushTileSet() {
	ts := e.doc.TileSet()
	if ts == nil || ts.Validate().Severity >= tileset.Error {
		e.view.SetTileSet(nil, 0, 0, 0, 0)
		return
	}
	p := ts.Params()
	e.view.SetTileSet(ts.Image(), p.TileWidth, p.TileHeight, p.TileMargin, p.TileSpacing)
}

// SelectTile arms tile for painting. Selecting the armed tile again
// disarms it.
func (e *Editor) SelectTile(tile int, hFlip, vFlip bool) {
	if e.selection.Tile == tile {
		tile = -1
	}
	e.selection = grid.TileSelection{Tile: tile, HFlip: hFlip, VFlip: vFlip}
	e.view.SetSelectedTile(tile, hFlip, vFlip)
}

// SelectLayer selects l. An open stroke is closed first.
func (e *Editor) SelectLayer(l *grid.Layer) {
	e.closeStroke()
	e.doc.SetSelectedLayer(l)
}

func (e *Editor) AddLayer() error {
	if err := e.EndPaint(); err != nil {
		return err
	}
	return e.doc.Execute(grid.NewAddLayerOperation(e.doc))
}

// RemoveLayer removes the selected layer. Without a selection it does
// nothing.
func (e *Editor) RemoveLayer() error {
	if err := e.EndPaint(); err != nil {
		return err
	}
	if e.doc.SelectedLayer() == nil {
		return nil
	}
	return e.doc.Execute(grid.NewRemoveLayerOperation(e.doc))
}

// BeginPaint opens a stroke. A second call before EndPaint is reported
// and ignored.
func (e *Editor) BeginPaint() error {
	if e.disposed {
		return nil
	}
	return e.session.Begin()
}

// Paint paints cell (x, y) of the stroke's layer with the armed tile, or
// erases it when no tile is armed. The view hears about it through the
// layer's change event.
func (e *Editor) Paint(x, y int) {
	if e.disposed {
		return
	}
	e.session.Paint(int32(x), int32(y), e.selection)
}

// EndPaint closes the stroke and records it as one undoable edit of the
// layer it painted. Without an open stroke it does nothing.
func (e *Editor) EndPaint() error {
	layer, batch := e.session.End()
	if batch == nil || e.disposed || e.doc.IndexOf(layer) < 0 {
		return nil
	}
	return e.doc.Execute(grid.NewSetCellsOperation(e.doc, layer, batch))
}

func (e *Editor) closeStroke() {
	if err := e.EndPaint(); err != nil {
		e.log.WithError(err).Warn("editor: closing stroke failed")
	}
}

// Undo reverts the last edit. An open stroke is recorded first, so it is
// the edit that gets reverted.
func (e *Editor) Undo() error {
	if err := e.EndPaint(); err != nil {
		return err
	}
	return e.hist.Undo(e.doc.Scope())
}

func (e *Editor) Redo() error {
	if err := e.EndPaint(); err != nil {
		return err
	}
	return e.hist.Redo(e.doc.Scope())
}

// Load replaces the document from r without recording any edits, then
// marks it clean and refreshes the view.
func (e *Editor) Load(r io.Reader) error {
	e.closeStroke()
	e.loading = true
	err := e.doc.Load(r)
	e.loading = false
	if err != nil {
		return fmt.Errorf("editor: load: %w", err)
	}
	e.tracker.Reset()
	e.Refresh()
	return nil
}

// Save writes the document to w and marks it clean.
func (e *Editor) Save(w io.Writer) error {
	if err := e.EndPaint(); err != nil {
		return err
	}
	if err := e.doc.Save(w); err != nil {
		return fmt.Errorf("editor: save: %w", err)
	}
	e.tracker.Reset()
	return nil
}

// ResourceChanged refreshes the view when the document depends on path.
func (e *Editor) ResourceChanged(path string) error {
	refresh, err := e.doc.HandleResourceChanged(path)
	if err != nil {
		return fmt.Errorf("editor: resource %s: %w", path, err)
	}
	if refresh {
		e.log.WithField("path", path).Info("resource changed, refreshing")
		e.Refresh()
	}
	return nil
}

func (e *Editor) PreviewPan(dx, dy int) {
	e.camera.Pan(dx, dy)
	e.view.SetPreview(e.camera.Position, e.camera.Zoom)
}

func (e *Editor) PreviewZoom(delta int) {
	e.camera.ZoomBy(delta)
	e.view.SetPreview(e.camera.Position, e.camera.Zoom)
}

// PreviewFrame fits every occupied cell of every layer into the viewport.
func (e *Editor) PreviewFrame() {
	ts := e.doc.TileSet()
	if ts == nil {
		return
	}
	p := ts.Params()
	b, ok := contentBounds(e.doc.Layers(), float64(p.TileWidth), float64(p.TileHeight))
	if !ok {
		return
	}
	w, h := e.view.PreviewViewportSize()
	if e.camera.Frame(b, w, h) {
		e.view.SetPreview(e.camera.Position, e.camera.Zoom)
	}
}

func (e *Editor) PreviewResetZoom() {
	if e.camera.ResetZoom() {
		e.view.SetPreview(e.camera.Position, e.camera.Zoom)
	}
}

func contentBounds(layers []*grid.Layer, tileW, tileH float64) (Bounds, bool) {
	b := Bounds{
		Min: Vec2{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vec2{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	found := false
	for _, l := range layers {
		for k := range l.Cells() {
			x, y := float64(k.X())*tileW, float64(k.Y())*tileH
			b.Min.X = math.Min(b.Min.X, x)
			b.Min.Y = math.Min(b.Min.Y, y)
			b.Max.X = math.Max(b.Max.X, x+tileW)
			b.Max.Y = math.Max(b.Max.Y, y+tileH)
			found = true
		}
	}
	return b, found
}
