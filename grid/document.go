package grid

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/milk9111/tileforge/history"
	"github.com/milk9111/tileforge/tileset"
	"github.com/sirupsen/logrus"
)

// Loader resolves the resources a grid document refers to.
type Loader interface {
	tileset.ImageLoader
	LoadBytes(path string) ([]byte, error)
}

// Document is a grid of layers painted with tiles from one tile set. It is
// the single source of truth for cell content.
type Document struct {
	layers   []*Layer
	selected *Layer

	tileSetPath string
	tileSet     *tileset.TileSet

	loader    Loader
	history   *history.History
	scope     history.Scope
	listeners []Listener
	log       logrus.FieldLogger

	tileSetOpts []tileset.Option
}

type Option func(*Document)

func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Document) { d.log = log }
}

// WithTileSetOptions configures tile sets loaded by the document.
func WithTileSetOptions(opts ...tileset.Option) Option {
	return func(d *Document) { d.tileSetOpts = append(d.tileSetOpts, opts...) }
}

// NewDocument returns an empty document whose edits are recorded in hist
// under a scope of its own.
func NewDocument(loader Loader, hist *history.History, opts ...Option) *Document {
	d := &Document{
		loader:  loader,
		history: hist,
		scope:   history.NewScope("grid"),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Scope is the undo context of this document's operations.
func (d *Document) Scope() history.Scope {
	return d.scope
}

func (d *Document) History() *history.History {
	return d.history
}

func (d *Document) AddListener(l Listener) {
	if l == nil || slices.Contains(d.listeners, l) {
		return
	}
	d.listeners = append(d.listeners, l)
}

func (d *Document) RemoveListener(l Listener) {
	if i := slices.Index(d.listeners, l); i >= 0 {
		d.listeners = slices.Delete(d.listeners, i, i+1)
	}
}

func (d *Document) emit(evt ChangeEvent) {
	for _, l := range slices.Clone(d.listeners) {
		l.DocumentChanged(evt)
	}
}

// Layers returns the layer sequence in draw order.
func (d *Document) Layers() []*Layer {
	return slices.Clone(d.layers)
}

// IndexOf returns the position of l, or -1.
func (d *Document) IndexOf(l *Layer) int {
	if l == nil {
		return -1
	}
	return slices.Index(d.layers, l)
}

func (d *Document) SelectedLayer() *Layer {
	return d.selected
}

// SetSelectedLayer selects l. Layers that are not part of the document are
// ignored.
func (d *Document) SetSelectedLayer(l *Layer) {
	if l != nil && d.IndexOf(l) < 0 {
		return
	}
	if d.selected == l {
		return
	}
	d.selected = l
	d.emit(ChangeEvent{Source: SourceDocument, Field: FieldSelectedLayer, Layer: l})
}

// InsertLayer inserts l at index, clamped to the layer range.
func (d *Document) InsertLayer(l *Layer, index int) {
	if l == nil || d.IndexOf(l) >= 0 {
		return
	}
	index = max(0, min(index, len(d.layers)))
	if l.cells == nil {
		l.cells = make(map[CellKey]Cell)
	}
	l.doc = d
	d.layers = slices.Insert(d.layers, index, l)
	d.emitLayers()
}

// RemoveLayer removes the layer at index. When it was selected the
// selection moves to the layer that took its place, or the one before it.
func (d *Document) RemoveLayer(index int) *Layer {
	if index < 0 || index >= len(d.layers) {
		return nil
	}
	l := d.layers[index]
	d.layers = slices.Delete(d.layers, index, index+1)
	l.doc = nil
	if d.selected == l {
		var next *Layer
		if len(d.layers) > 0 {
			next = d.layers[min(index, len(d.layers)-1)]
		}
		d.selected = next
		d.emit(ChangeEvent{Source: SourceDocument, Field: FieldSelectedLayer, Layer: next})
	}
	d.emitLayers()
	return l
}

func (d *Document) emitLayers() {
	d.emit(ChangeEvent{Source: SourceDocument, Field: FieldLayers, Layers: d.Layers()})
}

// Cell returns the cell at key on the selected layer.
func (d *Document) Cell(key CellKey) (Cell, bool) {
	return d.selected.Cell(key)
}

// SetCell writes c at key on the selected layer; nil clears.
func (d *Document) SetCell(key CellKey, c *Cell) {
	d.selected.SetCell(key, c)
}

// Execute records op in the document's undo scope.
func (d *Document) Execute(op history.Operation) error {
	if d.history == nil {
		return op.Execute()
	}
	return d.history.Submit(op, d.scope)
}

func (d *Document) TileSetPath() string {
	return d.tileSetPath
}

// TileSet returns the loaded tile set, nil when unset or unreadable.
func (d *Document) TileSet() *tileset.TileSet {
	return d.tileSet
}

// SetTileSet points the document at the tile set document stored at path.
func (d *Document) SetTileSet(path string) {
	if d.tileSetPath == path && d.tileSet != nil {
		return
	}
	d.tileSetPath = path
	d.reloadTileSet()
	d.emitTileSet()
}

// emitTileSet announces a tile set change followed by its validation
// status.
func (d *Document) emitTileSet() {
	d.emit(ChangeEvent{Source: SourceDocument, Field: FieldTileSet})
	if d.tileSet != nil {
		d.emit(ChangeEvent{Source: SourceDocument, Field: FieldStatus, Status: d.tileSet.Validate()})
	}
}

func (d *Document) reloadTileSet() {
	d.tileSet = nil
	if d.tileSetPath == "" || d.loader == nil {
		return
	}
	data, err := d.loader.LoadBytes(d.tileSetPath)
	if err != nil {
		d.log.WithError(err).WithField("path", d.tileSetPath).Warn("grid: tile set load failed")
		return
	}
	ts := tileset.New(d.loader, append([]tileset.Option{tileset.WithLogger(d.log)}, d.tileSetOpts...)...)
	if err := ts.Load(bytes.NewReader(data)); err != nil {
		d.log.WithError(err).WithField("path", d.tileSetPath).Warn("grid: tile set decode failed")
		return
	}
	d.tileSet = ts
}

// IsValid reports whether the document can be rendered: either it uses no
// tile set or its tile set loaded without errors.
func (d *Document) IsValid() bool {
	if d.tileSetPath == "" {
		return true
	}
	if d.tileSet == nil {
		return false
	}
	return d.tileSet.Validate().Severity < tileset.Error
}

// HandleResourceChanged reloads whatever depends on path and reports
// whether anything did.
func (d *Document) HandleResourceChanged(path string) (bool, error) {
	if d.tileSetPath == "" {
		return false, nil
	}
	if samePath(path, d.tileSetPath) {
		d.reloadTileSet()
		d.emitTileSet()
		return true, nil
	}
	if d.tileSet == nil {
		return false, nil
	}
	p := d.tileSet.Params()
	for _, dep := range []string{p.Image, p.Collision} {
		if dep != "" && samePath(path, dep) {
			if !d.tileSet.HandleReload(dep) {
				return false, fmt.Errorf("grid: reload %s: tile set did not take it", dep)
			}
			d.emitTileSet()
			return true, nil
		}
	}
	return false, nil
}

func samePath(a, b string) bool {
	return filepath.Clean(filepath.ToSlash(a)) == filepath.Clean(filepath.ToSlash(b))
}
