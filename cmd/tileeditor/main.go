package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/config"
	"github.com/milk9111/tileforge/editor"
	"github.com/milk9111/tileforge/grid"
	"github.com/milk9111/tileforge/history"
	"github.com/milk9111/tileforge/resource"
	"github.com/milk9111/tileforge/tileset"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	gridPath := flag.String("grid", "", "grid document to open, relative to the resource root")
	dir := flag.String("dir", "", "resource root; overrides assets_dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	root := cfg.AssetsDir
	if *dir != "" {
		root = *dir
	}
	loader, err := resource.NewLoader(root)
	if err != nil {
		logger.Fatal(err)
	}
	defer loader.Close()

	hist := history.New(logger)
	hist.Limit = cfg.UndoLimit
	doc := grid.NewDocument(loader, hist,
		grid.WithLogger(logger),
		grid.WithTileSetOptions(tileset.WithPlaneCount(cfg.PlaneCount)),
	)

	canvas := NewCanvas()
	g := &Game{canvas: canvas, loader: loader, log: logger}
	g.ed = editor.New(doc, canvas, editor.WithLogger(logger), editor.WithZoomFactor(cfg.ZoomFactor))
	g.ed.Attach()
	defer g.ed.Dispose()

	ui, err := buildUI(g.actions(), g.selectLayer)
	if err != nil {
		logger.Fatal(err)
	}
	g.ui = ui
	canvas.onLayers = ui.Layers.SetLayers

	if *gridPath != "" {
		if err := g.Open(*gridPath); err != nil {
			logger.WithError(err).WithField("path", *gridPath).Warn("failed to open grid, starting empty")
		}
	}
	if len(doc.Layers()) == 0 {
		l := grid.NewLayer("layer1")
		doc.InsertLayer(l, 0)
		doc.SetSelectedLayer(l)
	}

	if cfg.Watch {
		w, err := resource.NewWatcher(root)
		if err != nil {
			logger.WithError(err).Warn("file watching disabled")
		} else {
			g.watcher = w
			defer w.Close()
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("Tile Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal(err)
	}
}
