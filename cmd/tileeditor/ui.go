package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tileforge/grid"
	"golang.org/x/image/font/gofont/goregular"
)

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            color.RGBA{0, 0, 128, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{200, 220, 255, 255},
				SelectedBackground:  color.RGBA{180, 200, 255, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{220, 220, 220, 255}),
				Mask: solidNineSlice(color.RGBA{220, 220, 220, 255}),
			},
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.Black,
				Hover:    color.Black,
				Pressed:  color.RGBA{0, 0, 200, 255},
				Disabled: color.Gray{Y: 128},
			},
		},
	}
}

// toolbarAction is one toolbar button.
type toolbarAction struct {
	name string
	run  func()
}

// LayerList mirrors the document's layers in an ebitenui list.
type LayerList struct {
	list     *widget.List
	entries  []any
	suppress bool
	onSelect func(l *grid.Layer)
}

type layerEntry struct {
	index int
	layer *grid.Layer
}

func (ll *LayerList) SetLayers(layers []*grid.Layer, selected int) {
	if ll == nil || ll.list == nil {
		return
	}
	ll.suppress = true
	defer func() { ll.suppress = false }()
	ll.entries = make([]any, len(layers))
	for i, l := range layers {
		ll.entries[i] = layerEntry{index: i, layer: l}
	}
	ll.list.SetEntries(ll.entries)
	if selected >= 0 && selected < len(ll.entries) {
		ll.list.SetSelectedEntry(ll.entries[selected])
	}
}

// UI holds the editor chrome around the canvas.
type UI struct {
	*ebitenui.UI
	Layers *LayerList
	status *widget.Text
}

func (u *UI) SetStatus(msg string) {
	u.status.Label = msg
}

func buildUI(actions []toolbarAction, onSelectLayer func(l *grid.Layer)) (*UI, error) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newTheme(&fontFace)
	theme := ui.PrimaryTheme

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Bottom: 4, Left: 8, Right: 8}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)
	for _, a := range actions {
		run := a.run
		toolbar.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(a.name, &fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(56, 36),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				run()
			}),
		))
	}
	status := widget.NewText(
		widget.TextOpts.Text("", &fontFace, color.Black),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	toolbar.AddChild(status)

	layers := &LayerList{onSelect: onSelectLayer}
	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(layerPanelW, 320),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 255})),
	)
	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Layers", &fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	))
	layers.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(layerEntry); ok {
				name := entry.layer.Name
				if !entry.layer.Visible {
					name += " (hidden)"
				}
				return fmt.Sprintf("%d. %s", entry.index+1, name)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(layerEntry)
			if !ok || layers.suppress || layers.onSelect == nil {
				return
			}
			layers.onSelect(entry.layer)
		}),
	)
	panel.AddChild(layers.list)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	toolbar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}
	panel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}
	root.AddChild(panel)
	root.AddChild(toolbar)
	ui.Container = root

	return &UI{UI: ui, Layers: layers, status: status}, nil
}
