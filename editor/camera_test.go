package editor

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCameraFrame(t *testing.T) {
	cases := []struct {
		name     string
		b        Bounds
		vw, vh   int
		wantZoom float64
		wantPos  Vec2
		wantOK   bool
	}{
		{"wide_box", Bounds{Max: Vec2{1000, 500}}, 800, 600, 0.64, Vec2{500, 250}, true},
		{"tall_box", Bounds{Min: Vec2{-10, -10}, Max: Vec2{10, 290}}, 800, 600, 1.6, Vec2{0, 140}, true},
		{"empty", Bounds{Min: Vec2{5, 5}, Max: Vec2{5, 5}}, 800, 600, 1, Vec2{}, false},
		{"zero_viewport", Bounds{Max: Vec2{1000, 500}}, 0, 0, 1, Vec2{}, false},
		{"zero_width_viewport", Bounds{Max: Vec2{1000, 500}}, 0, 600, 1, Vec2{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := NewCamera()
			ok := cam.Frame(c.b, c.vw, c.vh)
			if ok != c.wantOK {
				t.Fatalf("expected ok=%v", c.wantOK)
			}
			if !near(cam.Zoom, c.wantZoom) || cam.Position != c.wantPos {
				t.Fatalf("expected zoom %v at %+v, got %v at %+v", c.wantZoom, c.wantPos, cam.Zoom, cam.Position)
			}
		})
	}
}

func TestCameraPanAfterZeroViewportFrame(t *testing.T) {
	cam := NewCamera()
	cam.Frame(Bounds{Max: Vec2{1000, 500}}, 0, 0)
	cam.Pan(5, 5)
	cam.ResetZoom()
	if math.IsInf(cam.Position.X, 0) || math.IsInf(cam.Position.Y, 0) || cam.Zoom != 1 {
		t.Fatalf("camera should stay finite, got zoom %v at %+v", cam.Zoom, cam.Position)
	}
	if cam.Position != (Vec2{X: -5, Y: 5}) {
		t.Fatalf("expected pan at zoom 1, got %+v", cam.Position)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera()
	cam.ZoomBy(-120)
	if !near(cam.Zoom, 1.6) {
		t.Fatalf("expected additive step to 1.6, got %v", cam.Zoom)
	}
	cam.ZoomBy(120)
	// above 1 the step scales with zoom, so the same delta does not undo it
	if !near(cam.Zoom, 0.64) {
		t.Fatalf("expected proportional step to 0.64, got %v", cam.Zoom)
	}
	cam.ZoomBy(100000)
	if cam.Zoom != minZoom {
		t.Fatalf("zoom should clamp to %v, got %v", minZoom, cam.Zoom)
	}
}

func TestCameraZoomFactor(t *testing.T) {
	cam := Camera{Zoom: 1, ZoomFactor: 0.001}
	cam.ZoomBy(-100)
	if !near(cam.Zoom, 1.1) {
		t.Fatalf("expected 1.1, got %v", cam.Zoom)
	}
	zero := Camera{Zoom: 1}
	zero.ZoomBy(-100)
	if !near(zero.Zoom, 1.5) {
		t.Fatalf("unset factor should use the default, got %v", zero.Zoom)
	}
}

func TestCameraPan(t *testing.T) {
	cases := []struct {
		name   string
		zoom   float64
		dx, dy int
		want   Vec2
	}{
		{"unit", 1, 10, 20, Vec2{-10, 20}},
		{"zoomed_in", 2, 10, 20, Vec2{-5, 10}},
		{"zoomed_out", 0.5, -4, 4, Vec2{8, 8}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := Camera{Zoom: c.zoom}
			cam.Pan(c.dx, c.dy)
			if cam.Position != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, cam.Position)
			}
		})
	}
}

func TestCameraResetZoom(t *testing.T) {
	cam := NewCamera()
	if cam.ResetZoom() {
		t.Fatalf("reset at 1 should report no change")
	}
	cam.Zoom = 3
	if !cam.ResetZoom() || cam.Zoom != 1 {
		t.Fatalf("reset should restore zoom 1")
	}
}
