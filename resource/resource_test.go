package resource

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	root := t.TempDir()
	l, err := NewLoader(root)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	t.Cleanup(l.Close)
	return l, root
}

func TestLoadImageCachesUntilInvalidated(t *testing.T) {
	l, root := newTestLoader(t)
	if err := os.MkdirAll(filepath.Join(root, "tiles"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(root, "tiles", "a.png")
	writePNG(t, path, 8, 4)

	img, err := l.LoadImage("tiles/a.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("expected width 8, got %d", img.Bounds().Dx())
	}

	writePNG(t, path, 16, 4)
	img, _ = l.LoadImage("tiles/./a.png")
	if img.Bounds().Dx() != 8 {
		t.Fatalf("expected cached image, got width %d", img.Bounds().Dx())
	}

	l.Invalidate("tiles/a.png")
	img, err = l.LoadImage("tiles/a.png")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("expected reloaded width 16, got %d", img.Bounds().Dx())
	}
}

func TestLoadImageErrors(t *testing.T) {
	l, root := newTestLoader(t)
	if err := os.WriteFile(filepath.Join(root, "bad.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cases := []struct {
		name string
		path string
	}{
		{"missing", "missing.png"},
		{"corrupt", "bad.png"},
		{"empty_path", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := l.LoadImage(c.path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSaveAndLoadBytes(t *testing.T) {
	l, _ := newTestLoader(t)
	if err := l.SaveBytes("levels/one.grid", []byte("{}")); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := l.LoadBytes("levels/one.grid")
	if err != nil || string(b) != "{}" {
		t.Fatalf("expected saved bytes, got %q (%v)", b, err)
	}
}

func TestRel(t *testing.T) {
	l, root := newTestLoader(t)
	cases := []struct {
		name string
		path string
		want string
	}{
		{"inside", filepath.Join(root, "tiles", "a.png"), "tiles/a.png"},
		{"root_file", filepath.Join(root, "level.tileset"), "level.tileset"},
		{"outside", filepath.Join(filepath.Dir(root), "x.png"), filepath.ToSlash(filepath.Join(filepath.Dir(root), "x.png"))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := l.Rel(c.path); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestIsWatched(t *testing.T) {
	cases := map[string]bool{
		"a.png":         true,
		"b.PNG":         true,
		"c.webp":        true,
		"level.tileset": true,
		"map.grid":      true,
		"notes.txt":     false,
		"swap.png~":     false,
	}
	for path, want := range cases {
		if got := IsWatched(path); got != want {
			t.Fatalf("IsWatched(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "level.tileset")
	if err := os.WriteFile(target, []byte("tile_width: 8\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	var got []string
	for time.Now().Before(deadline) && !slices.Contains(got, target) {
		got = append(got, w.Drain()...)
		time.Sleep(20 * time.Millisecond)
	}
	if !slices.Contains(got, target) {
		t.Fatalf("expected an event for %s, got %v", target, got)
	}
	for _, p := range got {
		if filepath.Ext(p) == ".txt" {
			t.Fatalf("unwatched extension reported: %s", p)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	sub := filepath.Join(root, "tiles", "cave")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(sub, "rock.png")

	// rewrite until reported: the new directory is added asynchronously
	deadline := time.Now().Add(3 * time.Second)
	var got []string
	for time.Now().Before(deadline) && !slices.Contains(got, target) {
		if err := os.WriteFile(target, []byte("png"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(150 * time.Millisecond)
		got = append(got, w.Drain()...)
	}
	if !slices.Contains(got, target) {
		t.Fatalf("expected an event for %s, got %v", target, got)
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	target := filepath.Join(dir, "level.grid")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	count := 0
	for time.Now().Before(deadline) && count == 0 {
		for _, p := range w.Drain() {
			if p == target {
				count++
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(3 * debounce)
	for _, p := range w.Drain() {
		if p == target {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one event for a burst of writes, got %d", count)
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected an error for a missing root")
	}
}
