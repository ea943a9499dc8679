package resource

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const imageCacheCost = 256 << 20

// Loader reads resources relative to Root. Decoded images are cached until
// invalidated.
type Loader struct {
	Root string

	images *ristretto.Cache[string, image.Image]
}

func NewLoader(root string) (*Loader, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, image.Image]{
		NumCounters: 10000,
		MaxCost:     imageCacheCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("resource: image cache: %w", err)
	}
	return &Loader{Root: root, images: cache}, nil
}

// Close releases the image cache.
func (l *Loader) Close() {
	l.images.Close()
}

// Abs resolves a resource path against Root.
func (l *Loader) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.Root, filepath.FromSlash(path))
}

// Rel turns a file system path into the slash separated resource path
// documents refer to. Paths outside Root are returned cleaned.
func (l *Loader) Rel(path string) string {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

func (l *Loader) LoadBytes(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("resource: empty path")
	}
	b, err := os.ReadFile(l.Abs(path))
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	return b, nil
}

func (l *Loader) SaveBytes(path string, data []byte) error {
	abs := l.Abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("resource: mkdir %s: %w", path, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("resource: write %s: %w", path, err)
	}
	return nil
}

// LoadImage decodes the image at path, serving repeat requests from the
// cache.
func (l *Loader) LoadImage(path string) (image.Image, error) {
	key := l.key(path)
	if img, ok := l.images.Get(key); ok {
		return img, nil
	}
	b, err := l.LoadBytes(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("resource: decode %s: %w", path, err)
	}
	bounds := img.Bounds()
	l.images.Set(key, img, max(1, int64(bounds.Dx()*bounds.Dy()*4)))
	l.images.Wait()
	return img, nil
}

// Invalidate drops the cached image for path.
func (l *Loader) Invalidate(path string) {
	l.images.Del(l.key(path))
	l.images.Wait()
}

func (l *Loader) key(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// File extensions of the editor's documents.
const (
	TileSetExt = ".tileset"
	GridExt    = ".grid"
)
