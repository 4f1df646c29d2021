// Package pose loads the ghost's surface images and tracks which one is shown.
package pose

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/1broseidon/ghostdock/internal/chromakey"
)

// ErrNotFound is returned when no asset exists for a pose.
var ErrNotFound = errors.New("pose asset not found")

// Source provides raw, unkeyed surface bitmaps.
type Source interface {
	Load(ghost string, index int) (*chromakey.Bitmap, error)
}

// Extensions lists the file types DirSource tries, in order.
var Extensions = []string{".png", ".bmp", ".webp"}

// DirSource reads surfaces from a ghost asset tree laid out as
// <Root>/<ghost>/shell/master/surface<N>.<ext>.
type DirSource struct {
	Root string
}

// SurfacePath returns the path of a surface without extension.
func (s DirSource) SurfacePath(ghost string, index int) string {
	return filepath.Join(s.Root, ghost, "shell", "master", fmt.Sprintf("surface%d", index))
}

// Load implements Source.
func (s DirSource) Load(ghost string, index int) (*chromakey.Bitmap, error) {
	if ghost == "" {
		return nil, fmt.Errorf("%w: empty ghost name", ErrNotFound)
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: surface %d", ErrNotFound, index)
	}

	base := s.SurfacePath(ghost, index)
	for _, ext := range Extensions {
		path := base + ext
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return chromakey.FromImage(img), nil
	}
	return nil, fmt.Errorf("%w: %s.{png,bmp,webp}", ErrNotFound, base)
}
