package chromakey

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Bitmap is a row-major RGBA8 pixel buffer. Alpha is not premultiplied.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBitmap allocates a zeroed bitmap of the given dimensions.
// Negative dimensions are treated as zero.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Valid reports whether the pixel buffer length matches the dimensions.
func (b *Bitmap) Valid() bool {
	if b == nil || b.Width < 0 || b.Height < 0 {
		return false
	}
	return len(b.Pix) == b.Width*b.Height*4
}

// Empty reports whether the bitmap has no pixels.
func (b *Bitmap) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	if b == nil {
		return nil
	}
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Bitmap{Width: b.Width, Height: b.Height, Pix: pix}
}

// At returns the four samples of pixel (x, y).
func (b *Bitmap) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the four samples of pixel (x, y).
func (b *Bitmap) Set(x, y int, r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

// NRGBA returns an image view that shares the bitmap's pixel buffer.
func (b *Bitmap) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage converts a decoded image into a bitmap.
func FromImage(img image.Image) *Bitmap {
	if img == nil {
		return NewBitmap(0, 0)
	}
	bounds := img.Bounds()

	// Fast path: tightly packed NRGBA at the origin can be copied directly.
	if src, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) && src.Stride == bounds.Dx()*4 {
		pix := make([]uint8, len(src.Pix))
		copy(pix, src.Pix)
		return &Bitmap{Width: bounds.Dx(), Height: bounds.Dy(), Pix: pix}
	}

	out := NewBitmap(bounds.Dx(), bounds.Dy())
	xdraw.Draw(out.NRGBA(), out.NRGBA().Rect, img, bounds.Min, xdraw.Src)
	return out
}

// FitWithin scales the bitmap down (never up) so it fits inside maxWidth x
// maxHeight, preserving aspect ratio. Nearest-neighbour sampling keeps keyed
// pixels fully transparent. A non-positive limit disables that axis.
func FitWithin(b *Bitmap, maxWidth, maxHeight int) *Bitmap {
	if b.Empty() {
		return b
	}

	scale := 1.0
	if maxWidth > 0 && b.Width > maxWidth {
		scale = float64(maxWidth) / float64(b.Width)
	}
	if maxHeight > 0 && b.Height > maxHeight {
		if s := float64(maxHeight) / float64(b.Height); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return b
	}

	w := int(float64(b.Width) * scale)
	h := int(float64(b.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	out := NewBitmap(w, h)
	dst := out.NRGBA()
	xdraw.NearestNeighbor.Scale(dst, dst.Rect, b.NRGBA(), image.Rect(0, 0, b.Width, b.Height), xdraw.Src, nil)
	return out
}
