package chromakey

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func bitmapFromPixels(width, height int, pixels ...[4]uint8) *Bitmap {
	b := NewBitmap(width, height)
	for i, p := range pixels {
		copy(b.Pix[i*4:], p[:])
	}
	return b
}

func TestFilter_ReferencePixels(t *testing.T) {
	b := bitmapFromPixels(4, 1,
		[4]uint8{0, 255, 0, 255},   // exact key
		[4]uint8{5, 250, 5, 255},   // within tolerance
		[4]uint8{100, 255, 0, 255}, // R out of tolerance
		[4]uint8{0, 255, 50, 255},  // B out of tolerance
	)

	Filter(b, DefaultKey())

	wantAlpha := []uint8{0, 0, 255, 255}
	for x, want := range wantAlpha {
		_, _, _, a := b.At(x, 0)
		if a != want {
			t.Errorf("pixel %d: expected alpha %d, got %d", x, want, a)
		}
	}
}

func TestFilter_KeepsRGBOfKeyedPixels(t *testing.T) {
	b := bitmapFromPixels(1, 1, [4]uint8{3, 240, 7, 255})
	Filter(b, DefaultKey())

	r, g, bl, a := b.At(0, 0)
	if r != 3 || g != 240 || bl != 7 {
		t.Fatalf("expected rgb residue (3,240,7), got (%d,%d,%d)", r, g, bl)
	}
	if a != 0 {
		t.Fatalf("expected alpha 0, got %d", a)
	}
}

func TestFilter_ThresholdsAreStrict(t *testing.T) {
	tests := []struct {
		name  string
		pixel [4]uint8
		keyed bool
	}{
		{"R at low threshold", [4]uint8{30, 255, 0, 255}, false},
		{"R just below low threshold", [4]uint8{29, 255, 0, 255}, true},
		{"G at high threshold", [4]uint8{0, 200, 0, 255}, false},
		{"G just above high threshold", [4]uint8{0, 201, 0, 255}, true},
		{"B at low threshold", [4]uint8{0, 255, 30, 255}, false},
		{"black", [4]uint8{0, 0, 0, 255}, false},
		{"white", [4]uint8{255, 255, 255, 255}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bitmapFromPixels(1, 1, tt.pixel)
			Filter(b, DefaultKey())
			_, _, _, a := b.At(0, 0)
			if tt.keyed && a != 0 {
				t.Errorf("expected pixel %v to be keyed, alpha=%d", tt.pixel, a)
			}
			if !tt.keyed && a != tt.pixel[3] {
				t.Errorf("expected pixel %v untouched, alpha=%d", tt.pixel, a)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	b := NewBitmap(16, 16)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 37)
	}
	// Sprinkle exact key pixels.
	for i := 0; i < len(b.Pix); i += 12 {
		copy(b.Pix[i:], []uint8{0, 255, 0, 255})
	}

	once := FilterCopy(b, DefaultKey())
	twice := FilterCopy(once, DefaultKey())
	if !bytes.Equal(once.Pix, twice.Pix) {
		t.Fatalf("filtering twice changed the bitmap")
	}
}

func TestFilter_OnlyTouchesAlpha(t *testing.T) {
	b := NewBitmap(8, 8)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 11)
	}
	orig := b.Clone()
	Filter(b, DefaultKey())

	for i := range b.Pix {
		if i%4 == 3 {
			if b.Pix[i] != orig.Pix[i] && b.Pix[i] != 0 {
				t.Fatalf("alpha at %d changed to partial value %d", i, b.Pix[i])
			}
			continue
		}
		if b.Pix[i] != orig.Pix[i] {
			t.Fatalf("colour sample at %d changed: %d -> %d", i, orig.Pix[i], b.Pix[i])
		}
	}
}

func TestFilter_PreservesDimensions(t *testing.T) {
	sizes := [][2]int{{0, 0}, {1, 1}, {0, 5}, {3, 7}, {64, 1}}
	for _, s := range sizes {
		b := NewBitmap(s[0], s[1])
		out := Filter(b, DefaultKey())
		if out.Width != s[0] || out.Height != s[1] {
			t.Errorf("size %dx%d became %dx%d", s[0], s[1], out.Width, out.Height)
		}
		if !out.Valid() {
			t.Errorf("size %dx%d: invalid output", s[0], s[1])
		}
	}
}

func TestFilter_NilAndShortBuffer(t *testing.T) {
	if Filter(nil, DefaultKey()) != nil {
		t.Fatalf("expected nil result for nil bitmap")
	}

	short := &Bitmap{Width: 2, Height: 1, Pix: []uint8{0, 255, 0, 255, 0, 255}}
	Filter(short, DefaultKey())
	if short.Pix[3] != 0 {
		t.Fatalf("expected complete pixel to be keyed")
	}
}

func TestKey_CustomColour(t *testing.T) {
	blue := Key{Color: color.NRGBA{B: 255, A: 255}, Tolerance: DefaultTolerance}
	if !blue.Match(10, 10, 250) {
		t.Fatalf("expected blue backdrop to match")
	}
	if blue.Match(0, 255, 0) {
		t.Fatalf("green must not match a blue key")
	}
}

func TestFromImage_ConvertsToNonPremultiplied(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.Set(10, 10, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	src.Set(11, 10, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	b := FromImage(src)
	if b.Width != 2 || b.Height != 1 {
		t.Fatalf("expected 2x1, got %dx%d", b.Width, b.Height)
	}
	r, g, bl, a := b.At(0, 0)
	if r != 0 || g != 255 || bl != 0 || a != 255 {
		t.Fatalf("unexpected first pixel (%d,%d,%d,%d)", r, g, bl, a)
	}
	r, _, _, _ = b.At(1, 0)
	if r != 200 {
		t.Fatalf("expected second pixel red 200, got %d", r)
	}
}

func TestFitWithin(t *testing.T) {
	b := NewBitmap(400, 300)
	out := FitWithin(b, 200, 300)
	if out.Width != 200 || out.Height != 150 {
		t.Fatalf("expected 200x150, got %dx%d", out.Width, out.Height)
	}

	small := NewBitmap(50, 60)
	if FitWithin(small, 200, 300) != small {
		t.Fatalf("expected small bitmap to be returned unchanged")
	}

	tall := NewBitmap(100, 600)
	out = FitWithin(tall, 200, 300)
	if out.Width != 50 || out.Height != 300 {
		t.Fatalf("expected 50x300, got %dx%d", out.Width, out.Height)
	}
}
