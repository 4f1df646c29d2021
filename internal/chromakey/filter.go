// Package chromakey masks flat-colour backdrops out of sprite bitmaps.
//
// The keying is a hard cut: a pixel is either left untouched or has its alpha
// forced to zero. RGB samples of keyed pixels are kept, so consumers that
// ignore alpha will still see the backdrop colour.
package chromakey

import "image/color"

// Tolerance holds the asymmetric per-channel thresholds used for keying.
// A channel that is "on" in the key colour must be above High; a channel that
// is "off" must be below Low.
type Tolerance struct {
	Low  uint8
	High uint8
}

// DefaultTolerance is tuned for a green-screen backdrop.
var DefaultTolerance = Tolerance{Low: 30, High: 200}

// Green is the default backdrop colour.
var Green = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// Key describes which pixels become transparent.
type Key struct {
	Color     color.NRGBA
	Tolerance Tolerance
}

// DefaultKey returns the pure-green key with the default tolerance.
func DefaultKey() Key {
	return Key{Color: Green, Tolerance: DefaultTolerance}
}

const channelOn = 128

// Match reports whether an RGB sample belongs to the backdrop.
func (k Key) Match(r, g, b uint8) bool {
	return k.channelMatch(k.Color.R, r) &&
		k.channelMatch(k.Color.G, g) &&
		k.channelMatch(k.Color.B, b)
}

func (k Key) channelMatch(key, sample uint8) bool {
	if key >= channelOn {
		return sample > k.Tolerance.High
	}
	return sample < k.Tolerance.Low
}

// Filter sets alpha to zero on every pixel matching key and returns b.
// The bitmap is modified in place. Trailing bytes that do not form a complete
// pixel are ignored.
func Filter(b *Bitmap, key Key) *Bitmap {
	if b == nil || b.Empty() {
		return b
	}

	n := b.Width * b.Height * 4
	if n > len(b.Pix) {
		n = len(b.Pix) - len(b.Pix)%4
	}

	pix := b.Pix[:n]
	for i := 0; i < len(pix); i += 4 {
		if key.Match(pix[i], pix[i+1], pix[i+2]) {
			pix[i+3] = 0
		}
	}
	return b
}

// FilterCopy is Filter on a copy, leaving src untouched.
func FilterCopy(src *Bitmap, key Key) *Bitmap {
	return Filter(src.Clone(), key)
}
