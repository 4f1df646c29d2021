package ghost

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// DragScale and DragOpacity are applied to the sprite while it is dragged.
	DragScale   = 1.05
	DragOpacity = 0.8
	// FeedbackDuration is the transition time in seconds.
	FeedbackDuration = 0.1
)

// Feedback eases the sprite between its resting and dragged look.
type Feedback struct {
	dragging bool
	scale    float32
	opacity  float32

	scaleTween   *gween.Tween
	opacityTween *gween.Tween
}

// NewFeedback returns feedback in the resting state.
func NewFeedback() *Feedback {
	return &Feedback{scale: 1, opacity: 1}
}

// SetDragging starts a transition toward the dragged or resting look. Calls
// that do not change the state leave a running transition alone.
func (f *Feedback) SetDragging(dragging bool) {
	if dragging == f.dragging {
		return
	}
	f.dragging = dragging

	scale, opacity := float32(1), float32(1)
	if dragging {
		scale, opacity = DragScale, DragOpacity
	}
	f.scaleTween = gween.New(f.scale, scale, FeedbackDuration, ease.OutQuad)
	f.opacityTween = gween.New(f.opacity, opacity, FeedbackDuration, ease.OutQuad)
}

// Update advances the transition by dt seconds.
func (f *Feedback) Update(dt float32) {
	if f.scaleTween != nil {
		v, done := f.scaleTween.Update(dt)
		f.scale = v
		if done {
			f.scaleTween = nil
		}
	}
	if f.opacityTween != nil {
		v, done := f.opacityTween.Update(dt)
		f.opacity = v
		if done {
			f.opacityTween = nil
		}
	}
}

// Scale returns the current sprite scale.
func (f *Feedback) Scale() float64 { return float64(f.scale) }

// Opacity returns the current sprite opacity.
func (f *Feedback) Opacity() float64 { return float64(f.opacity) }

// Settled reports whether no transition is running.
func (f *Feedback) Settled() bool {
	return f.scaleTween == nil && f.opacityTween == nil
}
