package placement

import "context"

// Runtime is the windowing backend that owns the floating window. All
// methods may block until the backend responds and must honour ctx.
type Runtime interface {
	// OuterSize returns the frame-inclusive window size.
	OuterSize(ctx context.Context) (Size, error)
	// OuterPosition returns the frame-inclusive top-left corner.
	OuterPosition(ctx context.Context) (Position, error)
	SetPosition(ctx context.Context, pos Position) error
	SetAlwaysOnTop(ctx context.Context, onTop bool) error
	// StartDragging hands the pointer to a native move gesture and returns
	// once the user releases it.
	StartDragging(ctx context.Context) error
	// PrimaryScreen returns the primary display geometry.
	PrimaryScreen(ctx context.Context) (Screen, error)
}

// ReadyNotifier is implemented by runtimes that can signal when the window
// has completed its first layout pass and reports a real size. A nil channel
// means no signal is available.
type ReadyNotifier interface {
	Ready() <-chan struct{}
}
