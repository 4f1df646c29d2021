package ghost

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1broseidon/ghostdock/internal/chromakey"
	"github.com/1broseidon/ghostdock/internal/gesture"
	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
	"github.com/1broseidon/ghostdock/internal/pose"
)

const commandBuffer = 16

// pointer is one frame of left-button input in window coordinates.
type pointer struct {
	x, y         float64
	pressed      bool
	justPressed  bool
	justReleased bool
}

// Game is the ebiten game that draws the ghost and turns pointer input into
// pose changes and drag gestures.
type Game struct {
	ctx    context.Context
	logger *slog.Logger
	win    window
	rt     *EbitenRuntime
	poses  *pose.Set
	disp   *placement.Dispatcher

	gesture  *gesture.Machine
	feedback *Feedback
	commands chan func(*Game)

	onFirstFrame func()
	drawn        bool

	// pending is the keyed bitmap waiting to be uploaded on the next Draw.
	pending  *chromakey.Bitmap
	dirty    bool
	sprite   *ebiten.Image
	noSprite atomic.Bool
	loggedNo bool
}

func newGame(ctx context.Context, rt *EbitenRuntime, poses *pose.Set, disp *placement.Dispatcher, deadZone float64, logger *slog.Logger) *Game {
	return &Game{
		ctx:      ctx,
		logger:   logger,
		win:      rt.win,
		rt:       rt,
		poses:    poses,
		disp:     disp,
		gesture:  gesture.NewMachine(deadZone),
		feedback: NewFeedback(),
		commands: make(chan func(*Game), commandBuffer),
	}
}

// Submit queues fn to run on the game loop. It reports false when the queue
// is full.
func (g *Game) Submit(fn func(*Game)) bool {
	select {
	case g.commands <- fn:
		return true
	default:
		g.logger.Warn("game command queue full, dropping command")
		return false
	}
}

// call runs fn on the game loop and waits for it.
func (g *Game) call(ctx context.Context, fn func(*Game)) error {
	done := make(chan struct{})
	select {
	case g.commands <- func(g *Game) {
		defer close(done)
		fn(g)
	}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Game) drainCommands() {
	for {
		select {
		case fn := <-g.commands:
			fn(g)
		default:
			return
		}
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.drainCommands()
	g.frame(readPointer())
	g.tick(1 / float32(ebiten.TPS()))
	return nil
}

func readPointer() pointer {
	x, y := ebiten.CursorPosition()
	return pointer{
		x:            float64(x),
		y:            float64(y),
		pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		justPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		justReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

// frame applies one input update: an active drag follows it first, then the
// gesture machine sees it.
func (g *Game) frame(p pointer) {
	g.rt.Follow(int(p.x), int(p.y), p.pressed)
	g.handlePointer(p)
}

func (g *Game) handlePointer(p pointer) {
	if p.justPressed {
		g.gesture.Press(p.x, p.y)
	}
	if g.gesture.Move(p.x, p.y) == gesture.EventDragStart {
		g.startDrag()
	}
	if !p.justReleased {
		return
	}
	if g.gesture.Release(p.x, p.y) == gesture.EventClick {
		if g.disp.Controller().Snapshot().Dragging {
			return
		}
		g.advancePose()
	}
}

func (g *Game) tick(dt float32) {
	g.feedback.SetDragging(g.disp.Controller().Snapshot().Dragging)
	g.feedback.Update(dt)
}

// startDrag hands the drag to the placement dispatcher, grabbing the sprite
// where it was pressed. Native move gestures can swallow the button release,
// so the gesture is reset once the drag returns.
func (g *Game) startDrag() {
	ox, oy := g.gesture.Origin()
	g.rt.GrabAt(int(ox), int(oy))
	g.disp.Post("drag", func(ctx context.Context, c *placement.Controller) error {
		err := c.Drag(ctx)
		g.Submit(func(g *Game) {
			if g.gesture.Phase() == gesture.PhaseDragging {
				g.gesture.Cancel()
			}
		})
		return err
	})
}

func (g *Game) advancePose() ipc.PoseData {
	return g.showPose(g.poses.Next())
}

// showPose loads index and makes it the visible sprite. When nothing can be
// loaded the window keeps its size and draws nothing.
func (g *Game) showPose(index int) ipc.PoseData {
	data := ipc.PoseData{Count: g.poses.Count()}
	sprite, err := g.poses.Load(index)
	if err != nil {
		g.setSprite(nil)
		data.Index = g.poses.Current()
		data.NoSprite = true
		return data
	}
	g.poses.Select(sprite.Index)
	g.setSprite(sprite.Bitmap)
	data.Index = sprite.Index
	data.FellBack = sprite.FellBack
	return data
}

func (g *Game) setSprite(bmp *chromakey.Bitmap) {
	g.pending = bmp
	g.dirty = true
	g.noSprite.Store(bmp == nil)
	if bmp == nil {
		return
	}
	g.loggedNo = false
	w, h := paddedSize(bmp.Width, bmp.Height)
	if cw, ch := g.win.Size(); cw != w || ch != h {
		g.win.SetSize(w, h)
	}
}

// NoSprite reports whether the ghost currently has nothing to draw.
func (g *Game) NoSprite() bool {
	return g.noSprite.Load()
}

// paddedSize leaves room for the enlarged sprite while dragging.
func paddedSize(w, h int) (int, int) {
	return padded(w), padded(h)
}

func padded(v int) int {
	return int(math.Ceil(float64(v)*DragScale - 1e-6))
}

func (g *Game) uploadSprite() {
	if !g.dirty {
		return
	}
	g.dirty = false
	if g.sprite != nil {
		g.sprite.Deallocate()
		g.sprite = nil
	}
	if g.pending != nil {
		g.sprite = ebiten.NewImageFromImage(g.pending.NRGBA())
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.uploadSprite()
	screen.Clear()

	if !g.drawn {
		g.drawn = true
		if g.onFirstFrame != nil {
			g.onFirstFrame()
		}
	}

	if g.sprite == nil {
		if !g.loggedNo {
			g.loggedNo = true
			g.logger.Warn("no sprite available", "ghost", g.poses.Ghost(), "pose", g.poses.Current())
		}
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	iw, ih := g.sprite.Bounds().Dx(), g.sprite.Bounds().Dy()
	scale := g.feedback.Scale()

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	op.GeoM.Translate(-float64(iw)/2, -float64(ih)/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(sw)/2, float64(sh)/2)
	op.ColorScale.ScaleAlpha(float32(g.feedback.Opacity()))
	screen.DrawImage(g.sprite, op)
}

// Layout implements ebiten.Game. One logical pixel is one window pixel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
