// Package player advances a scene over wall-clock time.
//
// A Player owns the play/pause/reset/seek state for one scene and drives
// a per-frame callback from a ticker at the scene's frame rate. Elapsed
// time is measured from the monotonic clock, so a paused scene resumes
// exactly where it stopped.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chalktalk/chalktalk/pkg/scene"
)

var ErrNoScene = errors.New("player: no scene loaded")

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// FrameFunc receives each resolved frame together with the playback
// position that produced it.
type FrameFunc func(progress float64, frame scene.Frame)

// Player schedules frame evaluation for one scene. Only one tick loop is
// active at a time; Pause, Reset, Seek, and SetScene all cancel a
// pending loop before changing state.
type Player struct {
	onFrame FrameFunc

	mu        sync.Mutex
	viz       *scene.Visualization
	state     State
	elapsed   time.Duration // accumulated before the current run
	startedAt time.Time     // start of the current run, valid while Playing
	cancel    context.CancelFunc
}

func New(onFrame FrameFunc) *Player {
	return &Player{onFrame: onFrame}
}

// SetScene loads a scene, cancelling any active playback and rewinding
// to the start. The first frame is emitted immediately.
func (p *Player) SetScene(v *scene.Visualization) {
	p.mu.Lock()
	p.stopLocked()
	p.viz = v
	p.elapsed = 0
	viz := p.viz
	p.mu.Unlock()
	if viz != nil {
		p.emit(viz, 0)
	}
}

// Play starts or resumes playback. Playing an already-playing scene is a
// no-op. The loop stops when the scene completes, ctx is cancelled, or
// Pause/Reset/SetScene intervenes.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	if p.viz == nil {
		p.mu.Unlock()
		return ErrNoScene
	}
	if p.state == Playing {
		p.mu.Unlock()
		return nil
	}
	if p.state == Stopped && p.elapsed >= p.durationLocked() {
		p.elapsed = 0 // replay from the start
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.startedAt = time.Now()
	p.state = Playing
	// Guards against a scene that skipped Normalize.
	fps := max(p.viz.FPS, 1)
	interval := time.Second / time.Duration(fps)
	p.mu.Unlock()

	go p.loop(ctx, interval)
	return nil
}

// Pause halts playback, keeping the current position.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.state == Playing {
		p.elapsed += time.Since(p.startedAt)
		p.stopLocked()
		p.state = Paused
	}
	p.mu.Unlock()
}

// Reset cancels playback and rewinds to the start, emitting the first
// frame.
func (p *Player) Reset() {
	p.mu.Lock()
	p.stopLocked()
	p.elapsed = 0
	viz := p.viz
	p.mu.Unlock()
	if viz != nil {
		p.emit(viz, 0)
	}
}

// Seek jumps to progress in [0,1] (clamped), emitting the frame at the
// new position. A playing scene keeps playing from there.
func (p *Player) Seek(progress float64) {
	progress = min(max(progress, 0), 1)
	p.mu.Lock()
	if p.viz == nil {
		p.mu.Unlock()
		return
	}
	p.elapsed = time.Duration(progress * float64(p.durationLocked()))
	if p.state == Playing {
		p.startedAt = time.Now()
	}
	viz := p.viz
	p.mu.Unlock()
	p.emit(viz, progress)
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Progress reports the current playback position in [0,1].
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.viz == nil {
		return 0
	}
	elapsed := p.elapsed
	if p.state == Playing {
		elapsed += time.Since(p.startedAt)
	}
	return min(float64(elapsed)/float64(p.durationLocked()), 1)
}

// stopLocked cancels a pending loop. Callers hold p.mu.
func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = Stopped
}

func (p *Player) durationLocked() time.Duration {
	return time.Duration(p.viz.Duration) * time.Millisecond
}

func (p *Player) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.step(ctx) {
				return
			}
		}
	}
}

// step evaluates one frame. It reports true when the loop must exit,
// either because playback was cancelled or the scene completed.
func (p *Player) step(ctx context.Context) bool {
	p.mu.Lock()
	if p.state != Playing || ctx.Err() != nil {
		p.mu.Unlock()
		return true
	}
	viz := p.viz
	progress := float64(p.elapsed+time.Since(p.startedAt)) / float64(p.durationLocked())
	done := progress >= 1
	if done {
		progress = 1
		p.elapsed = p.durationLocked()
		p.stopLocked()
	}
	p.mu.Unlock()

	p.emit(viz, progress)
	return done
}

func (p *Player) emit(viz *scene.Visualization, progress float64) {
	if p.onFrame == nil {
		return
	}
	p.onFrame(progress, scene.Evaluate(viz, progress))
}
