package animate

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer is a pending scheduled step. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// ScheduleFunc runs f once after d, on any goroutine.
type ScheduleFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithPlayerLogger sets the player logger. The default discards everything.
func WithPlayerLogger(l *zap.Logger) PlayerOption {
	return func(p *Player) { p.log = l }
}

// WithScheduler replaces time.AfterFunc as the step scheduler.
func WithScheduler(s ScheduleFunc) PlayerOption {
	return func(p *Player) { p.schedule = s }
}

// OnFrame sets a callback invoked with each frame index as it is shown. It
// runs with the player locked and must not call back into the player.
func OnFrame(fn func(int)) PlayerOption {
	return func(p *Player) { p.render = fn }
}

// Player cycles through frame indices at a fixed delay. Each step shows one
// frame and schedules the next only while the player is running. Stopping
// invalidates the pending step, so a step that fires late never shows a
// frame. It is safe for concurrent use.
type Player struct {
	log      *zap.Logger
	schedule ScheduleFunc
	render   func(int)

	mu      sync.Mutex
	frames  int
	delay   time.Duration
	running bool
	gen     uint64
	index   int
	shown   int
	timer   Timer
}

// NewPlayer returns a stopped player over frames frames.
func NewPlayer(frames int, delay time.Duration, opts ...PlayerOption) *Player {
	p := &Player{
		log:      zap.NewNop(),
		schedule: afterFunc,
		frames:   frames,
		delay:    delay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Running reports whether playback is active.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Frame returns the index of the frame last shown.
func (p *Player) Frame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}

// SetFrames changes the number of frames, restarting from the first if the
// current position no longer exists.
func (p *Player) SetFrames(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = n
	if p.index >= n {
		p.index = 0
	}
	if p.shown >= n {
		p.shown = 0
	}
}

// SetDelay changes the delay used from the next scheduled step on.
func (p *Player) SetDelay(d time.Duration) error {
	if d <= 0 {
		return ErrDuration
	}
	p.mu.Lock()
	p.delay = d
	p.mu.Unlock()
	return nil
}

// Start begins playback by showing the next frame immediately. Starting a
// running player does nothing.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	if p.frames == 0 {
		return ErrNoFrames
	}
	p.running = true
	p.gen++
	p.log.Debug("preview started", zap.Int("frames", p.frames), zap.Duration("delay", p.delay))
	p.stepLocked(p.gen)
	return nil
}

// Stop halts playback. Stopping a stopped player does nothing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.log.Debug("preview stopped", zap.Int("frame", p.shown))
}

// Toggle starts a stopped player or stops a running one.
func (p *Player) Toggle() error {
	if p.Running() {
		p.Stop()
		return nil
	}
	return p.Start()
}

func (p *Player) step(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stepLocked(gen)
}

func (p *Player) stepLocked(gen uint64) {
	if !p.running || gen != p.gen {
		return
	}
	if p.frames == 0 {
		p.timer = nil
		return
	}
	p.shown = p.index
	if p.render != nil {
		p.render(p.shown)
	}
	p.index = (p.index + 1) % p.frames
	p.timer = p.schedule(p.delay, func() { p.step(gen) })
}
