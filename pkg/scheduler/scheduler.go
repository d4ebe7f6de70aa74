// Package scheduler drives tree walks on a cadence suited to a host UI
// that rebuilds itself asynchronously: a steady repeating walk, a
// debounced layout-changed hook, and short bursts of rapid follow-ups
// after known mutation events.
package scheduler

import (
	"context"
	"sync"
	"time"

	cblog "github.com/charmbracelet/log"

	"github.com/uprooted/retheme/pkg/bridge"
)

// Config holds the scheduler's timing knobs.
type Config struct {
	// InitialDelay before the first steady walk after Start.
	InitialDelay time.Duration
	// Interval between steady walks.
	Interval time.Duration
	// DebounceWindow after an accepted layout notification during which
	// further notifications are dropped.
	DebounceWindow time.Duration
	// BurstDelays are the three increasing delays of a follow-up burst.
	BurstDelays [3]time.Duration
	// SettleDelay before the post-apply audit pass.
	SettleDelay time.Duration
}

// DefaultConfig mirrors the cadence tuned against the host: walks are
// cheap but the host flashes un-themed content if the gaps are too
// wide.
func DefaultConfig() Config {
	return Config{
		InitialDelay:   500 * time.Millisecond,
		Interval:       5 * time.Second,
		DebounceWindow: 250 * time.Millisecond,
		BurstDelays:    [3]time.Duration{100 * time.Millisecond, 350 * time.Millisecond, 800 * time.Millisecond},
		SettleDelay:    2 * time.Second,
	}
}

// Scheduler owns the timers behind live re-theming. Walks always go
// through the dispatcher; the host tree is only safe to mutate on the
// thread that owns it.
type Scheduler struct {
	cfg        Config
	dispatcher bridge.Dispatcher
	active     func() bool
	walk       func()

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	lastNotify  time.Time

	log *cblog.Logger
}

// New creates a stopped scheduler. active is consulted before every
// scheduled walk so a walk queued just before revert becomes a no-op.
func New(cfg Config, d bridge.Dispatcher, active func() bool, walk func()) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		dispatcher: d,
		active:     active,
		walk:       walk,
		log:        cblog.With("component", "scheduler"),
	}
}

// Start launches the steady walk loop: one walk after the initial
// delay, then one per interval. A previous loop is cancelled first, so
// every theme apply restarts the cadence from scratch.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx = ctx
	s.cancel = cancel
	s.mu.Unlock()
	s.log.Debug("steady walk loop started", "initialDelay", s.cfg.InitialDelay, "interval", s.cfg.Interval)

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.InitialDelay):
		}
		s.dispatch()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.dispatch()
			}
		}
	}()
}

// Stop cancels the steady loop and any pending burst walks. Called
// before any revert state is touched, so a timer firing mid-teardown
// cannot re-apply colors.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.ctx = nil
	}
}

// InstallLayoutHook subscribes to the host's layout-changed
// notification. Idempotent; a second call keeps the existing
// subscription.
func (s *Scheduler) InstallLayoutHook(host bridge.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = host.OnLayoutChanged(s.NotifyLayoutChanged)
}

// Close stops all timers and unsubscribes the layout hook.
func (s *Scheduler) Close() {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// NotifyLayoutChanged triggers one walk unless a notification was
// already accepted within the debounce window. The steady interval is
// too coarse on its own; navigation rebuilds flash un-themed content
// without this hook.
func (s *Scheduler) NotifyLayoutChanged() {
	if !s.active() {
		return
	}
	s.mu.Lock()
	now := time.Now()
	if now.Sub(s.lastNotify) < s.cfg.DebounceWindow {
		s.mu.Unlock()
		return
	}
	s.lastNotify = now
	s.mu.Unlock()
	s.dispatch()
}

// Burst schedules walks at three increasing delays, each re-checking
// that a theme is still active before dispatching. Used after manual
// content rebuilds where one immediate walk tends to race the host.
func (s *Scheduler) Burst() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	go func() {
		for _, d := range s.cfg.BurstDelays {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d):
			}
			if !s.active() {
				return
			}
			s.dispatch()
		}
	}()
}

// AfterSettle runs fn once after the settle delay if a theme is still
// active, on the UI thread. The engine uses it for the post-apply
// audit.
func (s *Scheduler) AfterSettle(fn func()) {
	go func() {
		time.Sleep(s.cfg.SettleDelay)
		if !s.active() {
			return
		}
		s.dispatcher.RunOnUI(fn)
	}()
}

func (s *Scheduler) dispatch() {
	if !s.active() {
		return
	}
	s.dispatcher.RunOnUI(func() {
		if !s.active() {
			return
		}
		s.walk()
	})
}

// LiveThrottleWindow caps drag-preview updates to roughly one frame at
// 60Hz.
const LiveThrottleWindow = 16 * time.Millisecond

// Throttle is a leading-edge rate gate. The first call passes
// immediately; calls within the window of the last accepted one are
// rejected. Live preview uses it to cap drag updates at one per 16ms.
type Throttle struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

// NewThrottle returns a gate with the given window.
func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{window: window}
}

// Allow reports whether the caller may proceed, consuming the slot if
// so.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.window {
		return false
	}
	t.last = now
	return true
}
