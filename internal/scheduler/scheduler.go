// Package scheduler drives the tracker: static load first, then an
// immediate poll, then a fixed-interval poll loop until stopped. A failed
// static load is terminal; everything after it only serves the error state.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/WireNext/RodaliesCV-RealTIme/internal/realtime/cercanias"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/static"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/tracker"
)

// State of the scheduler lifecycle.
type State int

const (
	Uninitialized State = iota
	StaticLoading
	Ready
	Polling
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case StaticLoading:
		return "static_loading"
	case Ready:
		return "ready"
	case Polling:
		return "polling"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// FeedSource fetches the two real-time batches for a tick.
type FeedSource interface {
	FetchPositions(ctx context.Context) ([]cercanias.PositionReport, error)
	FetchDelays(ctx context.Context) ([]cercanias.DelayReport, error)
}

// Config wires the scheduler's collaborators.
type Config struct {
	Store    *static.Store
	Engine   *tracker.Engine
	Feeds    FeedSource
	Interval time.Duration

	// LoadStatic fills Store. An error here halts the scheduler for good.
	LoadStatic func(ctx context.Context) error

	// OnFatal is told about the terminal static-load failure so the
	// presentation layer can show a blocking error.
	OnFatal func(msg string)
}

// Scheduler sequences static load, the initial poll, and the periodic poll
// loop. Run owns the engine: all reconciliation happens on Run's goroutine,
// one tick at a time.
type Scheduler struct {
	cfg Config

	stateMu sync.RWMutex
	state   State

	// tickMu keeps ticks from interleaving if a fetch ever outlasts the
	// interval and ticks are triggered from more than one place.
	tickMu sync.Mutex

	stopOnce sync.Once
	stopped  chan struct{}
}

func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		state:   Uninitialized,
		stopped: make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Scheduler) setState(state State) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

// Stop halts the poll loop. A tick already in flight finishes; no further
// ticks run. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Run loads static data and then polls until ctx is cancelled or Stop is
// called. It returns after the loop ends, or immediately after a static
// load failure.
func (s *Scheduler) Run(ctx context.Context) {
	s.setState(StaticLoading)
	if err := s.cfg.LoadStatic(ctx); err != nil {
		s.setState(Failed)
		log.Printf("Static load failed, polling disabled: %v", err)
		if s.cfg.OnFatal != nil {
			s.cfg.OnFatal(err.Error())
		}
		return
	}
	log.Printf("Static data loaded: %d routes, %d trips",
		s.cfg.Store.RouteCount(), s.cfg.Store.TripCount())
	s.setState(Ready)

	s.Tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-s.stopped:
			log.Println("Polling loop stopped")
			return
		case <-ctx.Done():
			log.Println("Polling loop stopped")
			return
		}
	}
}

// Tick runs one poll cycle: delay batch first, then position batch. A
// failed fetch skips only its own phase; the registry keeps its previous
// contents and the next tick proceeds normally with no backoff.
func (s *Scheduler) Tick(ctx context.Context) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	// Empty trip table means static load has not completed; reconciling
	// now would evict everything for no reason.
	if s.cfg.Store.TripCount() == 0 {
		return
	}

	s.setState(Polling)
	defer s.setState(Ready)

	delays, err := s.cfg.Feeds.FetchDelays(ctx)
	if err != nil {
		log.Printf("Trip updates fetch failed, keeping previous delays: %v", err)
	} else {
		s.cfg.Engine.ApplyDelayBatch(delays)
	}

	positions, err := s.cfg.Feeds.FetchPositions(ctx)
	if err != nil {
		log.Printf("Vehicle positions fetch failed, keeping previous positions: %v", err)
		return
	}
	s.cfg.Engine.ApplyPositionBatch(positions)
}
