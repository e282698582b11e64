// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cabinet-foundation/cabinet/dispatch"
	"github.com/cabinet-foundation/cabinet/launcher"
	"github.com/cabinet-foundation/cabinet/lib/clock"
	"github.com/cabinet-foundation/cabinet/lib/config"
)

// Client is the slice of the launcher protocol the supervisor drives.
// *launcher.Client satisfies it; tests substitute a stub.
type Client interface {
	// State returns the current session state.
	State() launcher.SessionState

	// SetLoaded reports the game finished loading.
	SetLoaded() error

	// SetFinished reports the session is over.
	SetFinished() error

	// IsLauncherVisible reports whether the launcher owns the screen.
	IsLauncherVisible() (bool, error)

	// PlayerPlaces reports which cabinet positions are occupied.
	PlayerPlaces() ([]bool, error)

	// SendAlive dispatches a fire-and-forget liveness heartbeat.
	SendAlive()

	// Close waits for in-flight background work.
	Close() error
}

// Compile-time interface check.
var _ Client = (*launcher.Client)(nil)

// Config configures a Supervisor. Client or NewClient must be set; the
// rest defaults sensibly.
type Config struct {
	// Client is an existing protocol client to drive. Shutdown
	// releases it; a later Initialize reconstructs via NewClient.
	Client Client

	// NewClient constructs the protocol client lazily during
	// Initialize. Required when Client is nil, and required again for
	// any Initialize after a Shutdown.
	NewClient func() (Client, error)

	// HeartbeatInterval is the real wall-clock MSG_ALIVE cadence.
	// Defaults to the lib/config default (2s).
	HeartbeatInterval time.Duration

	// IdleTimeout is the accumulated scaled simulation time of
	// operator inactivity that terminates the session. Defaults to the
	// lib/config default (120s).
	IdleTimeout time.Duration

	// DisconnectTimeout is the larger inactivity span reserved for a
	// launcher-side disconnect. Stored and exposed, not yet acted on.
	DisconnectTimeout time.Duration

	// Terminate is invoked when the idle watchdog expires or the host
	// requests termination. Nil means termination is only logged and
	// published; embedding hosts that own the process exit pass their
	// quit function here.
	Terminate func()

	// Clock supplies wall-clock reads for the heartbeat cadence.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Supervisor owns the session lifecycle: heartbeat cadence, idle
// watchdog, ready/finish sequencing, and the dispatch queue that hands
// background work back to the tick goroutine.
//
// All methods except the Bus subscriptions and Queue producers must be
// called from the host tick goroutine.
type Supervisor struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger
	queue  *dispatch.Queue
	bus    *Bus

	client Client
	runID  uuid.UUID

	lastHeartbeat time.Time
	idle          time.Duration
	loaded        bool
	initialized   bool
}

// New creates a Supervisor. It performs no I/O; call Initialize before
// the first tick.
func New(cfg Config) (*Supervisor, error) {
	if cfg.Client == nil && cfg.NewClient == nil {
		return nil, fmt.Errorf("session: either Client or NewClient must be set")
	}

	defaults := config.Default()
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaults.Session.HeartbeatInterval.Std()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaults.Session.IdleTimeout.Std()
	}
	if cfg.DisconnectTimeout <= 0 {
		cfg.DisconnectTimeout = defaults.Session.DisconnectTimeout.Std()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Supervisor{
		cfg:    cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		queue:  dispatch.New(cfg.Logger),
		bus:    NewBus(),
		client: cfg.Client,
	}, nil
}

// Bus returns the lifecycle event bus.
func (s *Supervisor) Bus() *Bus { return s.bus }

// Queue returns the action dispatch queue. Background goroutines
// enqueue; the supervisor drains at the start of every Tick.
func (s *Supervisor) Queue() *dispatch.Queue { return s.queue }

// Client returns the protocol client, or nil between Shutdown and the
// next Initialize.
func (s *Supervisor) Client() Client { return s.client }

// Loaded reports whether the last MarkReady attempt succeeded.
func (s *Supervisor) Loaded() bool { return s.loaded }

// Initialize constructs the protocol client if needed, probes launcher
// visibility for diagnostics, and publishes EventInitialized. The
// probe is best-effort: a failure is logged, not fatal, because the
// session can run without knowing who owns the screen.
func (s *Supervisor) Initialize() error {
	if s.client == nil {
		if s.cfg.NewClient == nil {
			return fmt.Errorf("session: no client and no NewClient factory")
		}
		client, err := s.cfg.NewClient()
		if err != nil {
			return fmt.Errorf("session: constructing protocol client: %w", err)
		}
		s.client = client
	}

	s.runID = uuid.New()
	s.idle = 0
	s.loaded = false
	s.lastHeartbeat = s.clock.Now()
	s.initialized = true

	visible, err := s.client.IsLauncherVisible()
	if err != nil {
		s.logger.Warn("launcher visibility probe failed",
			"run_id", s.runID, "error", err)
	} else {
		s.logger.Info("session initialized",
			"run_id", s.runID, "launcher_visible", visible)
	}

	s.publish(Event{Type: EventInitialized})
	return nil
}

// Tick advances the supervisor by one host frame. delta is the
// simulation time since the previous tick; timeScale is the host's
// current time scaling, clamped here to [0, 1] so a fast-forwarding
// host cannot shorten the idle timeout and a paused host does not
// accumulate idle time at all.
//
// Tick must run on the single designated tick goroutine. It drains the
// dispatch queue first, so deferred background results are observed
// before this frame's watchdog decisions.
func (s *Supervisor) Tick(delta time.Duration, timeScale float64) {
	s.queue.Drain()

	if !s.initialized {
		return
	}

	// Heartbeat cadence runs on real elapsed wall time, independent of
	// simulation scaling: a paused game must still look alive to the
	// launcher.
	if s.clock.Since(s.lastHeartbeat) >= s.cfg.HeartbeatInterval {
		s.lastHeartbeat = s.clock.Now()
		s.client.SendAlive()
		s.publish(Event{Type: EventHeartbeat})
	}

	scale := min(max(timeScale, 0), 1)
	s.idle += time.Duration(float64(delta) * scale)

	if s.idle >= s.cfg.IdleTimeout {
		s.idle = 0
		s.logger.Warn("idle timeout reached, terminating session",
			"run_id", s.runID, "timeout", s.cfg.IdleTimeout)
		s.terminate("idle timeout")
	}
}

// RequestTermination ends the session immediately, independent of the
// idle watchdog. Hosts wire their operator quit signal (for example a
// key release) to this.
func (s *Supervisor) RequestTermination() {
	s.logger.Info("termination requested", "run_id", s.runID)
	s.terminate("operator request")
}

// terminate publishes EventTerminated and invokes the host hook.
func (s *Supervisor) terminate(reason string) {
	s.publish(Event{Type: EventTerminated, Reason: reason})
	if s.cfg.Terminate != nil {
		s.cfg.Terminate()
	}
}

// MarkReady reports the game has finished loading. The ready event is
// published after the attempt regardless of outcome, with the error
// attached, so observers choose between optimistic and confirmed
// semantics. The returned error is the same outcome for the direct
// caller.
func (s *Supervisor) MarkReady() error {
	if s.client == nil {
		return fmt.Errorf("session: MarkReady before Initialize")
	}

	err := s.client.SetLoaded()
	s.loaded = err == nil
	if err != nil {
		s.logger.Warn("marking session loaded failed", "run_id", s.runID, "error", err)
	}

	s.publish(Event{Type: EventReady, Err: err})
	return err
}

// Shutdown reports the session finished and releases the protocol
// client so a later Initialize starts clean. The SET_FINISHED call is
// best-effort: its failure is logged, never raised, because shutdown
// must always complete.
func (s *Supervisor) Shutdown() {
	if s.client == nil {
		return
	}

	if err := s.client.SetFinished(); err != nil {
		s.logger.Warn("marking session finished failed", "run_id", s.runID, "error", err)
	}
	if err := s.client.Close(); err != nil {
		s.logger.Warn("closing protocol client failed", "run_id", s.runID, "error", err)
	}

	s.client = nil
	s.initialized = false
}

// ResetIdleTime clears accumulated idle time. Hosts call this on
// operator activity, or to suppress the watchdog through known-busy
// stretches such as loading screens.
func (s *Supervisor) ResetIdleTime() { s.idle = 0 }

// IdleTime returns the accumulated idle time.
func (s *Supervisor) IdleTime() time.Duration { return s.idle }

// DisconnectTimeout returns the configured disconnect threshold. The
// supervisor does not act on it yet; hosts that implement their own
// disconnect UX read it from here.
func (s *Supervisor) DisconnectTimeout() time.Duration { return s.cfg.DisconnectTimeout }

// LoadPlayerPositions fetches the occupied player places, preceded by
// a heartbeat so the launcher sees activity around the query. Returns
// nil when no client is available, and an empty slice when the query
// itself failed (logged, not raised).
func (s *Supervisor) LoadPlayerPositions() []bool {
	if s.client == nil {
		return nil
	}

	s.client.SendAlive()

	places, err := s.client.PlayerPlaces()
	if err != nil {
		s.logger.Warn("loading player places failed", "run_id", s.runID, "error", err)
		return []bool{}
	}
	return places
}

// publish stamps and delivers a lifecycle event.
func (s *Supervisor) publish(event Event) {
	event.Time = s.clock.Now()
	event.RunID = s.runID
	s.bus.Publish(event)
}
