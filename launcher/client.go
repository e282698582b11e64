// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cabinet-foundation/cabinet/lib/config"
)

// Command and reply tokens. Case-sensitive literals; the launcher side
// defines them and they are not negotiated.
const (
	commandSetLoaded        = "SET_LOADED"
	commandSetFinished      = "SET_FINISHED"
	commandGetLauncherState = "GET_LAUNCHERSTATE"
	commandGetPlayerPlaces  = "GET_PLAYERPLACES"
	commandAlive            = "MSG_ALIVE"
	commandSetHighscore     = "SET_HIGHSCORE"

	replyOkay       = "MSG_OKAY"
	replyFailed     = "MSG_FAILED"
	replyDataPrefix = "MSG_DATA#"
)

// Config configures a protocol Client.
type Config struct {
	// Address is the launcher's host:port. Defaults to loopback port
	// 21037 when empty.
	Address string

	// DialTimeout bounds the TCP connect of every round trip.
	DialTimeout time.Duration

	// IOTimeout bounds the send phase and the receive phase, each.
	IOTimeout time.Duration

	// Sandbox short-circuits every operation to a benign default
	// without touching the network. Used on development machines with
	// no launcher process.
	Sandbox bool

	// Logger receives per-operation debug records and fire-and-forget
	// failure reports. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client translates session operations into launcher wire commands.
// It is the single owner of the session state; SetLoaded and
// SetFinished mutate it before their network call commits, matching
// the launcher's historical contract.
//
// Blocking operations are safe for concurrent use; the state field is
// guarded. In the intended design all state-changing calls come from
// the host tick goroutine anyway.
type Client struct {
	address     string
	dialTimeout time.Duration
	ioTimeout   time.Duration
	sandbox     bool
	logger      *slog.Logger

	stateMu sync.Mutex
	state   SessionState

	// heartbeats tracks in-flight fire-and-forget sends so Close can
	// wait for them instead of leaking goroutines through shutdown.
	heartbeats sync.WaitGroup
}

// New creates a Client. Zero-value timeouts fall back to the defaults
// from lib/config.
func New(cfg Config) *Client {
	defaults := config.Default()
	if cfg.Address == "" {
		cfg.Address = defaults.Launcher.Address
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaults.Launcher.DialTimeout.Std()
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = defaults.Launcher.IOTimeout.Std()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		address:     cfg.Address,
		dialTimeout: cfg.DialTimeout,
		ioTimeout:   cfg.IOTimeout,
		sandbox:     cfg.Sandbox,
		logger:      cfg.Logger,
		state:       StateLoading,
	}
}

// NewFromConfig creates a Client from a loaded master configuration.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	return New(Config{
		Address:     cfg.Launcher.Address,
		DialTimeout: cfg.Launcher.DialTimeout.Std(),
		IOTimeout:   cfg.Launcher.IOTimeout.Std(),
		Sandbox:     cfg.Sandboxed(),
		Logger:      logger,
	})
}

// State returns the current session state.
func (c *Client) State() SessionState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Client) setState(state SessionState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}

// Sandboxed reports whether the client is short-circuiting to no-ops.
func (c *Client) Sandboxed() bool { return c.sandbox }

// SetLoaded marks the session as playing and tells the launcher the
// game finished loading. The state transition happens before the
// network call; a failure leaves the state at StatePlaying and returns
// the error so callers can observe both events separately.
func (c *Client) SetLoaded() error {
	c.setState(StatePlaying)
	if c.sandbox {
		return nil
	}
	return c.expectOkay(commandSetLoaded)
}

// SetFinished marks the session as finished and tells the launcher.
// Same ordering contract as SetLoaded.
func (c *Client) SetFinished() error {
	c.setState(StateFinished)
	if c.sandbox {
		return nil
	}
	return c.expectOkay(commandSetFinished)
}

// IsLauncherVisible asks whether the launcher currently owns the
// screen. MSG_OKAY means not visible, MSG_FAILED means visible. In
// sandbox mode the launcher is never visible.
func (c *Client) IsLauncherVisible() (bool, error) {
	if c.sandbox {
		return false, nil
	}
	reply, err := c.exchange(commandGetLauncherState)
	if err != nil {
		return false, err
	}
	switch reply {
	case replyOkay:
		return false, nil
	case replyFailed:
		return true, nil
	default:
		return false, &ProtocolError{
			Command: commandGetLauncherState,
			Reply:   reply,
			Reason:  "want MSG_OKAY or MSG_FAILED",
		}
	}
}

// PlayerPlaces returns which player positions on the cabinet are
// occupied, one boolean per position in launcher order. The reply must
// be MSG_DATA# followed by only '0' and '1' characters; anything else
// is a protocol error. Sandbox mode reports no positions.
func (c *Client) PlayerPlaces() ([]bool, error) {
	if c.sandbox {
		return nil, nil
	}
	reply, err := c.exchange(commandGetPlayerPlaces)
	if err != nil {
		return nil, err
	}

	payload, ok := strings.CutPrefix(reply, replyDataPrefix)
	if !ok {
		return nil, &ProtocolError{
			Command: commandGetPlayerPlaces,
			Reply:   reply,
			Reason:  "missing MSG_DATA# prefix",
		}
	}

	places := make([]bool, 0, len(payload))
	for _, ch := range payload {
		switch ch {
		case '0':
			places = append(places, false)
		case '1':
			places = append(places, true)
		default:
			return nil, &ProtocolError{
				Command: commandGetPlayerPlaces,
				Reply:   reply,
				Reason:  fmt.Sprintf("payload character %q is not 0 or 1", ch),
			}
		}
	}
	return places, nil
}

// SendAlive sends the liveness heartbeat as fire-and-forget: the round
// trip runs on a background goroutine and its outcome is discarded.
// This is the only operation that neither blocks nor reports failure;
// a dead launcher shows up through its own idle tracking, not through
// heartbeat errors.
func (c *Client) SendAlive() {
	if c.sandbox {
		return
	}
	c.heartbeats.Add(1)
	go func() {
		defer c.heartbeats.Done()
		if _, err := c.exchange(commandAlive); err != nil {
			c.logger.Debug("heartbeat send failed", "error", err)
		}
	}()
}

// SetHighscore submits a player's final score. The payload packs the
// player index as 2-digit and the score as 8-digit uppercase hex, both
// zero-padded: SET_HIGHSCORE#0500000F9C for player 5 scoring 3996.
func (c *Client) SetHighscore(playerIndex int, score uint32) error {
	if playerIndex < 0 || playerIndex > 0xFF {
		return fmt.Errorf("player index %d does not fit the 2-digit payload field", playerIndex)
	}
	if c.sandbox {
		return nil
	}
	command := fmt.Sprintf("%s#%02X%08X", commandSetHighscore, playerIndex, score)
	return c.expectOkay(command)
}

// Close waits for in-flight heartbeat goroutines to finish. The client
// holds no persistent connection, so there is nothing else to release.
func (c *Client) Close() error {
	c.heartbeats.Wait()
	return nil
}

// expectOkay runs a round trip and requires the exact MSG_OKAY reply.
func (c *Client) expectOkay(command string) error {
	reply, err := c.exchange(command)
	if err != nil {
		return err
	}
	if reply != replyOkay {
		return &ProtocolError{Command: command, Reply: reply, Reason: "want MSG_OKAY"}
	}
	return nil
}

// exchange performs one full protocol round trip: dial, write the
// encoded command, half-close the write side, read the reply until the
// launcher closes, decode. One connection per request; the launcher
// does not support pipelining.
func (c *Client) exchange(command string) (string, error) {
	conn, err := net.DialTimeout("tcp", c.address, c.dialTimeout)
	if err != nil {
		return "", &TransportError{Command: command, Phase: "dial", Err: err}
	}
	defer conn.Close()

	payload, err := encodeWire(command)
	if err != nil {
		return "", &TransportError{Command: command, Phase: "send", Err: err}
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.ioTimeout)); err != nil {
		return "", &TransportError{Command: command, Phase: "send", Err: err}
	}
	if _, err := conn.Write(payload); err != nil {
		return "", &TransportError{Command: command, Phase: "send", Err: err}
	}

	// Half-close so the launcher sees end of command; it frames its
	// reply the same way, by closing when done.
	if closer, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := closer.CloseWrite(); err != nil {
			return "", &TransportError{Command: command, Phase: "send", Err: err}
		}
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.ioTimeout)); err != nil {
		return "", &TransportError{Command: command, Phase: "receive", Err: err}
	}
	raw, err := readUntilClose(conn)
	if err != nil {
		return "", &TransportError{Command: command, Phase: "receive", Err: err}
	}

	reply, err := decodeWire(raw)
	if err != nil {
		return "", &ProtocolError{Command: command, Reply: string(raw), Reason: err.Error()}
	}

	c.logger.Debug("launcher round trip", "command", command, "reply", reply)
	return reply, nil
}
