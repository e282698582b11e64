// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// cabinet-session is an operator diagnostic tool for the launcher
// protocol. It speaks the same wire protocol as a running game, so a
// technician can probe a cabinet's launcher from a shell:
//
//	cabinet-session visible        # is the launcher on screen?
//	cabinet-session places         # which player positions are occupied?
//	cabinet-session alive          # send one heartbeat
//	cabinet-session loaded         # report the game as loaded
//	cabinet-session finished       # report the session as finished
//	cabinet-session highscore 2 4200
//	cabinet-session watch          # run the full supervisor loop until interrupted
//
// Configuration comes from CABINET_CONFIG or --config, with CABINET_*
// environment overrides; --address wins over everything for one-off
// probes against a non-standard port.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cabinet-foundation/cabinet/launcher"
	"github.com/cabinet-foundation/cabinet/lib/config"
	"github.com/cabinet-foundation/cabinet/lib/version"
	"github.com/cabinet-foundation/cabinet/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var address string
	var sandbox bool
	var verbose bool

	flagSet := pflag.NewFlagSet("cabinet-session", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to cabinet.yaml (default: CABINET_CONFIG)")
	flagSet.StringVar(&address, "address", "", "launcher address, overrides config")
	flagSet.BoolVar(&sandbox, "sandbox", false, "short-circuit protocol calls to no-ops")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every protocol round trip")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Cabinet binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("cabinet-session")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("missing operation")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Launcher.Address = address
	}
	if sandbox {
		cfg.Launcher.Sandbox = &sandbox
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(verbose)
	client := launcher.NewFromConfig(cfg, logger)
	defer client.Close()

	switch operation := args[0]; operation {
	case "visible":
		visible, err := client.IsLauncherVisible()
		if err != nil {
			return err
		}
		fmt.Println(visible)
		return nil

	case "places":
		places, err := client.PlayerPlaces()
		if err != nil {
			return err
		}
		for i, occupied := range places {
			fmt.Printf("place %d: %v\n", i, occupied)
		}
		if len(places) == 0 {
			fmt.Println("no places reported")
		}
		return nil

	case "alive":
		client.SendAlive()
		return client.Close() // wait for the background send

	case "loaded":
		return client.SetLoaded()

	case "finished":
		return client.SetFinished()

	case "highscore":
		if len(args) != 3 {
			return fmt.Errorf("usage: cabinet-session highscore <player> <score>")
		}
		player, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("player index %q: %w", args[1], err)
		}
		score, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("score %q: %w", args[2], err)
		}
		return client.SetHighscore(player, uint32(score))

	case "watch":
		return watch(cfg, client, logger)

	default:
		return fmt.Errorf("unknown operation %q", operation)
	}
}

// loadConfig resolves the config file path the same way every Cabinet
// binary does: explicit flag first, then CABINET_CONFIG, then built-in
// defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger builds a text handler for interactive terminals and a JSON
// handler when stderr is redirected, so captured logs stay parseable.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, options))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, options))
}

// watchTickInterval approximates a host frame for the soak loop.
const watchTickInterval = 100 * time.Millisecond

// watch runs the real supervisor loop against the wall clock until
// interrupted, then shuts the session down cleanly. Useful for soak
// testing a launcher: heartbeats flow on cadence and the idle watchdog
// runs for real.
func watch(cfg *config.Config, client *launcher.Client, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor, err := session.New(session.Config{
		Client:            client,
		HeartbeatInterval: cfg.Session.HeartbeatInterval.Std(),
		IdleTimeout:       cfg.Session.IdleTimeout.Std(),
		DisconnectTimeout: cfg.Session.DisconnectTimeout.Std(),
		Terminate:         stop,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	for _, eventType := range []session.EventType{
		session.EventInitialized,
		session.EventReady,
		session.EventHeartbeat,
		session.EventTerminated,
	} {
		supervisor.Bus().Subscribe(eventType, func(e session.Event) {
			logger.Info("session event", "type", e.Type, "reason", e.Reason, "error", e.Err)
		})
	}

	if err := supervisor.Initialize(); err != nil {
		return err
	}
	if err := supervisor.MarkReady(); err != nil {
		logger.Warn("mark ready failed, continuing", "error", err)
	}

	ticker := time.NewTicker(watchTickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			supervisor.Shutdown()
			return nil
		case now := <-ticker.C:
			supervisor.Tick(now.Sub(last), 1)
			last = now
		}
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `cabinet-session - launcher protocol diagnostics

Usage:
  cabinet-session [flags] <operation> [args]

Operations:
  visible              report whether the launcher owns the screen
  places               list occupied player positions
  alive                send one MSG_ALIVE heartbeat
  loaded               report the game as loaded (SET_LOADED)
  finished             report the session as finished (SET_FINISHED)
  highscore <p> <s>    submit score s for player index p
  watch                run the supervisor loop until interrupted

Flags:
%s`, flagSet.FlagUsages())
}
