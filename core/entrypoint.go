package core

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/encodeous/dvsim/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

type Options struct {
	LogLevel slog.Level
	// LogPath, if not empty, receives a plain-text copy of the log
	LogPath string
	// Prefix is printed in front of every console log line
	Prefix string
	// DebugAddr, if not empty, serves /debug/metrics, /debug/vars and pprof while the simulation runs
	DebugAddr string
	Observer  Observer
	// Commander enables manual stepping
	Commander Commander
}

// NewLogger fans out to a tint console handler on stderr and, if logPath is set, a text handler on
// that file. The returned func closes the file.
func NewLogger(level slog.Level, prefix, logPath string) (*slog.Logger, func() error, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	closer := func() error { return nil }
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func serveDebug(addr string, log *slog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving debug endpoints", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("debug server stopped", "error", err)
		}
	}()
	return srv
}

// Start builds the simulation for cfg and runs it to completion. SIGINT/SIGTERM stop it between rounds.
func Start(cfg *state.SimCfg, opts Options) (*Simulator, Result, error) {
	if opts.Prefix == "" {
		opts.Prefix = state.DefaultLogPrefix
	}
	logger, closeLog, err := NewLogger(opts.LogLevel, opts.Prefix, opts.LogPath)
	if err != nil {
		return nil, Result{}, err
	}
	defer func() {
		_ = closeLog()
	}()

	sim, err := New(cfg, logger, opts.Observer)
	if err != nil {
		return nil, Result{}, err
	}
	if opts.Commander != nil {
		sim.SetCommander(opts.Commander)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	if opts.DebugAddr != "" {
		srv := serveDebug(opts.DebugAddr, logger)
		defer func() {
			_ = srv.Close()
		}()
	}

	res, err := sim.Run(ctx)
	return sim, res, err
}
