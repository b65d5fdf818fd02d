// snapback-fake serves a seeded in-memory archive for trying snapback
// without a real backend. Sign in as demo / demo.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/five82/snapback/internal/config"
	"github.com/five82/snapback/internal/fakearchive"
	"github.com/five82/snapback/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("snapback-fake", pflag.ContinueOnError)
	addr := flags.String("addr", "127.0.0.1:4000", "listen address")
	rawToken := flags.Bool("raw-token", false, "answer logins with a plain text token")
	logLevel := flags.String("log-level", "info", "debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	level, err := config.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapback-fake: %v\n", err)
		return 2
	}
	logger := logging.NewWriter(os.Stderr, level)

	opts := fakearchive.Demo()
	opts.RawToken = *rawToken
	srv := &http.Server{
		Addr:              *addr,
		Handler:           requestLog(logger, fakearchive.New(opts)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving fake archive", "addr", *addr, "raw_token", *rawToken)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
			return 1
		}
	}
	return 0
}

func requestLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}
