package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/snapback/internal/app"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("snapback", pflag.ContinueOnError)
	configPath := flags.String("config", "", "override config path (optional)")
	baseURL := flags.String("base-url", "", "archive address, overrides base_url (optional)")
	prefsPath := flags.String("prefs", "", "override preferences path (optional)")
	logLevel := flags.String("log-level", "", "debug, info, warn or error (optional)")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Println("snapback", version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		BaseURL:    *baseURL,
		LogLevel:   *logLevel,
		Version:    version,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "snapback: %v\n", err)
		return 1
	}
	return 0
}
