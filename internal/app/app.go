package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/config"
	"github.com/five82/snapback/internal/logging"
	"github.com/five82/snapback/internal/prefs"
	"github.com/five82/snapback/internal/state"
	"github.com/five82/snapback/internal/ui"
)

// Options configure the snapback application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/snapback/prefs.toml
	BaseURL    string // overrides base_url from config when set
	LogLevel   string // overrides log_level from config when set
	Version    string
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		if cfg.LogLevel, err = config.ParseLevel(v); err != nil {
			return err
		}
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userAgent := "snapback"
	if opts.Version != "" {
		userAgent += "/" + opts.Version
	}
	client, err := archive.NewClient(archive.ClientConfig{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.RequestTimeout,
		MinInterval: cfg.MinRequestInterval,
		UserAgent:   userAgent,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("init archive client: %w", err)
	}

	logger.Info("starting",
		"base_url", client.BaseURL(),
		"list_policy", cfg.ListPolicy.String(),
	)

	controller := NewController(client, &state.Store{}, cfg.ListPolicy, logger)
	userPrefs := prefs.Load(opts.PrefsPath)

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: controller,
		BaseURL:    client.BaseURL(),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
	})
}
