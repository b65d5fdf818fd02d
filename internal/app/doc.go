// Package app provides the orchestration layer for the snapback application.
//
// # Overview
//
// This package wires together configuration, logging, the archive client,
// state management, and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/snapback/config.toml
//  2. Open the log file (the terminal belongs to the TUI)
//  3. Build the archive.Client for the configured base URL
//  4. Create the Controller around a fresh state.Store
//  5. Start the TUI and block until the user exits or the context cancels
//
// Unlike a daemon monitor there is no pre-flight reachability check: the
// archive is first contacted when the user signs in, and a failure there is
// an on-screen message rather than a fatal error.
//
// # Components
//
//   - app.go: Run and Options
//   - controller.go: user gestures to archive calls to store updates
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read snapback config
//	       ├─────> logging.New()        File logger
//	       ├─────> archive.NewClient()  HTTP client
//	       ├─────> NewController()      Session, catalog, media, store
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Controller handler (runs as a tea.Cmd):
//	┌─────────────────────────────────────────┐
//	│ SelectBucket(ctx, bucket)               │
//	│  ├─> store.BeginMedia()   ticket        │
//	│  ├─> media.FetchMedia()                 │
//	│  └─> store.CommitMedia(ticket)          │
//	│      (stale tickets are discarded)      │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Log file cannot be opened
//   - Base URL cannot be parsed
//
// Everything after startup is recoverable. Controller handlers never return
// errors; they log the cause and publish a short message through the store,
// leaving the rest of the state untouched.
package app
