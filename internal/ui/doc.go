// Package ui provides a terminal user interface for snapback.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never talks to the archive itself: key
// presses call a Controller, and the screen is redrawn from state.Store
// snapshots. Handlers that hit the network run as tea.Cmds so the event loop
// stays responsive; a short tick re-reads the store so a loading spinner and
// late responses show up without extra plumbing.
//
// # Package Structure
//
//   - app.go: Model, Update, key handling, commands, and Run
//   - views.go: rendering for the login, browse and detail screens
//   - keys.go: key bindings and per-screen help
//   - theme.go: color themes and Lipgloss styles
//   - style_helpers.go: background-filling render helper for bars
//   - strings.go: label and truncation helpers
//
// # Screens
//
//   - Login: username and masked password fields
//   - Browse: month list on the left, image list for the active month on the right
//   - Detail: one image with its resource URL; esc returns to the list unchanged
//
// # Themes
//
// T cycles Dusk, Kanagawa and Paper. The choice is written to prefs.toml.
package ui
