package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/nav"
	"github.com/five82/snapback/internal/prefs"
	"github.com/five82/snapback/internal/state"
)

// Controller is the set of user gestures the UI can trigger. Network
// handlers block and are run as commands; the rest are in-memory.
type Controller interface {
	Store() *state.Store
	Login(ctx context.Context, username, password string)
	RefreshBuckets(ctx context.Context)
	BeginSelect(bucket archive.Bucket) (state.Ticket, bool)
	LoadMedia(ctx context.Context, ticket state.Ticket)
	OpenItem(item archive.MediaItem)
	Back()
	ResourceURL(item archive.MediaItem) (string, bool)
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Controller   Controller
	BaseURL      string
	ThemeName    string
	PrefsPath    string
	RefreshEvery time.Duration
}

type pane int

const (
	paneBuckets pane = iota
	paneItems
)

const (
	fieldUsername = iota
	fieldPassword
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	ctrl         Controller
	baseURL      string
	prefsPath    string
	refreshEvery time.Duration

	// UI state
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme
	width   int
	height  int
	ready   bool
	notice  string

	// Data state
	snapshot state.Snapshot

	// Login state
	inputs    [2]textinput.Model
	focusIdx  int
	signingIn bool

	// Browse state
	focus        pane
	bucketCursor int
	itemCursor   int

	// Detail state
	detailURL string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = 200 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dusk"
	}

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 128
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 256
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	m := Model{
		ctx:          ctx,
		ctrl:         opts.Controller,
		baseURL:      opts.BaseURL,
		prefsPath:    opts.PrefsPath,
		refreshEvery: refreshEvery,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		inputs:       [2]textinput.Model{user, pass},
	}
	m.applyTheme(GetTheme(themeName))
	if m.ctrl != nil {
		m.snapshot = m.ctrl.Store().Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		tickCmd(m.refreshEvery),
	}
	if m.ctrl != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.ctrl.Store()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
		if m.ctrl != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.ctrl.Store()))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case actionDoneMsg:
		m.signingIn = false
		return m, fetchSnapshotCmd(m.ctrl.Store())

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied " + msg.url
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.snapshot.Screen == nav.ScreenLogin {
		return m.updateInputs(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	styles := t.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText
	m.spinner.Style = styles.WarningText
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Screen != nav.ScreenLogin && m.inputs[fieldPassword].Value() != "" {
		m.inputs[fieldPassword].SetValue("")
	}
	m.snapshot = snap
	m.bucketCursor = clamp(m.bucketCursor, len(snap.Buckets))
	m.itemCursor = clamp(m.itemCursor, len(snap.Items))
}

func (m Model) refreshSnapshot() Model {
	if m.ctrl != nil {
		m.applySnapshot(m.ctrl.Store().Snapshot())
	}
	return m
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.snapshot.Screen == nav.ScreenLogin {
		return m.handleLoginKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.notice = "Theme not saved: " + err.Error()
		} else {
			m.notice = "Theme " + m.theme.Name
		}
		return m, nil
	}

	switch m.snapshot.Screen {
	case nav.ScreenBrowse:
		return m.handleBrowseKey(msg)
	case nav.ScreenDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m.focusField(m.focusIdx + 1), nil
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField(m.focusIdx - 1), nil
	case key.Matches(msg, m.keys.Submit):
		if m.focusIdx == fieldUsername && m.inputs[fieldPassword].Value() == "" {
			return m.focusField(fieldPassword), nil
		}
		if m.signingIn || m.ctrl == nil {
			return m, nil
		}
		m.signingIn = true
		m.notice = ""
		return m, loginCmd(m.ctx, m.ctrl, m.inputs[fieldUsername].Value(), m.inputs[fieldPassword].Value())
	}
	return m.updateInputs(msg)
}

// focusField moves focus between the two login fields, wrapping around.
func (m Model) focusField(idx int) Model {
	m.focusIdx = ((idx % len(m.inputs)) + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		if i == m.focusIdx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-1 << 20)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(1 << 20)
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == paneBuckets {
			m.focus = paneItems
		} else {
			m.focus = paneBuckets
		}
	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, refreshCmd(m.ctx, m.ctrl)
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneBuckets {
		m.bucketCursor = clamp(m.bucketCursor+delta, len(m.snapshot.Buckets))
		return
	}
	m.itemCursor = clamp(m.itemCursor+delta, len(m.snapshot.Items))
}

// activate selects the bucket under the cursor or opens the highlighted item.
func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.focus == paneBuckets {
		if len(m.snapshot.Buckets) == 0 {
			return m, nil
		}
		// The ticket is taken here, on the event loop, so selections are
		// ordered by key press and not by when their commands get to run.
		ticket, ok := m.ctrl.BeginSelect(m.snapshot.Buckets[m.bucketCursor])
		if !ok {
			return m.refreshSnapshot(), nil
		}
		m.focus = paneItems
		m.itemCursor = 0
		m.notice = ""
		return m.refreshSnapshot(), loadMediaCmd(m.ctx, m.ctrl, ticket)
	}

	if len(m.snapshot.Items) == 0 {
		return m, nil
	}
	m.ctrl.OpenItem(m.snapshot.Items[m.itemCursor])
	m = m.refreshSnapshot()
	m.detailURL = ""
	if m.snapshot.HasDetail {
		if u, ok := m.ctrl.ResourceURL(m.snapshot.Detail); ok {
			m.detailURL = u
		}
		m = m.refreshSnapshot()
	}
	m.notice = ""
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
		m.detailURL = ""
		m.notice = ""
		return m.refreshSnapshot(), nil
	case key.Matches(msg, m.keys.Copy):
		if m.detailURL == "" {
			return m, nil
		}
		return m, copyCmd(m.detailURL)
	}
	return m, nil
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionDoneMsg struct{}

type copiedMsg struct {
	url string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loginCmd(ctx context.Context, c Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		c.Login(ctx, username, password)
		return actionDoneMsg{}
	}
}

func refreshCmd(ctx context.Context, c Controller) tea.Cmd {
	return func() tea.Msg {
		c.RefreshBuckets(ctx)
		return actionDoneMsg{}
	}
}

func loadMediaCmd(ctx context.Context, c Controller, ticket state.Ticket) tea.Cmd {
	return func() tea.Msg {
		c.LoadMedia(ctx, ticket)
		return actionDoneMsg{}
	}
}

func copyCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{url: url, err: clipboard.WriteAll(url)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Controller == nil {
		return errors.New("ui requires a controller")
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
