package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/nav"
)

const bucketPaneWidth = 22

func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	var body string
	switch m.snapshot.Screen {
	case nav.ScreenLogin:
		body = m.renderLogin(bodyHeight)
	case nav.ScreenBrowse:
		body = m.renderBrowse(bodyHeight)
	case nav.ScreenDetail:
		body = m.renderDetail(bodyHeight)
	}
	body = lipgloss.NewStyle().Width(m.width).Height(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	status := bg.Render("signed out", styles.MutedText)
	if m.snapshot.Authenticated {
		status = bg.Render("signed in", styles.SuccessText)
	}

	var loading string
	switch {
	case m.signingIn:
		loading = m.spinner.View() + bg.Spaces(1) + bg.Render("signing in", styles.WarningText)
	case m.snapshot.Loading:
		loading = m.spinner.View() + bg.Spaces(1) +
			bg.Render("loading "+bucketLabel(m.snapshot.Pending), styles.WarningText)
	}

	parts := []string{
		bg.Render("snapback", styles.Logo),
		bg.Render(truncateMiddle(m.baseURL, 48), styles.MutedText),
		status,
		loading,
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, bg.Spaces(2)))
}

// renderFooter shows the error or notice line above the key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var line string
	switch {
	case m.snapshot.ErrorMessage != "":
		line = bg.Render(m.snapshot.ErrorMessage, styles.DangerText)
	case m.notice != "":
		line = bg.Render(truncate(m.notice, max(m.width-2, 0)), styles.MutedText)
	}

	var keys screenKeys
	switch m.snapshot.Screen {
	case nav.ScreenLogin:
		keys = m.keys.login()
	case nav.ScreenBrowse:
		keys = m.keys.browse()
	default:
		keys = m.keys.detail()
	}

	rows := []string{m.help.View(keys)}
	if line != "" {
		rows = append([]string{line}, rows...)
	}
	return styles.Footer.Width(m.width).Render(strings.Join(rows, "\n"))
}

func (m Model) renderLogin(height int) string {
	styles := m.theme.Styles()

	lines := []string{
		styles.AccentText.Bold(true).Render("Sign in to the archive"),
		styles.FaintText.Render(m.baseURL),
		"",
		styles.MutedText.Render("Username"),
		m.inputs[fieldUsername].View(),
		"",
		styles.MutedText.Render("Password"),
		m.inputs[fieldPassword].View(),
	}
	if m.signingIn {
		lines = append(lines, "", m.spinner.View()+" "+styles.WarningText.Render("Signing in..."))
	}

	box := styles.FocusedPane.Width(40).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderBrowse(height int) string {
	styles := m.theme.Styles()
	inner := max(height-2, 1)

	leftStyle, rightStyle := styles.Pane, styles.FocusedPane
	if m.focus == paneBuckets {
		leftStyle, rightStyle = styles.FocusedPane, styles.Pane
	}

	left := leftStyle.
		Width(bucketPaneWidth).
		Height(inner).
		Render(m.renderBucketList(inner, bucketPaneWidth-2))

	rightWidth := max(m.width-bucketPaneWidth-4, 20)
	right := rightStyle.
		Width(rightWidth).
		Height(inner).
		Render(m.renderItemList(inner, rightWidth-2))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderBucketList(rows, width int) string {
	styles := m.theme.Styles()
	buckets := m.snapshot.Buckets
	if len(buckets) == 0 {
		return styles.FaintText.Render("No months")
	}

	start := scrollStart(m.bucketCursor, len(buckets), rows)
	end := min(start+rows, len(buckets))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		b := buckets[i]
		marker := "  "
		if m.snapshot.HasActiveBucket && m.snapshot.ActiveBucket.Equal(b) {
			marker = "● "
		}
		if m.snapshot.Loading && m.snapshot.Pending.Equal(b) {
			marker = m.spinner.View() + " "
		}
		label := padRight(marker+truncate(bucketLabel(b), width-2), width)
		switch {
		case i == m.bucketCursor && m.focus == paneBuckets:
			lines = append(lines, styles.Selected.Render(label))
		case i == m.bucketCursor:
			lines = append(lines, styles.AccentText.Render(label))
		default:
			lines = append(lines, styles.Text.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItemList(rows, width int) string {
	styles := m.theme.Styles()
	items := m.snapshot.Items
	if len(items) == 0 {
		switch {
		case m.snapshot.Loading:
			return styles.WarningText.Render("Loading " + bucketLabel(m.snapshot.Pending) + "...")
		case !m.snapshot.HasActiveBucket:
			return styles.FaintText.Render("Select a month")
		default:
			return styles.FaintText.Render("No images in " + bucketLabel(m.snapshot.ActiveBucket))
		}
	}

	title := styles.MutedText.Render(fmt.Sprintf("%s · %d images", bucketLabel(m.snapshot.ActiveBucket), len(items)))
	rows--

	start := scrollStart(m.itemCursor, len(items), rows)
	end := min(start+rows, len(items))
	lines := []string{title}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderItemRow(items[i], i == m.itemCursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItemRow(item archive.MediaItem, selected bool, width int) string {
	styles := m.theme.Styles()
	pathWidth := max(width-30, 8)
	row := padRight(fmt.Sprintf("%6d  %-20s  %s",
		item.ID,
		truncate(item.MetadataDate, 20),
		truncateMiddle(item.Filepath, pathWidth),
	), width)
	switch {
	case selected && m.focus == paneItems:
		return styles.Selected.Render(row)
	case selected:
		return styles.AccentText.Render(row)
	default:
		return styles.Text.Render(row)
	}
}

func (m Model) renderDetail(height int) string {
	styles := m.theme.Styles()
	if !m.snapshot.HasDetail {
		return styles.FaintText.Render("Nothing selected")
	}
	item := m.snapshot.Detail

	url := m.detailURL
	urlStyle := styles.AccentText
	if url == "" {
		url = "unavailable"
		urlStyle = styles.DangerText
	}

	label := func(s string) string {
		return styles.MutedText.Render(padRight(s, 8))
	}
	lines := []string{
		styles.Text.Bold(true).Render(truncateMiddle(item.Filepath, max(m.width-8, 10))),
		"",
		label("Month") + styles.Text.Render(bucketLabel(m.snapshot.ActiveBucket)),
		label("ID") + styles.Text.Render(fmt.Sprintf("%d", item.ID)),
		label("Date") + styles.Text.Render(item.MetadataDate),
		label("Type") + styles.MediaStyle(item.MediaType).Render(item.MediaType),
		label("URL") + urlStyle.Render(url),
	}

	return styles.FocusedPane.
		Width(max(m.width-2, 20)).
		Height(max(height-2, 1)).
		Render(strings.Join(lines, "\n"))
}

// scrollStart returns the first visible row so that cursor stays on screen.
func scrollStart(cursor, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := cursor - rows + 1
	if start < 0 {
		return 0
	}
	return min(start, total-rows)
}
