package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/basket/internal/logtail"
)

type logState struct {
	entries []logtail.Entry
	follow  bool
	err     error
}

type logLinesMsg struct {
	entries []logtail.Entry
}

type logErrorMsg struct {
	err error
}

// refreshLogs reads the tail of the log file off the event loop.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logLinesMsg{entries: logtail.ParseLines(lines)}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.entries = msg.entries
	m.logState.err = nil
	m.logViewport.SetContent(m.renderLogLines())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// handleLogsKey scrolls the log pane. It reports whether msg was consumed.
func (m *Model) handleLogsKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return true, m.refreshLogs()
		}
		return true, nil
	case key.Matches(msg, m.keys.PageUp):
		m.logState.follow = false
		m.logViewport.HalfViewUp()
		return true, nil
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfViewDown()
		return true, nil
	}
	return false, nil
}

func (m *Model) resizeLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(LogPaneHeight-2, 0)
	m.logViewport.SetContent(m.renderLogLines())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogLines formats entries with the level colored by severity.
func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	if len(m.logState.entries) == 0 {
		return styles.FaintText.Render("No log entries yet.")
	}

	lines := make([]string, 0, len(m.logState.entries))
	for _, e := range m.logState.entries {
		if !e.Structured() {
			lines = append(lines, styles.MutedText.Render(e.Raw))
			continue
		}
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
			b.WriteByte(' ')
		}
		b.WriteString(m.levelStyle(e.Level).Render(strings.ToUpper(e.Level)))
		b.WriteByte(' ')
		b.WriteString(styles.Text.Render(e.Message))
		if fields := e.FieldString(); fields != "" {
			b.WriteByte(' ')
			b.WriteString(styles.MutedText.Render(fields))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// renderLogs renders the log pane.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := "Log"
	if m.logState.follow {
		title += " (following)"
	}
	header := styles.AccentText.Bold(true).Render(title)
	if m.logState.err != nil {
		header += "  " + styles.DangerText.Render(m.logState.err.Error())
	}

	return styles.Border.
		Border(lipgloss.RoundedBorder()).
		Width(max(m.width-2, 0)).
		Render(header + "\n" + m.logViewport.View())
}
