package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/fable/internal/playback"
	"github.com/llehouerou/fable/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	transportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

const transportHeight = 3 // top border + content + bottom border

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString(m.transportView())

	if m.status != "" {
		style := dimStyle
		if strings.HasPrefix(m.status, "Failed") {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}

	return b.String()
}

func (m Model) headerView() string {
	header := headerStyle.Render("fable") + dimStyle.Render(
		fmt.Sprintf("  %s · %s", filterLabel(m.filter), sortLabel(m.sort)))
	if m.filtering || m.filterInput.Value() != "" {
		header += "  " + m.filterInput.View()
	}
	return header
}

func (m Model) listHeight() int {
	// header + blank + transport + status line
	h := m.height - 2 - transportHeight - 1
	if h < 1 {
		h = 10
	}
	return h
}

func (m Model) listView() string {
	visible := m.visible()
	if len(visible) == 0 {
		return dimStyle.Render("  library is empty - press r to scan") + "\n"
	}

	height := m.listHeight()
	offset := 0
	if m.cursor >= height {
		offset = m.cursor - height + 1
	}

	var b strings.Builder
	for i := offset; i < len(visible) && i < offset+height; i++ {
		b.WriteString(m.rowView(&visible[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) rowView(t *store.Title, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	fav := " "
	if t.IsFavorite() {
		fav = "★"
	}

	left := fmt.Sprintf("%s%s %s", marker, fav, t.Name)
	if t.Author != "" {
		left += dimStyle.Render(" — " + t.Author)
	}

	right := progressLabel(t)
	if selected && !t.LastPlayedAt.IsZero() {
		right = dimStyle.Render("last played "+humanize.Time(t.LastPlayedAt)) + "  " + right
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if padding < 1 {
		padding = 1
	}

	row := left + strings.Repeat(" ", padding) + right
	if selected {
		return cursorStyle.Render(row)
	}
	return row
}

// progressLabel renders completion for a list row: a checkmark when
// finished, a percentage when started, nothing when untouched.
func progressLabel(t *store.Title) string {
	if t.Finished {
		return "✓"
	}
	if t.Position <= 0 || t.Duration <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(float64(t.Position)/float64(t.Duration)*100))
}

func (m Model) transportView() string {
	if m.session.Title == nil {
		return ""
	}

	status := stateIcon(m.session.State)
	left := fmt.Sprintf(" %s  %s", status, m.session.Title.Name)

	var extras []string
	if m.session.Rate != 1.0 {
		extras = append(extras, fmt.Sprintf("%gx", m.session.Rate))
	}
	if m.session.SleepEndOfChapter {
		extras = append(extras, "sleep: end of chapter")
	} else if m.session.SleepRemaining > 0 {
		extras = append(extras, "sleep: "+formatDuration(m.session.SleepRemaining))
	}
	if len(extras) > 0 {
		left += dimStyle.Render("  [" + strings.Join(extras, ", ") + "]")
	}

	right := fmt.Sprintf("%s / %s ",
		formatDuration(m.session.Position), formatDuration(m.session.Duration))

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	padding := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	content := left + strings.Repeat(" ", padding) + right
	return transportStyle.Width(innerWidth).Render(content)
}

func stateIcon(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "▶"
	case playback.StatePaused:
		return "⏸"
	case playback.StateBuffering:
		return "…"
	default:
		return "■"
	}
}

func filterLabel(f store.Filter) string {
	switch f {
	case store.FilterUnfinished:
		return "unfinished"
	case store.FilterFinished:
		return "finished"
	case store.FilterFavorites:
		return "favorites"
	default:
		return "all"
	}
}

func sortLabel(s store.Sort) string {
	switch s {
	case store.SortByAuthor:
		return "by author"
	case store.SortByRecent:
		return "recent"
	default:
		return "by name"
	}
}

// formatDuration renders h:mm:ss, dropping the hour when zero.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mnt := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mnt, s)
	}
	return fmt.Sprintf("%d:%02d", mnt, s)
}
