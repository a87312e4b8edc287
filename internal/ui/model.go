// Package ui implements the terminal interface: a library list over the
// catalog with a transport bar driven by playback service events.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/fable/internal/errmsg"
	"github.com/llehouerou/fable/internal/importer"
	"github.com/llehouerou/fable/internal/playback"
	"github.com/llehouerou/fable/internal/store"
)

// sleepPresets are cycled through by the sleep timer key. Zero means off
// and -1 means stop at the end of the current chapter.
var sleepPresets = []time.Duration{
	0,
	15 * time.Minute,
	30 * time.Minute,
	45 * time.Minute,
	time.Hour,
	-1,
}

type Model struct {
	catalog store.Catalog
	svc     playback.Service
	imp     *importer.Importer
	folders []string
	sub     *playback.Subscription

	titles []store.Title
	cursor int

	filterInput textinput.Model
	filtering   bool

	filter store.Filter
	sort   store.Sort

	session  playback.Session
	status   string
	scanning bool

	width  int
	height int
}

func New(catalog store.Catalog, svc playback.Service, imp *importer.Importer, folders []string) Model {
	ti := textinput.New()
	ti.Placeholder = "filter by name or author"
	ti.CharLimit = 64

	return Model{
		catalog:     catalog,
		svc:         svc,
		imp:         imp,
		folders:     folders,
		sub:         svc.Subscribe(),
		filterInput: ti,
		session:     svc.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadTitles(m.catalog, m.query()),
		watchService(m.sub),
	)
}

func (m Model) query() store.Query {
	return store.Query{Filter: m.filter, Sort: m.sort}
}

// visible returns the titles matching the text filter.
func (m Model) visible() []store.Title {
	needle := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if needle == "" {
		return m.titles
	}
	var out []store.Title
	for _, t := range m.titles {
		if strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(t.Author), needle) {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selected() *store.Title {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return &visible[m.cursor]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateKeys(msg)

	case serviceStateMsg, serviceRateMsg, serviceSleepMsg:
		m.session = m.svc.Snapshot()
		return m, watchService(m.sub)

	case serviceTitleMsg:
		m.session = m.svc.Snapshot()
		// End of media flips the finished flag, so refresh the list.
		return m, tea.Batch(loadTitles(m.catalog, m.query()), watchService(m.sub))

	case servicePositionMsg:
		m.session.Position = msg.Position
		return m, watchService(m.sub)

	case sleepElapsedMsg:
		m.session = m.svc.Snapshot()
		m.status = "Sleep timer elapsed"
		return m, watchService(m.sub)

	case serviceErrorMsg:
		m.status = errmsg.FormatWith(errmsg.Op(msg.Op), msg.Path, msg.Err)
		return m, watchService(m.sub)

	case serviceClosedMsg:
		return m, tea.Quit

	case titlesLoadedMsg:
		if msg.err != nil {
			m.status = errmsg.Format(errmsg.OpLibraryLoad, msg.err)
			return m, nil
		}
		m.titles = msg.titles
		if m.cursor >= len(m.visible()) {
			m.cursor = max(0, len(m.visible())-1)
		}
		return m, nil

	case scanFinishedMsg:
		m.scanning = false
		if msg.err != nil {
			m.status = errmsg.Format(errmsg.OpLibraryScan, msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Scan done: %d added, %d known, %d failed",
			len(msg.report.Added), msg.report.Skipped, len(msg.report.Failed))
		return m, loadTitles(m.catalog, m.query())
	}

	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filterInput.Blur()
		if msg.String() == "esc" {
			m.filterInput.SetValue("")
		}
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.visible())-1)

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "enter":
		if t := m.selected(); t != nil {
			m.svc.Load(*t)
			m.svc.Play()
		}
	case " ":
		m.svc.Toggle()
	case "s":
		m.svc.Stop()
	case "left", "h":
		m.svc.SkipBackward()
	case "right", "l":
		m.svc.SkipForward()
	case "+", "=":
		m.svc.SetRate(playback.NextRate(m.svc.Rate()))
	case "-":
		m.svc.SetRate(playback.PrevRate(m.svc.Rate()))

	case "t":
		m.cycleSleepTimer()

	case "f":
		if t := m.selected(); t != nil {
			if _, err := m.catalog.ToggleFavorite(t.ID); err != nil {
				m.status = errmsg.FormatWith(errmsg.OpFavoriteToggle, t.Name, err)
				return m, nil
			}
			return m, loadTitles(m.catalog, m.query())
		}
	case "R":
		if t := m.selected(); t != nil {
			if err := m.catalog.Reset(t.ID); err != nil {
				m.status = errmsg.FormatWith(errmsg.OpTitleReset, t.Name, err)
				return m, nil
			}
			return m, loadTitles(m.catalog, m.query())
		}
	case "m":
		if t := m.selected(); t != nil {
			if err := m.catalog.MarkFinished(t.ID); err != nil {
				m.status = errmsg.FormatWith(errmsg.OpTitleFinish, t.Name, err)
				return m, nil
			}
			return m, loadTitles(m.catalog, m.query())
		}

	case "F":
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		return m, loadTitles(m.catalog, m.query())
	case "o":
		m.sort = nextSort(m.sort)
		m.cursor = 0
		return m, loadTitles(m.catalog, m.query())

	case "r":
		if !m.scanning && len(m.folders) > 0 {
			m.scanning = true
			m.status = "Scanning library..."
			return m, scanLibrary(m.imp, m.folders)
		}
	}

	return m, nil
}

// cycleSleepTimer advances to the next sleep preset based on the
// currently shown sleep state.
func (m *Model) cycleSleepTimer() {
	current := 0
	switch {
	case m.session.SleepEndOfChapter:
		current = len(sleepPresets) - 1
	case m.session.SleepRemaining > 0:
		// Snap the running countdown to the preset that started it.
		for i := 1; i < len(sleepPresets)-1; i++ {
			if m.session.SleepRemaining <= sleepPresets[i] {
				current = i
				break
			}
		}
	}

	next := sleepPresets[(current+1)%len(sleepPresets)]
	switch next {
	case 0:
		m.svc.CancelSleepTimer()
	case -1:
		m.svc.SetSleepTimerEndOfChapter()
	default:
		m.svc.SetSleepTimer(next)
	}
	m.session = m.svc.Snapshot()
}

func nextFilter(f store.Filter) store.Filter {
	switch f {
	case store.FilterAll:
		return store.FilterUnfinished
	case store.FilterUnfinished:
		return store.FilterFinished
	case store.FilterFinished:
		return store.FilterFavorites
	default:
		return store.FilterAll
	}
}

func nextSort(s store.Sort) store.Sort {
	switch s {
	case store.SortByName:
		return store.SortByAuthor
	case store.SortByAuthor:
		return store.SortByRecent
	default:
		return store.SortByName
	}
}
