package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"baggedflix/internal/catalog"
	"baggedflix/internal/media"
	"baggedflix/internal/paginator"
	"baggedflix/internal/watchlist"
)

// searchDebounce is how long search input must be idle before it commits to
// the active query. Intermediate keystrokes produce no request.
const searchDebounce = 500 * time.Millisecond

// loadAhead triggers the next page fetch when the cursor gets this close to
// the end of the accumulated list.
const loadAhead = 10

type pageMsg struct {
	page paginator.Page
}

type debounceMsg struct {
	seq int
}

type browseModel struct {
	pag       *paginator.Paginator
	watchlist *watchlist.Store

	search    textinput.Model
	spin      spinner.Model
	searching bool // search input focused
	seq       int  // debounce sequence; only the latest tick commits

	genreIdx int // index into catalog.Genres, -1 for all
	cursor   int
	top      int // first visible row
	width    int
	height   int

	choice *media.Item
}

// Browse runs the interactive catalog browser and returns the chosen item,
// or ErrCancelled when the user quits without choosing.
func Browse(pag *paginator.Paginator, wl *watchlist.Store) (*media.Item, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 128

	m := browseModel{
		pag:       pag,
		watchlist: wl,
		search:    ti,
		spin:      sp,
		genreIdx:  -1,
		height:    24,
		width:     80,
	}
	for i, g := range catalog.Genres {
		if g == pag.Query().Genre {
			m.genreIdx = i
			break
		}
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("running browser: %w", err)
	}

	fm := final.(browseModel)
	if fm.choice == nil {
		return nil, ErrCancelled
	}
	return fm.choice, nil
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadMore())
}

// loadMore issues the next page fetch as a command. The paginator guards
// against duplicate triggers while a fetch is outstanding.
func (m *browseModel) loadMore() tea.Cmd {
	fetch, ok := m.pag.Begin()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return pageMsg{page: fetch(context.Background())}
	}
}

// setQuery switches the active query and kicks off the first fetch.
func (m *browseModel) setQuery(q paginator.Query) tea.Cmd {
	m.pag.SetQuery(q)
	m.cursor = 0
	m.top = 0
	return m.loadMore()
}

func (m *browseModel) query() paginator.Query { return m.pag.Query() }

func (m *browseModel) genre() string {
	if m.genreIdx < 0 {
		return ""
	}
	return catalog.Genres[m.genreIdx]
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pageMsg:
		m.pag.Commit(msg.page)
		return m, nil

	case debounceMsg:
		// Only the last value within the debounce window commits.
		if !m.searching || msg.seq != m.seq {
			return m, nil
		}
		q := m.query()
		q.Search = strings.TrimSpace(m.search.Value())
		q.Genre = ""
		return m, m.setQuery(q)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateSearch handles keys while the search input is focused.
func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		q := m.query()
		q.Search = ""
		return m, m.setQuery(q)
	case "enter":
		m.searching = false
		m.search.Blur()
		q := m.query()
		q.Search = strings.TrimSpace(m.search.Value())
		q.Genre = ""
		return m, m.setQuery(q)
	case "ctrl+c":
		return m, tea.Quit
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	// Input changed: restart the debounce window.
	m.seq++
	seq := m.seq
	return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	}))
}

// updateList handles keys in the list view.
func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.pag.Items()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "enter":
		if m.cursor < len(items) {
			item := items[m.cursor]
			m.choice = &item
			return m, tea.Quit
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "pgup":
		m.cursor -= m.visibleRows()
		if m.cursor < 0 {
			m.cursor = 0
		}

	case "pgdown":
		m.cursor += m.visibleRows()
		if m.cursor >= len(items) {
			m.cursor = len(items) - 1
		}

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "t":
		q := m.query()
		if q.Type == media.Movie {
			q.Type = media.Series
		} else {
			q.Type = media.Movie
		}
		q.Search = ""
		return m, m.setQuery(q)

	case "g":
		m.genreIdx++
		if m.genreIdx >= len(catalog.Genres) {
			m.genreIdx = -1
		}
		q := m.query()
		q.Genre = m.genre()
		q.Search = ""
		return m, m.setQuery(q)

	case "w":
		if m.cursor < len(items) {
			item := items[m.cursor]
			if m.watchlist.Contains(item.ID) {
				m.watchlist.Remove(item.ID)
			} else {
				m.watchlist.Add(item)
			}
		}
	}

	m.scrollToCursor()

	// Infinite scroll: approaching the end of the list pulls the next page.
	if len(items)-m.cursor <= loadAhead {
		return m, m.loadMore()
	}
	return m, nil
}

func (m *browseModel) visibleRows() int {
	rows := m.height - 4 // header, search line, footer
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *browseModel) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+rows {
		m.top = m.cursor - rows + 1
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	q := m.query()
	header := fmt.Sprintf("baggedflix | %s", q.Type)
	if q.Genre != "" {
		header += " / " + q.Genre
	}
	if q.Search != "" {
		header += fmt.Sprintf(" / search: %q", q.Search)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(dimStyle.Render("/ search · t movies/series · g genre · w watchlist · q quit"))
	}
	b.WriteString("\n")

	items := m.pag.Items()
	rows := m.visibleRows()

	switch {
	case len(items) == 0 && m.pag.Loading():
		b.WriteString(fmt.Sprintf("\n  %s loading…\n", m.spin.View()))
	case len(items) == 0:
		b.WriteString("\n  No results.\n")
	default:
		end := m.top + rows
		if end > len(items) {
			end = len(items)
		}
		for i := m.top; i < end; i++ {
			b.WriteString(m.renderRow(items[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	status := fmt.Sprintf("%d items", len(items))
	if m.pag.Loading() {
		status += "  " + m.spin.View() + " loading more"
	} else if m.pag.Exhausted() && len(items) > 0 {
		status += "  · end of list"
	}
	b.WriteString(statusStyle.Render(status))

	return b.String()
}

func (m browseModel) renderRow(item media.Item, active bool) string {
	label := item.Name
	if item.Year != "" {
		label += dimStyle.Render(" (" + item.Year + ")")
	}
	if item.IMDBRating != "" {
		label += dimStyle.Render(" ★" + item.IMDBRating)
	}
	if m.watchlist.Contains(item.ID) {
		label += statusStyle.Render(" +")
	}
	if active {
		return selectedStyle.Render("> ") + label
	}
	return "  " + label
}
