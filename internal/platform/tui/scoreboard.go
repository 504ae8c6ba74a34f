package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/storage"
)

const maxRuns = 100

// resultFilter narrows the table to one outcome.
type resultFilter int

const (
	filterAll resultFilter = iota
	filterWon
	filterLost
)

func (f resultFilter) String() string {
	switch f {
	case filterWon:
		return "won"
	case filterLost:
		return "lost"
	}
	return "all"
}

func (f resultFilter) keep(r storage.Run) bool {
	return f == filterAll || r.Outcome == f.String()
}

type scoreboardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Filter, k.Back}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

var defaultScoreboardKeys = scoreboardKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next game")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev game")),
	Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "won/lost")),
	Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// ScoreboardModel lists stored runs per game.
type ScoreboardModel struct {
	store  *storage.Store
	games  []registry.GameInfo
	game   int
	filter resultFilter

	all   []storage.Run // every loaded run of the selected game
	shown []storage.Run // all, narrowed by filter
	stats map[string]storage.GameStats

	table  table.Model
	help   help.Model
	keys   scoreboardKeys
	width  int
	height int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel loads the runs of the first registered game.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		games:  registry.List(),
		help:   help.New(),
		keys:   defaultScoreboardKeys,
		width:  width,
		height: height,
	}
	m.table = newRunTable(width, height)
	if store != nil {
		if stats, err := store.Stats(); err == nil {
			m.stats = stats
		}
	}
	m.reload()
	return m
}

func newRunTable(width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Lvl", Width: 4},
		{Title: "Time", Width: 8},
		{Title: "Result", Width: 6},
		{Title: "Seed", Width: 12},
		{Title: "Date", Width: 12},
	}
	// Wide terminals show full seeds.
	if extra := width - 70; extra > 0 {
		columns[5].Width += min(extra, 8)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.game].ID
}

// reload fetches the selected game's runs and reapplies the filter.
func (m *ScoreboardModel) reload() {
	m.all = nil
	if id := m.gameID(); id != "" && m.store != nil {
		if runs, err := m.store.TopRuns(id, maxRuns); err == nil {
			m.all = runs
		}
	}
	m.refilter()
}

func (m *ScoreboardModel) refilter() {
	m.shown = nil
	rows := make([]table.Row, 0, len(m.all))
	for _, r := range m.all {
		if !m.filter.keep(r) {
			continue
		}
		m.shown = append(m.shown, r)
		rows = append(rows, table.Row{
			strconv.Itoa(len(m.shown)),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level + 1),
			fmt.Sprintf("%.1fs", r.Elapsed),
			r.Outcome,
			strconv.FormatInt(r.Seed, 10),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) step(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.game = (m.game + delta + len(m.games)) % len(m.games)
	m.reload()
}

// Selected returns the highlighted run.
func (m ScoreboardModel) Selected() (storage.Run, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.shown) {
		return storage.Run{}, false
	}
	return m.shown[i], true
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % 3
			m.refilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = newRunTable(m.width, m.height)
		m.refilter()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render("BEST RUNS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(boardDimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	if len(m.shown) == 0 {
		empty := "No runs recorded yet.\nFinish a game to see it here."
		if len(m.all) > 0 {
			empty = fmt.Sprintf("No %s runs.", m.filter)
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
			boardFrameStyle.Render(boardDimStyle.Italic(true).Padding(1, 4).Render(empty))))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boardFrameStyle.Render(m.table.View())))
		if r, ok := m.Selected(); ok {
			b.WriteString("\n")
			b.WriteString(centerText(boardDimStyle.Render(
				fmt.Sprintf("run %s  same seed: arcade play %s --seed %d", r.ID, r.GameID, r.Seed)), m.width))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders the game strip, or just the selected game when it does not fit.
func (m ScoreboardModel) tabs() string {
	if len(m.games) == 0 {
		return ""
	}
	parts := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.game {
			parts[i] = boardActiveTab.Render(g.Title)
		} else {
			parts[i] = boardTabStyle.Render(g.Title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width-4 {
		line = boardActiveTab.Render(fmt.Sprintf("< %s >", m.games[m.game].Title))
	}
	return line
}

func (m ScoreboardModel) statsLine() string {
	line := "showing " + m.filter.String()
	st, ok := m.stats[m.gameID()]
	if !ok || st.Runs == 0 {
		return line
	}
	return fmt.Sprintf("%s  |  %d runs  %d wins  best %d  avg %.0f  played %.0fs",
		line, st.Runs, st.Wins, st.HighScore, st.AvgScore, st.TotalTime)
}

// IsGoingBack reports whether the user asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program and reports whether
// the user went back to the menu.
func RunScoreboard(store *storage.Store, width, height int) (bool, error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
