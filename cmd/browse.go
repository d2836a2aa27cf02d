package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/ghsearch/internal/cli"
	"github.com/lox/ghsearch/internal/search"
)

type BrowseCmd struct {
	Query string `arg:"" optional:"" help:"Initial search query"`
}

func (c *BrowseCmd) Run(ctx *Context) error {
	if !isInteractiveTerminal() {
		return fmt.Errorf("browse needs an interactive terminal; use 'ghsearch search' instead")
	}
	// The TUI owns stderr; debug output only goes to --log-file.
	if ctx.LogFile == "" {
		ctx.Debug = false
	}

	log, err := ctx.Logger()
	if err != nil {
		return err
	}
	ctrl, err := cli.RequireController(log)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newBrowseModel(context.Background(), ctrl, c.Query), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

type browseFocus int

const (
	browseFocusInput browseFocus = iota
	browseFocusList
)

// Lines of View output that are not list rows.
const browseChromeLines = 7

type submitMsg struct{}

type fetchDoneMsg struct {
	resp search.Response
}

type browseKeyMap struct {
	Submit   key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Focus    key.Binding
	Quit     key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G")),
		Focus:    key.NewBinding(key.WithKeys("tab", "/"), key.WithHelp("tab", "switch focus")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q/esc", "quit")),
	}
}

type browseModel struct {
	ctx     context.Context
	ctrl    *search.Controller
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    browseKeyMap

	focus  browseFocus
	snap   search.Snapshot
	cursor int
	offset int
	width  int
	height int
}

func newBrowseModel(ctx context.Context, ctrl *search.Controller, query string) browseModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Search for GitHub users"
	input.CharLimit = 256
	input.SetValue(query)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C15838"))

	return browseModel{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   input,
		spinner: sp,
		help:    help.New(),
		keys:    newBrowseKeyMap(),
		snap:    ctrl.Snapshot(),
		width:   80,
		height:  24,
	}
}

func (m browseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if strings.TrimSpace(m.input.Value()) != "" {
		cmds = append(cmds, func() tea.Msg { return submitMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		if m.snap.HasError() {
			return m, nil
		}
		return m, m.loadMoreIfNearEnd()

	case submitMsg:
		return m.submit()

	case fetchDoneMsg:
		m.ctrl.Apply(msg.resp)
		m.snap = m.ctrl.Snapshot()
		m.clampCursor()
		// A failed page is only retried when the user scrolls again.
		if m.snap.HasError() {
			return m, nil
		}
		return m, m.loadMoreIfNearEnd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case browseFocusInput:
			return m.updateInput(msg)
		case browseFocusList:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m browseModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "tab", "down":
		if len(m.snap.Items) > 0 {
			m.focus = browseFocusList
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.focus = browseFocusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.visibleRows())
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.snap.Items))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.snap.Items))
	default:
		return m, nil
	}
	return m, m.loadMoreIfNearEnd()
}

// submit forwards the "query submitted" event.
func (m browseModel) submit() (tea.Model, tea.Cmd) {
	req := m.ctrl.StartSearch(m.input.Value())
	if req == nil {
		return m, nil
	}
	m.snap = m.ctrl.Snapshot()
	m.cursor, m.offset = 0, 0
	m.focus = browseFocusList
	m.input.Blur()
	return m, m.fetch(req)
}

// loadMoreIfNearEnd forwards the "end of visible list reached" event once
// less than half a screen of results remains below the viewport.
func (m *browseModel) loadMoreIfNearEnd() tea.Cmd {
	if !m.nearEnd() {
		return nil
	}
	req := m.ctrl.LoadMore()
	if req == nil {
		return nil
	}
	m.snap = m.ctrl.Snapshot()
	return m.fetch(req)
}

func (m browseModel) fetch(req *search.Request) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{resp: req.Do(ctx)}
	}
}

func (m browseModel) nearEnd() bool {
	if m.snap.Query == "" {
		return false
	}
	visible := m.visibleRows()
	return m.offset+visible+visible/2 >= len(m.snap.Items)
}

func (m browseModel) visibleRows() int {
	return max(1, m.height-browseChromeLines)
}

func (m *browseModel) moveCursor(delta int) {
	if len(m.snap.Items) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.snap.Items)-1)
	m.scrollToCursor()
}

func (m *browseModel) clampCursor() {
	if len(m.snap.Items) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(m.cursor, len(m.snap.Items)-1)
	m.scrollToCursor()
}

func (m *browseModel) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m browseModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C15838"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("GitHub User Search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	end := min(m.offset+m.visibleRows(), len(m.snap.Items))
	for i := m.offset; i < end; i++ {
		u := m.snap.Items[i]
		line := fmt.Sprintf("%-32s %s", u.Login, infoStyle.Render(u.Type))
		if i == m.cursor && m.focus == browseFocusList {
			b.WriteString(selectedStyle.Render("› ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.snap.IsLoading():
		b.WriteString(m.spinner.View() + " Loading…")
	case m.snap.HasError():
		b.WriteString(errStyle.Render("Error: " + m.snap.Err.Error()))
	case m.snap.Query != "":
		b.WriteString(infoStyle.Render(fmt.Sprintf("%d of %d users", len(m.snap.Items), m.snap.TotalCount)))
	}
	b.WriteString("\n")

	b.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Submit, m.keys.Up, m.keys.Down, m.keys.Focus, m.keys.Quit,
	}))
	return b.String()
}
