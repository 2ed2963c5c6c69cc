package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/alchemist/internal/auth"
	"github.com/desertthunder/alchemist/internal/library"
	"github.com/desertthunder/alchemist/internal/player"
	"github.com/desertthunder/alchemist/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	CodeView
	LibraryView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	flow       *auth.Flow
	cache      *library.Cache
	controller *player.Controller
	width      int
	height     int
	emailInput textinput.Model
	codeInput  textinput.Model
	entryList  list.Model
	listReady  bool
	status     string
	err        error
	busy       bool
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, flow *auth.Flow, cache *library.Cache, controller *player.Controller) *Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.CharLimit = 254
	emailInput.Focus()

	codeInput := textinput.New()
	codeInput.Placeholder = "123456"
	codeInput.CharLimit = 6

	view := LoginView
	if flow.Phase() == auth.LoggedIn {
		view = LibraryView
	}

	return &Model{
		ctx:        ctx,
		view:       view,
		flow:       flow,
		cache:      cache,
		controller: controller,
		emailInput: emailInput,
		codeInput:  codeInput,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts listening for playback updates and, for a restored session,
// refreshes the library.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForPlayback()}
	if m.view == LibraryView {
		cmds = append(cmds, m.refreshLibrary())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case CodeView:
			return m.handleCodeKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		}

	case codeRequestedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.resp.Detail
		if msg.resp.DebugCode != "" {
			m.status = fmt.Sprintf("%s (code: %s)", msg.resp.Detail, msg.resp.DebugCode)
		}
		m.view = CodeView
		m.codeInput.SetValue("")
		m.codeInput.Focus()
		return m, nil

	case codeVerifiedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.syncView()
			return m, nil
		}
		m.err = nil
		m.status = ""
		m.view = LibraryView
		m.rebuildList()
		return m, nil

	case libraryRefreshedMsg:
		m.busy = false
		m.err = msg.err
		m.syncView()
		if m.view == LibraryView {
			m.rebuildList()
		}
		return m, nil

	case playbackMsg:
		if msg.Kind == player.UpdateFailed {
			m.err = msg.Err
		} else {
			m.err = nil
		}
		return m, m.waitForPlayback()
	}

	return m.updateChildren(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case CodeView:
		return m.renderCode()
	case LibraryView:
		return m.renderLibrary()
	default:
		return ""
	}
}

// syncView realigns the visible view with the auth phase after an operation
// that may have downgraded the session.
func (m *Model) syncView() {
	switch m.flow.Phase() {
	case auth.LoggedOut:
		m.view = LoginView
		m.emailInput.Focus()
	case auth.CodeRequested:
		m.view = CodeView
	case auth.LoggedIn:
		m.view = LibraryView
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.requestCode(m.emailInput.Value())
	}

	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	return m, cmd
}

func (m *Model) handleCodeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = LoginView
		m.err = nil
		m.emailInput.Focus()
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.verifyCode(m.codeInput.Value())
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.listReady {
			if item, ok := m.entryList.SelectedItem().(entryItem); ok {
				m.controller.Select(item.entry)
			}
		}
		return m, nil
	case " ":
		m.controller.TogglePlayPause()
		return m, nil
	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.refreshLibrary()
	case "o":
		if m.listReady {
			if item, ok := m.entryList.SelectedItem().(entryItem); ok {
				if url := item.entry.Track.PageURL(); url != "" {
					m.err = shared.OpenBrowser(url)
				}
			}
		}
		return m, nil
	case "ctrl+l":
		if err := m.flow.Logout(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = ""
		m.view = LoginView
		m.emailInput.SetValue("")
		m.emailInput.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.listReady {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case CodeView:
		m.codeInput, cmd = m.codeInput.Update(msg)
	case LibraryView:
		if m.listReady {
			m.entryList, cmd = m.entryList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) rebuildList() {
	entries := m.cache.Entries()
	items := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = entryItem{entry: entry}
	}

	if !m.listReady {
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = "Library"
		m.listReady = true
	} else {
		m.entryList.SetItems(items)
	}
	m.entryList.SetSize(m.width-4, m.height-8)

	// First load cues the first entry so the now-playing bar has a subject,
	// without starting playback. An existing selection is never displaced.
	if _, ok := m.controller.Selection(); !ok && len(entries) > 0 {
		m.controller.Cue(entries[0])
	}
}

func (m *Model) requestCode(email string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.flow.RequestCode(m.ctx, email)
		return codeRequestedMsg{resp: resp, err: err}
	}
}

func (m *Model) verifyCode(code string) tea.Cmd {
	email := m.flow.PendingEmail()
	return func() tea.Msg {
		return codeVerifiedMsg{err: m.flow.VerifyCode(m.ctx, email, code)}
	}
}

func (m *Model) refreshLibrary() tea.Cmd {
	return func() tea.Msg {
		return libraryRefreshedMsg{err: m.flow.Refresh(m.ctx)}
	}
}

func (m *Model) waitForPlayback() tea.Cmd {
	return func() tea.Msg {
		return playbackMsg(<-m.controller.Updates())
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	prompt := fmt.Sprintf("Email:\n%s", m.emailInput.View())

	footer := styles.help.Render("enter submit • ctrl+c quit")
	if m.busy {
		footer = styles.help.Render("requesting code...")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", title, prompt, m.renderError(), footer)
}

func (m *Model) renderCode() string {
	title := styles.title.Render("Enter the code we emailed you")
	status := ""
	if m.status != "" {
		status = styles.warn.Render(m.status) + "\n"
	}
	prompt := fmt.Sprintf("Code for %s:\n%s", m.flow.PendingEmail(), m.codeInput.View())

	footer := styles.help.Render("enter verify • esc back • ctrl+c quit")
	if m.busy {
		footer = styles.help.Render("verifying...")
	}

	return fmt.Sprintf("%s\n%s%s\n%s\n%s", title, status, prompt, m.renderError(), footer)
}

func (m *Model) renderLibrary() string {
	if !m.listReady {
		return styles.help.Render("Loading library...")
	}

	status := m.renderNowPlaying()
	footer := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.toggle, m.keys.refresh, m.keys.open, m.keys.logout, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n%s", m.entryList.View(), status, m.renderError(), footer)
}

func (m *Model) renderNowPlaying() string {
	entry, ok := m.controller.Selection()
	if !ok {
		return styles.help.Render("Nothing selected")
	}

	state := "paused"
	if m.controller.Playing() {
		state = "playing"
	}
	line := fmt.Sprintf("%s - %s [%s]", entry.Track.Credit(), entry.Track.Title, state)
	if !entry.Track.Playable() {
		line = fmt.Sprintf("%s - %s [no audio]", entry.Track.Credit(), entry.Track.Title)
	}
	return styles.ok.Render("♪ " + line)
}

func (m *Model) renderError() string {
	if m.err == nil {
		return ""
	}
	msg := m.err.Error()
	if errors.Is(m.err, shared.ErrUnauthorized) {
		msg = "Session expired, sign in again"
	}
	return styles.err.Render(msg)
}
