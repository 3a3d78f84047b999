package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/session"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FestivalListView ViewState = iota
	GeneratingView
	ResultView
)

// Engine is the subset of [tasks.LineupEngine] the TUI drives.
type Engine interface {
	Generate(ctx context.Context, festivalID string, opts tasks.GenerateOpts, progress chan<- tasks.ProgressUpdate) (*tasks.LineupResult, error)
	LoadUser(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*models.UserProfile, error)
	Session() *session.Session
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       Engine
	width        int
	height       int
	festivalList list.Model
	selected     *models.Festival
	resultTable  table.Model
	bar          progress.Model
	opts         tasks.GenerateOpts
	user         *models.UserProfile
	userErr      error
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	sessionChan  chan Msg
	unsubscribe  func()
	progress     tasks.ProgressUpdate
	result       *tasks.LineupResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model listing festivals.
func NewModel(ctx context.Context, engine Engine, festivals []models.Festival, opts tasks.GenerateOpts) *Model {
	festivalList := list.New(festivalItems(festivals), list.NewDefaultDelegate(), 0, 0)
	festivalList.Title = "Festivals"
	festivalList.SetShowHelp(false)

	sessionChan := make(chan Msg, 16)
	unsubscribe := engine.Session().Subscribe(func(ev session.Event, snap session.Snapshot) {
		select {
		case sessionChan <- sessionChangedMsg(ev, snap):
		default:
		}
	})

	return &Model{
		ctx:          ctx,
		view:         FestivalListView,
		engine:       engine,
		festivalList: festivalList,
		resultTable:  table.New(table.WithColumns(resultColumns), table.WithFocused(true)),
		bar:          progress.New(progress.WithDefaultGradient()),
		opts:         opts,
		sessionChan:  sessionChan,
		unsubscribe:  unsubscribe,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init loads the signed-in user's profile for the header.
func (m *Model) Init() tea.Cmd {
	return m.loadUser()
}

// Close stops listening for session changes.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.festivalList.SetSize(msg.Width-4, msg.Height-8)
		m.resultTable.SetHeight(max(msg.Height-10, 5))
		m.bar.Width = max(msg.Width-10, 20)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FestivalListView:
			return m.handleFestivalListKeys(msg)
		case GeneratingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == FestivalListView {
		m.festivalList, cmd = m.festivalList.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgUserLoaded:
		data := msg.data.(userLoaded)
		m.user, m.userErr = data.user, data.err
		return m, waitForSession(m.sessionChan)

	case MsgSessionChanged:
		data := msg.data.(sessionChanged)
		switch data.event {
		case session.EventReset:
			m.user, m.userErr = nil, shared.ErrNotAuthenticated
		case session.EventUser:
			if data.snapshot.User != nil {
				m.user, m.userErr = data.snapshot.User, nil
			}
		}
		return m, waitForSession(m.sessionChan)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgGenerateComplete:
		data := msg.data.(generateComplete)
		m.result, m.err = data.result, data.err
		m.progressChan, m.doneChan = nil, nil
		if data.result != nil {
			m.resultTable.SetRows(resultRows(data.result.Results))
			m.resultTable.GotoTop()
		}
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case FestivalListView:
		return m.renderFestivalList()
	case GeneratingView:
		return m.renderGenerating()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFestivalListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.festivalList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.festivalList, cmd = m.festivalList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cached):
		m.opts.UseCachedCatalog = !m.opts.UseCachedCatalog
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.opts.ForceRefresh = !m.opts.ForceRefresh
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.festivalList.SelectedItem().(festivalItem); ok {
			festival := item.festival
			m.selected = &festival
			m.engine.Session().SelectFestival(festival)
			m.view = GeneratingView
			m.progress = tasks.ProgressUpdate{}
			return m, m.startGenerate(festival)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.festivalList, cmd = m.festivalList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart), key.Matches(msg, m.keys.back):
		m.view = FestivalListView
		m.selected = nil
		m.result = nil
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.resultTable, cmd = m.resultTable.Update(msg)
	return m, cmd
}

func (m *Model) loadUser() tea.Cmd {
	return func() tea.Msg {
		user, err := m.engine.LoadUser(m.ctx, nil)
		return userLoadedMsg(user, err)
	}
}

// startGenerate runs the engine in a goroutine. Progress arrives on progressChan and the outcome on doneChan.
func (m *Model) startGenerate(festival models.Festival) tea.Cmd {
	progressChan := make(chan tasks.ProgressUpdate, 50)
	doneChan := make(chan Msg, 1)
	m.progressChan, m.doneChan = progressChan, doneChan

	ctx, engine, opts := m.ctx, m.engine, m.opts
	go func() {
		result, err := engine.Generate(ctx, festival.ID, opts, progressChan)
		doneChan <- generateCompleteMsg(result, err)
	}()

	return waitForProgress(progressChan, doneChan)
}

func waitForProgress(progressChan <-chan tasks.ProgressUpdate, doneChan <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-progressChan:
			return progressUpdateMsg(update)
		case msg := <-doneChan:
			return msg
		}
	}
}

// waitForSession delivers the next session change. It is reissued after every change.
func waitForSession(sessionChan <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sessionChan
	}
}

func (m *Model) header() string {
	switch {
	case m.user != nil:
		return styles.title.Render("LineupLens") + "  " + styles.help.Render("signed in as "+m.user.Name())
	case errors.Is(m.userErr, shared.ErrNotAuthenticated), errors.Is(m.userErr, shared.ErrUnauthenticated):
		return styles.title.Render("LineupLens") + "  " + styles.warn.Render("not signed in: run `lineuplens auth login`")
	default:
		return styles.title.Render("LineupLens")
	}
}

func (m *Model) optionsLine() string {
	catalog, library := "reload lineup", "library from cache when fresh"
	if m.opts.UseCachedCatalog {
		catalog = "cached lineup"
	}
	if m.opts.ForceRefresh {
		library = "refresh library"
	}
	return styles.help.Render(fmt.Sprintf("options: %s, %s", catalog, library))
}

func (m *Model) renderFestivalList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.cached, m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s",
		m.header(), m.optionsLine(), m.festivalList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderGenerating() string {
	name := ""
	if m.selected != nil {
		name = m.selected.Name
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Ranking %s", name)))
	b.WriteString("\n\n")

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}
	b.WriteString(message)
	b.WriteString("\n")

	if m.progress.Phase == tasks.FetchLibrary && m.progress.Total > 0 {
		percent := float64(m.progress.Step) / float64(m.progress.Total)
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(min(percent, 1)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s", m.header(), styles.err.Render(fmt.Sprintf("Error: %v", m.err)), helpView)
	}
	if m.result == nil {
		return helpView
	}

	summary := m.result.Summary
	if len(m.result.Results) == 0 {
		line := styles.warn.Render(fmt.Sprintf("None of the %d artists playing %s appear in your liked songs.",
			summary.Catalog, m.result.Festival.Name))
		return fmt.Sprintf("%s\n\n%s\n\n%s", m.header(), line, helpView)
	}

	title := styles.ok.Render(fmt.Sprintf("✓ %s", m.result.Festival.Name))
	line := fmt.Sprintf("%s of %d artists, %s liked songs",
		styles.count.Render(fmt.Sprint(summary.Artists)), summary.Catalog, styles.count.Render(fmt.Sprint(summary.Songs)))

	var sources []string
	if m.result.CatalogFromCache {
		sources = append(sources, "cached lineup")
	}
	if m.result.LibraryFromCache {
		sources = append(sources, "cached library")
	}
	if len(sources) > 0 {
		line += styles.help.Render(" (" + strings.Join(sources, ", ") + ")")
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, line, m.resultTable.View(), helpView)
}
