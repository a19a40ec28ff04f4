// Package tui renders the terminal dashboard served over SSH.
package tui

import (
	"context"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/service"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultPollEvery = 5 * time.Second
	maxNewsRows      = 5
)

type Dashboard interface {
	GetTokens(ctx context.Context) []domain.Token
	GetNews(ctx context.Context, asset string, filter domain.NewsFilter) []domain.NewsArticle
	GetSuggestion(ctx context.Context, symbol string) (*service.Suggestion, error)
	RefreshNow(ctx context.Context) error
	Status(asset string) service.Status
}

var filterCycle = []domain.NewsFilter{
	domain.FilterAll,
	domain.FilterPositive,
	domain.FilterNegative,
	domain.FilterTrending,
}

type (
	dataMsg struct {
		tokens []domain.Token
		status service.Status
	}
	detailMsg struct {
		symbol     string
		filter     domain.NewsFilter
		suggestion *service.Suggestion
		articles   []domain.NewsArticle
		err        error
	}
	refreshedMsg struct{ err error }
	tickMsg      time.Time
)

type Model struct {
	dashboard Dashboard
	username  string
	now       func() time.Time
	pollEvery time.Duration

	table      table.Model
	tokens     []domain.Token
	status     service.Status
	suggestion *service.Suggestion
	articles   []domain.NewsArticle
	filter     domain.NewsFilter
	refreshing bool
	lastErr    string

	width, height int
}

func NewModel(dashboard Dashboard, username string) *Model {
	t := table.New(
		table.WithColumns(tokenColumns()),
		table.WithFocused(true),
		table.WithHeight(len(domain.TrackedAssets)+1),
	)
	t.SetStyles(tableStyles())
	return &Model{
		dashboard: dashboard,
		username:  username,
		now:       time.Now,
		pollEvery: defaultPollEvery,
		table:     t,
		filter:    domain.FilterAll,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadData(), m.tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			return m, m.refresh()
		case "f":
			m.filter = nextFilter(m.filter)
			return m, m.loadDetail()
		}
		before := m.table.Cursor()
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != before {
			m.suggestion, m.articles = nil, nil
			return m, tea.Batch(cmd, m.loadDetail())
		}
		return m, cmd

	case dataMsg:
		m.tokens = msg.tokens
		m.status = msg.status
		m.table.SetRows(tokenRows(msg.tokens))
		if m.table.Cursor() >= len(msg.tokens) && len(msg.tokens) > 0 {
			m.table.SetCursor(len(msg.tokens) - 1)
		}
		return m, m.loadDetail()

	case detailMsg:
		if msg.symbol != m.selectedSymbol() || msg.filter != m.filter {
			return m, nil
		}
		m.suggestion, m.articles = msg.suggestion, msg.articles
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil

	case refreshedMsg:
		m.refreshing = false
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, m.loadData()

	case tickMsg:
		return m, tea.Batch(m.loadData(), m.tick())
	}
	return m, nil
}

func (m *Model) selectedSymbol() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tokens) {
		return ""
	}
	return m.tokens[i].Symbol
}

func (m *Model) loadData() tea.Cmd {
	d := m.dashboard
	asset := m.selectedSymbol()
	if asset == "" {
		asset = domain.DefaultAsset
	}
	return func() tea.Msg {
		ctx := context.Background()
		return dataMsg{tokens: d.GetTokens(ctx), status: d.Status(asset)}
	}
}

func (m *Model) loadDetail() tea.Cmd {
	symbol := m.selectedSymbol()
	if symbol == "" {
		return nil
	}
	d, filter := m.dashboard, m.filter
	return func() tea.Msg {
		ctx := context.Background()
		s, err := d.GetSuggestion(ctx, symbol)
		return detailMsg{
			symbol:     symbol,
			filter:     filter,
			suggestion: s,
			articles:   d.GetNews(ctx, symbol, filter),
			err:        err,
		}
	}
}

func (m *Model) refresh() tea.Cmd {
	d := m.dashboard
	return func() tea.Msg {
		return refreshedMsg{err: d.RefreshNow(context.Background())}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func nextFilter(f domain.NewsFilter) domain.NewsFilter {
	for i, v := range filterCycle {
		if v == f {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return domain.FilterAll
}
