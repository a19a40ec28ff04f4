package tui

import (
	"fmt"
	"strings"

	"token-pulse/internal/domain"
	"token-pulse/internal/market"
	"token-pulse/internal/news"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	liveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	offlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	actionStyles = map[domain.Action]lipgloss.Style{
		domain.ActionBuy:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		domain.ActionSell: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		domain.ActionHold: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
	sentimentStyles = map[domain.Sentiment]lipgloss.Style{
		domain.SentimentPositive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.SentimentNegative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		domain.SentimentNeutral:  mutedStyle,
	}
)

func tokenColumns() []table.Column {
	return []table.Column{
		{Title: "Symbol", Width: 6},
		{Title: "Price", Width: 14},
		{Title: "24h", Width: 8},
		{Title: "Support", Width: 12},
		{Title: "Resistance", Width: 12},
		{Title: "Volume", Width: 9},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return s
}

func tokenRows(tokens []domain.Token) []table.Row {
	rows := make([]table.Row, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, table.Row{
			t.Symbol,
			t.PriceDisplay,
			t.Change,
			"$" + market.FormatNumber(t.Support, 2),
			"$" + market.FormatNumber(t.Resistance, 2),
			t.Volume24hDisplay,
		})
	}
	return rows
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Token Pulse"))
	if m.username != "" {
		b.WriteString(mutedStyle.Render("  " + m.username))
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.suggestionView()))
	b.WriteString("\n")
	b.WriteString(m.newsView())
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString(offlineStyle.Render("error: " + m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("↑/↓ select · r refresh · f filter (%s) · q quit", m.filter)))
	return b.String()
}

func (m *Model) statusLine() string {
	state := offlineStyle.Render("● Offline")
	if m.status.IsLive {
		state = liveStyle.Render("● Live")
	}
	if m.refreshing || m.status.IsLoading {
		state += mutedStyle.Render(" refreshing…")
	}
	last := "never"
	if !m.status.LastUpdate.IsZero() {
		last = news.TimeAgo(m.status.LastUpdate, m.now())
	}
	line := fmt.Sprintf("%s  last update: %s", state, last)
	for _, a := range m.status.Advisories {
		line += "\n" + advisoryStyle.Render("⚠ "+a)
	}
	return line
}

func (m *Model) suggestionView() string {
	if m.suggestion == nil {
		return mutedStyle.Render("No suggestion yet")
	}
	s := m.suggestion.Suggestion
	style, ok := actionStyles[s.Action]
	if !ok {
		style = mutedStyle
	}
	return fmt.Sprintf(
		"%s %s  %.0f%% confidence  (%s)\nTarget $%s · Stop $%s\n%s",
		m.suggestion.Token.Symbol,
		style.Render(strings.ToUpper(string(s.Action))),
		s.Confidence,
		s.Timeframe,
		market.FormatNumber(s.PriceTarget, 2),
		market.FormatNumber(s.StopLoss, 2),
		s.Reasoning,
	)
}

func (m *Model) newsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("News · %s", m.filter)))
	b.WriteString("\n")
	if len(m.articles) == 0 {
		b.WriteString(mutedStyle.Render("No articles"))
		return b.String()
	}
	now := m.now()
	for i, a := range m.articles {
		if i == maxNewsRows {
			break
		}
		style, ok := sentimentStyles[a.Sentiment]
		if !ok {
			style = mutedStyle
		}
		marker := " "
		if a.Trending {
			marker = "↑"
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			marker,
			style.Render(fmt.Sprintf("%-8s", a.Sentiment)),
			a.Title,
			mutedStyle.Render(fmt.Sprintf("(%s, %s)", a.Source, news.TimeAgo(a.PublishedAt, now))),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
