package mainmenu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/history"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	RECENT_BATTLES = 20
	loadTimeout    = time.Second * 5
)

type historyLoadedMsg struct {
	stats   history.Stats
	records []history.Record
	err     error
}

func loadHistory(store *history.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		stats, err := store.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{err: err}
		}

		records, err := store.Recent(ctx, RECENT_BATTLES)
		if err != nil {
			return historyLoadedMsg{err: err}
		}

		return historyLoadedMsg{stats: stats, records: records}
	}
}

type historyMenuModel struct {
	store     *history.Store
	backtrack components.Breadcrumbs

	loaded  bool
	err     error
	stats   history.Stats
	records []history.Record
	table   table.Model
}

func newHistoryMenu(store *history.Store, backtrack components.Breadcrumbs) historyMenuModel {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Player", Width: 12},
		{Title: "Opponent", Width: 12},
		{Title: "Winner", Width: 10},
		{Title: "Turns", Width: 6},
	}

	return historyMenuModel{
		store:     store,
		backtrack: backtrack,
		table:     table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(10)),
	}
}

func (m historyMenuModel) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}

	return loadHistory(m.store)
}

func (m historyMenuModel) View() string {
	var body string

	switch {
	case m.store == nil:
		body = "Battle history is turned off, set history.path to record battles"
	case m.err != nil:
		body = rendering.ErrorStyle.Render(m.err.Error())
	case !m.loaded:
		body = "Loading..."
	case len(m.records) == 0:
		body = "No battles yet"
	default:
		summary := fmt.Sprintf("Battles: %d  Wins: %d  Losses: %d  Draws: %d",
			m.stats.Battles, m.stats.Wins, m.stats.Losses, m.stats.Draws)
		body = lipgloss.JoinVertical(lipgloss.Center, summary, rendering.PanelStyle.Render(m.table.View()))
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, "History", body))
}

func (m historyMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			log.Err(msg.err).Msg("failed to load battle history")
			return m, nil
		}

		m.stats = msg.stats
		m.records = msg.records
		m.table.SetRows(lo.Map(msg.records, func(record history.Record, _ int) table.Row {
			return table.Row{
				record.StartedAt.Local().Format("2006-01-02 15:04"),
				record.PlayerName,
				record.OpponentName,
				record.Winner,
				fmt.Sprint(record.Turns),
			}
		}))

		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, global.BackKey) {
			return m.backtrack.PopDefault(func() tea.Model { return m }), nil
		}

		if key.Matches(msg, global.SelectKey) && len(m.records) > 0 {
			record := m.records[m.table.Cursor()]
			return newBattleLog(record, m.backtrack.Push(m)), nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// battleLogModel scrolls through the full log of one recorded battle
type battleLogModel struct {
	record    history.Record
	backtrack components.Breadcrumbs
	viewport  viewport.Model
}

func newBattleLog(record history.Record, backtrack components.Breadcrumbs) battleLogModel {
	vp := viewport.New(70, 20)
	vp.SetContent(strings.Join(record.Log, "\n"))

	return battleLogModel{
		record:    record,
		backtrack: backtrack,
		viewport:  vp,
	}
}

func (m battleLogModel) Init() tea.Cmd { return nil }
func (m battleLogModel) View() string {
	header := fmt.Sprintf("%s vs %s (%s)\n%s vs %s",
		m.record.PlayerName, m.record.OpponentName, m.record.Winner,
		strings.Join(m.record.PlayerTeam, ", "), strings.Join(m.record.OpponentTeam, ", "))

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, header, rendering.PanelStyle.Render(m.viewport.View())))
}

func (m battleLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, global.BackKey) {
			return m.backtrack.PopDefault(func() tea.Model { return m }), nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}
