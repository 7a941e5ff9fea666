package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
)

// TeamView lists a side's team and lets the user pick a pokemon to switch in
type TeamView struct {
	Team    []golurk.PokemonView
	Focused bool
	// ActiveIndex is drawn as the current pokemon and can't be picked
	ActiveIndex int

	CurrentPokemonIndex int
}

var (
	pokemonTeamStyle            = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Align(lipgloss.Center).Width(24)
	highlightedPokemonTeamStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder(), true).Align(lipgloss.Center).Width(24).BorderForeground(rendering.HighlightedColor)
	unavailablePokemonTeamStyle = pokemonTeamStyle.Foreground(rendering.DisabledColor).BorderForeground(rendering.DisabledColor)

	moveTeamDown = key.NewBinding(
		key.WithKeys("j", "down"),
	)

	moveTeamUp = key.NewBinding(
		key.WithKeys("k", "up"),
	)
)

func NewTeamView(team []golurk.PokemonView, activeIndex int) TeamView {
	return TeamView{
		Team:                team,
		Focused:             false,
		ActiveIndex:         activeIndex,
		CurrentPokemonIndex: 0,
	}
}

// Selectable reports whether the pokemon at index can be switched in
func (m TeamView) Selectable(index int) bool {
	if index < 0 || index >= len(m.Team) {
		return false
	}

	return index != m.ActiveIndex && !m.Team[index].Fainted
}

// Selected is the team index under the cursor
func (m TeamView) Selected() int {
	return m.CurrentPokemonIndex
}

func (m TeamView) Init() tea.Cmd { return nil }
func (m TeamView) View() string {
	teamPanels := make([]string, 0, len(m.Team))

	for i, pokemon := range m.Team {
		var b strings.Builder
		fmt.Fprintf(&b, "%s Lv. %d\n", pokemon.Name, pokemon.Level)
		fmt.Fprintf(&b, "%d/%d", pokemon.Hp, pokemon.MaxHp)

		switch {
		case pokemon.Fainted:
			b.WriteString(" FNT")
		case pokemon.Status != golurk.STATUS_NONE:
			b.WriteString(" " + rendering.StatusLabel(pokemon.Status, pokemon.Badly))
		}

		if i == m.ActiveIndex {
			b.WriteString("\n(active)")
		}

		style := pokemonTeamStyle
		switch {
		case i == m.CurrentPokemonIndex && m.Focused:
			style = highlightedPokemonTeamStyle
		case !m.Selectable(i):
			style = unavailablePokemonTeamStyle
		}

		teamPanels = append(teamPanels, style.Render(b.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Center, teamPanels...)
}

func (m TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.Team) == 0 {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Focused {
			if key.Matches(msg, moveTeamDown) {
				m.CurrentPokemonIndex++

				if m.CurrentPokemonIndex > len(m.Team)-1 {
					m.CurrentPokemonIndex = 0
				}
			}

			if key.Matches(msg, moveTeamUp) {
				m.CurrentPokemonIndex--

				if m.CurrentPokemonIndex < 0 {
					m.CurrentPokemonIndex = len(m.Team) - 1
				}
			}
		}
	}

	return m, nil
}
