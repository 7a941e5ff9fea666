// Package teameditor edits the player's saved team file
package teameditor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add pokemon"))
	removeKey = key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove pokemon"))
	saveKey   = key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save"))
)

var ErrTeamFull = fmt.Errorf("a team holds at most %d pokemon", golurk.MAX_TEAM_SIZE)

type teamSavedMsg struct {
	cfg global.Config
	err error
}

type speciesItem struct {
	dex.Species
}

func (i speciesItem) FilterValue() string { return i.Name }
func (i speciesItem) Disabled() bool      { return false }
func (i speciesItem) Value() string {
	types := lo.Map(i.Types, func(t golurk.PokemonType, _ int) string { return t.String() })
	return fmt.Sprintf("%-12s %s", i.Name, strings.Join(types, "/"))
}

type TeamEditorModel struct {
	dex       *dex.Dex
	path      string
	team      dex.TeamFile
	cursor    int
	backtrack components.Breadcrumbs

	picking     bool
	speciesList list.Model

	status string
	err    error
}

// NewModel opens the team file at path. A missing file starts an empty team.
func NewModel(d *dex.Dex, path string, backtrack components.Breadcrumbs) TeamEditorModel {
	m := TeamEditorModel{
		dex:         d,
		path:        path,
		backtrack:   backtrack,
		speciesList: newSpeciesList(d),
	}

	team, err := dex.LoadTeamFile(path)
	switch {
	case errors.Is(err, dex.ErrNoSuchTeam):
		team = dex.TeamFile{Name: fmt.Sprintf("%s's team", global.Opt.Player.Name)}
	case err != nil:
		log.Err(err).Str("path", path).Msg("could not load team file")
		m.err = err
	}

	m.team = team
	return m
}

func newSpeciesList(d *dex.Dex) list.Model {
	items := lo.Map(d.SpeciesNames(), func(name string, _ int) list.Item {
		species, _ := d.Species(name)
		return speciesItem{species}
	})

	speciesList := list.New(items, rendering.NewSimpleListDelegate(), 40, 15)
	speciesList.Title = "Pick a Pokemon"
	speciesList.SetShowStatusBar(false)
	speciesList.SetShowHelp(false)
	speciesList.DisableQuitKeybindings()

	return speciesList
}

func (m TeamEditorModel) Init() tea.Cmd {
	return nil
}

func (m TeamEditorModel) View() string {
	if m.picking {
		return rendering.GlobalCenter(m.speciesList.View())
	}

	header := fmt.Sprintf("%s (%s)", m.team.Name, m.path)

	rows := make([]string, 0, len(m.team.Team))
	for i, entry := range m.team.Team {
		line := fmt.Sprintf("%d. %s", i+1, describeEntry(entry))
		if i == m.cursor {
			rows = append(rows, rendering.HighlightedItemStyle.Render("> "+line))
		} else {
			rows = append(rows, rendering.ItemStyle.Render(line))
		}
	}

	if len(rows) == 0 {
		rows = append(rows, "No pokemon yet, press a to add one")
	}

	footer := "enter: edit  a: add  x: remove  s: save  esc: back"

	errView := ""
	if m.err != nil {
		errView = rendering.ErrorStyle.Render(m.err.Error())
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		rendering.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		m.status,
		footer,
		errView,
	))
}

func describeEntry(entry dex.TeamEntry) string {
	level := "Lv.-"
	if entry.Level > 0 {
		level = fmt.Sprintf("Lv.%d", entry.Level)
	}

	moves := "default moves"
	if len(entry.Moves) > 0 {
		moves = strings.Join(entry.Moves, ", ")
	}

	line := fmt.Sprintf("%-12s %-7s %s", entry.Species, level, moves)
	if entry.Ability != "" {
		line += fmt.Sprintf(" [%s]", entry.Ability)
	}

	return line
}

func (m TeamEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(teamSavedMsg); ok {
		if msg.err != nil {
			log.Err(msg.err).Str("path", m.path).Msg("could not save team")
			m.err = msg.err
			return m, nil
		}

		global.Opt = msg.cfg
		m.status = fmt.Sprintf("Team saved to %s", m.path)
		log.Info().Str("path", m.path).Int("pokemon", len(m.team.Team)).Msg("team saved")
		return m, nil
	}

	if m.picking {
		return m.updatePicker(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.err = nil

	switch {
	case key.Matches(keyMsg, global.BackKey):
		model, _, ok := m.backtrack.Pop()
		if !ok {
			return m, tea.Quit
		}
		return model, nil
	case key.Matches(keyMsg, global.MoveUpKey):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(keyMsg, global.MoveDownKey):
		m.cursor = max(0, min(len(m.team.Team)-1, m.cursor+1))
	case key.Matches(keyMsg, global.SelectKey):
		if len(m.team.Team) == 0 {
			m.picking = true
			return m, nil
		}
		return newEditPokemonModel(m, m.cursor), nil
	case key.Matches(keyMsg, addKey):
		if len(m.team.Team) >= golurk.MAX_TEAM_SIZE {
			m.err = ErrTeamFull
			return m, nil
		}
		m.picking = true
	case key.Matches(keyMsg, removeKey):
		if len(m.team.Team) == 0 {
			return m, nil
		}
		m.team.Team = append(m.team.Team[:m.cursor:m.cursor], m.team.Team[m.cursor+1:]...)
		m.cursor = max(0, min(len(m.team.Team)-1, m.cursor))
		m.status = ""
	case key.Matches(keyMsg, saveKey):
		return m, m.save()
	}

	return m, nil
}

func (m TeamEditorModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.speciesList.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, global.BackKey) && m.speciesList.FilterState() == list.Unfiltered:
			m.picking = false
			return m, nil
		case key.Matches(keyMsg, global.SelectKey):
			item, ok := m.speciesList.SelectedItem().(speciesItem)
			if !ok {
				return m, nil
			}

			m.picking = false
			m.speciesList.ResetFilter()
			m.team.Team = append(m.team.Team, dex.TeamEntry{Species: golurk.NormalizeName(item.Name)})
			m.cursor = len(m.team.Team) - 1
			m.status = ""

			return newEditPokemonModel(m, m.cursor), nil
		}
	}

	var cmd tea.Cmd
	m.speciesList, cmd = m.speciesList.Update(msg)
	return m, cmd
}

// save checks the team builds before writing it, then points the player's team_file at it
func (m TeamEditorModel) save() tea.Cmd {
	d := m.dex
	path := m.path
	team := dex.TeamFile{Name: m.team.Name, Team: append([]dex.TeamEntry(nil), m.team.Team...)}
	cfg := global.Opt
	configPath := global.ConfigPath

	return func() tea.Msg {
		if _, err := d.NewTeam(team.Team); err != nil {
			return teamSavedMsg{err: err}
		}

		if err := dex.SaveTeamFile(path, team); err != nil {
			return teamSavedMsg{err: err}
		}

		cfg.Player.TeamFile = path
		if configPath != "" {
			if err := global.SaveConfig(configPath, cfg); err != nil {
				return teamSavedMsg{err: err}
			}
		}

		return teamSavedMsg{cfg: cfg}
	}
}
