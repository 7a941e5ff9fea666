package mainmenu

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/history"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/nathanieltooley/pokeduel/poketerm/views/battleview"
	"github.com/nathanieltooley/pokeduel/poketerm/views/teameditor"
	"github.com/rs/zerolog/log"
)

const saveTimeout = time.Second * 5

// Deps are what the menus need to start battles and show history.
// History may be nil, battles are then not recorded.
type Deps struct {
	Dex     *dex.Dex
	History *history.Store
}

type MainMenuModel struct {
	deps    Deps
	buttons components.MenuButtons
	err     error
}

func NewModel(deps Deps) MainMenuModel {
	back := func() tea.Model { return NewModel(deps) }

	buttons := []components.ViewButton{
		{
			Name: "Start Battle",
			Hint: "Battle the AI with your configured team",
			OnClick: func() (tea.Model, tea.Cmd) {
				return startBattle(deps)
			},
		},
		{
			Name: "Edit Team",
			Hint: "Build the team you take into battle",
			OnClick: func() (tea.Model, tea.Cmd) {
				return teameditor.NewModel(deps.Dex, teamPath(), components.NewBreadcrumb().PushNew(back)), nil
			},
		},
		{
			Name: "History",
			Hint: "Look back at past battles",
			OnClick: func() (tea.Model, tea.Cmd) {
				model := newHistoryMenu(deps.History, components.NewBreadcrumb().PushNew(back))
				return model, model.Init()
			},
		},
		{
			Name: "Options",
			Hint: "Change names, pacing and logging",
			OnClick: func() (tea.Model, tea.Cmd) {
				return newOptionsMenu(components.NewBreadcrumb().PushNew(back)), nil
			},
		},
		{
			Name: "Help",
			Hint: "Controls and keys",
			OnClick: func() (tea.Model, tea.Cmd) {
				return newHelpMenu(components.NewBreadcrumb().PushNew(back)), nil
			},
		},
		{
			Name: "Quit",
			Hint: "Leave PokeDuel",
			OnClick: func() (tea.Model, tea.Cmd) {
				return NewModel(deps), tea.Quit
			},
		},
	}

	return MainMenuModel{
		deps:    deps,
		buttons: components.NewMenuButton(buttons),
	}
}

func teamPath() string {
	if global.Opt.Player.TeamFile != "" {
		return global.Opt.Player.TeamFile
	}

	return global.DefaultTeamLocation()
}

type battleStartFailedMsg struct {
	err error
}

func startBattle(deps Deps) (tea.Model, tea.Cmd) {
	cfg := global.Opt
	seed := cfg.BattleSeed()

	battle, err := global.NewBattle(deps.Dex, cfg, seed, false)
	if err != nil {
		log.Err(err).Msg("could not start battle")

		menu := NewModel(deps)
		return menu, func() tea.Msg { return battleStartFailedMsg{err} }
	}

	log.Info().
		Str("battle_id", battle.ID.String()).
		Uint64("seed", seed).
		Msg("starting battle")

	model := battleview.NewBattleModel(battle,
		battleview.WithMessageDelay(cfg.UI.MessageDelay),
		battleview.WithOnFinish(recordBattle(deps.History)),
		battleview.WithBacktrack(components.NewBreadcrumb().PushNew(func() tea.Model { return NewModel(deps) })),
	)

	return model, model.Init()
}

func recordBattle(store *history.Store) func(*golurk.BattleManager) error {
	if store == nil {
		return nil
	}

	return func(battle *golurk.BattleManager) error {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		return store.Save(ctx, history.RecordFromBattle(battle))
	}
}

func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

func (m MainMenuModel) View() string {
	header := "PokeDuel!"

	errView := ""
	if m.err != nil {
		errView = rendering.ErrorStyle.Render(m.err.Error())
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, header, m.buttons.View(), errView))
}

func (m MainMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case battleStartFailedMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		m.err = nil

		if key.Matches(msg, global.QuitKey) {
			return m, tea.Quit
		}
	}

	newModel, startCmd := m.buttons.Update(msg)
	if newModel != nil {
		return newModel, startCmd
	}

	return m, nil
}
