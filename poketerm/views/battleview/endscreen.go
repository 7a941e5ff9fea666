package battleview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/rs/zerolog/log"
)

type battleSavedMsg struct {
	err error
}

type endModel struct {
	battle    *golurk.BattleManager
	message   string
	backtrack components.Breadcrumbs

	saved   bool
	saveErr error
}

func newEndScreen(battle *golurk.BattleManager, backtrack components.Breadcrumbs) endModel {
	message := "It's a draw"
	switch battle.Winner() {
	case golurk.PLAYER:
		message = "You Won!"
	case golurk.OPPONENT:
		message = "You Lost :("
	}

	return endModel{
		battle:    battle,
		message:   message,
		backtrack: backtrack,
	}
}

// save runs onFinish in the background, the end screen shows how it went
func (m endModel) save(onFinish func(*golurk.BattleManager) error) tea.Cmd {
	if onFinish == nil {
		return nil
	}

	battle := m.battle
	return func() tea.Msg {
		return battleSavedMsg{onFinish(battle)}
	}
}

func (m endModel) Init() tea.Cmd { return nil }
func (m endModel) View() string {
	saveStatus := ""
	switch {
	case m.saveErr != nil:
		saveStatus = rendering.ErrorStyle.Render("Could not save battle: " + m.saveErr.Error())
	case m.saved:
		saveStatus = "Battle saved to history"
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(
		lipgloss.Center,
		"Game Over",
		m.message,
		fmt.Sprintf("%d turns", m.battle.Turn),
		saveStatus,
		"Press enter to continue",
	))
}

func (m endModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case battleSavedMsg:
		if msg.err != nil {
			log.Err(msg.err).Str("battle_id", m.battle.ID.String()).Msg("failed to save battle")
			m.saveErr = msg.err
		} else {
			m.saved = true
		}
	case tea.KeyMsg:
		if key.Matches(msg, global.QuitKey) {
			return m, tea.Quit
		}

		if key.Matches(msg, global.SelectKey, global.BackKey) {
			model, _, ok := m.backtrack.Pop()
			if !ok {
				return m, tea.Quit
			}

			return model, model.Init()
		}
	}

	return m, nil
}
