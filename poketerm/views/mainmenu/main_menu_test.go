package mainmenu

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/history"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/views/battleview"
	"github.com/nathanieltooley/pokeduel/poketerm/views/teameditor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func testConfig() global.Config {
	return global.Config{
		Player:   global.PlayerConfig{Name: "Red", Team: []dex.TeamEntry{{Species: "pikachu"}}},
		Opponent: global.PlayerConfig{Name: "Blue", Team: []dex.TeamEntry{{Species: "squirtle"}}},
		Battle:   global.BattleConfig{Level: 50, Seed: 7, Items: map[string]int{"potion": 1}},
		Logging:  global.LoggingConfig{Level: "info"},
		Sim:      global.SimConfig{Battles: 1, Workers: 1},
		UI:       global.UIConfig{MessageDelay: 0},
	}
}

func setup(t *testing.T) Deps {
	t.Helper()

	previous, previousPath := global.Opt, global.ConfigPath
	t.Cleanup(func() {
		global.Opt, global.ConfigPath = previous, previousPath
	})
	global.Opt = testConfig()
	global.ConfigPath = ""

	d, err := dex.Default()
	require.NoError(t, err)

	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return Deps{Dex: d, History: store}
}

func press(model tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		model, cmd = model.Update(k)
	}

	return model, cmd
}

func TestStartBattle(t *testing.T) {
	deps := setup(t)

	model, cmd := press(NewModel(deps), enterKey)
	require.IsType(t, battleview.BattleModel{}, model)
	assert.NotNil(t, cmd)
}

func TestStartBattleWithBadTeamShowsError(t *testing.T) {
	deps := setup(t)
	global.Opt.Player.Team = []dex.TeamEntry{{Species: "missingno"}}

	model, cmd := press(NewModel(deps), enterKey)
	require.NotNil(t, cmd)

	model, _ = model.Update(cmd())
	menu, ok := model.(MainMenuModel)
	require.True(t, ok)
	assert.ErrorIs(t, menu.err, dex.ErrUnknownSpecies)
	assert.Contains(t, menu.View(), "missingno")
}

func TestEditTeam(t *testing.T) {
	deps := setup(t)
	global.Opt.Player.TeamFile = filepath.Join(t.TempDir(), "team.yaml")

	model, _ := press(NewModel(deps), downKey, enterKey)
	require.IsType(t, teameditor.TeamEditorModel{}, model)
	assert.Contains(t, model.View(), global.Opt.Player.TeamFile)

	model, _ = press(model, escKey)
	assert.IsType(t, MainMenuModel{}, model)
}

func TestHelpAndBack(t *testing.T) {
	deps := setup(t)

	model, _ := press(NewModel(deps), downKey, downKey, downKey, downKey, enterKey)
	require.IsType(t, helpMenuModel{}, model)

	model, _ = press(model, escKey)
	assert.IsType(t, MainMenuModel{}, model)
}

func TestHistoryMenu(t *testing.T) {
	deps := setup(t)

	battle, err := global.NewBattle(deps.Dex, global.Opt, 3, true)
	require.NoError(t, err)
	for turn := 0; turn < 200 && !battle.IsBattleOver(); turn++ {
		_, err := battle.TakeTurn(battle.MakeAiAction(golurk.PLAYER), battle.MakeAiAction(golurk.OPPONENT))
		require.NoError(t, err)
	}
	require.NoError(t, deps.History.Save(context.Background(), history.RecordFromBattle(battle)))

	model, cmd := press(NewModel(deps), downKey, downKey, enterKey)
	require.IsType(t, historyMenuModel{}, model)
	require.NotNil(t, cmd)
	assert.Contains(t, model.View(), "Loading")

	model, _ = model.Update(cmd())
	menu := model.(historyMenuModel)
	require.NoError(t, menu.err)
	assert.Len(t, menu.records, 1)
	assert.Equal(t, int64(1), menu.stats.Battles)
	assert.Contains(t, menu.View(), "Battles: 1")

	model, _ = press(model, enterKey)
	logView, ok := model.(battleLogModel)
	require.True(t, ok)
	assert.Equal(t, battle.ID, logView.record.ID)

	model, _ = press(model, escKey)
	assert.IsType(t, historyMenuModel{}, model)
	model, _ = press(model, escKey)
	assert.IsType(t, MainMenuModel{}, model)
}

func TestHistoryDisabled(t *testing.T) {
	deps := setup(t)
	deps.History = nil

	model, cmd := press(NewModel(deps), downKey, downKey, enterKey)
	assert.Nil(t, cmd)
	assert.Contains(t, model.View(), "turned off")
}

func TestOptionsApply(t *testing.T) {
	deps := setup(t)

	model, _ := press(NewModel(deps), downKey, downKey, downKey, enterKey)
	require.IsType(t, optionsMenuModel{}, model)

	options := model.(optionsMenuModel)
	options.fields[0].input.SetValue("Gold")
	model, _ = press(options, enterKey)
	assert.Equal(t, "Gold", global.Opt.Player.Name)

	// message delay is the third field
	model, _ = press(model, tabKey, tabKey)
	options = model.(optionsMenuModel)
	options.fields[2].input.SetValue("1s")
	model, _ = press(options, enterKey)
	assert.Equal(t, time.Second, global.Opt.UI.MessageDelay)

	options = model.(optionsMenuModel)
	options.fields[2].input.SetValue("soon")
	model, cmd := press(options, enterKey)
	assert.NotNil(t, cmd)
	assert.True(t, model.(optionsMenuModel).shouldShowError)
	assert.Equal(t, time.Second, global.Opt.UI.MessageDelay)
}

func TestOptionsSaveToConfigPath(t *testing.T) {
	deps := setup(t)
	global.ConfigPath = t.TempDir() + "/config.yaml"

	model, _ := press(NewModel(deps), downKey, downKey, downKey, enterKey)
	options := model.(optionsMenuModel)
	options.fields[1].input.SetValue("Silver")
	options.focus = 1

	_, _ = press(options, enterKey)

	loaded, err := global.LoadConfig(global.ConfigPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "Silver", loaded.Opponent.Name)
}
