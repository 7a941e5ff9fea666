package battleview

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	quitKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func newTestBattle(t *testing.T, player []dex.TeamEntry, opponent []dex.TeamEntry, bag map[string]int) *golurk.BattleManager {
	t.Helper()

	d, err := dex.Default()
	require.NoError(t, err)

	playerTeam, err := d.NewTeam(player)
	require.NoError(t, err)
	opponentTeam, err := d.NewTeam(opponent)
	require.NoError(t, err)

	battle, err := golurk.NewBattle(
		golurk.Player{Name: "Red", Team: playerTeam, Bag: bag},
		golurk.Player{Name: "Blue", IsAI: true, Team: opponentTeam},
		golurk.WithSeed(1, 2),
	)
	require.NoError(t, err)

	return battle
}

// drain feeds every message the model asks for back into it until it settles
func drain(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()

	for range 1000 {
		if cmd == nil {
			return model
		}

		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return model
		}

		model, cmd = model.Update(msg)
	}

	t.Fatal("battle view never settled")
	return model
}

func press(t *testing.T, model tea.Model, keys ...tea.KeyMsg) tea.Model {
	t.Helper()

	for _, k := range keys {
		var cmd tea.Cmd
		model, cmd = model.Update(k)
		model = drain(t, model, cmd)
	}

	return model
}

func startModel(t *testing.T, battle *golurk.BattleManager, opts ...Option) tea.Model {
	t.Helper()

	m := NewBattleModel(battle, append([]Option{WithMessageDelay(0)}, opts...)...)
	return drain(t, m, m.Init())
}

func asBattleModel(t *testing.T, model tea.Model) BattleModel {
	t.Helper()

	m, ok := model.(BattleModel)
	require.True(t, ok, "expected the battle view, got %T", model)

	return m
}

func TestLeadsAreShownBeforeTheFirstAction(t *testing.T) {
	battle := newTestBattle(t, []dex.TeamEntry{{Species: "pikachu"}}, []dex.TeamEntry{{Species: "squirtle"}}, nil)

	m := NewBattleModel(battle, WithMessageDelay(0))
	assert.Equal(t, SM_SHOWING_EVENTS, m.state)
	assert.NotEmpty(t, m.eventQueue)

	settled := asBattleModel(t, drain(t, m, m.Init()))
	assert.Equal(t, SM_WAITING_FOR_USER_ACTION, settled.state)
	assert.IsType(t, actionPanel{}, settled.panel)
	assert.Empty(t, settled.currentMessage)
	assert.Empty(t, settled.eventQueue)
	assert.Equal(t, "Pikachu", settled.playerSnap.Name)
	assert.Equal(t, "Squirtle", settled.opponentSnap.Name)
	assert.Zero(t, battle.Turn)
}

func TestPickingAMoveTakesATurn(t *testing.T) {
	battle := newTestBattle(t,
		[]dex.TeamEntry{{Species: "snorlax", Level: 100}},
		[]dex.TeamEntry{{Species: "lapras", Level: 100}},
		nil,
	)
	model := startModel(t, battle)

	// Fight, then the first move
	model = press(t, model, enterKey)
	assert.IsType(t, movePanel{}, asBattleModel(t, model).panel)

	model = press(t, model, enterKey)
	assert.Equal(t, 1, battle.Turn)

	m := asBattleModel(t, model)
	assert.Equal(t, SM_WAITING_FOR_USER_ACTION, m.state)
	assert.Equal(t, battle.ActiveView(golurk.OPPONENT).Hp, m.opponentSnap.Hp)
	assert.Less(t, battle.ActiveView(golurk.PLAYER).Moves[0].PP, battle.ActiveView(golurk.PLAYER).Moves[0].MaxPP)
}

func TestBackKeyReturnsToActions(t *testing.T) {
	battle := newTestBattle(t, []dex.TeamEntry{{Species: "pikachu"}}, []dex.TeamEntry{{Species: "squirtle"}}, nil)
	model := startModel(t, battle)

	model = press(t, model, rightKey, enterKey)
	assert.IsType(t, switchPanel{}, asBattleModel(t, model).panel)

	model = press(t, model, escKey)
	assert.IsType(t, actionPanel{}, asBattleModel(t, model).panel)
	assert.Zero(t, battle.Turn)
}

func TestMovesWithoutPPCantBePicked(t *testing.T) {
	battle := newTestBattle(t, []dex.TeamEntry{{Species: "pikachu"}}, []dex.TeamEntry{{Species: "squirtle"}}, nil)
	active := battle.Player.GetActivePokemon()
	active.Battle.PP[active.Moves[0].Name] = 0

	model := startModel(t, battle)
	model = press(t, model, enterKey, enterKey)

	assert.Zero(t, battle.Turn)
	assert.IsType(t, movePanel{}, asBattleModel(t, model).panel)

	// the second slot still has PP
	model = press(t, model, rightKey, enterKey)
	assert.Equal(t, 1, battle.Turn)
}

func TestFaintedPokemonMustBeReplaced(t *testing.T) {
	battle := newTestBattle(t,
		[]dex.TeamEntry{{Species: "bulbasaur", Level: 5}, {Species: "pikachu", Level: 50}},
		[]dex.TeamEntry{{Species: "charizard", Level: 100}},
		nil,
	)
	model := startModel(t, battle)

	for range 10 {
		if asBattleModel(t, model).state != SM_WAITING_FOR_USER_ACTION {
			break
		}

		model = press(t, model, enterKey, enterKey)
	}

	m := asBattleModel(t, model)
	require.Equal(t, SM_FORCED_SWITCH, m.state)
	require.IsType(t, switchPanel{}, m.panel)
	assert.True(t, battle.PendingSwitch(golurk.PLAYER))
	assert.Contains(t, m.View(), "please select a new one")

	// can't back out of a forced switch
	model = press(t, model, escKey)
	assert.IsType(t, switchPanel{}, asBattleModel(t, model).panel)

	model = press(t, model, enterKey)
	m = asBattleModel(t, model)
	assert.Equal(t, SM_WAITING_FOR_USER_ACTION, m.state)
	assert.Equal(t, 1, battle.Player.ActivePokeIndex)
	assert.False(t, battle.PendingSwitch(golurk.PLAYER))
	assert.Equal(t, "Pikachu", m.playerSnap.Name)
}

func TestUsingAnItem(t *testing.T) {
	battle := newTestBattle(t,
		[]dex.TeamEntry{{Species: "snorlax", Level: 100}},
		[]dex.TeamEntry{{Species: "lapras", Level: 100}},
		map[string]int{"potion": 1},
	)
	model := startModel(t, battle)

	// Bag, then the only item
	model = press(t, model, rightKey, rightKey, enterKey)
	assert.IsType(t, bagPanel{}, asBattleModel(t, model).panel)

	model = press(t, model, enterKey)
	assert.Equal(t, 1, battle.Turn)
	assert.Zero(t, battle.Player.Bag["potion"])
}

func TestWinningShowsTheEndScreen(t *testing.T) {
	battle := newTestBattle(t,
		[]dex.TeamEntry{{Species: "pikachu", Level: 100}},
		[]dex.TeamEntry{{Species: "squirtle", Level: 5}},
		nil,
	)

	var finished *golurk.BattleManager
	model := startModel(t, battle, WithOnFinish(func(b *golurk.BattleManager) error {
		finished = b
		return nil
	}))

	for range 10 {
		if _, ok := model.(endModel); ok {
			break
		}

		model = press(t, model, enterKey, enterKey)
	}

	end, ok := model.(endModel)
	require.True(t, ok, "expected the end screen, got %T", model)
	assert.Equal(t, "You Won!", end.message)
	assert.True(t, end.saved)
	assert.Same(t, battle, finished)
	assert.Contains(t, end.View(), "Battle saved to history")
}

func TestEndScreenSaveErrorAndBacktrack(t *testing.T) {
	battle := newTestBattle(t,
		[]dex.TeamEntry{{Species: "squirtle", Level: 5}},
		[]dex.TeamEntry{{Species: "pikachu", Level: 100}},
		nil,
	)

	backtrack := components.NewBreadcrumb().Push(endModel{battle: battle, message: "menu"})

	model := startModel(t, battle,
		WithOnFinish(func(*golurk.BattleManager) error { return errors.New("disk full") }),
		WithBacktrack(backtrack),
	)

	for range 10 {
		if _, ok := model.(endModel); ok {
			break
		}

		model = press(t, model, enterKey, enterKey)
	}

	end, ok := model.(endModel)
	require.True(t, ok, "expected the end screen, got %T", model)
	assert.Equal(t, "You Lost :(", end.message)
	assert.EqualError(t, end.saveErr, "disk full")
	assert.Contains(t, end.View(), "disk full")

	model = press(t, model, enterKey)
	back, ok := model.(endModel)
	require.True(t, ok)
	assert.Equal(t, "menu", back.message)
}

func TestQuitKey(t *testing.T) {
	battle := newTestBattle(t, []dex.TeamEntry{{Species: "pikachu"}}, []dex.TeamEntry{{Species: "squirtle"}}, nil)
	model := startModel(t, battle)

	_, cmd := model.Update(quitKey)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStaleMessageTicksAreIgnored(t *testing.T) {
	battle := newTestBattle(t, []dex.TeamEntry{{Species: "pikachu"}}, []dex.TeamEntry{{Species: "squirtle"}}, nil)

	m := NewBattleModel(battle, WithMessageDelay(0))
	model, _ := m.Update(nextMessageMsg{seq: 42})

	assert.Empty(t, asBattleModel(t, model).currentMessage)
	assert.Equal(t, len(m.eventQueue), len(asBattleModel(t, model).eventQueue))
}
