package battleview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/samber/lo"
)

const sidePanelWidth = 24

func newHealthBar() progress.Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = sidePanelWidth * 3 / 4

	return bar
}

func renderSidePanel(name string, snap golurk.Snapshot, bar progress.Model) string {
	healthPerc := 0.0
	if snap.MaxHp > 0 {
		healthPerc = float64(snap.Hp) / float64(snap.MaxHp)
	}

	pokeInfo := fmt.Sprintf("%s %s\n%d/%d", rendering.StatusBadge(snap.Status, false), snap.Name, snap.Hp, snap.MaxHp)

	pokeStyle := lipgloss.NewStyle().Align(lipgloss.Center).Border(lipgloss.NormalBorder(), true).Width(sidePanelWidth).Height(4)
	pokeInfo = pokeStyle.Render(lipgloss.JoinVertical(lipgloss.Center, pokeInfo, bar.ViewAs(healthPerc)))

	return rendering.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, name, pokeInfo))
}

var actionNames = []string{"Fight", "Pokemon", "Bag"}

type actionPanel struct {
	ctx *battleContext

	actionFocus int
}

func newActionPanel(ctx *battleContext) actionPanel {
	return actionPanel{
		ctx: ctx,
	}
}

func (m actionPanel) Init() tea.Cmd { return nil }
func (m actionPanel) View() string {
	buttons := lo.Map(actionNames, func(name string, i int) string {
		if i == m.actionFocus {
			return rendering.HighlightedPanelStyle.Width(15).Render(name)
		}

		return rendering.PanelStyle.Width(15).Render(name)
	})

	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}

func (m actionPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, global.SelectKey) {
			switch m.actionFocus {
			case 0:
				return newMovePanel(m.ctx), nil
			case 1:
				return newSwitchPanel(m.ctx), nil
			case 2:
				return newBagPanel(m.ctx), nil
			}
		}

		if key.Matches(msg, global.MoveLeftKey) {
			m.actionFocus--

			if m.actionFocus < 0 {
				m.actionFocus = len(actionNames) - 1
			}
		}

		if key.Matches(msg, global.MoveRightKey) {
			m.actionFocus++

			if m.actionFocus >= len(actionNames) {
				m.actionFocus = 0
			}
		}
	}

	return m, nil
}

type movePanel struct {
	ctx           *battleContext
	moveGridFocus int

	moves []golurk.MoveView
	// every move is out of PP, any slot may be picked so the engine can report it
	outOfMoves bool
}

func newMovePanel(ctx *battleContext) movePanel {
	moves := ctx.battle.ActiveView(golurk.PLAYER).Moves

	return movePanel{
		ctx:   ctx,
		moves: moves,
		outOfMoves: !lo.ContainsBy(moves, func(move golurk.MoveView) bool {
			return move.PP > 0
		}),
	}
}

func (m movePanel) usable(index int) bool {
	if index < 0 || index >= len(m.moves) {
		return false
	}

	return m.outOfMoves || m.moves[index].PP > 0
}

func (m movePanel) Init() tea.Cmd { return nil }
func (m movePanel) View() string {
	grid := make([]string, 0, 2)

	for i := range 2 {
		row := make([]string, 0, 2)
		for j := range 2 {
			arrayIndex := (i * 2) + j

			style := rendering.PanelStyle.Width(22)
			switch {
			case arrayIndex == m.moveGridFocus:
				style = rendering.HighlightedPanelStyle.Width(22)
			case !m.usable(arrayIndex):
				style = rendering.DisabledPanelStyle.Width(22)
			}

			if arrayIndex >= len(m.moves) {
				row = append(row, style.Render("Empty\n"))
				continue
			}

			move := m.moves[arrayIndex]
			row = append(row, style.Render(fmt.Sprintf("%s\n%s PP %d/%d", move.Name, rendering.TypeBadge(move.Type), move.PP, move.MaxPP)))
		}

		grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Center, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Center, grid...)
}

func (m movePanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, global.MoveLeftKey) {
			m.moveGridFocus = max(0, m.moveGridFocus-1)
		}

		if key.Matches(msg, global.MoveRightKey) {
			m.moveGridFocus = min(golurk.MAX_MOVES-1, m.moveGridFocus+1)
		}

		if key.Matches(msg, global.MoveDownKey) {
			m.moveGridFocus = min(golurk.MAX_MOVES-1, m.moveGridFocus+2)
		}

		if key.Matches(msg, global.MoveUpKey) {
			m.moveGridFocus = max(0, m.moveGridFocus-2)
		}

		if key.Matches(msg, global.SelectKey) && m.usable(m.moveGridFocus) {
			return m, chooseAction(golurk.NewAttackAction(m.moveGridFocus))
		}
	}

	return m, nil
}

type switchPanel struct {
	ctx      *battleContext
	teamView components.TeamView
}

func newSwitchPanel(ctx *battleContext) switchPanel {
	battle := ctx.battle
	teamView := components.NewTeamView(battle.TeamView(golurk.PLAYER), battle.Player.ActivePokeIndex)
	teamView.Focused = true

	if targets := battle.ValidSwitchTargets(golurk.PLAYER); len(targets) > 0 {
		teamView.CurrentPokemonIndex = targets[0]
	}

	return switchPanel{
		ctx:      ctx,
		teamView: teamView,
	}
}

func (m switchPanel) Init() tea.Cmd { return nil }
func (m switchPanel) View() string {
	forcedSwitch := ""
	if m.ctx.forcedSwitch {
		forcedSwitch = "Your Pokemon fainted, please select a new one to switch in"
	}

	return lipgloss.JoinVertical(lipgloss.Center, forcedSwitch, m.teamView.View())
}

func (m switchPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, global.SelectKey) {
			selected := m.teamView.Selected()

			// Only allow switches to alive pokemon that aren't already out
			if m.teamView.Selectable(selected) {
				return m, chooseAction(golurk.NewSwitchAction(selected))
			}

			return m, nil
		}
	}

	teamView, _ := m.teamView.Update(msg)
	m.teamView = teamView.(components.TeamView)

	return m, nil
}

type bagItem struct {
	item  golurk.Item
	count int
}

func (i bagItem) FilterValue() string { return i.item.Name }
func (i bagItem) Value() string       { return fmt.Sprintf("%s x%d", i.item.Name, i.count) }
func (i bagItem) Disabled() bool      { return i.count <= 0 }

type bagPanel struct {
	ctx   *battleContext
	items list.Model
}

func newBagPanel(ctx *battleContext) bagPanel {
	bag := ctx.battle.Player.Bag

	items := lo.FilterMap(golurk.ItemIDs(), func(id string, _ int) (rendering.SimpleItem, bool) {
		item, _ := golurk.LookupItem(id)
		count, ok := bag[id]
		return bagItem{item, count}, ok
	})

	itemList := rendering.NewSimpleList(items, 30, max(len(items), 1)+2)
	// the battle view owns quitting
	itemList.KeyMap.Quit.SetEnabled(false)

	return bagPanel{
		ctx:   ctx,
		items: itemList,
	}
}

func (m bagPanel) Init() tea.Cmd { return nil }
func (m bagPanel) View() string {
	if len(m.items.Items()) == 0 {
		return rendering.DisabledPanelStyle.Render("Your bag is empty")
	}

	return rendering.PanelStyle.Render(m.items.View())
}

func (m bagPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, global.SelectKey) {
			selected, ok := m.items.SelectedItem().(bagItem)
			if ok && !selected.Disabled() {
				return m, chooseAction(golurk.NewItemAction(selected.item.ID))
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)

	return m, cmd
}
