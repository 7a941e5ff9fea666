package teameditor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/samber/lo"
)

var (
	nextEditorKey = key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next editor"))
	prevEditorKey = key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous editor"))
)

type editor interface {
	View() string
	Update(*editPokemonModel, tea.Msg) (editor, tea.Cmd)
}

// editPokemonModel edits one team entry. Esc writes the entry back into the team.
type editPokemonModel struct {
	parent TeamEditorModel
	index  int
	entry  dex.TeamEntry

	editors     []editor
	editorNames []string
	focus       int

	// false while a list is filtering, so esc clears the filter instead
	listeningForEscape bool
	err                error
}

func newEditPokemonModel(parent TeamEditorModel, index int) editPokemonModel {
	entry := parent.team.Team[index]
	entry.Moves = slices.Clone(entry.Moves)
	species, _ := parent.dex.Species(entry.Species)

	return editPokemonModel{
		parent: parent,
		index:  index,
		entry:  entry,
		editors: []editor{
			newDetailsEditor(species, entry),
			newMoveEditor(parent.dex, entry),
			newAbilityEditor(species, entry),
		},
		editorNames:        []string{"Details", "Moves", "Ability"},
		listeningForEscape: true,
	}
}

func (m editPokemonModel) Init() tea.Cmd {
	return nil
}

func (m editPokemonModel) View() string {
	tabs := make([]string, len(m.editorNames))
	for i, name := range m.editorNames {
		if i == m.focus {
			tabs[i] = rendering.HighlightedPanelStyle.Render(name)
		} else {
			tabs[i] = rendering.PanelStyle.Render(name)
		}
	}

	errView := ""
	if m.err != nil {
		errView = rendering.ErrorStyle.Render(m.err.Error())
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Left,
		describeEntry(m.entry),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.editors[m.focus].View(),
		"[/]: switch editor  esc: done",
		errView,
	))
}

func (m editPokemonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.listeningForEscape {
		switch {
		case key.Matches(keyMsg, global.BackKey):
			m.parent.team.Team[m.index] = m.entry
			return m.parent, nil
		case key.Matches(keyMsg, nextEditorKey):
			m.focus = (m.focus + 1) % len(m.editors)
			return m, nil
		case key.Matches(keyMsg, prevEditorKey):
			m.focus = (m.focus - 1 + len(m.editors)) % len(m.editors)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editors[m.focus], cmd = m.editors[m.focus].Update(&m, msg)

	return m, cmd
}

type detailsEditor struct {
	species    dex.Species
	levelInput textinput.Model
}

func newDetailsEditor(species dex.Species, entry dex.TeamEntry) detailsEditor {
	levelInput := textinput.New()
	levelInput.Placeholder = "battle level"
	levelInput.Prompt = "Level: "
	levelInput.CharLimit = 3
	levelInput.Focus()
	if entry.Level > 0 {
		levelInput.SetValue(strconv.Itoa(entry.Level))
	}

	return detailsEditor{species, levelInput}
}

func (e detailsEditor) View() string {
	types := lo.Map(e.species.Types, func(t golurk.PokemonType, _ int) string { return rendering.TypeBadge(t) })
	base := e.species.Base
	stats := fmt.Sprintf("HP %d  Atk %d  Def %d  SpA %d  SpD %d  Spe %d",
		base.Hp, base.Attack, base.Defense, base.SpAttack, base.SpDefense, base.Speed)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, append([]string{e.species.Name, " "}, types...)...),
		stats,
		e.levelInput.View(),
	)
}

// An empty level falls back to the battle level
func (e detailsEditor) Update(rootModel *editPokemonModel, msg tea.Msg) (editor, tea.Cmd) {
	var cmd tea.Cmd
	e.levelInput, cmd = e.levelInput.Update(msg)

	value := strings.TrimSpace(e.levelInput.Value())
	if value == "" {
		rootModel.entry.Level = 0
		rootModel.err = nil
		return e, cmd
	}

	level, err := strconv.Atoi(value)
	if err != nil || level < 1 || level > golurk.MAX_LEVEL {
		rootModel.err = fmt.Errorf("level must be between 1 and %d", golurk.MAX_LEVEL)
		return e, cmd
	}

	rootModel.entry.Level = level
	rootModel.err = nil

	return e, cmd
}

type moveEditor struct {
	moveIndex     int
	selectedMoves [golurk.MAX_MOVES]string
	lists         [golurk.MAX_MOVES]list.Model
}

// moveItem with a nil Move clears the slot
type moveItem struct {
	*golurk.Move
}

func (i moveItem) FilterValue() string {
	if i.Move == nil {
		return "nothing"
	}
	return i.Name
}

func (i moveItem) Value() string {
	if i.Move == nil {
		return "Nothing"
	}
	return fmt.Sprintf("%-14s %-9s %3d", i.Label(), i.Type.String(), i.Power)
}

func (i moveItem) Disabled() bool { return false }

func newMoveEditor(d *dex.Dex, entry dex.TeamEntry) moveEditor {
	learnset := d.Learnset(entry.Species)

	startingMoves := entry.Moves
	if len(startingMoves) == 0 {
		startingMoves = learnset[:min(golurk.MAX_MOVES, len(learnset))]
	}

	var selected [golurk.MAX_MOVES]string
	copy(selected[:], startingMoves)

	items := []list.Item{moveItem{}}
	for _, moveName := range learnset {
		if move, ok := d.Move(moveName); ok {
			items = append(items, moveItem{move})
		}
	}

	var lists [golurk.MAX_MOVES]list.Model
	for i := range lists {
		moveList := list.New(items, rendering.NewSimpleListDelegate(), 36, 12)
		moveList.SetFilteringEnabled(true)
		moveList.SetShowStatusBar(false)
		moveList.SetShowHelp(false)
		moveList.DisableQuitKeybindings()
		moveList.KeyMap.NextPage = key.NewBinding(key.WithKeys("l"))
		moveList.KeyMap.PrevPage = key.NewBinding(key.WithKeys("h"))

		moveList.Title = fmt.Sprintf("Select Move %d", i+1)
		lists[i] = moveList
	}

	return moveEditor{
		selectedMoves: selected,
		lists:         lists,
	}
}

func (e moveEditor) View() string {
	moves := make([]string, golurk.MAX_MOVES)

	for i := range moves {
		move := "Nothing"
		if e.selectedMoves[i] != "" {
			move = e.selectedMoves[i]
		}

		if i == e.moveIndex {
			moves[i] = fmt.Sprintf("> Move %d: %s", i+1, move)
		} else {
			moves[i] = fmt.Sprintf("Move %d: %s", i+1, move)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, e.lists[e.moveIndex].View(), lipgloss.JoinVertical(lipgloss.Left, moves...))
}

func (e moveEditor) moves() []string {
	moves := lo.Compact(e.selectedMoves[:])
	if len(moves) == 0 {
		return nil
	}

	return moves
}

// Update picks moves slot by slot. A move can only fill one slot.
func (e moveEditor) Update(rootModel *editPokemonModel, msg tea.Msg) (editor, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && e.lists[e.moveIndex].FilterState() != list.Filtering {
		switch keyMsg.Type {
		case tea.KeyTab:
			e.moveIndex = (e.moveIndex + 1) % golurk.MAX_MOVES
			return e, nil
		case tea.KeyShiftTab:
			e.moveIndex = (e.moveIndex - 1 + golurk.MAX_MOVES) % golurk.MAX_MOVES
			return e, nil
		case tea.KeyEnter:
			choice, ok := e.lists[e.moveIndex].SelectedItem().(moveItem)
			if !ok {
				return e, nil
			}

			moveName := ""
			if choice.Move != nil {
				moveName = choice.Name
			}

			for i, selected := range e.selectedMoves {
				if moveName != "" && i != e.moveIndex && selected == moveName {
					rootModel.err = fmt.Errorf("%s already knows %s", rootModel.entry.Species, moveName)
					return e, nil
				}
			}

			e.selectedMoves[e.moveIndex] = moveName
			rootModel.entry.Moves = e.moves()
			rootModel.err = nil

			e.lists[e.moveIndex].ResetFilter()
			rootModel.listeningForEscape = true
			e.moveIndex = (e.moveIndex + 1) % golurk.MAX_MOVES

			return e, nil
		}
	}

	var cmd tea.Cmd
	e.lists[e.moveIndex], cmd = e.lists[e.moveIndex].Update(msg)

	switch e.lists[e.moveIndex].FilterState() {
	// Escape is the default keybind for clearing a filter
	// so we stop listening for it in the root model
	case list.Filtering, list.FilterApplied:
		rootModel.listeningForEscape = false
	default:
		rootModel.listeningForEscape = true
	}

	return e, cmd
}

type abilityEditor struct {
	abilityListModel list.Model
}

type abilityItem string

func (a abilityItem) FilterValue() string { return string(a) }
func (a abilityItem) Value() string       { return string(a) }
func (a abilityItem) Disabled() bool      { return false }

func newAbilityEditor(species dex.Species, entry dex.TeamEntry) abilityEditor {
	items := lo.Map(species.Abilities, func(ability string, _ int) rendering.SimpleItem {
		return abilityItem(ability)
	})

	aList := rendering.NewSimpleList(items, 30, 8)
	if index := slices.Index(species.Abilities, entry.Ability); index >= 0 {
		aList.Select(index)
	}

	return abilityEditor{aList}
}

func (e abilityEditor) View() string {
	if len(e.abilityListModel.Items()) == 0 {
		return "No abilities"
	}

	return e.abilityListModel.View()
}

func (e abilityEditor) Update(rootModel *editPokemonModel, msg tea.Msg) (editor, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if ability, ok := e.abilityListModel.SelectedItem().(abilityItem); ok {
			rootModel.entry.Ability = string(ability)
		}
	}

	e.abilityListModel, cmd = e.abilityListModel.Update(msg)

	return e, cmd
}
