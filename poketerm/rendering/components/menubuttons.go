package components

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
)

var (
	nextButtonKey = key.NewBinding(key.WithKeys(slices.Concat(global.MoveDownKey.Keys(), global.DownTabKey.Keys())...))
	prevButtonKey = key.NewBinding(key.WithKeys(slices.Concat(global.MoveUpKey.Keys(), global.UpTabKey.Keys())...))

	hintStyle = lipgloss.NewStyle().Foreground(rendering.DisabledColor).Italic(true)
)

type ViewButton struct {
	Name string
	// Hint is shown under the menu while the button is highlighted
	Hint    string
	OnClick func() (tea.Model, tea.Cmd)
}

// MenuButtons is a vertical menu that wraps around at both ends
type MenuButtons struct {
	buttons []ViewButton
	index   int
}

func NewMenuButton(buttons []ViewButton) MenuButtons {
	return MenuButtons{
		buttons: buttons,
	}
}

// Update only returns a non nil model when a button is selected
func (m *MenuButtons) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.buttons) == 0 {
		return nil, nil
	}

	switch {
	case key.Matches(keyMsg, nextButtonKey):
		m.index = (m.index + 1) % len(m.buttons)
	case key.Matches(keyMsg, prevButtonKey):
		m.index = (m.index - 1 + len(m.buttons)) % len(m.buttons)
	case key.Matches(keyMsg, global.SelectKey):
		return m.buttons[m.index].OnClick()
	}

	return nil, nil
}

func (m MenuButtons) View() string {
	views := make([]string, 0, len(m.buttons)+1)
	for i, button := range m.buttons {
		if i == m.index {
			views = append(views, rendering.HighlightedButtonStyle.Render(button.Name))
		} else {
			views = append(views, rendering.ButtonStyle.Render(button.Name))
		}
	}

	if len(m.buttons) > 0 {
		views = append(views, hintStyle.Render(m.buttons[m.index].Hint))
	}

	return lipgloss.JoinVertical(lipgloss.Center, views...)
}
