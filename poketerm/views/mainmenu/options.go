package mainmenu

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/rs/zerolog/log"
)

type clearErrorMessage struct {
	t time.Time
}

// optionField is one editable setting. apply validates the input and writes it into cfg.
type optionField struct {
	label string
	input textinput.Model
	apply func(cfg *global.Config, value string) error
}

type optionsMenuModel struct {
	backtrack components.Breadcrumbs

	fields []optionField
	focus  int

	shouldShowError bool
	err             error
	status          string
}

func newOptionField(label string, value string, apply func(*global.Config, string) error) optionField {
	input := textinput.New()
	input.SetValue(value)

	return optionField{label, input, apply}
}

func newOptionsMenu(backtrack components.Breadcrumbs) optionsMenuModel {
	fields := []optionField{
		newOptionField("Player Name", global.Opt.Player.Name, func(cfg *global.Config, value string) error {
			cfg.Player.Name = value
			return nil
		}),
		newOptionField("Opponent Name", global.Opt.Opponent.Name, func(cfg *global.Config, value string) error {
			cfg.Opponent.Name = value
			return nil
		}),
		newOptionField("Message Delay", global.Opt.UI.MessageDelay.String(), func(cfg *global.Config, value string) error {
			delay, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("message delay: %w", err)
			}

			cfg.UI.MessageDelay = delay
			return nil
		}),
		newOptionField("Log Level", global.Opt.Logging.Level, func(cfg *global.Config, value string) error {
			cfg.Logging.Level = value
			level, err := cfg.Logging.ZerologLevel()
			if err != nil {
				return err
			}

			global.UpdateLogLevel(level)
			return nil
		}),
	}

	fields[0].input.Focus()

	return optionsMenuModel{
		backtrack: backtrack,
		fields:    fields,
	}
}

func (m optionsMenuModel) Init() tea.Cmd { return textinput.Blink }
func (m optionsMenuModel) View() string {
	if m.shouldShowError {
		return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, "Error!", rendering.ErrorStyle.Render(m.err.Error())))
	}

	views := make([]string, 0, len(m.fields)+2)
	views = append(views, "Options")
	for i, field := range m.fields {
		style := rendering.PanelStyle.Width(40)
		if i == m.focus {
			style = rendering.HighlightedPanelStyle.Width(40)
		}

		views = append(views, style.Render(lipgloss.JoinVertical(lipgloss.Left, field.label, field.input.View())))
	}
	views = append(views, m.status)

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, views...))
}

func (m optionsMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearErrorMessage:
		m.shouldShowError = false
		m.err = nil
		return m, nil
	case tea.KeyMsg:
		if m.shouldShowError {
			return m, nil
		}

		switch {
		case key.Matches(msg, global.DownTabKey):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, global.UpTabKey):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, global.BackKey):
			return m.backtrack.PopDefault(func() tea.Model { return m }), nil
		case key.Matches(msg, global.SelectKey):
			return m, m.applyFocused()
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)

	return m, cmd
}

func (m *optionsMenuModel) setFocus(focus int) tea.Cmd {
	m.fields[m.focus].input.Blur()

	m.focus = (focus + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].input.Focus()
}

// applyFocused writes the focused field into the active config and saves it
func (m *optionsMenuModel) applyFocused() tea.Cmd {
	field := m.fields[m.focus]
	value := strings.TrimSpace(field.input.Value())

	cfg := global.Opt
	if err := field.apply(&cfg, value); err != nil {
		return m.showError(err)
	}

	if err := cfg.Validate(); err != nil {
		return m.showError(err)
	}

	global.Opt = cfg
	m.status = field.label + " updated"

	if global.ConfigPath == "" {
		return nil
	}

	if err := global.SaveConfig(global.ConfigPath, cfg); err != nil {
		return m.showError(err)
	}

	log.Info().Str("option", field.label).Str("path", global.ConfigPath).Msg("options saved")
	m.status = field.label + " saved"

	return nil
}

func (m *optionsMenuModel) showError(err error) tea.Cmd {
	m.shouldShowError = true
	m.err = err

	log.Err(err).Msg("error in options")

	return tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return clearErrorMessage{t}
	})
}
