package battleview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering"
	"github.com/nathanieltooley/pokeduel/poketerm/rendering/components"
	"github.com/rs/zerolog/log"
)

const DEFAULT_MESSAGE_DELAY = time.Millisecond * 800

// battle view state machine
type smState int

const (
	SM_WAITING_FOR_USER_ACTION smState = iota
	SM_SHOWING_EVENTS
	SM_FORCED_SWITCH
)

// Used to send info around different battle UI components
type battleContext struct {
	battle *golurk.BattleManager
	// Does the player need to replace a fainted pokemon?
	forcedSwitch bool
}

type (
	// sent by a panel once the player has picked their action
	actionChosenMsg struct {
		action golurk.Action
	}
	// seq lets a skipped message invalidate the tick that was already scheduled
	nextMessageMsg struct {
		seq int
	}
)

func chooseAction(action golurk.Action) tea.Cmd {
	return func() tea.Msg {
		return actionChosenMsg{action}
	}
}

type Option func(*BattleModel)

// WithMessageDelay sets how long each battle message stays on screen
func WithMessageDelay(delay time.Duration) Option {
	return func(m *BattleModel) {
		m.messageDelay = delay
	}
}

// WithOnFinish runs fn once the battle is over, before the end screen is shown
func WithOnFinish(fn func(*golurk.BattleManager) error) Option {
	return func(m *BattleModel) {
		m.onFinish = fn
	}
}

// WithBacktrack is where the end screen goes once the player leaves it
func WithBacktrack(backtrack components.Breadcrumbs) Option {
	return func(m *BattleModel) {
		m.backtrack = backtrack
	}
}

type BattleModel struct {
	ctx   *battleContext
	state smState
	panel tea.Model

	// events of the last turn that still have to be shown
	eventQueue     []golurk.TurnEvent
	messageQueue   []string
	currentMessage string
	seq            int

	// what the side panels show, lags behind the battle while events are replayed
	playerSnap   golurk.Snapshot
	opponentSnap golurk.Snapshot
	playerBar    progress.Model
	opponentBar  progress.Model

	help help.Model
	keys keyMap

	err          error
	messageDelay time.Duration
	onFinish     func(*golurk.BattleManager) error
	backtrack    components.Breadcrumbs
}

// NewBattleModel shows battle from the player's side. The opponent side's actions come from the AI.
// The events the battle has produced so far, normally the leads being sent out, are replayed first.
func NewBattleModel(battle *golurk.BattleManager, opts ...Option) BattleModel {
	m := BattleModel{
		ctx:          &battleContext{battle: battle},
		state:        SM_SHOWING_EVENTS,
		playerSnap:   viewSnapshot(battle.ActiveView(golurk.PLAYER)),
		opponentSnap: viewSnapshot(battle.ActiveView(golurk.OPPONENT)),
		playerBar:    newHealthBar(),
		opponentBar:  newHealthBar(),
		help:         help.New(),
		messageDelay: DEFAULT_MESSAGE_DELAY,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.eventQueue = battle.Events()

	return m
}

func viewSnapshot(view golurk.PokemonView) golurk.Snapshot {
	return golurk.Snapshot{
		Name:   view.Name,
		Hp:     view.Hp,
		MaxHp:  view.MaxHp,
		Status: view.Status,
	}
}

func (m BattleModel) Init() tea.Cmd {
	// Init can't bump seq, so the first message uses the current one
	seq := m.seq
	return func() tea.Msg {
		return nextMessageMsg{seq}
	}
}

func (m BattleModel) View() string {
	battle := m.ctx.battle

	panelView := ""
	if m.state != SM_SHOWING_EVENTS && m.panel != nil {
		panelView = m.panel.View()
	}

	errView := ""
	if m.err != nil {
		errView = rendering.ErrorStyle.Render(m.err.Error())
	}

	return rendering.GlobalCenter(
		lipgloss.JoinVertical(
			lipgloss.Center,

			fmt.Sprintf("Turn: %d", battle.Turn),

			rendering.ButtonStyle.Width(50).Render(m.currentMessage),

			lipgloss.JoinHorizontal(
				lipgloss.Center,
				renderSidePanel(battle.Player.Name, m.playerSnap, m.playerBar),
				renderSidePanel(battle.Opponent.Name, m.opponentSnap, m.opponentBar),
			),

			panelView,
			errView,
			m.help.View(m.keys),
		),
	)
}

func (m BattleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		// errors stay up until the next key press
		m.err = nil

		switch {
		case key.Matches(msg, global.QuitKey):
			return m, tea.Quit
		case key.Matches(msg, global.HelpKey):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, global.BackKey):
			if m.state == SM_WAITING_FOR_USER_ACTION {
				if _, ok := m.panel.(actionPanel); !ok {
					m.panel = newActionPanel(m.ctx)
				}
			}
			return m, nil
		}

		if m.state == SM_SHOWING_EVENTS {
			// skip ahead to the next message
			if key.Matches(msg, global.SelectKey) {
				return m.advance()
			}
			return m, nil
		}
	case nextMessageMsg:
		if msg.seq != m.seq || m.state != SM_SHOWING_EVENTS {
			return m, nil
		}

		return m.advance()
	case actionChosenMsg:
		return m.handleAction(msg.action)
	}

	if m.panel != nil && m.state != SM_SHOWING_EVENTS {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m BattleModel) handleAction(action golurk.Action) (tea.Model, tea.Cmd) {
	battle := m.ctx.battle

	switch m.state {
	case SM_FORCED_SWITCH:
		switchAction, ok := action.(golurk.SwitchAction)
		if !ok {
			log.Warn().Str("action", action.String()).Msg("only a switch can replace a fainted pokemon")
			return m, nil
		}

		before := len(battle.Events())
		if err := battle.SwitchTo(golurk.PLAYER, switchAction.SwitchIndex); err != nil {
			log.Err(err).Msg("forced switch failed")
			m.err = err
			return m, nil
		}

		m.ctx.forcedSwitch = false
		m.queueEvents(battle.Events()[before:])
	case SM_WAITING_FOR_USER_ACTION:
		opponentAction := battle.MakeAiAction(golurk.OPPONENT)

		log.Info().
			Str("player_action", action.String()).
			Str("opponent_action", opponentAction.String()).
			Msg("player chose an action")

		result, err := battle.TakeTurn(action, opponentAction)
		if err != nil {
			log.Err(err).Msg("turn was rejected")
			m.err = err
			return m, nil
		}

		m.queueEvents(result.Events)
	default:
		log.Warn().Int("state", int(m.state)).Msg("action chosen while events are being shown")
		return m, nil
	}

	return m, m.nextMessageNow()
}

func (m *BattleModel) queueEvents(events []golurk.TurnEvent) {
	m.eventQueue = append(m.eventQueue, events...)
	m.state = SM_SHOWING_EVENTS
	m.panel = nil
}

// nextMessage pops the next message to show, pulling in events as the message queue runs dry.
// Returns false once both queues are empty.
func (m *BattleModel) nextMessage() bool {
	for len(m.messageQueue) == 0 {
		if len(m.eventQueue) == 0 {
			return false
		}

		event := m.eventQueue[0]
		m.eventQueue = m.eventQueue[1:]

		m.playerSnap = event.Player
		m.opponentSnap = event.Opponent
		m.messageQueue = append(m.messageQueue, event.Messages...)
	}

	m.currentMessage = m.messageQueue[0]
	m.messageQueue = m.messageQueue[1:]

	log.Debug().Msgf("Rendering next message: %s", m.currentMessage)

	return true
}

func (m BattleModel) advance() (tea.Model, tea.Cmd) {
	if m.nextMessage() {
		return m, m.scheduleNext(m.messageDelay)
	}

	return m.finishReplay()
}

// finishReplay picks what comes after the events of a turn have all been shown
func (m BattleModel) finishReplay() (tea.Model, tea.Cmd) {
	battle := m.ctx.battle

	m.currentMessage = ""
	m.playerSnap = viewSnapshot(battle.ActiveView(golurk.PLAYER))
	m.opponentSnap = viewSnapshot(battle.ActiveView(golurk.OPPONENT))

	if battle.IsBattleOver() {
		log.Info().
			Str("battle_id", battle.ID.String()).
			Str("winner", battle.Winner().String()).
			Int("turns", battle.Turn).
			Msg("battle over")

		end := newEndScreen(battle, m.backtrack)
		return end, end.save(m.onFinish)
	}

	if battle.PendingSwitch(golurk.PLAYER) {
		m.ctx.forcedSwitch = true
		m.state = SM_FORCED_SWITCH
		m.panel = newSwitchPanel(m.ctx)
		return m, nil
	}

	m.state = SM_WAITING_FOR_USER_ACTION
	m.panel = newActionPanel(m.ctx)

	return m, nil
}

func (m *BattleModel) nextMessageNow() tea.Cmd {
	return m.scheduleNext(0)
}

func (m *BattleModel) scheduleNext(delay time.Duration) tea.Cmd {
	m.seq++
	seq := m.seq

	if delay <= 0 {
		return func() tea.Msg {
			return nextMessageMsg{seq}
		}
	}

	return tea.Tick(delay, func(time.Time) tea.Msg {
		return nextMessageMsg{seq}
	})
}

type keyMap struct{}

func (keyMap) ShortHelp() []key.Binding {
	return []key.Binding{global.SelectKey, global.BackKey, global.HelpKey, global.QuitKey}
}

func (keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{global.MoveUpKey, global.MoveDownKey, global.MoveLeftKey, global.MoveRightKey},
		{global.SelectKey, global.BackKey},
		{global.HelpKey, global.QuitKey},
	}
}
