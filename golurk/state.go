package golurk

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Side int

// plus 1 so the zero value is never a real side
const (
	PLAYER Side = iota + 1
	OPPONENT
)

var SIDES = []Side{PLAYER, OPPONENT}

func (s Side) Opposite() Side {
	switch s {
	case PLAYER:
		return OPPONENT
	case OPPONENT:
		return PLAYER
	}

	return s
}

func (s Side) String() string {
	switch s {
	case PLAYER:
		return "player"
	case OPPONENT:
		return "opponent"
	}

	return "none"
}

type Phase int

const (
	PHASE_IDLE Phase = iota
	PHASE_TURN_ORDER_DECIDED
	PHASE_FIRST_ACTION
	PHASE_SECOND_ACTION
	PHASE_END_OF_TURN
	PHASE_BATTLE_OVER
)

var phaseNames = map[Phase]string{
	PHASE_IDLE:               "idle",
	PHASE_TURN_ORDER_DECIDED: "turn_order_decided",
	PHASE_FIRST_ACTION:       "first_move_resolving",
	PHASE_SECOND_ACTION:      "second_move_resolving",
	PHASE_END_OF_TURN:        "end_of_turn_status",
	PHASE_BATTLE_OVER:        "battle_over",
}

func (p Phase) String() string {
	return phaseNames[p]
}

type Player struct {
	Name            string
	IsAI            bool
	Team            []Pokemon
	ActivePokeIndex int
	// Bag maps item ids to how many are left
	Bag map[string]int
}

func (p *Player) GetActivePokemon() *Pokemon {
	return &p.Team[p.ActivePokeIndex]
}

func (p *Player) GetPokemon(index int) *Pokemon {
	if index < 0 || index >= len(p.Team) {
		return nil
	}

	return &p.Team[index]
}

func (p *Player) Lost() bool {
	for i := range p.Team {
		if p.Team[i].Alive() {
			return false
		}
	}

	return true
}

// ValidSwitchTargets lists the team indices that can be switched in right now
func (p *Player) ValidSwitchTargets() []int {
	targets := make([]int, 0, len(p.Team))
	for i := range p.Team {
		if p.canSwitchTo(i) {
			targets = append(targets, i)
		}
	}

	return targets
}

func (p *Player) canSwitchTo(index int) bool {
	pokemon := p.GetPokemon(index)
	return pokemon != nil && pokemon.Alive() && index != p.ActivePokeIndex
}

func (p *Player) validate() error {
	if len(p.Team) == 0 || len(p.Team) > MAX_TEAM_SIZE {
		return fmt.Errorf("%w: %s has %d pokemon, expected 1-%d", ErrInvalidTeam, p.Name, len(p.Team), MAX_TEAM_SIZE)
	}

	if p.ActivePokeIndex < 0 || p.ActivePokeIndex >= len(p.Team) {
		return fmt.Errorf("%w: %s's active index %d is out of range", ErrInvalidTeam, p.Name, p.ActivePokeIndex)
	}

	for i := range p.Team {
		pokemon := &p.Team[i]
		if pokemon.Battle.MaxHp <= 0 {
			return fmt.Errorf("%w: %s has no stats, build it with a PokemonBuilder", ErrInvalidPokemon, pokemon.Name)
		}
		if len(pokemon.Moves) == 0 || len(pokemon.Moves) > MAX_MOVES {
			return fmt.Errorf("%w: %s knows %d moves, expected 1-%d", ErrInvalidPokemon, pokemon.Name, len(pokemon.Moves), MAX_MOVES)
		}
		if lo.Contains(pokemon.Moves, nil) {
			return fmt.Errorf("%w: %s has an empty move slot", ErrInvalidPokemon, pokemon.Name)
		}
		if pokemon.Ability == nil {
			pokemon.Ability = NewAbility("")
		}
	}

	if !p.GetActivePokemon().Alive() {
		return fmt.Errorf("%w: %s's lead has already fainted", ErrInvalidTeam, p.Name)
	}

	return nil
}

// BattleManager owns a single battle. It is not safe for concurrent use,
// run separate battles on separate managers.
type BattleManager struct {
	ID        uuid.UUID
	StartedAt time.Time
	Player    Player
	Opponent  Player
	Turn      int

	rng        *rand.Rand
	phase      Phase
	battleOver bool
	winner     Side

	log          []string
	turnLogStart int
	events       []TurnEvent

	pendingSwitch map[Side]bool
	acted         map[Side]bool
	flinched      map[Side]bool
	activeAtStart map[Side]int
	faintHandled  map[*Pokemon]bool
}

type battleOptions struct {
	source rand.Source
	id     uuid.UUID
}

type BattleOption func(*battleOptions)

func WithSeed(seed1 uint64, seed2 uint64) BattleOption {
	return func(o *battleOptions) {
		o.source = rand.NewPCG(seed1, seed2)
	}
}

// WithRandSource is mainly for tests that need to force rolls
func WithRandSource(source rand.Source) BattleOption {
	return func(o *battleOptions) {
		o.source = source
	}
}

func WithID(id uuid.UUID) BattleOption {
	return func(o *battleOptions) {
		o.id = id
	}
}

// NewBattle validates both sides and sends out their leads. The teams are copied,
// so the caller's pokemon are never mutated by the battle.
func NewBattle(player Player, opponent Player, opts ...BattleOption) (*BattleManager, error) {
	options := battleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.source == nil {
		options.source = CreateRandomStateSeed()
	}
	if options.id == uuid.Nil {
		options.id = uuid.New()
	}

	player.Team = lo.Map(player.Team, func(p Pokemon, _ int) Pokemon { return p.Clone() })
	opponent.Team = lo.Map(opponent.Team, func(p Pokemon, _ int) Pokemon { return p.Clone() })
	player.Bag = copyBag(player.Bag)
	opponent.Bag = copyBag(opponent.Bag)

	if err := player.validate(); err != nil {
		return nil, err
	}
	if err := opponent.validate(); err != nil {
		return nil, err
	}

	m := &BattleManager{
		ID:            options.id,
		StartedAt:     time.Now(),
		Player:        player,
		Opponent:      opponent,
		rng:           CreateRNG(options.source),
		phase:         PHASE_IDLE,
		pendingSwitch: make(map[Side]bool),
		acted:         make(map[Side]bool),
		flinched:      make(map[Side]bool),
		activeAtStart: make(map[Side]int),
		faintHandled:  make(map[*Pokemon]bool),
	}

	turnLogger().Info("battle created", "battle_id", m.ID.String(), "player", player.Name, "opponent", opponent.Name)

	m.apply(
		SwitchEvent{Side: PLAYER, SwitchIndex: player.ActivePokeIndex, Initial: true},
		SwitchEvent{Side: OPPONENT, SwitchIndex: opponent.ActivePokeIndex, Initial: true},
	)
	m.apply(m.leadSwitchInEvents()...)

	return m, nil
}

// leadSwitchInEvents collects the switch-in hooks of both leads, player first
func (m *BattleManager) leadSwitchInEvents() []StateEvent {
	events := make([]StateEvent, 0)
	for _, side := range []Side{PLAYER, OPPONENT} {
		lead := m.active(side)
		events = append(events, lead.Ability.OnSwitchIn(lead, side, m.active(side.Opposite()))...)
	}

	return events
}

func copyBag(bag map[string]int) map[string]int {
	copied := make(map[string]int, len(bag))
	for id, count := range bag {
		copied[id] = count
	}

	return copied
}

func (m *BattleManager) GetPlayer(side Side) *Player {
	if side == OPPONENT {
		return &m.Opponent
	}

	return &m.Player
}

// getPlayerPair returns the player on side and their opponent
func (m *BattleManager) getPlayerPair(side Side) (*Player, *Player) {
	return m.GetPlayer(side), m.GetPlayer(side.Opposite())
}

func (m *BattleManager) active(side Side) *Pokemon {
	return m.GetPlayer(side).GetActivePokemon()
}

func (m *BattleManager) IsBattleOver() bool {
	return m.battleOver
}

// Winner is the side that won. It is zero while the battle is running or if both sides fell together.
func (m *BattleManager) Winner() Side {
	return m.winner
}

func (m *BattleManager) Phase() Phase {
	return m.phase
}

// PendingSwitch reports whether side has to call SwitchTo before the next turn
func (m *BattleManager) PendingSwitch(side Side) bool {
	return m.pendingSwitch[side]
}

func (m *BattleManager) ValidSwitchTargets(side Side) []int {
	return m.GetPlayer(side).ValidSwitchTargets()
}

// Log returns every message of the battle so far
func (m *BattleManager) Log() []string {
	return append([]string(nil), m.log...)
}

// TurnLog returns the messages of the latest turn, including any forced switches made after it
func (m *BattleManager) TurnLog() []string {
	return append([]string(nil), m.log[m.turnLogStart:]...)
}

// Events returns the structured events of the latest turn
func (m *BattleManager) Events() []TurnEvent {
	return append([]TurnEvent(nil), m.events...)
}

func (m *BattleManager) setPhase(phase Phase) {
	turnLogger().V(1).Info("phase change", "from", m.phase.String(), "to", phase.String())
	m.phase = phase
}
