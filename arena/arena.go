// Package arena wraps a battle as a step-by-step environment for training and evaluating agents.
// The agent always plays the player side against the built-in AI.
package arena

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-logr/logr"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/samber/lo"
)

const (
	ACTION_COUNT     = golurk.MAX_MOVES
	OBSERVATION_SIZE = 3 + 2*golurk.MAX_MOVES

	// move power is scaled against this and clamped to 1
	MAX_POWER = 150.0

	WIN_REWARD  = 1.0
	LOSS_REWARD = -1.0
)

var (
	ErrNotReset      = errors.New("environment has not been reset")
	ErrEpisodeDone   = errors.New("episode is already done")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidConfig = errors.New("invalid arena config")
)

// Observation is, in order: own hp ratio, opponent hp ratio, the power of each move slot,
// the remaining pp ratio of each move slot and the agent's share of the combined speed.
// Every value is in [0, 1].
type Observation [OBSERVATION_SIZE]float64

type StepResult struct {
	Observation Observation
	Reward      float64
	// Terminated is true once either side has no pokemon left
	Terminated bool
	// Truncated is true when the episode hit MaxTurns without a winner
	Truncated bool
	Turn      int
	Log       []string
}

func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}

type Config struct {
	TeamSize int
	Level    int
	MaxTurns int
	Logger   logr.Logger
}

func DefaultConfig() Config {
	return Config{
		TeamSize: 3,
		Level:    dex.DEFAULT_LEVEL,
		MaxTurns: 100,
		Logger:   logr.Discard(),
	}
}

func (c Config) validate() error {
	errs := make([]error, 0)
	if c.TeamSize < 1 || c.TeamSize > golurk.MAX_TEAM_SIZE {
		errs = append(errs, fmt.Errorf("team size must be 1-%d, got %d", golurk.MAX_TEAM_SIZE, c.TeamSize))
	}
	if c.Level < 0 || c.Level > golurk.MAX_LEVEL {
		errs = append(errs, fmt.Errorf("level must be 0-%d, got %d", golurk.MAX_LEVEL, c.Level))
	}
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max turns must be positive, got %d", c.MaxTurns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

type Env struct {
	dex    *dex.Dex
	cfg    Config
	logger logr.Logger

	battle *golurk.BattleManager
	done   bool

	lastOwnHp      float64
	lastOpponentHp float64
}

// New creates an environment. Zero values in cfg fall back to DefaultConfig.
func New(d *dex.Dex, cfg Config) (*Env, error) {
	defaults := DefaultConfig()
	if cfg.TeamSize == 0 {
		cfg.TeamSize = defaults.TeamSize
	}
	if cfg.Level == 0 {
		cfg.Level = defaults.Level
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = defaults.MaxTurns
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = defaults.Logger
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Env{
		dex:    d,
		cfg:    cfg,
		logger: cfg.Logger.WithName("arena"),
	}, nil
}

// Reset starts a new episode. The same seed always produces the same teams and rolls.
func (e *Env) Reset(seed uint64) (Observation, error) {
	teamRng := rand.New(rand.NewPCG(seed, ^seed))

	agentTeam, err := e.dex.RandomTeam(teamRng, e.cfg.TeamSize, e.cfg.Level)
	if err != nil {
		return Observation{}, err
	}
	opponentTeam, err := e.dex.RandomTeam(teamRng, e.cfg.TeamSize, e.cfg.Level)
	if err != nil {
		return Observation{}, err
	}

	// both sides are AI so the engine replaces fainted pokemon with the best counter
	battle, err := golurk.NewBattle(
		golurk.Player{Name: "Agent", IsAI: true, Team: agentTeam},
		golurk.Player{Name: "Opponent", IsAI: true, Team: opponentTeam},
		golurk.WithSeed(seed, seed+1),
	)
	if err != nil {
		return Observation{}, err
	}

	e.battle = battle
	e.done = false
	e.lastOwnHp = teamHpRatio(&battle.Player)
	e.lastOpponentHp = teamHpRatio(&battle.Opponent)

	e.logger.V(1).Info("episode reset", "seed", seed,
		"agent_team", lo.Map(agentTeam, func(p golurk.Pokemon, _ int) string { return p.Name }),
		"opponent_team", lo.Map(opponentTeam, func(p golurk.Pokemon, _ int) string { return p.Name }))

	return e.observe(), nil
}

// ValidActions is the action mask for the agent's active pokemon.
// If no move has pp left the first slot stays valid so the episode can go on.
func (e *Env) ValidActions() []bool {
	mask := make([]bool, ACTION_COUNT)
	if e.battle == nil {
		return mask
	}

	active := e.battle.Player.GetActivePokemon()
	for i, move := range active.Moves {
		mask[i] = active.Battle.HasPP(move.Name)
	}

	if !lo.Contains(mask, true) {
		mask[0] = true
	}

	return mask
}

// Step plays one turn with the agent using the move in slot action
func (e *Env) Step(action int) (StepResult, error) {
	if e.battle == nil {
		return StepResult{}, ErrNotReset
	}
	if e.done {
		return StepResult{}, ErrEpisodeDone
	}

	mask := e.ValidActions()
	if action < 0 || action >= len(mask) || !mask[action] {
		return StepResult{}, fmt.Errorf("%w: %d, mask is %v", ErrInvalidAction, action, mask)
	}

	result, err := e.battle.TakeTurn(golurk.NewAttackAction(action), e.battle.MakeAiAction(golurk.OPPONENT))
	if err != nil {
		return StepResult{}, err
	}

	ownHp := teamHpRatio(&e.battle.Player)
	opponentHp := teamHpRatio(&e.battle.Opponent)

	reward := (e.lastOpponentHp - opponentHp) - (e.lastOwnHp - ownHp)
	e.lastOwnHp = ownHp
	e.lastOpponentHp = opponentHp

	step := StepResult{
		Turn: result.Turn,
		Log:  result.Log,
	}

	if result.BattleOver {
		step.Terminated = true
		switch result.Winner {
		case golurk.PLAYER:
			reward += WIN_REWARD
		case golurk.OPPONENT:
			reward += LOSS_REWARD
		}
	} else if result.Turn >= e.cfg.MaxTurns {
		step.Truncated = true
	}

	step.Reward = reward
	step.Observation = e.observe()
	e.done = step.Done()

	if e.done {
		e.logger.V(1).Info("episode finished", "turns", result.Turn, "winner", result.Winner.String(), "truncated", step.Truncated)
	}

	return step, nil
}

// Battle exposes the running battle, mostly for inspection in tests and tools
func (e *Env) Battle() *golurk.BattleManager {
	return e.battle
}

func (e *Env) observe() Observation {
	obs := Observation{}
	own := e.battle.Player.GetActivePokemon()
	opponent := e.battle.Opponent.GetActivePokemon()

	obs[0] = hpRatio(own)
	obs[1] = hpRatio(opponent)

	for i, move := range own.Moves {
		obs[2+i] = min(float64(move.Power)/MAX_POWER, 1)

		if maxPP := own.Battle.MaxPP[move.Name]; maxPP > 0 {
			obs[2+golurk.MAX_MOVES+i] = float64(own.Battle.PP[move.Name]) / float64(maxPP)
		}
	}

	ownSpeed := float64(own.Speed())
	totalSpeed := ownSpeed + float64(opponent.Speed())
	if totalSpeed > 0 {
		obs[OBSERVATION_SIZE-1] = ownSpeed / totalSpeed
	} else {
		obs[OBSERVATION_SIZE-1] = 0.5
	}

	return obs
}

func hpRatio(pokemon *golurk.Pokemon) float64 {
	if pokemon.Battle.MaxHp <= 0 {
		return 0
	}

	return float64(pokemon.Battle.Hp) / float64(pokemon.Battle.MaxHp)
}

// teamHpRatio is the team's remaining hp over its total max hp
func teamHpRatio(player *golurk.Player) float64 {
	hp := lo.SumBy(player.Team, func(p golurk.Pokemon) int { return p.Battle.Hp })
	maxHp := lo.SumBy(player.Team, func(p golurk.Pokemon) int { return p.Battle.MaxHp })
	if maxHp == 0 {
		return 0
	}

	return float64(hp) / float64(maxHp)
}
