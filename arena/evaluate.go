package arena

import (
	"fmt"
	"math/rand/v2"

	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/samber/lo"
)

// Policy picks an action from the observation and the action mask
type Policy interface {
	Act(obs Observation, valid []bool) int
}

type PolicyFunc func(obs Observation, valid []bool) int

func (f PolicyFunc) Act(obs Observation, valid []bool) int {
	return f(obs, valid)
}

// RandomPolicy picks uniformly between the valid actions
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (p *RandomPolicy) Act(_ Observation, valid []bool) int {
	actions := validIndices(valid)
	if len(actions) == 0 {
		return 0
	}

	return actions[p.rng.IntN(len(actions))]
}

// GreedyPolicy always uses the valid move with the highest observed power
var GreedyPolicy = PolicyFunc(func(obs Observation, valid []bool) int {
	return lo.MaxBy(validIndices(valid), func(a int, b int) bool {
		return obs[2+a] > obs[2+b]
	})
})

func validIndices(valid []bool) []int {
	return lo.FilterMap(valid, func(ok bool, i int) (int, bool) { return i, ok })
}

type Outcome string

const (
	OUTCOME_WIN  Outcome = "win"
	OUTCOME_LOSS Outcome = "loss"
	OUTCOME_DRAW Outcome = "draw"
)

type EpisodeResult struct {
	Episode int
	Seed    uint64
	Turns   int
	// Reward is the sum of every step's reward
	Reward  float64
	Outcome Outcome
}

type Summary struct {
	Episodes  int
	Wins      int
	Losses    int
	Draws     int
	AvgTurns  float64
	AvgReward float64
	Results   []EpisodeResult
}

func (s Summary) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}

	return float64(s.Wins) / float64(s.Episodes)
}

func (s Summary) LossRate() float64 {
	if s.Episodes == 0 {
		return 0
	}

	return float64(s.Losses) / float64(s.Episodes)
}

// Evaluate plays episodes with policy, seeding episode i with seed+i.
// Episodes that get truncated count as draws.
func Evaluate(env *Env, policy Policy, episodes int, seed uint64) (Summary, error) {
	summary := Summary{Episodes: episodes, Results: make([]EpisodeResult, 0, episodes)}
	if episodes <= 0 {
		return summary, nil
	}

	totalTurns := 0
	totalReward := 0.0

	for i := range episodes {
		episodeSeed := seed + uint64(i)
		obs, err := env.Reset(episodeSeed)
		if err != nil {
			return summary, fmt.Errorf("resetting episode %d: %w", i+1, err)
		}

		result := EpisodeResult{Episode: i + 1, Seed: episodeSeed}
		for {
			step, err := env.Step(policy.Act(obs, env.ValidActions()))
			if err != nil {
				return summary, fmt.Errorf("episode %d turn %d: %w", i+1, result.Turns+1, err)
			}

			obs = step.Observation
			result.Turns = step.Turn
			result.Reward += step.Reward

			if step.Done() {
				break
			}
		}

		switch env.Battle().Winner() {
		case 0:
			result.Outcome = OUTCOME_DRAW
			summary.Draws++
		case golurk.PLAYER:
			result.Outcome = OUTCOME_WIN
			summary.Wins++
		default:
			result.Outcome = OUTCOME_LOSS
			summary.Losses++
		}

		env.logger.Info("episode finished", "episode", result.Episode, "turns", result.Turns, "outcome", string(result.Outcome))

		totalTurns += result.Turns
		totalReward += result.Reward
		summary.Results = append(summary.Results, result)
	}

	summary.AvgTurns = float64(totalTurns) / float64(episodes)
	summary.AvgReward = totalReward / float64(episodes)

	env.logger.Info("evaluation summary",
		"episodes", summary.Episodes,
		"wins", summary.Wins,
		"losses", summary.Losses,
		"draws", summary.Draws,
		"win_rate", fmt.Sprintf("%.2f%%", summary.WinRate()*100),
		"avg_turns", fmt.Sprintf("%.2f", summary.AvgTurns))

	return summary, nil
}
