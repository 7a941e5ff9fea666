// Package headless runs AI vs AI battles from the config without the TUI
package headless

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/history"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DEFAULT_MAX_TURNS stops battles where neither side can finish the other, e.g. both out of PP
const DEFAULT_MAX_TURNS = 500

type Result struct {
	Index    int
	Seed     uint64
	BattleID uuid.UUID
	// Winner is 0 for a draw or a battle cut off at the turn limit
	Winner   golurk.Side
	Turns    int
	Finished bool
}

type Summary struct {
	Battles      int
	PlayerWins   int
	OpponentWins int
	Draws        int
	// Unfinished battles hit the turn limit
	Unfinished int
	AvgTurns   float64
	Elapsed    time.Duration
	Results    []Result
}

type Runner struct {
	Dex    *dex.Dex
	Config global.Config
	// History may be nil, results are then not recorded
	History  *history.Store
	MaxTurns int
}

// Run plays Config.Sim.Battles battles with at most Config.Sim.Workers at once.
// Battle i is seeded with seed+i, so a run is reproducible from its seed.
func (r Runner) Run(ctx context.Context, seed uint64) (Summary, error) {
	battles := r.Config.Sim.Battles
	workers := max(1, r.Config.Sim.Workers)
	maxTurns := r.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DEFAULT_MAX_TURNS
	}

	log.Info().
		Int("battles", battles).
		Int("workers", workers).
		Uint64("seed", seed).
		Msg("starting headless run")

	start := time.Now()
	results := make([]Result, battles)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range battles {
		group.Go(func() error {
			result, err := r.runOne(ctx, i, seed+uint64(i), maxTurns)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}

			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Err(err).Msg("headless run failed")
		return Summary{}, err
	}

	summary := summarize(results)
	summary.Elapsed = time.Since(start)

	log.Info().
		Int("player_wins", summary.PlayerWins).
		Int("opponent_wins", summary.OpponentWins).
		Int("draws", summary.Draws).
		Int("unfinished", summary.Unfinished).
		Dur("elapsed", summary.Elapsed).
		Msg("headless run finished")

	return summary, nil
}

func (r Runner) runOne(ctx context.Context, index int, seed uint64, maxTurns int) (Result, error) {
	battle, err := global.NewBattle(r.Dex, r.Config, seed, true)
	if err != nil {
		return Result{}, err
	}

	for !battle.IsBattleOver() && battle.Turn < maxTurns {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		_, err := battle.TakeTurn(battle.MakeAiAction(golurk.PLAYER), battle.MakeAiAction(golurk.OPPONENT))
		if err != nil {
			return Result{}, fmt.Errorf("turn %d: %w", battle.Turn+1, err)
		}
	}

	if r.History != nil {
		if err := r.History.Save(ctx, history.RecordFromBattle(battle)); err != nil {
			return Result{}, err
		}
	}

	log.Debug().
		Int("index", index).
		Str("battle_id", battle.ID.String()).
		Str("winner", battle.Winner().String()).
		Int("turns", battle.Turn).
		Msg("headless battle done")

	return Result{
		Index:    index,
		Seed:     seed,
		BattleID: battle.ID,
		Winner:   battle.Winner(),
		Turns:    battle.Turn,
		Finished: battle.IsBattleOver(),
	}, nil
}

func summarize(results []Result) Summary {
	summary := Summary{Battles: len(results), Results: results}

	for _, result := range results {
		switch {
		case !result.Finished:
			summary.Unfinished++
		case result.Winner == golurk.PLAYER:
			summary.PlayerWins++
		case result.Winner == golurk.OPPONENT:
			summary.OpponentWins++
		default:
			summary.Draws++
		}
	}

	if len(results) > 0 {
		summary.AvgTurns = float64(lo.SumBy(results, func(r Result) int { return r.Turns })) / float64(len(results))
	}

	return summary
}

func outcome(result Result) string {
	if !result.Finished {
		return history.RESULT_UNFINISHED
	}
	if result.Winner == 0 {
		return history.RESULT_DRAW
	}

	return result.Winner.String()
}

// Write prints every battle and the totals as tables
func (s Summary) Write(w io.Writer, playerName string, opponentName string) error {
	battles := table.New().
		Headers("#", "Seed", "Winner", "Turns").
		Rows(lo.Map(s.Results, func(r Result, _ int) []string {
			return []string{fmt.Sprint(r.Index + 1), fmt.Sprint(r.Seed), outcome(r), fmt.Sprint(r.Turns)}
		})...)

	totals := table.New().
		Headers(playerName, opponentName, "Draws", "Unfinished", "Avg Turns").
		Row(
			fmt.Sprint(s.PlayerWins),
			fmt.Sprint(s.OpponentWins),
			fmt.Sprint(s.Draws),
			fmt.Sprint(s.Unfinished),
			fmt.Sprintf("%.1f", s.AvgTurns),
		)

	_, err := fmt.Fprintf(w, "%s\n%s\n%d battles in %s\n", battles.Render(), totals.Render(), s.Battles, s.Elapsed.Round(time.Millisecond))
	return err
}
