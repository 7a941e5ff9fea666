package golurk

import (
	"github.com/samber/lo"
)

// MakeAiAction determines the best action for the acting side.
// A fainted active pokemon is replaced with the best counter, otherwise the highest scoring usable move is picked.
func MakeAiAction(acting *Player, opposing *Player) Action {
	aiPokemon := acting.GetActivePokemon()
	opposingPokemon := opposing.GetActivePokemon()

	if !aiPokemon.Alive() {
		// Switch on death
		if index := BestCounter(acting, opposingPokemon); index >= 0 {
			return NewSwitchAction(index)
		}
	}

	bestMoveIndex := -1
	bestScore := 0.0

	for i, move := range aiPokemon.Moves {
		if move == nil || !aiPokemon.Battle.HasPP(move.Name) {
			continue
		}

		score := MoveScore(aiPokemon, opposingPokemon, move)
		aiLogger().V(1).Info("move score", "pokemon_name", aiPokemon.Name, "move", move.Name, "score", score)

		// strictly greater so ties keep the first move
		if bestMoveIndex == -1 || score > bestScore {
			bestMoveIndex = i
			bestScore = score
		}
	}

	if bestMoveIndex == -1 {
		// Nothing usable. Callers are expected to handle the 0 PP move this returns
		aiLogger().Info("pokemon has no usable moves, falling back to the first move", "pokemon_name", aiPokemon.Name)
		return NewAttackAction(0)
	}

	return NewAttackAction(bestMoveIndex)
}

// MoveScore is the AI's estimate of a move: the summed type multiplier against each defender type,
// times 1.5 for STAB, times the move's power. Moves without power score 0.
func MoveScore(attacker *Pokemon, defender *Pokemon, move *Move) float64 {
	if move.Power <= 0 {
		return 0
	}

	typeScore := lo.SumBy(defender.Types, func(t PokemonType) float64 {
		return TypeMultiplier(move.Type, t)
	})

	stab := 1.0
	if attacker.HasType(move.Type) {
		stab = 1.5
	}

	return typeScore * stab * float64(move.Power)
}

// BestCounter picks the teammate whose moves match up best against the opposing pokemon's types.
// The score is the sum of type multipliers over all of a teammate's moves. Returns -1 if no teammate can come in.
func BestCounter(player *Player, opponent *Pokemon) int {
	bestIndex := -1
	bestScore := -1.0

	for _, i := range player.ValidSwitchTargets() {
		candidate := &player.Team[i]

		score := lo.SumBy(candidate.Moves, func(move *Move) float64 {
			if opponent == nil {
				return 0
			}

			return lo.SumBy(opponent.Types, func(t PokemonType) float64 {
				return TypeMultiplier(move.Type, t)
			})
		})

		aiLogger().V(1).Info("counter score", "pokemon_name", candidate.Name, "score", score)

		if score > bestScore {
			bestIndex = i
			bestScore = score
		}
	}

	return bestIndex
}
