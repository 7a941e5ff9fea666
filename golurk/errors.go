package golurk

import "errors"

var (
	// ErrExhaustedResource is returned when a move has no PP left or an item has run out
	ErrExhaustedResource   = errors.New("resource exhausted")
	ErrInvalidSwitchTarget = errors.New("invalid switch target")
	ErrInvalidAction       = errors.New("invalid action")
	ErrUnknownItem         = errors.New("unknown item")
	ErrBattleOver          = errors.New("battle is already over")
	// ErrSwitchRequired is returned by TakeTurn while a human side still has to replace a fainted pokemon
	ErrSwitchRequired = errors.New("a fainted pokemon must be replaced first")
	ErrInvalidTeam    = errors.New("invalid team")
	ErrInvalidPokemon = errors.New("invalid pokemon")
	ErrInvalidMove    = errors.New("invalid move")
)
