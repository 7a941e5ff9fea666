package golurk

import (
	"fmt"
	"maps"
)

// BattleStats is the mutable, battle-local half of a Pokemon
type BattleStats struct {
	MaxHp int
	Hp    int

	Stages map[string]int

	Status        StatusKind
	BadlyPoisoned bool
	ToxicTurns    int
	SleepTurns    int

	PP    map[string]int
	MaxPP map[string]int
}

func NewBattleStats(maxHp int, moves []*Move) BattleStats {
	stats := BattleStats{
		MaxHp:  maxHp,
		Hp:     maxHp,
		Stages: make(map[string]int, len(STAGED_STATS)),
		PP:     make(map[string]int, len(moves)),
		MaxPP:  make(map[string]int, len(moves)),
	}

	for _, stat := range STAGED_STATS {
		stats.Stages[stat] = 0
	}

	for _, move := range moves {
		if move == nil {
			continue
		}

		stats.PP[move.Name] = move.PP
		stats.MaxPP[move.Name] = move.PP
	}

	return stats
}

func (b *BattleStats) Stage(stat string) int {
	return b.Stages[stat]
}

// ModifyStage changes a stage by delta, clamped to [-6, 6].
// The returned value is how far the stage actually moved.
func (b *BattleStats) ModifyStage(stat string, delta int) int {
	if b.Stages == nil {
		b.Stages = make(map[string]int, len(STAGED_STATS))
	}

	current := b.Stages[stat]
	next := clampStage(current + delta)
	b.Stages[stat] = next

	return next - current
}

func (b *BattleStats) ClearStages() {
	for stat := range b.Stages {
		b.Stages[stat] = 0
	}
}

// ApplyStatusIfFree sets the status only when none is currently set
func (b *BattleStats) ApplyStatusIfFree(kind StatusKind) bool {
	if b.Status != STATUS_NONE || kind == STATUS_NONE {
		return false
	}

	b.Status = kind
	return true
}

// ClearStatus removes the current status along with its counters
func (b *BattleStats) ClearStatus() {
	b.Status = STATUS_NONE
	b.BadlyPoisoned = false
	b.ToxicTurns = 0
	b.SleepTurns = 0
}

func (b *BattleStats) HasPP(moveName string) bool {
	return b.PP[moveName] > 0
}

// UsePP spends one PP of the given move
func (b *BattleStats) UsePP(moveName string) error {
	pp, ok := b.PP[moveName]
	if !ok {
		return fmt.Errorf("%w: %s is not a known move", ErrExhaustedResource, moveName)
	}

	if pp <= 0 {
		return fmt.Errorf("%w: %s has no pp left", ErrExhaustedResource, moveName)
	}

	b.PP[moveName] = pp - 1
	return nil
}

// RestorePP refills a move's PP without going over its max
func (b *BattleStats) RestorePP(moveName string, amount int) {
	maxPP, ok := b.MaxPP[moveName]
	if !ok {
		return
	}

	b.PP[moveName] = min(maxPP, b.PP[moveName]+amount)
}

// TakeDamage returns the hp actually lost
func (b *BattleStats) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}

	before := b.Hp
	b.Hp = max(0, b.Hp-n)

	return before - b.Hp
}

// Heal returns the hp actually restored
func (b *BattleStats) Heal(n int) int {
	if n <= 0 {
		return 0
	}

	before := b.Hp
	b.Hp = min(b.MaxHp, b.Hp+n)

	return b.Hp - before
}

func (b *BattleStats) IsFainted() bool {
	return b.Hp == 0
}

func (b BattleStats) Clone() BattleStats {
	clone := b
	clone.Stages = maps.Clone(b.Stages)
	clone.PP = maps.Clone(b.PP)
	clone.MaxPP = maps.Clone(b.MaxPP)

	return clone
}
