package golurk

import (
	"math"
	"math/rand/v2"
)

// CritChance returns the critical hit probability for a crit stage. Stages above 4 act as 4.
func CritChance(stage int) float64 {
	stage = max(0, min(stage, len(critChances)-1))
	return critChances[stage]
}

// CalculateDamage rolls for a critical hit and returns the damage move would do along with whether it crit.
// Status moves always return 0, false. Burn is not applied here, the caller decides whether it applies.
func CalculateDamage(attacker *Pokemon, defender *Pokemon, move *Move, rng *rand.Rand) (int, bool) {
	if !move.DealsDamage() {
		return 0, false
	}

	crit := roll(rng, CritChance(move.CritStage))
	return Damage(attacker, defender, move, crit), crit
}

// Damage is the deterministic part of the damage formula.
//
// A crit ignores the attacker's negative stage and the defender's positive stage for the stats used.
// The result is at least 1 unless the defender is immune to the move's type, which returns 0.
func Damage(attacker *Pokemon, defender *Pokemon, move *Move, crit bool) int {
	if !move.DealsDamage() {
		return 0
	}

	attackStat, defenseStat := STAT_ATTACK, STAT_DEFENSE
	if move.DamageClass == DAMAGETYPE_SPECIAL {
		attackStat, defenseStat = STAT_SPATTACK, STAT_SPDEF
	}

	aStage := attacker.Battle.Stage(attackStat)
	dStage := defender.Battle.Stage(defenseStat)
	if crit {
		aStage = max(aStage, 0)
		dStage = min(dStage, 0)
	}

	a := stagedValue(attacker.rawStat(attackStat), aStage)
	d := stagedValue(defender.rawStat(defenseStat), dStage)

	if attacker.Ability != nil {
		a = attacker.Ability.ModifyAttackStat(attacker, move, a)
	}
	if defender.Ability != nil {
		d = defender.Ability.ModifyDefenseStat(defender, move, d)
	}
	d = max(d, 1)

	stab := 1.0
	if attacker.HasType(move.Type) {
		stab = 1.5
	}

	effectiveness := defender.DefenseEffectiveness(move.Type)
	if effectiveness == 0 {
		damageLogger().V(1).Info("defender is immune", "move", move.Name, "defender", defender.Name)
		return 0
	}

	levelFactor := math.Floor(2*float64(attacker.Level)/5 + 2)
	damageInner := math.Floor(levelFactor*float64(move.Power)*float64(a)/float64(d)/50 + 2)

	damage := math.Floor(damageInner * stab * effectiveness)
	if crit {
		damage *= 2
	}

	finalDamage := max(1, int(damage))

	damageLogger().Info("final damage",
		"move", move.Name,
		"power", move.Power,
		"attackerLevel", attacker.Level,
		"attackValue", a,
		"attackStage", aStage,
		"defValue", d,
		"defenseStage", dStage,
		"damageInner", damageInner,
		"STAB", stab,
		"effectiveness", effectiveness,
		"crit", crit,
		"damage", finalDamage)

	return finalDamage
}

// AccuracyCheck rolls whether move lands. Moves that always hit skip the roll entirely.
func AccuracyCheck(attacker *Pokemon, defender *Pokemon, move *Move, rng *rand.Rand) bool {
	if move.AlwaysHits() {
		return true
	}

	finalAccuracy := float64(move.Accuracy) *
		AccuracyStageMultiplier(attacker.Battle.Stage(STAT_ACCURACY)) /
		AccuracyStageMultiplier(defender.Battle.Stage(STAT_EVASION))

	draw := rng.Float64() * 100

	damageLogger().V(2).Info("accuracy check", "move", move.Name, "draw", draw, "finalAccuracy", finalAccuracy)

	return draw <= finalAccuracy
}
