package golurk

import (
	"fmt"
	"math"
)

// BaseStats are the species-level constants every individual is derived from
type BaseStats struct {
	Hp        int `yaml:"hp"`
	Attack    int `yaml:"attack"`
	Defense   int `yaml:"defense"`
	SpAttack  int `yaml:"special-attack"`
	SpDefense int `yaml:"special-defense"`
	Speed     int `yaml:"speed"`
}

func (b BaseStats) asSpread() StatSpread {
	return StatSpread{b.Hp, b.Attack, b.Defense, b.SpAttack, b.SpDefense, b.Speed}
}

// StatSpread holds IVs or EVs in the order HP, ATTACK, DEF, SPATTACK, SPDEF, SPEED
type StatSpread [6]int

func (s StatSpread) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}

	return total
}

// Stats are the values computed once from base stats, IVs, EVs and level
type Stats struct {
	Hp        int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

type Pokemon struct {
	Name    string
	Types   []PokemonType
	Ability Ability
	Base    BaseStats
	Moves   []*Move
	Level   int
	Ivs     StatSpread
	Evs     StatSpread

	Stats  Stats
	Battle BattleStats
}

// CalcStat is the standard stat formula. Integer division floors since every operand is non-negative.
func CalcStat(base int, iv int, ev int, level int, isHp bool) int {
	value := (2*base + iv + ev/4) * level / 100
	if isHp {
		return value + level + 10
	}

	return value + 5
}

func calcStats(base BaseStats, ivs StatSpread, evs StatSpread, level int) Stats {
	spread := base.asSpread()
	calc := func(i int) int {
		return CalcStat(spread[i], ivs[i], evs[i], level, i == 0)
	}

	return Stats{
		Hp:        calc(0),
		Attack:    calc(1),
		Defense:   calc(2),
		SpAttack:  calc(3),
		SpDefense: calc(4),
		Speed:     calc(5),
	}
}

// ReCalcStats recomputes Stats and resets the battle half of the pokemon
func (p *Pokemon) ReCalcStats() {
	p.Stats = calcStats(p.Base, p.Ivs, p.Evs, p.Level)
	p.Battle = NewBattleStats(p.Stats.Hp, p.Moves)
}

// StageMultiplier converts a stage in [-6, 6] for a regular stat into its multiplier
func StageMultiplier(stage int) float64 {
	return stageMultiplier(stage, 2)
}

// AccuracyStageMultiplier is StageMultiplier for accuracy and evasion stages
func AccuracyStageMultiplier(stage int) float64 {
	return stageMultiplier(stage, 3)
}

func stageMultiplier(stage int, base float64) float64 {
	stage = clampStage(stage)
	if stage >= 0 {
		return (base + float64(stage)) / base
	}

	return base / (base - float64(stage))
}

func clampStage(stage int) int {
	return max(MIN_STAGE, min(MAX_STAGE, stage))
}

func (p *Pokemon) rawStat(stat string) int {
	switch stat {
	case STAT_HP:
		return p.Stats.Hp
	case STAT_ATTACK:
		return p.Stats.Attack
	case STAT_DEFENSE:
		return p.Stats.Defense
	case STAT_SPATTACK:
		return p.Stats.SpAttack
	case STAT_SPDEF:
		return p.Stats.SpDefense
	case STAT_SPEED:
		return p.Stats.Speed
	}

	return 0
}

func stagedValue(value int, stage int) int {
	return int(float64(value) * StageMultiplier(stage))
}

// EffectiveStat returns the computed stat after its current stage.
// Accuracy and evasion have no base stat, they start at 100 and use the base 3 multiplier.
// Paralysis quarters speed after the stage is applied.
func (p *Pokemon) EffectiveStat(stat string) int {
	switch stat {
	case STAT_HP:
		return p.Stats.Hp
	case STAT_ACCURACY, STAT_EVASION:
		return int(BASE_ACCURACY_STAT * AccuracyStageMultiplier(p.Battle.Stage(stat)))
	}

	value := stagedValue(p.rawStat(stat), p.Battle.Stage(stat))

	if stat == STAT_SPEED && p.Battle.Status == STATUS_PARA {
		value = int(float64(value) * PARALYSIS_SPEED_FACTOR)
	}

	return value
}

// Speed is the effective speed used for turn order, including the ability's speed hook
func (p *Pokemon) Speed() int {
	speed := p.EffectiveStat(STAT_SPEED)
	if p.Ability != nil {
		speed = p.Ability.ModifySpeedStat(p, speed)
	}

	return speed
}

func (p *Pokemon) HasType(t PokemonType) bool {
	for _, pokeType := range p.Types {
		if pokeType == t {
			return true
		}
	}

	return false
}

// DefenseEffectiveness multiplies the matchup of attackType against every one of this pokemon's types
func (p *Pokemon) DefenseEffectiveness(attackType PokemonType) float64 {
	effectiveness := 1.0
	for _, t := range p.Types {
		effectiveness *= TypeMultiplier(attackType, t)
	}

	return effectiveness
}

func (p *Pokemon) Alive() bool {
	return !p.Battle.IsFainted()
}

func (p *Pokemon) HpPercent() float64 {
	if p.Battle.MaxHp == 0 {
		return 0
	}

	return float64(p.Battle.Hp) / float64(p.Battle.MaxHp)
}

// LowHp is true at or below a third of max hp
func (p *Pokemon) LowHp() bool {
	return float64(p.Battle.Hp) <= math.Floor(float64(p.Battle.MaxHp)*LOW_HP_BOOST_THRESHOLD)
}

func (p *Pokemon) AbilityName() string {
	if p.Ability == nil {
		return ""
	}

	return p.Ability.Name()
}

// Clone deep copies the pokemon so battle state is not shared between copies
func (p Pokemon) Clone() Pokemon {
	clone := p
	clone.Types = append([]PokemonType(nil), p.Types...)
	clone.Moves = append([]*Move(nil), p.Moves...)
	clone.Battle = p.Battle.Clone()

	return clone
}

func (p *Pokemon) String() string {
	return fmt.Sprintf("%s (Lv. %d) %d/%d", p.Name, p.Level, p.Battle.Hp, p.Battle.MaxHp)
}
