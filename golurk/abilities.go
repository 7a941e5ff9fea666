package golurk

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DamageContext is what the engine hands to damage related ability hooks
type DamageContext struct {
	Attacker     *Pokemon
	Defender     *Pokemon
	AttackerSide Side
	DefenderSide Side
	Move         *Move
	Damage       int
	Rng          *rand.Rand
}

// Ability is a set of hooks the engine calls at fixed points of a turn.
// Hooks never change another pokemon directly. Any state change they want is returned as
// follow up events which the engine queues after the hook returns, so hooks cannot trigger other hooks mid-call.
type Ability interface {
	Name() string

	OnSwitchIn(self *Pokemon, selfSide Side, opponent *Pokemon) []StateEvent
	OnSwitchOut(self *Pokemon, selfSide Side) []StateEvent
	OnDamageTaken(ctx DamageContext) []StateEvent
	OnDamageDealt(ctx DamageContext) []StateEvent

	// ModifyDamage is called on the attacker's ability
	ModifyDamage(ctx DamageContext) (int, []StateEvent)
	// ModifyIncomingDamage is called on the defender's ability
	ModifyIncomingDamage(ctx DamageContext) (int, []StateEvent)

	ModifyAttackStat(self *Pokemon, move *Move, attack int) int
	ModifyDefenseStat(self *Pokemon, move *Move, defense int) int
	ModifySpeedStat(self *Pokemon, speed int) int

	PreventsBurnAttackReduction() bool
	PreventsStatus(kind StatusKind) bool
}

// BaseAbility implements every hook as a no-op. Concrete abilities embed it and override what they need.
type BaseAbility struct {
	Label string
}

func (a BaseAbility) Name() string { return a.Label }

func (BaseAbility) OnSwitchIn(*Pokemon, Side, *Pokemon) []StateEvent { return nil }
func (BaseAbility) OnSwitchOut(*Pokemon, Side) []StateEvent           { return nil }
func (BaseAbility) OnDamageTaken(DamageContext) []StateEvent          { return nil }
func (BaseAbility) OnDamageDealt(DamageContext) []StateEvent          { return nil }

func (BaseAbility) ModifyDamage(ctx DamageContext) (int, []StateEvent) { return ctx.Damage, nil }
func (BaseAbility) ModifyIncomingDamage(ctx DamageContext) (int, []StateEvent) {
	return ctx.Damage, nil
}

func (BaseAbility) ModifyAttackStat(_ *Pokemon, _ *Move, attack int) int   { return attack }
func (BaseAbility) ModifyDefenseStat(_ *Pokemon, _ *Move, defense int) int { return defense }
func (BaseAbility) ModifySpeedStat(_ *Pokemon, speed int) int              { return speed }

func (BaseAbility) PreventsBurnAttackReduction() bool { return false }
func (BaseAbility) PreventsStatus(StatusKind) bool    { return false }

// UnknownAbility stands in for any ability name the registry doesn't know. It does nothing.
type UnknownAbility struct {
	BaseAbility
	RawName string
}

// contactStatusAbility covers Static and Poison Point
type contactStatusAbility struct {
	BaseAbility
	status StatusKind
}

func (a contactStatusAbility) OnDamageTaken(ctx DamageContext) []StateEvent {
	if ctx.Move == nil || ctx.Move.DamageClass != DAMAGETYPE_PHYSICAL || ctx.Damage <= 0 {
		return nil
	}

	if ctx.Attacker == nil || !ctx.Attacker.Alive() || ctx.Attacker.Battle.Status != STATUS_NONE {
		return nil
	}

	if !roll(ctx.Rng, CONTACT_STATUS_CHANCE) {
		return nil
	}

	abilityLogger().V(1).Info("contact ability activated", "ability", a.Label, "defender", ctx.Defender.Name, "attacker", ctx.Attacker.Name)

	return []StateEvent{
		AbilityActivationEvent{Side: ctx.DefenderSide, AbilityName: a.Label},
		AilmentEvent{Side: ctx.AttackerSide, Ailment: a.status},
	}
}

type Static struct{ contactStatusAbility }

type PoisonPoint struct{ contactStatusAbility }

type Levitate struct{ BaseAbility }

func (a Levitate) ModifyIncomingDamage(ctx DamageContext) (int, []StateEvent) {
	if ctx.Move == nil || ctx.Move.Type != TYPE_GROUND {
		return ctx.Damage, nil
	}

	return 0, []StateEvent{
		AbilityActivationEvent{
			Side:          ctx.DefenderSide,
			AbilityName:   a.Label,
			CustomMessage: fmt.Sprintf("%s's Levitate makes it immune to ground moves!", ctx.Defender.Name),
		},
	}
}

type Overgrow struct{ BaseAbility }

func (Overgrow) ModifyDamage(ctx DamageContext) (int, []StateEvent) {
	if ctx.Move == nil || ctx.Move.Type != TYPE_GRASS || !ctx.Attacker.LowHp() {
		return ctx.Damage, nil
	}

	return int(float64(ctx.Damage) * 1.5), nil
}

type Guts struct{ BaseAbility }

func (Guts) ModifyAttackStat(self *Pokemon, move *Move, attack int) int {
	if self.Battle.Status == STATUS_NONE || move == nil || move.DamageClass != DAMAGETYPE_PHYSICAL {
		return attack
	}

	return int(float64(attack) * 1.5)
}

func (Guts) PreventsBurnAttackReduction() bool { return true }

type Intimidate struct{ BaseAbility }

func (a Intimidate) OnSwitchIn(self *Pokemon, selfSide Side, opponent *Pokemon) []StateEvent {
	if opponent == nil || !opponent.Alive() {
		return nil
	}

	return []StateEvent{
		AbilityActivationEvent{
			Side:          selfSide,
			AbilityName:   a.Label,
			CustomMessage: fmt.Sprintf("%s's Intimidate cuts %s's attack!", self.Name, opponent.Name),
		},
		StatChangeEvent{Side: selfSide.Opposite(), StatName: STAT_ATTACK, Change: -1},
	}
}

type AbilityFactory func() Ability

// AbilityRegistry maps normalized ability names to their constructors
type AbilityRegistry struct {
	factories map[string]AbilityFactory
}

func NewAbilityRegistry() *AbilityRegistry {
	return &AbilityRegistry{factories: make(map[string]AbilityFactory)}
}

// DefaultAbilities returns a registry with every ability the engine implements
func DefaultAbilities() *AbilityRegistry {
	registry := NewAbilityRegistry()

	registry.Register("static", func() Ability {
		return Static{contactStatusAbility{BaseAbility{"Static"}, STATUS_PARA}}
	})
	registry.Register("poison-point", func() Ability {
		return PoisonPoint{contactStatusAbility{BaseAbility{"Poison Point"}, STATUS_POISON}}
	})
	registry.Register("levitate", func() Ability { return Levitate{BaseAbility{"Levitate"}} })
	registry.Register("overgrow", func() Ability { return Overgrow{BaseAbility{"Overgrow"}} })
	registry.Register("guts", func() Ability { return Guts{BaseAbility{"Guts"}} })
	registry.Register("intimidate", func() Ability { return Intimidate{BaseAbility{"Intimidate"}} })

	return registry
}

var defaultAbilities = DefaultAbilities()

// NormalizeName lowercases a name and treats spaces, underscores and hyphens the same,
// so "Quick Attack", "quick_attack" and "quick-attack" are one key. Species, moves and abilities all use it.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(name)
}

func (r *AbilityRegistry) Register(name string, factory AbilityFactory) {
	r.factories[NormalizeName(name)] = factory
}

func (r *AbilityRegistry) Known(name string) bool {
	_, ok := r.factories[NormalizeName(name)]
	return ok
}

// New builds the named ability. Unknown names fall back to UnknownAbility carrying the raw name.
func (r *AbilityRegistry) New(name string) Ability {
	factory, ok := r.factories[NormalizeName(name)]
	if ok {
		return factory()
	}

	if name != "" {
		abilityLogger().V(1).Info("unknown ability, falling back to a no-op", "ability", name)
	}

	return UnknownAbility{BaseAbility: BaseAbility{Label: displayAbilityName(name)}, RawName: name}
}

func (r *AbilityRegistry) Names() []string {
	names := lo.Keys(r.factories)
	slices.Sort(names)

	return names
}

// NewAbility builds an ability from the default registry
func NewAbility(name string) Ability {
	return defaultAbilities.New(name)
}

func displayAbilityName(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name))
	return cases.Title(language.English).String(spaced)
}
