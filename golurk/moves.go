package golurk

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type StatChange struct {
	Change   int    `yaml:"change"`
	StatName string `yaml:"stat"`
}

// For values that are pointers, they are nullable
type MoveMeta struct {
	Ailment       string `yaml:"ailment"`
	AilmentChance int    `yaml:"ailment_chance"`
	// BadlyPoisons turns a poison ailment into toxic
	BadlyPoisons bool `yaml:"badly_poisons"`
	FlinchChance int  `yaml:"flinch_chance"`
	StatChance   int  `yaml:"stat_chance"`

	// Null means always hits once
	MinHits *int `yaml:"min_hits"`
	// Null means always hits once
	MaxHits *int `yaml:"max_hits"`
	// Null means always one turn
	MinTurns *int `yaml:"min_turns"`
	// Null means always one turn
	MaxTurns *int `yaml:"max_turns"`

	// Percent of damage dealt that is healed. Negative values are recoil
	Drain int `yaml:"drain"`
	// Percent of max hp healed by the user
	Healing int `yaml:"healing"`
}

// Move is a read-only template shared by every pokemon that knows it.
// Remaining PP lives in BattleStats, never here.
type Move struct {
	Name        string       `yaml:"name"`
	DisplayName string       `yaml:"-"`
	Accuracy    int          `yaml:"accuracy"`
	PP          int          `yaml:"pp"`
	Priority    int          `yaml:"priority"`
	Power       int          `yaml:"power"`
	DamageClass string       `yaml:"damage_class"`
	CritStage   int          `yaml:"crit_stage"`
	Target      string       `yaml:"target"`
	Category    string       `yaml:"category"`
	Type        PokemonType  `yaml:"type"`
	StatChanges []StatChange `yaml:"stat_changes"`
	Meta        MoveMeta     `yaml:"meta"`
}

func (m *Move) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}

	return m.Name
}

func (m *Move) IsStatus() bool {
	return m.DamageClass == DAMAGETYPE_STATUS
}

func (m *Move) DealsDamage() bool {
	return !m.IsStatus() && m.Power > 0
}

func (m *Move) AlwaysHits() bool {
	return m.Accuracy == ACCURACY_ALWAYS_HITS
}

func (m *Move) TargetsUser() bool {
	return m.Target == TARGET_USER
}

// AilmentStatus resolves the ailment name into a status. STATUS_NONE means the move inflicts nothing
func (m *Move) AilmentStatus() StatusKind {
	return STATUS_NAME_MAP[m.Meta.Ailment]
}

// HitRange returns the min and max number of hits, which is 1, 1 for most moves
func (m *Move) HitRange() (int, int) {
	low, high := 1, 1
	if m.Meta.MinHits != nil {
		low = *m.Meta.MinHits
	}
	if m.Meta.MaxHits != nil {
		high = *m.Meta.MaxHits
	}

	return low, max(low, high)
}

// Validate checks every field the engine relies on
func (m *Move) Validate() error {
	errs := make([]error, 0)
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(m.Name) == "" {
		invalid("name must not be empty")
	}
	if _, ok := ParseType(string(m.Type)); !ok {
		invalid("unknown type %q", m.Type)
	}

	switch m.DamageClass {
	case DAMAGETYPE_PHYSICAL, DAMAGETYPE_SPECIAL:
		if m.Power <= 0 {
			invalid("%s moves need a positive power, got %d", m.DamageClass, m.Power)
		}
	case DAMAGETYPE_STATUS:
		if m.Power != 0 {
			invalid("status moves cannot have power, got %d", m.Power)
		}
	default:
		invalid("unknown damage class %q", m.DamageClass)
	}

	if m.Accuracy < 0 || m.Accuracy > 100 {
		invalid("accuracy must be within 0-100, got %d", m.Accuracy)
	}
	if m.PP <= 0 {
		invalid("pp must be positive, got %d", m.PP)
	}
	if m.CritStage < 0 || m.CritStage >= len(critChances) {
		invalid("crit stage must be within 0-%d, got %d", len(critChances)-1, m.CritStage)
	}

	if m.Meta.Ailment != "" && m.Meta.Ailment != "none" {
		if _, ok := STATUS_NAME_MAP[m.Meta.Ailment]; !ok {
			invalid("unknown ailment %q", m.Meta.Ailment)
		}
	}
	if m.Meta.BadlyPoisons && m.Meta.Ailment != "poison" {
		invalid("badly_poisons requires the poison ailment")
	}

	for name, chance := range map[string]int{
		"ailment_chance": m.Meta.AilmentChance,
		"stat_chance":    m.Meta.StatChance,
		"flinch_chance":  m.Meta.FlinchChance,
		"healing":        m.Meta.Healing,
	} {
		if chance < 0 || chance > 100 {
			invalid("%s must be within 0-100, got %d", name, chance)
		}
	}
	if m.Meta.Drain < -100 || m.Meta.Drain > 100 {
		invalid("drain must be within -100-100, got %d", m.Meta.Drain)
	}

	for _, change := range m.StatChanges {
		if !slices.Contains(STAGED_STATS, change.StatName) {
			invalid("unknown stat %q in stat changes", change.StatName)
		}
		if change.Change == 0 {
			invalid("stat change for %s must not be zero", change.StatName)
		}
	}

	if m.Meta.MinHits != nil && *m.Meta.MinHits < 1 {
		invalid("min_hits must be at least 1")
	}
	if m.Meta.MinHits != nil && m.Meta.MaxHits != nil && *m.Meta.MaxHits < *m.Meta.MinHits {
		invalid("max_hits must not be less than min_hits")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidMove, m.Name, errors.Join(errs...))
	}

	return nil
}
