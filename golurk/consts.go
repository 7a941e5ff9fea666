package golurk

const (
	MAX_IV       = 31
	MAX_EV       = 252
	MAX_TOTAL_EV = 510

	MIN_STAGE = -6
	MAX_STAGE = 6

	MAX_LEVEL     = 100
	MAX_MOVES     = 4
	MAX_TEAM_SIZE = 6
)

const (
	DAMAGETYPE_PHYSICAL = "physical"
	DAMAGETYPE_SPECIAL  = "special"
	DAMAGETYPE_STATUS   = "status"
)

// ACCURACY_ALWAYS_HITS marks moves that skip the accuracy check.
const ACCURACY_ALWAYS_HITS = 0

const TARGET_USER = "user"

type StatusKind int

const (
	STATUS_NONE StatusKind = iota
	STATUS_PARA
	STATUS_BURN
	STATUS_POISON
	STATUS_SLEEP
	STATUS_FROZEN
)

var statusNames = map[StatusKind]string{
	STATUS_NONE:   "none",
	STATUS_PARA:   "paralysis",
	STATUS_BURN:   "burn",
	STATUS_POISON: "poison",
	STATUS_SLEEP:  "sleep",
	STATUS_FROZEN: "freeze",
}

func (s StatusKind) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// STATUS_NAME_MAP converts move ailment names into statuses
var STATUS_NAME_MAP = map[string]StatusKind{
	"paralysis": STATUS_PARA,
	"burn":      STATUS_BURN,
	"poison":    STATUS_POISON,
	"sleep":     STATUS_SLEEP,
	"freeze":    STATUS_FROZEN,
}

const (
	STAT_HP       = "hp"
	STAT_ATTACK   = "attack"
	STAT_DEFENSE  = "defense"
	STAT_SPATTACK = "special-attack"
	STAT_SPDEF    = "special-defense"
	STAT_SPEED    = "speed"
	STAT_ACCURACY = "accuracy"
	STAT_EVASION  = "evasion"
)

// BASE_ACCURACY_STAT is the unstaged accuracy and evasion of every pokemon
const BASE_ACCURACY_STAT = 100

// STAGED_STATS lists every stat that can carry a stage
var STAGED_STATS = []string{
	STAT_ATTACK,
	STAT_DEFENSE,
	STAT_SPATTACK,
	STAT_SPDEF,
	STAT_SPEED,
	STAT_ACCURACY,
	STAT_EVASION,
}

var statDisplayNames = map[string]string{
	STAT_ATTACK:   "Attack",
	STAT_DEFENSE:  "Defense",
	STAT_SPATTACK: "Sp. Atk",
	STAT_SPDEF:    "Sp. Def",
	STAT_SPEED:    "Speed",
	STAT_ACCURACY: "accuracy",
	STAT_EVASION:  "evasiveness",
}

// Index 0 is stage 0, index 4 and beyond is treated as stage 4
var critChances = [5]float64{
	1.0 / 16.0,
	1.0 / 8.0,
	1.0 / 4.0,
	1.0 / 3.0,
	1.0 / 2.0,
}

const (
	PARALYSIS_SKIP_CHANCE  = 0.25
	PARALYSIS_SPEED_FACTOR = 0.25
	THAW_CHANCE            = 0.20
	CONTACT_STATUS_CHANCE  = 0.30
	LOW_HP_BOOST_THRESHOLD = 1.0 / 3.0

	MIN_SLEEP_TURNS = 1
	MAX_SLEEP_TURNS = 3
)
