package golurk

// Snapshot is the part of a side that changes during a turn, taken after each event
type Snapshot struct {
	Name   string
	Hp     int
	MaxHp  int
	Status StatusKind
}

// TurnEvent is one applied event with the messages it produced.
// A presentation layer can replay these at its own pace.
type TurnEvent struct {
	Event    StateEvent
	Messages []string
	Player   Snapshot
	Opponent Snapshot
}

func (e TurnEvent) SnapshotFor(side Side) Snapshot {
	if side == OPPONENT {
		return e.Opponent
	}

	return e.Player
}

// StatusTick is the result of a single end of turn status effect
type StatusTick struct {
	Side    Side
	NewHp   int
	Message string
}

type TurnResult struct {
	Turn        int
	Events      []TurnEvent
	Log         []string
	StatusTicks []StatusTick
	// Sides that have to call SwitchTo before the next turn
	PendingSwitch []Side
	BattleOver    bool
	Winner        Side
}

type MoveView struct {
	Name        string
	Type        PokemonType
	DamageClass string
	Power       int
	Accuracy    int
	PP          int
	MaxPP       int
}

// PokemonView is a read-only copy of a pokemon's observable state
type PokemonView struct {
	Name      string
	Level     int
	Types     []PokemonType
	Ability   string
	Hp        int
	MaxHp     int
	Status    StatusKind
	Badly     bool
	Stages    map[string]int
	Speed     int
	Moves     []MoveView
	Fainted   bool
	TeamIndex int
}

func NewPokemonView(pokemon *Pokemon, teamIndex int) PokemonView {
	view := PokemonView{
		Name:      pokemon.Name,
		Level:     pokemon.Level,
		Types:     append([]PokemonType(nil), pokemon.Types...),
		Ability:   pokemon.AbilityName(),
		Hp:        pokemon.Battle.Hp,
		MaxHp:     pokemon.Battle.MaxHp,
		Status:    pokemon.Battle.Status,
		Badly:     pokemon.Battle.BadlyPoisoned,
		Stages:    make(map[string]int, len(STAGED_STATS)),
		Speed:     pokemon.Speed(),
		Moves:     make([]MoveView, 0, len(pokemon.Moves)),
		Fainted:   !pokemon.Alive(),
		TeamIndex: teamIndex,
	}

	for _, stat := range STAGED_STATS {
		view.Stages[stat] = pokemon.Battle.Stage(stat)
	}

	for _, move := range pokemon.Moves {
		view.Moves = append(view.Moves, MoveView{
			Name:        move.Label(),
			Type:        move.Type,
			DamageClass: move.DamageClass,
			Power:       move.Power,
			Accuracy:    move.Accuracy,
			PP:          pokemon.Battle.PP[move.Name],
			MaxPP:       pokemon.Battle.MaxPP[move.Name],
		})
	}

	return view
}

// ActiveView returns the observable state of side's active pokemon
func (m *BattleManager) ActiveView(side Side) PokemonView {
	player := m.GetPlayer(side)
	return NewPokemonView(player.GetActivePokemon(), player.ActivePokeIndex)
}

// TeamView returns the observable state of every pokemon on side's team
func (m *BattleManager) TeamView(side Side) []PokemonView {
	player := m.GetPlayer(side)
	views := make([]PokemonView, 0, len(player.Team))
	for i := range player.Team {
		views = append(views, NewPokemonView(&player.Team[i], i))
	}

	return views
}

func (m *BattleManager) snapshot(side Side) Snapshot {
	pokemon := m.active(side)
	return Snapshot{
		Name:   pokemon.Name,
		Hp:     pokemon.Battle.Hp,
		MaxHp:  pokemon.Battle.MaxHp,
		Status: pokemon.Battle.Status,
	}
}
