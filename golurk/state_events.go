package golurk

import (
	"fmt"
	"reflect"
)

// StateEvent represents a "single" change in the battle.
// Single here meaning a high-level of single, multiple "things" happening in a single event
// should be strongly related.
//
// Actions are what a side submits for a turn, events are the low level changes those actions are made of.
type StateEvent interface {
	// Update changes the battle in some way. Follow-up events caused by this update are returned
	// and are handled DIRECTLY after this event. The second value is the messages to display for the event.
	Update(*BattleManager) ([]StateEvent, []string)
}

type SwitchEvent struct {
	Side        Side
	SwitchIndex int
	// Initial is set for the leads sent out when the battle starts
	Initial bool
	// Replace is set when the switch replaces a fainted pokemon
	Replace bool
}

func (event SwitchEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	player, opposingPlayer := m.getPlayerPair(event.Side)
	incoming := player.GetPokemon(event.SwitchIndex)
	if incoming == nil {
		turnLogger().Error(ErrInvalidSwitchTarget, "switch event with an out of range index", "side", event.Side.String(), "index", event.SwitchIndex)
		return nil, nil
	}

	followUpEvents := make([]StateEvent, 0)

	if !event.Initial {
		outgoing := player.GetActivePokemon()
		followUpEvents = append(followUpEvents, outgoing.Ability.OnSwitchOut(outgoing, event.Side)...)
		outgoing.Battle.ClearStages()
	}

	player.ActivePokeIndex = event.SwitchIndex

	// --- On Switch-In Updates ---
	// toxic does not survive a switch, the pokemon is left regularly poisoned
	if incoming.Battle.BadlyPoisoned {
		incoming.Battle.BadlyPoisoned = false
		incoming.Battle.ToxicTurns = 0
		turnLogger().V(1).Info("badly poisoned pokemon switched in and reverted to poison", "pokemon_name", incoming.Name)
	}

	turnLogger().Info("switch", "player_name", player.Name, "pokemon_name", incoming.Name)

	var message string
	if event.Initial || event.Replace {
		message = fmt.Sprintf("%s sent out %s!", player.Name, incoming.Name)
	} else {
		message = fmt.Sprintf("%s switched to %s!", player.Name, incoming.Name)
	}

	// leads run their switch-in hooks once both are out, see NewBattle
	if !event.Initial {
		followUpEvents = append(followUpEvents, incoming.Ability.OnSwitchIn(incoming, event.Side, opposingPlayer.GetActivePokemon())...)
	}

	return followUpEvents, []string{message}
}

type MoveUsedEvent struct {
	Side     Side
	MoveName string
}

func (event MoveUsedEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	return nil, []string{fmt.Sprintf("%s used %s!", m.active(event.Side).Name, event.MoveName)}
}

type MissEvent struct {
	Side Side
}

func (event MissEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	return nil, []string{fmt.Sprintf("%s's attack missed!", m.active(event.Side).Name)}
}

type DamageEvent struct {
	Side   Side
	Damage int
	Crit   bool
	// Message replaces the default damage message when set, used for recoil
	Message         string
	SuppressMessage bool
}

func (event DamageEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	dealt := pokemon.Battle.TakeDamage(event.Damage)

	if event.SuppressMessage {
		return nil, nil
	}

	if event.Message != "" {
		return nil, []string{event.Message}
	}

	messages := []string{fmt.Sprintf("It dealt %d damage!", dealt)}
	if event.Crit {
		messages = append(messages, "Critical hit!")
	}

	return nil, messages
}

type HealEvent struct {
	Side   Side
	Amount int
	// Message replaces the default heal message when set
	Message string
}

func (event HealEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	healed := pokemon.Battle.Heal(event.Amount)

	if healed == 0 {
		return nil, []string{fmt.Sprintf("%s's HP is full!", pokemon.Name)}
	}

	if event.Message != "" {
		return nil, []string{event.Message}
	}

	return nil, []string{fmt.Sprintf("%s restored %d HP!", pokemon.Name, healed)}
}

type EffectivenessEvent struct {
	DefenderSide  Side
	Effectiveness float64
}

func (event EffectivenessEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	switch {
	case event.Effectiveness == 0:
		return nil, []string{fmt.Sprintf("It doesn't affect %s...", m.active(event.DefenderSide).Name)}
	case event.Effectiveness >= 2:
		return nil, []string{"It's super effective!"}
	case event.Effectiveness < 1:
		return nil, []string{"It's not very effective..."}
	}

	return nil, nil
}

type AilmentEvent struct {
	Side    Side
	Ailment StatusKind
	// Badly turns poison into toxic
	Badly bool
}

var ailmentApplicationMessages = map[StatusKind]string{
	STATUS_SLEEP:  "%s fell asleep!",
	STATUS_PARA:   "%s is paralyzed! It may be unable to move!",
	STATUS_FROZEN: "%s was frozen solid!",
	STATUS_BURN:   "%s was burned!",
	STATUS_POISON: "%s was poisoned!",
}

func (event AilmentEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	if !pokemon.Alive() {
		return nil, nil
	}

	if pokemon.Ability.PreventsStatus(event.Ailment) {
		return []StateEvent{
			AbilityActivationEvent{
				Side:          event.Side,
				AbilityName:   pokemon.AbilityName(),
				CustomMessage: fmt.Sprintf("%s's %s prevents %s!", pokemon.Name, pokemon.AbilityName(), event.Ailment),
			},
		}, nil
	}

	if !pokemon.Battle.ApplyStatusIfFree(event.Ailment) {
		return nil, nil
	}

	message := fmt.Sprintf(ailmentApplicationMessages[event.Ailment], pokemon.Name)

	switch event.Ailment {
	case STATUS_SLEEP:
		pokemon.Battle.SleepTurns = rollRange(m.rng, MIN_SLEEP_TURNS, MAX_SLEEP_TURNS)
		turnLogger().Info("pokemon fell asleep", "pokemon_name", pokemon.Name, "sleep_turns", pokemon.Battle.SleepTurns)
	case STATUS_POISON:
		if event.Badly {
			pokemon.Battle.BadlyPoisoned = true
			pokemon.Battle.ToxicTurns = 0
			message = fmt.Sprintf("%s was badly poisoned!", pokemon.Name)
		}
	}

	return nil, []string{message}
}

type StatChangeEvent struct {
	Side     Side
	StatName string
	Change   int
}

var (
	statRiseMessages = []string{"%s's %s rose!", "%s's %s rose sharply!", "%s's %s rose drastically!"}
	statFallMessages = []string{"%s's %s fell!", "%s's %s harshly fell!", "%s's %s severely fell!"}
)

func (event StatChangeEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	statName := statDisplayNames[event.StatName]

	applied := pokemon.Battle.ModifyStage(event.StatName, event.Change)
	turnLogger().V(1).Info("stat change", "pokemon_name", pokemon.Name, "stat", event.StatName, "requested", event.Change, "applied", applied)

	switch {
	case applied == 0 && event.Change > 0:
		return nil, []string{fmt.Sprintf("%s's %s won't go any higher!", pokemon.Name, statName)}
	case applied == 0:
		return nil, []string{fmt.Sprintf("%s's %s won't go any lower!", pokemon.Name, statName)}
	case applied > 0:
		return nil, []string{fmt.Sprintf(statRiseMessages[min(applied, 3)-1], pokemon.Name, statName)}
	}

	return nil, []string{fmt.Sprintf(statFallMessages[min(-applied, 3)-1], pokemon.Name, statName)}
}

// AbilityActivationEvent announces an ability. Whatever the ability changes comes as separate follow-up events.
type AbilityActivationEvent struct {
	Side          Side
	AbilityName   string
	CustomMessage string
}

func (event AbilityActivationEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	if event.CustomMessage != "" {
		return nil, []string{event.CustomMessage}
	}

	return nil, []string{fmt.Sprintf("%s's %s activated!", m.active(event.Side).Name, event.AbilityName)}
}

type FaintEvent struct {
	Side Side
}

func (event FaintEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	return nil, []string{fmt.Sprintf("%s fainted!", m.active(event.Side).Name)}
}

// StatusDamageEvent is the end of turn damage from poison, toxic or burn
type StatusDamageEvent struct {
	Side Side
}

func (event StatusDamageEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	maxHp := pokemon.Battle.MaxHp

	var damage int
	var message string

	switch pokemon.Battle.Status {
	case STATUS_POISON:
		if pokemon.Battle.BadlyPoisoned {
			pokemon.Battle.ToxicTurns++
			damage = max(1, maxHp*pokemon.Battle.ToxicTurns/16)
		} else {
			damage = max(1, maxHp/8)
		}
		message = fmt.Sprintf("%s is hurt by poison!", pokemon.Name)
	case STATUS_BURN:
		damage = max(1, maxHp/16)
		message = fmt.Sprintf("%s is hurt by its burn!", pokemon.Name)
	default:
		return nil, nil
	}

	pokemon.Battle.TakeDamage(damage)
	turnLogger().Info("status damage", "pokemon_name", pokemon.Name, "status", pokemon.Battle.Status.String(), "damage", damage, "toxic_turns", pokemon.Battle.ToxicTurns)

	return nil, []string{message}
}

type FlinchEvent struct {
	Side Side
}

func (event FlinchEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	return nil, []string{fmt.Sprintf("%s flinched and couldn't move!", m.active(event.Side).Name)}
}

// ItemEvent takes one item out of the side's bag and uses it on the active pokemon
type ItemEvent struct {
	Side   Side
	ItemID string
}

func (event ItemEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	player := m.GetPlayer(event.Side)
	pokemon := player.GetActivePokemon()

	item, ok := LookupItem(event.ItemID)
	if !ok || player.Bag[event.ItemID] <= 0 {
		turnLogger().Error(ErrUnknownItem, "item event reached an item that could not be used", "item", event.ItemID)
		return nil, nil
	}

	player.Bag[event.ItemID]--

	messages := []string{fmt.Sprintf("%s used a %s on %s!", player.Name, item.Name, pokemon.Name)}
	followUpEvents := make([]StateEvent, 0)

	if item.FullHeal {
		followUpEvents = append(followUpEvents, HealEvent{Side: event.Side, Amount: pokemon.Battle.MaxHp})
	} else if item.Heal > 0 {
		followUpEvents = append(followUpEvents, HealEvent{Side: event.Side, Amount: item.Heal})
	}

	if item.Cures && pokemon.Battle.Status != STATUS_NONE {
		followUpEvents = append(followUpEvents, CureEvent{Side: event.Side})
	}

	return followUpEvents, messages
}

type CureEvent struct {
	Side Side
}

func (event CureEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	pokemon := m.active(event.Side)
	status := pokemon.Battle.Status
	if status == STATUS_NONE {
		return nil, nil
	}

	pokemon.Battle.ClearStatus()

	return nil, []string{fmt.Sprintf("%s was cured of its %s!", pokemon.Name, status)}
}

// BattleOverEvent ends the battle. A zero Winner means both sides went down together.
type BattleOverEvent struct {
	Winner Side
}

func (event BattleOverEvent) Update(m *BattleManager) ([]StateEvent, []string) {
	m.battleOver = true
	m.winner = event.Winner
	m.pendingSwitch = make(map[Side]bool)
	m.setPhase(PHASE_BATTLE_OVER)

	turnLogger().Info("battle over", "battle_id", m.ID.String(), "winner", event.Winner.String(), "turns", m.Turn)

	if event.Winner == 0 {
		return nil, []string{"The battle ended in a draw!"}
	}

	return nil, []string{fmt.Sprintf("%s won the battle!", m.GetPlayer(event.Winner).Name)}
}

type MessageEvent struct {
	Message string
}

func NewMessageEvent(message string) MessageEvent {
	return MessageEvent{Message: message}
}

func (event MessageEvent) Update(*BattleManager) ([]StateEvent, []string) {
	return nil, []string{event.Message}
}

type FmtMessageEvent struct {
	Message string
	Args    []any
}

func NewFmtMessageEvent(message string, a ...any) FmtMessageEvent {
	return FmtMessageEvent{Message: message, Args: a}
}

func (event FmtMessageEvent) Update(*BattleManager) ([]StateEvent, []string) {
	return nil, []string{fmt.Sprintf(event.Message, event.Args...)}
}

type EventIter struct {
	events []StateEvent
}

func NewEventIter() EventIter {
	return EventIter{make([]StateEvent, 0)}
}

// Next updates the battle with the top event, adds any follow up events to the front of the queue,
// and returns the event along with its messages. The boolean value is false once the queue is empty.
func (iter *EventIter) Next(m *BattleManager) (StateEvent, []string, bool) {
	if len(iter.events) == 0 {
		return nil, nil, false
	}

	headEvent := iter.events[0]
	turnLogger().WithName("event_iter").V(2).Info("updating state", "event_name", reflect.TypeOf(headEvent).Name())
	followUpEvents, messages := headEvent.Update(m)

	// pop queue
	iter.events = iter.events[1:]

	if len(followUpEvents) != 0 {
		// create new queue with follow_up_events prepended to the front
		newQueue := make([]StateEvent, 0, len(iter.events)+len(followUpEvents))
		newQueue = append(newQueue, followUpEvents...)
		newQueue = append(newQueue, iter.events...)

		iter.events = newQueue
	}

	return headEvent, messages, true
}

func (iter *EventIter) AddEvents(events []StateEvent) {
	iter.events = append(iter.events, events...)
}

func (iter EventIter) Len() int {
	return len(iter.events)
}

// apply runs events and their follow-ups to completion, recording each one for the turn
func (m *BattleManager) apply(events ...StateEvent) []TurnEvent {
	iter := NewEventIter()
	iter.AddEvents(events)

	applied := make([]TurnEvent, 0, len(events))
	for {
		event, messages, ok := iter.Next(m)
		if !ok {
			break
		}

		turnEvent := TurnEvent{
			Event:    event,
			Messages: messages,
			Player:   m.snapshot(PLAYER),
			Opponent: m.snapshot(OPPONENT),
		}

		m.log = append(m.log, messages...)
		m.events = append(m.events, turnEvent)
		applied = append(applied, turnEvent)
	}

	return applied
}
