package golurk

import (
	"fmt"

	"github.com/samber/lo"
)

// TakeTurn resolves one full turn: both actions in order, faints after each, then the end of turn status pass.
//
// Both actions are validated before anything changes. An invalid action returns an error and leaves the battle untouched.
func (m *BattleManager) TakeTurn(playerAction Action, opponentAction Action) (TurnResult, error) {
	if m.battleOver {
		return TurnResult{}, ErrBattleOver
	}

	for _, side := range SIDES {
		if m.pendingSwitch[side] {
			return TurnResult{}, fmt.Errorf("%w: %s", ErrSwitchRequired, m.GetPlayer(side).Name)
		}
	}

	if err := m.validateAction(PLAYER, playerAction); err != nil {
		return TurnResult{}, err
	}
	if err := m.validateAction(OPPONENT, opponentAction); err != nil {
		return TurnResult{}, err
	}

	m.beginTurn()

	actions := map[Side]Action{
		PLAYER:   playerAction,
		OPPONENT: opponentAction,
	}

	first, second := m.turnOrder(playerAction, opponentAction)
	m.setPhase(PHASE_TURN_ORDER_DECIDED)

	turnLogger().Info(fmt.Sprintf("======== TURN %d =========", m.Turn),
		"first", first.String(),
		"first_action", actions[first].String(),
		"second_action", actions[second].String())

	m.setPhase(PHASE_FIRST_ACTION)
	m.resolveAction(first, actions[first])

	if !m.battleOver {
		m.setPhase(PHASE_SECOND_ACTION)
		m.resolveAction(second, actions[second])
	}

	var ticks []StatusTick
	if !m.battleOver {
		m.setPhase(PHASE_END_OF_TURN)
		ticks = m.ApplyEndOfTurnStatus()
	}

	if !m.battleOver {
		m.setPhase(PHASE_IDLE)
	}

	return m.turnResult(ticks), nil
}

func (m *BattleManager) beginTurn() {
	m.Turn++
	m.turnLogStart = len(m.log)
	m.events = make([]TurnEvent, 0)

	for _, side := range SIDES {
		m.acted[side] = false
		m.flinched[side] = false
		m.activeAtStart[side] = m.GetPlayer(side).ActivePokeIndex
	}
}

func (m *BattleManager) turnResult(ticks []StatusTick) TurnResult {
	return TurnResult{
		Turn:          m.Turn,
		Events:        m.Events(),
		Log:           m.TurnLog(),
		StatusTicks:   ticks,
		PendingSwitch: lo.Filter(SIDES, func(side Side, _ int) bool { return m.pendingSwitch[side] }),
		BattleOver:    m.battleOver,
		Winner:        m.winner,
	}
}

func (m *BattleManager) validateAction(side Side, action Action) error {
	player := m.GetPlayer(side)

	switch a := action.(type) {
	case AttackAction:
		active := player.GetActivePokemon()
		if a.MoveIndex < 0 || a.MoveIndex >= len(active.Moves) {
			return fmt.Errorf("%w: %s has no move in slot %d", ErrInvalidAction, active.Name, a.MoveIndex)
		}
	case SwitchAction:
		if !player.canSwitchTo(a.SwitchIndex) {
			return fmt.Errorf("%w: %s cannot switch to index %d", ErrInvalidSwitchTarget, player.Name, a.SwitchIndex)
		}
	case ItemAction:
		if _, ok := LookupItem(a.ItemID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownItem, a.ItemID)
		}
		if player.Bag[a.ItemID] <= 0 {
			return fmt.Errorf("%w: %s has no %s left", ErrExhaustedResource, player.Name, a.ItemID)
		}
	default:
		return fmt.Errorf("%w: unsupported action %T", ErrInvalidAction, action)
	}

	return nil
}

// turnOrder returns the side that acts first followed by the side that acts second.
// Priority decides first, then effective speed, and an exact tie is a coin flip.
func (m *BattleManager) turnOrder(playerAction Action, opponentAction Action) (Side, Side) {
	playerPokemon := m.active(PLAYER)
	opponentPokemon := m.active(OPPONENT)

	playerPriority := playerAction.Priority(playerPokemon)
	opponentPriority := opponentAction.Priority(opponentPokemon)

	playerSpeed := playerPokemon.Speed()
	opponentSpeed := opponentPokemon.Speed()

	turnLogger().V(2).Info("sort debug",
		"playerSpeed", playerSpeed,
		"opponentSpeed", opponentSpeed,
		"playerPriority", playerPriority,
		"opponentPriority", opponentPriority,
	)

	switch {
	case playerPriority > opponentPriority:
		return PLAYER, OPPONENT
	case playerPriority < opponentPriority:
		return OPPONENT, PLAYER
	case playerSpeed > opponentSpeed:
		return PLAYER, OPPONENT
	case playerSpeed < opponentSpeed:
		return OPPONENT, PLAYER
	}

	if roll(m.rng, 0.5) {
		return PLAYER, OPPONENT
	}

	return OPPONENT, PLAYER
}

func (m *BattleManager) resolveAction(side Side, action Action) {
	player := m.GetPlayer(side)
	actor := player.GetActivePokemon()

	// the pokemon that was supposed to act fainted or was replaced earlier this turn
	if !actor.Alive() || player.ActivePokeIndex != m.activeAtStart[side] {
		turnLogger().Info("action was cancelled", "side", side.String(), "pokemon_name", actor.Name)
		return
	}

	switch a := action.(type) {
	case SwitchAction:
		m.apply(SwitchEvent{Side: side, SwitchIndex: a.SwitchIndex})
	case ItemAction:
		m.apply(ItemEvent{Side: side, ItemID: a.ItemID})
	case AttackAction:
		if m.flinched[side] {
			m.apply(FlinchEvent{Side: side})
			break
		}

		prevented, message := m.CheckStatusPreventsMove(side)
		if message != "" {
			m.apply(NewMessageEvent(message))
		}

		if !prevented {
			if err := m.ExecuteMove(side, a.MoveIndex); err != nil {
				turnLogger().Info("move was not executed", "side", side.String(), "reason", err.Error())
			}
		}
	}

	m.acted[side] = true
	m.checkFaints(side.Opposite(), side)
}

// ExecuteMove runs the move in moveIndex for side's active pokemon against the opposing active pokemon.
//
// A move with no PP left is logged and aborted, the returned error says why. A miss still costs PP.
func (m *BattleManager) ExecuteMove(side Side, moveIndex int) error {
	attacker := m.active(side)
	defenderSide := side.Opposite()
	defender := m.active(defenderSide)

	if moveIndex < 0 || moveIndex >= len(attacker.Moves) {
		return fmt.Errorf("%w: %s has no move in slot %d", ErrInvalidAction, attacker.Name, moveIndex)
	}

	move := attacker.Moves[moveIndex]

	if err := attacker.Battle.UsePP(move.Name); err != nil {
		m.apply(NewFmtMessageEvent("%s has no PP left for %s!", attacker.Name, move.Label()))
		return err
	}

	m.apply(MoveUsedEvent{Side: side, MoveName: move.Label()})

	if !move.TargetsUser() {
		if !defender.Alive() {
			m.apply(NewMessageEvent("But there was no target..."))
			return nil
		}

		if !AccuracyCheck(attacker, defender, move, m.rng) {
			m.apply(MissEvent{Side: side})
			return nil
		}
	}

	if move.DealsDamage() && !m.resolveDamage(side, move) {
		return nil
	}

	m.ApplyMoveEffects(side, move)

	return nil
}

// resolveDamage applies every hit of a damaging move. It returns false when the move did nothing,
// either from a type immunity or an ability nullifying it, and secondary effects should be skipped.
func (m *BattleManager) resolveDamage(side Side, move *Move) bool {
	attacker := m.active(side)
	defenderSide := side.Opposite()
	defender := m.active(defenderSide)

	effectiveness := defender.DefenseEffectiveness(move.Type)
	if effectiveness == 0 {
		m.apply(EffectivenessEvent{DefenderSide: defenderSide, Effectiveness: 0})
		return false
	}

	low, high := move.HitRange()
	hits := rollRange(m.rng, low, high)
	landed := 0

	for range hits {
		if !attacker.Alive() || !defender.Alive() {
			break
		}

		damage, crit := CalculateDamage(attacker, defender, move, m.rng)
		ctx := DamageContext{
			Attacker:     attacker,
			Defender:     defender,
			AttackerSide: side,
			DefenderSide: defenderSide,
			Move:         move,
			Damage:       damage,
			Rng:          m.rng,
		}

		events := make([]StateEvent, 0)

		var followUps []StateEvent
		ctx.Damage, followUps = attacker.Ability.ModifyDamage(ctx)
		events = append(events, followUps...)

		ctx.Damage, followUps = defender.Ability.ModifyIncomingDamage(ctx)
		events = append(events, followUps...)

		if ctx.Damage <= 0 {
			abilityLogger().Info("damage nullified by ability", "move", move.Name, "defender", defender.Name)
			m.apply(events...)
			return false
		}

		if attacker.Battle.Status == STATUS_BURN && move.DamageClass == DAMAGETYPE_PHYSICAL && !attacker.Ability.PreventsBurnAttackReduction() {
			ctx.Damage = max(1, ctx.Damage/2)
			events = append(events, NewFmtMessageEvent("%s's burn weakened the attack!", attacker.Name))
		}

		hpBefore := defender.Battle.Hp
		events = append(events, DamageEvent{Side: defenderSide, Damage: ctx.Damage, Crit: crit})
		m.apply(events...)

		ctx.Damage = hpBefore - defender.Battle.Hp
		landed++

		m.apply(defender.Ability.OnDamageTaken(ctx)...)
		m.apply(attacker.Ability.OnDamageDealt(ctx)...)

		m.applyDrain(side, move, ctx.Damage)
	}

	if high > 1 {
		m.apply(NewFmtMessageEvent("Hit %d time(s)!", landed))
	}

	m.apply(EffectivenessEvent{DefenderSide: defenderSide, Effectiveness: effectiveness})

	return true
}

func (m *BattleManager) applyDrain(side Side, move *Move, dealt int) {
	drain := move.Meta.Drain
	if drain == 0 || dealt <= 0 {
		return
	}

	attacker := m.active(side)
	if !attacker.Alive() {
		return
	}

	amount := max(1, dealt*abs(drain)/100)
	if drain > 0 {
		m.apply(HealEvent{Side: side, Amount: amount, Message: fmt.Sprintf("%s drained %d HP!", attacker.Name, amount)})
	} else {
		m.apply(DamageEvent{Side: side, Damage: amount, Message: fmt.Sprintf("%s is damaged by recoil!", attacker.Name)})
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// ApplyMoveEffects applies a move's secondary effects: its ailment, stat changes, healing and flinch.
func (m *BattleManager) ApplyMoveEffects(side Side, move *Move) {
	attacker := m.active(side)
	defenderSide := side.Opposite()
	defender := m.active(defenderSide)

	if ailment := move.AilmentStatus(); ailment != STATUS_NONE {
		targetSide := defenderSide
		if move.TargetsUser() {
			targetSide = side
		}
		target := m.active(targetSide)

		switch {
		case !target.Alive():
		case target.Battle.Status != STATUS_NONE:
			if move.IsStatus() {
				m.apply(NewMessageEvent("But it failed!"))
			}
		case rollPercent(m.rng, move.Meta.AilmentChance):
			m.apply(AilmentEvent{Side: targetSide, Ailment: ailment, Badly: move.Meta.BadlyPoisons})
		}
	}

	if len(move.StatChanges) > 0 && rollPercent(m.rng, move.Meta.StatChance) {
		targetSide := defenderSide
		if move.TargetsUser() {
			targetSide = side
		}

		if m.active(targetSide).Alive() {
			events := lo.Map(move.StatChanges, func(change StatChange, _ int) StateEvent {
				return StatChangeEvent{Side: targetSide, StatName: change.StatName, Change: change.Change}
			})
			m.apply(events...)
		}
	}

	if move.Meta.Healing > 0 && attacker.Alive() {
		m.apply(HealEvent{Side: side, Amount: attacker.Battle.MaxHp * move.Meta.Healing / 100})
	}

	if move.Meta.FlinchChance > 0 && move.DealsDamage() && defender.Alive() && !m.acted[defenderSide] {
		if roll(m.rng, float64(move.Meta.FlinchChance)/100) {
			m.flinched[defenderSide] = true
		}
	}
}

// CheckStatusPreventsMove reports whether side's active pokemon is kept from moving by its status.
// The message is what happened, like waking up or being fully paralyzed, and is empty when nothing did.
//
// Sleep counts down every call. Freeze and paralysis are rolled every call.
func (m *BattleManager) CheckStatusPreventsMove(side Side) (bool, string) {
	pokemon := m.active(side)

	switch pokemon.Battle.Status {
	case STATUS_SLEEP:
		pokemon.Battle.SleepTurns--
		if pokemon.Battle.SleepTurns <= 0 {
			pokemon.Battle.ClearStatus()
			return false, fmt.Sprintf("%s woke up!", pokemon.Name)
		}

		return true, fmt.Sprintf("%s is fast asleep.", pokemon.Name)
	case STATUS_FROZEN:
		if roll(m.rng, THAW_CHANCE) {
			pokemon.Battle.ClearStatus()
			return false, fmt.Sprintf("%s thawed out!", pokemon.Name)
		}

		return true, fmt.Sprintf("%s is frozen solid!", pokemon.Name)
	case STATUS_PARA:
		if roll(m.rng, PARALYSIS_SKIP_CHANCE) {
			return true, fmt.Sprintf("%s is paralyzed! It can't move!", pokemon.Name)
		}
	}

	return false, ""
}

// ApplyEndOfTurnStatus deals poison and burn damage, always player first
func (m *BattleManager) ApplyEndOfTurnStatus() []StatusTick {
	ticks := make([]StatusTick, 0)

	for _, side := range SIDES {
		if m.battleOver {
			break
		}

		pokemon := m.active(side)
		if !pokemon.Alive() {
			continue
		}

		if pokemon.Battle.Status != STATUS_POISON && pokemon.Battle.Status != STATUS_BURN {
			continue
		}

		applied := m.apply(StatusDamageEvent{Side: side})

		tick := StatusTick{Side: side, NewHp: pokemon.Battle.Hp}
		if len(applied) > 0 && len(applied[0].Messages) > 0 {
			tick.Message = applied[0].Messages[0]
		}
		ticks = append(ticks, tick)

		m.checkFaints(side)
	}

	return ticks
}

func (m *BattleManager) checkFaints(sides ...Side) {
	for _, side := range sides {
		if m.battleOver {
			return
		}

		m.handleFaint(side)
	}
}

func (m *BattleManager) handleFaint(side Side) {
	player := m.GetPlayer(side)
	pokemon := player.GetActivePokemon()
	if pokemon.Alive() || m.faintHandled[pokemon] {
		return
	}

	m.faintHandled[pokemon] = true
	m.apply(FaintEvent{Side: side})

	if m.checkBattleEnd() {
		return
	}

	if !player.IsAI {
		m.pendingSwitch[side] = true
		turnLogger().V(1).Info("waiting on forced switch", "player_name", player.Name)
		return
	}

	replacement := BestCounter(player, m.active(side.Opposite()))
	if replacement < 0 {
		return
	}

	aiLogger().Info("ai replacing fainted pokemon", "player_name", player.Name, "replacement", player.Team[replacement].Name)
	m.apply(SwitchEvent{Side: side, SwitchIndex: replacement, Replace: true})
}

// checkBattleEnd ends the battle if either side is out of pokemon
func (m *BattleManager) checkBattleEnd() bool {
	playerLost := m.Player.Lost()
	opponentLost := m.Opponent.Lost()

	if !playerLost && !opponentLost {
		return false
	}

	var winner Side
	switch {
	case playerLost && !opponentLost:
		winner = OPPONENT
	case opponentLost && !playerLost:
		winner = PLAYER
	}

	m.apply(BattleOverEvent{Winner: winner})

	return true
}

// SwitchTo replaces side's fainted pokemon. It is only allowed while that side has a pending switch.
func (m *BattleManager) SwitchTo(side Side, index int) error {
	if m.battleOver {
		return ErrBattleOver
	}

	player := m.GetPlayer(side)
	if !m.pendingSwitch[side] {
		return fmt.Errorf("%w: %s has no fainted pokemon to replace", ErrInvalidAction, player.Name)
	}

	if !player.canSwitchTo(index) {
		return fmt.Errorf("%w: %s cannot switch to index %d", ErrInvalidSwitchTarget, player.Name, index)
	}

	m.pendingSwitch[side] = false
	m.apply(SwitchEvent{Side: side, SwitchIndex: index, Replace: true})

	return nil
}

// MakeAiAction picks an action for side using the battle's current state
func (m *BattleManager) MakeAiAction(side Side) Action {
	acting, opposing := m.getPlayerPair(side)
	return MakeAiAction(acting, opposing)
}
