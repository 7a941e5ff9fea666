package golurk

import "fmt"

type ActionKind int

const (
	ACTION_MOVE ActionKind = iota + 1
	ACTION_SWITCH
	ACTION_ITEM
)

// Action is what a side submits for a turn. It is one of AttackAction, SwitchAction or ItemAction.
type Action interface {
	Kind() ActionKind
	// Priority is the action's turn order priority given the acting pokemon
	Priority(actor *Pokemon) int

	fmt.Stringer
}

type AttackAction struct {
	MoveIndex int
}

func NewAttackAction(moveIndex int) AttackAction {
	return AttackAction{MoveIndex: moveIndex}
}

func (AttackAction) Kind() ActionKind { return ACTION_MOVE }

func (a AttackAction) Priority(actor *Pokemon) int {
	if actor == nil || a.MoveIndex < 0 || a.MoveIndex >= len(actor.Moves) {
		return 0
	}

	return actor.Moves[a.MoveIndex].Priority
}

func (a AttackAction) String() string {
	return fmt.Sprintf("move(%d)", a.MoveIndex)
}

type SwitchAction struct {
	SwitchIndex int
}

func NewSwitchAction(switchIndex int) SwitchAction {
	return SwitchAction{SwitchIndex: switchIndex}
}

func (SwitchAction) Kind() ActionKind       { return ACTION_SWITCH }
func (SwitchAction) Priority(*Pokemon) int { return 0 }

func (a SwitchAction) String() string {
	return fmt.Sprintf("switch(%d)", a.SwitchIndex)
}

type ItemAction struct {
	ItemID string
}

func NewItemAction(itemID string) ItemAction {
	return ItemAction{ItemID: itemID}
}

func (ItemAction) Kind() ActionKind       { return ACTION_ITEM }
func (ItemAction) Priority(*Pokemon) int { return 0 }

func (a ItemAction) String() string {
	return fmt.Sprintf("item(%s)", a.ItemID)
}
