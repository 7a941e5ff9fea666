package golurk

import (
	"slices"

	"github.com/samber/lo"
)

type Item struct {
	ID   string
	Name string
	// Hp restored. FullHeal restores everything
	Heal     int
	FullHeal bool
	Cures    bool
}

var ITEMS = map[string]Item{
	"potion":       {ID: "potion", Name: "Potion", Heal: 20},
	"super-potion": {ID: "super-potion", Name: "Super Potion", Heal: 50},
	"hyper-potion": {ID: "hyper-potion", Name: "Hyper Potion", Heal: 200},
	"full-heal":    {ID: "full-heal", Name: "Full Heal", Cures: true},
	"full-restore": {ID: "full-restore", Name: "Full Restore", FullHeal: true, Cures: true},
}

func LookupItem(id string) (Item, bool) {
	item, ok := ITEMS[id]
	return item, ok
}

func ItemIDs() []string {
	ids := lo.Keys(ITEMS)
	slices.Sort(ids)

	return ids
}
