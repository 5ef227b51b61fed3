package equipment

import (
	"sort"

	"github.com/sho0303/monster-game-sub001/internal/catalog"
)

const MaxUpgradeLevel = 5

// upgradePercent[i] is the stat multiplier at upgrade level i, in percent.
var upgradePercent = [MaxUpgradeLevel + 1]int{100, 120, 140, 160, 180, 200}

// upgradeCostPercent[i] prices the step from level i to i+1 as a share of the item price.
var upgradeCostPercent = [MaxUpgradeLevel]int{50, 100, 150, 200, 300}

const minUpgradeCost = 10

const (
	GemStatAttack  = "attack"
	GemStatDefense = "defense"
	GemStatAll     = "all"
)

// Enchantment adds a flat bonus to one slot. Special is a tag for a combat
// effect; nothing reads it besides the UI.
type Enchantment struct {
	ID      string
	Name    string
	Slot    string
	Bonus   int
	Cost    int
	Special string
}

type Gem struct {
	ID    string
	Name  string
	Stat  string
	Bonus int
	Cost  int
}

var enchantments = map[string]Enchantment{
	"fire":      {ID: "fire", Name: "Fire", Slot: catalog.SlotWeapon, Bonus: 3, Cost: 80, Special: "burn_chance"},
	"ice":       {ID: "ice", Name: "Ice", Slot: catalog.SlotWeapon, Bonus: 3, Cost: 80, Special: "freeze_chance"},
	"lightning": {ID: "lightning", Name: "Lightning", Slot: catalog.SlotWeapon, Bonus: 4, Cost: 110, Special: "stun_chance"},
	"poison":    {ID: "poison", Name: "Poison", Slot: catalog.SlotWeapon, Bonus: 2, Cost: 60, Special: "poison_chance"},
	"holy":      {ID: "holy", Name: "Holy", Slot: catalog.SlotWeapon, Bonus: 5, Cost: 150, Special: "undead_bane"},
	"vampiric":  {ID: "vampiric", Name: "Vampiric", Slot: catalog.SlotWeapon, Bonus: 2, Cost: 140, Special: "life_steal"},

	"fortified":    {ID: "fortified", Name: "Fortified", Slot: catalog.SlotArmor, Bonus: 3, Cost: 80, Special: "damage_reduction"},
	"thorns":       {ID: "thorns", Name: "Thorns", Slot: catalog.SlotArmor, Bonus: 2, Cost: 90, Special: "reflect_damage"},
	"regeneration": {ID: "regeneration", Name: "Regeneration", Slot: catalog.SlotArmor, Bonus: 2, Cost: 120, Special: "hp_regen"},
	"evasion":      {ID: "evasion", Name: "Evasion", Slot: catalog.SlotArmor, Bonus: 2, Cost: 100, Special: "dodge_chance"},
	"warding":      {ID: "warding", Name: "Warding", Slot: catalog.SlotArmor, Bonus: 4, Cost: 130, Special: "magic_resist"},
}

var gems = map[string]Gem{
	"ruby":     {ID: "ruby", Name: "Ruby", Stat: GemStatAttack, Bonus: 2, Cost: 50},
	"topaz":    {ID: "topaz", Name: "Topaz", Stat: GemStatAttack, Bonus: 4, Cost: 110},
	"sapphire": {ID: "sapphire", Name: "Sapphire", Stat: GemStatDefense, Bonus: 2, Cost: 50},
	"emerald":  {ID: "emerald", Name: "Emerald", Stat: GemStatAll, Bonus: 1, Cost: 70},
	"diamond":  {ID: "diamond", Name: "Diamond", Stat: GemStatAll, Bonus: 3, Cost: 200},
}

// UpgradeMultiplierPercent returns the stat multiplier for level, clamped to 0..MaxUpgradeLevel.
func UpgradeMultiplierPercent(level int) int {
	return upgradePercent[clampLevel(level)]
}

func LookupEnchantment(id string) (Enchantment, bool) {
	e, ok := enchantments[id]
	return e, ok
}

// Enchantments lists the enchantments for slot, cheapest first.
func Enchantments(slot string) []Enchantment {
	out := make([]Enchantment, 0, len(enchantments))
	for _, e := range enchantments {
		if e.Slot == slot {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func LookupGem(id string) (Gem, bool) {
	g, ok := gems[id]
	return g, ok
}

// Gems lists every gem, cheapest first.
func Gems() []Gem {
	out := make([]Gem, 0, len(gems))
	for _, g := range gems {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Boosts reports whether the gem adds to the stat of slot.
func (g Gem) Boosts(slot string) bool {
	switch g.Stat {
	case GemStatAll:
		return true
	case GemStatAttack:
		return slot == catalog.SlotWeapon
	case GemStatDefense:
		return slot == catalog.SlotArmor
	}
	return false
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxUpgradeLevel {
		return MaxUpgradeLevel
	}
	return level
}
