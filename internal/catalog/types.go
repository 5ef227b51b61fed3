package catalog

import "strings"

const (
	SlotWeapon = "weapon"
	SlotArmor  = "armor"
)

const (
	OutputWeapon = "weapon"
	OutputArmor  = "armor"
	OutputPotion = "potion"
)

// Gear is a weapon or armor piece sold in the store or produced by a recipe.
type Gear struct {
	Name    string
	Slot    string
	Stat    int // attack for weapons, defense for armor
	Price   int
	Level   int
	Classes []string
}

// AllowsClass reports whether class may equip the gear. No classes means anyone.
func (g Gear) AllowsClass(class string) bool {
	if len(g.Classes) == 0 {
		return true
	}
	class = strings.ToLower(strings.TrimSpace(class))
	for _, c := range g.Classes {
		if c == class {
			return true
		}
	}
	return false
}

type Potion struct {
	Name  string `yaml:"name"`
	Heal  int    `yaml:"heal"`
	Price int    `yaml:"price"`
}

type Material struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
}

type RecipeOutput struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	Qty  int    `yaml:"qty"`
}

type Recipe struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Level  int            `yaml:"level"`
	Inputs map[string]int `yaml:"inputs"`
	Output RecipeOutput   `yaml:"output"`
}

// Drop is one loot table row; RateBPS is the chance in basis points.
type Drop struct {
	Material string `yaml:"material"`
	RateBPS  int    `yaml:"rate_bps"`
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
}

type Monster struct {
	Name   string `yaml:"name"`
	Biome  string `yaml:"biome"`
	Level  int    `yaml:"level"`
	XP     int    `yaml:"xp"`
	HP     int    `yaml:"hp"`
	Attack int    `yaml:"attack"`
	Gold   int    `yaml:"gold"`
	Drops  []Drop `yaml:"drops"`
}

type weaponRow struct {
	Name    string   `yaml:"name"`
	Attack  int      `yaml:"attack"`
	Price   int      `yaml:"price"`
	Level   int      `yaml:"level"`
	Classes []string `yaml:"classes"`
}

type armorRow struct {
	Name    string   `yaml:"name"`
	Defense int      `yaml:"defense"`
	Price   int      `yaml:"price"`
	Level   int      `yaml:"level"`
	Classes []string `yaml:"classes"`
}

type storeFile struct {
	Weapons []weaponRow `yaml:"weapons"`
	Armor   []armorRow  `yaml:"armor"`
	Potions []Potion    `yaml:"potions"`
}

type craftingFile struct {
	Materials []Material `yaml:"materials"`
	Recipes   []Recipe   `yaml:"recipes"`
}

type monstersFile struct {
	Monsters []Monster `yaml:"monsters"`
}
