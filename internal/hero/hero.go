// Package hero holds the player record and the rules that only touch it:
// levelling, gold, healing, inventory and materials.
package hero

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
)

const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
	ClassRogue   = "rogue"
)

const (
	StartingGold  = 100
	StartingBiome = "grassland"
)

type classProfile struct {
	HP      int
	Attack  int
	Defense int
	Weapon  string
	Armor   string
}

var classProfiles = map[string]classProfile{
	ClassWarrior: {HP: 110, Attack: 12, Defense: 8, Weapon: "Rusty Sword", Armor: "Cloth Tunic"},
	ClassMage:    {HP: 90, Attack: 8, Defense: 5, Weapon: "Wooden Staff", Armor: "Cloth Tunic"},
	ClassRogue:   {HP: 100, Attack: 10, Defense: 6, Weapon: "Rusty Sword", Armor: "Cloth Tunic"},
}

// State is the whole mutable player record. It is what gets saved.
type State struct {
	Name        string         `json:"name"`
	Class       string         `json:"class"`
	Level       int            `json:"level"`
	XP          int            `json:"xp"`
	Gold        int            `json:"gold"`
	HP          int            `json:"hp"`
	MaxHP       int            `json:"max_hp"`
	Biome       string         `json:"biome"`
	BaseAttack  int            `json:"base_attack"`
	BaseDefense int            `json:"base_defense"`
	Attack      int            `json:"attack"`
	Defense     int            `json:"defense"`
	Weapon      string         `json:"weapon"`
	Armor       string         `json:"armor"`
	Inventory   []string       `json:"inventory"`
	Potions     map[string]int `json:"potions"`
	Materials   map[string]int `json:"materials"`
	Quests      []Quest        `json:"quests"`
	Equipment   Equipment      `json:"equipment"`
	Kills       int            `json:"kills"`
}

// Equipment holds one enhancement record per slot.
type Equipment struct {
	Weapon Enhancement `json:"weapon"`
	Armor  Enhancement `json:"armor"`
}

// Enhancement is the modifier stack applied to the item in a slot.
type Enhancement struct {
	Item         string   `json:"item"`
	UpgradeLevel int      `json:"upgrade_level"`
	Enchantment  string   `json:"enchantment,omitempty"`
	Gems         []string `json:"gems,omitempty"`
}

// New creates a level 1 hero of the given class with starter gear.
// Unknown classes become warriors.
func New(name, class string) *State {
	class = NormalizeClass(class)
	profile := classProfiles[class]
	h := &State{
		Name:        strings.TrimSpace(name),
		Class:       class,
		Level:       1,
		Gold:        StartingGold,
		HP:          profile.HP,
		MaxHP:       profile.HP,
		Biome:       StartingBiome,
		BaseAttack:  profile.Attack,
		BaseDefense: profile.Defense,
		Weapon:      profile.Weapon,
		Armor:       profile.Armor,
		Inventory:   []string{profile.Weapon, profile.Armor},
		Potions:     map[string]int{"Minor Potion": 2},
		Materials:   map[string]int{},
	}
	h.Equipment.Weapon.Item = profile.Weapon
	h.Equipment.Armor.Item = profile.Armor
	EnsureDefaults(h)
	return h
}

// NormalizeClass lower-cases class and maps unknown values to warrior.
func NormalizeClass(class string) string {
	class = strings.ToLower(strings.TrimSpace(class))
	if _, ok := classProfiles[class]; !ok {
		return ClassWarrior
	}
	return class
}

// Classes lists the playable classes.
func Classes() []string {
	return []string{ClassWarrior, ClassMage, ClassRogue}
}

// EnsureDefaults repairs a record loaded from an older or partial save.
func EnsureDefaults(h *State) {
	if strings.TrimSpace(h.Name) == "" {
		h.Name = "Hero"
	}
	h.Class = NormalizeClass(h.Class)
	if h.Level < 1 {
		h.Level = 1
	}
	if h.XP < 0 {
		h.XP = 0
	}
	if h.Gold < 0 {
		h.Gold = 0
	}
	profile := classProfiles[h.Class]
	if h.MaxHP <= 0 {
		h.MaxHP = profile.HP + (h.Level-1)*hpPerLevel
	}
	if h.HP <= 0 || h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
	if h.BaseAttack <= 0 {
		h.BaseAttack = profile.Attack + (h.Level-1)*attackPerLevel
	}
	if h.BaseDefense <= 0 {
		h.BaseDefense = profile.Defense + (h.Level-1)*defensePerLevel
	}
	if h.Biome == "" {
		h.Biome = StartingBiome
	}
	if h.Potions == nil {
		h.Potions = map[string]int{}
	}
	if h.Materials == nil {
		h.Materials = map[string]int{}
	}
	if h.Weapon != "" && !h.Owns(h.Weapon) {
		h.Inventory = append(h.Inventory, h.Weapon)
	}
	if h.Armor != "" && !h.Owns(h.Armor) {
		h.Inventory = append(h.Inventory, h.Armor)
	}
	if h.Equipment.Weapon.Item != h.Weapon {
		h.Equipment.Weapon = Enhancement{Item: h.Weapon}
	}
	if h.Equipment.Armor.Item != h.Armor {
		h.Equipment.Armor = Enhancement{Item: h.Armor}
	}
	if h.Attack <= 0 {
		h.Attack = h.BaseAttack
	}
	if h.Defense <= 0 {
		h.Defense = h.BaseDefense
	}
	for i := range h.Quests {
		if h.Quests[i].ID == "" {
			h.Quests[i].ID = uuid.NewString()
		}
	}
}

// Equipped returns the item name in slot, "" when empty.
func (h *State) Equipped(slot string) string {
	switch slot {
	case catalog.SlotWeapon:
		return h.Weapon
	case catalog.SlotArmor:
		return h.Armor
	}
	return ""
}

// Enhancement returns the modifier record for slot, nil for unknown slots.
func (h *State) Enhancement(slot string) *Enhancement {
	switch slot {
	case catalog.SlotWeapon:
		return &h.Equipment.Weapon
	case catalog.SlotArmor:
		return &h.Equipment.Armor
	}
	return nil
}

// Equip puts an owned item in slot and starts a fresh enhancement record.
// Re-equipping the item already in the slot keeps its record.
func (h *State) Equip(slot, item string) error {
	if !h.Owns(item) {
		return apperr.Newf(apperr.CodeItemNotOwned, "You don't own %s.", item)
	}
	if item != "" && h.Equipped(slot) == item {
		return nil
	}
	switch slot {
	case catalog.SlotWeapon:
		h.Weapon = item
		h.Equipment.Weapon = Enhancement{Item: item}
	case catalog.SlotArmor:
		h.Armor = item
		h.Equipment.Armor = Enhancement{Item: item}
	default:
		return apperr.Newf(apperr.CodeInvalidSlot, "Unknown equipment slot %q.", slot)
	}
	return nil
}

func (h *State) Owns(item string) bool {
	for _, it := range h.Inventory {
		if it == item {
			return true
		}
	}
	return false
}

func (h *State) AddItem(item string) {
	h.Inventory = append(h.Inventory, item)
}

// RemoveItem drops one copy of item from the inventory.
func (h *State) RemoveItem(item string) bool {
	for i, it := range h.Inventory {
		if it == item {
			h.Inventory = append(h.Inventory[:i], h.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// CountItem reports how many copies of item the hero carries.
func (h *State) CountItem(item string) int {
	n := 0
	for _, it := range h.Inventory {
		if it == item {
			n++
		}
	}
	return n
}

func (h *State) IsEquipped(item string) bool {
	return item != "" && (h.Weapon == item || h.Armor == item)
}

// SpendGold deducts amount or rejects without touching the purse.
func (h *State) SpendGold(amount int) error {
	if amount < 0 {
		amount = 0
	}
	if h.Gold < amount {
		return apperr.WithMetadata(apperr.CodeInsufficientGold,
			"Not enough gold!",
			map[string]string{"need": strconv.Itoa(amount), "have": strconv.Itoa(h.Gold)})
	}
	h.Gold -= amount
	return nil
}

func (h *State) EarnGold(amount int) {
	if amount > 0 {
		h.Gold += amount
	}
}

// Heal restores up to amount hp and returns how much was restored.
func (h *State) Heal(amount int) int {
	if amount <= 0 || h.HP >= h.MaxHP {
		return 0
	}
	before := h.HP
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
	return h.HP - before
}

// TakeDamage lowers hp, never below zero, and reports whether the hero fell.
func (h *State) TakeDamage(amount int) bool {
	if amount > 0 {
		h.HP -= amount
	}
	if h.HP < 0 {
		h.HP = 0
	}
	return h.HP == 0
}

func (h *State) Alive() bool {
	return h.HP > 0
}

func (h *State) AddMaterial(id string, qty int) {
	if qty <= 0 {
		return
	}
	h.Materials[id] += qty
}

// HasMaterials reports whether every input is available times qty.
func (h *State) HasMaterials(inputs map[string]int, qty int) bool {
	for id, need := range inputs {
		if h.Materials[id] < need*qty {
			return false
		}
	}
	return true
}

// TakeMaterials consumes inputs times qty. Callers check HasMaterials first.
func (h *State) TakeMaterials(inputs map[string]int, qty int) map[string]int {
	consumed := make(map[string]int, len(inputs))
	for id, need := range inputs {
		total := need * qty
		h.Materials[id] -= total
		if h.Materials[id] <= 0 {
			delete(h.Materials, id)
		}
		consumed[id] = total
	}
	return consumed
}
