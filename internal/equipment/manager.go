// Package equipment composes the final attack and defense of the equipped
// weapon and armor from the store base stat plus upgrade, enchantment and gem
// modifiers, and sells those modifiers to the hero.
package equipment

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

type Manager struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// Receipt describes a paid enhancement.
type Receipt struct {
	Slot   string
	Item   string
	Cost   int
	Before int
	After  int
}

func NewManager(cat *catalog.Catalog, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{catalog: cat, logger: logger}
}

// CalculateWeaponAttack is floor(base * upgrade multiplier) + enchantment bonus + attack gems.
// The base is looked up by item name on every call; unknown items count as 0.
func (m *Manager) CalculateWeaponAttack(item string, enh hero.Enhancement) int {
	return m.calculate(catalog.SlotWeapon, item, enh)
}

// CalculateArmorDefense is the armor counterpart of CalculateWeaponAttack.
func (m *Manager) CalculateArmorDefense(item string, enh hero.Enhancement) int {
	return m.calculate(catalog.SlotArmor, item, enh)
}

func (m *Manager) calculate(slot, item string, enh hero.Enhancement) int {
	if item == "" {
		return 0
	}
	base := m.catalog.BaseStat(item)
	total := base * UpgradeMultiplierPercent(enh.UpgradeLevel) / 100

	if enh.Enchantment != "" {
		if e, ok := enchantments[enh.Enchantment]; ok && e.Slot == slot {
			total += e.Bonus
		}
	}
	for _, id := range enh.Gems {
		if g, ok := gems[id]; ok && g.Boosts(slot) {
			total += g.Bonus
		}
	}
	return total
}

func (m *Manager) WeaponAttack(h *hero.State) int {
	return m.CalculateWeaponAttack(h.Weapon, h.Equipment.Weapon)
}

func (m *Manager) ArmorDefense(h *hero.State) int {
	return m.CalculateArmorDefense(h.Armor, h.Equipment.Armor)
}

// SlotStat is WeaponAttack or ArmorDefense depending on slot.
func (m *Manager) SlotStat(h *hero.State, slot string) int {
	enh := h.Enhancement(slot)
	if enh == nil {
		return 0
	}
	return m.calculate(slot, h.Equipped(slot), *enh)
}

// Refresh recomputes the hero's derived attack and defense.
func (m *Manager) Refresh(h *hero.State) {
	h.Attack = h.BaseAttack + m.WeaponAttack(h)
	h.Defense = h.BaseDefense + m.ArmorDefense(h)
}

// UpgradeCost prices the next upgrade of the item in slot.
func (m *Manager) UpgradeCost(h *hero.State, slot string) (int, error) {
	enh, item, err := m.slot(h, slot)
	if err != nil {
		return 0, err
	}
	if enh.UpgradeLevel >= MaxUpgradeLevel {
		return 0, apperr.Newf(apperr.CodeMaxUpgradeLevel, "%s is already at +%d.", item, MaxUpgradeLevel)
	}
	price := 0
	if g, ok := m.catalog.Gear(item); ok {
		price = g.Price
	}
	cost := price * upgradeCostPercent[clampLevel(enh.UpgradeLevel)] / 100
	if cost < minUpgradeCost {
		cost = minUpgradeCost
	}
	return cost, nil
}

// Upgrade raises the slot's upgrade level by one.
func (m *Manager) Upgrade(h *hero.State, slot string) (Receipt, error) {
	cost, err := m.UpgradeCost(h, slot)
	if err != nil {
		return Receipt{}, err
	}
	return m.pay(h, slot, cost, func(enh *hero.Enhancement) {
		enh.UpgradeLevel++
	})
}

// Enchant applies enchantment id to slot, replacing any previous one.
func (m *Manager) Enchant(h *hero.State, slot, id string) (Receipt, error) {
	enh, item, err := m.slot(h, slot)
	if err != nil {
		return Receipt{}, err
	}
	e, ok := enchantments[id]
	if !ok {
		return Receipt{}, apperr.Newf(apperr.CodeEnchantmentNotFound, "Unknown enchantment %q.", id)
	}
	if e.Slot != slot {
		return Receipt{}, apperr.Newf(apperr.CodeEnchantmentWrongSlot, "%s can only be applied to %s.", e.Name, e.Slot)
	}
	if enh.Enchantment == id {
		return Receipt{}, apperr.Newf(apperr.CodeEnchantmentDuplicated, "%s is already enchanted with %s.", item, e.Name)
	}
	return m.pay(h, slot, e.Cost, func(enh *hero.Enhancement) {
		enh.Enchantment = id
	})
}

// SocketGem adds gem id to slot. There is no socket limit.
func (m *Manager) SocketGem(h *hero.State, slot, id string) (Receipt, error) {
	if _, _, err := m.slot(h, slot); err != nil {
		return Receipt{}, err
	}
	g, ok := gems[id]
	if !ok {
		return Receipt{}, apperr.Newf(apperr.CodeGemNotFound, "Unknown gem %q.", id)
	}
	if !g.Boosts(slot) {
		return Receipt{}, apperr.Newf(apperr.CodeInvalidSlot, "A %s does nothing for %s.", g.Name, slot)
	}
	return m.pay(h, slot, g.Cost, func(enh *hero.Enhancement) {
		enh.Gems = append(enh.Gems, id)
	})
}

func (m *Manager) pay(h *hero.State, slot string, cost int, apply func(*hero.Enhancement)) (Receipt, error) {
	before := m.SlotStat(h, slot)
	if err := h.SpendGold(cost); err != nil {
		return Receipt{}, err
	}
	apply(h.Enhancement(slot))
	m.Refresh(h)
	r := Receipt{
		Slot:   slot,
		Item:   h.Equipped(slot),
		Cost:   cost,
		Before: before,
		After:  m.SlotStat(h, slot),
	}
	m.logger.Info("equipment enhanced",
		zap.String("hero", h.Name),
		zap.String("slot", r.Slot),
		zap.String("item", r.Item),
		zap.Int("cost", r.Cost),
		zap.Int("before", r.Before),
		zap.Int("after", r.After))
	return r, nil
}

func (m *Manager) slot(h *hero.State, slot string) (*hero.Enhancement, string, error) {
	enh := h.Enhancement(slot)
	if enh == nil {
		return nil, "", apperr.Newf(apperr.CodeInvalidSlot, "Unknown equipment slot %q.", slot)
	}
	item := h.Equipped(slot)
	if item == "" {
		return nil, "", apperr.Newf(apperr.CodeNoItemEquipped, "No %s equipped.", slot)
	}
	return enh, item, nil
}

// DisplayName renders the equipped item with its modifiers, e.g.
// "Iron Sword +2 (Fire) [1 gem]". An empty slot renders as "None".
func (m *Manager) DisplayName(h *hero.State, slot string) string {
	enh := h.Enhancement(slot)
	item := h.Equipped(slot)
	if enh == nil || item == "" {
		return "None"
	}
	return FormatName(item, *enh)
}

func FormatName(item string, enh hero.Enhancement) string {
	var b strings.Builder
	b.WriteString(item)
	if lvl := clampLevel(enh.UpgradeLevel); lvl > 0 {
		fmt.Fprintf(&b, " +%d", lvl)
	}
	if e, ok := enchantments[enh.Enchantment]; ok {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	switch n := len(enh.Gems); {
	case n == 1:
		b.WriteString(" [1 gem]")
	case n > 1:
		fmt.Fprintf(&b, " [%d gems]", n)
	}
	return b.String()
}

// Special returns the inert special-effect tag of the slot's enchantment.
func (m *Manager) Special(h *hero.State, slot string) string {
	enh := h.Enhancement(slot)
	if enh == nil {
		return ""
	}
	return enchantments[enh.Enchantment].Special
}
