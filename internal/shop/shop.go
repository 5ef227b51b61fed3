// Package shop sells store gear and potions, buys back gear and materials,
// and swaps equipped items.
package shop

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/equipment"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const (
	KindWeapon = catalog.SlotWeapon
	KindArmor  = catalog.SlotArmor
	KindPotion = "potion"
)

// sellBackPercent is the share of the store price paid for used gear.
const sellBackPercent = 50

// Offer is one row of the store listing, annotated for a given hero.
type Offer struct {
	Name       string
	Kind       string
	Stat       int // attack, defense or heal amount
	Price      int
	Level      int
	Classes    []string
	Affordable bool
	MeetsLevel bool
	MeetsClass bool
	Owned      int
}

// Available reports whether the hero can buy the offer right now.
func (o Offer) Available() bool {
	return o.Affordable && o.MeetsLevel && o.MeetsClass
}

type Purchase struct {
	Name     string
	Kind     string
	Price    int
	Equipped bool
}

type Shop struct {
	catalog   *catalog.Catalog
	equipment *equipment.Manager
	logger    *zap.Logger
}

func New(cat *catalog.Catalog, eq *equipment.Manager, logger *zap.Logger) *Shop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shop{catalog: cat, equipment: eq, logger: logger}
}

// Listing returns gear then potions with per-hero flags.
func (s *Shop) Listing(h *hero.State) []Offer {
	gear := s.catalog.GearList()
	potions := s.catalog.Potions()
	out := make([]Offer, 0, len(gear)+len(potions))
	for _, g := range gear {
		out = append(out, Offer{
			Name:       g.Name,
			Kind:       g.Slot,
			Stat:       g.Stat,
			Price:      g.Price,
			Level:      g.Level,
			Classes:    g.Classes,
			Affordable: h.Gold >= g.Price,
			MeetsLevel: h.Level >= g.Level,
			MeetsClass: g.AllowsClass(h.Class),
			Owned:      h.CountItem(g.Name),
		})
	}
	for _, p := range potions {
		out = append(out, Offer{
			Name:       p.Name,
			Kind:       KindPotion,
			Stat:       p.Heal,
			Price:      p.Price,
			Level:      1,
			Affordable: h.Gold >= p.Price,
			MeetsLevel: true,
			MeetsClass: true,
			Owned:      h.Potions[p.Name],
		})
	}
	return out
}

// Buy purchases name. Gear is equipped immediately; potions go to the bag.
func (s *Shop) Buy(h *hero.State, name string) (Purchase, error) {
	if p, ok := s.catalog.Potion(name); ok {
		if err := h.SpendGold(p.Price); err != nil {
			return Purchase{}, err
		}
		h.Potions[p.Name]++
		s.logger.Info("potion bought", zap.String("hero", h.Name), zap.String("item", p.Name), zap.Int("price", p.Price))
		return Purchase{Name: p.Name, Kind: KindPotion, Price: p.Price}, nil
	}

	g, ok := s.catalog.Gear(name)
	if !ok {
		return Purchase{}, apperr.Newf(apperr.CodeItemNotFound, "The shop doesn't sell %s.", name)
	}
	if err := checkRequirements(h, g); err != nil {
		return Purchase{}, err
	}
	if err := h.SpendGold(g.Price); err != nil {
		return Purchase{}, err
	}
	h.AddItem(g.Name)
	// A spare copy of the equipped item goes to the bag; the slot keeps its enhancements.
	equip := h.Equipped(g.Slot) != g.Name
	if equip {
		if err := h.Equip(g.Slot, g.Name); err != nil {
			return Purchase{}, err
		}
		s.equipment.Refresh(h)
	}
	s.logger.Info("gear bought",
		zap.String("hero", h.Name),
		zap.String("item", g.Name),
		zap.String("slot", g.Slot),
		zap.Int("price", g.Price),
		zap.Bool("equipped", equip))
	return Purchase{Name: g.Name, Kind: g.Slot, Price: g.Price, Equipped: equip}, nil
}

// Sell buys back one owned, unequipped copy of name at half price.
func (s *Shop) Sell(h *hero.State, name string) (int, error) {
	g, ok := s.catalog.Gear(name)
	if !ok || !h.Owns(name) {
		return 0, apperr.Newf(apperr.CodeItemNotOwned, "You don't have %s to sell.", name)
	}
	if h.IsEquipped(name) && h.CountItem(name) < 2 {
		return 0, apperr.Newf(apperr.CodeItemEquipped, "Unequip %s before selling it.", name)
	}
	price := g.Price * sellBackPercent / 100
	h.RemoveItem(name)
	h.EarnGold(price)
	s.logger.Info("gear sold", zap.String("hero", h.Name), zap.String("item", name), zap.Int("price", price))
	return price, nil
}

// SellMaterial sells qty units of a crafting material at its listed price.
func (s *Shop) SellMaterial(h *hero.State, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, apperr.New(apperr.CodeInvalidQuantity, "Choose how many to sell.")
	}
	m, ok := s.catalog.Material(id)
	if !ok {
		return 0, apperr.Newf(apperr.CodeItemNotFound, "Nobody buys %s.", id)
	}
	if h.Materials[id] < qty {
		return 0, apperr.Newf(apperr.CodeInsufficientMaterials, "You only have %d %s.", h.Materials[id], m.Name)
	}
	h.TakeMaterials(map[string]int{id: 1}, qty)
	total := m.Price * qty
	h.EarnGold(total)
	return total, nil
}

// Equip swaps an owned item into its slot. The new item starts unenhanced.
func (s *Shop) Equip(h *hero.State, name string) error {
	g, ok := s.catalog.Gear(name)
	if !ok {
		return apperr.Newf(apperr.CodeItemNotFound, "%s is not equipment.", name)
	}
	if !h.Owns(name) {
		return apperr.Newf(apperr.CodeItemNotOwned, "You don't own %s.", name)
	}
	if h.Equipped(g.Slot) == name {
		return nil
	}
	if err := checkRequirements(h, g); err != nil {
		return err
	}
	if err := h.Equip(g.Slot, g.Name); err != nil {
		return err
	}
	s.equipment.Refresh(h)
	return nil
}

// UsePotion drinks one potion and returns the hp restored.
func (s *Shop) UsePotion(h *hero.State, name string) (int, error) {
	if h.Potions[name] <= 0 {
		return 0, apperr.Newf(apperr.CodeNoPotion, "You have no %s.", name)
	}
	if h.HP >= h.MaxHP {
		return 0, apperr.New(apperr.CodeAlreadyFullHP, "You are already at full health.")
	}
	heal := 0
	if p, ok := s.catalog.Potion(name); ok {
		heal = p.Heal
	}
	h.Potions[name]--
	if h.Potions[name] == 0 {
		delete(h.Potions, name)
	}
	return h.Heal(heal), nil
}

func checkRequirements(h *hero.State, g catalog.Gear) error {
	if h.Level < g.Level {
		return apperr.WithMetadata(apperr.CodeLevelTooLow,
			"You need to be level "+strconv.Itoa(g.Level)+" to use "+g.Name+".",
			map[string]string{"item": g.Name, "level": strconv.Itoa(g.Level)})
	}
	if !g.AllowsClass(h.Class) {
		return apperr.WithMetadata(apperr.CodeClassMismatch,
			"Your class can't use "+g.Name+".",
			map[string]string{"item": g.Name, "class": h.Class})
	}
	return nil
}
