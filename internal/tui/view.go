package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/combat"
	"github.com/sho0303/monster-game-sub001/internal/game"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

func (m Model) View() string {
	if m.Quitting {
		return "Your progress is saved. Farewell!\n"
	}
	var b strings.Builder
	b.WriteString("-- Monster Game --\n")
	m.writeStatus(&b)
	b.WriteString("\n")

	switch m.Screen {
	case ScreenTown:
		m.viewTown(&b)
	case ScreenQuests:
		m.viewQuests(&b)
	case ScreenShop:
		m.viewShop(&b)
	case ScreenForge:
		m.viewForge(&b)
	case ScreenCrafting:
		m.viewCrafting(&b)
	case ScreenTravel:
		m.viewTravel(&b)
	case ScreenBattle:
		m.viewBattle(&b)
	}

	if m.Notice != "" {
		prefix := ""
		if m.IsError {
			prefix = "! "
		}
		fmt.Fprintf(&b, "\n%s%s\n", prefix, m.Notice)
	}
	return b.String()
}

func (m Model) writeStatus(b *strings.Builder) {
	h := m.Session.Hero()
	fmt.Fprintf(b, "%s the %s  Lv %d  XP %d/%d  HP %d/%d  %s\n",
		h.Name, h.Class, h.Level, h.XP, hero.XPForNextLevel(h.Level), h.HP, h.MaxHP, m.Session.Gold(h.Gold))
	fmt.Fprintf(b, "ATK %d  DEF %d  Biome: %s  Kills: %d\n", h.Attack, h.Defense, h.Biome, h.Kills)
	fmt.Fprintf(b, "Weapon: %s  Armor: %s\n",
		m.Session.Equipment.DisplayName(h, catalog.SlotWeapon),
		m.Session.Equipment.DisplayName(h, catalog.SlotArmor))
}

func cursor(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func (m Model) viewTown(b *strings.Builder) {
	h := m.Session.Hero()
	if len(h.Potions) > 0 {
		b.WriteString("Potions: " + joinCounts(h.Potions, nil) + "\n")
	}
	if len(h.Materials) > 0 {
		b.WriteString("Materials: " + joinCounts(h.Materials, m.Session.Catalog().MaterialName) + "\n")
	}
	b.WriteString("\n[h] Hunt  [q] Quests  [s] Shop  [f] Forge  [c] Crafting  [t] Travel\n")
	fmt.Fprintf(b, "[r] Rest (%s)  [p] Drink potion  [x] Quit\n", m.Session.Gold(game.RestCost))
}

func (m Model) viewQuests(b *strings.Builder) {
	h := m.Session.Hero()
	active := m.Session.Quests.Active(h)
	fmt.Fprintf(b, "Quest log (%d/%d active)\n", len(active), m.Session.Quests.MaxActive())
	if len(active) == 0 {
		b.WriteString("  No active quests.\n")
	}
	for i, q := range active {
		fmt.Fprintf(b, "%s%s (%d XP)\n", cursor(i == m.Cursor), q.Description, q.RewardXP)
	}
	if done := m.Session.Quests.Completed(h); len(done) > 0 {
		fmt.Fprintf(b, "Completed: %d\n", len(done))
	}
	if offer := m.Session.PendingQuest(); offer != nil {
		fmt.Fprintf(b, "\nOn the board: %s (%d XP)  [a] Accept\n", offer.Quest.Description, offer.Quest.RewardXP)
	}
	b.WriteString("\n[n] New quest  [d] Drop selected  [c] Clear completed  [esc] Back\n")
}

func (m Model) viewShop(b *strings.Builder) {
	b.WriteString("Shop\n")
	for i, o := range m.Session.Shop.Listing(m.Session.Hero()) {
		flags := ""
		switch {
		case !o.MeetsClass:
			flags = " (class)"
		case !o.MeetsLevel:
			flags = fmt.Sprintf(" (Lv %d)", o.Level)
		case !o.Affordable:
			flags = " (too expensive)"
		}
		owned := ""
		if o.Owned > 0 {
			owned = fmt.Sprintf(" x%d", o.Owned)
		}
		fmt.Fprintf(b, "%s%-18s %-7s %4d  %s%s%s\n",
			cursor(i == m.Cursor), o.Name, o.Kind, o.Stat, m.Session.Gold(o.Price), owned, flags)
	}
	b.WriteString("\n[enter] Buy  [s] Sell  [e] Equip  [esc] Back\n")
}

func (m Model) viewForge(b *strings.Builder) {
	h := m.Session.Hero()
	fmt.Fprintf(b, "Forge: %s  %s (%d)\n", m.Slot,
		m.Session.Equipment.DisplayName(h, m.Slot), m.Session.Equipment.SlotStat(h, m.Slot))
	if special := m.Session.Equipment.Special(h, m.Slot); special != "" {
		fmt.Fprintf(b, "Special: %s\n", special)
	}
	for i, r := range m.forgeRows() {
		fmt.Fprintf(b, "%s%-22s %s\n", cursor(i == m.Cursor), r.label, m.Session.Gold(r.cost))
	}
	b.WriteString("\n[enter] Buy  [tab] Switch slot  [esc] Back\n")
}

func (m Model) viewCrafting(b *strings.Builder) {
	cat := m.Session.Catalog()
	fmt.Fprintf(b, "Crafting (qty %d)\n", m.Qty)
	for i, a := range m.recipes() {
		inputs := make([]string, 0, len(a.Recipe.Inputs))
		for id, n := range a.Recipe.Inputs {
			inputs = append(inputs, fmt.Sprintf("%d %s", n, cat.MaterialName(id)))
		}
		sort.Strings(inputs)
		state := fmt.Sprintf("can make %d", a.MaxCraft)
		if !a.MeetsLevel {
			state = fmt.Sprintf("Lv %d", a.Recipe.Level)
		}
		fmt.Fprintf(b, "%s%-16s %s [%s]\n", cursor(i == m.Cursor), a.Recipe.Name, strings.Join(inputs, ", "), state)
	}
	b.WriteString("\n[enter] Craft  [+/-] Quantity  [esc] Back\n")
}

func (m Model) viewTravel(b *strings.Builder) {
	b.WriteString("Travel\n")
	for i, biome := range m.Session.Catalog().Biomes() {
		here := ""
		if biome == m.Session.Hero().Biome {
			here = " (here)"
		}
		fmt.Fprintf(b, "%s%s%s\n", cursor(i == m.Cursor), biome, here)
	}
	b.WriteString("\n[enter] Go  [esc] Back\n")
}

func (m Model) viewBattle(b *strings.Builder) {
	if m.Fighting {
		fmt.Fprintf(b, "%s Searching the %s...\n", m.Spinner.View(), m.Session.Hero().Biome)
		return
	}
	if r := m.LastBattle; r != nil {
		fmt.Fprintf(b, "Battle: %s (%s in %d rounds)\n", r.Monster, r.Outcome, r.Rounds)
		for _, blow := range lastBlows(r.Blows, 6) {
			if blow.ByHero {
				fmt.Fprintf(b, "  R%d you hit for %d (foe %d HP)\n", blow.Round, blow.Damage, blow.MonsterHP)
			} else {
				fmt.Fprintf(b, "  R%d foe hits for %d (you %d HP)\n", blow.Round, blow.Damage, blow.HeroHP)
			}
		}
	}
	b.WriteString("\n[h] Hunt again  [p] Drink potion  [esc] Town\n")
}

func lastBlows(blows []combat.Blow, n int) []combat.Blow {
	if len(blows) <= n {
		return blows
	}
	return blows[len(blows)-n:]
}

func joinCounts(counts map[string]int, name func(string) string) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := k
		if name != nil {
			label = name(k)
		}
		parts = append(parts, fmt.Sprintf("%s x%d", label, counts[k]))
	}
	return strings.Join(parts, ", ")
}
