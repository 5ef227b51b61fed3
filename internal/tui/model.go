// Package tui is the bubbletea front end over a game session.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/combat"
	"github.com/sho0303/monster-game-sub001/internal/crafting"
	"github.com/sho0303/monster-game-sub001/internal/equipment"
	"github.com/sho0303/monster-game-sub001/internal/game"
)

type Screen int

const (
	ScreenTown Screen = iota
	ScreenQuests
	ScreenShop
	ScreenForge
	ScreenCrafting
	ScreenTravel
	ScreenBattle
)

const defaultBattlePace = 700 * time.Millisecond

type Model struct {
	Session *game.Session
	Screen  Screen
	Cursor  int
	Slot    string
	Qty     int

	Notice   string
	IsError  bool
	noticeID int
	noticeIn time.Duration

	Fighting   bool
	Spinner    spinner.Model
	LastBattle *combat.Result
	pace       time.Duration

	Quitting bool
	ctx      context.Context
}

type noticeExpiredMsg struct{ id int }

type huntReadyMsg struct{}

type Option func(*Model)

// WithBattlePace sets how long the spinner runs before a fight resolves.
func WithBattlePace(d time.Duration) Option {
	return func(m *Model) { m.pace = d }
}

func NewModel(ctx context.Context, s *game.Session, noticeTTL time.Duration, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if noticeTTL <= 0 {
		noticeTTL = 3 * time.Second
	}
	m := Model{
		Session:  s,
		Screen:   ScreenTown,
		Slot:     catalog.SlotWeapon,
		Qty:      1,
		Spinner:  sp,
		pace:     defaultBattlePace,
		noticeIn: noticeTTL,
		ctx:      ctx,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.Notice = ""
			m.IsError = false
		}
		return m, nil
	case huntReadyMsg:
		m.Fighting = false
		res, notice, err := m.Session.Hunt(m.ctx)
		if err != nil {
			return m.fail(err)
		}
		m.LastBattle = &res
		return m.say(notice)
	case spinner.TickMsg:
		if m.Fighting {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Fighting {
		return m, nil
	}
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < m.rowCount()-1 {
			m.Cursor++
		}
		return m, nil
	case "esc":
		if m.Screen != ScreenTown {
			m.Screen = ScreenTown
			m.Cursor = 0
			m.Session.DeclineQuest()
		}
		return m, nil
	}

	switch m.Screen {
	case ScreenTown:
		return m.townKey(key)
	case ScreenQuests:
		return m.questKey(key)
	case ScreenShop:
		return m.shopKey(key)
	case ScreenForge:
		return m.forgeKey(key)
	case ScreenCrafting:
		return m.craftKey(key)
	case ScreenTravel:
		return m.travelKey(key)
	case ScreenBattle:
		return m.battleKey(key)
	}
	return m, nil
}

func (m Model) goTo(s Screen) (tea.Model, tea.Cmd) {
	m.Screen = s
	m.Cursor = 0
	return m, nil
}

func (m Model) townKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m.goTo(ScreenQuests)
	case "s":
		return m.goTo(ScreenShop)
	case "f":
		return m.goTo(ScreenForge)
	case "c":
		return m.goTo(ScreenCrafting)
	case "t":
		return m.goTo(ScreenTravel)
	case "h":
		m.Screen = ScreenBattle
		return m.startHunt()
	case "r":
		return m.result(m.Session.Rest(m.ctx))
	case "p":
		return m.result(m.Session.UsePotion(m.ctx, m.bestPotion()))
	case "x":
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) questKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n":
		_, notice, err := m.Session.PostQuest()
		if err != nil {
			return m.fail(err)
		}
		return m.say(notice)
	case "a", "enter":
		if m.Session.PendingQuest() == nil {
			return m, nil
		}
		return m.result(m.Session.AcceptQuest(m.ctx))
	case "d":
		model, cmd := m.result(m.Session.DropQuest(m.ctx, m.Cursor))
		mm := model.(Model)
		mm.clampCursor()
		return mm, cmd
	case "c":
		return m.result(m.Session.ClearCompletedQuests(m.ctx))
	}
	return m, nil
}

func (m Model) shopKey(key string) (tea.Model, tea.Cmd) {
	offers := m.Session.Shop.Listing(m.Session.Hero())
	if m.Cursor >= len(offers) {
		return m, nil
	}
	o := offers[m.Cursor]
	switch key {
	case "enter", "b":
		return m.result(m.Session.Buy(m.ctx, o.Name))
	case "s":
		return m.result(m.Session.Sell(m.ctx, o.Name))
	case "e":
		return m.result(m.Session.Equip(m.ctx, o.Name))
	}
	return m, nil
}

// forgeRow is one purchasable line on the forge screen.
type forgeRow struct {
	label string
	cost  int
	apply func(m Model) (string, error)
}

func (m Model) forgeRows() []forgeRow {
	slot := m.Slot
	rows := []forgeRow{{
		label: "Upgrade",
		apply: func(m Model) (string, error) { return m.Session.Upgrade(m.ctx, slot) },
	}}
	if cost, err := m.Session.Equipment.UpgradeCost(m.Session.Hero(), slot); err == nil {
		rows[0].cost = cost
	}
	for _, e := range equipment.Enchantments(slot) {
		id := e.ID
		rows = append(rows, forgeRow{
			label: "Enchant: " + e.Name,
			cost:  e.Cost,
			apply: func(m Model) (string, error) { return m.Session.Enchant(m.ctx, slot, id) },
		})
	}
	for _, g := range equipment.Gems() {
		if !g.Boosts(slot) {
			continue
		}
		id := g.ID
		rows = append(rows, forgeRow{
			label: "Socket: " + g.Name,
			cost:  g.Cost,
			apply: func(m Model) (string, error) { return m.Session.SocketGem(m.ctx, slot, id) },
		})
	}
	return rows
}

func (m Model) forgeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab":
		if m.Slot == catalog.SlotWeapon {
			m.Slot = catalog.SlotArmor
		} else {
			m.Slot = catalog.SlotWeapon
		}
		m.Cursor = 0
		return m, nil
	case "enter":
		rows := m.forgeRows()
		if m.Cursor < len(rows) {
			return m.result(rows[m.Cursor].apply(m))
		}
	}
	return m, nil
}

func (m Model) recipes() []crafting.Availability {
	return m.Session.Crafter.Recipes(m.Session.Hero())
}

func (m Model) craftKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "+", "=":
		if m.Qty < crafting.MaxQty {
			m.Qty++
		}
		return m, nil
	case "-":
		if m.Qty > 1 {
			m.Qty--
		}
		return m, nil
	case "enter":
		recipes := m.recipes()
		if m.Cursor < len(recipes) {
			return m.result(m.Session.Craft(m.ctx, recipes[m.Cursor].Recipe.ID, m.Qty))
		}
	}
	return m, nil
}

func (m Model) travelKey(key string) (tea.Model, tea.Cmd) {
	if key != "enter" {
		return m, nil
	}
	biomes := m.Session.Catalog().Biomes()
	if m.Cursor >= len(biomes) {
		return m, nil
	}
	model, cmd := m.result(m.Session.Travel(m.ctx, biomes[m.Cursor]))
	mm := model.(Model)
	if !mm.IsError {
		mm.Screen = ScreenTown
		mm.Cursor = 0
	}
	return mm, cmd
}

func (m Model) battleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "h", "enter":
		return m.startHunt()
	case "p":
		return m.result(m.Session.UsePotion(m.ctx, m.bestPotion()))
	}
	return m, nil
}

func (m Model) startHunt() (tea.Model, tea.Cmd) {
	m.Fighting = true
	m.LastBattle = nil
	pace := m.pace
	return m, tea.Batch(m.Spinner.Tick, tea.Tick(pace, func(time.Time) tea.Msg { return huntReadyMsg{} }))
}

// bestPotion picks the weakest potion that still fills the missing hp, or the
// strongest one carried.
func (m Model) bestPotion() string {
	h := m.Session.Hero()
	missing := h.MaxHP - h.HP
	best, strongest := "", ""
	bestHeal, strongestHeal := 0, 0
	for _, p := range m.Session.Catalog().Potions() {
		if h.Potions[p.Name] <= 0 {
			continue
		}
		if p.Heal > strongestHeal {
			strongest, strongestHeal = p.Name, p.Heal
		}
		if p.Heal >= missing && (best == "" || p.Heal < bestHeal) {
			best, bestHeal = p.Name, p.Heal
		}
	}
	if best != "" {
		return best
	}
	if strongest != "" {
		return strongest
	}
	return "Minor Potion"
}

func (m Model) rowCount() int {
	switch m.Screen {
	case ScreenQuests:
		return len(m.Session.Quests.Active(m.Session.Hero()))
	case ScreenShop:
		return len(m.Session.Shop.Listing(m.Session.Hero()))
	case ScreenForge:
		return len(m.forgeRows())
	case ScreenCrafting:
		return len(m.recipes())
	case ScreenTravel:
		return len(m.Session.Catalog().Biomes())
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.rowCount(); m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) result(notice string, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m.fail(err)
	}
	return m.say(notice)
}

func (m Model) say(notice string) (tea.Model, tea.Cmd) {
	m.IsError = false
	return m.show(notice)
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.IsError = true
	return m.show(err.Error())
}

func (m Model) show(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.Notice = text
	id := m.noticeID
	return m, tea.Tick(m.noticeIn, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}
