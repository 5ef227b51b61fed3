package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/game"
	"github.com/sho0303/monster-game-sub001/internal/hero"
	"github.com/sho0303/monster-game-sub001/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cat, err := catalog.Default(zap.NewNop())
	require.NoError(t, err)
	s := game.New(cat, storage.NewFileStore(t.TempDir()), hero.New("Aria", hero.ClassWarrior), zap.NewNop(),
		game.WithIntn(func(int) int { return 0 }))
	return NewModel(context.Background(), s, time.Second, WithBattlePace(time.Millisecond))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t)

	for key, screen := range map[string]Screen{
		"q": ScreenQuests,
		"s": ScreenShop,
		"f": ScreenForge,
		"c": ScreenCrafting,
		"t": ScreenTravel,
	} {
		next, _ := press(t, m, runes(key))
		assert.Equal(t, screen, next.Screen, key)
		back, _ := press(t, next, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, ScreenTown, back.Screen, key)
	}
}

func TestShopBuyShowsNotice(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("s"))
	m.Cursor = len(m.Session.Catalog().GearList()) // first potion

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "a notice schedules its expiry")
	assert.Equal(t, "Bought Minor Potion for 15 gold.", m.Notice)
	assert.False(t, m.IsError)
	assert.Equal(t, 85, m.Session.Hero().Gold)
	assert.Equal(t, 3, m.Session.Hero().Potions["Minor Potion"])
}

func TestErrorNotice(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("r"))
	assert.True(t, m.IsError)
	assert.Equal(t, "You are already at full health.", m.Notice)
	assert.Contains(t, m.View(), "! You are already at full health.")
}

func TestNoticeExpiry(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("r"))
	first := m.noticeID
	m, _ = press(t, m, runes("r"))
	require.NotEmpty(t, m.Notice)

	next, _ := m.Update(noticeExpiredMsg{id: first})
	m = next.(Model)
	assert.NotEmpty(t, m.Notice, "stale expiry keeps the newer notice")

	next, _ = m.Update(noticeExpiredMsg{id: m.noticeID})
	m = next.(Model)
	assert.Empty(t, m.Notice)
	assert.False(t, m.IsError)
}

func TestHuntFlow(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, runes("h"))
	require.NotNil(t, cmd)
	assert.Equal(t, ScreenBattle, m.Screen)
	assert.True(t, m.Fighting)
	assert.Contains(t, m.View(), "Searching the grassland")

	m, _ = press(t, m, runes("s"))
	assert.Equal(t, ScreenBattle, m.Screen, "keys are ignored mid-fight")

	next, _ := m.Update(huntReadyMsg{})
	m = next.(Model)
	assert.False(t, m.Fighting)
	require.NotNil(t, m.LastBattle)
	assert.Equal(t, "Field Rat", m.LastBattle.Monster)
	assert.Contains(t, m.Notice, "You defeated the Field Rat!")
	assert.Contains(t, m.View(), "Battle: Field Rat (victory in 2 rounds)")
	assert.Equal(t, 1, m.Session.Hero().Kills)
}

func TestTravelScreen(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("t"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ScreenTown, m.Screen)
	assert.Equal(t, m.Session.Catalog().Biomes()[1], m.Session.Hero().Biome)
}

func TestQuestScreen(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("q"), runes("n"))
	require.NotNil(t, m.Session.PendingQuest())
	assert.Contains(t, m.View(), "On the board: Defeat the Field Rat in the grassland.")

	m, _ = press(t, m, runes("a"))
	assert.Len(t, m.Session.Quests.Active(m.Session.Hero()), 1)

	m, _ = press(t, m, runes("d"))
	assert.Empty(t, m.Session.Quests.Active(m.Session.Hero()))
	assert.Equal(t, 0, m.Cursor)
}

func TestForgeAndCrafting(t *testing.T) {
	m := newTestModel(t)
	m.Session.Hero().Gold = 1000
	m.Session.Hero().AddMaterial("slime_gel", 4)

	m, _ = press(t, m, runes("f"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.Session.Hero().Equipment.Weapon.UpgradeLevel)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, catalog.SlotArmor, m.Slot)
	assert.Contains(t, m.View(), "Forge: armor  Cloth Tunic")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("c"), runes("+"))
	assert.Equal(t, 2, m.Qty)
	for i, a := range m.recipes() {
		if a.Recipe.ID == "minor_potion" {
			m.Cursor = i
		}
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Crafted 2 x Minor Potion.", m.Notice)
}

func TestGoldIsGrouped(t *testing.T) {
	m := newTestModel(t)
	m.Session.Hero().Gold = 12345
	assert.Contains(t, m.View(), "12,345 gold")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting)
	assert.Contains(t, m.View(), "Farewell")
}
