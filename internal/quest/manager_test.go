package quest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const testMonsters = `
monsters:
  - {name: Slime, biome: grassland, level: 1, xp: 10, hp: 20, attack: 3}
  - {name: Wild Boar, biome: grassland, level: 2, xp: 18, hp: 35, attack: 6}
  - {name: Grey Wolf, biome: grassland, level: 3, xp: 26, hp: 42, attack: 8}
  - {name: Goblin Scout, biome: grassland, level: 4, xp: 34, hp: 50, attack: 9}
  - {name: Troll, biome: grassland, level: 9, xp: 90, hp: 150, attack: 18}
  - {name: Sand Scorpion, biome: desert, level: 4, xp: 36, hp: 48, attack: 10}
  - {name: Sand Golem, biome: desert, level: 8, xp: 80, hp: 110, attack: 16}
  - {name: Lich, biome: dungeon, level: 12, xp: 160, hp: 180, attack: 25}
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadFS(fstest.MapFS{
		catalog.MonstersFile: {Data: []byte(testMonsters)},
	}, zap.NewNop())
	require.NoError(t, err)
	return cat
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m := NewManager(testCatalog(t), zap.NewNop(), opts...)
	m.newID = sequentialIDs()
	return m
}

func heroAt(level int, biome string) *hero.State {
	h := hero.New("Aria", hero.ClassWarrior)
	h.Level = level
	h.Biome = biome
	return h
}

func TestGenerateOnlyFromFilteredSet(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newTestManager(t, WithIntn(rng.Intn))
	h := heroAt(3, "grassland")
	h.Quests = []hero.Quest{{ID: "old", Type: hero.QuestKillMonster, Target: "Grey Wolf"}}

	allowed := map[string]bool{"Slime": true, "Wild Boar": true, "Goblin Scout": true}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		g, err := m.GenerateKillMonsterQuest(h)
		require.NoError(t, err)
		assert.Equal(t, ScopeBiome, g.Scope)
		assert.True(t, allowed[g.Quest.Target], "unexpected target %q", g.Quest.Target)
		seen[g.Quest.Target] = true
	}
	assert.Len(t, seen, len(allowed), "selection should reach every candidate")
}

func TestGenerateQuestFields(t *testing.T) {
	m := newTestManager(t, WithIntn(func(int) int { return 0 }))
	h := heroAt(1, "grassland")

	g, err := m.GenerateKillMonsterQuest(h)
	require.NoError(t, err)
	assert.Equal(t, hero.Quest{
		ID:          "q-1",
		Type:        hero.QuestKillMonster,
		Target:      "Slime",
		Biome:       "grassland",
		RewardXP:    10,
		Description: "Defeat the Slime in the grassland.",
	}, g.Quest)
	assert.Empty(t, g.Notice(h.Biome))
	assert.Empty(t, h.Quests, "generation does not touch the log")
}

func TestGenerateFallsBackToBiomeAnyLevel(t *testing.T) {
	m := newTestManager(t, WithIntn(func(int) int { return 0 }))
	h := heroAt(12, "grassland")

	g, err := m.GenerateKillMonsterQuest(h)
	require.NoError(t, err)
	assert.Equal(t, ScopeBiomeAnyLevel, g.Scope)
	assert.Equal(t, "grassland", g.Quest.Biome)
	assert.Equal(t, "No quests available in grassland for your level.", g.Notice(h.Biome))
}

func TestGenerateFallsBackToOtherBiome(t *testing.T) {
	m := newTestManager(t, WithIntn(func(int) int { return 0 }))
	h := heroAt(8, "desert")
	h.Quests = []hero.Quest{
		{ID: "a", Type: hero.QuestKillMonster, Target: "Sand Scorpion"},
		{ID: "b", Type: hero.QuestKillMonster, Target: "Sand Golem"},
	}

	g, err := m.GenerateKillMonsterQuest(h)
	require.NoError(t, err)
	assert.Equal(t, ScopeAnyBiome, g.Scope)
	assert.Equal(t, "Troll", g.Quest.Target)
	assert.Contains(t, g.Notice(h.Biome), "No quests available in desert")
}

func TestGenerateNoQuestsAvailable(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(12, "dungeon")
	h.Quests = []hero.Quest{{ID: "a", Type: hero.QuestKillMonster, Target: "Lich"}}

	_, err := m.GenerateKillMonsterQuest(h)
	assert.True(t, errors.Is(err, ErrNoQuestsAvailable))
	assert.Equal(t, apperr.CodeNoQuestsAvailable, apperr.CodeOf(err))
}

func TestGenerateIgnoresCompletedTargets(t *testing.T) {
	m := newTestManager(t, WithIntn(func(int) int { return 0 }))
	h := heroAt(12, "dungeon")
	h.Quests = []hero.Quest{{ID: "a", Type: hero.QuestKillMonster, Target: "Lich", Completed: true}}

	g, err := m.GenerateKillMonsterQuest(h)
	require.NoError(t, err)
	assert.Equal(t, "Lich", g.Quest.Target)
}

func TestAccept(t *testing.T) {
	m := newTestManager(t, WithMaxActive(2))
	h := heroAt(3, "grassland")

	require.NoError(t, m.Accept(h, hero.Quest{Type: hero.QuestKillMonster, Target: "Slime"}))
	assert.Equal(t, "q-1", h.Quests[0].ID)

	err := m.Accept(h, hero.Quest{ID: "x", Type: hero.QuestKillMonster, Target: "Slime"})
	assert.Equal(t, apperr.CodeQuestDuplicate, apperr.CodeOf(err))

	require.NoError(t, m.Accept(h, hero.Quest{ID: "y", Type: hero.QuestKillMonster, Target: "Wild Boar"}))
	err = m.Accept(h, hero.Quest{ID: "z", Type: hero.QuestKillMonster, Target: "Grey Wolf"})
	assert.Equal(t, apperr.CodeQuestLogFull, apperr.CodeOf(err))
	assert.Len(t, h.Quests, 2)
}

func TestComplete(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(1, "grassland")
	h.Quests = []hero.Quest{
		{ID: "a", Type: hero.QuestKillMonster, Target: "Slime", RewardXP: 10, Completed: true},
		{ID: "b", Type: hero.QuestKillMonster, Target: "Slime", RewardXP: 10},
		{ID: "c", Type: hero.QuestKillMonster, Target: "Wild Boar", RewardXP: 18},
	}

	_, ok := m.Complete(h, hero.QuestKillMonster, "Goblin Scout")
	assert.False(t, ok)
	assert.Equal(t, 0, h.XP)

	c, ok := m.Complete(h, hero.QuestKillMonster, "Slime")
	require.True(t, ok)
	assert.Equal(t, "b", c.Quest.ID)
	assert.True(t, h.Quests[1].Completed)
	assert.Equal(t, 10, h.XP)

	_, ok = m.Complete(h, hero.QuestKillMonster, "Slime")
	assert.False(t, ok, "completed quests are skipped")
	assert.Equal(t, 10, h.XP)

	_, ok = m.Complete(h, "escort", "Wild Boar")
	assert.False(t, ok)
}

func TestCompleteCanLevelUp(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(1, "grassland")
	h.Quests = []hero.Quest{{ID: "a", Type: hero.QuestKillMonster, Target: "Troll", RewardXP: 200}}

	c, ok := m.Complete(h, hero.QuestKillMonster, "Troll")
	require.True(t, ok)
	assert.Equal(t, 1, c.LevelsGained)
	assert.Equal(t, 2, h.Level)
}

func TestDropRemovesExactlyOne(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(3, "grassland")
	h.Quests = []hero.Quest{
		{ID: "done", Type: hero.QuestKillMonster, Target: "Slime", Completed: true},
		{ID: "first", Type: hero.QuestKillMonster, Target: "Wild Boar"},
		{ID: "twin", Type: hero.QuestKillMonster, Target: "Wild Boar"},
		{ID: "last", Type: hero.QuestKillMonster, Target: "Grey Wolf"},
	}

	dropped, err := m.Drop(h, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", dropped.ID)

	active := m.Active(h)
	require.Len(t, active, 2)
	assert.Equal(t, "twin", active[0].ID)
	assert.Equal(t, "last", active[1].ID)
	assert.Len(t, m.Completed(h), 1)
}

func TestDropQuestsSavedWithoutIDs(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(3, "grassland")
	saved := `[
		{"quest_type": "kill_monster", "target": "Slime", "completed": true},
		{"quest_type": "kill_monster", "target": "Wild Boar"}
	]`
	require.NoError(t, json.Unmarshal([]byte(saved), &h.Quests))
	hero.EnsureDefaults(h)

	dropped, err := m.Drop(h, 0)
	require.NoError(t, err)
	assert.Equal(t, "Wild Boar", dropped.Target)
	assert.Empty(t, m.Active(h))
	require.Len(t, m.Completed(h), 1)
	assert.Equal(t, "Slime", m.Completed(h)[0].Target)
}

func TestDropWithDuplicateIDs(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(3, "grassland")
	h.Quests = []hero.Quest{
		{Type: hero.QuestKillMonster, Target: "Slime", Completed: true},
		{Type: hero.QuestKillMonster, Target: "Wild Boar"},
	}

	_, err := m.Drop(h, 0)
	require.NoError(t, err)
	assert.Empty(t, m.Active(h))
	assert.Len(t, m.Completed(h), 1)
}

func TestDropOutOfRange(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(3, "grassland")
	h.Quests = []hero.Quest{{ID: "done", Type: hero.QuestKillMonster, Target: "Slime", Completed: true}}

	for _, idx := range []int{-1, 0, 3} {
		_, err := m.Drop(h, idx)
		assert.Equal(t, apperr.CodeQuestNotFound, apperr.CodeOf(err), "index %d", idx)
	}
	assert.Len(t, h.Quests, 1)
}

func TestClearCompleted(t *testing.T) {
	m := newTestManager(t)
	h := heroAt(3, "grassland")
	h.Quests = []hero.Quest{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c", Completed: true},
	}

	assert.Equal(t, 2, m.ClearCompleted(h))
	require.Len(t, h.Quests, 1)
	assert.Equal(t, "b", h.Quests[0].ID)
}
