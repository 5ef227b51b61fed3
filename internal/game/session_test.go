package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/combat"
	"github.com/sho0303/monster-game-sub001/internal/config"
	"github.com/sho0303/monster-game-sub001/internal/hero"
	"github.com/sho0303/monster-game-sub001/internal/storage"
)

type brokenStore struct{}

func (brokenStore) Load(context.Context, string) (*hero.State, bool, error) { return nil, false, nil }
func (brokenStore) Save(context.Context, *hero.State) error { return errors.New("disk full") }
func (brokenStore) Close() error { return nil }

func firstIntn(int) int { return 0 }

func newTestSession(t *testing.T, store storage.Store) *Session {
	t.Helper()
	cat, err := catalog.Default(zap.NewNop())
	require.NoError(t, err)
	if store == nil {
		store = storage.NewFileStore(t.TempDir())
	}
	return New(cat, store, hero.New("Aria", hero.ClassWarrior), zap.NewNop(), WithIntn(firstIntn))
}

func TestNewRefreshesStats(t *testing.T) {
	s := newTestSession(t, nil)
	h := s.Hero()
	assert.Equal(t, h.BaseAttack+3, h.Attack, "Rusty Sword")
	assert.Equal(t, h.BaseDefense+2, h.Defense, "Cloth Tunic")
}

func TestLoadHero(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())
	cfg := config.Config{HeroName: "Aria", HeroClass: "mage"}

	h, found, err := LoadHero(ctx, store, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, hero.ClassMage, h.Class)

	h.Gold = 777
	require.NoError(t, store.Save(ctx, h))

	again, found, err := LoadHero(ctx, store, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 777, again.Gold)
}

func TestTravel(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)

	notice, err := s.Travel(ctx, "Desert")
	require.NoError(t, err)
	assert.Equal(t, "You travel to the desert.", notice)
	assert.Equal(t, "desert", s.Hero().Biome)

	notice, err = s.Travel(ctx, "desert")
	require.NoError(t, err)
	assert.Contains(t, notice, "already")

	_, err = s.Travel(ctx, "moon")
	assert.Equal(t, apperr.CodeBiomeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "desert", s.Hero().Biome)
}

func TestActionsPersist(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())
	s := newTestSession(t, store)

	_, _, err := s.PostQuest()
	require.NoError(t, err)
	notice, err := s.AcceptQuest(ctx)
	require.NoError(t, err)
	assert.Contains(t, notice, "Quest accepted: Defeat the Field Rat in the grassland.")
	assert.Nil(t, s.PendingQuest())

	saved, found, err := store.Load(ctx, "Aria")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, saved.Quests, 1)
	assert.Equal(t, "Field Rat", saved.Quests[0].Target)

	_, err = s.AcceptQuest(ctx)
	assert.Equal(t, apperr.CodeQuestNotFound, apperr.CodeOf(err))
}

func TestHuntCompletesQuest(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)

	_, _, err := s.PostQuest()
	require.NoError(t, err)
	_, err = s.AcceptQuest(ctx)
	require.NoError(t, err)

	res, notice, err := s.Hunt(ctx)
	require.NoError(t, err)
	assert.Equal(t, combat.OutcomeVictory, res.Outcome)
	assert.Equal(t, "Field Rat", res.Monster)
	assert.Contains(t, notice, "You defeated the Field Rat! +8 XP, +3 gold.")
	assert.Contains(t, notice, "Quest complete")
	assert.Len(t, s.Quests.Completed(s.Hero()), 1)
}

func TestRest(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)

	_, err := s.Rest(ctx)
	assert.Equal(t, apperr.CodeAlreadyFullHP, apperr.CodeOf(err))

	s.Hero().HP = 1
	notice, err := s.Rest(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Hero().MaxHP, s.Hero().HP)
	assert.Equal(t, hero.StartingGold-RestCost, s.Hero().Gold)
	assert.Contains(t, notice, "10 gold")
}

func TestGoldFormatting(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	s.Hero().Level = 13
	s.Hero().Gold = 5000

	notice, err := s.Buy(ctx, "Runed Greatsword")
	require.NoError(t, err)
	assert.Equal(t, "Bought and equipped Runed Greatsword for 1,100 gold.", notice)
	assert.Equal(t, "12,345 gold", s.Gold(12345))
}

func TestFailedSaveIsFlagged(t *testing.T) {
	s := newTestSession(t, brokenStore{})

	notice, err := s.Travel(context.Background(), "ocean")
	require.NoError(t, err)
	assert.Equal(t, "You travel to the ocean. (not saved)", notice)
	assert.Equal(t, "ocean", s.Hero().Biome)
}

func TestForgeNotices(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	s.Hero().Gold = 1000

	notice, err := s.Upgrade(ctx, catalog.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, "Upgraded Rusty Sword +1 for 10 gold: 3 -> 3.", notice)

	notice, err = s.Enchant(ctx, catalog.SlotWeapon, "fire")
	require.NoError(t, err)
	assert.Equal(t, "Enchanted Rusty Sword +1 (Fire) for 80 gold: 3 -> 6.", notice)

	_, err = s.SocketGem(ctx, catalog.SlotWeapon, "sapphire")
	assert.Equal(t, apperr.CodeInvalidSlot, apperr.CodeOf(err))
}

func TestCraftAndSellMaterial(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil)
	s.Hero().AddMaterial("slime_gel", 5)

	notice, err := s.Craft(ctx, "minor_potion", 2)
	require.NoError(t, err)
	assert.Equal(t, "Crafted 2 x Minor Potion.", notice)

	notice, err = s.SellMaterial(ctx, "slime_gel", 1)
	require.NoError(t, err)
	assert.Equal(t, "Sold 1 Slime Gel for 2 gold.", notice)
}
