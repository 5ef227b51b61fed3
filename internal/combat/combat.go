// Package combat resolves a hero's fight against a catalog monster and pays
// out experience, gold, loot and quest credit.
package combat

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/hero"
	"github.com/sho0303/monster-game-sub001/internal/quest"
)

const (
	MaxRounds = 50

	heroRollRange    = 4 // extra hero damage is 0..3
	monsterRollRange = 3 // extra monster damage is 0..2

	deathGoldPercent = 10
	fullRollBPS      = 10_000
)

// Outcome is how a fight ended.
type Outcome int

const (
	OutcomeVictory Outcome = iota
	OutcomeDefeat
	OutcomeStalemate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	}
	return "stalemate"
}

// Blow is one attack inside a round.
type Blow struct {
	Round     int
	ByHero    bool
	Damage    int
	HeroHP    int
	MonsterHP int
}

type Loot struct {
	Material string
	Name     string
	Qty      int
}

type Result struct {
	Monster      string
	Outcome      Outcome
	Rounds       int
	Blows        []Blow
	XP           int
	Gold         int
	LevelsGained int
	Loot         []Loot
	Quest        *quest.Completion
	GoldLost     int
}

type Fighter struct {
	catalog *catalog.Catalog
	quests  *quest.Manager
	logger  *zap.Logger
	intn    func(int) int
}

type Option func(*Fighter)

// WithIntn replaces the random source for damage rolls, loot and encounters.
func WithIntn(intn func(int) int) Option {
	return func(f *Fighter) { f.intn = intn }
}

func New(cat *catalog.Catalog, quests *quest.Manager, logger *zap.Logger, opts ...Option) *Fighter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fighter{catalog: cat, quests: quests, logger: logger, intn: rand.Intn}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Encounter picks a monster in the hero's biome near their level, falling
// back to anything in the biome.
func (f *Fighter) Encounter(h *hero.State) (catalog.Monster, error) {
	var near, here []catalog.Monster
	for _, m := range f.catalog.Monsters() {
		if m.Biome != h.Biome {
			continue
		}
		here = append(here, m)
		if m.Level >= h.Level-quest.LevelsBelow && m.Level <= h.Level+quest.LevelsAbove {
			near = append(near, m)
		}
	}
	pool := near
	if len(pool) == 0 {
		pool = here
	}
	if len(pool) == 0 {
		return catalog.Monster{}, apperr.Newf(apperr.CodeNoMonstersAvailable, "Nothing stirs in the %s.", h.Biome)
	}
	return pool[f.intn(len(pool))], nil
}

// Fight runs alternating rounds, hero first, until one side falls or
// MaxRounds pass.
func (f *Fighter) Fight(h *hero.State, monsterName string) (Result, error) {
	mon, ok := f.catalog.Monster(monsterName)
	if !ok {
		return Result{}, apperr.Newf(apperr.CodeMonsterNotFound, "No monster called %s.", monsterName)
	}
	if !h.Alive() {
		return Result{}, apperr.New(apperr.CodeHeroDefeated, "You are too weak to fight. Rest or drink a potion.")
	}

	res := Result{Monster: mon.Name, Outcome: OutcomeStalemate}
	monHP := mon.HP
	for round := 1; round <= MaxRounds; round++ {
		res.Rounds = round

		dmg := f.heroDamage(h, mon)
		monHP -= dmg
		if monHP < 0 {
			monHP = 0
		}
		res.Blows = append(res.Blows, Blow{Round: round, ByHero: true, Damage: dmg, HeroHP: h.HP, MonsterHP: monHP})
		if monHP == 0 {
			res.Outcome = OutcomeVictory
			break
		}

		dmg = f.monsterDamage(h, mon)
		fell := h.TakeDamage(dmg)
		res.Blows = append(res.Blows, Blow{Round: round, Damage: dmg, HeroHP: h.HP, MonsterHP: monHP})
		if fell {
			res.Outcome = OutcomeDefeat
			break
		}
	}

	switch res.Outcome {
	case OutcomeVictory:
		f.reward(h, mon, &res)
	case OutcomeDefeat:
		res.GoldLost = applyDeathPenalty(h)
	}

	f.logger.Info("fight resolved",
		zap.String("hero", h.Name),
		zap.String("monster", mon.Name),
		zap.Stringer("outcome", res.Outcome),
		zap.Int("rounds", res.Rounds),
		zap.Int("xp", res.XP),
		zap.Int("gold", res.Gold),
		zap.Int("gold_lost", res.GoldLost))
	return res, nil
}

func (f *Fighter) heroDamage(h *hero.State, mon catalog.Monster) int {
	return maxInt(1, h.Attack-mon.Level/2) + f.intn(heroRollRange)
}

func (f *Fighter) monsterDamage(h *hero.State, mon catalog.Monster) int {
	return maxInt(1, mon.Attack-h.Defense) + f.intn(monsterRollRange)
}

func (f *Fighter) reward(h *hero.State, mon catalog.Monster, res *Result) {
	h.Kills++
	res.XP = mon.XP
	res.LevelsGained = h.GainXP(mon.XP)
	res.Gold = mon.Gold
	h.EarnGold(mon.Gold)
	res.Loot = f.rollLoot(h, mon)

	if f.quests != nil {
		if c, ok := f.quests.Complete(h, hero.QuestKillMonster, mon.Name); ok {
			res.LevelsGained += c.LevelsGained
			res.Quest = &c
		}
	}
}

func (f *Fighter) rollLoot(h *hero.State, mon catalog.Monster) []Loot {
	var drops []Loot
	for _, d := range mon.Drops {
		if !f.rollDrop(d.RateBPS) {
			continue
		}
		qty := f.rolledQty(d.Min, d.Max)
		h.AddMaterial(d.Material, qty)
		drops = append(drops, Loot{Material: d.Material, Name: f.catalog.MaterialName(d.Material), Qty: qty})
	}
	return drops
}

func (f *Fighter) rollDrop(bps int) bool {
	if bps <= 0 {
		return false
	}
	if bps >= fullRollBPS {
		return true
	}
	return f.intn(fullRollBPS) < bps
}

func (f *Fighter) rolledQty(minQty, maxQty int) int {
	if minQty < 1 {
		minQty = 1
	}
	if maxQty < minQty {
		maxQty = minQty
	}
	if minQty == maxQty {
		return minQty
	}
	return minQty + f.intn(maxQty-minQty+1)
}

// applyDeathPenalty leaves the hero at 1 hp back in the starting biome and
// takes a tenth of their gold. It returns the gold lost.
func applyDeathPenalty(h *hero.State) int {
	lost := h.Gold * deathGoldPercent / 100
	h.Gold -= lost
	h.HP = 1
	h.Biome = hero.StartingBiome
	return lost
}

func maxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
