// Package quest generates kill-monster bounties filtered by biome and hero
// level, and tracks their completion in the hero's quest log.
package quest

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const (
	// Monsters from LevelsBelow under to LevelsAbove over the hero's level are fair game.
	LevelsBelow = 2
	LevelsAbove = 1

	DefaultMaxActive = 5
)

// ErrNoQuestsAvailable is returned when no monster anywhere can be offered.
var ErrNoQuestsAvailable = apperr.New(apperr.CodeNoQuestsAvailable, "No quests available right now.")

// Scope tells the caller how far the generator had to widen its search.
type Scope int

const (
	ScopeBiome         Scope = iota // current biome, level-appropriate
	ScopeBiomeAnyLevel              // current biome, outside the level range
	ScopeAnyBiome                   // level-appropriate, another biome
)

// Generated is a freshly created quest that is not yet in the log.
type Generated struct {
	Quest hero.Quest
	Scope Scope
}

// Notice is the player-facing explanation of a widened search, "" for ScopeBiome.
func (g Generated) Notice(biome string) string {
	switch g.Scope {
	case ScopeBiomeAnyLevel:
		return fmt.Sprintf("No quests available in %s for your level.", biome)
	case ScopeAnyBiome:
		return fmt.Sprintf("No quests available in %s. Try the %s.", biome, g.Quest.Biome)
	}
	return ""
}

// Completion is the outcome of a matched kill.
type Completion struct {
	Quest        hero.Quest
	LevelsGained int
}

type Manager struct {
	catalog   *catalog.Catalog
	logger    *zap.Logger
	intn      func(int) int
	newID     func() string
	maxActive int
}

type Option func(*Manager)

// WithIntn replaces the random source used to pick among candidates.
func WithIntn(intn func(int) int) Option {
	return func(m *Manager) { m.intn = intn }
}

// WithMaxActive caps the number of uncompleted quests in the log.
func WithMaxActive(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxActive = n
		}
	}
}

func NewManager(cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		catalog:   cat,
		logger:    logger,
		intn:      rand.Intn,
		newID:     uuid.NewString,
		maxActive: DefaultMaxActive,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) MaxActive() int {
	return m.maxActive
}

// GenerateKillMonsterQuest picks a monster the hero is not already hunting:
// first in the current biome within the level range, then anywhere in the
// current biome, then a level-appropriate monster in any biome.
func (m *Manager) GenerateKillMonsterQuest(h *hero.State) (Generated, error) {
	active := activeTargets(h)
	inRange := func(mon catalog.Monster) bool {
		return mon.Level >= h.Level-LevelsBelow && mon.Level <= h.Level+LevelsAbove
	}

	var exact, sameBiome, anyBiome []catalog.Monster
	for _, mon := range m.catalog.Monsters() {
		if active[mon.Name] {
			continue
		}
		here := mon.Biome == h.Biome
		switch {
		case here && inRange(mon):
			exact = append(exact, mon)
		case here:
			sameBiome = append(sameBiome, mon)
		case inRange(mon):
			anyBiome = append(anyBiome, mon)
		}
	}

	var (
		pool  []catalog.Monster
		scope Scope
	)
	switch {
	case len(exact) > 0:
		pool, scope = exact, ScopeBiome
	case len(sameBiome) > 0:
		pool, scope = sameBiome, ScopeBiomeAnyLevel
	case len(anyBiome) > 0:
		pool, scope = anyBiome, ScopeAnyBiome
	default:
		m.logger.Debug("no quest candidates",
			zap.String("hero", h.Name),
			zap.String("biome", h.Biome),
			zap.Int("level", h.Level))
		return Generated{}, ErrNoQuestsAvailable
	}

	mon := pool[m.intn(len(pool))]
	return Generated{
		Quest: hero.Quest{
			ID:          m.newID(),
			Type:        hero.QuestKillMonster,
			Target:      mon.Name,
			Biome:       mon.Biome,
			RewardXP:    mon.XP,
			Description: fmt.Sprintf("Defeat the %s in the %s.", mon.Name, mon.Biome),
		},
		Scope: scope,
	}, nil
}

// Accept appends q to the hero's quest log.
func (m *Manager) Accept(h *hero.State, q hero.Quest) error {
	active := m.Active(h)
	if len(active) >= m.maxActive {
		return apperr.Newf(apperr.CodeQuestLogFull, "Your quest log is full (%d active).", m.maxActive)
	}
	for _, a := range active {
		if a.Type == q.Type && a.Target == q.Target {
			return apperr.Newf(apperr.CodeQuestDuplicate, "You are already hunting the %s.", q.Target)
		}
	}
	if q.ID == "" {
		q.ID = m.newID()
	}
	q.Completed = false
	h.Quests = append(h.Quests, q)
	m.logger.Info("quest accepted",
		zap.String("hero", h.Name),
		zap.String("quest_id", q.ID),
		zap.String("target", q.Target),
		zap.Int("reward_xp", q.RewardXP))
	return nil
}

// Complete marks the first uncompleted quest of questType for target as done
// and grants its experience. It reports false when nothing matched.
func (m *Manager) Complete(h *hero.State, questType, target string) (Completion, bool) {
	for i := range h.Quests {
		q := &h.Quests[i]
		if q.Completed || q.Type != questType || q.Target != target {
			continue
		}
		q.Completed = true
		levels := h.GainXP(q.RewardXP)
		m.logger.Info("quest completed",
			zap.String("hero", h.Name),
			zap.String("quest_id", q.ID),
			zap.String("target", q.Target),
			zap.Int("reward_xp", q.RewardXP),
			zap.Int("levels_gained", levels))
		return Completion{Quest: *q, LevelsGained: levels}, true
	}
	return Completion{}, false
}

// Active returns the uncompleted quests in log order. Indexes passed to Drop
// refer to this view.
func (m *Manager) Active(h *hero.State) []hero.Quest {
	out := make([]hero.Quest, 0, len(h.Quests))
	for _, q := range h.Quests {
		if !q.Completed {
			out = append(out, q)
		}
	}
	return out
}

func (m *Manager) Completed(h *hero.State) []hero.Quest {
	out := make([]hero.Quest, 0, len(h.Quests))
	for _, q := range h.Quests {
		if q.Completed {
			out = append(out, q)
		}
	}
	return out
}

// Drop abandons the active quest at index. Exactly one record is removed:
// the index-th uncompleted entry of the log.
func (m *Manager) Drop(h *hero.State, index int) (hero.Quest, error) {
	pos := activePosition(h, index)
	if pos < 0 {
		return hero.Quest{}, apperr.Newf(apperr.CodeQuestNotFound, "No active quest #%d.", index+1)
	}
	target := h.Quests[pos]
	h.Quests = append(h.Quests[:pos], h.Quests[pos+1:]...)
	m.logger.Info("quest dropped",
		zap.String("hero", h.Name),
		zap.String("quest_id", target.ID),
		zap.String("target", target.Target))
	return target, nil
}

// ClearCompleted removes finished quests from the log and returns how many.
func (m *Manager) ClearCompleted(h *hero.State) int {
	kept := h.Quests[:0]
	removed := 0
	for _, q := range h.Quests {
		if q.Completed {
			removed++
			continue
		}
		kept = append(kept, q)
	}
	h.Quests = kept
	return removed
}

// activePosition maps an index into Active(h) to its position in h.Quests,
// or -1 when out of range.
func activePosition(h *hero.State, index int) int {
	if index < 0 {
		return -1
	}
	n := 0
	for i, q := range h.Quests {
		if q.Completed {
			continue
		}
		if n == index {
			return i
		}
		n++
	}
	return -1
}

func activeTargets(h *hero.State) map[string]bool {
	out := map[string]bool{}
	for _, q := range h.Quests {
		if !q.Completed && q.Type == hero.QuestKillMonster {
			out[q.Target] = true
		}
	}
	return out
}
