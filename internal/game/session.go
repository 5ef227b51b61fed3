// Package game ties the rule subsystems to one loaded hero. Every action
// returns a player-facing notice and saves the hero when it changed.
package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/combat"
	"github.com/sho0303/monster-game-sub001/internal/config"
	"github.com/sho0303/monster-game-sub001/internal/crafting"
	"github.com/sho0303/monster-game-sub001/internal/equipment"
	"github.com/sho0303/monster-game-sub001/internal/hero"
	"github.com/sho0303/monster-game-sub001/internal/quest"
	"github.com/sho0303/monster-game-sub001/internal/shop"
	"github.com/sho0303/monster-game-sub001/internal/storage"
)

// RestCost is what a night at the inn costs.
const RestCost = 10

// Session is not safe for concurrent use; the UI drives it from one goroutine.
type Session struct {
	catalog *catalog.Catalog
	store   storage.Store
	logger  *zap.Logger
	printer *message.Printer
	hero    *hero.State

	Equipment *equipment.Manager
	Quests    *quest.Manager
	Shop      *shop.Shop
	Crafter   *crafting.Crafter
	Fighter   *combat.Fighter

	offer *quest.Generated
}

type settings struct {
	intn      func(int) int
	maxActive int
}

type Option func(*settings)

// WithIntn pins the randomness of quest generation and combat.
func WithIntn(intn func(int) int) Option {
	return func(s *settings) { s.intn = intn }
}

func WithMaxActiveQuests(n int) Option {
	return func(s *settings) { s.maxActive = n }
}

// LoadHero returns the saved hero named in cfg, or a new one when no save
// exists. The bool reports whether a save was found.
func LoadHero(ctx context.Context, store storage.Store, cfg config.Config, logger *zap.Logger) (*hero.State, bool, error) {
	h, found, err := store.Load(ctx, cfg.HeroName)
	if err != nil {
		return nil, false, fmt.Errorf("load hero %q: %w", cfg.HeroName, err)
	}
	if found {
		logger.Info("hero loaded", zap.String("hero", h.Name), zap.Int("level", h.Level))
		return h, true, nil
	}
	h = hero.New(cfg.HeroName, cfg.HeroClass)
	logger.Info("hero created", zap.String("hero", h.Name), zap.String("class", h.Class))
	return h, false, nil
}

func New(cat *catalog.Catalog, store storage.Store, h *hero.State, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	var st settings
	for _, opt := range opts {
		opt(&st)
	}

	var questOpts []quest.Option
	var combatOpts []combat.Option
	if st.intn != nil {
		questOpts = append(questOpts, quest.WithIntn(st.intn))
		combatOpts = append(combatOpts, combat.WithIntn(st.intn))
	}
	if st.maxActive > 0 {
		questOpts = append(questOpts, quest.WithMaxActive(st.maxActive))
	}

	eq := equipment.NewManager(cat, logger)
	quests := quest.NewManager(cat, logger, questOpts...)
	s := &Session{
		catalog:   cat,
		store:     store,
		logger:    logger,
		printer:   message.NewPrinter(language.English),
		hero:      h,
		Equipment: eq,
		Quests:    quests,
		Shop:      shop.New(cat, eq, logger),
		Crafter:   crafting.New(cat, logger),
		Fighter:   combat.New(cat, quests, logger, combatOpts...),
	}
	hero.EnsureDefaults(h)
	eq.Refresh(h)
	return s
}

func (s *Session) Hero() *hero.State { return s.hero }
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
func (s *Session) Printer() *message.Printer { return s.printer }
func (s *Session) PendingQuest() *quest.Generated { return s.offer }

// Gold formats an amount the way the UI shows it, e.g. "1,250 gold".
func (s *Session) Gold(n int) string {
	return s.printer.Sprintf("%d gold", n)
}

// Save writes the hero to the store.
func (s *Session) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.hero); err != nil {
		return fmt.Errorf("save hero %q: %w", s.hero.Name, err)
	}
	return nil
}

// commit saves after a state change. A failed save is logged and flagged in
// the notice rather than undoing the action.
func (s *Session) commit(ctx context.Context, notice string) (string, error) {
	if err := s.Save(ctx); err != nil {
		s.logger.Error("autosave failed", zap.String("hero", s.hero.Name), zap.Error(err))
		return notice + " (not saved)", nil
	}
	return notice, nil
}

// Travel moves the hero to another biome.
func (s *Session) Travel(ctx context.Context, biome string) (string, error) {
	biome = strings.ToLower(strings.TrimSpace(biome))
	if !s.catalog.HasBiome(biome) {
		return "", apperr.Newf(apperr.CodeBiomeNotFound, "There is no %s to travel to.", biome)
	}
	if biome == s.hero.Biome {
		return fmt.Sprintf("You are already in the %s.", biome), nil
	}
	s.hero.Biome = biome
	s.offer = nil
	s.logger.Info("hero traveled", zap.String("hero", s.hero.Name), zap.String("biome", biome))
	return s.commit(ctx, fmt.Sprintf("You travel to the %s.", biome))
}

// Rest pays the inn for a full heal.
func (s *Session) Rest(ctx context.Context) (string, error) {
	if s.hero.HP >= s.hero.MaxHP {
		return "", apperr.New(apperr.CodeAlreadyFullHP, "You are already at full health.")
	}
	if err := s.hero.SpendGold(RestCost); err != nil {
		return "", err
	}
	healed := s.hero.Heal(s.hero.MaxHP)
	return s.commit(ctx, fmt.Sprintf("You rest at the inn for %s and recover %d HP.", s.Gold(RestCost), healed))
}

// PostQuest asks the quest board for a new bounty. The offer is held until
// AcceptQuest or DeclineQuest.
func (s *Session) PostQuest() (quest.Generated, string, error) {
	g, err := s.Quests.GenerateKillMonsterQuest(s.hero)
	if err != nil {
		s.offer = nil
		return quest.Generated{}, "", err
	}
	s.offer = &g
	notice := g.Quest.Description
	if n := g.Notice(s.hero.Biome); n != "" {
		notice = n + " " + notice
	}
	return g, notice, nil
}

func (s *Session) AcceptQuest(ctx context.Context) (string, error) {
	if s.offer == nil {
		return "", apperr.New(apperr.CodeQuestNotFound, "There is no quest on offer.")
	}
	q := s.offer.Quest
	if err := s.Quests.Accept(s.hero, q); err != nil {
		return "", err
	}
	s.offer = nil
	return s.commit(ctx, fmt.Sprintf("Quest accepted: %s (%d XP)", q.Description, q.RewardXP))
}

func (s *Session) DeclineQuest() {
	s.offer = nil
}

// DropQuest abandons the active quest at index (0-based).
func (s *Session) DropQuest(ctx context.Context, index int) (string, error) {
	q, err := s.Quests.Drop(s.hero, index)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("Quest dropped: %s", q.Description))
}

func (s *Session) ClearCompletedQuests(ctx context.Context) (string, error) {
	n := s.Quests.ClearCompleted(s.hero)
	if n == 0 {
		return "No completed quests to clear.", nil
	}
	return s.commit(ctx, fmt.Sprintf("Cleared %d completed quest(s).", n))
}

func (s *Session) Buy(ctx context.Context, name string) (string, error) {
	p, err := s.Shop.Buy(s.hero, name)
	if err != nil {
		return "", err
	}
	notice := fmt.Sprintf("Bought %s for %s.", p.Name, s.Gold(p.Price))
	if p.Equipped {
		notice = fmt.Sprintf("Bought and equipped %s for %s.", p.Name, s.Gold(p.Price))
	}
	return s.commit(ctx, notice)
}

func (s *Session) Sell(ctx context.Context, name string) (string, error) {
	price, err := s.Shop.Sell(s.hero, name)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("Sold %s for %s.", name, s.Gold(price)))
}

func (s *Session) SellMaterial(ctx context.Context, id string, qty int) (string, error) {
	total, err := s.Shop.SellMaterial(s.hero, id, qty)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("Sold %d %s for %s.", qty, s.catalog.MaterialName(id), s.Gold(total)))
}

func (s *Session) Equip(ctx context.Context, name string) (string, error) {
	if err := s.Shop.Equip(s.hero, name); err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("Equipped %s.", name))
}

func (s *Session) UsePotion(ctx context.Context, name string) (string, error) {
	healed, err := s.Shop.UsePotion(s.hero, name)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("You drink a %s and recover %d HP.", name, healed))
}

func (s *Session) Upgrade(ctx context.Context, slot string) (string, error) {
	r, err := s.Equipment.Upgrade(s.hero, slot)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, s.receiptNotice("Upgraded", r))
}

func (s *Session) Enchant(ctx context.Context, slot, id string) (string, error) {
	r, err := s.Equipment.Enchant(s.hero, slot, id)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, s.receiptNotice("Enchanted", r))
}

func (s *Session) SocketGem(ctx context.Context, slot, id string) (string, error) {
	r, err := s.Equipment.SocketGem(s.hero, slot, id)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, s.receiptNotice("Socketed", r))
}

func (s *Session) receiptNotice(verb string, r equipment.Receipt) string {
	return fmt.Sprintf("%s %s for %s: %d -> %d.",
		verb, s.Equipment.DisplayName(s.hero, r.Slot), s.Gold(r.Cost), r.Before, r.After)
}

func (s *Session) Craft(ctx context.Context, recipeID string, qty int) (string, error) {
	res, err := s.Crafter.Craft(s.hero, recipeID, qty)
	if err != nil {
		return "", err
	}
	return s.commit(ctx, fmt.Sprintf("Crafted %d x %s.", res.Produced, res.Output.Name))
}

// Hunt finds a monster in the current biome and fights it.
func (s *Session) Hunt(ctx context.Context) (combat.Result, string, error) {
	mon, err := s.Fighter.Encounter(s.hero)
	if err != nil {
		return combat.Result{}, "", err
	}
	return s.FightMonster(ctx, mon.Name)
}

func (s *Session) FightMonster(ctx context.Context, name string) (combat.Result, string, error) {
	res, err := s.Fighter.Fight(s.hero, name)
	if err != nil {
		return combat.Result{}, "", err
	}
	notice, err := s.commit(ctx, s.battleNotice(res))
	return res, notice, err
}

func (s *Session) battleNotice(res combat.Result) string {
	var parts []string
	switch res.Outcome {
	case combat.OutcomeVictory:
		parts = append(parts, fmt.Sprintf("You defeated the %s! +%d XP, +%s.", res.Monster, res.XP, s.Gold(res.Gold)))
		for _, l := range res.Loot {
			parts = append(parts, fmt.Sprintf("Found %d %s.", l.Qty, l.Name))
		}
		if res.Quest != nil {
			parts = append(parts, fmt.Sprintf("Quest complete: %s (+%d XP)", res.Quest.Quest.Description, res.Quest.Quest.RewardXP))
		}
		if res.LevelsGained > 0 {
			parts = append(parts, fmt.Sprintf("Level up! You are now level %d.", s.hero.Level))
		}
	case combat.OutcomeDefeat:
		parts = append(parts, fmt.Sprintf("The %s defeated you. You lost %s and woke up in the %s.",
			res.Monster, s.Gold(res.GoldLost), s.hero.Biome))
	default:
		parts = append(parts, fmt.Sprintf("After %d rounds the %s slinks away.", res.Rounds, res.Monster))
	}
	return strings.Join(parts, " ")
}
