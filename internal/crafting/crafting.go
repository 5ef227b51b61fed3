// Package crafting turns monster materials into gear and potions.
package crafting

import (
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/apperr"
	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const MaxQty = 20

// Result summarizes a successful craft.
type Result struct {
	RecipeID string
	Recipe   string
	Qty      int
	Consumed map[string]int
	Output   catalog.RecipeOutput
	Produced int
}

// Availability is a recipe annotated for one hero.
type Availability struct {
	Recipe     catalog.Recipe
	MeetsLevel bool
	MaxCraft   int // how many the hero's materials cover, capped at MaxQty
}

func (a Availability) Craftable() bool {
	return a.MeetsLevel && a.MaxCraft > 0
}

type Crafter struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func New(cat *catalog.Catalog, logger *zap.Logger) *Crafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crafter{catalog: cat, logger: logger}
}

// Recipes lists every recipe with the hero's ability to craft it.
func (c *Crafter) Recipes(h *hero.State) []Availability {
	recipes := c.catalog.Recipes()
	out := make([]Availability, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, Availability{
			Recipe:     r,
			MeetsLevel: h.Level >= r.Level,
			MaxCraft:   maxCraftable(h, r),
		})
	}
	return out
}

// Craft consumes qty times the recipe inputs and adds the outputs. Nothing is
// consumed unless every check passes.
func (c *Crafter) Craft(h *hero.State, recipeID string, qty int) (Result, error) {
	if qty <= 0 || qty > MaxQty {
		return Result{}, apperr.Newf(apperr.CodeInvalidQuantity, "You can craft between 1 and %d at a time.", MaxQty)
	}
	recipe, ok := c.catalog.Recipe(recipeID)
	if !ok {
		return Result{}, apperr.Newf(apperr.CodeRecipeNotFound, "Unknown recipe %q.", recipeID)
	}
	if h.Level < recipe.Level {
		return Result{}, apperr.Newf(apperr.CodeLevelTooLow, "You need to be level %d to craft %s.", recipe.Level, recipe.Name)
	}
	if !h.HasMaterials(recipe.Inputs, qty) {
		return Result{}, apperr.Newf(apperr.CodeInsufficientMaterials, "Not enough materials for %d x %s.", qty, recipe.Name)
	}
	if !c.catalog.RecipeOutputValid(recipe) {
		return Result{}, apperr.Newf(apperr.CodeRecipeOutputInvalid, "%s produces nothing known.", recipe.Name)
	}

	consumed := h.TakeMaterials(recipe.Inputs, qty)
	per := recipe.Output.Qty
	if per < 1 {
		per = 1
	}
	produced := per * qty
	switch recipe.Output.Kind {
	case catalog.OutputPotion:
		h.Potions[recipe.Output.Name] += produced
	default:
		for i := 0; i < produced; i++ {
			h.AddItem(recipe.Output.Name)
		}
	}

	c.logger.Info("item crafted",
		zap.String("hero", h.Name),
		zap.String("recipe", recipe.ID),
		zap.Int("qty", qty),
		zap.String("output", recipe.Output.Name),
		zap.Int("produced", produced))
	return Result{
		RecipeID: recipe.ID,
		Recipe:   recipe.Name,
		Qty:      qty,
		Consumed: consumed,
		Output:   recipe.Output,
		Produced: produced,
	}, nil
}

func maxCraftable(h *hero.State, r catalog.Recipe) int {
	best := MaxQty
	for id, need := range r.Inputs {
		if need <= 0 {
			continue
		}
		if n := h.Materials[id] / need; n < best {
			best = n
		}
	}
	return best
}
