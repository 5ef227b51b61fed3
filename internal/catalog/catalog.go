// Package catalog loads the static game data (store, crafting and monster
// tables) once at startup into an immutable Catalog.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	StoreFile    = "store.yaml"
	CraftingFile = "crafting.yaml"
	MonstersFile = "monsters.yaml"
)

//go:embed data/*.yaml
var embeddedData embed.FS

// Catalog is the read-only lookup of everything the rule subsystems need.
// It is never mutated after Load returns.
type Catalog struct {
	gear      map[string]Gear
	gearOrder []string
	potions   map[string]Potion
	potionOrd []string
	materials map[string]Material
	recipes   map[string]Recipe
	recipeOrd []string
	monsters  map[string]Monster
	monOrder  []string
	biomes    []string
}

// Default loads the embedded data set.
func Default(logger *zap.Logger) (*Catalog, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded data: %w", err)
	}
	return LoadFS(sub, logger)
}

// Load reads the catalogs from dir, or the embedded data when dir is empty.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return Default(logger)
	}
	return LoadFS(os.DirFS(dir), logger)
}

// LoadFS reads the three catalog files from fsys. A missing file leaves its
// section empty; a malformed file is an error.
func LoadFS(fsys fs.FS, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		gear:      map[string]Gear{},
		potions:   map[string]Potion{},
		materials: map[string]Material{},
		recipes:   map[string]Recipe{},
		monsters:  map[string]Monster{},
	}

	var store storeFile
	if found, err := readYAML(fsys, StoreFile, &store); err != nil {
		return nil, err
	} else if !found {
		logger.Warn("catalog file missing, shop disabled", zap.String("file", StoreFile))
	}
	if err := c.addStore(store); err != nil {
		return nil, err
	}

	var crafting craftingFile
	if found, err := readYAML(fsys, CraftingFile, &crafting); err != nil {
		return nil, err
	} else if !found {
		logger.Warn("catalog file missing, crafting disabled", zap.String("file", CraftingFile))
	}
	if err := c.addCrafting(crafting); err != nil {
		return nil, err
	}

	var monsters monstersFile
	if found, err := readYAML(fsys, MonstersFile, &monsters); err != nil {
		return nil, err
	} else if !found {
		logger.Warn("catalog file missing, no monsters loaded", zap.String("file", MonstersFile))
	}
	if err := c.addMonsters(monsters, logger); err != nil {
		return nil, err
	}

	for _, id := range c.recipeOrd {
		r := c.recipes[id]
		if !c.validOutput(r.Output) {
			logger.Warn("recipe output not in catalog",
				zap.String("recipe", r.ID),
				zap.String("kind", r.Output.Kind),
				zap.String("output", r.Output.Name))
		}
	}

	logger.Info("catalog loaded",
		zap.Int("gear", len(c.gear)),
		zap.Int("potions", len(c.potions)),
		zap.Int("materials", len(c.materials)),
		zap.Int("recipes", len(c.recipes)),
		zap.Int("monsters", len(c.monsters)),
		zap.Strings("biomes", c.biomes))
	return c, nil
}

func readYAML(fsys fs.FS, name string, out any) (bool, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

func (c *Catalog) addStore(f storeFile) error {
	for _, w := range f.Weapons {
		if err := c.addGear(Gear{
			Name:    strings.TrimSpace(w.Name),
			Slot:    SlotWeapon,
			Stat:    w.Attack,
			Price:   w.Price,
			Level:   maxInt(w.Level, 1),
			Classes: normalizeClasses(w.Classes),
		}); err != nil {
			return err
		}
	}
	for _, a := range f.Armor {
		if err := c.addGear(Gear{
			Name:    strings.TrimSpace(a.Name),
			Slot:    SlotArmor,
			Stat:    a.Defense,
			Price:   a.Price,
			Level:   maxInt(a.Level, 1),
			Classes: normalizeClasses(a.Classes),
		}); err != nil {
			return err
		}
	}
	for _, p := range f.Potions {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return fmt.Errorf("%s: potion without name", StoreFile)
		}
		if _, dup := c.potions[p.Name]; dup {
			return fmt.Errorf("%s: duplicate potion %q", StoreFile, p.Name)
		}
		c.potions[p.Name] = p
		c.potionOrd = append(c.potionOrd, p.Name)
	}
	sort.SliceStable(c.gearOrder, func(i, j int) bool {
		a, b := c.gear[c.gearOrder[i]], c.gear[c.gearOrder[j]]
		if a.Slot != b.Slot {
			return a.Slot == SlotWeapon
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Price < b.Price
	})
	return nil
}

func (c *Catalog) addGear(g Gear) error {
	if g.Name == "" {
		return fmt.Errorf("%s: %s without name", StoreFile, g.Slot)
	}
	if _, dup := c.gear[g.Name]; dup {
		return fmt.Errorf("%s: duplicate item %q", StoreFile, g.Name)
	}
	if g.Stat < 0 || g.Price < 0 {
		return fmt.Errorf("%s: item %q has negative stat or price", StoreFile, g.Name)
	}
	c.gear[g.Name] = g
	c.gearOrder = append(c.gearOrder, g.Name)
	return nil
}

func (c *Catalog) addCrafting(f craftingFile) error {
	for _, m := range f.Materials {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return fmt.Errorf("%s: material without id", CraftingFile)
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		c.materials[m.ID] = m
	}
	for _, r := range f.Recipes {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return fmt.Errorf("%s: recipe without id", CraftingFile)
		}
		if _, dup := c.recipes[r.ID]; dup {
			return fmt.Errorf("%s: duplicate recipe %q", CraftingFile, r.ID)
		}
		if len(r.Inputs) == 0 {
			return fmt.Errorf("%s: recipe %q has no inputs", CraftingFile, r.ID)
		}
		for id, qty := range r.Inputs {
			if _, ok := c.materials[id]; !ok {
				return fmt.Errorf("%s: recipe %q uses unknown material %q", CraftingFile, r.ID, id)
			}
			if qty <= 0 {
				return fmt.Errorf("%s: recipe %q needs a positive amount of %q", CraftingFile, r.ID, id)
			}
		}
		if r.Name == "" {
			r.Name = r.Output.Name
		}
		if r.Output.Qty <= 0 {
			r.Output.Qty = 1
		}
		r.Level = maxInt(r.Level, 1)
		c.recipes[r.ID] = r
		c.recipeOrd = append(c.recipeOrd, r.ID)
	}
	sort.Strings(c.recipeOrd)
	return nil
}

func (c *Catalog) addMonsters(f monstersFile, logger *zap.Logger) error {
	seenBiome := map[string]bool{}
	for _, m := range f.Monsters {
		m.Name = strings.TrimSpace(m.Name)
		m.Biome = strings.ToLower(strings.TrimSpace(m.Biome))
		if m.Name == "" || m.Biome == "" {
			return fmt.Errorf("%s: monster needs a name and a biome", MonstersFile)
		}
		if _, dup := c.monsters[m.Name]; dup {
			return fmt.Errorf("%s: duplicate monster %q", MonstersFile, m.Name)
		}
		if m.HP <= 0 {
			return fmt.Errorf("%s: monster %q needs positive hp", MonstersFile, m.Name)
		}
		drops := m.Drops[:0:0]
		for _, d := range m.Drops {
			if _, ok := c.materials[d.Material]; !ok {
				logger.Warn("dropping loot row for unknown material",
					zap.String("monster", m.Name),
					zap.String("material", d.Material))
				continue
			}
			drops = append(drops, d)
		}
		m.Drops = drops
		m.Level = maxInt(m.Level, 1)
		c.monsters[m.Name] = m
		c.monOrder = append(c.monOrder, m.Name)
		if !seenBiome[m.Biome] {
			seenBiome[m.Biome] = true
			c.biomes = append(c.biomes, m.Biome)
		}
	}
	sort.SliceStable(c.monOrder, func(i, j int) bool {
		a, b := c.monsters[c.monOrder[i]], c.monsters[c.monOrder[j]]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Name < b.Name
	})
	return nil
}

func (c *Catalog) validOutput(out RecipeOutput) bool {
	switch out.Kind {
	case OutputWeapon, OutputArmor:
		g, ok := c.gear[out.Name]
		return ok && g.Slot == out.Kind
	case OutputPotion:
		_, ok := c.potions[out.Name]
		return ok
	}
	return false
}

// Gear looks up a weapon or armor piece by name.
func (c *Catalog) Gear(name string) (Gear, bool) {
	g, ok := c.gear[name]
	return g, ok
}

// GearList returns all gear, weapons first, by level then price.
func (c *Catalog) GearList() []Gear {
	out := make([]Gear, 0, len(c.gearOrder))
	for _, name := range c.gearOrder {
		out = append(out, c.gear[name])
	}
	return out
}

// BaseStat is the unmodified attack or defense of an item, 0 when unknown.
func (c *Catalog) BaseStat(name string) int {
	return c.gear[name].Stat
}

func (c *Catalog) Potion(name string) (Potion, bool) {
	p, ok := c.potions[name]
	return p, ok
}

func (c *Catalog) Potions() []Potion {
	out := make([]Potion, 0, len(c.potionOrd))
	for _, name := range c.potionOrd {
		out = append(out, c.potions[name])
	}
	return out
}

func (c *Catalog) Material(id string) (Material, bool) {
	m, ok := c.materials[id]
	return m, ok
}

// MaterialName falls back to the id for unknown materials.
func (c *Catalog) MaterialName(id string) string {
	if m, ok := c.materials[id]; ok {
		return m.Name
	}
	return id
}

func (c *Catalog) Recipe(id string) (Recipe, bool) {
	r, ok := c.recipes[id]
	if !ok {
		return Recipe{}, false
	}
	return r.clone(), true
}

// Recipes returns every recipe sorted by id.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.recipeOrd))
	for _, id := range c.recipeOrd {
		out = append(out, c.recipes[id].clone())
	}
	return out
}

// RecipeOutputValid reports whether the recipe produces a known catalog entry.
func (c *Catalog) RecipeOutputValid(r Recipe) bool {
	return c.validOutput(r.Output)
}

func (c *Catalog) Monster(name string) (Monster, bool) {
	m, ok := c.monsters[name]
	if !ok {
		return Monster{}, false
	}
	return m.clone(), true
}

// Monsters returns the whole catalog ordered by level then name.
func (c *Catalog) Monsters() []Monster {
	out := make([]Monster, 0, len(c.monOrder))
	for _, name := range c.monOrder {
		out = append(out, c.monsters[name].clone())
	}
	return out
}

// Biomes lists biomes in the order they first appear in monsters.yaml.
func (c *Catalog) Biomes() []string {
	return append([]string(nil), c.biomes...)
}

func (c *Catalog) HasBiome(biome string) bool {
	for _, b := range c.biomes {
		if b == biome {
			return true
		}
	}
	return false
}

func (r Recipe) clone() Recipe {
	inputs := make(map[string]int, len(r.Inputs))
	for k, v := range r.Inputs {
		inputs[k] = v
	}
	r.Inputs = inputs
	return r
}

func (m Monster) clone() Monster {
	m.Drops = append([]Drop(nil), m.Drops...)
	return m
}

func normalizeClasses(classes []string) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
