package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default(zap.NewNop())
	require.NoError(t, err)

	sword, ok := c.Gear("Iron Sword")
	require.True(t, ok)
	assert.Equal(t, SlotWeapon, sword.Slot)
	assert.Equal(t, 10, sword.Stat)
	assert.True(t, sword.AllowsClass("Warrior"))
	assert.False(t, sword.AllowsClass("mage"))

	tunic, ok := c.Gear("Cloth Tunic")
	require.True(t, ok)
	assert.Equal(t, SlotArmor, tunic.Slot)
	assert.True(t, tunic.AllowsClass("mage"))

	assert.Equal(t, []string{"grassland", "desert", "dungeon", "ocean"}, c.Biomes())
	for _, r := range c.Recipes() {
		assert.True(t, c.RecipeOutputValid(r), "recipe %s output", r.ID)
	}

	slime, ok := c.Monster("Slime")
	require.True(t, ok)
	assert.Equal(t, "grassland", slime.Biome)
	assert.Equal(t, 10, slime.XP)
}

func TestGearListOrdering(t *testing.T) {
	c, err := Default(zap.NewNop())
	require.NoError(t, err)

	list := c.GearList()
	require.NotEmpty(t, list)
	seenArmor := false
	for _, g := range list {
		if g.Slot == SlotArmor {
			seenArmor = true
			continue
		}
		assert.False(t, seenArmor, "weapon %q listed after armor", g.Name)
	}
}

func TestBaseStatUnknownIsZero(t *testing.T) {
	c, err := Default(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, c.BaseStat("Excalibur"))
	assert.Equal(t, 3, c.BaseStat("Rusty Sword"))
}

func TestMissingFilesLeaveSectionsEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		MonstersFile: {Data: []byte(`
monsters:
  - name: Slime
    biome: Grassland
    level: 1
    xp: 10
    hp: 20
    attack: 3
    drops:
      - {material: slime_gel, rate_bps: 10000, min: 1, max: 1}
`)},
	}

	c, err := LoadFS(fsys, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, c.GearList())
	assert.Empty(t, c.Recipes())

	slime, ok := c.Monster("Slime")
	require.True(t, ok)
	assert.Equal(t, "grassland", slime.Biome)
	assert.Empty(t, slime.Drops, "drops of unknown materials are discarded")
}

func TestMalformedYAMLIsError(t *testing.T) {
	fsys := fstest.MapFS{
		StoreFile: {Data: []byte("weapons: [this is: not valid")},
	}
	_, err := LoadFS(fsys, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse store.yaml")
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name: "duplicate weapon",
			files: fstest.MapFS{StoreFile: {Data: []byte(`
weapons:
  - {name: Stick, attack: 1, price: 1}
  - {name: Stick, attack: 2, price: 2}
`)}},
			want: `duplicate item "Stick"`,
		},
		{
			name: "recipe with unknown material",
			files: fstest.MapFS{CraftingFile: {Data: []byte(`
recipes:
  - id: bad
    inputs: {unobtainium: 1}
    output: {kind: potion, name: Potion}
`)}},
			want: `unknown material "unobtainium"`,
		},
		{
			name: "monster without hp",
			files: fstest.MapFS{MonstersFile: {Data: []byte(`
monsters:
  - {name: Ghost, biome: dungeon, level: 3}
`)}},
			want: "needs positive hp",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFS(tc.files, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StoreFile), []byte(`
weapons:
  - {name: Stick, attack: 1, price: 1, classes: [Rogue]}
potions:
  - {name: Water, heal: 1, price: 1}
`), 0o644))

	c, err := Load(dir, zap.NewNop())
	require.NoError(t, err)

	stick, ok := c.Gear("Stick")
	require.True(t, ok)
	assert.Equal(t, 1, stick.Level)
	assert.Equal(t, []string{"rogue"}, stick.Classes)
	_, ok = c.Potion("Water")
	assert.True(t, ok)
	assert.Empty(t, c.Monsters())
}

func TestRecipeCopiesAreIndependent(t *testing.T) {
	c, err := Default(zap.NewNop())
	require.NoError(t, err)

	r, ok := c.Recipe("leather_vest")
	require.True(t, ok)
	r.Inputs["wolf_pelt"] = 999

	again, _ := c.Recipe("leather_vest")
	assert.Equal(t, 3, again.Inputs["wolf_pelt"])
}
