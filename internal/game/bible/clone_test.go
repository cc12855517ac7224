package bible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/testutil"
)

func TestWorldBible_CloneIsDeep(t *testing.T) {
	w := testutil.World(t, bible.StyleFantasy)
	c, err := bible.ValidateCharacter(testutil.CharacterInput("Aria"), nil)
	require.NoError(t, err)
	w.Characters[c.Name] = c
	w.Protagonist = c

	cp := w.Clone()
	require.Same(t, cp.Characters["Aria"], cp.Protagonist)
	assert.NotSame(t, w.Characters["Aria"], cp.Characters["Aria"])

	cp.Characters["Aria"].Attributes["health"] = 1
	cp.Characters["Aria"].Inventory[0].Properties = map[string]any{"x": 1}
	*cp.Characters["Aria"].Inventory[0].Durability = 5
	cp.Geography.KeyRegions[0].Name = "changed"
	cp.EconomicFramework.PriceMultipliers["common"] = 9
	cp.EconomicFramework.BasePrices["food"]["bread"] = 1
	cp.ManaFramework.Tiers[bible.ManaTierMaster] = bible.Bounds{Min: 1, Max: 2}

	assert.Equal(t, 90, w.Characters["Aria"].Attributes["health"])
	assert.Nil(t, w.Characters["Aria"].Inventory[0].Properties)
	assert.Equal(t, 80, *w.Characters["Aria"].Inventory[0].Durability)
	assert.Equal(t, "Starting Village", w.Geography.KeyRegions[0].Name)
	assert.InDelta(t, 1.0, w.EconomicFramework.PriceMultipliers["common"], 0)
	assert.Equal(t, 5, w.EconomicFramework.BasePrices["food"]["bread"])
	assert.Equal(t, bible.Bounds{Min: 500, Max: 1000}, w.ManaFramework.Tiers[bible.ManaTierMaster])
}

func TestCharacter_InputRoundTripsThroughValidation(t *testing.T) {
	c, err := bible.ValidateCharacter(testutil.CharacterInput("Aria"), nil)
	require.NoError(t, err)
	again, err := bible.ValidateCharacter(c.Input(), nil)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestWorldBible_CharacterNames(t *testing.T) {
	w := testutil.World(t, bible.StyleHorror)
	assert.NotNil(t, w.CharacterNames())
	assert.Empty(t, w.CharacterNames())
}
