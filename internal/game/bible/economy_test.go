package bible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/testutil"
)

func TestNewEconomicFramework_DefaultsCurrency(t *testing.T) {
	e := bible.NewEconomicFramework(" ")
	assert.Equal(t, bible.DefaultCurrency, e.Currency)
	assert.Len(t, e.PriceMultipliers, len(bible.Rarities))
	assert.InDelta(t, 250.0, e.PriceMultipliers["legendary"], 0)
}

func TestEconomicFramework_PriceFor(t *testing.T) {
	e := bible.NewEconomicFramework("Credits")
	assert.Equal(t, 10, e.PriceFor(bible.Item{Value: 10, Rarity: bible.RarityCommon}))
	assert.Equal(t, 25, e.PriceFor(bible.Item{Value: 10, Rarity: bible.RarityUncommon}))
	assert.Equal(t, 3, e.PriceFor(bible.Item{Value: 1, Rarity: bible.RarityUncommon}))
	assert.Equal(t, 0, e.PriceFor(bible.Item{Value: 0, Rarity: bible.RarityLegendary}))
}

func TestEconomicFramework_PriceFor_UnknownMultiplierFallsBack(t *testing.T) {
	e := bible.EconomicFramework{Currency: "Scrip"}
	assert.Equal(t, 100, e.PriceFor(bible.Item{Value: 10, Rarity: bible.RarityRare}))
}

func TestNewEconomicFramework_BasePrices(t *testing.T) {
	e := bible.NewEconomicFramework("")
	p, ok := e.BasePrice("food", "bread")
	assert.True(t, ok)
	assert.Equal(t, 5, p)
	p, ok = e.BasePrice("housing", "estate")
	assert.True(t, ok)
	assert.Equal(t, 50000, p)
	_, ok = e.BasePrice("food", "caviar")
	assert.False(t, ok)
	_, ok = e.BasePrice("vehicles", "cart")
	assert.False(t, ok)
}

func TestNewEconomicFramework_IndependentCopies(t *testing.T) {
	a := bible.NewEconomicFramework("")
	a.BasePrices["food"]["bread"] = 999
	b := bible.NewEconomicFramework("")
	p, _ := b.BasePrice("food", "bread")
	assert.Equal(t, 5, p)
}

func TestEconomicFramework_MarketPrice(t *testing.T) {
	e := bible.NewEconomicFramework("")
	p, ok := e.MarketPrice("potions", "healing", bible.RarityRare)
	assert.True(t, ok)
	assert.Equal(t, 500, p)
	p, ok = e.MarketPrice("equipment", "fine_weapon", bible.RarityUncommon)
	assert.True(t, ok)
	assert.Equal(t, 1250, p)
	_, ok = e.MarketPrice("potions", "elixir", bible.RarityCommon)
	assert.False(t, ok)
}

func TestManaFramework_TierFor(t *testing.T) {
	m := bible.NewManaFramework()
	tests := []struct {
		maxMana int
		tier    string
	}{
		{0, bible.ManaTierNormal},
		{49, bible.ManaTierNormal},
		{50, bible.ManaTierSkilled},
		{199, bible.ManaTierSkilled},
		{200, bible.ManaTierExpert},
		{500, bible.ManaTierMaster},
		{1000, bible.ManaTierMaster},
	}
	for _, tt := range tests {
		tier, ok := m.TierFor(tt.maxMana)
		assert.True(t, ok, "max_mana %d", tt.maxMana)
		assert.Equal(t, tt.tier, tier, "max_mana %d", tt.maxMana)
	}
	_, ok := m.TierFor(1001)
	assert.False(t, ok)
	_, ok = m.TierFor(-1)
	assert.False(t, ok)
}

func TestManaFramework_SpellCostFits(t *testing.T) {
	m := bible.NewManaFramework()
	assert.True(t, m.SpellCostFits("minor", 5))
	assert.True(t, m.SpellCostFits("minor", 20))
	assert.False(t, m.SpellCostFits("minor", 21))
	assert.True(t, m.SpellCostFits("legendary", 1000))
	assert.False(t, m.SpellCostFits("cantrip", 1))
}

func TestValidateWorld_PopulatesFrameworks(t *testing.T) {
	w := testutil.World(t, bible.StyleFantasy)
	assert.Len(t, w.ManaFramework.Tiers, len(bible.ManaTiers))
	assert.Len(t, w.ManaFramework.SpellCosts, 4)
	assert.Len(t, w.EconomicFramework.BasePrices, 5)
}
