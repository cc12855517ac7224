package bible

import (
	"maps"
	"math"
	"strings"
)

// DefaultCurrency is used when a world does not name its own currency.
const DefaultCurrency = "Gold Coins"

// defaultPriceMultipliers scales an item's base value by rarity.
var defaultPriceMultipliers = map[Rarity]float64{
	RarityCommon:    1.0,
	RarityUncommon:  2.5,
	RarityRare:      10.0,
	RarityEpic:      50.0,
	RarityLegendary: 250.0,
}

// defaultBasePrices are reference prices in the world's currency.
var defaultBasePrices = map[string]map[string]int{
	"food":      {"bread": 5, "meal": 25, "feast": 100},
	"clothing":  {"basic": 50, "fine": 200, "noble": 1000},
	"equipment": {"basic_weapon": 100, "fine_weapon": 500, "masterwork": 2000},
	"potions":   {"healing": 50, "mana": 75, "buff": 150},
	"housing":   {"room": 50, "house": 5000, "estate": 50000},
}

// Mana proficiency tiers, weakest first.
const (
	ManaTierNormal  = "normal_person"
	ManaTierSkilled = "skilled"
	ManaTierExpert  = "expert"
	ManaTierMaster  = "master"
)

// ManaTiers lists the proficiency tiers, weakest first.
var ManaTiers = []string{ManaTierNormal, ManaTierSkilled, ManaTierExpert, ManaTierMaster}

var defaultManaTiers = map[string]Bounds{
	ManaTierNormal:  {Min: 0, Max: 50},
	ManaTierSkilled: {Min: 50, Max: 200},
	ManaTierExpert:  {Min: 200, Max: 500},
	ManaTierMaster:  {Min: 500, Max: 1000},
}

var defaultSpellCosts = map[string]Bounds{
	"minor":     {Min: 5, Max: 20},
	"moderate":  {Min: 20, Max: 100},
	"major":     {Min: 100, Max: 500},
	"legendary": {Min: 500, Max: 1000},
}

// PriceMultiplier returns the default price multiplier for r, or 1 for an unknown tier.
func (r Rarity) PriceMultiplier() float64 {
	if m, ok := defaultPriceMultipliers[r]; ok {
		return m
	}
	return 1.0
}

// NewEconomicFramework returns a framework using currency with the default
// base prices and rarity multipliers. An empty currency selects DefaultCurrency.
func NewEconomicFramework(currency string) EconomicFramework {
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}
	multipliers := make(map[string]float64, len(defaultPriceMultipliers))
	for r, m := range defaultPriceMultipliers {
		multipliers[strings.ToLower(string(r))] = m
	}
	basePrices := make(map[string]map[string]int, len(defaultBasePrices))
	for category, prices := range defaultBasePrices {
		basePrices[category] = maps.Clone(prices)
	}
	return EconomicFramework{Currency: currency, BasePrices: basePrices, PriceMultipliers: multipliers}
}

func (e EconomicFramework) multiplier(r Rarity) float64 {
	if m, ok := e.PriceMultipliers[strings.ToLower(string(r))]; ok {
		return m
	}
	return r.PriceMultiplier()
}

// PriceFor returns the market price of it: its base value scaled by the
// framework's multiplier for its rarity, rounded to the nearest whole unit.
func (e EconomicFramework) PriceFor(it Item) int {
	return int(math.Round(float64(it.Value) * e.multiplier(it.Rarity)))
}

// BasePrice returns the reference price of item within category.
func (e EconomicFramework) BasePrice(category, item string) (int, bool) {
	p, ok := e.BasePrices[category][item]
	return p, ok
}

// MarketPrice returns the reference price of item scaled for rarity r.
func (e EconomicFramework) MarketPrice(category, item string, r Rarity) (int, bool) {
	base, ok := e.BasePrice(category, item)
	if !ok {
		return 0, false
	}
	return int(math.Round(float64(base) * e.multiplier(r))), true
}

// NewManaFramework returns the default mana tiers and spell cost bands.
func NewManaFramework() ManaFramework {
	return ManaFramework{
		Tiers:      maps.Clone(defaultManaTiers),
		SpellCosts: maps.Clone(defaultSpellCosts),
	}
}

// TierFor returns the strongest tier whose bounds contain maxMana. Tier bounds
// share their edges, so 50 is "skilled" rather than "normal_person".
func (m ManaFramework) TierFor(maxMana int) (string, bool) {
	for i := len(ManaTiers) - 1; i >= 0; i-- {
		if b, ok := m.Tiers[ManaTiers[i]]; ok && b.Contains(maxMana) {
			return ManaTiers[i], true
		}
	}
	return "", false
}

// SpellCostFits reports whether cost lies within the band for category.
func (m ManaFramework) SpellCostFits(category string, cost int) bool {
	b, ok := m.SpellCosts[category]
	return ok && b.Contains(cost)
}
