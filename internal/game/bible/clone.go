package bible

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the item. Property values are scalars, so a
// shallow copy of the property map is sufficient.
func (it Item) Clone() Item {
	out := it
	if it.Durability != nil {
		d := *it.Durability
		out.Durability = &d
	}
	out.Properties = maps.Clone(it.Properties)
	return out
}

// Clone returns a deep copy of the character.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Attributes = maps.Clone(c.Attributes)
	out.Reputation = maps.Clone(c.Reputation)
	out.Goals = slices.Clone(c.Goals)
	out.Skills = slices.Clone(c.Skills)
	out.StatusEffects = slices.Clone(c.StatusEffects)
	if c.Inventory != nil {
		out.Inventory = make([]Item, len(c.Inventory))
		for i, it := range c.Inventory {
			out.Inventory[i] = it.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the world. The protagonist in the copy aliases
// the copied entry in Characters, mirroring the original.
func (w *WorldBible) Clone() *WorldBible {
	if w == nil {
		return nil
	}
	out := *w
	out.Metadata.Tags = slices.Clone(w.Metadata.Tags)

	out.Geography.KeyRegions = slices.Clone(w.Geography.KeyRegions)
	out.Geography.ClimateZones = slices.Clone(w.Geography.ClimateZones)
	out.Geography.NaturalResources = slices.Clone(w.Geography.NaturalResources)
	out.Geography.StrategicLocations = slices.Clone(w.Geography.StrategicLocations)

	out.Society.Races = slices.Clone(w.Society.Races)
	out.Society.Factions = slices.Clone(w.Society.Factions)
	out.Society.CulturalTraits = slices.Clone(w.Society.CulturalTraits)
	out.Society.Languages = slices.Clone(w.Society.Languages)
	out.Society.Religions = slices.Clone(w.Society.Religions)

	out.History.HistoricalEvents = slices.Clone(w.History.HistoricalEvents)
	out.History.Timeline = maps.Clone(w.History.Timeline)
	out.History.Prophecies = slices.Clone(w.History.Prophecies)
	out.History.LostKnowledge = slices.Clone(w.History.LostKnowledge)

	out.EconomicFramework.PriceMultipliers = maps.Clone(w.EconomicFramework.PriceMultipliers)
	if w.EconomicFramework.BasePrices != nil {
		out.EconomicFramework.BasePrices = make(map[string]map[string]int, len(w.EconomicFramework.BasePrices))
		for category, prices := range w.EconomicFramework.BasePrices {
			out.EconomicFramework.BasePrices[category] = maps.Clone(prices)
		}
	}
	out.ManaFramework.Tiers = maps.Clone(w.ManaFramework.Tiers)
	out.ManaFramework.SpellCosts = maps.Clone(w.ManaFramework.SpellCosts)

	out.Characters = make(map[string]*Character, len(w.Characters))
	for name, c := range w.Characters {
		out.Characters[name] = c.Clone()
	}
	out.Protagonist = nil
	if w.Protagonist != nil {
		if c, ok := out.Characters[w.Protagonist.Name]; ok {
			out.Protagonist = c
		} else {
			out.Protagonist = w.Protagonist.Clone()
		}
	}
	return &out
}
