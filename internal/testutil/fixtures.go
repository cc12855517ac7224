// Package testutil provides shared fixtures for world bible tests.
package testutil

import (
	"github.com/cory-johannsen/worldbible/internal/game/bible"
)

// WorldInput returns a complete, valid world input of the given style. The
// tech level is Medieval so every style passes the strict consistency rules.
//
// Postcondition: bible.ValidateWorldWithRules(WorldInput(s), bible.StrictRules) succeeds for every s in bible.Styles.
func WorldInput(style bible.Style) bible.WorldInput {
	return bible.WorldInput{
		Metadata: bible.MetadataInput{
			Name:        "Test Realm",
			Description: "A realm built for tests.",
			Style:       string(style),
			Version:     "1.0.0",
			Author:      "testutil",
			Tags:        []string{"test", "fixture"},
		},
		Cosmology: bible.CosmologyInput{
			MagicSystem:    "Runes carved into standing stones",
			TechLevel:      string(bible.TechMedieval),
			CalendarSystem: "Thirteen moons",
			PhysicsLaws:    "Standard physics",
		},
		Geography: bible.Geography{
			MacroGeography: "One continent ringed by islands",
			KeyRegions: []bible.Region{
				{Name: "Starting Village", Description: "A quiet village.", Biome: "temperate"},
				{Name: "Capital City", Description: "The seat of power.", Biome: "urban"},
			},
			ClimateZones: []string{"temperate"},
		},
		Society: bible.Society{
			Races:           []bible.NamedRecord{{Name: "Humans", Description: "Adaptable."}},
			Factions:        []bible.NamedRecord{{Name: "Merchants Guild", Description: "Controls trade."}},
			SocialStructure: "Feudal",
		},
		History: bible.History{
			CreationMyth:     "The world was sung into being.",
			MajorConflicts:   "The Long War",
			HistoricalEvents: []string{"The founding", "The Long War"},
		},
		Systems: bible.Systems{
			Economy:      "Barter and coin",
			Abilities:    "Trained skills",
			Items:        "Hand-crafted goods",
			CombatSystem: "Turn-based",
		},
	}
}

// CharacterInput returns a valid character input named name.
func CharacterInput(name string) bible.CharacterInput {
	durability := 80
	return bible.CharacterInput{
		Name:        name,
		Race:        "Human",
		Description: "A wandering adventurer.",
		Attributes: map[string]int{
			"health":     90,
			"max_health": 100,
			"strength":   12,
		},
		Inventory: []bible.ItemInput{
			{Name: "Short Sword", Type: "weapon", Rarity: "Uncommon", Value: 40, Weight: 1.5, Durability: &durability},
		},
		CurrentLocation: "Starting Village",
		Goals:           []string{"Find the lost relic"},
		Skills:          []bible.Skill{{Name: "Swordsmanship", Level: 20}},
		Reputation:      map[string]int{"Merchants Guild": 5},
	}
}

// TB is the subset of testing.TB that fixtures need. Both *testing.T and
// *rapid.T satisfy it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// World returns a validated world of the given style or fails the test.
func World(t TB, style bible.Style) *bible.WorldBible {
	t.Helper()
	w, err := bible.ValidateWorld(WorldInput(style))
	if err != nil {
		t.Fatalf("building %s fixture world: %v", style, err)
	}
	return w
}
