package bible_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/testutil"
)

func intPtr(v int) *int { return &v }

func TestValidateMetadata_DefaultsVersionAndDedupesTags(t *testing.T) {
	m, err := bible.ValidateMetadata(bible.MetadataInput{
		Name:        "  Aldoria ",
		Description: "A kingdom",
		Style:       "Fantasy",
		Tags:        []string{"a", "b", "a", " ", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Aldoria", m.Name)
	assert.Equal(t, bible.StyleFantasy, m.Style)
	assert.Equal(t, bible.DefaultVersion, m.Version)
	assert.Equal(t, []string{"a", "b"}, m.Tags)
}

func TestValidateMetadata_Errors(t *testing.T) {
	cases := []struct {
		name  string
		in    bible.MetadataInput
		kind  bible.Kind
		field string
	}{
		{"missing name", bible.MetadataInput{Description: "d", Style: "Fantasy"}, bible.KindMissingField, "metadata.name"},
		{"blank name", bible.MetadataInput{Name: "  ", Description: "d", Style: "Fantasy"}, bible.KindMissingField, "metadata.name"},
		{"missing description", bible.MetadataInput{Name: "n", Style: "Fantasy"}, bible.KindMissingField, "metadata.description"},
		{"bad style", bible.MetadataInput{Name: "n", Description: "d", Style: "Space Opera"}, bible.KindInvalidEnum, "metadata.style"},
		{"bad version", bible.MetadataInput{Name: "n", Description: "d", Style: "Fantasy", Version: "one"}, bible.KindInvalidAttribute, "metadata.version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bible.ValidateMetadata(tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, bible.KindOf(err))
			assert.Equal(t, []string{tc.field}, bible.FieldsOf(err))
		})
	}
}

func TestValidateCosmology_DefaultsMetaphysics(t *testing.T) {
	c, err := bible.ValidateCosmology(bible.CosmologyInput{TechLevel: "Medieval"})
	require.NoError(t, err)
	assert.Equal(t, bible.TechMedieval, c.TechLevel)
	assert.Equal(t, bible.DefaultMetaphysics, c.Metaphysics)
}

func TestValidateCosmology_RejectsUnknownTechLevel(t *testing.T) {
	_, err := bible.ValidateCosmology(bible.CosmologyInput{TechLevel: "Space Age"})
	assert.Equal(t, bible.KindInvalidEnum, bible.KindOf(err))
}

func TestValidateGeography_RequiresRegionDescription(t *testing.T) {
	_, err := bible.ValidateGeography(bible.Geography{
		KeyRegions: []bible.Region{{Name: "North"}, {Name: "South"}},
	})
	require.Error(t, err)
	assert.Equal(t, bible.KindMissingField, bible.KindOf(err))
	assert.Equal(t, []string{"geography.key_regions[0].description"}, bible.FieldsOf(err))
}

func TestValidateSociety_RequiresFactionName(t *testing.T) {
	_, err := bible.ValidateSociety(bible.Society{
		Races:    []bible.NamedRecord{{Name: "Humans"}},
		Factions: []bible.NamedRecord{{Name: "Guild"}, {Description: "nameless"}},
	})
	assert.Equal(t, []string{"society.factions[1].name"}, bible.FieldsOf(err))
}

func TestValidateHistory_RejectsEmptyEvent(t *testing.T) {
	_, err := bible.ValidateHistory(bible.History{HistoricalEvents: []string{"founding", ""}})
	assert.Equal(t, []string{"history.historical_events[1]"}, bible.FieldsOf(err))
}

func TestValidateSystems_DefaultsProgression(t *testing.T) {
	s, err := bible.ValidateSystems(bible.Systems{})
	require.NoError(t, err)
	assert.Equal(t, bible.DefaultProgressionSystem, s.ProgressionSystem)
}

func TestValidateItem_DefaultsRarity(t *testing.T) {
	it, err := bible.ValidateItem(bible.ItemInput{Name: "Rope", Type: "misc"})
	require.NoError(t, err)
	assert.Equal(t, bible.RarityCommon, it.Rarity)
	assert.Nil(t, it.Durability)
}

func TestValidateItem_Errors(t *testing.T) {
	cases := []struct {
		name  string
		in    bible.ItemInput
		kind  bible.Kind
		field string
	}{
		{"missing name", bible.ItemInput{Type: "misc"}, bible.KindMissingField, "item.name"},
		{"bad type", bible.ItemInput{Name: "x", Type: "gizmo"}, bible.KindInvalidEnum, "item.type"},
		{"bad rarity", bible.ItemInput{Name: "x", Type: "misc", Rarity: "Mythic"}, bible.KindInvalidEnum, "item.rarity"},
		{"negative value", bible.ItemInput{Name: "x", Type: "misc", Value: -1}, bible.KindInvalidRange, "item.value"},
		{"negative weight", bible.ItemInput{Name: "x", Type: "misc", Weight: -0.5}, bible.KindInvalidRange, "item.weight"},
		{"nan weight", bible.ItemInput{Name: "x", Type: "misc", Weight: math.NaN()}, bible.KindInvalidRange, "item.weight"},
		{"durability high", bible.ItemInput{Name: "x", Type: "misc", Durability: intPtr(101)}, bible.KindInvalidRange, "item.durability"},
		{"durability low", bible.ItemInput{Name: "x", Type: "misc", Durability: intPtr(-1)}, bible.KindInvalidRange, "item.durability"},
		{"nested property", bible.ItemInput{Name: "x", Type: "misc", Properties: map[string]any{"bad": []any{1}}}, bible.KindInvalidAttribute, "item.properties.bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bible.ValidateItem(tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, bible.KindOf(err))
			assert.Equal(t, []string{tc.field}, bible.FieldsOf(err))
		})
	}
}

func TestValidateItem_DurabilityBoundsInclusive(t *testing.T) {
	for _, d := range []int{bible.MinDurability, bible.MaxDurability} {
		it, err := bible.ValidateItem(bible.ItemInput{Name: "x", Type: "armor", Durability: intPtr(d)})
		require.NoError(t, err)
		require.NotNil(t, it.Durability)
		assert.Equal(t, d, *it.Durability)
	}
}

func TestValidateAttributes(t *testing.T) {
	cases := []struct {
		name  string
		attrs map[string]int
		field string
	}{
		{"unknown key", map[string]int{"karma": 1}, "character.attributes.karma"},
		{"negative", map[string]int{"strength": -1}, "character.attributes.strength"},
		{"health over max", map[string]int{"health": 11, "max_health": 10}, "character.attributes.health"},
		{"mana over max", map[string]int{"mana": 5, "max_mana": 4}, "character.attributes.mana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := bible.ValidateAttributes(tc.attrs)
			require.Error(t, err)
			assert.Equal(t, bible.KindInvalidAttribute, bible.KindOf(err))
			assert.Equal(t, []string{tc.field}, bible.FieldsOf(err))
		})
	}
	assert.NoError(t, bible.ValidateAttributes(map[string]int{"health": 10, "max_health": 10}))
	assert.NoError(t, bible.ValidateAttributes(nil))
}

func TestValidateCharacter_Valid(t *testing.T) {
	c, err := bible.ValidateCharacter(testutil.CharacterInput("Aria"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Aria", c.Name)
	require.Len(t, c.Inventory, 1)
	assert.Equal(t, bible.RarityUncommon, c.Inventory[0].Rarity)
}

func TestValidateCharacter_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*bible.CharacterInput)
		kind   bible.Kind
		field  string
	}{
		{"missing name", func(in *bible.CharacterInput) { in.Name = "" }, bible.KindMissingField, "character.name"},
		{"missing race", func(in *bible.CharacterInput) { in.Race = " " }, bible.KindMissingField, "character.race"},
		{"bad attribute", func(in *bible.CharacterInput) { in.Attributes["luck"] = -3 }, bible.KindInvalidAttribute, "character.attributes.luck"},
		{"skill level", func(in *bible.CharacterInput) { in.Skills[0].Level = 101 }, bible.KindInvalidRange, "character.skills[0].level"},
		{"skill name", func(in *bible.CharacterInput) { in.Skills[0].Name = "" }, bible.KindMissingField, "character.skills[0].name"},
		{"empty goal", func(in *bible.CharacterInput) { in.Goals = append(in.Goals, "") }, bible.KindMissingField, "character.goals[1]"},
		{"bad item", func(in *bible.CharacterInput) { in.Inventory[0].Type = "gizmo" }, bible.KindInvalidEnum, "character.inventory[0].type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testutil.CharacterInput("Aria")
			tc.mutate(&in)
			_, err := bible.ValidateCharacter(in, nil)
			require.Error(t, err)
			assert.Equal(t, tc.kind, bible.KindOf(err))
			assert.Equal(t, []string{tc.field}, bible.FieldsOf(err))
		})
	}
}

func TestValidateCharacter_DuplicateName(t *testing.T) {
	_, err := bible.ValidateCharacter(testutil.CharacterInput("Aria"), []string{"Borin", "Aria"})
	require.Error(t, err)
	assert.Equal(t, bible.KindDuplicateName, bible.KindOf(err))
}

func TestValidateCharacter_DoesNotAliasInput(t *testing.T) {
	in := testutil.CharacterInput("Aria")
	c, err := bible.ValidateCharacter(in, nil)
	require.NoError(t, err)
	in.Attributes["strength"] = 99
	in.Goals[0] = "changed"
	assert.Equal(t, 12, c.Attributes["strength"])
	assert.Equal(t, "Find the lost relic", c.Goals[0])
}

func TestValidateWorld_AllStylesBuild(t *testing.T) {
	for _, s := range bible.Styles {
		w, err := bible.ValidateWorldWithRules(testutil.WorldInput(s), bible.StrictRules)
		require.NoError(t, err, s)
		assert.Equal(t, s, w.Metadata.Style)
		assert.Empty(t, w.Characters)
		assert.NotNil(t, w.Characters)
		assert.Nil(t, w.Protagonist)
		assert.Equal(t, bible.DefaultDifficulty, w.Difficulty)
		assert.Equal(t, bible.DefaultCurrency, w.EconomicFramework.Currency)
	}
}

func TestValidateWorld_ReportsFirstComponentError(t *testing.T) {
	in := testutil.WorldInput(bible.StyleFantasy)
	in.Metadata.Style = "Space Opera"
	in.Cosmology.TechLevel = "Space Age"
	_, err := bible.ValidateWorld(in)
	require.Error(t, err)
	assert.Equal(t, []string{"metadata.style"}, bible.FieldsOf(err))
}

func TestValidateWorld_ConsistencyError(t *testing.T) {
	in := testutil.WorldInput(bible.StyleFantasy)
	in.Cosmology.TechLevel = "Futuristic"
	in.Cosmology.MagicSystem = ""
	w, err := bible.ValidateWorld(in)
	require.Error(t, err)
	assert.Nil(t, w)
	assert.Equal(t, bible.KindConsistency, bible.KindOf(err))
	assert.Contains(t, bible.FieldsOf(err), "cosmology.magic_system")
}

func TestValidateWorld_DoesNotAliasInput(t *testing.T) {
	in := testutil.WorldInput(bible.StyleFantasy)
	w, err := bible.ValidateWorld(in)
	require.NoError(t, err)
	in.Geography.KeyRegions[0].Name = "changed"
	in.Society.Races[0].Name = "changed"
	assert.Equal(t, "Starting Village", w.Geography.KeyRegions[0].Name)
	assert.Equal(t, "Humans", w.Society.Races[0].Name)
}

func TestProperty_ValidateCharacter_SkillLevelRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(-50, 150).Draw(rt, "level")
		in := testutil.CharacterInput("Aria")
		in.Skills = []bible.Skill{{Name: "Lore", Level: level}}
		_, err := bible.ValidateCharacter(in, nil)
		inRange := level >= bible.MinSkillLevel && level <= bible.MaxSkillLevel
		if inRange && err != nil {
			rt.Fatalf("level %d should be accepted: %v", level, err)
		}
		if !inRange && bible.KindOf(err) != bible.KindInvalidRange {
			rt.Fatalf("level %d should fail with INVALID_RANGE, got %v", level, err)
		}
	})
}

func TestProperty_ValidateCharacter_NameUniqueness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfDistinct(rapid.StringMatching(`[A-Z][a-z]{2,8}`), rapid.ID[string]).Draw(rt, "names")
		name := rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(rt, "name")
		_, err := bible.ValidateCharacter(testutil.CharacterInput(name), names)
		taken := false
		for _, n := range names {
			if n == name {
				taken = true
			}
		}
		if taken != (bible.KindOf(err) == bible.KindDuplicateName) {
			rt.Fatalf("name %q taken=%v but got %v", name, taken, err)
		}
	})
}
