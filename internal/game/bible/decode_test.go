package bible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/testutil"
)

func TestDecodeCharacter(t *testing.T) {
	in, err := bible.DecodeCharacter(map[string]any{
		"name":       "Aria",
		"race":       "Elf",
		"attributes": map[string]any{"health": 10, "max_health": 12},
		"inventory": []any{
			map[string]any{"name": "Bow", "type": "weapon", "value": 30},
		},
		"goals":       []any{"Escape"},
		"protagonist": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Aria", in.Name)
	assert.Equal(t, 12, in.Attributes["max_health"])
	require.Len(t, in.Inventory, 1)
	assert.Equal(t, "Bow", in.Inventory[0].Name)
	assert.Equal(t, []string{"Escape"}, in.Goals)
	assert.True(t, in.Protagonist)
}

func TestDecodeCharacter_UnknownField(t *testing.T) {
	_, err := bible.DecodeCharacter(map[string]any{"name": "Aria", "race": "Elf", "mood": "grim"})
	require.Error(t, err)
	assert.Equal(t, bible.KindUnknownField, bible.KindOf(err))
	assert.Equal(t, []string{"character.mood"}, bible.FieldsOf(err))
}

func TestDecodeCharacter_WrongShape(t *testing.T) {
	_, err := bible.DecodeCharacter(map[string]any{"name": "Aria", "attributes": "strong"})
	require.Error(t, err)
	assert.Equal(t, bible.KindInvalidAttribute, bible.KindOf(err))
}

func TestDecodeCharacterPatch_RejectsImmutableFields(t *testing.T) {
	for _, key := range []string{"name", "race", "level"} {
		_, err := bible.DecodeCharacterPatch(map[string]any{key: "x"})
		require.Error(t, err, key)
		assert.Equal(t, bible.KindUnknownField, bible.KindOf(err))
		assert.Equal(t, []string{"patch." + key}, bible.FieldsOf(err))
	}
}

func TestDecodeCharacterPatch(t *testing.T) {
	p, err := bible.DecodeCharacterPatch(map[string]any{
		"current_location": "Capital City",
		"attributes":       map[string]any{"health": 50},
	})
	require.NoError(t, err)
	require.NotNil(t, p.CurrentLocation)
	assert.Equal(t, "Capital City", *p.CurrentLocation)
	assert.Equal(t, map[string]int{"health": 50}, p.Attributes)
	assert.Nil(t, p.Description)
	assert.False(t, p.IsEmpty())
}

func TestCharacterPatch_ApplyMergesMaps(t *testing.T) {
	base := testutil.CharacterInput("Aria")
	location := "Ancient Ruins"
	patch := bible.CharacterPatch{
		CurrentLocation: &location,
		Attributes:      map[string]int{"health": 40},
		Reputation:      map[string]int{"Thieves": -2},
	}
	out := patch.Apply(base)

	assert.Equal(t, "Ancient Ruins", out.CurrentLocation)
	assert.Equal(t, 40, out.Attributes["health"])
	assert.Equal(t, 100, out.Attributes["max_health"])
	assert.Equal(t, map[string]int{"Merchants Guild": 5, "Thieves": -2}, out.Reputation)
	assert.Equal(t, 90, base.Attributes["health"], "base must be untouched")
	assert.Equal(t, "Starting Village", base.CurrentLocation)
}

func TestCharacterPatch_ApplyReplacesLists(t *testing.T) {
	base := testutil.CharacterInput("Aria")
	goals := []string{}
	out := bible.CharacterPatch{Goals: &goals}.Apply(base)
	assert.Empty(t, out.Goals)
	assert.Len(t, base.Goals, 1)
}

func TestCharacterPatch_IsEmpty(t *testing.T) {
	assert.True(t, bible.CharacterPatch{}.IsEmpty())
	assert.True(t, bible.CharacterPatch{Attributes: map[string]int{}}.IsEmpty())
}

func TestDecodeCharacter_AcceptsWholeFloats(t *testing.T) {
	in, err := bible.DecodeCharacter(map[string]any{
		"name":       "Aria",
		"race":       "Elf",
		"attributes": map[string]any{"health": 90.0, "max_health": 100.0},
		"skills":     []any{map[string]any{"name": "Archery", "level": 40.0}},
		"reputation": map[string]any{"Merchants Guild": -3.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 90, in.Attributes["health"])
	assert.Equal(t, 40, in.Skills[0].Level)
	assert.Equal(t, -3, in.Reputation["Merchants Guild"])
}

func TestDecodeCharacter_RejectsLossyNumbers(t *testing.T) {
	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{
			name:  "fractional health",
			raw:   map[string]any{"attributes": map[string]any{"health": 100.9, "max_health": 100.0}},
			field: "character.attributes.health",
		},
		{
			name:  "small negative mana",
			raw:   map[string]any{"attributes": map[string]any{"mana": -0.5}},
			field: "character.attributes.mana",
		},
		{
			name:  "overflowing luck",
			raw:   map[string]any{"attributes": map[string]any{"luck": 1e19}},
			field: "character.attributes.luck",
		},
		{
			name:  "fractional skill level",
			raw:   map[string]any{"skills": []any{map[string]any{"name": "s", "level": 99.99}}},
			field: "character.skills[0].level",
		},
		{
			name:  "fractional item durability",
			raw:   map[string]any{"inventory": []any{map[string]any{"name": "Bow", "type": "weapon", "durability": 50.5}}},
			field: "character.inventory[0].durability",
		},
		{
			name:  "fractional reputation",
			raw:   map[string]any{"reputation": map[string]any{"Guild": 1.25}},
			field: "character.reputation.Guild",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"name": "Aria", "race": "Elf"}
			for k, v := range tt.raw {
				raw[k] = v
			}
			_, err := bible.DecodeCharacter(raw)
			require.Error(t, err)
			assert.Equal(t, bible.KindInvalidAttribute, bible.KindOf(err))
			assert.Equal(t, []string{tt.field}, bible.FieldsOf(err))
		})
	}
}

func TestDecodeCharacterPatch_RejectsLossyNumbers(t *testing.T) {
	_, err := bible.DecodeCharacterPatch(map[string]any{
		"attributes": map[string]any{"health": 100.5},
	})
	require.Error(t, err)
	assert.Equal(t, bible.KindInvalidAttribute, bible.KindOf(err))
	assert.Equal(t, []string{"patch.attributes.health"}, bible.FieldsOf(err))

	_, err = bible.DecodeCharacterPatch(map[string]any{
		"skills": []any{map[string]any{"name": "s", "level": 10.5}},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"patch.skills[0].level"}, bible.FieldsOf(err))
}

func TestProperty_DecodeCharacter_NumbersAreExactOrRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		whole := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "whole")
		frac := rapid.Float64Range(0.001, 0.999).Draw(t, "frac")

		in, err := bible.DecodeCharacter(map[string]any{
			"name": "Aria", "race": "Elf",
			"reputation": map[string]any{"Guild": float64(whole)},
		})
		if err != nil {
			t.Fatalf("whole number %d rejected: %v", whole, err)
		}
		if in.Reputation["Guild"] != whole {
			t.Fatalf("decoded %d, want %d", in.Reputation["Guild"], whole)
		}

		_, err = bible.DecodeCharacter(map[string]any{
			"name": "Aria", "race": "Elf",
			"reputation": map[string]any{"Guild": float64(whole) + frac},
		})
		if bible.KindOf(err) != bible.KindInvalidAttribute {
			t.Fatalf("fractional %v accepted or misreported: %v", float64(whole)+frac, err)
		}
	})
}
