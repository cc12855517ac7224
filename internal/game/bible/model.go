// Package bible defines the World Bible data model: the validated description
// of one game world, its characters and their items, together with the
// validators and consistency rules that guard it.
package bible

// Metadata identifies a world and its genre.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Style       Style    `json:"style" yaml:"style"`
	Version     string   `json:"version" yaml:"version"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Cosmology describes the fundamental rules of a world.
type Cosmology struct {
	MagicSystem    string    `json:"magic_system" yaml:"magic_system"`
	TechLevel      TechLevel `json:"tech_level" yaml:"tech_level"`
	CalendarSystem string    `json:"calendar_system" yaml:"calendar_system"`
	PhysicsLaws    string    `json:"physics_laws" yaml:"physics_laws"`
	Metaphysics    string    `json:"metaphysics" yaml:"metaphysics"`
}

// NamedRecord is a named, described entry such as a region, race, faction or religion.
type NamedRecord struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Region is a key region of a world's geography.
type Region struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Biome       string `json:"biome,omitempty" yaml:"biome,omitempty"`
}

// Geography describes the physical layout of a world.
type Geography struct {
	MacroGeography     string        `json:"macro_geography" yaml:"macro_geography"`
	KeyRegions         []Region      `json:"key_regions" yaml:"key_regions"`
	ClimateZones       []string      `json:"climate_zones,omitempty" yaml:"climate_zones,omitempty"`
	NaturalResources   []string      `json:"natural_resources,omitempty" yaml:"natural_resources,omitempty"`
	StrategicLocations []NamedRecord `json:"strategic_locations,omitempty" yaml:"strategic_locations,omitempty"`
}

// Society describes the peoples and powers of a world.
type Society struct {
	Races           []NamedRecord `json:"races" yaml:"races"`
	Factions        []NamedRecord `json:"factions" yaml:"factions"`
	SocialStructure string        `json:"social_structure" yaml:"social_structure"`
	CulturalTraits  []string      `json:"cultural_traits,omitempty" yaml:"cultural_traits,omitempty"`
	Languages       []string      `json:"languages,omitempty" yaml:"languages,omitempty"`
	Religions       []NamedRecord `json:"religions,omitempty" yaml:"religions,omitempty"`
}

// History describes the past of a world.
type History struct {
	CreationMyth     string            `json:"creation_myth" yaml:"creation_myth"`
	MajorConflicts   string            `json:"major_conflicts" yaml:"major_conflicts"`
	HistoricalEvents []string          `json:"historical_events" yaml:"historical_events"`
	Timeline         map[string]string `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Prophecies       []string          `json:"prophecies,omitempty" yaml:"prophecies,omitempty"`
	LostKnowledge    []string          `json:"lost_knowledge,omitempty" yaml:"lost_knowledge,omitempty"`
}

// Systems describes the game systems of a world.
type Systems struct {
	Economy           string `json:"economy" yaml:"economy"`
	Abilities         string `json:"abilities" yaml:"abilities"`
	Items             string `json:"items" yaml:"items"`
	CombatSystem      string `json:"combat_system" yaml:"combat_system"`
	ProgressionSystem string `json:"progression_system" yaml:"progression_system"`
	CraftingSystem    string `json:"crafting_system,omitempty" yaml:"crafting_system,omitempty"`
}

// Item is a validated inventory item.
type Item struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Type        ItemType       `json:"type" yaml:"type"`
	Rarity      Rarity         `json:"rarity" yaml:"rarity"`
	Value       int            `json:"value" yaml:"value"`
	Weight      float64        `json:"weight" yaml:"weight"`
	Durability  *int           `json:"durability,omitempty" yaml:"durability,omitempty"`
	Properties  map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Skill is a learned ability with a level in [0, 100].
type Skill struct {
	Name        string `json:"name" yaml:"name"`
	Level       int    `json:"level" yaml:"level"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Character is a validated character owned by exactly one world.
type Character struct {
	Name            string         `json:"name" yaml:"name"`
	Race            string         `json:"race" yaml:"race"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	Backstory       string         `json:"backstory,omitempty" yaml:"backstory,omitempty"`
	Attributes      map[string]int `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Inventory       []Item         `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	CurrentLocation string         `json:"current_location,omitempty" yaml:"current_location,omitempty"`
	Goals           []string       `json:"goals,omitempty" yaml:"goals,omitempty"`
	Skills          []Skill        `json:"skills,omitempty" yaml:"skills,omitempty"`
	Reputation      map[string]int `json:"reputation,omitempty" yaml:"reputation,omitempty"`
	StatusEffects   []string       `json:"status_effects,omitempty" yaml:"status_effects,omitempty"`
}

// EconomicFramework anchors prices across a world.
type EconomicFramework struct {
	Currency string `json:"currency" yaml:"currency"`
	// BasePrices maps a category (food, housing, ...) to item prices in Currency.
	BasePrices       map[string]map[string]int `json:"base_prices" yaml:"base_prices"`
	PriceMultipliers map[string]float64        `json:"price_multipliers" yaml:"price_multipliers"`
}

// Bounds is an inclusive integer range.
type Bounds struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether Min <= v <= Max.
func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// ManaFramework fixes the scale of mana pools and spell costs so that numbers
// mean the same thing across every character in a world.
type ManaFramework struct {
	Tiers      map[string]Bounds `json:"tiers" yaml:"tiers"`
	SpellCosts map[string]Bounds `json:"spell_costs" yaml:"spell_costs"`
}

// WorldBible is the complete, validated description of one game world.
//
// Invariant: every component is individually valid and the consistency rules
// held when the bible was built. Characters is keyed by character name, and
// Protagonist, when set, is also present in Characters under the same name.
type WorldBible struct {
	Metadata          Metadata              `json:"metadata" yaml:"metadata"`
	Cosmology         Cosmology             `json:"cosmology" yaml:"cosmology"`
	Geography         Geography             `json:"geography" yaml:"geography"`
	Society           Society               `json:"society" yaml:"society"`
	History           History               `json:"history" yaml:"history"`
	Systems           Systems               `json:"systems" yaml:"systems"`
	Protagonist       *Character            `json:"protagonist,omitempty" yaml:"protagonist,omitempty"`
	Characters        map[string]*Character `json:"characters" yaml:"characters"`
	Difficulty        string                `json:"difficulty" yaml:"difficulty"`
	ManaFramework     ManaFramework         `json:"mana_framework" yaml:"mana_framework"`
	EconomicFramework EconomicFramework     `json:"economic_framework" yaml:"economic_framework"`
}

// CharacterNames returns the names of every character in the world.
//
// Postcondition: Returns a non-nil slice; order is unspecified.
func (w *WorldBible) CharacterNames() []string {
	names := make([]string, 0, len(w.Characters))
	for name := range w.Characters {
		names = append(names, name)
	}
	return names
}
