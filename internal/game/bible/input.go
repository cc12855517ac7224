package bible

// MetadataInput is the unvalidated form of Metadata.
type MetadataInput struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Style       string   `json:"style" yaml:"style"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// CosmologyInput is the unvalidated form of Cosmology.
type CosmologyInput struct {
	MagicSystem    string `json:"magic_system" yaml:"magic_system"`
	TechLevel      string `json:"tech_level" yaml:"tech_level"`
	CalendarSystem string `json:"calendar_system" yaml:"calendar_system"`
	PhysicsLaws    string `json:"physics_laws" yaml:"physics_laws"`
	Metaphysics    string `json:"metaphysics,omitempty" yaml:"metaphysics,omitempty"`
}

// ItemInput is the unvalidated form of Item.
type ItemInput struct {
	Name        string         `json:"name" jsonschema:"item name"`
	Description string         `json:"description,omitempty" jsonschema:"item description"`
	Type        string         `json:"type" jsonschema:"one of weapon, armor, consumable, quest, misc"`
	Rarity      string         `json:"rarity,omitempty" jsonschema:"Common, Uncommon, Rare, Epic or Legendary; defaults to Common"`
	Value       int            `json:"value,omitempty" jsonschema:"base monetary value, non-negative"`
	Weight      float64        `json:"weight,omitempty" jsonschema:"weight in kg, non-negative"`
	Durability  *int           `json:"durability,omitempty" jsonschema:"durability percentage 0-100"`
	Properties  map[string]any `json:"properties,omitempty" jsonschema:"scalar properties keyed by name"`
}

// CharacterInput is the unvalidated form of Character as supplied by callers.
type CharacterInput struct {
	Name            string         `json:"name" jsonschema:"character name, unique within the world"`
	Race            string         `json:"race" jsonschema:"character race"`
	Description     string         `json:"description,omitempty" jsonschema:"physical and personality description"`
	Backstory       string         `json:"backstory,omitempty" jsonschema:"personal history"`
	Attributes      map[string]int `json:"attributes,omitempty" jsonschema:"attribute name to non-negative value"`
	Inventory       []ItemInput    `json:"inventory,omitempty" jsonschema:"carried items"`
	CurrentLocation string         `json:"current_location,omitempty" jsonschema:"current location"`
	Goals           []string       `json:"goals,omitempty" jsonschema:"ordered goals"`
	Skills          []Skill        `json:"skills,omitempty" jsonschema:"learned skills"`
	Reputation      map[string]int `json:"reputation,omitempty" jsonschema:"faction name to signed reputation"`
	StatusEffects   []string       `json:"status_effects,omitempty" jsonschema:"named status effects"`
	Protagonist     bool           `json:"protagonist,omitempty" jsonschema:"also assign this character as the world's protagonist"`
}

// WorldInput is the unvalidated form of a complete WorldBible.
type WorldInput struct {
	Metadata   MetadataInput  `json:"metadata" yaml:"metadata"`
	Cosmology  CosmologyInput `json:"cosmology" yaml:"cosmology"`
	Geography  Geography      `json:"geography" yaml:"geography"`
	Society    Society        `json:"society" yaml:"society"`
	History    History        `json:"history" yaml:"history"`
	Systems    Systems        `json:"systems" yaml:"systems"`
	Difficulty string         `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Currency   string         `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Input converts a validated item back into its input form.
func (it Item) Input() ItemInput {
	c := it.Clone()
	return ItemInput{
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		Rarity:      string(c.Rarity),
		Value:       c.Value,
		Weight:      c.Weight,
		Durability:  c.Durability,
		Properties:  c.Properties,
	}
}

// Input converts a validated character back into its input form so it can be
// patched and re-validated.
func (c *Character) Input() CharacterInput {
	cp := c.Clone()
	in := CharacterInput{
		Name:            cp.Name,
		Race:            cp.Race,
		Description:     cp.Description,
		Backstory:       cp.Backstory,
		Attributes:      cp.Attributes,
		CurrentLocation: cp.CurrentLocation,
		Goals:           cp.Goals,
		Skills:          cp.Skills,
		Reputation:      cp.Reputation,
		StatusEffects:   cp.StatusEffects,
	}
	for _, it := range cp.Inventory {
		in.Inventory = append(in.Inventory, it.Input())
	}
	return in
}
