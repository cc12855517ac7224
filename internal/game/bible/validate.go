package bible

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Defaults applied to optional fields during validation.
const (
	DefaultVersion           = "1.0.0"
	DefaultMetaphysics       = "Standard physical laws apply"
	DefaultProgressionSystem = "Level-based advancement"
	DefaultDifficulty        = "Normal"
)

// Attribute bounds.
const (
	MinSkillLevel  = 0
	MaxSkillLevel  = 100
	MinDurability  = 0
	MaxDurability  = 100
	attributesPath = "character.attributes"
)

// RecognizedAttributes lists the attribute keys a character may carry.
var RecognizedAttributes = []string{
	"health", "max_health",
	"mana", "max_mana",
	"stamina", "max_stamina",
	"strength", "agility", "intelligence", "wisdom", "charisma", "luck",
}

// attributeCaps pairs each current-value attribute with its maximum.
var attributeCaps = [][2]string{
	{"health", "max_health"},
	{"mana", "max_mana"},
	{"stamina", "max_stamina"},
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateMetadata validates and normalizes world metadata.
//
// Postcondition: Returns valid Metadata with a semantic Version and de-duplicated
// Tags, or a MISSING_FIELD, INVALID_ENUM or INVALID_ATTRIBUTE error.
func ValidateMetadata(in MetadataInput) (Metadata, error) {
	if blank(in.Name) {
		return Metadata{}, NewError(KindMissingField, "metadata.name", "metadata.name is required")
	}
	if blank(in.Description) {
		return Metadata{}, NewError(KindMissingField, "metadata.description", "metadata.description is required")
	}
	style, err := ParseStyle(in.Style)
	if err != nil {
		return Metadata{}, err
	}
	version := strings.TrimSpace(in.Version)
	if version == "" {
		version = DefaultVersion
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return Metadata{}, NewError(KindInvalidAttribute, "metadata.version",
			"metadata.version %q is not a semantic version", version)
	}

	var tags []string
	seen := make(map[string]bool, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}

	return Metadata{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Style:       style,
		Version:     version,
		Author:      strings.TrimSpace(in.Author),
		Tags:        tags,
	}, nil
}

// ValidateCosmology validates a cosmology, rejecting unknown tech levels.
func ValidateCosmology(in CosmologyInput) (Cosmology, error) {
	tech, err := ParseTechLevel(in.TechLevel)
	if err != nil {
		return Cosmology{}, err
	}
	meta := strings.TrimSpace(in.Metaphysics)
	if meta == "" {
		meta = DefaultMetaphysics
	}
	return Cosmology{
		MagicSystem:    strings.TrimSpace(in.MagicSystem),
		TechLevel:      tech,
		CalendarSystem: strings.TrimSpace(in.CalendarSystem),
		PhysicsLaws:    strings.TrimSpace(in.PhysicsLaws),
		Metaphysics:    meta,
	}, nil
}

func validateNamed(path string, records []NamedRecord) error {
	for i, r := range records {
		if blank(r.Name) {
			field := fmt.Sprintf("%s[%d].name", path, i)
			return NewError(KindMissingField, field, "%s is required", field)
		}
	}
	return nil
}

func validateStrings(path string, values []string) error {
	for i, v := range values {
		if blank(v) {
			field := fmt.Sprintf("%s[%d]", path, i)
			return NewError(KindMissingField, field, "%s must not be empty", field)
		}
	}
	return nil
}

// ValidateGeography checks that every region and strategic location is named and described.
func ValidateGeography(g Geography) (Geography, error) {
	for i, r := range g.KeyRegions {
		if blank(r.Name) {
			field := fmt.Sprintf("geography.key_regions[%d].name", i)
			return Geography{}, NewError(KindMissingField, field, "%s is required", field)
		}
		if blank(r.Description) {
			field := fmt.Sprintf("geography.key_regions[%d].description", i)
			return Geography{}, NewError(KindMissingField, field, "%s is required", field)
		}
	}
	if err := validateNamed("geography.strategic_locations", g.StrategicLocations); err != nil {
		return Geography{}, err
	}
	return g, nil
}

// ValidateSociety checks that every race, faction and religion is named.
func ValidateSociety(s Society) (Society, error) {
	if err := validateNamed("society.races", s.Races); err != nil {
		return Society{}, err
	}
	if err := validateNamed("society.factions", s.Factions); err != nil {
		return Society{}, err
	}
	if err := validateNamed("society.religions", s.Religions); err != nil {
		return Society{}, err
	}
	return s, nil
}

// ValidateHistory checks that historical events are non-empty.
func ValidateHistory(h History) (History, error) {
	if err := validateStrings("history.historical_events", h.HistoricalEvents); err != nil {
		return History{}, err
	}
	return h, nil
}

// ValidateSystems fills the default progression system.
func ValidateSystems(s Systems) (Systems, error) {
	if blank(s.ProgressionSystem) {
		s.ProgressionSystem = DefaultProgressionSystem
	}
	return s, nil
}

// ValidateItem validates a standalone item.
//
// Postcondition: Returns a valid Item, or an error of kind MISSING_FIELD,
// INVALID_ENUM, INVALID_RANGE or INVALID_ATTRIBUTE.
func ValidateItem(in ItemInput) (Item, error) {
	return validateItem("item", in)
}

func validateItem(path string, in ItemInput) (Item, error) {
	if blank(in.Name) {
		return Item{}, NewError(KindMissingField, path+".name", "%s.name is required", path)
	}
	typ, err := parseEnum(path+".type", in.Type, ItemTypes)
	if err != nil {
		return Item{}, err
	}
	rarity := RarityCommon
	if in.Rarity != "" {
		if rarity, err = parseEnum(path+".rarity", in.Rarity, Rarities); err != nil {
			return Item{}, err
		}
	}
	if in.Value < 0 {
		return Item{}, NewError(KindInvalidRange, path+".value",
			"%s.value must be >= 0, got %d", path, in.Value)
	}
	if in.Weight < 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return Item{}, NewError(KindInvalidRange, path+".weight",
			"%s.weight must be a finite number >= 0, got %v", path, in.Weight)
	}
	var durability *int
	if in.Durability != nil {
		d := *in.Durability
		if d < MinDurability || d > MaxDurability {
			return Item{}, NewError(KindInvalidRange, path+".durability",
				"%s.durability must be %d-%d, got %d", path, MinDurability, MaxDurability, d)
		}
		durability = &d
	}
	for _, key := range slices.Sorted(maps.Keys(in.Properties)) {
		if !isScalar(in.Properties[key]) {
			field := path + ".properties." + key
			return Item{}, NewError(KindInvalidAttribute, field,
				"%s must be a string, number, bool or null, got %T", field, in.Properties[key])
		}
	}
	return Item{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		Rarity:      rarity,
		Value:       in.Value,
		Weight:      in.Weight,
		Durability:  durability,
		Properties:  maps.Clone(in.Properties),
	}, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// ValidateAttributes checks attribute keys, signs and current/maximum pairs.
func ValidateAttributes(attrs map[string]int) error {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		field := attributesPath + "." + key
		if !slices.Contains(RecognizedAttributes, key) {
			return NewError(KindInvalidAttribute, field, "%s is not a recognized attribute", field)
		}
		if attrs[key] < 0 {
			return NewError(KindInvalidAttribute, field, "%s must be >= 0, got %d", field, attrs[key])
		}
	}
	for _, pair := range attributeCaps {
		cur, hasCur := attrs[pair[0]]
		limit, hasLimit := attrs[pair[1]]
		if hasCur && hasLimit && cur > limit {
			field := attributesPath + "." + pair[0]
			return NewError(KindInvalidAttribute, field,
				"%s (%d) must not exceed %s (%d)", pair[0], cur, pair[1], limit)
		}
	}
	return nil
}

// ValidateCharacter validates a character for insertion into a world whose
// characters are named existingNames.
//
// Postcondition: Returns a valid Character, or an error of kind MISSING_FIELD,
// DUPLICATE_NAME, INVALID_ATTRIBUTE, INVALID_RANGE or INVALID_ENUM.
func ValidateCharacter(in CharacterInput, existingNames []string) (*Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewError(KindMissingField, "character.name", "character.name is required")
	}
	if slices.Contains(existingNames, name) {
		return nil, NewError(KindDuplicateName, "character.name", "character %q already exists", name)
	}
	if blank(in.Race) {
		return nil, NewError(KindMissingField, "character.race", "character.race is required")
	}
	if err := ValidateAttributes(in.Attributes); err != nil {
		return nil, err
	}
	for i, s := range in.Skills {
		if blank(s.Name) {
			field := fmt.Sprintf("character.skills[%d].name", i)
			return nil, NewError(KindMissingField, field, "%s is required", field)
		}
		if s.Level < MinSkillLevel || s.Level > MaxSkillLevel {
			field := fmt.Sprintf("character.skills[%d].level", i)
			return nil, NewError(KindInvalidRange, field,
				"%s must be %d-%d, got %d", field, MinSkillLevel, MaxSkillLevel, s.Level)
		}
	}
	for faction := range in.Reputation {
		if blank(faction) {
			return nil, NewError(KindMissingField, "character.reputation",
				"character.reputation keys must name a faction")
		}
	}
	if err := validateStrings("character.goals", in.Goals); err != nil {
		return nil, err
	}
	if err := validateStrings("character.status_effects", in.StatusEffects); err != nil {
		return nil, err
	}
	var inventory []Item
	for i, raw := range in.Inventory {
		it, err := validateItem(fmt.Sprintf("character.inventory[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		inventory = append(inventory, it)
	}

	return &Character{
		Name:            name,
		Race:            strings.TrimSpace(in.Race),
		Description:     strings.TrimSpace(in.Description),
		Backstory:       strings.TrimSpace(in.Backstory),
		Attributes:      maps.Clone(in.Attributes),
		Inventory:       inventory,
		CurrentLocation: strings.TrimSpace(in.CurrentLocation),
		Goals:           slices.Clone(in.Goals),
		Skills:          slices.Clone(in.Skills),
		Reputation:      maps.Clone(in.Reputation),
		StatusEffects:   slices.Clone(in.StatusEffects),
	}, nil
}

// ValidateWorld validates every component of in and then applies DefaultRules.
func ValidateWorld(in WorldInput) (*WorldBible, error) {
	return ValidateWorldWithRules(in, DefaultRules)
}

// ValidateWorldWithRules validates every component of in and then applies the
// given consistency rules. Validation is all-or-nothing: on error no bible is returned.
func ValidateWorldWithRules(in WorldInput, rules []ConsistencyRule) (*WorldBible, error) {
	meta, err := ValidateMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	cosmology, err := ValidateCosmology(in.Cosmology)
	if err != nil {
		return nil, err
	}
	geography, err := ValidateGeography(in.Geography)
	if err != nil {
		return nil, err
	}
	society, err := ValidateSociety(in.Society)
	if err != nil {
		return nil, err
	}
	history, err := ValidateHistory(in.History)
	if err != nil {
		return nil, err
	}
	systems, err := ValidateSystems(in.Systems)
	if err != nil {
		return nil, err
	}
	if err := CheckConsistency(rules, ConsistencySubject{
		Style:     meta.Style,
		Cosmology: cosmology,
		Society:   society,
	}); err != nil {
		return nil, err
	}

	difficulty := strings.TrimSpace(in.Difficulty)
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	w := &WorldBible{
		Metadata:          meta,
		Cosmology:         cosmology,
		Geography:         geography,
		Society:           society,
		History:           history,
		Systems:           systems,
		Characters:        make(map[string]*Character),
		Difficulty:        difficulty,
		ManaFramework:     NewManaFramework(),
		EconomicFramework: NewEconomicFramework(in.Currency),
	}
	// Detach the result from caller-owned slices and maps.
	return w.Clone(), nil
}
