package bible

import (
	"strings"
)

// Style is the primary genre of a world.
type Style string

// Recognized world styles.
const (
	StyleFantasy         Style = "Fantasy"
	StyleSciFi           Style = "Sci-Fi"
	StyleCyberpunk       Style = "Cyberpunk"
	StyleSteampunk       Style = "Steampunk"
	StylePostApocalyptic Style = "Post-Apocalyptic"
	StyleHistorical      Style = "Historical"
	StyleModern          Style = "Modern"
	StyleHorror          Style = "Horror"
)

// Styles contains every recognized style.
var Styles = []Style{
	StyleFantasy, StyleSciFi, StyleCyberpunk, StyleSteampunk,
	StylePostApocalyptic, StyleHistorical, StyleModern, StyleHorror,
}

// TechLevel is the general level of technology in a world.
type TechLevel string

// Recognized technology levels, oldest first.
const (
	TechStoneAge     TechLevel = "Stone Age"
	TechBronzeAge    TechLevel = "Bronze Age"
	TechIronAge      TechLevel = "Iron Age"
	TechMedieval     TechLevel = "Medieval"
	TechRenaissance  TechLevel = "Renaissance"
	TechIndustrial   TechLevel = "Industrial"
	TechModern       TechLevel = "Modern"
	TechInformation  TechLevel = "Information Age"
	TechNearFuture   TechLevel = "Near Future"
	TechFuturistic   TechLevel = "Futuristic"
	TechInterstellar TechLevel = "Interstellar"
	TechTranshuman   TechLevel = "Transhuman"
)

// TechLevels contains every recognized tech level, oldest first.
var TechLevels = []TechLevel{
	TechStoneAge, TechBronzeAge, TechIronAge, TechMedieval,
	TechRenaissance, TechIndustrial, TechModern, TechInformation,
	TechNearFuture, TechFuturistic, TechInterstellar, TechTranshuman,
}

// ItemType classifies an inventory item.
type ItemType string

// Recognized item types.
const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemConsumable ItemType = "consumable"
	ItemQuest      ItemType = "quest"
	ItemMisc       ItemType = "misc"
)

// ItemTypes contains every recognized item type.
var ItemTypes = []ItemType{ItemWeapon, ItemArmor, ItemConsumable, ItemQuest, ItemMisc}

// Rarity is an ordered item rarity tier.
type Rarity string

// Rarity tiers, least rare first.
const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities contains every rarity tier in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the position of r in Rarities, or -1 for an unknown tier.
func (r Rarity) Rank() int {
	for i, known := range Rarities {
		if r == known {
			return i
		}
	}
	return -1
}

// Less reports whether r is strictly less rare than other.
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// ParseStyle converts s into a Style.
//
// Postcondition: Returns an INVALID_ENUM error when s is not an exact match.
func ParseStyle(s string) (Style, error) {
	return parseEnum("metadata.style", s, Styles)
}

// ParseTechLevel converts s into a TechLevel.
func ParseTechLevel(s string) (TechLevel, error) {
	return parseEnum("cosmology.tech_level", s, TechLevels)
}

// ParseItemType converts s into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	return parseEnum("item.type", s, ItemTypes)
}

// ParseRarity converts s into a Rarity. The empty string is Common.
func ParseRarity(s string) (Rarity, error) {
	if s == "" {
		return RarityCommon, nil
	}
	return parseEnum("item.rarity", s, Rarities)
}

// parseEnum matches raw exactly against the closed set valid. Values are never
// coerced; "fantasy" is not "Fantasy".
func parseEnum[T ~string](field, raw string, valid []T) (T, error) {
	for _, v := range valid {
		if string(v) == raw {
			return v, nil
		}
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	var zero T
	return zero, NewError(KindInvalidEnum, field,
		"%s must be one of [%s], got %q", field, strings.Join(names, ", "), raw)
}
