package bible

import (
	"slices"
	"strings"
)

// ConsistencySubject is the cross-component view a consistency rule inspects.
type ConsistencySubject struct {
	Style     Style
	Cosmology Cosmology
	Society   Society
}

// ConsistencyRule is one row of the consistency table: when Applies matches a
// subject, Holds must also be true or the world is rejected.
type ConsistencyRule struct {
	// Name identifies the rule in errors and logs.
	Name string
	// Fields are the conflicting field paths reported on violation.
	Fields []string
	// Message explains the violation to the caller.
	Message string
	// Applies selects the subjects the rule constrains.
	Applies func(ConsistencySubject) bool
	// Holds reports whether a selected subject satisfies the rule.
	Holds func(ConsistencySubject) bool
}

// Check evaluates the rule against s.
//
// Postcondition: Returns nil if the rule does not apply or holds, otherwise a CONSISTENCY_ERROR.
func (r ConsistencyRule) Check(s ConsistencySubject) error {
	if !r.Applies(s) || r.Holds(s) {
		return nil
	}
	return newMultiFieldError(KindConsistency, r.Fields, "%s: %s", r.Name, r.Message)
}

// highTech are tech levels that rule out pre-modern fixtures.
var highTech = []TechLevel{TechFuturistic, TechInterstellar, TechTranshuman}

// RuleFantasyHighTechDeclaresMagic requires a Fantasy world at Modern or
// Futuristic tech to declare how magic coexists with its technology.
var RuleFantasyHighTechDeclaresMagic = ConsistencyRule{
	Name:    "fantasy_high_tech_declares_magic",
	Fields:  []string{"metadata.style", "cosmology.tech_level", "cosmology.magic_system"},
	Message: "a Fantasy world at Modern or Futuristic tech level must describe its magic system",
	Applies: func(s ConsistencySubject) bool {
		return s.Style == StyleFantasy &&
			(s.Cosmology.TechLevel == TechModern || s.Cosmology.TechLevel == TechFuturistic)
	},
	Holds: func(s ConsistencySubject) bool {
		return strings.TrimSpace(s.Cosmology.MagicSystem) != ""
	},
}

// RuleHighTechNoTraditionalMagic rejects traditional magic in far-future worlds.
// A magic system that explicitly says "no magic" is accepted.
var RuleHighTechNoTraditionalMagic = ConsistencyRule{
	Name:    "high_tech_no_traditional_magic",
	Fields:  []string{"cosmology.tech_level", "cosmology.magic_system"},
	Message: "high-tech worlds should not have traditional magic systems",
	Applies: func(s ConsistencySubject) bool {
		return slices.Contains(highTech, s.Cosmology.TechLevel)
	},
	Holds: func(s ConsistencySubject) bool {
		magic := strings.ToLower(s.Cosmology.MagicSystem)
		return !strings.Contains(magic, "magic") || strings.Contains(magic, "no magic")
	},
}

// RuleHighTechNoAncientRaces rejects elves, dwarves and orcs in far-future worlds.
var RuleHighTechNoAncientRaces = ConsistencyRule{
	Name:    "high_tech_no_ancient_races",
	Fields:  []string{"cosmology.tech_level", "society.races"},
	Message: "elf, dwarf and orc races are inconsistent with a high-tech setting",
	Applies: func(s ConsistencySubject) bool {
		return slices.Contains(highTech, s.Cosmology.TechLevel)
	},
	Holds: func(s ConsistencySubject) bool {
		for _, race := range s.Society.Races {
			for _, word := range strings.Fields(strings.ToLower(race.Name)) {
				for _, ancient := range []string{"elf", "elv", "dwar", "orc"} {
					if strings.HasPrefix(word, ancient) {
						return false
					}
				}
			}
		}
		return true
	},
}

// DefaultRules is the consistency table applied unless a caller opts into more.
var DefaultRules = []ConsistencyRule{
	RuleFantasyHighTechDeclaresMagic,
}

// StrictRules extends DefaultRules with the tech/magic and tech/race checks.
var StrictRules = []ConsistencyRule{
	RuleFantasyHighTechDeclaresMagic,
	RuleHighTechNoTraditionalMagic,
	RuleHighTechNoAncientRaces,
}

// CheckConsistency evaluates rules in order and returns the first violation.
func CheckConsistency(rules []ConsistencyRule, s ConsistencySubject) error {
	for _, r := range rules {
		if err := r.Check(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWorldConsistency checks style, cosmology and society against DefaultRules.
func ValidateWorldConsistency(style Style, cosmology Cosmology, society Society) error {
	return CheckConsistency(DefaultRules, ConsistencySubject{
		Style:     style,
		Cosmology: cosmology,
		Society:   society,
	})
}
