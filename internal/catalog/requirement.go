package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RequirementKind is the wire name of a badge requirement variant.
type RequirementKind string

const (
	RequirementLevels     RequirementKind = "levels"
	RequirementXP         RequirementKind = "xp"
	RequirementRegion     RequirementKind = "region"
	RequirementDifficulty RequirementKind = "difficulty"
	RequirementSpecial    RequirementKind = "special"
)

// Requirement is the unlock condition of a badge. The set of variants is closed.
type Requirement interface {
	Kind() RequirementKind
	// Value renders the payload in the (type, value) descriptor form.
	Value() string
	sealed()
}

// LevelsAtLeast requires N completed levels.
type LevelsAtLeast struct{ N int }

// XPAtLeast requires N XP.
type XPAtLeast struct{ N int }

// RegionComplete requires every level of a region.
type RegionComplete struct{ RegionID string }

// DifficultyCountAtLeast requires N completed levels of one difficulty.
type DifficultyCountAtLeast struct {
	Difficulty Difficulty
	N          int
}

// Special is a reserved requirement with no tracking behind it.
type Special struct{ Tag string }

func (LevelsAtLeast) Kind() RequirementKind          { return RequirementLevels }
func (XPAtLeast) Kind() RequirementKind              { return RequirementXP }
func (RegionComplete) Kind() RequirementKind         { return RequirementRegion }
func (DifficultyCountAtLeast) Kind() RequirementKind { return RequirementDifficulty }
func (Special) Kind() RequirementKind                { return RequirementSpecial }

func (r LevelsAtLeast) Value() string  { return strconv.Itoa(r.N) }
func (r XPAtLeast) Value() string      { return strconv.Itoa(r.N) }
func (r RegionComplete) Value() string { return r.RegionID }
func (r DifficultyCountAtLeast) Value() string {
	return fmt.Sprintf("%s-%d", r.Difficulty, r.N)
}
func (r Special) Value() string { return r.Tag }

func (LevelsAtLeast) sealed()          {}
func (XPAtLeast) sealed()              {}
func (RegionComplete) sealed()         {}
func (DifficultyCountAtLeast) sealed() {}
func (Special) sealed()                {}

// ParseRequirement converts a (type, value) descriptor into its typed variant.
func ParseRequirement(kind RequirementKind, value string) (Requirement, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case RequirementLevels, RequirementXP:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s requirement needs a non-negative integer, got %q", kind, value)
		}
		if kind == RequirementLevels {
			return LevelsAtLeast{N: n}, nil
		}
		return XPAtLeast{N: n}, nil
	case RequirementRegion:
		if _, ok := RegionByID(value); !ok {
			return nil, fmt.Errorf("unknown region %q", value)
		}
		return RegionComplete{RegionID: value}, nil
	case RequirementDifficulty:
		diff, count, ok := strings.Cut(value, "-")
		if !ok {
			return nil, fmt.Errorf("difficulty requirement must look like easy-10, got %q", value)
		}
		n, err := strconv.Atoi(count)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("difficulty requirement count %q is not a non-negative integer", count)
		}
		switch d := Difficulty(diff); d {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
			return DifficultyCountAtLeast{Difficulty: d, N: n}, nil
		default:
			return nil, fmt.Errorf("unknown difficulty %q", diff)
		}
	case RequirementSpecial:
		if value == "" {
			return nil, fmt.Errorf("special requirement needs a tag")
		}
		return Special{Tag: value}, nil
	default:
		return nil, fmt.Errorf("unknown requirement type %q", kind)
	}
}

func mustRequirement(kind RequirementKind, value string) Requirement {
	r, err := ParseRequirement(kind, value)
	if err != nil {
		panic(err)
	}
	return r
}

type requirementJSON struct {
	Type  RequirementKind `json:"type"`
	Value string          `json:"value"`
}

// MarshalRequirement renders r in descriptor form for API payloads.
func MarshalRequirement(r Requirement) ([]byte, error) {
	return json.Marshal(requirementJSON{Type: r.Kind(), Value: r.Value()})
}
