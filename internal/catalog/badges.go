package catalog

import "encoding/json"

// Rarity grades a badge.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is an immutable badge definition. Whether it is unlocked is always derived.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Rarity      Rarity
	Requirement Requirement
}

// MarshalJSON flattens the requirement into its (type, value) descriptor.
func (b Badge) MarshalJSON() ([]byte, error) {
	req, err := MarshalRequirement(b.Requirement)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Icon        string          `json:"icon"`
		Rarity      Rarity          `json:"rarity"`
		Requirement json.RawMessage `json:"requirement"`
	}{b.ID, b.Name, b.Description, b.Icon, b.Rarity, req})
}

var badges = []Badge{
	{ID: "first-steps", Name: "First Steps", Description: "Complete your first coding challenge", Icon: "🐣", Rarity: RarityCommon, Requirement: LevelsAtLeast{N: 1}},
	{ID: "beginner-trainer", Name: "Beginner Trainer", Description: "Complete 5 levels", Icon: "🎒", Rarity: RarityCommon, Requirement: LevelsAtLeast{N: 5}},

	{ID: "kanto-explorer", Name: "Kanto Explorer", Description: "Complete all levels in Kanto Region", Icon: "🔴", Rarity: RarityRare, Requirement: mustRequirement(RequirementRegion, "kanto")},
	{ID: "johto-master", Name: "Johto Master", Description: "Complete all levels in Johto Region", Icon: "🟡", Rarity: RarityRare, Requirement: mustRequirement(RequirementRegion, "johto")},
	{ID: "hoenn-champion", Name: "Hoenn Champion", Description: "Complete all levels in Hoenn Region", Icon: "🔵", Rarity: RarityRare, Requirement: mustRequirement(RequirementRegion, "hoenn")},
	{ID: "sinnoh-legend", Name: "Sinnoh Legend", Description: "Complete all levels in Sinnoh Region", Icon: "🟢", Rarity: RarityEpic, Requirement: mustRequirement(RequirementRegion, "sinnoh")},
	{ID: "unova-hero", Name: "Unova Hero", Description: "Complete all levels in Unova Region", Icon: "🟣", Rarity: RarityEpic, Requirement: mustRequirement(RequirementRegion, "unova")},
	{ID: "kalos-elite", Name: "Kalos Elite", Description: "Complete all levels in Kalos Region", Icon: "🟠", Rarity: RarityEpic, Requirement: mustRequirement(RequirementRegion, "kalos")},
	{ID: "alola-grand-master", Name: "Alola Grand Master", Description: "Complete all levels in Alola Region", Icon: "⚡", Rarity: RarityLegendary, Requirement: mustRequirement(RequirementRegion, "alola")},

	{ID: "xp-100", Name: "Rising Star", Description: "Earn 100 XP", Icon: "⭐", Rarity: RarityCommon, Requirement: XPAtLeast{N: 100}},
	{ID: "xp-500", Name: "Shining Bright", Description: "Earn 500 XP", Icon: "✨", Rarity: RarityRare, Requirement: XPAtLeast{N: 500}},
	{ID: "xp-1000", Name: "Supernova", Description: "Earn 1000 XP", Icon: "💫", Rarity: RarityEpic, Requirement: XPAtLeast{N: 1000}},
	{ID: "xp-2000", Name: "Cosmic Power", Description: "Earn 2000 XP", Icon: "🌟", Rarity: RarityLegendary, Requirement: XPAtLeast{N: 2000}},

	{ID: "easy-10", Name: "Warmup Warrior", Description: "Complete 10 easy challenges", Icon: "🌱", Rarity: RarityCommon, Requirement: mustRequirement(RequirementDifficulty, "easy-10")},
	{ID: "medium-10", Name: "Moderate Master", Description: "Complete 10 medium challenges", Icon: "🔥", Rarity: RarityRare, Requirement: mustRequirement(RequirementDifficulty, "medium-10")},
	{ID: "hard-10", Name: "Hardmode Hero", Description: "Complete 10 hard challenges", Icon: "💪", Rarity: RarityEpic, Requirement: mustRequirement(RequirementDifficulty, "hard-10")},

	{ID: "speed-demon", Name: "Speed Demon", Description: "Complete a level in under 5 minutes", Icon: "⚡", Rarity: RarityRare, Requirement: Special{Tag: "fast-completion"}},
	{ID: "perfectionist", Name: "Perfectionist", Description: "Complete 10 levels without hints", Icon: "💎", Rarity: RarityEpic, Requirement: Special{Tag: "no-hints-10"}},

	{ID: "pokemon-master", Name: "Pokemon Master", Description: "Complete all 100 levels", Icon: "👑", Rarity: RarityLegendary, Requirement: LevelsAtLeast{N: 100}},
	{ID: "code-ninja", Name: "Code Ninja", Description: "Complete 25 levels", Icon: "🥷", Rarity: RarityRare, Requirement: LevelsAtLeast{N: 25}},
	{ID: "algorithm-wizard", Name: "Algorithm Wizard", Description: "Complete 50 levels", Icon: "🧙", Rarity: RarityEpic, Requirement: LevelsAtLeast{N: 50}},
	{ID: "data-structure-sage", Name: "Data Structure Sage", Description: "Complete 75 levels", Icon: "🧘", Rarity: RarityEpic, Requirement: LevelsAtLeast{N: 75}},
}

// Badges returns every badge definition.
func Badges() []Badge {
	out := make([]Badge, len(badges))
	copy(out, badges)
	return out
}

// BadgeByID looks up a badge.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
