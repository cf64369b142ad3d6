package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Difficulty grades a level or a daily challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyExpert is only used by daily challenges.
	DifficultyExpert Difficulty = "expert"
)

// MaxLevelID is the highest level id in the catalog. Ids are dense from 1.
const MaxLevelID = 100

// Example is one worked input/output pair shown with a level.
type Example struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Level is an immutable catalog entry.
type Level struct {
	ID          int        `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Concept     string     `json:"concept" yaml:"concept"`
	XP          int        `json:"xp" yaml:"xp"`
	Hints       []string   `json:"hints" yaml:"hints"`
	Examples    []Example  `json:"examples" yaml:"examples"`
}

//go:embed levels.yaml
var handAuthoredLevels []byte

var (
	fillDifficulties = [...]Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
	fillConcepts     = [...]string{
		"Arrays",
		"Strings",
		"Linked Lists",
		"Stacks & Queues",
		"Trees",
		"Graphs",
		"Dynamic Programming",
		"Advanced",
	}
)

var levels = mustBuildLevels(handAuthoredLevels)

func mustBuildLevels(raw []byte) []Level {
	out, err := buildLevels(raw)
	if err != nil {
		panic(fmt.Errorf("level catalog: %w", err))
	}
	return out
}

func buildLevels(raw []byte) ([]Level, error) {
	var authored []Level
	if err := yaml.Unmarshal(raw, &authored); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	if len(authored) > MaxLevelID {
		return nil, fmt.Errorf("%d hand-authored levels exceed max id %d", len(authored), MaxLevelID)
	}

	out := make([]Level, 0, MaxLevelID)
	for i, level := range authored {
		if level.ID != i+1 {
			return nil, fmt.Errorf("level at position %d has id %d, ids must be dense from 1", i, level.ID)
		}
		switch level.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
		default:
			return nil, fmt.Errorf("level %d: unsupported difficulty %q", level.ID, level.Difficulty)
		}
		if level.XP <= 0 {
			return nil, fmt.Errorf("level %d: xp must be positive", level.ID)
		}
		out = append(out, level)
	}

	for id := len(out) + 1; id <= MaxLevelID; id++ {
		out = append(out, generatedLevel(id))
	}
	return out, nil
}

func generatedLevel(id int) Level {
	return Level{
		ID:          id,
		Title:       fmt.Sprintf("Level %d: DSA Challenge", id),
		Description: "Complete this data structures and algorithms challenge to continue your DSA mastery journey.",
		Difficulty:  fillDifficulties[id%len(fillDifficulties)],
		Concept:     fillConcepts[(id-1)%len(fillConcepts)],
		XP:          10 + (id%5)*10,
		Hints:       []string{"Think about the problem constraints", "Consider the time complexity", "Test with edge cases"},
		Examples: []Example{{
			Input:       "Sample input",
			Output:      "Expected output",
			Explanation: "Explanation of the example",
		}},
	}
}

func cloneLevel(l Level) Level {
	l.Hints = slices.Clone(l.Hints)
	l.Examples = slices.Clone(l.Examples)
	return l
}

// Levels returns a copy of the full catalog ordered by id.
func Levels() []Level {
	out := make([]Level, len(levels))
	for i, l := range levels {
		out[i] = cloneLevel(l)
	}
	return out
}

// LevelByID returns the level with the given id.
func LevelByID(id int) (Level, bool) {
	if id < 1 || id > len(levels) {
		return Level{}, false
	}
	return cloneLevel(levels[id-1]), true
}

// ValidLevelID reports whether id names a catalog level.
func ValidLevelID(id int) bool {
	return id >= 1 && id <= len(levels)
}

// LevelsByConcept returns the levels tagged with concept, in id order.
func LevelsByConcept(concept string) []Level {
	out := make([]Level, 0)
	for _, l := range levels {
		if l.Concept == concept {
			out = append(out, cloneLevel(l))
		}
	}
	return out
}

// Concepts lists the distinct concept labels in first-seen order.
func Concepts() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range levels {
		if _, ok := seen[l.Concept]; ok {
			continue
		}
		seen[l.Concept] = struct{}{}
		out = append(out, l.Concept)
	}
	return out
}
