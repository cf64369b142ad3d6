package catalog

// Certification is earned by completing every level in a set of concepts.
type Certification struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Requirement string   `json:"requirement"`
	Concepts    []string `json:"concepts,omitempty"`
	// AllLevels overrides Concepts and requires the whole catalog.
	AllLevels bool `json:"allLevels,omitempty"`
}

var certifications = []Certification{
	{ID: "dsa-fundamentals", Name: "DSA Fundamentals", Description: "Mastered core data structures and algorithms", Icon: "🎓", Requirement: "Complete all Basics and Arrays levels", Concepts: []string{"Basics", "Arrays"}},
	{ID: "algorithm-master", Name: "Algorithm Master", Description: "Expert in sorting, searching, and optimization", Icon: "⚡", Requirement: "Complete all Advanced levels", Concepts: []string{"Advanced"}},
	{ID: "data-structure-pro", Name: "Data Structure Professional", Description: "Proficient in advanced data structures", Icon: "📊", Requirement: "Complete all Strings, Linked Lists, Stacks & Queues and Trees levels", Concepts: []string{"Strings", "Linked Lists", "Stacks & Queues", "Trees"}},
	{ID: "graph-expert", Name: "Graph Theory Expert", Description: "Mastered graph algorithms and traversals", Icon: "🕸️", Requirement: "Complete all Graphs levels", Concepts: []string{"Graphs"}},
	{ID: "dp-champion", Name: "Dynamic Programming Champion", Description: "Expert in optimization and memoization", Icon: "💎", Requirement: "Complete all Dynamic Programming levels", Concepts: []string{"Dynamic Programming"}},
	{ID: "codequest-master", Name: "CodeQuest Master", Description: "Completed entire DSA curriculum", Icon: "👑", Requirement: "Complete all 100 levels", AllLevels: true},
}

// Certifications returns every certification.
func Certifications() []Certification {
	out := make([]Certification, len(certifications))
	copy(out, certifications)
	return out
}

// CertificationByID looks up a certification.
func CertificationByID(id string) (Certification, bool) {
	for _, c := range certifications {
		if c.ID == id {
			return c, true
		}
	}
	return Certification{}, false
}

// RequiredLevelIDs lists the level ids a certification needs.
func (c Certification) RequiredLevelIDs() []int {
	out := make([]int, 0)
	wanted := make(map[string]struct{}, len(c.Concepts))
	for _, concept := range c.Concepts {
		wanted[concept] = struct{}{}
	}
	for _, l := range levels {
		if _, ok := wanted[l.Concept]; ok || c.AllLevels {
			out = append(out, l.ID)
		}
	}
	return out
}
