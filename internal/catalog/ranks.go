package catalog

// Rank is a named tier reached at MinLevel.
type Rank struct {
	MinLevel int    `json:"minLevel"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
}

// ranks is ordered by ascending MinLevel and starts at level 1.
var ranks = []Rank{
	{MinLevel: 1, Title: "Novice Trainer", Icon: "🥚"},
	{MinLevel: 3, Title: "Code Cadet", Icon: "🐛"},
	{MinLevel: 5, Title: "Bug Catcher", Icon: "🦋"},
	{MinLevel: 10, Title: "Algorithm Apprentice", Icon: "📘"},
	{MinLevel: 15, Title: "Data Ranger", Icon: "🧭"},
	{MinLevel: 20, Title: "Gym Challenger", Icon: "🥊"},
	{MinLevel: 30, Title: "Elite Coder", Icon: "⚔️"},
	{MinLevel: 40, Title: "Champion", Icon: "🏆"},
	{MinLevel: 50, Title: "Grand Master", Icon: "👑"},
}

// Ranks returns the rank table in ascending order.
func Ranks() []Rank {
	out := make([]Rank, len(ranks))
	copy(out, ranks)
	return out
}
