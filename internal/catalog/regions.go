package catalog

// Region groups a contiguous, inclusive range of level ids.
type Region struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GymLeader   string `json:"gymLeader"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Size is the number of levels in the region.
func (r Region) Size() int {
	return r.End - r.Start + 1
}

// Contains reports whether the level id falls inside the region.
func (r Region) Contains(levelID int) bool {
	return levelID >= r.Start && levelID <= r.End
}

var regions = []Region{
	{ID: "kanto", Name: "Kanto Region", Description: "Basics and first arrays. Every trainer starts here.", GymLeader: "Brock", Start: 1, End: 15},
	{ID: "johto", Name: "Johto Region", Description: "Strings and linked structures.", GymLeader: "Whitney", Start: 16, End: 30},
	{ID: "hoenn", Name: "Hoenn Region", Description: "Stacks, queues and the first trees.", GymLeader: "Wallace", Start: 31, End: 45},
	{ID: "sinnoh", Name: "Sinnoh Region", Description: "Trees and graph traversal.", GymLeader: "Cynthia", Start: 46, End: 60},
	{ID: "unova", Name: "Unova Region", Description: "Graphs meet dynamic programming.", GymLeader: "Iris", Start: 61, End: 75},
	{ID: "kalos", Name: "Kalos Region", Description: "Dynamic programming in depth.", GymLeader: "Diantha", Start: 76, End: 90},
	{ID: "alola", Name: "Alola Region", Description: "Advanced problems for grand masters.", GymLeader: "Kukui", Start: 91, End: 100},
}

// Regions returns all regions in level order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByID looks up a region.
func RegionByID(id string) (Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
