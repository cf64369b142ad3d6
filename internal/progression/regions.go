package progression

import (
	"math"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
)

// RegionProgress is the rounded percentage of the region's levels that are completed.
func RegionProgress(region catalog.Region, completed []int) int {
	size := region.Size()
	if size <= 0 {
		return 0
	}
	count := 0
	for id := range levelSet(completed) {
		if region.Contains(id) {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / float64(size)))
}

// CompletedRegions lists the ids of regions at 100 percent, in catalog order.
func CompletedRegions(completed []int) []string {
	out := make([]string, 0)
	for _, r := range catalog.Regions() {
		if RegionProgress(r, completed) == 100 {
			out = append(out, r.ID)
		}
	}
	return out
}

// RegionStatus is a region with its derived progress.
type RegionStatus struct {
	Region    catalog.Region `json:"region"`
	Progress  int            `json:"progress"`
	Unlocked  bool           `json:"unlocked"`
	Completed bool           `json:"completed"`
}

// RegionStatuses evaluates every region. A region is unlocked once the next playable level reaches its start.
func RegionStatuses(completed []int) []RegionStatus {
	next := NextLevel(completed)
	all := catalog.Regions()
	out := make([]RegionStatus, 0, len(all))
	for _, r := range all {
		progress := RegionProgress(r, completed)
		out = append(out, RegionStatus{
			Region:    r,
			Progress:  progress,
			Unlocked:  next >= r.Start || progress > 0,
			Completed: progress == 100,
		})
	}
	return out
}
