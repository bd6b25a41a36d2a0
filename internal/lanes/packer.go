// Package lanes packs temporally overlapping intervals into parallel lanes.
//
// Intervals are grouped into clusters (maximal chains of overlaps). Inside a
// cluster every interval gets the first free lane in start order, which uses
// the minimum number of lanes, and is then stretched over the following lanes
// for as long as none of them holds an intersecting interval.
package lanes

import (
	"slices"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Intersects reports whether a and b share any instant.
func (a Interval) Intersects(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Slot is the vertical placement assigned to one interval.
type Slot struct {
	Lane    int // zero-based lane index
	Span    int // number of lanes covered, starting at Lane
	Lanes   int // lane count of the interval's cluster
	Cluster int // cluster index in start order
}

// Top returns the top edge as a fraction of the row height.
func (s Slot) Top() float64 {
	if s.Lanes <= 0 {
		return 0
	}
	return float64(s.Lane) / float64(s.Lanes)
}

// Height returns the height as a fraction of the row height.
func (s Slot) Height() float64 {
	if s.Lanes <= 0 {
		return 1
	}
	return float64(s.Span) / float64(s.Lanes)
}

// Pack assigns a slot to every interval. The result is indexed like items.
func Pack(items []Interval) []Slot {
	slots := make([]Slot, len(items))
	if len(items) == 0 {
		return slots
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return items[a].Start.Compare(items[b].Start)
	})

	for ci, cluster := range clusters(items, order) {
		packCluster(items, cluster, ci, slots)
	}
	return slots
}

// clusters splits the sorted order into runs of transitively overlapping intervals.
func clusters(items []Interval, order []int) [][]int {
	var (
		result  [][]int
		current []int
		maxEnd  time.Time
	)
	for _, idx := range order {
		it := items[idx]
		if len(current) > 0 && !it.Start.Before(maxEnd) {
			result = append(result, current)
			current = nil
		}
		if len(current) == 0 || it.End.After(maxEnd) {
			maxEnd = it.End
		}
		current = append(current, idx)
	}
	if len(current) > 0 {
		result = append(result, current)
	}
	return result
}

func packCluster(items []Interval, cluster []int, clusterIndex int, slots []Slot) {
	var laneEnds []time.Time
	for _, idx := range cluster {
		it := items[idx]
		lane := -1
		for i, end := range laneEnds {
			if !end.After(it.Start) {
				lane = i
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, it.End)
		} else {
			laneEnds[lane] = it.End
		}
		slots[idx] = Slot{Lane: lane, Cluster: clusterIndex}
	}

	maxLanes := len(laneEnds)
	for _, idx := range cluster {
		slot := slots[idx]
		span := 1
		for next := slot.Lane + 1; next < maxLanes; next++ {
			if laneBlocked(items, cluster, slots, idx, next) {
				break
			}
			span++
		}
		slot.Span = span
		slot.Lanes = maxLanes
		slots[idx] = slot
	}
}

// laneBlocked reports whether another cluster member in lane intersects items[self].
func laneBlocked(items []Interval, cluster []int, slots []Slot, self, lane int) bool {
	for _, other := range cluster {
		if other == self || slots[other].Lane != lane {
			continue
		}
		if items[self].Intersects(items[other]) {
			return true
		}
	}
	return false
}
