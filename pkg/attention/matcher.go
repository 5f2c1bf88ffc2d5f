package attention

import (
	"math"
	"time"
)

// Matcher assigns each frame's boxes to tracks by greedy nearest neighbour.
//
// Boxes are resolved in input order. A box claims the closest unclaimed track
// that passes both the distance gate and the size gate; with no candidate a
// new track is created. This is not a globally optimal assignment: with
// several mutually close faces, input order decides who claims what.
type Matcher struct {
	distance float64
	sizeDiff float64
	anchor   Anchor
}

// MatchResult describes how one frame's boxes were resolved.
type MatchResult struct {
	Assigned []int // Track id per input box, same order as the boxes
	Created  []int // Tracks created this frame
	Dropped  []int // Tracks removed because nothing matched them
}

// NewMatcher creates a matcher from the tracking thresholds in cfg.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{
		distance: cfg.TrackingDistanceThreshold,
		sizeDiff: cfg.SizeDiffThreshold,
		anchor:   cfg.MatchAnchor,
	}
}

// Match updates store in place so its live set is exactly the tracks
// resolved from boxes.
func (m *Matcher) Match(store *Store, boxes []Box, now time.Time) MatchResult {
	// Candidates are the tracks that existed before this frame, in id order
	// so ties resolve to the oldest track.
	existing := store.IDs()
	claimed := make(map[int]bool, len(boxes))

	res := MatchResult{Assigned: make([]int, len(boxes))}

	for i, box := range boxes {
		best := -1
		minDist := math.Inf(1)

		for _, id := range existing {
			if claimed[id] {
				continue
			}
			t, _ := store.Get(id)
			dist := m.Distance(box, t.Box)
			if dist >= m.distance || SizeDiff(box, t.Box) >= m.sizeDiff {
				continue
			}
			if dist < minDist {
				minDist = dist
				best = id
			}
		}

		if best >= 0 {
			t, _ := store.Get(best)
			t.Box = box
		} else {
			best = store.Create(box, now).ID
			res.Created = append(res.Created, best)
		}
		claimed[best] = true
		res.Assigned[i] = best
	}

	for _, id := range existing {
		if !claimed[id] {
			store.Remove(id)
			res.Dropped = append(res.Dropped, id)
		}
	}

	return res
}

// Distance returns the Euclidean distance between the anchors of a and b.
func (m *Matcher) Distance(a, b Box) float64 {
	if m.anchor == AnchorCenter {
		ax, ay := a.Center()
		bx, by := b.Center()
		return math.Hypot(ax-bx, ay-by)
	}
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// SizeDiff returns the combined absolute width and height difference.
func SizeDiff(a, b Box) float64 {
	return math.Abs(float64(a.W-b.W)) + math.Abs(float64(a.H-b.H))
}
