package layout

import (
	"math"

	"github.com/matzehuels/cardstack/pkg/geom"
)

// ItemAt returns the topmost item whose frame contains p. The hidden moving
// item takes part: its frame is the slot it will drop into.
func (s Snapshot) ItemAt(p geom.Point) (int, bool) {
	best, bestZ, found := 0, 0, false
	for _, a := range s.Attributes {
		if !a.Frame.Contains(p) {
			continue
		}
		if !found || a.ZIndex > bestZ {
			best, bestZ, found = a.Index, a.ZIndex, true
		}
	}
	return best, found
}

// Candidate resolves p to a drop destination. Among the frames containing p
// it picks the one whose vertical center is nearest, so a point on an item's
// center resolves to that item even where later items overlap it; ties go to
// the higher z. Outside every frame it picks the vertically nearest frame,
// which clamps points above the stack to the first item and points below it
// to the last. It returns false only for an empty snapshot.
func (s Snapshot) Candidate(p geom.Point) (int, bool) {
	if len(s.Attributes) == 0 {
		return 0, false
	}

	best, found := Attributes{}, false
	bestDist := 0.0
	for _, a := range s.Attributes {
		if !a.Frame.Contains(p) {
			continue
		}
		d := math.Abs(a.Frame.Center().Y - p.Y)
		if !found || d < bestDist || (d == bestDist && a.ZIndex > best.ZIndex) {
			best, bestDist, found = a, d, true
		}
	}
	if found {
		return best.Index, true
	}

	// Horizontally outside: several frames may span p.Y, so the center
	// distance breaks ties before z does.
	best = s.Attributes[0]
	bestDist = best.Frame.DistanceY(p)
	bestCenter := math.Abs(best.Frame.Center().Y - p.Y)
	for _, a := range s.Attributes[1:] {
		d := a.Frame.DistanceY(p)
		c := math.Abs(a.Frame.Center().Y - p.Y)
		switch {
		case d < bestDist,
			d == bestDist && c < bestCenter,
			d == bestDist && c == bestCenter && a.ZIndex > best.ZIndex:
			best, bestDist, bestCenter = a, d, c
		}
	}
	return clampIndex(best.Index, len(s.Attributes)), true
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
