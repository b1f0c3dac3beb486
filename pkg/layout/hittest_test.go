package layout

import (
	"testing"

	"github.com/matzehuels/cardstack/pkg/geom"
)

func hitFixture(t *testing.T) Snapshot {
	t.Helper()
	snap, err := Stacked(stackedFixture(), 5, Viewport{Size: geom.Sz(320, 480)}, DragState{})
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestCandidateCenters(t *testing.T) {
	snap := hitFixture(t)
	for k := range snap.Len() {
		got, ok := snap.Candidate(snap.At(k).Frame.Center())
		if !ok || got != k {
			t.Errorf("Candidate(center of %d) = %d, %v", k, got, ok)
		}
	}
}

func TestCandidate(t *testing.T) {
	snap := hitFixture(t)
	tests := map[string]struct {
		p    geom.Point
		want int
	}{
		"above all":             {geom.Pt(150, -500), 0},
		"top margin":            {geom.Pt(150, 5), 0},
		"below all":             {geom.Pt(150, 5000), 4},
		"overlap nearer lower":  {geom.Pt(150, 280), 1},
		"overlap nearer higher": {geom.Pt(150, 330), 2},
		"right of stack":        {geom.Pt(900, 360), 2},
		"left of stack":         {geom.Pt(-10, 600), 4},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := snap.Candidate(tt.p)
			if !ok || got != tt.want {
				t.Errorf("Candidate(%+v) = %d, %v, want %d", tt.p, got, ok, tt.want)
			}
		})
	}
}

func TestCandidateIncludesHiddenSlot(t *testing.T) {
	snap, err := Stacked(stackedFixture(), 5, Viewport{Size: geom.Sz(320, 480)}, DragState{Moving: IndexOf(3)})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := snap.Candidate(snap.At(3).Frame.Center()); got != 3 {
		t.Errorf("Candidate(hidden slot) = %d, want 3", got)
	}
}

func TestCandidateEmpty(t *testing.T) {
	if _, ok := (Snapshot{}).Candidate(geom.Pt(0, 0)); ok {
		t.Error("Candidate on an empty snapshot should report false")
	}
}

func TestItemAt(t *testing.T) {
	snap := hitFixture(t)
	tests := map[string]struct {
		p     geom.Point
		want  int
		found bool
	}{
		"reveal strip": {geom.Pt(150, 30), 0, true},
		"overlap":      {geom.Pt(150, 280), 2, true},
		"last item":    {geom.Pt(150, 600), 4, true},
		"margin":       {geom.Pt(150, 5), 0, false},
		"outside":      {geom.Pt(310, 300), 0, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := snap.ItemAt(tt.p)
			if ok != tt.found || (ok && got != tt.want) {
				t.Errorf("ItemAt(%+v) = %d, %v, want %d, %v", tt.p, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestItemAtExposedPrefersExposed(t *testing.T) {
	snap := arrange(t, DefaultExposedConfig(), 5, 2)
	// Every neighbor overlaps the exposed frame; the exposed item is topmost.
	if got, ok := snap.ItemAt(geom.Pt(100, 200)); !ok || got != 2 {
		t.Errorf("ItemAt(inside exposed) = %d, %v, want 2", got, ok)
	}
	if got, ok := snap.ItemAt(geom.Pt(100, 10)); !ok || got != 0 {
		t.Errorf("ItemAt(top peek) = %d, %v, want 0", got, ok)
	}
}
