package layout

import (
	"math"
	"testing"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

// checkInvariants verifies the properties every pass must satisfy: one
// attribute per item in index order, non-negative sizes and unique z-indices.
func checkInvariants(t *testing.T, snap Snapshot, count int) {
	t.Helper()
	if snap.Len() != count {
		t.Fatalf("Len() = %d, want %d", snap.Len(), count)
	}
	seen := make(map[int]bool, count)
	for i, a := range snap.Attributes {
		if a.Index != i {
			t.Errorf("Attributes[%d].Index = %d", i, a.Index)
		}
		if a.Frame.W < 0 || a.Frame.H < 0 {
			t.Errorf("item %d has negative size %+v", i, a.Frame)
		}
		if seen[a.ZIndex] {
			t.Errorf("item %d reuses z-index %d", i, a.ZIndex)
		}
		seen[a.ZIndex] = true
	}
}

func TestIndex(t *testing.T) {
	if NoIndex.IsSet() {
		t.Error("NoIndex should be absent")
	}
	if _, ok := (Index{}).Get(); ok {
		t.Error("zero Index should be absent")
	}
	x := IndexOf(3)
	if v, ok := x.Get(); !ok || v != 3 {
		t.Errorf("IndexOf(3).Get() = %d, %v", v, ok)
	}
	if !x.Is(3) || x.Is(2) || NoIndex.Is(0) {
		t.Error("Is() mismatch")
	}
	if x.String() != "3" || NoIndex.String() != "none" {
		t.Errorf("String() = %q / %q", x.String(), NoIndex.String())
	}
}

func TestIndexJSON(t *testing.T) {
	data, err := IndexOf(4).MarshalJSON()
	if err != nil || string(data) != "4" {
		t.Fatalf("MarshalJSON() = %s, %v", data, err)
	}
	data, _ = NoIndex.MarshalJSON()
	if string(data) != "null" {
		t.Errorf("MarshalJSON(NoIndex) = %s", data)
	}

	var x Index
	if err := x.UnmarshalJSON([]byte("7")); err != nil || !x.Is(7) {
		t.Errorf("UnmarshalJSON(7) = %v, %v", x, err)
	}
	if err := x.UnmarshalJSON([]byte("null")); err != nil || x.IsSet() {
		t.Errorf("UnmarshalJSON(null) = %v, %v", x, err)
	}
	if err := x.UnmarshalJSON([]byte(`"x"`)); err == nil {
		t.Error("UnmarshalJSON should reject strings")
	}
}

func TestPinningMode(t *testing.T) {
	tests := []struct {
		input   string
		want    PinningMode
		wantErr bool
	}{
		{"none", PinNone, false},
		{"below", PinBelow, false},
		{"ALL", PinAll, false},
		{"sideways", PinNone, true},
		{"", PinNone, true},
	}

	for _, tt := range tests {
		got, err := ParsePinningMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePinningMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePinningMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	text, err := PinBelow.MarshalText()
	if err != nil || string(text) != "below" {
		t.Errorf("MarshalText() = %s, %v", text, err)
	}
	if _, err := PinningMode(9).MarshalText(); err == nil {
		t.Error("MarshalText should reject unknown modes")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Stacked.Margin != (geom.Insets{Top: 20}) {
		t.Errorf("stacked margin = %+v", cfg.Stacked.Margin)
	}
	if cfg.Exposed.Margin != (geom.Insets{Top: 40}) {
		t.Errorf("exposed margin = %+v", cfg.Exposed.Margin)
	}
	if cfg.Stacked.Reveal != 120 || cfg.Stacked.BounceFactor != 0.2 || cfg.Stacked.MovingItemScale != 0.95 {
		t.Errorf("stacked defaults = %+v", cfg.Stacked)
	}
	if cfg.Exposed.TopOverlap != 20 || cfg.Exposed.BottomOverlap != 20 || cfg.Exposed.BottomOverlapCount != 1 {
		t.Errorf("exposed defaults = %+v", cfg.Exposed)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative reveal", func(c *Config) { c.Stacked.Reveal = -1 }},
		{"bounce above one", func(c *Config) { c.Stacked.BounceFactor = 1.5 }},
		{"negative margin", func(c *Config) { c.Stacked.Margin.Left = -4 }},
		{"NaN item width", func(c *Config) { c.Exposed.ItemSize.W = math.NaN() }},
		{"zero moving scale", func(c *Config) { c.Stacked.MovingItemScale = 0 }},
		{"negative overlap", func(c *Config) { c.Exposed.TopOverlap = -20 }},
		{"negative count", func(c *Config) { c.Exposed.BottomPinningCount = -1 }},
		{"unknown pinning", func(c *Config) { c.Exposed.PinningMode = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want %s", err, errs.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestSnapshotDrawOrder(t *testing.T) {
	snap := Snapshot{Attributes: []Attributes{
		{Index: 0, ZIndex: 2},
		{Index: 1, ZIndex: 0},
		{Index: 2, ZIndex: 1},
	}}
	order := snap.DrawOrder()
	want := []int{1, 2, 0}
	for i, a := range order {
		if a.Index != want[i] {
			t.Errorf("DrawOrder()[%d] = item %d, want %d", i, a.Index, want[i])
		}
	}
	if snap.Attributes[0].ZIndex != 2 {
		t.Error("DrawOrder must not reorder the snapshot")
	}
}

func TestSnapshotVisibleItems(t *testing.T) {
	vp := Viewport{Size: geom.Sz(320, 300), Offset: geom.Pt(0, 250)}
	cfg := DefaultStackedConfig()
	cfg.ItemSize = geom.Sz(0, 100)
	snap, err := Stacked(cfg, 6, vp, DragState{})
	if err != nil {
		t.Fatal(err)
	}
	// Tops are 20,140,260,380,500,620; visible span is [250,550).
	got := snap.VisibleItems()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("VisibleItems() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VisibleItems() = %v, want %v", got, want)
		}
	}
}
