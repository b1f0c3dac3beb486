package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
)

func snapshot() layout.Snapshot {
	return layout.Snapshot{
		Arrangement: layout.ArrangementStacked,
		Viewport:    layout.Viewport{Size: geom.Sz(300, 400), Offset: geom.Pt(0, -50)},
		Extent:      geom.Sz(300, 500),
		Moving:      layout.IndexOf(0),
		Attributes: []layout.Attributes{
			{Index: 0, Frame: geom.R(0, 20, 300, 200), ZIndex: 2, Transform: layout.Transform{Scale: 0.5}},
			{Index: 1, Frame: geom.R(0, 140, 300, 200), ZIndex: 0, Transform: layout.Transform{Scale: 1}},
			{Index: 2, Frame: geom.R(0, 260, 300, 200), ZIndex: 1, Transform: layout.Transform{Scale: 1}, Hidden: true},
		},
	}
}

func TestCards(t *testing.T) {
	style := DefaultStyle()
	got := Cards(snapshot(), []string{"a", "b"}, []string{"", "#000"}, style)
	want := []Card{
		{Index: 1, Label: "b", Fill: "#000", Frame: geom.R(0, 140, 300, 200), Scale: 1},
		{Index: 0, Label: "a", Fill: style.Palette[0], Frame: geom.R(0, 20, 300, 200), Scale: 0.5, Moving: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cards() mismatch (-want +got):\n%s", diff)
	}
}

func TestCardsZeroTransform(t *testing.T) {
	s := snapshot()
	s.Attributes[1].Transform = layout.Transform{}
	for _, c := range Cards(s, nil, nil, DefaultStyle()) {
		if c.Index == 1 && c.Scale != 1 {
			t.Errorf("zero transform scale = %v, want 1", c.Scale)
		}
	}
}

func TestOnScreen(t *testing.T) {
	s := snapshot()
	s.Attributes = append(s.Attributes, layout.Attributes{Index: 3, Frame: geom.R(0, 600, 300, 200), ZIndex: 3, Transform: layout.Identity})
	cards := Cards(s, nil, nil, DefaultStyle())
	if len(cards) != 3 {
		t.Fatalf("Cards() returned %d cards, want 3", len(cards))
	}
	var got []int
	for _, c := range OnScreen(cards, s) {
		got = append(got, c.Index)
	}
	if diff := cmp.Diff([]int{1, 0}, got); diff != "" {
		t.Errorf("OnScreen() mismatch (-want +got):\n%s", diff)
	}
}

func TestCardsUnlabeled(t *testing.T) {
	got := Cards(snapshot(), nil, nil, DefaultStyle())
	if got[0].Label != "1" {
		t.Errorf("Label = %q, want index fallback", got[0].Label)
	}
}

func TestScaledFrame(t *testing.T) {
	c := Card{Frame: geom.R(0, 20, 300, 200), Scale: 0.5}
	if diff := cmp.Diff(geom.R(75, 70, 150, 100), c.ScaledFrame()); diff != "" {
		t.Errorf("ScaledFrame() mismatch (-want +got):\n%s", diff)
	}
	c.Scale = 1
	if c.ScaledFrame() != c.Frame {
		t.Error("identity scale should keep the frame")
	}
}

func TestCanvas(t *testing.T) {
	got := Canvas(snapshot())
	if diff := cmp.Diff(geom.R(0, -50, 300, 550), got); diff != "" {
		t.Errorf("Canvas() mismatch (-want +got):\n%s", diff)
	}
}

func TestFill(t *testing.T) {
	s := Style{Palette: []string{"#111", "#222"}}
	if got := s.Fill(3, nil); got != "#222" {
		t.Errorf("Fill(3) = %s, want palette wrap", got)
	}
	if got := (Style{}).Fill(0, nil); got == "" {
		t.Error("empty palette should still yield a color")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b float64
		wantErr bool
	}{
		{"#ffffff", 1, 1, 1, false},
		{"#000", 0, 0, 0, false},
		{"ff0000", 1, 0, 0, false},
		{"#12345", 0, 0, 0, true},
		{"#zzzzzz", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (r != tt.r || g != tt.g || b != tt.b) {
				t.Errorf("ParseHex(%q) = %v %v %v", tt.in, r, g, b)
			}
		})
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b & "c"`); got != "a&lt;b &amp; &#34;c&#34;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
