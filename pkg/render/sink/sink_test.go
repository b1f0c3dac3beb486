package sink

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/io"
	"github.com/matzehuels/cardstack/pkg/layout"
)

func stackedSnapshot(t *testing.T, count int) layout.Snapshot {
	t.Helper()
	cfg := layout.DefaultStackedConfig()
	cfg.ItemSize = geom.Sz(300, 200)
	s, err := layout.Stacked(cfg, count, layout.Viewport{Size: geom.Sz(320, 480)}, layout.DragState{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderSVG(t *testing.T) {
	s := stackedSnapshot(t, 3)
	svg := string(RenderSVG(s, WithLabels("inbox", "<today>", "later")))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	first := strings.Index(svg, `id="card-0"`)
	last := strings.Index(svg, `id="card-2"`)
	if first < 0 || last < 0 || first > last {
		t.Error("cards should be painted bottom-most first")
	}
	if !strings.Contains(svg, "&lt;today&gt;") {
		t.Error("labels should be escaped")
	}
	if !strings.Contains(svg, `class="viewport"`) {
		t.Error("viewport outline missing")
	}
	if strings.Contains(string(RenderSVG(s, WithoutViewport())), `class="viewport"`) {
		t.Error("WithoutViewport should omit the outline")
	}
}

func TestRenderSVGSkipsHidden(t *testing.T) {
	s := stackedSnapshot(t, 3)
	s.Attributes[1].Hidden = true
	svg := string(RenderSVG(s))
	if strings.Contains(svg, `id="card-1"`) {
		t.Error("hidden card should not be drawn")
	}
}

func TestRenderSVGMovingCard(t *testing.T) {
	cfg := layout.DefaultStackedConfig()
	cfg.ItemSize = geom.Sz(300, 200)
	drag := layout.DragState{Moving: layout.IndexOf(1), Pointer: geom.Pt(150, 300)}
	s, err := layout.Stacked(cfg, 3, layout.Viewport{Size: geom.Sz(320, 480)}, drag)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(RenderSVG(s)), `class="card moving"`) {
		t.Error("moving card should carry the moving class")
	}
}

func TestRenderPNG(t *testing.T) {
	s := stackedSnapshot(t, 3)
	data, err := RenderPNG(s, WithLabels("a very long label that will not fit on the card at all", "b", "c"), WithScale(1))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Content extent is 20 + 2*120 + 200 = 460, shorter than the viewport.
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 480 {
		t.Errorf("bounds = %v, want 320x480", b)
	}

	data, err = RenderPNG(s, WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, _ = png.Decode(bytes.NewReader(data))
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 960 {
		t.Errorf("2x bounds = %v, want 640x960", b)
	}
}

func TestRenderPNGBadColor(t *testing.T) {
	if _, err := RenderPNG(stackedSnapshot(t, 1), WithColors("not-a-color")); err == nil {
		t.Error("RenderPNG with an invalid color should fail")
	}
}

func TestOcclusions(t *testing.T) {
	got := Occlusions(stackedSnapshot(t, 4))
	want := []Overlap{{Upper: 3, Lower: 2}, {Upper: 2, Lower: 1}, {Upper: 1, Lower: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Occlusions() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(stackedSnapshot(t, 3), WithLabels("a", "b", "c"))
	for _, want := range []string{`"card0" [`, `"card2" -> "card1";`, `"card1" -> "card0";`, `label="a\nz=0"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"card2" -> "card0"`) {
		t.Error("non-overlapping cards should not be connected")
	}
}

func TestRenderDOTSVG(t *testing.T) {
	svg, err := RenderDOTSVG(context.Background(), ToDOT(stackedSnapshot(t, 2)))
	if err != nil {
		t.Fatalf("RenderDOTSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderDOTSVG() output missing <svg> tag")
	}
}

func TestRenderDOTSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderDOTSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderDOTSVG() should return error for invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
}

func TestRenderJSON(t *testing.T) {
	s := stackedSnapshot(t, 2)
	data, err := RenderJSON(s, WithLabels("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := io.ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, doc.Labels); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
}
