package sink

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/render"
)

var monoFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// RenderPNG renders the snapshot as a PNG image at the configured scale.
func RenderPNG(s layout.Snapshot, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	canvas := render.Canvas(s)

	w := int(math.Ceil(canvas.W * r.scale))
	h := int(math.Ceil(canvas.H * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %.0fx%.0f", canvas.W, canvas.H)
	}

	ttf, err := monoFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	dc.Translate(-canvas.X, -canvas.Y)

	if err := setColor(dc, r.style.Background); err != nil {
		return nil, err
	}
	dc.DrawRectangle(canvas.X, canvas.Y, canvas.W, canvas.H)
	dc.Fill()

	for _, c := range render.Cards(s, r.labels, r.colors, r.style) {
		face := truetype.NewFace(ttf, &truetype.Options{Size: r.style.FontSize * c.Scale, DPI: 72})
		dc.SetFontFace(face)
		if err := drawCardPNG(dc, r.style, c, s.Exposed.Is(c.Index)); err != nil {
			return nil, err
		}
	}

	if r.showViewport {
		v := s.Viewport.Visible()
		if err := setColor(dc, r.style.Viewport); err != nil {
			return nil, err
		}
		dc.SetDash(6, 4)
		dc.SetLineWidth(r.style.StrokeWidth)
		dc.DrawRectangle(v.X, v.Y, v.W, v.H)
		dc.Stroke()
		dc.SetDash()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCardPNG(dc *gg.Context, style render.Style, c render.Card, exposed bool) error {
	f := c.ScaledFrame()
	dc.DrawRoundedRectangle(f.X, f.Y, f.W, f.H, style.CornerRadius*c.Scale)
	if err := setColor(dc, c.Fill); err != nil {
		return err
	}
	dc.FillPreserve()

	width := style.StrokeWidth
	if exposed {
		width *= 2
	}
	if err := setColor(dc, style.Stroke); err != nil {
		return err
	}
	dc.SetLineWidth(width)
	dc.Stroke()

	if err := setColor(dc, style.Text); err != nil {
		return err
	}
	label := fitLabel(dc, c.Label, f.W-2*style.CornerRadius)
	dc.DrawString(label, f.X+style.CornerRadius, f.Y+style.FontSize*c.Scale+style.CornerRadius/2)
	return nil
}

func setColor(dc *gg.Context, hex string) error {
	r, g, b, err := render.ParseHex(hex)
	if err != nil {
		return err
	}
	dc.SetRGB(r, g, b)
	return nil
}

// fitLabel shortens s with an ellipsis until it fits within width.
func fitLabel(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}
