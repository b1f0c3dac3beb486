package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// requestOptions builds pipeline options from the query string and, on the
// deck routes, from the stored deck.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts, err := parseQuery(r.URL.Query(), s.cfg.Layout)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Width = orDefault(opts.Width, s.cfg.Viewport.Width)
	opts.Height = orDefault(opts.Height, s.cfg.Viewport.Height)
	opts.Logger = s.logger

	id := chi.URLParam(r, "id")
	if id == "" {
		return opts, nil
	}
	if s.decks == nil {
		return pipeline.Options{}, errs.New(errs.ErrCodeNotFound, "deck store not configured")
	}
	if opts.Labels != nil {
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "labels cannot be combined with a deck")
	}
	d, err := s.decks.Get(r.Context(), id)
	if err != nil {
		return pipeline.Options{}, err
	}
	if d == nil {
		return pipeline.Options{}, errs.New(errs.ErrCodeNotFound, "deck %s", id)
	}
	opts.Labels = d.Titles()
	opts.Colors = make([]string, len(d.Cards))
	for i, c := range d.Cards {
		opts.Colors[i] = c.Color
	}
	return opts, nil
}

// parseQuery reads the pipeline parameters of one request. Missing
// parameters keep their zero value so pipeline defaults apply.
func parseQuery(q url.Values, base layout.Config) (pipeline.Options, error) {
	p := queryParser{q: q}
	cfg := base
	opts := pipeline.Options{
		Config:  &cfg,
		Count:   p.integer("count", 0),
		Width:   p.number("width"),
		Height:  p.number("height"),
		Offset:  p.number("offset"),
		Exposed: p.index("exposed"),
		Moving:  p.index("moving"),
		Scale:   p.number("scale"),
		Labels:  p.list("labels"),
		Colors:  p.list("colors"),
		Refresh: p.flag("refresh"),
	}
	if v := q.Get("pointer"); v != "" {
		pt, err := parsePoint(v)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Pointer = &pt
	}
	if v := q.Get("pinning"); v != "" {
		mode, err := layout.ParsePinningMode(v)
		if err != nil {
			return pipeline.Options{}, err
		}
		cfg.Exposed.PinningMode = mode
	}
	if p.err != nil {
		return pipeline.Options{}, p.err
	}
	return opts, nil
}

// queryParser keeps the first conversion error.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) fail(name, value string, err error) {
	if p.err == nil {
		p.err = errs.Wrap(errs.ErrCodeInvalidInput, err, "query parameter %s=%q", name, value)
	}
}

func (p *queryParser) integer(name string, def int) int {
	v := p.q.Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, v, err)
		return def
	}
	return n
}

func (p *queryParser) number(name string) float64 {
	v := p.q.Get(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, v, err)
		return 0
	}
	return f
}

func (p *queryParser) flag(name string) bool {
	v := p.q.Get(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, v, err)
		return false
	}
	return b
}

// index reads an optional item index; absent or negative means none.
func (p *queryParser) index(name string) layout.Index {
	i := p.integer(name, -1)
	if i < 0 {
		return layout.NoIndex
	}
	return layout.IndexOf(i)
}

func (p *queryParser) list(name string) []string {
	v := p.q.Get(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, errs.New(errs.ErrCodeInvalidInput, "invalid pointer %q (want x,y)", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return geom.Point{}, errs.New(errs.ErrCodeInvalidInput, "invalid pointer %q (want x,y)", s)
	}
	return geom.Pt(x, y), nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
