package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	cardio "github.com/matzehuels/cardstack/pkg/io"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/observability"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

func newTestServer(t *testing.T, decks deck.Store) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, logger)
	srv := httptest.NewServer(New(runner, config.Default(), decks, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, body := get(t, srv.URL+"/layout?labels=a,b,c&exposed=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	doc, err := cardio.ReadJSON(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Snapshot.Arrangement != layout.ArrangementExposed {
		t.Errorf("arrangement = %s, want exposed", doc.Snapshot.Arrangement)
	}
	if !doc.Snapshot.Exposed.Is(1) {
		t.Errorf("exposed = %s, want 1", doc.Snapshot.Exposed)
	}
	if got := strings.Join(doc.Labels, ","); got != "a,b,c" {
		t.Errorf("labels = %s, want a,b,c", got)
	}
	if vp := doc.Snapshot.Viewport.Size; vp.W != pipeline.DefaultWidth || vp.H != pipeline.DefaultHeight {
		t.Errorf("viewport = %v, want config defaults", vp)
	}
}

func TestLayoutCacheHeader(t *testing.T) {
	srv := newTestServer(t, nil)
	url := srv.URL + "/layout?count=4&offset=40"

	first, _ := get(t, url)
	if h := first.Header.Get("X-Cache"); h != "miss" {
		t.Errorf("first X-Cache = %q, want miss", h)
	}
	second, _ := get(t, url)
	if h := second.Header.Get("X-Cache"); h != "hit" {
		t.Errorf("second X-Cache = %q, want hit", h)
	}
	refreshed, _ := get(t, url+"&refresh=true")
	if h := refreshed.Header.Get("X-Cache"); h != "miss" {
		t.Errorf("refreshed X-Cache = %q, want miss", h)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"json", "application/json", "{"},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/render."+tt.format+"?count=3&scale=1")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if resp.Header.Get("ETag") == "" {
				t.Error("missing ETag")
			}
			if !bytes.HasPrefix(body, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", firstBytes(body, 12), tt.prefix)
			}
		})
	}
}

func firstBytes(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		code   errs.Code
	}{
		{"unknown format", "/render.gif?count=2", http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"exposed out of range", "/layout?count=2&exposed=5", http.StatusBadRequest, errs.ErrCodeInvalidIndex},
		{"exposed and moving", "/layout?count=3&exposed=0&moving=1", http.StatusBadRequest, errs.ErrCodeInvalidState},
		{"bad number", "/layout?count=three", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad pointer", "/layout?count=3&moving=0&pointer=10", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad pinning", "/layout?count=3&pinning=sideways", http.StatusBadRequest, errs.ErrCodeInvalidConfig},
		{"pointer without moving", "/layout?count=3&pointer=10,10", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"decks disabled", "/decks/0b7c3f4e-8a54-4a7e-9d55-0c1a4f7b6e21/layout", http.StatusNotFound, errs.ErrCodeNotFound},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var e errorBody
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("decode error body %q: %v", body, err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if e.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("expose: %w", errs.New(errs.ErrCodeInvalidIndex, "index 9")), http.StatusBadRequest},
		{errs.New(errs.ErrCodeInvalidState, "dragging"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeInvalidFormat, "gif"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeFileNotFound, "font"), http.StatusNotFound},
		{errs.New(errs.ErrCodeUnsupported, "pdf"), http.StatusNotImplemented},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDeckRoutes(t *testing.T) {
	store, err := deck.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	d := deck.New("chores", "Laundry", "Dishes", "Groceries")
	if err := store.Set(context.Background(), d); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, store)

	resp, body := get(t, srv.URL+"/decks/"+d.ID+"/layout")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	doc, err := cardio.ReadJSON(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(doc.Labels, ","); got != "Laundry,Dishes,Groceries" {
		t.Errorf("labels = %s", got)
	}

	resp, body = get(t, srv.URL+"/decks/"+d.ID+"/render.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d, body %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte("Groceries")) {
		t.Error("rendered SVG does not contain the card titles")
	}

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"missing deck", "/decks/0b7c3f4e-8a54-4a7e-9d55-0c1a4f7b6e21/layout", http.StatusNotFound},
		{"malformed id", "/decks/not-a-uuid/layout", http.StatusBadRequest},
		{"labels with deck", "/decks/" + d.ID + "/layout?labels=x,y,z", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, nil)
	get(t, srv.URL+"/healthz")
	get(t, srv.URL+"/layout?count=2&exposed=9")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if got := strings.Join(hooks.requests, ";"); got != "GET /healthz;GET /layout" {
		t.Errorf("requests = %s", got)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != http.StatusOK || hooks.responses[1] != http.StatusBadRequest {
		t.Errorf("responses = %v, want [200 400]", hooks.responses)
	}
}

func TestParseQuery(t *testing.T) {
	q := map[string][]string{
		"count":   {"5"},
		"offset":  {"-40"},
		"moving":  {"2"},
		"pointer": {"150, 360"},
		"pinning": {"all"},
		"colors":  {"#111, #222"},
	}
	opts, err := parseQuery(q, layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if opts.Count != 5 || opts.Offset != -40 {
		t.Errorf("count/offset = %d/%v", opts.Count, opts.Offset)
	}
	if !opts.Moving.Is(2) || opts.Exposed.IsSet() {
		t.Errorf("moving = %s exposed = %s", opts.Moving, opts.Exposed)
	}
	if opts.Pointer == nil || opts.Pointer.X != 150 || opts.Pointer.Y != 360 {
		t.Errorf("pointer = %v", opts.Pointer)
	}
	if opts.Config.Exposed.PinningMode != layout.PinAll {
		t.Errorf("pinning = %s, want all", opts.Config.Exposed.PinningMode)
	}
	if got := strings.Join(opts.Colors, "|"); got != "#111|#222" {
		t.Errorf("colors = %s", got)
	}
}
