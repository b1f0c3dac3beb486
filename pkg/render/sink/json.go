package sink

import (
	"bytes"

	"github.com/matzehuels/cardstack/pkg/io"
	"github.com/matzehuels/cardstack/pkg/layout"
)

// RenderJSON renders the snapshot as an [io.Document].
func RenderJSON(s layout.Snapshot, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	var buf bytes.Buffer
	if err := io.WriteJSON(s, r.labels, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
