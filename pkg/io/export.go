package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cardstack/pkg/layout"
)

// FormatVersion is the document version written by [WriteJSON].
const FormatVersion = 1

// Document is the serialized form of a snapshot.
type Document struct {
	Version  int             `json:"version"`
	Labels   []string        `json:"labels,omitempty"`
	Snapshot layout.Snapshot `json:"snapshot"`
}

// WriteJSON encodes s as an indented JSON document and writes it to w.
// labels may be nil; otherwise it must hold one label per item.
func WriteJSON(s layout.Snapshot, labels []string, w io.Writer) error {
	doc := Document{Version: FormatVersion, Labels: labels, Snapshot: s}
	if err := validate(doc); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s layout.Snapshot, labels []string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, labels, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
