package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/layout"
)

// ReadJSON decodes a snapshot document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ImportJSON reads a snapshot document from the file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func validate(doc Document) error {
	if doc.Version != FormatVersion {
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported version %d", doc.Version)
	}
	s := doc.Snapshot
	switch s.Arrangement {
	case layout.ArrangementStacked, layout.ArrangementExposed:
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown arrangement %q", s.Arrangement)
	}
	if doc.Labels != nil && len(doc.Labels) != s.Len() {
		return errs.New(errs.ErrCodeInvalidFormat, "%d labels for %d items", len(doc.Labels), s.Len())
	}

	seen := make(map[int]int, s.Len())
	for i, a := range s.Attributes {
		if a.Index != i {
			return errs.New(errs.ErrCodeInvalidFormat, "attributes[%d] has index %d", i, a.Index)
		}
		if j, dup := seen[a.ZIndex]; dup {
			return errs.New(errs.ErrCodeInvalidFormat, "items %d and %d share z-index %d", j, i, a.ZIndex)
		}
		seen[a.ZIndex] = i
	}
	for _, x := range []struct {
		name string
		idx  layout.Index
	}{{"exposed", s.Exposed}, {"moving", s.Moving}} {
		if i, ok := x.idx.Get(); ok && (i < 0 || i >= s.Len()) {
			return errs.New(errs.ErrCodeInvalidFormat, "%s index %d out of range [0,%d)", x.name, i, s.Len())
		}
	}
	return nil
}
