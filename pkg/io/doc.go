// Package io provides JSON import and export for layout snapshots.
//
// # Overview
//
// A snapshot is the output of one layout pass: the frame, z-order, scale and
// visibility of every item, plus the viewport the pass ran against. This
// package serializes snapshots to a stable JSON document so that:
//
//   - External renderers can draw a stack without linking the engine
//   - Golden files can pin the geometry of a configuration in tests
//   - The preview server and CLI can hand the same document to clients
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "labels": ["Inbox", "Today"],
//	  "snapshot": {
//	    "arrangement": "stacked",
//	    "viewport": {"size": {"width": 320, "height": 480}, "offset": {"x": 0, "y": 0}},
//	    "extent": {"width": 320, "height": 340},
//	    "exposed": null,
//	    "moving": null,
//	    "attributes": [
//	      {"index": 0, "frame": {"x": 0, "y": 20, "width": 320, "height": 200}, "z_index": 0, "transform": {"scale": 1}},
//	      {"index": 1, "frame": {"x": 0, "y": 140, "width": 320, "height": 200}, "z_index": 1, "transform": {"scale": 1}}
//	    ]
//	  }
//	}
//
// Labels are optional; when present there is exactly one per item.
//
// # Import
//
// [ReadJSON] and [ImportJSON] validate the document: the version must be
// supported, attributes must be ordered by index, and z-indices must be
// distinct. Errors carry INVALID_FORMAT codes from [errors].
//
// [errors]: github.com/matzehuels/cardstack/pkg/errors
package io
