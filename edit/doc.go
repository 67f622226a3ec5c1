/*
Package edit implements range edits on the keys of animation curves:
reversing a key range in time, matching the first and last key of a curve,
and re-weighting or re-angling the tangents of selected keys.

All operations work through a curve.Store and run as one undo chunk each.
Operations which find nothing to work on return graphed.ErrEmptySelection
without touching the store; callers should present it as a notice.

	ed := edit.NewEditor(store, config.Default())
	if err := ed.ReverseKeysHorizontal(); errors.Is(err, graphed.ErrEmptySelection) {
	    ...
	}

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package edit

import (
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphed.edit'
func tracer() tracing.Trace {
	return tracing.Select("graphed.edit")
}

// Editor applies range edits to the curves of a store.
type Editor struct {
	store curve.Store
	opts  config.Options
}

// NewEditor creates an editor for store s.
func NewEditor(s curve.Store, opts config.Options) *Editor {
	return &Editor{store: s, opts: opts}
}
