package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

const walk = `
playback: {start: 0, end: 20}
selectedObjects: [hips]
curves:
  - name: hips_translateY
    node: hips
    keys:
      - {time: -5, value: 1}
      - {time: 5, value: 3}
      - {time: 15, value: 1}
`

func TestRunCropCycle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := curve.ReadScene(strings.NewReader(walk), "")
	assert.NoError(t, err)
	var out strings.Builder
	assert.NoError(t, run(s, config.Default(), []string{"crop-cycle"}, &out))
	assert.Contains(t, out.String(), "1 accepted")
	keys, _ := s.Keys("hips_translateY")
	assert.Equal(t, 0.0, keys[0].Time)
	assert.Equal(t, 20.0, keys[len(keys)-1].Time)
}

func TestRunArguments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := curve.ReadScene(strings.NewReader(walk), "")
	assert.NoError(t, err)
	var out strings.Builder
	err = run(s, config.Default(), []string{"angle-tangent"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	err = run(s, config.Default(), []string{"scale-tangent", "much"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	err = run(s, config.Default(), []string{"explode"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	err = run(s, config.Default(), []string{"angle-tangent", "45"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrEmptySelection))
	assert.NoError(t, run(s, config.Default(), []string{"match-last"}, &out))
}

func TestRunEditorTools(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := curve.ReadScene(strings.NewReader(walk), "")
	assert.NoError(t, err)
	var out strings.Builder
	assert.NoError(t, run(s, config.Default(), []string{"infinity-cycle"}, &out))
	assert.Contains(t, out.String(), "infinity cycle")
	pre, post, _ := s.Infinity("hips_translateY")
	assert.Equal(t, curve.CycleInfinity, pre)
	assert.Equal(t, curve.CycleInfinity, post)
	err = run(s, config.Default(), []string{"tangents"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	err = run(s, config.Default(), []string{"tangents", "flat"}, &out)
	assert.True(t, errors.Is(err, graphed.ErrEmptySelection))
	s.Select(curve.NewSelection().Add("hips_translateY", 1, curve.WholeKey))
	assert.NoError(t, run(s, config.Default(), []string{"tangents", "stepped"}, &out))
	assert.NoError(t, run(s, config.Default(), []string{"time-to-selected"}, &out))
	assert.Equal(t, 5.0, s.CurrentTime())
}
