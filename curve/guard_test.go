package curve

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestUndoChunkClosesOnFailure(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", K(0, 1), K(10, 2))
	boom := errors.New("boom")
	err := UndoChunk(s, "failing", func() error {
		assert.NoError(t, s.SetValue("tx", 0, 5))
		return boom
	})
	assert.Equal(t, boom, err)
	assert.False(t, s.IsChunkOpen())
	assert.NoError(t, s.Undo())
	k, _ := s.Key("tx", 0)
	assert.Equal(t, 1.0, k.Value)
}

func TestPreservingSelectionRestoresIndices(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", K(0, 1), K(10, 2), K(20, 3))
	s.Select(NewSelection().Add("tx", 2, HandleOut))
	err := PreservingSelection(s, func() error {
		s.ClearSelection()
		s.Select(NewSelection().Add("tx", 0, WholeKey))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, NewSelection().Add("tx", 2, HandleOut), s.Selection())
}
