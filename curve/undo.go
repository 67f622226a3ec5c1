package curve

import (
	"fmt"

	"github.com/npillmayer/graphed"
)

// memState is a restorable copy of a MemStore's curves and selection.
type memState struct {
	curves    map[ID]*animCurve
	order     []ID
	selection Selection
}

type undoStep struct {
	name   string
	before *memState
}

func (s *MemStore) capture() *memState {
	st := &memState{
		curves:    make(map[ID]*animCurve, len(s.curves)),
		order:     append([]ID(nil), s.order...),
		selection: s.selection.Clone(),
	}
	for c, ac := range s.curves {
		st.curves[c] = ac.clone()
	}
	return st
}

func (s *MemStore) restore(st *memState) {
	s.curves = st.curves
	s.order = st.order
	s.selection = st.selection
}

// OpenChunk is part of interface Store.
func (s *MemStore) OpenChunk(name string) {
	s.chunks++
	if s.chunks == 1 {
		s.chunkName = name
		s.pending = s.capture()
	}
	tracer().Debugf("open undo chunk %q (depth %d)", name, s.chunks)
}

// CloseChunk is part of interface Store.
func (s *MemStore) CloseChunk() {
	if s.chunks == 0 {
		tracer().Errorf("closing undo chunk without open chunk")
		return
	}
	s.chunks--
	if s.chunks == 0 {
		s.undo = append(s.undo, undoStep{name: s.chunkName, before: s.pending})
		s.pending = nil
		tracer().Debugf("closed undo chunk %q", s.chunkName)
	}
}

// Undo reverts the most recent undo step.
func (s *MemStore) Undo() error {
	if s.chunks > 0 {
		return fmt.Errorf("%w: cannot undo inside open chunk %q", graphed.ErrHostOperationFailed, s.chunkName)
	}
	n := len(s.undo)
	if n == 0 {
		return fmt.Errorf("%w: nothing to undo", graphed.ErrHostOperationFailed)
	}
	step := s.undo[n-1]
	s.undo = s.undo[:n-1]
	s.restore(step.before)
	tracer().Infof("undo %q", step.name)
	return nil
}

// UndoSteps returns the names of the recorded undo steps, oldest first.
func (s *MemStore) UndoSteps() []string {
	names := make([]string, len(s.undo))
	for i, step := range s.undo {
		names[i] = step.name
	}
	return names
}

// IsChunkOpen is a predicate: is an undo chunk currently open?
func (s *MemStore) IsChunkOpen() bool {
	return s.chunks > 0
}
