package curve

// UndoChunk runs fn inside an undo chunk of s. The chunk is closed on every
// exit path, so a failing fn leaves one undo step reverting its partial
// edits.
func UndoChunk(s Store, name string, fn func() error) error {
	s.OpenChunk(name)
	defer s.CloseChunk()
	return fn()
}

// PreservingSelection runs fn and then restores the key selection s had
// before, by curve and key index.
func PreservingSelection(s Store, fn func() error) error {
	sel := s.Selection()
	defer func() {
		s.ClearSelection()
		s.Select(sel)
	}()
	return fn()
}
