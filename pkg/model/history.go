package model

import (
	"encoding/json"
	"fmt"
)

// record pushes a snapshot of the current model onto the undo stack and
// clears the redo stack. Every mutation calls it before changing anything.
func (s *Store) record() error {
	snap, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	s.past = s.pushBounded(s.past, snap)
	s.future = nil
	return nil
}

func (s *Store) pushBounded(stack [][]byte, snap []byte) [][]byte {
	stack = append(stack, snap)
	if s.historyLimit > 0 && len(stack) > s.historyLimit {
		stack = stack[len(stack)-s.historyLimit:]
	}
	return stack
}

func (s *Store) restore(snap []byte) error {
	var entry historyEntry
	if err := json.Unmarshal(snap, &entry); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	s.replace(&entry.Document)
	for id, eff := range entry.Effects {
		s.effects[id] = eff
	}
	return nil
}

// Undo restores the model as it was before the last mutation. It reports
// false when there is nothing to undo.
func (s *Store) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.past) == 0 {
		return false, nil
	}
	current, err := s.snapshot()
	if err != nil {
		return false, fmt.Errorf("failed to snapshot before undo: %w", err)
	}
	prev := s.past[len(s.past)-1]
	if err := s.restore(prev); err != nil {
		return false, err
	}
	s.past = s.past[:len(s.past)-1]
	s.future = append([][]byte{current}, s.future...)

	s.logger.Debug("undo", "undo_depth", len(s.past), "redo_depth", len(s.future))
	s.metrics.historyOp("undo")
	s.observeSize()
	return true, nil
}

// Redo reapplies the last undone mutation. It reports false when there is
// nothing to redo.
func (s *Store) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.future) == 0 {
		return false, nil
	}
	current, err := s.snapshot()
	if err != nil {
		return false, fmt.Errorf("failed to snapshot before redo: %w", err)
	}
	next := s.future[0]
	if err := s.restore(next); err != nil {
		return false, err
	}
	s.future = s.future[1:]
	s.past = s.pushBounded(s.past, current)

	s.logger.Debug("redo", "undo_depth", len(s.past), "redo_depth", len(s.future))
	s.metrics.historyOp("redo")
	s.observeSize()
	return true, nil
}

// CanUndo reports whether Undo would change the model.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.past) > 0
}

// CanRedo reports whether Redo would change the model.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.future) > 0
}

func (s *Store) clearHistory() {
	s.past = nil
	s.future = nil
}
