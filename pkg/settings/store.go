package settings

import "sync/atomic"

// Store holds the active snapshot. Updates replace it wholesale.
type Store struct {
	current atomic.Pointer[Settings]
	version atomic.Uint64
}

// NewStore creates a store holding initial, or Default() if nil.
func NewStore(initial *Settings) *Store {
	if initial == nil {
		initial = Default()
	}
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Settings {
	return s.current.Load()
}

// Version counts applied snapshots.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Apply makes next the active snapshot and returns the new version.
func (s *Store) Apply(next *Settings) uint64 {
	s.current.Store(next)
	return s.version.Add(1)
}

// Submit validates raw and applies it. On error the active snapshot is kept.
func (s *Store) Submit(raw Raw) (*Settings, error) {
	next, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	s.Apply(next)
	return next, nil
}
