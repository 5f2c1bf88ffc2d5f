package attention

import (
	"sort"
	"time"
)

// Store holds the live tracks keyed by id.
// It is owned by a single Engine and is not safe for concurrent use.
type Store struct {
	tracks map[int]*Track
	nextID int
}

// NewStore creates an empty track store
func NewStore() *Store {
	return &Store{tracks: make(map[int]*Track)}
}

// Create adds a track for box with a fresh id and the default mood state.
func (s *Store) Create(box Box, now time.Time) *Track {
	t := &Track{
		ID:            s.nextID,
		Box:           box,
		TransientMood: MoodFocus,
		StableMood:    MoodFocus,
		MoodSince:     now,
	}
	s.tracks[t.ID] = t
	s.nextID++
	return t
}

// Get returns the live track with the given id.
func (s *Store) Get(id int) (*Track, bool) {
	t, ok := s.tracks[id]
	return t, ok
}

// Remove deletes a track. Its id is never handed out again.
func (s *Store) Remove(id int) {
	delete(s.tracks, id)
}

// Len returns the number of live tracks.
func (s *Store) Len() int {
	return len(s.tracks)
}

// IDs returns the live track ids in ascending order.
func (s *Store) IDs() []int {
	ids := make([]int, 0, len(s.tracks))
	for id := range s.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
