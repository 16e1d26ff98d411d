package store

import (
	"fmt"
	"strings"

	"tunescore/model"
)

// Ratings returns a shallow copy of the rating collection. The slice is the
// caller's to filter and sort; the entries themselves are shared and must be
// treated as read-only.
func (s *Store) Ratings() []*model.RatingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.RatingEntry, len(s.ratings))
	copy(out, s.ratings)
	return out
}

// FindRatingByTrackID returns a copy of the rating for the given track id,
// or nil when the track has not been rated.
func (s *Store) FindRatingByTrackID(trackID string) *model.RatingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.TrackID == trackID {
			return r.Clone()
		}
	}
	return nil
}

// CreateRating validates and appends a new rating entry. The entry's ID and
// RatedAt are assigned here; a trackId already present in the rated set is
// refused with ErrDuplicateKey and nothing changes.
func (s *Store) CreateRating(e model.RatingEntry) (*model.RatingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(e.TrackID) == "" {
		return nil, fmt.Errorf("%w: trackId is required", ErrValidation)
	}
	if err := s.validateRatingLocked(e.Rating); err != nil {
		return nil, err
	}
	for _, r := range s.ratings {
		if r.TrackID == e.TrackID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, e.TrackID)
		}
	}

	if e.Title == "" {
		e.Title = "Unknown"
	}
	if e.Artist == "" {
		e.Artist = "Unknown Artist"
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.ID = s.newID()
	e.RatedAt = s.now()
	e.UpdatedAt = nil

	entry := e.Clone()
	s.ratings = append(s.ratings, entry)
	s.ratingsDirty = true
	return entry.Clone(), nil
}

// UpdateRating applies the non-nil fields of patch to the entry with the
// given id. A rating value is re-validated against the settings in force
// right now, not the ones at creation time. The update is copy-on-write: the
// patch lands on a fresh copy that replaces the slice element, so entries
// handed out in earlier snapshots stay immutable.
func (s *Store) UpdateRating(id string, patch model.RatingPatch) (*model.RatingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findRatingLocked(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: rating %s", ErrNotFound, id)
	}

	if patch.Rating != nil {
		if err := s.validateRatingLocked(*patch.Rating); err != nil {
			return nil, err
		}
	}

	entry := s.ratings[idx].Clone()
	if patch.Title != nil {
		entry.Title = *patch.Title
	}
	if patch.Artist != nil {
		entry.Artist = *patch.Artist
	}
	if patch.Album != nil {
		entry.Album = *patch.Album
	}
	if patch.Year != nil {
		entry.Year = *patch.Year
	}
	if patch.AlbumArt != nil {
		entry.AlbumArt = *patch.AlbumArt
	}
	if patch.Rating != nil {
		entry.Rating = *patch.Rating
	}
	if patch.Tags != nil {
		entry.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	now := s.now()
	entry.UpdatedAt = &now
	s.ratings[idx] = entry
	s.ratingsDirty = true
	return entry.Clone(), nil
}

// DeleteRating removes the entry with the given id.
func (s *Store) DeleteRating(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.ratings {
		if r.ID == id {
			s.ratings = append(s.ratings[:i], s.ratings[i+1:]...)
			s.ratingsDirty = true
			return nil
		}
	}
	return fmt.Errorf("%w: rating %s", ErrNotFound, id)
}

func (s *Store) findRatingLocked(id string) int {
	for i, r := range s.ratings {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// validateRatingLocked checks a rating value against the current bounds.
func (s *Store) validateRatingLocked(rating float64) error {
	min, max := s.settings.RatingMin, s.settings.RatingMax
	if rating < min || rating > max {
		return fmt.Errorf("%w: rating must be between %g and %g", ErrValidation, min, max)
	}
	return nil
}
