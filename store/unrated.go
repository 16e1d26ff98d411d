package store

import (
	"fmt"
	"strings"

	"tunescore/model"
)

// UnratedEntries returns a shallow copy of the unrated collection.
func (s *Store) UnratedEntries() []*model.UnratedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.UnratedEntry, len(s.unrated))
	copy(out, s.unrated)
	return out
}

// IsUnrated reports whether the track id is in the unrated set.
func (s *Store) IsUnrated(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.unrated {
		if u.TrackID == trackID {
			return true
		}
	}
	return false
}

// AddUnrated records a skipped track. A track that is already rated or
// already in the unrated set is skipped with ErrAlreadyRated or
// ErrAlreadyUnrated; the request layer treats both as a benign outcome.
func (s *Store) AddUnrated(e model.UnratedEntry) (*model.UnratedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(e.TrackID) == "" {
		return nil, fmt.Errorf("%w: trackId is required", ErrValidation)
	}
	for _, r := range s.ratings {
		if r.TrackID == e.TrackID {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRated, e.TrackID)
		}
	}
	for _, u := range s.unrated {
		if u.TrackID == e.TrackID {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyUnrated, e.TrackID)
		}
	}

	if e.Title == "" {
		e.Title = "Unknown"
	}
	if e.Artist == "" {
		e.Artist = "Unknown Artist"
	}
	e.Tags = []string{}
	e.Notes = ""
	e.ID = s.newID()
	e.SkippedAt = s.now()

	entry := e.Clone()
	s.unrated = append(s.unrated, entry)
	s.unratedDirty = true
	return entry.Clone(), nil
}

// DeleteUnrated dismisses a single unrated entry.
func (s *Store) DeleteUnrated(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.unrated {
		if u.ID == id {
			s.unrated = append(s.unrated[:i], s.unrated[i+1:]...)
			s.unratedDirty = true
			return nil
		}
	}
	return fmt.Errorf("%w: unrated %s", ErrNotFound, id)
}

// DeleteAllUnrated dismisses the whole unrated set.
func (s *Store) DeleteAllUnrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unrated = make([]*model.UnratedEntry, 0)
	s.unratedDirty = true
}

// PromoteUnrated moves an unrated entry into the rated set in one step. The
// patch must carry a rating; its other fields may override the display
// metadata captured at skip time. If the track somehow got rated in the
// meantime, the stale unrated entry is dropped and ErrDuplicateKey returned.
func (s *Store) PromoteUnrated(id string, patch model.RatingPatch) (*model.RatingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Rating == nil {
		return nil, fmt.Errorf("%w: rating is required", ErrValidation)
	}
	if err := s.validateRatingLocked(*patch.Rating); err != nil {
		return nil, err
	}

	idx := -1
	for i, u := range s.unrated {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: unrated %s", ErrNotFound, id)
	}
	src := s.unrated[idx]

	for _, r := range s.ratings {
		if r.TrackID == src.TrackID {
			// Stale skip record for a track rated elsewhere; drop it so the
			// two sets stay disjoint.
			s.unrated = append(s.unrated[:idx], s.unrated[idx+1:]...)
			s.unratedDirty = true
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, src.TrackID)
		}
	}

	entry := &model.RatingEntry{
		ID:       s.newID(),
		TrackID:  src.TrackID,
		Title:    src.Title,
		Artist:   src.Artist,
		Album:    src.Album,
		Year:     src.Year,
		AlbumArt: src.AlbumArt,
		Rating:   *patch.Rating,
		Tags:     []string{},
		Notes:    "",
		RatedAt:  s.now(),
	}
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
	if patch.Tags != nil {
		entry.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}

	s.ratings = append(s.ratings, entry)
	s.unrated = append(s.unrated[:idx], s.unrated[idx+1:]...)
	s.ratingsDirty = true
	s.unratedDirty = true
	return entry.Clone(), nil
}
