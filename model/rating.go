package model

import "time"

// RatingEntry is a rated track. TrackID is the external identifier of the
// track and is unique across all rating entries; ID is assigned by the store
// at creation and never changes.
type RatingEntry struct {
	ID        string     `json:"id"`
	TrackID   string     `json:"trackId"`
	Title     string     `json:"title"`
	Artist    string     `json:"artist"`
	Album     string     `json:"album"`
	Year      string     `json:"year"`
	AlbumArt  string     `json:"albumArt"`
	Rating    float64    `json:"rating"`
	Tags      []string   `json:"tags"`
	Notes     string     `json:"notes"`
	RatedAt   time.Time  `json:"ratedAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy of the entry with its own tags slice.
func (e *RatingEntry) Clone() *RatingEntry {
	c := *e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// RatingPatch carries the mutable fields of a rating entry. A nil field is
// left untouched by an update.
type RatingPatch struct {
	Title    *string   `json:"title"`
	Artist   *string   `json:"artist"`
	Album    *string   `json:"album"`
	Year     *string   `json:"year"`
	AlbumArt *string   `json:"albumArt"`
	Rating   *float64  `json:"rating"`
	Tags     *[]string `json:"tags"`
	Notes    *string   `json:"notes"`
}

// UnratedEntry is a track the user explicitly skipped instead of rating.
// A track identifier lives in at most one of the rated and unrated sets.
type UnratedEntry struct {
	ID        string    `json:"id"`
	TrackID   string    `json:"trackId"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	AlbumID   string    `json:"albumId"`
	Year      string    `json:"year"`
	AlbumArt  string    `json:"albumArt"`
	SkippedAt time.Time `json:"skippedAt"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes"`
}

// Clone returns a copy of the entry with its own tags slice.
func (e *UnratedEntry) Clone() *UnratedEntry {
	c := *e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return &c
}
