package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunescore/model"
)

// newTestStore creates a loaded store in a temp directory with a
// deterministic clock and id sequence.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(dir)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}

	require.NoError(t, s.Load())
	return s, dir
}

func ratingInput(trackID string, rating float64) model.RatingEntry {
	return model.RatingEntry{
		TrackID: trackID,
		Title:   "Song " + trackID,
		Artist:  "Artist",
		Album:   "Album",
		Year:    "2005",
		Rating:  rating,
		Tags:    []string{"rock"},
		Notes:   "notes",
	}
}

func TestCreateRating(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)
	assert.Equal(t, "id-0001", entry.ID)
	assert.Equal(t, "t1", entry.TrackID)
	assert.Equal(t, 8.0, entry.Rating)
	assert.False(t, entry.RatedAt.IsZero())
	assert.Nil(t, entry.UpdatedAt)
	assert.Len(t, s.Ratings(), 1)
}

func TestCreateRatingDuplicateTrackID(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)

	_, err = s.CreateRating(ratingInput("t1", 5))
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Len(t, s.Ratings(), 1, "failed create must not change the collection")
}

func TestCreateRatingOutOfBounds(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 11))
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateRating(ratingInput("t1", 0))
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, s.Ratings())
}

func TestCreateRatingDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(model.RatingEntry{TrackID: "t1", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", entry.Title)
	assert.Equal(t, "Unknown Artist", entry.Artist)
	assert.NotNil(t, entry.Tags)
}

func TestCreateRatingRequiresTrackID(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateRating(model.RatingEntry{Rating: 5})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRating(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)

	title := "New Title"
	rating := 9.0
	tags := []string{"jazz", "live"}
	updated, err := s.UpdateRating(entry.ID, model.RatingPatch{
		Title:  &title,
		Rating: &rating,
		Tags:   &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, 9.0, updated.Rating)
	assert.Equal(t, []string{"jazz", "live"}, updated.Tags)
	assert.Equal(t, "Artist", updated.Artist, "fields absent from the patch stay put")
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.RatedAt))
}

func TestUpdateRatingLeavesPriorSnapshotsUntouched(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)

	snapshot := s.Ratings()

	title := "Remaster"
	rating := 9.0
	tags := []string{"redux"}
	notes := "second listen"
	_, err = s.UpdateRating(entry.ID, model.RatingPatch{
		Title: &title, Rating: &rating, Tags: &tags, Notes: &notes,
	})
	require.NoError(t, err)

	// The update swapped in a fresh copy; entries handed out before it are
	// immutable and a reader iterating the old snapshot never sees the patch.
	assert.Equal(t, "Song t1", snapshot[0].Title)
	assert.Equal(t, 8.0, snapshot[0].Rating)
	assert.Equal(t, []string{"rock"}, snapshot[0].Tags)
	assert.Equal(t, "notes", snapshot[0].Notes)
	assert.Nil(t, snapshot[0].UpdatedAt)

	current := s.FindRatingByTrackID("t1")
	require.NotNil(t, current)
	assert.Equal(t, "Remaster", current.Title)
	assert.Equal(t, 9.0, current.Rating)
}

func TestUpdateRatingNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	title := "x"
	_, err := s.UpdateRating("missing", model.RatingPatch{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRatingRevalidatesAgainstCurrentBounds(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(ratingInput("t1", 9))
	require.NoError(t, err)

	// Narrow the bounds after the fact. The existing 9 stays valid but a
	// new write of 9 is rejected.
	max := 5.0
	_, err = s.UpdateSettings(model.SettingsPatch{RatingMax: &max})
	require.NoError(t, err)

	rating := 9.0
	_, err = s.UpdateRating(entry.ID, model.RatingPatch{Rating: &rating})
	require.ErrorIs(t, err, ErrValidation)

	kept := s.FindRatingByTrackID("t1")
	require.NotNil(t, kept)
	assert.Equal(t, 9.0, kept.Rating, "old rating is never retroactively invalidated")

	rating = 4.0
	_, err = s.UpdateRating(entry.ID, model.RatingPatch{Rating: &rating})
	require.NoError(t, err)
}

func TestDeleteRating(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRating(entry.ID))
	assert.Empty(t, s.Ratings())

	require.ErrorIs(t, s.DeleteRating(entry.ID), ErrNotFound)
}

func TestFlushRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		count int
	}{
		{"empty", 0},
		{"single", 1},
		{"thousands", 3000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, dir := newTestStore(t)
			for i := 0; i < tc.count; i++ {
				_, err := s.CreateRating(ratingInput(fmt.Sprintf("t%d", i), float64(1+i%10)))
				require.NoError(t, err)
			}
			require.NoError(t, s.Flush())

			reloaded := NewStore(dir)
			require.NoError(t, reloaded.Load())
			require.Equal(t, s.Ratings(), reloaded.Ratings())
		})
	}
}

func TestFlushIsNoOpWhenClean(t *testing.T) {
	s, dir := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	path := filepath.Join(dir, ratingsFile)
	before, err := os.Stat(path)
	require.NoError(t, err)

	// Nothing dirty: the file must not be rewritten.
	require.NoError(t, s.Flush())
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestFlushContinuesPastFailedCollection(t *testing.T) {
	s, dir := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)
	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t2"})
	require.NoError(t, err)

	// A directory squatting on the ratings temp path makes only that
	// collection's write fail.
	blocker := filepath.Join(dir, ratingsFile+".tmp")
	require.NoError(t, os.Mkdir(blocker, 0755))

	err = s.Flush()
	require.Error(t, err)

	// The unrated flush still went through.
	reloaded := NewStore(dir)
	require.NoError(t, reloaded.Load())
	assert.Empty(t, reloaded.Ratings())
	assert.Len(t, reloaded.UnratedEntries(), 1)

	// Ratings stay dirty and land once the obstruction clears.
	require.NoError(t, os.Remove(blocker))
	require.NoError(t, s.Flush())

	reloaded = NewStore(dir)
	require.NoError(t, reloaded.Load())
	assert.Len(t, reloaded.Ratings(), 1)
}

func TestInterruptedFlushKeepsCommittedSnapshot(t *testing.T) {
	s, dir := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	// Simulate a crash between the temp write and the rename: a half-written
	// temp file sits next to the committed snapshot.
	tmp := filepath.Join(dir, ratingsFile+".tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"id": "truncat`), 0644))

	reloaded := NewStore(dir)
	require.NoError(t, reloaded.Load())
	entries := reloaded.Ratings()
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].TrackID)
}

func TestLoadCorruptSnapshotDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ratingsFile), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFile), []byte("also broken"), 0644))

	s := NewStore(dir)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Ratings())
	assert.Equal(t, model.DefaultSettings(), s.Settings())
}

func TestLoadIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateRating(ratingInput("t1", 8))
	require.NoError(t, err)

	// A second Load must not re-read disk and wipe unflushed mutations.
	require.NoError(t, s.Load())
	assert.Len(t, s.Ratings(), 1)
}

func TestAddUnrated(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddUnrated(model.UnratedEntry{TrackID: "t1", Title: "Song"})
	require.NoError(t, err)
	assert.Equal(t, "t1", entry.TrackID)
	assert.False(t, entry.SkippedAt.IsZero())
	assert.True(t, s.IsUnrated("t1"))

	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t1"})
	require.ErrorIs(t, err, ErrAlreadyUnrated)

	_, err = s.CreateRating(ratingInput("t2", 7))
	require.NoError(t, err)
	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t2"})
	require.ErrorIs(t, err, ErrAlreadyRated)
	assert.Len(t, s.UnratedEntries(), 1)
}

func TestDeleteUnrated(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddUnrated(model.UnratedEntry{TrackID: "t1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUnrated(entry.ID))
	require.ErrorIs(t, s.DeleteUnrated(entry.ID), ErrNotFound)

	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t2"})
	require.NoError(t, err)
	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t3"})
	require.NoError(t, err)
	s.DeleteAllUnrated()
	assert.Empty(t, s.UnratedEntries())
}

func TestPromoteUnrated(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddUnrated(model.UnratedEntry{
		TrackID: "t1", Title: "Song", Artist: "Artist", Album: "Album", AlbumArt: "art.jpg",
	})
	require.NoError(t, err)

	rating := 8.0
	promoted, err := s.PromoteUnrated(entry.ID, model.RatingPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, "t1", promoted.TrackID)
	assert.Equal(t, 8.0, promoted.Rating)
	assert.Equal(t, "art.jpg", promoted.AlbumArt, "display metadata carries over")
	assert.NotEqual(t, entry.ID, promoted.ID, "promotion assigns a fresh id")

	assert.False(t, s.IsUnrated("t1"))
	assert.Len(t, s.Ratings(), 1)
}

func TestPromoteUnratedRequiresRating(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddUnrated(model.UnratedEntry{TrackID: "t1"})
	require.NoError(t, err)

	_, err = s.PromoteUnrated(entry.ID, model.RatingPatch{})
	require.ErrorIs(t, err, ErrValidation)
	assert.True(t, s.IsUnrated("t1"), "failed promotion leaves the entry in place")
}

func TestPromoteUnratedStaleEntry(t *testing.T) {
	s, _ := newTestStore(t)

	entry, err := s.AddUnrated(model.UnratedEntry{TrackID: "t1"})
	require.NoError(t, err)

	// The track gets rated behind the unrated entry's back. Go through the
	// internal slice to bypass the disjointness check AddUnrated enforces.
	s.mu.Lock()
	s.ratings = append(s.ratings, &model.RatingEntry{ID: "r1", TrackID: "t1", Rating: 7, Tags: []string{}})
	s.mu.Unlock()

	rating := 8.0
	_, err = s.PromoteUnrated(entry.ID, model.RatingPatch{Rating: &rating})
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.False(t, s.IsUnrated("t1"), "stale unrated entry is dropped as a side effect")
	assert.Len(t, s.Ratings(), 1)
}

func TestUnratedRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)

	_, err := s.AddUnrated(model.UnratedEntry{TrackID: "t1", Title: "One"})
	require.NoError(t, err)
	_, err = s.AddUnrated(model.UnratedEntry{TrackID: "t2", Title: "Two"})
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	reloaded := NewStore(dir)
	require.NoError(t, reloaded.Load())
	require.Equal(t, s.UnratedEntries(), reloaded.UnratedEntries())
}

func TestUpdateSettings(t *testing.T) {
	s, dir := newTestStore(t)

	min, max, c := 0.0, 5.0, 2.5
	settings, err := s.UpdateSettings(model.SettingsPatch{
		RatingMin: &min, RatingMax: &max, ShrinkageC: &c,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, settings.RatingMin)
	assert.Equal(t, 5.0, settings.RatingMax)
	assert.Equal(t, 2.5, settings.ShrinkageC)

	// Settings persist immediately, no flush needed.
	reloaded := NewStore(dir)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, settings, reloaded.Settings())
}

func TestUpdateSettingsRejectsInvertedBounds(t *testing.T) {
	s, _ := newTestStore(t)

	min, max := 8.0, 3.0
	_, err := s.UpdateSettings(model.SettingsPatch{RatingMin: &min, RatingMax: &max})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, model.DefaultSettings(), s.Settings(), "previous settings remain in force")

	equal := 5.0
	_, err = s.UpdateSettings(model.SettingsPatch{RatingMin: &equal, RatingMax: &equal})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateSettingsClampsShrinkage(t *testing.T) {
	s, _ := newTestStore(t)

	c := -3.0
	settings, err := s.UpdateSettings(model.SettingsPatch{ShrinkageC: &c})
	require.NoError(t, err)
	assert.Equal(t, 0.0, settings.ShrinkageC)
}

func TestUpdateSettingsIgnoresUnknownSidebarMode(t *testing.T) {
	s, _ := newTestStore(t)

	mode := "bogus"
	settings, err := s.UpdateSettings(model.SettingsPatch{SidebarMode: &mode})
	require.NoError(t, err)
	assert.Equal(t, "album", settings.SidebarMode)

	mode = "related"
	settings, err = s.UpdateSettings(model.SettingsPatch{SidebarMode: &mode})
	require.NoError(t, err)
	assert.Equal(t, "related", settings.SidebarMode)
}

func TestSettingsMergeOverDefaults(t *testing.T) {
	dir := t.TempDir()
	// Legacy settings file that predates shrinkageC and sidebarMode.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, settingsFile),
		[]byte(`{"ratingMin": 0, "ratingMax": 100}`), 0644))

	s := NewStore(dir)
	require.NoError(t, s.Load())
	settings := s.Settings()
	assert.Equal(t, 0.0, settings.RatingMin)
	assert.Equal(t, 100.0, settings.RatingMax)
	assert.Equal(t, 5.0, settings.ShrinkageC, "absent fields keep their default")
	assert.Equal(t, "album", settings.SidebarMode)
}
