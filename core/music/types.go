package music

// ArtistRef is one credited artist on a track.
type ArtistRef struct {
	Name string `json:"name"`
}

// AlbumRef links a track to its album.
type AlbumRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Thumbnail is one available artwork rendition.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// HistoryItem is a raw track record as returned by the music service, for
// play history and song search alike.
type HistoryItem struct {
	VideoID    string      `json:"videoId"`
	Title      string      `json:"title"`
	Artists    []ArtistRef `json:"artists"`
	Album      *AlbumRef   `json:"album"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Played     string      `json:"played"`
}

// AlbumResult is one hit of an album search. BrowseID addresses the full
// album record.
type AlbumResult struct {
	BrowseID string      `json:"browseId"`
	Title    string      `json:"title"`
	Artists  []ArtistRef `json:"artists"`
}

// AlbumTrack is one track inside an album listing.
type AlbumTrack struct {
	VideoID string      `json:"videoId"`
	Title   string      `json:"title"`
	Artists []ArtistRef `json:"artists"`
}

// Album is the full album record returned by the music service.
type Album struct {
	Title      string       `json:"title"`
	Year       string       `json:"year"`
	Thumbnails []Thumbnail  `json:"thumbnails"`
	Tracks     []AlbumTrack `json:"tracks"`
}
