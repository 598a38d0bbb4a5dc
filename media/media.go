// Package media wraps the external search/extraction engine behind narrow
// interfaces so the bot core never talks to yt-dlp directly.
package media

import (
	"context"
	"fmt"
)

// Track is one search hit. Immutable once produced by a search call.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	WatchURL string `json:"url"`
}

// Searcher resolves a free-text query to an ordered list of tracks.
//
// Implementations return an empty slice, not an error, when the engine
// fails or yields nothing; callers treat empty as "no results".
type Searcher interface {
	Search(ctx context.Context, query string) ([]Track, error)
}

// Fetcher downloads a track as a local audio file and owns its disposal.
type Fetcher interface {
	// Fetch returns the path of the produced audio file. The file is
	// guaranteed to exist when the returned error is nil.
	Fetch(ctx context.Context, track Track) (string, error)
	// Discard removes the file produced by Fetch together with its
	// scratch directory. Safe to call with a path Fetch never returned.
	Discard(path string) error
}

// FetchError wraps any failure during download, extraction, or transcoding.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("media fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WatchURL derives the canonical watch URL for an engine-reported id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
