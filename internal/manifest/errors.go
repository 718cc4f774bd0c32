package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVariantsFound is returned for a multi-variant playlist in which
	// no stream-variant directive is followed by a URI line.
	ErrNoVariantsFound = errors.New("no variants found in multi-variant playlist")

	// ErrInvalidSelection is returned when a Selector picks an index
	// outside the variant list.
	ErrInvalidSelection = errors.New("invalid variant selection")

	// ErrTooManyRedirections is returned when multi-variant playlists keep
	// pointing at further multi-variant playlists.
	ErrTooManyRedirections = errors.New("too many nested multi-variant playlists")

	// ErrMalformedPlaylist is returned when a playlist body cannot be read
	// line by line, e.g. because a line exceeds 1 MiB.
	ErrMalformedPlaylist = errors.New("malformed playlist")
)

// ManifestFetchError reports a playlist that could not be downloaded,
// either because of a transport failure or a non-2xx status.
type ManifestFetchError struct {
	URL string
	Err error
}

func (e *ManifestFetchError) Error() string {
	return fmt.Sprintf("fetch playlist %s: %v", e.URL, e.Err)
}

func (e *ManifestFetchError) Unwrap() error {
	return e.Err
}
