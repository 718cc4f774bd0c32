// Package manifest resolves HLS playlists into ordered segment lists.
//
// # Leaf Playlists
//
// Every non-blank line that does not start with '#' is a segment locator.
// Relative locators are joined to the playlist's base address (the
// playlist URL without its last path segment):
//
//	segs, err := manifest.ParseSegments(body, "http://h/a/b")
//	// "seg.ts" -> "http://h/a/b/seg.ts"
//
// # Multi-Variant Playlists
//
// A playlist containing #EXT-X-STREAM-INF lists renditions. Each directive
// is paired with the next URI line, its BANDWIDTH, RESOLUTION and NAME
// attributes are parsed, and a Selector picks the one to download:
//
//	pl, err := resolver.Resolve(ctx, masterURL, manifest.PromptSelector(os.Stdin, os.Stdout))
//
// # Errors
//
//   - *ManifestFetchError: the playlist could not be downloaded
//   - ErrNoVariantsFound: a multi-variant playlist without usable variants
//   - ErrInvalidSelection: the Selector returned an out of range index
//   - ErrMalformedPlaylist: the playlist body could not be split into lines
package manifest
