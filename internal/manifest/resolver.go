package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/rs/zerolog/log"

	"github.com/handiism/hls-downloader/internal/model"
)

// maxDepth bounds how many multi-variant playlists may be chained.
const maxDepth = 4

// Getter fetches a text document. *http.Client from internal/http
// satisfies it.
type Getter interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Playlist is a fully resolved leaf playlist.
type Playlist struct {
	// URL is the address of the leaf playlist that produced Segments.
	URL string

	// Variant is the rendition chosen on the way, nil when the first
	// playlist already was a leaf.
	Variant *model.Variant

	// Segments are the media segments in playback order.
	Segments []model.Segment

	// Encrypted is set when the playlist declares an EXT-X-KEY method other
	// than NONE. Segments are still downloaded as-is.
	Encrypted bool

	// TargetDuration is EXT-X-TARGETDURATION in seconds, 0 when unknown.
	TargetDuration float64
}

// Resolver turns a playlist address into the list of segments to download.
//
// A multi-variant playlist is resolved by asking a Selector for one of its
// variants and resolving that variant's playlist in turn.
//
// Example:
//
//	resolver := NewResolver(http.NewClient(http.Options{}))
//	pl, err := resolver.Resolve(ctx, "https://cdn/master.m3u8", HighestBandwidth)
//	if err != nil {
//	    return err
//	}
//	for _, seg := range pl.Segments {
//	    fmt.Println(seg.Index, seg.URL)
//	}
type Resolver struct {
	client Getter
}

// NewResolver creates a Resolver that fetches playlists with client.
func NewResolver(client Getter) *Resolver {
	return &Resolver{client: client}
}

// Resolve fetches manifestURL and returns its segments.
//
// choose is only called for multi-variant playlists; a nil choose picks
// the variant with the highest bandwidth.
func (r *Resolver) Resolve(ctx context.Context, manifestURL string, choose Selector) (*Playlist, error) {
	if choose == nil {
		choose = HighestBandwidth
	}
	return r.resolve(ctx, manifestURL, choose, nil, 0)
}

func (r *Resolver) resolve(ctx context.Context, manifestURL string, choose Selector, chosen *model.Variant, depth int) (*Playlist, error) {
	body, err := r.client.GetString(ctx, manifestURL)
	if err != nil {
		return nil, &ManifestFetchError{URL: manifestURL, Err: err}
	}

	base := BaseURL(manifestURL)

	if IsMultiVariant(body) {
		if depth >= maxDepth {
			return nil, ErrTooManyRedirections
		}

		variants, err := ParseVariants(body, base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", manifestURL, err)
		}
		if len(variants) == 0 {
			return nil, fmt.Errorf("%s: %w", manifestURL, ErrNoVariantsFound)
		}

		idx, err := choose(ctx, variants)
		if err != nil {
			return nil, fmt.Errorf("select variant: %w", err)
		}
		if idx < 0 || idx >= len(variants) {
			return nil, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, idx, len(variants))
		}

		v := variants[idx]
		log.Info().Str("variant", v.Label()).Str("url", v.URL).Msg("variant selected")
		return r.resolve(ctx, v.URL, choose, &v, depth+1)
	}

	segments, err := ParseSegments(body, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestURL, err)
	}

	pl := &Playlist{
		URL:      manifestURL,
		Variant:  chosen,
		Segments: segments,
	}
	enrich(pl, body)

	log.Debug().Str("url", manifestURL).Int("segments", len(pl.Segments)).Msg("playlist resolved")
	return pl, nil
}

// enrich copies EXTINF durations and encryption info from an m3u8 decode
// of body. The line scan stays authoritative for the segment list, so a
// decode that disagrees with it is ignored.
func enrich(pl *Playlist, body string) {
	decoded, listType, err := m3u8.DecodeFrom(strings.NewReader(body), false)
	if err != nil || listType != m3u8.MEDIA {
		log.Debug().Err(err).Msg("m3u8 decode skipped")
		return
	}
	media, ok := decoded.(*m3u8.MediaPlaylist)
	if !ok {
		return
	}

	pl.TargetDuration = media.TargetDuration
	if encrypted(media.Key) {
		pl.Encrypted = true
	}

	var segs []*m3u8.MediaSegment
	for _, seg := range media.Segments {
		if seg == nil {
			break
		}
		if encrypted(seg.Key) {
			pl.Encrypted = true
		}
		segs = append(segs, seg)
	}

	if len(segs) != len(pl.Segments) {
		log.Debug().Int("decoded", len(segs)).Int("scanned", len(pl.Segments)).Msg("segment count mismatch, durations unknown")
		return
	}
	for i, seg := range segs {
		pl.Segments[i].Duration = seg.Duration
	}
}

func encrypted(key *m3u8.Key) bool {
	return key != nil && key.Method != "" && !strings.EqualFold(key.Method, "NONE")
}
