package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// Tags are the text frames written to a merged audio file.
//
// Empty fields are left untouched in the file.
type Tags struct {
	// Title goes to TIT2.
	Title string

	// Artist goes to TPE1.
	Artist string

	// Album goes to TALB.
	Album string
}

// Tagger writes ID3 tags to merged MP3 outputs.
//
// Audio-only HLS renditions with MPEG audio segments merge into a plain
// MP3 stream. Tagger gives that file a title and optional cover art so it
// shows up properly in players.
//
// Example:
//
//	tagger := NewTagger()
//	if tagger.Supports(outputPath) {
//	    err := tagger.SaveTags(outputPath, Tags{Title: "Episode 1"}, coverJPEG)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Supports reports whether path has a format the Tagger can write.
func (t *Tagger) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// SaveTags writes tags and, when artwork is non-nil, a front cover picture
// to the file at path.
//
// Existing frames of the same kind are replaced.
func (t *Tagger) SaveTags(path string, tags Tags, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
