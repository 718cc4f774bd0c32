// Package audio provides ID3 tagging for merged audio-only downloads.
//
// When an audio rendition is saved as .mp3, the Tagger can write a
// title, artist and album and embed cover art:
//
//	tagger := audio.NewTagger()
//	if tagger.Supports(path) {
//	    err := tagger.SaveTags(path, audio.Tags{Title: "Live set"}, coverJPEG)
//	}
//
// Other output formats (MPEG-TS, AAC) are left untouched.
package audio
