package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/handiism/hls-downloader/internal/model"
)

func mustSegments(t *testing.T, body, baseURL string) []model.Segment {
	t.Helper()
	segs, err := ParseSegments(body, baseURL)
	if err != nil {
		t.Fatalf("ParseSegments() error = %v", err)
	}
	return segs
}

func mustVariants(t *testing.T, body, baseURL string) []model.Variant {
	t.Helper()
	variants, err := ParseVariants(body, baseURL)
	if err != nil {
		t.Fatalf("ParseVariants() error = %v", err)
	}
	return variants
}

func TestParseSegments(t *testing.T) {
	body := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10

#EXTINF:9.9,
segment001.ts
#EXTINF:10.0,
https://other.example.com/segment002.ts

#EXTINF:10.1,
  segment003.ts  
#EXT-X-ENDLIST
`
	segs := mustSegments(t, body, "http://h/a/b")

	want := []string{
		"http://h/a/b/segment001.ts",
		"https://other.example.com/segment002.ts",
		"http://h/a/b/segment003.ts",
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, seg := range segs {
		if seg.Index != i {
			t.Errorf("segs[%d].Index = %d", i, seg.Index)
		}
		if seg.URL != want[i] {
			t.Errorf("segs[%d].URL = %q, want %q", i, seg.URL, want[i])
		}
	}
}

func TestParseSegments_CountsNonCommentLines(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", 0},
		{"only directives", "#EXTM3U\n#EXT-X-ENDLIST\n", 0},
		{"bare list", "a.ts\nb.ts\n\n\nc.ts", 3},
		{"crlf", "#EXTM3U\r\na.ts\r\nb.ts\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(mustSegments(t, tt.body, "http://h")); got != tt.want {
				t.Errorf("got %d segments, want %d", got, tt.want)
			}
		})
	}
}

func TestParseVariants(t *testing.T) {
	body := `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=800000,RESOLUTION=640x360,NAME="360p"
360/index.m3u8
#EXT-X-STREAM-INF:AVERAGE-BANDWIDTH=2000000,BANDWIDTH=2500000,RESOLUTION=1280x720

#EXT-X-SOMETHING-ELSE
720/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=64000,CODECS="mp4a.40.2"
https://audio.example.com/a.m3u8
`
	variants := mustVariants(t, body, "http://h/live")

	if len(variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(variants))
	}

	first := variants[0]
	if first.Name != "360p" || first.Resolution != "640x360" || first.Bandwidth != 800000 {
		t.Errorf("variants[0] = %+v", first)
	}
	if first.URL != "http://h/live/360/index.m3u8" {
		t.Errorf("variants[0].URL = %q", first.URL)
	}

	if variants[1].Bandwidth != 2500000 {
		t.Errorf("variants[1].Bandwidth = %d, want 2500000 (not AVERAGE-BANDWIDTH)", variants[1].Bandwidth)
	}
	if variants[1].Name != "" {
		t.Errorf("variants[1].Name = %q, want empty", variants[1].Name)
	}
	if variants[1].URL != "http://h/live/720/index.m3u8" {
		t.Errorf("variants[1].URL = %q", variants[1].URL)
	}

	if variants[2].Resolution != "" || variants[2].URL != "https://audio.example.com/a.m3u8" {
		t.Errorf("variants[2] = %+v", variants[2])
	}
}

func TestParseVariants_DirectiveWithoutURI(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "trailing directive",
			body: "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\na.m3u8\n#EXT-X-STREAM-INF:BANDWIDTH=2\n",
			want: []string{"http://h/a.m3u8"},
		},
		{
			name: "directive followed by directive",
			body: "#EXT-X-STREAM-INF:BANDWIDTH=1\n#EXT-X-STREAM-INF:BANDWIDTH=2\nb.m3u8\n",
			want: []string{"http://h/b.m3u8"},
		},
		{
			name: "only directive",
			body: "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustVariants(t, tt.body, "http://h")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d variants, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].URL != tt.want[i] {
					t.Errorf("variant %d URL = %q, want %q", i, got[i].URL, tt.want[i])
				}
			}
		})
	}
}

func TestParseVariants_SecondDirectiveAttributesWin(t *testing.T) {
	body := "#EXT-X-STREAM-INF:BANDWIDTH=1\n#EXT-X-STREAM-INF:BANDWIDTH=2\nb.m3u8\n"
	got := mustVariants(t, body, "http://h")
	if len(got) != 1 || got[0].Bandwidth != 2 {
		t.Errorf("got %+v, want one variant with bandwidth 2", got)
	}
}

func TestIsMultiVariant(t *testing.T) {
	if !IsMultiVariant("#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\na.m3u8\n") {
		t.Error("expected multi-variant")
	}
	if IsMultiVariant("#EXTM3U\n#EXTINF:10,\na.ts\n") {
		t.Error("expected leaf playlist")
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://h/a/b/index.m3u8", "http://h/a/b"},
		{"http://h/index.m3u8", "http://h"},
		{"http://h/a/index.m3u8?token=abc/def", "http://h/a"},
		{"https://h:8443/live/stream.m3u8#frag", "https://h:8443/live"},
		{"http://h", "http://h"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := BaseURL(tt.in); got != tt.want {
				t.Errorf("BaseURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveLocator(t *testing.T) {
	tests := []struct {
		base    string
		locator string
		want    string
	}{
		{"http://h/a/b", "seg.ts", "http://h/a/b/seg.ts"},
		{"http://h/a/b", "sub/seg.ts", "http://h/a/b/sub/seg.ts"},
		{"http://h/a/b", "http://cdn/seg.ts", "http://cdn/seg.ts"},
		{"http://h/a/b", "https://cdn/seg.ts?x=1", "https://cdn/seg.ts?x=1"},
		{"http://h/a/b", "/root/seg.ts", "http://h/root/seg.ts"},
		{"http://h/a/b/", "seg.ts", "http://h/a/b/seg.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			if got := ResolveLocator(tt.base, tt.locator); got != tt.want {
				t.Errorf("ResolveLocator(%q, %q) = %q, want %q", tt.base, tt.locator, got, tt.want)
			}
		})
	}
}

func TestResolveLocator_FromPlaylistURL(t *testing.T) {
	got := ResolveLocator(BaseURL("http://h/a/b/index.m3u8"), "seg.ts")
	if got != "http://h/a/b/seg.ts" {
		t.Errorf("got %q, want %q", got, "http://h/a/b/seg.ts")
	}
}

func TestParse_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+1)

	segBody := "#EXTM3U\na.ts\n" + long + ".ts\nb.ts\n"
	if _, err := ParseSegments(segBody, "http://h"); !errors.Is(err, ErrMalformedPlaylist) {
		t.Errorf("ParseSegments() error = %v, want ErrMalformedPlaylist", err)
	}

	varBody := "#EXT-X-STREAM-INF:BANDWIDTH=1\na.m3u8\n#EXT-X-STREAM-INF:NAME=\"" + long + "\"\nb.m3u8\n"
	if _, err := ParseVariants(varBody, "http://h"); !errors.Is(err, ErrMalformedPlaylist) {
		t.Errorf("ParseVariants() error = %v, want ErrMalformedPlaylist", err)
	}
}
