package model

import "testing"

func TestSegmentFileName(t *testing.T) {
	tests := []struct {
		index int
		ext   string
		want  string
	}{
		{0, "ts", "00000.ts"},
		{7, "ts", "00007.ts"},
		{123, "aac", "00123.aac"},
		{99999, "ts", "99999.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := SegmentFileName(tt.index, tt.ext); got != tt.want {
				t.Errorf("SegmentFileName(%d, %q) = %q, want %q", tt.index, tt.ext, got, tt.want)
			}
		})
	}
}

func TestSegmentFileName_SortsInIndexOrder(t *testing.T) {
	prev := SegmentFileName(0, "ts")
	for i := 1; i < 2000; i++ {
		cur := SegmentFileName(i, "ts")
		if cur <= prev {
			t.Fatalf("%q does not sort after %q", cur, prev)
		}
		prev = cur
	}
}

func TestVariant_Label(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		want    string
	}{
		{
			name:    "all attributes",
			variant: Variant{Name: "720p", Resolution: "1280x720", Bandwidth: 2500000, URL: "http://h/720.m3u8"},
			want:    "720p · 1280x720 · 2.50 Mbps",
		},
		{
			name:    "bandwidth only",
			variant: Variant{Bandwidth: 640000, URL: "http://h/low.m3u8"},
			want:    "640 kbps",
		},
		{
			name:    "no attributes",
			variant: Variant{URL: "http://h/plain.m3u8"},
			want:    "http://h/plain.m3u8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.variant.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_Complete(t *testing.T) {
	s := &Summary{Merged: true, Total: 3, Downloaded: 3}
	if !s.Complete() {
		t.Error("Complete() = false, want true")
	}

	s.Failed = []int{2, 0}
	if s.Complete() {
		t.Error("Complete() = true with failed segments")
	}

	s.SortFailed()
	if s.Failed[0] != 0 || s.Failed[1] != 2 {
		t.Errorf("SortFailed() = %v, want [0 2]", s.Failed)
	}

	if (&Summary{}).Complete() {
		t.Error("Complete() = true for an unmerged run")
	}
}

func TestTotalDuration(t *testing.T) {
	segs := []Segment{{Duration: 4.5}, {Duration: 5.5}, {}}
	if got := TotalDuration(segs); got != 10 {
		t.Errorf("TotalDuration() = %v, want 10", got)
	}
}
