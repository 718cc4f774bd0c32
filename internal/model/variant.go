package model

import (
	"fmt"
	"strings"
)

// Variant is one selectable rendition of a multi-variant HLS playlist.
//
// Name, Resolution and Bandwidth are optional in the playlist; a missing
// attribute is left at its zero value. URL is always absolute: relative
// locators are rebased against the master playlist before a Variant is
// built.
//
// Example:
//
//	v := Variant{Name: "720p", Resolution: "1280x720", Bandwidth: 2500000, URL: "https://cdn/720/index.m3u8"}
//	fmt.Println(v.Label()) // "720p · 1280x720 · 2.50 Mbps"
type Variant struct {
	// Name is the NAME attribute (a common non-standard extension).
	Name string

	// Resolution is the RESOLUTION attribute, e.g. "1920x1080".
	Resolution string

	// Bandwidth is the BANDWIDTH attribute in bits per second.
	Bandwidth int

	// URL is the absolute address of the variant's media playlist.
	URL string
}

// Label renders a short human readable description of the variant.
//
// Missing attributes are omitted. A variant with no attributes at all is
// described by its URL.
func (v Variant) Label() string {
	var parts []string
	if v.Name != "" {
		parts = append(parts, v.Name)
	}
	if v.Resolution != "" {
		parts = append(parts, v.Resolution)
	}
	if v.Bandwidth > 0 {
		parts = append(parts, FormatBandwidth(v.Bandwidth))
	}
	if len(parts) == 0 {
		return v.URL
	}
	return strings.Join(parts, " · ")
}

// FormatBandwidth formats bits per second as kbps or Mbps.
func FormatBandwidth(bps int) string {
	if bps >= 1000000 {
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1000000)
	}
	return fmt.Sprintf("%d kbps", bps/1000)
}
