// Package model defines the core data structures shared by the
// hls-downloader packages.
//
// # Variant
//
// Variant is one rendition of a multi-variant (master) playlist:
//
//	v := model.Variant{Resolution: "1280x720", Bandwidth: 2500000, URL: variantURL}
//	fmt.Println(v.Label()) // "1280x720 · 2.50 Mbps"
//
// # Segment
//
// Segment is one media segment of a leaf playlist. Its Index decides the
// workspace file name and therefore the position of its bytes in the
// merged output:
//
//	seg := model.Segment{Index: 3, URL: "https://cdn/seg3.ts"}
//	name := model.SegmentFileName(seg.Index, "ts") // "00003.ts"
//
// # Summary
//
// Summary is returned by a finished run and lists the segments that could
// not be downloaded:
//
//	if !summary.Complete() {
//	    fmt.Printf("%d segments missing\n", len(summary.Failed))
//	}
package model
