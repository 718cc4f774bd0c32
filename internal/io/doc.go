// Package ioutils provides file system and image utilities for a download
// run.
//
// This package contains:
//   - Workspace: the per-run temporary directory for segment files
//   - Merge: the assembler that concatenates segment files in name order
//   - Path helpers: directory creation, file name sanitization, output naming
//   - ImageService: cover art resizing and JPEG conversion
//
// # Workspace
//
//	ws, err := ioutils.NewWorkspace(os.TempDir())
//	if err != nil {
//	    return err // *ioutils.WorkspaceCreateError
//	}
//	defer ws.Remove()
//
// # Merging
//
// Segment files are named with a zero-padded index ("00000.ts",
// "00001.ts", ...), so a sorted directory listing is playback order:
//
//	res, err := ioutils.Merge(ctx, ws.Path(), "ts", "/videos/out.ts")
//	if errors.Is(err, ioutils.ErrNothingToMerge) {
//	    // every segment failed; no output was created
//	}
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.PrepareCover(ctx, pngData, 500)
package ioutils
