package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNothingToMerge is returned by Merge when the workspace holds no
// segment files. No output file is created in that case.
var ErrNothingToMerge = errors.New("nothing to merge")

// MergeResult describes a finished merge.
type MergeResult struct {
	// Parts is the number of segment files concatenated.
	Parts int

	// Bytes is the size of the output file.
	Bytes int64
}

// Merge concatenates the segment files of dir into dest.
//
// Only regular files ending in "."+ext are considered. They are sorted by
// name, which equals index order for fixed-width names, and each one is
// copied completely before the next is opened. Gaps from failed segments
// are not filled in; those bytes are simply missing from dest.
//
// dest's parent directories are created as needed. An existing dest is
// replaced on success and left untouched when the merge fails.
//
// Example:
//
//	res, err := Merge(ctx, ws.Path(), "ts", "/videos/out.ts")
//	if errors.Is(err, ErrNothingToMerge) {
//	    fmt.Println("nothing to merge")
//	}
func Merge(ctx context.Context, dir, ext, dest string) (MergeResult, error) {
	parts, err := ListParts(dir, ext)
	if err != nil {
		return MergeResult{}, err
	}
	if len(parts) == 0 {
		return MergeResult{}, ErrNothingToMerge
	}

	if err := EnsureDir(filepath.Dir(dest)); err != nil {
		return MergeResult{}, fmt.Errorf("create output directory: %w", err)
	}

	// Parts go to a temporary file next to dest, which replaces dest only
	// once every part was copied.
	out, err := os.CreateTemp(filepath.Dir(dest), ".merge-*")
	if err != nil {
		return MergeResult{}, fmt.Errorf("create output: %w", err)
	}

	res, err := appendParts(ctx, out, dir, parts)
	if err == nil {
		err = out.Chmod(0644)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err == nil {
		if rerr := os.Rename(out.Name(), dest); rerr != nil {
			err = fmt.Errorf("move output: %w", rerr)
		}
	}
	if err != nil {
		os.Remove(out.Name())
		return MergeResult{}, err
	}
	return res, nil
}

func appendParts(ctx context.Context, w io.Writer, dir string, parts []string) (MergeResult, error) {
	var res MergeResult
	for _, name := range parts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, err := AppendFile(w, filepath.Join(dir, name))
		res.Bytes += n
		if err != nil {
			return res, fmt.Errorf("append %s: %w", name, err)
		}
		res.Parts++
	}
	return res, nil
}

// ListParts returns the names of the regular files in dir with the given
// extension, sorted lexicographically.
func ListParts(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	suffix := "." + strings.TrimPrefix(ext, ".")
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// AppendFile copies the whole content of src into w.
func AppendFile(w io.Writer, src string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return io.Copy(w, f)
}
