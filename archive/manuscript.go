// Package archive locates manuscripts stored inside zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

// ErrNotFound is returned when archive has no suitable entry.
var ErrNotFound = errors.New("no manuscript found in archive")

// Entry is manuscript read from archive.
type Entry struct {
	Archive string
	Name    string
	Data    []byte
}

// IsZip reports whether file content looks like zip archive.
func IsZip(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// Find returns manuscript stored under inner path. When inner names a file
// it is returned whatever its extension, otherwise the first ".txt" entry
// under inner prefix in archive order is used. Entries larger than maxSize
// are refused, zero disables the limit. Archives carrying absolute or
// parent relative entry names are rejected.
func Find(archive, inner string, maxSize int64) (*Entry, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	inner = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(inner, `\`, "/")), "/")

	var found *zip.File
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if name == inner {
			found = f
			break
		}
		if found == nil && strings.HasPrefix(name, inner) && strings.EqualFold(path.Ext(name), ".txt") {
			found = f
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, archive)
	}

	if maxSize > 0 && found.UncompressedSize64 > uint64(maxSize) {
		return nil, fmt.Errorf("zip entry %q is too large (%d bytes)", found.Name, found.UncompressedSize64)
	}
	rc, err := found.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open zip entry %q: %w", found.Name, err)
	}
	defer rc.Close()

	var src io.Reader = rc
	if maxSize > 0 {
		src = io.LimitReader(rc, maxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read zip entry %q: %w", found.Name, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("zip entry %q is too large", found.Name)
	}
	return &Entry{Archive: archive, Name: found.Name, Data: data}, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
