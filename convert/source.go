package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"txt2epub/archive"
)

// source is manuscript as read from disk, not yet decoded.
type source struct {
	// Path is file on disk, archive itself for archived manuscripts.
	Path string
	// Name is manuscript file name, inside archive for archived manuscripts.
	Name string
	Data []byte
	// Archived is set when manuscript was extracted from zip archive.
	Archived bool
}

// readSource loads manuscript. Path may continue past zip archive into the
// archive itself: "books.zip/novels/book.txt". When path inside archive is a
// directory or is empty the first text file found there is used. Non-zero
// maxSize limits manuscript size.
func readSource(src string, maxSize int64) (*source, error) {
	for head := filepath.Clean(src); ; {
		fi, err := os.Stat(head)
		if err == nil {
			return readExisting(src, head, fi, maxSize)
		}
		parent := filepath.Dir(head)
		if parent == head {
			break
		}
		head = parent
	}
	return nil, fmt.Errorf("%w: input source was not found (%s)", ErrInvalidInput, src)
}

func readExisting(src, head string, fi os.FileInfo, maxSize int64) (*source, error) {
	tail := strings.TrimPrefix(strings.TrimPrefix(filepath.Clean(src), head), string(filepath.Separator))

	if fi.IsDir() {
		return nil, fmt.Errorf("%w: input source is a directory (%s)", ErrInvalidInput, head)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: unexpected path mode for (%s)", ErrInvalidInput, head)
	}

	isZip, err := archive.IsZip(head)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to check archive type: %w", ErrIO, err)
	}
	if isZip {
		e, err := archive.Find(head, filepath.ToSlash(tail), maxSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return &source{Path: head, Name: e.Name, Data: e.Data, Archived: true}, nil
	}

	if len(tail) != 0 {
		// plain file cannot have anything after it
		return nil, fmt.Errorf("%w: input source was not found (%s) => (%s)", ErrInvalidInput, head, tail)
	}
	if maxSize > 0 && fi.Size() > maxSize {
		return nil, fmt.Errorf("%w: manuscript is too large (%d bytes, limit %d)", ErrInvalidInput, fi.Size(), maxSize)
	}

	f, err := os.Open(head)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &source{Path: head, Name: filepath.Base(head), Data: data}, nil
}
