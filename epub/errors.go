package epub

import "errors"

var (
	// ErrInvalidInput is returned when there is nothing to build.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIO wraps file system failures.
	ErrIO = errors.New("io error")
	// ErrArchive wraps failures of the archive writer.
	ErrArchive = errors.New("archive error")
)
