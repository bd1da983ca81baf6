package convert

// kind is a constant error class. Concrete errors wrap it, so callers can
// match with errors.Is.
type kind string

func (k kind) Error() string {
	return string(k)
}

const (
	ErrInvalidInput kind = "Invalid input"
	ErrPattern      kind = "Regex error"
	ErrIO           kind = "IO error"
	ErrBuild        kind = "EPUB build failed"
)
