package convert

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"

	"txt2epub/book"
)

// ChapterList is editable result of chapter detection. Signature ties it to
// the manuscript and detection settings it was produced from.
type ChapterList struct {
	Source    string         `yaml:"source"`
	Method    string         `yaml:"method"`
	Regex     string         `yaml:"regex,omitempty"`
	Signature string         `yaml:"signature"`
	Chapters  []book.Chapter `yaml:"chapters"`
}

// FormatSignature renders signature the way chapter lists store it.
func FormatSignature(sig uint64) string {
	return fmt.Sprintf("%016x", sig)
}

// Matches reports whether list was produced for given signature.
func (l *ChapterList) Matches(sig uint64) bool {
	v, err := strconv.ParseUint(l.Signature, 16, 64)
	return err == nil && v == sig
}

// Save writes chapter list as YAML.
func (l *ChapterList) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("unable to encode chapter list: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to encode chapter list: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// LoadChapterList reads chapter list written by Save. Unknown fields are
// rejected.
func LoadChapterList(path string) (*ChapterList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l ChapterList
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: unable to decode chapter list %q: %w", ErrInvalidInput, path, err)
	}
	if l.Chapters == nil {
		l.Chapters = []book.Chapter{}
	}
	return &l, nil
}
