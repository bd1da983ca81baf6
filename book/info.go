package book

import (
	"path/filepath"
	"strings"
)

const (
	UntitledBook  = "Untitled"
	UnknownAuthor = "Unknown"
)

// Info is book metadata. Empty fields are omitted from the output.
type Info struct {
	Author      string `yaml:"author"`
	Title       string `yaml:"title"`
	Language    string `yaml:"language"`
	Publisher   string `yaml:"publisher"`
	ISBN        string `yaml:"isbn"`
	Category    string `yaml:"category"`
	PublishDate string `yaml:"publish_date"`
	Description string `yaml:"description"`
}

// DisplayTitle returns trimmed title or placeholder.
func (i *Info) DisplayTitle() string {
	if t := strings.TrimSpace(i.Title); t != "" {
		return t
	}
	return UntitledBook
}

// DisplayAuthor returns trimmed author or placeholder.
func (i *Info) DisplayAuthor() string {
	if a := strings.TrimSpace(i.Author); a != "" {
		return a
	}
	return UnknownAuthor
}

var nameSeparators = []string{"_", "-", " ", "—", "–", "·"}

// InfoFromFileName guesses title and author from names like
// "Title_Author.txt". Separators are tried in fixed order and the first one
// present wins. Without separator the whole stem becomes title.
func InfoFromFileName(name string) (title, author string) {
	stem := filepath.Base(name)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	for _, sep := range nameSeparators {
		if first, second, ok := strings.Cut(stem, sep); ok {
			title, author = strings.TrimSpace(first), strings.TrimSpace(second)
			break
		}
	}
	if title == "" {
		title = stem
	}
	return title, author
}
