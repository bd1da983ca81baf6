package chapter

import (
	"regexp"
	"strings"

	"txt2epub/book"
)

// Splitter turns manuscript text into ordered list of chapters.
type Splitter interface {
	Split(text string) ([]book.Chapter, error)
}

var cleaner = strings.NewReplacer("\r", "", "\u3000", "")

// Normalize drops carriage returns and ideographic spaces and trims result.
func Normalize(text string) string {
	return strings.TrimSpace(cleaner.Replace(text))
}

// RegexSplitter cuts text at every match of boundary pattern.
type RegexSplitter struct {
	re *regexp.Regexp
}

func NewRegexSplitter(re *regexp.Regexp) *RegexSplitter {
	return &RegexSplitter{re: re}
}

// Pattern returns boundary expression.
func (s *RegexSplitter) Pattern() string {
	return s.re.String()
}

// Split keeps text before the first boundary as a separate chapter. Every
// chapter runs from its boundary to the next one. When nothing matches result
// is empty.
func (s *RegexSplitter) Split(text string) ([]book.Chapter, error) {
	return toChapters(s.chunks(Normalize(text))), nil
}

func (s *RegexSplitter) chunks(t string) []string {
	locs := s.re.FindAllStringIndex(t, -1)
	if len(locs) == 0 {
		return nil
	}

	var res []string
	if preface := strings.TrimSpace(t[:locs[0][0]]); preface != "" {
		res = append(res, preface)
	}
	for i, loc := range locs {
		end := len(t)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if chunk := strings.TrimSpace(t[loc[0]:end]); chunk != "" {
			res = append(res, chunk)
		}
	}
	return res
}

func toChapters(chunks []string) []book.Chapter {
	if len(chunks) == 0 {
		return nil
	}
	chapters := make([]book.Chapter, 0, len(chunks))
	for _, c := range chunks {
		chapters = append(chapters, book.ChapterFromRaw(c))
	}
	return chapters
}
