// Package book defines data passed between chapter detection, rendering and
// EPUB assembly.
package book

import "strings"

// UntitledChapter is used when chapter text has no usable first line.
const UntitledChapter = "Untitled Chapter"

// Chapter is a single titled unit of the manuscript.
type Chapter struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// ChapterFromRaw treats the first line of raw text as chapter title and the
// rest as its content.
func ChapterFromRaw(raw string) Chapter {
	lines := Lines(raw)
	if len(lines) == 0 {
		return Chapter{Title: UntitledChapter}
	}
	title := strings.TrimSpace(lines[0])
	if title == "" {
		title = UntitledChapter
	}
	return Chapter{Title: title, Content: strings.Join(lines[1:], "\n")}
}

// Lines splits text into lines. A single trailing newline does not produce an
// empty last line and carriage returns before newlines are dropped.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
