package render

import (
	"strings"
	"unicode"

	"txt2epub/book"
)

// SplitParagraphs groups chapter content into paragraphs, each a list of
// lines. When content has blank lines they separate paragraphs. Without blank
// lines, text where at least two thirds of lines end a sentence is treated as
// one paragraph per line, otherwise as a single paragraph.
func SplitParagraphs(content string) [][]string {
	lines := book.Lines(content)

	hasBlank := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			hasBlank = true
			break
		}
	}

	if !hasBlank {
		var cleaned []string
		punct := 0
		for _, l := range lines {
			t := strings.TrimSpace(l)
			if t == "" {
				continue
			}
			if endsSentence(t) {
				punct++
			}
			cleaned = append(cleaned, t)
		}
		if len(cleaned) > 0 && punct*3 >= len(cleaned)*2 {
			res := make([][]string, 0, len(cleaned))
			for _, l := range cleaned {
				res = append(res, []string{l})
			}
			return res
		}
		if len(cleaned) > 0 {
			return [][]string{cleaned}
		}
	}

	var (
		paragraphs [][]string
		current    []string
	)
	for _, l := range lines {
		t := strings.TrimRightFunc(l, unicode.IsSpace)
		if strings.TrimSpace(t) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	if len(paragraphs) == 0 && strings.TrimSpace(content) != "" {
		paragraphs = append(paragraphs, []string{strings.TrimSpace(content)})
	}
	return paragraphs
}

const (
	closingMarks     = "”’）】》」』〉)]}\"'"
	sentenceEndMarks = "。！？…!?.；;：:"
)

func endsSentence(text string) bool {
	text = strings.TrimRight(text, closingMarks)
	if text == "" {
		return false
	}
	return strings.ContainsAny(lastRune(text), sentenceEndMarks)
}

func lastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	return string(r[len(r)-1])
}

const markerPrefix = "[class="

// extractMarkerClass removes leading "[class=name]" marker from the first
// paragraph line and returns name. Marker is case insensitive and ends at the
// first closing bracket.
func extractMarkerClass(lines []string) ([]string, string) {
	if len(lines) == 0 {
		return lines, ""
	}
	first := strings.TrimLeftFunc(lines[0], unicode.IsSpace)
	if len(first) < len(markerPrefix) || !strings.EqualFold(first[:len(markerPrefix)], markerPrefix) {
		return lines, ""
	}
	end := strings.IndexByte(first, ']')
	if end < 0 {
		return lines, ""
	}
	class := strings.TrimSpace(first[len(markerPrefix):end])
	if class == "" {
		return lines, ""
	}
	rest := strings.TrimLeftFunc(first[end+1:], unicode.IsSpace)
	if rest == "" {
		return lines[1:], class
	}
	out := make([]string, len(lines))
	copy(out, lines)
	out[0] = rest
	return out, class
}
