package chapter

import (
	"strings"
	"unicode/utf8"

	"txt2epub/book"
)

const maxTitleRunes = 60

var (
	structuralMarkers = []string{"序章", "序言", "序", "楔子", "引子", "前言", "后记", "尾声", "终章", "番外", "外传", "附录"}
	sectionMarkers    = "章回节集卷部篇"
	chineseNumerals   = "一二三四五六七八九十零〇○百千万两"
)

// SimpleRulesSplitter classifies lines instead of using patterns.
type SimpleRulesSplitter struct{}

// Split starts new chapter on every title line. Lines before the first title
// form a chapter of their own.
func (SimpleRulesSplitter) Split(text string) ([]book.Chapter, error) {
	var (
		res     []string
		current strings.Builder
	)
	flush := func() {
		if c := strings.TrimSpace(current.String()); c != "" {
			res = append(res, c)
		}
		current.Reset()
	}
	for _, line := range book.Lines(Normalize(text)) {
		line = strings.TrimSpace(line)
		if IsTitleLine(line) {
			flush()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return toChapters(res), nil
}

// IsTitleLine reports whether trimmed line looks like chapter heading.
func IsTitleLine(line string) bool {
	if line == "" || utf8.RuneCountInString(line) > maxTitleRunes {
		return false
	}
	for _, m := range structuralMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	if strings.HasPrefix(line, "第") && strings.ContainsAny(line, sectionMarkers) {
		return true
	}
	if rest, ok := strings.CutPrefix(line, "卷"); ok {
		return strings.ContainsFunc(rest, isNumeral)
	}
	return false
}

func isNumeral(r rune) bool {
	return ('0' <= r && r <= '9') || ('０' <= r && r <= '９') || strings.ContainsRune(chineseNumerals, r)
}
