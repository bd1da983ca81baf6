package render

import (
	"strconv"
	"strings"
	"unicode"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman converts positive number to upper case roman numeral. Zero and
// negative numbers produce empty string.
func ToRoman(num int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for num >= r.value {
			b.WriteString(r.symbol)
			num -= r.value
		}
	}
	return b.String()
}

// SplitTitleLine cuts line at the first whitespace into label and optional
// remainder.
func SplitTitleLine(line string) (label string, title string, ok bool) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, "", false
	}
	label = strings.TrimSpace(line[:idx])
	rest := strings.TrimSpace(line[idx:])
	if rest == "" {
		return label, "", false
	}
	return label, rest, true
}

const chineseMarkers = "章回节卷部篇"

const chineseSeparators = ":：-—–―·・ \t\u3000"

// SplitChineseChapterTitle recognizes titles like "第十章 风起" and returns
// numbering part ("第十章") and the name ("风起"). Markers are tried in fixed
// order and the first one leaving non-empty remainder wins.
func SplitChineseChapterTitle(line string) (number, name string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "第") {
		return "", "", false
	}
	for _, marker := range chineseMarkers {
		idx := strings.IndexRune(trimmed, marker)
		if idx < 0 {
			continue
		}
		end := idx + len(string(marker))
		prefix := strings.TrimSpace(trimmed[:end])
		rest := strings.TrimSpace(trimmed[end:])
		rest = strings.TrimSpace(strings.TrimLeft(rest, chineseSeparators))
		if rest != "" {
			return prefix, rest, true
		}
	}
	return "", "", false
}

const englishSeparators = ":：-—"

// FormatChapterHeading splits chapter title into label and optional title
// for the standard header. English "Chapter N ..." titles get roman numeral
// labels, everything else is cut at the first whitespace.
func FormatChapterHeading(line, language string) (label string, title string, ok bool) {
	trimmed := strings.TrimSpace(line)
	english := strings.HasPrefix(strings.ToLower(strings.TrimSpace(language)), "en")

	if english || strings.HasPrefix(strings.ToLower(trimmed), "chapter ") {
		parts := strings.Fields(trimmed)
		if len(parts) >= 2 && strings.EqualFold(parts[0], "chapter") {
			digits := parts[1]
			if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
				digits = digits[:i]
			}
			if num, err := strconv.ParseUint(digits, 10, 32); err == nil {
				label = "Chapter " + ToRoman(int(num))
				rest := strings.Join(parts[2:], " ")
				if strings.ContainsAny(firstRune(rest), englishSeparators) {
					rest = strings.TrimSpace(strings.TrimLeft(rest, englishSeparators))
				}
				if strings.TrimSpace(rest) == "" {
					return label, "", false
				}
				return label, rest, true
			}
		}
	}
	return SplitTitleLine(trimmed)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
