// Package chapter splits manuscript text into chapters.
package chapter

import (
	"fmt"
	"regexp"
	"strings"

	"txt2epub/common"
)

const (
	numerals = "0-9０-９一二三四五六七八九十零〇○百千万两"

	chineseExpr = `(?m)^\s*(?:第[` + numerals + `]+[章节回部节集卷][^\n]*|卷[` + numerals + `]+[^\n]*|(?:序章|序言|序|楔子|引子|前言|后记|尾声|终章|番外|外传|附录)[^\n]*)`
	englishExpr = `(?m)^\s*Chapter\s*[0-9]+[^\n]*`
	anyExpr     = `.*`
)

var (
	chineseRe = regexp.MustCompile(chineseExpr)
	englishRe = regexp.MustCompile(englishExpr)
	anyRe     = regexp.MustCompile(anyExpr)
)

// PresetPattern returns compiled built-in boundary pattern. Returned value is
// shared and must not be modified.
func PresetPattern(p common.Preset) *regexp.Regexp {
	switch p {
	case common.PresetEnglish:
		return englishRe
	default:
		return chineseRe
	}
}

// FallbackPattern matches every line.
func FallbackPattern() *regexp.Regexp {
	return anyRe
}

// Compile prepares user supplied boundary pattern. Surrounding whitespace is
// ignored and multi-line mode is always on, so ^ anchors at line starts.
func Compile(expr string) (*regexp.Regexp, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?m)" + expr)
}
