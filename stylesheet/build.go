// Package stylesheet composes book CSS from base sheet, template rules and
// typography settings.
package stylesheet

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"txt2epub/book"
	"txt2epub/common"
)

//go:embed book.css
var defaultBase []byte

//go:embed templates/*.css blocks/*.css
var rules embed.FS

// DefaultBase returns base stylesheet embedded into the program.
func DefaultBase() []byte {
	return defaultBase
}

// LoadBase reads base stylesheet from path. Missing file is not an error,
// result is empty in that case.
func LoadBase(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read base stylesheet: %w", err)
	}
	return data, nil
}

// TemplateRules returns fixed rule block owned by template.
func TemplateRules(t common.CssTemplate) (string, error) {
	data, err := rules.ReadFile("templates/" + t.String() + ".css")
	if err != nil {
		return "", fmt.Errorf("no rules for template %s: %w", t, err)
	}
	return string(data), nil
}

func block(name string) (string, error) {
	data, err := rules.ReadFile("blocks/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("unable to read %s rules: %w", name, err)
	}
	return string(data), nil
}

// Build produces complete book stylesheet. Blocks are emitted in fixed order
// so later ones win: base, template, typography, shared cover and chapter
// header rules, template overrides, embedded font and finally custom css.
func Build(base []byte, style *book.Style, font *book.Font) (string, error) {
	var b strings.Builder

	b.Write(base)

	tmpl, err := TemplateRules(style.Template)
	if err != nil {
		return "", err
	}
	b.WriteString("\n\n/* === template === */\n")
	b.WriteString(tmpl)

	color := style.FontColor.Hex()
	b.WriteString("\n\n/* === typography === */\n")
	fmt.Fprintf(&b, "body { color: %s; font-size: %spx; }\n", color, num(style.FontSize))
	fmt.Fprintf(&b, "p { line-height: %sem; margin: 0 0 %sem 0; text-indent: %sem; font-size: %spx; color: %s; }\n",
		num(style.LineHeight), num(style.ParagraphSpacing), num(style.TextIndent), num(style.FontSize), color)
	fmt.Fprintf(&b, "h1 + p, h2 + p, h3 + p, h4 + p, h5 + p, h6 + p { text-indent: %sem; }\n", num(style.TextIndent))

	shared, err := block("shared")
	if err != nil {
		return "", err
	}
	b.WriteString(shared)

	switch style.Template {
	case common.CssTemplateFolio:
		folio, err := block("folio")
		if err != nil {
			return "", err
		}
		b.WriteString(folio)
	case common.CssTemplateFantasy:
		fonts, err := block("fantasy-fonts")
		if err != nil {
			return "", err
		}
		rest, err := block("fantasy")
		if err != nil {
			return "", err
		}
		b.WriteString(fonts)
		fmt.Fprintf(&b, "p { duokan-text-indent: %sem; }\n", num(style.TextIndent))
		b.WriteString(rest)
	}

	if font != nil {
		b.WriteString("\n\n/* === embedded font === */\n")
		family := quote(font.Family)
		fmt.Fprintf(&b, "@font-face { font-family: %s; src: url(%s); }\n", family, quote("fonts/"+font.Name))
		fmt.Fprintf(&b, "body, p, li { font-family: %s, \"Palatino\", \"Times New Roman\", serif; }\n", family)
	}

	if custom := strings.TrimSpace(style.CustomCSS); custom != "" {
		b.WriteString("\n\n/* === custom css === */\n")
		b.WriteString(custom)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

var cssStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\a `,
	"\r", `\d `,
	"\f", `\c `,
)

// quote makes double quoted CSS string.
func quote(s string) string {
	return `"` + cssStringEscaper.Replace(s) + `"`
}

// num prints shortest representation: 16 instead of 16.0, 1.5 stays 1.5.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
