// Package css looks into generated stylesheets to find out what they declare
// and which resources they reference.
package css

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// FontFace is a single @font-face declaration.
type FontFace struct {
	Family string
	Src    string
}

// Summary describes stylesheet content.
type Summary struct {
	Rules     int
	AtRules   []string
	FontFaces []FontFace
	// URLs lists every url() reference in order of appearance, duplicates
	// removed.
	URLs []string
	// Errors holds recoverable parse errors, parsing continues after them.
	Errors []string
}

// Missing returns referenced URLs for which exists reports false. Absolute
// and data URLs are never reported.
func (s *Summary) Missing(exists func(string) bool) []string {
	var res []string
	for _, u := range s.URLs {
		if strings.Contains(u, ":") || strings.HasPrefix(u, "#") {
			continue
		}
		if !exists(u) {
			res = append(res, u)
		}
	}
	return res
}

// Inspector walks stylesheets with tokenizing CSS parser.
type Inspector struct {
	log *zap.Logger
}

func NewInspector(log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{log: log.Named("css-inspect")}
}

// Inspect never fails. Malformed rules are reported as warnings and skipped,
// parsing stops on end of input or read error.
func (p *Inspector) Inspect(data []byte, source string) *Summary {
	sum := &Summary{}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		fontFace *FontFace
		depth    int
		// offset of last recoverable error, parser must move past it
		errOffset = -1
	)
	for {
		gt, _, name := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() && parser.Offset() != errOffset {
				errOffset = parser.Offset()
				err := parser.Err()
				sum.Errors = append(sum.Errors, err.Error())
				p.log.Warn("Stylesheet has malformed CSS, rule ignored", zap.String("source", source), zap.Error(err))
				continue
			}
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) && !parser.HasParseError() {
				p.log.Warn("Unable to read stylesheet", zap.String("source", source), zap.Error(err))
			}
			p.log.Debug("Stylesheet inspected", zap.String("source", source),
				zap.Int("rules", sum.Rules), zap.Int("fonts", len(sum.FontFaces)), zap.Int("urls", len(sum.URLs)))
			return sum

		case css.BeginAtRuleGrammar:
			depth++
			atRule := strings.ToLower(string(name))
			if !slices.Contains(sum.AtRules, atRule) {
				sum.AtRules = append(sum.AtRules, atRule)
			}
			if atRule == "@font-face" {
				fontFace = &FontFace{}
			}

		case css.EndAtRuleGrammar:
			depth--
			if fontFace != nil && depth == 0 {
				if fontFace.Family != "" {
					sum.FontFaces = append(sum.FontFaces, *fontFace)
				}
				fontFace = nil
			}

		case css.AtRuleGrammar:
			// @import and friends
			p.collectURLs(sum, parser.Values())

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			sum.Rules++

		case css.DeclarationGrammar:
			values := parser.Values()
			p.collectURLs(sum, values)
			if fontFace == nil {
				continue
			}
			switch strings.ToLower(string(name)) {
			case "font-family":
				fontFace.Family = unquote(join(values))
			case "src":
				fontFace.Src = join(values)
			}
		}
	}
}

func (p *Inspector) collectURLs(sum *Summary, tokens []css.Token) {
	for _, t := range tokens {
		if t.TokenType != css.URLToken {
			continue
		}
		// token data is complete url(...) text
		u := strings.TrimSpace(string(t.Data))
		u = strings.TrimPrefix(u, "url(")
		u = strings.TrimSuffix(u, ")")
		u = unquote(u)
		if u != "" && !slices.Contains(sum.URLs, u) {
			sum.URLs = append(sum.URLs, u)
		}
	}
}

func join(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		}
	}
	return strings.Join(parts, " ")
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
