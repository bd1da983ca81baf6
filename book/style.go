package book

import (
	"fmt"
	"strconv"
	"strings"

	"txt2epub/common"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns color in #RRGGBB form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor accepts #RRGGBB and #RGB forms, leading # is optional.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("bad color value %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad color value %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Style describes typography and template selection.
type Style struct {
	LineHeight       float64
	ParagraphSpacing float64
	TextIndent       float64
	FontSize         float64
	FontColor        Color
	FontPath         string
	Template         common.CssTemplate
	CustomCSS        string

	ExtraBodyClass      string
	ExtraChapterClass   string
	ExtraTitleClass     string
	ExtraParagraphClass string
}

// DefaultStyle returns typography used when nothing else is specified.
func DefaultStyle() Style {
	return Style{
		LineHeight:       1.5,
		ParagraphSpacing: 1.0,
		TextIndent:       2.0,
		FontSize:         16.0,
		Template:         common.CssTemplateClassic,
	}
}

// WithDefaults fills sizes which can not be zero from DefaultStyle. Zero
// text indent and paragraph spacing are meaningful and kept, so is the
// template.
func (s Style) WithDefaults() Style {
	def := DefaultStyle()
	if s.LineHeight <= 0 {
		s.LineHeight = def.LineHeight
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.TextIndent < 0 {
		s.TextIndent = def.TextIndent
	}
	if s.ParagraphSpacing < 0 {
		s.ParagraphSpacing = def.ParagraphSpacing
	}
	return s
}
