package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"txt2epub/assets"
	"txt2epub/book"
	"txt2epub/epub"
)

const DefaultFilenameTemplate = "{书名}_{作者}.epub"

// Plan accumulates build options. Zero value is not usable, use NewPlan.
type Plan struct {
	opts epub.Options
}

// NewPlan starts with output to current directory, default file name
// template, default style, gallery page and inline contents enabled.
func NewPlan(info book.Info) *Plan {
	style := book.DefaultStyle()
	return &Plan{opts: epub.Options{
		Info:                 info,
		OutputDir:            ".",
		FilenameTemplate:     DefaultFilenameTemplate,
		Style:                &style,
		IncludeImagesSection: true,
		TOC:                  book.TOCOptions{Inline: true},
	}}
}

func (p *Plan) OutputDir(dir string) *Plan {
	p.opts.OutputDir = dir
	return p
}

func (p *Plan) FilenameTemplate(tmpl string) *Plan {
	p.opts.FilenameTemplate = tmpl
	return p
}

func (p *Plan) Transliterate(on bool) *Plan {
	p.opts.Transliterate = on
	return p
}

func (p *Plan) FixZip(on bool) *Plan {
	p.opts.FixZip = on
	return p
}

func (p *Plan) Style(style book.Style) *Plan {
	p.opts.Style = &style
	return p
}

// BaseStylesheet replaces embedded base rules, nil restores them.
func (p *Plan) BaseStylesheet(css []byte) *Plan {
	p.opts.BaseStylesheet = css
	return p
}

func (p *Plan) Bundle(b *assets.Bundle) *Plan {
	p.opts.Bundle = b
	return p
}

func (p *Plan) Cover(img *book.Image) *Plan {
	p.opts.Cover = img
	return p
}

func (p *Plan) ChapterHeader(img *book.Image, fullbleed bool) *Plan {
	p.opts.ChapterHeader = img
	p.opts.ChapterHeaderFullbleed = fullbleed
	return p
}

func (p *Plan) Images(images []*book.Image) *Plan {
	p.opts.Images = images
	return p
}

func (p *Plan) Font(font *book.Font) *Plan {
	p.opts.Font = font
	return p
}

func (p *Plan) IncludeImagesSection(on bool) *Plan {
	p.opts.IncludeImagesSection = on
	return p
}

func (p *Plan) InlineTOC(on bool) *Plan {
	p.opts.TOC.Inline = on
	return p
}

func (p *Plan) TOCTitle(title string) *Plan {
	p.opts.TOC.Title = title
	return p
}

func (p *Plan) ImagesInTOC(on bool) *Plan {
	p.opts.TOC.ImagesInTOC = on
	return p
}

// Options returns copy of accumulated options.
func (p *Plan) Options() epub.Options {
	return p.opts
}

// Build produces the book. Any failure is reported as ErrBuild wrapping the
// underlying cause.
func (p *Plan) Build(ctx context.Context, chapters []book.Chapter, log *zap.Logger) (string, error) {
	opts := p.opts
	out, err := epub.Build(ctx, chapters, &opts, log)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return out, nil
}
