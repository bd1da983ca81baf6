// Package convert ties chapter detection and book assembly together and
// implements command line actions.
package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"txt2epub/assets"
	"txt2epub/book"
	"txt2epub/chapter"
	"txt2epub/common"
)

// Request is a single conversion job.
type Request struct {
	Text string

	Method     common.SplitMethod
	Preset     common.Preset
	Regex      string
	ConfigPath string
	// Chapters, when not nil, is used instead of detecting chapters in Text.
	Chapters []book.Chapter

	Info             book.Info
	OutputDir        string
	// FilenameTemplate defaults to DefaultFilenameTemplate when empty.
	FilenameTemplate string
	Transliterate    bool
	FixZip           bool

	// Style is replaced by book.DefaultStyle when left zero. Otherwise zero
	// LineHeight and FontSize are taken from book.DefaultStyle, other fields
	// are used as given.
	Style          book.Style
	BaseStylesheet []byte
	Bundle         *assets.Bundle

	Cover           *book.Image
	ChapterHeader   *book.Image
	HeaderFullbleed bool
	Images          []*book.Image
	Font            *book.Font

	IncludeImagesSection bool
	TOC                  book.TOCOptions
}

// DetectChapters returns chapter list request is going to use: the override when
// present or the result of detection.
func (r *Request) DetectChapters() ([]book.Chapter, error) {
	if r.Chapters != nil {
		return r.Chapters, nil
	}
	splitter, err := NewSplitter(r.Method, r.Regex, r.ConfigPath, r.Preset)
	if err != nil {
		return nil, err
	}
	chapters, err := splitter.Split(r.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPattern, err)
	}
	return chapters, nil
}

// Signature fingerprints text together with detection settings. Blank
// regex is replaced with the preset pattern it stands for.
func (r *Request) Signature() uint64 {
	regex := r.Regex
	if r.Method == common.SplitMethodRegex && strings.TrimSpace(regex) == "" {
		regex = chapter.PresetPattern(r.Preset).String()
	}
	configPath := ""
	if r.Method == common.SplitMethodFile {
		configPath = r.ConfigPath
	}
	return chapter.Signature(r.Text, r.Method, regex, configPath)
}

// Convert validates request, detects chapters and builds EPUB returning its
// path.
func Convert(ctx context.Context, req *Request, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("convert")

	if strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("%w: Text content is empty.", ErrInvalidInput)
	}

	start := time.Now()
	chapters, err := req.DetectChapters()
	if err != nil {
		return "", err
	}
	if len(chapters) == 0 {
		return "", fmt.Errorf("%w: No chapters detected.", ErrInvalidInput)
	}
	log.Debug("Chapters ready",
		zap.Int("count", len(chapters)),
		zap.Bool("override", req.Chapters != nil),
		zap.String("method", req.Method.Label()),
		zap.Duration("elapsed", time.Since(start)))

	plan := NewPlan(req.Info)
	if req.Style != (book.Style{}) {
		plan.Style(req.Style.WithDefaults())
	}
	if req.FilenameTemplate != "" {
		plan.FilenameTemplate(req.FilenameTemplate)
	}
	out, err := plan.
		OutputDir(req.OutputDir).
		Transliterate(req.Transliterate).
		FixZip(req.FixZip).
		BaseStylesheet(req.BaseStylesheet).
		Bundle(req.Bundle).
		Cover(req.Cover).
		ChapterHeader(req.ChapterHeader, req.HeaderFullbleed).
		Images(req.Images).
		Font(req.Font).
		IncludeImagesSection(req.IncludeImagesSection).
		InlineTOC(req.TOC.Inline).
		TOCTitle(req.TOC.Title).
		ImagesInTOC(req.TOC.ImagesInTOC).
		Build(ctx, chapters, log)
	if err != nil {
		return "", err
	}
	return out, nil
}
