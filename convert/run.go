package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"txt2epub/assets"
	"txt2epub/book"
	"txt2epub/common"
	"txt2epub/config"
	"txt2epub/epub"
	"txt2epub/state"
	"txt2epub/stylesheet"
)

// Run is convert subcommand action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = env.Cfg.Output.Dir
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := applyFlags(cmd, env); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		if err == nil {
			log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	text, s, err := loadText(src, env, log)
	if err != nil {
		return err
	}

	req, err := prepareRequest(text, s, dst, env, log)
	if err != nil {
		return err
	}
	if path := cmd.String("chapters"); len(path) > 0 {
		if err := useChapterList(req, path, log); err != nil {
			return err
		}
		env.Rpt.Store("chapters/"+filepath.Base(path), path)
	}

	if err := checkTarget(req, env.Overwrite, log); err != nil {
		return err
	}

	out, err := Convert(ctx, req, log)
	if err != nil {
		return err
	}
	log.Info("Book written", zap.String("file", out))

	env.Rpt.Store("result/"+filepath.Base(out), out)
	return nil
}

// Split is split subcommand action: it shows detected chapters and
// optionally saves them for editing.
func Split(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("split")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if err := applyFlags(cmd, env); err != nil {
		return err
	}

	text, s, err := loadText(src, env, log)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: Text content is empty.", ErrInvalidInput)
	}

	req := splitRequest(text, env.Cfg)
	chapters, err := req.DetectChapters()
	if err != nil {
		return err
	}
	sig := req.Signature()

	log.Info("Chapters detected",
		zap.String("source", s.Name),
		zap.String("method", req.Method.Label()),
		zap.Int("count", len(chapters)),
		zap.String("signature", FormatSignature(sig)))
	for i, ch := range chapters {
		log.Info("Chapter", zap.Int("n", i+1), zap.String("title", ch.Title), zap.Int("length", utf8.RuneCountInString(ch.Content)))
	}

	out := cmd.String("out")
	if len(out) == 0 {
		return nil
	}
	list := &ChapterList{
		Source:    s.Name,
		Method:    req.Method.String(),
		Regex:     strings.TrimSpace(req.Regex),
		Signature: FormatSignature(sig),
		Chapters:  chapters,
	}
	if err := list.Save(out); err != nil {
		return err
	}
	log.Info("Chapter list saved", zap.String("file", out))
	env.Rpt.Store("chapters/"+filepath.Base(out), out)
	return nil
}

// applyFlags puts command line values on top of configuration.
func applyFlags(cmd *cli.Command, env *state.LocalEnv) error {
	cfg := env.Cfg

	strs := []struct {
		flag string
		to   *string
	}{
		{"title", &cfg.Book.Title},
		{"author", &cfg.Book.Author},
		{"language", &cfg.Book.Language},
		{"regex", &cfg.Split.Regex},
		{"regex-file", &cfg.Split.RegexFile},
		{"encoding", &cfg.Split.Encoding},
		{"cover", &cfg.Images.Cover},
		{"header-image", &cfg.Images.ChapterHeader},
		{"font", &cfg.Style.FontPath},
		{"css", &cfg.Style.StylesheetPath},
	}
	for _, s := range strs {
		if cmd.IsSet(s.flag) {
			*s.to = cmd.String(s.flag)
		}
	}

	if cmd.IsSet("method") {
		m, err := common.ParseSplitMethod(cmd.String("method"))
		if err != nil {
			return fmt.Errorf("bad --method value: %w", err)
		}
		cfg.Split.Method = m
	} else if cmd.IsSet("regex-file") && !cmd.IsSet("regex") {
		cfg.Split.Method = common.SplitMethodFile
	}
	if cmd.IsSet("preset") {
		p, err := common.ParsePreset(cmd.String("preset"))
		if err != nil {
			return fmt.Errorf("bad --preset value: %w", err)
		}
		cfg.Split.Preset = p
	}
	if cmd.IsSet("template") {
		t, err := common.ParseCssTemplate(cmd.String("template"))
		if err != nil {
			return fmt.Errorf("bad --template value: %w", err)
		}
		cfg.Style.Template = t
	}
	if cmd.IsSet("gallery") {
		cfg.Images.Gallery = cfg.Images.Gallery[:0]
		for _, p := range cmd.StringSlice("gallery") {
			cfg.Images.Gallery = append(cfg.Images.Gallery, assets.GalleryItem{Path: p})
		}
	}

	env.Overwrite = cmd.Bool("overwrite")

	env.Encoding = nil
	if name := strings.TrimSpace(cfg.Split.Encoding); len(name) > 0 {
		enc, err := LookupEncoding(name)
		if err != nil {
			return fmt.Errorf("unknown character set %q: %w", name, err)
		}
		env.Encoding = enc
	}
	return nil
}

// loadText reads and decodes manuscript. Source is copied into debug report.
func loadText(src string, env *state.LocalEnv, log *zap.Logger) (string, *source, error) {
	s, err := readSource(src, env.Cfg.Split.MaxSize)
	if err != nil {
		return "", nil, err
	}
	if s.Archived {
		log.Debug("Manuscript found in archive", zap.String("archive", s.Path), zap.String("file", s.Name), zap.Int("size", len(s.Data)))
		env.Rpt.StoreData("source/"+filepath.Base(s.Name), s.Data)
	} else {
		env.Rpt.Store("source/"+s.Name, s.Path)
	}

	text, err := DecodeText(s.Data, env.Encoding, log)
	if err != nil {
		return "", nil, err
	}
	return text, s, nil
}

func splitRequest(text string, cfg *config.Config) *Request {
	return &Request{
		Text:       text,
		Method:     cfg.Split.Method,
		Preset:     cfg.Split.Preset,
		Regex:      cfg.Split.Regex,
		ConfigPath: cfg.Split.RegexFile,
	}
}

// prepareRequest loads all resources configuration refers to.
func prepareRequest(text string, s *source, dst string, env *state.LocalEnv, log *zap.Logger) (*Request, error) {
	cfg := env.Cfg
	req := splitRequest(text, cfg)

	req.Info = cfg.Book
	if strings.TrimSpace(req.Info.Title) == "" {
		title, author := book.InfoFromFileName(s.Name)
		req.Info.Title = title
		if strings.TrimSpace(req.Info.Author) == "" {
			req.Info.Author = author
		}
		log.Debug("Book info guessed from file name", zap.String("title", title), zap.String("author", author))
	}

	req.OutputDir = dst
	req.FilenameTemplate = cfg.Output.NameTemplate
	req.Transliterate = cfg.Output.Transliterate
	req.FixZip = cfg.Output.FixZip
	req.Style = cfg.BookStyle()
	req.IncludeImagesSection = cfg.Images.IncludeSection
	req.HeaderFullbleed = cfg.Images.HeaderFullbleed
	req.TOC = book.TOCOptions{Inline: cfg.TOC.Inline, Title: cfg.TOC.Title, ImagesInTOC: cfg.TOC.Images}

	var err error
	if len(cfg.Style.StylesheetPath) > 0 {
		if req.BaseStylesheet, err = stylesheet.LoadBase(cfg.Style.StylesheetPath); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if req.BaseStylesheet == nil {
			log.Warn("Base stylesheet not found, using none", zap.String("file", cfg.Style.StylesheetPath))
			req.BaseStylesheet = []byte{}
		}
	}
	if req.Bundle, err = assets.FromDir(cfg.Images.AssetsDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	limits := cfg.ImageLimits()
	if req.Cover, err = assets.LoadCover(cfg.Images.Cover, limits, log); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if req.ChapterHeader, err = assets.LoadChapterHeader(cfg.Images.ChapterHeader, limits, log); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if req.Images, err = assets.LoadGallery(cfg.Images.Gallery, limits, log); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if len(cfg.Style.FontPath) > 0 {
		if req.Font, err = assets.LoadFont(cfg.Style.FontPath, log); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	return req, nil
}

// useChapterList replaces chapter detection with edited list. List made for
// different text or settings is still used, but reported.
func useChapterList(req *Request, path string, log *zap.Logger) error {
	list, err := LoadChapterList(path)
	if err != nil {
		return err
	}
	if !list.Matches(req.Signature()) {
		log.Warn("Chapter list is stale, manuscript or detection settings changed since it was saved",
			zap.String("file", path), zap.String("signature", list.Signature), zap.String("expected", FormatSignature(req.Signature())))
	}
	req.Chapters = list.Chapters
	return nil
}

// checkTarget refuses to replace existing book unless overwrite is allowed.
func checkTarget(req *Request, overwrite bool, log *zap.Logger) error {
	tmpl := req.FilenameTemplate
	if len(tmpl) == 0 {
		tmpl = DefaultFilenameTemplate
	}
	name, err := epub.FileName(&req.Info, tmpl, req.Transliterate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	dir, err := epub.OutputDir(req.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	target := filepath.Join(dir, name)

	if _, err := os.Stat(target); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", target)
		}
		log.Warn("Overwriting existing file", zap.String("file", target))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
