// Package epub assembles chapters, stylesheet and resources into EPUB
// archive.
package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"txt2epub/assets"
	"txt2epub/book"
	"txt2epub/css"
	"txt2epub/render"
	"txt2epub/stylesheet"
)

const defaultLanguage = "zh"

// Build writes chapters into new EPUB file and returns its path. File is
// created under temporary name and moved in place only when complete, so
// failed build never leaves partial archive at the target path. Existing
// file with the same name is replaced.
func Build(ctx context.Context, chapters []book.Chapter, opts *Options, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("epub")

	if len(chapters) == 0 {
		return "", fmt.Errorf("%w: no chapters to build", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := OutputDir(opts.OutputDir)
	if err != nil {
		return "", err
	}
	name, err := FileName(&opts.Info, opts.FilenameTemplate, opts.Transliterate)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)

	p, err := prepare(ctx, chapters, opts, log)
	if err != nil {
		return "", err
	}

	log.Info("Generating EPUB", zap.String("output", target), zap.Int("chapters", len(chapters)))

	if err := p.save(target, dir, opts.FixZip); err != nil {
		return "", err
	}
	return target, nil
}

// save writes archive to temporary file first and moves it to target.
func (p *pkg) save(target, dir string, fix bool) (err error) {
	f, err := os.CreateTemp(dir, ".txt2epub-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create output file: %w", ErrIO, err)
	}
	tmpName := f.Name()
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreMissing(os.Remove(tmpName)))
		}
	}()

	zw := zip.NewWriter(f)
	if err = p.write(zw); err != nil {
		return multierr.Combine(fmt.Errorf("%w: %w", ErrArchive, err), f.Close())
	}
	if err = zw.Close(); err != nil {
		return multierr.Combine(fmt.Errorf("%w: unable to close output archive: %w", ErrArchive, err), f.Close())
	}
	if err = f.Chmod(0644); err != nil {
		return multierr.Combine(fmt.Errorf("%w: %w", ErrIO, err), f.Close())
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: unable to finalize output file: %w", ErrIO, err)
	}

	if fix {
		if err = copyZipWithoutDataDescriptors(tmpName, target); err != nil {
			return fmt.Errorf("%w: %w", ErrArchive, err)
		}
		if err := os.Remove(tmpName); err != nil {
			return fmt.Errorf("%w: unable to remove temporary file: %w", ErrIO, err)
		}
		return nil
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("%w: unable to move output file in place: %w", ErrIO, err)
	}
	return nil
}

func ignoreMissing(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// prepare renders everything in memory in the final archive order: stylesheet,
// binary resources, cover page, inline contents, chapters and gallery.
func prepare(ctx context.Context, chapters []book.Chapter, opts *Options, log *zap.Logger) (*pkg, error) {
	info := trimmed(&opts.Info)
	lang := info.Language
	if lang == "" {
		lang = defaultLanguage
	}

	style := book.DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}
	bundle := opts.Bundle
	if bundle == nil {
		bundle = assets.Default()
	}

	p := &pkg{
		uid:      bookID(&info),
		lang:     lang,
		tocTitle: tocTitle(opts.TOC.Title, info.Language),
		info:     &info,
	}
	names := newNamer()

	templateRes, err := bundle.TemplateResources(style.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	var placeholders []string
	for _, r := range templateRes {
		names.reserve(r.Path)
		if r.Placeholder {
			placeholders = append(placeholders, r.Path)
		}
	}
	if len(placeholders) > 0 {
		log.Warn("Template decorations use bundled placeholders, put real files into assets directory (images.assets_dir)",
			zap.Stringer("template", style.Template), zap.Strings("resources", placeholders))
	}

	var resources []*item
	if opts.Cover != nil {
		img := names.image(opts.Cover)
		p.coverID = "cover-image"
		resources = append(resources, &item{
			id:         p.coverID,
			href:       "images/" + img.Name,
			mediaType:  img.MimeType,
			properties: "cover-image",
			data:       img.Data,
		})
	}
	var font *book.Font
	if opts.Font != nil {
		f := *opts.Font
		f.Name = path.Base(names.unique("fonts/" + f.Name))
		font = &f
		resources = append(resources, &item{id: "font", href: "fonts/" + f.Name, mediaType: f.MimeType, data: f.Data})
	}
	var header *book.Image
	if opts.ChapterHeader != nil {
		header = names.image(opts.ChapterHeader)
		resources = append(resources, &item{id: "chapter-header", href: "images/" + header.Name, mediaType: header.MimeType, data: header.Data})
	}
	for i, r := range templateRes {
		resources = append(resources, &item{id: fmt.Sprintf("res-%04d", i+1), href: r.Path, mediaType: r.MimeType, data: r.Data})
	}
	gallery := make([]*book.Image, 0, len(opts.Images))
	for i, src := range opts.Images {
		img := names.image(src)
		gallery = append(gallery, img)
		resources = append(resources, &item{id: fmt.Sprintf("img-%04d", i+1), href: "images/" + img.Name, mediaType: img.MimeType, data: img.Data})
	}

	base := opts.BaseStylesheet
	if base == nil {
		base = stylesheet.DefaultBase()
	}
	sheet, err := stylesheet.Build(base, &style, font)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	p.items = append(p.items, &item{id: "stylesheet", href: "stylesheet.css", mediaType: "text/css", data: []byte(sheet)})
	p.items = append(p.items, resources...)

	summary := css.NewInspector(log).Inspect([]byte(sheet), "stylesheet.css")
	for _, u := range summary.Missing(names.taken) {
		log.Warn("Stylesheet references missing resource", zap.String("url", u))
	}
	log.Debug("Stylesheet prepared", zap.Int("rules", summary.Rules), zap.Int("fonts", len(summary.FontFaces)))

	if opts.Cover == nil {
		p.items = append(p.items, &item{
			id:        "cover-page",
			href:      "cover.xhtml",
			mediaType: xhtmlMime,
			doc:       render.TextCover(&info, lang, style.Template),
			spine:     true,
		})
	}

	var inline *item
	if opts.TOC.Inline {
		inline = &item{id: "toc-page", href: "toc.xhtml", mediaType: xhtmlMime, spine: true}
		p.items = append(p.items, inline)
	}

	for i := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ch := chapters[i]
		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = book.UntitledChapter
			ch.Title = title
		}
		href := fmt.Sprintf("chapter_%04d.xhtml", i+1)
		doc := render.Chapter(&ch, &render.ChapterOptions{
			Language:        lang,
			Style:           &style,
			Index:           i + 1,
			HeaderImage:     header,
			HeaderFullbleed: opts.ChapterHeaderFullbleed,
		})
		p.items = append(p.items, &item{
			id:        strings.TrimSuffix(href, ".xhtml"),
			href:      href,
			mediaType: xhtmlMime,
			doc:       doc,
			spine:     true,
		})
		p.toc = append(p.toc, tocEntry{title: title, href: href})
	}

	if opts.IncludeImagesSection && len(gallery) > 0 {
		title := render.GalleryTitle(lang)
		p.items = append(p.items, &item{
			id:        "images-page",
			href:      "images.xhtml",
			mediaType: xhtmlMime,
			doc:       render.Gallery(gallery, lang, title),
			spine:     true,
		})
		if opts.TOC.ImagesInTOC {
			p.toc = append(p.toc, tocEntry{title: title, href: "images.xhtml"})
		}
	}

	if inline != nil {
		inline.doc = p.inlineTOC()
	}
	return p, nil
}

func trimmed(in *book.Info) book.Info {
	return book.Info{
		Author:      strings.TrimSpace(in.Author),
		Title:       strings.TrimSpace(in.Title),
		Language:    strings.TrimSpace(in.Language),
		Publisher:   strings.TrimSpace(in.Publisher),
		ISBN:        strings.TrimSpace(in.ISBN),
		Category:    strings.TrimSpace(in.Category),
		PublishDate: strings.TrimSpace(in.PublishDate),
		Description: strings.TrimSpace(in.Description),
	}
}

// bookID is stable for the same title, author and ISBN.
func bookID(info *book.Info) string {
	key := strings.Join([]string{info.DisplayTitle(), info.DisplayAuthor(), info.ISBN}, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).URN()
}

// tocTitle returns override when given, otherwise contents title for
// language. Chinese and unspecified languages get Chinese title.
func tocTitle(override, lang string) string {
	if t := strings.TrimSpace(override); t != "" {
		return t
	}
	if isChinese(lang) {
		return "目录"
	}
	return "Table Of Contents"
}

func isChinese(lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return true
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(lang), "zh")
	}
	base, _ := tag.Base()
	return base.String() == "zh"
}

// namer keeps archive member names unique.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: map[string]bool{
		"stylesheet.css": true, "cover.xhtml": true, "toc.xhtml": true,
		"nav.xhtml": true, "toc.ncx": true, "images.xhtml": true,
	}}
}

func (n *namer) reserve(href string) {
	n.used[href] = true
}

func (n *namer) taken(href string) bool {
	return n.used[path.Clean(href)]
}

func (n *namer) unique(href string) string {
	res := href
	ext := path.Ext(href)
	stem := strings.TrimSuffix(href, ext)
	for i := 2; n.used[res]; i++ {
		res = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	n.used[res] = true
	return res
}

// image returns copy of img with name unique within images folder.
func (n *namer) image(img *book.Image) *book.Image {
	res := *img
	res.Name = path.Base(n.unique("images/" + img.Name))
	if res.MimeType == "" {
		res.MimeType = assets.ImageMime(path.Ext(res.Name), res.Data)
	}
	return &res
}
