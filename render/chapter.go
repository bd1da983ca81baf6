package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"txt2epub/book"
	"txt2epub/common"
)

// DefaultFantasyHeader is bundled header image used by fantasy template when
// no chapter header image was supplied.
const DefaultFantasyHeader = "头图.webp"

// ChapterOptions holds per chapter rendering parameters.
type ChapterOptions struct {
	Language string
	Style    *book.Style
	// Index is 1 based chapter number, used by fantasy template.
	Index           int
	HeaderImage     *book.Image
	HeaderFullbleed bool
}

// Chapter renders complete XHTML document for a single chapter.
func Chapter(ch *book.Chapter, opts *ChapterOptions) *etree.Document {
	style := opts.Style
	if style == nil {
		def := book.DefaultStyle()
		style = &def
	}
	fantasy := style.Template == common.CssTemplateFantasy
	title := strings.TrimSpace(ch.Title)

	doc, body := newDocument(opts.Language, title)

	bodyClass := "chapter"
	if fantasy {
		bodyClass = "chapter intro2 fantasy"
	}
	body.CreateAttr("class", mergeClasses(bodyClass, style.ExtraBodyClass))

	switch number, name, ok := SplitChineseChapterTitle(title); {
	case fantasy && ok:
		src := "images/" + DefaultFantasyHeader
		if opts.HeaderImage != nil {
			src = "images/" + opts.HeaderImage.Name
		}
		appendImage(appendBlock(body, "div", "Header-image-dk"), "width100", src, "")
		appendBlock(body, "h2", mergeClasses("chapter-title-hidden", style.ExtraTitleClass)).SetText(title)

		nt := appendBlock(body, "p", "nt")
		appendImage(nt, "emoji", "images/4star.webp", "").SetTail(" " + number + " ")
		appendImage(nt, "emoji", "images/4star.webp", "")

		appendBlock(body, "p", "et").SetText(fmt.Sprintf("CHAPTER%02d", opts.Index))

		ct := appendBlock(body, "p", "ct")
		appendImage(ct, "emoji1", "images/ttl.webp", "").SetTail(" " + name + " ")
		appendImage(ct, "emoji1", "images/ttr.webp", "")
	case fantasy:
		appendStandardHeader(body, title, opts.Language, style)
	default:
		if opts.HeaderImage != nil {
			class := "chapter-head-image"
			if opts.HeaderFullbleed {
				class += " fullbleed"
			}
			appendImage(appendBlock(body, "div", class), "", "images/"+opts.HeaderImage.Name, "")
		}
		appendStandardHeader(body, title, opts.Language, style)
	}

	indent := fmt.Sprintf("%.2f", style.TextIndent)
	for i, paragraph := range SplitParagraphs(ch.Content) {
		lines, marker := extractMarkerClass(paragraph)

		class := "chapter-paragraph"
		pi := indent
		if i == 0 {
			class += " chapter-paragraph-first"
			pi = "0.00"
		}
		class = mergeClasses(mergeClasses(class, style.ExtraParagraphClass), marker)

		p := appendBlock(body, "p", class)
		p.CreateAttr("style", "text-indent: "+pi+"em;")
		appendLines(p, lines)
	}
	return doc
}

func appendStandardHeader(body *etree.Element, title, language string, style *book.Style) {
	label, name, hasName := FormatChapterHeading(title, language)

	header := appendBlock(body, "div", mergeClasses("chapter-header", style.ExtraChapterClass))
	appendBlock(header, "div", "chapter-ornament")

	heading := label
	if hasName {
		appendBlock(header, "div", "chapter-label").SetText(label)
		heading = name
	}
	appendBlock(header, "h2", mergeClasses("", style.ExtraTitleClass)).SetText(heading)

	appendBlock(header, "div", "chapter-ornament")
}
