package render

import (
	"strings"

	"github.com/beevik/etree"

	"txt2epub/book"
	"txt2epub/common"
)

// TextCover renders title page used when no cover image is available.
func TextCover(info *book.Info, language string, template common.CssTemplate) *etree.Document {
	subtitle := strings.TrimSpace(info.Category)

	var meta []string
	if p := strings.TrimSpace(info.Publisher); p != "" {
		meta = append(meta, p)
	}
	if d := strings.TrimSpace(info.PublishDate); d != "" {
		meta = append(meta, d)
	}

	bodyClass := "cover-page"
	switch template {
	case common.CssTemplateFolio:
		bodyClass += " cover-folio"
	case common.CssTemplateFantasy:
		bodyClass += " cover-fantasy"
	}

	doc, body := newDocument(language, info.DisplayTitle())
	body.CreateAttr("class", bodyClass)

	frame := appendBlock(body, "div", "cover-frame")
	appendBlock(frame, "div", "cover-ornament")
	appendBlock(frame, "div", "cover-title").SetText(info.DisplayTitle())
	if subtitle != "" {
		appendBlock(frame, "div", "cover-subtitle").SetText(subtitle)
	}
	appendBlock(frame, "div", "cover-author").SetText(info.DisplayAuthor())
	appendBlock(frame, "div", "cover-ornament")
	if len(meta) > 0 {
		appendBlock(frame, "div", "cover-meta").SetText(strings.Join(meta, " · "))
	}
	return doc
}
