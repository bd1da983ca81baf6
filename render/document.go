// Package render produces XHTML documents for chapters, the image gallery
// and the text cover page.
package render

import (
	"strings"

	"github.com/beevik/etree"
)

// newDocument creates XHTML content document linked to the book stylesheet
// and returns it together with its body element.
func newDocument(language, title string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("xmlns:epub", "http://www.idpf.org/2007/ops")
	if language != "" {
		html.CreateAttr("xml:lang", language)
		html.CreateAttr("lang", language)
	}

	head := html.CreateElement("head")

	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")

	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("type", "text/css")
	link.CreateAttr("href", "stylesheet.css")

	head.CreateElement("title").SetText(title)

	return doc, html.CreateElement("body")
}

// mergeClasses appends whitespace separated extra classes to base.
func mergeClasses(base, extra string) string {
	fields := strings.Fields(extra)
	if len(fields) == 0 {
		return base
	}
	if base == "" {
		return strings.Join(fields, " ")
	}
	return base + " " + strings.Join(fields, " ")
}

// appendBlock creates child element with optional class attribute.
func appendBlock(parent *etree.Element, tag, class string) *etree.Element {
	el := parent.CreateElement(tag)
	if class != "" {
		el.CreateAttr("class", class)
	}
	return el
}

func appendImage(parent *etree.Element, class, src, alt string) *etree.Element {
	img := appendBlock(parent, "img", class)
	img.CreateAttr("src", src)
	img.CreateAttr("alt", alt)
	return img
}

// appendLines puts lines into parent separated by line breaks.
func appendLines(parent *etree.Element, lines []string) {
	for i, l := range lines {
		if i == 0 {
			parent.SetText(l)
			continue
		}
		parent.CreateElement("br").SetTail(l)
	}
}
