package render

import (
	"strings"

	"github.com/beevik/etree"

	"txt2epub/book"
)

// GalleryTitle returns heading of the illustrations page for language.
func GalleryTitle(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" || strings.HasPrefix(lang, "zh") {
		return "插图"
	}
	return "Illustrations"
}

// Gallery renders illustrations page with one figure per image.
func Gallery(images []*book.Image, language, title string) *etree.Document {
	doc, body := newDocument(language, title)
	body.CreateElement("h2").SetText(title)

	for _, img := range images {
		figure := body.CreateElement("figure")
		appendImage(figure, "", "images/"+img.Name, img.Caption)
		if img.Caption != "" {
			figure.CreateElement("figcaption").SetText(img.Caption)
		}
	}
	return doc
}
