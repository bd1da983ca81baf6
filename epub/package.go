package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"

	"txt2epub/book"
)

const (
	mimetypeContent = "application/epub+zip"
	oebpsDir        = "OEBPS"
	xhtmlMime       = "application/xhtml+xml"
)

// item is a single manifest entry. Href is relative to content folder.
type item struct {
	id         string
	href       string
	mediaType  string
	properties string
	data       []byte
	// doc is serialized in place of data when set
	doc   *etree.Document
	spine bool
}

type tocEntry struct {
	title string
	href  string
}

// pkg holds fully prepared book ready to be written out.
type pkg struct {
	uid      string
	lang     string
	tocTitle string
	info     *book.Info
	coverID  string
	items    []*item
	toc      []tocEntry
}

func writeMimetype(zw *zip.Writer) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mimetypeContent)
	return err
}

func writeContainer(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", "urn:oasis:names:tc:opendocument:xmlns:container")

	rootfile := container.CreateElement("rootfiles").CreateElement("rootfile")
	rootfile.CreateAttr("full-path", path.Join(oebpsDir, "content.opf"))
	rootfile.CreateAttr("media-type", "application/oebps-package+xml")

	return writeXMLToZip(zw, "META-INF/container.xml", doc)
}

// addText creates child element only when value is not blank.
func addText(parent *etree.Element, tag, value string) *etree.Element {
	if value == "" {
		return nil
	}
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func addMeta(parent *etree.Element, name, value string) {
	if value == "" {
		return
	}
	meta := parent.CreateElement("meta")
	meta.CreateAttr("name", name)
	meta.CreateAttr("content", value)
}

func (p *pkg) writeOPF(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("package")
	root.CreateAttr("xmlns", "http://www.idpf.org/2007/opf")
	root.CreateAttr("version", "3.0")
	root.CreateAttr("unique-identifier", "BookId")

	metadata := root.CreateElement("metadata")
	metadata.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	metadata.CreateAttr("xmlns:opf", "http://www.idpf.org/2007/opf")

	info := trimmed(p.info)
	addText(metadata, "dc:title", p.info.DisplayTitle())
	if creator := addText(metadata, "dc:creator", info.Author); creator != nil {
		creator.CreateAttr("id", "creator")
	}
	addText(metadata, "dc:language", p.lang)
	id := addText(metadata, "dc:identifier", p.uid)
	id.CreateAttr("id", "BookId")
	addText(metadata, "dc:subject", info.Category)
	addText(metadata, "dc:description", info.Description)

	modified := metadata.CreateElement("meta")
	modified.CreateAttr("property", "dcterms:modified")
	modified.SetText(time.Now().UTC().Format("2006-01-02T15:04:05Z"))

	addMeta(metadata, "publisher", info.Publisher)
	addMeta(metadata, "identifier", info.ISBN)
	addMeta(metadata, "date", info.PublishDate)
	addMeta(metadata, "cover", p.coverID)

	manifest := root.CreateElement("manifest")
	ncx := manifest.CreateElement("item")
	ncx.CreateAttr("id", "ncx")
	ncx.CreateAttr("href", "toc.ncx")
	ncx.CreateAttr("media-type", "application/x-dtbncx+xml")

	nav := manifest.CreateElement("item")
	nav.CreateAttr("id", "nav")
	nav.CreateAttr("href", "nav.xhtml")
	nav.CreateAttr("media-type", xhtmlMime)
	nav.CreateAttr("properties", "nav")

	for _, it := range p.items {
		el := manifest.CreateElement("item")
		el.CreateAttr("id", it.id)
		el.CreateAttr("href", it.href)
		el.CreateAttr("media-type", it.mediaType)
		if it.properties != "" {
			el.CreateAttr("properties", it.properties)
		}
	}

	spine := root.CreateElement("spine")
	spine.CreateAttr("toc", "ncx")
	for _, it := range p.items {
		if it.spine {
			spine.CreateElement("itemref").CreateAttr("idref", it.id)
		}
	}

	doc.Indent(2)
	return writeXMLToZip(zw, path.Join(oebpsDir, "content.opf"), doc)
}

func (p *pkg) writeNCX(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", "http://www.daisy.org/z3986/2005/ncx/")
	ncx.CreateAttr("version", "2005-1")

	head := ncx.CreateElement("head")
	for _, kv := range [][2]string{
		{"dtb:uid", p.uid},
		{"dtb:depth", "1"},
		{"dtb:totalPageCount", "0"},
		{"dtb:maxPageNumber", "0"},
	} {
		meta := head.CreateElement("meta")
		meta.CreateAttr("name", kv[0])
		meta.CreateAttr("content", kv[1])
	}

	ncx.CreateElement("docTitle").CreateElement("text").SetText(p.info.DisplayTitle())

	navMap := ncx.CreateElement("navMap")
	for i, entry := range p.toc {
		point := navMap.CreateElement("navPoint")
		point.CreateAttr("id", "navpoint-"+strconv.Itoa(i+1))
		point.CreateAttr("playOrder", strconv.Itoa(i+1))
		point.CreateElement("navLabel").CreateElement("text").SetText(entry.title)
		point.CreateElement("content").CreateAttr("src", entry.href)
	}

	doc.Indent(2)
	return writeXMLToZip(zw, path.Join(oebpsDir, "toc.ncx"), doc)
}

func (p *pkg) writeNav(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("xmlns:epub", "http://www.idpf.org/2007/ops")
	html.CreateAttr("xml:lang", p.lang)

	html.CreateElement("head").CreateElement("title").SetText(p.tocTitle)

	nav := html.CreateElement("body").CreateElement("nav")
	nav.CreateAttr("epub:type", "toc")
	nav.CreateAttr("id", "toc")
	nav.CreateElement("h1").SetText(p.tocTitle)
	p.tocList(nav)

	doc.Indent(2)
	return writeXMLToZip(zw, path.Join(oebpsDir, "nav.xhtml"), doc)
}

// inlineTOC renders contents page included into reading order.
func (p *pkg) inlineTOC() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("xmlns:epub", "http://www.idpf.org/2007/ops")
	html.CreateAttr("xml:lang", p.lang)
	html.CreateAttr("lang", p.lang)

	head := html.CreateElement("head")
	head.CreateElement("title").SetText(p.tocTitle)
	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("type", "text/css")
	link.CreateAttr("href", "stylesheet.css")

	body := html.CreateElement("body")
	body.CreateAttr("class", "toc")
	body.CreateElement("h2").SetText(p.tocTitle)
	p.tocList(body)

	doc.Indent(2)
	return doc
}

func (p *pkg) tocList(parent *etree.Element) {
	ol := parent.CreateElement("ol")
	for _, entry := range p.toc {
		a := ol.CreateElement("li").CreateElement("a")
		a.CreateAttr("href", entry.href)
		a.SetText(entry.title)
	}
}

func (p *pkg) write(zw *zip.Writer) error {
	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("unable to write mimetype: %w", err)
	}
	if err := writeContainer(zw); err != nil {
		return fmt.Errorf("unable to write container: %w", err)
	}
	if err := p.writeOPF(zw); err != nil {
		return fmt.Errorf("unable to write OPF: %w", err)
	}
	if err := p.writeNCX(zw); err != nil {
		return fmt.Errorf("unable to write NCX: %w", err)
	}
	if err := p.writeNav(zw); err != nil {
		return fmt.Errorf("unable to write NAV: %w", err)
	}
	for _, it := range p.items {
		name := path.Join(oebpsDir, it.href)
		var err error
		if it.doc != nil {
			err = writeXMLToZip(zw, name, it.doc)
		} else {
			err = writeDataToZip(zw, name, it.data)
		}
		if err != nil {
			return fmt.Errorf("unable to write %s: %w", it.href, err)
		}
	}
	return nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// copyZipWithoutDataDescriptors re-packs archive clearing data descriptor
// flag, some readers cannot handle it. Target is replaced only after re-pack
// succeeded.
func copyZipWithoutDataDescriptors(from, to string) (err error) {
	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	out, err := os.CreateTemp(filepath.Dir(to), ".txt2epub-fix-*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	tmpName := out.Name()
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(tmpName)
		}
	}()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err = w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("unable to finalize target file (%s): %w", to, err)
	}
	if err = out.Chmod(0644); err != nil {
		return fmt.Errorf("unable to set target file mode (%s): %w", to, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("unable to close target file (%s): %w", to, err)
	}
	if err = os.Rename(tmpName, to); err != nil {
		return fmt.Errorf("unable to move target file in place (%s): %w", to, err)
	}
	return nil
}
