package epub

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"txt2epub/book"
	"txt2epub/common"
)

func readArchive(t *testing.T, name string) (map[string][]byte, []string) {
	t.Helper()
	r, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open result: %v", err)
	}
	defer r.Close()

	files := make(map[string][]byte)
	order := make([]string, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = data
		order = append(order, f.Name)
	}
	return files, order
}

func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("unable to parse xml: %v", err)
	}
	return doc
}

func testChapters() []book.Chapter {
	return []book.Chapter{
		{Title: "第一章 开始", Content: "他来了。\n她走了。"},
		{Title: "第二章 继续", Content: "第一段\n\n第二段"},
		{Title: "  ", Content: "无题"},
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		info     book.Info
		tmpl     string
		translit bool
		want     string
	}{
		{"placeholders", book.Info{Title: "三体", Author: "刘慈欣"}, "{书名}_{作者}.epub", false, "三体_刘慈欣.epub"},
		{"defaults", book.Info{}, "{书名}_{作者}", false, "Untitled_Unknown.epub"},
		{"sanitized", book.Info{}, "my*file", false, "myfile.epub"},
		{"date", book.Info{Title: "T", PublishDate: " 2024 "}, "{书名}-{日期}", false, "T-2024.epub"},
		{"all invalid", book.Info{Title: "A/B", Author: "C"}, "***", false, "AB_C.epub"},
		{"go template", book.Info{Title: "Dune", Author: "Herbert"}, "{{ .Author | upper }} - {{ .Title }}", false, "HERBERT - Dune.epub"},
		{"transliterate", book.Info{Title: "Hello World", Author: "Me"}, "{书名} {作者}", true, "hello-world-me.epub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileName(&tt.info, tt.tmpl, tt.translit)
			if err != nil {
				t.Fatalf("FileName: %v", err)
			}
			if got != tt.want {
				t.Errorf("FileName = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := FileName(&book.Info{}, "{{ .Title", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for broken template, got %v", err)
	}
}

func TestTOCTitle(t *testing.T) {
	tests := []struct {
		override, lang, want string
	}{
		{"", "", "目录"},
		{"", "zh-CN", "目录"},
		{"", "zh-Hant-TW", "目录"},
		{"", "en", "Table Of Contents"},
		{"", "fr", "Table Of Contents"},
		{" Contents ", "zh", "Contents"},
	}
	for _, tt := range tests {
		if got := tocTitle(tt.override, tt.lang); got != tt.want {
			t.Errorf("tocTitle(%q, %q) = %q, want %q", tt.override, tt.lang, got, tt.want)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(context.Background(), nil, &Options{OutputDir: t.TempDir()}, zaptest.NewLogger(t))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	_, err := Build(ctx, testChapters(), &Options{OutputDir: dir}, zaptest.NewLogger(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cancelled build left files behind: %v", entries)
	}
}

func TestBuildTextCover(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{
		Info:             book.Info{Title: "测试", Author: "作者", Publisher: "  ", Category: "武侠"},
		OutputDir:        filepath.Join(dir, "out"),
		FilenameTemplate: "{书名}_{作者}.epub",
		TOC:              book.TOCOptions{Inline: true},
	}
	out, err := Build(context.Background(), testChapters(), opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := filepath.Join(dir, "out", "测试_作者.epub"); out != want {
		t.Fatalf("output %q, want %q", out, want)
	}

	files, order := readArchive(t, out)
	if order[0] != "mimetype" || string(files["mimetype"]) != "application/epub+zip" {
		t.Fatalf("mimetype must come first, got %v", order[0])
	}
	for _, name := range []string{
		"META-INF/container.xml", "OEBPS/content.opf", "OEBPS/toc.ncx", "OEBPS/nav.xhtml",
		"OEBPS/stylesheet.css", "OEBPS/cover.xhtml", "OEBPS/toc.xhtml",
		"OEBPS/chapter_0001.xhtml", "OEBPS/chapter_0002.xhtml", "OEBPS/chapter_0003.xhtml",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing archive member %s", name)
		}
	}
	if _, ok := files["OEBPS/images.xhtml"]; ok {
		t.Errorf("gallery page written without images")
	}

	opf := parseXML(t, files["OEBPS/content.opf"])
	md := opf.FindElement("//metadata")
	if v := md.FindElement("dc:title").Text(); v != "测试" {
		t.Errorf("dc:title = %q", v)
	}
	if v := md.FindElement("dc:language").Text(); v != "zh" {
		t.Errorf("dc:language = %q", v)
	}
	if v := md.FindElement("dc:subject").Text(); v != "武侠" {
		t.Errorf("dc:subject = %q", v)
	}
	if md.FindElement("dc:description") != nil {
		t.Errorf("blank description must be omitted")
	}
	if md.FindElement("meta[@name='publisher']") != nil {
		t.Errorf("blank publisher must be omitted")
	}
	if md.FindElement("meta[@name='cover']") != nil {
		t.Errorf("text cover must not declare cover image")
	}
	if id := md.FindElement("dc:identifier").Text(); !strings.HasPrefix(id, "urn:uuid:") {
		t.Errorf("unexpected identifier %q", id)
	}

	var spine []string
	for _, ref := range opf.FindElements("//spine/itemref") {
		spine = append(spine, ref.SelectAttrValue("idref", ""))
	}
	want := []string{"cover-page", "toc-page", "chapter_0001", "chapter_0002", "chapter_0003"}
	if strings.Join(spine, ",") != strings.Join(want, ",") {
		t.Errorf("spine %v, want %v", spine, want)
	}

	ncx := parseXML(t, files["OEBPS/toc.ncx"])
	points := ncx.FindElements("//navPoint")
	if len(points) != 3 {
		t.Fatalf("toc has %d entries, want 3", len(points))
	}
	if title := points[2].FindElement("navLabel/text").Text(); title != book.UntitledChapter {
		t.Errorf("blank title rendered as %q", title)
	}

	nav := parseXML(t, files["OEBPS/nav.xhtml"])
	if h := nav.FindElement("//h1").Text(); h != "目录" {
		t.Errorf("nav title %q", h)
	}
	if !strings.Contains(string(files["OEBPS/cover.xhtml"]), `<div class="cover-title">测试</div>`) {
		t.Errorf("cover page does not carry title")
	}
	if !strings.Contains(string(files["OEBPS/toc.xhtml"]), `href="chapter_0002.xhtml"`) {
		t.Errorf("inline toc does not link chapters")
	}
}

func TestBuildImageCoverAndGallery(t *testing.T) {
	dir := t.TempDir()
	style := book.DefaultStyle()
	style.Template = common.CssTemplateFantasy
	opts := &Options{
		Info:                 book.Info{Title: "Book", Author: "Someone", Language: "en", ISBN: "978-0"},
		OutputDir:            dir,
		FilenameTemplate:     "{书名}",
		FixZip:               true,
		Style:                &style,
		Cover:                &book.Image{Name: "cover.png", Data: []byte("cover"), MimeType: "image/png"},
		ChapterHeader:        &book.Image{Name: "chapter-header.png", Data: []byte("head"), MimeType: "image/png"},
		Font:                 &book.Font{Name: "kt.ttf", Family: "kt", Data: []byte("font"), MimeType: "font/ttf"},
		Images:               []*book.Image{{Name: "cover.png", Data: []byte("other"), Caption: "Map"}, {Name: "b.jpg", Data: []byte("b"), MimeType: "image/jpeg"}},
		IncludeImagesSection: true,
		TOC:                  book.TOCOptions{ImagesInTOC: true},
	}
	out, err := Build(context.Background(), testChapters(), opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if filepath.Base(out) != "Book.epub" {
		t.Errorf("unexpected name %s", out)
	}

	files, _ := readArchive(t, out)
	if _, ok := files["OEBPS/cover.xhtml"]; ok {
		t.Errorf("cover page must not be generated when cover image is given")
	}
	if string(files["OEBPS/images/cover.png"]) != "cover" {
		t.Errorf("cover image missing")
	}
	if string(files["OEBPS/images/cover_2.png"]) != "other" {
		t.Errorf("gallery image with clashing name must be renamed")
	}
	if string(files["OEBPS/fonts/kt_2.ttf"]) != "font" {
		t.Errorf("custom font clashing with template font must be renamed")
	}
	for _, name := range []string{"OEBPS/ornaments/fantasy-divider.svg", "OEBPS/images/纹理.webp", "OEBPS/fonts/hyss.ttf"} {
		if _, ok := files[name]; !ok {
			t.Errorf("template resource %s missing", name)
		}
	}

	opf := parseXML(t, files["OEBPS/content.opf"])
	cover := opf.FindElement("//manifest/item[@id='cover-image']")
	if cover == nil || cover.SelectAttrValue("properties", "") != "cover-image" || cover.SelectAttrValue("href", "") != "images/cover.png" {
		t.Fatalf("cover image not designated")
	}
	if m := opf.FindElement("//metadata/meta[@name='cover']"); m == nil || m.SelectAttrValue("content", "") != "cover-image" {
		t.Errorf("cover meta missing")
	}
	if m := opf.FindElement("//metadata/meta[@name='identifier']"); m == nil || m.SelectAttrValue("content", "") != "978-0" {
		t.Errorf("isbn meta missing")
	}

	ncx := parseXML(t, files["OEBPS/toc.ncx"])
	points := ncx.FindElements("//navPoint")
	if len(points) != 4 {
		t.Fatalf("toc has %d entries, want 4", len(points))
	}
	if title := points[3].FindElement("navLabel/text").Text(); title != "Illustrations" {
		t.Errorf("gallery toc entry %q", title)
	}

	gallery := string(files["OEBPS/images.xhtml"])
	if !strings.Contains(gallery, `<img src="images/cover_2.png" alt="Map"/>`) {
		t.Errorf("gallery does not use renamed image:\n%s", gallery)
	}
	ch := string(files["OEBPS/chapter_0001.xhtml"])
	if !strings.Contains(ch, `src="images/chapter-header.png"`) || !strings.Contains(ch, `CHAPTER01`) {
		t.Errorf("fantasy chapter header not rendered:\n%s", ch)
	}
	sheet := string(files["OEBPS/stylesheet.css"])
	if !strings.Contains(sheet, `url("fonts/kt_2.ttf")`) {
		t.Errorf("stylesheet does not reference renamed font")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestBuildChapterCountMatchesTOC(t *testing.T) {
	dir := t.TempDir()
	chapters := make([]book.Chapter, 12)
	for i := range chapters {
		chapters[i] = book.Chapter{Title: "Chapter " + strings.Repeat("I", i%3+1), Content: "text."}
	}
	out, err := Build(context.Background(), chapters, &Options{OutputDir: dir, FilenameTemplate: "x"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	files, _ := readArchive(t, out)
	count := 0
	for name := range files {
		if strings.HasPrefix(name, "OEBPS/chapter_") {
			count++
		}
	}
	ncx := parseXML(t, files["OEBPS/toc.ncx"])
	if n := len(ncx.FindElements("//navPoint")); n != count || count != len(chapters) {
		t.Errorf("chapters %d, toc entries %d, input %d", count, n, len(chapters))
	}
}

func TestBuildMetadataFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		info      book.Info
		wantTitle string
		wantLang  string
	}{
		{"blank", book.Info{Title: "  ", Language: " "}, book.UntitledBook, "zh"},
		{"given", book.Info{Title: "Book", Language: "en"}, "Book", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Info: tt.info, OutputDir: t.TempDir(), FilenameTemplate: "x"}
			out, err := Build(context.Background(), testChapters(), opts, zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			files, _ := readArchive(t, out)
			md := parseXML(t, files["OEBPS/content.opf"]).FindElement("//metadata")
			if v := md.FindElement("dc:title").Text(); v != tt.wantTitle {
				t.Errorf("dc:title = %q, want %q", v, tt.wantTitle)
			}
			if v := md.FindElement("dc:language").Text(); v != tt.wantLang {
				t.Errorf("dc:language = %q, want %q", v, tt.wantLang)
			}
			html := parseXML(t, files["OEBPS/chapter_0001.xhtml"]).Root()
			if v := html.SelectAttrValue("xml:lang", ""); v != tt.wantLang {
				t.Errorf("chapter xml:lang = %q, want %q", v, tt.wantLang)
			}
		})
	}
}

func TestBuildOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.epub")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := Build(context.Background(), testChapters(), &Options{OutputDir: dir, FilenameTemplate: "x"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out != target {
		t.Fatalf("output %q", out)
	}
	readArchive(t, out)
}

func TestBuildWarnsAboutPlaceholders(t *testing.T) {
	tests := []struct {
		template common.CssTemplate
		warned   bool
	}{
		{common.CssTemplateFantasy, true},
		{common.CssTemplateFolio, false},
		{common.CssTemplateClassic, false},
	}
	for _, tt := range tests {
		t.Run(tt.template.String(), func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			style := book.DefaultStyle()
			style.Template = tt.template
			opts := &Options{OutputDir: t.TempDir(), FilenameTemplate: "x", Style: &style}
			if _, err := Build(context.Background(), testChapters(), opts, zap.New(core)); err != nil {
				t.Fatalf("Build: %v", err)
			}
			warned := logs.FilterMessageSnippet("placeholders").Len() > 0
			if warned != tt.warned {
				t.Errorf("placeholder warning = %v, want %v", warned, tt.warned)
			}
		})
	}
}

func TestBuildDocumentsWellFormed(t *testing.T) {
	img := &book.Image{Name: "g.png", MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}, Caption: "<map> & \"key\""}
	opts := &Options{
		Info:                 book.Info{Title: "A & B <c>", Author: "D"},
		OutputDir:            t.TempDir(),
		FilenameTemplate:     "x",
		Images:               []*book.Image{img},
		IncludeImagesSection: true,
		TOC:                  book.TOCOptions{Inline: true},
	}
	chapters := []book.Chapter{{Title: "第一章 <开始>", Content: "甲 & 乙\n丙"}}
	out, err := Build(context.Background(), chapters, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	files, _ := readArchive(t, out)
	for _, name := range []string{"OEBPS/cover.xhtml", "OEBPS/toc.xhtml", "OEBPS/chapter_0001.xhtml", "OEBPS/images.xhtml"} {
		doc := parseXML(t, files[name])
		if doc.FindElement("/html/head/title") == nil {
			t.Errorf("%s: title missing", name)
		}
	}
	ch := parseXML(t, files["OEBPS/chapter_0001.xhtml"])
	if v := ch.FindElement("/html/head/title").Text(); v != "第一章 <开始>" {
		t.Errorf("chapter title = %q", v)
	}
	if p := ch.FindElement("//p"); p == nil || p.Text() != "甲 & 乙" {
		t.Errorf("paragraph text not preserved")
	}
	cover := parseXML(t, files["OEBPS/cover.xhtml"])
	if v := cover.FindElement("//div[@class='cover-title']").Text(); v != "A & B <c>" {
		t.Errorf("cover title = %q", v)
	}
}

func writeTestZip(t *testing.T, name string) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, member := range []string{"mimetype", "OEBPS/a.txt"} {
		w, err := zw.Create(member)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, "content of "+member); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCopyZipWithoutDataDescriptors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.zip")
	writeTestZip(t, src)
	target := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := copyZipWithoutDataDescriptors(src, target); err != nil {
		t.Fatalf("copyZipWithoutDataDescriptors: %v", err)
	}

	r, err := zip.OpenReader(target)
	if err != nil {
		t.Fatalf("result is not an archive: %v", err)
	}
	defer r.Close()
	if len(r.File) != 2 {
		t.Fatalf("got %d members, want 2", len(r.File))
	}
	for _, f := range r.File {
		if f.Flags&0x8 != 0 {
			t.Errorf("%s still has data descriptor flag", f.Name)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestCopyZipWithoutDataDescriptorsKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.zip")
	if err := os.WriteFile(src, []byte("not an archive"), 0644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(target, []byte("PREVIOUS GOOD BOOK"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := copyZipWithoutDataDescriptors(src, target); err == nil {
		t.Fatal("expected error for broken source")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("target lost: %v", err)
	}
	if string(data) != "PREVIOUS GOOD BOOK" {
		t.Errorf("target changed to %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
