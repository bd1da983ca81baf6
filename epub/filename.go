package epub

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"txt2epub/book"
)

const epubExt = ".epub"

var fileNameCleaner = strings.NewReplacer(
	"/", "", "\\", "", ":", "", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
)

// NameValues are available to output name templates.
type NameValues struct {
	Title     string
	Author    string
	Date      string
	Language  string
	Publisher string
	Category  string
	ISBN      string
}

func expandNameTemplate(field string, info *book.Info) (string, error) {
	tmpl, err := template.New("output_name").Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse output name template: %w", err)
	}
	values := NameValues{
		Title:     info.DisplayTitle(),
		Author:    info.DisplayAuthor(),
		Date:      strings.TrimSpace(info.PublishDate),
		Language:  strings.TrimSpace(info.Language),
		Publisher: strings.TrimSpace(info.Publisher),
		Category:  strings.TrimSpace(info.Category),
		ISBN:      strings.TrimSpace(info.ISBN),
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand output name template: %w", err)
	}
	return buf.String(), nil
}

// FileName produces output file name for book. Placeholders {书名}, {作者}
// and {日期} are substituted, characters unsafe for file names are removed
// and .epub extension is added when missing. When nothing is left of the
// name "title_author.epub" is used.
func FileName(info *book.Info, tmpl string, transliterate bool) (string, error) {
	title, author := info.DisplayTitle(), info.DisplayAuthor()

	name := tmpl
	if strings.Contains(name, "{{") {
		expanded, err := expandNameTemplate(name, info)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		name = expanded
	}
	name = strings.NewReplacer(
		"{书名}", title,
		"{作者}", author,
		"{日期}", strings.TrimSpace(info.PublishDate),
	).Replace(name)
	name = strings.TrimSpace(fileNameCleaner.Replace(name))

	if transliterate {
		if stem := strings.TrimSuffix(name, epubExt); stem != "" {
			name = slug.Make(stem) + epubExt
		}
	}
	if !strings.HasSuffix(name, epubExt) {
		name += epubExt
	}
	if name == epubExt {
		name = fileNameCleaner.Replace(title+"_"+author) + epubExt
	}
	return name, nil
}

// OutputDir resolves and creates output directory.
func OutputDir(dir string) (string, error) {
	if dir == "" || dir == "." {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: unable to get working directory: %w", ErrIO, err)
		}
		return wd, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: unable to create output directory: %w", ErrIO, err)
	}
	return filepath.Clean(dir), nil
}
