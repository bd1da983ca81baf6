// Package assets provides bundled template resources and loads user supplied
// images and fonts.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"txt2epub/common"
)

//go:embed bundled
var bundled embed.FS

// Resource is a binary archive member. Path is relative to the container
// content folder, e.g. "images/ttl.webp".
type Resource struct {
	Path     string
	MimeType string
	Data     []byte
	// Placeholder is set for embedded stand-in files. Real artwork and fonts
	// are expected to come from assets directory.
	Placeholder bool
}

var (
	folioResources = []string{
		"ornaments/folio-divider.svg",
	}
	fantasyResources = []string{
		"ornaments/fantasy-divider.svg",
		"images/头图.webp",
		"images/头图1.webp",
		"images/4star.webp",
		"images/ttl.webp",
		"images/ttr.webp",
		"images/背景.webp",
		"images/背景1.webp",
		"images/纹理.webp",
		"images/纸纹.webp",
		"fonts/kt.ttf",
		"fonts/rbs.ttf",
		"fonts/dbs.ttf",
		"fonts/ys.ttf",
		"fonts/hyss.ttf",
	}
)

// Bundle gives access to template resources. Files present in override
// directory take precedence over embedded ones.
type Bundle struct {
	embedded fs.FS
	override string
}

// Default returns bundle backed by embedded resources only.
func Default() *Bundle {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		// this should never happen
		panic(err)
	}
	return &Bundle{embedded: sub}
}

// FromDir returns bundle with resources in dir overriding embedded ones.
// Empty dir is the same as Default.
func FromDir(dir string) (*Bundle, error) {
	b := Default()
	if dir == "" {
		return b, nil
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to access assets directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("assets location is not a directory: %s", dir)
	}
	b.override = dir
	return b, nil
}

// ReadFile returns resource content by its slash separated relative path.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	data, _, err := b.read(name)
	return data, err
}

// read reports whether content came from embedded files.
func (b *Bundle) read(name string) ([]byte, bool, error) {
	if b.override != "" {
		data, err := os.ReadFile(filepath.Join(b.override, filepath.FromSlash(name)))
		if err == nil {
			return data, false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("unable to read asset %s: %w", name, err)
		}
	}
	data, err := fs.ReadFile(b.embedded, name)
	if err != nil {
		return nil, false, fmt.Errorf("unable to read bundled asset %s: %w", name, err)
	}
	return data, true, nil
}

// TemplateResources returns resources referenced by template stylesheet,
// in fixed order. Templates without decorations have none.
func (b *Bundle) TemplateResources(t common.CssTemplate) ([]Resource, error) {
	if !t.HasOrnaments() {
		return nil, nil
	}
	names := folioResources
	if t == common.CssTemplateFantasy {
		names = fantasyResources
	}

	res := make([]Resource, 0, len(names))
	for _, name := range names {
		data, embedded, err := b.read(name)
		if err != nil {
			return nil, err
		}
		res = append(res, Resource{
			Path:        name,
			MimeType:    resourceMime(name),
			Data:        data,
			Placeholder: embedded && isPlaceholder(name),
		})
	}
	return res, nil
}

// Embedded fantasy images and fonts are minimal stand-ins (1x1 webp, empty
// font tables), only svg ornaments are real.
func isPlaceholder(name string) bool {
	switch path.Ext(name) {
	case ".webp", ".ttf", ".otf":
		return true
	}
	return false
}

func resourceMime(name string) string {
	switch path.Ext(name) {
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	}
	return "application/octet-stream"
}
