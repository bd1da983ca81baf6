package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"txt2epub/book"
)

// GalleryItem is a requested gallery entry. Path may point to a directory,
// in which case all images found there are used in natural name order.
type GalleryItem struct {
	Path    string `yaml:"path"`
	Caption string `yaml:"caption,omitempty"`
}

var resourceNameCleaner = strings.NewReplacer(
	"/", "", "\\", "", ":", "", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	" ", "_",
)

// SanitizeResourceName removes characters unsafe for archive member names
// and replaces spaces with underscores.
func SanitizeResourceName(name string) string {
	return resourceNameCleaner.Replace(name)
}

// ImageMime returns image mime type. Sniffed content wins over extension.
func ImageMime(ext string, data []byte) string {
	if kind, err := filetype.Image(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	}
	return "image/png"
}

// FontMime returns font mime type by extension.
func FontMime(ext string) string {
	if strings.EqualFold(strings.TrimPrefix(ext, "."), "otf") {
		return "font/otf"
	}
	return "font/ttf"
}

func extOf(path, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return fallback
	}
	return ext
}

// loadFixedName reads image stored in archive under fixed base name.
func loadFixedName(path, base string, limits Limits, log *zap.Logger) (*book.Image, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	if len(data) == 0 {
		log.Warn("Image file is empty, ignoring", zap.String("path", path))
		return nil, nil
	}
	ext := extOf(path, "png")
	img := &book.Image{
		Name:     base + "." + ext,
		Data:     data,
		MimeType: ImageMime(ext, data),
	}
	fit(img, limits, log)
	return img, nil
}

// LoadCover reads cover image. Empty path produces nil image. Svg covers are
// rasterized to jpeg.
func LoadCover(path string, limits Limits, log *zap.Logger) (*book.Image, error) {
	img, err := loadFixedName(path, "cover", limits, log)
	if err != nil {
		return nil, err
	}
	rasterizeCover(img, limits, log)
	return img, nil
}

// LoadChapterHeader reads image placed on top of every chapter. Empty path
// produces nil image.
func LoadChapterHeader(path string, limits Limits, log *zap.Logger) (*book.Image, error) {
	return loadFixedName(path, "chapter-header", limits, log)
}

// LoadGallery reads gallery images in requested order. Directories are
// expanded. Names are sanitized and made unique.
func LoadGallery(items []GalleryItem, limits Limits, log *zap.Logger) ([]*book.Image, error) {
	var (
		images []*book.Image
		seen   = make(map[string]int)
	)

	add := func(path, caption string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read gallery image: %w", err)
		}
		if len(data) == 0 {
			log.Warn("Gallery image is empty, ignoring", zap.String("path", path))
			return nil
		}
		ext := extOf(path, "png")
		name := SanitizeResourceName(filepath.Base(path))
		if name == "" || name == "." {
			name = fmt.Sprintf("image_%04d.png", len(images)+1)
		}
		if n := seen[name]; n > 0 {
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			seen[name]++
			name = fmt.Sprintf("%s_%d%s", stem, n+1, filepath.Ext(name))
		} else {
			seen[name] = 1
		}
		img := &book.Image{
			Name:     name,
			Data:     data,
			MimeType: ImageMime(ext, data),
			Caption:  strings.TrimSpace(caption),
		}
		fit(img, limits, log)
		images = append(images, img)
		return nil
	}

	for _, item := range items {
		fi, err := os.Stat(item.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to access gallery image: %w", err)
		}
		if !fi.IsDir() {
			if err := add(item.Path, item.Caption); err != nil {
				return nil, err
			}
			continue
		}
		files, err := ListImages(item.Path)
		if err != nil {
			return nil, err
		}
		log.Debug("Gallery directory expanded", zap.String("dir", item.Path), zap.Int("images", len(files)))
		for _, f := range files {
			if err := add(f, ""); err != nil {
				return nil, err
			}
		}
	}
	return images, nil
}

// ListImages returns image files located directly in dir in natural order.
// Files are recognized by content, not by extension.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read gallery directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))

	var res []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		head, err := readHead(path, 262)
		if err != nil {
			return nil, err
		}
		if filetype.IsImage(head) || strings.EqualFold(filepath.Ext(name), ".svg") {
			res = append(res, path)
		}
	}
	return res, nil
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 {
		// empty files are simply not images
		return nil, nil
	}
	return buf[:read], nil
}

// SanitizeFontFamily drops characters which have special meaning in CSS or
// markup and control characters. Empty result becomes "CustomFont".
func SanitizeFontFamily(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`"'\;{}<>`, r):
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "CustomFont"
	}
	return name
}

// LoadFont reads custom font. Family name is taken from the file name.
// Empty path produces nil font.
func LoadFont(path string, log *zap.Logger) (*book.Font, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read font: %w", err)
	}
	ext := extOf(path, "ttf")
	base := filepath.Base(path)
	family := SanitizeFontFamily(strings.TrimSuffix(base, filepath.Ext(base)))
	name := SanitizeResourceName(base)
	if name == "" {
		name = "custom-font.ttf"
	}
	font := &book.Font{
		Name:     name,
		Family:   family,
		Data:     data,
		MimeType: FontMime(ext),
	}
	if kind := strings.TrimPrefix(font.MimeType, "font/"); !filetype.Is(data, kind) {
		log.Warn("Font content does not match its type", zap.String("path", path), zap.String("type", font.MimeType))
	}
	return font, nil
}
