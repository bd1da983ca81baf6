package assets

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/webp"

	"txt2epub/book"
)

// Limits bounds image dimensions. Zero value disables the corresponding
// check.
type Limits struct {
	MaxWidth  int
	MaxHeight int
}

func (l Limits) active() bool {
	return l.MaxWidth > 0 || l.MaxHeight > 0
}

// Dimensions returns image size without decoding pixel data.
func Dimensions(data []byte, mimeType string) (int, int, error) {
	var (
		cfg image.Config
		err error
	)
	if mimeType == "image/webp" {
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// fit downscales image in place when it exceeds limits preserving aspect
// ratio. Only JPEG and PNG images are re-encoded, other formats are kept
// as is. Failures are logged, original data is left untouched.
func fit(img *book.Image, limits Limits, log *zap.Logger) {
	if !limits.active() || img.MimeType == "image/svg+xml" {
		return
	}

	w, h, err := Dimensions(img.Data, img.MimeType)
	if err != nil {
		log.Warn("Unable to read image dimensions", zap.String("name", img.Name), zap.Error(err))
		return
	}
	mw, mh := limits.MaxWidth, limits.MaxHeight
	if mw <= 0 {
		mw = w
	}
	if mh <= 0 {
		mh = h
	}
	if w <= mw && h <= mh {
		return
	}

	var format imaging.Format
	switch img.MimeType {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	default:
		log.Debug("Oversized image kept as is, format cannot be re-encoded",
			zap.String("name", img.Name), zap.String("type", img.MimeType), zap.Int("width", w), zap.Int("height", h))
		return
	}

	src, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn("Unable to decode image", zap.String("name", img.Name), zap.Error(err))
		return
	}
	dst := imaging.Fit(src, mw, mh, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, format, imaging.JPEGQuality(90)); err != nil {
		log.Warn("Unable to encode resized image", zap.String("name", img.Name), zap.Error(err))
		return
	}
	log.Debug("Image downscaled", zap.String("name", img.Name),
		zap.Int("width", dst.Bounds().Dx()), zap.Int("height", dst.Bounds().Dy()))
	img.Data = buf.Bytes()
}
