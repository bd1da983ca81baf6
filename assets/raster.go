package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"txt2epub/book"
)

const (
	// used when svg has no usable viewBox
	defaultRasterSize = 1600
	// caps pixel buffer for hostile viewBox values
	maxRasterDim = 4096

	coverDPI     = 300
	coverQuality = 90
)

// rasterizeSVG renders svg onto white background. Result fits into w x h box
// keeping aspect ratio, zero dimension is derived from the other one, both
// zero keep intrinsic size.
func rasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	iw, ih := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if iw <= 0 || ih <= 0 {
		iw, ih = defaultRasterSize, defaultRasterSize
	}

	scale := 1.0
	switch {
	case w > 0 && h > 0:
		scale = min(float64(w)/float64(iw), float64(h)/float64(ih))
	case w > 0:
		scale = float64(w) / float64(iw)
	case h > 0:
		scale = float64(h) / float64(ih)
	}
	if d := float64(max(iw, ih)) * scale; d > maxRasterDim {
		scale *= maxRasterDim / d
	}
	rw := max(int(math.Round(float64(iw)*scale)), 1)
	rh := max(int(math.Round(float64(ih)*scale)), 1)

	icon.SetTarget(0, 0, float64(rw), float64(rh))

	dst := image.NewRGBA(image.Rect(0, 0, rw, rh))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(rw, rh, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(rw, rh, scanner), 1.0)
	return dst, nil
}

// encodeJPEG encodes image and makes sure JFIF APP0 segment with density is
// present, standard encoder does not write one and some readers refuse
// covers without it.
func encodeJPEG(img image.Image, quality int, dpi uint16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return withJFIF(buf.Bytes(), dpi)
}

func withJFIF(data []byte, dpi uint16) ([]byte, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errors.New("not a jpeg")
	}
	if data[2] == 0xFF && data[3] == 0xE0 {
		return data, nil
	}

	out := bytes.NewBuffer(make([]byte, 0, len(data)+18))
	out.Write(data[:2])
	out.Write([]byte{0xFF, 0xE0})
	_ = binary.Write(out, binary.BigEndian, uint16(16))
	out.Write([]byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x02})
	out.WriteByte(1) // dots per inch
	_ = binary.Write(out, binary.BigEndian, dpi)
	_ = binary.Write(out, binary.BigEndian, dpi)
	out.Write([]byte{0x00, 0x00}) // no thumbnail
	out.Write(data[2:])
	return out.Bytes(), nil
}

// rasterizeCover replaces svg cover with jpeg rendering since reading
// systems build library thumbnails from raster covers only. On failure svg
// is kept.
func rasterizeCover(img *book.Image, limits Limits, log *zap.Logger) {
	if img == nil || img.MimeType != "image/svg+xml" {
		return
	}
	pic, err := rasterizeSVG(img.Data, limits.MaxWidth, limits.MaxHeight)
	if err != nil {
		log.Warn("Unable to rasterize svg cover, keeping it as is", zap.String("name", img.Name), zap.Error(err))
		return
	}
	data, err := encodeJPEG(pic, coverQuality, coverDPI)
	if err != nil {
		log.Warn("Unable to encode rasterized cover, keeping svg", zap.String("name", img.Name), zap.Error(err))
		return
	}
	log.Debug("Svg cover rasterized", zap.Int("width", pic.Bounds().Dx()), zap.Int("height", pic.Bounds().Dy()))
	img.Name = "cover.jpg"
	img.Data = data
	img.MimeType = "image/jpeg"
}
