// Package thumbnails derives resized variants of image nodes in the
// background.
package thumbnails

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the decoded size of a source image.
const DefaultMaxPixels = 50_000_000

// ErrTooLarge is returned for sources whose declared dimensions exceed the
// resizer's pixel limit.
var ErrTooLarge = errors.New("image too large")

// Resizer scales encoded image bytes to a target width.
type Resizer interface {
	Resize(src []byte, width int) ([]byte, error)
}

// ImageResizer keeps the aspect ratio and uses Catmull-Rom resampling. The
// variant keeps the source format when an encoder for it exists (jpeg, png,
// gif, bmp, tiff); webp is written as PNG.
type ImageResizer struct {
	JPEGQuality int
	// MaxPixels caps width*height of the source, checked before decoding.
	MaxPixels int
}

func NewImageResizer() *ImageResizer {
	return &ImageResizer{JPEGQuality: 85, MaxPixels: DefaultMaxPixels}
}

func (r *ImageResizer) Resize(src []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if r.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(r.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("empty image")
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: r.JPEGQuality})
	case "gif":
		err = gif.Encode(&out, dst, nil)
	case "bmp":
		err = bmp.Encode(&out, dst)
	case "tiff":
		err = tiff.Encode(&out, dst, nil)
	default:
		err = png.Encode(&out, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return out.Bytes(), nil
}
