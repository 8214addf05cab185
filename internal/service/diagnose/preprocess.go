package diagnose

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/ougirez/kisannetra/internal/pkg/constants"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	resizeShortSide = 256
	cropSize        = 224

	MaxImageBytes  = 20 << 20
	MaxImageSide   = 8192
	MaxImagePixels = 40_000_000
)

// Decode reads any registered image format. Oversized input is rejected
// from its header, before any pixel buffer is allocated.
func Decode(r io.Reader) (image.Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %s", constants.ErrInvalidInput, err.Error())
	}
	if len(raw) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image is larger than %d bytes", constants.ErrInvalidInput, MaxImageBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode image: %s", constants.ErrInvalidInput, err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxImageSide || cfg.Height > MaxImageSide ||
		cfg.Width*cfg.Height > MaxImagePixels {
		return nil, fmt.Errorf("%w: image %dx%d exceeds %dx%d or %d pixels",
			constants.ErrInvalidInput, cfg.Width, cfg.Height, MaxImageSide, MaxImageSide, MaxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode image: %s", constants.ErrInvalidInput, err.Error())
	}
	return img, nil
}

// Preprocess scales the short side to 256 px and takes the central 224x224 square.
// Only the source region under the crop is resampled, so memory stays at 224x224.
func Preprocess(src image.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, cropSize, cropSize))

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return out
	}

	// 224 px of the resized image cover short*224/256 px of the source
	side := float64(min(w, h)) * cropSize / resizeShortSide
	x0 := float64(b.Min.X) + (float64(w)-side)/2
	y0 := float64(b.Min.Y) + (float64(h)-side)/2
	sr := image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+side)), int(math.Round(y0+side)),
	).Intersect(b)
	if sr.Empty() {
		sr = b
	}

	draw.BiLinear.Scale(out, out.Bounds(), src, sr, draw.Src, nil)
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png.Encode: %w", err)
	}
	return buf.Bytes(), nil
}
