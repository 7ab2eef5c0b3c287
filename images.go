package newsdesk

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1280
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	maxPixels     = 40_000_000
)

var (
	// ErrImageTooLarge is returned for uploads above maxUploadSize.
	ErrImageTooLarge = errors.New("newsdesk: image larger than 10MB")
	// ErrImageDimensions is returned when the decoded bitmap would exceed maxPixels.
	ErrImageDimensions = errors.New("newsdesk: image dimensions too large")
)

// normalizeImage decodes src, scales it down to maxImageWidth when wider and
// re-encodes it as JPEG. Anything that is not a GIF, PNG or JPEG is rejected.
func normalizeImage(src io.Reader) ([]byte, error) {
	limited := io.LimitReader(src, maxUploadSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(raw) > maxUploadSize {
		return nil, &ValidationError{Field: "image", Err: ErrImageTooLarge}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Field: "image", Err: fmt.Errorf("decode image: %w", err)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, &ValidationError{Field: "image", Err: ErrImageDimensions}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Field: "image", Err: fmt.Errorf("decode image: %w", err)}
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxImageWidth {
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, h*maxImageWidth/w))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
