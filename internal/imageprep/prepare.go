// Package imageprep converts an uploaded meal photo into the compact base64
// payload sent to the inference provider.
package imageprep

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Register the decoders for the formats phone uploads arrive in.
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"mealcheck/internal/domain"
)

const (
	// MaxWidth is the downscale target; taller-than-wide photos keep their
	// aspect ratio.
	MaxWidth = 350
	// JPEGQuality matches the 0.55 compression level of the compact path.
	JPEGQuality = 55
	// MaxRawBytes caps the fallback path: files at or above this size are
	// rejected instead of being sent unprocessed.
	MaxRawBytes = 5 * 1024 * 1024
)

// Prepare produces the transport payload for an uploaded image: decoded,
// downscaled to MaxWidth, composited onto white and re-encoded as JPEG, then
// base64-encoded without any data-URI prefix. When decoding fails the raw
// bytes are encoded directly as long as the file is under MaxRawBytes;
// otherwise ErrImageTooLarge is returned.
func Prepare(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrNoImage
	}
	payload, err := resizeAndCompress(data)
	if err == nil {
		return payload, nil
	}
	if len(data) < MaxRawBytes {
		return base64.StdEncoding.EncodeToString(data), nil
	}
	return "", fmt.Errorf("%w: a imagem é muito grande, tente usar uma menor", domain.ErrImageTooLarge)
}

func resizeAndCompress(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("decode image: empty bounds")
	}
	if width > MaxWidth {
		height = int(float64(MaxWidth) / float64(width) * float64(height))
		width = MaxWidth
		if height < 1 {
			height = 1
		}
	}

	// Composite on white so transparent regions do not turn black in JPEG.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
