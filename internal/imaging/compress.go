// Package imaging provides the image size-reduction capability the
// submission pipeline invokes before transmitting evidence.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
)

// Defaults for one submission photo.
const (
	DefaultMaxBytes = 512 * 1024
	DefaultMaxDim   = 1024
)

// Options bound the output of a size reduction.
type Options struct {
	// MaxBytes is the target encoded size. Best effort: quality degrades in
	// steps and the smallest attempt wins if the target is unreachable.
	MaxBytes int
	// MaxDim caps the longest image dimension.
	MaxDim int
}

func (o Options) withDefaults() Options {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxDim <= 0 {
		o.MaxDim = DefaultMaxDim
	}
	return o
}

// Compressor reduces an encoded still to fit a byte and dimension budget.
type Compressor interface {
	Compress(ctx context.Context, encoded []byte, opts Options) ([]byte, error)
}

// Reducer is the default Compressor: decode, downscale with Catmull-Rom,
// then walk JPEG quality down until the byte budget is met.
type Reducer struct{}

func (Reducer) Compress(ctx context.Context, encoded []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	img = downscale(img, opts.MaxDim)

	var best []byte
	for quality := 85; quality >= 25; quality -= 10 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode photo: %w", err)
		}
		if best == nil || buf.Len() < len(best) {
			best = append([]byte(nil), buf.Bytes()...)
		}
		if buf.Len() <= opts.MaxBytes {
			return best, nil
		}
	}
	return best, nil
}

func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(longest)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
