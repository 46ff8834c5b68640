// Package evidence freezes camera frames into branded, timestamped JPEG
// stills. Composition is synchronous; the caller gets an encoded still or a
// device-unavailable fault.
package evidence

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"cropproof/internal/camera"
	"cropproof/internal/domain"
	"cropproof/internal/fault"
)

// Timestamp banner format: day, month abbreviation, year, 12-hour clock.
const timestampLayout = "02 Jan 2006, 03:04 pm"

var (
	brandBoxColor  = color.NRGBA{255, 255, 255, 178}
	brandDarkColor = color.NRGBA{0x37, 0x41, 0x51, 255}
	brandGreen     = color.NRGBA{0x16, 0xa3, 0x4a, 255}
	bannerColor    = color.NRGBA{0, 0, 0, 153}
	bannerText     = color.NRGBA{255, 255, 255, 255}
)

// Compositor burns the brand mark and capture timestamp into stills.
type Compositor struct {
	Brand string
	Now   func() time.Time
}

// New returns a compositor with the default brand mark.
func New() Compositor {
	return Compositor{Brand: "markhet"}
}

// Compose extracts a still at the frame's native resolution, draws the
// overlays, and encodes it as JPEG. A zero-dimension frame means the device
// has not warmed up yet; that surfaces as the same device-unavailable fault
// the user already knows how to recover from.
func (c Compositor) Compose(frame camera.Frame) (domain.CapturedPhoto, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return domain.CapturedPhoto{}, fault.Wrap(fault.KindDeviceUnavailable,
			"camera access denied or camera not ready", camera.ErrNoFrame)
	}
	takenAt := c.now()
	img := rgbaFromFrame(frame)
	c.drawBrandMark(img)
	c.drawTimestamp(img, takenAt)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return domain.CapturedPhoto{}, err
	}
	return domain.CapturedPhoto{JPEG: buf.Bytes(), TakenAt: takenAt}, nil
}

// drawBrandMark paints the opaque brand label anchored top-left.
func (c Compositor) drawBrandMark(img *image.RGBA) {
	box := image.Rect(10, 10, 150, 50)
	draw.Draw(img, box, &image.Uniform{brandBoxColor}, image.Point{}, draw.Over)

	brand := c.Brand
	if brand == "" {
		brand = "markhet"
	}
	// Split the mark the way the brand renders it: dark prefix, green tail.
	split := len(brand) / 2
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(brandDarkColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, 34),
	}
	d.DrawString(brand[:split])
	d.Src = image.NewUniform(brandGreen)
	d.DrawString(brand[split:] + ".")
}

// drawTimestamp paints the semi-transparent capture-time banner anchored
// bottom-right.
func (c Compositor) drawTimestamp(img *image.RGBA, takenAt time.Time) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	banner := image.Rect(w-200, h-35, w-10, h-10)
	draw.Draw(img, banner, &image.Uniform{bannerColor}, image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(bannerText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(w-195, h-18),
	}
	d.DrawString(takenAt.Format(timestampLayout))
}

func (c Compositor) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func rgbaFromFrame(frame camera.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			src := (y*frame.Width + x) * 3
			dst := img.PixOffset(x, y)
			img.Pix[dst] = frame.Pix[src]
			img.Pix[dst+1] = frame.Pix[src+1]
			img.Pix[dst+2] = frame.Pix[src+2]
			img.Pix[dst+3] = 0xff
		}
	}
	return img
}
