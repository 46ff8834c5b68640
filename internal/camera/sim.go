package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SimDevice generates synthetic frames. WarmupFrames controls how many
// zero-dimension frames are reported before real ones, mimicking a device
// that has not finished warming up.
type SimDevice struct {
	WarmupFrames int
	Deny         bool
	Absent       bool
	Now          func() time.Time

	settings Settings
	started  bool
	seq      int
}

func (d *SimDevice) Start(ctx context.Context, s Settings) error {
	if d.Absent {
		return ErrNoDevice
	}
	if d.Deny {
		return ErrDenied
	}
	d.settings = s
	if d.settings.Width <= 0 || d.settings.Height <= 0 {
		d.settings.Width, d.settings.Height = 640, 480
	}
	d.started = true
	return nil
}

func (d *SimDevice) Frame() (Frame, error) {
	if !d.started {
		return Frame{}, ErrNoFrame
	}
	d.seq++
	if d.seq <= d.WarmupFrames {
		return Frame{TakenAt: d.now()}, nil
	}
	w, h := d.settings.Width, d.settings.Height
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			pix[i] = byte((x + d.seq) % 256)
			pix[i+1] = byte((y + d.seq) % 256)
			pix[i+2] = byte((x + y) % 256)
		}
	}
	return Frame{Width: w, Height: h, Pix: pix, TakenAt: d.now()}, nil
}

func (d *SimDevice) Stop() error {
	d.started = false
	return nil
}

func (d *SimDevice) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// FileDevice feeds frames from still images in a directory, looping over
// them in name order. It stands in for real capture hardware on machines
// without a camera.
type FileDevice struct {
	Dir string
	Now func() time.Time

	files   []string
	idx     int
	started bool
}

func (d *FileDevice) Start(ctx context.Context, s Settings) error {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	d.files = d.files[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			d.files = append(d.files, filepath.Join(d.Dir, e.Name()))
		}
	}
	if len(d.files) == 0 {
		return fmt.Errorf("%w: no images in %s", ErrNoDevice, d.Dir)
	}
	sort.Strings(d.files)
	d.idx = 0
	d.started = true
	return nil
}

func (d *FileDevice) Frame() (Frame, error) {
	if !d.started || len(d.files) == 0 {
		return Frame{}, ErrNoFrame
	}
	path := d.files[d.idx%len(d.files)]
	d.idx++
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return fromImage(img, d.now()), nil
}

func (d *FileDevice) Stop() error {
	d.started = false
	return nil
}

func (d *FileDevice) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func fromImage(img image.Image, takenAt time.Time) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			pix[i] = byte(r >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(bl >> 8)
		}
	}
	return Frame{Width: w, Height: h, Pix: pix, TakenAt: takenAt}
}
