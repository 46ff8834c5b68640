package imaging

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"
)

func encodedImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = byte(x % 256)
			img.Pix[i+1] = byte(y % 256)
			img.Pix[i+2] = byte((x * y) % 256)
			img.Pix[i+3] = 0xff
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestCompressCapsLongestDimension(t *testing.T) {
	in := encodedImage(t, 2048, 1536)
	out, err := Reducer{}.Compress(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != DefaultMaxDim {
		t.Fatalf("width = %d, want %d", b.Dx(), DefaultMaxDim)
	}
	if b.Dy() != 768 {
		t.Fatalf("height = %d, want aspect preserved at 768", b.Dy())
	}
}

func TestCompressSmallImageKeepsDimensions(t *testing.T) {
	in := encodedImage(t, 320, 240)
	out, err := Reducer{}.Compress(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("output is %dx%d, want 320x240", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestCompressMeetsByteBudget(t *testing.T) {
	in := encodedImage(t, 1024, 768)
	out, err := Reducer{}.Compress(context.Background(), in, Options{MaxBytes: DefaultMaxBytes})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(out) > DefaultMaxBytes {
		t.Fatalf("output is %d bytes, budget %d", len(out), DefaultMaxBytes)
	}
}

func TestCompressBestEffortOnTinyBudget(t *testing.T) {
	in := encodedImage(t, 640, 480)
	// An impossible budget must still yield the smallest attempt, not fail.
	out, err := Reducer{}.Compress(context.Background(), in, Options{MaxBytes: 10})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	if _, err := (Reducer{}).Compress(context.Background(), []byte("not an image"), Options{}); err == nil {
		t.Fatal("Compress accepted garbage input")
	}
}

func TestCompressHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := encodedImage(t, 640, 480)
	if _, err := (Reducer{}).Compress(ctx, in, Options{MaxBytes: 1}); err == nil {
		t.Fatal("Compress ignored a cancelled context")
	}
}
