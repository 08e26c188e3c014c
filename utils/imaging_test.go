package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// noisyImage builds an image that compresses poorly, so encoded output
// stays large enough to drive the quality loop.
func noisyImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x*31 + y*17),
				G: uint8(x*13 ^ y*7),
				B: uint8(x * y),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressSkipsSmallInputs(t *testing.T) {
	data := encodePNG(t, noisyImage(40, 40))
	out, err := Compress(context.Background(), data, DefaultCompressOptions)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if &out[0] != &data[0] {
		t.Error("input under the target size should be returned unchanged")
	}
}

func TestCompressReturnsUndecodableInputUnchanged(t *testing.T) {
	data := make([]byte, 2048)
	for i := range data {
		data[i] = byte(i)
	}
	out, err := Compress(context.Background(), data, CompressOptions{MaxDimension: 100, TargetKB: 1})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("undecodable input should pass through unchanged")
	}
}

func TestCompressBoundsLongerEdge(t *testing.T) {
	data := encodePNG(t, noisyImage(2800, 1400))
	out, err := Compress(context.Background(), data, CompressOptions{MaxDimension: 1400, TargetKB: 1})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 1400 || cfg.Height != 700 {
		t.Errorf("got %dx%d, want 1400x700", cfg.Width, cfg.Height)
	}
}

func TestCompressCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := encodePNG(t, noisyImage(500, 500))
	if _, err := Compress(ctx, data, CompressOptions{MaxDimension: 100, TargetKB: 1}); err == nil {
		t.Error("expected a context error after cancellation")
	}
}

func TestEncodeBoundedAttempts(t *testing.T) {
	img := noisyImage(600, 600)

	// A generous target is met on the first encode.
	out, attempts, err := encodeBounded(context.Background(), img, 10<<20)
	if err != nil {
		t.Fatalf("encodeBounded: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not a valid jpeg: %v", err)
	}

	// An impossible target still stops after the second encode: the next
	// quality step (56) would not clear the floor (58).
	_, attempts, err = encodeBounded(context.Background(), img, 1)
	if err != nil {
		t.Fatalf("encodeBounded: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestScaleDownNeverUpscales(t *testing.T) {
	img := noisyImage(300, 200)
	if got := scaleDown(img, 1400); got != img {
		t.Error("image within bounds should be returned as-is")
	}
}

func TestScaleDownPortrait(t *testing.T) {
	got := scaleDown(noisyImage(700, 2800), 1400)
	b := got.Bounds()
	if b.Dx() != 350 || b.Dy() != 1400 {
		t.Errorf("got %dx%d, want 350x1400", b.Dx(), b.Dy())
	}
}
