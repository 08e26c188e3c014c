package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

func testImageBytes(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestPDFImageData(t *testing.T) {
	jpg := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(b, img, nil)
	})
	pngData := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return png.Encode(b, img)
	})
	gifData := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return gif.Encode(b, img, nil)
	})

	typ, payload, err := pdfImageData(jpg)
	if err != nil || typ != "JPG" || &payload[0] != &jpg[0] {
		t.Errorf("jpeg should pass through untouched: type=%q err=%v", typ, err)
	}

	typ, payload, err = pdfImageData(pngData)
	if err != nil || typ != "PNG" || &payload[0] != &pngData[0] {
		t.Errorf("png should pass through untouched: type=%q err=%v", typ, err)
	}

	// Any other decodable format gets transcoded to JPEG.
	typ, payload, err = pdfImageData(gifData)
	if err != nil {
		t.Fatalf("decodable format rejected: %v", err)
	}
	if typ != "JPG" {
		t.Errorf("transcoded type = %q, want JPG", typ)
	}
	if _, derr := jpeg.Decode(bytes.NewReader(payload)); derr != nil {
		t.Errorf("transcoded payload is not valid jpeg: %v", derr)
	}

	if _, _, err := pdfImageData([]byte("not an image at all")); err == nil {
		t.Error("undecodable data must be rejected so the placeholder is drawn")
	}
}

func TestPlaceImageBadPhotoDoesNotAbortDocument(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.MkdirAll("uploads", 0o755); err != nil {
		t.Fatal(err)
	}
	// Bytes the sniffing allowlist could admit (heif stays native in
	// storage) but no registered decoder can read.
	if err := os.WriteFile("uploads/site.heic", []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}, 0o644); err != nil {
		t.Fatal(err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	placeImage(pdf, "/uploads/site.heic", pdfPad, pdfPad, 60, 45)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("one unreadable photo aborted the whole document: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty document")
	}
}

func TestPlaceImageTranscodesNonNativeFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.MkdirAll("uploads", 0o755); err != nil {
		t.Fatal(err)
	}
	gifData := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return gif.Encode(b, img, nil)
	})
	if err := os.WriteFile("uploads/photo.gif", gifData, 0o644); err != nil {
		t.Fatal(err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	placeImage(pdf, "/uploads/photo.gif", pdfPad, pdfPad, 60, 45)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("transcoded photo broke the document: %v", err)
	}
}
