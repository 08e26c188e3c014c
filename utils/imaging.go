package utils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	// register decoders for the formats field staff actually send
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressOptions bounds the output of Compress.
type CompressOptions struct {
	MaxDimension int // longest edge in pixels after scaling
	TargetKB     int // stop re-encoding once under this size
}

// DefaultCompressOptions matches what the upload handlers use.
var DefaultCompressOptions = CompressOptions{MaxDimension: 1400, TargetKB: 900}

const (
	jpegStartQuality = 72
	jpegQualityStep  = 8
	jpegQualityFloor = 58

	// CompressTimeout is the fixed budget callers wrap around Compress.
	// On expiry the original bytes are uploaded instead.
	CompressTimeout = 3500 // milliseconds
)

// Compress returns a size-bounded JPEG rendition of the input image.
//
// Inputs already under the target size are returned unchanged. Inputs that
// cannot be decoded (unsupported format, corrupt data) are also returned
// unchanged: compression is a best-effort optimization, never a
// correctness requirement. Context cancellation surfaces as an error so
// the caller can fall back to the original bytes.
func Compress(ctx context.Context, data []byte, opts CompressOptions) ([]byte, error) {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultCompressOptions.MaxDimension
	}
	if opts.TargetKB <= 0 {
		opts.TargetKB = DefaultCompressOptions.TargetKB
	}
	targetBytes := opts.TargetKB * 1024

	if len(data) <= targetBytes {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img = scaleDown(img, opts.MaxDimension)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, _, err := encodeBounded(ctx, img, targetBytes)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// encodeBounded re-encodes at decreasing quality until the target size is
// met or the floor stops the loop. The floor check is a strict greater-than
// on the NEXT quality value, so with the current constants at most two
// encodes ever run (72, then 64).
func encodeBounded(ctx context.Context, img image.Image, targetBytes int) ([]byte, int, error) {
	quality := jpegStartQuality
	attempts := 0

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, attempts, err
	}
	attempts++

	for buf.Len() > targetBytes && quality-jpegQualityStep > jpegQualityFloor {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}
		quality -= jpegQualityStep
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, attempts, err
		}
		attempts++
	}
	return buf.Bytes(), attempts, nil
}

// scaleDown resizes so the longer edge equals maxDim, preserving aspect
// ratio. Images already within bounds are returned as-is; nothing is ever
// upscaled.
func scaleDown(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := w
	if h > w {
		longer = h
	}
	if longer <= maxDim {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
