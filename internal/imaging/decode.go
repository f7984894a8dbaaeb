package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	"image/jpeg"
	"image/png"
)

// DecodeBytes decodes raw image bytes (PNG, JPEG, or GIF) into an image.
//
// This is the entry point for uploaded drawings: the web layer hands the
// pipeline raw bytes and everything downstream works on the decoded raster.
//
// Returns an error for empty input or bytes that are not a decodable image.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodeJPEGBase64 encodes an image as base64 JPEG for preview output.
// Quality 90 keeps line work legible at a reasonable payload size.
func EncodeJPEGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodePNGBase64 encodes an image as base64 PNG. Used for overlay previews
// where lossless line rendering matters.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
