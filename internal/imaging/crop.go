package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion extracts the rectangle (x, y, w, h) from an image, clamping the
// rectangle to the image bounds first. Used both for caller-supplied
// detection regions and for the padded squares cropped around callout
// circles, where the padding routinely pushes past the image edge.
//
// Returns an error only when the clamped rectangle is empty.
func CropRegion(img image.Image, x, y, w, h int) (image.Image, error) {
	bounds := img.Bounds()
	rect := image.Rect(x, y, x+w, y+h).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d %dx%d) outside image bounds %v", x, y, w, h, bounds)
	}
	return imaging.Crop(img, rect), nil
}
