package ocr

import (
	"errors"
	"image"
)

// ErrUnavailable indicates that no OCR backend could be initialized.
// Pipeline callers degrade to empty token sets instead of propagating it.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Point is a polygon vertex in pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Token is one OCR-recognized text fragment. The polygon is the token's
// bounding quadrilateral in the coordinates of the image that was OCR'd.
// Confidence is 0-1; HasConfidence is false when the backend did not report
// one, in which case Confidence is meaningless.
type Token struct {
	Polygon       []Point
	Text          string
	Confidence    float64
	HasConfidence bool
}

// Params are the named tuning parameters of the adapter contract. Backends
// apply the parameters they support and ignore the rest.
type Params struct {
	// Paragraph groups tokens into paragraphs when true. The pipeline
	// always runs with it off; it wants word-level tokens.
	Paragraph bool

	// TextThreshold, LowText and LinkThreshold tune region detection on
	// backends that expose them.
	TextThreshold float64
	LowText       float64
	LinkThreshold float64

	// MagRatio magnifies the input before recognition to help with small
	// text. Token polygons are always returned in the original image's
	// coordinate space regardless of magnification.
	MagRatio float64
}

// DefaultParams returns the tuning used for construction drawings: small,
// dense text with faint strokes.
func DefaultParams() Params {
	return Params{
		Paragraph:     false,
		TextThreshold: 0.5,
		LowText:       0.35,
		LinkThreshold: 0.4,
		MagRatio:      1.5,
	}
}

// Engine is the OCR adapter consumed by the pipeline.
//
// Detect must accept a 3-channel raster and return recognized tokens.
// Implementations return ErrUnavailable (or a wrapping error) when the
// backend cannot run; they must not panic.
type Engine interface {
	Detect(img image.Image, params Params) ([]Token, error)
}

// Centroid returns the mean vertex position of a token's polygon and false
// when the polygon is empty or malformed.
func (t Token) Centroid() (float64, float64, bool) {
	if len(t.Polygon) == 0 {
		return 0, 0, false
	}
	var sx, sy float64
	for _, p := range t.Polygon {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(t.Polygon))
	return sx / n, sy / n, true
}

// BoundingBox returns the axis-aligned bounding box of the token's polygon
// and false when the polygon is empty.
func (t Token) BoundingBox() (x1, y1, x2, y2 int, ok bool) {
	if len(t.Polygon) == 0 {
		return 0, 0, 0, 0, false
	}
	x1, y1 = t.Polygon[0].X, t.Polygon[0].Y
	x2, y2 = x1, y1
	for _, p := range t.Polygon[1:] {
		if p.X < x1 {
			x1 = p.X
		}
		if p.X > x2 {
			x2 = p.X
		}
		if p.Y < y1 {
			y1 = p.Y
		}
		if p.Y > y2 {
			y2 = p.Y
		}
	}
	return x1, y1, x2, y2, true
}
