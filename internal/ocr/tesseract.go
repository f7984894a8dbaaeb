package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine on top of gosseract/v2.
//
// The struct is a process-wide handle: initialization runs at most once and
// later Detect calls are safe to issue concurrently (each spawns its own
// gosseract client). Pass the handle explicitly to pipeline constructors
// rather than sharing ambient global state, so tests can substitute stubs.
type Tesseract struct {
	language string

	once      sync.Once
	available bool
	pageSeg   gosseract.PageSegMode
}

// NewTesseract creates an uninitialized Tesseract engine handle for the
// given language (e.g. "eng"). The underlying engine starts on first Detect.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// init probes the installed Tesseract once. The sparse-text segmentation
// mode is preferred because drawings carry scattered short labels rather
// than paragraphs; if the probe fails the engine falls back to full
// automatic segmentation, and if even that fails it is marked unavailable.
func (t *Tesseract) init() {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		log.Printf("ocr: tesseract unavailable (language %q): %v", t.language, err)
		return
	}

	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err == nil {
		t.pageSeg = gosseract.PSM_SPARSE_TEXT
	} else {
		log.Printf("ocr: sparse-text mode unavailable, falling back to auto segmentation: %v", err)
		if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			log.Printf("ocr: tesseract unavailable: %v", err)
			return
		}
		t.pageSeg = gosseract.PSM_AUTO
	}

	if v := client.Version(); v == "" {
		log.Printf("ocr: tesseract reported no version, treating as unavailable")
		return
	}
	t.available = true
}

// Detect runs word-level recognition on the image.
//
// Params.MagRatio > 1 resizes the raster before recognition and scales the
// returned polygons back to the original coordinate space. The threshold
// parameters have no Tesseract equivalent and are ignored by this backend.
func (t *Tesseract) Detect(img image.Image, params Params) ([]Token, error) {
	t.once.Do(t.init)
	if !t.available {
		return nil, ErrUnavailable
	}
	if img == nil {
		return nil, fmt.Errorf("ocr: nil image")
	}

	scale := 1.0
	input := img
	if params.MagRatio > 1 {
		scale = params.MagRatio
		bounds := img.Bounds()
		input = imaging.Resize(img,
			int(float64(bounds.Dx())*scale),
			int(float64(bounds.Dy())*scale),
			imaging.CatmullRom)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, input); err != nil {
		return nil, fmt.Errorf("ocr: failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("ocr: failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(t.pageSeg); err != nil {
		return nil, fmt.Errorf("ocr: failed to set page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("ocr: failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("ocr: recognition failed: %w", err)
	}

	tokens := make([]Token, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		tokens = append(tokens, Token{
			Polygon:       rectPolygon(box.Box, scale),
			Text:          box.Word,
			Confidence:    box.Confidence / 100.0,
			HasConfidence: true,
		})
	}
	return tokens, nil
}

// rectPolygon converts a word bounding rectangle into a 4-point polygon,
// scaling coordinates back down when the input was magnified.
func rectPolygon(r image.Rectangle, scale float64) []Point {
	pt := func(x, y int) Point {
		if scale > 1 {
			return Point{X: int(float64(x) / scale), Y: int(float64(y) / scale)}
		}
		return Point{X: x, Y: y}
	}
	return []Point{
		pt(r.Min.X, r.Min.Y),
		pt(r.Max.X, r.Min.Y),
		pt(r.Max.X, r.Max.Y),
		pt(r.Min.X, r.Max.Y),
	}
}
