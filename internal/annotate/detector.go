package annotate

import (
	"log"

	"github.com/plansight/plansight/internal/imaging"
	"github.com/plansight/plansight/internal/ocr"
)

// Options are the pipeline tunables. Start from DefaultOptions and adjust;
// the zero value is not usable.
type Options struct {
	// MinConfidence discards OCR tokens below this confidence before any
	// classification. Tokens without a reported confidence pass through.
	MinConfidence float64

	// MinBoxWidth/MinBoxHeight reject tiny text boxes (pixels).
	MinBoxWidth  int
	MinBoxHeight int

	// SecondPassMinBoxes triggers the raw-image OCR pass when the
	// contrast-enhanced pass yields fewer boxes than this.
	SecondPassMinBoxes int

	// SuppressLines composes grid-line removal into the full-page
	// preprocessing, for drawing sets where grid noise dominates.
	SuppressLines bool

	// DedupDistance is the center-to-center pixel distance under which two
	// identically-texted boxes are duplicates.
	DedupDistance float64

	// Vertical merge tuning: a lower box merges into an upper one when the
	// gap between them is within [-MergeGapSlack, MergeGapFactor x upper
	// height] and their horizontal overlap exceeds MergeOverlapFrac of the
	// narrower box. MaxMergePasses bounds the fixpoint loop.
	MergeGapSlack    int
	MergeGapFactor   float64
	MergeOverlapFrac float64
	MaxMergePasses   int

	// CirclePadding is the margin cropped around a circle's bounding
	// square; CircleUpscale the cubic upscale factor applied before OCR.
	CirclePadding int
	CircleUpscale float64

	// DefaultSheetLetter prefixes a bare digits.digits page candidate when
	// no lettered reference is recovered. Tied to the dominant sheet
	// series of the drawing set, so it is configuration, not a constant.
	DefaultSheetLetter string

	// OCR carries the named tuning parameters handed to the engine.
	OCR ocr.Params
}

// DefaultOptions returns the tuning used for the target drawing sets.
func DefaultOptions() Options {
	return Options{
		MinConfidence:      0.3,
		MinBoxWidth:        10,
		MinBoxHeight:       10,
		SecondPassMinBoxes: 10,
		SuppressLines:      false,
		DedupDistance:      50,
		MergeGapSlack:      5,
		MergeGapFactor:     1.2,
		MergeOverlapFrac:   0.3,
		MaxMergePasses:     32,
		CirclePadding:      20,
		CircleUpscale:      3.0,
		DefaultSheetLetter: "A",
		OCR:                ocr.DefaultParams(),
	}
}

// Detector runs the annotation extraction pipeline. It holds the OCR engine
// handle and all tunables; construct once and share, it is safe for
// concurrent use.
type Detector struct {
	engine ocr.Engine
	opts   Options
}

// New builds a Detector around an OCR engine handle. Missing option values
// critical to termination or output shape are backfilled with defaults.
func New(engine ocr.Engine, opts Options) *Detector {
	if opts.MaxMergePasses <= 0 {
		opts.MaxMergePasses = DefaultOptions().MaxMergePasses
	}
	if opts.DefaultSheetLetter == "" {
		opts.DefaultSheetLetter = DefaultOptions().DefaultSheetLetter
	}
	return &Detector{engine: engine, opts: opts}
}

// DetectImage decodes raw image bytes and runs both extractors. Undecodable
// input yields empty (non-nil) slices; nothing is raised to the caller.
func (d *Detector) DetectImage(data []byte) ([]DetectedCircle, []DetectedTextBox) {
	img, err := imaging.DecodeBytes(data)
	if err != nil {
		log.Printf("annotate: skipping detection: %v", err)
		return []DetectedCircle{}, []DetectedTextBox{}
	}
	return d.ExtractCircles(img), d.ExtractText(img)
}
