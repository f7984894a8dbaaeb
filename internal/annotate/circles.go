package annotate

import (
	"image"
	"log"
	"regexp"
	"strings"

	"github.com/plansight/plansight/internal/detection"
	"github.com/plansight/plansight/internal/imaging"
)

var (
	// Flexible "letter, digits, optional separator, digits" shape searched
	// anywhere in the joined bottom-token string.
	pageRefLoose = regexp.MustCompile(`[A-Za-z]\s*\d+\s*[.\-]?\s*\d*`)

	// Bare decimal like 9.1: a page number that lost its series letter.
	bareDecimal = regexp.MustCompile(`^\d+\.\d+$`)

	// A callout detail number is a plain 1-4 digit numeral.
	detailNumber = regexp.MustCompile(`^\d{1,4}$`)
)

// ExtractCircles localizes callout circles and derives each one's page
// reference and detail number from OCR of the circle's crop.
func (d *Detector) ExtractCircles(img image.Image) []DetectedCircle {
	results := []DetectedCircle{}
	if img == nil {
		return results
	}

	for i, c := range detection.FindCircles(img) {
		top, bottom := d.circleTokens(img, c)
		page, detail := d.derivePageAndDetail(bottom, top)
		results = append(results, DetectedCircle{
			ID:             i + 1,
			X:              c.X,
			Y:              c.Y,
			Radius:         c.Radius,
			PageNumber:     page,
			CircleText:     detail,
			RawTopTexts:    top,
			RawBottomTexts: bottom,
		})
	}
	return results
}

// circleTokens crops around a circle with a fixed padding margin,
// preprocesses and upscales the crop, OCRs it, and splits the cleaned
// tokens by vertical centroid into top-half and bottom-half pools.
//
// Bubble layout convention: detail number above, sheet reference below.
// Tokens with malformed geometry land in the bottom pool, the safe default
// for page-reference recovery.
func (d *Detector) circleTokens(img image.Image, c detection.Circle) (top, bottom []string) {
	top, bottom = []string{}, []string{}

	pad := d.opts.CirclePadding
	side := 2 * (c.Radius + pad)
	crop, err := imaging.CropRegion(img, c.X-c.Radius-pad, c.Y-c.Radius-pad, side, side)
	if err != nil {
		log.Printf("annotate: crop at (%d,%d) failed: %v", c.X, c.Y, err)
		return top, bottom
	}

	prepped := imaging.EnhanceContrast(crop)
	prepped = imaging.UpscaleForOCR(prepped, d.opts.CircleUpscale)

	tokens, err := d.engine.Detect(prepped, d.opts.OCR)
	if err != nil {
		log.Printf("annotate: circle OCR skipped: %v", err)
		return top, bottom
	}

	midY := float64(prepped.Bounds().Dy()) / 2
	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}
		if tok.HasConfidence && tok.Confidence < d.opts.MinConfidence {
			continue
		}
		t := CleanText(tok.Text)
		if t == "" {
			continue
		}
		_, cy, ok := tok.Centroid()
		if !ok {
			bottom = append(bottom, t)
			continue
		}
		if cy < midY {
			top = append(top, t)
		} else {
			bottom = append(bottom, t)
		}
	}
	return top, bottom
}

// derivePageAndDetail extracts (page_number, circle_text) from the bottom
// and top token pools.
//
// The page number comes from an ordered strategy chain over the bottom
// tokens; the first strategy that produces a canonical reference wins. The
// detail number is the first top token that is purely 1-4 digits.
func (d *Detector) derivePageAndDetail(bottom, top []string) (string, string) {
	page := ""
	for _, strategy := range d.pageStrategies() {
		if cand, ok := strategy(bottom); ok {
			page = cand
			break
		}
	}

	detail := ""
	for _, t := range top {
		if detailNumber.MatchString(strings.TrimSpace(t)) {
			detail = strings.TrimSpace(t)
			break
		}
	}
	return page, detail
}

// pageStrategy attempts to recover a canonical page reference from the
// bottom-half token pool.
type pageStrategy func(tokens []string) (string, bool)

func (d *Detector) pageStrategies() []pageStrategy {
	return []pageStrategy{
		pageFromJoined,
		pageFromTokens,
		d.pageFromBareDecimal,
	}
}

// pageFromJoined searches the space-joined token string for a loose
// reference shape and normalizes the first hit.
func pageFromJoined(tokens []string) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	joined := strings.Join(tokens, " ")
	m := pageRefLoose.FindString(joined)
	if m == "" {
		return "", false
	}
	return NormalizePageRef(m)
}

// pageFromTokens tries each token on its own through the normalizer.
func pageFromTokens(tokens []string) (string, bool) {
	for _, t := range tokens {
		if cand, ok := NormalizePageRef(t); ok {
			return cand, true
		}
	}
	return "", false
}

// pageFromBareDecimal accepts a bare digits.digits token and prefixes the
// configured default sheet-series letter. Last resort for bubbles where the
// letter was lost entirely.
func (d *Detector) pageFromBareDecimal(tokens []string) (string, bool) {
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if bareDecimal.MatchString(t) {
			return d.opts.DefaultSheetLetter + t, true
		}
	}
	return "", false
}
