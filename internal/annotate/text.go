package annotate

import (
	"image"
	"log"
	"math"
	"sort"

	"github.com/plansight/plansight/internal/imaging"
)

// ExtractText OCRs the full sheet and returns cleaned, deduplicated,
// vertically merged annotation boxes.
//
// Pass one runs on the contrast-enhanced image. If it yields fewer boxes
// than the second-pass floor, the raw image is OCRed as well and both
// result sets are pooled before dedup.
func (d *Detector) ExtractText(img image.Image) []DetectedTextBox {
	boxes := []DetectedTextBox{}
	if img == nil {
		return boxes
	}

	prepped := imaging.EnhanceContrast(img)
	if d.opts.SuppressLines {
		prepped = imaging.RemoveGridLines(prepped)
	}
	boxes = d.appendBoxes(boxes, prepped)

	if len(boxes) < d.opts.SecondPassMinBoxes {
		boxes = d.appendBoxes(boxes, img)
	}

	boxes = d.dedupBoxes(boxes)
	boxes = d.mergeVertical(boxes)

	for i := range boxes {
		boxes[i].ID = i + 1
	}
	return boxes
}

// appendBoxes OCRs one image and appends every token that survives the
// confidence, length, charset and geometry filters.
func (d *Detector) appendBoxes(boxes []DetectedTextBox, img image.Image) []DetectedTextBox {
	tokens, err := d.engine.Detect(img, d.opts.OCR)
	if err != nil {
		log.Printf("annotate: text OCR skipped: %v", err)
		return boxes
	}

	for _, tok := range tokens {
		if tok.HasConfidence && tok.Confidence < d.opts.MinConfidence {
			continue
		}
		text := CleanText(tok.Text)
		if len(text) < 2 {
			continue
		}
		if !IsConstructionText(text) {
			continue
		}
		x1, y1, x2, y2, ok := tok.BoundingBox()
		if !ok {
			continue
		}
		if x2-x1 < d.opts.MinBoxWidth || y2-y1 < d.opts.MinBoxHeight {
			continue
		}
		boxes = append(boxes, DetectedTextBox{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Text: text,
		})
	}
	return boxes
}

// dedupBoxes drops a box when an earlier box with identical text sits
// within the dedup radius. First occurrence wins.
func (d *Detector) dedupBoxes(boxes []DetectedTextBox) []DetectedTextBox {
	kept := []DetectedTextBox{}
	for _, b := range boxes {
		dup := false
		for _, k := range kept {
			if k.Text != b.Text {
				continue
			}
			dx := centerX(k) - centerX(b)
			dy := centerY(k) - centerY(b)
			if math.Hypot(dx, dy) < d.opts.DedupDistance {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, b)
		}
	}
	return kept
}

// mergeVertical joins vertically stacked boxes that read as one multi-line
// label. Runs to a fixpoint, bounded so a pathological input cannot spin.
func (d *Detector) mergeVertical(boxes []DetectedTextBox) []DetectedTextBox {
	for pass := 0; pass < d.opts.MaxMergePasses; pass++ {
		merged, changed := d.mergePass(boxes)
		boxes = merged
		if !changed {
			break
		}
	}
	return boxes
}

func (d *Detector) mergePass(boxes []DetectedTextBox) ([]DetectedTextBox, bool) {
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Y1 != boxes[j].Y1 {
			return boxes[i].Y1 < boxes[j].Y1
		}
		return boxes[i].X1 < boxes[j].X1
	})

	out := []DetectedTextBox{}
	used := make([]bool, len(boxes))
	changed := false

	for i := 0; i < len(boxes); i++ {
		if used[i] {
			continue
		}
		cur := boxes[i]
		for j := i + 1; j < len(boxes); j++ {
			if used[j] {
				continue
			}
			if d.shouldMerge(cur, boxes[j]) {
				cur = joinBoxes(cur, boxes[j])
				used[j] = true
				changed = true
			}
		}
		out = append(out, cur)
	}
	return out, changed
}

// shouldMerge reports whether lower continues upper as the next line of the
// same label: a small vertical gap (slight overlap tolerated) and enough
// horizontal overlap relative to the narrower box.
func (d *Detector) shouldMerge(upper, lower DetectedTextBox) bool {
	gap := float64(lower.Y1 - upper.Y2)
	upperH := float64(upper.Y2 - upper.Y1)
	if gap < -float64(d.opts.MergeGapSlack) || gap > d.opts.MergeGapFactor*upperH {
		return false
	}

	overlap := float64(minInt(upper.X2, lower.X2) - maxInt(upper.X1, lower.X1))
	if overlap <= 0 {
		return false
	}
	narrow := math.Min(float64(upper.X2-upper.X1), float64(lower.X2-lower.X1))
	if narrow <= 0 {
		return false
	}
	return overlap/narrow > d.opts.MergeOverlapFrac
}

func joinBoxes(a, b DetectedTextBox) DetectedTextBox {
	return DetectedTextBox{
		X1:   minInt(a.X1, b.X1),
		Y1:   minInt(a.Y1, b.Y1),
		X2:   maxInt(a.X2, b.X2),
		Y2:   maxInt(a.Y2, b.Y2),
		Text: a.Text + " " + b.Text,
	}
}

func centerX(b DetectedTextBox) float64 { return float64(b.X1+b.X2) / 2 }
func centerY(b DetectedTextBox) float64 { return float64(b.Y1+b.Y2) / 2 }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
