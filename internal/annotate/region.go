package annotate

import (
	"image"
	"log"

	"github.com/plansight/plansight/internal/imaging"
)

// RegionResult is the outcome of running the full pipeline on a sub-window
// of a sheet. Coordinates are in the original sheet's frame; CroppedImage
// is the analyzed crop as a base64 JPEG for client-side preview.
type RegionResult struct {
	Circles      []DetectedCircle  `json:"circles"`
	Detections   []DetectedTextBox `json:"detections"`
	CroppedImage string            `json:"cropped_image"`
}

// DetectRegion crops the requested window, runs circle and text extraction
// on the crop alone, and maps every result back into sheet coordinates.
func (d *Detector) DetectRegion(img image.Image, reg Region) RegionResult {
	res := RegionResult{
		Circles:    []DetectedCircle{},
		Detections: []DetectedTextBox{},
	}
	if img == nil {
		return res
	}

	crop, err := imaging.CropRegion(img, reg.X, reg.Y, reg.W, reg.H)
	if err != nil {
		log.Printf("annotate: region crop failed: %v", err)
		return res
	}

	for _, c := range d.ExtractCircles(crop) {
		c.X += reg.X
		c.Y += reg.Y
		res.Circles = append(res.Circles, c)
	}
	for _, b := range d.ExtractText(crop) {
		b.X1 += reg.X
		b.X2 += reg.X
		b.Y1 += reg.Y
		b.Y2 += reg.Y
		res.Detections = append(res.Detections, b)
	}

	encoded, err := imaging.EncodeJPEGBase64(crop)
	if err != nil {
		log.Printf("annotate: region preview encode failed: %v", err)
	} else {
		res.CroppedImage = "data:image/jpeg;base64," + encoded
	}
	return res
}
