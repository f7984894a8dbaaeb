package annotate

// DetectedCircle is one recognized callout circle. IDs follow detector
// order and are stable within a run only.
//
// PageNumber is either empty or a canonical sheet reference
// (<Letter><digits>.<digits>); CircleText is either empty or a 1-4 digit
// detail number. The raw token lists are kept for debugging what OCR saw
// in each half of the bubble.
type DetectedCircle struct {
	ID         int    `json:"id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Radius     int    `json:"r"`
	PageNumber string `json:"page_number"`
	CircleText string `json:"circle_text"`

	RawTopTexts    []string `json:"raw_texts_top"`
	RawBottomTexts []string `json:"raw_texts_bottom"`
}

// DetectedTextBox is one recognized text label with its axis-aligned
// bounding box (y grows downward). IDs are renumbered 1..N after
// deduplication and merging and carry only final ordering.
type DetectedTextBox struct {
	ID   int    `json:"id"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
	Text string `json:"text"`
}

// Region is a caller-supplied sub-rectangle of the source image. Output
// coordinates from region-scoped detection are expressed in the original
// image's coordinate space, not the crop's.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
