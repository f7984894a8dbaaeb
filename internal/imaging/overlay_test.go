package imaging

import (
	"image/color"
	"testing"
)

func TestRenderOverlay_Empty(t *testing.T) {
	img := createTestImage(100, 100, color.White)

	out := RenderOverlay(img, nil, nil)

	if out.Bounds() != img.Bounds() {
		t.Error("Overlay should preserve image bounds")
	}
	// No annotations: the copy is unmarked.
	if v := grayAt(out, 50, 50); v < 250 {
		t.Errorf("Blank overlay modified pixels: gray %d", v)
	}
}

func TestRenderOverlay_DrawsCircleOutline(t *testing.T) {
	img := createTestImage(200, 200, color.White)

	out := RenderOverlay(img, []OverlayCircle{{X: 100, Y: 100, R: 40, Label: "1"}}, nil)

	// Outline pixels at the cardinal points should differ from white.
	marked := 0
	for _, p := range [][2]int{{140, 100}, {60, 100}, {100, 140}, {100, 60}} {
		r, g, b, _ := out.At(p[0], p[1]).RGBA()
		if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
			marked++
		}
	}
	if marked != 4 {
		t.Errorf("Expected outline at all 4 cardinal points, got %d", marked)
	}
	// Center stays untouched.
	if v := grayAt(out, 100, 100); v < 250 {
		t.Errorf("Circle interior should stay white: gray %d", v)
	}
}

func TestRenderOverlay_DrawsBoxOutline(t *testing.T) {
	img := createTestImage(200, 200, color.White)

	out := RenderOverlay(img, nil, []OverlayBox{{X1: 20, Y1: 30, X2: 120, Y2: 60, Label: "2"}})

	for _, p := range [][2]int{{70, 30}, {70, 60}, {20, 45}, {120, 45}} {
		r, g, b, _ := out.At(p[0], p[1]).RGBA()
		if r>>8 == 255 && g>>8 == 255 && b>>8 == 255 {
			t.Errorf("Expected outline pixel at (%d,%d)", p[0], p[1])
		}
	}
}

func TestRenderOverlay_ClipsAtEdges(t *testing.T) {
	img := createTestImage(100, 100, color.White)

	// Must not panic when shapes extend past the image.
	out := RenderOverlay(img,
		[]OverlayCircle{{X: 5, Y: 5, R: 50, Label: "1"}},
		[]OverlayBox{{X1: -10, Y1: -10, X2: 150, Y2: 150, Label: "2"}})

	if out.Bounds() != img.Bounds() {
		t.Error("Overlay should preserve image bounds")
	}
}

func TestRenderOverlay_DoesNotMutateSource(t *testing.T) {
	img := createTestImage(200, 200, color.White)

	RenderOverlay(img, []OverlayCircle{{X: 100, Y: 100, R: 40}}, nil)

	if v := grayAt(img, 140, 100); v < 250 {
		t.Error("RenderOverlay must draw on a copy, not the source")
	}
}
