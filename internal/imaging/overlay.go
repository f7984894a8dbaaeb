package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// OverlayCircle is a detected callout circle to render on a preview.
type OverlayCircle struct {
	X     int    // Center X
	Y     int    // Center Y
	R     int    // Radius
	Label string // Short label drawn beside the circle (digits only)
}

// OverlayBox is a detected text box to render on a preview.
type OverlayBox struct {
	X1, Y1, X2, Y2 int
	Label          string
}

// RenderOverlay draws detected annotations on a copy of the source image so
// the review tool can show what the pipeline found. Circles and boxes each
// get a distinct palette color; labels are rendered with a tiny built-in
// digit font (identifier numbers only, no full text).
func RenderOverlay(img image.Image, circles []OverlayCircle, boxes []OverlayBox) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	n := len(circles) + len(boxes)
	if n == 0 {
		return out
	}
	palette := colorful.FastHappyPalette(n)

	for i, c := range circles {
		col := paletteColor(palette, i)
		drawCircleOutline(out, c.X, c.Y, c.R, col)
		if c.Label != "" {
			drawLabel(out, c.X+c.R+4, c.Y-4, c.Label, color.RGBA{255, 255, 255, 255}, col)
		}
	}
	for i, b := range boxes {
		col := paletteColor(palette, len(circles)+i)
		drawRectOutline(out, b.X1, b.Y1, b.X2, b.Y2, col)
		if b.Label != "" {
			drawLabel(out, b.X1, b.Y1-8, b.Label, color.RGBA{255, 255, 255, 255}, col)
		}
	}
	return out
}

func paletteColor(palette []colorful.Color, i int) color.RGBA {
	r, g, b := palette[i%len(palette)].RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawCircleOutline draws a 3px circle outline using the midpoint algorithm.
func drawCircleOutline(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for r := radius - 1; r <= radius+1; r++ {
		if r < 1 {
			continue
		}
		x := r
		y := 0
		err := 0
		for x >= y {
			setIfInside(img, cx+x, cy+y, col)
			setIfInside(img, cx+y, cy+x, col)
			setIfInside(img, cx-y, cy+x, col)
			setIfInside(img, cx-x, cy+y, col)
			setIfInside(img, cx-x, cy-y, col)
			setIfInside(img, cx-y, cy-x, col)
			setIfInside(img, cx+y, cy-x, col)
			setIfInside(img, cx+x, cy-y, col)
			if err <= 0 {
				y++
				err += 2*y + 1
			}
			if err > 0 {
				x--
				err -= 2*x + 1
			}
		}
	}
}

func drawRectOutline(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	for t := 0; t < 2; t++ {
		for x := x1 - t; x <= x2+t; x++ {
			setIfInside(img, x, y1-t, col)
			setIfInside(img, x, y2+t, col)
		}
		for y := y1 - t; y <= y2+t; y++ {
			setIfInside(img, x1-t, y, col)
			setIfInside(img, x2+t, y, col)
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, col color.RGBA) {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.Set(x, y, col)
	}
}

// drawLabel draws a short numeric label at the given position using a 3x5
// pixel font. Unsupported characters advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'.': {"000", "000", "000", "000", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setIfInside(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
