package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Fixed preprocessing parameterization, tuned for construction-drawing scans.
const (
	// Contrast enhancement tile grid and clip limit (CLAHE-style).
	contrastTiles     = 8
	contrastClipLimit = 2.0

	// Minimum run length (pixels) for a stroke to count as a grid/wall line,
	// and the thickness painted over when erasing one.
	lineMinRun         = 40
	lineEraseThickness = 5
)

// EnhanceContrast improves local contrast for OCR.
//
// The image is converted to single-channel intensity, a tile-local clipped
// histogram equalization is applied (8x8 tile grid, clip limit 2.0, bilinear
// blending between neighboring tile mappings), and the result is returned as
// a 3-channel image since the OCR adapter contract requires 3 channels.
//
// Degenerate or unusably small inputs are returned unmodified.
func EnhanceContrast(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < contrastTiles || height < contrastTiles {
		return img
	}

	gray := effect.Grayscale(img)

	tileW := (width + contrastTiles - 1) / contrastTiles
	tileH := (height + contrastTiles - 1) / contrastTiles

	// Per-tile tone mapping lookup tables.
	luts := make([][][256]uint8, contrastTiles)
	for ty := 0; ty < contrastTiles; ty++ {
		luts[ty] = make([][256]uint8, contrastTiles)
		for tx := 0; tx < contrastTiles; tx++ {
			x1 := tx * tileW
			y1 := ty * tileH
			x2 := minInt(x1+tileW, width)
			y2 := minInt(y1+tileH, height)

			var hist [256]int
			area := 0
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					hist[gray.Pix[gray.PixOffset(x, y)]]++
					area++
				}
			}
			if area == 0 {
				for i := range luts[ty][tx] {
					luts[ty][tx][i] = uint8(i)
				}
				continue
			}

			// Clip the histogram and redistribute the excess uniformly.
			clip := int(contrastClipLimit * float64(area) / 256.0)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			bonus := excess / 256
			total := 0
			for i := range hist {
				hist[i] += bonus
				total += hist[i]
			}

			cum := 0
			for i := range hist {
				cum += hist[i]
				luts[ty][tx][i] = uint8(255 * cum / total)
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := clampInt(int(fy), 0, contrastTiles-1)
		ty1 := clampInt(ty0+1, 0, contrastTiles-1)
		wy := fy - float64(ty0)
		if wy < 0 {
			wy = 0
		}
		for x := 0; x < width; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := clampInt(int(fx), 0, contrastTiles-1)
			tx1 := clampInt(tx0+1, 0, contrastTiles-1)
			wx := fx - float64(tx0)
			if wx < 0 {
				wx = 0
			}

			v := gray.Pix[gray.PixOffset(x, y)]
			top := float64(luts[ty0][tx0][v])*(1-wx) + float64(luts[ty0][tx1][v])*wx
			bot := float64(luts[ty1][tx0][v])*(1-wx) + float64(luts[ty1][tx1][v])*wx
			mapped := uint8(top*(1-wy) + bot*wy)

			off := out.PixOffset(x, y)
			out.Pix[off] = mapped
			out.Pix[off+1] = mapped
			out.Pix[off+2] = mapped
			out.Pix[off+3] = 255
		}
	}
	return out
}

// RemoveGridLines suppresses long horizontal and vertical strokes (blueprint
// grid lines, wall outlines) that fragment or obscure text under OCR.
//
// The image is binarized at an Otsu-derived threshold, long directional ink
// runs are detected independently for each axis, and every detected run is
// painted background-white on a grayscale copy before it is returned as a
// 3-channel image. Images too small to contain a qualifying run are returned
// unmodified.
func RemoveGridLines(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < lineMinRun && height < lineMinRun {
		return img
	}

	gray := effect.Grayscale(img)
	bin := segment.Threshold(gray, otsuLevel(gray))

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), gray, gray.Bounds().Min, draw.Src)

	ink := func(x, y int) bool {
		// Threshold maps dark strokes to black.
		return bin.Pix[bin.PixOffset(x, y)] == 0
	}

	half := lineEraseThickness / 2

	// Horizontal runs.
	for y := 0; y < height; y++ {
		runStart := -1
		for x := 0; x <= width; x++ {
			if x < width && ink(x, y) {
				if runStart < 0 {
					runStart = x
				}
				continue
			}
			if runStart >= 0 && x-runStart >= lineMinRun {
				eraseRect(out, runStart, y-half, x, y+half+1)
			}
			runStart = -1
		}
	}

	// Vertical runs.
	for x := 0; x < width; x++ {
		runStart := -1
		for y := 0; y <= height; y++ {
			if y < height && ink(x, y) {
				if runStart < 0 {
					runStart = y
				}
				continue
			}
			if runStart >= 0 && y-runStart >= lineMinRun {
				eraseRect(out, x-half, runStart, x+half+1, y)
			}
			runStart = -1
		}
	}

	return out
}

// UpscaleForOCR resizes an image by the given factor using Catmull-Rom
// (cubic) interpolation. Circle crops are upscaled 3x before OCR because
// callout glyphs are otherwise below the engine's effective resolution
// floor. Non-positive factors and degenerate images pass through unchanged.
func UpscaleForOCR(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	if factor <= 0 || bounds.Dx() == 0 || bounds.Dy() == 0 {
		return img
	}
	newW := int(float64(bounds.Dx()) * factor)
	newH := int(float64(bounds.Dy()) * factor)
	if newW < 1 || newH < 1 {
		return img
	}
	return imaging.Resize(img, newW, newH, imaging.CatmullRom)
}

// otsuLevel computes the Otsu binarization threshold from the intensity
// histogram of a grayscale image.
func otsuLevel(gray *image.RGBA) uint8 {
	bounds := gray.Bounds()
	var hist [256]int
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.Pix[gray.PixOffset(x, y)]]++
			total++
		}
	}
	if total == 0 {
		return 128
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64
	level := uint8(128)
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = uint8(i)
		}
	}
	return level
}

// eraseRect paints a clamped rectangle background-white.
func eraseRect(img *image.RGBA, x1, y1, x2, y2 int) {
	bounds := img.Bounds()
	x1 = clampInt(x1, bounds.Min.X, bounds.Max.X)
	y1 = clampInt(y1, bounds.Min.Y, bounds.Max.Y)
	x2 = clampInt(x2, bounds.Min.X, bounds.Max.X)
	y2 = clampInt(y2, bounds.Min.Y, bounds.Max.Y)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.Set(x, y, color.White)
		}
	}
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
