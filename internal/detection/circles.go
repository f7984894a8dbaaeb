package detection

import (
	"image"
	"math"
	"sort"
)

// Circle is a localized callout circle candidate.
type Circle struct {
	X      int // Center X in source image coordinates
	Y      int // Center Y in source image coordinates
	Radius int
	Votes  int // Accumulator strength; higher means a cleaner circle
}

// Fixed Hough parameterization for construction-drawing callout bubbles.
// The radius band matches the callout size convention of the target drawing
// sets; circles outside it are not detected by design.
const (
	minRadius      = 50
	maxRadius      = 100
	voteAngleStep  = 10   // degrees between votes around each edge pixel
	voteThreshold  = 0.6  // fraction of expected circumference required
	minCenterDist  = 20.0 // minimum distance between accepted centers
	peakWindow     = 5    // local-maxima suppression window (accumulator cells)
	edgeGradThresh = 30.0 // grayscale gradient threshold for edge pixels
)

// FindCircles localizes callout circles in an image.
//
// Results are ordered by accumulator strength (strongest first), with no
// post-filtering beyond the fixed radius band and the minimum center
// distance. Returns an empty slice for nil or degenerate input; never fails.
func FindCircles(img image.Image) []Circle {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 2*minRadius || height <= 2*minRadius {
		return nil
	}

	edges := detectEdges(img, width, height)

	candidates := make([]Circle, 0)

	for radius := minRadius; radius <= maxRadius; radius++ {
		accumulator := make([][]int, height)
		for y := 0; y < height; y++ {
			accumulator[y] = make([]int, width)
		}

		// Vote for circle centers around each edge pixel.
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y][x] {
					continue
				}
				for angle := 0; angle < 360; angle += voteAngleStep {
					rad := float64(angle) * math.Pi / 180
					cx := x - int(float64(radius)*math.Cos(rad))
					cy := y - int(float64(radius)*math.Sin(rad))
					if cx >= 0 && cx < width && cy >= 0 && cy < height {
						accumulator[cy][cx]++
					}
				}
			}
		}

		threshold := int(float64(2*radius) * voteThreshold)
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				if accumulator[y][x] < threshold {
					continue
				}
				// Keep only local maxima.
				isMax := true
				for dy := -peakWindow; dy <= peakWindow && isMax; dy++ {
					for dx := -peakWindow; dx <= peakWindow && isMax; dx++ {
						if dy == 0 && dx == 0 {
							continue
						}
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < height && nx >= 0 && nx < width {
							if accumulator[ny][nx] > accumulator[y][x] {
								isMax = false
							}
						}
					}
				}
				if isMax {
					candidates = append(candidates, Circle{
						X:      x + bounds.Min.X,
						Y:      y + bounds.Min.Y,
						Radius: radius,
						Votes:  accumulator[y][x],
					})
				}
			}
		}
	}

	// Rank by accumulator strength, then greedily enforce the minimum
	// center distance so concentric/overlapping hits collapse to the
	// strongest detection.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Votes > candidates[j].Votes
	})

	accepted := make([]Circle, 0, len(candidates))
	for _, c := range candidates {
		tooClose := false
		for _, a := range accepted {
			dx := float64(c.X - a.X)
			dy := float64(c.Y - a.Y)
			if math.Sqrt(dx*dx+dy*dy) < minCenterDist {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// detectEdges performs simple gradient-based edge detection.
//
// Pixels where the grayscale difference to the right or lower neighbor
// exceeds the threshold are marked as edges. Border pixels are never edges.
func detectEdges(img image.Image, width, height int) [][]bool {
	bounds := img.Bounds()
	edges := make([][]bool, height)

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}

			c := grayValue(img, x+bounds.Min.X, y+bounds.Min.Y)
			cx := grayValue(img, x+1+bounds.Min.X, y+bounds.Min.Y)
			cy := grayValue(img, x+bounds.Min.X, y+1+bounds.Min.Y)

			dx := math.Abs(float64(c) - float64(cx))
			dy := math.Abs(float64(c) - float64(cy))

			if dx > edgeGradThresh || dy > edgeGradThresh {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// grayValue converts a pixel to grayscale using ITU-R BT.601 luminance weights.
func grayValue(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}
