package pixelio

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrEdgeThresholds reports invalid hysteresis thresholds.
var ErrEdgeThresholds = errors.New("edge thresholds must satisfy 0 <= low < high")

// Edge map pixel values.
const (
	edgeNone   = 0
	edgeWeak   = 128
	edgeStrong = 255
)

// gaussianKernel is the classic 5x5 kernel (sigma ~1.4), normalized by 159.
var gaussianKernel = [5][5]int{
	{2, 4, 5, 4, 2},
	{4, 9, 12, 9, 4},
	{5, 12, 15, 12, 5},
	{4, 9, 12, 9, 4},
	{2, 4, 5, 4, 2},
}

const gaussianNorm = 159

// Canny computes a binary edge map of the grayscale image: smoothing, Sobel
// gradients, non-maximum suppression, then double-threshold hysteresis. Edge
// pixels come out white, everything else black, which is exactly the polarity
// the mask partitioner expects.
func Canny(gray *image.Gray, lowThresh, highThresh float64) (*image.Gray, error) {
	if lowThresh < 0 || lowThresh >= highThresh {
		return nil, fmt.Errorf("%w: low=%g high=%g", ErrEdgeThresholds, lowThresh, highThresh)
	}

	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	smoothed := gaussianBlur(gray, width, height)
	magnitude, direction := sobel(smoothed, width, height)
	thinned := suppressNonMaxima(magnitude, direction, width, height)

	return hysteresis(thinned, width, height, lowThresh, highThresh), nil
}

// gaussianBlur smooths the image, clamping the kernel at the borders.
func gaussianBlur(gray *image.Gray, width, height int) []float64 {
	out := make([]float64, width*height)

	for y := range height {
		for x := range width {
			sum := 0

			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sx := clampInt(x+kx, 0, width-1)
					sy := clampInt(y+ky, 0, height-1)
					sum += gaussianKernel[ky+2][kx+2] * int(gray.Pix[sy*gray.Stride+sx])
				}
			}

			out[y*width+x] = float64(sum) / gaussianNorm
		}
	}

	return out
}

// sobel returns the gradient magnitude and a coarse direction sector
// (0..3: horizontal, 45 degrees, vertical, 135 degrees) for every pixel.
func sobel(src []float64, width, height int) (magnitude []float64, direction []uint8) {
	magnitude = make([]float64, width*height)
	direction = make([]uint8, width*height)

	at := func(x, y int) float64 {
		return src[clampInt(y, 0, height-1)*width+clampInt(x, 0, width-1)]
	}

	for y := range height {
		for x := range width {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)

			idx := y*width + x
			magnitude[idx] = math.Hypot(gx, gy)
			direction[idx] = sector(math.Atan2(gy, gx))
		}
	}

	return magnitude, direction
}

// sector quantizes a gradient angle into one of four neighbor axes.
func sector(angle float64) uint8 {
	deg := angle * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}

	switch {
	case deg < 22.5 || deg >= 157.5:
		return 0
	case deg < 67.5:
		return 1
	case deg < 112.5:
		return 2
	default:
		return 3
	}
}

// suppressNonMaxima zeroes every pixel that is not a local maximum along its
// gradient direction.
func suppressNonMaxima(magnitude []float64, direction []uint8, width, height int) []float64 {
	out := make([]float64, width*height)

	mag := func(x, y int) float64 {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}

		return magnitude[y*width+x]
	}

	for y := range height {
		for x := range width {
			idx := y*width + x

			var a, b float64

			switch direction[idx] {
			case 0:
				a, b = mag(x-1, y), mag(x+1, y)
			case 1:
				a, b = mag(x-1, y-1), mag(x+1, y+1)
			case 2:
				a, b = mag(x, y-1), mag(x, y+1)
			default:
				a, b = mag(x+1, y-1), mag(x-1, y+1)
			}

			if magnitude[idx] >= a && magnitude[idx] >= b {
				out[idx] = magnitude[idx]
			}
		}
	}

	return out
}

// hysteresis classifies pixels as strong, weak, or none, then promotes weak
// pixels connected to a strong one.
func hysteresis(magnitude []float64, width, height int, low, high float64) *image.Gray {
	edges := image.NewGray(image.Rect(0, 0, width, height))

	var stack []int

	for idx, m := range magnitude {
		switch {
		case m >= high:
			edges.Pix[idx] = edgeStrong
			stack = append(stack, idx)
		case m >= low:
			edges.Pix[idx] = edgeWeak
		}
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x := idx % width
		y := idx / width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}

				nidx := ny*width + nx
				if edges.Pix[nidx] == edgeWeak {
					edges.Pix[nidx] = edgeStrong
					stack = append(stack, nidx)
				}
			}
		}
	}

	// Unpromoted weak pixels are not edges.
	for idx, v := range edges.Pix {
		if v == edgeWeak {
			edges.Pix[idx] = edgeNone
		}
	}

	return edges
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
