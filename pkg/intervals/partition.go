package intervals

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/glitchfang/glitchfang/pkg/pixelio"
)

// Mask pixel values that carry meaning. Anything else neither opens nor
// closes a run.
const (
	maskBlack = 0
	maskWhite = 255
)

// ErrRandomBounds reports degenerate width bounds for the random partitioner.
var ErrRandomBounds = errors.New("random interval bounds must satisfy 0 <= lower < upper")

// Mask carves each row's set according to a same-size binary mask: runs of
// black pixels are removed, runs of white pixels stay sortable.
//
// Each row is scanned left to right with an alternating search: the next
// white pixel closes the black span that preceded it, which is removed, and
// the next black pixel closes the white run. A row that ends without a
// closing transition drops its unconfirmed tail, including the tail of an
// unterminated white run. Rows beyond the mask's height are left untouched.
//
// Removal goes through Set.Remove, so a set that was already carved by an
// earlier partitioner still loses black runs whose enclosing mask columns
// fall into its gaps.
func Mask(rows []*Set, mask *image.Gray) {
	bounds := mask.Bounds()
	height := min(len(rows), bounds.Dy())

	for y := range height {
		offset := mask.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		maskRow(rows[y], mask.Pix[offset:offset+bounds.Dx()])
	}
}

// maskRow applies the scan protocol to a single row. pos always sits on the
// first column of the current black span, so every removal is a whole span
// between two confirmed transitions.
func maskRow(set *Set, row []uint8) {
	pos := 0

	for {
		white := nextValue(row, pos, maskWhite)
		if white < 0 {
			// No further white run: the trailing black span goes, and a row
			// never confirmed white loses everything.
			set.RemoveFrom(pos)

			return
		}

		set.Remove(pos, white)

		black := nextValue(row, white+1, maskBlack)
		if black < 0 {
			// White run never closed by a black pixel: drop the remainder.
			set.RemoveFrom(white)

			return
		}

		pos = black
	}
}

// nextValue returns the first column at or after from whose mask value equals
// want, or -1 when the row holds no further such column.
func nextValue(row []uint8, from int, want uint8) int {
	for x := from; x < len(row); x++ {
		if row[x] == want {
			return x
		}
	}

	return -1
}

// Threshold binarizes the image's lightness to white inside [low, high) and
// black outside, then carves the rows through Mask. Pixels at or above high,
// or below low, are excluded from sorting.
func Threshold(rows []*Set, img image.Image, low, high uint8) {
	gray := pixelio.Grayscale(img)
	pixelio.Binarize(gray, low, high)
	Mask(rows, gray)
}

// EdgesCanny derives a binary edge map from the image using two hysteresis
// thresholds and carves the rows through Mask: edge pixels stay sortable,
// everything else is removed.
func EdgesCanny(rows []*Set, img image.Image, lowThresh, highThresh float64) error {
	edges, err := pixelio.Canny(pixelio.Grayscale(img), lowThresh, highThresh)
	if err != nil {
		return err
	}

	Mask(rows, edges)

	return nil
}

// Random partitions each row into abutting intervals of random width drawn
// uniformly from [lower, upper). Nothing is removed; rows only gain
// boundaries. A nil rng falls back to a process-seeded source.
//
// Degenerate bounds are rejected up front, and a zero draw is raised to one
// so the accumulator can never stall.
func Random(rows []*Set, lower, upper int, rng *rand.Rand) error {
	if lower < 0 || lower >= upper {
		return fmt.Errorf("%w: lower=%d upper=%d", ErrRandomBounds, lower, upper)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for _, set := range rows {
		width := set.End()

		acc := 0
		for acc < width {
			step := lower + rng.IntN(upper-lower)
			if step < 1 {
				step = 1
			}

			acc += step
			set.SplitAt(acc)
		}
	}

	return nil
}

// SplitEqual splits every row at multiples of len(rows)/partCount.
//
// The divisor is the number of rows, not the per-row pixel width. That
// inherited behavior is kept as-is; SplitEqualWidth provides the width-based
// variant. A partCount of zero, or one large enough to drive the division to
// zero, splits nothing.
func SplitEqual(rows []*Set, partCount int) {
	if partCount <= 0 {
		return
	}

	width := len(rows) / partCount
	if width == 0 {
		return
	}

	for _, set := range rows {
		for id := range partCount {
			set.SplitAt(id * width)
		}
	}
}

// SplitEqualWidth splits every row into partCount parts of equal column
// width, derived from that row's own extent. Rows narrower than partCount
// columns are left whole.
func SplitEqualWidth(rows []*Set, partCount int) {
	if partCount <= 0 {
		return
	}

	for _, set := range rows {
		start := set.Start()

		width := (set.End() - start) / partCount
		if width == 0 {
			continue
		}

		for id := 1; id < partCount; id++ {
			set.SplitAt(start + id*width)
		}
	}
}
