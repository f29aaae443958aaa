package intervals

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants.
const (
	testMaskWidth   = 10
	testRandomLower = 1
	testRandomUpper = 4
	testRandomSeed  = 42
	testPartCount   = 4
)

// grayRow builds a single-row gray image from mask values.
func grayRow(values ...uint8) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, len(values), 1))
	copy(gray.Pix, values)

	return gray
}

// TestMask_Scenario verifies the literal black/white carving scenario: white
// runs survive, black runs go.
func TestMask_Scenario(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(testMaskWidth)}
	Mask(rows, grayRow(255, 255, 0, 0, 255, 255, 255, 0, 0, 0))

	assert.Equal(t, []Range{{Start: 0, End: 2}, {Start: 4, End: 7}}, rows[0].Ranges())
}

// TestMask_LeadingBlack verifies a black prefix is removed once the first
// white run is found.
func TestMask_LeadingBlack(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(6)}
	Mask(rows, grayRow(0, 0, 255, 255, 0, 0))

	assert.Equal(t, []Range{{Start: 2, End: 4}}, rows[0].Ranges())
}

// TestMask_UnterminatedWhiteTail verifies a white run with no closing black
// pixel drops the remainder of the row.
func TestMask_UnterminatedWhiteTail(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(5)}
	Mask(rows, grayRow(0, 0, 255, 255, 255))

	assert.Equal(t, 0, rows[0].Len())
}

// TestMask_AllBlack verifies a row never confirmed white loses everything.
func TestMask_AllBlack(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(4)}
	Mask(rows, grayRow(0, 0, 0, 0))

	assert.Equal(t, 0, rows[0].Len())
}

// TestMask_GrayValuesIgnored verifies values other than 0 and 255 neither
// open nor close a run.
func TestMask_GrayValuesIgnored(t *testing.T) {
	t.Parallel()

	// The gray pixel at column 1 rides along inside the white run.
	rows := []*Set{New(5)}
	Mask(rows, grayRow(255, 128, 0, 255, 0))

	assert.Equal(t, []Range{{Start: 0, End: 2}, {Start: 3, End: 4}}, rows[0].Ranges())
}

// TestMask_PreFragmentedSet verifies black runs are removed from an already
// carved set even when the white run that closes them lies in a gap.
func TestMask_PreFragmentedSet(t *testing.T) {
	t.Parallel()

	// Columns 2-3 are white but uncovered; the black run over [0,2) must
	// still go, as must the black column 4 and the trailing black span.
	rows := []*Set{FromRanges([]Range{{Start: 0, End: 2}, {Start: 4, End: 7}})}
	Mask(rows, grayRow(0, 0, 255, 255, 0, 255, 255, 0, 0, 0))

	assert.Equal(t, []Range{{Start: 5, End: 7}}, rows[0].Ranges())
	requireValid(t, rows[0])
}

// TestMask_Twice verifies carving through a second mask composes with the
// first: only columns white in both survive.
func TestMask_Twice(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(8)}
	Mask(rows, grayRow(255, 255, 255, 255, 0, 255, 255, 0))
	require.Equal(t, []Range{{Start: 0, End: 4}, {Start: 5, End: 7}}, rows[0].Ranges())

	Mask(rows, grayRow(0, 0, 255, 255, 255, 255, 0, 0))

	assert.Equal(t, []Range{{Start: 2, End: 4}, {Start: 5, End: 6}}, rows[0].Ranges())
}

// TestMask_RowMismatch verifies extra rows beyond the mask height stay
// untouched.
func TestMask_RowMismatch(t *testing.T) {
	t.Parallel()

	rows := []*Set{New(4), New(4)}
	Mask(rows, grayRow(0, 0, 0, 0))

	assert.Equal(t, 0, rows[0].Len())
	assert.Equal(t, []Range{{Start: 0, End: 4}}, rows[1].Ranges())
}

// TestThreshold verifies lightness binarization into [low, high) before
// carving.
func TestThreshold(t *testing.T) {
	t.Parallel()

	// Grays at 10, 100, 200, 100: with bounds [50, 150) only the
	// middle values are white.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x, v := range []uint8{10, 100, 200, 100} {
		img.SetNRGBA(x, 0, color.NRGBA{R: v, G: v, B: v, A: 255})
	}

	rows := []*Set{New(4)}
	Threshold(rows, img, 50, 150)

	// Columns 1..2 open a white run closed at column 2; column 3's run is
	// unterminated and drops with the tail.
	assert.Equal(t, []Range{{Start: 1, End: 2}}, rows[0].Ranges())
}

// TestRandom_CoversWidth verifies termination and that the intervals abut
// with no gaps or overlap across the full width.
func TestRandom_CoversWidth(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(testRandomSeed, 0))
	rows := RowsFor(100, 3)

	err := Random(rows, testRandomLower, testRandomUpper, rng)
	require.NoError(t, err)

	for _, set := range rows {
		next := 0
		for r := range set.All() {
			require.Equal(t, next, r.Start)
			require.Less(t, r.Len(), testRandomUpper)
			next = r.End
		}

		assert.Equal(t, 100, next)
	}
}

// TestRandom_ZeroLowerTerminates verifies a lower bound of zero cannot stall
// the accumulator.
func TestRandom_ZeroLowerTerminates(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(testRandomSeed, 1))
	rows := RowsFor(20, 1)

	err := Random(rows, 0, 1, rng)
	require.NoError(t, err)

	// Only zero can be drawn from [0,1); the guard turns every draw into
	// a width-one step.
	assert.Equal(t, 20, rows[0].Len())
}

// TestRandom_DegenerateBounds verifies degenerate bounds are rejected before
// any row is touched.
func TestRandom_DegenerateBounds(t *testing.T) {
	t.Parallel()

	rows := RowsFor(10, 1)

	require.ErrorIs(t, Random(rows, 3, 3, nil), ErrRandomBounds)
	require.ErrorIs(t, Random(rows, 5, 2, nil), ErrRandomBounds)
	require.ErrorIs(t, Random(rows, -1, 2, nil), ErrRandomBounds)
	require.ErrorIs(t, Random(rows, 0, 0, nil), ErrRandomBounds)

	assert.Equal(t, []Range{{Start: 0, End: 10}}, rows[0].Ranges())
}

// TestSplitEqual verifies the row-count division behavior: rows are split at
// multiples of rowCount/partCount.
func TestSplitEqual(t *testing.T) {
	t.Parallel()

	rows := RowsFor(20, 8)
	SplitEqual(rows, testPartCount)

	// 8 rows / 4 parts = width 2, boundaries at 2, 4, 6.
	assert.Equal(t, []Range{
		{Start: 0, End: 2},
		{Start: 2, End: 4},
		{Start: 4, End: 6},
		{Start: 6, End: 20},
	}, rows[0].Ranges())
}

// TestSplitEqual_PartCountExceedsRows verifies that a part count at or above
// the row count is a clean no-op.
func TestSplitEqual_PartCountExceedsRows(t *testing.T) {
	t.Parallel()

	rows := RowsFor(20, 3)

	SplitEqual(rows, 3)

	for _, set := range rows {
		requireValid(t, set)
	}

	rows = RowsFor(20, 3)
	SplitEqual(rows, 10)

	for _, set := range rows {
		assert.Equal(t, []Range{{Start: 0, End: 20}}, set.Ranges())
	}
}

// TestSplitEqual_ZeroParts verifies a zero part count does not divide.
func TestSplitEqual_ZeroParts(t *testing.T) {
	t.Parallel()

	rows := RowsFor(20, 4)
	SplitEqual(rows, 0)

	assert.Equal(t, []Range{{Start: 0, End: 20}}, rows[0].Ranges())
}

// TestSplitEqualWidth verifies per-row width division.
func TestSplitEqualWidth(t *testing.T) {
	t.Parallel()

	rows := RowsFor(20, 1)
	SplitEqualWidth(rows, testPartCount)

	assert.Equal(t, []Range{
		{Start: 0, End: 5},
		{Start: 5, End: 10},
		{Start: 10, End: 15},
		{Start: 15, End: 20},
	}, rows[0].Ranges())
}

// TestSplitEqualWidth_NarrowRow verifies rows narrower than the part count
// stay whole.
func TestSplitEqualWidth_NarrowRow(t *testing.T) {
	t.Parallel()

	rows := RowsFor(3, 1)
	SplitEqualWidth(rows, 10)

	assert.Equal(t, []Range{{Start: 0, End: 3}}, rows[0].Ranges())
}
