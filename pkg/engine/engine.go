// Package engine applies a sort key to every interval of a row collection,
// rewriting the image's pixels in place.
package engine

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"slices"
	"sync"

	"github.com/glitchfang/glitchfang/pkg/intervals"
	"github.com/glitchfang/glitchfang/pkg/sortkeys"
)

// ErrRangeOutOfBounds reports an interval extending past the image width.
var ErrRangeOutOfBounds = errors.New("interval exceeds image bounds")

// Options tune a sort pass.
type Options struct {
	// Workers is the number of rows sorted concurrently. Zero or one selects
	// sequential processing; a negative value selects one worker per CPU.
	// Rows are independent, so the output is identical either way.
	Workers int
}

// Result summarizes a completed sort pass.
type Result struct {
	Rows      int
	Intervals int
	Pixels    int
}

// Sort rewrites img in place: for every row present in rows, up to the image
// height, and for every interval in that row's set in ascending order, the
// covered pixels are reordered by ascending key. The sort is stable, so
// pixels with equal keys keep their left-to-right order.
//
// Bounds are validated for the whole collection before any pixel is written;
// an out-of-bounds interval aborts the pass with ErrRangeOutOfBounds and the
// image untouched. Rows beyond the image height are ignored.
func Sort(img *image.NRGBA, rows []*intervals.Set, key sortkeys.Func, opts Options) (Result, error) {
	width := img.Rect.Dx()
	limit := min(len(rows), img.Rect.Dy())

	var res Result

	res.Rows = limit

	for y := range limit {
		for r := range rows[y].All() {
			if r.Start < 0 || r.End > width {
				return Result{}, fmt.Errorf("%w: row %d range %s width %d", ErrRangeOutOfBounds, y, r, width)
			}

			res.Intervals++
			res.Pixels += r.Len()
		}
	}

	workers := opts.Workers
	if workers < 0 {
		workers = runtime.NumCPU()
	}

	workers = min(workers, limit)

	if workers <= 1 {
		sorter := newRowSorter(img, key)
		for y := range limit {
			sorter.sortRow(y, rows[y])
		}

		return res, nil
	}

	var wg sync.WaitGroup

	wg.Add(workers)

	for w := range workers {
		go func(start int) {
			defer wg.Done()

			// Scratch buffers are per worker; rows never share one.
			sorter := newRowSorter(img, key)
			for y := start; y < limit; y += workers {
				sorter.sortRow(y, rows[y])
			}
		}(w)
	}

	wg.Wait()

	return res, nil
}

// rowSorter carries the reusable scratch buffer for one worker. The buffer is
// emptied between intervals but never shrunk, bounding peak allocation by the
// widest interval seen rather than the whole image.
type rowSorter struct {
	img     *image.NRGBA
	key     sortkeys.Func
	scratch []color.NRGBA
}

func newRowSorter(img *image.NRGBA, key sortkeys.Func) *rowSorter {
	return &rowSorter{img: img, key: key}
}

func (rs *rowSorter) sortRow(y int, set *intervals.Set) {
	for r := range set.All() {
		rs.sortInterval(y, r)
	}
}

func (rs *rowSorter) sortInterval(y int, r intervals.Range) {
	minX := rs.img.Rect.Min.X
	rowY := rs.img.Rect.Min.Y + y

	rs.scratch = rs.scratch[:0]
	for x := r.Start; x < r.End; x++ {
		rs.scratch = append(rs.scratch, rs.img.NRGBAAt(minX+x, rowY))
	}

	slices.SortStableFunc(rs.scratch, func(a, b color.NRGBA) int {
		return cmp.Compare(rs.key(a), rs.key(b))
	})

	for i, p := range rs.scratch {
		rs.img.SetNRGBA(minX+r.Start+i, rowY, p)
	}
}
