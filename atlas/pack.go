package atlas

import (
	"image"
	"math"
	"sort"
)

type rect struct {
	w, h int
}

// packRects places rects into shelves and returns the bin extent plus one
// origin per input rect, in input order. The placement is deterministic: a
// stable sort by descending height (width, then input position break ties)
// fixes the fill order, and the bin width is derived from the inputs alone.
//
// This is plain shelf packing, not maximal-rectangles; sprite cels are small
// and few, so the wasted right edge of a shelf is not worth chasing.
func packRects(rects []rect) (int, int, []image.Point) {
	origins := make([]image.Point, len(rects))
	if len(rects) == 0 {
		return 0, 0, origins
	}

	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rects[order[a]], rects[order[b]]
		if ra.h != rb.h {
			return ra.h > rb.h
		}
		return ra.w > rb.w
	})

	binW := targetWidth(rects)

	x, y, shelfH := 0, 0, 0
	maxRight := 0
	for _, i := range order {
		r := rects[i]
		if x > 0 && x+r.w > binW {
			y += shelfH
			x, shelfH = 0, 0
		}
		origins[i] = image.Point{X: x, Y: y}
		x += r.w
		if r.h > shelfH {
			shelfH = r.h
		}
		if x > maxRight {
			maxRight = x
		}
	}
	return maxRight, y + shelfH, origins
}

// targetWidth picks the shelf width: wide enough for the widest rect, and
// close to the square root of the total area so the bin comes out roughly
// square.
func targetWidth(rects []rect) int {
	maxW, area := 0, 0
	for _, r := range rects {
		if r.w > maxW {
			maxW = r.w
		}
		area += r.w * r.h
	}
	w := int(math.Ceil(math.Sqrt(float64(area))))
	if w < maxW {
		w = maxW
	}
	return w
}
