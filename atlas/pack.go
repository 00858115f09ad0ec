package atlas

import (
	"image"
	"math"
	"sort"
)

// Packing is the result of Pack: a square power-of-two canvas and one
// placed rectangle per input size, in input order.
type Packing struct {
	Size  int
	Rects []image.Rectangle
}

type packRect struct {
	id   int
	x, y int
	w, h int
}

// Pack places rectangles of the given sizes without overlap. Rectangles are
// placed tallest first into the most recently created free region that fits,
// starting from a single column whose width aims for a square result at 95%
// utilization. The canvas is the next power of two covering the used width
// and height, made square.
func Pack(sizes []image.Point) Packing {
	rects := make([]packRect, len(sizes))
	area, maxWidth := 0, 0
	for i, s := range sizes {
		rects[i] = packRect{id: i, w: s.X, h: s.Y}
		area += s.X * s.Y
		maxWidth = max(maxWidth, s.X)
	}
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].h > rects[j].h })

	startWidth := max(int(math.Ceil(math.Sqrt(float64(area)/0.95))), maxWidth)
	regions := []packRect{{w: startWidth, h: math.MaxInt32}}

	width, height := 0, 0
	for n := range rects {
		r := &rects[n]
		for i := len(regions) - 1; i >= 0; i-- {
			region := &regions[i]
			if r.w > region.w || r.h > region.h {
				continue
			}
			r.x, r.y = region.x, region.y
			width = max(width, r.x+r.w)
			height = max(height, r.y+r.h)

			switch {
			case r.w == region.w && r.h == region.h:
				last := regions[len(regions)-1]
				regions = regions[:len(regions)-1]
				if i < len(regions) {
					regions[i] = last
				}
			case r.h == region.h:
				region.x += r.w
				region.w -= r.w
			case r.w == region.w:
				region.y += r.h
				region.h -= r.h
			default:
				split := packRect{x: region.x + r.w, y: region.y, w: region.w - r.w, h: r.h}
				region.y += r.h
				region.h -= r.h
				regions = append(regions, split)
			}
			break
		}
	}

	out := Packing{Size: max(ceilPow2(width), ceilPow2(height)), Rects: make([]image.Rectangle, len(rects))}
	for _, r := range rects {
		out.Rects[r.id] = image.Rect(r.x, r.y, r.x+r.w, r.y+r.h)
	}
	return out
}

func ceilPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}
