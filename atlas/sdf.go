package atlas

import (
	"image"
	"math"
)

// inf stands for "no seed pixel" in the squared distance grids.
const inf = 1e20

// DistanceTransform replaces every cell of the width x height grid with the
// squared Euclidean distance to the nearest cell, weighted by that cell's
// initial value. Seeds are 0 and empty cells are large (1e20). It runs the
// exact Felzenszwalb-Huttenlocher transform over columns and then rows.
func DistanceTransform(grid []float64, width, height int) {
	if width == 0 || height == 0 {
		return
	}
	size := max(width, height)
	f := make([]float64, size)
	z := make([]float64, size+1)
	v := make([]int, size*2)
	edt(grid, width, height, f, v, z)
}

func edt(grid []float64, width, height int, f []float64, v []int, z []float64) {
	for x := 0; x < width; x++ {
		edt1d(grid, x, width, height, f, v, z)
	}
	for y := 0; y < height; y++ {
		edt1d(grid, y*width, 1, width, f, v, z)
	}
}

// edt1d transforms one line of grid in place. f, v and z are scratch buffers
// of at least length, 2*length and length+1 entries.
func edt1d(grid []float64, offset, stride, length int, f []float64, v []int, z []float64) {
	v[0] = 0
	z[0] = -inf
	z[1] = inf
	for q := 0; q < length; q++ {
		f[q] = grid[offset+q*stride]
	}

	k := 0
	for q := 1; q < length; q++ {
		var s float64
		for {
			r := v[k]
			s = (f[q] - f[r] + float64(q*q-r*r)) / float64(q-r) / 2
			if s > z[k] {
				break
			}
			k--
			if k < 0 {
				break
			}
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = inf
	}

	k = 0
	for q := 0; q < length; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		r := v[k]
		grid[offset+q*stride] = f[r] + float64((q-r)*(q-r))
	}
}

// ToSDF converts coverage to a signed distance field. Fully covered pixels
// seed the outside transform, empty pixels the inside one, and partial
// coverage contributes a sub-pixel offset. The signed distance d (positive
// outside) maps to round(255 - 255*(d/radius + 0.25)), clamped to 0..255 and
// written to all four channels.
func ToSDF(src *image.Alpha, radius float64) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	outer := make([]float64, w*h)
	inner := make([]float64, w*h)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x, p := range row {
			i := y*w + x
			switch p {
			case 0xff:
				outer[i], inner[i] = 0, inf
			case 0:
				outer[i], inner[i] = inf, 0
			default:
				d := 0.5 - float64(p)/255
				if d > 0 {
					outer[i] = d * d
				}
				if d < 0 {
					inner[i] = d * d
				}
			}
		}
	}

	size := max(w, h)
	f := make([]float64, size)
	z := make([]float64, size+1)
	v := make([]int, size*2)
	edt(outer, w, h, f, v, z)
	edt(inner, w, h, f, v, z)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range outer {
		d := math.Sqrt(outer[i]) - math.Sqrt(inner[i])
		a := sdfByte(255 - 255*(d/radius+0.25))
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = a, a, a, a
	}
	return dst
}

// sdfByte rounds half up and clamps to a byte.
func sdfByte(x float64) uint8 {
	x = math.Floor(x + 0.5)
	switch {
	case x <= 0:
		return 0
	case x >= 255:
		return 255
	default:
		return uint8(x)
	}
}
