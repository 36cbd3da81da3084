// Package preview renders an assembled figure to a flat-shaded
// orthographic image so assembly results can be checked without a scene
// builder. No textures, no tone mapping: geometry verification only.
package preview

import (
	"image"
	"math"

	"figure-assembler/internal/mathutil"
)

// Mesh is one renderable piece: placed world-space vertices plus a flat
// RGBA color in [0,1]. A zero-alpha color selects the default grey.
type Mesh struct {
	Vertices []mathutil.Vec3
	Faces    [][3]int
	Color    [4]float64
}

var defaultColor = [4]float64{0.63, 0.63, 0.67, 1}

// Render draws all meshes front-on (world X right, Y up) at
// size*supersample resolution. Pair with Downsample for antialiasing.
func Render(meshes []Mesh, size, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	any := false
	for _, m := range meshes {
		for _, v := range m.Vertices {
			any = true
			for k := 0; k < 3; k++ {
				if v[k] < lo[k] {
					lo[k] = v[k]
				}
				if v[k] > hi[k] {
					hi[k] = v[k]
				}
			}
		}
	}
	if !any {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	center := lo.Add(hi).Scale(0.5)
	span := hi[0] - lo[0]
	if s := hi[1] - lo[1]; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}
	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span

	fb := newFrameBuffer(renderSize, renderSize)
	lightDir := mathutil.Vec3{0.4, 0.6, 1}.Normalize()

	for _, m := range meshes {
		if len(m.Vertices) == 0 {
			continue
		}
		px := make([]float64, len(m.Vertices))
		py := make([]float64, len(m.Vertices))
		pz := make([]float64, len(m.Vertices))
		for i, v := range m.Vertices {
			px[i] = (v[0]-center[0])*scale + float64(renderSize)/2
			py[i] = float64(renderSize)/2 - (v[1]-center[1])*scale
			pz[i] = v[2]
		}
		color := m.Color
		if color[3] == 0 {
			color = defaultColor
		}
		for _, f := range m.Faces {
			rasterizeTriangle(fb, px, py, pz, f, color, lightDir)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.color)
	return img
}

func rasterizeTriangle(fb *frameBuffer, px, py, pz []float64, f [3]int, color [4]float64, lightDir mathutil.Vec3) {
	nv := len(px)
	for _, i := range f {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[f[0]], py[f[0]], pz[f[0]]
	x1, y1, z1 := px[f[1]], py[f[1]], pz[f[1]]
	x2, y2, z2 := px[f[2]], py[f[2]], pz[f[2]]

	// Face normal for flat shading
	e1 := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := 0.35 + 0.65*math.Abs(n.Normalize().Dot(lightDir))

	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.width {
		maxX = fb.width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.height {
		maxY = fb.height - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	r := uint8(clamp01(color[0]*shade)*255 + 0.5)
	g := uint8(clamp01(color[1]*shade)*255 + 0.5)
	b := uint8(clamp01(color[2]*shade)*255 + 0.5)
	a := uint8(clamp01(color[3])*255 + 0.5)

	for y := minY; y <= maxY; y++ {
		fy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			fx := float64(x) + 0.5
			w0 := ((y1-y2)*(fx-x2) + (x2-x1)*(fy-y2)) * invDet
			w1 := ((y2-y0)*(fx-x2) + (x0-x2)*(fy-y2)) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			idx := y*fb.width + x
			if z <= fb.zbuf[idx] {
				continue
			}
			fb.zbuf[idx] = z
			o := idx * 4
			fb.color[o] = r
			fb.color[o+1] = g
			fb.color[o+2] = b
			fb.color[o+3] = a
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// frameBuffer holds the rendering target as flat slices for cache locality.
type frameBuffer struct {
	width  int
	height int
	color  []uint8   // RGBA interleaved, len = W*H*4
	zbuf   []float64 // depth per pixel, initialized to -inf
}

func newFrameBuffer(w, h int) *frameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &frameBuffer{
		width:  w,
		height: h,
		color:  make([]uint8, n*4),
		zbuf:   zbuf,
	}
}
