package mesh

import (
	"math"

	"figure-assembler/internal/mathutil"
)

// Pool is the flattened set of already-placed body vertices that
// connector vertices snap against. Read-only once assembly starts
// splitting connectors.
type Pool struct {
	points []mathutil.Vec3
}

// Add appends placed vertices to the pool.
func (p *Pool) Add(points []mathutil.Vec3) {
	p.points = append(p.points, points...)
}

// Len returns the number of points in the pool.
func (p *Pool) Len() int {
	return len(p.points)
}

// Nearest returns the pool point closest to q and its distance.
// The third result is false when the pool is empty.
func (p *Pool) Nearest(q mathutil.Vec3) (mathutil.Vec3, float64, bool) {
	if len(p.points) == 0 {
		return mathutil.Vec3{}, 0, false
	}
	best := p.points[0]
	bestSq := q.DistSq(best)
	for _, pt := range p.points[1:] {
		if d := q.DistSq(pt); d < bestSq {
			bestSq = d
			best = pt
		}
	}
	return best, math.Sqrt(bestSq), true
}

// BoundsDiagonal returns the length of the pool's axis-aligned
// bounding-box diagonal, the reference for scale-relative snapping.
func (p *Pool) BoundsDiagonal() float64 {
	if len(p.points) == 0 {
		return 0
	}
	lo := p.points[0]
	hi := p.points[0]
	for _, pt := range p.points[1:] {
		for k := 0; k < 3; k++ {
			if pt[k] < lo[k] {
				lo[k] = pt[k]
			}
			if pt[k] > hi[k] {
				hi[k] = pt[k]
			}
		}
	}
	return hi.Sub(lo).Len()
}
