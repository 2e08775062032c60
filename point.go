package main

import "math"

// point represents a 2D position or displacement in pixel space.
type point struct {
	x, y float64
}

// pt is a convenience constructor.
func pt(x, y float64) point {
	return point{x: x, y: y}
}

// add returns the vector sum of two points.
func (p point) add(q point) point {
	return point{x: p.x + q.x, y: p.y + q.y}
}

// sub returns the vector difference of two points.
func (p point) sub(q point) point {
	return point{x: p.x - q.x, y: p.y - q.y}
}

// mul returns the point scaled by a scalar.
func (p point) mul(s float64) point {
	return point{x: p.x * s, y: p.y * s}
}

// dot returns the dot product of two vectors.
func (p point) dot(q point) float64 {
	return p.x*q.x + p.y*q.y
}

// cross returns the scalar 2D cross product.
func (p point) cross(q point) float64 {
	return p.x*q.y - p.y*q.x
}

// length returns the Euclidean magnitude of the vector.
func (p point) length() float64 {
	return math.Hypot(p.x, p.y)
}

// distance returns the Euclidean distance between two points.
func (p point) distance(q point) float64 {
	return p.sub(q).length()
}

// isFinite reports whether both coordinates are finite numbers.
func (p point) isFinite() bool {
	return !math.IsNaN(p.x) && !math.IsInf(p.x, 0) &&
		!math.IsNaN(p.y) && !math.IsInf(p.y, 0)
}
