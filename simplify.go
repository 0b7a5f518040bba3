package main

import "math"

// SimplifyPolygon reduces vertex count using the Douglas-Peucker algorithm.
// The ring is treated as an open sequence; if simplification leaves the last
// point coincident with the first, the duplicate closing point is dropped.
// The result never has more points than the input.
func SimplifyPolygon(points []Point, tolerance float64) []Point {
	if len(points) < 3 {
		copied := make([]Point, len(points))
		copy(copied, points)
		return copied
	}

	simplified := douglasPeucker(points, tolerance)

	if len(simplified) > 3 && pointsCoincide(simplified[0], simplified[len(simplified)-1]) {
		simplified = simplified[:len(simplified)-1]
	}

	return simplified
}

// douglasPeucker recursively simplifies a point sequence: find the point
// farthest from the chord between the endpoints, and either recurse on both
// halves or collapse the whole span to its endpoints.
func douglasPeucker(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return points
	}

	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > tolerance {
		left := douglasPeucker(points[0:index+1], tolerance)
		right := douglasPeucker(points[index:], tolerance)

		// Combine, dropping the duplicate shared point at index
		result := make([]Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []Point{points[0], points[end]}
}

// perpendicularDistance calculates perpendicular distance from point to the
// infinite line through lineStart and lineEnd
func perpendicularDistance(point, lineStart, lineEnd Point) float64 {
	dx := lineEnd.X - lineStart.X
	dy := lineEnd.Y - lineStart.Y

	mag := math.Sqrt(dx*dx + dy*dy)
	if mag > 0 {
		dx /= mag
		dy /= mag
	}

	pvx := point.X - lineStart.X
	pvy := point.Y - lineStart.Y

	pvdot := dx*pvx + dy*pvy

	ax := pvx - pvdot*dx
	ay := pvy - pvdot*dy

	return math.Sqrt(ax*ax + ay*ay)
}

// simplifyMinPointCount is the vertex count below which simplification is
// never worth the visual risk
const simplifyMinPointCount = 20

// GetSimplificationTolerance picks a Douglas-Peucker tolerance for rendering
// a polygon at the given zoom level. The base tolerance is 1% of the smaller
// bounding-box dimension, scaled up aggressively when zoomed out and down to
// zero (no simplification) when zoomed in past 4x.
func GetSimplificationTolerance(zoom float64, bbox BoundingBox, pointCount int) float64 {
	if pointCount < simplifyMinPointCount {
		return 0
	}

	base := 0.01 * math.Min(bbox.Width, bbox.Height)

	var multiplier float64
	switch {
	case zoom < 0.5:
		multiplier = 8
	case zoom < 1.0:
		multiplier = 4
	case zoom < 2.0:
		multiplier = 2
	case zoom < 4.0:
		multiplier = 0.5
	default:
		multiplier = 0
	}

	return base * multiplier
}

// GetVertexDecimationStep decides how many vertices to skip between rendered
// handle markers: denser polygons and lower zooms get larger steps.
func GetVertexDecimationStep(zoom float64, pointCount int) int {
	step := 1
	switch {
	case zoom < 0.5:
		step = 8
	case zoom < 1.0:
		step = 4
	case zoom < 2.0:
		step = 2
	}

	if pointCount > 500 {
		step *= 4
	} else if pointCount > 200 {
		step *= 2
	}

	return step
}

// GetDecimatedVertices returns every step-th vertex, always preserving the
// first and last of the sequence
func GetDecimatedVertices(points []Point, step int) []Point {
	if step <= 1 || len(points) <= 2 {
		copied := make([]Point, len(points))
		copy(copied, points)
		return copied
	}

	decimated := make([]Point, 0, len(points)/step+2)
	for i := 0; i < len(points); i += step {
		decimated = append(decimated, points[i])
	}

	last := points[len(points)-1]
	if !pointsCoincide(decimated[len(decimated)-1], last) {
		decimated = append(decimated, last)
	}

	return decimated
}

// IsInViewport reports whether a bounding box overlaps the viewport expanded
// by a buffer margin (a fraction of the viewport size, conventionally 0.2).
// Used to cull off-screen polygons before simplification and rendering.
func IsInViewport(bbox BoundingBox, viewportX, viewportY, viewportWidth, viewportHeight, buffer float64) bool {
	marginX := viewportWidth * buffer
	marginY := viewportHeight * buffer

	return bbox.MaxX >= viewportX-marginX &&
		bbox.MinX <= viewportX+viewportWidth+marginX &&
		bbox.MaxY >= viewportY-marginY &&
		bbox.MinY <= viewportY+viewportHeight+marginY
}
