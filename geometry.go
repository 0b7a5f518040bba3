package main

import "math"

// Epsilons encode the precision of the coordinate space (pixel-scale
// microscopy images). Adjust when targeting a different coordinate scale.
const (
	// coincidenceEpsilon is the distance below which two points are the same point
	coincidenceEpsilon = 1e-10
	// parallelEpsilon bounds the determinant below which two lines are parallel
	parallelEpsilon = 1e-10
	// degenerateOffset is the minimum nudge applied to rescue collapsed rings
	degenerateOffset = 1e-6
	// minSliceLength is the shortest usable slice line, in image pixels
	minSliceLength = 1.0
)

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceToSegment calculates the distance from a point to the nearest point
// on the segment a-b (not the infinite line through them). A zero-length
// segment degrades to plain point distance.
func DistanceToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy

	if lengthSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment and clamp the parameter to [0,1]
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	closest := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// PolygonArea calculates the area of a polygon using the Shoelace formula.
// The result is orientation-independent; degenerate polygons have area 0.
func PolygonArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}

	return math.Abs(area) / 2
}

// PolygonPerimeter sums consecutive edge lengths, wrapping last to first
func PolygonPerimeter(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}

	perimeter := 0.0
	for i := 0; i < n; i++ {
		perimeter += points[i].Distance(points[(i+1)%n])
	}

	return perimeter
}

// IsPolygonClockwise reports the winding order via the signed-area sign.
// Degenerate polygons (<3 points) default to clockwise.
func IsPolygonClockwise(points []Point) bool {
	n := len(points)
	if n < 3 {
		return true
	}

	signedArea := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		signedArea += points[i].X*points[j].Y - points[j].X*points[i].Y
	}

	return signedArea < 0
}

// IsPointInPolygon checks if a point is inside a polygon using ray casting
// (even-odd rule)
func IsPointInPolygon(point Point, points []Point) bool {
	n := len(points)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		if (points[i].Y > point.Y) != (points[j].Y > point.Y) &&
			point.X < (points[j].X-points[i].X)*(point.Y-points[i].Y)/(points[j].Y-points[i].Y)+points[i].X {
			inside = !inside
		}
		j = i
	}

	return inside
}

// LineIntersection computes the intersection of two finite segments p1-p2 and
// p3-p4. Returns nil when the segments are parallel or the crossing falls
// outside either segment.
func LineIntersection(p1, p2, p3, p4 Point) *Point {
	d1x := p2.X - p1.X
	d1y := p2.Y - p1.Y
	d2x := p4.X - p3.X
	d2y := p4.Y - p3.Y

	denominator := d1x*d2y - d1y*d2x
	if math.Abs(denominator) < parallelEpsilon {
		return nil
	}

	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denominator
	u := ((p3.X-p1.X)*d1y - (p3.Y-p1.Y)*d1x) / denominator

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return nil
	}

	return &Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}
}

// LineRayIntersection is LineIntersection with p1-p2 treated as an infinite
// line while p3-p4 remains a bounded segment. Used as a fallback when a slice
// gesture starts or ends inside the polygon being cut.
func LineRayIntersection(p1, p2, p3, p4 Point) *Point {
	d1x := p2.X - p1.X
	d1y := p2.Y - p1.Y
	d2x := p4.X - p3.X
	d2y := p4.Y - p3.Y

	denominator := d1x*d2y - d1y*d2x
	if math.Abs(denominator) < parallelEpsilon {
		return nil
	}

	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denominator
	u := ((p3.X-p1.X)*d1y - (p3.Y-p1.Y)*d1x) / denominator

	// Only the edge parameter is bounded
	if u < 0 || u > 1 {
		return nil
	}

	return &Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}
}

// PointSideOfLine returns the signed cross product of the point against the
// directed line. Positive and negative indicate opposite sides, zero means
// colinear.
func PointSideOfLine(point, lineStart, lineEnd Point) float64 {
	return (lineEnd.X-lineStart.X)*(point.Y-lineStart.Y) -
		(lineEnd.Y-lineStart.Y)*(point.X-lineStart.X)
}

// ClosestVertex is the result of a nearest-vertex query
type ClosestVertex struct {
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
}

// FindClosestVertex scans for the vertex nearest to the given point.
// A maxDistance < 0 means unbounded; returns nil when no vertex qualifies.
func FindClosestVertex(point Point, points []Point, maxDistance float64) *ClosestVertex {
	best := -1
	bestDistance := math.MaxFloat64

	for i, vertex := range points {
		d := point.Distance(vertex)
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 {
		return nil
	}
	if maxDistance >= 0 && bestDistance > maxDistance {
		return nil
	}

	return &ClosestVertex{Index: best, Distance: bestDistance}
}

// ClosestSegment is the result of a nearest-edge query
type ClosestSegment struct {
	StartIndex     int     `json:"startIndex"`
	EndIndex       int     `json:"endIndex"`
	Distance       float64 `json:"distance"`
	ProjectedPoint Point   `json:"projectedPoint"`
}

// FindClosestSegment scans polygon edges (wrapping last to first) for the one
// nearest to the given point and returns the projection onto the winning edge.
// A maxDistance < 0 means unbounded; returns nil when no edge qualifies.
func FindClosestSegment(point Point, points []Point, maxDistance float64) *ClosestSegment {
	n := len(points)
	if n < 2 {
		return nil
	}

	best := -1
	bestDistance := math.MaxFloat64

	for i := 0; i < n; i++ {
		d := DistanceToSegment(point, points[i], points[(i+1)%n])
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 {
		return nil
	}
	if maxDistance >= 0 && bestDistance > maxDistance {
		return nil
	}

	return &ClosestSegment{
		StartIndex:     best,
		EndIndex:       (best + 1) % n,
		Distance:       bestDistance,
		ProjectedPoint: projectOntoSegment(point, points[best], points[(best+1)%n]),
	}
}

// projectOntoSegment returns the point on segment a-b closest to p
func projectOntoSegment(p, a, b Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy

	if lengthSq == 0 {
		return a
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	return Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// CalculateBoundingBox computes the axis-aligned bounding box of a point set.
// Empty input yields the zero box.
func CalculateBoundingBox(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	bbox := BoundingBox{
		MinX: points[0].X,
		MaxX: points[0].X,
		MinY: points[0].Y,
		MaxY: points[0].Y,
	}

	for _, p := range points[1:] {
		bbox.MinX = math.Min(bbox.MinX, p.X)
		bbox.MaxX = math.Max(bbox.MaxX, p.X)
		bbox.MinY = math.Min(bbox.MinY, p.Y)
		bbox.MaxY = math.Max(bbox.MaxY, p.Y)
	}

	bbox.Width = bbox.MaxX - bbox.MinX
	bbox.Height = bbox.MaxY - bbox.MinY
	return bbox
}

// pointsCoincide checks if two points are numerically the same vertex
func pointsCoincide(a, b Point) bool {
	return math.Abs(a.X-b.X) < coincidenceEpsilon && math.Abs(a.Y-b.Y) < coincidenceEpsilon
}
