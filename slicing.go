package main

import (
	"log"
	"math"
)

// logf is the warning sink for defensive guards. Swappable in tests.
var logf = log.Printf

// intersection is the working state of slicing: where the slice line crosses
// a polygon edge, which edge, and how far along the edge the crossing sits.
type intersection struct {
	point     Point
	edgeIndex int
	t         float64
}

// SlicePolygon cuts a polygon into two along the line sliceStart-sliceEnd.
//
// The slice line must cross the polygon boundary exactly twice. If the finite
// segment does not produce exactly two crossings, the line is extended to
// infinity and retried, which rescues gestures that start or end inside the
// polygon. Crossings that coincide at a shared vertex are merged.
//
// Returns two freshly-created polygons carrying the input's color and
// confidence, or (nil, nil) when the cut is not geometrically sound. The
// input polygon is never mutated; the caller is responsible for replacing it
// with the two children.
func SlicePolygon(polygon *Polygon, sliceStart, sliceEnd Point) (*Polygon, *Polygon) {
	if polygon == nil || len(polygon.Points) < 3 {
		return nil, nil
	}
	if sliceStart.Distance(sliceEnd) < minSliceLength {
		return nil, nil
	}

	intersections, _ := findSliceIntersections(polygon.Points, sliceStart, sliceEnd)
	if len(intersections) != 2 {
		return nil, nil
	}

	first, second := orderAlongSlice(intersections[0], intersections[1], sliceStart, sliceEnd)

	ringA, ringB, ok := splitRings(polygon, first, second)
	if !ok {
		return nil, nil
	}

	ringA = cleanPoints(ringA)
	ringB = cleanPoints(ringB)
	if len(ringA) < 3 || len(ringB) < 3 {
		return nil, nil
	}

	childA := NewPolygon(ringA, polygon.Color)
	childB := NewPolygon(ringB, polygon.Color)
	childA.Confidence = polygon.Confidence
	childB.Confidence = polygon.Confidence
	childA.Type = polygon.Type
	childB.Type = polygon.Type

	return childA, childB
}

// findSliceIntersections locates the crossings between the slice line and the
// polygon boundary. The finite-segment pass runs first; if it does not yield
// exactly two crossings the whole boundary is retested against the infinite
// extension of the slice line. The returned bool reports whether the extended
// line was used.
func findSliceIntersections(points []Point, sliceStart, sliceEnd Point) ([]intersection, bool) {
	intersections := normalizeIntersections(collectIntersections(points, sliceStart, sliceEnd, false))

	extended := false
	if len(intersections) != 2 {
		intersections = normalizeIntersections(collectIntersections(points, sliceStart, sliceEnd, true))
		extended = true
	}

	return intersections, extended
}

// normalizeIntersections reduces raw edge hits to distinct crossings. A line
// tangent to the boundary at a single vertex is reported by both edges sharing
// that vertex; a touch is not a cut, so coincident hits collapse to one
// crossing and the cut fails the two-crossing requirement.
func normalizeIntersections(hits []intersection) []intersection {
	if len(hits) > 2 {
		hits = dedupeIntersections(hits)
	}
	if len(hits) == 2 && pointsCoincide(hits[0].point, hits[1].point) {
		if hits[1].t < hits[0].t {
			hits[0] = hits[1]
		}
		hits = hits[:1]
	}
	return hits
}

// collectIntersections tests every polygon edge against the slice line,
// either as a finite segment or as an infinite line.
func collectIntersections(points []Point, sliceStart, sliceEnd Point, infinite bool) []intersection {
	n := len(points)
	var hits []intersection

	for i := 0; i < n; i++ {
		edgeStart := points[i]
		edgeEnd := points[(i+1)%n]

		var p *Point
		if infinite {
			p = LineRayIntersection(sliceStart, sliceEnd, edgeStart, edgeEnd)
		} else {
			p = LineIntersection(sliceStart, sliceEnd, edgeStart, edgeEnd)
		}
		if p == nil {
			continue
		}

		hits = append(hits, intersection{
			point:     *p,
			edgeIndex: i,
			t:         edgeParameter(*p, edgeStart, edgeEnd),
		})
	}

	return hits
}

// edgeParameter returns the position of p along edge a-b as a fraction in [0,1]
func edgeParameter(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	return math.Max(0, math.Min(1, t))
}

// dedupeIntersections merges crossings that coincide at the same point, which
// happens when the slice line passes exactly through a polygon vertex and both
// adjacent edges report a hit. The record nearer its edge's start vertex wins.
// The merged set only replaces the input when it still holds at least two
// genuinely distinct crossings.
func dedupeIntersections(intersections []intersection) []intersection {
	merged := make([]intersection, 0, len(intersections))

	for _, candidate := range intersections {
		duplicate := false
		for j, kept := range merged {
			if pointsCoincide(candidate.point, kept.point) {
				duplicate = true
				if candidate.t < kept.t {
					merged[j] = candidate
				}
				break
			}
		}
		if !duplicate {
			merged = append(merged, candidate)
		}
	}

	if len(merged) >= 2 && len(merged) < len(intersections) {
		return merged
	}
	return intersections
}

// orderAlongSlice sorts two crossings by their position along the slice line,
// measured from sliceStart. Ordering by gesture direction rather than edge
// index keeps the split deterministic no matter which edge is crossed first.
func orderAlongSlice(a, b intersection, sliceStart, sliceEnd Point) (intersection, intersection) {
	length := sliceStart.Distance(sliceEnd)
	if length == 0 {
		return a, b
	}

	dx := (sliceEnd.X - sliceStart.X) / length
	dy := (sliceEnd.Y - sliceStart.Y) / length

	posA := (a.point.X-sliceStart.X)*dx + (a.point.Y-sliceStart.Y)*dy
	posB := (b.point.X-sliceStart.X)*dx + (b.point.Y-sliceStart.Y)*dy

	if posA <= posB {
		return a, b
	}
	return b, a
}

// splitRings runs the partition walk in both directions around the ring. A
// walk exceeding its safety bound means the crossing metadata does not match
// the ring; the failure is logged and the cut refused.
func splitRings(polygon *Polygon, first, second intersection) ([]Point, []Point, bool) {
	ringA, okA := partitionRing(polygon.Points, first, second)
	ringB, okB := partitionRing(polygon.Points, second, first)
	if !okA || !okB {
		logf("⚠️  Slice partition walk exceeded safety bound on polygon %s (%d vertices) - input may be self-intersecting\n",
			polygon.ID, len(polygon.Points))
		return nil, nil, false
	}
	return ringA, ringB, true
}

// partitionRing walks the original ring from the edge carrying the `from`
// crossing to the edge carrying the `to` crossing, collecting the vertices in
// between. Original vertices that coincide with either crossing are skipped so
// the output carries no zero-length edges. The walk is bounded by the vertex
// count; exceeding it reports failure (malformed input).
func partitionRing(points []Point, from, to intersection) ([]Point, bool) {
	n := len(points)
	ring := []Point{from.point}

	idx := (from.edgeIndex + 1) % n
	for steps := 0; ; steps++ {
		if steps > n {
			return nil, false
		}

		vertex := points[idx]
		if !pointsCoincide(vertex, from.point) && !pointsCoincide(vertex, to.point) {
			ring = append(ring, vertex)
		}

		if idx == to.edgeIndex {
			break
		}
		idx = (idx + 1) % n
	}

	ring = append(ring, to.point)
	return ring, true
}

// cleanPoints removes consecutive near-duplicate vertices and a closing vertex
// that repeats the first. A ring that collapses to exactly two points is
// rescued by nudging a third point perpendicular to the remaining edge,
// keeping thin slivers usable instead of discarding them.
func cleanPoints(points []Point) []Point {
	if len(points) > 3 {
		cleaned := make([]Point, 0, len(points))
		for _, p := range points {
			if len(cleaned) > 0 && pointsCoincide(p, cleaned[len(cleaned)-1]) {
				continue
			}
			cleaned = append(cleaned, p)
		}
		if len(cleaned) > 1 && pointsCoincide(cleaned[0], cleaned[len(cleaned)-1]) {
			cleaned = cleaned[:len(cleaned)-1]
		}
		points = cleaned
	}

	if len(points) == 2 {
		a, b := points[0], points[1]
		length := a.Distance(b)
		offset := math.Max(degenerateOffset, length*degenerateOffset)

		dx := b.X - a.X
		dy := b.Y - a.Y
		if length > 0 {
			dx /= length
			dy /= length
		}

		third := Point{
			X: (a.X+b.X)/2 - dy*offset,
			Y: (a.Y+b.Y)/2 + dx*offset,
		}
		points = []Point{a, b, third}
	}

	return points
}
