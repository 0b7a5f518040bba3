package main

import "math"

// SliceValidation is the result of a pre-flight slice check. Reason is only
// set when the cut is invalid and is meant to be translated into user-facing
// feedback by the editor.
type SliceValidation struct {
	IsValid                bool   `json:"isValid"`
	Reason                 string `json:"reason,omitempty"`
	IntersectionCount      int    `json:"intersectionCount"`
	ExtendedToInfiniteLine bool   `json:"extendedToInfiniteLine,omitempty"`
}

// SliceLine is a candidate cut through a polygon
type SliceLine struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// minHintDistance filters out near-zero-length slice suggestions, in pixels
const minHintDistance = 10.0

// maxBalancedSliceSamples caps the perimeter sampling of FindBalancedSlice.
// The exhaustive pair search is quadratic in sample count, so large polygons
// are coarsened to stay interactive. Overridable through the config file.
var maxBalancedSliceSamples = 400

// ValidateSliceLine runs the same two-pass intersection counting as
// SlicePolygon without building the output polygons, giving the UI immediate
// feedback while the user is still dragging. A validation that comes back
// IsValid is guaranteed to slice successfully when committed.
func ValidateSliceLine(polygon *Polygon, sliceStart, sliceEnd Point) SliceValidation {
	if polygon == nil || len(polygon.Points) < 3 {
		return SliceValidation{
			Reason: "polygon has fewer than 3 vertices",
		}
	}
	if sliceStart.Distance(sliceEnd) < minSliceLength {
		return SliceValidation{
			Reason: "slice line is too short",
		}
	}

	intersections, extended := findSliceIntersections(polygon.Points, sliceStart, sliceEnd)
	count := len(intersections)

	switch {
	case count == 2:
		return SliceValidation{
			IsValid:                true,
			IntersectionCount:      count,
			ExtendedToInfiniteLine: extended,
		}
	case count == 0:
		return SliceValidation{
			Reason:            "slice line does not cross the polygon",
			IntersectionCount: count,
		}
	case count == 1:
		return SliceValidation{
			Reason:            "only one boundary crossing - extend the line fully across the polygon",
			IntersectionCount: count,
		}
	default:
		return SliceValidation{
			Reason:            "too many boundary crossings - simplify the cut",
			IntersectionCount: count,
		}
	}
}

// FindSliceHints proposes polygon vertices that would form a valid slice from
// the given start point. Vertices closer than minHintDistance are skipped and
// every surviving candidate is verified with ValidateSliceLine.
func FindSliceHints(polygon *Polygon, startPoint Point) []Point {
	if polygon == nil || len(polygon.Points) < 3 {
		return nil
	}

	var hints []Point
	for _, vertex := range polygon.Points {
		if startPoint.Distance(vertex) < minHintDistance {
			continue
		}
		if ValidateSliceLine(polygon, startPoint, vertex).IsValid {
			hints = append(hints, vertex)
		}
	}

	return hints
}

// FindBalancedSlice searches for the cut that splits the polygon into two
// halves of most nearly equal area. The perimeter is sampled at every vertex
// plus four interpolated points per edge, then every sample pair at least
// `precision` samples apart is sliced for real and the pair with the smallest
// area difference wins.
//
// The search is quadratic in sample count and intended for interactive,
// on-demand use only; sampling is coarsened beyond maxBalancedSliceSamples.
func FindBalancedSlice(polygon *Polygon, precision int) *SliceLine {
	if polygon == nil || len(polygon.Points) < 3 {
		return nil
	}
	if precision <= 0 {
		precision = 3
	}

	samples := samplePerimeter(polygon.Points)

	// Coarsen instead of refusing when the polygon is large
	if len(samples) > maxBalancedSliceSamples {
		stride := (len(samples) + maxBalancedSliceSamples - 1) / maxBalancedSliceSamples
		coarse := make([]Point, 0, maxBalancedSliceSamples)
		for i := 0; i < len(samples); i += stride {
			coarse = append(coarse, samples[i])
		}
		samples = coarse
	}

	var best *SliceLine
	bestDiff := math.MaxFloat64

	for i := 0; i < len(samples); i++ {
		for j := i + precision; j < len(samples); j++ {
			a, b := SlicePolygon(polygon, samples[i], samples[j])
			if a == nil || b == nil {
				continue
			}

			diff := math.Abs(PolygonArea(a.Points) - PolygonArea(b.Points))
			if diff < bestDiff {
				bestDiff = diff
				best = &SliceLine{Start: samples[i], End: samples[j]}
			}
		}
	}

	return best
}

// samplePerimeter returns every vertex plus four interpolated points per edge
// at 20% steps
func samplePerimeter(points []Point) []Point {
	n := len(points)
	samples := make([]Point, 0, n*5)

	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]

		samples = append(samples, a)
		for step := 1; step <= 4; step++ {
			t := float64(step) * 0.2
			samples = append(samples, Point{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
			})
		}
	}

	return samples
}
