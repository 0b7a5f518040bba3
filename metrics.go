package main

import (
	"math"
	"sort"
)

// PolygonMetrics holds the morphometric characteristics of a spheroid outline.
// All values are zero-safe: degenerate input yields zeros, never NaN.
type PolygonMetrics struct {
	Area               float64 `json:"area"`
	Perimeter          float64 `json:"perimeter"`
	EquivalentDiameter float64 `json:"equivalentDiameter"`
	Circularity        float64 `json:"circularity"`
	Compactness        float64 `json:"compactness"`
	Convexity          float64 `json:"convexity"`
	Solidity           float64 `json:"solidity"`
	Sphericity         float64 `json:"sphericity"`
	Extent             float64 `json:"extent"`
	BoundingBoxWidth   float64 `json:"boundingBoxWidth"`
	BoundingBoxHeight  float64 `json:"boundingBoxHeight"`
	FeretDiameterMax   float64 `json:"feretDiameterMax"`
	FeretDiameterMin   float64 `json:"feretDiameterMin"`
	FeretAspectRatio   float64 `json:"feretAspectRatio"`
}

// CalculateAllMetrics computes every morphometric characteristic of a polygon
// in one pass. Hole polygons are the caller's concern: subtract their area
// from the external outline before reporting, if holes are present.
func CalculateAllMetrics(points []Point) PolygonMetrics {
	area := PolygonArea(points)
	perimeter := PolygonPerimeter(points)
	bbox := CalculateBoundingBox(points)

	hull := ConvexHull(points)
	hullArea := PolygonArea(hull)
	hullPerimeter := PolygonPerimeter(hull)

	feretMax, feretMin, feretAspect := FeretProperties(points)

	m := PolygonMetrics{
		Area:              area,
		Perimeter:         perimeter,
		BoundingBoxWidth:  bbox.Width,
		BoundingBoxHeight: bbox.Height,
		FeretDiameterMax:  feretMax,
		FeretDiameterMin:  feretMin,
		FeretAspectRatio:  feretAspect,
	}

	m.EquivalentDiameter = math.Sqrt(4 * area / math.Pi)

	if perimeter > 0 {
		m.Circularity = (4 * math.Pi * area) / (perimeter * perimeter)
		m.Sphericity = math.Pi * math.Sqrt(4*area/math.Pi) / perimeter
		m.Convexity = hullPerimeter / perimeter
	}
	if area > 0 {
		m.Compactness = (perimeter * perimeter) / (4 * math.Pi * area)
	}
	if hullArea > 0 {
		m.Solidity = area / hullArea
	}
	if bboxArea := bbox.Width * bbox.Height; bboxArea > 0 {
		m.Extent = area / bboxArea
	}

	return m
}

// ConvexHull computes the convex hull of a point set using a Graham scan.
// The input is not modified. Fewer than 3 points are returned as-is.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		copied := make([]Point, len(points))
		copy(copied, points)
		return copied
	}

	work := make([]Point, len(points))
	copy(work, points)

	// Pivot: lowest Y, then lowest X
	pivotIdx := 0
	for i := 1; i < len(work); i++ {
		if work[i].Y < work[pivotIdx].Y ||
			(work[i].Y == work[pivotIdx].Y && work[i].X < work[pivotIdx].X) {
			pivotIdx = i
		}
	}
	work[0], work[pivotIdx] = work[pivotIdx], work[0]
	pivot := work[0]

	rest := work[1:]
	sort.Slice(rest, func(i, j int) bool {
		ai := math.Atan2(rest[i].Y-pivot.Y, rest[i].X-pivot.X)
		aj := math.Atan2(rest[j].Y-pivot.Y, rest[j].X-pivot.X)
		if ai != aj {
			return ai < aj
		}
		return pivot.Distance(rest[i]) < pivot.Distance(rest[j])
	})

	hull := []Point{pivot, rest[0]}
	for i := 1; i < len(rest); i++ {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], rest[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, rest[i])
	}

	return hull
}

// crossProduct calculates the cross product of vectors (b-a) and (c-a)
func crossProduct(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// FeretProperties returns the maximum and minimum Feret diameters and their
// ratio, taken from the minimum-area bounding rectangle of the point set
// (rotating calipers over the convex hull).
func FeretProperties(points []Point) (feretMax, feretMin, aspectRatio float64) {
	if len(points) < 2 {
		return 0, 0, 0
	}

	width, height := minAreaRect(points)
	feretMax = math.Max(width, height)
	feretMin = math.Min(width, height)
	if feretMin > 0 {
		aspectRatio = feretMax / feretMin
	}
	return feretMax, feretMin, aspectRatio
}

// minAreaRect finds the dimensions of the smallest-area rectangle enclosing
// the point set. The minimal rectangle shares an orientation with some hull
// edge, so only hull-edge directions need testing.
func minAreaRect(points []Point) (width, height float64) {
	hull := ConvexHull(points)
	n := len(hull)

	if n < 2 {
		return 0, 0
	}
	if n == 2 {
		return hull[0].Distance(hull[1]), 0
	}

	bestArea := math.MaxFloat64
	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]

		length := a.Distance(b)
		if length == 0 {
			continue
		}
		dx := (b.X - a.X) / length
		dy := (b.Y - a.Y) / length

		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, p := range hull {
			u := (p.X-a.X)*dx + (p.Y-a.Y)*dy
			v := -(p.X-a.X)*dy + (p.Y-a.Y)*dx
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w := maxU - minU
		h := maxV - minV
		if w*h < bestArea {
			bestArea = w * h
			width, height = w, h
		}
	}

	return width, height
}
