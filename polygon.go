package main

import (
	"github.com/google/uuid"
)

// Point is a single vertex in image-pixel coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PolygonType distinguishes main spheroid outlines from holes/substructures
type PolygonType string

const (
	PolygonExternal PolygonType = "external"
	PolygonInternal PolygonType = "internal"
)

// Polygon represents an annotated spheroid region as a closed ring of vertices.
// The first point is not repeated at the end; the last vertex implicitly
// connects back to the first.
type Polygon struct {
	ID         string      `json:"id"`
	Points     []Point     `json:"points"`
	Confidence float64     `json:"confidence"`
	Color      string      `json:"color,omitempty"`
	Type       PolygonType `json:"type,omitempty"`
}

// BoundingBox is the axis-aligned bounding box of a point set
type BoundingBox struct {
	MinX   float64 `json:"minX"`
	MaxX   float64 `json:"maxX"`
	MinY   float64 `json:"minY"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewPolygon creates a polygon with a fresh unique id and a defensive copy
// of the vertex slice. Confidence defaults to 1.0.
func NewPolygon(points []Point, color string) *Polygon {
	copied := make([]Point, len(points))
	copy(copied, points)

	return &Polygon{
		ID:         uuid.NewString(),
		Points:     copied,
		Confidence: 1.0,
		Color:      color,
	}
}
