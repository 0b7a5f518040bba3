package main

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// annotationEntry wraps a polygon for R-tree storage
type annotationEntry struct {
	polygon *Polygon
	bbox    rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *annotationEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers viewport queries over annotation bounding boxes.
// Not safe for concurrent use on its own; AnnotationStore provides locking.
type SpatialIndex struct {
	tree    *rtreego.Rtree
	entries map[string]*annotationEntry
}

// NewSpatialIndex creates an empty index
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[string]*annotationEntry),
	}
}

// Insert adds a polygon to the index, replacing any previous entry with the
// same id
func (si *SpatialIndex) Insert(polygon *Polygon) {
	si.Remove(polygon.ID)

	rect, err := boundsToRect(CalculateBoundingBox(polygon.Points))
	if err != nil {
		return
	}

	entry := &annotationEntry{polygon: polygon, bbox: rect}
	si.tree.Insert(entry)
	si.entries[polygon.ID] = entry
}

// Remove drops a polygon from the index. Reports whether it was present.
func (si *SpatialIndex) Remove(id string) bool {
	entry, ok := si.entries[id]
	if !ok {
		return false
	}

	si.tree.Delete(entry)
	delete(si.entries, id)
	return true
}

// QueryViewport returns the polygons whose bounding boxes overlap the
// viewport expanded by the buffer margin
func (si *SpatialIndex) QueryViewport(x, y, width, height, buffer float64) []*Polygon {
	marginX := width * buffer
	marginY := height * buffer

	rect, err := rtreego.NewRect(
		rtreego.Point{x - marginX, y - marginY},
		[]float64{math.Max(width+2*marginX, minRectExtent), math.Max(height+2*marginY, minRectExtent)},
	)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(rect)
	polygons := make([]*Polygon, 0, len(results))
	for _, item := range results {
		polygons = append(polygons, item.(*annotationEntry).polygon)
	}

	return polygons
}

// minRectExtent keeps degenerate (zero width or height) boxes indexable,
// since the R-tree rejects non-positive extents
const minRectExtent = 1e-9

// boundsToRect converts a bounding box to an R-tree rectangle
func boundsToRect(bbox BoundingBox) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{bbox.MinX, bbox.MinY},
		[]float64{math.Max(bbox.Width, minRectExtent), math.Max(bbox.Height, minRectExtent)},
	)
}
