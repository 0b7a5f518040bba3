package main

import (
	"sync"
)

// AnnotationStore holds the working set of spheroid annotations in memory,
// keyed by polygon id, with a spatial index for viewport culling. All methods
// are safe for concurrent use.
type AnnotationStore struct {
	mu       sync.RWMutex
	polygons map[string]*Polygon
	index    *SpatialIndex
}

// NewAnnotationStore creates an empty store
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		polygons: make(map[string]*Polygon),
		index:    NewSpatialIndex(),
	}
}

// Insert adds or replaces a polygon
func (s *AnnotationStore) Insert(polygon *Polygon) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polygons[polygon.ID] = polygon
	s.index.Insert(polygon)
}

// Get looks up a polygon by id
func (s *AnnotationStore) Get(id string) (*Polygon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polygon, ok := s.polygons[id]
	return polygon, ok
}

// Remove deletes a polygon. Reports whether it was present.
func (s *AnnotationStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polygons[id]; !ok {
		return false
	}

	delete(s.polygons, id)
	s.index.Remove(id)
	return true
}

// ReplaceWithChildren implements the slice lifecycle: the original polygon is
// removed and the two children are inserted in one atomic step. Reports false
// (and changes nothing) when the original is no longer present.
func (s *AnnotationStore) ReplaceWithChildren(id string, a, b *Polygon) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polygons[id]; !ok {
		return false
	}

	delete(s.polygons, id)
	s.index.Remove(id)

	s.polygons[a.ID] = a
	s.index.Insert(a)
	s.polygons[b.ID] = b
	s.index.Insert(b)
	return true
}

// QueryViewport returns the polygons overlapping the buffered viewport
func (s *AnnotationStore) QueryViewport(x, y, width, height, buffer float64) []*Polygon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.QueryViewport(x, y, width, height, buffer)
}

// All returns every stored polygon
func (s *AnnotationStore) All() []*Polygon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polygons := make([]*Polygon, 0, len(s.polygons))
	for _, p := range s.polygons {
		polygons = append(polygons, p)
	}
	return polygons
}

// Count returns the number of stored polygons
func (s *AnnotationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.polygons)
}

// ClassifyPolygonTypes marks every unclassified polygon fully contained
// within another as internal (a hole or substructure) and the rest as
// external outlines. Polygons that already carry a classification keep it.
// Uses a bounding-box test before the exact vertex containment check.
func ClassifyPolygonTypes(polygons []*Polygon) {
	bboxes := make([]BoundingBox, len(polygons))
	for i, p := range polygons {
		bboxes[i] = CalculateBoundingBox(p.Points)
	}

	for i, p := range polygons {
		if p.Type != "" {
			continue
		}
		p.Type = PolygonExternal
		for j, outer := range polygons {
			if i == j {
				continue
			}
			if !isBBoxContained(bboxes[i], bboxes[j]) {
				continue
			}
			if allVerticesInside(p.Points, outer.Points) {
				p.Type = PolygonInternal
				break
			}
		}
	}
}

// allVerticesInside checks if every vertex of the candidate lies inside the
// outer ring
func allVerticesInside(candidate, outer []Point) bool {
	if len(candidate) == 0 || len(outer) < 3 {
		return false
	}
	for _, vertex := range candidate {
		if !IsPointInPolygon(vertex, outer) {
			return false
		}
	}
	return true
}

// isBBoxContained checks if bounding box a is contained in bounding box b
func isBBoxContained(a, b BoundingBox) bool {
	return a.MinX >= b.MinX && a.MaxX <= b.MaxX &&
		a.MinY >= b.MinY && a.MaxY <= b.MaxY
}
