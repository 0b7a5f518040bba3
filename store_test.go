package main

import (
	"testing"
)

func TestAnnotationStoreLifecycle(t *testing.T) {
	store := NewAnnotationStore()

	polygon := squarePolygon()
	store.Insert(polygon)

	if store.Count() != 1 {
		t.Fatalf("expected 1 annotation, got %d", store.Count())
	}

	got, ok := store.Get(polygon.ID)
	if !ok || got.ID != polygon.ID {
		t.Fatalf("lookup failed: %v %v", got, ok)
	}

	if !store.Remove(polygon.ID) {
		t.Fatal("expected removal to succeed")
	}
	if store.Remove(polygon.ID) {
		t.Fatal("double removal must report false")
	}
	if store.Count() != 0 {
		t.Fatalf("expected empty store, got %d", store.Count())
	}
}

func TestAnnotationStoreReplaceWithChildren(t *testing.T) {
	store := NewAnnotationStore()
	polygon := squarePolygon()
	store.Insert(polygon)

	a, b := SlicePolygon(polygon, Point{50, -10}, Point{50, 110})
	if a == nil || b == nil {
		t.Fatal("slice failed")
	}

	if !store.ReplaceWithChildren(polygon.ID, a, b) {
		t.Fatal("expected replacement to succeed")
	}

	if _, ok := store.Get(polygon.ID); ok {
		t.Fatal("original must be destroyed by the slice lifecycle")
	}
	if _, ok := store.Get(a.ID); !ok {
		t.Fatal("first child missing")
	}
	if _, ok := store.Get(b.ID); !ok {
		t.Fatal("second child missing")
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 annotations, got %d", store.Count())
	}

	// Replacing a polygon that is already gone must change nothing
	if store.ReplaceWithChildren(polygon.ID, a, b) {
		t.Fatal("expected replacement of a missing id to fail")
	}
}

func TestAnnotationStoreViewportQuery(t *testing.T) {
	store := NewAnnotationStore()

	near := NewPolygon([]Point{{10, 10}, {40, 10}, {40, 40}, {10, 40}}, "")
	far := NewPolygon([]Point{{1000, 1000}, {1040, 1000}, {1040, 1040}, {1000, 1040}}, "")
	store.Insert(near)
	store.Insert(far)

	visible := store.QueryViewport(0, 0, 100, 100, 0.2)
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible annotation, got %d", len(visible))
	}
	if visible[0].ID != near.ID {
		t.Fatalf("expected %s, got %s", near.ID, visible[0].ID)
	}

	// The far polygon appears once the viewport moves
	visible = store.QueryViewport(950, 950, 200, 200, 0.2)
	if len(visible) != 1 || visible[0].ID != far.ID {
		t.Fatalf("expected only the far annotation, got %d", len(visible))
	}
}

func TestSpatialIndexReinsertReplaces(t *testing.T) {
	index := NewSpatialIndex()

	polygon := squarePolygon()
	index.Insert(polygon)
	index.Insert(polygon) // same id again

	results := index.QueryViewport(-10, -10, 200, 200, 0)
	if len(results) != 1 {
		t.Fatalf("reinsertion must replace, got %d entries", len(results))
	}
}

func TestClassifyPolygonTypes(t *testing.T) {
	outer := NewPolygon(square, "")
	hole := NewPolygon([]Point{{40, 40}, {60, 40}, {60, 60}, {40, 60}}, "")
	separate := NewPolygon([]Point{{200, 200}, {240, 200}, {240, 240}, {200, 240}}, "")

	polygons := []*Polygon{outer, hole, separate}
	ClassifyPolygonTypes(polygons)

	if outer.Type != PolygonExternal {
		t.Fatalf("outer should be external, got %s", outer.Type)
	}
	if hole.Type != PolygonInternal {
		t.Fatalf("nested polygon should be internal, got %s", hole.Type)
	}
	if separate.Type != PolygonExternal {
		t.Fatalf("disjoint polygon should be external, got %s", separate.Type)
	}
}
