package main

import (
	"path/filepath"
	"testing"
)

const sampleFeatureCollection = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[100,0],[100,100],[0,100],[0,0]]]
			},
			"properties": {"id": "spheroid-1", "color": "#ff0000", "confidence": 0.9}
		},
		{
			"type": "Feature",
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[200,200],[240,200],[240,240],[200,240],[200,200]]],
					[[[300,300],[340,300],[340,340],[300,340],[300,300]]]
				]
			},
			"properties": {"color": "#00ff00"}
		}
	]
}`

func TestParseAnnotations(t *testing.T) {
	polygons, err := ParseAnnotations([]byte(sampleFeatureCollection))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(polygons) != 3 {
		t.Fatalf("expected 3 polygons (1 + 2 multipolygon parts), got %d", len(polygons))
	}

	first := polygons[0]
	if first.ID != "spheroid-1" {
		t.Fatalf("expected stored id preserved, got %s", first.ID)
	}
	if first.Color != "#ff0000" || first.Confidence != 0.9 {
		t.Fatalf("properties lost: %+v", first)
	}

	// GeoJSON's duplicate closing coordinate must be dropped
	if len(first.Points) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(first.Points))
	}
	if !almostEqual(PolygonArea(first.Points), 10000, 1e-9) {
		t.Fatalf("unexpected area %v", PolygonArea(first.Points))
	}

	// MultiPolygon parts get fresh, distinct ids
	if polygons[1].ID == "" || polygons[1].ID == polygons[2].ID {
		t.Fatalf("multipolygon parts must have distinct generated ids")
	}
}

func TestParseAnnotationsInvalid(t *testing.T) {
	if _, err := ParseAnnotations([]byte(`{"not": "geojson"`)); err == nil {
		t.Fatal("expected an error for malformed input")
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	outer := NewPolygon(square, "#ff00ff")
	outer.Confidence = 0.75
	hole := NewPolygon([]Point{{40, 40}, {60, 40}, {60, 60}, {40, 60}}, "")
	originals := []*Polygon{outer, hole}
	ClassifyPolygonTypes(originals)

	data, err := MarshalAnnotations(originals)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored, err := ParseAnnotations(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(restored) != len(originals) {
		t.Fatalf("expected %d polygons, got %d", len(originals), len(restored))
	}

	byID := make(map[string]*Polygon)
	for _, p := range restored {
		byID[p.ID] = p
	}

	for _, original := range originals {
		got, ok := byID[original.ID]
		if !ok {
			t.Fatalf("polygon %s lost in round trip", original.ID)
		}
		if len(got.Points) != len(original.Points) {
			t.Fatalf("vertex count changed: %d -> %d", len(original.Points), len(got.Points))
		}
		for i := range got.Points {
			if !pointsCoincide(got.Points[i], original.Points[i]) {
				t.Fatalf("vertex %d moved: %+v -> %+v", i, original.Points[i], got.Points[i])
			}
		}
		if got.Color != original.Color || got.Confidence != original.Confidence {
			t.Fatalf("attributes changed: %+v -> %+v", original, got)
		}
		if got.Type != original.Type {
			t.Fatalf("classification changed: %s -> %s", original.Type, got.Type)
		}
	}
}

func TestSaveAndLoadAnnotations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.geojson")

	originals := []*Polygon{squarePolygon()}
	if err := SaveAnnotations(originals, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored, err := LoadAnnotations(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(restored) != 1 || restored[0].ID != originals[0].ID {
		t.Fatalf("round trip through file failed: %+v", restored)
	}
}

func TestLoadAnnotationsMissingFile(t *testing.T) {
	if _, err := LoadAnnotations(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
