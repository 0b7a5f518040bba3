package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ParseAnnotations converts a GeoJSON FeatureCollection into annotation
// polygons. Polygon features keep their id/color/confidence/class properties;
// each outer ring of a MultiPolygon becomes its own annotation with a fresh
// id. Inner rings (holes) are skipped - holes arrive as separate internal
// polygons in this tool.
func ParseAnnotations(data []byte) ([]*Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	var polygons []*Polygon
	for _, feature := range fc.Features {
		switch geom := feature.Geometry.(type) {
		case orb.Polygon:
			if len(geom) == 0 {
				continue
			}
			if p := polygonFromRing(geom[0], feature.Properties, true); p != nil {
				polygons = append(polygons, p)
			}

		case orb.MultiPolygon:
			for _, poly := range geom {
				if len(poly) == 0 {
					continue
				}
				if p := polygonFromRing(poly[0], feature.Properties, false); p != nil {
					polygons = append(polygons, p)
				}
			}
		}
	}

	ClassifyPolygonTypes(polygons)
	return polygons, nil
}

// polygonFromRing builds an annotation from a GeoJSON outer ring. The stored
// id property is only honored for single-polygon features (keepID) so that
// MultiPolygon parts never collide on the same id.
func polygonFromRing(ring orb.Ring, properties geojson.Properties, keepID bool) *Polygon {
	points := make([]Point, 0, len(ring))
	for _, coord := range ring {
		points = append(points, Point{X: coord[0], Y: coord[1]})
	}

	// GeoJSON rings repeat the first coordinate at the end
	if len(points) > 1 && pointsCoincide(points[0], points[len(points)-1]) {
		points = points[:len(points)-1]
	}

	if len(points) < 3 {
		return nil
	}

	polygon := NewPolygon(points, "")
	if keepID {
		if id, ok := properties["id"].(string); ok && id != "" {
			polygon.ID = id
		}
	}
	if color, ok := properties["color"].(string); ok {
		polygon.Color = color
	}
	if confidence, ok := properties["confidence"].(float64); ok {
		polygon.Confidence = confidence
	}
	if class, ok := properties["class"].(string); ok {
		polygon.Type = PolygonType(class)
	}

	return polygon
}

// MarshalAnnotations serializes annotations as a GeoJSON FeatureCollection
func MarshalAnnotations(polygons []*Polygon) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, polygon := range polygons {
		ring := make(orb.Ring, 0, len(polygon.Points)+1)
		for _, p := range polygon.Points {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		if len(ring) > 0 {
			ring = append(ring, ring[0]) // close the ring per GeoJSON
		}

		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["id"] = polygon.ID
		feature.Properties["confidence"] = polygon.Confidence
		if polygon.Color != "" {
			feature.Properties["color"] = polygon.Color
		}
		if polygon.Type != "" {
			feature.Properties["class"] = string(polygon.Type)
		}

		fc.Append(feature)
	}

	return json.MarshalIndent(fc, "", "  ")
}

// LoadAnnotations reads annotations from a GeoJSON file
func LoadAnnotations(filename string) ([]*Polygon, error) {
	log.Printf("📂 Loading annotations from %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	polygons, err := ParseAnnotations(data)
	if err != nil {
		return nil, err
	}

	log.Printf("   ✅ Loaded %d annotations\n", len(polygons))
	return polygons, nil
}

// SaveAnnotations writes annotations to a GeoJSON file
func SaveAnnotations(polygons []*Polygon, filename string) error {
	log.Printf("💾 Saving %d annotations to %s...\n", len(polygons), filename)

	data, err := MarshalAnnotations(polygons)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Annotations saved (%d bytes)\n", len(data))
	return nil
}
