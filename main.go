package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"strconv"
)

var (
	globalStore  = NewAnnotationStore()
	globalConfig = DefaultConfig()
)

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// SliceRequest targets either a stored annotation by id or an inline polygon
type SliceRequest struct {
	ID         string   `json:"id,omitempty"`
	Polygon    *Polygon `json:"polygon,omitempty"`
	SliceStart Point    `json:"sliceStart"`
	SliceEnd   Point    `json:"sliceEnd"`
}

// SliceResponse carries the two children of a successful cut
type SliceResponse struct {
	Success  bool       `json:"success"`
	Polygons []*Polygon `json:"polygons,omitempty"`
	Message  string     `json:"message,omitempty"`
}

var errNoPolygon = errors.New("request must carry a polygon id or an inline polygon")

// resolvePolygon picks the slice target from the request: a stored annotation
// when an id is given, the inline polygon otherwise
func resolvePolygon(id string, inline *Polygon) (*Polygon, error) {
	if id != "" {
		polygon, ok := globalStore.Get(id)
		if !ok {
			return nil, errors.New("no annotation with id " + id)
		}
		return polygon, nil
	}
	if inline != nil {
		return inline, nil
	}
	return nil, errNoPolygon
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// POST /slice - Cut an annotation in two along a slice line
func sliceHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("✂️  Slice request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SliceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygon, err := resolvePolygon(req.ID, req.Polygon)
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("   Polygon: %s (%d vertices)\n", polygon.ID, len(polygon.Points))
	log.Printf("   Line: (%.2f, %.2f) -> (%.2f, %.2f)\n",
		req.SliceStart.X, req.SliceStart.Y, req.SliceEnd.X, req.SliceEnd.Y)

	childA, childB := SlicePolygon(polygon, req.SliceStart, req.SliceEnd)
	if childA == nil || childB == nil {
		validation := ValidateSliceLine(polygon, req.SliceStart, req.SliceEnd)
		log.Printf("❌ Slice rejected: %s\n", validation.Reason)
		writeJSON(w, SliceResponse{Success: false, Message: validation.Reason})
		return
	}

	// Slicing a stored annotation destroys the original and replaces it
	// with the two children
	if req.ID != "" {
		globalStore.ReplaceWithChildren(req.ID, childA, childB)
		log.Printf("   🔄 Annotation %s replaced by %s and %s\n", req.ID, childA.ID, childB.ID)
	}

	log.Printf("✅ Slice produced %d + %d vertices (areas %.1f / %.1f)\n",
		len(childA.Points), len(childB.Points),
		PolygonArea(childA.Points), PolygonArea(childB.Points))

	writeJSON(w, SliceResponse{Success: true, Polygons: []*Polygon{childA, childB}})
}

// POST /validateSlice - Pre-flight check of a candidate slice line
func validateSliceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SliceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygon, err := resolvePolygon(req.ID, req.Polygon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, ValidateSliceLine(polygon, req.SliceStart, req.SliceEnd))
}

// POST /sliceHints - Suggest slice end points from a given start point
func sliceHintsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID         string   `json:"id,omitempty"`
		Polygon    *Polygon `json:"polygon,omitempty"`
		StartPoint Point    `json:"startPoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygon, err := resolvePolygon(req.ID, req.Polygon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hints := FindSliceHints(polygon, req.StartPoint)
	writeJSON(w, map[string]interface{}{
		"hints": hints,
		"count": len(hints),
	})
}

// POST /balancedSlice - Search for the cut splitting the area most evenly
func balancedSliceHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("⚖️  Balanced slice request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID        string   `json:"id,omitempty"`
		Polygon   *Polygon `json:"polygon,omitempty"`
		Precision int      `json:"precision,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygon, err := resolvePolygon(req.ID, req.Polygon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	precision := req.Precision
	if precision <= 0 {
		precision = globalConfig.DefaultSlicePrecision
	}

	log.Printf("   Polygon: %d vertices, precision %d\n", len(polygon.Points), precision)

	line := FindBalancedSlice(polygon, precision)
	if line == nil {
		log.Println("❌ No balanced slice found")
		writeJSON(w, map[string]interface{}{
			"success": false,
			"message": "no valid slice line found",
		})
		return
	}

	log.Printf("✅ Balanced slice: (%.2f, %.2f) -> (%.2f, %.2f)\n",
		line.Start.X, line.Start.Y, line.End.X, line.End.Y)

	writeJSON(w, map[string]interface{}{
		"success": true,
		"line":    line,
	})
}

// POST /simplify - Reduce polygon vertices for rendering at a zoom level
func simplifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Points    []Point `json:"points"`
		Tolerance float64 `json:"tolerance,omitempty"`
		Zoom      float64 `json:"zoom,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tolerance := req.Tolerance
	if tolerance == 0 && req.Zoom > 0 {
		bbox := CalculateBoundingBox(req.Points)
		tolerance = GetSimplificationTolerance(req.Zoom, bbox, len(req.Points))
	}

	simplified := SimplifyPolygon(req.Points, tolerance)
	writeJSON(w, map[string]interface{}{
		"points":          simplified,
		"originalCount":   len(req.Points),
		"simplifiedCount": len(simplified),
		"tolerance":       tolerance,
	})
}

// POST /metrics - Morphometric characteristics of an annotation
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID      string   `json:"id,omitempty"`
		Polygon *Polygon `json:"polygon,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygon, err := resolvePolygon(req.ID, req.Polygon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, CalculateAllMetrics(polygon.Points))
}

// POST /importAnnotations - Replace or extend the working set from GeoJSON
func importAnnotationsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📥 Import annotations request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	polygons, err := ParseAnnotations(body)
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, polygon := range polygons {
		globalStore.Insert(polygon)
	}

	log.Printf("✅ Imported %d annotations (store now holds %d)\n",
		len(polygons), globalStore.Count())

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"imported": len(polygons),
		"total":    globalStore.Count(),
	})
}

// GET /exportAnnotations - Dump the working set as GeoJSON
func exportAnnotationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := MarshalAnnotations(globalStore.All())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /annotations - List annotations, optionally culled to a viewport
func annotationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	var polygons []*Polygon

	if query.Has("x") && query.Has("y") && query.Has("width") && query.Has("height") {
		x, _ := strconv.ParseFloat(query.Get("x"), 64)
		y, _ := strconv.ParseFloat(query.Get("y"), 64)
		width, _ := strconv.ParseFloat(query.Get("width"), 64)
		height, _ := strconv.ParseFloat(query.Get("height"), 64)

		polygons = globalStore.QueryViewport(x, y, width, height, globalConfig.ViewportBuffer)
	} else {
		polygons = globalStore.All()
	}

	writeJSON(w, map[string]interface{}{
		"annotations": polygons,
		"count":       len(polygons),
	})
}

// POST /deleteAnnotation - Remove an annotation from the working set
func deleteAnnotationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	removed := globalStore.Remove(req.ID)
	writeJSON(w, map[string]interface{}{
		"success": removed,
		"total":   globalStore.Count(),
	})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":         "ready",
		"numAnnotations": globalStore.Count(),
	})
}

func main() {
	configPath := flag.String("config", "config.json", "path to JSON config file")
	listenAddr := flag.String("addr", "", "listen address (overrides config)")
	annotationsFile := flag.String("annotations", "", "annotations GeoJSON file (overrides config)")
	flag.Parse()

	log.Println("========================================")
	log.Println("🔬 Spheroid Annotation Geometry Server")
	log.Println("========================================")

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *annotationsFile != "" {
		cfg.AnnotationsFile = *annotationsFile
	}
	globalConfig = cfg
	maxBalancedSliceSamples = cfg.MaxBalancedSliceSamples

	// Try to load an existing annotation set on startup
	if polygons, err := LoadAnnotations(cfg.AnnotationsFile); err == nil {
		for _, polygon := range polygons {
			globalStore.Insert(polygon)
		}
		log.Printf("✅ Loaded %d annotations from %s\n", len(polygons), cfg.AnnotationsFile)
	} else {
		log.Println("ℹ️  No existing annotations found (this is normal on first run)")
		log.Println("   Call /importAnnotations to load a GeoJSON feature collection")
	}
	log.Println("")

	http.HandleFunc("/slice", corsMiddleware(sliceHandler))
	http.HandleFunc("/validateSlice", corsMiddleware(validateSliceHandler))
	http.HandleFunc("/sliceHints", corsMiddleware(sliceHintsHandler))
	http.HandleFunc("/balancedSlice", corsMiddleware(balancedSliceHandler))
	http.HandleFunc("/simplify", corsMiddleware(simplifyHandler))
	http.HandleFunc("/metrics", corsMiddleware(metricsHandler))
	http.HandleFunc("/importAnnotations", corsMiddleware(importAnnotationsHandler))
	http.HandleFunc("/exportAnnotations", corsMiddleware(exportAnnotationsHandler))
	http.HandleFunc("/annotations", corsMiddleware(annotationsHandler))
	http.HandleFunc("/deleteAnnotation", corsMiddleware(deleteAnnotationHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	log.Printf("Server starting on %s\n", cfg.ListenAddr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /slice              - Cut an annotation along a slice line")
	log.Println("  POST /validateSlice      - Pre-flight check of a slice line")
	log.Println("  POST /sliceHints         - Suggest valid slice end points")
	log.Println("  POST /balancedSlice      - Find the most area-balanced cut")
	log.Println("  POST /simplify           - Douglas-Peucker simplification for LOD")
	log.Println("  POST /metrics            - Morphometric characteristics")
	log.Println("  POST /importAnnotations  - Import a GeoJSON feature collection")
	log.Println("  GET  /exportAnnotations  - Export the working set as GeoJSON")
	log.Println("  GET  /annotations        - List annotations (viewport culling via ?x&y&width&height)")
	log.Println("  POST /deleteAnnotation   - Remove an annotation")
	log.Println("  GET  /health             - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatal(err)
	}
}
