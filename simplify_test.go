package main

import (
	"math"
	"testing"
)

func TestSimplifyPolygonNeverGrows(t *testing.T) {
	var noisy []Point
	for i := 0; i < 100; i++ {
		angle := 2 * math.Pi * float64(i) / 100
		r := 50 + math.Sin(float64(i))*2
		noisy = append(noisy, Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
	}

	for _, tolerance := range []float64{0, 0.5, 1, 5, 50} {
		simplified := SimplifyPolygon(noisy, tolerance)
		if len(simplified) > len(noisy) {
			t.Fatalf("tolerance %v grew the polygon: %d -> %d", tolerance, len(noisy), len(simplified))
		}
	}
}

func TestSimplifyPolygonZeroToleranceKeepsConvexShape(t *testing.T) {
	simplified := SimplifyPolygon(square, 0)

	if len(simplified) != len(square) {
		t.Fatalf("expected all %d corners kept, got %d", len(square), len(simplified))
	}
	for i := range square {
		if !pointsCoincide(simplified[i], square[i]) {
			t.Fatalf("vertex %d moved: %+v -> %+v", i, square[i], simplified[i])
		}
	}
}

func TestSimplifyPolygonDropsCollinearPoints(t *testing.T) {
	withMidpoints := []Point{
		{0, 0}, {50, 0}, {100, 0}, {100, 50}, {100, 100}, {50, 100}, {0, 100},
	}

	simplified := SimplifyPolygon(withMidpoints, 0.1)
	if len(simplified) != 4 {
		t.Fatalf("expected the 4 corners, got %d points: %v", len(simplified), simplified)
	}
}

func TestSimplifyPolygonDegenerateInput(t *testing.T) {
	two := []Point{{0, 0}, {10, 10}}
	simplified := SimplifyPolygon(two, 1)
	if len(simplified) != 2 {
		t.Fatalf("expected pass-through, got %d points", len(simplified))
	}

	// Pass-through must still be a copy
	simplified[0].X = 99
	if two[0].X == 99 {
		t.Fatal("degenerate pass-through aliased the input")
	}
}

func TestGetSimplificationTolerance(t *testing.T) {
	bbox := BoundingBox{Width: 100, Height: 200}

	t.Run("small polygons are never simplified", func(t *testing.T) {
		if tol := GetSimplificationTolerance(0.3, bbox, 10); tol != 0 {
			t.Fatalf("expected 0, got %v", tol)
		}
	})

	t.Run("zoomed far out", func(t *testing.T) {
		// 1% of the smaller dimension times the 8x multiplier
		if tol := GetSimplificationTolerance(0.3, bbox, 50); !almostEqual(tol, 8, 1e-9) {
			t.Fatalf("expected 8, got %v", tol)
		}
	})

	t.Run("zoomed in past 4x disables simplification", func(t *testing.T) {
		if tol := GetSimplificationTolerance(4.0, bbox, 50); tol != 0 {
			t.Fatalf("expected 0, got %v", tol)
		}
	})

	t.Run("multiplier steps down with zoom", func(t *testing.T) {
		zooms := []float64{0.3, 0.7, 1.5, 3.0}
		var previous float64 = math.MaxFloat64
		for _, zoom := range zooms {
			tol := GetSimplificationTolerance(zoom, bbox, 50)
			if tol >= previous {
				t.Fatalf("tolerance did not decrease at zoom %v: %v >= %v", zoom, tol, previous)
			}
			previous = tol
		}
	})
}

func TestGetVertexDecimationStep(t *testing.T) {
	if step := GetVertexDecimationStep(5.0, 50); step != 1 {
		t.Fatalf("high zoom small polygon should show every vertex, got step %d", step)
	}

	low := GetVertexDecimationStep(0.3, 50)
	dense := GetVertexDecimationStep(0.3, 1000)
	if low <= 1 {
		t.Fatalf("low zoom should decimate, got step %d", low)
	}
	if dense <= low {
		t.Fatalf("denser polygons should decimate harder: %d vs %d", dense, low)
	}
}

func TestGetDecimatedVertices(t *testing.T) {
	var points []Point
	for i := 0; i < 10; i++ {
		points = append(points, Point{X: float64(i), Y: 0})
	}

	decimated := GetDecimatedVertices(points, 3)

	if !pointsCoincide(decimated[0], points[0]) {
		t.Fatal("first vertex must be preserved")
	}
	if !pointsCoincide(decimated[len(decimated)-1], points[len(points)-1]) {
		t.Fatal("last vertex must be preserved")
	}
	if len(decimated) >= len(points) {
		t.Fatalf("expected decimation, got %d of %d", len(decimated), len(points))
	}

	if all := GetDecimatedVertices(points, 1); len(all) != len(points) {
		t.Fatalf("step 1 must keep everything, got %d", len(all))
	}
}

func TestIsInViewport(t *testing.T) {
	viewportX, viewportY := 0.0, 0.0
	viewportW, viewportH := 100.0, 100.0

	t.Run("inside", func(t *testing.T) {
		bbox := CalculateBoundingBox([]Point{{10, 10}, {50, 50}})
		if !IsInViewport(bbox, viewportX, viewportY, viewportW, viewportH, 0.2) {
			t.Fatal("expected visible")
		}
	})

	t.Run("within buffer margin", func(t *testing.T) {
		bbox := CalculateBoundingBox([]Point{{105, 50}, {115, 60}})
		if !IsInViewport(bbox, viewportX, viewportY, viewportW, viewportH, 0.2) {
			t.Fatal("expected visible inside the 20% buffer")
		}
	})

	t.Run("beyond buffer", func(t *testing.T) {
		bbox := CalculateBoundingBox([]Point{{130, 50}, {140, 60}})
		if IsInViewport(bbox, viewportX, viewportY, viewportW, viewportH, 0.2) {
			t.Fatal("expected culled")
		}
	})
}
