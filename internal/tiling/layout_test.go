package tiling

import "testing"

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{7, 3, 3},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("CalculateGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestCalculatePositions_TwoColumns(t *testing.T) {
	area := Rect{X: 0, Y: 1, Width: 101, Height: 30}
	positions := CalculatePositions(2, area, 1)
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	// width=101, gap=1, cols=2: cellWidth=(101-3)/2=49
	if positions[0].X != 1 || positions[1].X != 51 {
		t.Fatalf("unexpected X positions %d, %d", positions[0].X, positions[1].X)
	}
	if positions[0].Width != 49 || positions[0].Height != 28 {
		t.Fatalf("unexpected size %dx%d", positions[0].Width, positions[0].Height)
	}
	if positions[0].Y != 2 {
		t.Fatalf("expected Y=2, got %d", positions[0].Y)
	}
}

func TestCalculatePositions_LastRowStretches(t *testing.T) {
	area := Rect{Width: 100, Height: 40}
	positions := CalculatePositions(3, area, 0)
	if positions[2].Width != 100 {
		t.Fatalf("expected last row to span full width, got %d", positions[2].Width)
	}
	if positions[0].Width != 50 {
		t.Fatalf("expected first row cells of 50, got %d", positions[0].Width)
	}
}

func TestClamp(t *testing.T) {
	area := Rect{X: 0, Y: 1, Width: 80, Height: 20}
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{X: 5, Y: 3, Width: 20, Height: 10}, Rect{X: 5, Y: 3, Width: 20, Height: 10}},
		{"off right", Rect{X: 70, Y: 3, Width: 20, Height: 10}, Rect{X: 60, Y: 3, Width: 20, Height: 10}},
		{"above", Rect{X: 5, Y: -4, Width: 20, Height: 10}, Rect{X: 5, Y: 1, Width: 20, Height: 10}},
		{"too big", Rect{X: 0, Y: 0, Width: 200, Height: 50}, Rect{X: 0, Y: 1, Width: 80, Height: 20}},
		{"too small", Rect{X: 0, Y: 1, Width: 2, Height: 1}, Rect{X: 0, Y: 1, Width: 10, Height: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.in, area, 10, 5)
			if got != tt.want {
				t.Fatalf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	got := Center(Rect{Width: 100, Height: 40}, 40, 20)
	if got.X != 30 || got.Y != 5 {
		t.Fatalf("unexpected origin %d,%d", got.X, got.Y)
	}
}

func TestCascadeSkipsTakenOrigins(t *testing.T) {
	area := Rect{Width: 100, Height: 40}
	r := Rect{X: 10, Y: 5, Width: 30, Height: 10}
	taken := []Rect{{X: 10, Y: 5}, {X: 12, Y: 7}}
	got := Cascade(r, area, 2, taken)
	if got.X != 14 || got.Y != 9 {
		t.Fatalf("expected 14,9 got %d,%d", got.X, got.Y)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 2, Width: 3, Height: 2}
	if !r.Contains(2, 2) || !r.Contains(4, 3) {
		t.Fatalf("expected corners inside")
	}
	if r.Contains(5, 2) || r.Contains(2, 4) {
		t.Fatalf("expected edges outside")
	}
}
