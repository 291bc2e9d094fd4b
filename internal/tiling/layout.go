package tiling

import "math"

// Rect represents a window position and size in terminal cells
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CalculatePositions computes window positions for a grid layout with gaps.
// The last row stretches its cells when it holds fewer windows than cols.
func CalculatePositions(numWindows int, area Rect, gapSize int) []Rect {
	if numWindows <= 0 {
		return nil
	}

	rows, cols := CalculateGrid(numWindows)

	// Gaps sit before each column/row and after the last one.
	cellHeight := (area.Height - (rows+1)*gapSize) / rows

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		rowCols := cols
		if row == rows-1 {
			rowCols = numWindows - row*cols
		}
		cellWidth := (area.Width - (rowCols+1)*gapSize) / rowCols

		positions[i] = Rect{
			X:      area.X + gapSize + col*(cellWidth+gapSize),
			Y:      area.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}

// Center places a width x height rectangle horizontally centred in area, a
// quarter of the way down.
func Center(area Rect, width, height int) Rect {
	r := Rect{
		X:      area.X + (area.Width-width)/2,
		Y:      area.Y + (area.Height-height)/4,
		Width:  width,
		Height: height,
	}
	return Clamp(r, area, 1, 1)
}

// Clamp shrinks r to fit in area, never below minW x minH, and then moves it
// so that it lies inside area where possible.
func Clamp(r, area Rect, minW, minH int) Rect {
	if r.Width > area.Width {
		r.Width = area.Width
	}
	if r.Height > area.Height {
		r.Height = area.Height
	}
	if r.Width < minW {
		r.Width = minW
	}
	if r.Height < minH {
		r.Height = minH
	}
	if r.Right() > area.Right() {
		r.X = area.Right() - r.Width
	}
	if r.Bottom() > area.Bottom() {
		r.Y = area.Bottom() - r.Height
	}
	if r.X < area.X {
		r.X = area.X
	}
	if r.Y < area.Y {
		r.Y = area.Y
	}
	return r
}

// Cascade offsets r by step cells on both axes until it no longer shares its
// origin with any of taken, wrapping back to the area origin when it would
// leave area.
func Cascade(r, area Rect, step int, taken []Rect) Rect {
	if step <= 0 {
		return r
	}
	start := r
	for tries := 0; tries < len(taken)+1; tries++ {
		clash := false
		for _, t := range taken {
			if t.X == r.X && t.Y == r.Y {
				clash = true
				break
			}
		}
		if !clash {
			return r
		}
		r.X += step
		r.Y += step
		if r.Right() > area.Right() || r.Bottom() > area.Bottom() {
			r.X = area.X
			r.Y = area.Y
		}
	}
	return start
}
