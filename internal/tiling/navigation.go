package tiling

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Nearest returns the index of the candidate closest to current in the given
// direction, measured between centres. When nothing lies that way it wraps to
// the candidate furthest on the opposite edge, preferring the same row or
// column. It returns -1 when candidates is empty.
func Nearest(current Rect, dir Direction, candidates []Rect) int {
	if len(candidates) == 0 {
		return -1
	}

	cx := current.X + current.Width/2
	cy := current.Y + current.Height/2

	bestIdx := -1
	bestDist := -1
	for i, c := range candidates {
		ccx := c.X + c.Width/2
		ccy := c.Y + c.Height/2

		inDirection := false
		switch dir {
		case DirUp:
			inDirection = ccy < cy
		case DirDown:
			inDirection = ccy > cy
		case DirLeft:
			inDirection = ccx < cx
		case DirRight:
			inDirection = ccx > cx
		}
		if !inDirection {
			continue
		}

		dist := abs(ccx-cx) + abs(ccy-cy)
		if bestIdx == -1 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}

	// Wrap to the opposite edge.
	bestScore := 0
	for i, c := range candidates {
		ccx := c.X + c.Width/2
		ccy := c.Y + c.Height/2

		var score int
		switch dir {
		case DirUp:
			score = ccy*10000 - abs(ccx-cx)
		case DirDown:
			score = -ccy*10000 - abs(ccx-cx)
		case DirLeft:
			score = ccx*10000 - abs(ccy-cy)
		case DirRight:
			score = -ccx*10000 - abs(ccy-cy)
		}
		if bestIdx == -1 || score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
