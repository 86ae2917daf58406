package game

import "fmt"

// ActionText renders the transition from s to child as a short token: a
// pawn destination like "e2", or a wall placement like "c5h"/"c5v". flip
// selects current-player perspective (mirrored 180 degrees when the
// physical mover is player 1) over the canonical, always-absolute
// rendering.
func (s *Corridors) ActionText(child State, flip bool) string {
	c, ok := child.(*Corridors)
	if !ok {
		return ""
	}
	if idx, row, col, o, isWall := diffWall(s, c); isWall {
		_ = idx
		return wallNotation(row, col, o, int(s.n), flip, s.flip)
	}
	// Pawn move: hero's destination becomes child's villain position.
	return cellNotation(c.villainPos, int(s.n), flip, s.flip)
}

func cellNotation(p Pos, n int, flip, stateFlip bool) string {
	x, y := int(p.X), int(p.Y)
	if flip && stateFlip {
		x, y = n-1-x, n-1-y
	}
	return fmt.Sprintf("%c%d", 'a'+rune(x), y+1)
}

func wallNotation(row, col int, o orientation, n int, flip, stateFlip bool) string {
	if flip && stateFlip {
		row, col = n-2-row, n-2-col
	}
	suffix := "h"
	if o == vertical {
		suffix = "v"
	}
	return fmt.Sprintf("%c%d%s", 'a'+rune(col), row+1, suffix)
}

// diffWall reports the wall placement (if any) that transformed s into
// child, by locating the lowest-index bit set in child's wall bitmaps but
// not in s's.
func diffWall(s, child *Corridors) (idx, row, col int, o orientation, isWall bool) {
	n := int(s.n)
	if i, ok := firstSetDiff(s.horizontalWalls, child.horizontalWalls); ok {
		return i, i / n, i % n, horizontal, true
	}
	if i, ok := firstSetDiff(s.verticalWalls, child.verticalWalls); ok {
		return i, i / (n - 1), i % (n - 1), vertical, true
	}
	return 0, 0, 0, 0, false
}
