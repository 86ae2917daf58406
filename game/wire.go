package game

import "fmt"

// WireState is the board-state record external clients (the pybind11
// bindings, the HTTP layer - out of scope here, but this is the contract
// they'd serialize against) send to set_state_and_make_best_move. It
// mirrors the struct-of-packed-bitmaps layout spec.md §6 describes,
// carrying JSON tags so a caller can persist/replay one even though the
// engine itself never touches a filesystem.
type WireState struct {
	N                     int    `json:"n"`
	Flip                  bool   `json:"flip"`
	HeroX                 int    `json:"hero_x"`
	HeroY                 int    `json:"hero_y"`
	VillainX              int    `json:"villain_x"`
	VillainY              int    `json:"villain_y"`
	HeroWallsRemaining    int    `json:"hero_walls_remaining"`
	VillainWallsRemaining int    `json:"villain_walls_remaining"`
	WallMiddles           []bool `json:"wall_middles"`     // (n-1)^2, row-major
	HorizontalWalls       []bool `json:"horizontal_walls"` // (n-1)*n, row-major
	VerticalWalls         []bool `json:"vertical_walls"`   // (n-1)*n, row-major
}

// ToWire packs s into its wire representation.
func (s *Corridors) ToWire() WireState {
	n := int(s.n)
	w := WireState{
		N:                     n,
		Flip:                  s.flip,
		HeroX:                 int(s.heroPos.X),
		HeroY:                 int(s.heroPos.Y),
		VillainX:              int(s.villainPos.X),
		VillainY:              int(s.villainPos.Y),
		HeroWallsRemaining:    int(s.heroWallsRemaining),
		VillainWallsRemaining: int(s.villainWallsRemaining),
		WallMiddles:           make([]bool, (n-1)*(n-1)),
		HorizontalWalls:       make([]bool, (n-1)*n),
		VerticalWalls:         make([]bool, (n-1)*n),
	}
	for i := range w.WallMiddles {
		w.WallMiddles[i] = s.wallMiddles.get(i)
	}
	for i := range w.HorizontalWalls {
		w.HorizontalWalls[i] = s.horizontalWalls.get(i)
	}
	for i := range w.VerticalWalls {
		w.VerticalWalls[i] = s.verticalWalls.get(i)
	}
	return w
}

// FromWire reconstructs and validates a Corridors position from its wire
// representation, rejecting anything that violates §3.2's invariants:
// in-bounds distinct pawns, non-negative wall counts, and - the one that
// actually requires search - both pawns still having a path to their goal
// row.
func FromWire(w WireState) (*Corridors, error) {
	n := w.N
	if n < 3 {
		return nil, fmt.Errorf("corridors: board size %d too small", n)
	}
	if len(w.WallMiddles) != (n-1)*(n-1) {
		return nil, fmt.Errorf("corridors: wall_middles has %d entries, want %d", len(w.WallMiddles), (n-1)*(n-1))
	}
	if len(w.HorizontalWalls) != (n-1)*n {
		return nil, fmt.Errorf("corridors: horizontal_walls has %d entries, want %d", len(w.HorizontalWalls), (n-1)*n)
	}
	if len(w.VerticalWalls) != (n-1)*n {
		return nil, fmt.Errorf("corridors: vertical_walls has %d entries, want %d", len(w.VerticalWalls), (n-1)*n)
	}
	hero := Pos{int8(w.HeroX), int8(w.HeroY)}
	villain := Pos{int8(w.VillainX), int8(w.VillainY)}
	if w.HeroX < 0 || w.HeroX >= n || w.HeroY < 0 || w.HeroY >= n {
		return nil, fmt.Errorf("corridors: hero position (%d,%d) out of bounds", w.HeroX, w.HeroY)
	}
	if w.VillainX < 0 || w.VillainX >= n || w.VillainY < 0 || w.VillainY >= n {
		return nil, fmt.Errorf("corridors: villain position (%d,%d) out of bounds", w.VillainX, w.VillainY)
	}
	if hero == villain {
		return nil, fmt.Errorf("corridors: hero and villain occupy the same cell")
	}
	if w.HeroWallsRemaining < 0 || w.VillainWallsRemaining < 0 {
		return nil, fmt.Errorf("corridors: negative walls remaining")
	}

	s := &Corridors{
		n:                     int8(n),
		heroPos:               hero,
		villainPos:            villain,
		heroWallsRemaining:    int8(w.HeroWallsRemaining),
		villainWallsRemaining: int8(w.VillainWallsRemaining),
		horizontalWalls:       newBitset((n - 1) * n),
		verticalWalls:         newBitset((n - 1) * n),
		wallMiddles:           newBitset((n - 1) * (n - 1)),
		flip:                  w.Flip,
	}
	for i, v := range w.WallMiddles {
		s.wallMiddles.set(i, v)
	}
	for i, v := range w.HorizontalWalls {
		s.horizontalWalls.set(i, v)
	}
	for i, v := range w.VerticalWalls {
		s.verticalWalls.set(i, v)
	}

	if !s.IsTerminal() {
		if !pathExists(s, int(hero.X), int(hero.Y), s.heroGoalRow()) {
			return nil, fmt.Errorf("corridors: hero has no path to its goal row")
		}
		if !pathExists(s, int(villain.X), int(villain.Y), s.villainGoalRow()) {
			return nil, fmt.Errorf("corridors: villain has no path to its goal row")
		}
	}
	return s, nil
}
