package game

// Corridors is the concrete two-player pawn-and-wall board game the engine
// is instantiated over: a Quoridor-family race to the opposite edge of an
// NxN grid, where either player may spend a wall to slow the other down.
//
// A Corridors value is always viewed from the side about to move (hero);
// flip records which physical player (0 or 1) that currently is. The board
// itself is stored in absolute coordinates - moves never rotate it - so
// flip decides which goal row each side races to, and lets notation be
// rendered in either canonical or current-player form.
type Corridors struct {
	n int8

	heroPos, villainPos Pos

	heroWallsRemaining, villainWallsRemaining int8

	horizontalWalls bitset // (n-1)*n: gap between row y, y+1 at column x
	verticalWalls   bitset // (n-1)*n: gap between column x, x+1 at row y
	wallMiddles     bitset // (n-1)^2: intersections claimed by a placed wall

	flip bool

	evaluator Evaluator
}

// Pos is a board cell coordinate, (0,0) at the player-0 home corner.
type Pos struct {
	X, Y int8
}

type orientation uint8

const (
	horizontal orientation = iota
	vertical
)

const (
	// DefaultBoardSize is the conventional Corridors board size.
	DefaultBoardSize = 9
	// DefaultWallsPerPlayer is the conventional wall allotment per side.
	DefaultWallsPerPlayer = 10

	// wallCostBound is a sound upper bound on how much a single remaining
	// wall could lengthen an opponent's shortest path, used by
	// CheckNonTerminalEval. A wall blocks at most one unit edge on the
	// shortest grid path, forcing at most a two-cell detour around it.
	wallCostBound = 2
)

// NewCorridors builds the standard starting position on an NxN board:
// player 0 at the bottom-center cell racing to row n-1, player 1 at the
// top-center cell racing to row 0, each holding wallsPerPlayer walls.
func NewCorridors(n, wallsPerPlayer int) *Corridors {
	return &Corridors{
		n:                     int8(n),
		heroPos:               Pos{int8(n / 2), 0},
		villainPos:            Pos{int8(n / 2), int8(n - 1)},
		heroWallsRemaining:    int8(wallsPerPlayer),
		villainWallsRemaining: int8(wallsPerPlayer),
		horizontalWalls:       newBitset((n - 1) * n),
		verticalWalls:         newBitset((n - 1) * n),
		wallMiddles:           newBitset((n - 1) * (n - 1)),
	}
}

// Size returns the board's side length N.
func (s *Corridors) Size() int { return int(s.n) }

// HeroPos and VillainPos expose the raw pawn coordinates, chiefly for the
// wire format and tests; game logic elsewhere reaches for these fields
// directly since this type never leaves the package boundary unwrapped.
func (s *Corridors) HeroPos() (x, y int)    { return int(s.heroPos.X), int(s.heroPos.Y) }
func (s *Corridors) VillainPos() (x, y int) { return int(s.villainPos.X), int(s.villainPos.Y) }

// HeroWallsRemaining and VillainWallsRemaining expose wall counts.
func (s *Corridors) HeroWallsRemaining() int    { return int(s.heroWallsRemaining) }
func (s *Corridors) VillainWallsRemaining() int { return int(s.villainWallsRemaining) }

// Flip reports which physical player hero currently is.
func (s *Corridors) Flip() bool { return s.flip }

// SetEvaluator installs a bespoke evaluation callback, inherited by every
// descendant produced from this state via LegalMoves/Clone.
func (s *Corridors) SetEvaluator(e Evaluator) { s.evaluator = e }

func (s *Corridors) heroGoalRow() int {
	if s.flip {
		return 0
	}
	return int(s.n) - 1
}

func (s *Corridors) villainGoalRow() int {
	if s.flip {
		return int(s.n) - 1
	}
	return 0
}

func (s *Corridors) inBounds(p Pos) bool {
	return p.X >= 0 && p.X < s.n && p.Y >= 0 && p.Y < s.n
}

// Eq reports whether two Corridors values are the same position from the
// same side-to-move perspective.
func (s *Corridors) Eq(other State) bool {
	o, ok := other.(*Corridors)
	if !ok {
		return false
	}
	return s.n == o.n &&
		s.heroPos == o.heroPos && s.villainPos == o.villainPos &&
		s.heroWallsRemaining == o.heroWallsRemaining &&
		s.villainWallsRemaining == o.villainWallsRemaining &&
		s.flip == o.flip &&
		s.horizontalWalls.eq(o.horizontalWalls) &&
		s.verticalWalls.eq(o.verticalWalls) &&
		s.wallMiddles.eq(o.wallMiddles)
}

// Clone returns an independent copy.
func (s *Corridors) Clone() State {
	c := *s
	c.horizontalWalls = s.horizontalWalls.clone()
	c.verticalWalls = s.verticalWalls.clone()
	c.wallMiddles = s.wallMiddles.clone()
	return &c
}

// IsTerminal reports whether either pawn sits on its goal row.
func (s *Corridors) IsTerminal() bool {
	return int(s.heroPos.Y) == s.heroGoalRow() || int(s.villainPos.Y) == s.villainGoalRow()
}

// TerminalValue reports the value from hero's perspective: -1 when villain
// sits on its goal row, +1 when hero sits on its own, 0 otherwise. Because
// the engine swaps hero/villain after every move, a terminal state reached
// through LegalMoves always has villain (the side that just moved) on its
// goal row, so the side to move sees -1; +1 only arises for a position
// built directly, e.g. via FromWire.
func (s *Corridors) TerminalValue() float32 {
	if int(s.villainPos.Y) == s.villainGoalRow() {
		return -1
	}
	if int(s.heroPos.Y) == s.heroGoalRow() {
		return 1
	}
	return 0
}

// CheckNonTerminalEval reports a sound win/loss verdict when one side's
// shortest path to its goal is shorter than the other's could possibly
// become even after spending every remaining wall against it.
func (s *Corridors) CheckNonTerminalEval() (float32, bool) {
	if s.IsTerminal() {
		return 0, false
	}
	dHero := shortestDistanceToRow(s, int(s.heroPos.X), int(s.heroPos.Y), s.heroGoalRow())
	dVillain := shortestDistanceToRow(s, int(s.villainPos.X), int(s.villainPos.Y), s.villainGoalRow())
	if dHero < 0 || dVillain < 0 {
		return 0, false
	}
	if dHero+int(s.villainWallsRemaining)*wallCostBound < dVillain {
		return 1, true
	}
	if dVillain+int(s.heroWallsRemaining)*wallCostBound < dHero {
		return -1, true
	}
	return 0, false
}

// NonTerminalRank breaks cycles once CheckNonTerminalEval has decided a
// position: it is the board-distance-complement of hero's own shortest
// path, so that among a set of siblings (all sharing the same physical
// mover after the ply), minimizing a child's rank picks the successor
// that leaves the opponent farthest from winning. See DESIGN.md.
func (s *Corridors) NonTerminalRank() int {
	n := int(s.n)
	maxDist := n * n
	d := shortestDistanceToRow(s, int(s.heroPos.X), int(s.heroPos.Y), s.heroGoalRow())
	if d < 0 {
		d = maxDist
	}
	return maxDist - d
}

// Evaluator returns the bespoke evaluation callback installed on this
// state, or nil if none was configured.
func (s *Corridors) Evaluator() Evaluator { return s.evaluator }

// LegalMoves enumerates successors: pawn moves first (N, E, S, W, with
// jump/diagonal handling), then wall placements (horizontal then
// vertical, row-major).
func (s *Corridors) LegalMoves(sink func(State)) {
	if s.IsTerminal() {
		return
	}
	s.pawnMoves(sink)
	s.wallMoves(sink)
}

type dir struct{ dx, dy int8 }

var directions = []dir{{0, 1}, {1, 0}, {0, -1}, {-1, 0}} // N E S W

func perpendiculars(d dir) [2]dir {
	if d.dx == 0 {
		return [2]dir{{1, 0}, {-1, 0}}
	}
	return [2]dir{{0, 1}, {0, -1}}
}

func (s *Corridors) pawnMoves(sink func(State)) {
	for _, d := range directions {
		adj := Pos{s.heroPos.X + d.dx, s.heroPos.Y + d.dy}
		if !s.inBounds(adj) || s.blocked(s.heroPos, adj) {
			continue
		}
		if adj != s.villainPos {
			s.emitPawnMove(adj, sink)
			continue
		}
		beyond := Pos{adj.X + d.dx, adj.Y + d.dy}
		if s.inBounds(beyond) && !s.blocked(adj, beyond) {
			s.emitPawnMove(beyond, sink)
			continue
		}
		for _, p := range perpendiculars(d) {
			side := Pos{adj.X + p.dx, adj.Y + p.dy}
			if !s.inBounds(side) || s.blocked(adj, side) {
				continue
			}
			s.emitPawnMove(side, sink)
		}
	}
}

// blocked reports whether a wall sits between two orthogonally adjacent
// cells.
func (s *Corridors) blocked(a, b Pos) bool {
	n := int(s.n)
	switch {
	case b.X == a.X && b.Y == a.Y+1:
		return s.horizontalWalls.get(horizontalIndex(int(a.Y), int(a.X), n))
	case b.X == a.X && b.Y == a.Y-1:
		return s.horizontalWalls.get(horizontalIndex(int(b.Y), int(a.X), n))
	case b.Y == a.Y && b.X == a.X+1:
		return s.verticalWalls.get(verticalIndex(int(a.Y), int(a.X), n))
	case b.Y == a.Y && b.X == a.X-1:
		return s.verticalWalls.get(verticalIndex(int(a.Y), int(b.X), n))
	default:
		return true
	}
}

func (s *Corridors) emitPawnMove(dest Pos, sink func(State)) {
	sink(&Corridors{
		n:                     s.n,
		heroPos:               s.villainPos,
		villainPos:            dest,
		heroWallsRemaining:    s.villainWallsRemaining,
		villainWallsRemaining: s.heroWallsRemaining,
		horizontalWalls:       s.horizontalWalls,
		verticalWalls:         s.verticalWalls,
		wallMiddles:           s.wallMiddles,
		flip:                  !s.flip,
		evaluator:             s.evaluator,
	})
}

func (s *Corridors) wallMoves(sink func(State)) {
	if s.heroWallsRemaining <= 0 {
		return
	}
	n := int(s.n)
	for row := 0; row < n-1; row++ {
		for col := 0; col < n-1; col++ {
			if s.canPlaceWall(row, col, horizontal) {
				s.emitWallMove(row, col, horizontal, sink)
			}
		}
	}
	for row := 0; row < n-1; row++ {
		for col := 0; col < n-1; col++ {
			if s.canPlaceWall(row, col, vertical) {
				s.emitWallMove(row, col, vertical, sink)
			}
		}
	}
}

func (s *Corridors) canPlaceWall(row, col int, o orientation) bool {
	n := int(s.n)
	if s.wallMiddles.get(wallMiddleIndex(row, col, n)) {
		return false
	}
	switch o {
	case horizontal:
		if s.horizontalWalls.get(horizontalIndex(row, col, n)) ||
			s.horizontalWalls.get(horizontalIndex(row, col+1, n)) {
			return false
		}
	case vertical:
		if s.verticalWalls.get(verticalIndex(row, col, n)) ||
			s.verticalWalls.get(verticalIndex(row+1, col, n)) {
			return false
		}
	}
	candidate := s.withWall(row, col, o)
	return pathExists(candidate, int(candidate.heroPos.X), int(candidate.heroPos.Y), candidate.heroGoalRow()) &&
		pathExists(candidate, int(candidate.villainPos.X), int(candidate.villainPos.Y), candidate.villainGoalRow())
}

// withWall returns a copy of s (still hero-to-move, no swap) with the
// given wall placed, used both to probe the path invariant and to build
// the emitted child.
func (s *Corridors) withWall(row, col int, o orientation) *Corridors {
	n := int(s.n)
	hWalls := s.horizontalWalls
	vWalls := s.verticalWalls
	mid := s.wallMiddles.clone()
	mid.set(wallMiddleIndex(row, col, n), true)
	switch o {
	case horizontal:
		hWalls = s.horizontalWalls.clone()
		hWalls.set(horizontalIndex(row, col, n), true)
		hWalls.set(horizontalIndex(row, col+1, n), true)
	case vertical:
		vWalls = s.verticalWalls.clone()
		vWalls.set(verticalIndex(row, col, n), true)
		vWalls.set(verticalIndex(row+1, col, n), true)
	}
	return &Corridors{
		n:                     s.n,
		heroPos:               s.heroPos,
		villainPos:            s.villainPos,
		heroWallsRemaining:    s.heroWallsRemaining,
		villainWallsRemaining: s.villainWallsRemaining,
		horizontalWalls:       hWalls,
		verticalWalls:         vWalls,
		wallMiddles:           mid,
		flip:                  s.flip,
		evaluator:             s.evaluator,
	}
}

func (s *Corridors) emitWallMove(row, col int, o orientation, sink func(State)) {
	placed := s.withWall(row, col, o)
	sink(&Corridors{
		n:                     s.n,
		heroPos:               placed.villainPos,
		villainPos:            placed.heroPos,
		heroWallsRemaining:    placed.villainWallsRemaining,
		villainWallsRemaining: placed.heroWallsRemaining - 1,
		horizontalWalls:       placed.horizontalWalls,
		verticalWalls:         placed.verticalWalls,
		wallMiddles:           placed.wallMiddles,
		flip:                  !s.flip,
		evaluator:             s.evaluator,
	})
}

// Index helpers. horizontalIndex/verticalIndex address single unit-edge
// gaps; wallMiddleIndex addresses the (n-1)^2 intersection grid a placed
// wall (of either orientation) claims to prevent crossing placements.

func horizontalIndex(row, col, n int) int { return row*n + col }
func verticalIndex(row, col, n int) int   { return row*(n-1) + col }
func wallMiddleIndex(row, col, n int) int { return row*(n-1) + col }
