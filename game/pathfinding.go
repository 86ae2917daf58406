package game

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// reachabilityGraph turns the open pawn-steps of a board (as constrained
// by its wall bitmaps) into an undirected graph of cells, so the path
// invariant (every wall placement must leave both pawns a route to their
// goal row) can be checked with gonum's graph traversal rather than a
// hand-rolled queue.
func reachabilityGraph(s *Corridors) *simple.UndirectedGraph {
	n := int(s.n)
	g := simple.NewUndirectedGraph()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			g.AddNode(simple.Node(cellID(x, y, n)))
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x+1 < n && !s.verticalWalls.get(verticalIndex(y, x, n)) {
				g.SetEdge(simple.Edge{F: simple.Node(cellID(x, y, n)), T: simple.Node(cellID(x+1, y, n))})
			}
			if y+1 < n && !s.horizontalWalls.get(horizontalIndex(y, x, n)) {
				g.SetEdge(simple.Edge{F: simple.Node(cellID(x, y, n)), T: simple.Node(cellID(x, y+1, n))})
			}
		}
	}
	return g
}

func cellID(x, y, n int) int64 { return int64(y*n + x) }

// shortestDistanceToRow returns the fewest pawn-steps from (x,y) to any
// cell in row goalY on s's board, ignoring the other pawn (which never
// permanently blocks a route - it can be jumped, side-stepped, or will
// itself have moved by the time a real path is walked), or -1 if no such
// route exists.
func shortestDistanceToRow(s *Corridors, x, y, goalY int) int {
	n := int(s.n)
	g := reachabilityGraph(s)
	bf := traverse.BreadthFirst{}
	dist := -1
	bf.Walk(g, simple.Node(cellID(x, y, n)), func(node graph.Node, d int) bool {
		if int(node.ID())/n == goalY {
			dist = d
			return true
		}
		return false
	})
	return dist
}

// pathExists reports whether (x,y) can still reach row goalY on s's board.
func pathExists(s *Corridors, x, y, goalY int) bool {
	return shortestDistanceToRow(s, x, y, goalY) >= 0
}
