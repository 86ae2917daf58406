package game

import "gorgonia.org/tensor"

// encodingFeatures is the number of stacked planes Encode produces: hero
// pawn, villain pawn, horizontal walls, vertical walls, hero walls
// remaining (broadcast), villain walls remaining (broadcast).
const encodingFeatures = 6

// Encode renders g as a [features, n, n] tensor the way the teacher's
// InputEncoder renders a chess board as a flat feature/board tensor, so a
// bespoke Evaluator (game.Evaluator) has a ready-made numeric input
// without this package depending on whatever autodiff library consumes
// it.
func Encode(g State) *tensor.Dense {
	s, ok := g.(*Corridors)
	if !ok {
		return nil
	}
	n := int(s.n)
	backing := make([]float32, encodingFeatures*n*n)
	plane := func(i int) []float32 { return backing[i*n*n : (i+1)*n*n] }

	heroPlane := plane(0)
	villainPlane := plane(1)
	heroPlane[int(s.heroPos.Y)*n+int(s.heroPos.X)] = 1
	villainPlane[int(s.villainPos.Y)*n+int(s.villainPos.X)] = 1

	hWallPlane := plane(2)
	for row := 0; row < n-1; row++ {
		for col := 0; col < n; col++ {
			if s.horizontalWalls.get(horizontalIndex(row, col, n)) {
				hWallPlane[row*n+col] = 1
			}
		}
	}

	vWallPlane := plane(3)
	for row := 0; row < n; row++ {
		for col := 0; col < n-1; col++ {
			if s.verticalWalls.get(verticalIndex(row, col, n)) {
				vWallPlane[row*n+col] = 1
			}
		}
	}

	heroWallsPlane := plane(4)
	villainWallsPlane := plane(5)
	for i := 0; i < n*n; i++ {
		heroWallsPlane[i] = float32(s.heroWallsRemaining)
		villainWallsPlane[i] = float32(s.villainWallsRemaining)
	}

	return tensor.New(tensor.WithBacking(backing), tensor.WithShape(encodingFeatures, n, n))
}
