// Package ttt is a minimal tic-tac-toe implementing the game capability,
// used by the demo binary and the integration tests. Cross (X) is white.
package ttt

import (
	"strings"

	"alphatree/game"
)

type cell int8

const (
	empty  cell = 0
	cross  cell = 1
	circle cell = -1
)

// horizontal, vertical and diagonal winning lines
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// State is a 3x3 board with cross to move first. Moves are board indexes
// 0..8, row-major from the top left.
type State struct {
	cells     [9]cell
	crossTurn bool
}

func New() *State {
	return &State{crossTurn: true}
}

func (s *State) Clone() game.State {
	clone := *s
	return &clone
}

func (s *State) WhiteReward() (float64, bool) {
	for _, line := range lines {
		sum := s.cells[line[0]] + s.cells[line[1]] + s.cells[line[2]]
		switch sum {
		case 3 * cross:
			return 1, true
		case 3 * circle:
			return -1, true
		}
	}
	for _, c := range s.cells {
		if c == empty {
			return 0, false
		}
	}
	return 0, true // draw
}

func (s *State) WhitePlaying() bool {
	return s.crossTurn
}

func (s *State) CanonicalBoard() game.Board {
	var b [10]byte
	for i, c := range s.cells {
		b[i] = byte(c)
	}
	if s.crossTurn {
		b[9] = 1
	}
	return game.Board(b[:])
}

func (s *State) AvailableActions() []game.Move {
	moves := make([]game.Move, 0, 9)
	for i, c := range s.cells {
		if c == empty {
			moves = append(moves, i)
		}
	}
	return moves
}

func (s *State) Play(move game.Move) {
	idx := move.(int)
	if s.cells[idx] != empty {
		panic("playing an occupied square")
	}
	if s.crossTurn {
		s.cells[idx] = cross
	} else {
		s.cells[idx] = circle
	}
	s.crossTurn = !s.crossTurn
}

func (s *State) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			switch s.cells[row*3+col] {
			case cross:
				sb.WriteByte('X')
			case circle:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Game describes the static properties of tic-tac-toe for diagnostics.
type Game struct{}

func (Game) BoardMemSize() int {
	return 10
}

func (Game) NumActions() int {
	return 9
}
