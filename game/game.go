package game

// Move is an opaque game action. The engine never inspects moves; it only
// indexes into the ordered slice returned by AvailableActions and hands the
// chosen move back to Play.
type Move interface{}

// Board is the canonical encoding of a position, used as the tree key.
// Two states that encode to the same Board are the same node. The encoding
// must be stable: the same position always yields the same bytes, and
// AvailableActions must return the same moves in the same order for it.
type Board string

// State is the game capability the search engine requires.
//
// WhiteReward reports the terminal outcome from white's point of view; the
// second return is false while the game is still running. Play mutates the
// state in place, so the engine always works on a Clone of the caller's
// state.
type State interface {
	Clone() State
	WhiteReward() (float64, bool)
	WhitePlaying() bool
	CanonicalBoard() Board
	AvailableActions() []Move
	Play(move Move)
}

// Descriptor carries the static properties of a game type, used only for
// diagnostics such as per-node memory estimates.
type Descriptor interface {
	// BoardMemSize is the size in bytes of one canonical board.
	BoardMemSize() int
	// NumActions is the maximum number of legal actions in any position.
	NumActions() int
}
