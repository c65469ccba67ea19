package game

import "github.com/OneOfOne/xxhash"

// HashBoard returns a 64-bit digest of a canonical board. The search tree
// keys nodes by board content, not by this hash; the digest exists so logs
// and stored records can identify positions compactly.
func HashBoard(board Board) uint64 {
	return xxhash.ChecksumString64(string(board))
}
