package searcher

import "errors"

// ErrExploreFirst is returned by Policy when the queried state has no node
// in the tree yet.
var ErrExploreFirst = errors.New("state has no tree node: run Explore first")
