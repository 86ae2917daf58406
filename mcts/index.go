package mcts

// index addresses a Node inside a Tree's arena. Kept as its own type
// (rather than a bare int) so a stray plain int can never be mistaken for
// a node handle - the same discipline the teacher repo applied with its
// Naughty type, renamed here since this arena holds board positions, not
// neural-net move indices.
type index int32

// noIndex is the nil node handle: the parent of a root, the "not found"
// result of a child lookup.
const noIndex index = -1

func (i index) valid() bool { return i >= 0 }
