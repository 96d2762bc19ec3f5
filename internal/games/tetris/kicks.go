package tetris

// Offset is a wall-kick displacement. Tables store dy as "up is positive";
// callers negate it because row 0 is the top of the field.
type Offset struct {
	DX, DY int
}

type transition struct {
	from, to int
}

// jlstzKicks is shared by J, L, S, T and Z.
var jlstzKicks = map[transition][]Offset{
	{0, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{1, 0}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{1, 2}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{2, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{2, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{3, 2}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{3, 0}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{0, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
}

var iKicks = map[transition][]Offset{
	{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
}

var oKicks = []Offset{{0, 0}}

// Kicks returns the ordered candidate offsets for rotating kind k from
// rotation state from to state to. Index 0 is always the zero offset.
// A transition that is not a quarter turn yields nil.
func Kicks(k Kind, from, to int) []Offset {
	if k == KindO {
		return oKicks
	}
	table := jlstzKicks
	if k == KindI {
		table = iKicks
	}
	return table[transition{from: mod4(from), to: mod4(to)}]
}

func mod4(v int) int {
	return ((v % 4) + 4) % 4
}
