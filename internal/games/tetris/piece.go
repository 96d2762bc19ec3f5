package tetris

// Piece is the active tetromino: its kind, current rotated box, the
// top-left anchor of that box on the field and the SRS rotation state
// (0 spawn, 1 right, 2 reverse, 3 left).
type Piece struct {
	Kind     Kind
	Shape    Shape
	X, Y     int
	Rotation int
}

// Spawn creates a piece of kind k at the spawn anchor of a field that is
// width columns wide, with the box's top row at spawnY. The box is
// centered; kinds other than I and O get one extra column of left bias.
func Spawn(k Kind, width, spawnY int) *Piece {
	shape := SpawnShape(k)
	x := width/2 - shape.Size()/2
	if k != KindI && k != KindO {
		x--
	}
	return &Piece{
		Kind:  k,
		Shape: shape,
		X:     x,
		Y:     spawnY,
	}
}

// Clone returns an independent copy of the piece.
func (p *Piece) Clone() *Piece {
	c := *p
	c.Shape = p.Shape.Clone()
	return &c
}

// Cells calls fn with the field coordinates of every occupied cell,
// stopping early when fn returns false.
func (p *Piece) Cells(fn func(x, y int) bool) {
	for row, cols := range p.Shape {
		for col, filled := range cols {
			if filled && !fn(p.X+col, p.Y+row) {
				return
			}
		}
	}
}

// AttemptMove shifts the piece by (dx, dy) when the target is free.
// A successful move clears the field's rotation flag, so a later lock only
// counts as a spin if the last successful action was a rotation.
func (p *Piece) AttemptMove(f *Field, dx, dy int) bool {
	if f.CheckCollision(p, dx, dy) {
		return false
	}
	p.X += dx
	p.Y += dy
	f.LastRotationApplied = false
	return true
}

// AttemptRotate turns the piece a quarter turn, trying the SRS kick
// candidates in table order. On failure the piece is left untouched.
// O pieces report success without changing anything.
func (p *Piece) AttemptRotate(f *Field, clockwise bool) bool {
	if p.Kind == KindO {
		return true
	}

	from := p.Rotation
	to := mod4(from - 1)
	original := p.Shape
	if clockwise {
		to = mod4(from + 1)
		p.Shape = original.RotateCW()
	} else {
		p.Shape = original.RotateCCW()
	}

	for i, kick := range Kicks(p.Kind, from, to) {
		dx, dy := kick.DX, -kick.DY
		if f.CheckCollision(p, dx, dy) {
			continue
		}
		p.X += dx
		p.Y += dy
		p.Rotation = to
		f.LastKickIndex = i
		f.LastRotationApplied = f.CheckCollision(p, 0, 1)
		return true
	}

	p.Shape = original
	return false
}

// GhostRow returns the y the piece would rest at if dropped straight down.
// The piece itself is not modified.
func (p *Piece) GhostRow(f *Field) int {
	dy := 0
	for !f.CheckCollision(p, 0, dy+1) {
		dy++
	}
	return p.Y + dy
}
