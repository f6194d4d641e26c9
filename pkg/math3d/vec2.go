package math3d

// Vec2 represents a 2D vector, used for screen-space points.
type Vec2 struct {
	X, Y float32
}

// V2 creates a new Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float32 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product of a and b.
// Its sign gives the winding of a followed by b.
func (a Vec2) Cross(b Vec2) float32 {
	return a.X*b.Y - a.Y*b.X
}
