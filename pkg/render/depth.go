package render

import "github.com/chewxy/math32"

// The depth buffer stores NormalizeDepth of the interpolated NDC z. With
// the view and projection built by Camera and Lens, visible geometry has
// negative clip w, which makes nearer fragments produce larger values. The
// three definitions below must change together.

// DepthClear is the depth every pixel starts a frame with.
var DepthClear = math32.Inf(-1)

// NormalizeDepth maps NDC z to the value stored in the depth buffer.
func NormalizeDepth(ndcZ float32) float32 {
	return (ndcZ + 1) * 0.5
}

// DepthNearer reports whether depth a wins against stored depth b.
// Ties keep the stored fragment.
func DepthNearer(a, b float32) bool {
	return a > b
}
