package spine

import "math"

// Transport propagates a rotation-minimizing frame normal from one tangent to
// the next by parallel transport: the returned normal is perpendicular to
// newTangent and rotated as little as possible relative to prevNormal. Unlike
// a Frenet frame, this does not flip or twist at inflection points or in
// regions of near-zero curvature.
//
// Both tangents must be unit vectors. The function is total: near-parallel
// tangents skip the rotation, antiparallel tangents fall back to an
// arbitrary rotation axis orthogonal to prevTangent, and a degenerate result
// falls back to an arbitrary normal orthogonal to newTangent.
func Transport(prevNormal, prevTangent, newTangent Vec3) Vec3 {
	d := prevTangent.Dot(newTangent)
	n := prevNormal
	if d <= 0.9999 {
		axis := prevTangent.Cross(newTangent)
		if axis.Hypot2() < 1e-4 {
			// Antiparallel tangents leave the rotation plane unconstrained.
			axis = prevTangent.Perpendicular()
		} else {
			axis = axis.Normalize()
		}
		angle := math.Acos(min(max(d, -1.0), 1.0))
		n = n.Rotate(axis, angle)
	}
	// Re-orthogonalize against the new tangent to cancel floating-point
	// drift and the residue of skipped near-parallel rotations, which
	// would otherwise compound over many segments.
	n = n.Sub(newTangent.Mul(n.Dot(newTangent)))
	if n.Hypot2() < 1e-12 {
		return newTangent.Perpendicular()
	}
	return n.Normalize()
}
