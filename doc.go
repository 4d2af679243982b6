// Package spine generates and manages an endlessly extending 3D curve for a
// creature-like tube mesh to follow.
//
// The package has three cooperating parts:
//
//   - [Steerer] synthesizes one cubic Bézier segment per animation step,
//     seeking or orbiting an optional target, wandering through a continuous
//     noise field, and never turning faster than a configured rate.
//   - [Transport] propagates a rotation-minimizing (parallel transport)
//     orientation frame along tangent samples, avoiding the twist artifacts
//     of a Frenet frame at inflection points.
//   - [Endless] composes the two: it keeps a sliding window of segments and
//     cached frame samples, evicts segments that fall behind the window,
//     and answers position and orientation queries in a stable local 0..1
//     parameterization as the window advances.
//
// Consumers sample [Endless.PositionAtLocal] and [Endless.BasisAtLocal] at
// fixed intervals; [Table] packs those samples into flat float32 buffers
// suitable for GPU lookup textures, and [Follower] smooths a raw pointer or
// ray target with a damped spring before feeding it to the manager.
//
// # Geometry
//
// All geometry is built on the [Point3], [Vec3], and [CubicBez3] value
// types. Arc lengths use adaptive Legendre-Gauss quadrature and inverse
// arc lengths use the ITP root-finding method; both take an accuracy
// argument, with [DefaultAccuracy] as a reasonable default.
//
// Every operation in this package is total: degenerate inputs (an empty
// window, antiparallel tangents, a zero-length curve) produce documented
// fallback values rather than errors, because the package runs once per
// rendered frame and visual continuity beats strict validation.
//
// The package is not safe for concurrent use. The intended use is a single
// [Endless] instance driven from a synchronous animation step.
package spine
