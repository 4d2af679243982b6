package spine

import "sort"

// DefaultSamplesPerSegment is the number of interior frame samples cached per
// segment. Each segment block additionally stores the t=1 boundary sample.
const DefaultSamplesPerSegment = 10

// Basis is a world-space position with its orientation frame on the curve.
type Basis struct {
	Position Point3
	Tangent  Vec3
	Normal   Vec3
}

// Endless manages a sliding window over an endlessly generated curve.
//
// It owns an ordered list of Bézier segments produced by a [Steerer], a
// parallel rolling cache of rotation-minimizing frame samples, and a local
// coordinate window. Each animation tick, [Endless.ConfigureStartEnd]
// advances the window: it generates segments until the window is covered,
// evicts segments that fall fully behind it, recomputes the cached
// arclength fractions, and fixes the local parameter range. Afterwards,
// [Endless.PositionAtLocal] and [Endless.BasisAtLocal] answer queries for
// u ∈ [0, 1] in window-local coordinates, independent of the absolute
// distance traveled.
//
// All operations are total. With no cached segments, queries return the
// origin and a neutral frame.
type Endless struct {
	steerer           *Steerer
	samplesPerSegment int

	segments []CubicBez3
	lengths  []float64

	// Rolling frame cache, index-aligned: one block of
	// samplesPerSegment+1 entries per segment. fractions holds each
	// sample's measured arclength fraction within its segment.
	normals   []Vec3
	fractions []float64
	uValues   []float64

	totalLength    float64
	distanceOffset float64
	uStart         float64
	uLength        float64

	target    Point3
	hasTarget bool

	// Exit frame of the last cached segment, seeding parallel transport
	// for the next one.
	exitTangent Vec3
	exitNormal  Vec3
	seeded      bool
}

// NewEndless returns a manager drawing segments from the given steerer.
// samplesPerSegment is the number of interior frame samples cached per
// segment; values < 1 select [DefaultSamplesPerSegment].
func NewEndless(s *Steerer, samplesPerSegment int) *Endless {
	if samplesPerSegment < 1 {
		samplesPerSegment = DefaultSamplesPerSegment
	}
	return &Endless{
		steerer:           s,
		samplesPerSegment: samplesPerSegment,
	}
}

// SetTarget updates the steering target. It applies to the next generated
// segment only; existing segments are never altered.
func (e *Endless) SetTarget(pt Point3) {
	e.target = pt
	e.hasTarget = true
}

// ClearTarget removes the steering target, returning the curve to free roam.
func (e *Endless) ClearTarget() {
	e.hasTarget = false
}

// DistanceOffset returns the world distance already evicted from the front
// of the window. It is non-decreasing and never exceeds the position last
// passed to [Endless.ConfigureStartEnd].
func (e *Endless) DistanceOffset() float64 {
	return e.distanceOffset
}

// TotalLength returns the arclength of all currently cached segments.
func (e *Endless) TotalLength() float64 {
	return e.totalLength
}

// SegmentCount returns the number of currently cached segments.
func (e *Endless) SegmentCount() int {
	return len(e.segments)
}

// Window returns the active local parameter sub-range of the cached curve.
func (e *Endless) Window() (uStart, uLength float64) {
	return e.uStart, e.uLength
}

// ConfigureStartEnd advances the window to cover [position, position+length]
// in world distance. Call it once per animation tick, before any query of
// that tick. Positions must be non-decreasing across calls.
func (e *Endless) ConfigureStartEnd(position, length float64) {
	e.fill(position + length)
	e.evict(position)
	e.reparameterize()

	if e.totalLength == 0.0 {
		e.uStart = 0.0
		e.uLength = 0.0
		return
	}
	local := position - e.distanceOffset
	e.uStart = min(max(local/e.totalLength, 0.0), 1.0)
	e.uLength = length / e.totalLength
}

// fill generates segments until the cached curve reaches the given world
// distance.
func (e *Endless) fill(end float64) {
	for e.distanceOffset+e.totalLength < end {
		var target *Point3
		if e.hasTarget {
			target = &e.target
		}
		seg := e.steerer.Next(target)
		e.segments = append(e.segments, seg)
		arclen := seg.Arclen(DefaultAccuracy)
		e.lengths = append(e.lengths, arclen)
		e.totalLength += arclen
		e.appendFrames(seg)
	}
}

// appendFrames computes the frame-sample block for a freshly appended
// segment, transporting the exit frame of the previous segment across it.
// u-values are left for reparameterize.
func (e *Endless) appendFrames(seg CubicBez3) {
	t0, t1 := seg.Tangents()
	startTan := t0.Normalize()
	if !e.seeded {
		e.exitTangent = startTan
		e.exitNormal = startTan.Perpendicular()
		e.seeded = true
	}

	n := e.samplesPerSegment
	deriv := seg.Differentiate()

	// Samples are taken at uniform curve parameters, which are not
	// uniform in arclength; queries resolve by arclength, so each
	// sample's position along the segment is measured, not assumed.
	arcs := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		sub := seg.Subsegment(float64(i-1)/float64(n), float64(i)/float64(n))
		arcs[i] = arcs[i-1] + sub.Arclen(DefaultAccuracy)
	}
	segArclen := arcs[n]

	prevTan, prevNorm := e.exitTangent, e.exitNormal
	for i := 0; i <= n; i++ {
		var tan Vec3
		switch i {
		case 0:
			// Analytic endpoint tangents keep the frame C¹ continuous
			// across segment boundaries.
			tan = startTan
		case n:
			tan = t1.Normalize()
		default:
			d := Vec3(deriv.Eval(float64(i) / float64(n)))
			if d.Hypot2() < 1e-12 {
				tan = prevTan
			} else {
				tan = d.Normalize()
			}
		}
		norm := Transport(prevNorm, prevTan, tan)
		e.normals = append(e.normals, norm)
		frac := float64(i) / float64(n)
		if segArclen > 0.0 {
			frac = arcs[i] / segArclen
		}
		e.fractions = append(e.fractions, frac)
		e.uValues = append(e.uValues, 0.0)
		prevTan, prevNorm = tan, norm
	}
	e.exitTangent, e.exitNormal = prevTan, prevNorm
}

// evict removes segments whose entire arclength lies behind position,
// accumulating the removed length into the distance offset.
func (e *Endless) evict(position float64) {
	var k int
	for k < len(e.segments) && e.distanceOffset+e.lengths[k] <= position {
		e.distanceOffset += e.lengths[k]
		e.totalLength -= e.lengths[k]
		k++
	}
	if k == 0 {
		return
	}
	block := e.samplesPerSegment + 1
	e.segments = append(e.segments[:0], e.segments[k:]...)
	e.lengths = append(e.lengths[:0], e.lengths[k:]...)
	e.normals = append(e.normals[:0], e.normals[k*block:]...)
	e.fractions = append(e.fractions[:0], e.fractions[k*block:]...)
	e.uValues = append(e.uValues[:0], e.uValues[k*block:]...)
}

// reparameterize recomputes the arclength fraction of every cached frame
// sample. Both eviction and appension change the total cached length, which
// shifts every sample's fractional position, so the whole cache is redone.
// The window holds at most a few hundred samples, so the full pass is cheap.
func (e *Endless) reparameterize() {
	var total float64
	for _, l := range e.lengths {
		total += l
	}
	e.totalLength = total
	if total == 0.0 {
		for i := range e.uValues {
			e.uValues[i] = 0.0
		}
		return
	}
	n := e.samplesPerSegment
	var cum float64
	for i, l := range e.lengths {
		base := i * (n + 1)
		for j := 0; j <= n; j++ {
			e.uValues[base+j] = (cum + l*e.fractions[base+j]) / total
		}
		cum += l
	}
}

// resolve maps a window-local parameter to a cached segment, a curve
// parameter on it, and the global arclength fraction.
func (e *Endless) resolve(u float64) (i int, t, u2 float64, ok bool) {
	if len(e.segments) == 0 || e.totalLength == 0.0 {
		return 0, 0.0, 0.0, false
	}
	u2 = min(max(e.uStart+e.uLength*u, 0.0), 1.0)
	s := u2 * e.totalLength
	for i, l := range e.lengths {
		if s <= l || i == len(e.lengths)-1 {
			t := e.segments[i].SolveForArclen(min(s, l), DefaultAccuracy)
			return i, t, u2, true
		}
		s -= l
	}
	// Unreachable: the loop always returns on the last segment.
	return 0, 0.0, 0.0, false
}

// PositionAtLocal returns the world-space position at window-local
// u ∈ [0, 1]. With no cached segments it returns the origin.
func (e *Endless) PositionAtLocal(u float64) Point3 {
	i, t, _, ok := e.resolve(u)
	if !ok {
		return Point3{}
	}
	return e.segments[i].Eval(t)
}

// BasisAtLocal returns the position, unit tangent, and unit normal at
// window-local u ∈ [0, 1]. With no cached segments it returns a neutral
// frame at the origin.
func (e *Endless) BasisAtLocal(u float64) Basis {
	i, t, u2, ok := e.resolve(u)
	if !ok {
		return Basis{
			Tangent: V3(1.0, 0.0, 0.0),
			Normal:  V3(0.0, 1.0, 0.0),
		}
	}
	seg := e.segments[i]
	d := Vec3(seg.Differentiate().Eval(t))
	var tan Vec3
	if d.Hypot2() < 1e-12 {
		t0, t1 := seg.Tangents()
		if t < 0.5 {
			tan = t0.Normalize()
		} else {
			tan = t1.Normalize()
		}
	} else {
		tan = d.Normalize()
	}
	return Basis{
		Position: seg.Eval(t),
		Tangent:  tan,
		Normal:   e.normalAt(u2),
	}
}

// normalAt interpolates the cached normals at a global arclength fraction,
// clamping to the first and last sample outside the cached bounds.
func (e *Endless) normalAt(u2 float64) Vec3 {
	n := len(e.uValues)
	if n == 0 {
		return V3(0.0, 1.0, 0.0)
	}
	i := sort.SearchFloat64s(e.uValues, u2)
	if i <= 0 {
		return e.normals[0]
	}
	if i >= n {
		return e.normals[n-1]
	}
	u0, u1 := e.uValues[i-1], e.uValues[i]
	if u1 == u0 {
		return e.normals[i]
	}
	t := (u2 - u0) / (u1 - u0)
	nv := e.normals[i-1].Lerp(e.normals[i], t)
	if nv.Hypot2() < 1e-12 {
		// Opposing normals cancel; either endpoint is as good.
		return e.normals[i]
	}
	return nv.Normalize()
}
