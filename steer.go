package spine

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// SteerConfig holds the tunables of a [Steerer]. All values are plain
// numbers owned by the embedding application; they may be changed between
// calls to [Steerer.Next] and take effect on the next generated segment.
// Values are expected to be finite; no other constraints are enforced.
type SteerConfig struct {
	// MinSegmentLength and MaxSegmentLength bound the uniformly random
	// length of each generated segment, in world units.
	MinSegmentLength float64
	MaxSegmentLength float64
	// MaxTurnRate is the largest angle, in radians, the heading may rotate
	// per generated segment.
	MaxTurnRate float64
	// OrbitRadius is the radius of the circle flown around a nearby target.
	// Beyond 1.5×OrbitRadius the steerer seeks the target directly.
	OrbitRadius float64
	// OrbitWeight scales the continue-straight desire when no target is set.
	OrbitWeight float64
	// WanderWeight blends the noise-driven wander direction into the
	// desired direction.
	WanderWeight float64
	// WanderStrength and TiltStrength scale the noise samples into
	// horizontal and vertical wander angles, in radians.
	WanderStrength float64
	TiltStrength   float64
	// CoilAmplitude and CoilFrequency shape the vertical coil flown while
	// orbiting.
	CoilAmplitude float64
	CoilFrequency float64
}

// DefaultSteerConfig returns a configuration that produces a lively,
// smoothly meandering curve at a scale of a few world units per segment.
func DefaultSteerConfig() SteerConfig {
	return SteerConfig{
		MinSegmentLength: 2.0,
		MaxSegmentLength: 3.0,
		MaxTurnRate:      0.6,
		OrbitRadius:      8.0,
		OrbitWeight:      1.0,
		WanderWeight:     0.5,
		WanderStrength:   1.2,
		TiltStrength:     0.6,
		CoilAmplitude:    1.5,
		CoilFrequency:    3.0,
	}
}

const (
	// noiseTimeStep advances the wander noise field per generated segment.
	noiseTimeStep = 0.01
	// coilRampStep moves coil activation toward 1 or 0 per generated segment.
	coilRampStep = 0.15
	// seekRadiusFactor times OrbitRadius separates seeking from orbiting.
	seekRadiusFactor = 1.5
	// radiusGain scales the orbit radius correction per unit of radial error.
	radiusGain = 0.25
)

// worldUp is the axis for horizontal wander and the vertical coil offset.
var worldUp = V3(0.0, 1.0, 0.0)

// Steerer synthesizes consecutive cubic Bézier segments of an endless curve,
// boids-style: it seeks or orbits an optional target, wanders through a
// continuous noise field, and limits its turn rate. It owns all of its
// heading state; one call to [Steerer.Next] emits one segment and advances
// the state.
//
// A Steerer never fails: every call returns a segment whose start point and
// start tangent match the previous segment's end.
type Steerer struct {
	// Config may be mutated between calls to Next.
	Config SteerConfig

	lastPoint      Point3
	lastDir        Vec3
	noiseTime      float64
	orbitPhase     float64
	coilActivation float64
	rng            *rand.Rand
	noise          opensimplex.Noise
}

// NewSteerer returns a Steerer starting at the given point with the given
// heading. A zero heading falls back to the positive x axis. The seed drives
// both the segment length distribution and the wander noise field.
func NewSteerer(cfg SteerConfig, start Point3, heading Vec3, seed int64) *Steerer {
	dir := heading
	if dir.Hypot2() == 0.0 {
		dir = V3(1.0, 0.0, 0.0)
	} else {
		dir = dir.Normalize()
	}
	return &Steerer{
		Config:    cfg,
		lastPoint: start,
		lastDir:   dir,
		rng:       rand.New(rand.NewSource(seed)),
		noise:     opensimplex.New(seed),
	}
}

// Position returns the endpoint of the last emitted segment.
func (s *Steerer) Position() Point3 {
	return s.lastPoint
}

// Direction returns the unit heading at the endpoint of the last emitted
// segment.
func (s *Steerer) Direction() Vec3 {
	return s.lastDir
}

// Next emits the next segment of the curve, steering toward (or around) the
// target if one is given. A nil target means free roam: the curve continues
// straight, bent only by wander. Next mutates the steerer's heading state.
func (s *Steerer) Next(target *Point3) CubicBez3 {
	cfg := &s.Config
	length := cfg.MinSegmentLength + s.rng.Float64()*(cfg.MaxSegmentLength-cfg.MinSegmentLength)

	desired := s.desiredDirection(target, length)

	// Blend in the wander force: rotate the current heading by
	// noise-driven yaw and tilt angles and pull the desired direction
	// toward that wander direction.
	yaw := s.noise.Eval2(s.noiseTime, 0.0) * cfg.WanderStrength
	tilt := s.noise.Eval2(s.noiseTime, 100.0) * cfg.TiltStrength
	s.noiseTime += noiseTimeStep
	wander := s.lastDir.Rotate(worldUp, yaw)
	side := s.lastDir.Cross(worldUp)
	if side.Hypot2() < 1e-12 {
		side = s.lastDir.Perpendicular()
	} else {
		side = side.Normalize()
	}
	wander = wander.Rotate(side, tilt)
	desired = desired.Add(wander.Sub(s.lastDir).Mul(cfg.WanderWeight))
	if desired.Hypot2() < 1e-12 {
		desired = s.lastDir
	} else {
		desired = desired.Normalize()
	}

	// Rotate the heading toward the desired direction, by at most
	// MaxTurnRate radians. An axis-angle rotation, not a linear blend:
	// lerping directions misbehaves at large angular separations.
	angle := math.Acos(min(max(s.lastDir.Dot(desired), -1.0), 1.0))
	newDir := desired
	if angle > cfg.MaxTurnRate {
		axis := s.lastDir.Cross(desired)
		if axis.Hypot2() < 1e-12 {
			axis = s.lastDir.Perpendicular()
		} else {
			axis = axis.Normalize()
		}
		newDir = s.lastDir.Rotate(axis, cfg.MaxTurnRate)
		angle = cfg.MaxTurnRate
	}

	end := s.lastPoint.Translate(newDir.Mul(length))

	// Sharper turns get longer control handles for visual smoothness.
	turnFactor := min(angle/(math.Pi/2.0), 1.0)
	ctrl := length * (0.33 + 0.34*turnFactor)
	seg := CubicBez3{
		P0: s.lastPoint,
		P1: s.lastPoint.Translate(s.lastDir.Mul(ctrl)),
		P2: end.Translate(newDir.Mul(ctrl).Negate()),
		P3: end,
	}
	s.lastPoint = end
	s.lastDir = newDir
	return seg
}

// desiredDirection computes the pre-wander steering desire and advances the
// orbit phase and coil activation.
func (s *Steerer) desiredDirection(target *Point3, length float64) Vec3 {
	cfg := &s.Config
	if target == nil {
		s.coilActivation = max(s.coilActivation-coilRampStep, 0.0)
		return s.lastDir.Mul(cfg.OrbitWeight)
	}
	to := target.Sub(s.lastPoint)
	d := to.Hypot()
	if d > seekRadiusFactor*cfg.OrbitRadius || d < 1e-12 {
		s.coilActivation = max(s.coilActivation-coilRampStep, 0.0)
		if d < 1e-12 {
			return s.lastDir
		}
		return to.Div(d)
	}

	// Orbiting. Advance the phase by the arc fraction this segment travels
	// around the orbit circle and ramp the coil in.
	s.coilActivation = min(s.coilActivation+coilRampStep, 1.0)
	s.orbitPhase += length / cfg.OrbitRadius

	radial := to.Div(d)
	tangential := worldUp.Cross(radial)
	if tangential.Hypot2() < 1e-12 {
		tangential = radial.Perpendicular()
	} else {
		tangential = tangential.Normalize()
	}
	coil := cfg.CoilAmplitude * cfg.CoilFrequency *
		math.Cos(cfg.CoilFrequency*s.orbitPhase) * s.coilActivation
	correction := radiusGain * (d - cfg.OrbitRadius)
	desired := tangential.Add(worldUp.Mul(coil)).Add(radial.Mul(correction))
	if desired.Hypot2() < 1e-12 {
		return s.lastDir
	}
	return desired.Normalize()
}
