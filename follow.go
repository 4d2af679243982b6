package spine

import "github.com/charmbracelet/harmonica"

// Follower feeds a smoothed steering target to an [Endless] manager. Raw
// pointer or ray intersections jitter frame to frame; the follower runs each
// coordinate through a damped harmonic spring so the steerer sees a goal
// that moves continuously.
type Follower struct {
	spring harmonica.Spring
	pos    Vec3
	vel    Vec3
	goal   Point3
	active bool
}

// NewFollower returns a follower stepped fps times per second, with the
// given spring angular frequency and damping ratio. A damping ratio of 1 is
// critically damped; less overshoots, more settles slower.
func NewFollower(fps int, frequency, damping float64) *Follower {
	return &Follower{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// SetGoal updates the raw target the smoothed position chases. The first
// goal after construction or [Follower.Release] snaps the smoothed position
// so the curve does not sweep in from a stale location.
func (f *Follower) SetGoal(pt Point3) {
	if !f.active {
		f.pos = Vec3(pt)
		f.vel = Vec3{}
		f.active = true
	}
	f.goal = pt
}

// Release drops the goal; subsequent steps clear the manager's target,
// returning the curve to free roam.
func (f *Follower) Release() {
	f.active = false
}

// Goal reports the current raw goal and whether the follower is engaged.
func (f *Follower) Goal() (Point3, bool) {
	return f.goal, f.active
}

// Step advances the spring one frame and pushes the smoothed target into the
// manager. Call it once per animation tick, before
// [Endless.ConfigureStartEnd].
func (f *Follower) Step(e *Endless) {
	if !f.active {
		e.ClearTarget()
		return
	}
	f.pos.X, f.vel.X = f.spring.Update(f.pos.X, f.vel.X, f.goal.X)
	f.pos.Y, f.vel.Y = f.spring.Update(f.pos.Y, f.vel.Y, f.goal.Y)
	f.pos.Z, f.vel.Z = f.spring.Update(f.pos.Z, f.vel.Z, f.goal.Z)
	e.SetTarget(Point3(f.pos))
}

// Target returns the current smoothed target position.
func (f *Follower) Target() Point3 {
	return Point3(f.pos)
}
