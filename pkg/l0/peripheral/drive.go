package peripheral

import (
	"math"
	"sync"
	"time"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

// Drive emulates the Motion messages of a differential drive board,
// integrating odometry from the velocity reference.
type Drive struct {
	// Now is the clock, time.Now if not set.
	Now func() time.Time

	unicycle catalog.UnicycleMsg
	state    catalog.MotionStateMsg
	ref      catalog.VelocityMsg
	pose     catalog.CoordinateMsg
	last     time.Time
	lock     sync.Mutex
}

// NewDrive creates a Drive with unicycle parameters.
func NewDrive(unicycle catalog.UnicycleMsg) *Drive {
	return &Drive{unicycle: unicycle}
}

// Request implements Service.
func (d *Drive) Request(w comm.FrameWriter, command byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.estimate()
	var v interface{}
	switch command {
	case catalog.MotionCoordinate:
		v = &d.pose
	case catalog.MotionVelocity:
		vel := d.velocity()
		v = &vel
	case catalog.MotionVelocityRef:
		v = &d.ref
	case catalog.MotionParameterUnicycle:
		v = &d.unicycle
	case catalog.MotionState:
		v = &d.state
	default:
		return ErrUnsupported
	}
	return reply(w, catalog.Motion, command, v)
}

// Receive implements Service.
func (d *Drive) Receive(w comm.FrameWriter, command byte, payload []byte) (bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.estimate()
	switch command {
	case catalog.MotionCoordinate:
		return false, catalog.Unmarshal(payload, &d.pose)
	case catalog.MotionVelocityRef:
		return false, catalog.Unmarshal(payload, &d.ref)
	case catalog.MotionParameterUnicycle:
		return false, catalog.Unmarshal(payload, &d.unicycle)
	case catalog.MotionState:
		return false, catalog.Unmarshal(payload, &d.state)
	}
	return false, ErrUnsupported
}

// Pose returns the current odometry.
func (d *Drive) Pose() catalog.CoordinateMsg {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.estimate()
	return d.pose
}

func (d *Drive) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Drive) velocity() catalog.VelocityMsg {
	if d.state != catalog.MotionStateVelocity {
		return catalog.VelocityMsg{}
	}
	return d.ref
}

// estimate moves the pose along the arc driven since the last estimate.
func (d *Drive) estimate() {
	now := d.now()
	last := d.last
	d.last = now
	if last.IsZero() {
		return
	}
	vel := d.velocity()
	secs := now.Sub(last).Seconds()
	if secs <= 0 || (vel.V == 0 && vel.W == 0) {
		return
	}
	v, w, theta := float64(vel.V), float64(vel.W), float64(d.pose.Theta)
	dist := v * secs
	if w == 0 {
		d.pose.X += float32(dist * math.Cos(theta))
		d.pose.Y += float32(dist * math.Sin(theta))
	} else {
		next := theta + w*secs
		d.pose.X += float32(v / w * (math.Sin(next) - math.Sin(theta)))
		d.pose.Y -= float32(v / w * (math.Cos(next) - math.Cos(theta)))
		theta = next
	}
	d.pose.Theta = float32(normalizeRadians(theta))
	d.pose.Space += float32(math.Abs(dist))
}

func normalizeRadians(r float64) float64 {
	r = math.Remainder(r, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r < -math.Pi {
		r += 2 * math.Pi
	}
	return r
}
