package track

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// HeadSample is one head-tracking frame of one user.
//
// Pos is in meters with the origin at the lower left corner of the wall:
// x points right, y up and z away from the wall. Rot holds yaw, pitch and
// roll in radians. WallViewpoint is the point on the wall the user looks
// at, in wall coordinates. PosPrefixSum is written by UserTrack.Finalize.
type HeadSample struct {
	UserID        int
	Pos           vec3.T
	Rot           vec3.T
	Time          float64
	WallViewpoint vec2.T
	PosPrefixSum  vec3.T
}

// XZ returns the head position projected onto the floor plane.
func (s HeadSample) XZ() vec2.T {
	return vec2.T{s.Pos[0], s.Pos[2]}
}

// TouchEvent is one touch on the wall display.
type TouchEvent struct {
	UserID   int
	Pos      vec2.T
	Time     float64
	Duration float64
}

// End returns the time the touch was released.
func (t TouchEvent) End() float64 {
	return t.Time + t.Duration
}

// Interpolate returns the sample at time t on the straight line between a
// and b. Position, rotation and viewpoint are interpolated linearly; the
// prefix sum is left zero. a and b must belong to the same user.
func Interpolate(a, b HeadSample, t float64) (HeadSample, error) {
	if a.UserID != b.UserID {
		return HeadSample{}, fmt.Errorf("interpolate users %d and %d: %w", a.UserID, b.UserID, ErrUserMismatch)
	}
	part := 0.0
	if b.Time != a.Time {
		part = (t - a.Time) / (b.Time - a.Time)
	}
	return HeadSample{
		UserID:        a.UserID,
		Time:          t,
		Pos:           vec3.Interpolate(&a.Pos, &b.Pos, part),
		Rot:           vec3.Interpolate(&a.Rot, &b.Rot, part),
		WallViewpoint: vec2.Interpolate(&a.WallViewpoint, &b.WallViewpoint, part),
	}, nil
}
