package track

import (
	"math"

	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// ProjectViewpoint intersects the gaze ray of a head pose with the wall
// plane z=0. rot holds yaw, pitch and roll in radians; yaw 0 and pitch 0
// look straight at the wall. It returns false when the user looks away
// from the wall.
func ProjectViewpoint(pos, rot vec3.T) (vec2.T, bool) {
	yaw, pitch := rot[0], rot[1]
	dir := vec3.T{
		math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw) * math.Cos(pitch),
	}
	if dir[2] >= 0 || pos[2] < 0 {
		return vec2.T{}, false
	}
	t := pos[2] / -dir[2]
	return vec2.T{pos[0] + t*dir[0], pos[1] + t*dir[1]}, true
}

// ProjectViewpoints fills WallViewpoint of every sample from its pose.
// Samples looking away from the wall keep the previous viewpoint. It
// returns how many samples hit the wall and clears the finalized state.
func (tr *UserTrack) ProjectViewpoints() int {
	hits := 0
	var last vec2.T
	for i := range tr.samples {
		if vp, ok := ProjectViewpoint(tr.samples[i].Pos, tr.samples[i].Rot); ok {
			last = vp
			hits++
		}
		tr.samples[i].WallViewpoint = last
	}
	tr.finalized = false
	return hits
}
