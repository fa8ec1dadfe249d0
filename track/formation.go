package track

import (
	"fmt"
	"math"

	"github.com/imld/giant"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// FormationParams configures F-formation detection.
type FormationParams struct {
	// MaxDistance is the largest floor-plane head distance in meters.
	MaxDistance float64
	// MaxAngle is the largest angle in radians between a user's gaze and
	// the direction towards the other user.
	MaxAngle float64
	// MinDuration is the shortest formation reported, in seconds.
	MinDuration float64
	// Step is the time between checks in seconds.
	Step float64
	// Smoothness averages head positions over this many samples.
	// Values up to 1 use the raw positions.
	Smoothness int
}

// DefaultFormationParams returns the thresholds of a conversation group:
// within 1 m, facing each other within 90°, for at least 10 s.
func DefaultFormationParams() FormationParams {
	return FormationParams{
		MaxDistance: 1,
		MaxAngle:    math.Pi / 2,
		MinDuration: 10,
		Step:        0.1,
		Smoothness:  1,
	}
}

// Formation is an interval in which two users stood together facing each
// other. UserA < UserB; times are session times with End exclusive.
type Formation struct {
	UserA, UserB int
	Start, End   float64
}

// Duration returns the length of f in seconds.
func (f Formation) Duration() float64 { return f.End - f.Start }

// GazeXZ returns the unit floor-plane gaze direction of a head rotation
// (yaw, pitch, roll). Yaw 0 looks towards the wall (-z).
func GazeXZ(rot vec3.T) vec2.T {
	return vec2.T{math.Sin(rot[0]), -math.Cos(rot[0])}
}

// InFormation reports whether two users at floor positions p1, p2 with
// gaze directions g1, g2 form an F-formation: they are at most maxDist
// apart and each looks at most maxAngle away from the other.
func InFormation(p1, p2, g1, g2 vec2.T, maxDist, maxAngle float64) bool {
	d12 := vec2.Sub(&p2, &p1)
	if d12.Length() > maxDist {
		return false
	}
	d21 := d12.Scaled(-1)
	return angle(g1, d12) <= maxAngle && angle(g2, d21) <= maxAngle
}

// angle returns the angle between a and b, or 0 if either is zero.
func angle(a, b vec2.T) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := vec2.Dot(&a, &b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// Formations scans the session in steps of p.Step and returns every
// interval of at least p.MinDuration in which a pair of users was in
// formation. Results are ordered by user pair, then by start time.
// The session must be finalized when p.Smoothness > 1.
func (s *Session) Formations(p FormationParams) ([]Formation, error) {
	if !(p.Step > 0) {
		return nil, fmt.Errorf("track: formation step %g must be positive", p.Step)
	}
	users := s.Users()
	var found []Formation
	for i, a := range users {
		for _, b := range users[i+1:] {
			fs, err := s.pairFormations(a, b, p)
			if err != nil {
				return nil, err
			}
			found = append(found, fs...)
		}
	}
	giant.Logger().Debug("track: formations detected",
		"users", len(users), "formations", len(found))
	return found, nil
}

func (s *Session) pairFormations(a, b *UserTrack, p FormationParams) ([]Formation, error) {
	var found []Formation
	start, inside := 0.0, false
	closeAt := func(end float64) {
		if inside && end-start >= p.MinDuration {
			found = append(found, Formation{UserA: a.userID, UserB: b.userID, Start: start, End: end})
		}
		inside = false
	}

	for k := 0; ; k++ {
		t := float64(k) * p.Step
		if t >= s.duration {
			closeAt(t)
			break
		}
		pa, ga, err := a.floorPose(t, p.Smoothness)
		if err != nil {
			return nil, err
		}
		pb, gb, err := b.floorPose(t, p.Smoothness)
		if err != nil {
			return nil, err
		}
		switch ok := InFormation(pa, pb, ga, gb, p.MaxDistance, p.MaxAngle); {
		case ok && !inside:
			start, inside = t, true
		case !ok:
			closeAt(t)
		}
	}
	return found, nil
}

// floorPose returns the floor-plane head position and gaze at t.
func (tr *UserTrack) floorPose(t float64, smoothness int) (vec2.T, vec2.T, error) {
	var pos vec3.T
	var err error
	if smoothness > 1 {
		pos, err = tr.HeadPosAvg(t, smoothness)
	} else {
		pos, err = tr.HeadPos(t)
	}
	if err != nil {
		return vec2.T{}, vec2.T{}, err
	}
	rot, err := tr.HeadRot(t)
	if err != nil {
		return vec2.T{}, vec2.T{}, err
	}
	return vec2.T{pos[0], pos[2]}, GazeXZ(rot), nil
}
