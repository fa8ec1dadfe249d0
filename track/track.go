package track

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/imld/giant"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// UserTrack owns the head samples and touches of one user in a session.
type UserTrack struct {
	userID   int
	duration float64

	samples []HeadSample
	touches []TouchEvent

	// vpPrefix[i] is the sum of WallViewpoint over samples[0..i].
	vpPrefix  []vec2.T
	finalized bool
}

// NewUserTrack creates an empty track. duration is the length of the whole
// recording in seconds and drives TimeToIndex.
func NewUserTrack(userID int, duration float64) *UserTrack {
	return &UserTrack{
		userID:   userID,
		duration: duration,
	}
}

// AddHeadData appends a sample. Samples must be added in time order.
func (tr *UserTrack) AddHeadData(s HeadSample) {
	tr.samples = append(tr.samples, s)
	tr.finalized = false
}

// AddTouch appends a touch event.
func (tr *UserTrack) AddTouch(t TouchEvent) {
	tr.touches = append(tr.touches, t)
}

// UserID returns the user this track belongs to.
func (tr *UserTrack) UserID() int { return tr.userID }

// Duration returns the session duration the track maps time against.
func (tr *UserTrack) Duration() float64 { return tr.duration }

// Len returns the number of head samples.
func (tr *UserTrack) Len() int { return len(tr.samples) }

// NumTouches returns the number of touch events.
func (tr *UserTrack) NumTouches() int { return len(tr.touches) }

// Finalized reports whether prefix sums are current.
func (tr *UserTrack) Finalized() bool { return tr.finalized }

// Sample returns a copy of the i-th head sample.
func (tr *UserTrack) Sample(i int) (HeadSample, error) {
	if i < 0 || i >= len(tr.samples) {
		return HeadSample{}, fmt.Errorf("track: sample index %d outside [0, %d)", i, len(tr.samples))
	}
	return tr.samples[i], nil
}

// SetWallViewpoint sets the viewpoint of the i-th sample. Finalize must
// run again before WallViewpointAvg sees the change.
func (tr *UserTrack) SetWallViewpoint(i int, v vec2.T) error {
	if i < 0 || i >= len(tr.samples) {
		return fmt.Errorf("track: sample index %d outside [0, %d)", i, len(tr.samples))
	}
	tr.samples[i].WallViewpoint = v
	tr.finalized = false
	return nil
}

// Finalize computes the inclusive prefix sums of head position and wall
// viewpoint. It is cheap to call again and must be called after the last
// AddHeadData.
func (tr *UserTrack) Finalize() {
	if tr.finalized {
		return
	}
	tr.vpPrefix = make([]vec2.T, len(tr.samples))
	var posSum vec3.T
	var vpSum vec2.T
	for i := range tr.samples {
		posSum.Add(&tr.samples[i].Pos)
		vpSum.Add(&tr.samples[i].WallViewpoint)
		tr.samples[i].PosPrefixSum = posSum
		tr.vpPrefix[i] = vpSum
	}
	tr.finalized = true
	giant.Logger().Debug("track: finalized",
		"user", tr.userID, "samples", len(tr.samples), "touches", len(tr.touches))
}

// TimeToIndex maps a session time to a sample index assuming a constant
// sample rate. The result is not clamped: TimeToIndex(Duration()) == Len(),
// one past the last sample.
func (tr *UserTrack) TimeToIndex(t float64) int {
	return int(math.Floor(t * float64(len(tr.samples)) / tr.duration))
}

// index resolves t to a valid sample index.
func (tr *UserTrack) index(t float64) (int, error) {
	n := len(tr.samples)
	if tr.duration <= 0 || math.IsNaN(t) {
		return -1, &RangeError{Time: t, Index: -1, Len: n}
	}
	i := tr.TimeToIndex(t)
	if i < 0 || i >= n {
		return i, &RangeError{Time: t, Index: i, Len: n}
	}
	return i, nil
}

// window resolves [start, end] to the half-open index range
// [TimeToIndex(start), TimeToIndex(end)). Both times must lie within
// [0, Duration()].
func (tr *UserTrack) window(start, end float64) (int, int, error) {
	n := len(tr.samples)
	if tr.duration <= 0 {
		return 0, 0, &RangeError{Time: start, Index: -1, Len: n}
	}
	for _, t := range []float64{start, end} {
		if !(t >= 0 && t <= tr.duration) {
			return 0, 0, &RangeError{Time: t, Index: tr.TimeToIndex(t), Len: n}
		}
	}
	return tr.TimeToIndex(start), tr.TimeToIndex(end), nil
}

// HeadPos returns the head position at time t.
func (tr *UserTrack) HeadPos(t float64) (vec3.T, error) {
	i, err := tr.index(t)
	if err != nil {
		return vec3.T{}, err
	}
	return tr.samples[i].Pos, nil
}

// HeadRot returns the head orientation at time t.
func (tr *UserTrack) HeadRot(t float64) (vec3.T, error) {
	i, err := tr.index(t)
	if err != nil {
		return vec3.T{}, err
	}
	return tr.samples[i].Rot, nil
}

// WallViewpoint returns the wall viewpoint at time t.
func (tr *UserTrack) WallViewpoint(t float64) (vec2.T, error) {
	i, err := tr.index(t)
	if err != nil {
		return vec2.T{}, err
	}
	return tr.samples[i].WallViewpoint, nil
}

// HeadPosAvg returns the head position at time t averaged over smoothness
// samples using the prefix sums.
//
// The window is (i-smoothness/2, i+(smoothness+1)/2] clamped to the
// recorded samples, but the divisor stays smoothness. Near the start and
// end of the session the result is therefore biased towards the origin.
func (tr *UserTrack) HeadPosAvg(t float64, smoothness int) (vec3.T, error) {
	if smoothness <= 0 {
		return vec3.T{}, ErrBadSmoothness
	}
	if !tr.finalized {
		return vec3.T{}, ErrNotFinalized
	}
	i, err := tr.index(t)
	if err != nil {
		return vec3.T{}, err
	}
	// windows wider than twice the track clamp to the whole track anyway
	w := min(smoothness, 2*len(tr.samples))
	start := max(0, i-w/2)
	end := min(len(tr.samples)-1, i+(w+1)/2)
	sum := vec3.Sub(&tr.samples[end].PosPrefixSum, &tr.samples[start].PosPrefixSum)
	return sum.Scaled(1 / float64(smoothness)), nil
}

// WallViewpointAvg returns the wall viewpoint at time t averaged over the
// following smoothness samples. The window is shortened near the end of
// the session and shifted back so it stays inside the recording.
func (tr *UserTrack) WallViewpointAvg(t float64, smoothness int) (vec2.T, error) {
	if smoothness <= 0 {
		return vec2.T{}, ErrBadSmoothness
	}
	if !tr.finalized {
		return vec2.T{}, ErrNotFinalized
	}
	i, err := tr.index(t)
	if err != nil {
		return vec2.T{}, err
	}
	n := len(tr.samples)
	if n < 2 {
		return tr.samples[i].WallViewpoint, nil
	}
	count := min(smoothness, n-i-1)
	if count <= 0 {
		count = 1
	}
	i = min(max(0, i), n-count-1)
	sum := vec2.Sub(&tr.vpPrefix[i+count], &tr.vpPrefix[i])
	return sum.Scaled(1 / float64(count)), nil
}

// DistTravelled returns the distance the head moved on the floor plane
// between start and end.
//
// The walk covers samples TimeToIndex(start)+1 up to TimeToIndex(end)-1,
// and the first step is measured from sample 0 rather than from the sample
// at start. For windows that do not begin at the session start this adds
// the distance between sample 0 and the first sample in the window.
func (tr *UserTrack) DistTravelled(start, end float64) (float64, error) {
	si, ei, err := tr.window(start, end)
	if err != nil {
		return 0, err
	}
	if len(tr.samples) == 0 {
		return 0, &RangeError{Time: start, Index: si, Len: 0}
	}
	dist := 0.0
	pos := tr.samples[0].XZ()
	for i := si + 1; i < ei; i++ {
		old := pos
		pos = tr.samples[i].XZ()
		step := vec2.Sub(&pos, &old)
		dist += step.Length()
	}
	return dist, nil
}

// Touches returns the touches that started within [start, end], in the
// order they were added.
func (tr *UserTrack) Touches(start, end float64) []TouchEvent {
	var touches []TouchEvent
	for _, t := range tr.touches {
		if start <= t.Time && t.Time <= end {
			touches = append(touches, t)
		}
	}
	return touches
}

// HeadXZPosns returns the floor-plane head positions of the samples in
// [TimeToIndex(start), TimeToIndex(end)).
func (tr *UserTrack) HeadXZPosns(start, end float64) ([]vec2.T, error) {
	si, ei, err := tr.window(start, end)
	if err != nil {
		return nil, err
	}
	posns := make([]vec2.T, 0, max(0, ei-si))
	for i := si; i < ei; i++ {
		posns = append(posns, tr.samples[i].XZ())
	}
	return posns, nil
}

// HeadViewpoints returns the wall viewpoints of the samples in
// [TimeToIndex(start), TimeToIndex(end)).
func (tr *UserTrack) HeadViewpoints(start, end float64) ([]vec2.T, error) {
	si, ei, err := tr.window(start, end)
	if err != nil {
		return nil, err
	}
	viewpts := make([]vec2.T, 0, max(0, ei-si))
	for i := si; i < ei; i++ {
		viewpts = append(viewpts, tr.samples[i].WallViewpoint)
	}
	return viewpts, nil
}

// AvgDistFromWall returns the mean head distance from the wall (z) over
// the samples in [TimeToIndex(start), TimeToIndex(end)).
func (tr *UserTrack) AvgDistFromWall(start, end float64) (float64, error) {
	si, ei, err := tr.window(start, end)
	if err != nil {
		return 0, err
	}
	if ei <= si {
		return 0, &RangeError{Time: end, Index: ei, Len: len(tr.samples)}
	}
	return stats.Mean(tr.wallDists(si, ei)), nil
}

func (tr *UserTrack) wallDists(si, ei int) []float64 {
	zs := make([]float64, ei-si)
	for i := range zs {
		zs[i] = tr.samples[si+i].Pos[2]
	}
	return zs
}
