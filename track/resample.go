package track

import (
	"fmt"
	"math"

	"github.com/imld/giant"
)

// Resample returns samples placed on a uniform time grid that starts at
// the first sample and advances by step, so TimeToIndex holds for the
// result. Values between recorded samples are interpolated. samples must
// be sorted by time and belong to one user.
func Resample(samples []HeadSample, step float64) ([]HeadSample, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("track: resample step %g must be positive", step)
	}
	if len(samples) < 2 {
		return append([]HeadSample(nil), samples...), nil
	}
	first := samples[0].Time
	span := samples[len(samples)-1].Time - first
	n := int(math.Floor(span/step)) + 1

	out := make([]HeadSample, 0, n)
	j := 0
	for k := 0; k < n; k++ {
		t := first + float64(k)*step
		for j < len(samples)-2 && samples[j+1].Time < t {
			j++
		}
		s, err := Interpolate(samples[j], samples[j+1], t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	giant.Logger().Debug("track: resampled",
		"user", samples[0].UserID, "in", len(samples), "out", len(out), "step", step)
	return out, nil
}
