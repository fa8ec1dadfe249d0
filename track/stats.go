package track

import "github.com/aclements/go-moremath/stats"

// Stats summarizes the activity of one user over a time window.
type Stats struct {
	UserID int
	// Speed is the floor-plane distance travelled in meters per minute.
	Speed float64
	// AvgDistFromWall is the mean head distance from the wall in meters.
	AvgDistFromWall float64
	// WallDistStdDev is the sample standard deviation of the head
	// distance from the wall.
	WallDistStdDev float64
	// TouchRate is the number of touches per minute.
	TouchRate float64
}

// Summarize computes Stats for [start, end].
func (tr *UserTrack) Summarize(start, end float64) (Stats, error) {
	minutes := (end - start) / 60
	if minutes <= 0 {
		return Stats{}, &RangeError{Time: end, Index: tr.TimeToIndex(end), Len: tr.Len()}
	}
	dist, err := tr.DistTravelled(start, end)
	if err != nil {
		return Stats{}, err
	}
	wall, err := tr.AvgDistFromWall(start, end)
	if err != nil {
		return Stats{}, err
	}
	si, ei, _ := tr.window(start, end)
	return Stats{
		UserID:          tr.userID,
		Speed:           dist / minutes,
		AvgDistFromWall: wall,
		WallDistStdDev:  stats.StdDev(tr.wallDists(si, ei)),
		TouchRate:       float64(len(tr.Touches(start, end))) / minutes,
	}, nil
}
