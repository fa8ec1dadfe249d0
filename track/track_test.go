package track

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// linearTrack returns a finalized track with one sample per second whose
// position is (i, 1.7, 2i) and whose viewpoint is (i, 0).
func linearTrack(n int) *UserTrack {
	tr := NewUserTrack(1, float64(n))
	for i := 0; i < n; i++ {
		tr.AddHeadData(HeadSample{
			UserID:        1,
			Pos:           vec3.T{float64(i), 1.7, float64(2 * i)},
			Rot:           vec3.T{0.1 * float64(i), 0, 0},
			Time:          float64(i),
			WallViewpoint: vec2.T{float64(i), 0},
		})
	}
	tr.Finalize()
	return tr
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestTimeToIndex(t *testing.T) {
	tr := linearTrack(20)
	tests := []struct {
		time float64
		want int
	}{
		{0, 0},
		{0.99, 0},
		{1, 1},
		{10.5, 10},
		{20, 20}, // one past the last sample
		{-0.5, -1},
	}
	for _, tt := range tests {
		if got := tr.TimeToIndex(tt.time); got != tt.want {
			t.Errorf("TimeToIndex(%v) = %d, want %d", tt.time, got, tt.want)
		}
	}

	tr = NewUserTrack(0, 10)
	for i := 0; i < 100; i++ {
		tr.AddHeadData(HeadSample{Time: float64(i) / 10})
	}
	if got := tr.TimeToIndex(10); got != 100 {
		t.Errorf("TimeToIndex(duration) = %d, want sample count 100", got)
	}
}

func TestPointQueriesOutOfRange(t *testing.T) {
	tr := linearTrack(20)
	for _, time := range []float64{-1, 20, 25, math.NaN()} {
		_, err := tr.HeadPos(time)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("HeadPos(%v) error = %v, want ErrOutOfRange", time, err)
		}
		var re *RangeError
		if !errors.As(err, &re) {
			t.Fatalf("HeadPos(%v) error %T is not *RangeError", time, err)
		}
		if re.Len != 20 {
			t.Errorf("RangeError.Len = %d, want 20", re.Len)
		}
	}

	empty := NewUserTrack(0, 0)
	if _, err := empty.HeadRot(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("HeadRot on zero-duration track error = %v, want ErrOutOfRange", err)
	}
}

func TestPointQueries(t *testing.T) {
	tr := linearTrack(20)

	pos, err := tr.HeadPos(7.2)
	if err != nil {
		t.Fatal(err)
	}
	if pos != (vec3.T{7, 1.7, 14}) {
		t.Errorf("HeadPos(7.2) = %v, want [7 1.7 14]", pos)
	}

	rot, err := tr.HeadRot(3)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(rot[0], 0.3) {
		t.Errorf("HeadRot(3) = %v, want yaw 0.3", rot)
	}

	vp, err := tr.WallViewpoint(19.9)
	if err != nil {
		t.Fatal(err)
	}
	if vp != (vec2.T{19, 0}) {
		t.Errorf("WallViewpoint(19.9) = %v, want [19 0]", vp)
	}

	// returned values are copies
	pos[0] = 100
	again, _ := tr.HeadPos(7.2)
	if again[0] != 7 {
		t.Errorf("HeadPos result aliases track storage")
	}
}

func TestFinalizePrefixSums(t *testing.T) {
	tr := linearTrack(5)
	want := 0.0
	for i := 0; i < tr.Len(); i++ {
		s, err := tr.Sample(i)
		if err != nil {
			t.Fatal(err)
		}
		want += float64(i)
		if s.PosPrefixSum[0] != want {
			t.Errorf("sample %d prefix x = %v, want %v", i, s.PosPrefixSum[0], want)
		}
	}

	tr.AddHeadData(HeadSample{UserID: 1, Time: 5})
	if tr.Finalized() {
		t.Error("AddHeadData should clear the finalized state")
	}
	if _, err := tr.HeadPosAvg(1, 2); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("HeadPosAvg before Finalize error = %v, want ErrNotFinalized", err)
	}
	if _, err := tr.Sample(6); err == nil {
		t.Error("Sample(6) on 6 samples should fail")
	}
}

func TestHeadPosAvgInterior(t *testing.T) {
	tr := linearTrack(40)
	for _, smoothness := range []int{1, 2, 3, 4, 5, 8} {
		for _, time := range []float64{10, 17.5, 25} {
			got, err := tr.HeadPosAvg(time, smoothness)
			if err != nil {
				t.Fatal(err)
			}
			i := tr.TimeToIndex(time)
			var sum vec3.T
			for j := i - smoothness/2 + 1; j <= i+(smoothness+1)/2; j++ {
				s, _ := tr.Sample(j)
				sum.Add(&s.Pos)
			}
			for k := 0; k < 3; k++ {
				if want := sum[k] / float64(smoothness); !approx(got[k], want) {
					t.Errorf("HeadPosAvg(%v, %d)[%d] = %v, want %v", time, smoothness, k, got[k], want)
				}
			}
		}
	}
}

func TestAvgHugeSmoothness(t *testing.T) {
	tr := linearTrack(20)
	// the window covers (0, 19]: x sums to 190
	for _, smoothness := range []int{40, 1000, math.MaxInt} {
		got, err := tr.HeadPosAvg(5, smoothness)
		if err != nil {
			t.Fatal(err)
		}
		if want := 190 / float64(smoothness); !approx(got[0], want) {
			t.Errorf("HeadPosAvg(5, %d).x = %v, want %v", smoothness, got[0], want)
		}
		if _, err := tr.WallViewpointAvg(5, smoothness); err != nil {
			t.Errorf("WallViewpointAvg(5, %d) error = %v", smoothness, err)
		}
	}
}

func TestHeadPosAvgBoundaryBias(t *testing.T) {
	tr := linearTrack(20)
	// window clamps to (0, 2]: x = (1+2)/4
	got, err := tr.HeadPosAvg(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got[0], 0.75) {
		t.Errorf("HeadPosAvg(0, 4).x = %v, want 0.75", got[0])
	}
	// window clamps to (17, 19]: x = (18+19)/4
	got, err = tr.HeadPosAvg(19, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got[0], 9.25) {
		t.Errorf("HeadPosAvg(19, 4).x = %v, want 9.25", got[0])
	}

	if _, err := tr.HeadPosAvg(5, 0); !errors.Is(err, ErrBadSmoothness) {
		t.Errorf("HeadPosAvg(5, 0) error = %v, want ErrBadSmoothness", err)
	}
	if _, err := tr.HeadPosAvg(20, 4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("HeadPosAvg(duration) error = %v, want ErrOutOfRange", err)
	}
}

func TestWallViewpointAvg(t *testing.T) {
	tr := linearTrack(20)
	tests := []struct {
		time       float64
		smoothness int
		want       float64
	}{
		{5, 4, 7.5},   // (6+7+8+9)/4
		{17, 4, 18.5}, // count shrinks to 2
		{19, 4, 19},   // count clamps to 1 and the window shifts back
	}
	for _, tt := range tests {
		got, err := tr.WallViewpointAvg(tt.time, tt.smoothness)
		if err != nil {
			t.Fatal(err)
		}
		if !approx(got[0], tt.want) {
			t.Errorf("WallViewpointAvg(%v, %d).x = %v, want %v", tt.time, tt.smoothness, got[0], tt.want)
		}
	}
}

func TestDistTravelled(t *testing.T) {
	tr := linearTrack(20)
	step := math.Sqrt(5) // |(1, 2)|

	got, err := tr.DistTravelled(0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 19*step) {
		t.Errorf("DistTravelled(0, 20) = %v, want %v", got, 19*step)
	}

	// The first step is measured from sample 0, not from sample 3.
	got, err = tr.DistTravelled(3, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 5*step) {
		t.Errorf("DistTravelled(3, 6) = %v, want %v", got, 5*step)
	}

	got, err = tr.DistTravelled(4, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("DistTravelled(4, 5) = %v, want 0", got)
	}

	if _, err := tr.DistTravelled(-1, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("DistTravelled(-1, 5) error = %v, want ErrOutOfRange", err)
	}
}

func TestTouches(t *testing.T) {
	tr := NewUserTrack(2, 10)
	for i, time := range []float64{5, 1, 3, 3, 7, 2} {
		tr.AddTouch(TouchEvent{UserID: 2, Pos: vec2.T{float64(i), 0}, Time: time, Duration: 0.2})
	}

	got := tr.Touches(2, 5)
	var times []float64
	for _, touch := range got {
		times = append(times, touch.Time)
	}
	if want := []float64{5, 3, 3, 2}; !slices.Equal(times, want) {
		t.Errorf("Touches(2, 5) times = %v, want %v", times, want)
	}
	if got[0].Pos[0] != 0 || got[3].Pos[0] != 5 {
		t.Errorf("Touches(2, 5) lost insertion order: %v", got)
	}
	if got := tr.Touches(8, 9); len(got) != 0 {
		t.Errorf("Touches(8, 9) = %v, want none", got)
	}
}

func TestTouchesRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewUserTrack(0, 100)
	var all []float64
	for i := 0; i < 200; i++ {
		// integer times make exact boundary hits likely
		time := float64(rng.Intn(100))
		all = append(all, time)
		tr.AddTouch(TouchEvent{Time: time})
	}
	for k := 0; k < 50; k++ {
		a := float64(rng.Intn(100))
		b := a + float64(rng.Intn(30))
		var want []float64
		for _, time := range all {
			if a <= time && time <= b {
				want = append(want, time)
			}
		}
		var got []float64
		for _, touch := range tr.Touches(a, b) {
			got = append(got, touch.Time)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("Touches(%v, %v) = %v, want %v", a, b, got, want)
		}
	}
}

func TestWindowQueries(t *testing.T) {
	tr := linearTrack(20)

	posns, err := tr.HeadXZPosns(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []vec2.T{{2, 4}, {3, 6}, {4, 8}}
	if !slices.Equal(posns, want) {
		t.Errorf("HeadXZPosns(2, 5) = %v, want %v", posns, want)
	}

	// end == duration is the half-open bound and includes the last sample
	viewpts, err := tr.HeadViewpoints(18, 20)
	if err != nil {
		t.Fatal(err)
	}
	if want := []vec2.T{{18, 0}, {19, 0}}; !slices.Equal(viewpts, want) {
		t.Errorf("HeadViewpoints(18, 20) = %v, want %v", viewpts, want)
	}

	if got, err := tr.HeadXZPosns(6, 6); err != nil || len(got) != 0 {
		t.Errorf("HeadXZPosns(6, 6) = %v, %v, want empty", got, err)
	}
	if _, err := tr.HeadXZPosns(0, 21); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("HeadXZPosns(0, 21) error = %v, want ErrOutOfRange", err)
	}
	if _, err := tr.HeadViewpoints(-2, 3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("HeadViewpoints(-2, 3) error = %v, want ErrOutOfRange", err)
	}
}

func TestAvgDistFromWall(t *testing.T) {
	tr := linearTrack(20)
	got, err := tr.AvgDistFromWall(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 3) { // (0+2+4+6)/4
		t.Errorf("AvgDistFromWall(0, 4) = %v, want 3", got)
	}
	if _, err := tr.AvgDistFromWall(4, 4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("AvgDistFromWall on empty window error = %v, want ErrOutOfRange", err)
	}
}

func TestSummarize(t *testing.T) {
	tr := linearTrack(120)
	tr.AddTouch(TouchEvent{UserID: 1, Time: 10})
	tr.AddTouch(TouchEvent{UserID: 1, Time: 70})

	st, err := tr.Summarize(0, 120)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(st.Speed, 119*math.Sqrt(5)/2) {
		t.Errorf("Speed = %v, want %v", st.Speed, 119*math.Sqrt(5)/2)
	}
	if !approx(st.TouchRate, 1) {
		t.Errorf("TouchRate = %v, want 1", st.TouchRate)
	}
	if !approx(st.AvgDistFromWall, 119) {
		t.Errorf("AvgDistFromWall = %v, want 119", st.AvgDistFromWall)
	}
	// z = 2i over i in [0, 120): unbiased variance of 0..n-1 is n(n+1)/12.
	if want := 2 * math.Sqrt(120*121/12.0); math.Abs(st.WallDistStdDev-want) > 1e-9*want {
		t.Errorf("WallDistStdDev = %v, want %v", st.WallDistStdDev, want)
	}
	if _, err := tr.Summarize(5, 5); err == nil {
		t.Error("Summarize on an empty interval should fail")
	}
}
