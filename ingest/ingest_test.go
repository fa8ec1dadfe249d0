package ingest

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ungerik/go3d/float64/vec3"
)

const headLog = `time,user,pos,rot
15:12:15.120,1,"(1.5, 1.65, -2.0)","(0.1, -0.05, 0.0)"
15:12:15.620,2,"(-0.5, 1.70, -1.0)","(0.0, 0.0, 0.0)"
# tracker restarted
15:12:16.000,1,"(1.0, 1.60, -2.5)","(0.2, 0.0, 0.0)"
`

const touchLog = `user,x,y,time,duration
0,1200.5,300,1458223935.5,0.25
3,7000,2000,1458223940,1.5
`

func TestReadHeads(t *testing.T) {
	cfg := Config{Date: "2016-03-17", Location: time.UTC}
	samples, err := ReadHeads(strings.NewReader(headLog), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}

	s := samples[0]
	if s.UserID != 0 {
		t.Errorf("UserID = %d, want 0 (1-based in the log)", s.UserID)
	}
	if s.Pos != (vec3.T{-1.5, 1.65, 2.0}) {
		t.Errorf("Pos = %v, want x and z negated", s.Pos)
	}
	if s.Rot != (vec3.T{0.1, -0.05, 0}) {
		t.Errorf("Rot = %v, want unchanged", s.Rot)
	}
	want := float64(time.Date(2016, 3, 17, 15, 12, 15, 0, time.UTC).Unix()) + 0.12
	if math.Abs(s.Time-want) > 1e-6 {
		t.Errorf("Time = %f, want %f", s.Time, want)
	}
	if samples[1].UserID != 1 || samples[2].Time-samples[0].Time < 0.879 {
		t.Errorf("unexpected later samples: %+v", samples[1:])
	}
}

func TestReadHeadsDegrees(t *testing.T) {
	row := `10:00:00.000,1,"(0, 0, 0)","(90, 0, 0)"`
	samples, err := ReadHeads(strings.NewReader(row), Config{Date: "2016-03-17", Degrees: true})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(samples[0].Rot[0]-math.Pi/2) > 1e-12 {
		t.Errorf("yaw = %v, want pi/2", samples[0].Rot[0])
	}
}

func TestReadHeadsErrors(t *testing.T) {
	tests := []struct {
		name string
		log  string
		line int
	}{
		{"bad tuple", "10:00:00.000,1,\"(0, 0)\",\"(0, 0, 0)\"\n", 1},
		{"bad user", "10:00:00.000,x,\"(0, 0, 0)\",\"(0, 0, 0)\"\n", 1},
		{"bad time", "header\n99:00:00.000,1,\"(0, 0, 0)\",\"(0, 0, 0)\"\n", 2},
		{"short row", "10:00:00.000,1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeads(strings.NewReader(tt.log), Config{Date: "2016-03-17"})
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}

	_, err := ReadHeads(strings.NewReader("10:00:00,1,\"(0, 0)\",\"(0, 0, 0)\"\n"), Config{Date: "2016-03-17"})
	if !errors.Is(err, ErrBadTuple) {
		t.Errorf("error = %v, want ErrBadTuple", err)
	}
}

func TestReadHeadsSkipInvalid(t *testing.T) {
	log := headLog + "15:12:17.000,1,\"(broken)\",\"(0, 0, 0)\"\n"
	samples, err := ReadHeads(strings.NewReader(log), Config{Date: "2016-03-17", SkipInvalid: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Errorf("len(samples) = %d, want 3 with the broken row skipped", len(samples))
	}
}

func TestReadTouches(t *testing.T) {
	touches, err := ReadTouches(strings.NewReader(touchLog), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(touches) != 2 {
		t.Fatalf("len(touches) = %d, want 2", len(touches))
	}
	got := touches[0]
	if got.UserID != 0 || got.Pos[0] != 1200.5 || got.Pos[1] != 300 || got.Time != 1458223935.5 || got.Duration != 0.25 {
		t.Errorf("touches[0] = %+v", got)
	}
	if touches[1].UserID != 3 || touches[1].End() != 1458223941.5 {
		t.Errorf("touches[1] = %+v", touches[1])
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	headPath := filepath.Join(dir, "head.csv")
	touchPath := filepath.Join(dir, "touch.csv")
	if err := os.WriteFile(headPath, []byte(headLog), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(touchPath, []byte(touchLog), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Config{Date: "2016-03-17"}
	if heads, err := ReadHeadsFile(headPath, cfg); err != nil || len(heads) != 3 {
		t.Errorf("ReadHeadsFile = %d samples, %v", len(heads), err)
	}
	if touches, err := ReadTouchesFile(touchPath, cfg); err != nil || len(touches) != 2 {
		t.Errorf("ReadTouchesFile = %d touches, %v", len(touches), err)
	}
	if _, err := ReadHeadsFile(filepath.Join(dir, "missing.csv"), cfg); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
