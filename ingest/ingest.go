// Package ingest reads recorded optitrack head logs and touch logs.
//
// Head log rows are
//
//	time,user,pos,rot
//	15:12:15.120,1,"(1.20, 1.65, -2.31)","(0.10, -0.05, 0.00)"
//
// with a wall-clock time of day, a 1-based user id and parenthesized
// position (meters) and rotation (yaw, pitch, roll) tuples. The tracker
// faces the wall, so x and z are negated to get the wall frame used by
// package track: x right, y up, z away from the wall.
//
// Touch log rows are
//
//	user,x,y,time,duration
//
// with a 0-based user id, wall pixel position, epoch time and duration in
// seconds. Rows whose first field is not numeric are treated as headers.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/imld/giant"
	"github.com/imld/giant/track"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// ErrBadTuple is returned for malformed "(a, b, c)" fields.
var ErrBadTuple = errors.New("ingest: malformed tuple")

// ParseError reports the input line a row failed on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ingest: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Config controls how logs are parsed.
type Config struct {
	// Date of the recording as YYYY-MM-DD; head logs only carry the time
	// of day.
	Date string
	// Location the wall clock ran in. Nil means time.Local.
	Location *time.Location
	// Degrees marks head rotations given in degrees; they are converted
	// to radians.
	Degrees bool
	// SkipInvalid drops malformed rows with a warning instead of failing.
	SkipInvalid bool
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// ReadHeads parses a head log.
func ReadHeads(r io.Reader, cfg Config) ([]track.HeadSample, error) {
	var samples []track.HeadSample
	err := eachRow(r, 4, cfg, func(rec []string) error {
		s, err := parseHead(rec, cfg)
		if err != nil {
			return err
		}
		samples = append(samples, s)
		return nil
	})
	return samples, err
}

// ReadTouches parses a touch log.
func ReadTouches(r io.Reader, cfg Config) ([]track.TouchEvent, error) {
	var touches []track.TouchEvent
	err := eachRow(r, 5, cfg, func(rec []string) error {
		t, err := parseTouch(rec)
		if err != nil {
			return err
		}
		touches = append(touches, t)
		return nil
	})
	return touches, err
}

// ReadHeadsFile parses the head log at path.
func ReadHeadsFile(path string, cfg Config) ([]track.HeadSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open head log: %w", err)
	}
	defer f.Close()
	return ReadHeads(f, cfg)
}

// ReadTouchesFile parses the touch log at path.
func ReadTouchesFile(path string, cfg Config) ([]track.TouchEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open touch log: %w", err)
	}
	defer f.Close()
	return ReadTouches(f, cfg)
}

func eachRow(r io.Reader, fields int, cfg Config, fn func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return &ParseError{Line: pe.Line, Err: pe.Err}
			}
			return err
		}
		line, _ := cr.FieldPos(0)
		if isHeader(rec) {
			continue
		}
		if len(rec) < fields {
			err = fmt.Errorf("got %d fields, want %d", len(rec), fields)
		} else {
			err = fn(rec)
		}
		if err != nil {
			if cfg.SkipInvalid {
				giant.Logger().Warn("ingest: skipping row", "line", line, "err", err)
				continue
			}
			return &ParseError{Line: line, Err: err}
		}
	}
}

func isHeader(rec []string) bool {
	if len(rec) == 0 || rec[0] == "" {
		return true
	}
	c := rec[0][0]
	return !(c >= '0' && c <= '9') && c != '-' && c != '.'
}

func parseHead(rec []string, cfg Config) (track.HeadSample, error) {
	at, err := time.ParseInLocation("2006-01-02 15:04:05", cfg.Date+" "+rec[0], cfg.location())
	if err != nil {
		return track.HeadSample{}, fmt.Errorf("time: %w", err)
	}
	user, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil {
		return track.HeadSample{}, fmt.Errorf("user: %w", err)
	}
	pos, err := parseTuple(rec[2])
	if err != nil {
		return track.HeadSample{}, fmt.Errorf("pos: %w", err)
	}
	rot, err := parseTuple(rec[3])
	if err != nil {
		return track.HeadSample{}, fmt.Errorf("rot: %w", err)
	}
	if cfg.Degrees {
		for i := range rot {
			rot[i] *= math.Pi / 180
		}
	}
	pos[0], pos[2] = -pos[0], -pos[2]
	return track.HeadSample{
		UserID: user - 1,
		Pos:    pos,
		Rot:    rot,
		Time:   float64(at.UnixNano()) / 1e9,
	}, nil
}

func parseTouch(rec []string) (track.TouchEvent, error) {
	user, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return track.TouchEvent{}, fmt.Errorf("user: %w", err)
	}
	var vals [4]float64
	for i := range vals {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return track.TouchEvent{}, fmt.Errorf("field %d: %w", i+2, err)
		}
	}
	return track.TouchEvent{
		UserID:   user,
		Pos:      vec2.T{vals[0], vals[1]},
		Time:     vals[2],
		Duration: vals[3],
	}, nil
}

func parseTuple(s string) (vec3.T, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vec3.T{}, fmt.Errorf("%w: %q", ErrBadTuple, s)
	}
	var v vec3.T
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vec3.T{}, fmt.Errorf("%w: %q", ErrBadTuple, s)
		}
		v[i] = f
	}
	return v, nil
}
