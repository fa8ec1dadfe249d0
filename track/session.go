package track

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/imld/giant"
)

// Session groups the tracks of all users of one recording. All tracks
// share the session start time and duration.
type Session struct {
	start    float64
	duration float64
	tracks   map[int]*UserTrack
}

// NewSession creates an empty session. start is the absolute time of the
// first sample, duration the length of the recording.
func NewSession(start, duration float64) *Session {
	return &Session{
		start:    start,
		duration: duration,
		tracks:   make(map[int]*UserTrack),
	}
}

// StartTime returns the absolute time session times are relative to.
func (s *Session) StartTime() float64 { return s.start }

// Duration returns the length of the recording.
func (s *Session) Duration() float64 { return s.duration }

// Track returns the track of userID, creating it on first use.
func (s *Session) Track(userID int) *UserTrack {
	tr, ok := s.tracks[userID]
	if !ok {
		tr = NewUserTrack(userID, s.duration)
		s.tracks[userID] = tr
	}
	return tr
}

// Users returns all tracks ordered by user id.
func (s *Session) Users() []*UserTrack {
	users := make([]*UserTrack, 0, len(s.tracks))
	for _, tr := range s.tracks {
		users = append(users, tr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].userID < users[j].userID })
	return users
}

// Finalize finalizes every track.
func (s *Session) Finalize() {
	for _, tr := range s.tracks {
		tr.Finalize()
	}
}

// SessionFromSamples builds a finalized session from absolute-time
// recordings. The session starts at the earliest head sample and lasts
// until the latest one; all times are rebased to the session start.
// Head samples are sorted by time per user and samples repeating a
// timestamp are dropped, keeping the first. Touches of users without head
// samples are dropped.
func SessionFromSamples(heads []HeadSample, touches []TouchEvent) (*Session, error) {
	if len(heads) == 0 {
		return nil, ErrNoSamples
	}
	first, last := math.Inf(1), math.Inf(-1)
	for _, h := range heads {
		first = math.Min(first, h.Time)
		last = math.Max(last, h.Time)
	}
	if last <= first {
		return nil, fmt.Errorf("track: session of %d samples spans no time: %w", len(heads), ErrNoSamples)
	}

	byUser := make(map[int][]HeadSample)
	for _, h := range heads {
		h.Time -= first
		byUser[h.UserID] = append(byUser[h.UserID], h)
	}

	s := NewSession(first, last-first)
	for _, id := range sortedKeys(byUser) {
		samples := byUser[id]
		slices.SortStableFunc(samples, func(a, b HeadSample) int {
			switch {
			case a.Time < b.Time:
				return -1
			case a.Time > b.Time:
				return 1
			}
			return 0
		})
		tr := s.Track(id)
		for i, h := range samples {
			if i > 0 && h.Time == samples[i-1].Time {
				continue
			}
			tr.AddHeadData(h)
		}
	}
	kept := 0
	for _, t := range touches {
		if _, ok := byUser[t.UserID]; !ok {
			giant.Logger().Warn("track: dropping touch of user without head samples",
				"user", t.UserID, "time", t.Time)
			continue
		}
		t.Time -= first
		s.Track(t.UserID).AddTouch(t)
		kept++
	}
	s.Finalize()

	giant.Logger().Debug("track: session built",
		"users", len(s.tracks), "duration", s.duration, "touches", kept)
	return s, nil
}

func sortedKeys(m map[int][]HeadSample) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
