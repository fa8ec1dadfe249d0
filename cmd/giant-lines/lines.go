package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/imld/giant"
	"github.com/imld/giant/export"
	"github.com/imld/giant/ingest"
	"github.com/imld/giant/plot"
	"github.com/imld/giant/preview"
	"github.com/imld/giant/ribbon"
	"github.com/imld/giant/track"
)

const labelMargin = 8

type config struct {
	headPath, touchPath string
	date                string
	step                float64
	width, rowHeight    int
	maxWidth            float64
	smoothness          int
	start, end          float64
	out                 string
	parquetDir          string
	bg, highlight       giant.RGBA8
}

func run(cfg config, stdout io.Writer) error {
	sessionID := uuid.NewString()
	s, err := loadSession(cfg)
	if err != nil {
		return err
	}
	giant.Logger().Info("giant-lines: session loaded",
		"id", sessionID, "users", len(s.Users()), "duration", s.Duration())

	start, end := cfg.start, cfg.end
	if end <= 0 || end > s.Duration() {
		end = s.Duration()
	}
	if start < 0 || start >= end {
		return fmt.Errorf("window [%g, %g] is empty", start, end)
	}

	if err := render(cfg, s, start, end); err != nil {
		return err
	}
	if cfg.parquetDir != "" {
		if err := exportSession(cfg.parquetDir, sessionID, s); err != nil {
			return err
		}
	}
	return summarize(stdout, sessionID, s, start, end, cfg.step)
}

// loadSession reads the logs and builds a session on a uniform time grid
// with projected wall viewpoints.
func loadSession(cfg config) (*track.Session, error) {
	icfg := ingest.Config{Date: cfg.date, SkipInvalid: true}
	heads, err := ingest.ReadHeadsFile(cfg.headPath, icfg)
	if err != nil {
		return nil, err
	}
	var touches []track.TouchEvent
	if cfg.touchPath != "" {
		if touches, err = ingest.ReadTouchesFile(cfg.touchPath, icfg); err != nil {
			return nil, err
		}
	}

	byUser := make(map[int][]track.HeadSample)
	for _, h := range heads {
		byUser[h.UserID] = append(byUser[h.UserID], h)
	}
	var grid []track.HeadSample
	for _, samples := range byUser {
		slices.SortStableFunc(samples, func(a, b track.HeadSample) int {
			switch {
			case a.Time < b.Time:
				return -1
			case a.Time > b.Time:
				return 1
			}
			return 0
		})
		r, err := track.Resample(samples, cfg.step)
		if err != nil {
			return nil, err
		}
		grid = append(grid, r...)
	}

	s, err := track.SessionFromSamples(grid, touches)
	if err != nil {
		return nil, err
	}
	for _, tr := range s.Users() {
		tr.ProjectViewpoints()
	}
	s.Finalize()
	return s, nil
}

// render draws one labelled row per user and writes the PNG.
func render(cfg config, s *track.Session, start, end float64) error {
	users := s.Users()
	labelW := preview.LabelWidth("User 00") + 2*labelMargin
	if cfg.width <= labelW {
		return fmt.Errorf("image width %d leaves no room for lines", cfg.width)
	}
	img := preview.NewCanvas(cfg.width, cfg.rowHeight*len(users), cfg.bg)

	line := plot.DefaultLine(float64(cfg.width-labelW), float64(cfg.rowHeight))
	line.Smoothness = cfg.smoothness
	for row, tr := range users {
		color := giant.UserColor(tr.UserID())
		b := ribbon.New(
			ribbon.WithMaxWidth(cfg.maxWidth),
			ribbon.WithColor(color),
			ribbon.WithHighlightColor(cfg.highlight),
		)
		if err := line.Build(b, tr, start, end); err != nil {
			return fmt.Errorf("user %d: %w", tr.UserID()+1, err)
		}
		top := row * cfg.rowHeight
		preview.Label(img, labelMargin, top+cfg.rowHeight/2, fmt.Sprintf("User %d", tr.UserID()+1), color)
		n := preview.Render(img, b.Mesh(), giant.Pt(float64(labelW), float64(top)))
		giant.Logger().Debug("giant-lines: row rendered", "user", tr.UserID(), "triangles", n)
	}
	return preview.SavePNG(cfg.out, img)
}

func exportSession(dir, sessionID string, s *track.Session) error {
	heads, err := export.WriteHeads(filepath.Join(dir, "head.parquet"), sessionID, s)
	if err != nil {
		return err
	}
	touches, err := export.WriteTouches(filepath.Join(dir, "touch.parquet"), sessionID, s)
	if err != nil {
		return err
	}
	giant.Logger().Info("giant-lines: exported", "dir", dir, "heads", heads, "touches", touches)
	return nil
}

func summarize(w io.Writer, sessionID string, s *track.Session, start, end, step float64) error {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Session %s: %d users, %.1f s\n", sessionID, len(s.Users()), s.Duration())
	p.Fprintf(w, "%-8s %12s %12s %12s %12s %10s\n", "user", "samples", "m/min", "wall dist", "wall stddev", "touch/min")
	for _, tr := range s.Users() {
		st, err := tr.Summarize(start, end)
		if err != nil {
			return fmt.Errorf("user %d: %w", tr.UserID()+1, err)
		}
		p.Fprintf(w, "%-8d %12d %12.2f %12.2f %12.2f %10.2f\n",
			tr.UserID()+1, tr.Len(), st.Speed, st.AvgDistFromWall, st.WallDistStdDev, st.TouchRate)
	}

	fp := track.DefaultFormationParams()
	fp.Step = step
	formations, err := s.Formations(fp)
	if err != nil {
		return err
	}
	for _, f := range formations {
		if f.End <= start || f.Start >= end {
			continue
		}
		p.Fprintf(w, "F-formation: users %d and %d, %.1f s to %.1f s\n",
			f.UserA+1, f.UserB+1, f.Start, f.End)
	}
	return nil
}
