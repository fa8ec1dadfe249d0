// Command giant-lines renders the head tracks of a wall session as one
// ribbon per user and optionally exports the session to Parquet.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/imld/giant"
)

func main() {
	cfg := config{bg: giant.Background, highlight: giant.White}
	flag.StringVar(&cfg.headPath, "head", "", "head tracking CSV log (required)")
	flag.StringVar(&cfg.touchPath, "touch", "", "touch CSV log")
	flag.StringVar(&cfg.date, "date", "", "recording date as YYYY-MM-DD (required)")
	flag.Float64Var(&cfg.step, "step", 0.1, "resampling step in seconds")
	flag.IntVar(&cfg.width, "width", 1200, "image width")
	flag.IntVar(&cfg.rowHeight, "height", 120, "height of one user row")
	flag.Float64Var(&cfg.maxWidth, "maxwidth", 12, "maximum ribbon half width")
	flag.IntVar(&cfg.smoothness, "smoothness", 50, "averaging window in samples")
	flag.Float64Var(&cfg.start, "start", 0, "window start in session seconds")
	flag.Float64Var(&cfg.end, "end", 0, "window end in session seconds, 0 for the whole session")
	flag.StringVar(&cfg.out, "out", "lines.png", "output image")
	flag.StringVar(&cfg.parquetDir, "parquet", "", "directory for Parquet export")
	flag.Var((*hexColor)(&cfg.bg), "bg", "background color as #rrggbb[aa]")
	flag.Var((*hexColor)(&cfg.highlight), "highlight", "touch highlight color as #rrggbb[aa]")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if cfg.headPath == "" || cfg.date == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		giant.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("giant-lines: %v", err)
	}
	log.Printf("Lines saved to %s\n", cfg.out)
}

// hexColor is a flag.Value for colors given as hex strings.
type hexColor giant.RGBA8

func (c *hexColor) String() string { return giant.RGBA8(*c).Hex() }

func (c *hexColor) Set(s string) error {
	v, err := giant.ParseHex(s)
	if err != nil {
		return err
	}
	*c = hexColor(v)
	return nil
}
