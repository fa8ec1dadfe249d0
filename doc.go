// Package giant is the core of a group interaction analysis toolkit: it
// stores head-tracking and touch recordings per user and turns them into
// variable-width ribbon meshes that encode position and wall distance over
// time.
//
// # Overview
//
// The root package holds the value types shared by all sub-packages
// (Point, RGBA, RGBA8) and the package logger.
//
//   - track: time-indexed per-user store of head samples and touches
//   - ribbon: variable-width, variable-opacity ribbon mesh generation
//   - plot: derives ribbon inputs from a track window
//   - ingest: reads optitrack and touch CSV logs
//   - preview: CPU rasterizer that draws ribbon meshes to images
//   - export: writes sessions to Parquet
//
// # Quick Start
//
//	tr := track.NewUserTrack(0, duration)
//	for _, s := range samples {
//	    tr.AddHeadData(s)
//	}
//	tr.Finalize()
//
//	b := ribbon.New(ribbon.WithMaxWidth(5))
//	line := plot.DefaultLine(800, 100)
//	if err := line.Build(b, tr, 0, duration); err != nil {
//	    return err
//	}
//	mesh := b.Mesh()
//
// # Logging
//
// Nothing is logged by default. Use SetLogger to route diagnostics from
// every sub-package through a single slog.Logger.
package giant
