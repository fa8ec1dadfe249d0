// Package track stores per-user head-tracking samples and touch events of a
// recorded session and answers time-based queries over them.
//
// # Two-phase build
//
// A UserTrack is filled with AddHeadData and AddTouch while a recording is
// loaded, then Finalize derives the prefix sums that windowed queries
// (HeadPosAvg, WallViewpointAvg) read. Appending after Finalize clears the
// finalized state; those queries return ErrNotFinalized until Finalize runs
// again.
//
// # Time to index mapping
//
// Samples are addressed by index only. TimeToIndex maps a session time to
// an index assuming a uniform sample rate over the whole session:
//
//	index = floor(time * Len() / Duration())
//
// It is not a timestamp search. Use Resample to bring irregular
// recordings onto a uniform grid first. Queries that would index outside
// the recorded samples return a *RangeError.
//
// Returned vectors are copies; the track is not safe for concurrent
// mutation.
package track
