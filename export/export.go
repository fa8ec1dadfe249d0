// Package export writes recorded sessions to Parquet files, one row per
// head sample or touch, for analysis outside the toolkit.
package export

import (
	"fmt"
	"math"

	"github.com/imld/giant"
	"github.com/imld/giant/track"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// parallelism is the number of goroutines parquet-go uses per file.
const parallelism = 4

// HeadRecord is one row of a head sample file. Times are relative to the
// session start; the prefix sums are those computed by Finalize.
type HeadRecord struct {
	SessionID string  `parquet:"name=sessionid, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID    int32   `parquet:"name=userid, type=INT32"`
	Time      float64 `parquet:"name=time, type=DOUBLE"`
	X         float64 `parquet:"name=x, type=DOUBLE"`
	Y         float64 `parquet:"name=y, type=DOUBLE"`
	Z         float64 `parquet:"name=z, type=DOUBLE"`
	Yaw       float64 `parquet:"name=yaw, type=DOUBLE"`
	Pitch     float64 `parquet:"name=pitch, type=DOUBLE"`
	Roll      float64 `parquet:"name=roll, type=DOUBLE"`
	ViewX     float64 `parquet:"name=view_x, type=DOUBLE"`
	ViewY     float64 `parquet:"name=view_y, type=DOUBLE"`
	XSum      float64 `parquet:"name=x_sum, type=DOUBLE"`
	YSum      float64 `parquet:"name=y_sum, type=DOUBLE"`
	ZSum      float64 `parquet:"name=z_sum, type=DOUBLE"`
}

// TouchRecord is one row of a touch file.
type TouchRecord struct {
	SessionID string  `parquet:"name=sessionid, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID    int32   `parquet:"name=userid, type=INT32"`
	X         float64 `parquet:"name=x, type=DOUBLE"`
	Y         float64 `parquet:"name=y, type=DOUBLE"`
	Time      float64 `parquet:"name=time, type=DOUBLE"`
	Duration  float64 `parquet:"name=duration, type=DOUBLE"`
}

// HeadRecords flattens the head samples of every user of s.
func HeadRecords(sessionID string, s *track.Session) []HeadRecord {
	var recs []HeadRecord
	for _, tr := range s.Users() {
		for i := 0; i < tr.Len(); i++ {
			h, _ := tr.Sample(i)
			recs = append(recs, HeadRecord{
				SessionID: sessionID,
				UserID:    int32(h.UserID),
				Time:      h.Time,
				X:         h.Pos[0],
				Y:         h.Pos[1],
				Z:         h.Pos[2],
				Yaw:       h.Rot[0],
				Pitch:     h.Rot[1],
				Roll:      h.Rot[2],
				ViewX:     h.WallViewpoint[0],
				ViewY:     h.WallViewpoint[1],
				XSum:      h.PosPrefixSum[0],
				YSum:      h.PosPrefixSum[1],
				ZSum:      h.PosPrefixSum[2],
			})
		}
	}
	return recs
}

// TouchRecords flattens the touches of every user of s.
func TouchRecords(sessionID string, s *track.Session) []TouchRecord {
	var recs []TouchRecord
	for _, tr := range s.Users() {
		for _, t := range tr.Touches(math.Inf(-1), math.Inf(1)) {
			recs = append(recs, TouchRecord{
				SessionID: sessionID,
				UserID:    int32(t.UserID),
				X:         t.Pos[0],
				Y:         t.Pos[1],
				Time:      t.Time,
				Duration:  t.Duration,
			})
		}
	}
	return recs
}

// WriteHeads writes the head samples of s to path and returns the number
// of rows written.
func WriteHeads(path, sessionID string, s *track.Session) (int, error) {
	recs := HeadRecords(sessionID, s)
	return len(recs), write(path, new(HeadRecord), recs)
}

// WriteTouches writes the touches of s to path and returns the number of
// rows written.
func WriteTouches(path, sessionID string, s *track.Session) (int, error) {
	recs := TouchRecords(sessionID, s)
	return len(recs), write(path, new(TouchRecord), recs)
}

func write[T any](path string, schema *T, recs []T) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	return writeTo(fw, path, schema, recs)
}

// writeTo writes recs to fw and closes it.
func writeTo[T any](fw source.ParquetFile, name string, schema *T, recs []T) (err error) {
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close %s: %w", name, cerr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, schema, parallelism)
	if err != nil {
		return fmt.Errorf("export: create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range recs {
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("export: write record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("export: finish %s: %w", name, err)
	}
	giant.Logger().Debug("export: wrote parquet", "path", name, "rows", len(recs))
	return nil
}

// ReadHeads reads a file written by WriteHeads.
func ReadHeads(path string) ([]HeadRecord, error) {
	return read(path, new(HeadRecord))
}

// ReadTouches reads a file written by WriteTouches.
func ReadTouches(path string) ([]TouchRecord, error) {
	return read(path, new(TouchRecord))
}

func read[T any](path string, schema *T) ([]T, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, schema, parallelism)
	if err != nil {
		return nil, fmt.Errorf("export: create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	recs := make([]T, pr.GetNumRows())
	if err := pr.Read(&recs); err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}
	return recs, nil
}
