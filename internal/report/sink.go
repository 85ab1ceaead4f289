package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink persists a finished report.
type Sink interface {
	Name() string
	Write(ctx context.Context, rep *Report) error
}

// WriteAll writes rep to every sink in order, stopping at the first failure.
func WriteAll(ctx context.Context, rep *Report, sinks ...Sink) error {
	for _, s := range sinks {
		if err := s.Write(ctx, rep); err != nil {
			return fmt.Errorf("write %s report: %w", s.Name(), err)
		}
	}
	return nil
}

// WriteCSV writes the header and every record to w.
func WriteCSV(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(rep.Sources)); err != nil {
		return err
	}
	for _, rec := range rep.Records {
		if err := cw.Write(rec.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSink writes the report to a file, replacing any previous content.
type CSVSink struct {
	Path string
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(ctx context.Context, rep *Report) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	if err := WriteCSV(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return f.Close()
}
