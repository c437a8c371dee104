package main

import (
	"io"
	"os"
	"time"

	collector "github.com/cnu-smr/reddit-collector"
	"github.com/cnu-smr/reddit-collector/pkg/export"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
)

// newCollectorClient builds a client from the global flags and key file.
func newCollectorClient(recorder metrics.Recorder) (*collector.Client, error) {
	keys, err := collector.LoadKeys(keysFile)
	if err != nil {
		return nil, err
	}

	return collector.NewClient(&collector.Config{
		ClientID:            keys.ClientID,
		ClientSecret:        keys.ClientSecret,
		WindowTime:          time.Duration(windowTimeSec) * time.Second,
		MaxRequestsInWindow: maxRequests,
		Logger:              newLogger(),
		Metrics:             recorder,
	})
}

// withOutput opens path for writing, or hands back stdout when path is empty.
func withOutput(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRecords dispatches on the --format flag value.
func writeRecords(format, out string, csvFn func(io.Writer) error, records any) error {
	switch format {
	case "json":
		return withOutput(out, func(w io.Writer) error {
			return export.WriteRawJSON(w, records)
		})
	default:
		return withOutput(out, csvFn)
	}
}
