// Package pipeline runs one full refresh cycle: fetch every scan feed,
// normalize, and aggregate into the global board.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"signal-desk/internal/config"
	"signal-desk/internal/digest"
	"signal-desk/internal/feed"
	"signal-desk/internal/logging"
	"signal-desk/internal/models"
	"signal-desk/internal/normalize"
)

// Cycle is the complete output of one refresh. It fully replaces the
// previous cycle's output; nothing is carried over or cached.
type Cycle struct {
	At       time.Time                 `json:"at"`
	Rows     []models.CanonicalRecord  `json:"rows"`
	Options  []models.OptionSuggestion `json:"options"`
	Scans    []models.ScanResult       `json:"scans"`
	Statuses []models.SourceStatus     `json:"statuses"`
}

// Runner executes refresh cycles. It is stateless between cycles.
type Runner struct {
	fetcher *feed.Fetcher
	scans   []config.ScanSource
	maxRows int
	logger  zerolog.Logger
}

// New creates a Runner for the configured scans.
func New(fetcher *feed.Fetcher, scans []config.ScanSource, maxRows int, logger zerolog.Logger) *Runner {
	return &Runner{
		fetcher: fetcher,
		scans:   scans,
		maxRows: maxRows,
		logger:  logger,
	}
}

// RunCycle fetches every scan feed in order, normalizes each, and aggregates
// the ranked collections into the display board. A failing feed degrades to
// an empty collection for that scan only; the cycle itself never fails.
func (r *Runner) RunCycle(ctx context.Context) *Cycle {
	cycle := &Cycle{At: time.Now()}

	collections := make([][]models.CanonicalRecord, 0, len(r.scans))
	for _, scan := range r.scans {
		records, err := r.fetcher.Fetch(ctx, scan.Source)
		logging.LogFetch(r.logger, scan.Tag, scan.Source, len(records), err)

		status := models.SourceStatus{
			ID:      scan.ID,
			Tag:     scan.Tag,
			Source:  scan.Source,
			Records: len(records),
			OK:      err == nil,
		}
		if err != nil {
			status.Error = err.Error()
			records = nil
		}
		cycle.Statuses = append(cycle.Statuses, status)

		ranked := normalize.Normalize(records, scan.Tag)
		options := normalize.ExtractOptions(records, scan.Tag)
		if len(options) > 0 {
			scanLogger := logging.WithScan(r.logger, scan.Tag)
			scanLogger.Debug().
				Int("options", len(options)).
				Msg("Option suggestions extracted")
		}

		cycle.Scans = append(cycle.Scans, models.ScanResult{
			Tag:     scan.Tag,
			Records: ranked,
			Options: options,
		})
		cycle.Options = append(cycle.Options, options...)
		collections = append(collections, ranked)
	}

	cycle.Rows = digest.Aggregate(collections, r.maxRows)
	return cycle
}
