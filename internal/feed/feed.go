// Package feed retrieves raw scan records from a URL or local file.
package feed

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"resty.dev/v3"

	"signal-desk/internal/errors"
	"signal-desk/internal/models"
)

// FetchTimeout bounds every HTTP feed request. Partial availability across
// the four independent feeds is expected; a slow feed must not stall the
// whole cycle for longer than this.
const FetchTimeout = 12 * time.Second

// Fetcher loads raw scan records. One instance is shared across cycles;
// it holds no per-cycle state.
type Fetcher struct {
	client *resty.Client
}

// New creates a Fetcher with the bounded-timeout HTTP client. Retries stay
// disabled: a dead feed degrades to empty data instead of delaying the cycle.
func New() *Fetcher {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(FetchTimeout)

	return &Fetcher{client: client}
}

// Fetch loads JSON records from source, which is either an HTTP(S) URL or a
// local file path. An empty source, a missing local file, or a top-level
// value that is not an array all yield (nil, nil). Transport failures,
// non-success statuses and malformed JSON return a SourceError; callers are
// expected to recover it into empty data for that scan only.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]models.RawRecord, error) {
	if source == "" {
		return nil, nil
	}

	if isHTTP(source) {
		return f.fetchURL(ctx, source)
	}
	return fetchFile(source)
}

func isHTTP(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (f *Fetcher) fetchURL(ctx context.Context, source string) ([]models.RawRecord, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(source)
	if err != nil {
		return nil, errors.NewSourceError(source, "request failed", 0, err)
	}

	if !resp.IsSuccess() {
		return nil, errors.NewSourceError(source, "unexpected status", resp.StatusCode(), nil)
	}

	return decodeRecords(source, resp.Bytes())
}

func fetchFile(source string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewSourceError(source, "reading file", 0, err)
	}
	return decodeRecords(source, data)
}

// decodeRecords accepts only a top-level JSON array of objects. Array
// entries that are not objects are skipped; any other top-level shape is
// treated as no data rather than an error.
func decodeRecords(source string, data []byte) ([]models.RawRecord, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewSourceError(source, "decoding json", 0, err)
	}

	arr, ok := raw.([]any)
	if !ok {
		return nil, nil
	}

	records := make([]models.RawRecord, 0, len(arr))
	for _, entry := range arr {
		if obj, ok := entry.(map[string]any); ok {
			records = append(records, models.RawRecord(obj))
		}
	}
	return records, nil
}
