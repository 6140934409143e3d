// Package fetcher retrieves the raw batch from the spreadsheet export
// endpoint. It owns the transport concerns the reconciliation engine
// deliberately does not: timeouts, retries and the cache-busting
// parameter the sheet gateway needs to serve fresh data.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/matryer/try.v1"

	"github.com/sheet-sync-api/internal/models"
)

// Fetcher downloads and decodes sync batches.
type Fetcher struct {
	client   *http.Client
	attempts int
	log      zerolog.Logger
}

// New creates a Fetcher. attempts is the total number of tries per fetch,
// minimum 1.
func New(timeout time.Duration, attempts int, log zerolog.Logger) *Fetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		attempts: attempts,
		log:      log.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch GETs the configured endpoint with a cache-busting timestamp
// parameter and decodes the JSON batch. Transient failures are retried;
// a malformed payload is a caller-visible error, never a partial batch.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*models.Batch, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("source URL is not configured")
	}

	var batch *models.Batch
	err := try.Do(func(attempt int) (bool, error) {
		var err error
		batch, err = f.fetchOnce(ctx, url)
		if err != nil && attempt < f.attempts {
			f.log.Warn().Err(err).Int("attempt", attempt).Msg("Fetch attempt failed, retrying")
		}
		return attempt < f.attempts, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batch from source: %w", err)
	}
	return batch, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*models.Batch, error) {
	finalURL := withCacheBuster(url, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	var batch models.Batch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	f.log.Debug().
		Int("usuarios", len(batch.Usuarios)).
		Int("turmas", len(batch.Turmas)).
		Int("base", len(batch.Base)).
		Msg("Batch fetched")

	return &batch, nil
}

// withCacheBuster appends t=<unix-milli>, respecting an existing query
// string.
func withCacheBuster(url string, millis int64) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "t=" + strconv.FormatInt(millis, 10)
}
