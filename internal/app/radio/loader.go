package radio

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/domain/station"
)

// Fetcher retrieves a station catalog.
type Fetcher interface {
	Fetch(ctx context.Context) (station.Catalog, error)
}

// FetchResult is the outcome of one catalog fetch.
type FetchResult struct {
	Catalog station.Catalog
	Err     error
}

// Loader runs catalog fetches in the background and hands the result to the
// application loop through Poll. At most one fetch is in flight.
// Start and Poll must be called from the same goroutine.
type Loader struct {
	fetcher  Fetcher
	resultCh chan FetchResult
	inFlight bool
}

// NewLoader creates a new loader.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		// Buffered so the fetch goroutine never blocks on an abandoned loader
		resultCh: make(chan FetchResult, 1),
	}
}

// Start begins a fetch. It returns false if a fetch is already in flight.
func (l *Loader) Start(ctx context.Context) bool {
	if l.inFlight {
		return false
	}
	l.inFlight = true

	go func() {
		start := time.Now()
		catalog, err := l.fetcher.Fetch(ctx)
		if err != nil {
			zlog.Warn().Msgf("station list fetch failed: elapsed=%v error=%v", time.Since(start), err)
		} else {
			zlog.Info().Msgf("station list fetched: stations=%d elapsed=%v", len(catalog), time.Since(start))
		}
		l.resultCh <- FetchResult{Catalog: catalog, Err: err}
	}()
	return true
}

// Poll returns the result of the in-flight fetch if it has completed.
func (l *Loader) Poll() (FetchResult, bool) {
	if !l.inFlight {
		return FetchResult{}, false
	}
	select {
	case r := <-l.resultCh:
		l.inFlight = false
		return r, true
	default:
		return FetchResult{}, false
	}
}

// Wait blocks until the in-flight fetch completes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (FetchResult, error) {
	if !l.inFlight {
		return FetchResult{}, ErrNoFetch
	}
	select {
	case r := <-l.resultCh:
		l.inFlight = false
		return r, nil
	case <-ctx.Done():
		return FetchResult{}, ctx.Err()
	}
}

// InFlight reports whether a fetch is running.
func (l *Loader) InFlight() bool {
	return l.inFlight
}
