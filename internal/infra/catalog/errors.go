package catalog

import "fmt"

// Kind classifies a catalog fetch failure.
type Kind int

const (
	KindNetwork    Kind = iota // Transport failure, timeout or body read error
	KindHTTPStatus             // Non-2xx HTTP status
	KindParse                  // Body is not valid JSON
	KindSchema                 // JSON does not match the station list schema
	KindTooLarge               // Body exceeds the size limit
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// FetchError is the single error type returned by Client.Fetch.
type FetchError struct {
	Kind       Kind
	StatusCode int // Set for KindHTTPStatus
	Err        error
}

// Error returns a human-readable message suitable for display.
func (e *FetchError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("could not reach station list: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("station list request failed with HTTP status %d", e.StatusCode)
	case KindParse:
		return fmt.Sprintf("station list is not valid JSON: %v", e.Err)
	case KindSchema:
		return fmt.Sprintf("station list has an unexpected format: %v", e.Err)
	case KindTooLarge:
		return fmt.Sprintf("station list exceeds %d MiB", maxBodySize>>20)
	default:
		return fmt.Sprintf("station list fetch failed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
