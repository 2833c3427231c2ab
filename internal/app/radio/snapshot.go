package radio

import (
	"reflect"
	"time"
)

// StationView is one catalog entry as presented to a user interface.
type StationView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Match bool   `json:"match"` // Matches the current search
}

// Snapshot is a read-only view of the application state.
type Snapshot struct {
	Sequence    uint64        `json:"sequence"`
	Stations    []StationView `json:"stations"`
	Selected    int           `json:"selected"`
	StationName string        `json:"station_name,omitempty"`
	State       string        `json:"state"`
	Playing     bool          `json:"playing"`
	Volume      int           `json:"volume"`
	VolumeLevel string        `json:"volume_level"`
	Search      string        `json:"search,omitempty"`
	Loading     bool          `json:"loading"`
	Error       string        `json:"error,omitempty"`
	FetchedAt   *time.Time    `json:"fetched_at,omitempty"`
}

// SameState reports whether two snapshots describe the same state,
// ignoring the sequence number.
func (s Snapshot) SameState(other Snapshot) bool {
	s.Sequence = 0
	other.Sequence = 0
	return reflect.DeepEqual(s, other)
}
