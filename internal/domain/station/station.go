// Package station provides the Station and Catalog domain entities.
package station

import "strings"

// Station represents a single named radio stream endpoint.
type Station struct {
	Name      string // Display name
	StreamURL string // Playable audio stream address
}

// Equal reports whether two stations describe the same stream.
func (s Station) Equal(other Station) bool {
	return s.Name == other.Name && s.StreamURL == other.StreamURL
}

// Catalog is the ordered list of known stations.
// Order follows the source document and uniqueness is not enforced.
type Catalog []Station

// Len returns the number of stations in the catalog.
func (c Catalog) Len() int {
	return len(c)
}

// Valid reports whether i is an index into the catalog.
func (c Catalog) Valid(i int) bool {
	return i >= 0 && i < len(c)
}

// At returns the station at index i.
// The second return value is false when i is out of range.
func (c Catalog) At(i int) (Station, bool) {
	if !c.Valid(i) {
		return Station{}, false
	}
	return c[i], true
}

// IndexOf returns the index of the first station equal to s, or -1.
func (c Catalog) IndexOf(s Station) int {
	for i, st := range c {
		if st.Equal(s) {
			return i
		}
	}
	return -1
}

// IndexByName returns the index of the first station with the given name, or -1.
func (c Catalog) IndexByName(name string) int {
	for i, st := range c {
		if st.Name == name {
			return i
		}
	}
	return -1
}

// Search returns the indices of stations whose name contains query.
// Matching is case-insensitive; an empty query matches every station.
func (c Catalog) Search(query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	indices := make([]int, 0, len(c))
	for i, st := range c {
		if q == "" || strings.Contains(strings.ToLower(st.Name), q) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Clone returns a copy of the catalog that shares no backing array.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}
