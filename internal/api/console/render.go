package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/osa030/19radio/internal/app/radio"
)

// volumeIcons maps volume levels to speaker glyphs.
var volumeIcons = map[string]string{
	"mute":   "🔇",
	"low":    "🔈",
	"medium": "🔉",
	"high":   "🔊",
}

// Render writes the station list followed by the status line.
func Render(w io.Writer, s radio.Snapshot) {
	switch {
	case s.Loading && len(s.Stations) == 0:
		fmt.Fprintln(w, "loading stations...")
	case len(s.Stations) == 0 && s.Error != "":
		fmt.Fprintln(w, "no stations available, type 'retry' to try again")
	}

	for _, st := range s.Stations {
		if !st.Match {
			continue
		}
		marker := " "
		if st.Index == s.Selected {
			marker = "*"
			if s.Playing {
				marker = "⏸"
			}
		}
		fmt.Fprintf(w, "%s %2d  %-30s %s\n", marker, st.Index, st.Name, st.URL)
	}
	if s.Search != "" {
		fmt.Fprintf(w, "(filtered by %q)\n", s.Search)
	}
	fmt.Fprintln(w, StatusLine(s))
}

// StatusLine summarises playback state on one line.
func StatusLine(s radio.Snapshot) string {
	var b strings.Builder

	if s.Playing {
		b.WriteString("⏸ playing ")
	} else {
		b.WriteString("▶ stopped ")
	}
	if s.StationName != "" {
		fmt.Fprintf(&b, "%q", s.StationName)
	} else {
		b.WriteString("(nothing selected)")
	}

	fmt.Fprintf(&b, "  %s %d", volumeIcons[s.VolumeLevel], s.Volume)
	if s.Loading {
		b.WriteString("  [loading]")
	}
	if s.Error != "" {
		fmt.Fprintf(&b, "  [error: %s]", s.Error)
	}
	return b.String()
}
