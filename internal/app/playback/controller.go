package playback

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/domain/station"
)

const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 50
)

// Sink is the single-stream audio output driven by the controller.
// Commands are fire-and-forget: errors are logged, never retried.
type Sink interface {
	SetSource(url string) error
	Play() error
	Pause() error
	SetVolume(volume int) error
}

// Restore describes a selection persisted by a previous run.
type Restore struct {
	Index int    // Index in the catalog at save time
	Name  string // Station name at save time (empty skips the name check)
}

// Options holds controller configuration.
type Options struct {
	Volume  *int     // Initial volume (DefaultVolume when nil)
	Restore *Restore // Selection to apply on the first catalog replacement
}

// Status is a read-only view of the controller state.
type Status struct {
	Selected int // -1 when nothing is selected
	Station  *station.Station
	State    State
	Volume   int
	Level    VolumeLevel
}

// Controller holds the selected station and play/pause intent.
// It is not safe for concurrent use: the application loop is its only caller.
type Controller struct {
	sink    Sink
	catalog station.Catalog

	selected int // -1 when nothing is selected
	playing  bool

	volume           int
	volumeBeforeMute int

	restore *Restore
}

// NewController creates a new playback controller.
func NewController(sink Sink, opts Options) *Controller {
	volume := DefaultVolume
	if opts.Volume != nil {
		volume = clampVolume(*opts.Volume)
	}

	c := &Controller{
		sink:             sink,
		selected:         -1,
		volume:           volume,
		volumeBeforeMute: volume,
		restore:          opts.Restore,
	}
	if volume == 0 {
		c.volumeBeforeMute = DefaultVolume
	}

	c.command("set_volume", func() error { return c.sink.SetVolume(volume) })
	return c
}

// Catalog returns the catalog the controller currently selects from.
func (c *Controller) Catalog() station.Catalog {
	return c.catalog
}

// Select selects the station at index i without starting playback.
// An out-of-range index is ignored and false is returned.
func (c *Controller) Select(i int) bool {
	if !c.catalog.Valid(i) {
		zlog.Debug().Msgf("ignoring selection out of range: index=%d stations=%d", i, c.catalog.Len())
		return false
	}

	if c.playing {
		c.command("pause", c.sink.Pause)
	}
	c.selected = i
	c.playing = false

	zlog.Info().Msgf("station selected: index=%d name=%s", i, c.catalog[i].Name)
	return true
}

// TogglePlay starts the selected station when stopped and pauses it when playing.
// It does nothing when no station is selected.
func (c *Controller) TogglePlay() {
	st, ok := c.catalog.At(c.selected)
	if !ok {
		return
	}

	if c.playing {
		c.command("pause", c.sink.Pause)
		c.playing = false
		zlog.Info().Msgf("playback paused: name=%s", st.Name)
		return
	}

	c.command("set_source", func() error { return c.sink.SetSource(st.StreamURL) })
	c.command("play", c.sink.Play)
	c.playing = true
	zlog.Info().Msgf("playback started: name=%s url=%s", st.Name, st.StreamURL)
}

// Stop pauses playback and keeps the selection.
func (c *Controller) Stop() {
	c.playing = false
	c.command("pause", c.sink.Pause)
}

// SetVolume sets the volume, clamped to 0-100.
func (c *Controller) SetVolume(volume int) {
	volume = clampVolume(volume)
	if volume > 0 {
		c.volumeBeforeMute = volume
	}
	c.volume = volume
	c.command("set_volume", func() error { return c.sink.SetVolume(volume) })
}

// ToggleMute mutes the output, or restores the level it had before muting.
func (c *Controller) ToggleMute() {
	if c.volume != 0 {
		c.volumeBeforeMute = c.volume
		c.volume = 0
	} else {
		c.volume = c.volumeBeforeMute
	}
	volume := c.volume
	c.command("set_volume", func() error { return c.sink.SetVolume(volume) })
}

// ReplaceCatalog swaps the catalog and re-validates the selection.
// The selection stays on its index while the same station is there, otherwise it
// follows the station to its new index; if the station is gone the selection is
// cleared and playback stops.
func (c *Controller) ReplaceCatalog(catalog station.Catalog) {
	previous, hadSelection := c.catalog.At(c.selected)
	c.catalog = catalog

	switch {
	case hadSelection:
		if st, ok := catalog.At(c.selected); ok && st.Equal(previous) {
			return
		}
		idx := catalog.IndexOf(previous)
		if idx >= 0 {
			c.selected = idx
			return
		}
		zlog.Info().Msgf("selected station no longer listed, clearing selection: name=%s", previous.Name)
		c.selected = -1
		if c.playing {
			c.playing = false
			c.command("pause", c.sink.Pause)
		}

	case c.restore != nil && catalog.Len() > 0:
		// An unresolved restore stays pending until DiscardRestore
		c.selected = c.resolveRestore(catalog)
		if c.selected >= 0 {
			c.restore = nil
		}

	default:
		c.selected = -1
	}
}

// DiscardRestore drops a persisted selection that no catalog has matched yet.
func (c *Controller) DiscardRestore() {
	if c.restore == nil {
		return
	}
	zlog.Info().Msgf("persisted selection not found in station list, dropping: index=%d name=%s", c.restore.Index, c.restore.Name)
	c.restore = nil
}

// resolveRestore maps a persisted selection onto the catalog.
func (c *Controller) resolveRestore(catalog station.Catalog) int {
	r := c.restore
	if st, ok := catalog.At(r.Index); ok && (r.Name == "" || st.Name == r.Name) {
		zlog.Info().Msgf("restored selection: index=%d name=%s", r.Index, st.Name)
		return r.Index
	}
	if r.Name != "" {
		if idx := catalog.IndexByName(r.Name); idx >= 0 {
			zlog.Info().Msgf("restored selection by name: index=%d name=%s", idx, r.Name)
			return idx
		}
	}
	zlog.Debug().Msgf("persisted selection not in catalog yet: index=%d name=%s", r.Index, r.Name)
	return -1
}

// Status returns the current controller state.
func (c *Controller) Status() Status {
	s := Status{
		Selected: -1,
		State:    StateStopped,
		Volume:   c.volume,
		Level:    LevelOf(c.volume),
	}
	if st, ok := c.catalog.At(c.selected); ok {
		s.Selected = c.selected
		s.Station = &st
	}
	if c.playing {
		s.State = StatePlaying
	}
	return s
}

// Selected returns the selected index, or -1.
func (c *Controller) Selected() int {
	return c.selected
}

// Playing reports whether the selected station is streaming.
func (c *Controller) Playing() bool {
	return c.playing
}

// Volume returns the current volume.
func (c *Controller) Volume() int {
	return c.volume
}

// command issues a sink command and logs its failure.
func (c *Controller) command(name string, fn func() error) {
	if err := fn(); err != nil {
		zlog.Warn().Err(err).Msgf("audio command failed: command=%s", name)
	}
}

func clampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
