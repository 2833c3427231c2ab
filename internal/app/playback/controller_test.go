package playback

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19radio/internal/domain/station"
)

// recordingSink records the commands it receives.
type recordingSink struct {
	calls []string
	err   error
}

func (s *recordingSink) SetSource(url string) error {
	s.calls = append(s.calls, "set_source:"+url)
	return s.err
}

func (s *recordingSink) Play() error {
	s.calls = append(s.calls, "play")
	return s.err
}

func (s *recordingSink) Pause() error {
	s.calls = append(s.calls, "pause")
	return s.err
}

func (s *recordingSink) SetVolume(volume int) error {
	s.calls = append(s.calls, fmt.Sprintf("volume:%d", volume))
	return s.err
}

func (s *recordingSink) reset() {
	s.calls = nil
}

func twoStations() station.Catalog {
	return station.Catalog{
		{Name: "A", StreamURL: "http://a/stream"},
		{Name: "B", StreamURL: "http://b/stream"},
	}
}

func newTestController(catalog station.Catalog) (*Controller, *recordingSink) {
	sink := &recordingSink{}
	c := NewController(sink, Options{})
	c.ReplaceCatalog(catalog)
	sink.reset()
	return c, sink
}

func TestNewController(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink, Options{})

	assert.Equal(t, -1, c.Selected())
	assert.False(t, c.Playing())
	assert.Equal(t, DefaultVolume, c.Volume())
	assert.Equal(t, []string{"volume:50"}, sink.calls)

	v := 150
	c = NewController(&recordingSink{}, Options{Volume: &v})
	assert.Equal(t, MaxVolume, c.Volume())
}

func TestController_Select(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		ok       bool
		expected int
	}{
		{name: "first station", index: 0, ok: true, expected: 0},
		{name: "last station", index: 1, ok: true, expected: 1},
		{name: "negative index", index: -1, ok: false, expected: -1},
		{name: "index past end", index: 2, ok: false, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sink := newTestController(twoStations())

			assert.Equal(t, tt.ok, c.Select(tt.index))
			assert.Equal(t, tt.expected, c.Selected())
			assert.False(t, c.Playing(), "selection never auto-plays")
			assert.Empty(t, sink.calls)
		})
	}
}

func TestController_SelectOutOfRangeKeepsSelection(t *testing.T) {
	c, _ := newTestController(twoStations())
	c.Select(1)

	assert.False(t, c.Select(5))
	assert.Equal(t, 1, c.Selected())
}

func TestController_SelectWhilePlayingPauses(t *testing.T) {
	c, sink := newTestController(twoStations())
	c.Select(0)
	c.TogglePlay()
	sink.reset()

	c.Select(1)
	assert.Equal(t, []string{"pause"}, sink.calls)
	assert.Equal(t, 1, c.Selected())
	assert.False(t, c.Playing())
}

func TestController_TogglePlayWithoutSelection(t *testing.T) {
	c, sink := newTestController(twoStations())

	c.TogglePlay()
	assert.False(t, c.Playing())
	assert.Empty(t, sink.calls)

	// Empty catalog behaves the same
	c, sink = newTestController(nil)
	c.TogglePlay()
	assert.False(t, c.Playing())
	assert.Empty(t, sink.calls)
}

func TestController_SelectThenToggle(t *testing.T) {
	c, sink := newTestController(twoStations())

	c.Select(1)
	c.TogglePlay()
	assert.Equal(t, []string{"set_source:http://b/stream", "play"}, sink.calls)
	assert.Equal(t, 1, c.Selected())
	assert.True(t, c.Playing())

	sink.reset()
	c.TogglePlay()
	assert.Equal(t, []string{"pause"}, sink.calls)
	assert.Equal(t, 1, c.Selected())
	assert.False(t, c.Playing())
}

func TestController_Stop(t *testing.T) {
	c, sink := newTestController(twoStations())
	c.Select(0)
	c.TogglePlay()
	sink.reset()

	c.Stop()
	assert.Equal(t, []string{"pause"}, sink.calls)
	assert.False(t, c.Playing())
	assert.Equal(t, 0, c.Selected(), "stop keeps the selection")

	status := c.Status()
	assert.Equal(t, StateStopped, status.State)
	assert.Equal(t, "A", status.Station.Name)
}

func TestController_SinkErrorsAreIgnored(t *testing.T) {
	c, sink := newTestController(twoStations())
	sink.err = errors.New("device unavailable")

	c.Select(0)
	c.TogglePlay()
	assert.True(t, c.Playing(), "commands are fire-and-forget")
	c.TogglePlay()
	assert.False(t, c.Playing())
}

func TestController_ReplaceCatalog(t *testing.T) {
	t.Run("shrinking catalog clears dangling selection", func(t *testing.T) {
		c, sink := newTestController(twoStations())
		c.Select(1)

		c.ReplaceCatalog(station.Catalog{{Name: "C", StreamURL: "http://c/stream"}})
		assert.Equal(t, -1, c.Selected())
		assert.Nil(t, c.Status().Station)
		assert.Empty(t, sink.calls)
	})

	t.Run("playing station removed stops playback", func(t *testing.T) {
		c, sink := newTestController(twoStations())
		c.Select(1)
		c.TogglePlay()
		sink.reset()

		c.ReplaceCatalog(station.Catalog{{Name: "A", StreamURL: "http://a/stream"}})
		assert.Equal(t, -1, c.Selected())
		assert.False(t, c.Playing())
		assert.Equal(t, []string{"pause"}, sink.calls)

		// Toggle is a no-op afterwards
		sink.reset()
		c.TogglePlay()
		assert.Empty(t, sink.calls)
	})

	t.Run("selection follows station to new index", func(t *testing.T) {
		c, sink := newTestController(twoStations())
		c.Select(1)
		c.TogglePlay()
		sink.reset()

		c.ReplaceCatalog(station.Catalog{
			{Name: "B", StreamURL: "http://b/stream"},
			{Name: "C", StreamURL: "http://c/stream"},
		})
		assert.Equal(t, 0, c.Selected())
		assert.True(t, c.Playing())
		assert.Empty(t, sink.calls)
	})

	t.Run("renamed station is treated as different", func(t *testing.T) {
		c, _ := newTestController(twoStations())
		c.Select(0)

		c.ReplaceCatalog(station.Catalog{{Name: "A2", StreamURL: "http://a/stream"}})
		assert.Equal(t, -1, c.Selected())
	})
}

func TestController_Restore(t *testing.T) {
	tests := []struct {
		name     string
		restore  Restore
		expected int
	}{
		{name: "index and name match", restore: Restore{Index: 1, Name: "B"}, expected: 1},
		{name: "index only", restore: Restore{Index: 0}, expected: 0},
		{name: "moved station found by name", restore: Restore{Index: 0, Name: "B"}, expected: 1},
		{name: "out of range index found by name", restore: Restore{Index: 7, Name: "A"}, expected: 0},
		{name: "unknown station dropped", restore: Restore{Index: 5, Name: "Z"}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := tt.restore
			c := NewController(&recordingSink{}, Options{Restore: &restore})
			assert.Equal(t, -1, c.Selected())

			c.ReplaceCatalog(twoStations())
			assert.Equal(t, tt.expected, c.Selected())
			assert.False(t, c.Playing())
		})
	}
}

func TestController_RestoreWaitsForNonEmptyCatalog(t *testing.T) {
	c := NewController(&recordingSink{}, Options{Restore: &Restore{Index: 1, Name: "B"}})

	c.ReplaceCatalog(nil)
	assert.Equal(t, -1, c.Selected())

	c.ReplaceCatalog(twoStations())
	assert.Equal(t, 1, c.Selected())

	// Restore is applied once
	c.ReplaceCatalog(station.Catalog{{Name: "X", StreamURL: "http://x"}})
	c.ReplaceCatalog(twoStations())
	assert.Equal(t, -1, c.Selected())
}

func TestController_RestorePendingUntilMatched(t *testing.T) {
	c := NewController(&recordingSink{}, Options{Restore: &Restore{Index: 2, Name: "C"}})

	// Default list without the saved station keeps the restore pending
	c.ReplaceCatalog(twoStations())
	assert.Equal(t, -1, c.Selected())

	c.ReplaceCatalog(append(twoStations(), station.Station{Name: "C", StreamURL: "http://c/stream"}))
	assert.Equal(t, 2, c.Selected())
}

func TestController_DiscardRestore(t *testing.T) {
	c := NewController(&recordingSink{}, Options{Restore: &Restore{Index: 2, Name: "C"}})

	c.ReplaceCatalog(twoStations())
	c.DiscardRestore()

	c.ReplaceCatalog(append(twoStations(), station.Station{Name: "C", StreamURL: "http://c/stream"}))
	assert.Equal(t, -1, c.Selected())
}

func TestController_ReplaceKeepsDuplicateIndex(t *testing.T) {
	dup := station.Catalog{
		{Name: "A", StreamURL: "http://a/stream"},
		{Name: "B", StreamURL: "http://b/stream"},
		{Name: "A", StreamURL: "http://a/stream"},
	}
	c, _ := newTestController(dup)
	require.True(t, c.Select(2))

	c.ReplaceCatalog(dup.Clone())
	assert.Equal(t, 2, c.Selected())

	// Moved duplicates fall back to the first equal station
	c.ReplaceCatalog(dup[:2].Clone())
	assert.Equal(t, 0, c.Selected())
}

func TestController_Volume(t *testing.T) {
	c, sink := newTestController(twoStations())

	c.SetVolume(80)
	assert.Equal(t, 80, c.Volume())
	assert.Equal(t, VolumeHigh, c.Status().Level)

	c.SetVolume(-10)
	assert.Equal(t, 0, c.Volume())

	c.SetVolume(250)
	assert.Equal(t, 100, c.Volume())

	assert.Equal(t, []string{"volume:80", "volume:0", "volume:100"}, sink.calls)
}

func TestController_ToggleMute(t *testing.T) {
	c, sink := newTestController(twoStations())
	c.SetVolume(35)
	sink.reset()

	c.ToggleMute()
	assert.Equal(t, 0, c.Volume())
	assert.Equal(t, VolumeMute, c.Status().Level)

	c.ToggleMute()
	assert.Equal(t, 35, c.Volume())
	assert.Equal(t, []string{"volume:0", "volume:35"}, sink.calls)

	// Unmuting after the slider reached zero restores the last audible level
	c.SetVolume(20)
	c.SetVolume(0)
	c.ToggleMute()
	assert.Equal(t, 20, c.Volume())
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		volume   int
		expected VolumeLevel
	}{
		{0, VolumeMute},
		{1, VolumeLow},
		{30, VolumeLow},
		{31, VolumeMedium},
		{70, VolumeMedium},
		{71, VolumeHigh},
		{100, VolumeHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("volume %d", tt.volume), func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelOf(tt.volume))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "unknown", State(9).String())
	assert.Equal(t, "medium", VolumeMedium.String())
}
