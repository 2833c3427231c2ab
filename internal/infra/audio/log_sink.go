// Package audio provides audio sinks for the playback controller.
package audio

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ErrNoSource is returned by Play when no source has been set.
var ErrNoSource = errors.New("no audio source set")

// LogSink is a headless sink that only records commands in the log.
type LogSink struct {
	mu      sync.Mutex
	source  string
	playing bool
	volume  int
}

// NewLogSink creates a new log sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// SetSource sets the stream URL.
func (s *LogSink) SetSource(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = url
	zlog.Info().Msgf("[audio] source: %s", url)
	return nil
}

// Play starts streaming the source.
func (s *LogSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == "" {
		return ErrNoSource
	}
	s.playing = true
	zlog.Info().Msgf("[audio] play: %s (volume %d)", s.source, s.volume)
	return nil
}

// Pause stops streaming.
func (s *LogSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	zlog.Info().Msg("[audio] pause")
	return nil
}

// SetVolume sets the output volume (0-100).
func (s *LogSink) SetVolume(volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = volume
	zlog.Debug().Msgf("[audio] volume: %d", volume)
	return nil
}

// Playing reports whether the sink is streaming.
func (s *LogSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}
