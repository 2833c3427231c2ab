package audio

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ExecConfig represents external player configuration.
type ExecConfig struct {
	Command   string   // Player executable, e.g. "mpv"
	Args      []string // Arguments placed before the volume flag and URL
	VolumeArg string   // Printf format for the volume flag, e.g. "--volume=%d" (empty to omit)
}

// ExecSink plays streams by running an external player process.
// Pause terminates the process; the next Play starts a new one.
type ExecSink struct {
	cfg ExecConfig

	mu     sync.Mutex
	source string
	volume int
	cmd    *exec.Cmd
	done   chan struct{}
}

// NewExecSink creates a new external player sink.
func NewExecSink(cfg ExecConfig) (*ExecSink, error) {
	if cfg.Command == "" {
		return nil, errors.New("player command is required")
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return nil, errors.Wrapf(err, "player command not found: %s", cfg.Command)
	}
	return &ExecSink{cfg: cfg, volume: 50}, nil
}

// SetSource sets the stream URL used by the next Play.
func (s *ExecSink) SetSource(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = url
	return nil
}

// Play starts the player for the current source, replacing any running process.
func (s *ExecSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return ErrNoSource
	}
	s.stopLocked()

	cmd := exec.Command(s.cfg.Command, s.argsLocked()...)
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start player: %s", s.cfg.Command)
	}

	done := make(chan struct{})
	go func() {
		err := cmd.Wait()
		if err != nil {
			zlog.Debug().Msgf("player exited: pid=%d error=%v", cmd.Process.Pid, err)
		}
		close(done)
	}()

	s.cmd = cmd
	s.done = done
	zlog.Debug().Msgf("player started: pid=%d url=%s", cmd.Process.Pid, s.source)
	return nil
}

// Pause terminates the running player, if any.
func (s *ExecSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

// SetVolume sets the volume passed to the next player process.
func (s *ExecSink) SetVolume(volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = volume
	return nil
}

// Running reports whether a player process is alive.
func (s *ExecSink) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Close terminates the running player.
func (s *ExecSink) Close() error {
	return s.Pause()
}

func (s *ExecSink) argsLocked() []string {
	args := make([]string, 0, len(s.cfg.Args)+2)
	args = append(args, s.cfg.Args...)
	if s.cfg.VolumeArg != "" {
		args = append(args, fmt.Sprintf(s.cfg.VolumeArg, s.volume))
	}
	return append(args, s.source)
}

func (s *ExecSink) stopLocked() {
	if s.cmd == nil {
		return
	}
	if err := s.cmd.Process.Kill(); err != nil {
		zlog.Debug().Msgf("failed to kill player: pid=%d error=%v", s.cmd.Process.Pid, err)
	}
	<-s.done
	s.cmd = nil
	s.done = nil
}
