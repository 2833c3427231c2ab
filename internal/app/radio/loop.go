package radio

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// DefaultTickInterval is how often the loop polls for a completed fetch.
const DefaultTickInterval = 100 * time.Millisecond

// Request carries a command to the loop and receives its outcome.
type Request struct {
	Command Command
	Reply   chan<- Response
}

// Response is the loop's answer to a Request.
type Response struct {
	Snapshot Snapshot
	Err      error
}

// Publisher receives every new state snapshot.
type Publisher interface {
	Broadcast(snapshot Snapshot) Snapshot
}

// Run owns the App until ctx is done. It starts the initial fetch, applies
// requests in arrival order, polls the loader every tick and publishes a
// snapshot whenever the state changes. pub may be nil.
func (a *App) Run(ctx context.Context, requests <-chan Request, pub Publisher, tick time.Duration) error {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var last Snapshot
	publish := func() Snapshot {
		s := a.Snapshot()
		if pub != nil {
			s = pub.Broadcast(s)
		}
		last = s
		return s
	}

	a.Refresh(ctx)
	publish()

	zlog.Debug().Msgf("radio loop started: tick=%v", tick)
	for {
		select {
		case <-ctx.Done():
			zlog.Debug().Msg("radio loop stopped")
			return nil

		case <-ticker.C:
			if a.Tick() {
				publish()
			}

		case req := <-requests:
			zlog.Debug().Msgf("command: %s", req.Command.Type)
			err := a.Handle(ctx, req.Command)
			s := a.Snapshot()
			if !s.SameState(last) {
				s = publish()
			} else {
				s.Sequence = last.Sequence
			}
			if req.Reply != nil {
				req.Reply <- Response{Snapshot: s, Err: err}
			}
		}
	}
}

// Send delivers cmd to the loop and waits for the resulting snapshot.
func Send(ctx context.Context, requests chan<- Request, cmd Command) (Snapshot, error) {
	reply := make(chan Response, 1)
	select {
	case requests <- Request{Command: cmd, Reply: reply}:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp.Snapshot, resp.Err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
