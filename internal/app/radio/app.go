// Package radio owns the application state and runs the single-writer loop
// that applies user commands and catalog updates.
package radio

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/app/playback"
	"github.com/osa030/19radio/internal/domain/station"
)

// App is the top-level application state: the catalog, the playback state and
// the last fetch outcome. Only the loop goroutine may call its methods.
type App struct {
	player *playback.Controller
	loader *Loader

	fetchErr    error
	lastFetched time.Time
	search      string
}

// New creates a new App. initial is the catalog shown before the first
// successful fetch (may be empty).
func New(player *playback.Controller, loader *Loader, initial station.Catalog) *App {
	player.ReplaceCatalog(initial.Clone())
	return &App{
		player: player,
		loader: loader,
	}
}

// Player returns the playback controller.
func (a *App) Player() *playback.Controller {
	return a.player
}

// Refresh starts a catalog fetch unless one is already running.
func (a *App) Refresh(ctx context.Context) bool {
	if !a.loader.Start(ctx) {
		zlog.Debug().Msg("station list fetch already in progress")
		return false
	}
	zlog.Info().Msg("fetching station list")
	return true
}

// Tick applies a completed fetch, if any. It returns true when state changed.
func (a *App) Tick() bool {
	result, ok := a.loader.Poll()
	if !ok {
		return false
	}
	a.applyFetch(result)
	return true
}

func (a *App) applyFetch(result FetchResult) {
	if result.Err != nil {
		// Keep the previous catalog until the user retries
		a.fetchErr = result.Err
		return
	}
	a.fetchErr = nil
	a.lastFetched = time.Now()
	a.player.ReplaceCatalog(result.Catalog)
	// The fetched list is authoritative for the persisted selection
	a.player.DiscardRestore()
}

// Handle applies a command. Invalid selections are ignored silently.
func (a *App) Handle(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CommandState:
	case CommandSelect:
		a.player.Select(cmd.Index)
	case CommandToggle:
		a.player.TogglePlay()
	case CommandStop:
		a.player.Stop()
	case CommandVolume:
		a.player.SetVolume(cmd.Volume)
	case CommandMute:
		a.player.ToggleMute()
	case CommandRetry:
		a.Refresh(ctx)
	case CommandSearch:
		a.search = cmd.Query
	default:
		return ErrUnknownCommand
	}
	return nil
}

// Snapshot returns a read-only view of the current state.
func (a *App) Snapshot() Snapshot {
	catalog := a.player.Catalog()
	status := a.player.Status()

	matches := make(map[int]bool, catalog.Len())
	for _, i := range catalog.Search(a.search) {
		matches[i] = true
	}

	stations := make([]StationView, 0, catalog.Len())
	for i, st := range catalog {
		stations = append(stations, StationView{
			Index: i,
			Name:  st.Name,
			URL:   st.StreamURL,
			Match: matches[i],
		})
	}

	s := Snapshot{
		Stations:    stations,
		Selected:    status.Selected,
		State:       status.State.String(),
		Playing:     status.State == playback.StatePlaying,
		Volume:      status.Volume,
		VolumeLevel: status.Level.String(),
		Search:      a.search,
		Loading:     a.loader.InFlight(),
	}
	if status.Station != nil {
		s.StationName = status.Station.Name
	}
	if a.fetchErr != nil {
		s.Error = a.fetchErr.Error()
	}
	if !a.lastFetched.IsZero() {
		t := a.lastFetched
		s.FetchedAt = &t
	}
	return s
}
