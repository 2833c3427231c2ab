// Package main provides the remote control CLI for a running player.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/osa030/19radio/internal/api/console"
	"github.com/osa030/19radio/internal/api/httpapi"
	"github.com/osa030/19radio/internal/app/radio"
)

var (
	app    = kingpin.New("19radio-ctl", "19radio remote control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token").Envar("RADIO_SERVER_TOKEN").String()

	stateCmd = app.Command("state", "Show the station list and playback state").Default()

	selectCmd   = app.Command("select", "Select a station")
	selectIndex = selectCmd.Arg("index", "Station index").Required().Int()

	toggleCmd = app.Command("toggle", "Play or pause the selected station")
	stopCmd   = app.Command("stop", "Stop playback")

	volumeCmd   = app.Command("volume", "Set the volume")
	volumeValue = volumeCmd.Arg("value", "Volume (0-100)").Required().Int()

	muteCmd  = app.Command("mute", "Mute or unmute")
	retryCmd = app.Command("retry", "Fetch the station list again")

	searchCmd   = app.Command("search", "Filter stations by name")
	searchQuery = searchCmd.Arg("query", "Search text (empty clears)").String()

	watchCmd = app.Command("watch", "Print state changes until interrupted")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &client{base: strings.TrimRight(*server, "/"), token: *token, http: &http.Client{Timeout: 10 * time.Second}}

	var (
		snapshot radio.Snapshot
		err      error
	)
	switch command {
	case stateCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodGet, "/api/state", nil)
	case selectCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/select", httpapi.SelectRequest{Index: selectIndex})
	case toggleCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/toggle", nil)
	case stopCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/stop", nil)
	case volumeCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/volume", httpapi.VolumeRequest{Volume: volumeValue})
	case muteCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/mute", nil)
	case retryCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/retry", nil)
	case searchCmd.FullCommand():
		snapshot, err = c.do(ctx, http.MethodPost, "/api/search", httpapi.SearchRequest{Query: *searchQuery})
	case watchCmd.FullCommand():
		if err := c.watch(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if command == stateCmd.FullCommand() || command == searchCmd.FullCommand() {
		console.Render(os.Stdout, snapshot)
		return
	}
	fmt.Println(console.StatusLine(snapshot))
}

// client talks to the remote control API.
type client struct {
	base  string
	token string
	http  *http.Client
}

func (c *client) do(ctx context.Context, method, path string, body any) (radio.Snapshot, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return radio.Snapshot{}, errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return radio.Snapshot{}, errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(httpapi.TokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return radio.Snapshot{}, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e httpapi.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return radio.Snapshot{}, errors.Newf("%s (HTTP %d)", e.Error, resp.StatusCode)
		}
		return radio.Snapshot{}, errors.Newf("unexpected status: %s", resp.Status)
	}

	var snapshot radio.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return radio.Snapshot{}, errors.Wrap(err, "failed to decode response")
	}
	return snapshot, nil
}

func (c *client) watch(ctx context.Context) error {
	u, err := url.Parse(c.base + "/api/events")
	if err != nil {
		return errors.Wrap(err, "invalid server address")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	if c.token != "" {
		header.Set(httpapi.TokenHeader, c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return errors.Wrap(err, "failed to connect")
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	fmt.Println("Watching for state changes. Press Ctrl+C to exit.")
	for {
		var snapshot radio.Snapshot
		if err := conn.ReadJSON(&snapshot); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(err, "stream closed")
		}
		fmt.Printf("[%d] %s\n", snapshot.Sequence, console.StatusLine(snapshot))
	}
}
