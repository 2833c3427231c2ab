// Package console provides a line-oriented terminal front end for the radio loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19radio/internal/app/radio"
)

// ErrQuit is returned by Parse for the quit command.
var ErrQuit = errors.New("quit")

const help = `commands:
  list               show stations
  select N           select station N
  play | toggle      play/pause the selected station
  stop               stop playback
  vol N              set volume (0-100)
  mute               mute/unmute
  search [TEXT]      filter stations by name (empty clears)
  retry              fetch the station list again
  help               show this help
  quit               exit`

// Console reads commands from in and writes state to out.
type Console struct {
	in       io.Reader
	out      io.Writer
	requests chan<- radio.Request
}

// New creates a new console.
func New(in io.Reader, out io.Writer, requests chan<- radio.Request) *Console {
	return &Console{in: in, out: out, requests: requests}
}

// Run processes input lines until EOF, quit, or ctx is done.
// It returns nil on quit or EOF.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "19radio - type 'help' for commands")
	if s, err := radio.Send(ctx, c.requests, radio.Command{Type: radio.CommandState}); err == nil {
		Render(c.out, s)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if err := c.handleLine(ctx, line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

func (c *Console) handleLine(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "help" {
		fmt.Fprintln(c.out, help)
		return nil
	}

	cmd, err := Parse(line)
	if errors.Is(err, ErrQuit) {
		return err
	}
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return nil
	}

	s, err := radio.Send(ctx, c.requests, cmd)
	if err != nil {
		return err
	}
	switch cmd.Type {
	case radio.CommandState, radio.CommandSearch:
		Render(c.out, s)
	default:
		fmt.Fprintln(c.out, StatusLine(s))
	}
	return nil
}

// aliases maps console shorthands to command names.
var aliases = map[string]string{
	"list":   "state",
	"ls":     "state",
	"sel":    "select",
	"play":   "toggle",
	"pause":  "toggle",
	"p":      "toggle",
	"vol":    "volume",
	"find":   "search",
	"reload": "retry",
}

// Parse converts an input line into a command.
func Parse(line string) (radio.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return radio.Command{Type: radio.CommandState}, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit", "q":
		return radio.Command{}, ErrQuit
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	typ, err := radio.ParseCommandType(name)
	if err != nil {
		return radio.Command{}, errors.Newf("unknown command %q (try 'help')", fields[0])
	}

	cmd := radio.Command{Type: typ}
	switch typ {
	case radio.CommandSelect:
		if cmd.Index, err = intArg(name, args); err != nil {
			return radio.Command{}, err
		}
	case radio.CommandVolume:
		if cmd.Volume, err = intArg(name, args); err != nil {
			return radio.Command{}, err
		}
	case radio.CommandSearch:
		cmd.Query = strings.Join(args, " ")
	}
	return cmd, nil
}

func intArg(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.Newf("%s takes one number", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Newf("%s: %q is not a number", name, args[0])
	}
	return n, nil
}
