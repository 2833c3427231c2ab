package radio

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoFetch        = errors.New("no fetch in flight")
)

// CommandType identifies a user action.
type CommandType int

const (
	CommandState  CommandType = iota // Return the current snapshot
	CommandSelect                    // Select a station by index
	CommandToggle                    // Toggle play/pause
	CommandStop                      // Stop playback, keep selection
	CommandVolume                    // Set the volume
	CommandMute                      // Toggle mute
	CommandRetry                     // Fetch the station list again
	CommandSearch                    // Filter stations by name
)

var commandNames = map[CommandType]string{
	CommandState:  "state",
	CommandSelect: "select",
	CommandToggle: "toggle",
	CommandStop:   "stop",
	CommandVolume: "volume",
	CommandMute:   "mute",
	CommandRetry:  "retry",
	CommandSearch: "search",
}

// String returns the string representation of the command type.
func (c CommandType) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommandType returns the command type with the given name.
func ParseCommandType(name string) (CommandType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range commandNames {
		if n == name {
			return t, nil
		}
	}
	return 0, ErrUnknownCommand
}

// Command is a user action delivered to the application loop.
type Command struct {
	Type   CommandType
	Index  int    // CommandSelect
	Volume int    // CommandVolume
	Query  string // CommandSearch
}
