// Package playback translates station selection and play/pause intent into
// audio sink commands.
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota // Nothing streaming (nothing selected, paused or stopped)
	StatePlaying              // Selected station is streaming
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// VolumeLevel is a coarse classification of the volume for display.
type VolumeLevel int

const (
	VolumeMute   VolumeLevel = iota // 0
	VolumeLow                       // 1-30
	VolumeMedium                    // 31-70
	VolumeHigh                      // 71-100
)

// LevelOf classifies a volume in the range 0-100.
func LevelOf(volume int) VolumeLevel {
	switch {
	case volume <= 0:
		return VolumeMute
	case volume <= 30:
		return VolumeLow
	case volume <= 70:
		return VolumeMedium
	default:
		return VolumeHigh
	}
}

// String returns the string representation of the level.
func (l VolumeLevel) String() string {
	switch l {
	case VolumeMute:
		return "mute"
	case VolumeLow:
		return "low"
	case VolumeMedium:
		return "medium"
	case VolumeHigh:
		return "high"
	default:
		return "unknown"
	}
}
