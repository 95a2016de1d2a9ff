package playback

import "fmt"

// State is the transport state of a Scheduler.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a consistent copy of the session taken under the lock.
type Snapshot struct {
	State    State
	Position float64 // seconds
	Duration float64 // seconds
	Volume   float64
	Muted    bool
}
