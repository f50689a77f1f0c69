package player

// State is the render engine's playback state.
//
// Valid transitions:
//   - Stopped → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Resume)
//   - Playing/Paused → Stopped (via Stop)
//
// Everything else is a no-op.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
