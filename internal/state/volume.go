package state

import "strconv"

const (
	prefVolume = "volume"
	prefMuted  = "muted"
)

// Volume returns the saved volume level (0.0 to 1.0), defaulting to 1.0.
func (m *Manager) Volume() float64 {
	v := m.GetPref(prefVolume)
	if v == "" {
		return 1.0
	}
	level, err := strconv.ParseFloat(v, 64)
	if err != nil || level < 0 || level > 1 {
		return 1.0
	}
	return level
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(level float64) error {
	return m.SetPref(prefVolume, strconv.FormatFloat(level, 'f', 4, 64))
}

// Muted returns the saved mute flag.
func (m *Manager) Muted() bool {
	return m.GetPref(prefMuted) == "1"
}

// SaveMuted persists the mute flag.
func (m *Manager) SaveMuted(muted bool) error {
	v := "0"
	if muted {
		v = "1"
	}
	return m.SetPref(prefMuted, v)
}
