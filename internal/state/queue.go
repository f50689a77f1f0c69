package state

import (
	"database/sql"
	"time"

	"github.com/evrardt/muse/internal/db"
)

// QueueTrack is the persisted form of one queue entry. Only the path is
// authoritative; the display fields let the queue render before the library
// has been rescanned.
type QueueTrack struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// QueueState is the persisted playback queue.
type QueueState struct {
	Tracks       []QueueTrack
	CurrentIndex int
	RepeatMode   int
	Shuffle      bool
}

// SaveQueue replaces the persisted queue wholesale.
func (m *Manager) SaveQueue(q QueueState) error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}
		for i, t := range q.Tracks {
			_, err := tx.Exec(`
				INSERT INTO queue_tracks (position, path, title, artist, album, track_number, duration_ms)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, i, t.Path, t.Title, t.Artist, t.Album, t.TrackNumber, t.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}

		shuffle := 0
		if q.Shuffle {
			shuffle = 1
		}
		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index, repeat_mode, shuffle) VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle
		`, q.CurrentIndex, q.RepeatMode, shuffle)
		return err
	})
}

// GetQueue loads the persisted queue. Returns an empty state when nothing
// has been saved yet.
func (m *Manager) GetQueue() (QueueState, error) {
	q := QueueState{CurrentIndex: -1}

	var shuffle int
	err := m.db.QueryRow(`SELECT current_index, repeat_mode, shuffle FROM queue_state WHERE id = 1`).
		Scan(&q.CurrentIndex, &q.RepeatMode, &shuffle)
	if err != nil && err != sql.ErrNoRows {
		return q, err
	}
	q.Shuffle = shuffle != 0

	rows, err := m.db.Query(`
		SELECT path, title, artist, album, track_number, duration_ms
		FROM queue_tracks ORDER BY position
	`)
	if err != nil {
		return q, err
	}
	defer rows.Close()

	for rows.Next() {
		var t QueueTrack
		var artist, album sql.NullString
		var trackNumber sql.NullInt64
		var durationMS int64
		if err := rows.Scan(&t.Path, &t.Title, &artist, &album, &trackNumber, &durationMS); err != nil {
			return q, err
		}
		t.Artist = db.NullStringValue(artist)
		t.Album = db.NullStringValue(album)
		t.TrackNumber = int(db.NullInt64Value(trackNumber))
		t.Duration = time.Duration(durationMS) * time.Millisecond
		q.Tracks = append(q.Tracks, t)
	}
	return q, rows.Err()
}
