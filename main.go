package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/evrardt/muse/internal/config"
	"github.com/evrardt/muse/internal/lastfm"
	"github.com/evrardt/muse/internal/library"
	"github.com/evrardt/muse/internal/lyrics"
	"github.com/evrardt/muse/internal/musicbrainz"
	"github.com/evrardt/muse/internal/playback"
	"github.com/evrardt/muse/internal/player"
	"github.com/evrardt/muse/internal/playlists"
	"github.com/evrardt/muse/internal/state"
)

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

const (
	playerBarHeight = 3 // top border + content + bottom border
	seekStep        = 5 * time.Second
	volumeStep      = 0.05

	repeatModePref = "repeat_mode"
)

type (
	tickMsg time.Time

	scanProgressMsg library.ScanProgress
	scanDoneMsg     struct{}

	trackChangedMsg  playback.TrackChange
	stateChangedMsg  playback.StateChange
	playbackErrorMsg playback.ErrorEvent
	eventsClosedMsg  struct{}

	lyricsMsg struct {
		trackID string
		result  lyrics.FetchResult
	}

	lookupMsg string
)

type model struct {
	cfg      *config.Config
	stateMgr *state.Manager
	catalog  *library.Catalog
	scanner  *library.Scanner
	store    *playlists.Store
	svc      *playback.Service
	sub      *playback.Subscription
	resolver *lyrics.Resolver
	mb       *musicbrainz.Client

	search textinput.Model
	tracks []library.Track
	cursor int

	scanCh   chan library.ScanProgress
	scanning bool
	scanNote string

	lyr        *lyrics.Lyrics
	lyrTrackID string

	status string
	width  int
	height int
}

func initialModel() (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	stateMgr, err := state.Open()
	if err != nil {
		return model{}, err
	}

	store, err := playlists.Open()
	if err != nil {
		stateMgr.Close()
		return model{}, err
	}

	catalog := library.NewCatalog()
	svc := playback.New(player.New())

	svc.SetVolume(stateMgr.Volume())
	svc.SetMuted(stateMgr.Muted())
	if mode, err := strconv.Atoi(stateMgr.GetPref(repeatModePref)); err == nil {
		svc.SetRepeatMode(playback.RepeatMode(mode))
	}

	// The persisted queue resolves lazily: placeholder tracks render
	// from their saved display fields until a scan fills the catalog.
	if q, err := stateMgr.GetQueue(); err == nil && len(q.Tracks) > 0 {
		restored := make([]library.Track, 0, len(q.Tracks))
		for _, qt := range q.Tracks {
			t := library.Placeholder(qt.Path, qt.Title)
			t.Artist = qt.Artist
			t.Album = qt.Album
			t.TrackNumber = qt.TrackNumber
			t.Duration = qt.Duration.Seconds()
			restored = append(restored, t)
		}
		svc.LoadQueue(restored, q.CurrentIndex, q.Shuffle)
	}

	search := textinput.New()
	search.Placeholder = "search library (press /)"
	search.Prompt = "/ "

	m := model{
		cfg:      cfg,
		stateMgr: stateMgr,
		catalog:  catalog,
		scanner:  library.NewScanner(catalog),
		store:    store,
		svc:      svc,
		sub:      svc.Subscribe(),
		resolver: lyrics.NewResolver(cfg.RemoteLyrics()),
		mb:       musicbrainz.NewClient(),
		search:   search,
	}

	if cfg.HasLastfmConfig() {
		client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		if key := stateMgr.GetPref("lastfm_session_key"); key != "" {
			client.SetSessionKey(key)
			go lastfm.NewScrobbler(client, svc).Run()
		}
	}

	return m, nil
}

// scanRoots merges configured library sources with the persisted roots,
// config first, without duplicates.
func (m model) scanRoots() []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(root string) {
		if root != "" && !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	for _, root := range m.cfg.LibrarySources {
		add(root)
	}
	if saved, err := m.stateMgr.ScanRoots(); err == nil {
		for _, root := range saved {
			add(root)
		}
	}
	return roots
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.startScan(), waitEvent(m.sub), tickCmd())
}

// startScan walks every root sequentially on one goroutine, funneling
// the per-root progress channels into a single stream.
func (m model) startScan() tea.Cmd {
	roots := m.scanRoots()
	if len(roots) == 0 {
		return nil
	}
	_ = m.stateMgr.SetScanRoots(roots)

	out := m.scanCh
	scanner := m.scanner
	go func() {
		for _, root := range roots {
			inner := make(chan library.ScanProgress, 16)
			go scanner.Scan(root, inner)
			for p := range inner {
				out <- p
			}
		}
		close(out)
	}()
	return waitScan(out)
}

func waitScan(ch <-chan library.ScanProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return scanDoneMsg{}
		}
		return scanProgressMsg(p)
	}
}

func waitEvent(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.TrackChanged:
			return trackChangedMsg(e)
		case e := <-sub.StateChanged:
			return stateChangedMsg(e)
		case e := <-sub.Error:
			return playbackErrorMsg(e)
		case <-sub.Done:
			return eventsClosedMsg{}
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchLyrics(r *lyrics.Resolver, t library.Track) tea.Cmd {
	return func() tea.Msg {
		res := r.Fetch(context.Background(), lyrics.TrackInfo{
			FilePath: t.Path,
			Artist:   t.Artist,
			Title:    t.Title,
			Album:    t.Album,
			Duration: time.Duration(t.Duration * float64(time.Second)),
		})
		return lyricsMsg{trackID: t.ID, result: res}
	}
}

func lookupTrack(mb *musicbrainz.Client, prefetch bool, t library.Track) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		query := strings.TrimSpace(t.Artist + " " + t.Title)
		recs, err := mb.SearchRecordings(ctx, query)
		if err != nil {
			return lookupMsg(fmt.Sprintf("lookup failed: %v", err))
		}
		if len(recs) == 0 {
			return lookupMsg("no match on MusicBrainz")
		}
		if prefetch {
			mb.PrefetchCovers(ctx, recs)
		}
		best := recs[0]
		note := fmt.Sprintf("MusicBrainz: %s — %s", best.Artist, best.Title)
		if best.Album != "" {
			note += fmt.Sprintf(" [%s", best.Album)
			if best.Year > 0 {
				note += fmt.Sprintf(", %d", best.Year)
			}
			note += "]"
		}
		return lookupMsg(note)
	}
}

func (m *model) refilter() {
	m.tracks = m.catalog.Search(m.search.Value())
	if m.cursor >= len(m.tracks) {
		m.cursor = max(len(m.tracks)-1, 0)
	}
}

func (m *model) quit() tea.Msg {
	q := state.QueueState{
		CurrentIndex: m.svc.QueueIndex(),
		RepeatMode:   int(m.svc.RepeatMode()),
		Shuffle:      m.svc.Shuffled(),
	}
	for _, t := range m.svc.QueueTracks() {
		q.Tracks = append(q.Tracks, state.QueueTrack{
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
			Duration:    time.Duration(t.Duration * float64(time.Second)),
		})
	}
	_ = m.stateMgr.SaveQueue(q)
	_ = m.stateMgr.SaveVolume(m.svc.Volume())
	_ = m.stateMgr.SaveMuted(m.svc.Muted())
	_ = m.stateMgr.SetPref(repeatModePref, strconv.Itoa(int(m.svc.RepeatMode())))

	m.svc.Close()
	m.stateMgr.Close()
	return tea.Quit()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-4, 10)

	case scanProgressMsg:
		p := library.ScanProgress(msg)
		switch p.Phase {
		case "scanning":
			m.scanNote = fmt.Sprintf("discovering files... %d", p.Current)
		case "processing":
			m.scanNote = fmt.Sprintf("reading tags %d/%d", p.Current, p.Total)
		}
		m.scanning = true
		m.refilter()
		return m, waitScan(m.scanCh)

	case scanDoneMsg:
		m.scanning = false
		m.scanNote = ""
		m.store.Resolve(m.catalog)
		m.refilter()
		return m, nil

	case trackChangedMsg:
		cmds := []tea.Cmd{waitEvent(m.sub)}
		if msg.Current != nil && msg.Current.ID != m.lyrTrackID {
			m.lyr = nil
			m.lyrTrackID = msg.Current.ID
			cmds = append(cmds, fetchLyrics(m.resolver, *msg.Current))
		}
		return m, tea.Batch(cmds...)

	case stateChangedMsg:
		return m, waitEvent(m.sub)

	case playbackErrorMsg:
		m.status = fmt.Sprintf("playback error (%s): %v", msg.Operation, msg.Err)
		return m, waitEvent(m.sub)

	case eventsClosedMsg:
		return m, nil

	case lyricsMsg:
		if msg.trackID == m.lyrTrackID {
			m.lyr = msg.result.Lyrics
		}
		return m, nil

	case lookupMsg:
		m.status = string(msg)
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			m.search.Blur()
			m.search.SetValue("")
			m.refilter()
			return m, nil
		case "enter":
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.refilter()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit

	case "/":
		m.search.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.tracks)-1, 0)

	case "enter":
		if len(m.tracks) > 0 {
			if err := m.svc.PlayQueue(m.tracks, m.cursor); err != nil {
				m.status = fmt.Sprintf("play: %v", err)
			}
		}

	case " ":
		if err := m.svc.Toggle(); err != nil {
			m.status = fmt.Sprintf("play: %v", err)
		}
	case "x":
		m.svc.Stop()
	case "n":
		if err := m.svc.Next(); err != nil {
			m.status = fmt.Sprintf("next: %v", err)
		}
	case "p":
		if err := m.svc.Previous(); err != nil {
			m.status = fmt.Sprintf("previous: %v", err)
		}

	case "left":
		m.svc.Seek(-seekStep)
	case "right":
		m.svc.Seek(seekStep)

	case "s":
		if m.svc.ToggleShuffle() {
			m.status = "shuffle on"
		} else {
			m.status = "shuffle off"
		}
	case "r":
		m.status = "repeat: " + m.svc.CycleRepeatMode().String()

	case "+", "=":
		m.svc.SetVolume(m.svc.Volume() + volumeStep)
	case "-":
		m.svc.SetVolume(m.svc.Volume() - volumeStep)
	case "m":
		m.svc.SetMuted(!m.svc.Muted())

	case "f":
		if m.cursor < len(m.tracks) {
			t := m.tracks[m.cursor]
			t.Favorite = !t.Favorite
			m.catalog.Update(t)
			m.refilter()
		}

	case "L":
		if t, ok := m.svc.CurrentTrack(); ok {
			m.status = "looking up " + t.Title + "..."
			return m, lookupTrack(m.mb, m.cfg.PrefetchCovers(), t)
		}
	}

	return m, nil
}

func (m model) listHeight() int {
	h := m.height - 2 // header + search line
	if m.svc.State().IsActive() {
		h -= playerBarHeight + 1 // player bar + lyric/status line
	}
	return max(h, 1)
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf(" muse — %s tracks", humanize.Comma(int64(m.catalog.Len())))
	if m.scanning {
		header += dimStyle.Render("  " + m.scanNote)
	}
	b.WriteString(header + "\n")
	b.WriteString(m.search.View() + "\n")

	b.WriteString(m.renderList())

	if m.svc.State().IsActive() {
		b.WriteString(m.renderPlayerBar())
		b.WriteString("\n" + m.renderFooterLine())
	}

	return b.String()
}

func (m model) renderList() string {
	height := m.listHeight()

	// Keep the cursor visible.
	offset := 0
	if m.cursor >= height {
		offset = m.cursor - height + 1
	}

	var b strings.Builder
	for row := range height {
		i := offset + row
		if i >= len(m.tracks) {
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderRow(i) + "\n")
	}
	return b.String()
}

func (m model) renderRow(i int) string {
	t := m.tracks[i]

	marker := " "
	if current, ok := m.svc.CurrentTrack(); ok && current.ID == t.ID {
		marker = "▸"
	}
	fav := " "
	if t.Favorite {
		fav = "♥"
	}

	dur := formatDuration(time.Duration(t.Duration * float64(time.Second)))
	plain := fmt.Sprintf("%s%s %s — %s", marker, fav, t.Artist, t.Title)

	avail := m.width - lipgloss.Width(dur) - 3
	if runes := []rune(plain); len(runes) > avail && avail > 0 {
		plain = string(runes[:avail])
	}

	line := plain + "  " + dimStyle.Render(dur)
	if i == m.cursor {
		return selectedStyle.Render(line)
	}
	return line
}

func (m model) renderPlayerBar() string {
	track, ok := m.svc.CurrentTrack()
	if !ok {
		return ""
	}

	status := "▶"
	if m.svc.State() == playback.StatePaused {
		status = "⏸"
	}

	left := fmt.Sprintf(" %s  %s — %s", status, track.Artist, track.Title)
	if track.Album != "" {
		left += dimStyle.Render("  (" + track.Album + ")")
	}

	right := fmt.Sprintf("%s / %s", formatDuration(m.svc.Position()), formatDuration(m.svc.Duration()))
	if m.svc.Muted() {
		right = "🔇 " + right
	}
	if m.svc.Shuffled() {
		right = "⤨ " + right
	}
	if mode := m.svc.RepeatMode(); mode != playback.RepeatOff {
		right = "⟳" + mode.String() + " " + right
	}
	right += " "

	innerWidth := max(m.width-2, 0)
	padding := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
	content := left + strings.Repeat(" ", padding) + right

	return playerBarStyle.Width(innerWidth).Render(content)
}

// renderFooterLine shows the active synced lyric line when one exists,
// otherwise the last status message.
func (m model) renderFooterLine() string {
	if m.lyr != nil && m.lyr.IsSynced() {
		if idx := m.lyr.LineAt(m.svc.Position()); idx >= 0 {
			line := m.lyr.Lines[idx]
			if line.Instrumental {
				return dimStyle.Render(" ♪")
			}
			return dimStyle.Render(" " + line.Text)
		}
	}
	return dimStyle.Render(" " + m.status)
}

func formatDuration(d time.Duration) string {
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func main() {
	m, err := initialModel()
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}
	m.scanCh = make(chan library.ScanProgress, 16)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
