package library

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evrardt/muse/internal/tags"
)

const numWorkers = 8

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string // "scanning", "processing", "done"
	Current     int
	Total       int
	CurrentFile string
}

// Scanner walks scan roots and feeds extracted tracks into a catalog.
// Each root carries a generation counter so a newer scan of the same
// root invalidates the results still in flight from an older one.
type Scanner struct {
	catalog *Catalog

	mu          sync.Mutex
	generations map[string]uint64
}

func NewScanner(catalog *Catalog) *Scanner {
	return &Scanner{
		catalog:     catalog,
		generations: make(map[string]uint64),
	}
}

// Scan walks root, extracts metadata with a bounded worker pool and
// merges the results into the catalog. Existing tracks under root are
// replaced, so rescanning is idempotent. An unreadable root yields an
// empty result, not an error. Progress updates are sent on progress if
// non-nil; the channel is closed when the scan finishes.
func (s *Scanner) Scan(root string, progress chan<- ScanProgress) {
	if progress != nil {
		defer close(progress)
	}

	root = filepath.Clean(root)
	gen := s.bumpGeneration(root)

	report := func(p ScanProgress) {
		if progress != nil {
			progress <- p
		}
	}

	report(ScanProgress{Phase: "scanning"})
	candidates := discoverFiles(root, report)

	if len(candidates) == 0 || !s.currentGeneration(root, gen) {
		report(ScanProgress{Phase: "done"})
		return
	}

	tracks := s.extractAll(candidates, report)

	// A newer scan of this root may have started while workers ran;
	// its results win, ours are dropped.
	if !s.currentGeneration(root, gen) {
		report(ScanProgress{Phase: "done"})
		return
	}

	s.catalog.mu.Lock()
	s.catalog.removeUnderRoot(root)
	for _, t := range tracks {
		if _, dup := s.catalog.byPath[t.Path]; dup {
			continue
		}
		s.catalog.byPath[t.Path] = len(s.catalog.tracks)
		s.catalog.tracks = append(s.catalog.tracks, t)
	}
	s.catalog.rebuild()
	s.catalog.mu.Unlock()

	report(ScanProgress{Phase: "done", Current: len(tracks), Total: len(candidates)})
}

// extractAll runs metadata extraction over a bounded worker pool and
// collects the results on the calling goroutine, in candidate order.
func (s *Scanner) extractAll(candidates []string, report func(ScanProgress)) []Track {
	total := len(candidates)

	workCh := make(chan int)
	results := make([]Track, total)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for i := range workCh {
				path := candidates[i]
				results[i] = NewTrack(path, tags.Extract(path))
			}
		})
	}

	go func() {
		for i := range candidates {
			workCh <- i
		}
		close(workCh)
	}()

	// Coarse progress: report per dispatched batch rather than per file.
	wg.Wait()
	report(ScanProgress{Phase: "processing", Current: total, Total: total})

	return results
}

// discoverFiles walks root and returns all music file paths, skipping
// hidden files and directories. Walk errors are skipped so one bad
// subtree never aborts the scan.
func discoverFiles(root string, report func(ScanProgress)) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !tags.IsMusicFile(path) {
			return nil
		}
		files = append(files, path)
		if len(files)%100 == 0 {
			report(ScanProgress{Phase: "scanning", Current: len(files)})
		}
		return nil
	})
	return files
}

func (s *Scanner) bumpGeneration(root string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[root]++
	return s.generations[root]
}

func (s *Scanner) currentGeneration(root string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[root] == gen
}

// pathUnderRoot reports whether path is root or inside it.
func pathUnderRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
