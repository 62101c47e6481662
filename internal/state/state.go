package state

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// maxBuilds is how many builds are kept in the history.
const maxBuilds = 20

// BuildRecord is the outcome of one build.
type BuildRecord struct {
	Number      int           `json:"number"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Roots       []string      `json:"roots"`
	Hierarchies []string      `json:"hierarchies"`
	Error       string        `json:"error,omitempty"`
}

// State tracks daemon state that persists across restarts.
type State struct {
	mu     sync.RWMutex
	path   string
	Builds []BuildRecord `json:"builds"`
}

// Load loads state from the default state file path.
// If the file doesn't exist, returns an empty state.
func Load() (*State, error) {
	path, err := pathutil.StatePath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads state from the specified path.
// If the file doesn't exist, returns an empty state.
func LoadFrom(path string) (*State, error) {
	s := &State{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		// Log warning but return empty state rather than failing
		slog.Warn("failed to parse state file, starting fresh", "error", err)
		s.Builds = nil
		return s, nil
	}

	return s, nil
}

// RecordBuild numbers the build, appends it to the history and persists to disk.
// The assigned number is returned.
func (s *State) RecordBuild(rec BuildRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Number = 1
	if n := len(s.Builds); n > 0 {
		rec.Number = s.Builds[n-1].Number + 1
	}

	s.Builds = append(s.Builds, rec)
	if len(s.Builds) > maxBuilds {
		s.Builds = append([]BuildRecord(nil), s.Builds[len(s.Builds)-maxBuilds:]...)
	}
	return rec.Number, s.save()
}

// save persists the state to disk. Must be called with mu held.
func (s *State) save() error {
	if s.path == "" {
		return nil
	}

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// LastBuild returns the most recent build.
// Returns nil if no build has run.
func (s *State) LastBuild() *BuildRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.Builds) == 0 {
		return nil
	}
	rec := s.Builds[len(s.Builds)-1]
	return &rec
}

// History returns the recorded builds, oldest first.
func (s *State) History() []BuildRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BuildRecord(nil), s.Builds...)
}

// Clear removes all state (useful for testing).
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Builds = nil
}
