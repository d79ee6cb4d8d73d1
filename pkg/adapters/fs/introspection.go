package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	WatcherActive bool       `json:"watcher_active"`
	LastScanCount int        `json:"last_scan_count"`
	LastScan      *time.Time `json:"last_scan,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return StoreState{
		Path:          s.Path,
		WatcherActive: s.watcherActive,
		LastScanCount: s.lastScanCount,
		LastScan:      s.lastScan,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.watcherActive = active
}

func (s *Store) recordScan(count int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	now := time.Now()
	s.lastScanCount = count
	s.lastScan = &now
}
