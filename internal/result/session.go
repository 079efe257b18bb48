package result

import (
	"sync"

	"github.com/example/regionshot/internal/regionpath"
)

// Session carries state that outlives a single overlay, such as the region
// selected by the last completed capture.
type Session struct {
	mu   sync.Mutex
	last *regionpath.Path
}

func NewSession() *Session { return &Session{} }

// SetLastRegion stores p, in screen coordinates, replacing and releasing any
// previous region. A nil or empty path clears it.
func (s *Session) SetLastRegion(p *regionpath.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		s.last.Reset()
	}
	if p.IsEmpty() {
		s.last = nil
		return
	}
	s.last = p.Clone()
}

// LastRegion returns a copy of the stored region.
func (s *Session) LastRegion() (*regionpath.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, false
	}
	return s.last.Clone(), true
}

// Clear forgets the stored region.
func (s *Session) Clear() { s.SetLastRegion(nil) }
