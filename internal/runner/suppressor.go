package runner

import (
	"sync"
	"time"

	"ticker_bot/internal/models"
)

// Suppressor drops further ticks for a symbol for a fixed window after it
// produced a signal, so one move does not re-trigger on every update.
type Suppressor struct {
	window time.Duration

	mu      sync.Mutex
	ignored map[string]time.Time // symbol -> suppressed at
}

func NewSuppressor(window time.Duration) *Suppressor {
	return &Suppressor{
		window:  window,
		ignored: make(map[string]time.Time),
	}
}

// ShouldProcess purges expired entries and reports whether the symbol is active.
func (s *Suppressor) ShouldProcess(symbol string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(now)
	_, ignored := s.ignored[models.NormSymbol(symbol)]
	return !ignored
}

// Suppress starts (or restarts) the window for symbol at now.
func (s *Suppressor) Suppress(symbol string, now time.Time) {
	s.mu.Lock()
	s.ignored[models.NormSymbol(symbol)] = now
	s.mu.Unlock()
}

// SuppressedUntil returns when the symbol becomes active again.
func (s *Suppressor) SuppressedUntil(symbol string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.ignored[models.NormSymbol(symbol)]
	if !ok {
		return time.Time{}, false
	}
	return at.Add(s.window), true
}

func (s *Suppressor) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ignored)
}

func (s *Suppressor) Window() time.Duration { return s.window }

// purge must be called with mu held.
func (s *Suppressor) purge(now time.Time) {
	for sym, at := range s.ignored {
		if now.Sub(at) >= s.window {
			delete(s.ignored, sym)
		}
	}
}
