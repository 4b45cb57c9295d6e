package service

import (
	"sync/atomic"
	"time"
)

// State is the process health shared by the runner, the market stream and the
// HTTP probes.
type State struct {
	ready     atomic.Bool
	startedAt time.Time
	now       func() time.Time

	wsConnected  atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	return &State{startedAt: time.Now(), now: time.Now}
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

// TickAge is the time since the last ticker update, or -1 if none arrived yet.
func (s *State) TickAge() time.Duration {
	t := s.LastTick()
	if t.IsZero() {
		return -1
	}
	return s.now().Sub(t)
}

func (s *State) Uptime() time.Duration { return s.now().Sub(s.startedAt) }
