// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package session

import "github.com/areaguard/areaguard/internal/area"

// Manager holds the sessions of all connected actors, keyed by actor ID.
// Like Session it relies on the engine's serialization and does no locking.
type Manager struct {
	sessions map[area.ActorID]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[area.ActorID]*Session)}
}

// Add registers a session, replacing any previous session for the actor.
func (m *Manager) Add(s *Session) {
	m.sessions[s.ActorID] = s
}

// Get returns the session for an actor, or nil if not connected.
func (m *Manager) Get(actorID area.ActorID) *Session {
	return m.sessions[actorID]
}

// Remove drops an actor's session on disconnect.
func (m *Manager) Remove(actorID area.ActorID) {
	delete(m.sessions, actorID)
}

// All returns every live session. The slice is a snapshot; the sessions are
// shared.
func (m *Manager) All() []*Session {
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	return all
}

// Len returns the number of connected actors.
func (m *Manager) Len() int {
	return len(m.sessions)
}
