// Package session derives per-browsing-session identity and client-context
// labels (browser, OS, device class, coarse country guess) for recorded
// page views.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is how long a session identity stays live without a new
// event before the next event starts a fresh session.
const DefaultTimeout = 30 * time.Minute

// Identity is the explicit session value threaded through every ingestion
// call. The ID is created lazily on first use and stays stable for the
// lifetime of one browsing session; it is never persisted across restarts.
type Identity struct {
	ID      string
	Browser string
	OS      string
	Device  string
	Country string
}

type liveSession struct {
	identity Identity
	lastSeen time.Time
}

// Provider hands out session identities keyed by a caller-chosen client key
// (typically remote address + user agent). Identities are created lazily on
// the first event for a key, reused while the session stays active, and
// rotated after the inactivity timeout.
type Provider struct {
	mu        sync.Mutex
	sessions  map[string]*liveSession
	timeout   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewProvider creates a session provider. A non-positive timeout falls back
// to DefaultTimeout.
func NewProvider(timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Provider{
		sessions:  make(map[string]*liveSession),
		timeout:   timeout,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Identify returns the stable identity for a client key, creating it on
// first use. Classification runs once per session start; subsequent events
// in the same session reuse the cached labels.
func (p *Provider) Identify(clientKey string, info ClientInfo) Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.sweepExpired(now)

	if live, ok := p.sessions[clientKey]; ok && now.Sub(live.lastSeen) <= p.timeout {
		live.lastSeen = now
		return live.identity
	}

	browser, os, device := ClassifyUserAgent(info.UserAgent)
	identity := Identity{
		ID:      uuid.NewString(),
		Browser: browser,
		OS:      os,
		Device:  device,
		Country: CountryFromZone(info.TimeZone),
	}
	p.sessions[clientKey] = &liveSession{identity: identity, lastSeen: now}

	return identity
}

// sweepExpired drops session entries past the timeout. Runs at most once
// per timeout interval so steady ingestion does not pay a full map walk on
// every event; the map is then bounded by the keys seen within the last
// two timeout windows. Caller holds the lock.
func (p *Provider) sweepExpired(now time.Time) {
	if now.Sub(p.lastSweep) < p.timeout {
		return
	}
	for key, live := range p.sessions {
		if now.Sub(live.lastSeen) > p.timeout {
			delete(p.sessions, key)
		}
	}
	p.lastSweep = now
}

// ActiveSessions returns the number of currently tracked session keys.
// Entries past the timeout linger only until the next sweep.
func (p *Provider) ActiveSessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}
