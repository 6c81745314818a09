// Package session keeps one interaction engine per browser session.
//
// The HTTP server hands each client a session ID (a random UUID) and routes
// every request carrying it to the same [engine.Engine]. Sessions live in
// memory only and expire after a sliding TTL: every lookup pushes the
// expiry forward, and [Registry.Cleanup] drops the ones left idle.
//
// # Usage
//
//	reg := session.NewRegistry(session.Options{
//	    TTL:       30 * time.Minute,
//	    NewEngine: func() *engine.Engine { return engine.New(opts) },
//	})
//	go reg.Run(ctx, time.Minute) // janitor
//
//	sess := reg.Create()
//	sess, err := reg.Get(id)
//
// [engine.Engine]: github.com/matzehuels/entigraph/pkg/engine.Engine
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 30 * time.Minute

// Session binds an engine to a client.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	Engine *engine.Engine `json:"-"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Options configures a [Registry].
type Options struct {
	TTL time.Duration
	// NewEngine builds the engine for a new session.
	NewEngine func() *engine.Engine
	Logger    *log.Logger
	// OnCount is called with the session count after every change.
	OnCount func(n int)
}

// Registry is a concurrency-safe in-memory session table.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.NewEngine == nil {
		opts.NewEngine = func() *engine.Engine { return engine.New(engine.Options{Logger: opts.Logger}) }
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh engine.
func (r *Registry) Create() *Session {
	now := r.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(r.opts.TTL),
		Engine:    r.opts.NewEngine(),
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	n := len(r.sessions)
	r.mu.Unlock()

	r.opts.Logger.Debug("session created", "id", sess.ID)
	r.report(n)
	return sess
}

// Get returns the session with the given ID and extends its expiry.
// Unknown, malformed and expired IDs fail with SESSION_NOT_FOUND.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	now := r.now()
	if !ok || now.After(sess.ExpiresAt) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.ExpiresAt = now.Add(r.opts.TTL)
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	r.report(n)
}

// Len returns the number of live and not yet collected sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (r *Registry) Cleanup() int {
	now := r.now()
	r.mu.Lock()
	removed := 0
	for id, sess := range r.sessions {
		if now.After(sess.ExpiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if removed > 0 {
		r.opts.Logger.Debug("expired sessions removed", "removed", removed, "remaining", n)
		r.report(n)
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

func (r *Registry) report(n int) {
	if r.opts.OnCount != nil {
		r.opts.OnCount(n)
	}
}
