package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/user"
)

// storageKey is the fixed key the client's session record lives under.
const storageKey = "access_token"

type (
	// Session is a client-held record proving prior successful
	// authentication. The token is opaque; the role is fixed at creation.
	Session struct {
		Token string    `json:"token"`
		Role  user.Role `json:"role"`
	}

	// Store is durable client-side storage: key-value put/get/delete of a
	// single named entry. Implementations must treat unavailability as
	// non-fatal and may swallow errors (behave like a miss).
	Store interface {
		Put(ctx context.Context, key string, data []byte) error
		// Get returns nil data when the key is missing.
		Get(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
	}

	// Manager owns the single active session: it is the only component that
	// ever writes the persisted record.
	Manager struct {
		store  Store
		logger core.Logger

		mu      sync.RWMutex
		current *Session
	}
)

func NewManager(store Store, logger core.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Issue creates a session with a fresh opaque token and persists the whole
// {token, role} record, overwriting any prior session. The in-memory session
// is returned even when persistence fails, so the current page-load keeps
// working.
func (m *Manager) Issue(ctx context.Context, role user.Role) Session {
	sess := Session{Token: uuid.New().String(), Role: role}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	data, err := json.Marshal(sess)
	if err == nil {
		err = m.store.Put(ctx, storageKey, data)
	}
	if err != nil {
		m.logger.Warn("persisting session", err)
	}
	return sess
}

// Restore reads the persisted session back into memory. It reports false
// when no valid session record is stored.
func (m *Manager) Restore(ctx context.Context) (Session, bool) {
	data, err := m.store.Get(ctx, storageKey)
	if err != nil || data == nil {
		return Session{}, false
	}

	var sess Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return Session{}, false
	}
	if sess.Token == "" || !sess.Role.Valid() {
		return Session{}, false
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()
	return sess, true
}

// Clear destroys the session: storage entry removed, in-memory state reset.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, storageKey); err != nil {
		m.logger.Warn("clearing session", err)
	}
}

// Current returns the in-memory session of this page-load, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}
