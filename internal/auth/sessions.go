package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID    = "user_id"
	SessionKeyUsername  = "username"
	SessionKeyFlash     = "flash_message"
	SessionKeyFlashKind = "flash_kind"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Message string
	Kind    string // "success" or "error"
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()

	// Configure session store (SQLite)
	sm.Store = sqlite3store.New(sqlDB)

	// Sessions expire after the configured period of inactivity.
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime

	// Configure cookie security
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession creates a new session for a user after successful
// authentication.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// GetUsername retrieves the username from the session.
func (sm *SessionManager) GetUsername(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// PutFlash stores a one-shot notice in the session.
func (sm *SessionManager) PutFlash(r *http.Request, kind, message string) {
	sm.Put(r.Context(), SessionKeyFlash, message)
	sm.Put(r.Context(), SessionKeyFlashKind, kind)
}

// PopFlash retrieves and clears the pending notice, if any.
func (sm *SessionManager) PopFlash(r *http.Request) *Flash {
	message := sm.PopString(r.Context(), SessionKeyFlash)
	kind := sm.PopString(r.Context(), SessionKeyFlashKind)
	if message == "" {
		return nil
	}
	if kind == "" {
		kind = "success"
	}
	return &Flash{Message: message, Kind: kind}
}
