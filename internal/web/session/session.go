package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/uniuri"
)

// Store is the global session store instance.
var Store *session.Store

// sessionIDLength gives ~285 bits of entropy with the uniuri alphabet.
const sessionIDLength = 48

// Data is the session payload: the permission record resolved at login.
// The record is immutable for the session's lifetime; a new login writes a
// new session.
type Data struct {
	Record auth.PermissionRecord
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data for the given session ID.
func (s *Data) Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// Valid reports whether the session holds an established permission record.
func (s *Data) Valid() bool {
	return s.Record.Success
}

// Init initializes the session store with the provided storage backend.
func Init(storage storage.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage: storage,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() string {
	return uniuri.NewLen(sessionIDLength)
}
