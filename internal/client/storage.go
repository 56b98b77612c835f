package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/usamakj/auth-app-be/internal/models"
)

// Slot names inside the session file, mirroring the browser client's
// localStorage keys.
const (
	slotToken = "authToken"
	slotUser  = "user"
)

// FileStore persists the session's two slots (token and user profile JSON) in
// a single file guarded by an advisory lock, so concurrent client processes
// do not interleave writes.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Save writes both slots durably.
func (s *FileStore) Save(token string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	slots := map[string]string{
		slotToken: token,
		slotUser:  string(userJSON),
	}
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load reads the stored session. ok is false when no complete session exists;
// a missing file is not an error.
func (s *FileStore) Load() (token string, user models.User, ok bool, err error) {
	if err := s.lock.RLock(); err != nil {
		return "", models.User{}, false, err
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", models.User{}, false, nil
		}
		return "", models.User{}, false, err
	}

	var slots map[string]string
	if err := json.Unmarshal(data, &slots); err != nil {
		// A corrupt session file is treated as no session.
		return "", models.User{}, false, nil
	}

	token = slots[slotToken]
	userJSON := slots[slotUser]
	if token == "" || userJSON == "" {
		return "", models.User{}, false, nil
	}
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return "", models.User{}, false, nil
	}
	return token, user, true, nil
}

// Clear removes the stored session. Clearing an absent session is a no-op.
func (s *FileStore) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
