package repository

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quizmaster/quizmaster-backend/internal/model"
)

// ErrUserExists is returned when registering an already-taken username.
var ErrUserExists = errors.New("username already registered")

// ErrUserNotFound is returned when a username is unknown.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the flat-file credential store: one "username:hash"
// pair per line. The file is read once at construction and kept in memory;
// registrations append to both.
type UserRepository struct {
	path string
	log  zerolog.Logger

	mu    sync.RWMutex
	users map[string]model.User
}

// NewUserRepository loads the credential file at path. An absent file is
// not an error; it is created on the first registration.
func NewUserRepository(path string, log zerolog.Logger) *UserRepository {
	r := &UserRepository{
		path:  path,
		log:   log,
		users: make(map[string]model.User),
	}
	r.loadFile()
	return r
}

func (r *UserRepository) loadFile() {
	f, err := os.Open(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn().Err(err).Msg("Users file unreadable, starting empty")
		}
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		username, hash, ok := strings.Cut(line, ":")
		if !ok || username == "" || hash == "" {
			r.log.Warn().Str("line", line).Msg("Skipping malformed credential line")
			continue
		}
		r.users[username] = model.User{Username: username, PasswordHash: hash}
	}
	if err := scanner.Err(); err != nil {
		r.log.Warn().Err(err).Msg("Users file partially read")
	}
}

// GetByUsername looks up a user by name.
func (r *UserRepository) GetByUsername(username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// Create registers a new user and appends it to the credential file.
func (r *UserRepository) Create(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrUserExists
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open users file %s: %w", r.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s:%s\n", user.Username, user.PasswordHash); err != nil {
		return fmt.Errorf("append user: %w", err)
	}

	r.users[user.Username] = user
	return nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
