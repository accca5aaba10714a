package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserManager registers accounts and authenticates them. It keeps no session
// state of its own; Login hands the caller a Session.
type UserManager struct {
	gw       Gateway
	hashCost int
}

// NewUserManager returns a UserManager issuing statements through gw.
func NewUserManager(gw Gateway) *UserManager {
	return &UserManager{gw: gw, hashCost: bcrypt.DefaultCost}
}

// Register inserts a new account and returns its id. The password is stored
// as a bcrypt hash of its SHA-256 digest, so passwords of any length are
// accepted.
func (m *UserManager) Register(ctx context.Context, username, password, email string) (int64, error) {
	if strings.TrimSpace(username) == "" {
		return 0, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), m.hashCost)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var emailArg any
	if email != "" {
		emailArg = email
	}

	ack, err := m.gw.ExecuteWrite(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		username, string(hash), emailArg)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateUsername, username)
		}
		return 0, fmt.Errorf("register user: %w", err)
	}
	return ack.LastInsertID, nil
}

// Login checks username and password and returns a new session on success.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (m *UserManager) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := m.findByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), passwordDigest(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
	}, nil
}

// Logout ends s. A nil or already ended session yields ErrNoActiveSession.
func (m *UserManager) Logout(s *Session) error {
	if !s.Active() {
		return ErrNoActiveSession
	}
	s.ended = true
	return nil
}

// ShowProfile returns the account with exactly this username.
func (m *UserManager) ShowProfile(ctx context.Context, username string) (*User, error) {
	return m.findByUsername(ctx, username)
}

// passwordDigest hex-encodes the SHA-256 of password. bcrypt ignores input
// past 72 bytes; the 64-byte digest always fits.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

func (m *UserManager) findByUsername(ctx context.Context, username string) (*User, error) {
	rows, err := m.gw.ExecuteRead(ctx,
		`SELECT id, username, password, email FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanUser(rows[0])
}

func scanUser(r Row) (*User, error) {
	var (
		u   User
		err error
	)
	if u.ID, err = r.Int64("id"); err != nil {
		return nil, err
	}
	if u.Username, err = r.String("username"); err != nil {
		return nil, err
	}
	if u.Password, err = r.String("password"); err != nil {
		return nil, err
	}
	if u.Email, err = r.NullString("email"); err != nil {
		return nil, err
	}
	return &u, nil
}
