package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tempoapp/tempo/internal/ids"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// Store provides access to user accounts.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	now func() time.Time
}

// NewStore creates a user store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Register creates an account. The email is lowercased before the uniqueness
// check so addresses differing only in case collide.
func (s *Store) Register(ctx context.Context, email, name, password string) (*User, error) {
	email = internalstrings.NormalizeLowerTrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	name = internalstrings.NormalizeWhitespace(name)
	if name == "" {
		name = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return nil, ErrEmailTaken
	}

	now := s.now()
	u := User{
		ID:        ids.GenerateWithTimestamp("user:"+email, now, ids.DefaultLength),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, string(hash), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// Authenticate verifies email and password, returning the account on
// success. Unknown emails and wrong passwords are indistinguishable.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = internalstrings.NormalizeLowerTrimSpace(email)

	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &hash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a compare anyway so the miss costs the same as a wrong
		// password.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZv3RJQpZ8yK9XoC1bOQzq1lJv1e9e"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// Get returns one user by id.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, created_at, updated_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
