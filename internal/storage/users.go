package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when creating a username that is taken.
	ErrUserExists = errors.New("storage: user already exists")
	// ErrBadCredentials is returned when a username or password does not match.
	ErrBadCredentials = errors.New("storage: bad credentials")
	// ErrMissingCredentials is returned when a username or password is empty.
	ErrMissingCredentials = errors.New("storage: username and password are required")
)

// User is an account. The password hash never leaves this package.
type User struct {
	Username     string    `json:"user"`
	HighestScore int       `json:"highestscore"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser stores a new account with a bcrypt password hash and a
// highest score of zero.
func (s *Store) CreateUser(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("storage: cannot hash password: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		username, string(hash),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot create user: %w", err)
	}
	if n == 0 {
		return ErrUserExists
	}
	return nil
}

// CheckUser verifies a username and password pair and returns the account.
// Unknown users and wrong passwords both yield ErrBadCredentials.
func (s *Store) CheckUser(username, password string) (User, error) {
	var u User
	var hash string
	var createdAt any

	err := s.db.QueryRow(
		`SELECT username, password_hash, highest_score, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.Username, &hash, &u.HighestScore, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}

	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// ListUsers returns every account ordered by name.
func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query(
		`SELECT username, highest_score, created_at FROM users ORDER BY username`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		var createdAt any
		if err := rows.Scan(&u.Username, &u.HighestScore, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		u.CreatedAt = parseTime(createdAt)
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return users, nil
}

// UpdateHighScore raises the user's highest score when score beats it.
// Reports whether the stored value changed.
func (s *Store) UpdateHighScore(username string, score int) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE users SET highest_score = ? WHERE username = ? AND highest_score < ?`,
		score, username, score,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot update high score: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot update high score: %w", err)
	}
	return n > 0, nil
}
