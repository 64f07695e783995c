// Package store persists users, subscriptions, and payment records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrUserExists is returned when registering a username that is taken.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when looking up an unknown username.
var ErrUserNotFound = errors.New("user not found")

// User is one account row. The password hash never leaves the package.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Country    string    `json:"country,omitempty"`
	Plan       string    `json:"plan"`
	PlanStatus string    `json:"plan_status"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUser carries the fields for account registration.
type NewUser struct {
	Username   string
	Password   string
	Name       string
	Phone      string
	Country    string
	Plan       string
	PlanStatus string
}

// Payment is one recorded payment.
type Payment struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	plan TEXT NOT NULL DEFAULT 'free',
	plan_status TEXT NOT NULL DEFAULT 'inactive',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	order_id TEXT NOT NULL,
	payment_id TEXT NOT NULL,
	amount INTEGER NOT NULL,
	plan TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// defaultAdmin seeds a first login so a fresh install is usable.
const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "AgenticAI2026!"
)

// Open opens (creating if needed) the database at path, applies the schema,
// and seeds the default admin account.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	// SQLite allows a single writer; a larger pool just trades errors for
	// lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedAdmin(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) seedAdmin(ctx context.Context) error {
	err := s.CreateUser(ctx, NewUser{
		Username:   defaultAdminUser,
		Password:   defaultAdminPassword,
		Plan:       "enterprise",
		PlanStatus: "active",
	})
	if errors.Is(err, ErrUserExists) {
		return nil
	}
	return err
}

// CreateUser registers an account with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, u NewUser) error {
	if u.Plan == "" {
		u.Plan = "free"
	}
	if u.PlanStatus == "" {
		u.PlanStatus = "inactive"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE username = ?", u.Username).Scan(&exists); err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, name, phone, country, plan, plan_status) VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.Username, string(hash), u.Name, u.Phone, u.Country, u.Plan, u.PlanStatus)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// VerifyUser checks a username/password pair.
func (s *Store) VerifyUser(ctx context.Context, username, password string) (bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE username = ?", username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

// GetUser loads an account by username.
func (s *Store) GetUser(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, name, phone, country, plan, plan_status, created_at FROM users WHERE username = ?",
		username).Scan(&u.ID, &u.Username, &u.Name, &u.Phone, &u.Country, &u.Plan, &u.PlanStatus, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// UpdateSubscription sets a user's plan and activation status.
func (s *Store) UpdateSubscription(ctx context.Context, username, plan, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET plan = ?, plan_status = ? WHERE username = ?",
		plan, status, username)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddPayment records a completed or failed payment.
func (s *Store) AddPayment(ctx context.Context, p Payment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (username, order_id, payment_id, amount, plan, status) VALUES (?, ?, ?, ?, ?, ?)",
		p.Username, p.OrderID, p.PaymentID, p.Amount, p.Plan, p.Status)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Payments lists a user's payments, newest first.
func (s *Store) Payments(ctx context.Context, username string) ([]Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, order_id, payment_id, amount, plan, status, created_at FROM payments WHERE username = ? ORDER BY id DESC",
		username)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Username, &p.OrderID, &p.PaymentID, &p.Amount, &p.Plan, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
