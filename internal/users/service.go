// Package users manages registered adopter records.
package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// User is one registered person. Age is kept as free text, matching what
// the dialogue engine captures from the conversation.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   string `json:"age"`
}

// ErrNotFound indicates no user matches the lookup.
var ErrNotFound = errors.New("user not found")

type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Service struct {
	db     dbtx
	logger *slog.Logger
}

func NewService(log *slog.Logger, db dbtx) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:     db,
		logger: log.With(slog.String("service", "users")),
	}
}

// SearchByPhone returns the user registered under phone, or ErrNotFound.
func (s *Service) SearchByPhone(ctx context.Context, phone string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, phone, age FROM users WHERE phone = $1 ORDER BY created_at LIMIT 1`,
		phone,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Age)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Insert registers a new user and returns the stored record.
func (s *Service) Insert(ctx context.Context, name, email, phone, age string) (User, error) {
	u := User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: phone,
		Age:   age,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, age) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.Phone, u.Age,
	)
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// List returns all registered users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, phone, age FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Age); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
