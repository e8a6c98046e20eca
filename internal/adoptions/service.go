// Package adoptions records adoption requests raised from the conversation.
package adoptions

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StatusPending is the initial state of every adoption request.
const StatusPending = "Pendente"

// Request is one adoption solicitation awaiting follow-up by the shelter.
type Request struct {
	ID     string `json:"id"`
	PetID  string `json:"pet_id"`
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

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
		logger: log.With(slog.String("service", "adoptions")),
	}
}

// Insert records a new pending adoption request.
func (s *Service) Insert(ctx context.Context, petID, phone, userID string) (Request, error) {
	r := Request{
		ID:     uuid.NewString(),
		PetID:  petID,
		UserID: userID,
		Phone:  phone,
		Status: StatusPending,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO adoption_requests (id, pet_id, user_id, phone, status) VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.PetID, r.UserID, r.Phone, r.Status,
	)
	if err != nil {
		return Request{}, err
	}
	s.logger.Info("adoption request recorded",
		slog.String("request_id", r.ID),
		slog.String("pet_id", petID),
	)
	return r, nil
}

// List returns all adoption requests, newest first.
func (s *Service) List(ctx context.Context) ([]Request, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, pet_id, user_id, phone, status FROM adoption_requests ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.PetID, &r.UserID, &r.Phone, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
