// Package pets manages the catalog of animals available for adoption.
package pets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pet is one animal in the adoption catalog.
type Pet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Age       string `json:"age"`
	Available bool   `json:"available"`
}

// Label is the conversational identity of a pet, e.g.
// "Rex - Cachorro - Labrador".
func (p Pet) Label() string {
	return fmt.Sprintf("%s - %s - %s", p.Name, p.Species, p.Breed)
}

// ErrNotFound indicates no pet matches the lookup.
var ErrNotFound = errors.New("pet not found")

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
		logger: log.With(slog.String("service", "pets")),
	}
}

// ListAvailable returns every pet still open for adoption.
func (s *Service) ListAvailable(ctx context.Context) ([]Pet, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, species, breed, age, available FROM pets WHERE available ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pet
	for rows.Next() {
		var p Pet
		if err := rows.Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Available); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByNameAndBreed resolves the pet a user picked from the adoption list.
func (s *Service) GetByNameAndBreed(ctx context.Context, name, breed string) (Pet, error) {
	var p Pet
	err := s.db.QueryRow(ctx,
		`SELECT id, name, species, breed, age, available FROM pets WHERE name = $1 AND breed = $2 LIMIT 1`,
		name, breed,
	).Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pet{}, ErrNotFound
	}
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Insert adds a pet to the catalog and returns the stored record.
func (s *Service) Insert(ctx context.Context, name, species, breed, age string) (Pet, error) {
	p := Pet{
		ID:        uuid.NewString(),
		Name:      name,
		Species:   species,
		Breed:     breed,
		Age:       age,
		Available: true,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO pets (id, name, species, breed, age, available) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Species, p.Breed, p.Age, p.Available,
	)
	if err != nil {
		return Pet{}, err
	}
	s.logger.Info("pet registered", slog.String("pet_id", p.ID), slog.String("name", p.Name))
	return p, nil
}

// SetAvailable flips a pet's adoption availability.
func (s *Service) SetAvailable(ctx context.Context, petID string, available bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE pets SET available = $2 WHERE id = $1`,
		petID, available,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
