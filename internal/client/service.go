package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/evelinavait/fleettrack/internal/apperr"
	"github.com/evelinavait/fleettrack/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Register(ctx context.Context, input Client) (Client, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.BirthDate == "" {
		return Client{}, fmt.Errorf("first_name, last_name, email, birth_date required: %w", apperr.ErrValidation)
	}
	if !emailRe.MatchString(input.Email) {
		return Client{}, fmt.Errorf("invalid email format: %w", apperr.ErrValidation)
	}
	birthDate, err := time.Parse(DateLayout, input.BirthDate)
	if err != nil {
		return Client{}, fmt.Errorf("birth_date must be YYYY-MM-DD: %w", apperr.ErrValidation)
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE email=$1)`, input.Email).Scan(&exists); err != nil {
		return Client{}, apperr.Store(err)
	}
	if exists {
		return Client{}, fmt.Errorf("client with this email already exists: %w", apperr.ErrConflict)
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO clients (id, first_name, last_name, email, birth_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.FirstName, input.LastName, input.Email, birthDate)
	if err := row.Scan(&input.CreatedAt); err != nil {
		if apperr.IsUniqueViolation(err) {
			return Client{}, fmt.Errorf("client with this email already exists: %w", apperr.ErrConflict)
		}
		return Client{}, apperr.Store(err)
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Client, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, birth_date, created_at
		FROM clients WHERE id=$1
	`, id)

	var c Client
	var birthDate time.Time
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &birthDate, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, fmt.Errorf("client %s: %w", id, apperr.ErrNotFound)
		}
		return Client{}, apperr.Store(err)
	}
	c.BirthDate = birthDate.Format(DateLayout)
	return c, nil
}
