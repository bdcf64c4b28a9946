package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/matchday/prediction-pool/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("friend is already registered for this tournament")
	ErrRegistrationInvalid  = errors.New("registration friend or tournament invalid")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (*models.Registration, error)
	Delete(ctx context.Context, friendID, tournamentID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	query := `
		INSERT INTO registrations (friend_id, tournament_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		registration.FriendID, registration.TournamentID,
	).Scan(&registration.ID, &registration.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrRegistrationConflict
			case "23503":
				return ErrRegistrationInvalid
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (*models.Registration, error) {
	query := `
		SELECT id, friend_id, tournament_id, created_at
		FROM registrations
		WHERE friend_id = $1 AND tournament_id = $2`

	var reg models.Registration
	err := r.db.QueryRowContext(ctx, query, friendID, tournamentID).Scan(
		&reg.ID, &reg.FriendID, &reg.TournamentID, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, friendID, tournamentID int) error {
	query := `DELETE FROM registrations WHERE friend_id = $1 AND tournament_id = $2`

	result, err := r.db.ExecContext(ctx, query, friendID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	query := `
		SELECT id, friend_id, tournament_id, created_at
		FROM registrations
		WHERE tournament_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.FriendID, &reg.TournamentID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		registrations = append(registrations, &reg)
	}
	return registrations, rows.Err()
}
