package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchday/prediction-pool/models"
)

var ErrTotalPointNotFound = errors.New("total point not found")

// TotalPointRepository holds the derived per-(friend, tournament) totals.
// Upsert-by-unique-key keeps concurrent recomputes from corrupting the row:
// the last full re-sum wins.
type TotalPointRepository interface {
	Upsert(ctx context.Context, total *models.TotalPoint) error
	GetByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (*models.TotalPoint, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TotalPoint, error)
}

type postgresTotalPointRepository struct {
	db *sql.DB
}

func NewPostgresTotalPointRepository(db *sql.DB) TotalPointRepository {
	return &postgresTotalPointRepository{db: db}
}

func (r *postgresTotalPointRepository) Upsert(ctx context.Context, total *models.TotalPoint) error {
	query := `
		INSERT INTO total_points (friend_id, tournament_id, points, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (friend_id, tournament_id) DO UPDATE SET
			points = EXCLUDED.points,
			updated_at = NOW()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		total.FriendID, total.TournamentID, total.Points,
	).Scan(&total.ID, &total.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert total point: %w", err)
	}
	return nil
}

func (r *postgresTotalPointRepository) GetByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (*models.TotalPoint, error) {
	query := `
		SELECT id, friend_id, tournament_id, points, updated_at
		FROM total_points
		WHERE friend_id = $1 AND tournament_id = $2`

	var t models.TotalPoint
	err := r.db.QueryRowContext(ctx, query, friendID, tournamentID).Scan(
		&t.ID, &t.FriendID, &t.TournamentID, &t.Points, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTotalPointNotFound
		}
		return nil, fmt.Errorf("failed to get total point: %w", err)
	}
	return &t, nil
}

// ListByTournament returns totals with friends loaded, ordered by points
// descending with friend id as the stable tie-break.
func (r *postgresTotalPointRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TotalPoint, error) {
	query := `
		SELECT t.id, t.friend_id, t.tournament_id, t.points, t.updated_at,
		       f.id, f.first_name, f.last_name, f.email, f.password_hash, f.role, f.created_at
		FROM total_points t
		JOIN friends f ON t.friend_id = f.id
		WHERE t.tournament_id = $1
		ORDER BY t.points DESC, t.friend_id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list total points: %w", err)
	}
	defer rows.Close()

	totals := make([]*models.TotalPoint, 0)
	for rows.Next() {
		var t models.TotalPoint
		var f models.Friend
		err := rows.Scan(
			&t.ID, &t.FriendID, &t.TournamentID, &t.Points, &t.UpdatedAt,
			&f.ID, &f.FirstName, &f.LastName, &f.Email, &f.PasswordHash, &f.Role, &f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Friend = &f
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}
