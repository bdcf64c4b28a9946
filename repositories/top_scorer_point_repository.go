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
	ErrTopScorerPointNotFound = errors.New("top scorer point not found")
	ErrTopScorerPointInvalid  = errors.New("top scorer point friend or match invalid")
)

type TopScorerPointRepository interface {
	Create(ctx context.Context, point *models.TopScorerPoint) error
	GetByID(ctx context.Context, id int) (*models.TopScorerPoint, error)
	Delete(ctx context.Context, id int) error
	ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.TopScorerPoint, error)
	SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error)
}

type postgresTopScorerPointRepository struct {
	db *sql.DB
}

func NewPostgresTopScorerPointRepository(db *sql.DB) TopScorerPointRepository {
	return &postgresTopScorerPointRepository{db: db}
}

func (r *postgresTopScorerPointRepository) Create(ctx context.Context, point *models.TopScorerPoint) error {
	query := `
		INSERT INTO top_scorer_points (friend_id, match_id, points)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, point.FriendID, point.MatchID, point.Points).Scan(&point.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTopScorerPointInvalid
		}
		return fmt.Errorf("failed to create top scorer point: %w", err)
	}
	return nil
}

func (r *postgresTopScorerPointRepository) GetByID(ctx context.Context, id int) (*models.TopScorerPoint, error) {
	query := `SELECT id, friend_id, match_id, points FROM top_scorer_points WHERE id = $1`

	var p models.TopScorerPoint
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FriendID, &p.MatchID, &p.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopScorerPointNotFound
		}
		return nil, fmt.Errorf("failed to get top scorer point %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresTopScorerPointRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM top_scorer_points WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete top scorer point %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTopScorerPointNotFound)
}

func (r *postgresTopScorerPointRepository) ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.TopScorerPoint, error) {
	query := `
		SELECT tsp.id, tsp.friend_id, tsp.match_id, tsp.points
		FROM top_scorer_points tsp
		JOIN matches m ON tsp.match_id = m.id
		JOIN stages s ON m.stage_id = s.id
		WHERE tsp.friend_id = $1 AND s.tournament_id = $2
		ORDER BY m.start_time`

	rows, err := r.db.QueryContext(ctx, query, friendID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list top scorer points: %w", err)
	}
	defer rows.Close()

	points := make([]*models.TopScorerPoint, 0)
	for rows.Next() {
		var p models.TopScorerPoint
		if err := rows.Scan(&p.ID, &p.FriendID, &p.MatchID, &p.Points); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}

func (r *postgresTopScorerPointRepository) SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(tsp.points), 0)
		FROM top_scorer_points tsp
		JOIN matches m ON tsp.match_id = m.id
		JOIN stages s ON m.stage_id = s.id
		WHERE tsp.friend_id = $1 AND s.tournament_id = $2`

	var sum int
	if err := r.db.QueryRowContext(ctx, query, friendID, tournamentID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum top scorer points: %w", err)
	}
	return sum, nil
}
