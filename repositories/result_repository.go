package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchday/prediction-pool/models"
)

var ErrResultNotFound = errors.New("prediction result not found")

// ResultRepository is the ledger of computed {outcome, points} per
// prediction. Rows are only ever written through Upsert; deletes ride on the
// prediction's FK cascade.
type ResultRepository interface {
	Upsert(ctx context.Context, result *models.PredictionResult) error
	GetByPredictionID(ctx context.Context, predictionID int) (*models.PredictionResult, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.PredictionResult, error)
	ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.PredictionResult, error)
	SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Upsert(ctx context.Context, result *models.PredictionResult) error {
	query := `
		INSERT INTO prediction_results (prediction_id, outcome, points, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (prediction_id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			points = EXCLUDED.points,
			updated_at = NOW()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		result.PredictionID, result.Outcome, result.Points,
	).Scan(&result.ID, &result.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction result: %w", err)
	}
	return nil
}

func (r *postgresResultRepository) GetByPredictionID(ctx context.Context, predictionID int) (*models.PredictionResult, error) {
	query := `
		SELECT id, prediction_id, outcome, points, updated_at
		FROM prediction_results
		WHERE prediction_id = $1`

	var res models.PredictionResult
	err := r.db.QueryRowContext(ctx, query, predictionID).Scan(
		&res.ID, &res.PredictionID, &res.Outcome, &res.Points, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result for prediction %d: %w", predictionID, err)
	}
	return &res, nil
}

func (r *postgresResultRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.PredictionResult, error) {
	query := `
		SELECT r.id, r.prediction_id, r.outcome, r.points, r.updated_at
		FROM prediction_results r
		JOIN predictions p ON r.prediction_id = p.id
		WHERE p.match_id = $1`
	return r.list(ctx, query, matchID)
}

func (r *postgresResultRepository) ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.PredictionResult, error) {
	query := `
		SELECT r.id, r.prediction_id, r.outcome, r.points, r.updated_at
		FROM prediction_results r
		JOIN predictions p ON r.prediction_id = p.id
		JOIN matches m ON p.match_id = m.id
		JOIN stages s ON m.stage_id = s.id
		WHERE p.friend_id = $1 AND s.tournament_id = $2`
	return r.list(ctx, query, friendID, tournamentID)
}

func (r *postgresResultRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.PredictionResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.PredictionResult, 0)
	for rows.Next() {
		var res models.PredictionResult
		if err := rows.Scan(&res.ID, &res.PredictionID, &res.Outcome, &res.Points, &res.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, &res)
	}
	return results, rows.Err()
}

func (r *postgresResultRepository) SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(r.points), 0)
		FROM prediction_results r
		JOIN predictions p ON r.prediction_id = p.id
		JOIN matches m ON p.match_id = m.id
		JOIN stages s ON m.stage_id = s.id
		WHERE p.friend_id = $1 AND s.tournament_id = $2`

	var sum int
	if err := r.db.QueryRowContext(ctx, query, friendID, tournamentID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum result points: %w", err)
	}
	return sum, nil
}
