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
	ErrPredictionNotFound      = errors.New("prediction not found")
	ErrPredictionFriendInvalid = errors.New("prediction friend conflict or invalid")
	ErrPredictionMatchInvalid  = errors.New("prediction match conflict or invalid")
)

type PredictionRepository interface {
	// Upsert writes the friend's prediction for a match, keyed by the
	// (friend, match) unique constraint. A second save for the same match
	// overwrites the first.
	Upsert(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id int) (*models.Prediction, error)
	GetByFriendAndMatch(ctx context.Context, friendID, matchID int) (*models.Prediction, error)
	// CreatePlaceholders seeds one empty prediction per match for a freshly
	// registered friend. Matches the friend already predicted are skipped.
	CreatePlaceholders(ctx context.Context, friendID int, matchIDs []int) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Prediction, error)
	ListByStage(ctx context.Context, stageID int) ([]*models.Prediction, error)
	ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.Prediction, error)
	ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.Prediction, error)
	DeleteByFriendAndTournament(ctx context.Context, friendID, tournamentID int) error
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) Upsert(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (friend_id, match_id, home_score, away_score, home_team_id, away_team_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (friend_id, match_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			updated_at = NOW()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.FriendID, p.MatchID, p.HomeScore, p.AwayScore, p.HomeTeamID, p.AwayTeamID,
	).Scan(&p.ID, &p.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "predictions_friend_id_fkey" {
				return ErrPredictionFriendInvalid
			}
			return ErrPredictionMatchInvalid
		}
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

func (r *postgresPredictionRepository) CreatePlaceholders(ctx context.Context, friendID int, matchIDs []int) error {
	if len(matchIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO predictions (friend_id, match_id, updated_at)
		SELECT $1, m.id, NOW() FROM unnest($2::int[]) AS m(id)
		ON CONFLICT (friend_id, match_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, friendID, pq.Array(matchIDs)); err != nil {
		return fmt.Errorf("failed to create placeholder predictions: %w", err)
	}
	return nil
}

const predictionColumns = `p.id, p.friend_id, p.match_id, p.home_score, p.away_score, p.home_team_id, p.away_team_id, p.updated_at`

func (r *postgresPredictionRepository) scanPrediction(rowScanner interface{ Scan(...interface{}) error }) (*models.Prediction, error) {
	var p models.Prediction
	err := rowScanner.Scan(
		&p.ID, &p.FriendID, &p.MatchID, &p.HomeScore, &p.AwayScore,
		&p.HomeTeamID, &p.AwayTeamID, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPredictionRepository) GetByID(ctx context.Context, id int) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions p WHERE p.id = $1`
	return r.scanPrediction(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPredictionRepository) GetByFriendAndMatch(ctx context.Context, friendID, matchID int) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions p WHERE p.friend_id = $1 AND p.match_id = $2`
	return r.scanPrediction(r.db.QueryRowContext(ctx, query, friendID, matchID))
}

// listWithMatch joins matches so the caller gets each prediction with its
// match state loaded, which classification and table building both need.
func (r *postgresPredictionRepository) listWithMatch(ctx context.Context, where string, args ...interface{}) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `,
		       m.id, m.stage_id, m.number, m.start_time, m.home_team_id, m.away_team_id, m.home_score, m.away_score
		FROM predictions p
		JOIN matches m ON p.match_id = m.id
		` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*models.Prediction, 0)
	for rows.Next() {
		var p models.Prediction
		var m models.Match
		err := rows.Scan(
			&p.ID, &p.FriendID, &p.MatchID, &p.HomeScore, &p.AwayScore,
			&p.HomeTeamID, &p.AwayTeamID, &p.UpdatedAt,
			&m.ID, &m.StageID, &m.Number, &m.StartTime,
			&m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore,
		)
		if err != nil {
			return nil, err
		}
		p.Match = &m
		predictions = append(predictions, &p)
	}
	return predictions, rows.Err()
}

func (r *postgresPredictionRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `,
		       f.id, f.first_name, f.last_name, f.email, f.password_hash, f.role, f.created_at
		FROM predictions p
		JOIN friends f ON p.friend_id = f.id
		WHERE p.match_id = $1
		ORDER BY f.last_name, f.first_name`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions for match %d: %w", matchID, err)
	}
	defer rows.Close()

	predictions := make([]*models.Prediction, 0)
	for rows.Next() {
		var p models.Prediction
		var f models.Friend
		err := rows.Scan(
			&p.ID, &p.FriendID, &p.MatchID, &p.HomeScore, &p.AwayScore,
			&p.HomeTeamID, &p.AwayTeamID, &p.UpdatedAt,
			&f.ID, &f.FirstName, &f.LastName, &f.Email, &f.PasswordHash, &f.Role, &f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Friend = &f
		predictions = append(predictions, &p)
	}
	return predictions, rows.Err()
}

func (r *postgresPredictionRepository) ListByStage(ctx context.Context, stageID int) ([]*models.Prediction, error) {
	return r.listWithMatch(ctx, `WHERE m.stage_id = $1 ORDER BY m.number, p.friend_id`, stageID)
}

func (r *postgresPredictionRepository) ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.Prediction, error) {
	return r.listWithMatch(ctx, `WHERE p.friend_id = $1 AND m.stage_id = $2 ORDER BY m.number`, friendID, stageID)
}

func (r *postgresPredictionRepository) ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.Prediction, error) {
	return r.listWithMatch(ctx, `
		JOIN stages s ON m.stage_id = s.id
		WHERE p.friend_id = $1 AND s.tournament_id = $2
		ORDER BY m.start_time, m.number`, friendID, tournamentID)
}

func (r *postgresPredictionRepository) DeleteByFriendAndTournament(ctx context.Context, friendID, tournamentID int) error {
	query := `
		DELETE FROM predictions p
		USING matches m, stages s
		WHERE p.match_id = m.id AND m.stage_id = s.id
		  AND p.friend_id = $1 AND s.tournament_id = $2`

	if _, err := r.db.ExecContext(ctx, query, friendID, tournamentID); err != nil {
		return fmt.Errorf("failed to delete predictions for friend %d in tournament %d: %w", friendID, tournamentID, err)
	}
	return nil
}
