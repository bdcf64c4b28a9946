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
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNumberConflict = errors.New("match number already exists in this stage")
	ErrMatchStageInvalid   = errors.New("match stage conflict or invalid")
	ErrMatchTeamInvalid    = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// UpdateResult sets or clears both scores. Passing nils un-finishes the
	// match, which the caller must follow with a ledger recompute.
	UpdateResult(ctx context.Context, id int, homeScore, awayScore *int) error
	UpdateTeams(ctx context.Context, id int, homeTeamID, awayTeamID *int) error
	ListByStage(ctx context.Context, stageID int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (stage_id, number, start_time, home_team_id, away_team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		match.StageID,
		match.Number,
		match.StartTime,
		match.HomeTeamID,
		match.AwayTeamID,
	).Scan(&match.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrMatchNumberConflict
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "matches_stage_id_fkey" {
					return ErrMatchStageInvalid
				}
				return ErrMatchTeamInvalid
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.StageID, &m.Number, &m.StartTime,
		&m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, stage_id, number, start_time, home_team_id, away_team_id, home_score, away_score
		FROM matches
		WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, homeScore, awayScore *int) error {
	query := `UPDATE matches SET home_score = $1, away_score = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, homeScore, awayScore, id)
	if err != nil {
		return fmt.Errorf("failed to update match result: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, id int, homeTeamID, awayTeamID *int) error {
	query := `UPDATE matches SET home_team_id = $1, away_team_id = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, homeTeamID, awayTeamID, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return fmt.Errorf("failed to update match teams: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, stageID int) ([]*models.Match, error) {
	query := `
		SELECT id, stage_id, number, start_time, home_team_id, away_team_id, home_score, away_score
		FROM matches
		WHERE stage_id = $1
		ORDER BY number`
	return r.list(ctx, query, stageID)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT m.id, m.stage_id, m.number, m.start_time, m.home_team_id, m.away_team_id, m.home_score, m.away_score
		FROM matches m
		JOIN stages s ON m.stage_id = s.id
		WHERE s.tournament_id = $1
		ORDER BY m.start_time, m.number`
	return r.list(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
