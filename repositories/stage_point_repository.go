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
	ErrStagePointNotFound = errors.New("stage point not found")
	ErrStagePointConflict = errors.New("stage point already awarded for this friend and stage")
	ErrStagePointInvalid  = errors.New("stage point friend or stage invalid")
)

type StagePointRepository interface {
	Create(ctx context.Context, point *models.StagePoint) error
	GetByID(ctx context.Context, id int) (*models.StagePoint, error)
	Delete(ctx context.Context, id int) error
	ListByStage(ctx context.Context, stageID int) ([]*models.StagePoint, error)
	ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.StagePoint, error)
	SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error)
}

type postgresStagePointRepository struct {
	db *sql.DB
}

func NewPostgresStagePointRepository(db *sql.DB) StagePointRepository {
	return &postgresStagePointRepository{db: db}
}

func (r *postgresStagePointRepository) Create(ctx context.Context, point *models.StagePoint) error {
	query := `
		INSERT INTO stage_points (friend_id, stage_id, points)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, point.FriendID, point.StageID, point.Points).Scan(&point.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrStagePointConflict
			case "23503":
				return ErrStagePointInvalid
			}
		}
		return fmt.Errorf("failed to create stage point: %w", err)
	}
	return nil
}

func (r *postgresStagePointRepository) GetByID(ctx context.Context, id int) (*models.StagePoint, error) {
	query := `SELECT id, friend_id, stage_id, points FROM stage_points WHERE id = $1`

	var p models.StagePoint
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FriendID, &p.StageID, &p.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStagePointNotFound
		}
		return nil, fmt.Errorf("failed to get stage point %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresStagePointRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stage_points WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stage point %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrStagePointNotFound)
}

func (r *postgresStagePointRepository) ListByStage(ctx context.Context, stageID int) ([]*models.StagePoint, error) {
	query := `
		SELECT id, friend_id, stage_id, points
		FROM stage_points
		WHERE stage_id = $1
		ORDER BY points DESC, friend_id`
	return r.list(ctx, query, stageID)
}

func (r *postgresStagePointRepository) ListByFriendAndTournament(ctx context.Context, friendID, tournamentID int) ([]*models.StagePoint, error) {
	query := `
		SELECT sp.id, sp.friend_id, sp.stage_id, sp.points
		FROM stage_points sp
		JOIN stages s ON sp.stage_id = s.id
		WHERE sp.friend_id = $1 AND s.tournament_id = $2
		ORDER BY sp.stage_id`
	return r.list(ctx, query, friendID, tournamentID)
}

func (r *postgresStagePointRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.StagePoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage points: %w", err)
	}
	defer rows.Close()

	points := make([]*models.StagePoint, 0)
	for rows.Next() {
		var p models.StagePoint
		if err := rows.Scan(&p.ID, &p.FriendID, &p.StageID, &p.Points); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}

func (r *postgresStagePointRepository) SumPointsByFriendAndTournament(ctx context.Context, friendID, tournamentID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(sp.points), 0)
		FROM stage_points sp
		JOIN stages s ON sp.stage_id = s.id
		WHERE sp.friend_id = $1 AND s.tournament_id = $2`

	var sum int
	if err := r.db.QueryRowContext(ctx, query, friendID, tournamentID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum stage points: %w", err)
	}
	return sum, nil
}
