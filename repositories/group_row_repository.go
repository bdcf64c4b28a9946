package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matchday/prediction-pool/models"
)

type GroupRowRepository interface {
	// ReplaceForFriendAndStage swaps the friend's table for the stage in
	// one transaction: delete everything, insert the rebuilt rows. Readers
	// never observe a half-built table.
	ReplaceForFriendAndStage(ctx context.Context, friendID, stageID int, rows []models.GroupRow) error
	ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.GroupRow, error)
}

type postgresGroupRowRepository struct {
	db *sql.DB
}

func NewPostgresGroupRowRepository(db *sql.DB) GroupRowRepository {
	return &postgresGroupRowRepository{db: db}
}

func (r *postgresGroupRowRepository) ReplaceForFriendAndStage(ctx context.Context, friendID, stageID int, rows []models.GroupRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin group table replace: %w", err)
	}
	if err := r.replace(ctx, tx, friendID, stageID, rows); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group table replace: %w", err)
	}
	return nil
}

func (r *postgresGroupRowRepository) replace(ctx context.Context, exec SQLExecutor, friendID, stageID int, rows []models.GroupRow) error {
	deleteQuery := `DELETE FROM group_rows WHERE friend_id = $1 AND stage_id = $2`
	if _, err := exec.ExecContext(ctx, deleteQuery, friendID, stageID); err != nil {
		return fmt.Errorf("failed to clear group rows for friend %d stage %d: %w", friendID, stageID, err)
	}

	insertQuery := `
		INSERT INTO group_rows
		    (friend_id, stage_id, team_id, position, played, wins, draws, losses, goals_for, goals_against, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, row := range rows {
		_, err := exec.ExecContext(ctx, insertQuery,
			row.FriendID, row.StageID, row.TeamID, row.Position,
			row.Played, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.Points,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group row for team %d: %w", row.TeamID, err)
		}
	}
	return nil
}

func (r *postgresGroupRowRepository) ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.GroupRow, error) {
	query := `
		SELECT gr.id, gr.friend_id, gr.stage_id, gr.team_id, gr.position,
		       gr.played, gr.wins, gr.draws, gr.losses, gr.goals_for, gr.goals_against, gr.points,
		       t.id, t.name, t.crest_key
		FROM group_rows gr
		JOIN teams t ON gr.team_id = t.id
		WHERE gr.friend_id = $1 AND gr.stage_id = $2
		ORDER BY gr.position`

	rows, err := r.db.QueryContext(ctx, query, friendID, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group rows: %w", err)
	}
	defer rows.Close()

	table := make([]*models.GroupRow, 0)
	for rows.Next() {
		var gr models.GroupRow
		var t models.Team
		err := rows.Scan(
			&gr.ID, &gr.FriendID, &gr.StageID, &gr.TeamID, &gr.Position,
			&gr.Played, &gr.Wins, &gr.Draws, &gr.Losses, &gr.GoalsFor, &gr.GoalsAgainst, &gr.Points,
			&t.ID, &t.Name, &t.CrestKey,
		)
		if err != nil {
			return nil, err
		}
		gr.Team = &t
		table = append(table, &gr)
	}
	return table, rows.Err()
}
