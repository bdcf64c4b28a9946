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
	ErrRuleNotFound     = errors.New("scoring rule not found")
	ErrRuleStageInvalid = errors.New("scoring rule stage conflict or invalid")
)

type RuleRepository interface {
	// Upsert writes the stage's rule, keyed by stage_id.
	Upsert(ctx context.Context, rule *models.ScoringRule) error
	GetByStageID(ctx context.Context, stageID int) (*models.ScoringRule, error)
}

type postgresRuleRepository struct {
	db *sql.DB
}

func NewPostgresRuleRepository(db *sql.DB) RuleRepository {
	return &postgresRuleRepository{db: db}
}

func (r *postgresRuleRepository) Upsert(ctx context.Context, rule *models.ScoringRule) error {
	query := `
		INSERT INTO scoring_rules (stage_id, wrong, hit, bullseye, team_pick_required)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stage_id) DO UPDATE SET
			wrong = EXCLUDED.wrong,
			hit = EXCLUDED.hit,
			bullseye = EXCLUDED.bullseye,
			team_pick_required = EXCLUDED.team_pick_required
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rule.StageID, rule.Wrong, rule.Hit, rule.Bullseye, rule.TeamPickRequired,
	).Scan(&rule.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrRuleStageInvalid
		}
		return fmt.Errorf("failed to upsert scoring rule: %w", err)
	}
	return nil
}

func (r *postgresRuleRepository) GetByStageID(ctx context.Context, stageID int) (*models.ScoringRule, error) {
	query := `
		SELECT id, stage_id, wrong, hit, bullseye, team_pick_required
		FROM scoring_rules
		WHERE stage_id = $1`

	var rule models.ScoringRule
	err := r.db.QueryRowContext(ctx, query, stageID).Scan(
		&rule.ID, &rule.StageID, &rule.Wrong, &rule.Hit, &rule.Bullseye, &rule.TeamPickRequired,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get scoring rule for stage %d: %w", stageID, err)
	}
	return &rule, nil
}
