package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

type RuleInput struct {
	Wrong            int  `json:"wrong"`
	Hit              int  `json:"hit"`
	Bullseye         int  `json:"bullseye"`
	TeamPickRequired bool `json:"team_pick_required"`
}

type RuleService interface {
	// Set writes the stage's scoring rule and reclassifies everything the
	// rule prices: every prediction already made in the stage.
	Set(ctx context.Context, stageID int, input RuleInput) (*models.ScoringRule, error)
	GetByStage(ctx context.Context, stageID int) (*models.ScoringRule, error)
}

type ruleService struct {
	ruleRepo       repositories.RuleRepository
	stageRepo      repositories.StageRepository
	scoringService ScoringService
	logger         *slog.Logger
}

func NewRuleService(
	ruleRepo repositories.RuleRepository,
	stageRepo repositories.StageRepository,
	scoringService ScoringService,
	logger *slog.Logger,
) RuleService {
	return &ruleService{
		ruleRepo:       ruleRepo,
		stageRepo:      stageRepo,
		scoringService: scoringService,
		logger:         logger,
	}
}

func (s *ruleService) Set(ctx context.Context, stageID int, input RuleInput) (*models.ScoringRule, error) {
	if input.Wrong < 0 || input.Hit < 0 || input.Bullseye < 0 {
		return nil, ErrNegativePoints
	}
	if _, err := s.stageRepo.GetByID(ctx, stageID); err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	rule := &models.ScoringRule{
		StageID:          stageID,
		Wrong:            input.Wrong,
		Hit:              input.Hit,
		Bullseye:         input.Bullseye,
		TeamPickRequired: input.TeamPickRequired,
	}
	if err := s.ruleRepo.Upsert(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("scoring rule set",
		slog.Int("stage_id", stageID),
		slog.Int("wrong", rule.Wrong),
		slog.Int("hit", rule.Hit),
		slog.Int("bullseye", rule.Bullseye))

	if err := s.scoringService.RecomputeStagePredictions(ctx, stageID); err != nil {
		return nil, fmt.Errorf("rule stored but recompute failed: %w", err)
	}
	return rule, nil
}

func (s *ruleService) GetByStage(ctx context.Context, stageID int) (*models.ScoringRule, error) {
	rule, err := s.ruleRepo.GetByStageID(ctx, stageID)
	if err != nil {
		if errors.Is(err, repositories.ErrRuleNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}
