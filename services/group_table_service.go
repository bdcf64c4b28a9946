package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
	"github.com/matchday/prediction-pool/scoring"
)

// GroupTableService keeps each friend's self-consistency group table in
// step with that friend's predictions for the stage.
type GroupTableService interface {
	// Rebuild replays every prediction of the friend in the stage and
	// replaces the stored table. Always a full rebuild, never incremental.
	Rebuild(ctx context.Context, friendID, stageID int) error
	GetTable(ctx context.Context, friendID, stageID int) ([]*models.GroupRow, error)
}

type groupTableService struct {
	stageRepo      repositories.StageRepository
	predictionRepo repositories.PredictionRepository
	groupRowRepo   repositories.GroupRowRepository
	teamRepo       repositories.TeamRepository
	logger         *slog.Logger
}

func NewGroupTableService(
	stageRepo repositories.StageRepository,
	predictionRepo repositories.PredictionRepository,
	groupRowRepo repositories.GroupRowRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) GroupTableService {
	return &groupTableService{
		stageRepo:      stageRepo,
		predictionRepo: predictionRepo,
		groupRowRepo:   groupRowRepo,
		teamRepo:       teamRepo,
		logger:         logger,
	}
}

func (s *groupTableService) Rebuild(ctx context.Context, friendID, stageID int) error {
	if _, err := s.stageRepo.GetByID(ctx, stageID); err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return ErrStageNotFound
		}
		return err
	}

	predictions, err := s.predictionRepo.ListByFriendAndStage(ctx, friendID, stageID)
	if err != nil {
		return err
	}
	deref := make([]models.Prediction, 0, len(predictions))
	for _, p := range predictions {
		deref = append(deref, *p)
	}
	rows := scoring.BuildTable(friendID, stageID, deref)

	if err := s.groupRowRepo.ReplaceForFriendAndStage(ctx, friendID, stageID, rows); err != nil {
		return err
	}

	s.logger.Debug("group table rebuilt",
		slog.Int("friend_id", friendID),
		slog.Int("stage_id", stageID),
		slog.Int("rows", len(rows)))
	return nil
}

func (s *groupTableService) GetTable(ctx context.Context, friendID, stageID int) ([]*models.GroupRow, error) {
	if _, err := s.stageRepo.GetByID(ctx, stageID); err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	rows, err := s.groupRowRepo.ListByFriendAndStage(ctx, friendID, stageID)
	if err != nil {
		return nil, err
	}
	if err := s.attachTeams(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *groupTableService) attachTeams(ctx context.Context, rows []*models.GroupRow) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	for _, row := range rows {
		row.Team = byID[row.TeamID]
	}
	return nil
}
