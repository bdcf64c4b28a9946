package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

// PredictionInput is what a friend submits for one match. Team picks are
// only meaningful for knockout stages.
type PredictionInput struct {
	HomeScore  *int `json:"home_score"`
	AwayScore  *int `json:"away_score"`
	HomeTeamID *int `json:"home_team_id"`
	AwayTeamID *int `json:"away_team_id"`
}

type PredictionService interface {
	// Save creates or overwrites the friend's prediction for the match and
	// runs the downstream cascade: ledger upsert, total recompute, group
	// table rebuild for the match's stage.
	Save(ctx context.Context, friendID, matchID int, input PredictionInput) (*models.Prediction, error)
	GetByFriendAndMatch(ctx context.Context, friendID, matchID int) (*models.Prediction, error)
	ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.Prediction, error)
}

type predictionService struct {
	predictionRepo repositories.PredictionRepository
	matchRepo      repositories.MatchRepository
	stageRepo      repositories.StageRepository
	friendRepo     repositories.FriendRepository
	scoringService ScoringService
	groupTables    GroupTableService
	logger         *slog.Logger
}

func NewPredictionService(
	predictionRepo repositories.PredictionRepository,
	matchRepo repositories.MatchRepository,
	stageRepo repositories.StageRepository,
	friendRepo repositories.FriendRepository,
	scoringService ScoringService,
	groupTables GroupTableService,
	logger *slog.Logger,
) PredictionService {
	return &predictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		stageRepo:      stageRepo,
		friendRepo:     friendRepo,
		scoringService: scoringService,
		groupTables:    groupTables,
		logger:         logger,
	}
}

func (s *predictionService) Save(ctx context.Context, friendID, matchID int, input PredictionInput) (*models.Prediction, error) {
	if err := validateScorePair(input.HomeScore, input.AwayScore); err != nil {
		return nil, err
	}

	if _, err := s.friendRepo.GetByID(ctx, friendID); err != nil {
		if errors.Is(err, repositories.ErrFriendNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	stage, err := s.stageRepo.GetByID(ctx, match.StageID)
	if err != nil {
		return nil, err
	}

	prediction := &models.Prediction{
		FriendID:   friendID,
		MatchID:    matchID,
		HomeScore:  input.HomeScore,
		AwayScore:  input.AwayScore,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
	}
	if err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
		return nil, err
	}
	s.logger.Info("prediction saved",
		slog.Int("friend_id", friendID),
		slog.Int("match_id", matchID))

	// Cascade, one direction only: ledger, then total, then group table.
	prediction.Match = match
	if _, err := s.scoringService.UpsertResult(ctx, prediction); err != nil {
		return nil, fmt.Errorf("prediction saved but ledger recompute failed: %w", err)
	}
	cause := RecomputeCause{Kind: CauseLedgerChanged, FriendID: friendID, TournamentID: stage.TournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return nil, fmt.Errorf("prediction saved but total recompute failed: %w", err)
	}
	if err := s.groupTables.Rebuild(ctx, friendID, stage.ID); err != nil {
		return nil, fmt.Errorf("prediction saved but group table rebuild failed: %w", err)
	}
	return prediction, nil
}

func (s *predictionService) GetByFriendAndMatch(ctx context.Context, friendID, matchID int) (*models.Prediction, error) {
	prediction, err := s.predictionRepo.GetByFriendAndMatch(ctx, friendID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (s *predictionService) ListByFriendAndStage(ctx context.Context, friendID, stageID int) ([]*models.Prediction, error) {
	return s.predictionRepo.ListByFriendAndStage(ctx, friendID, stageID)
}

func validateScorePair(home, away *int) error {
	if (home == nil) != (away == nil) {
		return ErrPartialScore
	}
	if home != nil && (*home < 0 || *away < 0) {
		return ErrNegativeScore
	}
	return nil
}
