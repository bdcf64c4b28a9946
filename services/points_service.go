package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

// PointsService manages the bonus point entries that feed the aggregate
// alongside the prediction ledger: stage points and top-scorer points.
// Award and revoke both end in a total recompute, so removing points is
// reflected just like adding them.
type PointsService interface {
	AwardStagePoint(ctx context.Context, friendID, stageID, points int) (*models.StagePoint, error)
	RevokeStagePoint(ctx context.Context, id int) error
	ListStagePoints(ctx context.Context, stageID int) ([]*models.StagePoint, error)

	AwardTopScorerPoint(ctx context.Context, friendID, matchID, points int) (*models.TopScorerPoint, error)
	RevokeTopScorerPoint(ctx context.Context, id int) error
}

type pointsService struct {
	stagePointRepo repositories.StagePointRepository
	topScorerRepo  repositories.TopScorerPointRepository
	stageRepo      repositories.StageRepository
	matchRepo      repositories.MatchRepository
	scoringService ScoringService
	logger         *slog.Logger
}

func NewPointsService(
	stagePointRepo repositories.StagePointRepository,
	topScorerRepo repositories.TopScorerPointRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	scoringService ScoringService,
	logger *slog.Logger,
) PointsService {
	return &pointsService{
		stagePointRepo: stagePointRepo,
		topScorerRepo:  topScorerRepo,
		stageRepo:      stageRepo,
		matchRepo:      matchRepo,
		scoringService: scoringService,
		logger:         logger,
	}
}

func (s *pointsService) AwardStagePoint(ctx context.Context, friendID, stageID, points int) (*models.StagePoint, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}
	stage, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	point := &models.StagePoint{FriendID: friendID, StageID: stageID, Points: points}
	if err := s.stagePointRepo.Create(ctx, point); err != nil {
		if errors.Is(err, repositories.ErrStagePointConflict) {
			return nil, ErrStagePointConflict
		}
		return nil, err
	}
	s.logger.Info("stage point awarded",
		slog.Int("friend_id", friendID),
		slog.Int("stage_id", stageID),
		slog.Int("points", points))

	cause := RecomputeCause{Kind: CauseStagePointChanged, FriendID: friendID, TournamentID: stage.TournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return nil, fmt.Errorf("stage point stored but recompute failed: %w", err)
	}
	return point, nil
}

func (s *pointsService) RevokeStagePoint(ctx context.Context, id int) error {
	point, err := s.stagePointRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStagePointNotFound) {
			return ErrPointNotFound
		}
		return err
	}
	stage, err := s.stageRepo.GetByID(ctx, point.StageID)
	if err != nil {
		return err
	}

	if err := s.stagePointRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrStagePointNotFound) {
			return ErrPointNotFound
		}
		return err
	}

	cause := RecomputeCause{Kind: CauseStagePointChanged, FriendID: point.FriendID, TournamentID: stage.TournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return fmt.Errorf("stage point removed but recompute failed: %w", err)
	}
	return nil
}

func (s *pointsService) ListStagePoints(ctx context.Context, stageID int) ([]*models.StagePoint, error) {
	return s.stagePointRepo.ListByStage(ctx, stageID)
}

func (s *pointsService) AwardTopScorerPoint(ctx context.Context, friendID, matchID, points int) (*models.TopScorerPoint, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}
	tournamentID, err := s.tournamentOfMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	point := &models.TopScorerPoint{FriendID: friendID, MatchID: matchID, Points: points}
	if err := s.topScorerRepo.Create(ctx, point); err != nil {
		return nil, err
	}
	s.logger.Info("top scorer point awarded",
		slog.Int("friend_id", friendID),
		slog.Int("match_id", matchID),
		slog.Int("points", points))

	cause := RecomputeCause{Kind: CauseTopScorerChanged, FriendID: friendID, TournamentID: tournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return nil, fmt.Errorf("top scorer point stored but recompute failed: %w", err)
	}
	return point, nil
}

func (s *pointsService) RevokeTopScorerPoint(ctx context.Context, id int) error {
	point, err := s.topScorerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTopScorerPointNotFound) {
			return ErrPointNotFound
		}
		return err
	}
	tournamentID, err := s.tournamentOfMatch(ctx, point.MatchID)
	if err != nil {
		return err
	}

	if err := s.topScorerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTopScorerPointNotFound) {
			return ErrPointNotFound
		}
		return err
	}

	cause := RecomputeCause{Kind: CauseTopScorerChanged, FriendID: point.FriendID, TournamentID: tournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return fmt.Errorf("top scorer point removed but recompute failed: %w", err)
	}
	return nil
}

func (s *pointsService) tournamentOfMatch(ctx context.Context, matchID int) (int, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return 0, ErrMatchNotFound
		}
		return 0, err
	}
	stage, err := s.stageRepo.GetByID(ctx, match.StageID)
	if err != nil {
		return 0, err
	}
	return stage.TournamentID, nil
}
