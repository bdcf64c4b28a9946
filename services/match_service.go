package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

type CreateMatchInput struct {
	StageID    int       `json:"stage_id"`
	Number     int       `json:"number"`
	StartTime  time.Time `json:"start_time"`
	HomeTeamID *int      `json:"home_team_id"`
	AwayTeamID *int      `json:"away_team_id"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByStage(ctx context.Context, stageID int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// SetResult records the final score and reclassifies every prediction
	// on the match. Passing nil for both scores un-finishes the match and
	// reverts its ledger entries to not-participated.
	SetResult(ctx context.Context, id int, homeScore, awayScore *int) (*models.Match, error)
	// SetTeams assigns or clears the pairing, used when knockout
	// participants become known. Team-pick classification depends on the
	// pairing, so the ledger is recomputed here too.
	SetTeams(ctx context.Context, id int, homeTeamID, awayTeamID *int) (*models.Match, error)
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	stageRepo      repositories.StageRepository
	scoringService ScoringService
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	stageRepo repositories.StageRepository,
	scoringService ScoringService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		stageRepo:      stageRepo,
		scoringService: scoringService,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if _, err := s.stageRepo.GetByID(ctx, input.StageID); err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	match := &models.Match{
		StageID:    input.StageID,
		Number:     input.Number,
		StartTime:  input.StartTime,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNumberConflict) {
			return nil, ErrMatchNumberConflict
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByStage(ctx context.Context, stageID int) ([]*models.Match, error) {
	return s.matchRepo.ListByStage(ctx, stageID)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID)
}

func (s *matchService) SetResult(ctx context.Context, id int, homeScore, awayScore *int) (*models.Match, error) {
	if err := validateScorePair(homeScore, awayScore); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateResult(ctx, id, homeScore, awayScore); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	s.logger.Info("match result updated",
		slog.Int("match_id", id),
		slog.Bool("finished", homeScore != nil && awayScore != nil))

	if err := s.scoringService.RecomputeMatchPredictions(ctx, id); err != nil {
		return nil, fmt.Errorf("result stored but recompute failed: %w", err)
	}
	return s.matchRepo.GetByID(ctx, id)
}

func (s *matchService) SetTeams(ctx context.Context, id int, homeTeamID, awayTeamID *int) (*models.Match, error) {
	if err := s.matchRepo.UpdateTeams(ctx, id, homeTeamID, awayTeamID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	s.logger.Info("match teams updated", slog.Int("match_id", id))

	if err := s.scoringService.RecomputeMatchPredictions(ctx, id); err != nil {
		return nil, fmt.Errorf("teams stored but recompute failed: %w", err)
	}
	return s.matchRepo.GetByID(ctx, id)
}
