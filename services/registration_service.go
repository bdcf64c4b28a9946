package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

type RegistrationService interface {
	// Register joins a friend to a tournament and seeds one placeholder
	// prediction (no scores) per existing match, so the friend's tofes is
	// complete from the start.
	Register(ctx context.Context, friendID, tournamentID int) (*models.Registration, error)
	// Unregister removes the friend from the tournament together with all
	// of their predictions; ledger entries go with them (FK cascade) and
	// the group tables and total are recomputed down to empty/zero.
	Unregister(ctx context.Context, friendID, tournamentID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error)
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	friendRepo       repositories.FriendRepository
	tournamentRepo   repositories.TournamentRepository
	stageRepo        repositories.StageRepository
	matchRepo        repositories.MatchRepository
	predictionRepo   repositories.PredictionRepository
	scoringService   ScoringService
	groupTables      GroupTableService
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	friendRepo repositories.FriendRepository,
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	scoringService ScoringService,
	groupTables GroupTableService,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		friendRepo:       friendRepo,
		tournamentRepo:   tournamentRepo,
		stageRepo:        stageRepo,
		matchRepo:        matchRepo,
		predictionRepo:   predictionRepo,
		scoringService:   scoringService,
		groupTables:      groupTables,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, friendID, tournamentID int) (*models.Registration, error) {
	if _, err := s.friendRepo.GetByID(ctx, friendID); err != nil {
		if errors.Is(err, repositories.ErrFriendNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	registration := &models.Registration{FriendID: friendID, TournamentID: tournamentID}
	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matchIDs := make([]int, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}
	if err := s.predictionRepo.CreatePlaceholders(ctx, friendID, matchIDs); err != nil {
		return nil, fmt.Errorf("registered but failed to seed predictions: %w", err)
	}
	s.logger.Info("friend registered",
		slog.Int("friend_id", friendID),
		slog.Int("tournament_id", tournamentID),
		slog.Int("seeded_predictions", len(matchIDs)))

	if err := s.rebuildAllGroupTables(ctx, friendID, tournamentID); err != nil {
		return nil, err
	}
	return registration, nil
}

func (s *registrationService) Unregister(ctx context.Context, friendID, tournamentID int) error {
	if err := s.registrationRepo.Delete(ctx, friendID, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrFriendNotRegistered
		}
		return err
	}
	if err := s.predictionRepo.DeleteByFriendAndTournament(ctx, friendID, tournamentID); err != nil {
		return err
	}
	s.logger.Info("friend unregistered",
		slog.Int("friend_id", friendID),
		slog.Int("tournament_id", tournamentID))

	// The ledger rows went with the predictions; fold the loss into the
	// total and clear the friend's group tables.
	cause := RecomputeCause{Kind: CauseLedgerChanged, FriendID: friendID, TournamentID: tournamentID}
	if err := s.scoringService.HandleRecompute(ctx, cause); err != nil {
		return fmt.Errorf("unregistered but total recompute failed: %w", err)
	}
	return s.rebuildAllGroupTables(ctx, friendID, tournamentID)
}

func (s *registrationService) rebuildAllGroupTables(ctx context.Context, friendID, tournamentID int) error {
	stages, err := s.stageRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	for _, stage := range stages {
		if err := s.groupTables.Rebuild(ctx, friendID, stage.ID); err != nil {
			return fmt.Errorf("failed to rebuild group table for stage %d: %w", stage.ID, err)
		}
	}
	return nil
}

func (s *registrationService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	return s.registrationRepo.ListByTournament(ctx, tournamentID)
}
