package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, name string) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	CreateStage(ctx context.Context, tournamentID int, name string) (*models.Stage, error)
	ListStages(ctx context.Context, tournamentID int) ([]*models.Stage, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	stageRepo      repositories.StageRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		stageRepo:      stageRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameEmpty
	}
	tournament := &models.Tournament{Name: name}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, err
	}
	s.logger.Info("tournament created", slog.Int("id", tournament.ID), slog.String("name", name))
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	stages, err := s.stageRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, stage := range stages {
		tournament.Stages = append(tournament.Stages, *stage)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *tournamentService) CreateStage(ctx context.Context, tournamentID int, name string) (*models.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrStageNameEmpty
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	stage := &models.Stage{TournamentID: tournamentID, Name: name}
	if err := s.stageRepo.Create(ctx, stage); err != nil {
		if errors.Is(err, repositories.ErrStageNameConflict) {
			return nil, ErrStageNameConflict
		}
		return nil, err
	}
	return stage, nil
}

func (s *tournamentService) ListStages(ctx context.Context, tournamentID int) ([]*models.Stage, error) {
	return s.stageRepo.ListByTournament(ctx, tournamentID)
}
