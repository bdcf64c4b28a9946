package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
	"github.com/matchday/prediction-pool/storage"
)

type TeamService interface {
	Create(ctx context.Context, name string) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	// UploadCrest stores the crest image and records its key on the team,
	// replacing (and deleting) any previous crest.
	UploadCrest(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
	RemoveCrest(ctx context.Context, teamID int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader, logger: logger}
}

func (s *teamService) Create(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameEmpty
	}
	team := &models.Team{Name: name}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.attachCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		s.attachCrestURL(team)
	}
	return teams, nil
}

func (s *teamService) UploadCrest(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrCrestStorageDisabled
	}
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("crests/team_%d", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", teamID, err)
	}
	if err := s.teamRepo.UpdateCrestKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}
	s.logger.Info("team crest uploaded", slog.Int("team_id", teamID), slog.String("key", result.Key))

	team.CrestKey = &result.Key
	s.attachCrestURL(team)
	return team, nil
}

func (s *teamService) RemoveCrest(ctx context.Context, teamID int) error {
	if s.uploader == nil {
		return ErrCrestStorageDisabled
	}
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CrestKey == nil {
		return nil
	}
	if err := s.uploader.Delete(ctx, *team.CrestKey); err != nil {
		return fmt.Errorf("failed to delete crest for team %d: %w", teamID, err)
	}
	return s.teamRepo.UpdateCrestKey(ctx, teamID, nil)
}

func (s *teamService) attachCrestURL(team *models.Team) {
	if team.CrestKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.CrestKey)
	team.CrestURL = &url
}
