package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
	"github.com/matchday/prediction-pool/scoring"
)

// CauseKind enumerates the closed set of recompute triggers. Every kind
// carries enough data (friend, tournament) to re-sum one total; nothing the
// recompute writes triggers further recomputation, so the cascade is acyclic.
type CauseKind string

const (
	CauseLedgerChanged     CauseKind = "ledger_changed"
	CauseStagePointChanged CauseKind = "stage_point_changed"
	CauseTopScorerChanged  CauseKind = "top_scorer_changed"
)

type RecomputeCause struct {
	Kind         CauseKind
	FriendID     int
	TournamentID int
}

// StandingsBroadcaster pushes refreshed standings to live subscribers.
// Satisfied by *scoring.Hub.
type StandingsBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// TournamentRoom names the websocket room for a tournament's standings.
func TournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

// ScoringService is the recomputation engine: it keeps the prediction
// result ledger and the per-(friend, tournament) totals consistent with
// whatever upstream fact just changed.
type ScoringService interface {
	// UpsertResult reclassifies one prediction and overwrites its ledger
	// entry. When the stage has no scoring rule yet the call is a no-op and
	// returns (nil, nil); the ledger entry appears once a rule is configured.
	UpsertResult(ctx context.Context, prediction *models.Prediction) (*models.PredictionResult, error)
	// RecomputeTotal re-sums every point source for the friend in the
	// tournament and upserts the total. Always a full re-sum, never a
	// delta, so repeated or out-of-order triggers cannot drift.
	RecomputeTotal(ctx context.Context, friendID, tournamentID int) (*models.TotalPoint, error)
	// HandleRecompute dispatches a recompute cause to RecomputeTotal.
	HandleRecompute(ctx context.Context, cause RecomputeCause) error
	// RecomputeMatchPredictions reclassifies every prediction of a match
	// and refreshes the totals of every friend who predicted it. Called
	// after a match result or pairing changes, including un-finishing.
	RecomputeMatchPredictions(ctx context.Context, matchID int) error
	// RecomputeStagePredictions reclassifies every prediction in a stage.
	// Called after the stage's scoring rule changes.
	RecomputeStagePredictions(ctx context.Context, stageID int) error
}

type scoringService struct {
	ruleRepo       repositories.RuleRepository
	matchRepo      repositories.MatchRepository
	stageRepo      repositories.StageRepository
	predictionRepo repositories.PredictionRepository
	resultRepo     repositories.ResultRepository
	stagePointRepo repositories.StagePointRepository
	topScorerRepo  repositories.TopScorerPointRepository
	totalRepo      repositories.TotalPointRepository
	broadcaster    StandingsBroadcaster
	logger         *slog.Logger
}

func NewScoringService(
	ruleRepo repositories.RuleRepository,
	matchRepo repositories.MatchRepository,
	stageRepo repositories.StageRepository,
	predictionRepo repositories.PredictionRepository,
	resultRepo repositories.ResultRepository,
	stagePointRepo repositories.StagePointRepository,
	topScorerRepo repositories.TopScorerPointRepository,
	totalRepo repositories.TotalPointRepository,
	broadcaster StandingsBroadcaster,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		ruleRepo:       ruleRepo,
		matchRepo:      matchRepo,
		stageRepo:      stageRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		stagePointRepo: stagePointRepo,
		topScorerRepo:  topScorerRepo,
		totalRepo:      totalRepo,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

func (s *scoringService) UpsertResult(ctx context.Context, prediction *models.Prediction) (*models.PredictionResult, error) {
	match := prediction.Match
	if match == nil {
		var err error
		match, err = s.matchRepo.GetByID(ctx, prediction.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("failed to load match for prediction %d: %w", prediction.ID, err)
		}
	}

	rule, err := s.ruleRepo.GetByStageID(ctx, match.StageID)
	if err != nil {
		if errors.Is(err, repositories.ErrRuleNotFound) {
			// Rule not configured yet: recoverable, leave the ledger alone.
			s.logger.Debug("skipping result upsert, stage has no scoring rule",
				slog.Int("stage_id", match.StageID), slog.Int("prediction_id", prediction.ID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load rule for stage %d: %w", match.StageID, err)
	}

	points, outcome := scoring.Classify(*rule, *prediction, *match)
	result := &models.PredictionResult{
		PredictionID: prediction.ID,
		Outcome:      outcome,
		Points:       points,
	}
	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *scoringService) RecomputeTotal(ctx context.Context, friendID, tournamentID int) (*models.TotalPoint, error) {
	resultPoints, err := s.resultRepo.SumPointsByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}
	stagePoints, err := s.stagePointRepo.SumPointsByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}
	topScorerPoints, err := s.topScorerRepo.SumPointsByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}

	total := &models.TotalPoint{
		FriendID:     friendID,
		TournamentID: tournamentID,
		Points:       resultPoints + stagePoints + topScorerPoints,
	}
	if err := s.totalRepo.Upsert(ctx, total); err != nil {
		return nil, err
	}

	s.logger.Info("total recomputed",
		slog.Int("friend_id", friendID),
		slog.Int("tournament_id", tournamentID),
		slog.Int("points", total.Points))

	s.broadcastStandings(ctx, tournamentID)
	return total, nil
}

func (s *scoringService) HandleRecompute(ctx context.Context, cause RecomputeCause) error {
	s.logger.Debug("recompute triggered",
		slog.String("cause", string(cause.Kind)),
		slog.Int("friend_id", cause.FriendID),
		slog.Int("tournament_id", cause.TournamentID))
	_, err := s.RecomputeTotal(ctx, cause.FriendID, cause.TournamentID)
	return err
}

func (s *scoringService) RecomputeMatchPredictions(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	stage, err := s.stageRepo.GetByID(ctx, match.StageID)
	if err != nil {
		return err
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return err
	}
	return s.recompute(ctx, predictions, match, stage.TournamentID)
}

func (s *scoringService) RecomputeStagePredictions(ctx context.Context, stageID int) error {
	stage, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return ErrStageNotFound
		}
		return err
	}

	predictions, err := s.predictionRepo.ListByStage(ctx, stageID)
	if err != nil {
		return err
	}
	return s.recompute(ctx, predictions, nil, stage.TournamentID)
}

// recompute reclassifies a batch of predictions concurrently, then re-sums
// the total of each friend that appeared in the batch. Predictions are
// distinct ledger keys, so the upserts can safely run in parallel.
func (s *scoringService) recompute(ctx context.Context, predictions []*models.Prediction, match *models.Match, tournamentID int) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, p := range predictions {
		if p.Match == nil {
			p.Match = match
		}
		prediction := p
		g.Go(func() error {
			_, err := s.UpsertResult(gCtx, prediction)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	friendIDs := make(map[int]bool)
	for _, p := range predictions {
		friendIDs[p.FriendID] = true
	}
	for friendID := range friendIDs {
		cause := RecomputeCause{Kind: CauseLedgerChanged, FriendID: friendID, TournamentID: tournamentID}
		if err := s.HandleRecompute(ctx, cause); err != nil {
			return err
		}
	}
	return nil
}

// broadcastStandings pushes the refreshed standings snapshot to the
// tournament's websocket room. Failures only cost the live update; the
// stored state is already consistent.
func (s *scoringService) broadcastStandings(ctx context.Context, tournamentID int) {
	if s.broadcaster == nil {
		return
	}
	totals, err := s.totalRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		s.logger.Error("failed to load standings for broadcast",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastToRoom(TournamentRoom(tournamentID), scoring.Message{
		Type:    "STANDINGS_UPDATED",
		RoomID:  TournamentRoom(tournamentID),
		Payload: rankTotals(totals),
	})
}
