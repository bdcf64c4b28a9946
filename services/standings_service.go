package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

// StandingRow is one line of the tournament standings. Friends with equal
// points share a rank.
type StandingRow struct {
	Rank     int    `json:"rank"`
	FriendID int    `json:"friend_id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

// PredictionView is one friend's prediction on a match page, with the
// computed outcome. Predictions not yet in the ledger show as not
// participated with zero points.
type PredictionView struct {
	FriendID  int    `json:"friend_id"`
	Name      string `json:"name"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	Outcome   string `json:"outcome"`
	Points    int    `json:"points"`
}

// MatchStats aggregates a match's predictions the way the match page shows
// them: outcome shares and the average points.
type MatchStats struct {
	Wrong         string `json:"wrong"`
	Hit           string `json:"hit"`
	Bullseye      string `json:"bullseye"`
	Played        string `json:"played"`
	PointsAverage string `json:"points_avg"`
}

type MatchView struct {
	Match       *models.Match    `json:"match"`
	Predictions []PredictionView `json:"predictions"`
	Stats       *MatchStats      `json:"statistics,omitempty"`
}

// Scorecard is a friend's full accounting for one tournament: every point
// source plus the derived total.
type Scorecard struct {
	Friend          string                     `json:"friend"`
	FriendID        int                        `json:"friend_id"`
	TournamentID    int                        `json:"tournament_id"`
	Predictions     []*models.Prediction       `json:"predictions"`
	Results         []*models.PredictionResult `json:"results"`
	StagePoints     []*models.StagePoint       `json:"stage_points"`
	TopScorerPoints []*models.TopScorerPoint   `json:"top_scorer_points"`
	TotalPoints     int                        `json:"total_points"`
}

type StandingsService interface {
	TournamentStandings(ctx context.Context, tournamentID int) ([]StandingRow, error)
	FriendScorecard(ctx context.Context, tournamentID, friendID int) (*Scorecard, error)
	MatchPredictions(ctx context.Context, matchID int) (*MatchView, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	friendRepo     repositories.FriendRepository
	matchRepo      repositories.MatchRepository
	predictionRepo repositories.PredictionRepository
	resultRepo     repositories.ResultRepository
	stagePointRepo repositories.StagePointRepository
	topScorerRepo  repositories.TopScorerPointRepository
	totalRepo      repositories.TotalPointRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	friendRepo repositories.FriendRepository,
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	resultRepo repositories.ResultRepository,
	stagePointRepo repositories.StagePointRepository,
	topScorerRepo repositories.TopScorerPointRepository,
	totalRepo repositories.TotalPointRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		friendRepo:     friendRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		stagePointRepo: stagePointRepo,
		topScorerRepo:  topScorerRepo,
		totalRepo:      totalRepo,
	}
}

func (s *standingsService) TournamentStandings(ctx context.Context, tournamentID int) ([]StandingRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	totals, err := s.totalRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	return rankTotals(totals), nil
}

// rankTotals assigns ranks to totals already sorted by points descending.
// Equal points share the rank of the first friend holding that score.
func rankTotals(totals []*models.TotalPoint) []StandingRow {
	rows := make([]StandingRow, 0, len(totals))
	for i, t := range totals {
		rank := i + 1
		if i > 0 && t.Points == totals[i-1].Points {
			rank = rows[i-1].Rank
		}
		row := StandingRow{Rank: rank, FriendID: t.FriendID, Points: t.Points}
		if t.Friend != nil {
			row.Name = t.Friend.FullName()
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *standingsService) FriendScorecard(ctx context.Context, tournamentID, friendID int) (*Scorecard, error) {
	friend, err := s.friendRepo.GetByID(ctx, friendID)
	if err != nil {
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

	predictions, err := s.predictionRepo.ListByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}
	stagePoints, err := s.stagePointRepo.ListByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}
	topScorerPoints, err := s.topScorerRepo.ListByFriendAndTournament(ctx, friendID, tournamentID)
	if err != nil {
		return nil, err
	}

	// The scorecard total is summed live from its parts; the stored
	// TotalPoint must agree with it at all times.
	total := 0
	for _, r := range results {
		total += r.Points
	}
	for _, sp := range stagePoints {
		total += sp.Points
	}
	for _, tsp := range topScorerPoints {
		total += tsp.Points
	}

	return &Scorecard{
		Friend:          friend.FullName(),
		FriendID:        friendID,
		TournamentID:    tournamentID,
		Predictions:     predictions,
		Results:         results,
		StagePoints:     stagePoints,
		TopScorerPoints: topScorerPoints,
		TotalPoints:     total,
	}, nil
}

func (s *standingsService) MatchPredictions(ctx context.Context, matchID int) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	byPrediction := make(map[int]*models.PredictionResult, len(results))
	for _, r := range results {
		byPrediction[r.PredictionID] = r
	}

	views := make([]PredictionView, 0, len(predictions))
	outcomes := make([]models.Outcome, 0, len(predictions))
	var pointsSum int
	for _, p := range predictions {
		view := PredictionView{
			FriendID:  p.FriendID,
			HomeScore: p.HomeScore,
			AwayScore: p.AwayScore,
			Outcome:   models.OutcomeNotParticipated.Label(),
		}
		if p.Friend != nil {
			view.Name = p.Friend.FullName()
		}
		outcome := models.OutcomeNotParticipated
		if r, ok := byPrediction[p.ID]; ok {
			outcome = r.Outcome
			view.Outcome = r.OutcomeLabel()
			view.Points = r.Points
			pointsSum += r.Points
		}
		outcomes = append(outcomes, outcome)
		views = append(views, view)
	}

	mv := &MatchView{Match: match, Predictions: views}
	if len(views) > 0 {
		mv.Stats = matchStats(outcomes, pointsSum)
	}
	return mv, nil
}

func matchStats(outcomes []models.Outcome, pointsSum int) *MatchStats {
	var wrong, hit, bullseye, notParticipated int
	for _, o := range outcomes {
		switch o {
		case models.OutcomeWrong:
			wrong++
		case models.OutcomeHit:
			hit++
		case models.OutcomeBullseye:
			bullseye++
		case models.OutcomeNotParticipated:
			notParticipated++
		}
	}
	n := len(outcomes)
	avg := strings.TrimRight(strings.TrimRight(strconv.FormatFloat(float64(pointsSum)/float64(n), 'f', 2, 64), "0"), ".")
	return &MatchStats{
		Wrong:         percentize(float64(wrong) / float64(n)),
		Hit:           percentize(float64(hit) / float64(n)),
		Bullseye:      percentize(float64(bullseye) / float64(n)),
		Played:        percentize(float64(n-notParticipated) / float64(n)),
		PointsAverage: avg,
	}
}

// percentize renders a ratio as a percentage, trimming trailing zeros:
// 1.0 -> "100%", 1/3 -> "33.33%".
func percentize(ratio float64) string {
	s := strconv.FormatFloat(ratio*100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "%"
}
