package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/matchday/prediction-pool/models"
	"github.com/matchday/prediction-pool/repositories"
)

// In-memory repositories backed by a shared world, so cross-entity queries
// (sum a friend's points across a tournament) can resolve the same joins the
// SQL layer does.
type world struct {
	mu sync.Mutex

	nextID int

	friends       map[int]*models.Friend
	tournaments   map[int]*models.Tournament
	stages        map[int]*models.Stage
	teams         map[int]*models.Team
	matches       map[int]*models.Match
	rules         map[int]*models.ScoringRule // by stage ID
	predictions   map[int]*models.Prediction
	results       map[int]*models.PredictionResult // by prediction ID
	stagePoints   map[int]*models.StagePoint
	topScorers    map[int]*models.TopScorerPoint
	totals        map[[2]int]*models.TotalPoint // by (friend, tournament)
	groupRows     map[[2]int][]*models.GroupRow // by (friend, stage)
	registrations map[[2]int]*models.Registration
}

func newWorld() *world {
	return &world{
		friends:       make(map[int]*models.Friend),
		tournaments:   make(map[int]*models.Tournament),
		stages:        make(map[int]*models.Stage),
		teams:         make(map[int]*models.Team),
		matches:       make(map[int]*models.Match),
		rules:         make(map[int]*models.ScoringRule),
		predictions:   make(map[int]*models.Prediction),
		results:       make(map[int]*models.PredictionResult),
		stagePoints:   make(map[int]*models.StagePoint),
		topScorers:    make(map[int]*models.TopScorerPoint),
		totals:        make(map[[2]int]*models.TotalPoint),
		groupRows:     make(map[[2]int][]*models.GroupRow),
		registrations: make(map[[2]int]*models.Registration),
	}
}

func (w *world) id() int {
	w.nextID++
	return w.nextID
}

func (w *world) tournamentOf(matchID int) int {
	match := w.matches[matchID]
	return w.stages[match.StageID].TournamentID
}

type fakeFriendRepo struct{ w *world }

func (f *fakeFriendRepo) Create(_ context.Context, friend *models.Friend) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.friends {
		if existing.Email == friend.Email {
			return repositories.ErrFriendEmailConflict
		}
	}
	friend.ID = f.w.id()
	f.w.friends[friend.ID] = friend
	return nil
}

func (f *fakeFriendRepo) GetByID(_ context.Context, id int) (*models.Friend, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	friend, ok := f.w.friends[id]
	if !ok {
		return nil, repositories.ErrFriendNotFound
	}
	return friend, nil
}

func (f *fakeFriendRepo) GetByEmail(_ context.Context, email string) (*models.Friend, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, friend := range f.w.friends {
		if friend.Email == email {
			return friend, nil
		}
	}
	return nil, repositories.ErrFriendNotFound
}

func (f *fakeFriendRepo) List(_ context.Context) ([]*models.Friend, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := make([]*models.Friend, 0, len(f.w.friends))
	for _, friend := range f.w.friends {
		out = append(out, friend)
	}
	return out, nil
}

type fakeTournamentRepo struct{ w *world }

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	t.ID = f.w.id()
	f.w.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	t, ok := f.w.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := make([]*models.Tournament, 0, len(f.w.tournaments))
	for _, t := range f.w.tournaments {
		out = append(out, t)
	}
	return out, nil
}

type fakeStageRepo struct{ w *world }

func (f *fakeStageRepo) Create(_ context.Context, stage *models.Stage) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	stage.ID = f.w.id()
	f.w.stages[stage.ID] = stage
	return nil
}

func (f *fakeStageRepo) GetByID(_ context.Context, id int) (*models.Stage, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	stage, ok := f.w.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	return stage, nil
}

func (f *fakeStageRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Stage, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Stage
	for _, stage := range f.w.stages {
		if stage.TournamentID == tournamentID {
			out = append(out, stage)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeMatchRepo struct{ w *world }

func (f *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.matches {
		if existing.StageID == match.StageID && existing.Number == match.Number {
			return repositories.ErrMatchNumberConflict
		}
	}
	match.ID = f.w.id()
	f.w.matches[match.ID] = match
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	match, ok := f.w.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchRepo) UpdateResult(_ context.Context, id int, homeScore, awayScore *int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	match, ok := f.w.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.HomeScore = homeScore
	match.AwayScore = awayScore
	return nil
}

func (f *fakeMatchRepo) UpdateTeams(_ context.Context, id int, homeTeamID, awayTeamID *int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	match, ok := f.w.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.HomeTeamID = homeTeamID
	match.AwayTeamID = awayTeamID
	return nil
}

func (f *fakeMatchRepo) ListByStage(_ context.Context, stageID int) ([]*models.Match, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Match
	for _, match := range f.w.matches {
		if match.StageID == stageID {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Match, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Match
	for _, match := range f.w.matches {
		if f.w.stages[match.StageID].TournamentID == tournamentID {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTeamRepo struct{ w *world }

func (f *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = f.w.id()
	f.w.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	team, ok := f.w.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) List(_ context.Context) ([]*models.Team, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := make([]*models.Team, 0, len(f.w.teams))
	for _, team := range f.w.teams {
		out = append(out, team)
	}
	return out, nil
}

func (f *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Team
	for _, id := range ids {
		if team, ok := f.w.teams[id]; ok {
			out = append(out, team)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) UpdateCrestKey(_ context.Context, id int, crestKey *string) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	team, ok := f.w.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.CrestKey = crestKey
	return nil
}

type fakeRuleRepo struct{ w *world }

func (f *fakeRuleRepo) Upsert(_ context.Context, rule *models.ScoringRule) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if existing, ok := f.w.rules[rule.StageID]; ok {
		rule.ID = existing.ID
	} else {
		rule.ID = f.w.id()
	}
	f.w.rules[rule.StageID] = rule
	return nil
}

func (f *fakeRuleRepo) GetByStageID(_ context.Context, stageID int) (*models.ScoringRule, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	rule, ok := f.w.rules[stageID]
	if !ok {
		return nil, repositories.ErrRuleNotFound
	}
	return rule, nil
}

type fakePredictionRepo struct{ w *world }

func (f *fakePredictionRepo) Upsert(_ context.Context, p *models.Prediction) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.predictions {
		if existing.FriendID == p.FriendID && existing.MatchID == p.MatchID {
			p.ID = existing.ID
			f.w.predictions[p.ID] = p
			return nil
		}
	}
	p.ID = f.w.id()
	f.w.predictions[p.ID] = p
	return nil
}

func (f *fakePredictionRepo) GetByID(_ context.Context, id int) (*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p, ok := f.w.predictions[id]
	if !ok {
		return nil, repositories.ErrPredictionNotFound
	}
	return p, nil
}

func (f *fakePredictionRepo) GetByFriendAndMatch(_ context.Context, friendID, matchID int) (*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, p := range f.w.predictions {
		if p.FriendID == friendID && p.MatchID == matchID {
			return p, nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}

func (f *fakePredictionRepo) CreatePlaceholders(_ context.Context, friendID int, matchIDs []int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, matchID := range matchIDs {
		exists := false
		for _, p := range f.w.predictions {
			if p.FriendID == friendID && p.MatchID == matchID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		p := &models.Prediction{ID: f.w.id(), FriendID: friendID, MatchID: matchID}
		f.w.predictions[p.ID] = p
	}
	return nil
}

func (f *fakePredictionRepo) ListByMatch(_ context.Context, matchID int) ([]*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.w.predictions {
		if p.MatchID == matchID {
			copied := *p
			// The SQL ListByMatch joins friends, not matches: it never
			// returns Match, so callers reload the current match state.
			copied.Match = nil
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePredictionRepo) ListByStage(_ context.Context, stageID int) ([]*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.w.predictions {
		match := f.w.matches[p.MatchID]
		if match != nil && match.StageID == stageID {
			copied := *p
			matchCopy := *match
			copied.Match = &matchCopy
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePredictionRepo) ListByFriendAndStage(_ context.Context, friendID, stageID int) ([]*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.w.predictions {
		match := f.w.matches[p.MatchID]
		if p.FriendID == friendID && match != nil && match.StageID == stageID {
			copied := *p
			matchCopy := *match
			copied.Match = &matchCopy
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePredictionRepo) ListByFriendAndTournament(_ context.Context, friendID, tournamentID int) ([]*models.Prediction, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.w.predictions {
		if p.FriendID == friendID && f.w.tournamentOf(p.MatchID) == tournamentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePredictionRepo) DeleteByFriendAndTournament(_ context.Context, friendID, tournamentID int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for id, p := range f.w.predictions {
		if p.FriendID == friendID && f.w.tournamentOf(p.MatchID) == tournamentID {
			delete(f.w.predictions, id)
			delete(f.w.results, id) // FK cascade
		}
	}
	return nil
}

type fakeResultRepo struct{ w *world }

func (f *fakeResultRepo) Upsert(_ context.Context, result *models.PredictionResult) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if existing, ok := f.w.results[result.PredictionID]; ok {
		result.ID = existing.ID
	} else {
		result.ID = f.w.id()
	}
	f.w.results[result.PredictionID] = result
	return nil
}

func (f *fakeResultRepo) GetByPredictionID(_ context.Context, predictionID int) (*models.PredictionResult, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	result, ok := f.w.results[predictionID]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return result, nil
}

func (f *fakeResultRepo) ListByMatch(_ context.Context, matchID int) ([]*models.PredictionResult, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.PredictionResult
	for predictionID, result := range f.w.results {
		p := f.w.predictions[predictionID]
		if p != nil && p.MatchID == matchID {
			out = append(out, result)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListByFriendAndTournament(_ context.Context, friendID, tournamentID int) ([]*models.PredictionResult, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.PredictionResult
	for predictionID, result := range f.w.results {
		p := f.w.predictions[predictionID]
		if p != nil && p.FriendID == friendID && f.w.tournamentOf(p.MatchID) == tournamentID {
			out = append(out, result)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) SumPointsByFriendAndTournament(_ context.Context, friendID, tournamentID int) (int, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	sum := 0
	for predictionID, result := range f.w.results {
		p := f.w.predictions[predictionID]
		if p != nil && p.FriendID == friendID && f.w.tournamentOf(p.MatchID) == tournamentID {
			sum += result.Points
		}
	}
	return sum, nil
}

type fakeStagePointRepo struct{ w *world }

func (f *fakeStagePointRepo) Create(_ context.Context, point *models.StagePoint) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, existing := range f.w.stagePoints {
		if existing.FriendID == point.FriendID && existing.StageID == point.StageID {
			return repositories.ErrStagePointConflict
		}
	}
	point.ID = f.w.id()
	f.w.stagePoints[point.ID] = point
	return nil
}

func (f *fakeStagePointRepo) GetByID(_ context.Context, id int) (*models.StagePoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	point, ok := f.w.stagePoints[id]
	if !ok {
		return nil, repositories.ErrStagePointNotFound
	}
	return point, nil
}

func (f *fakeStagePointRepo) Delete(_ context.Context, id int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.stagePoints[id]; !ok {
		return repositories.ErrStagePointNotFound
	}
	delete(f.w.stagePoints, id)
	return nil
}

func (f *fakeStagePointRepo) ListByStage(_ context.Context, stageID int) ([]*models.StagePoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.StagePoint
	for _, point := range f.w.stagePoints {
		if point.StageID == stageID {
			out = append(out, point)
		}
	}
	return out, nil
}

func (f *fakeStagePointRepo) ListByFriendAndTournament(_ context.Context, friendID, tournamentID int) ([]*models.StagePoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.StagePoint
	for _, point := range f.w.stagePoints {
		if point.FriendID == friendID && f.w.stages[point.StageID].TournamentID == tournamentID {
			out = append(out, point)
		}
	}
	return out, nil
}

func (f *fakeStagePointRepo) SumPointsByFriendAndTournament(_ context.Context, friendID, tournamentID int) (int, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	sum := 0
	for _, point := range f.w.stagePoints {
		if point.FriendID == friendID && f.w.stages[point.StageID].TournamentID == tournamentID {
			sum += point.Points
		}
	}
	return sum, nil
}

type fakeTopScorerRepo struct{ w *world }

func (f *fakeTopScorerRepo) Create(_ context.Context, point *models.TopScorerPoint) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	point.ID = f.w.id()
	f.w.topScorers[point.ID] = point
	return nil
}

func (f *fakeTopScorerRepo) GetByID(_ context.Context, id int) (*models.TopScorerPoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	point, ok := f.w.topScorers[id]
	if !ok {
		return nil, repositories.ErrTopScorerPointNotFound
	}
	return point, nil
}

func (f *fakeTopScorerRepo) Delete(_ context.Context, id int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.topScorers[id]; !ok {
		return repositories.ErrTopScorerPointNotFound
	}
	delete(f.w.topScorers, id)
	return nil
}

func (f *fakeTopScorerRepo) ListByFriendAndTournament(_ context.Context, friendID, tournamentID int) ([]*models.TopScorerPoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.TopScorerPoint
	for _, point := range f.w.topScorers {
		if point.FriendID == friendID && f.w.tournamentOf(point.MatchID) == tournamentID {
			out = append(out, point)
		}
	}
	return out, nil
}

func (f *fakeTopScorerRepo) SumPointsByFriendAndTournament(_ context.Context, friendID, tournamentID int) (int, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	sum := 0
	for _, point := range f.w.topScorers {
		if point.FriendID == friendID && f.w.tournamentOf(point.MatchID) == tournamentID {
			sum += point.Points
		}
	}
	return sum, nil
}

type fakeTotalRepo struct{ w *world }

func (f *fakeTotalRepo) Upsert(_ context.Context, total *models.TotalPoint) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	key := [2]int{total.FriendID, total.TournamentID}
	if existing, ok := f.w.totals[key]; ok {
		total.ID = existing.ID
	} else {
		total.ID = f.w.id()
	}
	f.w.totals[key] = total
	return nil
}

func (f *fakeTotalRepo) GetByFriendAndTournament(_ context.Context, friendID, tournamentID int) (*models.TotalPoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	total, ok := f.w.totals[[2]int{friendID, tournamentID}]
	if !ok {
		return nil, repositories.ErrTotalPointNotFound
	}
	return total, nil
}

func (f *fakeTotalRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.TotalPoint, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.TotalPoint
	for key, total := range f.w.totals {
		if key[1] == tournamentID {
			total.Friend = f.w.friends[total.FriendID]
			out = append(out, total)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].FriendID < out[j].FriendID
	})
	return out, nil
}

type fakeGroupRowRepo struct{ w *world }

func (f *fakeGroupRowRepo) ReplaceForFriendAndStage(_ context.Context, friendID, stageID int, rows []models.GroupRow) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	stored := make([]*models.GroupRow, 0, len(rows))
	for i := range rows {
		row := rows[i]
		row.ID = f.w.id()
		stored = append(stored, &row)
	}
	f.w.groupRows[[2]int{friendID, stageID}] = stored
	return nil
}

func (f *fakeGroupRowRepo) ListByFriendAndStage(_ context.Context, friendID, stageID int) ([]*models.GroupRow, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return f.w.groupRows[[2]int{friendID, stageID}], nil
}

type fakeRegistrationRepo struct{ w *world }

func (f *fakeRegistrationRepo) Create(_ context.Context, registration *models.Registration) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	key := [2]int{registration.FriendID, registration.TournamentID}
	if _, ok := f.w.registrations[key]; ok {
		return repositories.ErrRegistrationConflict
	}
	registration.ID = f.w.id()
	f.w.registrations[key] = registration
	return nil
}

func (f *fakeRegistrationRepo) GetByFriendAndTournament(_ context.Context, friendID, tournamentID int) (*models.Registration, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	registration, ok := f.w.registrations[[2]int{friendID, tournamentID}]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return registration, nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, friendID, tournamentID int) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	key := [2]int{friendID, tournamentID}
	if _, ok := f.w.registrations[key]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(f.w.registrations, key)
	return nil
}

func (f *fakeRegistrationRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Registration, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Registration
	for key, registration := range f.w.registrations {
		if key[1] == tournamentID {
			out = append(out, registration)
		}
	}
	return out, nil
}

// fixture wires a full service stack over one shared in-memory world.
type fixture struct {
	w *world

	friendRepo     *fakeFriendRepo
	tournamentRepo *fakeTournamentRepo
	stageRepo      *fakeStageRepo
	teamRepo       *fakeTeamRepo
	matchRepo      *fakeMatchRepo
	ruleRepo       *fakeRuleRepo
	predictionRepo *fakePredictionRepo
	resultRepo     *fakeResultRepo
	stagePointRepo *fakeStagePointRepo
	topScorerRepo  *fakeTopScorerRepo
	totalRepo      *fakeTotalRepo
	groupRowRepo   *fakeGroupRowRepo
	regRepo        *fakeRegistrationRepo

	scoring      ScoringService
	groupTables  GroupTableService
	predictions  PredictionService
	matches      MatchService
	rules        RuleService
	points       PointsService
	registration RegistrationService
	standings    StandingsService
}

func newFixture() *fixture {
	w := newWorld()
	f := &fixture{
		w:              w,
		friendRepo:     &fakeFriendRepo{w},
		tournamentRepo: &fakeTournamentRepo{w},
		stageRepo:      &fakeStageRepo{w},
		teamRepo:       &fakeTeamRepo{w},
		matchRepo:      &fakeMatchRepo{w},
		ruleRepo:       &fakeRuleRepo{w},
		predictionRepo: &fakePredictionRepo{w},
		resultRepo:     &fakeResultRepo{w},
		stagePointRepo: &fakeStagePointRepo{w},
		topScorerRepo:  &fakeTopScorerRepo{w},
		totalRepo:      &fakeTotalRepo{w},
		groupRowRepo:   &fakeGroupRowRepo{w},
		regRepo:        &fakeRegistrationRepo{w},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.scoring = NewScoringService(
		f.ruleRepo, f.matchRepo, f.stageRepo, f.predictionRepo, f.resultRepo,
		f.stagePointRepo, f.topScorerRepo, f.totalRepo, nil, logger,
	)
	f.groupTables = NewGroupTableService(f.stageRepo, f.predictionRepo, f.groupRowRepo, f.teamRepo, logger)
	f.predictions = NewPredictionService(
		f.predictionRepo, f.matchRepo, f.stageRepo, f.friendRepo, f.scoring, f.groupTables, logger,
	)
	f.matches = NewMatchService(f.matchRepo, f.stageRepo, f.scoring, logger)
	f.rules = NewRuleService(f.ruleRepo, f.stageRepo, f.scoring, logger)
	f.points = NewPointsService(f.stagePointRepo, f.topScorerRepo, f.stageRepo, f.matchRepo, f.scoring, logger)
	f.registration = NewRegistrationService(
		f.regRepo, f.friendRepo, f.tournamentRepo, f.stageRepo, f.matchRepo,
		f.predictionRepo, f.scoring, f.groupTables, logger,
	)
	f.standings = NewStandingsService(
		f.tournamentRepo, f.friendRepo, f.matchRepo, f.predictionRepo, f.resultRepo,
		f.stagePointRepo, f.topScorerRepo, f.totalRepo,
	)
	return f
}

func (f *fixture) addFriend(name string) *models.Friend {
	friend := &models.Friend{FirstName: name, Email: name + "@pool.test", Role: models.RoleFriend}
	_ = f.friendRepo.Create(context.Background(), friend)
	return friend
}

func (f *fixture) addTournament(name string) *models.Tournament {
	t := &models.Tournament{Name: name}
	_ = f.tournamentRepo.Create(context.Background(), t)
	return t
}

func (f *fixture) addStage(tournamentID int, name string) *models.Stage {
	stage := &models.Stage{TournamentID: tournamentID, Name: name}
	_ = f.stageRepo.Create(context.Background(), stage)
	return stage
}

func (f *fixture) addMatch(stageID, number int) *models.Match {
	match := &models.Match{StageID: stageID, Number: number}
	_ = f.matchRepo.Create(context.Background(), match)
	return match
}

func intPtr(v int) *int { return &v }
