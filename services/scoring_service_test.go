package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday/prediction-pool/models"
)

// Standard rule used by most scenarios: 0 for wrong, 3 for the right sign,
// 5 for the exact score.
func setRule(t *testing.T, f *fixture, stageID int) {
	t.Helper()
	_, err := f.rules.Set(context.Background(), stageID, RuleInput{Wrong: 0, Hit: 3, Bullseye: 5})
	require.NoError(t, err)
}

func total(t *testing.T, f *fixture, friendID, tournamentID int) int {
	t.Helper()
	tp, err := f.totalRepo.GetByFriendAndTournament(context.Background(), friendID, tournamentID)
	require.NoError(t, err)
	return tp.Points
}

func TestSetResultClassifiesPredictions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Euro 2024")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)

	alice := f.addFriend("Alice")
	bob := f.addFriend("Bob")
	carol := f.addFriend("Carol")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(1)})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, bob.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(2)})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, carol.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(0)})
	require.NoError(t, err)

	// Nobody scores before the match finishes.
	assert.Equal(t, 0, total(t, f, alice.ID, tournament.ID))

	_, err = f.matches.SetResult(ctx, match.ID, intPtr(1), intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, 5, total(t, f, alice.ID, tournament.ID), "exact score should be priced as bullseye")
	assert.Equal(t, 3, total(t, f, bob.ID, tournament.ID), "right sign should be priced as hit")
	assert.Equal(t, 0, total(t, f, carol.ID, tournament.ID), "wrong sign scores the wrong value")

	p, err := f.predictions.GetByFriendAndMatch(ctx, alice.ID, match.ID)
	require.NoError(t, err)
	result, err := f.resultRepo.GetByPredictionID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeBullseye, result.Outcome)
	assert.Equal(t, 5, result.Points)
}

func TestSetResultIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(1)})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.matches.SetResult(ctx, match.ID, intPtr(2), intPtr(1))
		require.NoError(t, err)
		assert.Equal(t, 5, total(t, f, alice.ID, tournament.ID))
	}

	// Repeating the recompute with no new facts changes nothing either.
	_, err = f.scoring.RecomputeTotal(ctx, alice.ID, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, total(t, f, alice.ID, tournament.ID))
}

func TestUnfinishingMatchRevertsLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(1), intPtr(0))
	require.NoError(t, err)
	require.Equal(t, 5, total(t, f, alice.ID, tournament.ID))

	// Clearing the result un-finishes the match.
	_, err = f.matches.SetResult(ctx, match.ID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, total(t, f, alice.ID, tournament.ID))
	p, err := f.predictions.GetByFriendAndMatch(ctx, alice.ID, match.ID)
	require.NoError(t, err)
	result, err := f.resultRepo.GetByPredictionID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotParticipated, result.Outcome)
	assert.Equal(t, 0, result.Points)
}

func TestMissingRuleSkipsLedgerUntilConfigured(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	// No rule yet: saving a prediction and finishing the match must not
	// write any ledger entry.
	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(1)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(1), intPtr(1))
	require.NoError(t, err)

	p, err := f.predictions.GetByFriendAndMatch(ctx, alice.ID, match.ID)
	require.NoError(t, err)
	_, err = f.resultRepo.GetByPredictionID(ctx, p.ID)
	assert.Error(t, err, "no ledger entry should exist without a rule")
	assert.Equal(t, 0, total(t, f, alice.ID, tournament.ID))

	// Configuring the rule reclassifies the whole stage.
	setRule(t, f, stage.ID)
	result, err := f.resultRepo.GetByPredictionID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeBullseye, result.Outcome)
	assert.Equal(t, 5, total(t, f, alice.ID, tournament.ID))
}

func TestRuleChangeRepricesStage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(0), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(0), intPtr(0))
	require.NoError(t, err)
	require.Equal(t, 5, total(t, f, alice.ID, tournament.ID))

	_, err = f.rules.Set(ctx, stage.ID, RuleInput{Wrong: 0, Hit: 2, Bullseye: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, total(t, f, alice.ID, tournament.ID))
}

func TestTotalSumsEveryPointSource(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(2), intPtr(0))
	require.NoError(t, err)
	require.Equal(t, 5, total(t, f, alice.ID, tournament.ID))

	stagePoint, err := f.points.AwardStagePoint(ctx, alice.ID, stage.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, total(t, f, alice.ID, tournament.ID))

	topScorer, err := f.points.AwardTopScorerPoint(ctx, alice.ID, match.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 14, total(t, f, alice.ID, tournament.ID))

	// Scorecard and stored total must agree.
	scorecard, err := f.standings.FriendScorecard(ctx, tournament.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, scorecard.TotalPoints)

	// Revoking is folded in exactly like awarding.
	require.NoError(t, f.points.RevokeTopScorerPoint(ctx, topScorer.ID))
	assert.Equal(t, 12, total(t, f, alice.ID, tournament.ID))
	require.NoError(t, f.points.RevokeStagePoint(ctx, stagePoint.ID))
	assert.Equal(t, 5, total(t, f, alice.ID, tournament.ID))
}

func TestKnockoutTeamPickGatesScoring(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Semifinal")
	_, err := f.rules.Set(ctx, stage.ID, RuleInput{Wrong: 1, Hit: 4, Bullseye: 7, TeamPickRequired: true})
	require.NoError(t, err)

	// Knockout match created before the pairing is known.
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")
	bob := f.addFriend("Bob")

	_, err = f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{
		HomeScore: intPtr(2), AwayScore: intPtr(1),
		HomeTeamID: intPtr(10), AwayTeamID: intPtr(20),
	})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, bob.ID, match.ID, PredictionInput{
		HomeScore: intPtr(2), AwayScore: intPtr(1),
		HomeTeamID: intPtr(10), AwayTeamID: intPtr(30),
	})
	require.NoError(t, err)

	_, err = f.matches.SetTeams(ctx, match.ID, intPtr(10), intPtr(20))
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(2), intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, 7, total(t, f, alice.ID, tournament.ID), "matching picks score normally")
	// A mismatched pick gets the rule's wrong value without participating.
	assert.Equal(t, 1, total(t, f, bob.ID, tournament.ID))

	p, err := f.predictions.GetByFriendAndMatch(ctx, bob.ID, match.ID)
	require.NoError(t, err)
	result, err := f.resultRepo.GetByPredictionID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotParticipated, result.Outcome)
}

func TestStandingsShareRankOnEqualPoints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)

	alice := f.addFriend("Alice")
	bob := f.addFriend("Bob")
	carol := f.addFriend("Carol")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(3), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, bob.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, carol.ID, match.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(3), intPtr(0))
	require.NoError(t, err)

	rows, err := f.standings.TournamentStandings(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, alice.ID, rows[0].FriendID)
	// Bob and Carol both hit the sign: equal points, shared rank.
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 2, rows[2].Rank)
	assert.Equal(t, rows[1].Points, rows[2].Points)
}

func TestMatchPredictionsViewDefaultsToNotParticipated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	// Placeholder prediction, no rule, no result.
	require.NoError(t, f.predictionRepo.CreatePlaceholders(ctx, alice.ID, []int{match.ID}))

	view, err := f.standings.MatchPredictions(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, view.Predictions, 1)
	assert.Equal(t, "Not Participated", view.Predictions[0].Outcome)
	assert.Equal(t, 0, view.Predictions[0].Points)
	require.NotNil(t, view.Stats)
	assert.Equal(t, "0%", view.Stats.Played)
}
