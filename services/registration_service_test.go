package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSeedsPlaceholderPredictions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Euro 2024")
	stage := f.addStage(tournament.ID, "Group A")
	f.addMatch(stage.ID, 1)
	f.addMatch(stage.ID, 2)
	f.addMatch(stage.ID, 3)
	alice := f.addFriend("Alice")

	_, err := f.registration.Register(ctx, alice.ID, tournament.ID)
	require.NoError(t, err)

	predictions, err := f.predictions.ListByFriendAndStage(ctx, alice.ID, stage.ID)
	require.NoError(t, err)
	require.Len(t, predictions, 3, "one placeholder per existing match")
	for _, p := range predictions {
		assert.False(t, p.Scored(), "placeholders carry no scores")
	}

	// Double registration is a conflict, not a duplicate seed.
	_, err = f.registration.Register(ctx, alice.ID, tournament.ID)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegisterKeepsExistingPredictions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(1)})
	require.NoError(t, err)

	_, err = f.registration.Register(ctx, alice.ID, tournament.ID)
	require.NoError(t, err)

	p, err := f.predictions.GetByFriendAndMatch(ctx, alice.ID, match.ID)
	require.NoError(t, err)
	require.NotNil(t, p.HomeScore)
	assert.Equal(t, 2, *p.HomeScore, "seeding must not overwrite a filled prediction")
}

func TestUnregisterRemovesPredictionsAndZeroesTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.registration.Register(ctx, alice.ID, tournament.ID)
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.matches.SetResult(ctx, match.ID, intPtr(1), intPtr(0))
	require.NoError(t, err)
	require.Equal(t, 5, total(t, f, alice.ID, tournament.ID))

	require.NoError(t, f.registration.Unregister(ctx, alice.ID, tournament.ID))

	predictions, err := f.predictions.ListByFriendAndStage(ctx, alice.ID, stage.ID)
	require.NoError(t, err)
	assert.Empty(t, predictions)
	assert.Equal(t, 0, total(t, f, alice.ID, tournament.ID))

	err = f.registration.Unregister(ctx, alice.ID, tournament.ID)
	assert.ErrorIs(t, err, ErrFriendNotRegistered)
}

func TestGroupTableFollowsPredictions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	setRule(t, f, stage.ID)
	alice := f.addFriend("Alice")

	m1 := f.addMatch(stage.ID, 1)
	require.NoError(t, f.matchRepo.UpdateTeams(ctx, m1.ID, intPtr(10), intPtr(20)))
	m2 := f.addMatch(stage.ID, 2)
	require.NoError(t, f.matchRepo.UpdateTeams(ctx, m2.ID, intPtr(10), intPtr(30)))

	_, err := f.predictions.Save(ctx, alice.ID, m1.ID, PredictionInput{HomeScore: intPtr(2), AwayScore: intPtr(0)})
	require.NoError(t, err)
	_, err = f.predictions.Save(ctx, alice.ID, m2.ID, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(1)})
	require.NoError(t, err)

	rows, err := f.groupTables.GetTable(ctx, alice.ID, stage.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 10, rows[0].TeamID)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, 4, rows[0].Points, "a win and a draw under the predicted scores")
	assert.Equal(t, 2, rows[0].Played)

	// Changing one prediction rebuilds the whole table.
	_, err = f.predictions.Save(ctx, alice.ID, m1.ID, PredictionInput{HomeScore: intPtr(0), AwayScore: intPtr(3)})
	require.NoError(t, err)
	rows, err = f.groupTables.GetTable(ctx, alice.ID, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, rows[0].TeamID, "predicted away win puts team 20 on top")
}

func TestPredictionValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := f.addTournament("Cup")
	stage := f.addStage(tournament.ID, "Group A")
	match := f.addMatch(stage.ID, 1)
	alice := f.addFriend("Alice")

	_, err := f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(1)})
	assert.ErrorIs(t, err, ErrPartialScore)

	_, err = f.predictions.Save(ctx, alice.ID, match.ID, PredictionInput{HomeScore: intPtr(-1), AwayScore: intPtr(0)})
	assert.ErrorIs(t, err, ErrNegativeScore)

	_, err = f.predictions.Save(ctx, alice.ID, 999, PredictionInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
