package scoring

import (
	"sort"

	"github.com/matchday/prediction-pool/models"
)

const (
	winPoints  = 3
	drawPoints = 1
)

// BuildTable folds a friend's predictions for one stage into a group table,
// as if the predicted scores were the real results. Each prediction must
// carry its Match so the pairing is known.
//
// A prediction only counts as played when the friend actually recorded both
// scores; placeholders are skipped, as are matches without assigned teams.
// Rows come back ordered (and positioned 1-based) by points, goal
// difference, goals for, then team id for a stable tie-break.
func BuildTable(friendID, stageID int, predictions []models.Prediction) []models.GroupRow {
	rows := make(map[int]*models.GroupRow)

	row := func(teamID int) *models.GroupRow {
		r, ok := rows[teamID]
		if !ok {
			r = &models.GroupRow{FriendID: friendID, StageID: stageID, TeamID: teamID}
			rows[teamID] = r
		}
		return r
	}

	for _, p := range predictions {
		if p.Match == nil || p.Match.HomeTeamID == nil || p.Match.AwayTeamID == nil {
			continue
		}
		home := row(*p.Match.HomeTeamID)
		away := row(*p.Match.AwayTeamID)

		if !p.Scored() {
			continue
		}
		tally(home, *p.HomeScore, *p.AwayScore)
		tally(away, *p.AwayScore, *p.HomeScore)
	}

	table := make([]models.GroupRow, 0, len(rows))
	for _, r := range rows {
		table = append(table, *r)
	}
	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

func tally(r *models.GroupRow, scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Wins++
		r.Points += winPoints
	case scored < conceded:
		r.Losses++
	default:
		r.Draws++
		r.Points += drawPoints
	}
}
