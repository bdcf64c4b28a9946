package scoring

import "github.com/matchday/prediction-pool/models"

// Classify decides the outcome of a prediction against the current state of
// its match and prices it with the stage's rule.
//
// Checks run in a fixed order: participation first (match finished,
// prediction scored, and for knockout rules the team picks matching the
// actual pairing), then result sign for a hit, then the exact-score upgrade
// to a bullseye. An exact score always implies a matching sign, so the
// upgrade only needs to be considered once the sign matched.
func Classify(rule models.ScoringRule, p models.Prediction, m models.Match) (int, models.Outcome) {
	if !m.Finished() || !p.Scored() {
		return 0, models.OutcomeNotParticipated
	}

	if rule.TeamPickRequired && !teamsMatch(p, m) {
		return rule.Wrong, models.OutcomeNotParticipated
	}

	if resultSign(*p.HomeScore, *p.AwayScore) != resultSign(*m.HomeScore, *m.AwayScore) {
		return rule.Wrong, models.OutcomeWrong
	}

	if *p.HomeScore == *m.HomeScore && *p.AwayScore == *m.AwayScore {
		return rule.Bullseye, models.OutcomeBullseye
	}
	return rule.Hit, models.OutcomeHit
}

// resultSign collapses a score line into home-win / draw / away-win.
func resultSign(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	}
	return 0
}

// teamsMatch reports whether the friend's own team picks name the pairing
// that actually took place. A prediction without picks, or a match without
// assigned teams, cannot match.
func teamsMatch(p models.Prediction, m models.Match) bool {
	if p.HomeTeamID == nil || p.AwayTeamID == nil || m.HomeTeamID == nil || m.AwayTeamID == nil {
		return false
	}
	return *p.HomeTeamID == *m.HomeTeamID && *p.AwayTeamID == *m.AwayTeamID
}
