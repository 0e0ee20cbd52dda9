package testutil

import (
	"betslip/models"
)

// BetFields creates default fields for a new bet record
func BetFields(title string) models.BetRecordFields {
	return models.BetRecordFields{
		Title:      title,
		Sport:      "NBA",
		Game:       "Lakers vs Celtics",
		Sportsbook: "DraftKings",
		Notes:      "test bet",
		Odds:       "+110",
		Stake:      50,
	}
}

// BetFieldsWithOdds creates fields with specific odds and stake
func BetFieldsWithOdds(title, odds string, stake float64) models.BetRecordFields {
	fields := BetFields(title)
	fields.Odds = odds
	fields.Stake = stake
	return fields
}
