package models

// BetStats represents aggregated bet-slip statistics for one user
type BetStats struct {
	TotalBets    int
	PendingBets  int
	WonBets      int
	LostBets     int
	TotalStaked  float64
	TotalProfit  float64
	TotalLost    float64
	BiggestWin   float64
	BiggestStake float64
}

// WinPercentage returns the share of settled bets that were won, 0-100.
// Pending bets are excluded from the denominator.
func (s *BetStats) WinPercentage() float64 {
	settled := s.WonBets + s.LostBets
	if settled == 0 {
		return 0
	}
	return float64(s.WonBets) / float64(settled) * 100
}

// NetProfit returns profit from won bets minus stakes lost on lost bets
func (s *BetStats) NetProfit() float64 {
	return s.TotalProfit - s.TotalLost
}
