package gamification

// CalculateLevel maps total XP to a level number. Levels 1-10 come from the
// fixed threshold table; past level 10 one level is gained per fixed XP
// increment. Pure and monotonic in totalXP.
func CalculateLevel(totalXP int) int {
	top := len(levelThresholds) - 1
	for i := top; i >= 0; i-- {
		if totalXP >= levelThresholds[i] {
			if i < top {
				return i + 1
			}
			return 10 + (totalXP-levelThresholds[top])/levelIncrementAfter10
		}
	}
	return 1
}

// CalculateLeague maps total XP to a league tier. Bronze is the floor.
func CalculateLeague(totalXP int) League {
	for _, lt := range leagueThresholds {
		if totalXP >= lt.minXP {
			return lt.league
		}
	}
	return LeagueBronze
}
