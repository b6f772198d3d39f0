package gamification

import (
	"time"
)

// UpdateStreak advances the consecutive-day counters for an activity on the
// given day. A second activity on the same day is a no-op; yesterday extends
// the streak; any gap (or first activity ever) restarts it at 1. Must run
// exactly once per award, with the date of the triggering event.
func UpdateStreak(gam *UserGamification, today time.Time) {
	today = truncateToDay(today)

	if gam.LastActivityDate != nil && sameDay(*gam.LastActivityDate, today) {
		return
	}

	yesterday := today.AddDate(0, 0, -1)
	if gam.LastActivityDate != nil && sameDay(*gam.LastActivityDate, yesterday) {
		gam.CurrentStreak++
	} else {
		gam.CurrentStreak = 1
	}

	if gam.CurrentStreak > gam.LongestStreak {
		gam.LongestStreak = gam.CurrentStreak
	}
	gam.LastActivityDate = &today
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
