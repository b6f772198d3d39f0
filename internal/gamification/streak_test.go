package gamification

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	gam := &UserGamification{}
	UpdateStreak(gam, day(2026, 3, 10))

	if gam.CurrentStreak != 1 || gam.LongestStreak != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", gam.CurrentStreak, gam.LongestStreak)
	}
	if gam.LastActivityDate == nil || !gam.LastActivityDate.Equal(day(2026, 3, 10)) {
		t.Errorf("expected last activity 2026-03-10, got %v", gam.LastActivityDate)
	}
}

func TestUpdateStreakSameDayIsNoOp(t *testing.T) {
	last := day(2026, 3, 10)
	gam := &UserGamification{CurrentStreak: 4, LongestStreak: 9, LastActivityDate: &last}

	// Later the same day, different hour.
	UpdateStreak(gam, time.Date(2026, 3, 10, 22, 15, 0, 0, time.UTC))

	if gam.CurrentStreak != 4 || gam.LongestStreak != 9 {
		t.Errorf("same-day activity changed streak: %d/%d", gam.CurrentStreak, gam.LongestStreak)
	}
}

func TestUpdateStreakYesterdayExtends(t *testing.T) {
	last := day(2026, 3, 9)
	gam := &UserGamification{CurrentStreak: 4, LongestStreak: 4, LastActivityDate: &last}

	UpdateStreak(gam, day(2026, 3, 10))

	if gam.CurrentStreak != 5 {
		t.Errorf("expected streak 5, got %d", gam.CurrentStreak)
	}
	if gam.LongestStreak != 5 {
		t.Errorf("expected longest streak 5, got %d", gam.LongestStreak)
	}
}

func TestUpdateStreakGapResets(t *testing.T) {
	last := day(2026, 3, 5)
	gam := &UserGamification{CurrentStreak: 12, LongestStreak: 12, LastActivityDate: &last}

	UpdateStreak(gam, day(2026, 3, 10))

	if gam.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", gam.CurrentStreak)
	}
	if gam.LongestStreak != 12 {
		t.Errorf("reset must not touch longest streak, got %d", gam.LongestStreak)
	}
}

func TestUpdateStreakTruncatesTime(t *testing.T) {
	gam := &UserGamification{}
	UpdateStreak(gam, time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC))

	if !gam.LastActivityDate.Equal(day(2026, 3, 10)) {
		t.Errorf("expected last activity truncated to midnight, got %v", gam.LastActivityDate)
	}

	UpdateStreak(gam, time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC))
	if gam.CurrentStreak != 2 {
		t.Errorf("expected midnight boundary to extend streak, got %d", gam.CurrentStreak)
	}
}
