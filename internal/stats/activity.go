package stats

import (
	"time"

	"flashlingo/internal/conversation"
	"flashlingo/internal/gamification"
	"flashlingo/internal/srs"

	"gorm.io/gorm"
)

// DailyActivity is one cell of the activity heatmap.
type DailyActivity struct {
	Date          string `json:"date"`
	XP            int    `json:"xp"`
	Reviews       int    `json:"reviews"`
	CardsLearned  int    `json:"cards_learned"`
	Conversations int    `json:"conversations"`
}

// ActivityReport covers every day of the window, zero-filled days included.
type ActivityReport struct {
	Days []DailyActivity `json:"days"`
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Activity builds the daily heatmap over the last `days` days. The store
// only filters the window; the per-day buckets are built here so the
// grouping works the same on every dialect.
func Activity(gdb *gorm.DB, userID uint, days int) (*ActivityReport, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days)

	var events []gamification.XpEvent
	if err := gdb.Where("user_id = ? AND created_at >= ?", userID, since).
		Find(&events).Error; err != nil {
		return nil, err
	}
	xpByDay := make(map[string]int)
	reviewsByDay := make(map[string]int)
	for _, e := range events {
		key := dayKey(e.CreatedAt)
		xpByDay[key] += e.XpAmount
		if e.EventKind == gamification.EventReview {
			reviewsByDay[key]++
		}
	}

	// A progress row with exactly one review was first learned on the day
	// of that review.
	var firstReviews []srs.CardProgress
	if err := gdb.Where("user_id = ? AND total_reviews = 1 AND last_reviewed_at >= ?", userID, since).
		Find(&firstReviews).Error; err != nil {
		return nil, err
	}
	cardsByDay := make(map[string]int)
	for _, p := range firstReviews {
		if p.LastReviewedAt != nil {
			cardsByDay[dayKey(*p.LastReviewedAt)]++
		}
	}

	var convs []conversation.Conversation
	if err := gdb.Where("user_id = ? AND started_at >= ?", userID, since).
		Find(&convs).Error; err != nil {
		return nil, err
	}
	convsByDay := make(map[string]int)
	for _, c := range convs {
		convsByDay[dayKey(c.StartedAt)]++
	}

	report := &ActivityReport{Days: make([]DailyActivity, 0, days+1)}
	for d := since; !d.After(now); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		report.Days = append(report.Days, DailyActivity{
			Date:          key,
			XP:            xpByDay[key],
			Reviews:       reviewsByDay[key],
			CardsLearned:  cardsByDay[key],
			Conversations: convsByDay[key],
		})
	}
	return report, nil
}

// WeeklyProgress is one Monday-aligned week of the progress chart.
type WeeklyProgress struct {
	WeekStart string  `json:"week_start"`
	XP        int     `json:"xp"`
	Reviews   int     `json:"reviews"`
	Accuracy  float64 `json:"accuracy"`
}

// ProgressReport covers every week of the window, oldest first.
type ProgressReport struct {
	Weeks []WeeklyProgress `json:"weeks"`
}

// weekStart truncates to the Monday of t's week, at UTC midnight.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Progress buckets the ledger into Monday-aligned weeks. A review event
// counts as correct when its XP is at least the hard-rating amount, since
// an incorrect review only earns the base XP.
func Progress(gdb *gorm.DB, userID uint, weeks int) (*ProgressReport, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -weeks*7)
	correctFloor := srs.ReviewXP(srs.RatingHard)

	var events []gamification.XpEvent
	if err := gdb.Where("user_id = ? AND created_at >= ?", userID, since).
		Find(&events).Error; err != nil {
		return nil, err
	}

	xpByWeek := make(map[string]int)
	reviewsByWeek := make(map[string]int)
	correctByWeek := make(map[string]int)
	for _, e := range events {
		key := weekStart(e.CreatedAt).Format(dateLayout)
		xpByWeek[key] += e.XpAmount
		if e.EventKind == gamification.EventReview {
			reviewsByWeek[key]++
			if e.XpAmount >= correctFloor {
				correctByWeek[key]++
			}
		}
	}

	report := &ProgressReport{}
	for w := weekStart(since); !w.After(now); w = w.AddDate(0, 0, 7) {
		key := w.Format(dateLayout)
		entry := WeeklyProgress{
			WeekStart: key,
			XP:        xpByWeek[key],
			Reviews:   reviewsByWeek[key],
		}
		if entry.Reviews > 0 {
			entry.Accuracy = round1(float64(correctByWeek[key]) / float64(entry.Reviews) * 100)
		}
		report.Weeks = append(report.Weeks, entry)
	}
	return report, nil
}
