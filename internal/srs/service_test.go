package srs

import (
	"testing"
	"time"

	"flashlingo/internal/card"
	"flashlingo/internal/gamification"
	"flashlingo/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStudyDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&user.User{},
		&card.CardSet{},
		&card.Card{},
		&CardProgress{},
		&gamification.XpEvent{},
		&gamification.UserGamification{},
		&gamification.Achievement{},
		&gamification.UserAchievement{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func resetStudyTables(t *testing.T, gdb *gorm.DB) {
	tables := []string{
		"card_progress", "cards", "card_sets",
		"user_achievements", "achievements", "xp_events", "user_gamification", "users",
	}
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedStudySet(t *testing.T, gdb *gorm.DB, cardCount int) (user.User, card.CardSet, []card.Card) {
	u := user.User{Email: "study@test.dev", PasswordHash: "hash", FullName: "Study User"}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	set := card.CardSet{UserID: u.ID, Title: "Basics", DifficultyLevel: user.LevelA1}
	if err := gdb.Create(&set).Error; err != nil {
		t.Fatalf("failed to seed set: %v", err)
	}
	cards := make([]card.Card, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		c := card.Card{CardSetID: set.ID, FrontText: "front", BackText: "back", OrderIndex: i}
		if err := gdb.Create(&c).Error; err != nil {
			t.Fatalf("failed to seed card: %v", err)
		}
		cards = append(cards, c)
	}
	return u, set, cards
}

func TestSubmitReview_FirstReviewSeedsProgress(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, _, cards := seedStudySet(t, gdb, 1)

	result, err := SubmitReview(gdb, u.ID, cards[0].ID, RatingGood)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if !result.IsCorrect {
		t.Errorf("good rating should count as correct")
	}
	if result.Interval != 1 {
		t.Errorf("first review interval should be 1 day, got %d", result.Interval)
	}
	if result.XPEarned != 20 {
		t.Errorf("good review pays 10 base + 10 bonus, got %d", result.XPEarned)
	}

	var progress CardProgress
	if err := gdb.Where("user_id = ? AND card_id = ?", u.ID, cards[0].ID).First(&progress).Error; err != nil {
		t.Fatalf("progress row not created: %v", err)
	}
	if progress.Repetitions != 1 || progress.TotalReviews != 1 || progress.CorrectReviews != 1 {
		t.Errorf("expected reps/total/correct = 1/1/1, got %d/%d/%d",
			progress.Repetitions, progress.TotalReviews, progress.CorrectReviews)
	}
	if progress.EaseFactor <= SeedEaseFactor {
		t.Errorf("good answer should raise ease above seed, got %f", progress.EaseFactor)
	}
	wantNext := time.Now().UTC().AddDate(0, 0, 1)
	if progress.NextReviewAt.Before(wantNext.Add(-time.Minute)) || progress.NextReviewAt.After(wantNext.Add(time.Minute)) {
		t.Errorf("next review should be ~1 day out, got %v", progress.NextReviewAt)
	}

	var event gamification.XpEvent
	if err := gdb.Where("user_id = ? AND event_kind = ?", u.ID, gamification.EventReview).First(&event).Error; err != nil {
		t.Fatalf("review XP event not written: %v", err)
	}
	if event.XpAmount != 20 {
		t.Errorf("expected 20 XP in ledger, got %d", event.XpAmount)
	}
}

func TestSubmitReview_ProgressionThenReset(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, _, cards := seedStudySet(t, gdb, 1)

	if _, err := SubmitReview(gdb, u.ID, cards[0].ID, RatingGood); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	second, err := SubmitReview(gdb, u.ID, cards[0].ID, RatingGood)
	if err != nil {
		t.Fatalf("second review failed: %v", err)
	}
	if second.Interval != 6 {
		t.Errorf("second correct review should schedule 6 days out, got %d", second.Interval)
	}

	third, err := SubmitReview(gdb, u.ID, cards[0].ID, RatingAgain)
	if err != nil {
		t.Fatalf("third review failed: %v", err)
	}
	if third.Interval != 1 {
		t.Errorf("failed review should reset interval to 1, got %d", third.Interval)
	}
	if third.IsCorrect {
		t.Errorf("again rating must not count as correct")
	}
	if third.XPEarned != 10 {
		t.Errorf("again review pays base XP only, got %d", third.XPEarned)
	}

	var progress CardProgress
	if err := gdb.Where("user_id = ? AND card_id = ?", u.ID, cards[0].ID).First(&progress).Error; err != nil {
		t.Fatalf("progress missing: %v", err)
	}
	if progress.Repetitions != 0 {
		t.Errorf("failed review should reset repetitions, got %d", progress.Repetitions)
	}
	if progress.TotalReviews != 3 || progress.CorrectReviews != 2 {
		t.Errorf("expected total/correct = 3/2, got %d/%d", progress.TotalReviews, progress.CorrectReviews)
	}

	var rows int64
	gdb.Model(&CardProgress{}).Where("user_id = ?", u.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("repeat reviews must mutate the single progress row, got %d rows", rows)
	}
}

func TestSubmitReview_Errors(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, _, cards := seedStudySet(t, gdb, 1)

	if _, err := SubmitReview(gdb, u.ID, 9999, RatingGood); err != ErrCardNotFound {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
	if _, err := SubmitReview(gdb, u.ID, cards[0].ID, Rating("brilliant")); err != ErrInvalidRating {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}

	stranger := user.User{Email: "stranger@test.dev", PasswordHash: "hash", FullName: "Stranger"}
	if err := gdb.Create(&stranger).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if _, err := SubmitReview(gdb, stranger.ID, cards[0].ID, RatingGood); err != card.ErrAccessDenied {
		t.Errorf("private set of another user should be denied, got %v", err)
	}
}

func TestSubmitReview_PublicSetAllowed(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	_, set, cards := seedStudySet(t, gdb, 1)
	if err := gdb.Model(&set).Update("is_public", true).Error; err != nil {
		t.Fatalf("failed to publish set: %v", err)
	}

	learner := user.User{Email: "learner@test.dev", PasswordHash: "hash", FullName: "Learner"}
	if err := gdb.Create(&learner).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if _, err := SubmitReview(gdb, learner.ID, cards[0].ID, RatingEasy); err != nil {
		t.Errorf("public set should be reviewable by anyone, got %v", err)
	}
}

func TestDueCards_NewFirstThenDue(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, set, cards := seedStudySet(t, gdb, 3)

	// cards[0] is due, cards[1] is scheduled in the future, cards[2] is new.
	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 5)
	for _, p := range []CardProgress{
		{UserID: u.ID, CardID: cards[0].ID, EaseFactor: 2.5, Repetitions: 1, NextReviewAt: past},
		{UserID: u.ID, CardID: cards[1].ID, EaseFactor: 2.5, Repetitions: 2, NextReviewAt: future},
	} {
		if err := gdb.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed progress: %v", err)
		}
	}

	result, err := DueCards(gdb, u.ID, set.ID, 10, true, false)
	if err != nil {
		t.Fatalf("due cards failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected new card + due card, got %d", len(result))
	}
	if result[0].ID != cards[2].ID || result[0].Progress != nil {
		t.Errorf("expected unreviewed card first without progress, got %+v", result[0])
	}
	if result[1].ID != cards[0].ID || result[1].Progress == nil {
		t.Errorf("expected due card second with progress, got %+v", result[1])
	}
}

func TestDueCards_PracticeIgnoresSchedule(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, set, cards := seedStudySet(t, gdb, 3)

	future := time.Now().UTC().AddDate(0, 0, 5)
	p := CardProgress{UserID: u.ID, CardID: cards[0].ID, EaseFactor: 2.5, Repetitions: 1, NextReviewAt: future}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed progress: %v", err)
	}

	result, err := DueCards(gdb, u.ID, set.ID, 10, false, true)
	if err != nil {
		t.Fatalf("practice mode failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("practice mode should return every card, got %d", len(result))
	}
	if result[0].ID != cards[0].ID || result[0].Progress == nil {
		t.Errorf("practice mode should attach existing progress, got %+v", result[0])
	}
	if result[1].Progress != nil {
		t.Errorf("unreviewed card should carry no progress")
	}
}

func TestStudyProgressForSet(t *testing.T) {
	gdb := setupStudyDB(t)
	resetStudyTables(t, gdb)
	u, set, cards := seedStudySet(t, gdb, 4)

	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 30)
	for _, p := range []CardProgress{
		{UserID: u.ID, CardID: cards[0].ID, EaseFactor: 2.5, Repetitions: 1, Interval: 1, NextReviewAt: past},
		{UserID: u.ID, CardID: cards[1].ID, EaseFactor: 2.8, Repetitions: 6, Interval: 30, NextReviewAt: future},
	} {
		if err := gdb.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed progress: %v", err)
		}
	}

	out, err := StudyProgressForSet(gdb, u.ID, set.ID)
	if err != nil {
		t.Fatalf("study progress failed: %v", err)
	}
	if out.TotalCards != 4 {
		t.Errorf("expected 4 total cards, got %d", out.TotalCards)
	}
	if out.LearnedCards != 2 {
		t.Errorf("expected 2 learned cards, got %d", out.LearnedCards)
	}
	// 1 scheduled-due + 2 never reviewed.
	if out.DueCards != 3 {
		t.Errorf("expected 3 due cards, got %d", out.DueCards)
	}
	if out.MasteredCards != 1 {
		t.Errorf("expected 1 mastered card, got %d", out.MasteredCards)
	}
}
