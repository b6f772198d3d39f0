package card

import (
	"testing"

	"flashlingo/internal/gamification"
	"flashlingo/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCardDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&user.User{},
		&CardSet{},
		&Card{},
		&SharedCardSet{},
		&gamification.XpEvent{},
		&gamification.UserGamification{},
		&gamification.Achievement{},
		&gamification.UserAchievement{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func resetCardTables(t *testing.T, gdb *gorm.DB) {
	tables := []string{
		"shared_card_sets", "cards", "card_sets",
		"user_achievements", "achievements", "xp_events", "user_gamification", "users",
	}
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedCardUser(t *testing.T, gdb *gorm.DB, email string, premium bool) *user.User {
	u := user.User{Email: email, PasswordHash: "hash", FullName: "Card User", IsPremium: premium}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &u
}

func TestCreateSet_AwardsXP(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	u := seedCardUser(t, gdb, "sets@test.dev", false)

	set, award, err := CreateSet(gdb, u, CreateSetInput{Title: "Travel words"}, 10)
	if err != nil {
		t.Fatalf("create set failed: %v", err)
	}
	if set.ID == 0 {
		t.Fatalf("set not persisted")
	}
	if set.DifficultyLevel != user.LevelA1 {
		t.Errorf("expected default difficulty A1, got %s", set.DifficultyLevel)
	}
	if award.XPEarned != 20 {
		t.Errorf("expected 20 XP for set creation, got %d", award.XPEarned)
	}

	var event gamification.XpEvent
	if err := gdb.Where("user_id = ? AND event_kind = ?", u.ID, gamification.EventSetCreated).First(&event).Error; err != nil {
		t.Fatalf("set_created XP event not written: %v", err)
	}
}

func TestCreateSet_FreeTierLimit(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	free := seedCardUser(t, gdb, "free@test.dev", false)

	for i := 0; i < 2; i++ {
		if _, _, err := CreateSet(gdb, free, CreateSetInput{Title: "Set"}, 2); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	if _, _, err := CreateSet(gdb, free, CreateSetInput{Title: "One too many"}, 2); err != ErrSetLimitReached {
		t.Fatalf("expected ErrSetLimitReached, got %v", err)
	}

	premium := seedCardUser(t, gdb, "premium@test.dev", true)
	for i := 0; i < 3; i++ {
		if _, _, err := CreateSet(gdb, premium, CreateSetInput{Title: "Premium set"}, 2); err != nil {
			t.Fatalf("premium create %d should bypass the cap: %v", i, err)
		}
	}
}

func TestCreateGeneratedSet(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	u := seedCardUser(t, gdb, "gen@test.dev", false)
	u.LanguageLevel = user.LevelB2

	cards := []CardInput{
		{FrontText: "der Hund", BackText: "dog"},
		{FrontText: "die Katze", BackText: "cat"},
	}
	set, award, err := CreateGeneratedSet(gdb, u, CreateSetInput{Title: "Animals"}, cards)
	if err != nil {
		t.Fatalf("generated set failed: %v", err)
	}
	if !set.IsAIGenerated {
		t.Errorf("generated set should be flagged")
	}
	if set.CardCount != 2 {
		t.Errorf("expected card count 2, got %d", set.CardCount)
	}
	if set.DifficultyLevel != user.LevelB2 {
		t.Errorf("expected difficulty from user level, got %s", set.DifficultyLevel)
	}
	if award.XPEarned != 30 {
		t.Errorf("expected 30 XP for AI generation, got %d", award.XPEarned)
	}

	stored, err := ListCards(gdb, u.ID, set.ID)
	if err != nil {
		t.Fatalf("list cards failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored cards, got %d", len(stored))
	}
}

func TestAddAndDeleteCard_MaintainsCount(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	u := seedCardUser(t, gdb, "count@test.dev", false)
	set, _, err := CreateSet(gdb, u, CreateSetInput{Title: "Counted"}, 10)
	if err != nil {
		t.Fatalf("create set failed: %v", err)
	}

	c, err := AddCard(gdb, u.ID, set.ID, CardInput{FrontText: "a", BackText: "b"})
	if err != nil {
		t.Fatalf("add card failed: %v", err)
	}
	var reloaded CardSet
	gdb.First(&reloaded, set.ID)
	if reloaded.CardCount != 1 {
		t.Errorf("expected card_count 1 after add, got %d", reloaded.CardCount)
	}

	if err := DeleteCard(gdb, u.ID, c.ID); err != nil {
		t.Fatalf("delete card failed: %v", err)
	}
	gdb.First(&reloaded, set.ID)
	if reloaded.CardCount != 0 {
		t.Errorf("expected card_count 0 after delete, got %d", reloaded.CardCount)
	}

	other := seedCardUser(t, gdb, "count-other@test.dev", false)
	if _, err := AddCard(gdb, other.ID, set.ID, CardInput{FrontText: "x", BackText: "y"}); err != ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied for foreign set, got %v", err)
	}
}

func TestGetSetForUser_Visibility(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	owner := seedCardUser(t, gdb, "owner@test.dev", false)
	other := seedCardUser(t, gdb, "other@test.dev", false)

	private, _, err := CreateSet(gdb, owner, CreateSetInput{Title: "Private"}, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	public, _, err := CreateSet(gdb, owner, CreateSetInput{Title: "Public", IsPublic: true}, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := GetSetForUser(gdb, private.ID, other.ID); err != ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied for private set, got %v", err)
	}
	if _, err := GetSetForUser(gdb, public.ID, other.ID); err != nil {
		t.Errorf("public set should be readable, got %v", err)
	}
	if _, err := GetSetForUser(gdb, 9999, other.ID); err != ErrSetNotFound {
		t.Errorf("expected ErrSetNotFound, got %v", err)
	}
}

func TestShareSet(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	owner := seedCardUser(t, gdb, "share-owner@test.dev", false)
	friend := seedCardUser(t, gdb, "share-friend@test.dev", false)

	set, _, err := CreateSet(gdb, owner, CreateSetInput{Title: "Shared"}, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	shared, err := ShareSet(gdb, owner.ID, set.ID, friend.ID)
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if shared.ShareToken == "" {
		t.Errorf("share should mint a token")
	}

	if _, err := ShareSet(gdb, owner.ID, set.ID, friend.ID); err != ErrAlreadyShared {
		t.Errorf("expected ErrAlreadyShared on repeat, got %v", err)
	}
	if _, err := ShareSet(gdb, friend.ID, set.ID, owner.ID); err != ErrAccessDenied {
		t.Errorf("only the owner can share, got %v", err)
	}

	sets, err := SharedWithUser(gdb, friend.ID)
	if err != nil {
		t.Fatalf("shared-with failed: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != set.ID {
		t.Errorf("expected the shared set in the recipient's list, got %v", sets)
	}
}

func TestDeleteSet_RemovesCards(t *testing.T) {
	gdb := setupCardDB(t)
	resetCardTables(t, gdb)
	u := seedCardUser(t, gdb, "delete@test.dev", false)

	set, _, err := CreateSet(gdb, u, CreateSetInput{Title: "Doomed"}, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := AddCard(gdb, u.ID, set.ID, CardInput{FrontText: "a", BackText: "b"}); err != nil {
		t.Fatalf("add card failed: %v", err)
	}

	if err := DeleteSet(gdb, u.ID, set.ID); err != nil {
		t.Fatalf("delete set failed: %v", err)
	}
	if _, err := GetSetForUser(gdb, set.ID, u.ID); err != ErrSetNotFound {
		t.Errorf("deleted set should be gone, got %v", err)
	}
	var cards int64
	gdb.Model(&Card{}).Where("card_set_id = ?", set.ID).Count(&cards)
	if cards != 0 {
		t.Errorf("cards should be deleted with the set, found %d", cards)
	}
}
