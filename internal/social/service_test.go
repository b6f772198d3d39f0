package social

import (
	"testing"

	"flashlingo/internal/gamification"
	"flashlingo/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSocialDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&user.User{},
		&Friendship{},
		&gamification.XpEvent{},
		&gamification.UserGamification{},
		&gamification.Achievement{},
		&gamification.UserAchievement{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func resetSocialTables(t *testing.T, gdb *gorm.DB) {
	tables := []string{
		"friendships", "user_achievements", "achievements",
		"xp_events", "user_gamification", "users",
	}
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedPair(t *testing.T, gdb *gorm.DB) (user.User, user.User) {
	a := user.User{Email: "alice@test.dev", PasswordHash: "hash", FullName: "Alice"}
	b := user.User{Email: "bob@test.dev", PasswordHash: "hash", FullName: "Bob"}
	for _, u := range []*user.User{&a, &b} {
		if err := gdb.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	return a, b
}

func TestSendRequest(t *testing.T) {
	gdb := setupSocialDB(t)
	resetSocialTables(t, gdb)
	a, b := seedPair(t, gdb)

	f, err := SendRequest(gdb, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if f.Status != StatusPending {
		t.Errorf("new request should be pending, got %s", f.Status)
	}

	if _, err := SendRequest(gdb, a.ID, a.ID); err != ErrSelfRequest {
		t.Errorf("expected ErrSelfRequest, got %v", err)
	}
	if _, err := SendRequest(gdb, a.ID, 9999); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := SendRequest(gdb, a.ID, b.ID); err != ErrAlreadyRequested {
		t.Errorf("expected ErrAlreadyRequested on repeat, got %v", err)
	}
	// Reverse direction is also a duplicate.
	if _, err := SendRequest(gdb, b.ID, a.ID); err != ErrAlreadyRequested {
		t.Errorf("expected ErrAlreadyRequested on reverse request, got %v", err)
	}
}

func TestAcceptRequest_PaysBothUsers(t *testing.T) {
	gdb := setupSocialDB(t)
	resetSocialTables(t, gdb)
	a, b := seedPair(t, gdb)

	f, err := SendRequest(gdb, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Only the recipient can accept.
	if _, err := AcceptRequest(gdb, f.ID, a.ID); err != ErrNotRecipient {
		t.Fatalf("expected ErrNotRecipient for sender, got %v", err)
	}

	accepted, err := AcceptRequest(gdb, f.ID, b.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Errorf("expected accepted status, got %s", accepted.Status)
	}

	for _, id := range []uint{a.ID, b.ID} {
		var gam gamification.UserGamification
		if err := gdb.Where("user_id = ?", id).First(&gam).Error; err != nil {
			t.Fatalf("aggregate missing for user %d: %v", id, err)
		}
		if gam.TotalXP != 10 {
			t.Errorf("user %d: expected 10 XP from friendship, got %d", id, gam.TotalXP)
		}
		var events int64
		gdb.Model(&gamification.XpEvent{}).
			Where("user_id = ? AND event_kind = ?", id, gamification.EventFriendAdded).
			Count(&events)
		if events != 1 {
			t.Errorf("user %d: expected one friend_added event, got %d", id, events)
		}
	}

	// Accepting again is rejected and pays nothing.
	if _, err := AcceptRequest(gdb, f.ID, b.ID); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending on double accept, got %v", err)
	}
	var total int64
	gdb.Model(&gamification.XpEvent{}).Count(&total)
	if total != 2 {
		t.Errorf("double accept must not add events, got %d", total)
	}
}

func TestRejectRequest(t *testing.T) {
	gdb := setupSocialDB(t)
	resetSocialTables(t, gdb)
	a, b := seedPair(t, gdb)

	f, err := SendRequest(gdb, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := RejectRequest(gdb, f.ID, b.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	var count int64
	gdb.Model(&Friendship{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected request should be deleted, got %d rows", count)
	}

	// Sender can cancel their own pending request.
	f2, err := SendRequest(gdb, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := RejectRequest(gdb, f2.ID, a.ID); err != nil {
		t.Fatalf("sender cancel failed: %v", err)
	}
}

func TestFriendsAndRemove(t *testing.T) {
	gdb := setupSocialDB(t)
	resetSocialTables(t, gdb)
	a, b := seedPair(t, gdb)

	f, err := SendRequest(gdb, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := AcceptRequest(gdb, f.ID, b.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	friendsOfA, err := Friends(gdb, a.ID)
	if err != nil {
		t.Fatalf("friends failed: %v", err)
	}
	if len(friendsOfA) != 1 || friendsOfA[0].ID != b.ID {
		t.Errorf("expected b in a's friends, got %v", friendsOfA)
	}
	friendsOfB, err := Friends(gdb, b.ID)
	if err != nil {
		t.Fatalf("friends failed: %v", err)
	}
	if len(friendsOfB) != 1 || friendsOfB[0].ID != a.ID {
		t.Errorf("expected a in b's friends, got %v", friendsOfB)
	}

	if err := RemoveFriend(gdb, b.ID, a.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	friendsOfA, err = Friends(gdb, a.ID)
	if err != nil {
		t.Fatalf("friends failed: %v", err)
	}
	if len(friendsOfA) != 0 {
		t.Errorf("friendship should be gone, got %v", friendsOfA)
	}
	if err := RemoveFriend(gdb, b.ID, a.ID); err != ErrRequestNotFound {
		t.Errorf("expected ErrRequestNotFound on second remove, got %v", err)
	}
}

func TestPendingRequests(t *testing.T) {
	gdb := setupSocialDB(t)
	resetSocialTables(t, gdb)
	a, b := seedPair(t, gdb)

	if _, err := SendRequest(gdb, a.ID, b.ID); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	pending, err := PendingRequests(gdb, b.ID)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].UserID != a.ID {
		t.Errorf("expected one request from a, got %v", pending)
	}

	// The sender has no incoming requests.
	pending, err = PendingRequests(gdb, a.ID)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("sender should see no incoming requests, got %v", pending)
	}
}
