package social

import (
	"errors"

	"flashlingo/internal/gamification"
	"flashlingo/internal/user"

	"gorm.io/gorm"
)

var (
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrNotRecipient     = errors.New("only the recipient can act on this request")
	ErrNotPending       = errors.New("friend request is not pending")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrAlreadyRequested = errors.New("friend request already exists")
	ErrUserNotFound     = errors.New("user not found")
)

// SendRequest creates a pending friendship from sender to recipient.
func SendRequest(gdb *gorm.DB, senderID, recipientID uint) (*Friendship, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}
	var u user.User
	if err := gdb.First(&u, recipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing int64
	err := gdb.Model(&Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			senderID, recipientID, recipientID, senderID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyRequested
	}

	f := Friendship{UserID: senderID, FriendID: recipientID, Status: StatusPending}
	if err := gdb.Create(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// AcceptRequest marks the friendship accepted and pays the friend XP to
// both users. Everything commits in one transaction; the two aggregate rows
// are locked in user-ID order so concurrent accepts cannot deadlock.
func AcceptRequest(gdb *gorm.DB, friendshipID, currentUserID uint) (*Friendship, error) {
	var f Friendship
	if err := gdb.First(&f, friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if f.FriendID != currentUserID {
		return nil, ErrNotRecipient
	}
	if f.Status != StatusPending {
		return nil, ErrNotPending
	}

	first, second := f.UserID, f.FriendID
	if second < first {
		first, second = second, first
	}

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&f).Update("status", StatusAccepted).Error; err != nil {
			return err
		}
		if _, err := gamification.AwardXPTx(tx, first, gamification.XPFriendAdded, gamification.EventFriendAdded); err != nil {
			return err
		}
		if _, err := gamification.AwardXPTx(tx, second, gamification.XPFriendAdded, gamification.EventFriendAdded); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.Status = StatusAccepted
	return &f, nil
}

// RejectRequest deletes a pending request; the recipient or the sender can
// do it (reject or cancel).
func RejectRequest(gdb *gorm.DB, friendshipID, currentUserID uint) error {
	var f Friendship
	if err := gdb.First(&f, friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if f.FriendID != currentUserID && f.UserID != currentUserID {
		return ErrNotRecipient
	}
	if f.Status != StatusPending {
		return ErrNotPending
	}
	return gdb.Delete(&f).Error
}

// RemoveFriend deletes an accepted friendship from either side.
func RemoveFriend(gdb *gorm.DB, currentUserID, friendUserID uint) error {
	res := gdb.Where(
		"((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)) AND status = ?",
		currentUserID, friendUserID, friendUserID, currentUserID, StatusAccepted,
	).Delete(&Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Friends lists the accepted friends of a user, either direction.
func Friends(gdb *gorm.DB, userID uint) ([]user.User, error) {
	var friendships []Friendship
	err := gdb.Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, StatusAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	if len(friendships) == 0 {
		return []user.User{}, nil
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.UserID == userID {
			ids = append(ids, f.FriendID)
		} else {
			ids = append(ids, f.UserID)
		}
	}
	var friends []user.User
	err = gdb.Where("id IN ?", ids).Find(&friends).Error
	return friends, err
}

// PendingRequests lists requests waiting on the user's answer.
func PendingRequests(gdb *gorm.DB, userID uint) ([]Friendship, error) {
	var pending []Friendship
	err := gdb.Where("friend_id = ? AND status = ?", userID, StatusPending).
		Order("created_at DESC").
		Find(&pending).Error
	return pending, err
}
