package api

import (
	"errors"
	"net/http"

	"flashlingo/internal/db"
	"flashlingo/internal/social"

	"github.com/gin-gonic/gin"
)

func socialServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrRequestNotFound), errors.Is(err, social.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, social.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, social.ErrNotPending), errors.Is(err, social.ErrSelfRequest), errors.Is(err, social.ErrAlreadyRequested):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal error"}})
	}
}

type FriendRequestBody struct {
	UserID uint `json:"user_id"`
}

// POST /social/requests
func SendFriendRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req FriendRequestBody
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing user_id"}})
			return
		}
		f, err := social.SendRequest(db.DB, userId.(uint), req.UserID)
		if err != nil {
			socialServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, f)
	}
}

// GET /social/requests
func PendingRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		pending, err := social.PendingRequests(db.DB, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// POST /social/requests/:id/accept
func AcceptFriendRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		requestID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		f, err := social.AcceptRequest(db.DB, requestID, userId.(uint))
		if err != nil {
			socialServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// POST /social/requests/:id/reject
func RejectFriendRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		requestID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		if err := social.RejectRequest(db.DB, requestID, userId.(uint)); err != nil {
			socialServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
	}
}

// GET /social/friends
func FriendsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		friends, err := social.Friends(db.DB, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		var result []gin.H
		for _, f := range friends {
			result = append(result, gin.H{
				"id":             f.ID,
				"full_name":      f.FullName,
				"avatar_url":     f.AvatarURL,
				"language_level": f.LanguageLevel,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

// DELETE /social/friends/:id
func RemoveFriendHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		friendID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		if err := social.RemoveFriend(db.DB, userId.(uint), friendID); err != nil {
			socialServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
	}
}
