package api

import (
	"errors"
	"net/http"
	"strconv"

	"flashlingo/internal/conversation"
	"flashlingo/internal/db"

	"github.com/gin-gonic/gin"
)

func conversationServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, conversation.ErrAlreadyEnded):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal error"}})
	}
}

type StartConversationRequest struct {
	Scenario string `json:"scenario"`
}

// POST /conversations
func StartConversationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req StartConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Scenario == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing scenario"}})
			return
		}
		conv, err := conversation.Start(db.DB, userId.(uint), req.Scenario)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Create error"}})
			return
		}
		c.JSON(http.StatusCreated, conv)
	}
}

type ConversationMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// POST /conversations/:id/messages
func AppendConversationTurnHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		convID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req ConversationMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" ||
			(req.Role != "user" && req.Role != "assistant") {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Role must be user or assistant and content must be set"}})
			return
		}
		conv, err := conversation.AppendTurn(db.DB, convID, userId.(uint), conversation.Message{
			Role:    req.Role,
			Content: req.Content,
		})
		if err != nil {
			conversationServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, conv)
	}
}

// POST /conversations/:id/end
func EndConversationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		convID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		conv, award, err := conversation.End(db.DB, convID, userId.(uint))
		if err != nil {
			conversationServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation": conv, "gamification": award})
	}
}

// GET /conversations
func ListConversationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}
		convs, err := conversation.List(db.DB, userId.(uint), offset, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		c.JSON(http.StatusOK, convs)
	}
}
