package api

import (
	"errors"
	"net/http"
	"strconv"

	"flashlingo/internal/card"
	"flashlingo/internal/config"
	"flashlingo/internal/db"
	"flashlingo/internal/user"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (*user.User, bool) {
	userId, _ := c.Get("userId")
	var u user.User
	if err := db.DB.First(&u, userId.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
		return nil, false
	}
	return &u, true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid id"}})
		return 0, false
	}
	return uint(v), true
}

func cardServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, card.ErrSetNotFound), errors.Is(err, card.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, card.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, card.ErrSetLimitReached), errors.Is(err, card.ErrAlreadyShared):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal error"}})
	}
}

type CreateSetRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DifficultyLevel string `json:"difficulty_level"`
	IsPublic        bool   `json:"is_public"`
}

// POST /sets
func CreateSetHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateSetRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing title"}})
			return
		}
		set, award, err := card.CreateSet(db.DB, u, card.CreateSetInput{
			Title:           req.Title,
			Description:     req.Description,
			Category:        req.Category,
			DifficultyLevel: user.LanguageLevel(req.DifficultyLevel),
			IsPublic:        req.IsPublic,
		}, cfg.Limits.FreeMaxCardSets)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"set": set, "gamification": award})
	}
}

// GET /sets
func ListSetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}
		sets, total, err := card.ListSets(db.DB, userId.(uint), offset, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sets": sets, "total": total})
	}
}

// GET /sets/:id
func GetSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		set, err := card.GetSetForUser(db.DB, setID, userId.(uint))
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, set)
	}
}

// DELETE /sets/:id
func DeleteSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		if err := card.DeleteSet(db.DB, userId.(uint), setID); err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Set deleted"})
	}
}

type CardRequest struct {
	FrontText       string `json:"front_text"`
	BackText        string `json:"back_text"`
	ExampleSentence string `json:"example_sentence"`
	ImageURL        string `json:"image_url"`
	AudioURL        string `json:"audio_url"`
	CardType        string `json:"card_type"`
	OrderIndex      int    `json:"order_index"`
}

// POST /sets/:id/cards
func AddCardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req CardRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.FrontText == "" || req.BackText == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing front or back text"}})
			return
		}
		newCard, err := card.AddCard(db.DB, userId.(uint), setID, card.CardInput{
			FrontText:       req.FrontText,
			BackText:        req.BackText,
			ExampleSentence: req.ExampleSentence,
			ImageURL:        req.ImageURL,
			AudioURL:        req.AudioURL,
			CardType:        card.CardType(req.CardType),
			OrderIndex:      req.OrderIndex,
		})
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newCard)
	}
}

// GET /sets/:id/cards
func ListCardsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		cards, err := card.ListCards(db.DB, userId.(uint), setID)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

// DELETE /cards/:id
func DeleteCardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		cardID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		if err := card.DeleteCard(db.DB, userId.(uint), cardID); err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
	}
}

type ShareSetRequest struct {
	UserID uint `json:"user_id"`
}

// POST /sets/:id/share
func ShareSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req ShareSetRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing user_id"}})
			return
		}
		shared, err := card.ShareSet(db.DB, userId.(uint), setID, req.UserID)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, shared)
	}
}

// GET /sets/shared
func SharedSetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		sets, err := card.SharedWithUser(db.DB, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		c.JSON(http.StatusOK, sets)
	}
}

type GeneratedSetRequest struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	DifficultyLevel string        `json:"difficulty_level"`
	Cards           []CardRequest `json:"cards"`
}

// POST /sets/generated
// Registers a set produced by the external generation service and pays the
// AI-generation XP.
func CreateGeneratedSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			return
		}
		var req GeneratedSetRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || len(req.Cards) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing title or cards"}})
			return
		}
		cards := make([]card.CardInput, 0, len(req.Cards))
		for _, in := range req.Cards {
			if in.FrontText == "" || in.BackText == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Every card needs front and back text"}})
				return
			}
			cards = append(cards, card.CardInput{
				FrontText:       in.FrontText,
				BackText:        in.BackText,
				ExampleSentence: in.ExampleSentence,
				ImageURL:        in.ImageURL,
				AudioURL:        in.AudioURL,
				CardType:        card.CardType(in.CardType),
				OrderIndex:      in.OrderIndex,
			})
		}
		set, award, err := card.CreateGeneratedSet(db.DB, u, card.CreateSetInput{
			Title:           req.Title,
			Description:     req.Description,
			Category:        req.Category,
			DifficultyLevel: user.LanguageLevel(req.DifficultyLevel),
		}, cards)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"set": set, "gamification": award})
	}
}
