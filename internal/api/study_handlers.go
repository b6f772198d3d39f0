package api

import (
	"errors"
	"net/http"
	"strconv"

	"flashlingo/internal/db"
	"flashlingo/internal/srs"

	"github.com/gin-gonic/gin"
)

type ReviewRequest struct {
	CardID uint   `json:"card_id"`
	Rating string `json:"rating"`
}

// POST /study/review
func SubmitReviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CardID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing card_id or rating"}})
			return
		}
		result, err := srs.SubmitReview(db.DB, userId.(uint), req.CardID, srs.Rating(req.Rating))
		if err != nil {
			switch {
			case errors.Is(err, srs.ErrInvalidRating):
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Rating must be one of again, hard, good, easy"}})
			case errors.Is(err, srs.ErrCardNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Card not found"}})
			default:
				cardServiceError(c, err)
			}
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /study/sets/:id/due-cards
func DueCardsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}
		newFirst := c.DefaultQuery("new_first", "true") == "true"
		practice := c.DefaultQuery("practice", "false") == "true"

		cards, err := srs.DueCards(db.DB, userId.(uint), setID, limit, newFirst, practice)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

// GET /study/sets/:id/progress
func StudyProgressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		setID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		progress, err := srs.StudyProgressForSet(db.DB, userId.(uint), setID)
		if err != nil {
			cardServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, progress)
	}
}
