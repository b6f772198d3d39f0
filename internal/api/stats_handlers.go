package api

import (
	"net/http"
	"strconv"

	"flashlingo/internal/db"
	"flashlingo/internal/stats"

	"github.com/gin-gonic/gin"
)

// queryInt reads an integer query param, falling back to def when the value
// is missing or outside [min, max].
func queryInt(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < min || v > max {
		return def
	}
	return v
}

// GET /statistics/overview
func StatisticsOverviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			return
		}
		overview, err := stats.Overview(db.DB, u.ID, u.LanguageLevel)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

// GET /statistics/activity?days=N
func StatisticsActivityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		days := queryInt(c, "days", 90, 1, 365)
		report, err := stats.Activity(db.DB, userId.(uint), days)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GET /statistics/progress?weeks=N
func StatisticsProgressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		weeks := queryInt(c, "weeks", 12, 1, 52)
		report, err := stats.Progress(db.DB, userId.(uint), weeks)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GET /statistics/strengths
func StatisticsStrengthsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		report, err := stats.Strengths(db.DB, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GET /dashboard
func DashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			return
		}
		data, err := stats.Dashboard(db.DB, u)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, data)
	}
}
