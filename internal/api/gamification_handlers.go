package api

import (
	"errors"
	"net/http"
	"strconv"

	"flashlingo/internal/db"
	"flashlingo/internal/gamification"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// GET /gamification/profile
func GamificationProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			return
		}

		var gam gamification.UserGamification
		err := db.DB.Where("user_id = ?", u.ID).First(&gam).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			gam = gamification.UserGamification{Level: 1, League: gamification.LeagueBronze}
		}

		todayXP, err := gamification.TodayXP(db.DB, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		unlocked, err := gamification.UnlockedCount(db.DB, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_xp":              gam.TotalXP,
			"level":                 gam.Level,
			"league":                gam.League,
			"current_streak":        gam.CurrentStreak,
			"longest_streak":        gam.LongestStreak,
			"today_xp":              todayXP,
			"daily_xp_goal":         u.DailyXPGoal,
			"achievements_unlocked": unlocked,
		})
	}
}

// GET /gamification/achievements
func AchievementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		catalog, err := gamification.AchievementCatalog(db.DB, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, catalog)
	}
}

// GET /gamification/leaderboard?period=weekly|monthly|all_time&limit=N
func LeaderboardHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		period := c.DefaultQuery("period", "weekly")
		if period != "weekly" && period != "monthly" && period != "all_time" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Period must be weekly, monthly or all_time"}})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if limit < 1 || limit > 100 {
			limit = 50
		}
		result, err := gamification.Leaderboard(db.DB, rdb, period, limit, userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Leaderboard error"}})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
