package api

import (
	"net/http"
	"time"

	"flashlingo/internal/auth"
	"flashlingo/internal/config"
	"flashlingo/internal/db"
	"flashlingo/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	LanguageLevel  string `json:"language_level"`
	NativeLanguage string `json:"native_language"`
}

// POST /auth/register
func RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" || req.FullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing email, password or full name"}})
			return
		}
		var count int64
		if err := db.DB.Model(&user.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": "Email already registered"}})
			return
		}
		pwHash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Password hash failed"}})
			return
		}
		level := user.LanguageLevel(req.LanguageLevel)
		if !user.ValidLanguageLevel(level) {
			level = user.LevelA1
		}
		native := req.NativeLanguage
		if native == "" {
			native = "ru"
		}
		newUser := user.User{
			Email:          req.Email,
			PasswordHash:   pwHash,
			FullName:       req.FullName,
			LanguageLevel:  level,
			NativeLanguage: native,
			DailyXPGoal:    100,
			IsActive:       true,
			Role:           user.RoleUser,
		}
		if err := db.DB.Create(&newUser).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Create error"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":             newUser.ID,
			"email":          newUser.Email,
			"full_name":      newUser.FullName,
			"language_level": newUser.LanguageLevel,
			"createdAt":      newUser.CreatedAt,
		})
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// POST /auth/login
func LoginHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid email or password"}})
			return
		}
		var u user.User
		if err := db.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid email or password"}})
			return
		}
		if !u.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Account disabled"}})
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid email or password"}})
			return
		}
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Email, string(u.Role), 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate token"}})
			return
		}
		_ = auth.SetSession(rdb, u.ID, token, 7*24*time.Hour)
		c.JSON(http.StatusOK, LoginResponse{
			Token:    token,
			UserID:   u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     string(u.Role),
		})
	}
}

// POST /auth/logout
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		_ = auth.DeleteSession(rdb, userId.(uint))
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// GET /auth/me
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var u user.User
		if err := db.DB.First(&u, userId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":              u.ID,
			"email":           u.Email,
			"full_name":       u.FullName,
			"avatar_url":      u.AvatarURL,
			"language_level":  u.LanguageLevel,
			"native_language": u.NativeLanguage,
			"daily_xp_goal":   u.DailyXPGoal,
			"is_premium":      u.IsPremium,
			"role":            u.Role,
			"createdAt":       u.CreatedAt,
		})
	}
}
