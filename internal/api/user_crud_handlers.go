package api

import (
	"net/http"

	"flashlingo/internal/db"
	"flashlingo/internal/user"

	"github.com/gin-gonic/gin"
)

// GET /users  [admin only]
func ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []user.User
		if err := db.DB.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		var result []gin.H
		for _, u := range users {
			result = append(result, gin.H{
				"id":             u.ID,
				"email":          u.Email,
				"full_name":      u.FullName,
				"language_level": u.LanguageLevel,
				"is_premium":     u.IsPremium,
				"is_active":      u.IsActive,
				"role":           u.Role,
				"createdAt":      u.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

type UpdateMeRequest struct {
	Password       string `json:"password,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	LanguageLevel  string `json:"language_level,omitempty"`
	NativeLanguage string `json:"native_language,omitempty"`
	DailyXPGoal    int    `json:"daily_xp_goal,omitempty"`
}

// PUT /users/me
func UpdateMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req UpdateMeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		var u user.User
		if err := db.DB.First(&u, userId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
			return
		}
		if req.Password != "" {
			pwHash, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Password hash failed"}})
				return
			}
			u.PasswordHash = pwHash
		}
		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.AvatarURL != "" {
			u.AvatarURL = req.AvatarURL
		}
		if req.LanguageLevel != "" && user.ValidLanguageLevel(user.LanguageLevel(req.LanguageLevel)) {
			u.LanguageLevel = user.LanguageLevel(req.LanguageLevel)
		}
		if req.NativeLanguage != "" {
			u.NativeLanguage = req.NativeLanguage
		}
		if req.DailyXPGoal > 0 {
			u.DailyXPGoal = req.DailyXPGoal
		}
		if err := db.DB.Save(&u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Update error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated"})
	}
}

// DELETE /users/me
func DeleteMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		if err := db.DB.Delete(&user.User{}, userId.(uint)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Delete error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// GET /users/:id  [admin only]
func GetUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var u user.User
		if err := db.DB.First(&u, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":             u.ID,
			"email":          u.Email,
			"full_name":      u.FullName,
			"language_level": u.LanguageLevel,
			"is_premium":     u.IsPremium,
			"is_active":      u.IsActive,
			"role":           u.Role,
			"createdAt":      u.CreatedAt,
		})
	}
}

type UpdateUserRequest struct {
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	IsPremium *bool  `json:"is_premium,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// PUT /users/:id  [admin only]
func UpdateUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		var u user.User
		if err := db.DB.First(&u, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
			return
		}
		if req.Password != "" {
			pwHash, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Password hash failed"}})
				return
			}
			u.PasswordHash = pwHash
		}
		if req.Role != "" && (req.Role == "admin" || req.Role == "user") {
			u.Role = user.Role(req.Role)
		}
		if req.IsPremium != nil {
			u.IsPremium = *req.IsPremium
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if err := db.DB.Save(&u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Update error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated"})
	}
}

// DELETE /users/:id  [admin only]
func DeleteUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := db.DB.Delete(&user.User{}, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Delete error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
