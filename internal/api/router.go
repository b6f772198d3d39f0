package api

import (
	"flashlingo/internal/auth"
	"flashlingo/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	r.GET("/health", healthHandler)
	r.GET("/config", configHandler(cfg))

	// Auth
	r.POST("/auth/register", RegisterHandler())
	r.POST("/auth/login", LoginHandler(cfg, rdb))
	r.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
	r.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

	// User self-service
	r.PUT("/users/me", auth.AuthMiddleware(cfg, rdb, false), UpdateMeHandler())
	r.DELETE("/users/me", auth.AuthMiddleware(cfg, rdb, false), DeleteMeHandler())

	// Admin: users
	r.GET("/users", auth.AuthMiddleware(cfg, rdb, true), ListUsersHandler())
	r.GET("/users/:id", auth.AuthMiddleware(cfg, rdb, true), GetUserByIdHandler())
	r.PUT("/users/:id", auth.AuthMiddleware(cfg, rdb, true), UpdateUserByIdHandler())
	r.DELETE("/users/:id", auth.AuthMiddleware(cfg, rdb, true), DeleteUserByIdHandler())

	// Card sets and cards
	r.POST("/sets", auth.AuthMiddleware(cfg, rdb, false), CreateSetHandler(cfg))
	r.GET("/sets", auth.AuthMiddleware(cfg, rdb, false), ListSetsHandler())
	r.GET("/sets/shared", auth.AuthMiddleware(cfg, rdb, false), SharedSetsHandler())
	r.POST("/sets/generated", auth.AuthMiddleware(cfg, rdb, false), CreateGeneratedSetHandler())
	r.GET("/sets/:id", auth.AuthMiddleware(cfg, rdb, false), GetSetHandler())
	r.DELETE("/sets/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteSetHandler())
	r.POST("/sets/:id/cards", auth.AuthMiddleware(cfg, rdb, false), AddCardHandler())
	r.GET("/sets/:id/cards", auth.AuthMiddleware(cfg, rdb, false), ListCardsHandler())
	r.POST("/sets/:id/share", auth.AuthMiddleware(cfg, rdb, false), ShareSetHandler())
	r.DELETE("/cards/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteCardHandler())

	// Study
	r.POST("/study/review", auth.AuthMiddleware(cfg, rdb, false), SubmitReviewHandler())
	r.GET("/study/sets/:id/due-cards", auth.AuthMiddleware(cfg, rdb, false), DueCardsHandler())
	r.GET("/study/sets/:id/progress", auth.AuthMiddleware(cfg, rdb, false), StudyProgressHandler())

	// Statistics and dashboard
	r.GET("/statistics/overview", auth.AuthMiddleware(cfg, rdb, false), StatisticsOverviewHandler())
	r.GET("/statistics/activity", auth.AuthMiddleware(cfg, rdb, false), StatisticsActivityHandler())
	r.GET("/statistics/progress", auth.AuthMiddleware(cfg, rdb, false), StatisticsProgressHandler())
	r.GET("/statistics/strengths", auth.AuthMiddleware(cfg, rdb, false), StatisticsStrengthsHandler())
	r.GET("/dashboard", auth.AuthMiddleware(cfg, rdb, false), DashboardHandler())

	// Gamification
	r.GET("/gamification/profile", auth.AuthMiddleware(cfg, rdb, false), GamificationProfileHandler())
	r.GET("/gamification/achievements", auth.AuthMiddleware(cfg, rdb, false), AchievementsHandler())
	r.GET("/gamification/leaderboard", auth.AuthMiddleware(cfg, rdb, false), LeaderboardHandler(rdb))

	// Social
	r.POST("/social/requests", auth.AuthMiddleware(cfg, rdb, false), SendFriendRequestHandler())
	r.GET("/social/requests", auth.AuthMiddleware(cfg, rdb, false), PendingRequestsHandler())
	r.POST("/social/requests/:id/accept", auth.AuthMiddleware(cfg, rdb, false), AcceptFriendRequestHandler())
	r.POST("/social/requests/:id/reject", auth.AuthMiddleware(cfg, rdb, false), RejectFriendRequestHandler())
	r.GET("/social/friends", auth.AuthMiddleware(cfg, rdb, false), FriendsHandler())
	r.DELETE("/social/friends/:id", auth.AuthMiddleware(cfg, rdb, false), RemoveFriendHandler())

	// Conversations
	r.POST("/conversations", auth.AuthMiddleware(cfg, rdb, false), StartConversationHandler())
	r.GET("/conversations", auth.AuthMiddleware(cfg, rdb, false), ListConversationsHandler())
	r.POST("/conversations/:id/messages", auth.AuthMiddleware(cfg, rdb, false), AppendConversationTurnHandler())
	r.POST("/conversations/:id/end", auth.AuthMiddleware(cfg, rdb, false), EndConversationHandler())

	// Online users count
	r.GET("/users/online", OnlineUserCountHandler(rdb))

	return r
}
