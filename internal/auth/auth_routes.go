package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/rohandevadiga3333/wiz/config"
	"github.com/rohandevadiga3333/wiz/internal/middleware"
	"github.com/rohandevadiga3333/wiz/pkg/rmiddleware"
	"gorm.io/gorm"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, cfg)

	// Public routes
	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register-leader", authController.RegisterLeader)
		authPublic.POST("/register-member", authController.RegisterMember)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/check-member-status", authController.CheckMemberStatus)
	}

	// Authenticated routes
	authProtected := router.Group("/auth")
	authProtected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))
	{
		authProtected.GET("/me", authController.GetProfile)
	}

	// Membership management, leaders only. The role middleware is a quick
	// claim check; each handler still verifies leadership of the specific
	// team against the database.
	leaderRoutes := router.Group("/auth")
	leaderRoutes.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))
	leaderRoutes.Use(rmiddleware.LeaderMiddleware())
	{
		leaderRoutes.GET("/team/:teamCode/all-members", authController.GetAllMembers)
		leaderRoutes.GET("/team/:teamCode/pending-requests", authController.GetPendingRequests)
		leaderRoutes.GET("/team/:teamCode/rejected-members", authController.GetRejectedMembers)
		leaderRoutes.POST("/approve-member", authController.ApproveMember)
		leaderRoutes.POST("/reject-member", authController.RejectMember)
		leaderRoutes.POST("/approve-rejected-member", authController.ApproveRejectedMember)
		leaderRoutes.DELETE("/delete-rejected-member/:userId", authController.DeleteRejectedMember)
		leaderRoutes.DELETE("/team/:teamCode/member/:memberId", authController.DeleteTeamMember)
	}
}
