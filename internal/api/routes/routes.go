package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/api/handlers"
	"github.com/cafirm/website/backend/internal/api/middleware"
	"github.com/cafirm/website/backend/internal/config"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations. notifier
// may be nil when no notification URLs are configured.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, notifier *services.NotificationService) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	timeout := cfg.Database.QueryTimeout
	uploads := services.NewUploadService(cfg.UploadDir)

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, timeout)
	adminUsers := services.NewAdminUserService(db, timeout)

	appHandler := handlers.NewApplicationHandler(services.NewApplicationService(db, timeout), uploads, notifier)
	contactHandler := handlers.NewContactHandler(services.NewContactService(db, timeout), notifier)
	blogHandler := handlers.NewBlogHandler(services.NewBlogService(db, timeout), uploads)
	visibilityHandler := handlers.NewVisibilityHandler(services.NewVisibilityService(db, timeout))
	visitorHandler := handlers.NewVisitorHandler(services.NewVisitorService(db, timeout))
	adminUserHandler := handlers.NewAdminUserHandler(adminUsers)
	authHandler := handlers.NewAuthHandler(authService, adminUsers, cfg.IsProduction(), cfg.JWTTTL)

	router.GET("/uploads/*filepath", handlers.UploadsHandler(uploads, cfg.FrontendOrigin))

	api := router.Group("/api")
	api.GET("/health", handlers.HealthHandler(db))

	// Public site
	api.POST("/apply", appHandler.Apply)
	api.POST("/contact", contactHandler.Create)
	api.GET("/blogs", blogHandler.ListActive)
	api.GET("/blogs/:id", blogHandler.Get)
	api.POST("/track-visit", visitorHandler.Track)
	api.POST("/admin/login", authHandler.Login)
	api.POST("/admin/logout", authHandler.Logout)

	// Admin panel
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(authService))
	{
		admin.GET("/admin/me", authHandler.Me)

		admin.GET("/applications", appHandler.ListActive)
		admin.GET("/applications/all", appHandler.ListAll)
		admin.PUT("/applications/:id", appHandler.Archive)
		admin.GET("/download-resume/:filename", appHandler.DownloadResume)

		admin.GET("/contact-submissions", contactHandler.ListActive)
		admin.GET("/contact-submissions/all", contactHandler.ListAll)
		admin.PUT("/contact-submissions/:id", contactHandler.Archive)

		for _, rt := range models.ResourceTypes() {
			admin.PUT("/"+string(rt)+"/:id/visibility", visibilityHandler.For(rt))
		}
		admin.PUT("/:type/:id/visibility", visibilityHandler.Update)

		admin.POST("/blogs", blogHandler.Create)
		admin.GET("/blogs/all", blogHandler.ListAll)
		admin.PUT("/blogs/:id", blogHandler.Update)
		admin.GET("/blogs/:id/edit-logs", blogHandler.EditLogs)

		admin.GET("/visitor-stats", visitorHandler.Stats)
	}

	// Destructive operations need the admin role
	superuser := admin.Group("")
	superuser.Use(middleware.RequireRole(models.RoleAdmin))
	{
		superuser.DELETE("/blogs/:id", blogHandler.Delete)

		superuser.GET("/admin-users", adminUserHandler.List)
		superuser.POST("/admin-users", adminUserHandler.Create)
		superuser.PUT("/admin-users/:id", adminUserHandler.Update)
		superuser.DELETE("/admin-users/:id", adminUserHandler.Delete)
	}

	return nil
}
