package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentmarket/internal/config"
	"rentmarket/internal/middleware"
	"rentmarket/internal/modules/admin"
	"rentmarket/internal/modules/auth"
	"rentmarket/internal/modules/item"
	"rentmarket/internal/modules/notification"
	"rentmarket/internal/modules/rental"
	"rentmarket/internal/modules/review"
	"rentmarket/internal/modules/score"
	jwtsvc "rentmarket/internal/pkg/jwt"
	"rentmarket/internal/repository"
)

// App holds the assembled HTTP engine and the long-lived pieces main must close.
type App struct {
	Router *gin.Engine
	Hub    *notification.Hub
}

// New wires repositories, services and handlers onto a gin engine.
func New(cfg *config.Config, db *gorm.DB) *App {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := notification.NewHub()
	scores := score.NewAccumulator(db)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	itemHandler := item.NewHandler(item.NewService(itemRepo))
	rentalHandler := rental.NewHandler(rental.NewService(rentalRepo, itemRepo, reviewRepo, hub))
	reviewHandler := review.NewHandler(review.NewService(db, scores, hub))
	adminHandler := admin.NewHandler(admin.NewService(db))
	wsHandler := notification.NewHandler(hub, j, cfg.CORSAllowedOrigins)

	ownership := middleware.NewOwnershipChecker(itemRepo)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "online": hub.OnlineCount()})
	})

	v1 := r.Group("/api/v1")
	wsHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(j))

	ownerOnly := middleware.OwnerOnly()

	authHandler.RegisterPublicRoutes(v1)
	authHandler.RegisterProtectedRoutes(protected)
	itemHandler.RegisterRoutes(v1, protected, ownerOnly, ownership.CheckItemOwnership())
	rentalHandler.RegisterRoutes(v1, protected, ownerOnly)
	reviewHandler.RegisterRoutes(v1, protected, ownerOnly)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	adminHandler.RegisterRoutes(adminGroup)

	return &App{Router: r, Hub: hub}
}
