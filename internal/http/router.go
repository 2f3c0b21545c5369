package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/gigpay/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, log zerolog.Logger, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "profile_id"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-Id"},
	}))

	handler.Register(router, authMiddleware)
	return router
}
