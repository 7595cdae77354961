package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"zhilfond/server/internal/auth"
)

// SetupRoutes wires the public, authenticated and admin route groups.
func SetupRoutes(router *gin.Engine, handler *Handler, issuer *auth.TokenIssuer, revoked auth.Revoker, allowedOrigins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(auth.Middleware(issuer, revoked, handler.logger))

	api := router.Group("/api")
	{
		api.GET("/listings", handler.GetListings)
		api.GET("/listings/mine", auth.RequireAuth(), handler.GetMyListings)
		api.GET("/listings/:id", handler.GetListing)
		api.POST("/listings", auth.RequireAuth(), handler.CreateListing)

		api.GET("/news", handler.GetNews)
		api.GET("/news/:id", handler.GetNewsItem)
		api.GET("/districts", handler.GetDistricts)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/logout", auth.RequireAuth(), handler.Logout)
			authGroup.GET("/me", auth.RequireAuth(), handler.Me)
			authGroup.GET("/oauth/login", handler.OAuthLogin)
			authGroup.GET("/oauth/callback", handler.OAuthCallback)
		}

		admin := api.Group("/admin", auth.RequireAdmin())
		{
			admin.GET("/listings", handler.AdminGetListings)
			admin.PUT("/listings/:id", handler.ModerateListing)
			admin.DELETE("/listings/:id", handler.AdminDeleteListing)

			admin.POST("/news", handler.AdminCreateNews)
			admin.PUT("/news/:id", handler.AdminUpdateNews)
			admin.DELETE("/news/:id", handler.AdminDeleteNews)
		}
	}
}
