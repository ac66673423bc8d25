package router

import (
	"net/http"

	"github.com/LinkingTom/CustomIdP/internal/middleware"
	teamrest "github.com/LinkingTom/CustomIdP/internal/team/rest"
	userrest "github.com/LinkingTom/CustomIdP/internal/user/rest"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func New(
	userHandler *userrest.UserHandler,
	teamHandler *teamrest.TeamHandler,
	allowedOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS(allowedOrigins))

	engine.GET("/health", health)
	engine.GET("/api", apiInfo)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// users
	users := engine.Group("/users")
	users.POST("", userHandler.CreateUser)
	users.GET("", userHandler.ListUsers)
	users.GET("/:email", userHandler.GetUser)
	users.PUT("/:email", userHandler.UpdateUser)
	users.PATCH("/:email", userHandler.PatchUser)
	users.DELETE("/:email", userHandler.DeleteUser)

	// teams
	teams := engine.Group("/teams")
	teams.POST("", teamHandler.CreateTeam)
	teams.GET("", teamHandler.ListTeams)
	teams.GET("/:id", teamHandler.GetTeam)
	teams.PUT("/:id", teamHandler.UpdateTeam)
	teams.DELETE("/:id", teamHandler.DeleteTeam)

	return engine
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "CustomIdP is running",
	})
}

func apiInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to CustomIdP API",
		"version": version,
		"health":  "/health",
	})
}
