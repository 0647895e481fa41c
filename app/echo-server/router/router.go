package router

import (
	"banditHub/internal/middleware"
	"banditHub/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetAuthRoutes(api *echo.Group, handler *rest.AuthHandler) {
	auth := api.Group("/auth")
	auth.POST("/login", handler.Login)
}

func SetDecisionRoutes(api *echo.Group, handler *rest.DecisionHandler) {
	decisions := api.Group("/decisions")
	decisions.GET("", handler.Decide)
	decisions.POST("/feedback", handler.Feedback)
	decisions.GET("/arms", handler.ListArms, middleware.AuthMiddleware())
}

func SetBanditAdminRoutes(api *echo.Group, handler *rest.BanditAdminHandler) {
	admin := api.Group("/admin/bandits", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
	admin.GET("/definition", handler.GetDefinition)
	admin.PUT("/definition", handler.UpsertDefinition)
}
