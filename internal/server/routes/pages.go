package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/handlers"
	"github.com/vulcanent/vulcanweb/internal/web"
)

// SetupPageRoutes configures the marketing pages
func SetupPageRoutes(router *gin.Engine, pages *handlers.PageHandler) {
	router.GET("/", pages.Index)
	router.GET("/team", pages.Team)
	router.GET("/news", pages.News)
	router.GET("/products", pages.Products)
	router.GET("/contact", pages.Contact)
}

// SetupStaticRoutes serves the embedded assets
func SetupStaticRoutes(router *gin.Engine) {
	static := web.StaticHandler("/static")
	router.GET("/static/*filepath", static)
	router.HEAD("/static/*filepath", static)
}
