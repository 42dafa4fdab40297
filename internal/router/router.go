package router

import (
	"church_directory_admin/internal/handlers"
	"church_directory_admin/internal/repositories"
	"church_directory_admin/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
// One directory session backs the whole server: the admin serves a single
// operator, so the page and API routes share the same state container.
func Setup(engine *gin.Engine, repo repositories.MemberRepository) {
	// Initialize Services
	session := services.NewDirectorySession(repo)

	// Initialize Handlers
	directoryHandler := handlers.NewDirectoryHandler(session, session)
	pageHandler := handlers.NewPageHandler(session, session)

	handlers.RegisterTemplates(engine)

	apiV1 := engine.Group("/api/v1")
	SetupDirectoryRoutes(apiV1, directoryHandler)
	SetupPageRoutes(engine, pageHandler)
}
