package router

import (
	"church_directory_admin/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupDirectoryRoutes sets up the JSON admin API for the member directory.
func SetupDirectoryRoutes(apiGroup *gin.RouterGroup, directoryHandler *handlers.DirectoryHandler) {
	directoryRoutes := apiGroup.Group("/directory")
	{
		directoryRoutes.GET("/members", directoryHandler.GetMembers)
		directoryRoutes.POST("/reload", directoryHandler.ReloadMembers)
		directoryRoutes.DELETE("/members/:id", directoryHandler.DeleteMember)

		directoryRoutes.GET("/form", directoryHandler.GetForm)
		directoryRoutes.PUT("/form/fields", directoryHandler.SetFormField)
		directoryRoutes.POST("/form/edit/:id", directoryHandler.EditMember)
		directoryRoutes.POST("/form/cancel", directoryHandler.CancelForm)
		directoryRoutes.POST("/form/submit", directoryHandler.SubmitForm)
	}
}

// SetupPageRoutes sets up the server-rendered admin page routes.
func SetupPageRoutes(engine *gin.Engine, pageHandler *handlers.PageHandler) {
	engine.GET("/", pageHandler.GetIndex)
	engine.POST("/members/save", pageHandler.PostSave)
	engine.GET("/members/:id/edit", pageHandler.GetEdit)
	engine.POST("/members/cancel", pageHandler.PostCancel)
	engine.POST("/members/:id/delete", pageHandler.PostDelete)
}
