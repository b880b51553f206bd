package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	practiceSetHandler *PracticeSetHandler
	sessionHandler     *SessionHandler
}

func NewHandlerManager(
	setService services.PracticeSetService,
	sessionService services.SessionService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		practiceSetHandler: NewPracticeSetHandler(setService, logger),
		sessionHandler:     NewSessionHandler(sessionService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "practice-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Practice set routes
		sets := v1.Group("/practice-sets")
		{
			sets.POST("", hm.practiceSetHandler.CreatePracticeSet)
			sets.GET("", hm.practiceSetHandler.ListPracticeSets)
			sets.GET("/:id", hm.practiceSetHandler.GetPracticeSet)
			sets.DELETE("/:id", hm.practiceSetHandler.DeletePracticeSet)
			sets.POST("/import", hm.practiceSetHandler.ImportPracticeSet)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)

			// Answer editing on the active question
			sessions.POST("/:id/choices", hm.sessionHandler.SelectChoice)
			sessions.POST("/:id/matches", hm.sessionHandler.SelectMatchingItem)
			sessions.POST("/:id/pairs/undo", hm.sessionHandler.UndoPair)
			sessions.POST("/:id/pairs/clear", hm.sessionHandler.ClearPairs)

			// Navigation and lifecycle
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/finish", hm.sessionHandler.FinishSession)
			sessions.POST("/:id/restart", hm.sessionHandler.RestartSession)

			sessions.GET("/:id/report", hm.sessionHandler.GetReport)
		}
	}
}
