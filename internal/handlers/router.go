package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	projectHandler  *ProjectHandler
	designerHandler *DesignerHandler
	sessionHandler  *SessionHandler
	authMiddleware  gin.HandlerFunc
}

// NewHandlerManager builds the handlers. A nil tokenParser leaves the
// authoring routes open.
func NewHandlerManager(
	projectService services.ProjectService,
	playService services.PlayService,
	importExportService services.ImportExportService,
	validator *validator.Validator,
	tokenParser TokenParser,
	logger utils.Logger,
) *HandlerManager {
	hm := &HandlerManager{
		projectHandler:  NewProjectHandler(projectService, importExportService, logger),
		designerHandler: NewDesignerHandler(validator, logger),
		sessionHandler:  NewSessionHandler(playService, importExportService, logger),
	}
	if tokenParser != nil {
		hm.authMiddleware = AuthMiddleware(tokenParser)
	}
	return hm
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		authoring := v1.Group("")
		if hm.authMiddleware != nil {
			authoring.Use(hm.authMiddleware)
		}

		// Project routes
		projects := authoring.Group("/projects")
		{
			projects.GET("", hm.projectHandler.ListProjects)
			projects.POST("", hm.projectHandler.CreateProject)
			projects.POST("/import", hm.projectHandler.ImportProject)
			projects.GET("/:project_id", hm.projectHandler.GetProject)
			projects.PUT("/:project_id", hm.projectHandler.UpdateProject)
			projects.DELETE("/:project_id", hm.projectHandler.DeleteProject)
			projects.GET("/:project_id/export", hm.projectHandler.ExportProject)

			// Test management
			projects.POST("/:project_id/tests", hm.projectHandler.AddTest)
			projects.PUT("/:project_id/tests/reorder", hm.projectHandler.ReorderTests)
			projects.GET("/:project_id/tests/:test_id", hm.projectHandler.GetTest)
			projects.PUT("/:project_id/tests/:test_id", hm.projectHandler.UpdateTest)
			projects.DELETE("/:project_id/tests/:test_id", hm.projectHandler.RemoveTest)
			projects.GET("/:project_id/tests/:test_id/export", hm.projectHandler.ExportTest)

			// Challenge management
			challenges := projects.Group("/:project_id/tests/:test_id/challenges")
			{
				challenges.POST("", hm.projectHandler.AddChallenge)
				challenges.PUT("/reorder", hm.projectHandler.ReorderChallenges)
				challenges.GET("/:challenge_id", hm.projectHandler.GetChallenge)
				challenges.PUT("/:challenge_id", hm.projectHandler.UpdateChallenge)
				challenges.DELETE("/:challenge_id", hm.projectHandler.RemoveChallenge)
			}
		}

		// Designer routes
		designer := authoring.Group("/designer")
		{
			designer.POST("/gaps/toggle", hm.designerHandler.ToggleGap)
			designer.POST("/reshape", hm.designerHandler.Reshape)
			designer.POST("/validate", hm.designerHandler.Validate)
			designer.POST("/preview", hm.designerHandler.Preview)
		}

		// Play routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
			sessions.POST("/:id/actions", hm.sessionHandler.ApplyAction)
			sessions.POST("/:id/check", hm.sessionHandler.Check)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
		}

		// Result routes
		tests := v1.Group("/tests")
		{
			tests.GET("/:test_id/results", hm.sessionHandler.GetTestResult)
			tests.GET("/:test_id/results/export", hm.sessionHandler.ExportTestResults)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "challenge-service",
	})
}
