package handlers

import (
	"io"
	"net/http"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

type ProjectHandler struct {
	BaseHandler
	projectService      services.ProjectService
	importExportService services.ImportExportService
}

func NewProjectHandler(
	projectService services.ProjectService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:         NewBaseHandler(logger),
		projectService:      projectService,
		importExportService: importExportService,
	}
}

// ===== PROJECTS =====

// ListProjects returns every project with its tests
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.projectService.List(c.Request.Context()))
}

// CreateProject creates an empty project
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating project", "name", req.Name)

	project, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// @Router /projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id := ParseStringIDParam(c, "project_id")
	if id == "" {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// @Router /projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id := ParseStringIDParam(c, "project_id")
	if id == "" {
		return
	}
	var req models.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// @Router /projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id := ParseStringIDParam(c, "project_id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting project", "project_id", id)

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== IMPORT / EXPORT =====

// ImportProject stores a project document exported by this service
// @Router /projects/import [post]
func (h *ProjectHandler) ImportProject(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if len(data) > maxImportSize {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "Project document too large", nil)
		return
	}

	summary, err := h.importExportService.ImportProjectJSON(c.Request.Context(), data)
	if err != nil {
		if summary != nil && len(summary.Errors) > 0 {
			h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, summary)
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// @Router /projects/{project_id}/export [get]
func (h *ProjectHandler) ExportProject(c *gin.Context) {
	id := ParseStringIDParam(c, "project_id")
	if id == "" {
		return
	}

	data, err := h.importExportService.ExportProjectJSON(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	sendFile(c, id+".json", contentTypeJSON, data)
}

// @Router /projects/{project_id}/tests/{test_id}/export [get]
func (h *ProjectHandler) ExportTest(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}

	data, err := h.importExportService.ExportTestExcel(c.Request.Context(), projectID, testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	sendFile(c, testID+".xlsx", contentTypeXLSX, data)
}

// ===== TESTS =====

// @Router /projects/{project_id}/tests [post]
func (h *ProjectHandler) AddTest(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	if projectID == "" {
		return
	}
	var req models.CreateTestRequest
	if !bindJSON(c, &req) {
		return
	}

	test, err := h.projectService.AddTest(c.Request.Context(), projectID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

// @Router /projects/{project_id}/tests/{test_id} [get]
func (h *ProjectHandler) GetTest(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}

	test, err := h.projectService.GetTest(c.Request.Context(), projectID, testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// @Router /projects/{project_id}/tests/{test_id} [put]
func (h *ProjectHandler) UpdateTest(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}
	var req models.UpdateTestRequest
	if !bindJSON(c, &req) {
		return
	}

	test, err := h.projectService.UpdateTest(c.Request.Context(), projectID, testID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// @Router /projects/{project_id}/tests/{test_id} [delete]
func (h *ProjectHandler) RemoveTest(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}

	if err := h.projectService.RemoveTest(c.Request.Context(), projectID, testID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /projects/{project_id}/tests/reorder [put]
func (h *ProjectHandler) ReorderTests(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	if projectID == "" {
		return
	}
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.ReorderTests(c.Request.Context(), projectID, req.IDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ===== CHALLENGES =====

// @Router /projects/{project_id}/tests/{test_id}/challenges [post]
func (h *ProjectHandler) AddChallenge(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}
	var req models.CreateChallengeRequest
	if !bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Adding challenge", "test_id", testID, "type", req.Type)

	ch, err := h.projectService.AddChallenge(c.Request.Context(), projectID, testID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// @Router /projects/{project_id}/tests/{test_id}/challenges/{challenge_id} [get]
func (h *ProjectHandler) GetChallenge(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	challengeID := ParseStringIDParam(c, "challenge_id")
	if projectID == "" || testID == "" || challengeID == "" {
		return
	}

	ch, err := h.projectService.GetChallenge(c.Request.Context(), projectID, testID, challengeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// UpdateChallenge replaces question and content of a challenge
// @Router /projects/{project_id}/tests/{test_id}/challenges/{challenge_id} [put]
func (h *ProjectHandler) UpdateChallenge(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	challengeID := ParseStringIDParam(c, "challenge_id")
	if projectID == "" || testID == "" || challengeID == "" {
		return
	}
	var ch models.Challenge
	if !bindJSON(c, &ch) {
		return
	}

	updated, err := h.projectService.UpdateChallenge(c.Request.Context(), projectID, testID, challengeID, ch)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Router /projects/{project_id}/tests/{test_id}/challenges/{challenge_id} [delete]
func (h *ProjectHandler) RemoveChallenge(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	challengeID := ParseStringIDParam(c, "challenge_id")
	if projectID == "" || testID == "" || challengeID == "" {
		return
	}

	if err := h.projectService.RemoveChallenge(c.Request.Context(), projectID, testID, challengeID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /projects/{project_id}/tests/{test_id}/challenges/reorder [put]
func (h *ProjectHandler) ReorderChallenges(c *gin.Context) {
	projectID := ParseStringIDParam(c, "project_id")
	testID := ParseStringIDParam(c, "test_id")
	if projectID == "" || testID == "" {
		return
	}
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	test, err := h.projectService.ReorderChallenges(c.Request.Context(), projectID, testID, req.IDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}
