package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/challenge-service/internal/evaluator"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	playService         services.PlayService
	importExportService services.ImportExportService
}

func NewSessionHandler(
	playService services.PlayService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:         NewBaseHandler(logger),
		playService:         playService,
		importExportService: importExportService,
	}
}

// StartSession presents one challenge of a test and starts its countdown
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting session", "test_id", req.TestID, "challenge_id", req.ChallengeID)

	snap, err := h.playService.StartSession(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.playService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ApplyAction feeds one player action, e.g. {"type":"selectOption","index":2}
// @Router /sessions/{id}/actions [post]
func (h *SessionHandler) ApplyAction(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	data, err := c.GetRawData()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	action, err := evaluator.DecodeAction(data)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid action", err, err.Error())
		return
	}

	snap, err := h.playService.ApplyAction(c.Request.Context(), id, action)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Router /sessions/{id}/check [post]
func (h *SessionHandler) Check(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.playService.Check(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Router /sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.playService.CloseSession(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.playService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTestResult scores a test from the results of its sessions
// @Router /tests/{test_id}/results [get]
func (h *SessionHandler) GetTestResult(c *gin.Context) {
	testID := ParseStringIDParam(c, "test_id")
	if testID == "" {
		return
	}

	result, err := h.playService.GetTestResult(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportTestResults downloads the results as xlsx, or csv with ?format=csv
// @Router /tests/{test_id}/results/export [get]
func (h *SessionHandler) ExportTestResults(c *gin.Context) {
	testID := ParseStringIDParam(c, "test_id")
	if testID == "" {
		return
	}

	var (
		data []byte
		err  error
	)
	switch format := c.DefaultQuery("format", "xlsx"); format {
	case "xlsx":
		data, err = h.importExportService.ExportResultsExcel(c.Request.Context(), testID)
		if err == nil {
			sendFile(c, testID+"-results.xlsx", contentTypeXLSX, data)
			return
		}
	case "csv":
		data, err = h.importExportService.ExportResultsCSV(c.Request.Context(), testID)
		if err == nil {
			sendFile(c, testID+"-results.csv", contentTypeCSV, data)
			return
		}
	default:
		h.RespondWithError(c, http.StatusBadRequest, "Unsupported export format", nil, format)
		return
	}
	h.handleServiceError(c, err)
}
