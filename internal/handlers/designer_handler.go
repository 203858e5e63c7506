package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	"github.com/SAP-F-2025/challenge-service/internal/evaluator"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// DesignerHandler exposes the stateless authoring transforms
type DesignerHandler struct {
	BaseHandler
	validator *validator.Validator
}

func NewDesignerHandler(validator *validator.Validator, logger utils.Logger) *DesignerHandler {
	return &DesignerHandler{
		BaseHandler: NewBaseHandler(logger),
		validator:   validator,
	}
}

type ValidateResponse struct {
	Valid  bool                      `json:"valid"`
	Errors services.ValidationErrors `json:"errors,omitempty"`
}

type PreviewResponse struct {
	Challenge models.Challenge `json:"challenge"`
	State     evaluator.State  `json:"state"`
}

// ToggleGap hides or reveals one word of a fill-gaps sentence
// @Router /designer/gaps/toggle [post]
func (h *DesignerHandler) ToggleGap(c *gin.Context) {
	var req models.ToggleGapRequest
	if !bindJSON(c, &req) {
		return
	}

	sentence, err := designer.ToggleSentenceWord(req.Sentence, req.Word)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentence)
}

// Reshape resizes content arrays to the counts in the challenge config
// @Router /designer/reshape [post]
func (h *DesignerHandler) Reshape(c *gin.Context) {
	var ch models.Challenge
	if !bindJSON(c, &ch) {
		return
	}

	reshaped, err := designer.Reshape(ch)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cannot reshape challenge", err, err.Error())
		return
	}
	c.JSON(http.StatusOK, reshaped)
}

// Validate reports every content problem of a challenge
// @Router /designer/validate [post]
func (h *DesignerHandler) Validate(c *gin.Context) {
	var ch models.Challenge
	if !bindJSON(c, &ch) {
		return
	}

	err := h.validator.Validate(ch)
	if err == nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: true})
		return
	}
	var errs services.ValidationErrors
	if !errors.As(err, &errs) {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ValidateResponse{Valid: false, Errors: errs})
}

// Preview returns the initial state of a challenge in design mode, with
// word banks and draggable items in authoring order
// @Router /designer/preview [post]
func (h *DesignerHandler) Preview(c *gin.Context) {
	var ch models.Challenge
	if !bindJSON(c, &ch) {
		return
	}

	ev, err := evaluator.ForChallenge(ch)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	state, err := ev.Initialize(ch, evaluator.ModeDesign)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreviewResponse{Challenge: ch, State: state})
}
