package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

// QueryHandler serves grounded question answering.
type QueryHandler struct {
	studyService    *service.StudyService
	defaultContextK int
}

func NewQueryHandler(studyService *service.StudyService, defaultContextK int) *QueryHandler {
	if defaultContextK <= 0 {
		defaultContextK = service.DefaultContextK
	}
	return &QueryHandler{
		studyService:    studyService,
		defaultContextK: defaultContextK,
	}
}

// HandleQuery answers a question from the indexed material. Capability
// failures surface inside the answer body, never as a 5xx.
func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Question is required",
		})
		return
	}

	contextK := clampLimit(req.MaxSources, h.defaultContextK)

	answered := h.studyService.Ask(c.Request.Context(), req.Question, contextK)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   answered,
	})
}

// clampLimit bounds a requested result count to 1..20, falling back to def
// when the request leaves it unset.
func clampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > 20 {
		return 20
	}
	return n
}
