package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

const defaultSearchLimit = 5

// SearchHandler serves bare retrieval, no answer generation.
type SearchHandler struct {
	studyService *service.StudyService
}

func NewSearchHandler(studyService *service.StudyService) *SearchHandler {
	return &SearchHandler{
		studyService: studyService,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid query parameters",
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Query parameter is required",
		})
		return
	}

	limit := clampLimit(req.Limit, defaultSearchLimit)

	results, err := h.studyService.Search(c.Request.Context(), req.Query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.SearchResponse{
			Query:   req.Query,
			Results: results,
			Count:   len(results),
		},
	})
}
