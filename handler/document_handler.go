package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

// DocumentHandler serves bookkeeping over the stored study material and the
// index.
type DocumentHandler struct {
	fileService  *service.FileService
	studyService *service.StudyService
}

func NewDocumentHandler(fileService *service.FileService, studyService *service.StudyService) *DocumentHandler {
	return &DocumentHandler{
		fileService:  fileService,
		studyService: studyService,
	}
}

// HandleList reports the uploaded files.
func (h *DocumentHandler) HandleList(c *gin.Context) {
	files, err := h.fileService.ListFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to list documents: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   files,
	})
}

// HandleCount reports how many sections are currently indexed.
func (h *DocumentHandler) HandleCount(c *gin.Context) {
	count, err := h.studyService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to count indexed sections: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.CountResponse{Count: count},
	})
}

// HandleDelete removes a stored file. Sections already indexed from it stay
// queryable; only the file goes away.
func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	filename := c.Param("filename")
	if err := h.fileService.DeleteFile(filename); err != nil {
		status := http.StatusBadRequest
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, types.DataResponse{
			Status:  "error",
			Message: "Failed to delete document: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: "Document deleted",
	})
}
