package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

type uploadOutcome struct {
	resp *types.UploadResponse
	err  error
}

// HandleUpload accepts a multipart upload and streams processing status
// events until ingestion finishes, then sends the final result.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	// Optional metadata form field carries the upload title
	var req types.UploadRequest
	if metadata := c.Request.FormValue("metadata"); metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &req); err != nil {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "Invalid metadata",
			})
			return
		}
	}

	const maxSize = 50 << 20
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	// Buffered so processing never blocks on a slow or gone client
	statusChan := make(chan types.ProcessingDocumentStatus, 8)
	outChan := make(chan uploadOutcome)
	go func() {
		resp, err := h.fileService.UploadFile(c.Request.Context(), req, header, statusChan)
		outChan <- uploadOutcome{resp: resp, err: err}
	}()

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			return // Client disconnected
		case status := <-statusChan:
			h.emitStatus(c, status)
		case out := <-outChan:
			// Flush status events still queued before the final response
			for {
				select {
				case status := <-statusChan:
					h.emitStatus(c, status)
				default:
					h.finish(c, out)
					return
				}
			}
		}
	}
}

func (h *UploadHandler) emitStatus(c *gin.Context, status types.ProcessingDocumentStatus) {
	jsonStatus, err := json.Marshal(status)
	if err != nil {
		return
	}
	c.SSEvent("message", string(jsonStatus))
	c.Writer.Flush()
}

func (h *UploadHandler) finish(c *gin.Context, out uploadOutcome) {
	if out.err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: out.err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   out.resp,
	})
}
