package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/internal/application"
	"github.com/bluestock/ipo-api/internal/domain/entity"
	"github.com/bluestock/ipo-api/internal/interface/middleware"
	"github.com/bluestock/ipo-api/pkg/helpers"
	"github.com/bluestock/ipo-api/pkg/response"
)

// maxDocumentSize caps prospectus uploads.
const maxDocumentSize = 32 << 20

type IPOHandler struct {
	Svc    *application.IPOService
	Logger *logrus.Logger
}

func NewIPOHandler(svc *application.IPOService, logger *logrus.Logger) *IPOHandler {
	return &IPOHandler{Svc: svc, Logger: logger}
}

// parseID returns false for anything that is not a positive integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Register POST /registerIpo
func (h *IPOHandler) Register(c *gin.Context) {
	var in application.RegisterIPOInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Missing required IPO fields")
		return
	}
	id, err := h.Svc.Register(c.Request.Context(), in)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, gin.H{"message": "IPO Registered Successfully", "ipoId": id})
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Missing required IPO fields")
	default:
		h.internal(c, "register ipo failed", err, "Failed to register IPO")
	}
}

// List GET /registerIpo
func (h *IPOHandler) List(c *gin.Context) {
	rows, err := h.Svc.List(c.Request.Context())
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"data": rows})
	case errors.Is(err, application.ErrEmptyResult):
		response.Error(c, http.StatusNotFound, "No IPOs found")
	default:
		h.internal(c, "list ipos failed", err, "Failed to retrieve IPO details")
	}
}

// Get GET /ipo/:id
func (h *IPOHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "IPO not found")
		return
	}
	ipo, err := h.Svc.Get(c.Request.Context(), id)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"data": ipo})
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "IPO not found")
	default:
		h.internal(c, "get ipo failed", err, "Failed to retrieve IPO details")
	}
}

// Delete DELETE /deleteIpo/:id
func (h *IPOHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "IPO not found")
		return
	}
	err := h.Svc.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"message": "IPO deleted successfully"})
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "IPO not found")
	default:
		h.internal(c, "delete ipo failed", err, "Failed to delete IPO")
	}
}

// Stats GET /ipo-stats
func (h *IPOHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.internal(c, "ipo stats failed", err, "Failed to retrieve IPO statistics")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_ipo": st.Total,
		"gain_ipo":  st.Gain,
		"loss_ipo":  st.Loss,
	})
}

// Search GET /ipo/search?q=&limit=
func (h *IPOHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"data": rows})
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Search query is required")
	case errors.Is(err, application.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Search is not available")
	default:
		h.internal(c, "search ipos failed", err, "Failed to search IPOs")
	}
}

// UploadDocument POST /ipo/:id/documents/:kind (multipart field "file")
func (h *IPOHandler) UploadDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "IPO not found")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid document upload")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid document upload")
		return
	}
	defer f.Close()

	kind := entity.DocumentKind(c.Param("kind"))
	url, err := h.Svc.AttachDocument(c.Request.Context(), id, kind, fh.Filename, fh.Header.Get("Content-Type"), f)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"message": "Document uploaded successfully", "url": url})
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Invalid document upload")
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "IPO not found")
	case errors.Is(err, application.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Document storage is not available")
	default:
		h.internal(c, "upload document failed", err, "Failed to upload document")
	}
}

func (h *IPOHandler) internal(c *gin.Context, logMsg string, err error, msg string) {
	helpers.LogError(h.Logger, logMsg, err, logrus.Fields{"request_id": c.GetString(middleware.CtxRequestIDKey)})
	response.Error(c, http.StatusInternalServerError, msg)
}
