package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/ingest"
	"github.com/andresuchdata/replenishment/internal/inventory"
	"github.com/andresuchdata/replenishment/internal/report"
	"github.com/andresuchdata/replenishment/internal/service"
)

const defaultMaxUploadBytes = 32 << 20

type InventoryHandler struct {
	service        *service.InventoryService
	maxUploadBytes int64
}

func NewInventoryHandler(service *service.InventoryService, maxUploadBytes int64) *InventoryHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &InventoryHandler{service: service, maxUploadBytes: maxUploadBytes}
}

var (
	errUploadTooLarge = errors.New("upload too large")
	errMissingFile    = errors.New("missing upload field \"file\"")
)

// readUpload reads the multipart "file" field and binds the optional
// parameters from the query string, then the form. Form values win.
func (h *InventoryHandler) readUpload(c *gin.Context) (domain.UploadedFile, domain.AnalyzeParams, error) {
	var params domain.AnalyzeParams

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.UploadedFile{}, params, errUploadTooLarge
		}
		return domain.UploadedFile{}, params, fmt.Errorf("%w: %v", errMissingFile, err)
	}
	if header.Size > h.maxUploadBytes {
		return domain.UploadedFile{}, params, errUploadTooLarge
	}
	if !ingest.Supported(header.Filename) {
		return domain.UploadedFile{}, params, fmt.Errorf("%s: %w", header.Filename, ingest.ErrUnsupportedFormat)
	}

	if err := c.ShouldBindQuery(&params); err != nil {
		return domain.UploadedFile{}, params, fmt.Errorf("%w: %v", inventory.ErrConfiguration, err)
	}
	if err := c.ShouldBind(&params); err != nil {
		return domain.UploadedFile{}, params, fmt.Errorf("%w: %v", inventory.ErrConfiguration, err)
	}

	f, err := header.Open()
	if err != nil {
		return domain.UploadedFile{}, params, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, params, fmt.Errorf("read upload: %w", err)
	}
	return domain.UploadedFile{Filename: header.Filename, Data: data}, params, nil
}

func (h *InventoryHandler) Analyze(c *gin.Context) {
	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.Analyze(c.Request.Context(), file, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) Replenishment(c *gin.Context) {
	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.Replenishment(c.Request.Context(), file, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) Pareto(c *gin.Context) {
	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.Pareto(c.Request.Context(), file, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) Warnings(c *gin.Context) {
	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.Warnings(c.Request.Context(), file, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) Simulation(c *gin.Context) {
	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.Simulation(c.Request.Context(), file, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export streams a report as an attachment. format and view come from the
// query string.
func (h *InventoryHandler) Export(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "configuration"})
		return
	}
	view, err := report.ParseView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "configuration"})
		return
	}

	file, params, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	data, err := h.service.Export(c.Request.Context(), file, params, view, format)
	if err != nil {
		writeError(c, err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(base, view, format)))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// GetColumnMap returns the header aliases applied to uploads.
func (h *InventoryHandler) GetColumnMap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"columns": h.service.ColumnMap()})
}

// InvalidateCache drops memoized analyses, e.g. after a column map change.
func (h *InventoryHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps engine and ingest failures onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status, kind := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("inventory request failed")
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "upload_too_large"
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format"
	case errors.Is(err, ingest.ErrMalformedFile):
		return http.StatusBadRequest, "malformed_file"
	}

	switch kind := inventory.ErrorKind(err); kind {
	case "configuration":
		return http.StatusBadRequest, kind
	case "data_type", "missing_column", "degenerate_input":
		return http.StatusUnprocessableEntity, kind
	}
	return http.StatusInternalServerError, "internal"
}
