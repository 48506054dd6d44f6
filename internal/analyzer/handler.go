package analyzer

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/extract"
	"stockreport-backend/internal/reports"
	"stockreport-backend/internal/shared/metrics"
	"stockreport-backend/internal/shared/server/middleware"
	"stockreport-backend/internal/shared/server/respond"
	"stockreport-backend/internal/shared/telemetry"
)

const maxUploadBytes = 50 << 20

// Handler exposes the server-side analysis route. It runs the model
// pipeline and persists the result in one request.
type Handler struct {
	Svc     *Service
	Reports *reports.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, reportsSvc *reports.Service) *Handler {
	return &Handler{Svc: svc, Reports: reportsSvc}
}

// RegisterRoutes attaches the analysis route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read upload", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read upload", nil)
		return
	}

	metrics.IncAnalysisStarted()
	started := time.Now()

	result, err := h.Svc.Analyze(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(started).Milliseconds()))
	if err != nil {
		metrics.IncAnalysisFailed()
		switch {
		case errors.Is(err, ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "not_configured", "analysis is not configured", nil)
		case errors.Is(err, extract.ErrParse):
			respond.Error(c, http.StatusBadRequest, "parse_error", "unable to parse document", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "analysis_error", "analysis failed", nil)
		}
		return
	}
	metrics.IncAnalysisCompleted()

	userID := middleware.UserIDFromContext(c)
	metrics.IncSave()
	docID, err := h.Reports.Save(c.Request.Context(), userID, result)
	if err != nil {
		// The analysis succeeded; hand the result back so the client
		// can retry the save on its own.
		metrics.IncSaveFailed()
		telemetry.Error("analyze.save_failed", map[string]any{"doc_id": result.ID, "error": err.Error()})
		respond.OK(c, gin.H{"result": result, "save_warning": "analysis completed but could not be saved"})
		return
	}
	result.ID = docID
	result.Metadata.ID = docID
	c.Set("docId", docID)

	respond.OK(c, gin.H{"result": result, "id": docID})
}
