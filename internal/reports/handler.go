package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/shared/metrics"
	"stockreport-backend/internal/shared/server/middleware"
	"stockreport-backend/internal/shared/server/respond"
)

// maxSaveBytes bounds the save body; inline binary attachments are
// base64 text upstream, so results can get large.
const maxSaveBytes = 50 << 20

// Handler wires the report persistence routes to the service.
type Handler struct {
	Svc *Service

	// DBName is reported by the health endpoint.
	DBName string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, dbName string) *Handler {
	return &Handler{Svc: svc, DBName: dbName}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.GET("/documents", h.list)
	rg.GET("/history/:id", h.history)
	rg.GET("/latest", h.latest)
	rg.POST("/save", h.save)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "ok", "db": h.DBName})
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	if summaries == nil {
		summaries = []DocumentSummary{}
	}
	respond.OK(c, summaries)
}

func (h *Handler) history(c *gin.Context) {
	id := c.Param("id")
	c.Set("docId", id)

	history, err := h.Svc.HistoryByID(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch history", nil)
		return
	}
	if history == nil {
		history = []AnalysisResult{}
	}
	respond.OK(c, history)
}

func (h *Handler) latest(c *gin.Context) {
	latest, err := h.Svc.Latest(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch latest analysis", nil)
		return
	}
	if latest == nil {
		respond.JSON(c, http.StatusOK, nil)
		return
	}
	respond.OK(c, latest)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSaveBytes)

	var result AnalysisResult
	if err := c.ShouldBindJSON(&result); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	metrics.IncSave()
	docID, err := h.Svc.Save(c.Request.Context(), userID, result)
	if err != nil {
		metrics.IncSaveFailed()
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	c.Set("docId", docID)

	respond.OK(c, gin.H{"success": true, "id": docID})
}
