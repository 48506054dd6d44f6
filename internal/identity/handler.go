// Package identity serves the identity-provider project settings the
// web client needs to initialize its auth SDK. The values are public
// client-side configuration, not secrets, so the route sits on the
// unauthenticated auth prefix.
package identity

import (
	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/shared/config"
	"stockreport-backend/internal/shared/server/respond"
)

// Handler serves the identity configuration route.
type Handler struct {
	cfg config.IdentityConfig
}

// NewHandler constructs a Handler.
func NewHandler(cfg config.IdentityConfig) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes attaches the identity config route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/identity", h.configRoute)
}

func (h *Handler) configRoute(c *gin.Context) {
	respond.OK(c, gin.H{
		"projectId":         h.cfg.ProjectID,
		"apiKey":            h.cfg.APIKey,
		"authDomain":        h.cfg.AuthDomain,
		"storageBucket":     h.cfg.StorageBucket,
		"messagingSenderId": h.cfg.MessagingSenderID,
		"appId":             h.cfg.AppID,
	})
}
