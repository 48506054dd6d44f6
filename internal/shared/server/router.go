package server

import (
	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/shared/config"
	"stockreport-backend/internal/shared/metrics"
	"stockreport-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a handler's routes to a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router wires up. Nil entries are
// skipped so tests can build partial routers.
type RouterDeps struct {
	Config     config.Config
	Reports    RouteRegistrar
	Analyzer   RouteRegistrar
	Identity   RouteRegistrar
	GoogleAuth RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	api := r.Group("/api")
	for _, registrar := range []RouteRegistrar{
		deps.GoogleAuth,
		deps.Identity,
		deps.Reports,
		deps.Analyzer,
	} {
		if registrar != nil {
			registrar.RegisterRoutes(api)
		}
	}

	if deps.Config.Env == "dev" || deps.Config.Env == "local" {
		dev := api.Group("/dev")
		dev.GET("/metrics", metrics.Handler())
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
