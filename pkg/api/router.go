package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/relayctl/pkg/api/handlers"
	"github.com/urmzd/relayctl/pkg/device/schema"
	"github.com/urmzd/relayctl/pkg/panel"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	panel     *panel.Panel
	history   handlers.RunHistory
	validator *schema.Validator
}

// NewRouter creates a new API router. history may be nil when run history
// is not persisted.
func NewRouter(p *panel.Panel, history handlers.RunHistory, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		panel:     p,
		history:   history,
		validator: validator,
	}

	router.setupRoutes()

	return router
}

// Handler returns the router as an http.Handler.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.panel)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		relaysHandler := handlers.NewRelaysHandler(r.panel, r.validator)
		relays := v1.Group("/relays")
		{
			relays.GET("", relaysHandler.GetState)
			relays.PUT("", relaysHandler.SetState)
			relays.POST("/all-on", relaysHandler.AllOn)
			relays.POST("/all-off", relaysHandler.AllOff)
			relays.PUT("/:channel", relaysHandler.SetChannel)
		}

		panelHandler := handlers.NewPanelHandler(r.panel)
		v1.GET("/panel", panelHandler.GetPanel)
		v1.POST("/panel/input", panelHandler.SubmitInput)

		routinesHandler := handlers.NewRoutinesHandler(r.panel, r.history)
		v1.GET("/routines", routinesHandler.ListRoutines)
		v1.POST("/routines/:name/start", routinesHandler.StartRoutine)

		runs := v1.Group("/runs")
		{
			runs.GET("", routinesHandler.ListRuns)
			runs.GET("/events", routinesHandler.Events)
			runs.DELETE("/:id", routinesHandler.CancelRun)
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
