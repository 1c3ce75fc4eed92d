package transport

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/jwt"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/internal/validation"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/display"
	"github.com/imtaco/meet-embed/meeting/normalize"
)

type Options struct {
	// ServiceName names the HTTP server spans; defaults to meet-embed.
	ServiceName string
	// RateLimit is requests per second on imperative routes; <= 0 disables limiting.
	RateLimit       float64
	RateBurst       int
	AllowedOrigins  []string
	DefaultBitrates display.Bitrates
}

type Router struct {
	host    *Host
	hub     *Hub
	reader  *display.Reader
	jwtAuth jwt.Auth
	opts    Options
	engine  *gin.Engine
	logger  *log.Logger
}

func NewRouter(
	host *Host,
	hub *Hub,
	reader *display.Reader,
	jwtAuth jwt.Auth,
	opts Options,
	logger *log.Logger,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	service := opts.ServiceName
	if service == "" {
		service = "meet-embed"
	}
	engine.Use(otelgin.Middleware(service))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	r := &Router{
		host:    host,
		hub:     hub,
		reader:  reader,
		jwtAuth: jwtAuth,
		opts:    opts,
		engine:  engine,
		logger:  logger,
	}

	r.setupRoutes()
	return r
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) setupRoutes() {
	control := r.engine.Group("/api/meeting", requireScope(r.jwtAuth, jwt.ScopeControl, r.logger))
	if r.opts.RateLimit > 0 {
		burst := r.opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		control.Use(rateLimit(rate.NewLimiter(rate.Limit(r.opts.RateLimit), burst)))
	}
	control.POST("", r.mount)
	control.DELETE("", r.unmount)
	control.POST("/close", r.close)
	control.PUT("/audio-only", r.setAudioOnly)
	control.PUT("/audio-muted", r.setAudioMuted)
	control.PUT("/video-muted", r.setVideoMuted)

	observe := r.engine.Group("/api/meeting", requireScope(r.jwtAuth, jwt.ScopeObserve, r.logger))
	observe.GET("/rooms", r.rooms)
	observe.GET("/settings", r.settings)
	observe.GET("/events", r.events)

	r.engine.GET("/health", r.healthCheck)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, meeting.ErrInvalidHostProps), errors.Is(err, meeting.ErrUnknownPlatform):
		return http.StatusBadRequest
	case errors.Is(err, meeting.ErrEngineNotReady),
		errors.Is(err, meeting.ErrAlreadyMounted),
		errors.Is(err, meeting.ErrShellClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (r *Router) fail(c *gin.Context, err error) {
	status := statusOf(err)
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}
	if code, ok := errors.CodeOf(err); ok {
		body["code"] = string(code)
	}
	if details := normalize.ValidationErrors(err); len(details) > 0 {
		body["details"] = details
	}
	if status == http.StatusInternalServerError {
		r.logger.Error("request failed", log.String("path", c.FullPath()), log.Error(err))
	}
	c.JSON(status, body)
}

func (r *Router) bindFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"details": validation.FormatValidationError(err),
	})
}

func (r *Router) mount(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		r.bindFailed(c, err)
		return
	}
	props, err := meeting.DecodeHostProps(raw, meeting.FormatJSON)
	if err != nil {
		r.fail(c, err)
		return
	}

	sh, err := r.host.Mount(c.Request.Context(), props)
	if err != nil {
		r.fail(c, err)
		return
	}

	app := sh.Props()
	locator := app.URL
	locator.JWT = ""
	r.logger.Info("meeting mounted",
		log.String("hostId", hostID(c)),
		log.String("shell", sh.ID()))

	c.JSON(http.StatusOK, MountResponse{
		Shell:    sh.ID(),
		Locator:  locator,
		Handlers: app.Handlers.Names(),
	})
}

func (r *Router) unmount(c *gin.Context) {
	mounted := r.host.Unmount(c.Request.Context())
	r.logger.Info("meeting unmounted",
		log.String("hostId", hostID(c)),
		log.Bool("wasMounted", mounted))
	c.JSON(http.StatusOK, gin.H{"unmounted": mounted})
}

func (r *Router) close(c *gin.Context) {
	if err := r.host.Controller().Close(); err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (r *Router) setAudioOnly(c *gin.Context) {
	var body SetAudioOnlyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		r.bindFailed(c, err)
		return
	}
	if err := r.host.Controller().SetAudioOnly(*body.Value); err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (r *Router) setAudioMuted(c *gin.Context) {
	var body SetMutedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		r.bindFailed(c, err)
		return
	}
	if err := r.host.Controller().SetAudioMuted(*body.Muted); err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (r *Router) setVideoMuted(c *gin.Context) {
	var body SetMutedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		r.bindFailed(c, err)
		return
	}
	if err := r.host.Controller().SetVideoMuted(*body.Muted); err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (r *Router) rooms(c *gin.Context) {
	info, err := r.host.Controller().GetRoomsInfo()
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// settings works without an engine: the title then falls back to the stored one.
func (r *Router) settings(c *gin.Context) {
	ctx := c.Request.Context()
	state, _ := r.host.Controller().State()

	c.JSON(http.StatusOK, SettingsResponse{
		Title:    r.reader.Title(ctx, state),
		Texts:    r.reader.Texts(ctx),
		Bitrates: r.reader.Bitrates(ctx, r.opts.DefaultBitrates),
	})
}

func (r *Router) events(c *gin.Context) {
	r.hub.ServeHTTP(c.Writer, c.Request)
}

func (r *Router) healthCheck(c *gin.Context) {
	body := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"mounted":   r.host.Controller().Ready(),
	}
	if sh := r.host.Shell(); sh != nil {
		body["shell"] = sh.ID()
		body["state"] = sh.State().String()
	}
	c.JSON(http.StatusOK, body)
}
