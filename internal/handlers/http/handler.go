package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

const (
	timeoutDuration = 10 * time.Second
	recordTimeout   = 3 * time.Second
)

type weatherResolver interface {
	Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

type historyStore interface {
	GetAll(ctx context.Context) []string
	Record(ctx context.Context, city string)
	Remove(ctx context.Context, city string)
	Clear(ctx context.Context)
}

type previewLoader interface {
	Load(ctx context.Context, cities []string) map[string]models.WeatherSnapshot
}

type Handler struct {
	resolver weatherResolver
	history  historyStore
	preview  previewLoader
	logger   zerolog.Logger
	timeout  time.Duration
}

type Option func(*Handler)

// WithTimeout bounds weather resolution per request.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

func NewHandler(
	resolver weatherResolver,
	history historyStore,
	preview previewLoader,
	logger zerolog.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		resolver: resolver,
		history:  history,
		preview:  preview,
		logger:   logger,
		timeout:  timeoutDuration,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the lookup and history routes under /api.
// A city containing "/" must be sent escaped as %2F to DELETE /api/history/:city,
// and the engine must route on the raw path (gin.Engine.UseRawPath).
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api")
	api.GET("/weather", h.GetWeather)
	api.GET("/history", h.GetHistory)
	api.GET("/history/preview", h.GetHistoryPreview)
	api.DELETE("/history/:city", h.RemoveCity)
	api.DELETE("/history", h.ClearHistory)
}

func (h *Handler) GetWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	data, err := h.resolver.Resolve(ctxWithTimeout, city)
	if err != nil {
		h.logger.Warn().
			Ctx(c.Request.Context()).
			Str("city", city).
			Err(err).
			Msg("weather lookup failed")
		c.JSON(statusFor(err), gin.H{"error": models.UserMessage(err)})
		return
	}

	// the resolve deadline may already be spent
	recordCtx, cancelRecord := context.WithTimeout(context.WithoutCancel(c.Request.Context()), recordTimeout)
	defer cancelRecord()
	h.history.Record(recordCtx, city)

	c.JSON(http.StatusOK, data)
}

func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.history.GetAll(c.Request.Context())})
}

func (h *Handler) GetHistoryPreview(c *gin.Context) {
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list := h.history.GetAll(ctxWithTimeout)
	c.JSON(http.StatusOK, gin.H{
		"history": list,
		"weather": h.preview.Load(ctxWithTimeout, list),
	})
}

func (h *Handler) RemoveCity(c *gin.Context) {
	h.history.Remove(c.Request.Context(), c.Param("city"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearHistory(c *gin.Context) {
	h.history.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
