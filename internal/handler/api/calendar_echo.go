package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/internal/service/ratelimit"
	xhttp "EconPull/pkg/http"
	xlogger "EconPull/pkg/logger"
)

const (
	refreshBurst      = 3
	refreshRefillRate = 1.0 / 60
)

// CalendarReader is the read side the handler serves from.
type CalendarReader interface {
	Query(ctx context.Context, filters models.CalendarFilters) (*models.QueryResult, error)
	Status(ctx context.Context) (*models.SnapshotStatus, error)
}

// CalendarEchoHandler exposes calendar query, status and refresh endpoints.
type CalendarEchoHandler struct {
	logger     *xlogger.Logger
	reader     CalendarReader
	dispatcher domrepo.RefreshDispatcher
	limiter    *ratelimit.Limiter
	now        func() time.Time
}

// NewCalendarEchoHandler builds the handler. A nil dispatcher disables
// refresh; the endpoint then answers 503.
func NewCalendarEchoHandler(logger *xlogger.Logger, reader CalendarReader, dispatcher domrepo.RefreshDispatcher, limiter *ratelimit.Limiter) *CalendarEchoHandler {
	if limiter == nil {
		limiter = ratelimit.New()
	}
	return &CalendarEchoHandler{
		logger:     logger,
		reader:     reader,
		dispatcher: dispatcher,
		limiter:    limiter,
		now:        time.Now,
	}
}

func (h *CalendarEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/calendar")
	g.GET("", h.Calendar)
	g.GET("/status", h.Status)
	g.POST("/refresh", h.Refresh)
	e.GET("/health", h.Health)
}

// Calendar answers with the bare QueryResult object; API consumers read
// events/lastUpdated/isRealData at the top level.
func (h *CalendarEchoHandler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.reader.Query(c.Request().Context(), req.Filters())
	if err != nil {
		h.logger.Error("calendar query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("calendar unavailable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return c.JSON(http.StatusOK, res)
}

func (h *CalendarEchoHandler) Status(c echo.Context) error {
	st, err := h.reader.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("calendar status error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("calendar unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, st)
}

// Refresh queues an aggregation run for the worker and returns immediately.
func (h *CalendarEchoHandler) Refresh(c echo.Context) error {
	if h.dispatcher == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("refresh is not configured"))
	}
	if !h.limiter.Allow("refresh:"+c.RealIP(), refreshBurst, refreshRefillRate) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limit exceeded"))
	}

	body := &models.RefreshHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, body); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	req := models.RefreshRequest{
		RequestID:   uuid.NewString(),
		RequestedAt: h.now().UTC(),
		Reason:      body.Reason,
	}
	if err := h.dispatcher.DispatchRefresh(c.Request().Context(), req); err != nil {
		h.logger.Error("refresh dispatch error", xlogger.String("request_id", req.RequestID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("refresh queue unavailable").WithError(err))
	}
	return xhttp.AcceptedResponse(c, req)
}

// Health reports liveness plus whether a real snapshot is being served.
func (h *CalendarEchoHandler) Health(c echo.Context) error {
	st, err := h.reader.Status(c.Request().Context())
	if err != nil && !errors.Is(err, domrepo.ErrSnapshotNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("snapshot store unreachable").WithError(err))
	}
	out := map[string]interface{}{"status": "ok"}
	if st != nil {
		out["snapshot"] = st.IsRealData
		out["ageSeconds"] = st.AgeSeconds
	}
	return xhttp.SuccessResponse(c, out)
}
