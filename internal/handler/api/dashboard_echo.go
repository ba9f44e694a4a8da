package api

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/service/metrics"
	"HealthPull/internal/service/ratelimit"
	"HealthPull/internal/usecase"
	xhttp "HealthPull/pkg/http"
	applogger "HealthPull/pkg/logger"
	"HealthPull/pkg/util"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// MetricService loads metric tables and forgets them when a session ends.
type MetricService interface {
	Load(ctx context.Context, session string, q models.Query) (models.RawResponse, models.Table, error)
	Clear(ctx context.Context, session string) error
}

// HandlerOptions carries the request-independent settings of the dashboard.
type HandlerOptions struct {
	SecureCookies bool
	APIBaseURL    string
}

// DashboardHandler serves the dashboard page and its JSON endpoints.
type DashboardHandler struct {
	logger   *applogger.Logger
	loader   MetricService
	builder  *usecase.DashboardBuilder
	dates    *usecase.DateRangeController
	identity *usecase.IdentityResolver
	limiter  *ratelimit.Limiter
	page     *template.Template
	opts     HandlerOptions
}

func NewDashboardHandler(
	logger *applogger.Logger,
	loader MetricService,
	builder *usecase.DashboardBuilder,
	dates *usecase.DateRangeController,
	identity *usecase.IdentityResolver,
	limiter *ratelimit.Limiter,
	opts HandlerOptions,
) (*DashboardHandler, error) {
	metrics.Register()
	page, err := template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &DashboardHandler{
		logger:   logger,
		loader:   loader,
		builder:  builder,
		dates:    dates,
		identity: identity,
		limiter:  limiter,
		page:     page,
		opts:     opts,
	}, nil
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Page)

	g := e.Group("/api")
	g.GET("/window", h.CurrentWindow)
	g.POST("/window", h.AdjustWindow)
	g.GET("/metrics/:kind", h.Metric)
	g.GET("/live", h.Live)
	g.POST("/session/end", h.EndSession)
}

// Page renders the whole dashboard. Nothing that goes wrong while loading
// metrics fails the render; at worst a chart is missing.
func (h *DashboardHandler) Page(c echo.Context) error {
	start := time.Now()
	defer observe("page", start)

	session := sessionID(c, h.opts.SecureCookies)
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.logger.Debug("dashboard params rejected, using defaults", applogger.Any("errors", verr))
		req = &models.DashboardRequest{UserID: req.UserID, Tab: "sleep"}
	}

	subject := h.identity.Resolve(req.UserID, NewCookieIdentityStore(c, h.opts.SecureCookies))
	window := h.window(c, req.Start, req.End)

	d, err := h.builder.Build(c.Request().Context(), session, subject, window, req.Tab)
	if err != nil {
		h.logger.Error("dashboard build failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("dashboard unavailable").WithError(err))
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, newPageData(d, h.opts.APIBaseURL)); err != nil {
		h.logger.Error("dashboard render failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// CurrentWindow returns the session's window and the selectable bounds.
func (h *DashboardHandler) CurrentWindow(c echo.Context) error {
	w, ok := storedWindow(c, h.dates.Location())
	if ok {
		w = h.dates.Normalize(w)
	} else {
		w = h.dates.Default()
	}
	return xhttp.SuccessResponse(c, h.windowResponse(w))
}

// AdjustWindow applies the rolling policy to a slider edit.
func (h *DashboardHandler) AdjustWindow(c echo.Context) error {
	req := &models.AdjustWindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := h.dates.Adjust(h.parseWindow(req.Previous), h.parseWindow(req.Proposed))
	storeWindow(c, h.opts.SecureCookies, w)
	return xhttp.SuccessResponse(c, h.windowResponse(w))
}

// Metric returns the raw payload and normalized table of one kind for the
// linked subject. An unlinked session gets an empty table, not an error.
func (h *DashboardHandler) Metric(c echo.Context) error {
	start := time.Now()
	defer observe("metric", start)

	session := sessionID(c, h.opts.SecureCookies)
	if !h.allow(session, "metrics") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many metric requests"))
	}

	req := &models.MetricRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("kind", err.Error()))
	}

	subject := h.identity.Resolve("", NewCookieIdentityStore(c, h.opts.SecureCookies))
	window := h.dates.Parse(req.Start, req.End)

	raw, table, err := h.loader.Load(c.Request().Context(), session, models.Query{SubjectID: subject, Kind: kind, Window: window})
	if err != nil {
		h.logger.Error("metric load failed", applogger.String("kind", req.Kind), applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.MetricResponse{
		Kind:   string(kind),
		Linked: subject != "",
		Window: models.WindowBody{Start: window.StartDate(), End: window.EndDate()},
		Result: &models.LoadResult{Raw: raw, Table: table},
	})
}

// EndSession drops the session's memoized results and its cookies.
// The linked identity is kept.
func (h *DashboardHandler) EndSession(c echo.Context) error {
	ck, err := c.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return xhttp.SuccessResponse(c, map[string]bool{"cleared": false})
	}
	session := ck.Value
	if err := h.loader.Clear(c.Request().Context(), session); err != nil {
		h.logger.Warn("session cache clear failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not clear session").WithError(err))
	}
	if h.limiter != nil {
		h.limiter.Forget(session + ":")
	}
	jar := cookieJar{c: c, secure: h.opts.SecureCookies}
	jar.expire(SessionCookie)
	jar.expire(WindowCookie)
	return xhttp.SuccessResponse(c, map[string]bool{"cleared": true})
}

// window resolves the window of a page render. The previously shown window
// comes from the session; start/end query values are the user's edit of it.
func (h *DashboardHandler) window(c echo.Context, start, end string) models.Window {
	prev, ok := storedWindow(c, h.dates.Location())
	var w models.Window
	switch {
	case !ok:
		w = h.dates.Parse(start, end)
	case start == "" && end == "":
		w = h.dates.Normalize(prev)
	default:
		w = h.dates.Adjust(prev, h.dates.Parse(start, end))
	}
	storeWindow(c, h.opts.SecureCookies, w)
	return w
}

func (h *DashboardHandler) parseWindow(b models.WindowBody) models.Window {
	return h.dates.Parse(b.Start, b.End)
}

func (h *DashboardHandler) windowResponse(w models.Window) models.WindowResponse {
	minD, maxD := h.dates.Bounds()
	return models.WindowResponse{
		Start:   w.StartDate(),
		End:     w.EndDate(),
		MinDate: util.FormatDate(minD),
		MaxDate: util.FormatDate(maxD),
	}
}

func (h *DashboardHandler) allow(session, endpoint string) bool {
	if h.limiter == nil || h.limiter.Allow(session+":"+endpoint) {
		return true
	}
	metrics.RateLimited.WithLabelValues(endpoint).Inc()
	h.logger.Warn("rate limited", applogger.String("endpoint", endpoint))
	return false
}

func observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

var templateFuncs = template.FuncMap{
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
	"pretty": func(v interface{}) string {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err.Error()
		}
		return string(b)
	},
}
