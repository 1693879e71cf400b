package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/pkg/validate"
)

type Handler struct {
	reportingSvc ReportingService
	log          *zap.Logger
}

func New(reportingSvc ReportingService, log *zap.Logger) *Handler {
	return &Handler{
		reportingSvc: reportingSvc,
		log:          log,
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/manage/health/dependencies", h.HealthDependencies)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.GET("/dashboard", h.Dashboard)
	api.GET("/dashboard/stats", h.Dashboard)
	api.GET("/dashboard/stored", h.StoredDashboard)
	api.GET("/dashboard/overdue", h.OverdueLoans)
	api.GET("/loans/history", h.BorrowingHistory)
	api.GET("/statistics/most-borrowed", h.MostBorrowed)
	api.GET("/statistics/borrowing-history", h.BorrowingHistory)
	api.GET("/statistics/overdue", h.OverdueLoans)
	api.GET("/statistics/member-stats", h.MemberStats)
	api.GET("/events", h.ListEvents)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) HealthDependencies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":      "reporting",
		"dependencies": h.reportingSvc.CheckDependencies(c.Request().Context()),
	})
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.reportingSvc.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) StoredDashboard(c echo.Context) error {
	stats, err := h.reportingSvc.StoredDashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) MostBorrowed(c echo.Context) error {
	stats, err := h.reportingSvc.MostBorrowed(c.Request().Context(), limitParam(c))
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) MemberStats(c echo.Context) error {
	stats, err := h.reportingSvc.MemberStats(c.Request().Context(), limitParam(c))
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) BorrowingHistory(c echo.Context) error {
	history, err := h.reportingSvc.BorrowingHistory(c.Request().Context(),
		c.QueryParam("memberId"), c.QueryParam("itemId"))
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) OverdueLoans(c echo.Context) error {
	history, err := h.reportingSvc.OverdueLoans(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.reportingSvc.ListEvents(c.Request().Context(), limitParam(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, events)
}

func limitParam(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		return 0
	}
	return limit
}

