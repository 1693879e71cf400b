package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/internal/errs"
	"github.com/mac0206/library-system/circulation/internal/model"
	"github.com/mac0206/library-system/pkg/validate"
)

type Handler struct {
	circulationSvc CirculationService
	log            *zap.Logger
}

func New(circulationSvc CirculationService, log *zap.Logger) *Handler {
	return &Handler{
		circulationSvc: circulationSvc,
		log:            log,
	}
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
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

	api.POST("/loans/borrow", h.Borrow)
	api.POST("/loans/return", h.ReturnByItem)
	api.GET("/loans", h.GetAllLoans)
	api.GET("/loans/active", h.GetActiveLoans)
	api.GET("/loans/overdue", h.GetOverdueLoans)
	api.GET("/loans/member/:memberId", h.GetLoansByMember)
	api.GET("/loans/item/:itemId", h.GetLoansByItem)
	api.GET("/loans/:id", h.GetLoanByID)
	api.GET("/items/:itemId/availability", h.CheckAvailability)

	// legacy routes kept for backward compatibility
	api.POST("/loans", h.Borrow)
	api.POST("/returns/loan/:loanId", h.ReturnByLoanID)
	api.POST("/returns/book/:bookId", h.ReturnByItem)
	api.POST("/returns/update-overdue", h.UpdateOverdue)
	api.GET("/books/:bookId/availability", h.CheckAvailability)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) HealthDependencies(c echo.Context) error {
	deps := map[string]any{"catalog": map[string]any{"healthy": true}}
	if err := h.circulationSvc.CheckCatalogHealth(c.Request().Context()); err != nil {
		deps["catalog"] = map[string]any{"healthy": false, "message": err.Error()}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"service":      "circulation",
		"dependencies": deps,
	})
}

func (h *Handler) Borrow(c echo.Context) error {
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	itemID, memberID := req.CanonicalItemID(), req.CanonicalMemberID()
	if itemID == "" || memberID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "itemId (or bookId) and borrowerMemberId (or memberId) are required",
		})
	}
	days := req.Days
	if days == 0 {
		days = model.DefaultLoanDays
	}

	loan, err := h.circulationSvc.Borrow(c.Request().Context(), itemID, memberID, days)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, successResponse{
		Success: true,
		Data:    loan,
		Message: "Item borrowed successfully",
	})
}

func (h *Handler) ReturnByItem(c echo.Context) error {
	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	itemID := req.CanonicalItemID()
	if itemID == "" {
		itemID = c.Param("bookId")
	}
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "itemId (or bookId) is required"})
	}

	loan, err := h.circulationSvc.ReturnByItemID(c.Request().Context(), itemID)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Data:    loan,
		Message: "The librarian has successfully returned the item to the library",
	})
}

func (h *Handler) ReturnByLoanID(c echo.Context) error {
	loan, err := h.circulationSvc.Return(c.Request().Context(), c.Param("loanId"))
	if err != nil {
		return echo.NewHTTPError(statusOf(err, http.StatusBadRequest), err.Error())
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) UpdateOverdue(c echo.Context) error {
	count, err := h.circulationSvc.UpdateOverdue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"updated": count,
		"message": fmt.Sprintf("Updated %d overdue items", count),
	})
}

func (h *Handler) GetAllLoans(c echo.Context) error {
	return h.listLoans(c, h.circulationSvc.GetAllLoans)
}

func (h *Handler) GetActiveLoans(c echo.Context) error {
	return h.listLoans(c, h.circulationSvc.GetActiveLoans)
}

func (h *Handler) GetOverdueLoans(c echo.Context) error {
	return h.listLoans(c, h.circulationSvc.GetOverdueLoans)
}

func (h *Handler) GetLoansByMember(c echo.Context) error {
	loans, err := h.circulationSvc.GetLoansByMemberID(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoansByItem(c echo.Context) error {
	loans, err := h.circulationSvc.GetLoansByItemID(c.Request().Context(), c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoanByID(c echo.Context) error {
	loan, err := h.circulationSvc.GetLoanByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(statusOf(err, http.StatusInternalServerError), err.Error())
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	itemID := c.Param("itemId")
	if itemID == "" {
		itemID = c.Param("bookId")
	}
	available, err := h.circulationSvc.CheckAvailability(c.Request().Context(), itemID)
	if err != nil {
		return echo.NewHTTPError(statusOf(err, http.StatusInternalServerError), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) listLoans(c echo.Context, list func(ctx context.Context) ([]model.Loan, error)) error {
	loans, err := list(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

// statusOf maps the error taxonomy to HTTP: not-found is always 404,
// business conflicts 400, everything else the caller's fallback.
func statusOf(err error, fallback int) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsConflict(err):
		return http.StatusBadRequest
	default:
		return fallback
	}
}
