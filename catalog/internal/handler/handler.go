package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/catalog/internal/errs"
	"github.com/mac0206/library-system/catalog/internal/model"
	"github.com/mac0206/library-system/pkg/validate"
)

type Handler struct {
	catalogSvc CatalogService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		log:        log,
	}
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Count   int         `json:"count"`
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

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	items := api.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.GetAllItems)
	items.GET("/available", h.GetAvailableItems)
	items.GET("/owner/:owner", h.GetItemsByOwner)
	items.GET("/type/:type", h.GetItemsByType)
	items.GET("/:id", h.GetItemByID)
	items.PUT("/:id", h.UpdateItem)
	items.DELETE("/:id", h.DeleteItem)

	// legacy book routes kept for services still on the old resource name
	books := api.Group("/books")
	books.POST("", h.CreateItem)
	books.GET("", h.GetAllItems)
	books.GET("/available", h.GetAvailableItems)
	books.GET("/:id", h.GetItemByID)
	books.PUT("/:id", h.UpdateItem)
	books.DELETE("/:id", h.DeleteItem)

	members := api.Group("/members")
	members.POST("", h.CreateMember)
	members.GET("", h.GetAllMembers)
	members.GET("/student/:studentId", h.GetMemberByStudentID)
	members.GET("/:id", h.GetMemberByID)
	members.PUT("/:id", h.UpdateMember)
	members.DELETE("/:id", h.DeleteMember)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateItem(c echo.Context) error {
	var req model.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	item, err := h.catalogSvc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, successResponse{
		Success: true,
		Data:    item,
		Message: "Item created successfully",
	})
}

func (h *Handler) GetAllItems(c echo.Context) error {
	items, err := h.catalogSvc.GetAllItems(c.Request().Context())
	return h.listItems(c, items, err)
}

func (h *Handler) GetAvailableItems(c echo.Context) error {
	items, err := h.catalogSvc.GetAvailableItems(c.Request().Context())
	return h.listItems(c, items, err)
}

func (h *Handler) GetItemsByOwner(c echo.Context) error {
	items, err := h.catalogSvc.GetItemsByOwner(c.Request().Context(), c.Param("owner"))
	return h.listItems(c, items, err)
}

func (h *Handler) GetItemsByType(c echo.Context) error {
	items, err := h.catalogSvc.GetItemsByType(c.Request().Context(), model.ItemType(c.Param("type")))
	return h.listItems(c, items, err)
}

func (h *Handler) GetItemByID(c echo.Context) error {
	item, err := h.catalogSvc.GetItemByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: item})
}

func (h *Handler) UpdateItem(c echo.Context) error {
	var req model.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	item, err := h.catalogSvc.UpdateItem(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Data:    item,
		Message: "Item updated successfully",
	})
}

func (h *Handler) DeleteItem(c echo.Context) error {
	if err := h.catalogSvc.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Item deleted successfully",
	})
}

func (h *Handler) CreateMember(c echo.Context) error {
	var req model.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	member, err := h.catalogSvc.CreateMember(c.Request().Context(), req)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, successResponse{
		Success: true,
		Data:    member,
		Message: "Member created successfully",
	})
}

func (h *Handler) GetAllMembers(c echo.Context) error {
	members, err := h.catalogSvc.GetAllMembers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: members, Count: len(members)})
}

// Member reads answer with the bare entity, not the envelope; the
// circulation core decodes both shapes but the historical member API
// never wrapped single entities.
func (h *Handler) GetMemberByID(c echo.Context) error {
	member, err := h.catalogSvc.GetMemberByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) GetMemberByStudentID(c echo.Context) error {
	member, err := h.catalogSvc.GetMemberByStudentID(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) UpdateMember(c echo.Context) error {
	var req model.UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	member, err := h.catalogSvc.UpdateMember(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return c.JSON(statusOf(err, http.StatusBadRequest), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteMember(c echo.Context) error {
	if err := h.catalogSvc.DeleteMember(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "Member deleted successfully",
	})
}

func (h *Handler) listItems(c echo.Context, items []model.Item, err error) error {
	if err != nil {
		return c.JSON(statusOf(err, http.StatusInternalServerError), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: items, Count: len(items)})
}

// statusOf maps the error taxonomy to HTTP: not-found 404, validation
// failures 400, everything else the caller's fallback.
func statusOf(err error, fallback int) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsValidation(err):
		return http.StatusBadRequest
	default:
		return fallback
	}
}
