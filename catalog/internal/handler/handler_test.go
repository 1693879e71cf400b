package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/catalog/internal/errs"
	"github.com/mac0206/library-system/catalog/internal/handler"
	"github.com/mac0206/library-system/catalog/internal/model"
	"github.com/mac0206/library-system/pkg/validate"

	service_mocks "github.com/mac0206/library-system/catalog/internal/handler/mocks"
)

var (
	testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	testItem = model.Item{
		ID:           "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
		Title:        "Dune",
		Type:         model.TypeBook,
		Availability: true,
		Owner:        "central-library",
		Author:       "Frank Herbert",
		CreatedAt:    testTime,
		UpdatedAt:    testTime,
	}
	testItemJSON = `{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","title":"Dune","type":"book","availability":true,"owner":"central-library","author":"Frank Herbert","createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T10:00:00Z"}`

	testMember = model.Member{
		ID:            "83575e12-7ce0-48ee-9931-51919ff3c9ee",
		Name:          "Paul Atreides",
		StudentID:     "s-100",
		BorrowedItems: model.StringSlice{},
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
	testMemberJSON = `{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","name":"Paul Atreides","studentId":"s-100","borrowedItems":[],"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T10:00:00Z"}`
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return e
}

func TestHandler_CreateItem(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
		bodyContains string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"title":"Dune","owner":"central-library","author":"Frank Herbert"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateItem(gomock.Any(), model.CreateItemRequest{
						Title: "Dune", Owner: "central-library", Author: "Frank Herbert",
					}).
					Return(testItem, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"success":true,"data":` + testItemJSON + `,"message":"Item created successfully"}`,
			},
		},
		{
			// c.Validate rejects before the service is reached
			name:         "err. missing owner",
			body:         `{"title":"Dune"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				bodyContains: "'Owner' failed on the 'required' tag",
			},
		},
		{
			name: "err. whitespace owner passes tags, service rejects",
			body: `{"title":"Dune","owner":"   "}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateItem(gomock.Any(), model.CreateItemRequest{Title: "Dune", Owner: "   "}).
					Return(model.Item{}, errs.ErrOwnerRequired)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"error":"item must have an owner"}`,
			},
		},
		{
			name: "err. invalid type",
			body: `{"title":"Dune","owner":"central-library","type":"vinyl"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					Return(model.Item{}, errs.ErrInvalidItemType)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"error":"invalid item type"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := newEcho()
			e.POST("/api/items", h.CreateItem)

			r := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.bodyContains != "" {
				require.Contains(t, w.Body.String(), tt.response.bodyContains)
			} else {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_GetItems(t *testing.T) {
	t.Parallel()
	items := []model.Item{testItem}
	wantList := `{"success":true,"data":[` + testItemJSON + `],"count":1}`

	var tests = []struct {
		name         string
		target       string
		register     func(e *echo.Echo, h *handler.Handler)
		mockBehavior func(r *service_mocks.MockCatalogService)
	}{
		{
			name:   "all",
			target: "/api/items",
			register: func(e *echo.Echo, h *handler.Handler) {
				e.GET("/api/items", h.GetAllItems)
			},
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().GetAllItems(gomock.Any()).Return(items, nil)
			},
		},
		{
			name:   "available",
			target: "/api/items/available",
			register: func(e *echo.Echo, h *handler.Handler) {
				e.GET("/api/items/available", h.GetAvailableItems)
			},
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().GetAvailableItems(gomock.Any()).Return(items, nil)
			},
		},
		{
			name:   "by owner",
			target: "/api/items/owner/central-library",
			register: func(e *echo.Echo, h *handler.Handler) {
				e.GET("/api/items/owner/:owner", h.GetItemsByOwner)
			},
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().GetItemsByOwner(gomock.Any(), "central-library").Return(items, nil)
			},
		},
		{
			name:   "by type",
			target: "/api/items/type/book",
			register: func(e *echo.Echo, h *handler.Handler) {
				e.GET("/api/items/type/:type", h.GetItemsByType)
			},
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().GetItemsByType(gomock.Any(), model.TypeBook).Return(items, nil)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := newEcho()
			tt.register(e, h)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, wantList, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetItemByID(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().GetItemByID(gomock.Any(), testItem.ID).Return(testItem, nil)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.GET("/api/items/:id", h.GetItemByID)

		r := httptest.NewRequest(http.MethodGet, "/api/items/"+testItem.ID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, `{"success":true,"data":`+testItemJSON+`}`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().GetItemByID(gomock.Any(), "missing").Return(model.Item{}, errs.ErrItemNotFound)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.GET("/api/items/:id", h.GetItemByID)

		r := httptest.NewRequest(http.MethodGet, "/api/items/missing", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"success":false,"error":"item not found"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_UpdateItem(t *testing.T) {
	t.Parallel()

	t.Run("ok. availability flip", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		updated := testItem
		updated.Availability = false
		svc.EXPECT().
			UpdateItem(gomock.Any(), testItem.ID, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ string, req model.UpdateItemRequest) (model.Item, error) {
				require.NotNil(t, req.Availability)
				require.False(t, *req.Availability)
				require.Nil(t, req.Title)
				return updated, nil
			})

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.PUT("/api/items/:id", h.UpdateItem)

		r := httptest.NewRequest(http.MethodPut, "/api/items/"+testItem.ID, strings.NewReader(`{"availability":false}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"availability":false`)
		require.Contains(t, w.Body.String(), "Item updated successfully")
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().
			UpdateItem(gomock.Any(), "missing", gomock.Any()).
			Return(model.Item{}, errs.ErrItemNotFound)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.PUT("/api/items/:id", h.UpdateItem)

		r := httptest.NewRequest(http.MethodPut, "/api/items/missing", strings.NewReader(`{"availability":true}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_DeleteItem(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().DeleteItem(gomock.Any(), testItem.ID).Return(nil)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.DELETE("/api/items/:id", h.DeleteItem)

		r := httptest.NewRequest(http.MethodDelete, "/api/items/"+testItem.ID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Item deleted successfully")
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().DeleteItem(gomock.Any(), "missing").Return(errs.ErrItemNotFound)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.DELETE("/api/items/:id", h.DeleteItem)

		r := httptest.NewRequest(http.MethodDelete, "/api/items/missing", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Members(t *testing.T) {
	t.Parallel()

	t.Run("create ok", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().
			CreateMember(gomock.Any(), model.CreateMemberRequest{Name: "Paul Atreides", StudentID: "s-100"}).
			Return(testMember, nil)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.POST("/api/members", h.CreateMember)

		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"Paul Atreides","studentId":"s-100"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t,
			`{"success":true,"data":`+testMemberJSON+`,"message":"Member created successfully"}`,
			strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("create duplicate studentId", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().
			CreateMember(gomock.Any(), gomock.Any()).
			Return(model.Member{}, errs.ErrDuplicateStudentID)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.POST("/api/members", h.CreateMember)

		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"Paul","studentId":"s-100"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("create missing studentId fails validation", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		// c.Validate rejects before the service is reached
		svc := service_mocks.NewMockCatalogService(c)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.POST("/api/members", h.CreateMember)

		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"Paul"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "'StudentID' failed on the 'required' tag")
	})

	t.Run("get by id returns bare entity", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().GetMemberByID(gomock.Any(), testMember.ID).Return(testMember, nil)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.GET("/api/members/:id", h.GetMemberByID)

		r := httptest.NewRequest(http.MethodGet, "/api/members/"+testMember.ID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, testMemberJSON, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("get by studentId", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().GetMemberByStudentID(gomock.Any(), "s-100").Return(testMember, nil)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.GET("/api/members/student/:studentId", h.GetMemberByStudentID)

		r := httptest.NewRequest(http.MethodGet, "/api/members/student/s-100", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, testMemberJSON, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("update borrowedItems", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		updated := testMember
		updated.BorrowedItems = model.StringSlice{"item-1"}
		svc.EXPECT().
			UpdateMember(gomock.Any(), testMember.ID, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ string, req model.UpdateMemberRequest) (model.Member, error) {
				require.NotNil(t, req.BorrowedItems)
				require.Equal(t, []string{"item-1"}, *req.BorrowedItems)
				return updated, nil
			})

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.PUT("/api/members/:id", h.UpdateMember)

		r := httptest.NewRequest(http.MethodPut, "/api/members/"+testMember.ID,
			strings.NewReader(`{"borrowedItems":["item-1"]}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"borrowedItems":["item-1"]`)
	})

	t.Run("member not found", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockCatalogService(c)
		svc.EXPECT().GetMemberByID(gomock.Any(), "missing").
			Return(model.Member{}, errs.ErrMemberNotFound)

		h := handler.New(svc, zap.NewExample().Named("test"))
		e := newEcho()
		e.GET("/api/members/:id", h.GetMemberByID)

		r := httptest.NewRequest(http.MethodGet, "/api/members/missing", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"success":false,"error":"member not found"}`, strings.Trim(w.Body.String(), "\n"))
	})
}
