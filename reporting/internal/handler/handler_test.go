package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/reporting/internal/handler"
	"github.com/mac0206/library-system/reporting/internal/model"

	service_mocks "github.com/mac0206/library-system/reporting/internal/handler/mocks"
)

var (
	testTime  = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	testStats = model.DashboardStats{
		TotalItems:     12,
		TotalMembers:   5,
		ActiveLoans:    3,
		OverdueLoans:   1,
		AvailableItems: 9,
		LastUpdated:    testTime,
	}
	testStatsJSON = `{"totalItems":12,"totalMembers":5,"activeLoans":3,"overdueLoans":1,"availableItems":9,"lastUpdated":"2024-03-01T10:00:00Z"}`

	testLoan = model.Loan{
		ID:         "loan-1",
		ItemID:     "item-1",
		MemberID:   "member-1",
		BorrowDate: testTime,
		DueDate:    testTime.AddDate(0, 0, 14),
		Status:     "active",
	}
	testLoanJSON = `{"id":"loan-1","itemId":"item-1","memberId":"member-1","borrowDate":"2024-03-01T10:00:00Z","dueDate":"2024-03-15T10:00:00Z","isOverdue":false,"status":"active"}`

	testHistory = model.BorrowingHistory{
		Loan:       testLoan,
		ItemTitle:  "Dune",
		MemberName: "Carol",
	}
	testHistoryJSON = `{"loan":` + testLoanJSON + `,"itemTitle":"Dune","memberName":"Carol"}`
)

func serve(t *testing.T, mockBehavior func(svc *service_mocks.MockReportingService), method, target string) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockReportingService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	e := h.NewRouter()

	r := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()

	mockBehavior(svc)
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_Dashboard(t *testing.T) {
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(svc *service_mocks.MockReportingService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			target: "/api/dashboard",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().Dashboard(gomock.Any()).Return(testStats, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: testStatsJSON,
			},
		},
		{
			name:   "ok. stats alias",
			target: "/api/dashboard/stats",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().Dashboard(gomock.Any()).Return(testStats, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: testStatsJSON,
			},
		},
		{
			name:   "err. upstream down",
			target: "/api/dashboard",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().Dashboard(gomock.Any()).
					Return(model.DashboardStats{}, errors.New("connection refused"))
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"success":false,"error":"connection refused"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.mockBehavior, http.MethodGet, tt.target)
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_StoredDashboard(t *testing.T) {
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(svc *service_mocks.MockReportingService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().StoredDashboard(gomock.Any()).Return(testStats, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: testStatsJSON,
			},
		},
		{
			name: "err. no snapshot",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().StoredDashboard(gomock.Any()).
					Return(model.DashboardStats{}, errors.New("no rows in result set"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"success":false,"error":"no rows in result set"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.mockBehavior, http.MethodGet, "/api/dashboard/stored")
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_MostBorrowed(t *testing.T) {
	stats := []model.ItemBorrowingStats{
		{ItemID: "item-1", Title: "Dune", Author: "Herbert", BorrowCount: 3},
		{ItemID: "item-2", Title: model.Unknown, Author: model.Unknown, BorrowCount: 1},
	}
	expectedBody := `[{"itemId":"item-1","title":"Dune","author":"Herbert","borrowCount":3},{"itemId":"item-2","title":"Unknown","author":"Unknown","borrowCount":1}]`

	t.Run("ok. default limit", func(t *testing.T) {
		w := serve(t, func(svc *service_mocks.MockReportingService) {
			svc.EXPECT().MostBorrowed(gomock.Any(), 0).Return(stats, nil)
		}, http.MethodGet, "/api/statistics/most-borrowed")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, expectedBody, strings.Trim(w.Body.String(), "\n"))
	})
	t.Run("ok. explicit limit", func(t *testing.T) {
		w := serve(t, func(svc *service_mocks.MockReportingService) {
			svc.EXPECT().MostBorrowed(gomock.Any(), 5).Return(stats, nil)
		}, http.MethodGet, "/api/statistics/most-borrowed?limit=5")
		require.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("err. circulation down", func(t *testing.T) {
		w := serve(t, func(svc *service_mocks.MockReportingService) {
			svc.EXPECT().MostBorrowed(gomock.Any(), 0).
				Return(nil, errors.New("connection refused"))
		}, http.MethodGet, "/api/statistics/most-borrowed")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, `{"success":false,"error":"connection refused"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_MemberStats(t *testing.T) {
	stats := []model.MemberBorrowingStats{
		{MemberID: "member-1", Name: "Carol", StudentID: "S-1", BorrowCount: 2},
	}
	w := serve(t, func(svc *service_mocks.MockReportingService) {
		svc.EXPECT().MemberStats(gomock.Any(), 0).Return(stats, nil)
	}, http.MethodGet, "/api/statistics/member-stats")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"memberId":"member-1","name":"Carol","studentId":"S-1","borrowCount":2}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_BorrowingHistory(t *testing.T) {
	type mockBehavior func(svc *service_mocks.MockReportingService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
	}{
		{
			name:   "ok. loans history route",
			target: "/api/loans/history",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().BorrowingHistory(gomock.Any(), "", "").
					Return([]model.BorrowingHistory{testHistory}, nil)
			},
		},
		{
			name:   "ok. statistics route with member filter",
			target: "/api/statistics/borrowing-history?memberId=member-1",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().BorrowingHistory(gomock.Any(), "member-1", "").
					Return([]model.BorrowingHistory{testHistory}, nil)
			},
		},
		{
			name:   "ok. item filter",
			target: "/api/loans/history?itemId=item-1",
			mockBehavior: func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().BorrowingHistory(gomock.Any(), "", "item-1").
					Return([]model.BorrowingHistory{testHistory}, nil)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.mockBehavior, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, `[`+testHistoryJSON+`]`, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_OverdueLoans(t *testing.T) {
	for _, target := range []string{"/api/statistics/overdue", "/api/dashboard/overdue"} {
		target := target
		t.Run(target, func(t *testing.T) {
			w := serve(t, func(svc *service_mocks.MockReportingService) {
				svc.EXPECT().OverdueLoans(gomock.Any()).
					Return([]model.BorrowingHistory{testHistory}, nil)
			}, http.MethodGet, target)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, `[`+testHistoryJSON+`]`, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListEvents(t *testing.T) {
	events := []model.LoanEventRecord{
		{
			ID:        1,
			EventType: kafka.EventLoanBorrowed,
			LoanID:    "loan-1",
			ItemID:    "item-1",
			MemberID:  "member-1",
			Timestamp: testTime,
			CreatedAt: testTime,
		},
	}
	w := serve(t, func(svc *service_mocks.MockReportingService) {
		svc.EXPECT().ListEvents(gomock.Any(), 0).Return(events, nil)
	}, http.MethodGet, "/api/events")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":1,"eventType":"loan.borrowed","loanId":"loan-1","itemId":"item-1","memberId":"member-1","overdueCount":0,"timestamp":"2024-03-01T10:00:00Z","createdAt":"2024-03-01T10:00:00Z"}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_HealthDependencies(t *testing.T) {
	w := serve(t, func(svc *service_mocks.MockReportingService) {
		svc.EXPECT().CheckDependencies(gomock.Any()).Return(map[string]model.DependencyStatus{
			"catalog":     {Healthy: true},
			"circulation": {Message: "connection refused"},
		})
	}, http.MethodGet, "/manage/health/dependencies")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"dependencies":{"catalog":{"healthy":true},"circulation":{"healthy":false,"message":"connection refused"}},"service":"reporting"}`,
		strings.Trim(w.Body.String(), "\n"))
}
