package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docverify/internal/console"
	"docverify/internal/model"
	"docverify/internal/navigator"
	"docverify/internal/record"
	"docverify/internal/review"
	"docverify/internal/service"
	serviceMocks "docverify/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListStudents(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Get("/students", ListStudents(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Students", mock.Anything).Return([]model.Student{{ID: "ana", FullName: "Ana", ClassName: "VII A"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result studentListResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Students", mock.Anything).Return(nil, errors.New("boom")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "internal server error", body.Error.Message)
	})
}

func TestRefreshStudents(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Post("/students/refresh", RefreshStudents(mockSvc))

	mockSvc.On("Refresh", mock.Anything).Return(nil).Once()
	resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/students/refresh", nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockSvc.On("Refresh", mock.Anything).Return(fmt.Errorf("list students: %w", errors.New("db down"))).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/students/refresh", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestCreateSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Post("/sessions", CreateSession(mockSvc))

	sessID := uuid.NewString()

	t.Run("without target", func(t *testing.T) {
		mockSvc.On("CreateSession", mock.Anything, "").
			Return(&service.Session{ID: sessID, View: console.View{Selection: navigator.Selection{Class: "VII A", StudentID: "ana"}}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/sessions", nil))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var sess service.Session
		json.NewDecoder(resp.Body).Decode(&sess)
		assert.Equal(t, sessID, sess.ID)
		assert.Equal(t, "ana", sess.View.Selection.StudentID)
	})

	t.Run("body target", func(t *testing.T) {
		mockSvc.On("CreateSession", mock.Anything, "bima").Return(&service.Session{ID: sessID}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"target":"bima"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("query target not found", func(t *testing.T) {
		mockSvc.On("CreateSession", mock.Anything, "ghost").Return(nil, navigator.ErrStudentNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/sessions?student=ghost", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "STUDENT_NOT_FOUND", body.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"target":`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestGetSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Get("/sessions/:id", GetSession(mockSvc))

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_ID", body.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("View", mock.Anything, id).Return(console.View{}, service.ErrSessionNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SESSION_NOT_FOUND", body.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("View", mock.Anything, id).Return(console.View{Version: 7, EmptyState: console.EmptyNoDocument}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var view console.View
		json.NewDecoder(resp.Body).Decode(&view)
		assert.Equal(t, uint64(7), view.Version)
		assert.Equal(t, console.EmptyNoDocument, view.EmptyState)
	})
}

func TestDispatchAction(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Post("/sessions/:id/actions", DispatchAction(mockSvc))
	id := uuid.NewString()

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/actions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		want := service.Action{Type: service.ActionDraftNote, Note: "Foto tidak jelas"}
		mockSvc.On("Dispatch", mock.Anything, id, want).
			Return(console.View{Dialog: console.Dialog{Open: true, Draft: "Foto tidak jelas"}}, nil).Once()

		resp := post(`{"type":"draft_note","note":"Foto tidak jelas"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var view console.View
		json.NewDecoder(resp.Body).Decode(&view)
		assert.Equal(t, "Foto tidak jelas", view.Dialog.Draft)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := post(`not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{review.ErrNoDocument, http.StatusConflict, "NO_DOCUMENT"},
		{review.ErrNoteRequired, http.StatusUnprocessableEntity, "NOTE_REQUIRED"},
		{console.ErrReadOnly, http.StatusConflict, "READ_ONLY"},
		{fmt.Errorf("%w: \"a..b\"", record.ErrInvalidPath), http.StatusUnprocessableEntity, "INVALID_PATH"},
		{fmt.Errorf("%w: nisn", record.ErrNotContainer), http.StatusUnprocessableEntity, "NOT_CONTAINER"},
		{fmt.Errorf("%w: zoom is required for set_zoom", service.ErrInvalidAction), http.StatusBadRequest, "INVALID_ACTION"},
		{console.ErrInvalidCategory, http.StatusBadRequest, "INVALID_ACTION"},
		{service.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{errors.New("unexpected"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mockSvc.On("Dispatch", mock.Anything, id, service.Action{Type: service.ActionApprove}).
				Return(console.View{}, tt.err).Once()

			resp := post(`{"type":"approve"}`)

			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorPayload
			json.NewDecoder(resp.Body).Decode(&body)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestCloseSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New()
	app.Delete("/sessions/:id", CloseSession(mockSvc))
	id := uuid.NewString()

	mockSvc.On("CloseSession", mock.Anything, id).Return(nil).Once()
	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockSvc.On("CloseSession", mock.Anything, id).Return(service.ErrSessionNotFound).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestRegisterRoutes(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "docverify_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	mockSvc := new(serviceMocks.MockVerificationService)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, db, reg, mockSvc)

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "docverify_test_total 1")
	})

	t.Run("health", func(t *testing.T) {
		dbMock.ExpectPing()
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("session routes are not cached", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("View", mock.Anything, id).Return(console.View{}, nil).Once()
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/large", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/raw", func(c *fiber.Ctx) error { return errors.New("pq: relation missing") })

	cases := []struct {
		method, target string
		status         int
		code           string
	}{
		{http.MethodPost, "/large", http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"},
		{http.MethodGet, "/teapot", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{http.MethodGet, "/raw", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.target)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tc.code, body.Error.Code)
		assert.NotContains(t, body.Error.Message, "pq:")
	}
}
