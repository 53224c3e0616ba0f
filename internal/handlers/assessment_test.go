package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/assessment"
	"github.com/spendsense/spendsense-backend/internal/cache"
	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/middleware"
	"github.com/spendsense/spendsense-backend/internal/services"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	flow, err := assessment.DefaultFlow()
	if err != nil {
		t.Fatalf("flow: %v", err)
	}
	assessmentService := services.NewAssessmentService(log, flow, cache.NewMemorySessionStore())
	handler := NewAssessmentHandler(assessmentService)
	session := middleware.NewSessionMiddleware(log, false)

	router := gin.New()
	api := router.Group("/api")
	api.Use(session.EnsureSession())
	api.GET("/assessment", handler.Snapshot)
	api.POST("/assessment/answers", handler.SubmitAnswer)
	api.POST("/assessment/goto", handler.Goto)
	api.GET("/assessment/results", handler.Results)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAssessmentEndpoints_SessionCookieAndProgress(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/assessment", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d, body %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == "ss_session" {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatalf("no ss_session cookie set")
	}

	var view struct {
		CurrentStep int `json:"currentStep"`
		Question    *struct {
			ID string `json:"id"`
		} `json:"question"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if view.CurrentStep != 1 || view.Question == nil || view.Question.ID != "business_name" {
		t.Fatalf("unexpected initial snapshot: %s", w.Body.String())
	}

	// Answering under the same cookie advances the same session.
	w = doJSON(t, router, http.MethodPost, "/api/assessment/answers",
		`{"question_id":"business_name","value":"Tony's"}`, []*http.Cookie{sessionCookie})
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if view.CurrentStep != 2 {
		t.Fatalf("expected step 2 after answer, got %d", view.CurrentStep)
	}
}

func TestAssessmentEndpoints_ErrorMapping(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/assessment", "", nil)
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "ss_session" {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatalf("no ss_session cookie set")
	}
	cookies := []*http.Cookie{sessionCookie}

	w = doJSON(t, router, http.MethodPost, "/api/assessment/answers",
		`{"question_id":"bogus","value":"x"}`, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown question status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/assessment/answers",
		`{"question_id":"readiness","value":99}`, cookies)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid answer status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/assessment/results", "", cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("early results status = %d", w.Code)
	}
}

func TestAssessmentEndpoints_GotoNormalizes(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/assessment", "", nil)
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "ss_session" {
			sessionCookie = ck
		}
	}
	cookies := []*http.Cookie{sessionCookie}

	w = doJSON(t, router, http.MethodPost, "/api/assessment/goto", `{"step":500}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("goto status = %d", w.Code)
	}
	var view struct {
		CurrentStep int `json:"currentStep"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode goto: %v", err)
	}
	if view.CurrentStep != 1 {
		t.Fatalf("out-of-range goto landed at %d, want 1", view.CurrentStep)
	}
}
