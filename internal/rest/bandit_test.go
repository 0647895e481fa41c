package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banditHub/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDecisionService struct {
	decision    domain.Decision
	decideErr   error
	feedbackErr error
	arms        []domain.ArmView

	lastBandit    string
	lastEventType string
}

func (f *fakeDecisionService) Decide(_ context.Context, banditKey string, _ map[string]any) (domain.Decision, error) {
	f.lastBandit = banditKey
	return f.decision, f.decideErr
}

func (f *fakeDecisionService) Feedback(_ context.Context, _, eventType string, _ float64, _ map[string]any) error {
	f.lastEventType = eventType
	return f.feedbackErr
}

func (f *fakeDecisionService) ListArms(_ context.Context, banditKey string) ([]domain.ArmView, error) {
	f.lastBandit = banditKey
	return f.arms, nil
}

func TestDecideHandler(t *testing.T) {
	svc := &fakeDecisionService{decision: domain.Decision{
		BanditKey:  "homepage",
		ArmKey:     "banner_a",
		DecisionID: "d-1",
		Token:      "tok",
	}}
	h := NewDecisionHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions?bandit=homepage&platform=web", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Decide(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "homepage", svc.lastBandit)
	assert.Contains(t, rec.Body.String(), "banner_a")
	assert.Contains(t, rec.Body.String(), "tok")
}

func TestDecideHandlerMissingBandit(t *testing.T) {
	h := NewDecisionHandler(&fakeDecisionService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Decide(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecideHandlerServiceError(t *testing.T) {
	h := NewDecisionHandler(&fakeDecisionService{decideErr: errors.New("boom")})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions?bandit=homepage", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Decide(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestFeedbackHandler(t *testing.T) {
	svc := &fakeDecisionService{}
	h := NewDecisionHandler(svc)

	body := `{"token":"tok","event_type":"click","value":2500}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions/feedback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Feedback(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "click", svc.lastEventType)
}

func TestFeedbackHandlerRejectsBadEventType(t *testing.T) {
	h := NewDecisionHandler(&fakeDecisionService{})

	body := `{"token":"tok","event_type":"hover"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions/feedback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Feedback(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListArmsHandler(t *testing.T) {
	svc := &fakeDecisionService{arms: []domain.ArmView{
		{Key: "banner_a", Mean: 0.7, Pulls: 12, LastPulled: true},
		{Key: "banner_b", Mean: 0.3, Pulls: 4},
	}}
	h := NewDecisionHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions/arms?bandit=homepage", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListArms(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "banner_a")
	assert.Contains(t, rec.Body.String(), "banner_b")
}
